package validation_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/breezi/internal/validation"
)

type signup struct {
	Username string
	Email    string
	Password string
}

func testValidator(t *testing.T) *validation.Validator {
	t.Helper()

	patterns, err := validation.NewPatternCache(map[string]string{
		"username": `^[a-zA-Z0-9_]{1,32}$`,
		"digits":   `^[0-9]+$`,
	})
	require.NoError(t, err)
	return validation.New(patterns)
}

func signupSchema() validation.Schema[signup] {
	return validation.MustSchema("Signup",
		validation.FieldOf("username", func(s signup) string { return s.Username }, validation.Pattern("username")),
		validation.FieldOf("email", func(s signup) string { return s.Email }, validation.Email()),
		validation.FieldOf("password", func(s signup) string { return s.Password }, validation.Length(5, 1024)),
	)
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	v := testValidator(t)

	t.Run("length accepts bounds inclusively", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, v.Evaluate(validation.Length(5, 8), "abcde"))
		assert.Nil(t, v.Evaluate(validation.Length(5, 8), "abcdefgh"))
	})

	t.Run("length counts characters not bytes", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, v.Evaluate(validation.Length(5, 5), "ééééé"))
	})

	t.Run("length violation", func(t *testing.T) {
		t.Parallel()

		inv := v.Evaluate(validation.Length(5, 1024), "abc")
		require.NotNil(t, inv)
		assert.Equal(t, "length", inv.Code)
		assert.Equal(t, "Given value is not a valid length", inv.Message)
		assert.Equal(t, "abc", inv.Value)
		assert.Equal(t, map[string]string{"min": "5", "max": "1024"}, inv.Rules)
	})

	t.Run("email", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, v.Evaluate(validation.Email(), "user@example.com"))

		inv := v.Evaluate(validation.Email(), "user!example.com")
		require.NotNil(t, inv)
		assert.Equal(t, "email", inv.Code)
		assert.Equal(t, "Given value is not a valid email", inv.Message)
		assert.Empty(t, inv.Rules)
		assert.NotContains(t, inv.Rules, "value")
	})

	t.Run("pattern surfaces the public code", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, v.Evaluate(validation.Pattern("username"), "user_123"))

		inv := v.Evaluate(validation.Pattern("username"), "not valid!")
		require.NotNil(t, inv)
		assert.Equal(t, validation.PatternMatchCode, inv.Code)
		assert.Equal(t, "Given value is not a valid pattern match", inv.Message)
		assert.Equal(t, map[string]string{"pattern": `^[a-zA-Z0-9_]{1,32}$`}, inv.Rules)
		assert.NotEqual(t, string(validation.KindPattern), inv.Code)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	v := testValidator(t)
	schema := signupSchema()

	t.Run("valid input", func(t *testing.T) {
		t.Parallel()

		got := validation.Validate(v, schema, signup{Username: "username123", Email: "user@example.com", Password: "password"})
		assert.Nil(t, got)
		assert.True(t, got.IsEmpty())
	})

	t.Run("collects every invalid field", func(t *testing.T) {
		t.Parallel()

		got := validation.Validate(v, schema, signup{Username: "ab", Email: "bad", Password: ""})
		require.Len(t, got, 2)
		assert.False(t, got.Has("username"))

		assert.Equal(t, "email", got["email"].Code)
		assert.Equal(t, "bad", got["email"].Value)

		assert.Equal(t, "length", got["password"].Code)
		assert.Equal(t, map[string]string{"min": "5", "max": "1024"}, got["password"].Rules)
	})

	t.Run("one entry per invalid field", func(t *testing.T) {
		t.Parallel()

		got := validation.Validate(v, schema, signup{Username: "", Email: "", Password: "1"})
		require.Len(t, got, 3)
		assert.Equal(t, []string{"email", "password", "username"}, got.Fields())
		assert.Equal(t, validation.PatternMatchCode, got["username"].Code)
		assert.Equal(t, "email", got["email"].Code)
		assert.Equal(t, "length", got["password"].Code)
	})

	t.Run("first failing rule wins", func(t *testing.T) {
		t.Parallel()

		pin := validation.MustSchema("Pin",
			validation.FieldOf("pin", func(s string) string { return s },
				validation.Length(4, 6),
				validation.Pattern("digits"),
			),
		)

		got := validation.Validate(v, pin, "ab")
		require.Len(t, got, 1)
		assert.Equal(t, "length", got["pin"].Code)

		got = validation.Validate(v, pin, "abcd")
		require.Len(t, got, 1)
		assert.Equal(t, validation.PatternMatchCode, got["pin"].Code)
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got := validation.Validate(v, schema, signup{Username: "ab", Email: "bad", Password: ""})
				assert.Len(t, got, 2)
			}()
		}
		wg.Wait()
	})
}

func TestSchema(t *testing.T) {
	t.Parallel()

	t.Run("rejects duplicate fields", func(t *testing.T) {
		t.Parallel()

		_, err := validation.NewSchema("Dup",
			validation.FieldOf("a", func(s string) string { return s }),
			validation.FieldOf("a", func(s string) string { return s }),
		)
		assert.Error(t, err)
	})

	t.Run("describe keeps declaration order", func(t *testing.T) {
		t.Parallel()

		d := signupSchema().Describe()
		assert.Equal(t, "Signup", d.Name)
		require.Len(t, d.Fields, 3)
		assert.Equal(t, "username", d.Fields[0].Name)
		assert.Equal(t, "email", d.Fields[1].Name)
		assert.Equal(t, "password", d.Fields[2].Name)
	})
}

func TestValidator_Check(t *testing.T) {
	t.Parallel()

	v := testValidator(t)

	assert.NoError(t, v.Check(signupSchema().Describe()))

	missing := validation.MustSchema("Missing",
		validation.FieldOf("id", func(s string) string { return s }, validation.Pattern("uuid")),
	)
	assert.Error(t, v.Check(missing.Describe()))

	badBounds := validation.MustSchema("Bounds",
		validation.FieldOf("x", func(s string) string { return s }, validation.Length(10, 2)),
	)
	assert.Error(t, v.Check(badBounds.Describe()))
}

func TestPatternCache(t *testing.T) {
	t.Parallel()

	_, err := validation.NewPatternCache(map[string]string{"broken": `([a-z`})
	assert.Error(t, err)

	cache := validation.MustPatternCache(map[string]string{"b": "b", "a": "a"})
	assert.Equal(t, []string{"a", "b"}, cache.Names())

	_, ok := cache.Get("c")
	assert.False(t, ok)
}
