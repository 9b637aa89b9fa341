package service_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/breezi/internal/database"
	"github.com/deppfellow/breezi/internal/errs"
	"github.com/deppfellow/breezi/internal/model"
	"github.com/deppfellow/breezi/internal/repository"
	"github.com/deppfellow/breezi/internal/rpc"
	"github.com/deppfellow/breezi/internal/service"
	"github.com/deppfellow/breezi/internal/validation"
)

func newTestDispatcher(t *testing.T) (*rpc.Dispatcher, *repository.Repositories) {
	t.Helper()

	logger := zerolog.Nop()
	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "breezi.db"), &logger)
	require.NoError(t, err)

	repos := repository.NewSQLiteRepositories(db)
	t.Cleanup(func() { _ = repos.Close() })

	services := service.NewServices(repos, &logger)
	patterns, err := validation.NewPatternCache(model.Patterns())
	require.NoError(t, err)

	d, err := rpc.NewDispatcher(services.NewRegistry(), validation.New(patterns), logger)
	require.NoError(t, err)
	return d, repos
}

func TestRegister_ThenReadBack(t *testing.T) {
	t.Parallel()

	d, repos := newTestDispatcher(t)
	ctx := context.Background()

	out, resp := d.Dispatch(ctx, service.ProcedureRegister,
		[]byte(`{"username":"username123","email":"user@example.com","password":"password"}`))
	require.Nil(t, resp)

	id, ok := out.(string)
	require.True(t, ok)

	stored, err := repos.User.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.UserRegistration{
		Username: "username123",
		Email:    "user@example.com",
		Password: "password",
	}, stored.Registration())

	lookup, err := json.Marshal(model.UserLookup{ID: id})
	require.NoError(t, err)

	out, resp = d.Dispatch(ctx, service.ProcedureUser, lookup)
	require.Nil(t, resp)
	assert.Equal(t, model.UserProfile{ID: id, Username: "username123", Email: "user@example.com"}, out)
}

func TestRegister_Rejections(t *testing.T) {
	t.Parallel()

	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	t.Run("invalid email", func(t *testing.T) {
		_, resp := d.Dispatch(ctx, service.ProcedureRegister,
			[]byte(`{"username":"username123","email":"user!example.com","password":"password"}`))
		require.NotNil(t, resp)
		assert.Equal(t, errs.ReasonInvalid, resp.Reason)
		require.Len(t, resp.Payload, 1)
		assert.Equal(t, "email", resp.Payload["email"].Code)
	})

	t.Run("taken username", func(t *testing.T) {
		payload := []byte(`{"username":"taken","email":"a@example.com","password":"password"}`)

		_, resp := d.Dispatch(ctx, service.ProcedureRegister, payload)
		require.Nil(t, resp)

		_, resp = d.Dispatch(ctx, service.ProcedureRegister, payload)
		require.NotNil(t, resp)
		assert.Equal(t, errs.ReasonConflict, resp.Reason)
		assert.Equal(t, "Entry already exists", resp.Message)
	})

	t.Run("lookup with malformed id", func(t *testing.T) {
		_, resp := d.Dispatch(ctx, service.ProcedureUser, []byte(`{"id":"42"}`))
		require.NotNil(t, resp)
		assert.Equal(t, errs.ReasonInvalid, resp.Reason)
		assert.Equal(t, validation.PatternMatchCode, resp.Payload["id"].Code)
	})

	t.Run("lookup of unknown user", func(t *testing.T) {
		_, resp := d.Dispatch(ctx, service.ProcedureUser,
			[]byte(`{"id":"1b4e28ba-2fa1-41d2-883f-0016d3cca427"}`))
		require.NotNil(t, resp)
		assert.Equal(t, errs.ReasonNotFound, resp.Reason)
		assert.Equal(t, "Entry not found", resp.Message)
	})
}

func TestProcedures(t *testing.T) {
	t.Parallel()

	logger := zerolog.Nop()
	services := service.NewServices(&repository.Repositories{}, &logger)

	reg := services.NewRegistry()
	register, ok := reg.Resolve(service.ProcedureRegister)
	require.True(t, ok)
	assert.Equal(t, rpc.KindMutation, register.Kind())
	assert.Equal(t, "UserRegistration", register.Input().Name)
	assert.Equal(t, "string", register.Output())

	user, ok := reg.Resolve(service.ProcedureUser)
	require.True(t, ok)
	assert.Equal(t, rpc.KindQuery, user.Kind())
	assert.Equal(t, "UserProfile", user.Output())
}
