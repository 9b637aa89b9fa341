// Package model holds the request and record types exposed over RPC,
// together with their validation rule tables.
package model

import (
	"github.com/deppfellow/breezi/internal/validation"
)

// Pattern names registered in the process-wide pattern cache.
const (
	PatternUsername = "username"
	PatternUUID     = "uuid"
)

// Patterns returns the expressions every schema in this package relies on.
// The caller compiles them once at startup (validation.NewPatternCache).
func Patterns() map[string]string {
	return map[string]string{
		PatternUsername: `^[a-zA-Z0-9_]{1,32}$`,
		PatternUUID:     `^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-4[0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`,
	}
}

// UserRegistration is the input of the register procedure.
type UserRegistration struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// User is a stored user record.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Registration returns the registration fields of u.
func (u User) Registration() UserRegistration {
	return UserRegistration{
		Username: u.Username,
		Password: u.Password,
		Email:    u.Email,
	}
}

var (
	usernameRules = []validation.Rule{validation.Pattern(PatternUsername)}
	passwordRules = []validation.Rule{validation.Length(5, 1024)}
	emailRules    = []validation.Rule{validation.Email()}
)

// UserRegistrationSchema is the rule table of UserRegistration.
var UserRegistrationSchema = validation.MustSchema("UserRegistration",
	validation.FieldOf("username", func(u UserRegistration) string { return u.Username }, usernameRules...),
	validation.FieldOf("password", func(u UserRegistration) string { return u.Password }, passwordRules...),
	validation.FieldOf("email", func(u UserRegistration) string { return u.Email }, emailRules...),
)

// UserSchema is the rule table of User.
var UserSchema = validation.MustSchema("User",
	validation.FieldOf("id", func(u User) string { return u.ID }, validation.Pattern(PatternUUID)),
	validation.FieldOf("username", func(u User) string { return u.Username }, usernameRules...),
	validation.FieldOf("password", func(u User) string { return u.Password }, passwordRules...),
	validation.FieldOf("email", func(u User) string { return u.Email }, emailRules...),
)

// UserLookup is the input of the user query.
type UserLookup struct {
	ID string `json:"id"`
}

// UserLookupSchema is the rule table of UserLookup.
var UserLookupSchema = validation.MustSchema("UserLookup",
	validation.FieldOf("id", func(u UserLookup) string { return u.ID }, validation.Pattern(PatternUUID)),
)

// UserProfile is the public view of a user; the password never leaves
// storage through it.
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Profile returns the public view of u.
func (u User) Profile() UserProfile {
	return UserProfile{ID: u.ID, Username: u.Username, Email: u.Email}
}
