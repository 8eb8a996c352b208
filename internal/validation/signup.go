// Package validation provides input validation for the signup form.
package validation

import "regexp"

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)
	passwordRe = regexp.MustCompile(`^.{3,20}$`)
	// Deliberately loose: anything non-blank around an "@" plus one more
	// character passes. The unescaped dot is part of the contract.
	emailRe = regexp.MustCompile(`^[\S]+@[\S]+.[\S]+$`)
)

// SignupInput is the raw signup form submission.
type SignupInput struct {
	Username string
	Password string
	Verify   string
	Email    string
}

// ValidateSignup checks every field independently and returns a map of field
// name to message for each violation. The verify field is only evaluated when
// the password itself is structurally valid. An empty map means valid input.
func ValidateSignup(in SignupInput) map[string]string {
	fields := make(map[string]string)

	if !usernameRe.MatchString(in.Username) {
		fields["username"] = "That wasn't a valid username."
	}

	if !passwordRe.MatchString(in.Password) {
		fields["password"] = "That wasn't a valid password."
	} else if in.Verify != in.Password {
		fields["verify"] = "Your passwords didn't match."
	}

	if in.Email != "" && !emailRe.MatchString(in.Email) {
		fields["email"] = "That's not a valid email."
	}

	return fields
}

// ValidUsername reports whether the username alone satisfies the format rule.
func ValidUsername(username string) bool {
	return usernameRe.MatchString(username)
}
