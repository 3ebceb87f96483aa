package services

import (
	"context"
	"errors"
	"strings"

	"coffeehouse/db"
	"coffeehouse/models"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

// ErrInvalidCredentials is returned for both unknown email and wrong
// password, so login failures do not reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid email or password")

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func ValidateRegisterInput(in RegisterInput) *ValidationError {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		fields["email"] = "email is required"
	} else if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		fields["email"] = "email is not valid"
	}
	if len(in.Password) < minPasswordLen {
		fields["password"] = "password must be at least 8 characters"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Register creates an account with the user role and a bcrypt-hashed
// password.
func Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if verr := ValidateRegisterInput(in); verr != nil {
		return nil, verr
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		RoleName: models.RoleUser,
	}
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role_id)
		VALUES ($1, $2, $3, (SELECT id FROM roles WHERE name = $4))
		RETURNING id, role_id, created_at`,
		u.Name, u.Email, string(hash), models.RoleUser,
	).Scan(&u.ID, &u.RoleID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Message: "an account with this email already exists"}
		}
		return nil, err
	}
	return u, nil
}

// Authenticate verifies the email/password pair and returns the user with
// its role loaded.
func Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u models.User
	err := db.Pool.QueryRow(ctx, `
		SELECT u.id, u.name, u.email, u.password_hash, u.role_id, r.name, u.created_at
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.email = $1`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.RoleName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// GetUser loads a user with its role name; this is the actor object handed
// to every gated operation.
func GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := db.Pool.QueryRow(ctx, `
		SELECT u.id, u.name, u.email, u.role_id, r.name, u.created_at
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.RoleID, &u.RoleName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "user", ID: id}
		}
		return nil, err
	}
	return &u, nil
}
