package services

import (
	"context"
	"errors"

	"coffeehouse/db"
	"coffeehouse/models"

	"github.com/jackc/pgx/v5"
)

func ListRoles(ctx context.Context) ([]models.Role, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id, name FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Role
	for rows.Next() {
		var r models.Role
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListUsers returns all accounts with their role names. Admin only.
func ListUsers(ctx context.Context, actor *models.User) ([]models.User, error) {
	if !actor.IsAdmin() {
		return nil, errNotAdmin()
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT u.id, u.name, u.email, u.role_id, r.name, u.created_at
		FROM users u
		JOIN roles r ON r.id = u.role_id
		ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.RoleID, &u.RoleName, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// SetUserRole reassigns a user's role. Admin only; the role must exist.
func SetUserRole(ctx context.Context, actor *models.User, targetUserID, roleID int64) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, errNotAdmin()
	}
	var one int
	err := db.Pool.QueryRow(ctx, `SELECT 1 FROM roles WHERE id = $1`, roleID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invalid("role_id", "role does not exist")
		}
		return nil, err
	}

	tag, err := db.Pool.Exec(ctx, `
		UPDATE users SET role_id = $1 WHERE id = $2`,
		roleID, targetUserID,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, &NotFoundError{Entity: "user", ID: targetUserID}
	}
	return GetUser(ctx, targetUserID)
}
