package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"coffeehouse/db"
	"coffeehouse/models"

	"github.com/jackc/pgx/v5"
)

const maxNameLen = 255

// ValidateCategoryInput checks the writable fields of a category. Name
// uniqueness is checked separately against the store.
func ValidateCategoryInput(in models.CategoryInput) *ValidationError {
	fields := map[string]string{}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		fields["name"] = "name is required"
	} else if utf8.RuneCountInString(name) > maxNameLen {
		fields["name"] = "name must be at most 255 characters"
	}
	if in.SortOrder != nil && *in.SortOrder < 0 {
		fields["sort_order"] = "sort_order must be >= 0"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// categoryNameTaken reports whether another category (excluding excludeID)
// already uses the name.
func categoryNameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var one int
	err := db.Pool.QueryRow(ctx, `
		SELECT 1 FROM categories WHERE name = $1 AND id <> $2`,
		name, excludeID,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func CreateCategory(ctx context.Context, actor *models.User, in models.CategoryInput) (*models.Category, error) {
	if !actor.IsAdmin() {
		return nil, errNotAdmin()
	}
	if verr := ValidateCategoryInput(in); verr != nil {
		return nil, verr
	}
	name := strings.TrimSpace(in.Name)
	taken, err := categoryNameTaken(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, invalid("name", "a category with this name already exists")
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	sortOrder := 0
	if in.SortOrder != nil {
		sortOrder = *in.SortOrder
	}

	c := &models.Category{Name: name, Description: in.Description, IsActive: isActive, SortOrder: sortOrder}
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO categories (name, description, is_active, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		name, in.Description, isActive, sortOrder,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Message: "a category with this name already exists"}
		}
		return nil, err
	}
	return c, nil
}

func UpdateCategory(ctx context.Context, actor *models.User, id int64, in models.CategoryInput) (*models.Category, error) {
	if !actor.IsAdmin() {
		return nil, errNotAdmin()
	}
	current, err := GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if verr := ValidateCategoryInput(in); verr != nil {
		return nil, verr
	}
	name := strings.TrimSpace(in.Name)
	taken, err := categoryNameTaken(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, invalid("name", "a category with this name already exists")
	}

	isActive := current.IsActive
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	sortOrder := current.SortOrder
	if in.SortOrder != nil {
		sortOrder = *in.SortOrder
	}

	c := &models.Category{ID: id, Name: name, Description: in.Description, IsActive: isActive, SortOrder: sortOrder}
	err = db.Pool.QueryRow(ctx, `
		UPDATE categories SET
			name = $1, description = $2, is_active = $3, sort_order = $4, updated_at = now()
		WHERE id = $5
		RETURNING created_at, updated_at`,
		name, in.Description, isActive, sortOrder, id,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "category", ID: id}
		}
		if isUniqueViolation(err) {
			return nil, &ConflictError{Message: "a category with this name already exists"}
		}
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes the category unless any menu item still references
// it, in which case the delete is refused and nothing changes.
func DeleteCategory(ctx context.Context, actor *models.User, id int64) error {
	if !actor.IsAdmin() {
		return errNotAdmin()
	}
	var itemCount int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM menu_items WHERE category_id = $1`,
		id,
	).Scan(&itemCount)
	if err != nil {
		return err
	}
	if itemCount > 0 {
		return &ConflictError{Message: "cannot delete category with existing menu items"}
	}

	tag, err := db.Pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		// FK backstop: an item was inserted between the count and the delete.
		if isForeignKeyViolation(err) {
			return &ConflictError{Message: "cannot delete category with existing menu items"}
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "category", ID: id}
	}
	return nil
}

func GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, description, is_active, sort_order, created_at, updated_at
		FROM categories WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "category", ID: id}
		}
		return nil, err
	}
	return &c, nil
}

// ListCategories returns categories ordered by sort_order then name, each
// with a count of referencing menu items. Recomputed on every call.
func ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	q := `
		SELECT c.id, c.name, c.description, c.is_active, c.sort_order,
		       COUNT(m.id)::int, c.created_at, c.updated_at
		FROM categories c
		LEFT JOIN menu_items m ON m.category_id = c.id`
	if activeOnly {
		q += `
		WHERE c.is_active`
	}
	q += `
		GROUP BY c.id
		ORDER BY c.sort_order, c.name`

	rows, err := db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.SortOrder,
			&c.ItemCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
