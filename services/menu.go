package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"coffeehouse/db"
	"coffeehouse/models"
	"coffeehouse/storage"

	"github.com/jackc/pgx/v5"
)

// ValidateMenuItemInput checks writable fields; category existence is
// checked against the store.
func ValidateMenuItemInput(in models.MenuItemInput) *ValidationError {
	fields := map[string]string{}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		fields["name"] = "name is required"
	} else if utf8.RuneCountInString(name) > maxNameLen {
		fields["name"] = "name must be at most 255 characters"
	}
	if strings.TrimSpace(in.Description) == "" {
		fields["description"] = "description is required"
	}
	if in.Price < 0 {
		fields["price"] = "price must be >= 0"
	}
	if in.CategoryID <= 0 {
		fields["category_id"] = "category_id is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func categoryExists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := db.Pool.QueryRow(ctx, `SELECT 1 FROM categories WHERE id = $1`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func CreateMenuItem(ctx context.Context, actor *models.User, in models.MenuItemInput) (*models.MenuItem, error) {
	if !actor.IsAdmin() {
		return nil, errNotAdmin()
	}
	if verr := ValidateMenuItemInput(in); verr != nil {
		return nil, verr
	}
	ok, err := categoryExists(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, invalid("category_id", "category does not exist")
	}

	image := in.Image
	if image == "" {
		image = storage.Placeholder
	}
	isAvailable := true
	if in.IsAvailable != nil {
		isAvailable = *in.IsAvailable
	}

	m := &models.MenuItem{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		IsAvailable: isAvailable,
		Image:       image,
	}
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO menu_items (name, description, price, category_id, is_available, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		m.Name, m.Description, m.Price, m.CategoryID, m.IsAvailable, m.Image,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, invalid("category_id", "category does not exist")
		}
		return nil, err
	}
	return m, nil
}

// UpdateMenuItem applies the same validation as create. When in.Image names
// a new stored blob, the previously stored image is released unless it is
// the placeholder.
func UpdateMenuItem(ctx context.Context, actor *models.User, id int64, in models.MenuItemInput, blob storage.Blob) (*models.MenuItem, error) {
	if !actor.IsAdmin() {
		return nil, errNotAdmin()
	}
	current, err := GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if verr := ValidateMenuItemInput(in); verr != nil {
		return nil, verr
	}
	ok, err := categoryExists(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, invalid("category_id", "category does not exist")
	}

	image := current.Image
	if in.Image != "" && in.Image != current.Image {
		image = in.Image
	}
	isAvailable := current.IsAvailable
	if in.IsAvailable != nil {
		isAvailable = *in.IsAvailable
	}

	m := &models.MenuItem{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		IsAvailable: isAvailable,
		Image:       image,
	}
	err = db.Pool.QueryRow(ctx, `
		UPDATE menu_items SET
			name = $1, description = $2, price = $3, category_id = $4,
			is_available = $5, image = $6, updated_at = now()
		WHERE id = $7
		RETURNING created_at, updated_at`,
		m.Name, m.Description, m.Price, m.CategoryID, m.IsAvailable, m.Image, id,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "menu item", ID: id}
		}
		if isForeignKeyViolation(err) {
			return nil, invalid("category_id", "category does not exist")
		}
		return nil, err
	}

	// Old blob release happens after the row is updated; a failed delete
	// leaves an orphan file, never a broken record.
	if blob != nil && image != current.Image && current.Image != storage.Placeholder {
		if err := blob.Delete(current.Image); err != nil {
			log.Printf("menu item %d: release old image %s: %v", id, current.Image, err)
		}
	}
	return m, nil
}

// DeleteMenuItem removes the item unconditionally and releases its stored
// image blob (the placeholder is never deleted).
func DeleteMenuItem(ctx context.Context, actor *models.User, id int64, blob storage.Blob) error {
	if !actor.IsAdmin() {
		return errNotAdmin()
	}
	var image string
	err := db.Pool.QueryRow(ctx, `
		DELETE FROM menu_items WHERE id = $1 RETURNING image`,
		id,
	).Scan(&image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Entity: "menu item", ID: id}
		}
		return err
	}
	if blob != nil && image != storage.Placeholder {
		if err := blob.Delete(image); err != nil {
			log.Printf("menu item %d: release image %s: %v", id, image, err)
		}
	}
	return nil
}

func GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	var m models.MenuItem
	err := db.Pool.QueryRow(ctx, `
		SELECT m.id, m.name, m.description, m.price, m.category_id, c.name,
		       m.is_available, m.image, m.created_at, m.updated_at
		FROM menu_items m
		JOIN categories c ON c.id = m.category_id
		WHERE m.id = $1`,
		id,
	).Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.CategoryID, &m.CategoryName,
		&m.IsAvailable, &m.Image, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "menu item", ID: id}
		}
		return nil, err
	}
	return &m, nil
}

// ListMenuItems returns items ordered by name, each joined with its
// category name. Recomputed on every call.
func ListMenuItems(ctx context.Context, availableOnly bool) ([]models.MenuItem, error) {
	q := `
		SELECT m.id, m.name, m.description, m.price, m.category_id, c.name,
		       m.is_available, m.image, m.created_at, m.updated_at
		FROM menu_items m
		JOIN categories c ON c.id = m.category_id`
	if availableOnly {
		q += `
		WHERE m.is_available`
	}
	q += `
		ORDER BY m.name`

	rows, err := db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.MenuItem
	for rows.Next() {
		var m models.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.CategoryID, &m.CategoryName,
			&m.IsAvailable, &m.Image, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
