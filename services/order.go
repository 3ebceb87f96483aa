package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"coffeehouse/db"
	"coffeehouse/models"

	"github.com/jackc/pgx/v5"
)

// ValidateLineItems checks an order's line-item snapshot.
func ValidateLineItems(items []models.LineItem) *ValidationError {
	if len(items) == 0 {
		return invalid("items", "order must contain at least one item")
	}
	fields := map[string]string{}
	for i, it := range items {
		prefix := "items." + strconv.Itoa(i)
		if strings.TrimSpace(it.Name) == "" {
			fields[prefix+".name"] = "name is required"
		}
		if it.Quantity < 1 {
			fields[prefix+".quantity"] = "quantity must be >= 1"
		}
		if it.Price < 0 {
			fields[prefix+".price"] = "price must be >= 0"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ComputeTotal returns the sum of quantity x unit price over the line
// items, in cents.
func ComputeTotal(items []models.LineItem) int64 {
	var total int64
	for _, it := range items {
		total += int64(it.Quantity) * it.Price
	}
	return total
}

// PlaceOrder creates an order from a cart snapshot. The stored total always
// equals ComputeTotal over the stored items; new orders start as pending.
func PlaceOrder(ctx context.Context, actor *models.User, in models.PlaceOrderInput) (*models.Order, error) {
	if actor == nil {
		return nil, &AuthorizationError{Message: "authentication required"}
	}
	if verr := ValidateLineItems(in.Items); verr != nil {
		return nil, verr
	}

	itemsJSON, err := json.Marshal(in.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal order items: %w", err)
	}
	total := ComputeTotal(in.Items)

	o := &models.Order{
		UserID:      actor.ID,
		Items:       in.Items,
		TotalAmount: total,
		Status:      OrderStatusPending,
		Notes:       in.Notes,
	}
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO orders (user_id, items, total_amount, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		actor.ID, itemsJSON, total, OrderStatusPending, nullIfEmpty(in.Notes),
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateOrderStatus sets an order's status and returns the updated order
// together with the status it moved from. Admin only; any recognized
// status may follow any other. The current status is read and the update
// is applied inside one transaction, together with an audit row, so
// concurrent updates serialize and the history never skips a step.
func UpdateOrderStatus(ctx context.Context, actor *models.User, orderID int64, newStatus string) (*models.Order, string, error) {
	if !actor.IsAdmin() {
		return nil, "", errNotAdmin()
	}
	if !KnownOrderStatus(newStatus) {
		return nil, "", invalid("status", "status must be one of: pending, processing, completed, cancelled")
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var fromStatus string
	err = tx.QueryRow(ctx, `
		SELECT status FROM orders WHERE id = $1 FOR UPDATE`,
		orderID,
	).Scan(&fromStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", &NotFoundError{Entity: "order", ID: orderID}
		}
		return nil, "", err
	}

	// Guards against rows carrying a status outside the recognized set.
	if !ValidStatusTransition(fromStatus, newStatus) {
		return nil, "", &ConflictError{
			Message: fmt.Sprintf("cannot change order status from %q to %q", fromStatus, newStatus),
		}
	}

	o := &models.Order{ID: orderID, Status: newStatus}
	var itemsJSON []byte
	var notes *string
	err = tx.QueryRow(ctx, `
		UPDATE orders SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING user_id, items, total_amount, notes, created_at, updated_at`,
		newStatus, orderID,
	).Scan(&o.UserID, &itemsJSON, &o.TotalAmount, &notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, "", err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, "", fmt.Errorf("unmarshal order items: %w", err)
	}
	if notes != nil {
		o.Notes = *notes
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, from_status, to_status, actor_id)
		VALUES ($1, $2, $3, $4)`,
		orderID, fromStatus, newStatus, actor.ID,
	)
	if err != nil {
		return nil, "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, "", err
	}
	return o, fromStatus, nil
}

// ListOrders returns all orders (with owner names) for an admin actor, and
// only the actor's own orders otherwise. Newest first.
func ListOrders(ctx context.Context, actor *models.User) ([]models.Order, error) {
	if actor == nil {
		return nil, &AuthorizationError{Message: "authentication required"}
	}
	q := `
		SELECT o.id, o.user_id, u.name, o.items, o.total_amount, o.status,
		       COALESCE(o.notes, ''), o.created_at, o.updated_at
		FROM orders o
		JOIN users u ON u.id = o.user_id`
	args := []any{}
	if !actor.IsAdmin() {
		q += `
		WHERE o.user_id = $1`
		args = append(args, actor.ID)
	}
	q += `
		ORDER BY o.created_at DESC, o.id DESC`
	return scanOrders(ctx, q, args...)
}

// RecentOrders returns the actor's n newest orders (dashboard view).
func RecentOrders(ctx context.Context, actor *models.User, n int) ([]models.Order, error) {
	if actor == nil {
		return nil, &AuthorizationError{Message: "authentication required"}
	}
	q := `
		SELECT o.id, o.user_id, u.name, o.items, o.total_amount, o.status,
		       COALESCE(o.notes, ''), o.created_at, o.updated_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $2`
	return scanOrders(ctx, q, actor.ID, n)
}

// GetOrder loads one order. Authorization is checked before existence so a
// non-owner cannot probe which ids exist.
func GetOrder(ctx context.Context, actor *models.User, id int64) (*models.Order, error) {
	if actor == nil {
		return nil, &AuthorizationError{Message: "authentication required"}
	}
	o := &models.Order{ID: id}
	var itemsJSON []byte
	err := db.Pool.QueryRow(ctx, `
		SELECT o.user_id, u.name, o.items, o.total_amount, o.status,
		       COALESCE(o.notes, ''), o.created_at, o.updated_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = $1`,
		id,
	).Scan(&o.UserID, &o.UserName, &itemsJSON, &o.TotalAmount, &o.Status,
		&o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if !actor.IsAdmin() {
				return nil, &AuthorizationError{Message: "not your order"}
			}
			return nil, &NotFoundError{Entity: "order", ID: id}
		}
		return nil, err
	}
	if !actor.IsAdmin() && o.UserID != actor.ID {
		return nil, &AuthorizationError{Message: "not your order"}
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	return o, nil
}

func scanOrders(ctx context.Context, q string, args ...any) ([]models.Order, error) {
	rows, err := db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		var o models.Order
		var itemsJSON []byte
		if err := rows.Scan(&o.ID, &o.UserID, &o.UserName, &itemsJSON, &o.TotalAmount,
			&o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
