// Package notify sends order events to a Telegram chat watched by the
// shop staff. It is optional: a nil Notifier silently drops everything, so
// domain flow never depends on it.
package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"coffeehouse/db"
	"coffeehouse/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func New(token string, chatID int64) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Notifier{api: api, chatID: chatID}, nil
}

// OrderPlacedText builds the staff message for a new order.
func OrderPlacedText(o *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order #%d", o.ID)
	if o.UserName != "" {
		fmt.Fprintf(&b, " from %s", o.UserName)
	}
	b.WriteString("\n\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "%d x %s — %s\n", it.Quantity, it.Name, models.FormatCents(it.Price))
	}
	fmt.Fprintf(&b, "\nTotal: %s", models.FormatCents(o.TotalAmount))
	if o.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", o.Notes)
	}
	return b.String()
}

// StatusChangedText builds the staff message for a status transition.
func StatusChangedText(o *models.Order, from string) string {
	return fmt.Sprintf("Order #%d: %s → %s (total %s)",
		o.ID, from, o.Status, models.FormatCents(o.TotalAmount))
}

func (n *Notifier) OrderPlaced(ctx context.Context, o *models.Order) {
	n.send(ctx, o.ID, "placed:"+o.Status, OrderPlacedText(o))
}

func (n *Notifier) StatusChanged(ctx context.Context, o *models.Order, from string) {
	n.send(ctx, o.ID, "status:"+o.Status, StatusChangedText(o, from))
}

// send delivers one message, suppressing duplicates of the same
// (order, kind) within 30 seconds. Failures are logged, never surfaced.
func (n *Notifier) send(ctx context.Context, orderID int64, kind, text string) {
	if n == nil {
		return
	}
	dup, err := sentWithin30s(ctx, orderID, kind)
	if err != nil {
		log.Printf("notify: de-dup check for order %d: %v", orderID, err)
	}
	if dup {
		return
	}
	if _, err := n.api.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		log.Printf("notify: send for order %d: %v", orderID, err)
		return
	}
	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO notifications (order_id, kind, content) VALUES ($1, $2, $3)`,
		orderID, kind, text,
	); err != nil {
		log.Printf("notify: record for order %d: %v", orderID, err)
	}
}

func sentWithin30s(ctx context.Context, orderID int64, kind string) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE order_id = $1 AND kind = $2
		  AND created_at > now() - interval '30 seconds'`,
		orderID, kind,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
