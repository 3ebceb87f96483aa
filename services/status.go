package services

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// KnownOrderStatus reports whether s is one of the four recognized values.
func KnownOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidStatusTransition permits any pair of recognized statuses, including
// self-transitions: the status set is deliberately flat, with no enforced
// ordering beyond orders being created as pending. Admins move orders
// freely, e.g. straight from pending to completed for a counter pickup.
func ValidStatusTransition(from, to string) bool {
	return KnownOrderStatus(from) && KnownOrderStatus(to)
}
