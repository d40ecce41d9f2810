package notify

import "github.com/talkincode/toughstore/internal/domain"

// EventBus topics published by the order workflows.
const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status.changed"
)

// OrderEvent accompanies TopicOrderCreated.
type OrderEvent struct {
	Order domain.Order
	Items []domain.OrderItem
}

// StatusEvent accompanies TopicOrderStatusChanged. Only the new status is
// carried; the workflow keeps no record of the previous one.
type StatusEvent struct {
	Order domain.Order
}
