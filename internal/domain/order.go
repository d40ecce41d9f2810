package domain

import "time"

// Order status labels. Any status may be written over any other; the set
// membership is the only constraint.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether status is one of the five labels.
func ValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Order is immutable after creation except for Status.
type Order struct {
	ID                 int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	UserId             int64     `gorm:"index" json:"user_id,string" form:"user_id"`
	Total              float64   `json:"total" form:"total"`
	Phone              string    `gorm:"size:50" json:"phone" form:"phone"`
	ShippingAddress    string    `gorm:"type:text" json:"shipping_address" form:"shipping_address"`
	ShippingCity       string    `gorm:"size:100" json:"shipping_city" form:"shipping_city"`
	ShippingPostalCode string    `gorm:"size:20" json:"shipping_postal_code" form:"shipping_postal_code"`
	Notes              string    `gorm:"type:text" json:"notes" form:"notes"`
	Status             string    `gorm:"size:20;index;default:'pending'" json:"status" form:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots product name and price at order time so later product
// edits never alter historical orders.
type OrderItem struct {
	ID           int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	OrderId      int64     `gorm:"index" json:"order_id,string" form:"order_id"`
	ProductId    int64     `gorm:"index" json:"product_id,string" form:"product_id"`
	ProductName  string    `json:"product_name" form:"product_name"`
	ProductPrice float64   `json:"product_price" form:"product_price"`
	Quantity     int       `json:"quantity" form:"quantity"`
	CreatedAt    time.Time `json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
