package domain

import "time"

// CartItem is one pending cart line. A user holds at most one row per
// product; adding the same product again increments Quantity instead.
type CartItem struct {
	ID        int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	UserId    int64     `gorm:"index;uniqueIndex:idx_cart_user_product" json:"user_id,string" form:"user_id"`
	ProductId int64     `gorm:"uniqueIndex:idx_cart_user_product" json:"product_id,string" form:"product_id"`
	Quantity  int       `gorm:"default:1" json:"quantity" form:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
