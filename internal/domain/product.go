package domain

import "time"

// Product is a catalog item. Notes carries the fragrance pyramid as an
// ordered list; by convention the first three entries are top/heart/base.
type Product struct {
	ID          int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	Name        string    `gorm:"index" json:"name" form:"name"`
	Slug        string    `gorm:"uniqueIndex;size:200" json:"slug" form:"slug"`
	Description string    `gorm:"type:text" json:"description" form:"description"`
	Price       float64   `json:"price" form:"price"`
	Stock       int       `gorm:"default:0" json:"stock" form:"stock"`
	ImageUrl    string    `gorm:"size:1024" json:"image_url" form:"image_url"`
	Size        string    `gorm:"size:50" json:"size" form:"size"` // e.g. "100ml"
	Notes       []string  `gorm:"serializer:json" json:"notes" form:"notes"`
	Featured    bool      `gorm:"index;default:false" json:"featured" form:"featured"`
	CategoryId  int64     `gorm:"index" json:"category_id,string" form:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

type Category struct {
	ID        int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}
