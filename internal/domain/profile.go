package domain

import "time"

// Profile is the authenticated identity plus the customer's saved shipping
// details. IsAdmin is never writable through the storefront; it is seeded or
// set directly in the database.
type Profile struct {
	ID         int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	Email      string    `gorm:"uniqueIndex;size:200" json:"email" form:"email"`
	Password   string    `json:"-" form:"-"`
	FullName   string    `json:"full_name" form:"full_name"`
	Phone      string    `gorm:"size:50" json:"phone" form:"phone"`
	Address    string    `gorm:"type:text" json:"address" form:"address"`
	City       string    `gorm:"size:100" json:"city" form:"city"`
	PostalCode string    `gorm:"size:20" json:"postal_code" form:"postal_code"`
	IsAdmin    bool      `gorm:"index;default:false" json:"is_admin"`
	LastLogin  time.Time `json:"last_login"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
