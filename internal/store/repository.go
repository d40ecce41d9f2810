package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/domain"
)

// ProductFilter narrows admin and storefront product listings.
type ProductFilter struct {
	Query      string
	CategoryId int64
	Featured   *bool
	SortCol    string
	SortOrder  string
	Page       int
	PageSize   int
}

// ProductRepository handles catalog data access.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int64, error)
	Featured(ctx context.Context, limit int) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository handles reference category rows.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id int64) error
}

// CartLine is a cart row resolved against its product.
type CartLine struct {
	ID           int64   `json:"id,string"`
	ProductId    int64   `json:"product_id,string"`
	Quantity     int     `json:"quantity"`
	ProductName  string  `json:"product_name"`
	ProductSlug  string  `json:"product_slug"`
	ProductImage string  `json:"product_image"`
	ProductPrice float64 `json:"product_price"`
	ProductStock int     `json:"product_stock"`
}

// Subtotal is the line price times quantity.
func (l CartLine) Subtotal() float64 {
	return l.ProductPrice * float64(l.Quantity)
}

// CartTotal sums price times quantity over lines.
func CartTotal(lines []CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// CartRepository handles per-user cart rows.
type CartRepository interface {
	LinesByUser(ctx context.Context, userID int64) ([]CartLine, error)
	GetItem(ctx context.Context, itemID int64) (*domain.CartItem, error)
	GetByUserAndProduct(ctx context.Context, userID, productID int64) (*domain.CartItem, error)
	Create(ctx context.Context, item *domain.CartItem) error
	UpdateQuantity(ctx context.Context, itemID int64, qty int) error
	Delete(ctx context.Context, itemID int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}

// OrderFilter narrows the admin order listing. Since/Until are zero when the
// caller supplied no date range.
type OrderFilter struct {
	Status    string
	UserId    int64
	Since     time.Time
	Until     time.Time
	SortCol   string
	SortOrder string
	Page      int
	PageSize  int
}

// OrderRepository handles orders and their snapshot items.
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByUserAndID(ctx context.Context, userID, id int64) (*domain.Order, error)
	ItemsByOrder(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int64, error)
	SetStatus(ctx context.Context, id int64, status string) error
	Totals(ctx context.Context) ([]float64, error)
	PendingOlderThan(ctx context.Context, hours int) ([]domain.Order, error)
}

// ProfileRepository handles identities and saved shipping details.
type ProfileRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	Create(ctx context.Context, p *domain.Profile) error
	UpdateShipping(ctx context.Context, userID int64, fullName, phone, address, city, postalCode string) error
	List(ctx context.Context, page, pageSize int) ([]domain.Profile, int64, error)
	// IsUserAdmin re-reads the admin flag; callers must not cache the result.
	IsUserAdmin(ctx context.Context, userID int64) (bool, error)
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	DB *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{DB: db}
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.DB.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *GormProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var p domain.Product
	err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&p).Error
	return &p, err
}

// allowed sort columns, whitelisted to avoid SQL injection
var productSortCols = map[string]string{
	"id":         "id",
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func (r *GormProductRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, int64, error) {
	db := r.DB.WithContext(ctx).Model(&domain.Product{})
	if q := strings.TrimSpace(filter.Query); q != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if filter.CategoryId > 0 {
		db = db.Where("category_id = ?", filter.CategoryId)
	}
	if filter.Featured != nil {
		db = db.Where("featured = ?", *filter.Featured)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortCol, ok := productSortCols[filter.SortCol]
	if !ok || sortCol == "" {
		sortCol = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var rows []domain.Product
	err := db.Order(sortCol + " " + order).
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error
	return rows, total, err
}

func (r *GormProductRepository) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 3
	}
	var rows []domain.Product
	err := r.DB.WithContext(ctx).
		Where("featured = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *GormProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormProductRepository) Update(ctx context.Context, p *domain.Product) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	return r.DB.WithContext(ctx).Delete(&domain.Product{}, id).Error
}

// GormCategoryRepository is the GORM implementation of CategoryRepository
type GormCategoryRepository struct {
	DB *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{DB: db}
}

func (r *GormCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var rows []domain.Category
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *GormCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.DB.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *GormCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormCategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *GormCategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.DB.WithContext(ctx).Delete(&domain.Category{}, id).Error
}

// GormCartRepository is the GORM implementation of CartRepository
type GormCartRepository struct {
	DB *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{DB: db}
}

func (r *GormCartRepository) LinesByUser(ctx context.Context, userID int64) ([]CartLine, error) {
	var lines []CartLine
	err := r.DB.WithContext(ctx).
		Table("cart_items").
		Select(`cart_items.id, cart_items.product_id, cart_items.quantity,
			products.name AS product_name, products.slug AS product_slug,
			products.image_url AS product_image, products.price AS product_price,
			products.stock AS product_stock`).
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at DESC").
		Scan(&lines).Error
	return lines, err
}

func (r *GormCartRepository) GetItem(ctx context.Context, itemID int64) (*domain.CartItem, error) {
	var item domain.CartItem
	err := r.DB.WithContext(ctx).First(&item, itemID).Error
	return &item, err
}

func (r *GormCartRepository) GetByUserAndProduct(ctx context.Context, userID, productID int64) (*domain.CartItem, error) {
	var item domain.CartItem
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	return &item, err
}

func (r *GormCartRepository) Create(ctx context.Context, item *domain.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormCartRepository) UpdateQuantity(ctx context.Context, itemID int64, qty int) error {
	return r.DB.WithContext(ctx).
		Model(&domain.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", qty).Error
}

func (r *GormCartRepository) Delete(ctx context.Context, itemID int64) error {
	return r.DB.WithContext(ctx).Delete(&domain.CartItem{}, itemID).Error
}

func (r *GormCartRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.CartItem{}).Error
}

// GormOrderRepository is the GORM implementation of OrderRepository
type GormOrderRepository struct {
	DB *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{DB: db}
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.DB.WithContext(ctx).First(&o, id).Error
	return &o, err
}

func (r *GormOrderRepository) GetByUserAndID(ctx context.Context, userID, id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&o).Error
	return &o, err
}

func (r *GormOrderRepository) ItemsByOrder(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *GormOrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	var rows []domain.Order
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

var orderSortCols = map[string]string{
	"id":         "id",
	"total":      "total",
	"status":     "status",
	"created_at": "created_at",
}

func (r *GormOrderRepository) List(ctx context.Context, filter OrderFilter) ([]domain.Order, int64, error) {
	db := r.DB.WithContext(ctx).Model(&domain.Order{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.UserId > 0 {
		db = db.Where("user_id = ?", filter.UserId)
	}
	if !filter.Since.IsZero() {
		db = db.Where("created_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		db = db.Where("created_at <= ?", filter.Until)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortCol, ok := orderSortCols[filter.SortCol]
	if !ok || sortCol == "" {
		sortCol = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var rows []domain.Order
	err := db.Order(sortCol + " " + order).
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error
	return rows, total, err
}

func (r *GormOrderRepository) SetStatus(ctx context.Context, id int64, status string) error {
	return r.DB.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *GormOrderRepository) Totals(ctx context.Context) ([]float64, error) {
	var totals []float64
	err := r.DB.WithContext(ctx).
		Model(&domain.Order{}).
		Pluck("total", &totals).Error
	return totals, err
}

func (r *GormOrderRepository) PendingOlderThan(ctx context.Context, hours int) ([]domain.Order, error) {
	var rows []domain.Order
	err := r.DB.WithContext(ctx).
		Where("status = ?", domain.OrderStatusPending).
		Where("created_at < ?", time.Now().Add(-time.Duration(hours)*time.Hour)).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// GormProfileRepository is the GORM implementation of ProfileRepository
type GormProfileRepository struct {
	DB *gorm.DB
}

func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{DB: db}
}

func (r *GormProfileRepository) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	var p domain.Profile
	err := r.DB.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *GormProfileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.DB.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&p).Error
	return &p, err
}

func (r *GormProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormProfileRepository) UpdateShipping(ctx context.Context, userID int64, fullName, phone, address, city, postalCode string) error {
	return r.DB.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"full_name":   fullName,
			"phone":       phone,
			"address":     address,
			"city":        city,
			"postal_code": postalCode,
		}).Error
}

func (r *GormProfileRepository) List(ctx context.Context, page, pageSize int) ([]domain.Profile, int64, error) {
	db := r.DB.WithContext(ctx).Model(&domain.Profile{})
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	page, pageSize = normalizePage(page, pageSize)
	var rows []domain.Profile
	err := db.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error
	return rows, total, err
}

func (r *GormProfileRepository) IsUserAdmin(ctx context.Context, userID int64) (bool, error) {
	var p domain.Profile
	err := r.DB.WithContext(ctx).Select("is_admin").First(&p, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return p.IsAdmin, err
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize
}
