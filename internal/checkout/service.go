package checkout

import (
	"context"
	"strings"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/notify"
	"github.com/talkincode/toughstore/internal/store"
	"github.com/talkincode/toughstore/pkg/common"
	"github.com/talkincode/toughstore/pkg/metrics"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ValidationError lists the required shipping fields that were left blank.
// It is surfaced inline before any write happens.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// ShippingInput is the checkout form. FullName, Phone, Address and City are
// required; PostalCode and Notes are optional.
type ShippingInput struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Notes      string `json:"notes"`
}

// Validate trims the input and returns the names of missing required fields.
func (in *ShippingInput) Validate() *ValidationError {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)

	var missing []string
	if in.FullName == "" {
		missing = append(missing, "full_name")
	}
	if in.Phone == "" {
		missing = append(missing, "phone")
	}
	if in.Address == "" {
		missing = append(missing, "address")
	}
	if in.City == "" {
		missing = append(missing, "city")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Settings exposes the runtime store settings the workflow needs.
type Settings interface {
	GetString(category, name string) string
}

// Result is what a successful checkout hands back to the caller: the created
// order, its snapshot items and a wa.me deep link carrying the summary.
type Result struct {
	Order       domain.Order       `json:"order"`
	Items       []domain.OrderItem `json:"items"`
	WhatsAppURL string             `json:"whatsapp_url"`
}

// Service runs the checkout workflow. All writes happen inside one database
// transaction; a failed stock decrement aborts the whole order.
type Service struct {
	db       *gorm.DB
	settings Settings
	bus      evbus.Bus
}

func NewService(db *gorm.DB, settings Settings, bus evbus.Bus) *Service {
	return &Service{db: db, settings: settings, bus: bus}
}

// PlaceOrder creates the order, snapshots the items, decrements stock,
// clears the cart and saves the shipping details back to the profile.
func (s *Service) PlaceOrder(ctx context.Context, userID int64, in ShippingInput) (*Result, error) {
	if verr := in.Validate(); verr != nil {
		return nil, verr
	}

	var (
		order domain.Order
		items []domain.OrderItem
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carts := store.NewGormCartRepository(tx)
		lines, err := carts.LinesByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		order = domain.Order{
			ID:                 common.UUIDint64(),
			UserId:             userID,
			Total:              store.CartTotal(lines),
			Phone:              in.Phone,
			ShippingAddress:    in.Address,
			ShippingCity:       in.City,
			ShippingPostalCode: in.PostalCode,
			Notes:              in.Notes,
			Status:             domain.OrderStatusPending,
			CreatedAt:          time.Now(),
			UpdatedAt:          time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return errors.Wrap(err, "create order")
		}

		items = make([]domain.OrderItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, domain.OrderItem{
				ID:           common.UUIDint64(),
				OrderId:      order.ID,
				ProductId:    line.ProductId,
				ProductName:  line.ProductName,
				ProductPrice: line.ProductPrice,
				Quantity:     line.Quantity,
				CreatedAt:    time.Now(),
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return errors.Wrap(err, "create order items")
		}

		// stock = stock - qty only while stock >= qty; zero rows affected
		// means another checkout got there first
		for _, line := range lines {
			res := tx.Model(&domain.Product{}).
				Where("id = ? AND stock >= ?", line.ProductId, line.Quantity).
				Update("stock", gorm.Expr("stock - ?", line.Quantity))
			if res.Error != nil {
				return errors.Wrap(res.Error, "decrement stock")
			}
			if res.RowsAffected == 0 {
				return errors.Wrapf(ErrInsufficientStock, "product %s", line.ProductName)
			}
		}

		if err := carts.DeleteByUser(ctx, userID); err != nil {
			return errors.Wrap(err, "clear cart")
		}

		// shipping details prefill the next checkout
		profiles := store.NewGormProfileRepository(tx)
		if err := profiles.UpdateShipping(ctx, userID, in.FullName, in.Phone, in.Address, in.City, in.PostalCode); err != nil {
			return errors.Wrap(err, "update profile")
		}
		return nil
	})
	if err != nil {
		metrics.CounterIncr(metrics.StoreOrderFailed)
		return nil, err
	}

	metrics.CounterIncr(metrics.StoreOrderPlaced)

	summary := ComposeSummary(s.settings.GetString("store", "Name"), order, items, in)
	waURL := WhatsAppLink(s.settings.GetString("store", "WhatsappContact"), summary)

	if s.bus != nil {
		s.bus.Publish(notify.TopicOrderCreated, notify.OrderEvent{
			Order: order,
			Items: items,
		})
	}

	zap.L().Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", userID),
		zap.Float64("total", order.Total),
		zap.Int("items", len(items)))

	return &Result{Order: order, Items: items, WhatsAppURL: waURL}, nil
}
