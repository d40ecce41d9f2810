package checkout

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/pkg/common"
)

type testSettings map[string]string

func (s testSettings) GetString(category, name string) string {
	return s[category+"."+name]
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) domain.Product {
	t.Helper()
	p := domain.Product{
		ID:    common.UUIDint64(),
		Name:  name,
		Slug:  common.Slugify(name),
		Price: price,
		Stock: stock,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedCartItem(t *testing.T, db *gorm.DB, userID, productID int64, qty int) {
	t.Helper()
	require.NoError(t, db.Create(&domain.CartItem{
		ID:        common.UUIDint64(),
		UserId:    userID,
		ProductId: productID,
		Quantity:  qty,
	}).Error)
}

func seedUser(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	p := domain.Profile{
		ID:    common.UUIDint64(),
		Email: common.UUID() + "@example.com",
	}
	require.NoError(t, db.Create(&p).Error)
	return p.ID
}

func validInput() ShippingInput {
	return ShippingInput{
		FullName:   "Ayesha Khan",
		Phone:      "03001234567",
		Address:    "14 Mall Road",
		City:       "Lahore",
		PostalCode: "54000",
	}
}

func TestPlaceOrder(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	product := seedProduct(t, db, "Midnight Oud", 1000, 10)
	seedCartItem(t, db, userID, product.ID, 2)

	settings := testSettings{
		"store.Name":            "Toughstore",
		"store.WhatsappContact": "923705168493",
	}
	svc := NewService(db, settings, nil)

	result, err := svc.PlaceOrder(context.Background(), userID, validInput())
	require.NoError(t, err)

	assert.Equal(t, float64(2000), result.Order.Total)
	assert.Equal(t, domain.OrderStatusPending, result.Order.Status)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Midnight Oud", result.Items[0].ProductName)
	assert.Equal(t, float64(1000), result.Items[0].ProductPrice)
	assert.Equal(t, 2, result.Items[0].Quantity)

	// stock decremented
	var p domain.Product
	require.NoError(t, db.First(&p, product.ID).Error)
	assert.Equal(t, 8, p.Stock)

	// cart cleared
	var cartCount int64
	db.Model(&domain.CartItem{}).Where("user_id = ?", userID).Count(&cartCount)
	assert.Zero(t, cartCount)

	// shipping details saved back to the profile
	var profile domain.Profile
	require.NoError(t, db.First(&profile, userID).Error)
	assert.Equal(t, "Ayesha Khan", profile.FullName)
	assert.Equal(t, "Lahore", profile.City)

	assert.Contains(t, result.WhatsAppURL, "https://wa.me/923705168493?text=")
	assert.Contains(t, result.WhatsAppURL, "Midnight+Oud")
}

func TestPlaceOrderMissingFields(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	svc := NewService(db, testSettings{}, nil)

	input := validInput()
	input.City = ""
	input.Phone = ""

	_, err := svc.PlaceOrder(context.Background(), userID, input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"city", "phone"}, verr.Fields)

	// nothing written
	var orderCount int64
	db.Model(&domain.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	svc := NewService(db, testSettings{}, nil)

	_, err := svc.PlaceOrder(context.Background(), userID, validInput())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	product := seedProduct(t, db, "Citrus Bloom", 1800, 1)
	seedCartItem(t, db, userID, product.ID, 3)

	svc := NewService(db, testSettings{}, nil)

	_, err := svc.PlaceOrder(context.Background(), userID, validInput())
	require.ErrorIs(t, err, ErrInsufficientStock)

	// the whole transaction rolled back
	var orderCount, itemCount int64
	db.Model(&domain.Order{}).Count(&orderCount)
	db.Model(&domain.OrderItem{}).Count(&itemCount)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)

	var p domain.Product
	require.NoError(t, db.First(&p, product.ID).Error)
	assert.Equal(t, 1, p.Stock)

	var cartCount int64
	db.Model(&domain.CartItem{}).Where("user_id = ?", userID).Count(&cartCount)
	assert.Equal(t, int64(1), cartCount)
}

func TestPlaceOrderMultipleLines(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db)
	p1 := seedProduct(t, db, "Velvet Rose", 2200, 5)
	p2 := seedProduct(t, db, "Amber Noir", 1500, 5)
	seedCartItem(t, db, userID, p1.ID, 1)
	seedCartItem(t, db, userID, p2.ID, 2)

	svc := NewService(db, testSettings{}, nil)

	result, err := svc.PlaceOrder(context.Background(), userID, validInput())
	require.NoError(t, err)
	assert.Equal(t, float64(2200+2*1500), result.Order.Total)
	assert.Len(t, result.Items, 2)
}
