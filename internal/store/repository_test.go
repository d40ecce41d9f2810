package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/pkg/common"
)

func TestProductList(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewGormProductRepository(db)

	cheap := seedProduct(t, db, "Citrus Bloom", 1000, 5)
	mid := seedProduct(t, db, "Velvet Rose", 2000, 5)
	dear := seedProduct(t, db, "Midnight Oud", 3000, 5)
	db.Model(&domain.Product{}).Where("id IN ?", []int64{mid.ID, dear.ID}).
		Update("featured", true)

	rows, total, err := repo.List(ctx, ProductFilter{SortCol: "price", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 3)
	assert.Equal(t, cheap.ID, rows[0].ID)
	assert.Equal(t, dear.ID, rows[2].ID)

	rows, total, err = repo.List(ctx, ProductFilter{Query: "oud"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Midnight Oud", rows[0].Name)

	featured, err := repo.Featured(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, featured, 2)

	// unknown sort column falls back instead of erroring
	_, _, err = repo.List(ctx, ProductFilter{SortCol: "name; drop table products"})
	require.NoError(t, err)
}

func TestProductGetBySlug(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormProductRepository(db)
	seedProduct(t, db, "Midnight Oud", 3000, 5)

	p, err := repo.GetBySlug(context.Background(), "midnight-oud")
	require.NoError(t, err)
	assert.Equal(t, "Midnight Oud", p.Name)
}

func seedOrder(t *testing.T, db *gorm.DB, userID int64, total float64, status string, age time.Duration) domain.Order {
	t.Helper()
	o := domain.Order{
		ID:        common.UUIDint64(),
		UserId:    userID,
		Total:     total,
		Status:    status,
		CreatedAt: time.Now().Add(-age),
		UpdatedAt: time.Now().Add(-age),
	}
	require.NoError(t, db.Create(&o).Error)
	return o
}

func TestOrderListAndStatus(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewGormOrderRepository(db)

	pending := seedOrder(t, db, 100, 2000, domain.OrderStatusPending, time.Hour)
	seedOrder(t, db, 100, 1500, domain.OrderStatusShipped, 2*time.Hour)
	seedOrder(t, db, 200, 900, domain.OrderStatusPending, 72*time.Hour)

	rows, total, err := repo.List(ctx, OrderFilter{Status: domain.OrderStatusPending})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)

	rows, total, err = repo.List(ctx, OrderFilter{UserId: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	rows, total, err = repo.List(ctx, OrderFilter{Since: time.Now().Add(-3 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	require.NoError(t, repo.SetStatus(ctx, pending.ID, domain.OrderStatusDelivered))
	got, err := repo.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, got.Status)

	totals, err := repo.Totals(ctx)
	require.NoError(t, err)
	assert.Len(t, totals, 3)

	stale, err := repo.PendingOlderThan(ctx, 48)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, int64(200), stale[0].UserId)
}

func TestOrderOwnership(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewGormOrderRepository(db)

	order := seedOrder(t, db, 100, 2000, domain.OrderStatusPending, 0)

	got, err := repo.GetByUserAndID(ctx, 100, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// someone else's order is invisible
	_, err = repo.GetByUserAndID(ctx, 200, order.ID)
	assert.Error(t, err)
}

func TestProfileIsUserAdmin(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewGormProfileRepository(db)

	admin := domain.Profile{ID: common.UUIDint64(), Email: "admin@example.com", IsAdmin: true}
	customer := domain.Profile{ID: common.UUIDint64(), Email: "c@example.com"}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&customer).Error)

	isAdmin, err := repo.IsUserAdmin(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = repo.IsUserAdmin(ctx, customer.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	// unknown users are not admins, not errors
	isAdmin, err = repo.IsUserAdmin(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestProfileUpdateShipping(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewGormProfileRepository(db)

	p := domain.Profile{ID: common.UUIDint64(), Email: "c@example.com"}
	require.NoError(t, db.Create(&p).Error)

	require.NoError(t, repo.UpdateShipping(ctx, p.ID, "Ayesha Khan", "0300", "14 Mall Road", "Lahore", "54000"))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ayesha Khan", got.FullName)
	assert.Equal(t, "Lahore", got.City)
	assert.Equal(t, "54000", got.PostalCode)
}
