package store

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

func newTestCartService(db *gorm.DB) *CartService {
	return NewCartService(NewGormCartRepository(db), NewGormProductRepository(db))
}

func TestCartAdd(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, "Midnight Oud", 2500, 3)
	svc := newTestCartService(db)
	ctx := context.Background()

	item, err := svc.Add(ctx, 100, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)

	// adding the same product increments the existing row
	item, err = svc.Add(ctx, 100, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	var count int64
	db.Model(&domain.CartItem{}).Where("user_id = ?", 100).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCartAddStockLimit(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, "Citrus Bloom", 1800, 2)
	svc := newTestCartService(db)
	ctx := context.Background()

	_, err := svc.Add(ctx, 100, product.ID)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 100, product.ID)
	require.NoError(t, err)

	_, err = svc.Add(ctx, 100, product.ID)
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestCartAddOutOfStock(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, "Velvet Rose", 2200, 0)
	svc := newTestCartService(db)

	_, err := svc.Add(context.Background(), 100, product.ID)
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestCartAddUnknownProduct(t *testing.T) {
	db := openTestDB(t)
	svc := newTestCartService(db)

	_, err := svc.Add(context.Background(), 100, 424242)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartUpdateQuantity(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, "Amber Noir", 1500, 5)
	svc := newTestCartService(db)
	ctx := context.Background()

	item, err := svc.Add(ctx, 100, product.ID)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQuantity(ctx, item.ID, 5))

	assert.ErrorIs(t, svc.UpdateQuantity(ctx, item.ID, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, svc.UpdateQuantity(ctx, item.ID, -1), ErrInvalidQuantity)
	assert.ErrorIs(t, svc.UpdateQuantity(ctx, item.ID, 6), ErrInvalidQuantity)

	got, err := NewGormCartRepository(db).GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
}

func TestCartRemoveAndLines(t *testing.T) {
	db := openTestDB(t)
	p1 := seedProduct(t, db, "Oud Royal", 3000, 5)
	p2 := seedProduct(t, db, "Musk White", 1200, 5)
	svc := newTestCartService(db)
	ctx := context.Background()

	item1, err := svc.Add(ctx, 100, p1.ID)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 100, p2.ID)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 200, p1.ID)
	require.NoError(t, err)

	lines, err := svc.Lines(ctx, 100)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, float64(3000+1200), CartTotal(lines))

	require.NoError(t, svc.Remove(ctx, item1.ID))
	lines, err = svc.Lines(ctx, 100)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Musk White", lines[0].ProductName)
}
