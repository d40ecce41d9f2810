package app

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/pkg/common"
)

func (a *Application) checkSuper() {
	const superEmail = "admin@toughstore.com"
	const defaultPassword = "toughstore"

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("failed to hash default admin password", zap.Error(err))
		return
	}

	var admin domain.Profile
	err = a.gormDB.Where("email = ?", superEmail).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.Profile{
			ID:        common.UUIDint64(),
			Email:     superEmail,
			Password:  string(hashed),
			FullName:  "Store Administrator",
			IsAdmin:   true,
			LastLogin: time.Now(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default admin account", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("email", superEmail))
		}
		return
	case err != nil:
		zap.L().Error("failed to query admin account", zap.Error(err))
		return
	}

	if admin.IsAdmin && admin.Password != "" {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if !admin.IsAdmin {
		updates["is_admin"] = true
	}
	if admin.Password == "" {
		updates["password"] = string(hashed)
	}
	if err := a.gormDB.Model(&domain.Profile{}).Where("id = ?", admin.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair admin account", zap.Error(err))
		return
	}
	zap.L().Warn("repaired default admin account", zap.String("email", superEmail))
}

type settingSchema struct {
	Type    string
	Name    string
	Default string
	Remark  string
}

// settingSchemas defines every runtime setting and its default. Missing rows
// are created on startup so new keys need no migration.
var settingSchemas = []settingSchema{
	{"store", "Name", "Toughstore", "Store display name used in order summaries"},
	{"store", "WhatsappContact", "923705168493", "WhatsApp number in international format without the plus sign"},
	{"store", "OperatorEmail", "", "Email address notified of new orders"},
	{"store", "PendingReminderHours", "48", "Age in hours before a pending order triggers a reminder"},
	{"smtp", "Host", "", "SMTP server host"},
	{"smtp", "Port", "587", "SMTP server port"},
	{"smtp", "From", "", "Sender address for outgoing mail"},
	{"smtp", "Username", "", "SMTP username"},
	{"smtp", "Password", "", "SMTP password"},
}

func (a *Application) checkSettings() {
	for sortid, schema := range settingSchemas {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", schema.Type, schema.Name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sortid,
				Type:   schema.Type,
				Name:   schema.Name,
				Value:  schema.Default,
				Remark: schema.Remark,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Type+"."+schema.Name),
				zap.String("default", schema.Default))
		}
	}
}

func (a *Application) checkCategories() {
	var count int64
	a.gormDB.Model(&domain.Category{}).Count(&count)
	if count > 0 {
		return
	}
	for _, name := range []string{"Men", "Women", "Unisex"} {
		a.gormDB.Create(&domain.Category{
			ID:        common.UUIDint64(),
			Name:      name,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
	}
	zap.L().Info("initialized default categories")
}

func (a *Application) checkProducts() {
	var count int64
	a.gormDB.Model(&domain.Product{}).Count(&count)
	if count > 0 {
		return
	}

	var category domain.Category
	if err := a.gormDB.Order("id asc").First(&category).Error; err != nil {
		return
	}

	demo := []domain.Product{
		{
			Name:        "Midnight Oud",
			Description: "A deep woody oud with smoky amber undertones.",
			Price:       2500,
			Stock:       20,
			Size:        "50ml",
			Notes:       []string{"Oud", "Amber", "Sandalwood"},
			Featured:    true,
		},
		{
			Name:        "Citrus Bloom",
			Description: "Bright citrus opening over a soft floral heart.",
			Price:       1800,
			Stock:       30,
			Size:        "50ml",
			Notes:       []string{"Bergamot", "Jasmine", "Musk"},
			Featured:    true,
		},
		{
			Name:        "Velvet Rose",
			Description: "Classic rose wrapped in warm vanilla.",
			Price:       2200,
			Stock:       25,
			Size:        "50ml",
			Notes:       []string{"Rose", "Vanilla", "Patchouli"},
			Featured:    true,
		},
	}
	for _, p := range demo {
		p.ID = common.UUIDint64()
		p.Slug = common.Slugify(p.Name)
		p.CategoryId = category.ID
		p.CreatedAt = time.Now()
		p.UpdatedAt = time.Now()
		a.gormDB.Create(&p)
	}
	zap.L().Info("initialized demo products")
}
