package product

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/avoronov/catalog-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := conn.SetupJoinTable(&models.Product{}, "DiscountPolicies", &models.ProductDiscountPolicy{}); err != nil {
		t.Fatalf("failed to register join table: %v", err)
	}

	err = conn.AutoMigrate(
		&models.DiscountPolicy{},
		&models.Product{},
		&models.ProductDiscountPolicy{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return conn
}
