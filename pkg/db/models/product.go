package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog item with an owned set of discount policy references.
type Product struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name             string           `gorm:"column:name;not null"`
	Price            decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	DiscountPolicies []DiscountPolicy `gorm:"many2many:product_discount_policies"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductDiscountPolicy is the explicit join row for the product↔policy set.
// Rows are replaced as a whole when the association changes.
type ProductDiscountPolicy struct {
	ProductID        uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	DiscountPolicyID uuid.UUID `gorm:"column:discount_policy_id;type:uuid;primaryKey"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ProductDiscountPolicy) TableName() string {
	return "product_discount_policies"
}
