package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/avoronov/catalog-backend/pkg/enums"
)

// DiscountPolicy is a shared discount rule: products reference policies through
// the join table, policy existence is independent of any product.
type DiscountPolicy struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Type      enums.DiscountType `gorm:"column:type;not null"`
	Threshold int                `gorm:"column:threshold;not null"`
	Value     decimal.Decimal    `gorm:"column:discount_value;type:numeric(12,2);not null"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (DiscountPolicy) TableName() string {
	return "discount_policies"
}

func (p *DiscountPolicy) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// SameFields reports whether the other policy carries an identical
// (type, threshold, value) combination. Identity of ids is irrelevant.
func (p DiscountPolicy) SameFields(other DiscountPolicy) bool {
	return p.Type == other.Type &&
		p.Threshold == other.Threshold &&
		p.Value.Equal(other.Value)
}
