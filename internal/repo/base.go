// Package repo holds the persistence building blocks shared by the catalog
// domain repositories.
package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base carries the GORM connection the product and discount policy
// repositories query through. Rebinding it to a transaction handle is how a
// repository joins a transaction.
type Base struct {
	conn *gorm.DB
}

// NewBase wraps a GORM connection (or transaction) for a domain repository.
func NewBase(conn *gorm.DB) Base {
	return Base{conn: conn}
}

// DB returns the connection scoped to ctx. A nil context yields the raw
// connection.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.conn
	}
	return b.conn.WithContext(ctx)
}
