// Package store persists categorized transactions per user.
package store

import (
	"context"

	"github.com/yurifrl/finsum/pkg/models"
)

// DefaultUser owns transactions when no user is signed in.
const DefaultUser = "anonymous"

// Store saves and loads a user's transactions. Save upserts by transaction
// id, so saving the same statement twice keeps one copy of each transaction.
type Store interface {
	Save(ctx context.Context, userID string, txs []models.Transaction) error
	Load(ctx context.Context, userID string) ([]models.Transaction, error)
}

func userOrDefault(userID string) string {
	if userID == "" {
		return DefaultUser
	}
	return userID
}
