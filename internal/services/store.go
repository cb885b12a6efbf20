package services

import (
	"context"

	"github.com/tbros/daraja-gobackend/internal/models"
)

// EntryStore is the persistence boundary for transaction entries. The
// finders return (nil, nil) when no entry matches; the reconciler treats
// that as a non-fatal correlation miss.
type EntryStore interface {
	Save(ctx context.Context, entry *models.Entry) error
	FindByBillRefNumber(ctx context.Context, billRefNumber string) (*models.Entry, error)
	FindByConversationID(ctx context.Context, conversationID, originatorConversationID string) (*models.Entry, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Entry, error)
}
