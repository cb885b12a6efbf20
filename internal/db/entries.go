package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tbros/daraja-gobackend/internal/models"
)

// EntryStore persists transaction entries in the "b2c_c2b_entries"
// collection. Last write for a given entry wins; there is no uniqueness
// enforcement beyond the Mongo object id.
type EntryStore struct {
	collection *mongo.Collection
}

func NewEntryStore(database *mongo.Database) *EntryStore {
	return &EntryStore{collection: database.Collection("b2c_c2b_entries")}
}

// EnsureIndexes creates the lookup indexes used by reconciliation.
func (s *EntryStore) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.M{"bill_ref_number": 1}},
		{Keys: bson.M{"conversation_id": 1}},
		{Keys: bson.M{"originator_conversation_id": 1}},
		{Keys: bson.M{"transaction_id": 1}},
	}
	_, err := s.collection.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create entry indexes: %v", err)
	}
	return nil
}

// Save inserts the entry when it has no id yet, otherwise replaces the
// stored document.
func (s *EntryStore) Save(ctx context.Context, entry *models.Entry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
		if _, err := s.collection.InsertOne(ctx, entry); err != nil {
			return fmt.Errorf("failed to insert entry: %v", err)
		}
		return nil
	}

	if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry); err != nil {
		return fmt.Errorf("failed to replace entry %s: %v", entry.ID.Hex(), err)
	}
	return nil
}

// FindByBillRefNumber returns the entry matching the bill reference
// number, or nil when none exists.
func (s *EntryStore) FindByBillRefNumber(ctx context.Context, billRefNumber string) (*models.Entry, error) {
	return s.findOne(ctx, bson.M{"bill_ref_number": billRefNumber})
}

// FindByConversationID returns the entry matching either conversation
// identifier, or nil when none exists.
func (s *EntryStore) FindByConversationID(ctx context.Context, conversationID, originatorConversationID string) (*models.Entry, error) {
	return s.findOne(ctx, bson.M{"$or": []bson.M{
		{"conversation_id": conversationID},
		{"originator_conversation_id": originatorConversationID},
	}})
}

// FindByTransactionID returns the entry matching the gateway-assigned
// transaction id, or nil when none exists.
func (s *EntryStore) FindByTransactionID(ctx context.Context, transactionID string) (*models.Entry, error) {
	return s.findOne(ctx, bson.M{"transaction_id": transactionID})
}

func (s *EntryStore) findOne(ctx context.Context, filter bson.M) (*models.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var entry models.Entry
	if err := s.collection.FindOne(ctx, filter).Decode(&entry); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch entry: %v", err)
	}
	return &entry, nil
}
