package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tbros/daraja-gobackend/internal/config"
	"github.com/tbros/daraja-gobackend/internal/models"
)

// fakeStore is an in-memory EntryStore that counts writes.
type fakeStore struct {
	entries []models.Entry
	saves   int
}

func (f *fakeStore) Save(_ context.Context, entry *models.Entry) error {
	f.saves++
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
		f.entries = append(f.entries, *entry)
		return nil
	}
	for i := range f.entries {
		if f.entries[i].ID == entry.ID {
			f.entries[i] = *entry
			return nil
		}
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeStore) FindByBillRefNumber(_ context.Context, billRefNumber string) (*models.Entry, error) {
	for i := range f.entries {
		if f.entries[i].BillRefNumber == billRefNumber {
			entry := f.entries[i]
			return &entry, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByConversationID(_ context.Context, conversationID, originatorConversationID string) (*models.Entry, error) {
	for i := range f.entries {
		if f.entries[i].ConversationID == conversationID ||
			f.entries[i].OriginatorConversationID == originatorConversationID {
			entry := f.entries[i]
			return &entry, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByTransactionID(_ context.Context, transactionID string) (*models.Entry, error) {
	for i := range f.entries {
		if f.entries[i].TransactionID == transactionID {
			entry := f.entries[i]
			return &entry, nil
		}
	}
	return nil, nil
}

// testConfig points every gateway endpoint at baseURL and carries a
// throwaway RSA key for the security credential transform.
func testConfig(t *testing.T, baseURL string) (*config.Mpesa, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}

	return &config.Mpesa{
		ConsumerKey:          "consumer-key",
		ConsumerSecret:       "consumer-secret",
		GrantType:            "client_credentials",
		OAuthEndpoint:        baseURL + "/oauth/v1/generate",
		ShortCode:            "600000",
		SimulateEndpoint:     baseURL + "/mpesa/c2b/v1/simulate",
		B2CEndpoint:          baseURL + "/mpesa/b2c/v1/paymentrequest",
		B2CInitiatorName:     "testapi",
		B2CInitiatorPassword: "initiator-password",
		B2CResultURL:         "https://example.com/mobile-money/transaction-result",
		B2CQueueTimeoutURL:   "https://example.com/mobile-money/b2c-queue-timeout",
		BalanceEndpoint:      baseURL + "/mpesa/accountbalance/v1/query",
		StatusEndpoint:       baseURL + "/mpesa/transactionstatus/v1/query",
		StkShortCode:         "174379",
		StkPassKey:           "bfb279f9aa9bdbcf158e97dd71a467cd2e0c893059b10f78e6b72ada1ed2c919",
		StkEndpoint:          baseURL + "/mpesa/stkpush/v1/processrequest",
		StkCallbackURL:       "https://example.com/mobile-money/stk-transaction-result",
		LNMQueryEndpoint:     baseURL + "/mpesa/stkpushquery/v1/query",
		RegisterURLEndpoint:  baseURL + "/mpesa/c2b/v1/registerurl",
		ConfirmationURL:      "https://example.com/mobile-money/confirmation",
		ValidationURL:        "https://example.com/mobile-money/validation",
		ResponseType:         "Completed",
		PublicKey:            &key.PublicKey,
	}, key
}
