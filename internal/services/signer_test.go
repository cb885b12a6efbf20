package services

import (
	"crypto/rsa"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStkPushPassword(t *testing.T) {
	shortCode := "600000"
	passKey := "bfb279f9aa9bdbcf158e97dd71a467cd2e0c893059b10f78e6b72ada1ed2c919"
	timestamp := "20240101120000"

	password := stkPushPassword(shortCode, passKey, timestamp)

	decoded, err := base64.StdEncoding.DecodeString(password)
	require.NoError(t, err)
	assert.Equal(t, shortCode+passKey+timestamp, string(decoded))
}

func TestTransactionTimestamp(t *testing.T) {
	at := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "20240101120000", transactionTimestamp(at))

	// Fixed width even for single-digit components.
	at = time.Date(2024, time.March, 7, 9, 5, 3, 0, time.UTC)
	assert.Equal(t, "20240307090503", transactionTimestamp(at))
}

func TestSecurityCredentialRoundTrip(t *testing.T) {
	cfg, key := testConfig(t, "http://gateway.invalid")
	svc := NewDarajaService(cfg, &fakeStore{})

	credential, err := svc.securityCredential()
	require.NoError(t, err)

	ciphertext, err := base64.StdEncoding.DecodeString(credential)
	require.NoError(t, err)

	plaintext, err := rsa.DecryptPKCS1v15(nil, key, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, cfg.B2CInitiatorPassword, string(plaintext))
}
