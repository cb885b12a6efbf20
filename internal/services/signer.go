package services

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"time"
)

// transactionTimestamp formats t the way the gateway expects
// (YYYYMMDDHHmmss). The STK password is derived from this exact value,
// so it is generated once at request-build time and embedded alongside
// the password.
func transactionTimestamp(t time.Time) string {
	return t.Format("20060102150405")
}

// stkPushPassword derives the push-payment password: the Base64 encoding
// of shortCode + passKey + timestamp, concatenated in that order.
func stkPushPassword(shortCode, passKey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passKey + timestamp))
}

// securityCredential encrypts the configured initiator password under the
// gateway certificate's RSA key and returns it Base64-encoded. This is
// the credential the gateway requires on B2C, balance and status
// requests.
func (s *DarajaService) securityCredential() (string, error) {
	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, s.cfg.PublicKey, []byte(s.cfg.B2CInitiatorPassword))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt initiator password: %v", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
