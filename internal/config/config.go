package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
)

// Mpesa holds everything needed to talk to the Daraja gateway. All values
// come from the environment; LoadMpesa fails when any required one is
// missing, so the rest of the code never has to handle empty config.
type Mpesa struct {
	ConsumerKey    string
	ConsumerSecret string
	GrantType      string
	OAuthEndpoint  string

	ShortCode        string
	SimulateEndpoint string

	B2CEndpoint          string
	B2CInitiatorName     string
	B2CInitiatorPassword string
	B2CResultURL         string
	B2CQueueTimeoutURL   string

	BalanceEndpoint string
	StatusEndpoint  string

	StkShortCode   string
	StkPassKey     string
	StkEndpoint    string
	StkCallbackURL string

	LNMQueryEndpoint string

	RegisterURLEndpoint string
	ConfirmationURL     string
	ValidationURL       string
	ResponseType        string

	// PublicKey is the gateway certificate's RSA key used for the
	// security credential transform. Parsed once at startup.
	PublicKey *rsa.PublicKey
}

type Config struct {
	MongoURI string
	Port     string
	Mpesa    Mpesa
}

// Load reads the configuration from the environment. Every missing
// required variable is reported in a single error.
func Load() (*Config, error) {
	var missing []string
	get := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		MongoURI: get("MONGOURI"),
		Port:     os.Getenv("PORT"),
		Mpesa: Mpesa{
			ConsumerKey:          get("MPESA_CONSUMER_KEY"),
			ConsumerSecret:       get("MPESA_CONSUMER_SECRET"),
			GrantType:            get("MPESA_GRANT_TYPE"),
			OAuthEndpoint:        get("MPESA_OAUTH_ENDPOINT"),
			ShortCode:            get("MPESA_SHORTCODE"),
			SimulateEndpoint:     get("MPESA_SIMULATE_ENDPOINT"),
			B2CEndpoint:          get("MPESA_B2C_ENDPOINT"),
			B2CInitiatorName:     get("MPESA_B2C_INITIATOR_NAME"),
			B2CInitiatorPassword: get("MPESA_B2C_INITIATOR_PASSWORD"),
			B2CResultURL:         get("MPESA_B2C_RESULT_URL"),
			B2CQueueTimeoutURL:   get("MPESA_B2C_QUEUE_TIMEOUT_URL"),
			BalanceEndpoint:      get("MPESA_BALANCE_ENDPOINT"),
			StatusEndpoint:       get("MPESA_STATUS_ENDPOINT"),
			StkShortCode:         get("MPESA_STK_SHORTCODE"),
			StkPassKey:           get("MPESA_STK_PASSKEY"),
			StkEndpoint:          get("MPESA_STK_ENDPOINT"),
			StkCallbackURL:       get("MPESA_STK_CALLBACK_URL"),
			LNMQueryEndpoint:     get("MPESA_LNM_QUERY_ENDPOINT"),
			RegisterURLEndpoint:  get("MPESA_REGISTER_URL_ENDPOINT"),
			ConfirmationURL:      get("MPESA_CONFIRMATION_URL"),
			ValidationURL:        get("MPESA_VALIDATION_URL"),
			ResponseType:         get("MPESA_RESPONSE_TYPE"),
		},
	}

	certPath := get("MPESA_CERT_PATH")
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	key, err := LoadPublicKey(certPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load gateway certificate %s: %v", certPath, err)
	}
	cfg.Mpesa.PublicKey = key

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg, nil
}

// LoadPublicKey parses a PEM-encoded X.509 certificate and returns its
// RSA public key.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, err
	}

	key, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("certificate does not carry an RSA public key")
	}
	return key, nil
}
