package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tbros/daraja-gobackend/internal/models"
)

// AccessToken fetches a fresh bearer token from the gateway's OAuth
// endpoint. There is no caching: every operation acquires its own token
// and must check the error before using the value.
func (s *DarajaService) AccessToken(ctx context.Context) (*models.AccessTokenResponse, error) {
	credentials := base64.StdEncoding.EncodeToString([]byte(s.cfg.ConsumerKey + ":" + s.cfg.ConsumerSecret))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.OAuthEndpoint+"?grant_type="+s.cfg.GrantType, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %v", err)
	}
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token request returned status %d: %s", resp.StatusCode, string(body))
	}

	var token models.AccessTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %v", err)
	}
	return &token, nil
}
