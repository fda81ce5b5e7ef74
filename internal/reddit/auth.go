package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/reddish-app/reddish/internal/secrets"
)

const tokenEndpointPath = "api/v1/access_token"

// authenticator retrieves an access token from Reddit using the OAuth2
// password grant, which is what Reddit "script" apps use.
type authenticator struct {
	client    *http.Client
	userAgent string
	tokenURL  string
}

func newAuthenticator(httpClient *http.Client, authBaseURL, userAgent string) (*authenticator, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsed, err := url.Parse(authBaseURL)
	if err != nil {
		return nil, &AuthError{Err: fmt.Errorf("failed to parse auth base URL: %w", err)}
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	resolved, err := parsed.Parse(tokenEndpointPath)
	if err != nil {
		return nil, &AuthError{Err: fmt.Errorf("failed to parse token endpoint path: %w", err)}
	}

	return &authenticator{
		client:    httpClient,
		userAgent: userAgent,
		tokenURL:  resolved.String(),
	}, nil
}

// Token performs the password grant flow and returns a bearer token.
func (a *authenticator) Token(ctx context.Context, creds *secrets.Credentials) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("failed to create token request: %w", err)}
	}

	req.SetBasicAuth(creds.ClientID, creds.ClientSecret)
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("failed to execute token request: %w", err)}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &AuthError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read token response body: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		}
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(bodyBytes, &tokenResp); err != nil {
		return "", &AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
			Err:        fmt.Errorf("failed to unmarshal token response: %w", err),
		}
	}

	// Reddit returns 200 with an "error" field for bad credentials.
	if tokenResp.AccessToken == "" {
		return "", &AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
			Err:        fmt.Errorf("access token was empty in response"),
		}
	}

	return tokenResp.AccessToken, nil
}
