package azure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	apperrors "github.com/krhatland/cloudnetdraw-go/pkg/errors"
)

// Credential supplies bearer tokens for the management API.
type Credential interface {
	// Token returns a valid access token. Implementations cache tokens
	// internally and refresh them before expiry.
	Token(ctx context.Context) (string, error)
}

// CredentialFromEnv picks a credential from the environment: a service
// principal when AZURE_CLIENT_ID, AZURE_CLIENT_SECRET, and AZURE_TENANT_ID
// are all set, the az CLI session otherwise.
func CredentialFromEnv() Credential {
	clientID := os.Getenv("AZURE_CLIENT_ID")
	secret := os.Getenv("AZURE_CLIENT_SECRET")
	tenant := os.Getenv("AZURE_TENANT_ID")
	if clientID != "" && secret != "" && tenant != "" {
		return NewClientSecretCredential(tenant, clientID, secret)
	}
	return &CLICredential{}
}

// tokenExpirySlack refreshes tokens this long before they actually expire,
// so a token never dies mid-request.
const tokenExpirySlack = 5 * time.Minute

// ClientSecretCredential authenticates a service principal with the OAuth2
// client-credentials flow.
type ClientSecretCredential struct {
	TenantID     string
	ClientID     string
	ClientSecret string

	http *http.Client

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewClientSecretCredential returns a credential for the given service
// principal.
func NewClientSecretCredential(tenantID, clientID, clientSecret string) *ClientSecretCredential {
	return &ClientSecretCredential{
		TenantID:     tenantID,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		http:         &http.Client{Timeout: 30 * time.Second},
	}
}

// Token returns a cached token, fetching a fresh one when the cached token
// is near expiry. Safe for concurrent use.
func (c *ClientSecretCredential) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.expires.Add(-tokenExpirySlack)) {
		return c.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.ClientID},
		"client_secret": {c.ClientSecret},
		"scope":         {"https://management.azure.com/.default"},
	}
	endpoint := "https://login.microsoftonline.com/" + c.TenantID + "/oauth2/v2.0/token"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, err, "build token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeNetwork, err, "request token")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.New(apperrors.ErrCodeUnauthorized, "token endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeUnauthorized, err, "decode token response")
	}
	if body.AccessToken == "" {
		return "", apperrors.New(apperrors.ErrCodeUnauthorized, "token endpoint returned empty token")
	}

	c.token = body.AccessToken
	c.expires = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	return c.token, nil
}

// CLICredential shells out to the az CLI and reuses its login session. This
// is the interactive default: no secrets in the environment, whatever `az
// login` established.
type CLICredential struct {
	mu      sync.Mutex
	token   string
	expires time.Time
}

// Token returns a cached token, invoking `az account get-access-token` when
// no valid token is held.
func (c *CLICredential) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.expires.Add(-tokenExpirySlack)) {
		return c.token, nil
	}

	cmd := exec.CommandContext(ctx, "az", "account", "get-access-token",
		"--resource", "https://management.azure.com", "--output", "json")
	out, err := cmd.Output()
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeUnauthorized, err,
			"az CLI token lookup failed (is `az login` done?)")
	}

	var body struct {
		AccessToken string `json:"accessToken"`
		ExpiresOn   string `json:"expiresOn"`
	}
	if err := json.Unmarshal(out, &body); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeUnauthorized, err, "decode az CLI output")
	}

	c.token = body.AccessToken
	c.expires = time.Now().Add(30 * time.Minute)
	if t, err := time.ParseInLocation("2006-01-02 15:04:05.000000", body.ExpiresOn, time.Local); err == nil {
		c.expires = t
	}
	return c.token, nil
}

// StaticCredential returns a fixed token. Test helper.
type StaticCredential string

// Token returns the static token.
func (s StaticCredential) Token(context.Context) (string, error) {
	return string(s), nil
}
