package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrAuthFailed cubre cualquier rechazo del endpoint de token; el
// detalle del servidor viaja envuelto en el mensaje.
var ErrAuthFailed = errors.New("crm authentication failed")

type Credentials struct {
	Domain        string // "login" o "test"
	TokenURL      string // si viene, manda sobre Domain
	ClientID      string
	ClientSecret  string
	Username      string
	Password      string
	SecurityToken string
}

type Session struct {
	AccessToken string
	InstanceURL string
}

func (c Credentials) tokenURL() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	host := "login.salesforce.com"
	if c.Domain == "test" {
		host = "test.salesforce.com"
	}
	return "https://" + host + "/services/oauth2/token"
}

// Login runs the OAuth password grant. El password y el security token
// van concatenados, como exige el CRM.
func Login(ctx context.Context, c HTTPClient, creds Credentials) (Session, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)
	form.Set("username", creds.Username)
	form.Set("password", creds.Password+creds.SecurityToken)

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, creds.tokenURL(), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.Do(req)
	if err != nil {
		return Session{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Description string `json:"error_description"`
		}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		_ = json.Unmarshal(b, &e)
		if e.Description == "" {
			e.Description = resp.Status
		}
		return Session{}, fmt.Errorf("%w: %s", ErrAuthFailed, e.Description)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		InstanceURL string `json:"instance_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return Session{}, fmt.Errorf("decode token response: %w", err)
	}
	return Session{AccessToken: tok.AccessToken, InstanceURL: tok.InstanceURL}, nil
}
