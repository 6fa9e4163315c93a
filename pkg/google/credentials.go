package google

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	googleOAuth "golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

var ErrNoCredentials = errors.New("google service account credentials not configured")

// CredentialSource names where the service account key comes from. JSON wins
// over File when both are set, and may be raw JSON or base64 of it.
type CredentialSource struct {
	File string
	JSON string
}

func (c CredentialSource) Load() ([]byte, error) {
	if blob := strings.TrimSpace(c.JSON); blob != "" {
		if strings.HasPrefix(blob, "{") {
			return []byte(blob), nil
		}
		decoded, err := base64.StdEncoding.DecodeString(blob)
		if err != nil {
			return nil, fmt.Errorf("decode credentials blob: %w", err)
		}
		return decoded, nil
	}

	if c.File != "" {
		data, err := os.ReadFile(c.File)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return data, nil
	}

	return nil, ErrNoCredentials
}

func (c CredentialSource) ClientOption(ctx context.Context, scopes ...string) (option.ClientOption, error) {
	data, err := c.Load()
	if err != nil {
		return nil, err
	}

	creds, err := googleOAuth.CredentialsFromJSON(ctx, data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	return option.WithCredentials(creds), nil
}
