// Package auth decodes the request-scoped client context the platform
// forwards with every inbound call. The bundle is parsed once at the request
// boundary into an immutable value and passed explicitly; it is never stored
// in process-wide state and is discarded at request end.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// Header is the inbound header carrying the base64-encoded client context.
const Header = "x-client-context"

var (
	// ErrMissingContext indicates the client-context header was absent.
	ErrMissingContext = errors.New("auth: client context header is missing")

	// ErrMalformedContext indicates the header could not be decoded.
	ErrMalformedContext = errors.New("auth: client context is malformed")

	// ErrIncompleteContext indicates a decoded bundle with required fields
	// missing.
	ErrIncompleteContext = errors.New("auth: client context is incomplete")
)

// Credentials is the decoded, immutable credential bundle for one request.
type Credentials struct {
	AccessToken string `json:"accessToken"`
	APIVersion  string `json:"apiVersion"`
	OrgID       string `json:"orgId"`
	UserID      string `json:"userId"`
	InstanceURL string `json:"instanceUrl"`
}

// Decode parses the raw header value into Credentials. Error messages name
// missing fields but never echo the bundle contents.
func Decode(raw string) (Credentials, error) {
	if raw == "" {
		return Credentials{}, ErrMissingContext
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: invalid base64", ErrMalformedContext)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("%w: invalid JSON", ErrMalformedContext)
	}

	for _, f := range []struct{ name, val string }{
		{"accessToken", creds.AccessToken},
		{"apiVersion", creds.APIVersion},
		{"instanceUrl", creds.InstanceURL},
	} {
		if f.val == "" {
			return Credentials{}, fmt.Errorf("%w: %s is required", ErrIncompleteContext, f.name)
		}
	}

	return creds, nil
}
