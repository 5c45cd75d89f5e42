// Package salesforce is a minimal REST driver for the vendor record store.
// It covers exactly the two contracts the service needs: a SOQL read and the
// composite all-or-nothing write used by the unit-of-work committer.
package salesforce

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/murkotick/opportunity-quote-service/internal/pkg/auth"
)

// ErrUnauthorized indicates the store rejected the forwarded access token.
var ErrUnauthorized = errors.New("salesforce: session expired or invalid")

// Client is a credential-scoped API client. It is built once per request from
// the decoded client context and holds no state beyond the bundle itself, so
// independent requests never share credentials.
type Client struct {
	http  *http.Client
	creds auth.Credentials
	log   logrus.FieldLogger
}

// New returns a client bound to one request's credentials. The *http.Client
// is shared across requests; pass nil for http.DefaultClient.
func New(hc *http.Client, creds auth.Credentials, log logrus.FieldLogger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{http: hc, creds: creds, log: log}
}

func (c *Client) apiPath() string {
	return "/services/data/v" + c.creds.APIVersion
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.creds.InstanceURL, "/") + path
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.creds.AccessToken)
	req.Header.Set("Content-Type", "application/json")
}
