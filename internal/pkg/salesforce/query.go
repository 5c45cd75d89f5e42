package salesforce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type queryEnvelope struct {
	TotalSize int             `json:"totalSize"`
	Done      bool            `json:"done"`
	Records   json.RawMessage `json:"records"`
}

// Query runs a SOQL query and unmarshals the records array into out (a
// pointer to a slice of row structs tagged with the store's field names).
// Record order is positionally stable within one response.
func (c *Client) Query(ctx context.Context, soql string, out any) error {
	u := c.url(c.apiPath()+"/query") + "?q=" + url.QueryEscape(soql)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("salesforce: build query request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("salesforce: query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("salesforce: query returned %s: %s", resp.Status, apiErrorSummary(resp))
	}

	var env queryEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("salesforce: decode query response: %w", err)
	}

	c.log.WithField("totalSize", env.TotalSize).Debug("soql query")

	if len(env.Records) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Records, out); err != nil {
		return fmt.Errorf("salesforce: decode query records: %w", err)
	}
	return nil
}

// QuoteLiteral escapes a value for inclusion in a single-quoted SOQL literal.
func QuoteLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}
