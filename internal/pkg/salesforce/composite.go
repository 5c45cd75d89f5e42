package salesforce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/murkotick/opportunity-quote-service/internal/pkg/unitofwork"
)

// compositeRequest is the store's atomic-transaction wire format. With
// allOrNone set, the store rolls back every subrequest when any one fails.
type compositeRequest struct {
	AllOrNone        bool         `json:"allOrNone"`
	CompositeRequest []subRequest `json:"compositeRequest"`
}

type subRequest struct {
	Method      string                     `json:"method"`
	URL         string                     `json:"url"`
	ReferenceID string                     `json:"referenceId"`
	Body        map[string]json.RawMessage `json:"body,omitempty"`
}

type compositeResponse struct {
	CompositeResponse []subResponse `json:"compositeResponse"`
}

type subResponse struct {
	Body           json.RawMessage `json:"body"`
	HTTPStatusCode int             `json:"httpStatusCode"`
	ReferenceID    string          `json:"referenceId"`
}

type saveResult struct {
	ID      string     `json:"id"`
	Success bool       `json:"success"`
	Errors  []apiError `json:"errors"`
}

type apiError struct {
	Message   string   `json:"message"`
	ErrorCode string   `json:"errorCode"`
	Fields    []string `json:"fields"`
}

// Execute sends the whole batch as one composite request. The store resolves
// embedded references server-side: a pending reference serializes as
// "@{<token>.id}" and the store substitutes the created record's identifier
// within the same transaction.
//
// Execute satisfies unitofwork.Store: per-operation failures come back in the
// results, and the error return is reserved for transport-level failures with
// unknown outcome.
func (c *Client) Execute(ctx context.Context, ops []unitofwork.Operation) ([]unitofwork.OperationResult, error) {
	wire, err := c.encode(ops)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("salesforce: marshal composite request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(c.apiPath()+"/composite"), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("salesforce: build composite request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		// The request may or may not have reached the store.
		return nil, &unitofwork.TransportError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return nil, &unitofwork.TransportError{
			Err: fmt.Errorf("salesforce: composite returned %s: %s", resp.Status, apiErrorSummary(resp)),
		}
	}

	var decoded compositeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &unitofwork.TransportError{Err: fmt.Errorf("salesforce: decode composite response: %w", err)}
	}

	c.log.WithFields(map[string]interface{}{
		"operations": len(ops),
		"results":    len(decoded.CompositeResponse),
	}).Debug("composite commit")

	return decodeResults(ops, decoded.CompositeResponse), nil
}

func (c *Client) encode(ops []unitofwork.Operation) (*compositeRequest, error) {
	subs := make([]subRequest, 0, len(ops))
	for _, op := range ops {
		sub := subRequest{ReferenceID: string(op.Handle())}

		switch op.Kind() {
		case unitofwork.OpCreate:
			sub.Method = http.MethodPost
			sub.URL = c.apiPath() + "/sobjects/" + op.RecordType()
		case unitofwork.OpUpdate:
			sub.Method = http.MethodPatch
			sub.URL = c.apiPath() + "/sobjects/" + op.RecordType() + "/" + targetSegment(op.Target())
		case unitofwork.OpDelete:
			sub.Method = http.MethodDelete
			sub.URL = c.apiPath() + "/sobjects/" + op.RecordType() + "/" + targetSegment(op.Target())
		default:
			return nil, fmt.Errorf("salesforce: unsupported operation kind %s", op.Kind())
		}

		if op.Kind() != unitofwork.OpDelete {
			body := make(map[string]json.RawMessage, len(op.Fields()))
			for name, v := range op.Fields() {
				raw, err := encodeValue(v)
				if err != nil {
					return nil, fmt.Errorf("salesforce: field %q: %w", name, err)
				}
				body[name] = raw
			}
			sub.Body = body
		}

		subs = append(subs, sub)
	}
	return &compositeRequest{AllOrNone: true, CompositeRequest: subs}, nil
}

// encodeValue serializes one tagged value. The switch is exhaustive over the
// closed kind set so a reference can never leak through as a literal.
func encodeValue(v unitofwork.Value) (json.RawMessage, error) {
	switch v.Kind() {
	case unitofwork.KindString:
		return json.Marshal(v.AsString())
	case unitofwork.KindDecimal:
		return json.Marshal(json.Number(v.AsString()))
	case unitofwork.KindNumber:
		return json.Marshal(v.AsNumber())
	case unitofwork.KindBool:
		return json.Marshal(v.AsBool())
	case unitofwork.KindNull:
		return json.RawMessage("null"), nil
	case unitofwork.KindReference:
		return json.Marshal(refPlaceholder(v.AsRef()))
	default:
		return nil, fmt.Errorf("unsupported value kind %d", v.Kind())
	}
}

func targetSegment(v unitofwork.Value) string {
	if v.IsReference() {
		return refPlaceholder(v.AsRef())
	}
	return url.PathEscape(v.AsString())
}

func refPlaceholder(r unitofwork.Ref) string {
	return "@{" + r.Token() + ".id}"
}

func decodeResults(ops []unitofwork.Operation, subs []subResponse) []unitofwork.OperationResult {
	byRef := make(map[string]unitofwork.Operation, len(ops))
	for _, op := range ops {
		byRef[string(op.Handle())] = op
	}

	out := make([]unitofwork.OperationResult, 0, len(subs))
	for _, sub := range subs {
		res := unitofwork.OperationResult{Handle: unitofwork.Handle(sub.ReferenceID)}

		if sub.HTTPStatusCode >= 200 && sub.HTTPStatusCode < 300 {
			res.Success = true
			var body saveResult
			if len(sub.Body) > 0 && json.Unmarshal(sub.Body, &body) == nil && body.ID != "" {
				res.ID = body.ID
			} else if op, ok := byRef[sub.ReferenceID]; ok && !op.Target().IsReference() {
				// Updates and deletes return no body; echo the literal target.
				res.ID = op.Target().AsString()
			}
		} else {
			res.Errors = decodeOperationErrors(sub.Body)
		}

		out = append(out, res)
	}
	return out
}

func decodeOperationErrors(body json.RawMessage) []unitofwork.OperationError {
	var apiErrs []apiError
	if err := json.Unmarshal(body, &apiErrs); err != nil || len(apiErrs) == 0 {
		return []unitofwork.OperationError{{Code: "UNKNOWN", Message: strings.TrimSpace(string(body))}}
	}
	out := make([]unitofwork.OperationError, 0, len(apiErrs))
	for _, e := range apiErrs {
		out = append(out, unitofwork.OperationError{Code: e.ErrorCode, Message: e.Message, Fields: e.Fields})
	}
	return out
}

func apiErrorSummary(resp *http.Response) string {
	var apiErrs []apiError
	if err := json.NewDecoder(resp.Body).Decode(&apiErrs); err != nil || len(apiErrs) == 0 {
		return "no error detail"
	}
	msgs := make([]string, 0, len(apiErrs))
	for _, e := range apiErrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.ErrorCode, e.Message))
	}
	return strings.Join(msgs, "; ")
}
