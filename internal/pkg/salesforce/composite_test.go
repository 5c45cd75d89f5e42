package salesforce

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/opportunity-quote-service/internal/pkg/auth"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/unitofwork"
)

func testCreds(instanceURL string) auth.Credentials {
	return auth.Credentials{
		AccessToken: "00Dxx!token",
		APIVersion:  "59.0",
		OrgID:       "00Dxx0000001",
		UserID:      "005xx0000001",
		InstanceURL: instanceURL,
	}
}

func registerQuoteBatch(t *testing.T) (*unitofwork.Batch, unitofwork.Ref, unitofwork.Ref) {
	t.Helper()
	b := unitofwork.NewBatch()

	quote, err := b.RegisterCreate("Quote", unitofwork.Fields{
		"Name":          unitofwork.String("Quote for opportunity 006xx0001"),
		"OpportunityId": unitofwork.String("006xx0001"),
		"Status":        unitofwork.String("Draft"),
	})
	require.NoError(t, err)

	line, err := b.RegisterCreate("QuoteLineItem", unitofwork.Fields{
		"QuoteId":   unitofwork.Reference(quote),
		"Quantity":  unitofwork.Number(3),
		"UnitPrice": unitofwork.Decimal("17.99"),
	})
	require.NoError(t, err)

	return b, quote, line
}

func TestExecute_EncodesCompositeTransaction(t *testing.T) {
	var captured compositeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/services/data/v59.0/composite", r.URL.Path)
		require.Equal(t, "Bearer 00Dxx!token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := compositeResponse{CompositeResponse: []subResponse{
			{ReferenceID: "ref1", HTTPStatusCode: 201, Body: json.RawMessage(`{"id":"0Q0xx0000001","success":true,"errors":[]}`)},
			{ReferenceID: "ref2", HTTPStatusCode: 201, Body: json.RawMessage(`{"id":"0QLxx0000001","success":true,"errors":[]}`)},
		}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	b, quote, line := registerQuoteBatch(t)
	client := New(srv.Client(), testCreds(srv.URL), nil)

	res, err := b.Commit(context.Background(), client)
	require.NoError(t, err)

	// Wire shape: one all-or-nothing request, references substituted with the
	// store's cross-reference syntax.
	assert.True(t, captured.AllOrNone)
	require.Len(t, captured.CompositeRequest, 2)
	assert.Equal(t, "POST", captured.CompositeRequest[0].Method)
	assert.Equal(t, "/services/data/v59.0/sobjects/Quote", captured.CompositeRequest[0].URL)
	assert.Equal(t, "ref1", captured.CompositeRequest[0].ReferenceID)
	assert.JSONEq(t, `"@{ref1.id}"`, string(captured.CompositeRequest[1].Body["QuoteId"]))
	assert.Equal(t, "17.99", string(captured.CompositeRequest[1].Body["UnitPrice"]))

	quoteID, err := res.ID(quote)
	require.NoError(t, err)
	assert.Equal(t, "0Q0xx0000001", quoteID)

	lineRes, ok := res.Get(line.Handle())
	require.True(t, ok)
	assert.Equal(t, "0QLxx0000001", lineRes.ID)
}

func TestExecute_PerOperationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := compositeResponse{CompositeResponse: []subResponse{
			{ReferenceID: "ref1", HTTPStatusCode: 400, Body: json.RawMessage(`[{"message":"insufficient access rights on field: Discount__c","errorCode":"INSUFFICIENT_ACCESS","fields":["Discount__c"]}]`)},
			{ReferenceID: "ref2", HTTPStatusCode: 400, Body: json.RawMessage(`[{"message":"The transaction was rolled back since another operation in the same transaction failed.","errorCode":"PROCESSING_HALTED","fields":[]}]`)},
		}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	b, _, _ := registerQuoteBatch(t)
	client := New(srv.Client(), testCreds(srv.URL), nil)

	res, err := b.Commit(context.Background(), client)
	var storeErr *unitofwork.StoreError
	require.ErrorAs(t, err, &storeErr)
	require.NotNil(t, res)

	failed := res.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, "INSUFFICIENT_ACCESS", failed[0].Errors[0].Code)
	assert.Equal(t, []string{"Discount__c"}, failed[0].Errors[0].Fields)
	assert.Equal(t, "PROCESSING_HALTED", failed[1].Errors[0].Code)
	assert.Contains(t, storeErr.Error(), "insufficient access rights")
}

func TestExecute_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server notices the client disconnect and
		// cancels the request context; otherwise srv.Close blocks forever.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	b, _, _ := registerQuoteBatch(t)
	client := New(srv.Client(), testCreds(srv.URL), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := b.Commit(ctx, client)
	var te *unitofwork.TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, te.OutcomeUnknown())
	assert.Equal(t, unitofwork.StateFailed, b.State())
}

func TestExecute_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	b, _, _ := registerQuoteBatch(t)
	client := New(srv.Client(), testCreds(srv.URL), nil)

	_, err := b.Commit(context.Background(), client)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestExecute_MissingResultIsProtocolError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := compositeResponse{CompositeResponse: []subResponse{
			{ReferenceID: "ref1", HTTPStatusCode: 201, Body: json.RawMessage(`{"id":"0Q0xx0000001","success":true,"errors":[]}`)},
		}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	b, _, _ := registerQuoteBatch(t)
	client := New(srv.Client(), testCreds(srv.URL), nil)

	_, err := b.Commit(context.Background(), client)
	var pe *unitofwork.ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Missing, unitofwork.Handle("ref2"))
}
