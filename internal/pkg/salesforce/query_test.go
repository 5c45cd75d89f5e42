package salesforce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/services/data/v59.0/query", r.URL.Path)
		require.Equal(t, "SELECT Id FROM OpportunityLineItem WHERE OpportunityId = '006xx0001'", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"totalSize":2,"done":true,"records":[
			{"attributes":{"type":"OpportunityLineItem"},"Id":"00kxx0000001","Quantity":3,"UnitPrice":17.99},
			{"attributes":{"type":"OpportunityLineItem"},"Id":"00kxx0000002","Quantity":1,"UnitPrice":5}
		]}`))
	}))
	defer srv.Close()

	client := New(srv.Client(), testCreds(srv.URL), nil)

	var rows []struct {
		ID        string  `json:"Id"`
		Quantity  float64 `json:"Quantity"`
		UnitPrice float64 `json:"UnitPrice"`
	}
	err := client.Query(context.Background(), "SELECT Id FROM OpportunityLineItem WHERE OpportunityId = '006xx0001'", &rows)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "00kxx0000001", rows[0].ID)
	assert.Equal(t, 3.0, rows[0].Quantity)
	assert.Equal(t, 17.99, rows[0].UnitPrice)
}

func TestQuery_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalSize":0,"done":true,"records":[]}`))
	}))
	defer srv.Close()

	client := New(srv.Client(), testCreds(srv.URL), nil)

	var rows []struct{}
	err := client.Query(context.Background(), "SELECT Id FROM OpportunityLineItem WHERE OpportunityId = 'none'", &rows)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestQuery_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(srv.Client(), testCreds(srv.URL), nil)
	err := client.Query(context.Background(), "SELECT Id FROM Quote", &[]struct{}{})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, `O\'Brien`, QuoteLiteral(`O'Brien`))
	assert.Equal(t, `a\\b`, QuoteLiteral(`a\b`))
}
