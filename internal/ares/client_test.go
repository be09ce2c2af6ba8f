package ares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ekonomicke-subjekty/45274649", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"ico": "45274649",
			"obchodniJmeno": "ČEZ, a. s.",
			"sidlo": {"textovaAdresa": "Duhová 1444/2, 14000 Praha"}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	company, err := client.Lookup(context.Background(), "45274649")
	require.NoError(t, err)
	assert.Equal(t, "45274649", company.ICO)
	assert.Equal(t, "ČEZ, a. s.", company.Name)
	assert.Equal(t, "Duhová 1444/2, 14000 Praha", company.Address)
}

func TestLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Lookup(context.Background(), "00000019")

	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, "Subjekt s tímto IČO nebyl v registru ARES nalezen.", lookupErr.Message)
	assert.False(t, lookupErr.ManualEntry)
}

func TestLookupServerErrorUnlocksManualEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Lookup(context.Background(), "45274649")

	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.True(t, lookupErr.ManualEntry)
	assert.Contains(t, lookupErr.Message, "ručně")
}

func TestLookupNetworkError(t *testing.T) {
	// Closed server forces a connection error.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Lookup(context.Background(), "45274649")

	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.True(t, lookupErr.ManualEntry)
}
