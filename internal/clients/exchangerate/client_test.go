package exchangerate

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/USD", r.URL.Path)
		fmt.Fprint(w, `{"base": "USD", "rates": {"USD": 1.0, "EUR": 0.92, "GBP": 0.79}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, zerolog.Nop())

	table, err := client.FetchTable("USD")
	require.NoError(t, err)
	assert.Len(t, table, 3)
	assert.Equal(t, 0.92, table["EUR"])
}

func TestClient_FetchTableServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, zerolog.Nop())

	_, err := client.FetchTable("USD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_FetchTableEmptyRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"base": "USD", "rates": {}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, zerolog.Nop())

	_, err := client.FetchTable("USD")
	assert.Error(t, err)
}

func TestClient_FetchTableBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	client := NewClient(server.URL, zerolog.Nop())

	_, err := client.FetchTable("USD")
	assert.Error(t, err)
}
