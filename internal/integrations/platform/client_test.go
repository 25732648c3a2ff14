package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/logger"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second, logger.Nop())
}

func TestClient_GetDatabaseName(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/tenants/website/7/database", r.URL.Path)
		_ = json.NewEncoder(w).Encode(DatabaseInstance{
			Type: "website", ReferenceID: 7, DatabaseName: "pv_website_7", Status: StatusActive,
		})
	})

	name, err := client.GetDatabaseName(context.Background(), "website", 7)
	require.NoError(t, err)
	assert.Equal(t, "pv_website_7", name)
}

func TestClient_NotFound(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetDatabaseName(context.Background(), "template", 1)
	assert.ErrorIs(t, err, tenant.ErrRegistryNotFound)
}

func TestClient_InactiveDatabase(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(DatabaseInstance{DatabaseName: "pv_template_1", Status: "suspended"})
	})

	_, err := client.GetDatabaseName(context.Background(), "template", 1)
	assert.ErrorIs(t, err, tenant.ErrRegistryNotFound)
}

func TestClient_UnexpectedStatus(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetDatabaseName(context.Background(), "template", 1)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
