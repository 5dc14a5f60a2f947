package users

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/authz"
)

func newTestHandler() *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, nil, authz.Middleware{})
}

func TestCatalogEndpointGroupsPermissions(t *testing.T) {
	h := newTestHandler()

	rr := httptest.NewRecorder()
	h.handleCatalog(rr, httptest.NewRequest(http.MethodGet, "/permissions", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		Categories []struct {
			Category    string `json:"category"`
			Permissions []struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			} `json:"permissions"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.Len(t, payload.Categories, len(authz.Categories()))

	total := 0
	for _, cat := range payload.Categories {
		require.NotEmpty(t, cat.Permissions, "category %s has no permissions", cat.Category)
		total += len(cat.Permissions)
	}
	require.Equal(t, len(authz.Catalog()), total)
}

func TestGrantResponsesCarryCatalogDescription(t *testing.T) {
	entry, ok := authz.Lookup(authz.PermCreateTask)
	require.True(t, ok)

	out := toGrantResponses([]authz.Grant{
		{Permission: authz.PermCreateTask, GrantedBy: 1, GrantedAt: time.Now()},
	})
	require.Len(t, out, 1)
	require.Equal(t, entry.Description, out[0].Description)
	require.True(t, out[0].Active)
}

func TestWriteErrorMapsStoreFailure(t *testing.T) {
	h := newTestHandler()

	rr := httptest.NewRecorder()
	h.writeError(rr, &authz.StoreError{Op: "grant", Err: io.ErrUnexpectedEOF}, "grant permission")

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Contains(t, rr.Body.String(), "Permission Store Unavailable")
}
