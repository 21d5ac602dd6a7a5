package magazine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/stretchr/testify/require"

	"github.com/wrapsnp/go-directory/pagecache"
	"github.com/wrapsnp/go-directory/pkg/types"
)

type stubGate struct {
	enabled bool
	err     error
	keys    []string
}

func (g *stubGate) Enabled(_ context.Context, key string, _ ...featuregate.ResolveOption) (bool, error) {
	g.keys = append(g.keys, key)
	return g.enabled, g.err
}

type failingInvalidator struct{}

func (failingInvalidator) InvalidatePages(context.Context, ...string) error {
	return errors.New("render cache offline")
}

func newWebhook(t *testing.T, cfg WebhookConfig) *WebhookHandler {
	t.Helper()
	if cfg.Secret == "" {
		cfg.Secret = "hook-secret"
	}
	if cfg.Invalidator == nil {
		cfg.Invalidator = pagecache.NewRecorder()
	}
	handler, err := NewWebhookHandler(cfg)
	require.NoError(t, err)
	return handler
}

func deliver(handler http.Handler, secret, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/hooks/magazine", strings.NewReader(body))
	if secret != "" {
		req.Header.Set(SecretHeader, secret)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestNewWebhookHandler_RequiresSecretAndInvalidator(t *testing.T) {
	_, err := NewWebhookHandler(WebhookConfig{Invalidator: pagecache.NewRecorder()})
	require.ErrorIs(t, err, ErrMissingWebhookSecret)

	_, err = NewWebhookHandler(WebhookConfig{Secret: "hook-secret"})
	require.ErrorIs(t, err, types.ErrMissingPageInvalidator)
}

func TestWebhook_RejectsNonPost(t *testing.T) {
	handler := newWebhook(t, WebhookConfig{})
	req := httptest.NewRequest(http.MethodGet, "/hooks/magazine", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWebhook_RejectsWrongSecret(t *testing.T) {
	recorder := pagecache.NewRecorder()
	handler := newWebhook(t, WebhookConfig{Invalidator: recorder})

	rec := deliver(handler, "wrong", `{"type": "post", "slug": "folien-trends-2026"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, recorder.Paths())
}

func TestWebhook_GateDisabled(t *testing.T) {
	gate := &stubGate{enabled: false}
	recorder := pagecache.NewRecorder()
	handler := newWebhook(t, WebhookConfig{Invalidator: recorder, FeatureGate: gate})

	rec := deliver(handler, "hook-secret", `{"type": "post", "slug": "folien-trends-2026"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, []string{FeatureWebhook}, gate.keys)
	require.Empty(t, recorder.Paths())
}

func TestWebhook_PostChangeInvalidatesListingAndDetail(t *testing.T) {
	recorder := pagecache.NewRecorder()
	handler := newWebhook(t, WebhookConfig{Invalidator: recorder, FeatureGate: &stubGate{enabled: true}})

	rec := deliver(handler, "hook-secret", `{"type": "post", "slug": "folien-trends-2026"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, []string{"/magazin", "/magazin/folien-trends-2026"}, recorder.Paths())
}

func TestWebhook_RenameInvalidatesOldSlug(t *testing.T) {
	recorder := pagecache.NewRecorder()
	handler := newWebhook(t, WebhookConfig{Invalidator: recorder})

	rec := deliver(handler, "hook-secret", `{"type": "post", "slug": "lack-vs-folie", "old_slug": "lack-oder-folie"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, []string{"/magazin", "/magazin/lack-vs-folie", "/magazin/lack-oder-folie"}, recorder.Paths())
}

func TestWebhook_PageChange(t *testing.T) {
	recorder := pagecache.NewRecorder()
	handler := newWebhook(t, WebhookConfig{Invalidator: recorder})

	rec := deliver(handler, "hook-secret", `{"type": "page", "slug": "impressum"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, []string{"/impressum"}, recorder.Paths())
}

func TestWebhook_TermChangeInvalidatesListingOnly(t *testing.T) {
	recorder := pagecache.NewRecorder()
	handler := newWebhook(t, WebhookConfig{Invalidator: recorder})

	rec := deliver(handler, "hook-secret", `{"type": "category", "slug": "technik"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, []string{"/magazin"}, recorder.Paths())
}

func TestWebhook_InvalidPayload(t *testing.T) {
	handler := newWebhook(t, WebhookConfig{})

	require.Equal(t, http.StatusBadRequest, deliver(handler, "hook-secret", `not json`).Code)
	require.Equal(t, http.StatusBadRequest, deliver(handler, "hook-secret", `{"type": "post"}`).Code)
	require.Equal(t, http.StatusBadRequest, deliver(handler, "hook-secret", `{"type": "menu", "slug": "x"}`).Code)
}

func TestWebhook_InvalidatorFailure(t *testing.T) {
	handler := newWebhook(t, WebhookConfig{Invalidator: failingInvalidator{}})

	rec := deliver(handler, "hook-secret", `{"type": "post", "slug": "folien-trends-2026"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWebhook_CustomBasePath(t *testing.T) {
	recorder := pagecache.NewRecorder()
	handler := newWebhook(t, WebhookConfig{Invalidator: recorder, BasePath: "/blog/"})

	rec := deliver(handler, "hook-secret", `{"type": "post", "slug": "folien-trends-2026"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, []string{"/blog", "/blog/folien-trends-2026"}, recorder.Paths())
}
