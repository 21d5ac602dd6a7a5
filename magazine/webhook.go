package magazine

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	featuregate "github.com/goliatone/go-featuregate/gate"

	"github.com/wrapsnp/go-directory/pkg/types"
)

const (
	// FeatureWebhook gates the webhook receiver.
	FeatureWebhook = "magazine.webhook"
	// SecretHeader carries the shared webhook secret.
	SecretHeader = "X-Magazine-Secret"
	// DefaultBasePath is the public path prefix of the magazine section.
	DefaultBasePath = "/magazin"
)

var (
	// ErrMissingWebhookSecret occurs when the handler is built without a secret.
	ErrMissingWebhookSecret = errors.New("go-directory: missing magazine webhook secret")
)

// ContentChange is the payload the CMS posts when editorial content changes.
type ContentChange struct {
	// Type is one of "post", "page", "category", or "tag".
	Type string `json:"type"`
	Slug string `json:"slug"`
	// OldSlug is set when the change renamed the content.
	OldSlug string `json:"old_slug,omitempty"`
}

// WebhookConfig wires the webhook receiver.
type WebhookConfig struct {
	Secret      string
	Invalidator types.PageInvalidator
	FeatureGate featuregate.FeatureGate
	Logger      types.Logger
	// BasePath overrides DefaultBasePath.
	BasePath string
}

// WebhookHandler receives content-change notifications from the CMS and maps
// them onto public page invalidations. Requests must carry the shared secret
// in the SecretHeader header.
type WebhookHandler struct {
	secret      string
	invalidator types.PageInvalidator
	gate        featuregate.FeatureGate
	logger      types.Logger
	basePath    string
}

// NewWebhookHandler constructs the receiver.
func NewWebhookHandler(cfg WebhookConfig) (*WebhookHandler, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrMissingWebhookSecret
	}
	if cfg.Invalidator == nil {
		return nil, types.ErrMissingPageInvalidator
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	basePath := strings.TrimRight(cfg.BasePath, "/")
	if basePath == "" {
		basePath = DefaultBasePath
	}
	return &WebhookHandler{
		secret:      cfg.Secret,
		invalidator: cfg.Invalidator,
		gate:        cfg.FeatureGate,
		logger:      logger,
		basePath:    basePath,
	}, nil
}

var _ http.Handler = (*WebhookHandler)(nil)

// ServeHTTP implements http.Handler. Successful deliveries answer 204.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	enabled, err := h.featureEnabled(r)
	if err != nil {
		h.logger.Error("magazine webhook gate check failed", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !enabled {
		http.Error(w, "webhook disabled", http.StatusForbidden)
		return
	}
	if subtle.ConstantTimeCompare([]byte(r.Header.Get(SecretHeader)), []byte(h.secret)) != 1 {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var change ContentChange
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	paths, ok := h.stalePaths(change)
	if !ok {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if err := h.invalidator.InvalidatePages(r.Context(), paths...); err != nil {
		h.logger.Error("magazine webhook invalidation failed", err, "type", change.Type, "slug", change.Slug)
		http.Error(w, "invalidation failed", http.StatusInternalServerError)
		return
	}
	h.logger.Debug("magazine webhook processed", "type", change.Type, "slug", change.Slug, "paths", len(paths))
	w.WriteHeader(http.StatusNoContent)
}

func (h *WebhookHandler) featureEnabled(r *http.Request) (bool, error) {
	if h.gate == nil {
		return true, nil
	}
	return h.gate.Enabled(r.Context(), FeatureWebhook, featuregate.WithScopeSet(featuregate.ScopeSet{
		System: true,
	}))
}

// stalePaths maps one change onto the public paths it staled. The section
// listing is always included: every content change moves it.
func (h *WebhookHandler) stalePaths(change ContentChange) ([]string, bool) {
	slug := strings.TrimSpace(change.Slug)
	switch change.Type {
	case "post":
		if slug == "" {
			return nil, false
		}
		paths := []string{h.basePath, h.basePath + "/" + slug}
		if old := strings.TrimSpace(change.OldSlug); old != "" && old != slug {
			paths = append(paths, h.basePath+"/"+old)
		}
		return paths, true
	case "page":
		if slug == "" {
			return nil, false
		}
		return []string{"/" + slug}, true
	case "category", "tag":
		return []string{h.basePath}, true
	default:
		return nil, false
	}
}
