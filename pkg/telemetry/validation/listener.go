package validation

import (
	"context"

	auth "github.com/goliatone/go-auth"
	"github.com/goliatone/go-auth/middleware/jwtware"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/pkg/authctx"
	"github.com/wrapsnp/go-directory/pkg/types"
)

// SchemaNotifier receives callbacks whenever an authenticated actor is
// validated so schema exporters can refresh caches.
type SchemaNotifier interface {
	Notify(ctx context.Context, actorID uuid.UUID, metadata map[string]any)
}

// ListenerOptions customize the validation listener behaviour.
type ListenerOptions struct {
	ActivitySink   types.ActivitySink
	Logger         types.Logger
	SchemaNotifier SchemaNotifier
}

// NewListener returns a jwtware.ValidationListener that emits audit records
// and notifies schema observers whenever a token is validated.
func NewListener(opts ListenerOptions) jwtware.ValidationListener {
	return func(ctx router.Context, claims jwtware.AuthClaims) error {
		actorCtx, err := authctx.ResolveActorContextFromRouter(ctx)
		if err != nil {
			safeLogger(opts.Logger).Error("validation listener failed to resolve actor", err)
			return nil
		}
		return emitValidated(ctx.Context(), opts, actorCtx, claims.Subject())
	}
}

// emitValidated records the validation event. Sink failures are logged, never
// surfaced: a broken audit trail must not reject valid tokens.
func emitValidated(ctx context.Context, opts ListenerOptions, actor *auth.ActorContext, subject string) error {
	if actor == nil {
		return nil
	}
	actorID := parseUUID(actor.ActorID)
	if opts.ActivitySink != nil {
		record := types.ActivityRecord{
			OwnerID:    actorID,
			ActorID:    actorID,
			Verb:       "auth.validated",
			ObjectType: "auth",
			ObjectID:   subject,
			Channel:    "auth",
			Data: map[string]any{
				"role": actor.Role,
			},
		}
		if err := opts.ActivitySink.Log(ctx, record); err != nil {
			safeLogger(opts.Logger).Error("validation activity sink failed", err)
		}
	}
	if opts.SchemaNotifier != nil {
		opts.SchemaNotifier.Notify(ctx, actorID, actor.Metadata)
	}
	return nil
}

func safeLogger(logger types.Logger) types.Logger {
	if logger == nil {
		return types.NopLogger{}
	}
	return logger
}

func parseUUID(value string) uuid.UUID {
	if value == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil
	}
	return id
}
