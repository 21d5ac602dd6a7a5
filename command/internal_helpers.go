package command

import (
	"context"
	"time"

	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/scope"
)

func safeClock(clock types.Clock) types.Clock {
	if clock != nil {
		return clock
	}
	return types.SystemClock{}
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}

func safeHooks(hooks types.Hooks) types.Hooks {
	return hooks
}

func safeScopeGuard(g scope.Guard) scope.Guard {
	return scope.Ensure(g)
}

func now(clock types.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now()
}

func logActivity(ctx context.Context, sink types.ActivitySink, record types.ActivityRecord) {
	if sink == nil {
		return
	}
	_ = sink.Log(ctx, record)
}

func emitActivityHook(ctx context.Context, hooks types.Hooks, record types.ActivityRecord) {
	if hooks.AfterActivity == nil {
		return
	}
	hooks.AfterActivity(ctx, record)
}

func emitProfileHook(ctx context.Context, hooks types.Hooks, event types.ProfileEvent) {
	if hooks.AfterProfileChange == nil {
		return
	}
	hooks.AfterProfileChange(ctx, event)
}

func emitMediaHook(ctx context.Context, hooks types.Hooks, event types.MediaEvent) {
	if hooks.AfterMediaChange == nil {
		return
	}
	hooks.AfterMediaChange(ctx, event)
}

func emitRelationHook(ctx context.Context, hooks types.Hooks, event types.RelationEvent) {
	if hooks.AfterRelationSync == nil {
		return
	}
	hooks.AfterRelationSync(ctx, event)
}

func emitPageHook(ctx context.Context, hooks types.Hooks, event types.PageEvent) {
	if hooks.AfterPageInvalidate == nil {
		return
	}
	hooks.AfterPageInvalidate(ctx, event)
}
