package dashboard

import "context"

// ActivityContext carries the identifiers stamped on activity events. Blank
// fields fall back to the viewer.
type ActivityContext struct {
	ActorID  string
	UserID   string
	TenantID string
}

type activityContextKey struct{}

// ContextWithActivity attaches meta to ctx for the next dashboard mutation.
func ContextWithActivity(ctx context.Context, meta ActivityContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, activityContextKey{}, meta)
}

// activityContextFor resolves the identifiers for an event about viewer's
// dashboard.
func activityContextFor(ctx context.Context, viewer ViewerContext) ActivityContext {
	var meta ActivityContext
	if ctx != nil {
		meta, _ = ctx.Value(activityContextKey{}).(ActivityContext)
	}
	if meta.UserID == "" {
		meta.UserID = viewer.UserID
	}
	if meta.ActorID == "" {
		meta.ActorID = meta.UserID
	}
	return meta
}
