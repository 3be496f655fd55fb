package bootstrap

import "context"

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records operational events that should outlive the
// process logs, server start and shutdown among them.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
