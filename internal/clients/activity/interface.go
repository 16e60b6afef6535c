package activity

import "context"

type ActivityClientInterface interface {
	// Record appends a human-readable audit event. It is fire-and-forget:
	// publish failures are logged and never propagated to the caller.
	Record(ctx context.Context, kind, description, status string, metadata map[string]interface{})
	Close() error
}
