package b2cflow

import (
	"context"
	"io"
	"time"

	internalaudit "github.com/aurelialabs/b2cflow/internal/audit"
)

// AuditEvent is a structured acquisition event emitted by the client.
// Events carry policy, authority, and correlation metadata but never token
// material.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the client's dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer]; one object per line. This is the file-log rendering of the
// provider's logging callback.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

const (
	auditEventSilentHit           = "silent_cache_hit"
	auditEventSilentRefresh       = "silent_refresh"
	auditEventSilentMiss          = "silent_miss"
	auditEventInteractiveSuccess  = "interactive_success"
	auditEventInteractiveFailure  = "interactive_failure"
	auditEventPolicyRedirect      = "policy_redirect"
	auditEventPasswordGrant       = "password_grant"
	auditEventSignOut             = "sign_out"
	auditEventAccountRemoved      = "account_removed"
	auditEventAccountRemoveFailed = "account_remove_failed"
)

// AuditDropped reports how many audit events were discarded under
// dispatcher backpressure.
func (c *Client) AuditDropped() uint64 {
	if c == nil || c.audit == nil {
		return 0
	}
	return c.audit.Dropped()
}

func (c *Client) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	homeID, policy, authority string,
	failure error,
	metadata func() map[string]string,
) {
	if c == nil || c.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp:     time.Now(),
		EventType:     eventType,
		HomeAccountID: homeID,
		Policy:        policy,
		Authority:     authority,
		CorrelationID: correlationIDFromContext(ctx),
		Success:       success,
	}
	if failure != nil {
		event.Error = failure.Error()
	}
	if metadata != nil {
		event.Metadata = metadata()
	}

	c.audit.Emit(ctx, event)
}
