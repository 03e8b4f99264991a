// Package audit records every state-changing command as a JSON log line
// and as a row in an append-only table.
package audit

import (
	"context"
	"errors"
	"strings"
	"time"

	"epicevents.org/internal/auth"
	"epicevents.org/internal/ids"
	"epicevents.org/internal/obs"
	"epicevents.org/internal/store"
)

// Recorder writes audit events. A nil store disables persistence but
// keeps the log lines (used by tests and the seed command).
type Recorder struct {
	store store.AuditStore
}

// NewRecorder constructs a Recorder over the given audit store.
func NewRecorder(s store.AuditStore) *Recorder {
	return &Recorder{store: s}
}

// Record emits one audit event. The actor is taken from the context
// when present.
func (r *Recorder) Record(ctx context.Context, action, entity string, recordID int64, fields map[string]string) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return errors.New("audit: action is required")
	}

	entry := &store.AuditEntry{
		ID:         ids.New(),
		OccurredAt: time.Now().UTC(),
		Action:     action,
		Entity:     entity,
		RecordID:   recordID,
		Fields:     fields,
	}
	if user, ok := auth.UserFromContext(ctx); ok {
		entry.ActorID = user.ID
		entry.ActorEmail = user.Email
	}

	line := map[string]any{
		"ts":     entry.OccurredAt.Format(time.RFC3339Nano),
		"type":   "audit",
		"id":     entry.ID,
		"action": entry.Action,
	}
	if entry.Entity != "" {
		line["entity"] = entry.Entity
	}
	if entry.RecordID != 0 {
		line["record_id"] = entry.RecordID
	}
	if entry.ActorEmail != "" {
		line["actor"] = entry.ActorEmail
	}
	if len(fields) > 0 {
		copied := make(map[string]string, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
		line["fields"] = copied
	}
	obs.LogCommand(line)

	if r.store == nil {
		return nil
	}
	return r.store.Append(ctx, entry)
}
