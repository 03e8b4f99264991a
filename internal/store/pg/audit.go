package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"epicevents.org/internal/ids"
	"epicevents.org/internal/store"
)

type auditStore struct {
	db *sql.DB
}

func (s *auditStore) Append(ctx context.Context, entry *store.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = ids.New()
	}
	fields := []byte("{}")
	if len(entry.Fields) > 0 {
		b, err := json.Marshal(entry.Fields)
		if err != nil {
			return fmt.Errorf("marshal audit fields: %w", err)
		}
		fields = b
	}
	_, err := s.db.ExecContext(ctx, `
		insert into audit_log (id, occurred_at, actor_id, actor_email, action, entity, record_id, fields)
		values ($1, now(), $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.ActorID, entry.ActorEmail, entry.Action, entry.Entity, entry.RecordID, fields)
	return err
}
