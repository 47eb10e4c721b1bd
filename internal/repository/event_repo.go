package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"aqi_predictor/internal/models"

	"github.com/google/uuid"
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

// Append inserts a new event. Empty EventID and zero OccurredAt are filled in.
func (r *EventSQLite) Append(ctx context.Context, e models.PredictionEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	var aqi sql.NullInt64
	if e.AQI != nil {
		aqi = sql.NullInt64{Int64: int64(*e.AQI), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO prediction_events (id, occurred_at, type, session_id, location, aqi, category, message, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.EventID,
		e.OccurredAt,
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.SessionID,
		e.Location,
		aqi,
		e.Category,
		e.Description,
		metaPtr,
	)
	if err != nil {
		return fmt.Errorf("insert prediction event: %w", err)
	}
	return nil
}

const selectEvents = `SELECT id, occurred_at, type, session_id, location, aqi, category, message, meta FROM prediction_events`

// List returns events matching q, oldest first.
func (r *EventSQLite) List(ctx context.Context, q EventQuery) ([]models.PredictionEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !q.From.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, q.From.UTC())
	}
	if !q.To.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, q.To.UTC())
	}
	if typ := strings.ToUpper(strings.TrimSpace(q.Type)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}
	if sid := strings.TrimSpace(q.SessionID); sid != "" {
		conds = append(conds, "session_id = ?")
		args = append(args, sid)
	}

	query := selectEvents
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY occurred_at ASC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query prediction events: %w", err)
	}
	defer rows.Close()

	out := make([]models.PredictionEvent, 0, 64)
	for rows.Next() {
		var (
			ev      models.PredictionEvent
			aqi     sql.NullInt64
			metaStr sql.NullString
		)
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.SessionID, &ev.Location,
			&aqi, &ev.Category, &ev.Description, &metaStr); err != nil {
			return nil, fmt.Errorf("scan prediction event: %w", err)
		}
		ev.OccurredAt = ev.OccurredAt.UTC()

		if aqi.Valid {
			v := int(aqi.Int64)
			ev.AQI = &v
		}
		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prediction events: %w", err)
	}
	return out, nil
}
