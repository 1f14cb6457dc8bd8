package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// SnapshotRecord is one composited capture written by the upload endpoint.
type SnapshotRecord struct {
	bun.BaseModel `bun:"table:snapshots"`

	FileName  string    `bun:"file_name,pk"`
	SessionID string    `bun:"session_id,notnull"`
	SizeBytes int       `bun:"size_bytes,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// SnapshotLog records captures in the snapshots table.
type SnapshotLog struct {
	db *bun.DB
}

func NewSnapshotLog(db *bun.DB) *SnapshotLog {
	return &SnapshotLog{db: db}
}

func (l *SnapshotLog) RecordSnapshot(ctx context.Context, sessionID, fileName string, size int) error {
	rec := &SnapshotRecord{
		FileName:  fileName,
		SessionID: sessionID,
		SizeBytes: size,
		CreatedAt: time.Now().UTC(),
	}
	_, err := l.db.NewInsert().
		Model(rec).
		On("CONFLICT (file_name) DO UPDATE").
		Set("size_bytes = EXCLUDED.size_bytes").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	return nil
}

// Recent lists the latest captures, newest first.
func (l *SnapshotLog) Recent(ctx context.Context, limit int) ([]SnapshotRecord, error) {
	var recs []SnapshotRecord
	err := l.db.NewSelect().
		Model(&recs).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return recs, nil
}
