package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/osmane/billiards-sub001/internal/physics"
	"github.com/osmane/billiards-sub001/internal/search"
)

// ShotRecord is one fully resolved shot: the table it started from, the aim
// that was applied, and everything the stepping engine logged. Snapshots and
// logs are stored as JSONB so replay tooling can read them directly.
type ShotRecord struct {
	ID          int64           `db:"id" json:"id"`
	Mode        string          `db:"mode" json:"mode"`
	Snapshot    json.RawMessage `db:"snapshot" json:"snapshot"`
	Aim         json.RawMessage `db:"aim" json:"aim"`
	Outcomes    json.RawMessage `db:"outcomes" json:"outcomes"`
	FinalState  json.RawMessage `db:"final_state" json:"final_state"`
	BestShot    json.RawMessage `db:"best_shot" json:"best_shot,omitempty"`
	OutcomeCnt  int             `db:"outcome_count" json:"outcome_count"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// ShotStore persists resolved shots. A nil store is a valid no-op, matching
// the service running without a database configured.
type ShotStore struct {
	db *sqlx.DB
}

func NewShotStore(db *sqlx.DB) *ShotStore {
	if db == nil {
		return nil
	}
	return &ShotStore{db: db}
}

// SaveShot records a resolved shot and returns its id.
func (s *ShotStore) SaveShot(ctx context.Context, before physics.TableSnapshot, aim physics.Aim, outcomes []physics.Outcome, after physics.TableSnapshot, best *search.Candidate) (int64, error) {
	if s == nil {
		return 0, nil
	}

	snapJSON, err := json.Marshal(before)
	if err != nil {
		return 0, fmt.Errorf("marshal snapshot: %w", err)
	}
	aimJSON, err := json.Marshal(aim)
	if err != nil {
		return 0, fmt.Errorf("marshal aim: %w", err)
	}
	outJSON, err := json.Marshal(outcomes)
	if err != nil {
		return 0, fmt.Errorf("marshal outcomes: %w", err)
	}
	afterJSON, err := json.Marshal(after)
	if err != nil {
		return 0, fmt.Errorf("marshal final state: %w", err)
	}
	var bestJSON []byte
	if best != nil {
		bestJSON, err = json.Marshal(best)
		if err != nil {
			return 0, fmt.Errorf("marshal best shot: %w", err)
		}
	}

	var id int64
	err = s.db.QueryRowxContext(ctx, `
		INSERT INTO shots (mode, snapshot, aim, outcomes, final_state, best_shot, outcome_count, created_at)
		VALUES ($1, $2::jsonb, $3::jsonb, $4::jsonb, $5::jsonb, NULLIF($6, '')::jsonb, $7, NOW())
		RETURNING id`,
		before.Mode, string(snapJSON), string(aimJSON), string(outJSON), string(afterJSON), string(bestJSON), len(outcomes),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert shot: %w", err)
	}
	return id, nil
}

// GetShot fetches one shot by id.
func (s *ShotStore) GetShot(ctx context.Context, id int64) (*ShotRecord, error) {
	if s == nil {
		return nil, fmt.Errorf("shot store not configured")
	}
	var rec ShotRecord
	err := s.db.GetContext(ctx, &rec, `
		SELECT id, mode, snapshot, aim, outcomes, final_state,
		       COALESCE(best_shot, 'null'::jsonb) AS best_shot,
		       outcome_count, created_at
		FROM shots WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get shot %d: %w", id, err)
	}
	return &rec, nil
}

// ListShots returns the most recent shots, newest first.
func (s *ShotStore) ListShots(ctx context.Context, limit int) ([]ShotRecord, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var recs []ShotRecord
	err := s.db.SelectContext(ctx, &recs, `
		SELECT id, mode, snapshot, aim, outcomes, final_state,
		       COALESCE(best_shot, 'null'::jsonb) AS best_shot,
		       outcome_count, created_at
		FROM shots ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list shots: %w", err)
	}
	return recs, nil
}
