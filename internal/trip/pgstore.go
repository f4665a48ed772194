package trip

import (
	"context"
	"encoding/json"
	"fmt"

	"backend-travelplanner/internal/db"
)

const schema = `
	CREATE TABLE IF NOT EXISTS trips (
		id   BIGSERIAL PRIMARY KEY,
		body JSONB NOT NULL DEFAULT '{}'
	)
`

// PGStore is a Store over Postgres, selected with STORE_DRIVER=postgres.
// The posted trip is kept whole in a JSONB column.
type PGStore struct {
	db db.Querier
}

func NewPGStore(db db.Querier) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schema)
	return err
}

func (s *PGStore) Create(ctx context.Context, doc Doc) (int64, error) {
	body, err := json.Marshal(doc.withoutID())
	if err != nil {
		return 0, fmt.Errorf("encode trip: %w", err)
	}
	var id int64
	row := s.db.QueryRow(ctx, `
		INSERT INTO trips (body)
		VALUES ($1)
		RETURNING id
	`, body)
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *PGStore) List(ctx context.Context) ([]Doc, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, body
		FROM trips
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := []Doc{}
	for rows.Next() {
		var id int64
		var body []byte
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		doc, err := ParseDoc(body)
		if err != nil {
			return nil, fmt.Errorf("decode trip %d: %w", id, err)
		}
		trips = append(trips, doc.WithID(id))
	}
	return trips, rows.Err()
}

func (s *PGStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM trips WHERE id=$1`, id)
	return err
}
