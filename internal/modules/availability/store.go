// README: Blocked-slot store backed by PostgreSQL (read-mostly).
package availability

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) ListBlockedTimes(ctx context.Context, date string) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ride_time FROM blocked_slots
		WHERE ride_date = $1
		ORDER BY ride_time`, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}
