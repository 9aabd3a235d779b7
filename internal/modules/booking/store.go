// README: Booking store backed by PostgreSQL.
package booking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, b *Booking) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO bookings (
			id, name, email, phone, pickup, dropoff, stops,
			ride_date, ride_time, passengers,
			price_cents, currency, payment_method, status,
			stripe_session_id, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10,
			$11, $12, $13, $14,
			$15, $16
		)`,
		b.ID, b.Name, b.Email, b.Phone, b.Pickup, b.Dropoff, b.Stops,
		b.RideDate, b.RideTime, b.Passengers,
		b.Price.Cents, b.Price.Currency, b.PaymentMethod, string(b.Status),
		b.StripeSessionID, b.CreatedAt,
	)
	return err
}

// InsertIfSessionUnseen inserts the booking unless a row for its Stripe
// session already exists. The unique index on stripe_session_id makes the
// existence check and the insert a single atomic statement, so two
// concurrently redelivered copies of the same event cannot both insert.
func (s *Store) InsertIfSessionUnseen(ctx context.Context, b *Booking) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		INSERT INTO bookings (
			id, name, email, phone, pickup, dropoff, stops,
			ride_date, ride_time, passengers,
			price_cents, currency, payment_method, status,
			stripe_session_id, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10,
			$11, $12, $13, $14,
			$15, $16
		)
		ON CONFLICT (stripe_session_id) DO NOTHING`,
		b.ID, b.Name, b.Email, b.Phone, b.Pickup, b.Dropoff, b.Stops,
		b.RideDate, b.RideTime, b.Passengers,
		b.Price.Cents, b.Price.Currency, b.PaymentMethod, string(b.Status),
		b.StripeSessionID, b.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) FindByStripeSession(ctx context.Context, sessionID string) (*Booking, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, email, phone, pickup, dropoff, stops,
		       ride_date, ride_time, passengers,
		       price_cents, currency, payment_method, status,
		       stripe_session_id, created_at
		FROM bookings
		WHERE stripe_session_id = $1`, sessionID,
	)

	var b Booking
	var status string
	err := row.Scan(
		&b.ID, &b.Name, &b.Email, &b.Phone, &b.Pickup, &b.Dropoff, &b.Stops,
		&b.RideDate, &b.RideTime, &b.Passengers,
		&b.Price.Cents, &b.Price.Currency, &b.PaymentMethod, &status,
		&b.StripeSessionID, &b.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b.Status = Status(status)
	return &b, nil
}
