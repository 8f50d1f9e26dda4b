package bookings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store on Postgres. SaveReservation re-checks capacity
// inside its own transaction under a per-(date,slot) advisory lock, so even
// a stale caller snapshot cannot overbook across processes.
type PGStore struct{ DB *pgxpool.Pool }

func (r *PGStore) SaveReservation(ctx context.Context, res Reservation) (Reservation, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Reservation{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serialize concurrent admissions for the same (date, slot).
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, res.Date+"|"+string(res.Slot)); err != nil {
		return Reservation{}, err
	}

	var active int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM reservations
		WHERE date=$1 AND slot=$2 AND status IN ('PENDING','CONFIRMED')`,
		res.Date, string(res.Slot)).Scan(&active)
	if err != nil {
		return Reservation{}, err
	}
	if active >= SlotCapacity {
		return Reservation{}, &SlotUnavailableError{Date: res.Date, Slot: res.Slot, Capacity: SlotCapacity}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO reservations(id, customer_id, date, slot, party_size, status,
		                         table_number, note, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		res.ID, res.CustomerID, res.Date, string(res.Slot), res.PartySize,
		string(res.Status), res.TableNumber, res.Note, res.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return Reservation{}, ErrDuplicateID
		}
		return Reservation{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Reservation{}, err
	}
	return res, nil
}

func (r *PGStore) GetReservation(ctx context.Context, id string) (Reservation, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT id, customer_id, date, slot, party_size, status, table_number, note, created_at
		FROM reservations WHERE id=$1`, id)
	res, err := scanReservation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reservation{}, ErrNotFound
	}
	return res, err
}

func (r *PGStore) UpdateReservation(ctx context.Context, res Reservation) (Reservation, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE reservations SET status=$2, table_number=$3 WHERE id=$1`,
		res.ID, string(res.Status), res.TableNumber)
	if err != nil {
		return Reservation{}, err
	}
	if ct.RowsAffected() == 0 {
		return Reservation{}, ErrNotFound
	}
	return res, nil
}

func (r *PGStore) FindReservations(ctx context.Context, date string, slot Slot) ([]Reservation, error) {
	q := `SELECT id, customer_id, date, slot, party_size, status, table_number, note, created_at
	      FROM reservations WHERE date=$1`
	args := []any{date}
	if slot != "" {
		q += ` AND slot=$2`
		args = append(args, string(slot))
	}
	q += ` ORDER BY created_at`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func scanReservation(row pgx.Row) (Reservation, error) {
	var (
		res          Reservation
		slot, status string
	)
	if err := row.Scan(&res.ID, &res.CustomerID, &res.Date, &slot, &res.PartySize,
		&status, &res.TableNumber, &res.Note, &res.CreatedAt); err != nil {
		return Reservation{}, err
	}
	res.Slot = Slot(slot)
	res.Status = Status(status)
	return res, nil
}
