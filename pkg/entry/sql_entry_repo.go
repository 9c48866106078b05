package entry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const sqlDateFormat = "2006-01-02"

// SQLEntryRepo implements EntryRepo on a relational database. The position
// column preserves insertion order; dates are stored as plain calendar dates
// with no time-of-day component, so no offset correction is needed here.
// Queries use $N placeholders, accepted by both Postgres and SQLite.
type SQLEntryRepo struct {
	db *sql.DB
}

func NewSQLEntryRepo(db *sql.DB) *SQLEntryRepo {
	return &SQLEntryRepo{db: db}
}

func (r *SQLEntryRepo) ListEntries(ctx context.Context, userID int64) ([]Entry, error) {
	query := `SELECT uid, kind, amount, entry_date, recurring, description
				FROM entry
				WHERE user_id = $1
				ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		err := fmt.Errorf("could not query entries: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var kind, amount, date string
		if err := rows.Scan(&e.UID, &kind, &amount, &date, &e.Recurring, &e.Description); err != nil {
			err := fmt.Errorf("could not scan entry row: %w", err)
			log.Error(err)
			return nil, err
		}
		e.Kind = Kind(kind)
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("stored amount %q is not a decimal: %w", amount, err)
		}
		e.Date, err = time.ParseInLocation(sqlDateFormat, date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLEntryRepo) Store(ctx context.Context, userID int64, entry Entry) error {
	position, err := r.nextPosition(ctx, userID)
	if err != nil {
		return err
	}

	query := `INSERT INTO entry (uid, user_id, kind, amount, entry_date, recurring, description, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		entry.UID,
		userID,
		string(entry.Kind),
		entry.Amount.String(),
		entry.Date.Format(sqlDateFormat),
		entry.Recurring,
		entry.Description,
		position,
	)
	if err != nil {
		err := fmt.Errorf("could not store entry: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *SQLEntryRepo) Delete(ctx context.Context, userID int64, index int) (bool, error) {
	if index < 0 {
		return false, nil
	}

	query := `SELECT uid FROM entry WHERE user_id = $1 ORDER BY position LIMIT 1 OFFSET $2`
	var uid string
	err := r.db.QueryRowContext(ctx, query, userID, index).Scan(&uid)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		err := fmt.Errorf("could not find entry to delete: %w", err)
		log.Error(err)
		return false, err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM entry WHERE uid = $1`, uid)
	if err != nil {
		err := fmt.Errorf("could not delete entry: %w", err)
		log.Error(err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *SQLEntryRepo) AllUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM entry ORDER BY user_id`)
	if err != nil {
		err := fmt.Errorf("could not query user ids: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLEntryRepo) nextPosition(ctx context.Context, userID int64) (int, error) {
	var maxPosition sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT MAX(position) FROM entry WHERE user_id = $1`, userID).Scan(&maxPosition)
	if err != nil {
		err := fmt.Errorf("could not find max position: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(maxPosition.Int64) + 1, nil
}
