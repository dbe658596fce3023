// Package share provides the stock_prices repository.
package share

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domain "github.com/lordfoom/share-price-checker/internal/share"
)

const dateOnlyFormat = "2006-01-02"

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SavePrice inserts one observation. Price is stored with two fraction
// digits, matching the table's fixed-point contract.
func (r *Repository) SavePrice(ctx context.Context, s domain.Share) error {
	const query = `INSERT INTO stock_prices (company_code, price, price_date) VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		s.Code,
		s.Price.StringFixed(2),
		s.ObservedAt.Format(domain.DateLayout),
	)
	if err != nil {
		return fmt.Errorf("save price: %w", err)
	}
	return nil
}

// MostRecentOnOrBefore returns the newest observation for the code whose
// date portion is on or before the cutoff, or found == false when no row
// qualifies. Newest means highest insertion id, matching write order.
func (r *Repository) MostRecentOnOrBefore(ctx context.Context, code string, cutoff time.Time) (domain.Share, bool, error) {
	const query = `SELECT company_code, price, price_date
		FROM stock_prices
		WHERE company_code = ? AND date(price_date) <= ?
		ORDER BY id DESC
		LIMIT 1`

	var (
		storedCode string
		rawPrice   string
		rawDate    string
	)
	err := r.db.QueryRowContext(ctx, query, code, cutoff.Format(dateOnlyFormat)).
		Scan(&storedCode, &rawPrice, &rawDate)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Share{}, false, nil
	}
	if err != nil {
		return domain.Share{}, false, fmt.Errorf("query history: %w", err)
	}

	observedAt, err := time.ParseInLocation(domain.DateLayout, rawDate, time.Local)
	if err != nil {
		return domain.Share{}, false, fmt.Errorf("parse stored date %q: %w", rawDate, err)
	}

	s, err := domain.New(storedCode, rawPrice, observedAt)
	if err != nil {
		return domain.Share{}, false, fmt.Errorf("stored price for %s: %w", code, err)
	}
	return s, true, nil
}
