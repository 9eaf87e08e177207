package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/sm8ta/bike_inventory_service/internal/core/domain"
)

// transformError marks an error returned by a caller supplied transform so
// that it is passed through instead of being reported as a storage failure.
type transformError struct {
	err error
}

func (e *transformError) Error() string { return e.err.Error() }

func (e *transformError) Unwrap() error { return e.err }

// corruptRowError marks a stored row that no longer decodes into a Bicycle.
type corruptRowError struct {
	id  int64
	err error
}

func (e *corruptRowError) Error() string { return fmt.Sprintf("bicycle %d: %v", e.id, e.err) }

func (e *corruptRowError) Unwrap() error { return e.err }

// mapError translates an error raised while talking to PostgreSQL into the
// repository error taxonomy.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var re *domain.RepositoryError
	if errors.As(err, &re) {
		return err
	}

	var te *transformError
	if errors.As(err, &te) {
		return fmt.Errorf("%s: %w", op, te.err)
	}

	var ce *corruptRowError
	if errors.As(err, &ce) {
		return domain.NewRepositoryError(op, domain.ErrStorage, err)
	}

	switch {
	case errors.Is(err, sql.ErrNoRows), errors.Is(err, domain.ErrNotFound):
		return domain.NewRepositoryError(op, domain.ErrNotFound, nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.NewRepositoryError(op, domain.ErrOperationCancelled, err)
	case errors.Is(err, domain.ErrInvalidColor):
		return domain.NewRepositoryError(op, domain.ErrInvalidColor, err)
	case errors.Is(err, domain.ErrInvalidModel):
		return domain.NewRepositoryError(op, domain.ErrInvalidModel, nil)
	case errors.Is(err, sql.ErrConnDone), errors.Is(err, driver.ErrBadConn):
		return domain.NewRepositoryError(op, domain.ErrConnection, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code.Class() == "08":
			return domain.NewRepositoryError(op, domain.ErrConnection, err)
		case pqErr.Code == "57014": // query_canceled
			return domain.NewRepositoryError(op, domain.ErrOperationCancelled, err)
		}
	}

	return domain.NewRepositoryError(op, domain.ErrStorage, err)
}
