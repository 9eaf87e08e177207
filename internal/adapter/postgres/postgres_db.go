package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sm8ta/bike_inventory_service/internal/core/domain"
	"github.com/sm8ta/bike_inventory_service/internal/core/ports"
)

const (
	getQuery = `SELECT b_id, model, color, created_at, updated_at, version
		FROM bicycle WHERE b_id = $1`

	getForUpdateQuery = `SELECT b_id, model, color, created_at, updated_at, version
		FROM bicycle WHERE b_id = $1 FOR UPDATE`

	insertQuery = `INSERT INTO bicycle (model, color, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, 0)
		RETURNING b_id`

	updateQuery = `UPDATE bicycle
		SET model = $1, color = $2, updated_at = $3, version = $4
		WHERE b_id = $5`

	getAllQuery = `SELECT b_id, model, color, created_at, updated_at, version
		FROM bicycle ORDER BY b_id LIMIT $1 OFFSET $2`
)

// storedBicycle is a bicycle row together with its bookkeeping columns.
type storedBicycle struct {
	bike      domain.Bicycle
	createdAt int64
	updatedAt int64
	version   int64
}

type scanner interface {
	Scan(dest ...any) error
}

type BicycleRepository struct {
	db             *sql.DB
	acquireTimeout time.Duration
	now            func() time.Time
}

var _ ports.BicycleRepository = (*BicycleRepository)(nil)

type Option func(*BicycleRepository)

// WithAcquireTimeout bounds how long an operation waits for a free pool
// connection before failing with domain.ErrConnection.
func WithAcquireTimeout(d time.Duration) Option {
	return func(r *BicycleRepository) { r.acquireTimeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(r *BicycleRepository) { r.now = now }
}

func NewBicycleRepository(db *sql.DB, opts ...Option) *BicycleRepository {
	r := &BicycleRepository{
		db:             db,
		acquireTimeout: 30 * time.Second,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *BicycleRepository) Close() error {
	return r.db.Close()
}

func (r *BicycleRepository) Get(ctx context.Context, id int64) (domain.Bicycle, error) {
	const op = "postgres.Get"

	conn, err := r.conn(ctx, op)
	if err != nil {
		return domain.Bicycle{}, err
	}
	defer conn.Close()

	stored, err := scanBicycle(conn.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		return domain.Bicycle{}, mapError(op, err)
	}
	return stored.bike, nil
}

func (r *BicycleRepository) Insert(ctx context.Context, bike domain.Bicycle) (domain.Bicycle, error) {
	const op = "postgres.Insert"

	var created domain.Bicycle
	err := r.execTx(ctx, op, func(tx *sql.Tx) error {
		stored, err := r.insertInTx(ctx, tx, bike)
		if err != nil {
			return err
		}
		created = stored.bike
		return nil
	})
	if err != nil {
		return domain.Bicycle{}, err
	}
	return created, nil
}

func (r *BicycleRepository) Update(ctx context.Context, bike domain.Bicycle) (domain.Bicycle, error) {
	const op = "postgres.Update"

	var updated domain.Bicycle
	err := r.execTx(ctx, op, func(tx *sql.Tx) error {
		locked, err := getForUpdate(ctx, tx, bike.ID)
		if err != nil {
			return err
		}
		stored, err := r.updateInTx(ctx, tx, locked, bike)
		if err != nil {
			return err
		}
		updated = stored.bike
		return nil
	})
	if err != nil {
		return domain.Bicycle{}, err
	}
	return updated, nil
}

func (r *BicycleRepository) Save(ctx context.Context, id *int64, transform domain.TransformFunc) (domain.Bicycle, error) {
	const op = "postgres.Save"

	var saved domain.Bicycle
	err := r.execTx(ctx, op, func(tx *sql.Tx) error {
		if id == nil {
			next, err := transform(nil)
			if err != nil {
				return &transformError{err: err}
			}
			stored, err := r.insertInTx(ctx, tx, next)
			if err != nil {
				return err
			}
			saved = stored.bike
			return nil
		}

		locked, err := getForUpdate(ctx, tx, *id)
		if err != nil {
			return err
		}
		prev := locked.bike
		next, err := transform(&prev)
		if err != nil {
			return &transformError{err: err}
		}
		// The row written is always the locked one.
		next.ID = *id
		stored, err := r.updateInTx(ctx, tx, locked, next)
		if err != nil {
			return err
		}
		saved = stored.bike
		return nil
	})
	if err != nil {
		return domain.Bicycle{}, err
	}
	return saved, nil
}

func (r *BicycleRepository) GetAll(ctx context.Context, page, limit int64) ([]domain.Bicycle, error) {
	const op = "postgres.GetAll"

	if page < 0 || limit < 0 {
		return nil, domain.NewRepositoryError(op, domain.ErrInvalidPage, nil)
	}
	if limit == 0 {
		return []domain.Bicycle{}, nil
	}
	// No table holds more than MaxInt64 rows, so an offset past it is an
	// empty page.
	if page > math.MaxInt64/limit {
		return []domain.Bicycle{}, nil
	}

	conn, err := r.conn(ctx, op)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, getAllQuery, limit, page*limit)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	bikes := []domain.Bicycle{}
	for rows.Next() {
		stored, err := scanBicycle(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		bikes = append(bikes, stored.bike)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return bikes, nil
}

// conn checks a dedicated connection out of the pool. The caller must Close
// it, which hands it back to the pool.
func (r *BicycleRepository) conn(ctx context.Context, op string) (*sql.Conn, error) {
	acquireCtx := ctx
	if r.acquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, r.acquireTimeout)
		defer cancel()
	}

	conn, err := r.db.Conn(acquireCtx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, domain.NewRepositoryError(op, domain.ErrOperationCancelled, err)
		}
		return nil, domain.NewRepositoryError(op, domain.ErrConnection, err)
	}
	return conn, nil
}

// execTx runs fn inside a serializable transaction on its own connection.
// It commits when fn returns nil and rolls back on error or panic.
func (r *BicycleRepository) execTx(ctx context.Context, op string, fn func(*sql.Tx) error) (err error) {
	conn, err := r.conn(ctx, op)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return mapError(op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return mapError(op, err)
	}
	if err = tx.Commit(); err != nil {
		return mapError(op, err)
	}
	return nil
}

func (r *BicycleRepository) insertInTx(ctx context.Context, tx *sql.Tx, bike domain.Bicycle) (storedBicycle, error) {
	if err := checkWritable(bike); err != nil {
		return storedBicycle{}, err
	}
	now := r.now().Unix()

	var id int64
	err := tx.QueryRowContext(ctx, insertQuery, bike.Model, bike.Color.String(), now, now).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storedBicycle{}, domain.ErrIDDoesNotExist
		}
		return storedBicycle{}, err
	}
	return scanBicycle(tx.QueryRowContext(ctx, getQuery, id))
}

// updateInTx writes bike over the locked row. The new version comes from the
// locked row, never from the caller.
func (r *BicycleRepository) updateInTx(ctx context.Context, tx *sql.Tx, locked storedBicycle, bike domain.Bicycle) (storedBicycle, error) {
	if err := checkWritable(bike); err != nil {
		return storedBicycle{}, err
	}
	now := r.now().Unix()
	if now < locked.updatedAt {
		now = locked.updatedAt
	}

	_, err := tx.ExecContext(ctx, updateQuery,
		bike.Model,
		bike.Color.String(),
		now,
		locked.version+1,
		locked.bike.ID,
	)
	if err != nil {
		return storedBicycle{}, err
	}
	return scanBicycle(tx.QueryRowContext(ctx, getQuery, locked.bike.ID))
}

func getForUpdate(ctx context.Context, tx *sql.Tx, id int64) (storedBicycle, error) {
	stored, err := scanBicycle(tx.QueryRowContext(ctx, getForUpdateQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storedBicycle{}, domain.ErrIDDoesNotExist
		}
		return storedBicycle{}, err
	}
	return stored, nil
}

func checkWritable(bike domain.Bicycle) error {
	if strings.TrimSpace(bike.Model) == "" {
		return domain.ErrInvalidModel
	}
	if !bike.Color.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidColor, bike.Color.String())
	}
	return nil
}

func scanBicycle(row scanner) (storedBicycle, error) {
	var (
		stored storedBicycle
		color  string
	)
	err := row.Scan(
		&stored.bike.ID,
		&stored.bike.Model,
		&color,
		&stored.createdAt,
		&stored.updatedAt,
		&stored.version,
	)
	if err != nil {
		return storedBicycle{}, err
	}
	c, err := domain.ParseColor(color)
	if err != nil {
		return storedBicycle{}, &corruptRowError{id: stored.bike.ID, err: err}
	}
	stored.bike.Color = c
	return stored, nil
}
