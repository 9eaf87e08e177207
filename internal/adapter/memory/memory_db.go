// Package memory is an in-process BicycleRepository. It keeps the same
// transactional contract as the PostgreSQL repository: every write runs
// under a store-wide lock, so concurrent writers are serialised the way
// serializable transactions with row locks would serialise them.
package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sm8ta/bike_inventory_service/internal/core/domain"
	"github.com/sm8ta/bike_inventory_service/internal/core/ports"
)

type storedBicycle struct {
	bike      domain.Bicycle
	createdAt int64
	updatedAt int64
	version   int64
}

type BicycleRepository struct {
	mu     sync.Mutex
	rows   map[int64]storedBicycle
	nextID int64
	now    func() time.Time
	closed bool
}

var _ ports.BicycleRepository = (*BicycleRepository)(nil)

type Option func(*BicycleRepository)

func WithClock(now func() time.Time) Option {
	return func(r *BicycleRepository) { r.now = now }
}

func NewBicycleRepository(opts ...Option) *BicycleRepository {
	r := &BicycleRepository{
		rows:   make(map[int64]storedBicycle),
		nextID: 1,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *BicycleRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *BicycleRepository) Get(ctx context.Context, id int64) (domain.Bicycle, error) {
	const op = "memory.Get"

	if err := r.begin(ctx, op); err != nil {
		return domain.Bicycle{}, err
	}
	defer r.mu.Unlock()

	stored, ok := r.rows[id]
	if !ok {
		return domain.Bicycle{}, domain.NewRepositoryError(op, domain.ErrNotFound, nil)
	}
	return stored.bike, nil
}

func (r *BicycleRepository) Insert(ctx context.Context, bike domain.Bicycle) (domain.Bicycle, error) {
	const op = "memory.Insert"

	if err := r.begin(ctx, op); err != nil {
		return domain.Bicycle{}, err
	}
	defer r.mu.Unlock()

	stored, err := r.insertLocked(bike)
	if err != nil {
		return domain.Bicycle{}, writeError(op, err)
	}
	return stored.bike, nil
}

func (r *BicycleRepository) Update(ctx context.Context, bike domain.Bicycle) (domain.Bicycle, error) {
	const op = "memory.Update"

	if err := r.begin(ctx, op); err != nil {
		return domain.Bicycle{}, err
	}
	defer r.mu.Unlock()

	locked, ok := r.rows[bike.ID]
	if !ok {
		return domain.Bicycle{}, domain.NewRepositoryError(op, domain.ErrIDDoesNotExist, nil)
	}
	stored, err := r.updateLocked(locked, bike)
	if err != nil {
		return domain.Bicycle{}, writeError(op, err)
	}
	return stored.bike, nil
}

func (r *BicycleRepository) Save(ctx context.Context, id *int64, transform domain.TransformFunc) (domain.Bicycle, error) {
	const op = "memory.Save"

	if err := r.begin(ctx, op); err != nil {
		return domain.Bicycle{}, err
	}
	defer r.mu.Unlock()

	if id == nil {
		next, err := transform(nil)
		if err != nil {
			return domain.Bicycle{}, fmt.Errorf("%s: %w", op, err)
		}
		stored, err := r.insertLocked(next)
		if err != nil {
			return domain.Bicycle{}, writeError(op, err)
		}
		return stored.bike, nil
	}

	locked, ok := r.rows[*id]
	if !ok {
		return domain.Bicycle{}, domain.NewRepositoryError(op, domain.ErrIDDoesNotExist, nil)
	}
	prev := locked.bike
	next, err := transform(&prev)
	if err != nil {
		return domain.Bicycle{}, fmt.Errorf("%s: %w", op, err)
	}
	next.ID = *id
	stored, err := r.updateLocked(locked, next)
	if err != nil {
		return domain.Bicycle{}, writeError(op, err)
	}
	return stored.bike, nil
}

func (r *BicycleRepository) GetAll(ctx context.Context, page, limit int64) ([]domain.Bicycle, error) {
	const op = "memory.GetAll"

	if page < 0 || limit < 0 {
		return nil, domain.NewRepositoryError(op, domain.ErrInvalidPage, nil)
	}
	if limit == 0 || page > math.MaxInt64/limit {
		return []domain.Bicycle{}, nil
	}

	if err := r.begin(ctx, op); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	ids := make([]int64, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	bikes := []domain.Bicycle{}
	n := int64(len(ids))
	offset := page * limit
	if offset >= n {
		return bikes, nil
	}
	end := n
	if limit < n-offset {
		end = offset + limit
	}
	for _, id := range ids[offset:end] {
		bikes = append(bikes, r.rows[id].bike)
	}
	return bikes, nil
}

// begin takes the store lock. On success the caller must unlock.
func (r *BicycleRepository) begin(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return domain.NewRepositoryError(op, domain.ErrOperationCancelled, err)
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return domain.NewRepositoryError(op, domain.ErrConnection, fmt.Errorf("repository is closed"))
	}
	return nil
}

func (r *BicycleRepository) insertLocked(bike domain.Bicycle) (storedBicycle, error) {
	if err := checkWritable(bike); err != nil {
		return storedBicycle{}, err
	}
	now := r.now().Unix()
	stored := storedBicycle{
		bike:      domain.Bicycle{ID: r.nextID, Model: bike.Model, Color: bike.Color},
		createdAt: now,
		updatedAt: now,
		version:   0,
	}
	r.rows[stored.bike.ID] = stored
	r.nextID++
	return stored, nil
}

func (r *BicycleRepository) updateLocked(locked storedBicycle, bike domain.Bicycle) (storedBicycle, error) {
	if err := checkWritable(bike); err != nil {
		return storedBicycle{}, err
	}
	now := r.now().Unix()
	if now < locked.updatedAt {
		now = locked.updatedAt
	}
	stored := storedBicycle{
		bike:      domain.Bicycle{ID: locked.bike.ID, Model: bike.Model, Color: bike.Color},
		createdAt: locked.createdAt,
		updatedAt: now,
		version:   locked.version + 1,
	}
	r.rows[stored.bike.ID] = stored
	return stored, nil
}

// record returns the stored row with its bookkeeping columns.
func (r *BicycleRepository) record(id int64) (storedBicycle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[id]
	return stored, ok
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

// writeError reports a rejected write under the matching validation kind.
func writeError(op string, err error) error {
	if errors.Is(err, domain.ErrInvalidModel) {
		return domain.NewRepositoryError(op, domain.ErrInvalidModel, nil)
	}
	return domain.NewRepositoryError(op, domain.ErrInvalidColor, err)
}
