package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sm8ta/bike_inventory_service/internal/core/domain"
)

// ============================================================================
// Test Helpers
// ============================================================================

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestRepo(t *testing.T) (*BicycleRepository, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	repo := NewBicycleRepository(WithClock(clock.Now))
	t.Cleanup(func() { repo.Close() })
	return repo, clock
}

func mustInsert(t *testing.T, repo *BicycleRepository, model string, color domain.Color) domain.Bicycle {
	t.Helper()
	bike, err := repo.Insert(context.Background(), domain.Bicycle{Model: model, Color: color})
	if err != nil {
		t.Fatalf("insert %q: %v", model, err)
	}
	return bike
}

func mustRecord(t *testing.T, repo *BicycleRepository, id int64) storedBicycle {
	t.Helper()
	stored, ok := repo.record(id)
	if !ok {
		t.Fatalf("record %d not found", id)
	}
	return stored
}

// ============================================================================
// Insert / Get
// ============================================================================

func TestInsert_StartsAtVersionZero(t *testing.T) {
	repo, _ := newTestRepo(t)

	bike, err := repo.Insert(context.Background(), domain.Bicycle{ID: 42, Model: "Roadster", Color: domain.Blue})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if bike.ID == 42 || bike.ID == 0 {
		t.Errorf("ID = %d, want a store assigned id", bike.ID)
	}

	stored := mustRecord(t, repo, bike.ID)
	if stored.version != 0 {
		t.Errorf("version = %d, want 0", stored.version)
	}
	if stored.createdAt != stored.updatedAt {
		t.Errorf("created_at %d != updated_at %d", stored.createdAt, stored.updatedAt)
	}
}

func TestInsert_RejectsInvalidColor(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Insert(context.Background(), domain.Bicycle{Model: "Roadster", Color: "Purple"})
	if !errors.Is(err, domain.ErrInvalidColor) {
		t.Fatalf("err = %v, want ErrInvalidColor", err)
	}
	bikes, _ := repo.GetAll(context.Background(), 0, 10)
	if len(bikes) != 0 {
		t.Errorf("store has %d rows, want 0", len(bikes))
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// ============================================================================
// Update
// ============================================================================

func TestUpdate_IncrementsVersion(t *testing.T) {
	repo, clock := newTestRepo(t)
	bike := mustInsert(t, repo, "Roadster", domain.Blue)
	before := mustRecord(t, repo, bike.ID)

	clock.Advance(3 * time.Second)
	updated, err := repo.Update(context.Background(), domain.Bicycle{ID: bike.ID, Model: "Roadster X", Color: domain.Gray})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Model != "Roadster X" || updated.Color != domain.Gray {
		t.Errorf("updated = %+v", updated)
	}

	after := mustRecord(t, repo, bike.ID)
	if after.version != before.version+1 {
		t.Errorf("version = %d, want %d", after.version, before.version+1)
	}
	if after.updatedAt < before.updatedAt {
		t.Errorf("updated_at went backwards: %d < %d", after.updatedAt, before.updatedAt)
	}
	if after.createdAt != before.createdAt {
		t.Errorf("created_at changed: %d -> %d", before.createdAt, after.createdAt)
	}
}

func TestUpdate_ClockSkewKeepsUpdatedAtMonotonic(t *testing.T) {
	repo, clock := newTestRepo(t)
	bike := mustInsert(t, repo, "Roadster", domain.Blue)
	before := mustRecord(t, repo, bike.ID)

	clock.Advance(-time.Hour)
	if _, err := repo.Update(context.Background(), domain.Bicycle{ID: bike.ID, Model: "Roadster", Color: domain.Red}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if after := mustRecord(t, repo, bike.ID); after.updatedAt < before.updatedAt {
		t.Errorf("updated_at went backwards: %d < %d", after.updatedAt, before.updatedAt)
	}
}

func TestUpdate_MissingIDLeavesStoreUnchanged(t *testing.T) {
	repo, _ := newTestRepo(t)
	mustInsert(t, repo, "Roadster", domain.Blue)

	_, err := repo.Update(context.Background(), domain.Bicycle{ID: 999999, Model: "Ghost", Color: domain.White})
	if !errors.Is(err, domain.ErrIDDoesNotExist) {
		t.Fatalf("err = %v, want ErrIDDoesNotExist", err)
	}

	bikes, err := repo.GetAll(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(bikes) != 1 || bikes[0].Model != "Roadster" {
		t.Errorf("store changed: %+v", bikes)
	}
}

func TestUpdate_ConcurrentWritersAreSerialised(t *testing.T) {
	repo, _ := newTestRepo(t)
	bike := mustInsert(t, repo, "Base", domain.Blue)
	start := mustRecord(t, repo, bike.ID).version

	const writers = 2
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Update(context.Background(), domain.Bicycle{
				ID:    bike.ID,
				Model: fmt.Sprintf("writer-%d", i),
				Color: domain.Red,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	if got := mustRecord(t, repo, bike.ID).version; got != start+writers {
		t.Errorf("version = %d, want %d", got, start+writers)
	}
}

// ============================================================================
// Save (read-modify-write)
// ============================================================================

func TestSave_NoIDInserts(t *testing.T) {
	repo, _ := newTestRepo(t)

	calls := 0
	saved, err := repo.Save(context.Background(), nil, func(prev *domain.Bicycle) (domain.Bicycle, error) {
		calls++
		if prev != nil {
			t.Errorf("prev = %+v, want nil", prev)
		}
		return domain.Bicycle{Model: "Fresh", Color: domain.White}, nil
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if calls != 1 {
		t.Errorf("transform called %d times, want 1", calls)
	}
	if stored := mustRecord(t, repo, saved.ID); stored.version != 0 || stored.bike.Model != "Fresh" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestSave_WritesRequestIDNotTransformID(t *testing.T) {
	repo, _ := newTestRepo(t)
	target := mustInsert(t, repo, "Target", domain.Blue)
	other := mustInsert(t, repo, "Other", domain.Red)

	id := target.ID
	saved, err := repo.Save(context.Background(), &id, func(prev *domain.Bicycle) (domain.Bicycle, error) {
		next := *prev
		next.ID = other.ID
		next.Model = prev.Model + " (Updated!)"
		next.Color = domain.Gray
		return next, nil
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID != target.ID {
		t.Errorf("saved.ID = %d, want %d", saved.ID, target.ID)
	}
	if got, _ := repo.Get(context.Background(), other.ID); got.Model != "Other" {
		t.Errorf("other row was modified: %+v", got)
	}
	if stored := mustRecord(t, repo, target.ID); stored.version != 1 || stored.bike.Model != "Target (Updated!)" {
		t.Errorf("target = %+v", stored)
	}
}

func TestSave_MissingID(t *testing.T) {
	repo, _ := newTestRepo(t)

	id := int64(7)
	called := false
	_, err := repo.Save(context.Background(), &id, func(prev *domain.Bicycle) (domain.Bicycle, error) {
		called = true
		return *prev, nil
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if called {
		t.Error("transform called for a missing row")
	}
}

func TestSave_TransformErrorLeavesRowUntouched(t *testing.T) {
	repo, _ := newTestRepo(t)
	bike := mustInsert(t, repo, "Roadster", domain.Blue)

	errAbort := errors.New("abort")
	id := bike.ID
	_, err := repo.Save(context.Background(), &id, func(prev *domain.Bicycle) (domain.Bicycle, error) {
		return domain.Bicycle{}, errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("err = %v, want errAbort", err)
	}
	if stored := mustRecord(t, repo, bike.ID); stored.version != 0 {
		t.Errorf("version = %d, want 0", stored.version)
	}
}

func TestSave_ConcurrentNoLostUpdate(t *testing.T) {
	repo, _ := newTestRepo(t)
	bike := mustInsert(t, repo, "Base", domain.Blue)

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := bike.ID
			_, err := repo.Save(context.Background(), &id, func(prev *domain.Bicycle) (domain.Bicycle, error) {
				next := *prev
				next.Model = fmt.Sprintf("%s+%d", prev.Model, i)
				return next, nil
			})
			if err != nil {
				t.Errorf("Save: %v", err)
			}
		}(i)
	}
	wg.Wait()

	stored := mustRecord(t, repo, bike.ID)
	if stored.version != writers {
		t.Errorf("version = %d, want %d", stored.version, writers)
	}
	// Every writer saw the previous writer's commit, so every suffix survives.
	if got := strings.Count(stored.bike.Model, "+"); got != writers {
		t.Errorf("model %q carries %d updates, want %d", stored.bike.Model, got, writers)
	}
}

// ============================================================================
// GetAll
// ============================================================================

func TestGetAll_Paging(t *testing.T) {
	repo, _ := newTestRepo(t)
	for i := 0; i < 5; i++ {
		mustInsert(t, repo, fmt.Sprintf("bike-%d", i), domain.Black)
	}

	tests := []struct {
		page, limit int64
		want        []int64
	}{
		{0, 2, []int64{1, 2}},
		{1, 2, []int64{3, 4}},
		{2, 2, []int64{5}},
		{3, 2, nil},
		{0, 10, []int64{1, 2, 3, 4, 5}},
		{4, 0, nil},
		{1, 4, []int64{5}},
		{1000, 2, nil},
		{0, 1 << 60, []int64{1, 2, 3, 4, 5}},
		{0, math.MaxInt64, []int64{1, 2, 3, 4, 5}},
		{1, math.MaxInt64, nil},
		{math.MaxInt64/2 + 1, 2, nil},
		{math.MaxInt64, math.MaxInt64, nil},
	}
	for _, tt := range tests {
		bikes, err := repo.GetAll(context.Background(), tt.page, tt.limit)
		if err != nil {
			t.Fatalf("GetAll(%d, %d): %v", tt.page, tt.limit, err)
		}
		if bikes == nil {
			t.Errorf("GetAll(%d, %d) returned nil slice", tt.page, tt.limit)
		}
		if len(bikes) != len(tt.want) {
			t.Fatalf("GetAll(%d, %d) = %d rows, want %d", tt.page, tt.limit, len(bikes), len(tt.want))
		}
		for i, b := range bikes {
			if b.ID != tt.want[i] {
				t.Errorf("GetAll(%d, %d)[%d].ID = %d, want %d", tt.page, tt.limit, i, b.ID, tt.want[i])
			}
		}
	}
}

func TestWrites_RejectBlankModel(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	existing := mustInsert(t, repo, "Roadster", domain.Blue)

	if _, err := repo.Insert(ctx, domain.Bicycle{Model: "   ", Color: domain.Red}); !errors.Is(err, domain.ErrInvalidModel) {
		t.Errorf("Insert blank model err = %v, want ErrInvalidModel", err)
	}
	if _, err := repo.Update(ctx, domain.Bicycle{ID: existing.ID, Model: "\t", Color: domain.Red}); !errors.Is(err, domain.ErrInvalidModel) {
		t.Errorf("Update blank model err = %v, want ErrInvalidModel", err)
	}
	_, err := repo.Save(ctx, &existing.ID, func(prev *domain.Bicycle) (domain.Bicycle, error) {
		next := *prev
		next.Model = "  "
		return next, nil
	})
	if !errors.Is(err, domain.ErrInvalidModel) {
		t.Errorf("Save blank model err = %v, want ErrInvalidModel", err)
	}

	if got := mustRecord(t, repo, existing.ID); got.bike != existing || got.version != 0 {
		t.Errorf("record = %+v, want untouched %+v", got, existing)
	}
	if _, ok := repo.record(existing.ID + 1); ok {
		t.Error("blank model was inserted")
	}
}

func TestGetAll_Negative(t *testing.T) {
	repo, _ := newTestRepo(t)

	for _, args := range [][2]int64{{-1, 1}, {0, -1}} {
		if _, err := repo.GetAll(context.Background(), args[0], args[1]); !errors.Is(err, domain.ErrInvalidPage) {
			t.Errorf("GetAll(%d, %d) err = %v, want ErrInvalidPage", args[0], args[1], err)
		}
	}
}

// ============================================================================
// Lifecycle
// ============================================================================

func TestCancelledContext(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Insert(ctx, domain.Bicycle{Model: "Roadster", Color: domain.Blue})
	if !errors.Is(err, domain.ErrOperationCancelled) {
		t.Fatalf("err = %v, want ErrOperationCancelled", err)
	}
}

func TestClosedRepository(t *testing.T) {
	repo, _ := newTestRepo(t)
	repo.Close()

	_, err := repo.Get(context.Background(), 1)
	if !errors.Is(err, domain.ErrConnection) {
		t.Fatalf("err = %v, want ErrConnection", err)
	}
}

func TestRoadsterScenario(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, domain.Bicycle{Model: "Roadster", Color: domain.Blue})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if v := mustRecord(t, repo, created.ID).version; v != 0 {
		t.Fatalf("version = %d, want 0", v)
	}

	updated, err := repo.Update(ctx, domain.Bicycle{ID: created.ID, Model: "Roadster X", Color: domain.Gray})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if v := mustRecord(t, repo, created.ID).version; v != 1 {
		t.Fatalf("version = %d, want 1", v)
	}
	if updated.Model != "Roadster X" || updated.Color != domain.Gray {
		t.Fatalf("updated = %+v", updated)
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != updated {
		t.Errorf("Get = %+v, want %+v", got, updated)
	}

	if _, err := repo.Update(ctx, domain.Bicycle{ID: 999999, Model: "x", Color: domain.Red}); !errors.Is(err, domain.ErrIDDoesNotExist) {
		t.Errorf("err = %v, want ErrIDDoesNotExist", err)
	}
}
