package ports

import (
	"context"

	"github.com/sm8ta/bike_inventory_service/internal/core/domain"
)

// BicycleRepository is the storage contract for bicycle records. Every
// implementation must be safe for concurrent use and must run Insert, Update
// and Save as single serializable transactions.
type BicycleRepository interface {
	Get(ctx context.Context, id int64) (domain.Bicycle, error)
	Insert(ctx context.Context, bike domain.Bicycle) (domain.Bicycle, error)
	Update(ctx context.Context, bike domain.Bicycle) (domain.Bicycle, error)
	// Save locks the record named by id (or, with a nil id, nothing), applies
	// transform to it and writes the result back in the same transaction.
	Save(ctx context.Context, id *int64, transform domain.TransformFunc) (domain.Bicycle, error)
	GetAll(ctx context.Context, page, limit int64) ([]domain.Bicycle, error)
	Close() error
}

type BicycleService interface {
	CreateBicycle(ctx context.Context, bike domain.Bicycle) (domain.Bicycle, error)
	GetBicycle(ctx context.Context, id int64) (domain.Bicycle, error)
	UpdateBicycle(ctx context.Context, bike domain.Bicycle) (domain.Bicycle, error)
	PatchBicycle(ctx context.Context, id int64, patch domain.BicyclePatch) (domain.Bicycle, error)
	ListBicycles(ctx context.Context, page, limit int64) ([]domain.Bicycle, error)
}
