package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sm8ta/bike_inventory_service/internal/core/domain"
	"github.com/sm8ta/bike_inventory_service/internal/core/ports"
)

// ValidationError is returned when a request is rejected before it reaches
// the repository.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "validation error: " + e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidator returns a validator that knows the bicycle_color rule.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("bicycle_color", func(fl validator.FieldLevel) bool {
		return domain.Color(fl.Field().String()).Valid()
	})
	return v
}

type BicycleService struct {
	repo     ports.BicycleRepository
	logger   ports.LoggerPort
	metrics  ports.MetricsPort
	validate *validator.Validate
}

var _ ports.BicycleService = (*BicycleService)(nil)

func NewBicycleService(
	repo ports.BicycleRepository,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
	validate *validator.Validate,
) *BicycleService {
	return &BicycleService{
		repo:     repo,
		logger:   logger,
		metrics:  metrics,
		validate: validate,
	}
}

func (s *BicycleService) CreateBicycle(ctx context.Context, bike domain.Bicycle) (domain.Bicycle, error) {
	log := s.logger.WithContext(ctx)

	if err := s.validate.Struct(bike); err != nil {
		log.Warn("Bicycle validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return domain.Bicycle{}, &ValidationError{Err: err}
	}

	start := time.Now()
	created, err := s.repo.Insert(ctx, bike)
	s.metrics.RecordRepositoryOp("insert", start, err)
	if err != nil {
		log.Error("Failed to create bicycle", map[string]interface{}{
			"error": err.Error(),
			"model": bike.Model,
		})
		return domain.Bicycle{}, err
	}

	log.Info("Bicycle created successfully", map[string]interface{}{
		"bike_id": created.ID,
	})
	return created, nil
}

func (s *BicycleService) GetBicycle(ctx context.Context, id int64) (domain.Bicycle, error) {
	log := s.logger.WithContext(ctx)

	start := time.Now()
	bike, err := s.repo.Get(ctx, id)
	s.metrics.RecordRepositoryOp("get", start, err)
	if err != nil {
		fields := map[string]interface{}{
			"error":   err.Error(),
			"bike_id": id,
		}
		if errors.Is(err, domain.ErrNotFound) {
			log.Debug("Bicycle not found", fields)
		} else {
			log.Error("Failed to get bicycle", fields)
		}
		return domain.Bicycle{}, err
	}
	return bike, nil
}

func (s *BicycleService) UpdateBicycle(ctx context.Context, bike domain.Bicycle) (domain.Bicycle, error) {
	log := s.logger.WithContext(ctx)

	if err := s.validate.Struct(bike); err != nil {
		log.Warn("Bicycle validation failed", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bike.ID,
		})
		return domain.Bicycle{}, &ValidationError{Err: err}
	}

	start := time.Now()
	updated, err := s.repo.Update(ctx, bike)
	s.metrics.RecordRepositoryOp("update", start, err)
	if err != nil {
		log.Error("Failed to update bicycle", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bike.ID,
		})
		return domain.Bicycle{}, err
	}

	log.Info("Bicycle updated successfully", map[string]interface{}{
		"bike_id": updated.ID,
	})
	return updated, nil
}

// PatchBicycle applies patch to the current record under the row lock, so
// a concurrent writer cannot slip in between the read and the write.
func (s *BicycleService) PatchBicycle(ctx context.Context, id int64, patch domain.BicyclePatch) (domain.Bicycle, error) {
	log := s.logger.WithContext(ctx)

	if err := s.validate.Struct(patch); err != nil {
		log.Warn("Bicycle patch validation failed", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": id,
		})
		return domain.Bicycle{}, &ValidationError{Err: err}
	}

	start := time.Now()
	patched, err := s.repo.Save(ctx, &id, func(prev *domain.Bicycle) (domain.Bicycle, error) {
		if prev == nil {
			return domain.Bicycle{}, fmt.Errorf("bicycle %d: %w", id, domain.ErrNotFound)
		}
		return patch.Apply(*prev), nil
	})
	s.metrics.RecordRepositoryOp("save", start, err)
	if err != nil {
		log.Error("Failed to patch bicycle", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": id,
		})
		return domain.Bicycle{}, err
	}

	log.Info("Bicycle patched successfully", map[string]interface{}{
		"bike_id": patched.ID,
	})
	return patched, nil
}

func (s *BicycleService) ListBicycles(ctx context.Context, page, limit int64) ([]domain.Bicycle, error) {
	log := s.logger.WithContext(ctx)

	if page < 0 || limit < 0 {
		return nil, &ValidationError{Err: domain.ErrInvalidPage}
	}

	start := time.Now()
	bikes, err := s.repo.GetAll(ctx, page, limit)
	s.metrics.RecordRepositoryOp("get_all", start, err)
	if err != nil {
		log.Error("Failed to list bicycles", map[string]interface{}{
			"error": err.Error(),
			"page":  page,
			"limit": limit,
		})
		return nil, err
	}

	log.Debug("Retrieved bicycles", map[string]interface{}{
		"page":        page,
		"limit":       limit,
		"bikes_count": len(bikes),
	})
	return bikes, nil
}
