package ports

import "github.com/sm8ta/bike_inventory_service/internal/core/domain"

type TokenService interface {
	VerifyToken(token string) (*domain.TokenPayload, error)
}
