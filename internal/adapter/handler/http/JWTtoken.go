package http

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sm8ta/bike_inventory_service/internal/core/domain"
	"github.com/sm8ta/bike_inventory_service/internal/core/ports"
)

type JWTTokenService struct {
	secretKey []byte
	logger    ports.LoggerPort
}

var _ ports.TokenService = (*JWTTokenService)(nil)

func NewJWTTokenService(secretKey string, logger ports.LoggerPort) *JWTTokenService {
	return &JWTTokenService{
		secretKey: []byte(secretKey),
		logger:    logger,
	}
}

// VerifyToken checks an HS256 token and reads the staff claims from it.
func (j *JWTTokenService) VerifyToken(token string) (*domain.TokenPayload, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		j.logger.Error("Failed to parse jwt", map[string]interface{}{
			"error":  err.Error(),
			"method": "VerifyToken",
		})
		return nil, err
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		j.logger.Error("Failed claims from token", map[string]interface{}{
			"method": "VerifyToken",
		})
		return nil, errors.New("failed to verify")
	}

	id, err := uuidClaim(claims, "id")
	if err != nil {
		return nil, err
	}
	staffID, err := uuidClaim(claims, "staff_id")
	if err != nil {
		return nil, err
	}

	roleClaimed, ok := claims["role"].(string)
	if !ok {
		return nil, errors.New("invalid role")
	}

	role := domain.StaffRole(roleClaimed)
	if role != domain.Admin && role != domain.Clerk {
		j.logger.Warn("Invalid role in token", map[string]interface{}{
			"role":   roleClaimed,
			"method": "VerifyToken",
		})
		return nil, errors.New("invalid role value")
	}

	return &domain.TokenPayload{
		ID:      id,
		StaffID: staffID,
		Role:    role,
	}, nil
}

func uuidClaim(claims jwt.MapClaims, key string) (uuid.UUID, error) {
	raw, ok := claims[key].(string)
	if !ok {
		return uuid.Nil, errors.New("invalid " + key + " claim")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("invalid parse " + key)
	}
	return id, nil
}
