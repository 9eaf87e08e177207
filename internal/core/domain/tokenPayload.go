package domain

import (
	"github.com/google/uuid"
)

type StaffRole string

const (
	Admin StaffRole = "admin"
	Clerk StaffRole = "clerk"
)

// TokenPayload is what a verified bearer token says about its holder.
type TokenPayload struct {
	ID      uuid.UUID
	StaffID uuid.UUID
	Role    StaffRole
}

func (p *TokenPayload) CanWrite() bool {
	return p != nil && (p.Role == Admin || p.Role == Clerk)
}
