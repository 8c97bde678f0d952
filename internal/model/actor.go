package model

import "github.com/google/uuid"

// Role identifies which kind of marketplace participant is calling.
type Role string

const (
	RolePatient    Role = "patient"
	RoleDoctor     Role = "doctor"
	RoleLaboratory Role = "laboratory"
)

func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleLaboratory:
		return true
	}
	return false
}

// Actor is the authenticated caller, as supplied by the identity
// service through the verified token.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}
