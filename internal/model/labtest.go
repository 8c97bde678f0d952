package model

import "github.com/google/uuid"

// LabTest is a catalog entry. Read-only from this service's
// perspective; the catalog is managed elsewhere.
type LabTest struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Name     string    `db:"name" json:"name"`
	Code     string    `db:"code" json:"code"`
	Category string    `db:"category" json:"category"`
}
