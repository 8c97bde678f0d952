package model

import (
	"time"

	"github.com/google/uuid"
)

// LabPrescription is the doctor-authored declaration of which lab
// tests are being requested for an order.
type LabPrescription struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// TestIDs is the declared test-ID set, loaded from the
	// prescription items. Order is irrelevant, entries are unique.
	TestIDs []uuid.UUID `db:"-" json:"test_ids"`
}

// DeclaresTest reports whether testID is part of the prescription.
func (p *LabPrescription) DeclaresTest(testID uuid.UUID) bool {
	for _, id := range p.TestIDs {
		if id == testID {
			return true
		}
	}
	return false
}
