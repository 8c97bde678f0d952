package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mediplace/lab-api/internal/model"
	apperrors "github.com/mediplace/lab-api/pkg/errors"
)

func (r *labPrescriptionRepository) Get(ctx context.Context, id uuid.UUID) (*model.LabPrescription, error) {
	query := `
		SELECT id, doctor_id, created_at
		FROM lab_prescriptions
		WHERE id = $1
	`
	var prescription model.LabPrescription
	err := r.db.GetContext(ctx, &prescription, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(fmt.Sprintf("lab prescription %s", id), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lab prescription: %w", err)
	}

	itemsQuery := `
		SELECT lab_test_id
		FROM lab_prescription_items
		WHERE lab_prescription_id = $1
	`
	err = r.db.SelectContext(ctx, &prescription.TestIDs, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get prescription items: %w", err)
	}

	return &prescription, nil
}
