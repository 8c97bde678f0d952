package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/mediplace/lab-api/pkg/errors"
)

// Display names live in the wider marketplace schema; this service
// only ever reads them.

func (r *directoryRepository) GetPatientName(ctx context.Context, id uuid.UUID) (string, error) {
	var name string
	err := r.db.GetContext(ctx, &name, `SELECT name FROM patients WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return "", apperrors.NotFound(fmt.Sprintf("patient %s", id), err)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get patient name: %w", err)
	}
	return name, nil
}

func (r *directoryRepository) GetLaboratoryName(ctx context.Context, id uuid.UUID) (string, error) {
	var name string
	err := r.db.GetContext(ctx, &name, `SELECT name FROM laboratories WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return "", apperrors.NotFound(fmt.Sprintf("laboratory %s", id), err)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get laboratory name: %w", err)
	}
	return name, nil
}
