package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mediplace/lab-api/internal/model"
	apperrors "github.com/mediplace/lab-api/pkg/errors"
)

func (r *labTestRepository) Get(ctx context.Context, id uuid.UUID) (*model.LabTest, error) {
	query := `
		SELECT id, name, code, category
		FROM lab_tests
		WHERE id = $1
	`
	var test model.LabTest
	err := r.db.GetContext(ctx, &test, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(fmt.Sprintf("lab test %s", id), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lab test: %w", err)
	}
	return &test, nil
}

func (r *labTestRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.LabTest, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, name, code, category
		FROM lab_tests
		WHERE id IN (?)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build lab tests query: %w", err)
	}

	var tests []*model.LabTest
	err = r.db.SelectContext(ctx, &tests, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lab tests: %w", err)
	}
	return tests, nil
}
