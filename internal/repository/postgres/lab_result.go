package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mediplace/lab-api/internal/model"
)

func (r *labResultRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*model.LabResult, error) {
	query := `
		SELECT id, lab_order_id, lab_test_id, result_value,
			   reference_range, unit, notes, attachment_url,
			   created_at, updated_at
		FROM lab_results
		WHERE lab_order_id = $1
		ORDER BY seq ASC
	`
	var results []*model.LabResult
	err := r.db.SelectContext(ctx, &results, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lab results: %w", err)
	}
	return results, nil
}
