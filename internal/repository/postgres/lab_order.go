package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mediplace/lab-api/internal/model"
	apperrors "github.com/mediplace/lab-api/pkg/errors"
)

const labOrderColumns = `
	id, patient_id, laboratory_id, lab_prescription_id, status,
	tests_total_cost, sample_collection_delivery_cost,
	created_at, updated_at, confirmed_by_lab_at
`

func (r *labOrderRepository) Get(ctx context.Context, id uuid.UUID) (*model.LabOrder, error) {
	query := `SELECT ` + labOrderColumns + ` FROM lab_orders WHERE id = $1`

	var order model.LabOrder
	err := r.db.GetContext(ctx, &order, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(fmt.Sprintf("lab order %s", id), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lab order: %w", err)
	}
	return &order, nil
}

func (r *labOrderRepository) List(ctx context.Context, filters *model.OrderFilters) ([]*model.LabOrder, error) {
	query := `SELECT ` + labOrderColumns + ` FROM lab_orders WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters.PatientID != nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, *filters.PatientID)
		argCount++
	}

	if filters.LaboratoryID != nil {
		query += fmt.Sprintf(" AND laboratory_id = $%d", argCount)
		args = append(args, *filters.LaboratoryID)
		argCount++
	}

	if filters.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, *filters.Status)
		argCount++
	}

	query += " ORDER BY created_at DESC"

	var orders []*model.LabOrder
	err := r.db.SelectContext(ctx, &orders, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lab orders: %w", err)
	}
	return orders, nil
}

func (r *labOrderRepository) ListAll(ctx context.Context) ([]*model.LabOrder, error) {
	query := `SELECT ` + labOrderColumns + ` FROM lab_orders ORDER BY created_at DESC`

	var orders []*model.LabOrder
	err := r.db.SelectContext(ctx, &orders, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list lab orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus persists a status change together with its outbox event
// in one transaction.
func (r *labOrderRepository) UpdateStatus(ctx context.Context, order *model.LabOrder, event *model.OutboxEvent) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.updateStatusTx(ctx, tx, order); err != nil {
			return err
		}
		if event != nil {
			if err := r.createOutboxEventTx(ctx, tx, event); err != nil {
				return fmt.Errorf("failed to create outbox event: %w", err)
			}
		}
		return nil
	})
}

// CompleteWithResults inserts the whole results batch, moves the order
// to its new status and appends the outbox event as a single atomic
// unit. Either every row lands and the status changes, or nothing does.
func (r *labOrderRepository) CompleteWithResults(ctx context.Context, order *model.LabOrder, results []*model.LabResult, event *model.OutboxEvent) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO lab_results (
				id, lab_order_id, lab_test_id, result_value,
				reference_range, unit, notes, attachment_url,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		now := time.Now()
		for _, result := range results {
			result.ID = uuid.New()
			result.CreatedAt = now
			result.UpdatedAt = now

			_, err := tx.ExecContext(ctx, query,
				result.ID,
				result.LabOrderID,
				result.LabTestID,
				result.ResultValue,
				result.ReferenceRange,
				result.Unit,
				result.Notes,
				result.AttachmentURL,
				result.CreatedAt,
				result.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert lab result: %w", err)
			}
		}

		if err := r.updateStatusTx(ctx, tx, order); err != nil {
			return err
		}

		if event != nil {
			if err := r.createOutboxEventTx(ctx, tx, event); err != nil {
				return fmt.Errorf("failed to create outbox event: %w", err)
			}
		}
		return nil
	})
}

func (r *labOrderRepository) updateStatusTx(ctx context.Context, tx *sqlx.Tx, order *model.LabOrder) error {
	query := `
		UPDATE lab_orders
		SET status = $1, updated_at = $2, confirmed_by_lab_at = $3
		WHERE id = $4
	`
	result, err := tx.ExecContext(ctx, query,
		order.Status,
		order.UpdatedAt,
		order.ConfirmedByLabAt,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lab order status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound(fmt.Sprintf("lab order %s", order.ID), nil)
	}
	return nil
}
