package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mediplace/lab-api/internal/model"
)

// All repository interfaces in one file
type (
	// LabOrderRepository handles lab order persistence. Status-changing
	// methods apply the order update and the outbox event (and, for
	// results submission, every result row) in a single transaction.
	LabOrderRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.LabOrder, error)
		List(ctx context.Context, filters *model.OrderFilters) ([]*model.LabOrder, error)
		ListAll(ctx context.Context) ([]*model.LabOrder, error)
		UpdateStatus(ctx context.Context, order *model.LabOrder, event *model.OutboxEvent) error
		CompleteWithResults(ctx context.Context, order *model.LabOrder, results []*model.LabResult, event *model.OutboxEvent) error
	}

	LabPrescriptionRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.LabPrescription, error)
	}

	LabResultRepository interface {
		ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*model.LabResult, error)
	}

	LabTestRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.LabTest, error)
		ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.LabTest, error)
	}

	// DirectoryRepository resolves display names owned by the wider
	// marketplace schema.
	DirectoryRepository interface {
		GetPatientName(ctx context.Context, id uuid.UUID) (string, error)
		GetLaboratoryName(ctx context.Context, id uuid.UUID) (string, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		// GetPendingEvents returns undelivered events: pending ones plus
		// failed ones that still have delivery attempts left.
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
