package laborder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mediplace/lab-api/internal/model"
	"github.com/mediplace/lab-api/internal/repository"
	apperrors "github.com/mediplace/lab-api/pkg/errors"
	"github.com/mediplace/lab-api/pkg/logger"
	"github.com/mediplace/lab-api/pkg/metrics"
)

// Service drives the lab order lifecycle: it enforces the transition
// table, validates submitted result batches against the prescription
// and guards every read behind the role-specific ownership check.
type Service struct {
	orders        repository.LabOrderRepository
	prescriptions repository.LabPrescriptionRepository
	results       repository.LabResultRepository
	tests         repository.LabTestRepository
	directory     repository.DirectoryRepository
	logger        *logger.Logger
	metrics       *metrics.Metrics
}

func NewService(
	orders repository.LabOrderRepository,
	prescriptions repository.LabPrescriptionRepository,
	results repository.LabResultRepository,
	tests repository.LabTestRepository,
	directory repository.DirectoryRepository,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		orders:        orders,
		prescriptions: prescriptions,
		results:       results,
		tests:         tests,
		directory:     directory,
		logger:        logger,
		metrics:       metrics,
	}
}

// GetOrder returns the order after the caller's ownership check passes.
func (s *Service) GetOrder(ctx context.Context, actor *model.Actor, orderID uuid.UUID) (*model.LabOrder, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, order, actor); err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns the caller's own orders. Patients and
// laboratories see the orders they own; other roles are rejected.
func (s *Service) ListOrders(ctx context.Context, actor *model.Actor, status *model.OrderStatus) ([]*model.LabOrder, error) {
	filters := &model.OrderFilters{Status: status}
	switch actor.Role {
	case model.RolePatient:
		filters.PatientID = &actor.ID
	case model.RoleLaboratory:
		filters.LaboratoryID = &actor.ID
	default:
		return nil, apperrors.Unauthorized(fmt.Errorf("role %q cannot list orders", actor.Role))
	}

	orders, err := s.orders.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list lab orders: %w", err)
	}
	return orders, nil
}

// Transition performs a lifecycle action on an order. The transition
// table is the single source of truth for preconditions: an action
// whose source set does not contain the current status fails without
// touching the order.
func (s *Service) Transition(ctx context.Context, orderID uuid.UUID, action model.OrderAction) (*model.LabOrder, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next, err := order.Status.Apply(action)
	if err != nil {
		s.countTransition(action, "rejected")
		return nil, err
	}

	now := time.Now()
	order.Status = next
	order.UpdatedAt = now
	if action == model.ActionConfirm {
		order.ConfirmedByLabAt = &now
	}

	event, err := s.orderEvent(order, action)
	if err != nil {
		return nil, fmt.Errorf("failed to build order event: %w", err)
	}

	if err := s.orders.UpdateStatus(ctx, order, event); err != nil {
		s.countTransition(action, "error")
		s.logger.Error(err, "failed to persist transition", "order_id", orderID.String(), "action", string(action))
		return nil, fmt.Errorf("failed to persist transition: %w", err)
	}

	s.countTransition(action, "applied")
	s.logger.Info("lab order transitioned",
		"order_id", orderID.String(), "action", string(action), "status", string(next))
	return order, nil
}

// SubmitResults validates a laboratory's results batch against the
// order's prescription and, when the whole batch is acceptable,
// completes the order and creates every result row atomically.
func (s *Service) SubmitResults(ctx context.Context, laboratoryID, orderID uuid.UUID, req *model.SubmitResultsRequest) (*model.LabOrder, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.LaboratoryID != laboratoryID {
		return nil, apperrors.Unauthorized(nil)
	}

	if order.Status != model.OrderStatusInProgressAtLab {
		s.countTransition(model.ActionSubmitResults, "rejected")
		return nil, apperrors.InvalidStateTransition(string(order.Status), string(model.ActionSubmitResults))
	}

	prescription, err := s.prescriptions.Get(ctx, order.LabPrescriptionID)
	if err != nil {
		return nil, err
	}

	if invalid := invalidTestIDs(req.Results, prescription); len(invalid) > 0 {
		return nil, apperrors.ValidationIDs("results reference tests not on the prescription", invalid)
	}

	next, err := order.Status.Apply(model.ActionSubmitResults)
	if err != nil {
		return nil, err
	}

	order.Status = next
	order.UpdatedAt = time.Now()

	results := make([]*model.LabResult, 0, len(req.Results))
	for _, entry := range req.Results {
		results = append(results, &model.LabResult{
			LabOrderID:     order.ID,
			LabTestID:      entry.LabTestID,
			ResultValue:    entry.ResultValue,
			ReferenceRange: entry.ReferenceRange,
			Unit:           entry.Unit,
			Notes:          entry.Notes,
			AttachmentURL:  entry.AttachmentURL,
		})
	}

	event, err := s.orderEvent(order, model.ActionSubmitResults)
	if err != nil {
		return nil, fmt.Errorf("failed to build order event: %w", err)
	}

	if err := s.orders.CompleteWithResults(ctx, order, results, event); err != nil {
		s.countTransition(model.ActionSubmitResults, "error")
		s.logger.Error(err, "failed to submit results", "order_id", orderID.String())
		return nil, fmt.Errorf("failed to submit results: %w", err)
	}

	s.countTransition(model.ActionSubmitResults, "applied")
	s.logger.Info("lab results submitted",
		"order_id", orderID.String(), "result_count", len(results))
	return order, nil
}

// invalidTestIDs returns every submitted test ID outside the
// prescription's declared set.
func invalidTestIDs(entries []model.ResultEntry, prescription *model.LabPrescription) []string {
	var invalid []string
	seen := make(map[uuid.UUID]bool)
	for _, entry := range entries {
		if prescription.DeclaresTest(entry.LabTestID) || seen[entry.LabTestID] {
			continue
		}
		seen[entry.LabTestID] = true
		invalid = append(invalid, entry.LabTestID.String())
	}
	return invalid
}

func (s *Service) orderEvent(order *model.LabOrder, action model.OrderAction) (*model.OutboxEvent, error) {
	payload, err := json.Marshal(model.OrderEventPayload{
		OrderID:      order.ID,
		PatientID:    order.PatientID,
		LaboratoryID: order.LaboratoryID,
		Status:       order.Status,
		OccurredAt:   order.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	return &model.OutboxEvent{
		EventType: "lab_order." + string(action),
		Payload:   payload,
	}, nil
}

func (s *Service) countTransition(action model.OrderAction, outcome string) {
	if s.metrics != nil {
		s.metrics.OrderTransitions.WithLabelValues(string(action), outcome).Inc()
	}
}
