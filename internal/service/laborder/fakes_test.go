package laborder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mediplace/lab-api/internal/model"
	apperrors "github.com/mediplace/lab-api/pkg/errors"
	"github.com/mediplace/lab-api/pkg/logger"
)

// In-memory fakes. They hand out copies so that service-side mutation
// never leaks into the stored state without an explicit update call.

type fakeOrderRepo struct {
	orders         map[uuid.UUID]*model.LabOrder
	insertedRows   []*model.LabResult
	events         []*model.OutboxEvent
	failPersist    bool
	persistedCalls int
}

func newFakeOrderRepo(orders ...*model.LabOrder) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[uuid.UUID]*model.LabOrder)}
	for _, o := range orders {
		copied := *o
		repo.orders[o.ID] = &copied
	}
	return repo
}

func (r *fakeOrderRepo) Get(_ context.Context, id uuid.UUID) (*model.LabOrder, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("lab order %s", id), nil)
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) List(_ context.Context, filters *model.OrderFilters) ([]*model.LabOrder, error) {
	var out []*model.LabOrder
	for _, order := range r.orders {
		if filters.PatientID != nil && order.PatientID != *filters.PatientID {
			continue
		}
		if filters.LaboratoryID != nil && order.LaboratoryID != *filters.LaboratoryID {
			continue
		}
		if filters.Status != nil && order.Status != *filters.Status {
			continue
		}
		copied := *order
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeOrderRepo) ListAll(_ context.Context) ([]*model.LabOrder, error) {
	var out []*model.LabOrder
	for _, order := range r.orders {
		copied := *order
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, order *model.LabOrder, event *model.OutboxEvent) error {
	if r.failPersist {
		return fmt.Errorf("storage unavailable")
	}
	copied := *order
	r.orders[order.ID] = &copied
	if event != nil {
		r.events = append(r.events, event)
	}
	r.persistedCalls++
	return nil
}

func (r *fakeOrderRepo) CompleteWithResults(_ context.Context, order *model.LabOrder, results []*model.LabResult, event *model.OutboxEvent) error {
	if r.failPersist {
		return fmt.Errorf("storage unavailable")
	}
	copied := *order
	r.orders[order.ID] = &copied
	for _, result := range results {
		result.ID = uuid.New()
		result.CreatedAt = time.Now()
		result.UpdatedAt = result.CreatedAt
		r.insertedRows = append(r.insertedRows, result)
	}
	if event != nil {
		r.events = append(r.events, event)
	}
	r.persistedCalls++
	return nil
}

type fakePrescriptionRepo struct {
	prescriptions map[uuid.UUID]*model.LabPrescription
}

func newFakePrescriptionRepo(prescriptions ...*model.LabPrescription) *fakePrescriptionRepo {
	repo := &fakePrescriptionRepo{prescriptions: make(map[uuid.UUID]*model.LabPrescription)}
	for _, p := range prescriptions {
		repo.prescriptions[p.ID] = p
	}
	return repo
}

func (r *fakePrescriptionRepo) Get(_ context.Context, id uuid.UUID) (*model.LabPrescription, error) {
	prescription, ok := r.prescriptions[id]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("lab prescription %s", id), nil)
	}
	copied := *prescription
	return &copied, nil
}

type fakeResultRepo struct {
	byOrder map[uuid.UUID][]*model.LabResult
}

func (r *fakeResultRepo) ListByOrder(_ context.Context, orderID uuid.UUID) ([]*model.LabResult, error) {
	return r.byOrder[orderID], nil
}

type fakeTestRepo struct {
	tests map[uuid.UUID]*model.LabTest
}

func (r *fakeTestRepo) Get(_ context.Context, id uuid.UUID) (*model.LabTest, error) {
	test, ok := r.tests[id]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("lab test %s", id), nil)
	}
	return test, nil
}

func (r *fakeTestRepo) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*model.LabTest, error) {
	var out []*model.LabTest
	for _, id := range ids {
		if test, ok := r.tests[id]; ok {
			out = append(out, test)
		}
	}
	return out, nil
}

type fakeDirectoryRepo struct {
	patients     map[uuid.UUID]string
	laboratories map[uuid.UUID]string
}

func (r *fakeDirectoryRepo) GetPatientName(_ context.Context, id uuid.UUID) (string, error) {
	name, ok := r.patients[id]
	if !ok {
		return "", apperrors.NotFound(fmt.Sprintf("patient %s", id), nil)
	}
	return name, nil
}

func (r *fakeDirectoryRepo) GetLaboratoryName(_ context.Context, id uuid.UUID) (string, error) {
	name, ok := r.laboratories[id]
	if !ok {
		return "", apperrors.NotFound(fmt.Sprintf("laboratory %s", id), nil)
	}
	return name, nil
}

func newTestService(orders *fakeOrderRepo, prescriptions *fakePrescriptionRepo) *Service {
	return NewService(
		orders,
		prescriptions,
		&fakeResultRepo{byOrder: make(map[uuid.UUID][]*model.LabResult)},
		&fakeTestRepo{tests: make(map[uuid.UUID]*model.LabTest)},
		&fakeDirectoryRepo{
			patients:     make(map[uuid.UUID]string),
			laboratories: make(map[uuid.UUID]string),
		},
		logger.NewLogger(nil),
		nil,
	)
}
