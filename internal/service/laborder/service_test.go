package laborder

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediplace/lab-api/internal/model"
	apperrors "github.com/mediplace/lab-api/pkg/errors"
)

func testOrder(status model.OrderStatus) *model.LabOrder {
	return &model.LabOrder{
		ID:                           uuid.New(),
		PatientID:                    uuid.New(),
		LaboratoryID:                 uuid.New(),
		LabPrescriptionID:            uuid.New(),
		Status:                       status,
		TestsTotalCost:               100,
		SampleCollectionDeliveryCost: 20,
		CreatedAt:                    time.Now().Add(-24 * time.Hour),
		UpdatedAt:                    time.Now().Add(-24 * time.Hour),
	}
}

func TestTransitionConfirmStampsConfirmedAt(t *testing.T) {
	order := testOrder(model.OrderStatusPendingPayment)
	repo := newFakeOrderRepo(order)
	svc := newTestService(repo, newFakePrescriptionRepo())

	updated, err := svc.Transition(context.Background(), order.ID, model.ActionConfirm)
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusConfirmedByLab, updated.Status)
	require.NotNil(t, updated.ConfirmedByLabAt)
	assert.True(t, updated.UpdatedAt.After(order.UpdatedAt))

	stored := repo.orders[order.ID]
	assert.Equal(t, model.OrderStatusConfirmedByLab, stored.Status)
	require.Len(t, repo.events, 1)
	assert.Equal(t, "lab_order.confirm", repo.events[0].EventType)
}

func TestTransitionMarkPaid(t *testing.T) {
	order := testOrder(model.OrderStatusPendingPayment)
	repo := newFakeOrderRepo(order)
	svc := newTestService(repo, newFakePrescriptionRepo())

	updated, err := svc.Transition(context.Background(), order.ID, model.ActionMarkPaid)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaidPendingLabConfirmation, updated.Status)
	assert.Nil(t, updated.ConfirmedByLabAt)
}

func TestTransitionMarkInProgressIsIdempotent(t *testing.T) {
	order := testOrder(model.OrderStatusInProgress)
	repo := newFakeOrderRepo(order)
	svc := newTestService(repo, newFakePrescriptionRepo())

	updated, err := svc.Transition(context.Background(), order.ID, model.ActionMarkInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusInProgress, updated.Status)
}

func TestTransitionRejectedLeavesOrderUnchanged(t *testing.T) {
	order := testOrder(model.OrderStatusCompleted)
	repo := newFakeOrderRepo(order)
	svc := newTestService(repo, newFakePrescriptionRepo())

	_, err := svc.Transition(context.Background(), order.ID, model.ActionConfirm)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidStateTransition))

	stored := repo.orders[order.ID]
	assert.Equal(t, model.OrderStatusCompleted, stored.Status)
	assert.Empty(t, repo.events)
	assert.Zero(t, repo.persistedCalls)
}

func TestTransitionUnknownOrder(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), newFakePrescriptionRepo())

	_, err := svc.Transition(context.Background(), uuid.New(), model.ActionConfirm)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSubmitResultsCompletesOrderAtomically(t *testing.T) {
	order := testOrder(model.OrderStatusInProgressAtLab)
	test1, test2 := uuid.New(), uuid.New()
	prescription := &model.LabPrescription{
		ID:       order.LabPrescriptionID,
		DoctorID: uuid.New(),
		TestIDs:  []uuid.UUID{test1, test2},
	}
	repo := newFakeOrderRepo(order)
	svc := newTestService(repo, newFakePrescriptionRepo(prescription))

	refRange := "70-110"
	updated, err := svc.SubmitResults(context.Background(), order.LaboratoryID, order.ID, &model.SubmitResultsRequest{
		Results: []model.ResultEntry{
			{LabTestID: test1, ResultValue: "95", ReferenceRange: &refRange},
			{LabTestID: test2, ResultValue: "negative"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusCompleted, updated.Status)
	assert.Equal(t, model.OrderStatusCompleted, repo.orders[order.ID].Status)
	require.Len(t, repo.insertedRows, 2)
	assert.Equal(t, order.ID, repo.insertedRows[0].LabOrderID)
	require.Len(t, repo.events, 1)
	assert.Equal(t, "lab_order.submit_results", repo.events[0].EventType)
}

func TestSubmitResultsWrongLaboratory(t *testing.T) {
	order := testOrder(model.OrderStatusInProgressAtLab)
	repo := newFakeOrderRepo(order)
	svc := newTestService(repo, newFakePrescriptionRepo())

	_, err := svc.SubmitResults(context.Background(), uuid.New(), order.ID, &model.SubmitResultsRequest{
		Results: []model.ResultEntry{{LabTestID: uuid.New(), ResultValue: "95"}},
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
	assert.Empty(t, repo.insertedRows)
}

func TestSubmitResultsWrongStatus(t *testing.T) {
	order := testOrder(model.OrderStatusConfirmedByLab)
	repo := newFakeOrderRepo(order)
	svc := newTestService(repo, newFakePrescriptionRepo())

	_, err := svc.SubmitResults(context.Background(), order.LaboratoryID, order.ID, &model.SubmitResultsRequest{
		Results: []model.ResultEntry{{LabTestID: uuid.New(), ResultValue: "95"}},
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidStateTransition))
	assert.Equal(t, model.OrderStatusConfirmedByLab, repo.orders[order.ID].Status)
	assert.Empty(t, repo.insertedRows)
}

func TestSubmitResultsMissingPrescription(t *testing.T) {
	order := testOrder(model.OrderStatusInProgressAtLab)
	repo := newFakeOrderRepo(order)
	svc := newTestService(repo, newFakePrescriptionRepo())

	_, err := svc.SubmitResults(context.Background(), order.LaboratoryID, order.ID, &model.SubmitResultsRequest{
		Results: []model.ResultEntry{{LabTestID: uuid.New(), ResultValue: "95"}},
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

// A batch with any test outside the prescription creates nothing and
// the error names every offending ID.
func TestSubmitResultsRejectsUndeclaredTests(t *testing.T) {
	order := testOrder(model.OrderStatusInProgressAtLab)
	declared := uuid.New()
	rogue1, rogue2 := uuid.New(), uuid.New()
	prescription := &model.LabPrescription{
		ID:      order.LabPrescriptionID,
		TestIDs: []uuid.UUID{declared},
	}
	repo := newFakeOrderRepo(order)
	svc := newTestService(repo, newFakePrescriptionRepo(prescription))

	_, err := svc.SubmitResults(context.Background(), order.LaboratoryID, order.ID, &model.SubmitResultsRequest{
		Results: []model.ResultEntry{
			{LabTestID: declared, ResultValue: "95"},
			{LabTestID: rogue1, ResultValue: "1"},
			{LabTestID: rogue2, ResultValue: "2"},
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Contains(t, err.Error(), rogue1.String())
	assert.Contains(t, err.Error(), rogue2.String())

	assert.Empty(t, repo.insertedRows)
	assert.Equal(t, model.OrderStatusInProgressAtLab, repo.orders[order.ID].Status)
	assert.Empty(t, repo.events)
}

func TestSubmitResultsPersistFailureIsInternal(t *testing.T) {
	order := testOrder(model.OrderStatusInProgressAtLab)
	testID := uuid.New()
	prescription := &model.LabPrescription{ID: order.LabPrescriptionID, TestIDs: []uuid.UUID{testID}}
	repo := newFakeOrderRepo(order)
	repo.failPersist = true
	svc := newTestService(repo, newFakePrescriptionRepo(prescription))

	_, err := svc.SubmitResults(context.Background(), order.LaboratoryID, order.ID, &model.SubmitResultsRequest{
		Results: []model.ResultEntry{{LabTestID: testID, ResultValue: "95"}},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}

func TestListOrdersScopedToCaller(t *testing.T) {
	order1 := testOrder(model.OrderStatusPendingPayment)
	order2 := testOrder(model.OrderStatusCompleted)
	repo := newFakeOrderRepo(order1, order2)
	svc := newTestService(repo, newFakePrescriptionRepo())

	patient := &model.Actor{ID: order1.PatientID, Role: model.RolePatient}
	orders, err := svc.ListOrders(context.Background(), patient, nil)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order1.ID, orders[0].ID)

	lab := &model.Actor{ID: order2.LaboratoryID, Role: model.RoleLaboratory}
	orders, err = svc.ListOrders(context.Background(), lab, nil)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order2.ID, orders[0].ID)

	doctor := &model.Actor{ID: uuid.New(), Role: model.RoleDoctor}
	_, err = svc.ListOrders(context.Background(), doctor, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}
