package laborder

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mediplace/lab-api/internal/model"
)

// GetOrderResults assembles the human-readable results view of an
// order for an authorized caller. Read-only.
func (s *Service) GetOrderResults(ctx context.Context, actor *model.Actor, orderID uuid.UUID) (*model.OrderResultsResponse, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, order, actor); err != nil {
		return nil, err
	}

	patientName, err := s.directory.GetPatientName(ctx, order.PatientID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve patient name: %w", err)
	}

	laboratoryName, err := s.directory.GetLaboratoryName(ctx, order.LaboratoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve laboratory name: %w", err)
	}

	results, err := s.results.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}

	testIDs := make([]uuid.UUID, 0, len(results))
	for _, result := range results {
		testIDs = append(testIDs, result.LabTestID)
	}

	tests, err := s.tests.ListByIDs(ctx, testIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load test metadata: %w", err)
	}
	testsByID := make(map[uuid.UUID]*model.LabTest, len(tests))
	for _, test := range tests {
		testsByID[test.ID] = test
	}

	details := make([]model.ResultDetail, 0, len(results))
	for _, result := range results {
		detail := model.ResultDetail{
			TestID:         result.LabTestID,
			ResultValue:    result.ResultValue,
			ReferenceRange: result.ReferenceRange,
			Unit:           result.Unit,
			Notes:          result.Notes,
			AttachmentURL:  result.AttachmentURL,
		}
		if test, ok := testsByID[result.LabTestID]; ok {
			detail.TestName = test.Name
			detail.TestCode = test.Code
			detail.TestCategory = test.Category
		}
		if result.ReferenceRange != nil {
			detail.IsAbnormal = model.IsAbnormalResult(result.ResultValue, *result.ReferenceRange)
		}
		details = append(details, detail)
	}

	response := &model.OrderResultsResponse{
		OrderID:        order.ID,
		PatientName:    patientName,
		LaboratoryName: laboratoryName,
		OrderDate:      order.CreatedAt,
		StatusCode:     order.Status,
		StatusName:     order.Status.Name(),
		Results:        details,
	}
	if order.Status == model.OrderStatusCompleted {
		completedAt := order.UpdatedAt
		response.CompletionDate = &completedAt
	}

	return response, nil
}
