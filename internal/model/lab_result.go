package model

import (
	"time"

	"github.com/google/uuid"
)

// LabResult is one measured value for one test within one order.
// A result is created only by the results-submission transition and
// its lab_order_id/lab_test_id never change afterwards.
type LabResult struct {
	ID             uuid.UUID `db:"id" json:"id"`
	LabOrderID     uuid.UUID `db:"lab_order_id" json:"lab_order_id"`
	LabTestID      uuid.UUID `db:"lab_test_id" json:"lab_test_id"`
	ResultValue    string    `db:"result_value" json:"result_value"`
	ReferenceRange *string   `db:"reference_range" json:"reference_range,omitempty"`
	Unit           *string   `db:"unit" json:"unit,omitempty"`
	Notes          *string   `db:"notes" json:"notes,omitempty"`
	AttachmentURL  *string   `db:"attachment_url" json:"attachment_url,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// ResultEntry is one submitted measurement in a results batch.
type ResultEntry struct {
	LabTestID      uuid.UUID `json:"lab_test_id" binding:"required"`
	ResultValue    string    `json:"result_value" binding:"required,notblank"`
	ReferenceRange *string   `json:"reference_range"`
	Unit           *string   `json:"unit"`
	Notes          *string   `json:"notes"`
	AttachmentURL  *string   `json:"attachment_url"`
}

// SubmitResultsRequest is the laboratory's results batch for an order.
type SubmitResultsRequest struct {
	Results []ResultEntry `json:"results" binding:"required,min=1,dive"`
}

// ResultDetail is one assembled per-test result row in the results view.
type ResultDetail struct {
	TestID         uuid.UUID `json:"test_id"`
	TestName       string    `json:"test_name"`
	TestCode       string    `json:"test_code"`
	TestCategory   string    `json:"test_category"`
	ResultValue    string    `json:"result_value"`
	ReferenceRange *string   `json:"reference_range,omitempty"`
	Unit           *string   `json:"unit,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	AttachmentURL  *string   `json:"attachment_url,omitempty"`
	IsAbnormal     bool      `json:"is_abnormal"`
}

// OrderResultsResponse is the authorized, human-readable results view
// of one order.
type OrderResultsResponse struct {
	OrderID        uuid.UUID      `json:"order_id"`
	PatientName    string         `json:"patient_name"`
	LaboratoryName string         `json:"laboratory_name"`
	OrderDate      time.Time      `json:"order_date"`
	CompletionDate *time.Time     `json:"completion_date,omitempty"`
	StatusCode     OrderStatus    `json:"status_code"`
	StatusName     string         `json:"status_name"`
	Results        []ResultDetail `json:"results"`
}
