package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/mediplace/lab-api/pkg/errors"
)

// OrderStatus represents the lifecycle state of a lab order.
type OrderStatus string

const (
	OrderStatusNewRequest                 OrderStatus = "new_request"
	OrderStatusAwaitingLabReview          OrderStatus = "awaiting_lab_review"
	OrderStatusAwaitingPayment            OrderStatus = "awaiting_payment"
	OrderStatusPendingPayment             OrderStatus = "pending_payment"
	OrderStatusPaidPendingLabConfirmation OrderStatus = "paid_pending_lab_confirmation"
	OrderStatusConfirmedByLab             OrderStatus = "confirmed_by_lab"
	OrderStatusAwaitingSamples            OrderStatus = "awaiting_samples"
	OrderStatusInProgress                 OrderStatus = "in_progress"
	OrderStatusInProgressAtLab            OrderStatus = "in_progress_at_lab"
	OrderStatusResultsReady               OrderStatus = "results_ready"
	OrderStatusCompleted                  OrderStatus = "completed"
	OrderStatusCancelledByPatient         OrderStatus = "cancelled_by_patient"
	OrderStatusCancelledByLab             OrderStatus = "cancelled_by_lab"
	OrderStatusRejectedByLab              OrderStatus = "rejected_by_lab"
)

var orderStatusNames = map[OrderStatus]string{
	OrderStatusNewRequest:                 "New Request",
	OrderStatusAwaitingLabReview:          "Awaiting Lab Review",
	OrderStatusAwaitingPayment:            "Awaiting Payment",
	OrderStatusPendingPayment:             "Pending Payment",
	OrderStatusPaidPendingLabConfirmation: "Paid, Pending Lab Confirmation",
	OrderStatusConfirmedByLab:             "Confirmed by Lab",
	OrderStatusAwaitingSamples:            "Awaiting Samples",
	OrderStatusInProgress:                 "In Progress",
	OrderStatusInProgressAtLab:            "In Progress at Lab",
	OrderStatusResultsReady:               "Results Ready",
	OrderStatusCompleted:                  "Completed",
	OrderStatusCancelledByPatient:         "Cancelled by Patient",
	OrderStatusCancelledByLab:             "Cancelled by Lab",
	OrderStatusRejectedByLab:              "Rejected by Lab",
}

func (s OrderStatus) String() string {
	return string(s)
}

// Name returns the human-readable display name of the status.
func (s OrderStatus) Name() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsValid checks if the status is one of the defined lifecycle states.
func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusNames[s]
	return ok
}

// IsTerminal returns true if no further transition is defined from the status.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelledByPatient,
		OrderStatusCancelledByLab, OrderStatusRejectedByLab:
		return true
	}
	return false
}

// OrderAction is a lifecycle transition requested against a lab order.
type OrderAction string

const (
	ActionConfirm             OrderAction = "confirm"
	ActionMarkSampleCollected OrderAction = "mark_sample_collected"
	ActionMarkInProgress      OrderAction = "mark_in_progress"
	ActionMarkPaid            OrderAction = "mark_paid"
	ActionComplete            OrderAction = "complete"
	ActionSubmitResults       OrderAction = "submit_results"
)

// orderTransitions maps each action to its allowed source statuses and
// its target. Every precondition check goes through this table; no
// method re-validates statuses on its own.
var orderTransitions = map[OrderAction]struct {
	sources []OrderStatus
	target  OrderStatus
}{
	ActionConfirm: {
		sources: []OrderStatus{OrderStatusPendingPayment, OrderStatusPaidPendingLabConfirmation},
		target:  OrderStatusConfirmedByLab,
	},
	ActionMarkSampleCollected: {
		sources: []OrderStatus{OrderStatusConfirmedByLab},
		target:  OrderStatusInProgress,
	},
	ActionMarkInProgress: {
		sources: []OrderStatus{OrderStatusConfirmedByLab, OrderStatusInProgress},
		target:  OrderStatusInProgress,
	},
	ActionMarkPaid: {
		sources: []OrderStatus{OrderStatusPendingPayment},
		target:  OrderStatusPaidPendingLabConfirmation,
	},
	ActionComplete: {
		sources: []OrderStatus{OrderStatusInProgress, OrderStatusResultsReady},
		target:  OrderStatusCompleted,
	},
	ActionSubmitResults: {
		sources: []OrderStatus{OrderStatusInProgressAtLab},
		target:  OrderStatusCompleted,
	},
}

// Apply returns the status reached by performing action from s, or an
// InvalidStateTransition error when s is not in the action's source set.
func (s OrderStatus) Apply(action OrderAction) (OrderStatus, error) {
	t, ok := orderTransitions[action]
	if !ok {
		return "", errors.InvalidStateTransition(string(s), string(action))
	}
	for _, src := range t.sources {
		if src == s {
			return t.target, nil
		}
	}
	return "", errors.InvalidStateTransition(string(s), string(action))
}

// CanApply reports whether action is allowed from s.
func (s OrderStatus) CanApply(action OrderAction) bool {
	_, err := s.Apply(action)
	return err == nil
}

// LabOrder represents one laboratory request tied to exactly one
// prescription. PatientID, LaboratoryID and LabPrescriptionID are
// immutable after creation; status changes only through the lifecycle
// service.
type LabOrder struct {
	ID                           uuid.UUID   `db:"id" json:"id"`
	PatientID                    uuid.UUID   `db:"patient_id" json:"patient_id"`
	LaboratoryID                 uuid.UUID   `db:"laboratory_id" json:"laboratory_id"`
	LabPrescriptionID            uuid.UUID   `db:"lab_prescription_id" json:"lab_prescription_id"`
	Status                       OrderStatus `db:"status" json:"status"`
	TestsTotalCost               float64     `db:"tests_total_cost" json:"tests_total_cost"`
	SampleCollectionDeliveryCost float64     `db:"sample_collection_delivery_cost" json:"sample_collection_delivery_cost"`
	CreatedAt                    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt                    time.Time   `db:"updated_at" json:"updated_at"`
	ConfirmedByLabAt             *time.Time  `db:"confirmed_by_lab_at" json:"confirmed_by_lab_at,omitempty"`
}

// TotalCost is the order's full charge, tests plus sample collection.
func (o *LabOrder) TotalCost() float64 {
	return o.TestsTotalCost + o.SampleCollectionDeliveryCost
}

// OrderFilters narrows order listings.
type OrderFilters struct {
	PatientID    *uuid.UUID
	LaboratoryID *uuid.UUID
	Status       *OrderStatus
}
