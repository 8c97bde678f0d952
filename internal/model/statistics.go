package model

import (
	"time"

	"github.com/google/uuid"
)

// StatisticsFilter narrows the order set the statistics cover.
// Date bounds are inclusive on both ends.
type StatisticsFilter struct {
	LaboratoryID *uuid.UUID
	StartDate    *time.Time
	EndDate      *time.Time
}

// OrderStatistics is the aggregate rollup of lab orders.
// TotalRevenue only counts completed orders; AverageOrderValue is the
// mean total cost over all filtered orders, zero when the set is empty.
type OrderStatistics struct {
	TotalOrders       int     `json:"total_orders"`
	PendingPayment    int     `json:"pending_payment"`
	Confirmed         int     `json:"confirmed"`
	SampleCollected   int     `json:"sample_collected"`
	InProgress        int     `json:"in_progress"`
	Completed         int     `json:"completed"`
	Cancelled         int     `json:"cancelled"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
}

// StatisticsBucket groups the fourteen lifecycle statuses into the
// fixed reporting buckets.
func StatisticsBucket(s OrderStatus) string {
	switch s {
	case OrderStatusNewRequest, OrderStatusAwaitingLabReview,
		OrderStatusAwaitingPayment, OrderStatusPendingPayment:
		return "pending_payment"
	case OrderStatusPaidPendingLabConfirmation, OrderStatusConfirmedByLab:
		return "confirmed"
	case OrderStatusAwaitingSamples:
		return "sample_collected"
	case OrderStatusInProgress, OrderStatusInProgressAtLab, OrderStatusResultsReady:
		return "in_progress"
	case OrderStatusCompleted:
		return "completed"
	case OrderStatusCancelledByPatient, OrderStatusCancelledByLab, OrderStatusRejectedByLab:
		return "cancelled"
	}
	return ""
}
