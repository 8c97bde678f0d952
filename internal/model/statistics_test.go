package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatisticsBucketCoversEveryStatus(t *testing.T) {
	for _, s := range allStatuses {
		assert.NotEmpty(t, StatisticsBucket(s), "status %s has no bucket", s)
	}
	assert.Empty(t, StatisticsBucket(OrderStatus("bogus")))
}

func TestStatisticsBucketGrouping(t *testing.T) {
	assert.Equal(t, "pending_payment", StatisticsBucket(OrderStatusPendingPayment))
	assert.Equal(t, "pending_payment", StatisticsBucket(OrderStatusNewRequest))
	assert.Equal(t, "confirmed", StatisticsBucket(OrderStatusConfirmedByLab))
	assert.Equal(t, "confirmed", StatisticsBucket(OrderStatusPaidPendingLabConfirmation))
	assert.Equal(t, "sample_collected", StatisticsBucket(OrderStatusAwaitingSamples))
	assert.Equal(t, "in_progress", StatisticsBucket(OrderStatusInProgressAtLab))
	assert.Equal(t, "in_progress", StatisticsBucket(OrderStatusResultsReady))
	assert.Equal(t, "completed", StatisticsBucket(OrderStatusCompleted))
	assert.Equal(t, "cancelled", StatisticsBucket(OrderStatusRejectedByLab))
}
