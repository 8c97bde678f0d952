package laborder

import (
	"context"
	"fmt"

	"github.com/mediplace/lab-api/internal/model"
)

// GetStatistics computes the aggregate order rollup. Date bounds are
// inclusive on both ends; an empty filtered set yields zeroes, not a
// division fault.
func (s *Service) GetStatistics(ctx context.Context, filter *model.StatisticsFilter) (*model.OrderStatistics, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	stats := &model.OrderStatistics{}
	var costSum float64

	for _, order := range orders {
		if !matchesFilter(order, filter) {
			continue
		}

		stats.TotalOrders++
		costSum += order.TotalCost()

		switch model.StatisticsBucket(order.Status) {
		case "pending_payment":
			stats.PendingPayment++
		case "confirmed":
			stats.Confirmed++
		case "sample_collected":
			stats.SampleCollected++
		case "in_progress":
			stats.InProgress++
		case "completed":
			stats.Completed++
			stats.TotalRevenue += order.TotalCost()
		case "cancelled":
			stats.Cancelled++
		}
	}

	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = costSum / float64(stats.TotalOrders)
	}

	return stats, nil
}

func matchesFilter(order *model.LabOrder, filter *model.StatisticsFilter) bool {
	if filter == nil {
		return true
	}
	if filter.LaboratoryID != nil && order.LaboratoryID != *filter.LaboratoryID {
		return false
	}
	if filter.StartDate != nil && order.CreatedAt.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && order.CreatedAt.After(*filter.EndDate) {
		return false
	}
	return true
}
