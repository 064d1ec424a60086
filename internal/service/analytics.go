package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"qr-ordering/internal/domain"
	"qr-ordering/internal/repository"
)

type AnalyticsServiceInterface interface {
	Summary(ctx context.Context, restaurantID string, days int) (domain.AnalyticsSummary, error)
}

// AnalyticsService aggregates dashboard metrics in memory from the period's
// order rows. Canceled orders count toward volume but not revenue.
type AnalyticsService struct {
	orders repository.OrdersRepositoryInterface
}

func NewAnalyticsService(orders repository.OrdersRepositoryInterface) *AnalyticsService {
	return &AnalyticsService{orders: orders}
}

func (s *AnalyticsService) Summary(ctx context.Context, restaurantID string, days int) (domain.AnalyticsSummary, error) {
	if days <= 0 {
		days = 7
	}
	if days > 365 {
		days = 365
	}
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)

	orders, err := s.orders.ListForPeriod(ctx, restaurantID, from, to)
	if err != nil {
		return domain.AnalyticsSummary{}, fmt.Errorf("failed to load orders for period: %w", err)
	}

	summary := domain.AnalyticsSummary{
		From:           from,
		To:             to,
		TotalOrders:    len(orders),
		OrdersByStatus: make(map[string]int),
	}

	type dayStats struct {
		orders  int
		revenue float64
	}
	byDay := make(map[string]*dayStats)
	type itemStats struct {
		quantity int
		revenue  float64
	}
	byItem := make(map[string]*itemStats)

	for _, o := range orders {
		summary.OrdersByStatus[string(o.OrderStatus)]++
		if o.OrderStatus == domain.OrderCanceled {
			continue
		}
		summary.TotalRevenue += o.TotalPrice

		day := o.CreatedAt.UTC().Format("2006-01-02")
		ds, ok := byDay[day]
		if !ok {
			ds = &dayStats{}
			byDay[day] = ds
		}
		ds.orders++
		ds.revenue += o.TotalPrice

		for _, item := range o.Items {
			is, ok := byItem[item.MenuItemID]
			if !ok {
				is = &itemStats{}
				byItem[item.MenuItemID] = is
			}
			is.quantity += item.Quantity
			is.revenue += float64(item.Quantity) * item.UnitPrice
		}
	}

	if summary.TotalOrders > 0 {
		summary.AverageOrderValue = summary.TotalRevenue / float64(summary.TotalOrders)
	}

	for day, ds := range byDay {
		summary.RevenueByDay = append(summary.RevenueByDay, domain.RevenueByDay{
			Day:     day,
			Orders:  ds.orders,
			Revenue: ds.revenue,
		})
	}
	sort.Slice(summary.RevenueByDay, func(i, j int) bool {
		return summary.RevenueByDay[i].Day < summary.RevenueByDay[j].Day
	})

	for id, is := range byItem {
		summary.BestSellingItems = append(summary.BestSellingItems, domain.BestSellingItem{
			MenuItemID:   id,
			QuantitySold: is.quantity,
			Revenue:      is.revenue,
		})
	}
	sort.Slice(summary.BestSellingItems, func(i, j int) bool {
		return summary.BestSellingItems[i].QuantitySold > summary.BestSellingItems[j].QuantitySold
	})
	if len(summary.BestSellingItems) > 10 {
		summary.BestSellingItems = summary.BestSellingItems[:10]
	}

	return summary, nil
}
