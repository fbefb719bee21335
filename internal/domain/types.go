package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

func init() {
	// Money travels as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Pagination
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, TotalItems: total, TotalPages: pages}
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	Products      int64           `json:"products"`
	Orders        int64           `json:"orders"`
	PendingOrders int64           `json:"pendingOrders"`
	Users         int64           `json:"users"`
	Revenue       decimal.Decimal `json:"revenue"`
	ActiveCoupons int64           `json:"activeCoupons"`
}

type StatsRepository interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
}
