package service

import (
	"context"
	"net/url"

	"github.com/prismaasset360/web/internal/models/common"
)

// ReportServiceInterface defines the reports and statistics computed by the backend.
type ReportServiceInterface interface {
	// Summary gets the company figures shown on the dashboard.
	Summary(ctx context.Context) (*common.DashboardSummary, error)

	// SystemStats gets the figures shown on the system administrator's dashboard.
	SystemStats(ctx context.Context) (*common.SystemStats, error)

	// Depreciation gets the depreciation report. `query` carries the report filters (categoriaId, fecha...).
	Depreciation(ctx context.Context, query url.Values) ([]common.DepreciationRow, error)

	// Inventory gets the inventory report.
	Inventory(ctx context.Context, query url.Values) ([]common.InventoryRow, error)

	// MaintenanceCosts gets the maintenance cost report.
	MaintenanceCosts(ctx context.Context, query url.Values) ([]common.MaintenanceCostRow, error)
}
