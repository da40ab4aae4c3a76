package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/apiclient"
	"github.com/prismaasset360/web/internal/models/common"
)

const (
	summaryPath          = "/reportes/resumen"
	systemStatsPath      = "/admin-sistema/estadisticas"
	depreciationPath     = "/reportes/depreciacion"
	inventoryPath        = "/reportes/inventario"
	maintenanceCostsPath = "/reportes/mantenimientos"
)

// ReportService reads the reports computed by the backend.
type ReportService struct {
	ServiceInfo *Info
}

// Summary implements ReportServiceInterface.
func (s *ReportService) Summary(ctx context.Context) (*common.DashboardSummary, error) {
	var summary common.DashboardSummary
	if err := s.getObject(ctx, summaryPath, &summary); err != nil {
		return nil, errors.Wrap(err, "no se pudo obtener el resumen")
	}

	return &summary, nil
}

// SystemStats implements ReportServiceInterface.
func (s *ReportService) SystemStats(ctx context.Context) (*common.SystemStats, error) {
	var stats common.SystemStats
	if err := s.getObject(ctx, systemStatsPath, &stats); err != nil {
		return nil, errors.Wrap(err, "no se pudieron obtener las estadísticas")
	}

	return &stats, nil
}

// Depreciation implements ReportServiceInterface.
func (s *ReportService) Depreciation(ctx context.Context, query url.Values) ([]common.DepreciationRow, error) {
	rows := []common.DepreciationRow{}
	if err := s.getRows(ctx, depreciationPath, query, &rows); err != nil {
		return nil, errors.Wrap(err, "no se pudo obtener el reporte de depreciación")
	}

	return rows, nil
}

// Inventory implements ReportServiceInterface.
func (s *ReportService) Inventory(ctx context.Context, query url.Values) ([]common.InventoryRow, error) {
	rows := []common.InventoryRow{}
	if err := s.getRows(ctx, inventoryPath, query, &rows); err != nil {
		return nil, errors.Wrap(err, "no se pudo obtener el reporte de inventario")
	}

	return rows, nil
}

// MaintenanceCosts implements ReportServiceInterface.
func (s *ReportService) MaintenanceCosts(ctx context.Context, query url.Values) ([]common.MaintenanceCostRow, error) {
	rows := []common.MaintenanceCostRow{}
	if err := s.getRows(ctx, maintenanceCostsPath, query, &rows); err != nil {
		return nil, errors.Wrap(err, "no se pudo obtener el reporte de mantenimientos")
	}

	return rows, nil
}

func (s *ReportService) getObject(ctx context.Context, path string, out interface{}) error {
	var raw json.RawMessage
	if err := s.ServiceInfo.Client.Do(ctx, &apiclient.Request{Method: http.MethodGet, Path: path}, &raw); err != nil {
		return err
	}

	rec, err := decodeRecord(raw)
	if err != nil {
		return err
	}

	return weakDecode(map[string]interface{}(rec), out)
}

func (s *ReportService) getRows(ctx context.Context, path string, query url.Values, out interface{}) error {
	var items []map[string]interface{}
	if err := getList(ctx, s.ServiceInfo.Client, path, query, &items); err != nil {
		return err
	}

	if len(items) == 0 {
		return nil
	}

	return weakDecode(items, out)
}
