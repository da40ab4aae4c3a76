package service

import (
	"context"
	"net/url"

	"github.com/prismaasset360/web/internal/auth"
	"github.com/prismaasset360/web/internal/models/common"
	"golang.org/x/sync/errgroup"
)

const (
	latestNotificationCount = 5
	myAssignmentsPath       = "/asignaciones/mis-asignaciones"
	scheduledPath           = "/mantenimientos-programados"
)

// Dashboard is what the home page of a company user shows. Parts the role doesn't see are left nil.
type Dashboard struct {
	Summary         *common.DashboardSummary
	Proximos        []common.Record // Upcoming scheduled maintenance
	Notificaciones  []common.Notificacion
	MisAsignaciones []common.Record // Assets assigned to the user (employees)
}

// DashboardService loads the home page of company users.
type DashboardService struct {
	ServiceInfo         *Info
	ReportService       ReportServiceInterface
	NotificationService NotificationServiceInterface
}

// Load loads every part of the dashboard the role sees, in parallel.
func (s *DashboardService) Load(ctx context.Context, role common.Role) (*Dashboard, error) {
	dashboard := &Dashboard{}

	g, gctx := errgroup.WithContext(ctx)
	if auth.HasRole(role, auth.Managers) {
		g.Go(func() error {
			summary, err := s.ReportService.Summary(gctx)
			dashboard.Summary = summary
			return err
		})
	}

	if auth.HasRole(role, auth.Operators) {
		g.Go(func() error {
			records, err := getRecords(gctx, s.ServiceInfo.Client, scheduledPath, url.Values{"proximos": []string{"true"}})
			dashboard.Proximos = records
			return err
		})
	}

	if role.Is(common.RoleEmployee) {
		g.Go(func() error {
			records, err := getRecords(gctx, s.ServiceInfo.Client, myAssignmentsPath, nil)
			dashboard.MisAsignaciones = records
			return err
		})
	}

	g.Go(func() error {
		list, err := s.NotificationService.List(gctx)
		if len(list) > latestNotificationCount {
			list = list[:latestNotificationCount]
		}
		dashboard.Notificaciones = list
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return dashboard, nil
}

// MyAssignments lists the assets assigned to the logged-in employee.
func (s *DashboardService) MyAssignments(ctx context.Context) ([]common.Record, error) {
	return getRecords(ctx, s.ServiceInfo.Client, myAssignmentsPath, nil)
}
