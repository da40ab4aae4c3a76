package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/internal/service"
	"golang.org/x/sync/errgroup"
)

// AdminDashboardView is the content of the system administrator's home page.
type AdminDashboardView struct {
	Stats    *common.SystemStats
	Empresas []common.Record
	Columns  []Column
}

const latestCompanyCount = 5

// An AdminController serves the system administrator's home page. It also implements the interface `Controller`.
type AdminController struct {
	*BaseController
	GroupName  string
	ReportSvc  service.ReportServiceInterface
	CompanySvc service.ResourceServiceInterface
}

// GetGroupName returns the group name.
func (ac *AdminController) GetGroupName() string {
	return ac.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the endpoints and handlers which are defined and managed by AdminController.
func (ac *AdminController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"", "GET"}: []gin.HandlerFunc{ac.handleDashboard},
	}
}

func (ac *AdminController) handleDashboard(c *gin.Context) {
	view := &AdminDashboardView{
		Columns: []Column{
			{Label: "Empresa", Path: "nombre"},
			{Label: "Correo", Path: "email"},
			{Label: "Activa", Path: "activa"},
			{Label: "Alta", Path: "fechaCreacion", Format: FormatDate},
		},
	}

	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		stats, err := ac.ReportSvc.SystemStats(gctx)
		view.Stats = stats
		return err
	})
	g.Go(func() error {
		companies, err := ac.CompanySvc.List(gctx, nil)
		if len(companies) > latestCompanyCount {
			companies = companies[len(companies)-latestCompanyCount:]
		}
		view.Empresas = companies
		return err
	})

	if err := g.Wait(); err != nil {
		ac.renderError(c, err)
		return
	}

	ac.render(c, http.StatusOK, "admin_dashboard", "Panel de administración", view)
}
