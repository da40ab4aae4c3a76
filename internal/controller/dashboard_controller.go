package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prismaasset360/web/internal/auth"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/internal/service"
)

// DashboardView is the content of the company home page.
type DashboardView struct {
	*service.Dashboard
	Role common.Role
}

// MyAssetsView is the content of the employee's asset page.
type MyAssetsView struct {
	Rows    []common.Record
	Columns []Column
}

// A DashboardController serves the home pages of company users. It also implements the interface `Controller`.
type DashboardController struct {
	*BaseController
	GroupName    string
	DashboardSvc *service.DashboardService
}

// GetGroupName returns the group name.
func (dc *DashboardController) GetGroupName() string {
	return dc.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the endpoints and handlers which are defined and managed by DashboardController.
func (dc *DashboardController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"/dashboard", "GET"}:   []gin.HandlerFunc{dc.handleDashboard},
		urlMethodPair{"/mis-activos", "GET"}: []gin.HandlerFunc{auth.ProtectedRoute(auth.Employees...), dc.handleMyAssets},
	}
}

func (dc *DashboardController) handleDashboard(c *gin.Context) {
	role := currentUser(c).Rol
	dashboard, err := dc.DashboardSvc.Load(c.Request.Context(), role)
	if err != nil {
		dc.renderError(c, err)
		return
	}

	dc.render(c, http.StatusOK, "dashboard", "Inicio", &DashboardView{Dashboard: dashboard, Role: role})
}

func (dc *DashboardController) handleMyAssets(c *gin.Context) {
	rows, err := dc.DashboardSvc.MyAssignments(c.Request.Context())
	if err != nil {
		dc.renderError(c, err)
		return
	}

	dc.render(c, http.StatusOK, "my_assets", "Mis activos", &MyAssetsView{
		Rows: rows,
		Columns: []Column{
			{Label: "Código", Path: "activo.codigo"},
			{Label: "Activo", Path: "activo"},
			{Label: "Categoría", Path: "activo.categoria"},
			{Label: "Asignado", Path: "fechaAsignacion", Format: FormatDate},
		},
	})
}
