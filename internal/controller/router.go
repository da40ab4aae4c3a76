package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/apiclient"
	"github.com/prismaasset360/web/internal/auth"
	"github.com/prismaasset360/web/internal/service"
	"github.com/prismaasset360/web/internal/session"
)

// DefaultNotificationPollInterval is how often the notification socket asks the backend for the unread count.
const DefaultNotificationPollInterval = 30 * time.Second

// RouterConfig holds what the router is built from.
type RouterConfig struct {
	Client                   apiclient.Requester
	Sessions                 *session.Manager
	HTMLRender               render.HTMLRender
	AllowedOrigins           []string
	NotificationPollInterval time.Duration
}

// NewRouter instantiates the services and controllers and registers every page behind its guards.
func NewRouter(cfg *RouterConfig) (*gin.Engine, error) {
	if cfg.NotificationPollInterval <= 0 {
		cfg.NotificationPollInterval = DefaultNotificationPollInterval
	}

	// Instantiate services
	serviceInfo := &service.Info{Client: cfg.Client}
	authSvc := &service.AuthService{ServiceInfo: serviceInfo}
	notificationSvc := &service.NotificationService{ServiceInfo: serviceInfo}
	reportSvc := &service.ReportService{ServiceInfo: serviceInfo}
	assetSvc := &service.AssetService{ServiceInfo: serviceInfo}
	lookupSvc := &service.LookupService{ServiceInfo: serviceInfo}
	detailSvc := &service.DetailService{ServiceInfo: serviceInfo}
	dashboardSvc := &service.DashboardService{
		ServiceInfo:         serviceInfo,
		ReportService:       reportSvc,
		NotificationService: notificationSvc,
	}

	base := &BaseController{Sessions: cfg.Sessions}

	router := gin.New()
	router.HTMLRender = cfg.HTMLRender
	router.Use(RequestID(), Logger(), gin.Recovery(), CORSMiddleware(cfg.AllowedOrigins), cfg.Sessions.Middleware())
	router.NoRoute(func(c *gin.Context) {
		base.render(c, http.StatusNotFound, "error", "Página no encontrada", &ErrorView{
			Status:  http.StatusNotFound,
			Message: messageFromStatus(http.StatusNotFound),
		})
	})

	root := &router.RouterGroup

	// Unguarded pages: probes and authentication
	pingPongController := &PingPongController{StartedAt: time.Now()}
	authController := &AuthController{BaseController: base, AuthSvc: authSvc}
	for _, c := range []Controller{pingPongController, authController} {
		if err := RegisterHandlers(root, c); err != nil {
			return nil, errors.Wrapf(err, "no se pudieron registrar las rutas de '%v'", c.GetGroupName())
		}
	}

	// Company pages. The navigation tells who may open each of them.
	companyControllers := []Controller{
		&DashboardController{BaseController: base, DashboardSvc: dashboardSvc},
		&AssetController{GroupName: "/activos", AssetSvc: assetSvc},
		&ReportController{BaseController: base, GroupName: "/reportes", ReportSvc: reportSvc, LookupSvc: lookupSvc, Reports: Reports()},
		&NotificationController{BaseController: base, GroupName: "/notificaciones", NotificationSvc: notificationSvc},
		&CompanyProfileController{BaseController: base, Svc: service.NewResourceService(serviceInfo, CompanyProfileResource.BackendPath)},
		NewNotificationSocketController("/ws", notificationSvc, cfg.NotificationPollInterval, cfg.AllowedOrigins),
	}
	for _, resource := range CompanyResources() {
		companyControllers = append(companyControllers, newResourceController(base, serviceInfo, resource, lookupSvc, detailSvc))
	}
	for _, c := range companyControllers {
		if err := RegisterHandlers(root, c, auth.Layout(), auth.NavGuard()); err != nil {
			return nil, errors.Wrapf(err, "no se pudieron registrar las rutas de '%v'", c.GetGroupName())
		}
	}

	// System administration pages
	adminControllers := []Controller{
		&AdminController{
			BaseController: base,
			GroupName:      "/admin",
			ReportSvc:      reportSvc,
			CompanySvc:     service.NewResourceService(serviceInfo, AdminCompaniesBackendPath),
		},
	}
	for _, resource := range AdminResources() {
		adminControllers = append(adminControllers, newResourceController(base, serviceInfo, resource, lookupSvc, detailSvc))
	}
	for _, c := range adminControllers {
		if err := RegisterHandlers(root, c, auth.AdminLayout()); err != nil {
			return nil, errors.Wrapf(err, "no se pudieron registrar las rutas de '%v'", c.GetGroupName())
		}
	}

	return router, nil
}

func newResourceController(base *BaseController, info *service.Info, resource *Resource, lookupSvc *service.LookupService, detailSvc *service.DetailService) *ResourceController {
	return &ResourceController{
		BaseController: base,
		Resource:       resource,
		Svc:            service.NewResourceService(info, resource.BackendPath),
		LookupSvc:      lookupSvc,
		DetailSvc:      detailSvc,
	}
}
