package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus is the body of GET /healthz.
type HealthStatus struct {
	Status    string `json:"status"`
	StartedAt string `json:"startedAt"`
	Uptime    string `json:"uptime"`
}

// A PingPongController serves the liveness probes of load balancers. Neither route touches the backend or the
// session store.
type PingPongController struct {
	GroupName string
	StartedAt time.Time
}

// GetGroupName returns the group name
func (ppc *PingPongController) GetGroupName() string {
	return ppc.GroupName
}

// GetEndpointMap implements the interface `Controller`.
func (ppc *PingPongController) GetEndpointMap() EndpointMap {
	pingHandler := func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	}

	return EndpointMap{
		urlMethodPair{"/ping", "GET"}:    []gin.HandlerFunc{pingHandler},
		urlMethodPair{"/ping", "HEAD"}:   []gin.HandlerFunc{pingHandler},
		urlMethodPair{"/healthz", "GET"}: []gin.HandlerFunc{ppc.handleHealth},
	}
}

func (ppc *PingPongController) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, &HealthStatus{
		Status:    "ok",
		StartedAt: ppc.StartedAt.UTC().Format(time.RFC3339),
		Uptime:    time.Since(ppc.StartedAt).Round(time.Second).String(),
	})
}
