package controller

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

type urlMethodPair struct {
	urlSuffix, method string
}

// EndpointMap holds the routes of a controller, keyed by (URL suffix, HTTP method). The suffix is relative to the
// controller's group, e.g. ("/:id/editar", "GET") in the group "/activos".
type EndpointMap map[urlMethodPair][]gin.HandlerFunc

// A Controller owns a group of routes.
type Controller interface {
	GetGroupName() string
	GetEndpointMap() EndpointMap
}

var supportedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
}

// RegisterHandlers registers the routes of the controller under the router group. The middlewares (usually route
// guards) run before every handler of the controller. Routes are registered in a fixed order so that a conflict
// always shows up the same way.
func RegisterHandlers(r *gin.RouterGroup, c Controller, middlewares ...gin.HandlerFunc) error {
	group := r.Group(c.GetGroupName(), middlewares...)

	em := c.GetEndpointMap()
	pairs := make([]urlMethodPair, 0, len(em))
	for pair := range em {
		method := strings.ToUpper(pair.method)
		if !supportedMethods[method] {
			return fmt.Errorf("método HTTP no soportado '%v' en '%v%v'", pair.method, c.GetGroupName(), pair.urlSuffix)
		}
		if len(em[pair]) == 0 {
			return fmt.Errorf("la ruta '%v %v%v' no tiene manejadores", method, c.GetGroupName(), pair.urlSuffix)
		}
		pairs = append(pairs, pair)
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].urlSuffix != pairs[j].urlSuffix {
			return pairs[i].urlSuffix < pairs[j].urlSuffix
		}
		return pairs[i].method < pairs[j].method
	})

	for _, pair := range pairs {
		group.Handle(strings.ToUpper(pair.method), pair.urlSuffix, em[pair]...)
	}

	return nil
}
