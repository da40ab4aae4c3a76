package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/internal/service"
	log "github.com/sirupsen/logrus"
)

// An AssetController serves the asset endpoints beyond the generic pages. It also implements the interface
// `Controller`.
type AssetController struct {
	GroupName string
	AssetSvc  *service.AssetService
}

// GetGroupName returns the group name.
func (ac *AssetController) GetGroupName() string {
	return ac.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the endpoints and handlers which are defined and managed by AssetController.
func (ac *AssetController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"/:id/qr", "GET"}: []gin.HandlerFunc{ac.handleGetQRCode},
	}
}

// The QR code is an image embedded in the detail page, so failures are plain statuses.
func (ac *AssetController) handleGetQRCode(c *gin.Context) {
	pel := &ParameterErrorList{}
	id := pel.AppendIfEmptyOrBlankSpaces(c.Param("id"), "El ID del activo no puede estar vacío.")
	if len(*pel) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, NewGeneralResponseFromErrors(messageFromStatus(http.StatusBadRequest), *pel))
		return
	}

	image, contentType, err := ac.AssetSvc.QRCode(c.Request.Context(), common.ID(id))
	if err != nil {
		log.Debugf("No se pudo obtener el QR del activo %v: %v", id, err)
		c.AbortWithStatus(statusFromError(err))
		return
	}

	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, contentType, image)
}
