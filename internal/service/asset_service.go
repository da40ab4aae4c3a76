package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/models/common"
)

const assetsPath = "/activos"

// AssetService serves the asset operations beyond the generic CRUD.
type AssetService struct {
	ServiceInfo *Info
}

// QRCode gets the QR image of the asset. The backend sends either the image itself or JSON carrying it as a data
// URL (e.g. {"qrCode": "data:image/png;base64,..."}).
func (s *AssetService) QRCode(ctx context.Context, id common.ID) ([]byte, string, error) {
	body, contentType, err := s.ServiceInfo.Client.GetRaw(ctx, idPath(assetsPath, id, "qr"), nil)
	if err != nil {
		return nil, "", errors.Wrap(err, "no se pudo obtener el código QR")
	}

	if !strings.HasPrefix(contentType, "application/json") {
		return body, contentType, nil
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, "", &ErrorCorruptedBackendResult{errMsg: "código QR no válido"}
	}

	for _, key := range []string{"qrCode", "qr", "data", "image"} {
		if dataURL, ok := payload[key].(string); ok {
			return decodeDataURL(dataURL)
		}
	}

	return nil, "", &ErrorCorruptedBackendResult{errMsg: "la respuesta no contiene un código QR"}
}

// decodeDataURL decodes a base64 data URL. A bare base64 string is taken as a PNG image.
func decodeDataURL(dataURL string) ([]byte, string, error) {
	contentType := "image/png"
	encoded := dataURL
	if meta, data, found := strings.Cut(dataURL, ","); found && strings.HasPrefix(meta, "data:") {
		contentType = strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
		encoded = data
	}

	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", &ErrorCorruptedBackendResult{errMsg: "código QR no válido"}
	}

	return image, contentType, nil
}
