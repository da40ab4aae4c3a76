package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/apiclient"
	"github.com/prismaasset360/web/internal/models/common"
)

// ResourceService manages one backend resource.
type ResourceService struct {
	ServiceInfo *Info
	prefix      string
}

// NewResourceService creates a service for the resource at `prefix`.
func NewResourceService(info *Info, prefix string) *ResourceService {
	return &ResourceService{
		ServiceInfo: info,
		prefix:      "/" + strings.Trim(prefix, "/"),
	}
}

// Prefix implements ResourceServiceInterface.
func (s *ResourceService) Prefix() string {
	return s.prefix
}

// List implements ResourceServiceInterface.
func (s *ResourceService) List(ctx context.Context, query url.Values) ([]common.Record, error) {
	records, err := getRecords(ctx, s.ServiceInfo.Client, s.prefix, query)
	if err != nil {
		return nil, errors.Wrapf(err, "no se pudo listar '%v'", s.prefix)
	}

	return records, nil
}

// Get implements ResourceServiceInterface.
func (s *ResourceService) Get(ctx context.Context, id common.ID) (common.Record, error) {
	if id == "" {
		return nil, errors.New("ID vacío")
	}

	return s.call(ctx, http.MethodGet, idPath(s.prefix, id), nil)
}

// Create implements ResourceServiceInterface.
func (s *ResourceService) Create(ctx context.Context, rec common.Record) (common.Record, error) {
	return s.call(ctx, http.MethodPost, s.prefix, rec)
}

// Update implements ResourceServiceInterface.
func (s *ResourceService) Update(ctx context.Context, id common.ID, rec common.Record) (common.Record, error) {
	if id == "" {
		return nil, errors.New("ID vacío")
	}

	return s.call(ctx, http.MethodPatch, idPath(s.prefix, id), rec)
}

// Delete implements ResourceServiceInterface.
func (s *ResourceService) Delete(ctx context.Context, id common.ID) error {
	if id == "" {
		return errors.New("ID vacío")
	}

	err := s.ServiceInfo.Client.Do(ctx, &apiclient.Request{Method: http.MethodDelete, Path: idPath(s.prefix, id)}, nil)
	return errors.Wrapf(err, "no se pudo eliminar '%v'", idPath(s.prefix, id))
}

// Action implements ResourceServiceInterface.
func (s *ResourceService) Action(ctx context.Context, id common.ID, method string, action string, body interface{}) (common.Record, error) {
	if id == "" {
		return nil, errors.New("ID vacío")
	}

	return s.call(ctx, method, idPath(s.prefix, id, strings.Trim(action, "/")), body)
}

func (s *ResourceService) call(ctx context.Context, method, path string, body interface{}) (common.Record, error) {
	var raw json.RawMessage
	if err := s.ServiceInfo.Client.Do(ctx, &apiclient.Request{Method: method, Path: path, Body: body}, &raw); err != nil {
		return nil, errors.Wrapf(err, "'%v %v' falló", method, path)
	}

	return decodeRecord(raw)
}
