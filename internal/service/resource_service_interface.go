package service

import (
	"context"
	"net/url"

	"github.com/prismaasset360/web/internal/models/common"
)

// ResourceServiceInterface defines the CRUD operations on one backend resource, e.g. "/activos".
type ResourceServiceInterface interface {
	// Prefix returns the backend path of the resource.
	Prefix() string

	// List lists the resource. `query` is forwarded as is.
	List(ctx context.Context, query url.Values) ([]common.Record, error)

	// Get gets one entity.
	Get(ctx context.Context, id common.ID) (common.Record, error)

	// Create creates an entity and returns it as the backend stored it.
	Create(ctx context.Context, rec common.Record) (common.Record, error)

	// Update replaces the given fields of an entity and returns the updated entity.
	Update(ctx context.Context, id common.ID, rec common.Record) (common.Record, error)

	// Delete deletes an entity.
	Delete(ctx context.Context, id common.ID) error

	// Action calls a sub-resource of an entity, e.g. `PATCH /asignaciones/4/devolver`.
	Action(ctx context.Context, id common.ID, method string, action string, body interface{}) (common.Record, error)
}
