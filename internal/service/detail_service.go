package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/pkg/errorcode"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// RelatedSource describes a list shown on an entity's detail page, e.g. the assignment history of an asset.
type RelatedSource struct {
	Key      string // Key of the list in Detail.Related
	Path     string // Backend list endpoint. ":id" is replaced with the entity ID.
	QueryKey string // If set, the entity ID is passed as this query parameter, e.g. "activoId".
}

// Detail is an entity with its related lists.
type Detail struct {
	Record  common.Record
	Related map[string][]common.Record
}

// DetailService loads detail pages.
type DetailService struct {
	ServiceInfo *Info
}

// Load gets the entity and its related lists in parallel. A related list the user isn't allowed to see is left
// empty; any other failure fails the whole load.
func (s *DetailService) Load(ctx context.Context, svc ResourceServiceInterface, id common.ID, sources []RelatedSource) (*Detail, error) {
	detail := &Detail{Related: make(map[string][]common.Record, len(sources))}
	lists := make([][]common.Record, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := svc.Get(gctx, id)
		if err != nil {
			return err
		}
		detail.Record = rec
		return nil
	})

	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			records, err := s.related(gctx, source, id)
			lists[i] = records
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, source := range sources {
		detail.Related[source.Key] = lists[i]
	}

	return detail, nil
}

func (s *DetailService) related(ctx context.Context, source RelatedSource, id common.ID) ([]common.Record, error) {
	path := strings.ReplaceAll(source.Path, ":id", url.PathEscape(id.String()))
	var query url.Values
	if source.QueryKey != "" {
		query = url.Values{source.QueryKey: []string{id.String()}}
	}

	records, err := getRecords(ctx, s.ServiceInfo.Client, path, query)
	if errors.Cause(err) == errorcode.ErrorForbidden {
		log.Debugf("Sin acceso a '%v'.", path)
		return []common.Record{}, nil
	}

	return records, errors.Wrapf(err, "no se pudo obtener '%v'", path)
}
