package service

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/models/common"
	"golang.org/x/sync/errgroup"
)

// OptionSource describes where the options of a form select come from.
type OptionSource struct {
	Path      string     // Backend list endpoint, e.g. "/categorias"
	Query     url.Values // Optional filters
	Labels    []string   // Record fields joined into the option label, e.g. "codigo", "nombre"
	ValuePath string     // Record field holding the option value. Defaults to the record ID.
}

// LookupService loads the options of form selects.
type LookupService struct {
	ServiceInfo *Info
}

// Options loads the options of every source in parallel, keyed like `sources`. Options are sorted by label.
func (s *LookupService) Options(ctx context.Context, sources map[string]OptionSource) (map[string][]common.Option, error) {
	ret := make(map[string][]common.Option, len(sources))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for key, source := range sources {
		key, source := key, source
		g.Go(func() error {
			records, err := getRecords(gctx, s.ServiceInfo.Client, source.Path, source.Query)
			if err != nil {
				return errors.Wrapf(err, "no se pudieron cargar las opciones de '%v'", key)
			}

			options := RecordsToOptions(records, source.ValuePath, source.Labels)
			mu.Lock()
			ret[key] = options
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ret, nil
}

// RecordsToOptions turns records into select options sorted by label. Records without a value are skipped.
func RecordsToOptions(records []common.Record, valuePath string, labels []string) []common.Option {
	if len(labels) == 0 {
		labels = []string{"nombre"}
	}

	options := make([]common.Option, 0, len(records))
	for _, rec := range records {
		id := rec.ID()
		if valuePath != "" {
			id = common.ID(rec.String(valuePath))
		}
		if id == "" {
			continue
		}

		parts := make([]string, 0, len(labels))
		for _, field := range labels {
			if v := strings.TrimSpace(rec.String(field)); v != "" {
				parts = append(parts, v)
			}
		}

		label := strings.Join(parts, " - ")
		if label == "" {
			label = id.String()
		}

		options = append(options, common.Option{Value: id.String(), Label: label})
	}

	sort.SliceStable(options, func(i, j int) bool {
		return strings.ToLower(options[i].Label) < strings.ToLower(options[j].Label)
	})

	return options
}
