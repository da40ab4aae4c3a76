// Package filter implements the search box of the list pages and the display formatting of values.
package filter

import (
	"strings"

	"github.com/prismaasset360/web/internal/models/common"
)

// Matches reports whether any of the values contains the query, ignoring case. A blank query matches everything.
func Matches(query string, values ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}

	for _, v := range values {
		if strings.Contains(strings.ToLower(v), query) {
			return true
		}
	}

	return false
}

// Records returns the records for which one of the fields at `keys` (dotted paths) matches the query. Order is kept.
func Records(records []common.Record, query string, keys []string) []common.Record {
	if strings.TrimSpace(query) == "" {
		return records
	}

	ret := make([]common.Record, 0, len(records))
	values := make([]string, len(keys))
	for _, r := range records {
		for i, key := range keys {
			values[i] = Display(r, key)
		}

		if Matches(query, values...) {
			ret = append(ret, r)
		}
	}

	return ret
}

// Notifications filters notifications by title and message.
func Notifications(notifications []common.Notificacion, query string) []common.Notificacion {
	if strings.TrimSpace(query) == "" {
		return notifications
	}

	ret := make([]common.Notificacion, 0, len(notifications))
	for _, n := range notifications {
		if Matches(query, n.Titulo, n.Mensaje, n.Tipo) {
			ret = append(ret, n)
		}
	}

	return ret
}
