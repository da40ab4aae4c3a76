package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/apiclient"
	"github.com/prismaasset360/web/internal/models/common"
)

// idPath builds "<prefix>/<id>/<rest...>" with the ID escaped.
func idPath(prefix string, id common.ID, rest ...string) string {
	parts := append([]string{strings.TrimRight(prefix, "/"), url.PathEscape(id.String())}, rest...)
	return strings.Join(parts, "/")
}

// decodeRecord decodes a single entity. Entities wrapped as {"data": {...}} are unwrapped.
func decodeRecord(raw json.RawMessage) (common.Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return common.Record{}, nil
	}

	var rec common.Record
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, &ErrorCorruptedBackendResult{errMsg: fmt.Sprintf("entidad no válida: %v", err)}
	}

	if inner, ok := rec["data"].(map[string]interface{}); ok && len(rec) == 1 {
		return common.Record(inner), nil
	}

	return rec, nil
}

// getList fetches a list endpoint and decodes it into `out`, whatever envelope the backend uses.
func getList(ctx context.Context, client apiclient.Requester, path string, query url.Values, out interface{}) error {
	var raw json.RawMessage
	if err := client.Do(ctx, &apiclient.Request{Method: http.MethodGet, Path: path, Query: query}, &raw); err != nil {
		return err
	}

	if err := apiclient.UnwrapList(raw, out); err != nil {
		return &ErrorCorruptedBackendResult{errMsg: fmt.Sprintf("'%v': %v", path, err)}
	}

	return nil
}

// getRecords fetches a list endpoint as records.
func getRecords(ctx context.Context, client apiclient.Requester, path string, query url.Values) ([]common.Record, error) {
	records := []common.Record{}
	if err := getList(ctx, client, path, query, &records); err != nil {
		return nil, err
	}

	return records, nil
}

// weakDecode decodes loosely typed backend output (numbers as strings, IDs as numbers, related entities as objects)
// into a typed struct or slice of structs.
func weakDecode(input interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       flattenNamedObjectHook,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return errors.Wrap(err, "no se pudo preparar el decodificador")
	}

	if err := decoder.Decode(input); err != nil {
		return &ErrorCorruptedBackendResult{errMsg: fmt.Sprintf("respuesta no válida: %v", err)}
	}

	return nil
}

// flattenNamedObjectHook turns a related entity such as {"id": 3, "nombre": "Laptops"} into its name when the
// target field is a string.
func flattenNamedObjectHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to.Kind() != reflect.String || from.Kind() != reflect.Map {
		return data, nil
	}

	m, ok := data.(map[string]interface{})
	if !ok {
		return data, nil
	}

	rec := common.Record(m)
	for _, key := range []string{"nombre", "name", "codigo"} {
		if s := rec.String(key); s != "" {
			return s, nil
		}
	}

	return rec.ID().String(), nil
}
