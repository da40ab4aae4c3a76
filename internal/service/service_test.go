package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/apiclient"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/pkg/errorcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend answers "METHOD /path" with canned JSON and records the calls it gets.
type fakeBackend struct {
	mu     sync.Mutex
	routes map[string]func(w http.ResponseWriter, r *http.Request)
	calls  []string
	bodies map[string]string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *Info) {
	fb := &fakeBackend{
		routes: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		bodies: make(map[string]string),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		body, _ := io.ReadAll(r.Body)

		fb.mu.Lock()
		fb.calls = append(fb.calls, key+"?"+r.URL.RawQuery)
		fb.bodies[key] = string(body)
		handler, ok := fb.routes[key]
		fb.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"no existe"}`))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return fb, &Info{Client: apiclient.NewClient(server.URL, 5*time.Second)}
}

func (fb *fakeBackend) json(key string, status int, body string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.routes[key] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (fb *fakeBackend) body(key string) string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.bodies[key]
}

func (fb *fakeBackend) called(prefix string) []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	var ret []string
	for _, c := range fb.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			ret = append(ret, c)
		}
	}
	return ret
}

func authedContext() context.Context {
	return apiclient.WithTokens(context.Background(), &StaticTokens{Pair: common.TokenPair{AccessToken: "a", RefreshToken: "r"}})
}

func TestResourceServiceCRUD(t *testing.T) {
	fb, info := newFakeBackend(t)
	fb.json("GET /activos", http.StatusOK, `{"data":[{"id":1,"nombre":"Laptop"},{"id":2,"nombre":"Monitor"}]}`)
	fb.json("GET /activos/1", http.StatusOK, `{"data":{"id":1,"nombre":"Laptop"}}`)
	fb.json("POST /activos", http.StatusCreated, `{"id":3,"nombre":"Silla"}`)
	fb.json("PATCH /activos/3", http.StatusOK, `{"id":3,"nombre":"Silla ergonómica"}`)
	fb.json("DELETE /activos/3", http.StatusNoContent, ``)

	s := NewResourceService(info, "activos/")
	assert.Equal(t, "/activos", s.Prefix())
	ctx := authedContext()

	list, err := s.List(ctx, nil)
	require.NoError(t, err)
	if isLen := assert.Len(t, list, 2); !isLen {
		t.FailNow()
	}
	assert.Equal(t, common.ID("2"), list[1].ID())

	rec, err := s.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Laptop", rec.String("nombre"))

	rec, err = s.Create(ctx, common.Record{"nombre": "Silla"})
	require.NoError(t, err)
	assert.Equal(t, common.ID("3"), rec.ID())
	assert.JSONEq(t, `{"nombre":"Silla"}`, fb.body("POST /activos"))

	rec, err = s.Update(ctx, "3", common.Record{"nombre": "Silla ergonómica"})
	require.NoError(t, err)
	assert.Equal(t, "Silla ergonómica", rec.String("nombre"))

	require.NoError(t, s.Delete(ctx, "3"))

	_, err = s.Get(ctx, "99")
	assert.Equal(t, errorcode.ErrorNotFound, errors.Cause(err))
	assert.Equal(t, "no existe", apiclient.UserMessage(err, ""))

	_, err = s.Get(ctx, "")
	assert.Error(t, err)
}

func TestResourceServiceAction(t *testing.T) {
	fb, info := newFakeBackend(t)
	fb.json("PATCH /asignaciones/4/devolver", http.StatusOK, `{"id":4,"estado":"DEVUELTA"}`)

	s := NewResourceService(info, "/asignaciones")
	rec, err := s.Action(authedContext(), "4", http.MethodPatch, "/devolver/", map[string]string{"observaciones": "ok"})
	require.NoError(t, err)
	assert.Equal(t, "DEVUELTA", rec.String("estado"))
	assert.JSONEq(t, `{"observaciones":"ok"}`, fb.body("PATCH /asignaciones/4/devolver"))
}

func TestAuthServiceLogin(t *testing.T) {
	fb, info := newFakeBackend(t)
	fb.json("POST /auth/login", http.StatusOK, `{"accessToken":"a","refreshToken":"r","user":{"id":7,"email":"ana@x.co","rol":{"nombre":"gestor_activos"}}}`)

	s := &AuthService{ServiceInfo: info}
	result, err := s.Login(context.Background(), " ana@x.co ", "secreto")
	require.NoError(t, err)
	assert.Equal(t, "a", result.AccessToken)
	assert.Equal(t, common.ID("7"), result.User.ID)
	assert.Equal(t, common.RoleAssetManager, result.User.Rol)
	assert.JSONEq(t, `{"email":"ana@x.co","password":"secreto"}`, fb.body("POST /auth/login"))
	assert.Empty(t, fb.called("GET /auth/me"))
}

func TestAuthServiceLoginFetchesProfile(t *testing.T) {
	fb, info := newFakeBackend(t)
	fb.json("POST /auth/login", http.StatusOK, `{"accessToken":"a","refreshToken":"r"}`)
	fb.mu.Lock()
	fb.routes["GET /auth/me"] = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer a", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"u1","email":"ana@x.co","rol":"EMPLEADO"}`))
	}
	fb.mu.Unlock()

	s := &AuthService{ServiceInfo: info}
	result, err := s.Login(context.Background(), "ana@x.co", "secreto")
	require.NoError(t, err)
	assert.Equal(t, common.RoleEmployee, result.User.Rol)
	assert.Equal(t, "r", result.RefreshToken)
}

func TestAuthServiceLoginRejected(t *testing.T) {
	fb, info := newFakeBackend(t)
	fb.json("POST /auth/login", http.StatusUnauthorized, `{"message":"Credenciales inválidas"}`)

	s := &AuthService{ServiceInfo: info}
	_, err := s.Login(context.Background(), "ana@x.co", "mal")
	assert.Equal(t, errorcode.ErrorUnauthorized, errors.Cause(err))
	assert.Equal(t, "Credenciales inválidas", apiclient.UserMessage(err, ""))
	assert.Empty(t, fb.called("POST /auth/refresh"))
}

func TestAuthServiceLogout(t *testing.T) {
	fb, info := newFakeBackend(t)
	s := &AuthService{ServiceInfo: info}

	// Without an endpoint the tokens are left to expire.
	require.NoError(t, s.Logout(authedContext()))

	fb.json("POST /auth/logout", http.StatusOK, `{}`)
	require.NoError(t, s.Logout(authedContext()))
	assert.JSONEq(t, `{"refreshToken":"r"}`, fb.body("POST /auth/logout"))

	// Nothing to revoke without a session.
	require.NoError(t, s.Logout(context.Background()))
}

func TestNotificationService(t *testing.T) {
	fb, info := newFakeBackend(t)
	fb.json("GET /notificaciones", http.StatusOK, `[{"id":1,"titulo":"Mantenimiento","leida":false},{"id":2,"titulo":"Solicitud","leida":true}]`)
	fb.json("PATCH /notificaciones/1/leida", http.StatusOK, `{}`)
	fb.json("PATCH /notificaciones/leer-todas", http.StatusOK, `{}`)

	s := &NotificationService{ServiceInfo: info}
	ctx := authedContext()

	list, err := s.List(ctx)
	require.NoError(t, err)
	if isLen := assert.Len(t, list, 2); !isLen {
		t.FailNow()
	}
	assert.False(t, list[0].Leida)

	require.NoError(t, s.MarkRead(ctx, "1"))
	require.NoError(t, s.MarkAllRead(ctx))
	assert.Len(t, fb.called("PATCH "), 2)
}

func TestNotificationUnreadCount(t *testing.T) {
	for _, body := range []string{`3`, `{"count":3}`, `{"total":"3"}`} {
		fb, info := newFakeBackend(t)
		fb.json("GET /notificaciones/no-leidas/count", http.StatusOK, body)

		count, err := (&NotificationService{ServiceInfo: info}).UnreadCount(authedContext())
		require.NoError(t, err, body)
		assert.Equal(t, 3, count, body)
	}
}

func TestReportServiceDecodesLooseTypes(t *testing.T) {
	fb, info := newFakeBackend(t)
	fb.json("GET /reportes/resumen", http.StatusOK, `{"totalActivos":"12","activosAsignados":5,"valorTotal":"1500.5"}`)
	fb.json("GET /reportes/depreciacion", http.StatusOK, `{"items":[{"activoId":8,"codigo":"A-8","categoria":{"id":1,"nombre":"Laptops"},"valorCompra":1000,"valorLibros":"750.25","vidaUtilRestanteMeses":30}]}`)
	fb.json("GET /reportes/inventario", http.StatusOK, `[]`)

	s := &ReportService{ServiceInfo: info}
	ctx := authedContext()

	summary, err := s.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, summary.TotalActivos)
	assert.Equal(t, 5, summary.ActivosAsignados)
	assert.Equal(t, 1500.5, summary.ValorTotal)

	rows, err := s.Depreciation(ctx, map[string][]string{"categoriaId": {"1"}})
	require.NoError(t, err)
	if isLen := assert.Len(t, rows, 1); !isLen {
		t.FailNow()
	}
	assert.Equal(t, "8", rows[0].ActivoID)
	assert.Equal(t, "Laptops", rows[0].Categoria)
	assert.Equal(t, 750.25, rows[0].ValorLibros)
	assert.Equal(t, 30, rows[0].VidaUtilRestanteMeses)
	assert.Equal(t, []string{"GET /reportes/depreciacion?categoriaId=1"}, fb.called("GET /reportes/depreciacion"))

	inventory, err := s.Inventory(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, inventory)
}

func TestDetailLoadsRelatedListsInParallel(t *testing.T) {
	fb, info := newFakeBackend(t)
	fb.json("GET /activos/8", http.StatusOK, `{"id":8,"nombre":"Laptop"}`)
	fb.json("GET /asignaciones", http.StatusForbidden, `{"message":"prohibido"}`)
	fb.json("GET /mantenimientos", http.StatusOK, `[{"id":1,"tipo":"PREVENTIVO"}]`)
	fb.json("GET /inventario-fisico/8/items", http.StatusOK, `{"data":[{"id":1},{"id":2}]}`)

	s := &DetailService{ServiceInfo: info}
	detail, err := s.Load(authedContext(), NewResourceService(info, "/activos"), "8", []RelatedSource{
		{Key: "asignaciones", Path: "/asignaciones", QueryKey: "activoId"},
		{Key: "mantenimientos", Path: "/mantenimientos", QueryKey: "activoId"},
		{Key: "items", Path: "/inventario-fisico/:id/items"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Laptop", detail.Record.String("nombre"))
	assert.Empty(t, detail.Related["asignaciones"])
	assert.Len(t, detail.Related["mantenimientos"], 1)
	assert.Len(t, detail.Related["items"], 2)
	assert.Equal(t, []string{"GET /mantenimientos?activoId=8"}, fb.called("GET /mantenimientos"))
}

func TestDetailFailsWhenEntityIsMissing(t *testing.T) {
	fb, info := newFakeBackend(t)
	fb.json("GET /asignaciones", http.StatusOK, `[]`)

	_, err := (&DetailService{ServiceInfo: info}).Load(authedContext(), NewResourceService(info, "/activos"), "8",
		[]RelatedSource{{Key: "asignaciones", Path: "/asignaciones", QueryKey: "activoId"}})
	assert.Equal(t, errorcode.ErrorNotFound, errors.Cause(err))
}

func TestAssetQRCode(t *testing.T) {
	fb, info := newFakeBackend(t)
	s := &AssetService{ServiceInfo: info}

	fb.mu.Lock()
	fb.routes["GET /activos/8/qr"] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("PNG"))
	}
	fb.mu.Unlock()

	image, contentType, err := s.QRCode(authedContext(), "8")
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, []byte("PNG"), image)

	// "UE5H" is base64 for "PNG".
	fb.json("GET /activos/8/qr", http.StatusOK, `{"qrCode":"data:image/svg+xml;base64,UE5H"}`)
	image, contentType, err = s.QRCode(authedContext(), "8")
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", contentType)
	assert.Equal(t, []byte("PNG"), image)

	fb.json("GET /activos/8/qr", http.StatusOK, `{"otro":1}`)
	_, _, err = s.QRCode(authedContext(), "8")
	var corrupted *ErrorCorruptedBackendResult
	assert.True(t, errors.As(err, &corrupted))
}

func TestLookupServiceOptions(t *testing.T) {
	fb, info := newFakeBackend(t)
	fb.json("GET /categorias", http.StatusOK, `[{"id":2,"nombre":"sillas"},{"id":1,"nombre":"Laptops"},{"nombre":"sin id"}]`)
	fb.json("GET /empleados", http.StatusOK, `{"data":[{"id":"e1","nombre":"Ana","apellido":"Ruiz"}]}`)
	fb.json("GET /asignaciones/mis-asignaciones", http.StatusOK, `[{"id":50,"activo":{"id":8,"codigo":"A-8","nombre":"Laptop"}}]`)

	s := &LookupService{ServiceInfo: info}
	options, err := s.Options(authedContext(), map[string]OptionSource{
		"categoriaId": {Path: "/categorias"},
		"empleadoId":  {Path: "/empleados", Labels: []string{"nombre", "apellido"}},
		"activoId":    {Path: "/asignaciones/mis-asignaciones", ValuePath: "activo.id", Labels: []string{"activo.codigo", "activo.nombre"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []common.Option{{Value: "1", Label: "Laptops"}, {Value: "2", Label: "sillas"}}, options["categoriaId"])
	assert.Equal(t, []common.Option{{Value: "e1", Label: "Ana - Ruiz"}}, options["empleadoId"])
	assert.Equal(t, []common.Option{{Value: "8", Label: "A-8 - Laptop"}}, options["activoId"])

	_, err = s.Options(authedContext(), map[string]OptionSource{"x": {Path: "/no-existe"}})
	assert.Equal(t, errorcode.ErrorNotFound, errors.Cause(err))
}

func TestDashboardByRole(t *testing.T) {
	fb, info := newFakeBackend(t)
	fb.json("GET /reportes/resumen", http.StatusOK, `{"totalActivos":4}`)
	fb.json("GET /mantenimientos-programados", http.StatusOK, `[{"id":1}]`)
	fb.json("GET /asignaciones/mis-asignaciones", http.StatusOK, `[{"id":9},{"id":10}]`)
	notifications := make([]map[string]interface{}, 8)
	for i := range notifications {
		notifications[i] = map[string]interface{}{"id": i + 1, "titulo": "n"}
	}
	raw, _ := json.Marshal(notifications)
	fb.json("GET /notificaciones", http.StatusOK, string(raw))

	s := &DashboardService{
		ServiceInfo:         info,
		ReportService:       &ReportService{ServiceInfo: info},
		NotificationService: &NotificationService{ServiceInfo: info},
	}

	manager, err := s.Load(authedContext(), common.RoleAssetManager)
	require.NoError(t, err)
	if isNotNil := assert.NotNil(t, manager.Summary); !isNotNil {
		t.FailNow()
	}
	assert.Equal(t, 4, manager.Summary.TotalActivos)
	assert.Len(t, manager.Proximos, 1)
	assert.Nil(t, manager.MisAsignaciones)
	assert.Len(t, manager.Notificaciones, latestNotificationCount)

	employee, err := s.Load(authedContext(), common.RoleEmployee)
	require.NoError(t, err)
	assert.Nil(t, employee.Summary)
	assert.Nil(t, employee.Proximos)
	assert.Len(t, employee.MisAsignaciones, 2)
	assert.Equal(t, []string{"GET /mantenimientos-programados?proximos=true"}, fb.called("GET /mantenimientos-programados"))
}
