package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/apiclient"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/internal/session"
	"github.com/prismaasset360/web/pkg/errorcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeBackend answers "METHOD /path" with canned responses and records the calls it gets.
type fakeBackend struct {
	mu         sync.Mutex
	routes     map[string]http.HandlerFunc
	calls      []string
	bodies     map[string]string
	requestIDs []string
}

func newFakeBackend(t *testing.T) (*fakeBackend, string) {
	fb := &fakeBackend{
		routes: make(map[string]http.HandlerFunc),
		bodies: make(map[string]string),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		body, _ := io.ReadAll(r.Body)

		fb.mu.Lock()
		fb.calls = append(fb.calls, key+"?"+r.URL.RawQuery)
		fb.bodies[key] = string(body)
		fb.requestIDs = append(fb.requestIDs, r.Header.Get(RequestIDHeader))
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

	return fb, server.URL
}

func (fb *fakeBackend) handle(key string, handler http.HandlerFunc) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.routes[key] = handler
}

func (fb *fakeBackend) json(key string, status int, body string) {
	fb.handle(key, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
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
		if strings.HasPrefix(c, prefix) {
			ret = append(ret, c)
		}
	}
	return ret
}

type testApp struct {
	backend *fakeBackend
	store   *session.MemoryStore
	router  *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	fb, backendURL := newFakeBackend(t)
	store := session.NewMemoryStore()

	renderer, err := NewRenderer()
	require.NoError(t, err)

	router, err := NewRouter(&RouterConfig{
		Client:                   apiclient.NewClient(backendURL, 5*time.Second),
		Sessions:                 session.NewManager(store, "sid", time.Hour, false),
		HTMLRender:               renderer,
		NotificationPollInterval: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	return &testApp{backend: fb, store: store, router: router}
}

// login stores a live session for a user with the role and returns its cookie.
func (app *testApp) login(t *testing.T, role common.Role) *http.Cookie {
	id := "sess-" + strings.ToLower(string(role))
	require.NoError(t, app.store.Save(&session.Data{
		ID:           id,
		AccessToken:  "a1",
		RefreshToken: "r1",
		User:         &common.Usuario{ID: "1", Nombre: "Ana", Email: "ana@x.co", Rol: role, EmpresaID: "3"},
		ExpiresAt:    time.Now().Add(time.Hour),
	}))

	return &http.Cookie{Name: "sid", Value: id}
}

func (app *testApp) do(method string, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func TestRendererLoadsEveryPage(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	for _, name := range []string{"login", "password", "dashboard", "my_assets", "list", "detail", "form", "reports", "notifications", "admin_dashboard", "error"} {
		assert.True(t, renderer.Has(name), name)
	}
	assert.False(t, renderer.Has("layout"))
}

func TestLoginPage(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/login?next=%2Factivos", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="next" value="/activos"`)
	assert.NotContains(t, w.Body.String(), "Cerrar sesión")
}

func TestLoginCreatesSessionAndRedirects(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("POST /auth/login", http.StatusOK, `{"accessToken":"a1","refreshToken":"r1","user":{"id":1,"nombre":"Ana","email":"ana@x.co","rol":"GESTOR_ACTIVOS","empresaId":3}}`)

	w := app.do(http.MethodPost, "/login", url.Values{"email": {"ana@x.co"}, "password": {"secreto"}, "next": {"/activos"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/activos", w.Header().Get("Location"))

	var sid string
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "sid" {
			sid = cookie.Value
		}
	}
	require.NotEmpty(t, sid)

	data, err := app.store.Get(sid)
	require.NoError(t, err)
	assert.Equal(t, "a1", data.AccessToken)
	assert.Equal(t, common.RoleAssetManager, data.User.Rol)
}

func TestLoginIgnoresForeignNext(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("POST /auth/login", http.StatusOK, `{"accessToken":"a1","refreshToken":"r1","user":{"id":1,"email":"root@x.co","rol":"SUPER_ADMIN"}}`)

	w := app.do(http.MethodPost, "/login", url.Values{"email": {"root@x.co"}, "password": {"secreto"}, "next": {"//evil.example"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
}

func TestLoginRejected(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("POST /auth/login", http.StatusUnauthorized, `{"message":"Credenciales inválidas"}`)

	w := app.do(http.MethodPost, "/login", url.Values{"email": {"ana@x.co"}, "password": {"mala"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Credenciales inválidas")
	assert.Len(t, app.backend.called("POST /auth/refresh"), 0)
}

func TestLoginValidatesFormBeforeCallingBackend(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/login", url.Values{"email": {"no-es-correo"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "debe ser un correo electrónico")
	assert.Contains(t, w.Body.String(), "es obligatorio")
	assert.Len(t, app.backend.called("POST /auth/login"), 0)
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("POST /auth/logout", http.StatusOK, `{}`)
	cookie := app.login(t, common.RoleEmployee)

	w := app.do(http.MethodPost, "/logout", url.Values{}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Contains(t, app.backend.body("POST /auth/logout"), `"refreshToken":"r1"`)

	_, err := app.store.Get(cookie.Value)
	assert.Equal(t, errorcode.ErrorNotFound, errors.Cause(err))
}

func TestGuardsRedirect(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/activos", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Factivos", w.Header().Get("Location"))

	w = app.do(http.MethodGet, "/activos", nil, app.login(t, common.RoleEmployee))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = app.do(http.MethodGet, "/activos", nil, app.login(t, common.RoleSuperAdmin))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))

	w = app.do(http.MethodGet, "/admin/empresas", nil, app.login(t, common.RoleCompanyAdmin))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	// Technicians see assets but may not return assignments.
	w = app.do(http.MethodPost, "/asignaciones/7/devolver", url.Values{}, app.login(t, common.RoleTechnician))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Len(t, app.backend.called("PATCH"), 0)
}

func TestHomeRedirectsByRole(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/", nil)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = app.do(http.MethodGet, "/", nil, app.login(t, common.RoleTechnician))
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestListFiltersRows(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /activos", http.StatusOK, `{"data":[
		{"id":1,"codigo":"A-1","nombre":"Laptop Dell","categoria":{"id":2,"nombre":"Cómputo"},"valorCompra":1500},
		{"id":2,"codigo":"A-2","nombre":"Silla ergonómica","estado":"DISPONIBLE"}
	]}`)

	w := app.do(http.MethodGet, "/activos?q=laptop", nil, app.login(t, common.RoleAssetManager))
	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Laptop Dell")
	assert.Contains(t, body, "Cómputo")
	assert.Contains(t, body, `href="/activos/1"`)
	assert.NotContains(t, body, "Silla ergonómica")
	assert.Contains(t, body, "1 de 2 registro(s)")
	assert.Contains(t, body, `href="/activos/nuevo"`)
}

func TestEmptyList(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /sedes", http.StatusOK, `[]`)

	w := app.do(http.MethodGet, "/sedes", nil, app.login(t, common.RoleCompanyAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/sedes/nuevo"`)
	assert.Contains(t, w.Body.String(), "No hay registros.")
}

func TestDetailShowsRelatedListsAndQRCode(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /activos/1", http.StatusOK, `{"id":1,"codigo":"A-1","nombre":"Laptop Dell","fechaCompra":"2024-01-15T00:00:00Z"}`)
	app.backend.json("GET /asignaciones", http.StatusOK, `[{"id":7,"activo":{"id":1,"nombre":"Laptop Dell"},"empleado":{"id":4,"nombre":"Luis"},"fechaAsignacion":"2024-02-01"}]`)
	app.backend.json("GET /mantenimientos", http.StatusForbidden, `{"message":"prohibido"}`)

	w := app.do(http.MethodGet, "/activos/1", nil, app.login(t, common.RoleAssetManager))
	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "15/01/2024")
	assert.Contains(t, body, "Historial de asignaciones")
	assert.Contains(t, body, `href="/asignaciones/7"`)
	assert.Contains(t, body, "Sin registros.")
	assert.Contains(t, body, `src="/activos/1/qr"`)
	assert.Contains(t, body, `href="/activos/1/editar"`)
	assert.Equal(t, []string{"GET /asignaciones?activoId=1"}, app.backend.called("GET /asignaciones"))
}

func TestDetailNotFound(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/activos/99", nil, app.login(t, common.RoleAssetManager))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no existe")
}

func TestCreateRejectsInvalidForm(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/categorias", "/sedes", "/areas", "/proveedores"} {
		app.backend.json("GET "+path, http.StatusOK, `[]`)
	}

	w := app.do(http.MethodPost, "/activos", url.Values{"codigo": {"A-9"}, "valorCompra": {"mucho"}}, app.login(t, common.RoleAssetManager))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "«Nombre» es obligatorio")
	assert.Contains(t, body, "«Valor de compra» debe ser un número")
	assert.Contains(t, body, `value="A-9"`)
	assert.Len(t, app.backend.called("POST /activos"), 0)
}

func TestCreateSendsRecordAndRedirectsToDetail(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /categorias", http.StatusOK, `[{"id":2,"nombre":"Cómputo"}]`)
	for _, path := range []string{"/sedes", "/areas", "/proveedores"} {
		app.backend.json("GET "+path, http.StatusOK, `[]`)
	}
	app.backend.json("POST /activos", http.StatusCreated, `{"id":9,"codigo":"A-9"}`)

	form := url.Values{
		"codigo":      {"A-9"},
		"nombre":      {"Monitor"},
		"categoriaId": {"2"},
		"fechaCompra": {"2024-03-01"},
		"valorCompra": {"250,5"},
	}
	w := app.do(http.MethodPost, "/activos", form, app.login(t, common.RoleAssetManager))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/activos/9", w.Header().Get("Location"))

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(app.backend.body("POST /activos")), &sent))
	assert.Equal(t, "A-9", sent["codigo"])
	assert.Equal(t, float64(2), sent["categoriaId"])
	assert.Equal(t, 250.5, sent["valorCompra"])
	assert.NotContains(t, sent, "sedeId")
}

func TestCreateSkipsFieldsHiddenFromRole(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /categorias", http.StatusOK, `[{"id":2,"nombre":"Cómputo"}]`)
	for _, path := range []string{"/sedes", "/areas", "/proveedores"} {
		app.backend.json("GET "+path, http.StatusOK, `[]`)
	}
	app.backend.json("POST /activos", http.StatusCreated, `{"id":9}`)

	form := url.Values{
		"codigo":      {"A-9"},
		"nombre":      {"Monitor"},
		"categoriaId": {"2"},
		"valorCompra": {"999999"},
		"fechaCompra": {"2024-03-01"},
	}
	w := app.do(http.MethodPost, "/activos", form, app.login(t, common.RoleTechnician))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/activos/9", w.Header().Get("Location"))

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(app.backend.body("POST /activos")), &sent))
	assert.Equal(t, "Monitor", sent["nombre"])
	assert.NotContains(t, sent, "valorCompra")
	assert.NotContains(t, sent, "fechaCompra")
	assert.NotContains(t, sent, "descripcion")
	assert.Len(t, app.backend.called("GET /proveedores"), 0)
}

func TestEditPageShowsCurrentValues(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /activos/1", http.StatusOK, `{"id":1,"codigo":"A-1","nombre":"Laptop Dell","descripcion":"14 pulgadas","categoria":{"id":2,"nombre":"Cómputo"},"valorCompra":1500}`)
	app.backend.json("GET /categorias", http.StatusOK, `[{"id":2,"nombre":"Cómputo"},{"id":3,"nombre":"Mobiliario"}]`)
	for _, path := range []string{"/sedes", "/areas", "/proveedores"} {
		app.backend.json("GET "+path, http.StatusOK, `[]`)
	}

	w := app.do(http.MethodGet, "/activos/1/editar", nil, app.login(t, common.RoleAssetManager))
	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `action="/activos/1"`)
	assert.Contains(t, body, `value="A-1"`)
	assert.Contains(t, body, "14 pulgadas</textarea>")
	assert.Contains(t, body, `<option value="2" selected>Cómputo</option>`)
	assert.Contains(t, body, `<option value="3">Mobiliario</option>`)
	assert.Contains(t, body, `name="valorCompra"`)

	// Technicians edit the same asset without the purchase data.
	w = app.do(http.MethodGet, "/activos/1/editar", nil, app.login(t, common.RoleTechnician))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `name="valorCompra"`)
}

func TestUpdateSendsPatchWithClearedFields(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /categorias", http.StatusOK, `[{"id":2,"nombre":"Cómputo"}]`)
	for _, path := range []string{"/sedes", "/areas", "/proveedores"} {
		app.backend.json("GET "+path, http.StatusOK, `[]`)
	}
	app.backend.json("PATCH /activos/1", http.StatusOK, `{"id":1}`)

	form := url.Values{
		"codigo":        {"A-1"},
		"nombre":        {"Laptop Dell XPS"},
		"descripcion":   {""},
		"categoriaId":   {"2"},
		"sedeId":        {""},
		"fechaCompra":   {"2024-01-15"},
		"valorCompra":   {"1500"},
		"valorResidual": {""},
	}
	w := app.do(http.MethodPost, "/activos/1", form, app.login(t, common.RoleAssetManager))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/activos/1", w.Header().Get("Location"))
	assert.Len(t, app.backend.called("POST /activos"), 0)

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(app.backend.body("PATCH /activos/1")), &sent))
	assert.Equal(t, "Laptop Dell XPS", sent["nombre"])
	assert.Equal(t, float64(2), sent["categoriaId"])
	assert.Equal(t, float64(1500), sent["valorCompra"])

	require.Contains(t, sent, "descripcion")
	assert.Equal(t, "", sent["descripcion"])
	require.Contains(t, sent, "sedeId")
	assert.Nil(t, sent["sedeId"])
	require.Contains(t, sent, "valorResidual")
	assert.Nil(t, sent["valorResidual"])
}

func TestDeleteRedirectsToList(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("DELETE /activos/1", http.StatusOK, `{}`)

	w := app.do(http.MethodPost, "/activos/1/eliminar", url.Values{}, app.login(t, common.RoleAssetManager))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/activos", w.Header().Get("Location"))
	assert.Len(t, app.backend.called("DELETE /activos/1"), 1)

	// Employees never reach the backend.
	w = app.do(http.MethodPost, "/activos/1/eliminar", url.Values{}, app.login(t, common.RoleEmployee))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Len(t, app.backend.called("DELETE /activos/1"), 1)
}

func TestChangePassword(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("POST /auth/change-password", http.StatusOK, `{}`)
	cookie := app.login(t, common.RoleAssetManager)

	w := app.do(http.MethodGet, "/perfil/password", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="currentPassword"`)

	w = app.do(http.MethodPost, "/perfil/password", url.Values{
		"currentPassword": {"anterior"},
		"newPassword":     {"nueva-clave"},
		"confirmation":    {"otra-clave"},
	}, cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Las contraseñas no coinciden.")
	assert.Len(t, app.backend.called("POST /auth/change-password"), 0)

	w = app.do(http.MethodPost, "/perfil/password", url.Values{
		"currentPassword": {"anterior"},
		"newPassword":     {"nueva-clave"},
		"confirmation":    {"nueva-clave"},
	}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.JSONEq(t, `{"currentPassword":"anterior","newPassword":"nueva-clave"}`, app.backend.body("POST /auth/change-password"))
}

func TestChangePasswordRejectedByBackend(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("POST /auth/change-password", http.StatusBadRequest, `{"message":"La contraseña actual no es correcta"}`)

	w := app.do(http.MethodPost, "/perfil/password", url.Values{
		"currentPassword": {"mala"},
		"newPassword":     {"nueva-clave"},
		"confirmation":    {"nueva-clave"},
	}, app.login(t, common.RoleEmployee))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "La contraseña actual no es correcta")
}

func TestCreateShowsBackendValidationMessage(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("POST /sedes", http.StatusConflict, `{"message":"Ya existe una sede con ese nombre"}`)

	w := app.do(http.MethodPost, "/sedes", url.Values{"nombre": {"Norte"}, "direccion": {"Calle 1"}}, app.login(t, common.RoleCompanyAdmin))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Ya existe una sede con ese nombre")
}

func TestActionIsForwardedToBackend(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /asignaciones/7", http.StatusOK, `{"id":7,"fechaDevolucion":null}`)
	app.backend.json("PATCH /asignaciones/7/devolver", http.StatusOK, `{"id":7}`)

	w := app.do(http.MethodPost, "/asignaciones/7/devolver", url.Values{"observaciones": {"Sin daños"}}, app.login(t, common.RoleAssetManager))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/asignaciones/7", w.Header().Get("Location"))
	assert.Contains(t, app.backend.body("PATCH /asignaciones/7/devolver"), `"observaciones":"Sin daños"`)
}

func TestFailedActionBecomesToast(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /solicitudes/5", http.StatusOK, `{"id":5,"estado":"PENDIENTE"}`)
	app.backend.json("PATCH /solicitudes/5/rechazar", http.StatusBadRequest, `{"message":"La solicitud ya fue resuelta"}`)
	cookie := app.login(t, common.RoleAssetManager)

	w := app.do(http.MethodPost, "/solicitudes/5/rechazar", url.Values{"comentario": {"No procede"}}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/solicitudes/5", w.Header().Get("Location"))

	var flash *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name != "sid" {
			flash = c
		}
	}
	require.NotNil(t, flash)

	app.backend.json("GET /solicitudes/5", http.StatusOK, `{"id":5,"estado":"RECHAZADA"}`)
	w = app.do(http.MethodGet, "/solicitudes/5", nil, cookie, flash)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "La solicitud ya fue resuelta")
}

func TestActionRefusedWhenRecordDoesNotAllowIt(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /solicitudes/5", http.StatusOK, `{"id":5,"estado":"APROBADA"}`)
	app.backend.json("PATCH /solicitudes/5/aprobar", http.StatusOK, `{"id":5}`)
	cookie := app.login(t, common.RoleAssetManager)

	w := app.do(http.MethodPost, "/solicitudes/5/aprobar", url.Values{}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/solicitudes/5", w.Header().Get("Location"))
	assert.Len(t, app.backend.called("PATCH"), 0)

	var flash *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name != "sid" {
			flash = c
		}
	}
	require.NotNil(t, flash)

	w = app.do(http.MethodGet, "/solicitudes/5", nil, cookie, flash)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "La acción no está disponible para este registro.")
}

func TestExpiredSessionSendsToLogin(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /activos", http.StatusUnauthorized, `{"message":"token expirado"}`)
	app.backend.json("POST /auth/refresh", http.StatusUnauthorized, `{"message":"refresh expirado"}`)
	cookie := app.login(t, common.RoleAssetManager)

	w := app.do(http.MethodGet, "/activos", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	_, err := app.store.Get(cookie.Value)
	assert.Equal(t, errorcode.ErrorNotFound, errors.Cause(err))
}

func TestRefreshedTokensAreKeptInSession(t *testing.T) {
	app := newTestApp(t)
	app.backend.handle("GET /activos", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer a2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	app.backend.json("POST /auth/refresh", http.StatusOK, `{"accessToken":"a2","refreshToken":"r2"}`)
	cookie := app.login(t, common.RoleAssetManager)

	w := app.do(http.MethodGet, "/activos", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, app.backend.body("POST /auth/refresh"), `"refreshToken":"r1"`)

	data, err := app.store.Get(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "a2", data.AccessToken)
	assert.Equal(t, "r2", data.RefreshToken)
}

func TestRequestIDIsForwarded(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /sedes", http.StatusOK, `[]`)

	req := httptest.NewRequest(http.MethodGet, "/sedes", nil)
	req.AddCookie(app.login(t, common.RoleCompanyAdmin))
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	app.backend.mu.Lock()
	defer app.backend.mu.Unlock()
	assert.Equal(t, []string{"req-42"}, app.backend.requestIDs)
}

func TestDashboardByRole(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /reportes/resumen", http.StatusOK, `{"totalActivos":12,"activosAsignados":5,"valorTotal":1000}`)
	app.backend.json("GET /mantenimientos-programados", http.StatusOK, `[{"id":3,"activo":{"id":1,"nombre":"Compresor"},"tipo":"PREVENTIVO","fechaProgramada":"2024-05-02"}]`)
	app.backend.json("GET /notificaciones", http.StatusOK, `[{"id":1,"titulo":"Mantenimiento próximo","mensaje":"Compresor","leida":false}]`)

	w := app.do(http.MethodGet, "/dashboard", nil, app.login(t, common.RoleAssetManager))
	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "<strong>12</strong>")
	assert.Contains(t, body, "Compresor")
	assert.Contains(t, body, "02/05/2024")
	assert.Contains(t, body, "Mantenimiento próximo")
	assert.Contains(t, body, `href="/activos"`)
}

func TestMyAssets(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /asignaciones/mis-asignaciones", http.StatusOK, `[{"id":7,"activo":{"id":1,"codigo":"A-1","nombre":"Laptop Dell"},"fechaAsignacion":"2024-02-01"}]`)

	w := app.do(http.MethodGet, "/mis-activos", nil, app.login(t, common.RoleEmployee))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Laptop Dell")
	assert.Contains(t, w.Body.String(), "01/02/2024")

	w = app.do(http.MethodGet, "/mis-activos", nil, app.login(t, common.RoleTechnician))
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestQRCode(t *testing.T) {
	app := newTestApp(t)
	app.backend.handle("GET /activos/1/qr", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG"))
	})
	cookie := app.login(t, common.RoleTechnician)

	w := app.do(http.MethodGet, "/activos/1/qr", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", w.Body.String())

	w = app.do(http.MethodGet, "/activos/2/qr", nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportPage(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /categorias", http.StatusOK, `[{"id":2,"nombre":"Cómputo"}]`)
	app.backend.json("GET /reportes/depreciacion", http.StatusOK, `[{"codigo":"A-1","nombre":"Laptop","valorCompra":1000,"valorLibros":800,"depreciacionAcumulada":200}]`)

	w := app.do(http.MethodGet, "/reportes/depreciacion?categoriaId=2&otro=x", nil, app.login(t, common.RoleAssetManager))
	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Laptop")
	assert.Contains(t, body, `<option value="2" selected>Cómputo</option>`)
	assert.Contains(t, body, "formato=csv")
	assert.Equal(t, []string{"GET /reportes/depreciacion?categoriaId=2"}, app.backend.called("GET /reportes/depreciacion"))
}

func TestReportCSVExport(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /reportes/inventario", http.StatusOK, `[{"grupo":"Norte","cantidad":3,"asignados":1,"disponibles":2,"valorTotal":1234.5}]`)

	w := app.do(http.MethodGet, "/reportes/inventario?agruparPor=SEDE&formato=csv", nil, app.login(t, common.RoleAssetManager))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "inventario-")

	body := strings.TrimPrefix(w.Body.String(), "\xEF\xBB\xBF")
	assert.Equal(t, "Grupo,Cantidad,Asignados,Disponibles,Valor total\nNorte,3,1,2,1234.50\n", body)
	assert.Equal(t, []string{"GET /reportes/inventario?agruparPor=SEDE"}, app.backend.called("GET /reportes/inventario"))
}

func TestNotifications(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /notificaciones", http.StatusOK, `[
		{"id":1,"titulo":"Solicitud aprobada","mensaje":"Tu solicitud fue aprobada","leida":false,"enlace":"/solicitudes/4"},
		{"id":2,"titulo":"Mantenimiento","mensaje":"Compresor","leida":true}
	]`)
	app.backend.json("PATCH /notificaciones/1/leida", http.StatusOK, `{}`)
	app.backend.json("PATCH /notificaciones/leer-todas", http.StatusOK, `{}`)
	cookie := app.login(t, common.RoleEmployee)

	w := app.do(http.MethodGet, "/notificaciones?q=aprobada", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Solicitud aprobada")
	assert.NotContains(t, w.Body.String(), "Compresor")
	assert.Contains(t, w.Body.String(), "Marcar todas como leídas (1)")

	w = app.do(http.MethodPost, "/notificaciones/1/leida", url.Values{"next": {"/solicitudes/4"}}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/solicitudes/4", w.Header().Get("Location"))

	w = app.do(http.MethodPost, "/notificaciones/leer-todas", url.Values{}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/notificaciones", w.Header().Get("Location"))
	assert.Len(t, app.backend.called("PATCH /notificaciones/leer-todas"), 1)
}

func TestUnreadCountJSON(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /notificaciones/no-leidas/count", http.StatusOK, `{"count":4}`)
	cookie := app.login(t, common.RoleEmployee)

	w := app.do(http.MethodGet, "/notificaciones/no-leidas", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":4}`, w.Body.String())

	app.backend.json("GET /notificaciones/no-leidas/count", http.StatusInternalServerError, `{}`)
	w = app.do(http.MethodGet, "/notificaciones/no-leidas", nil, cookie)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"msg"`)
}

func TestNotificationSocketPushesUnreadCount(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /notificaciones/no-leidas/count", http.StatusOK, `3`)
	cookie := app.login(t, common.RoleEmployee)

	server := httptest.NewServer(app.router)
	defer server.Close()

	header := http.Header{}
	header.Set("Cookie", cookie.String())
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws/notificaciones", header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg struct {
		Type string `json:"type"`
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, WSMessageUnread, msg.Type)
	assert.Equal(t, 3, msg.Data.Count)
}

func TestCheckOrigin(t *testing.T) {
	check := checkOrigin([]string{"https://app.example.com/"})

	req := httptest.NewRequest(http.MethodGet, "http://prisma.local/ws/notificaciones", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://prisma.local")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://app.example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))
}

func TestCompanyProfile(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /empresas/3", http.StatusOK, `{"id":3,"nombre":"Acme SA","email":"info@acme.co"}`)
	app.backend.json("PATCH /empresas/3", http.StatusOK, `{"id":3}`)
	cookie := app.login(t, common.RoleCompanyAdmin)

	w := app.do(http.MethodGet, "/mi-empresa", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Acme SA")
	assert.Contains(t, w.Body.String(), `href="/mi-empresa/editar"`)

	w = app.do(http.MethodPost, "/mi-empresa", url.Values{"nombre": {"Acme SAS"}, "email": {"info@acme.co"}}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/mi-empresa", w.Header().Get("Location"))
	assert.Contains(t, app.backend.body("PATCH /empresas/3"), `"nombre":"Acme SAS"`)

	w = app.do(http.MethodGet, "/mi-empresa", nil, app.login(t, common.RoleAssetManager))
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestAdminDashboard(t *testing.T) {
	app := newTestApp(t)
	app.backend.json("GET /admin-sistema/estadisticas", http.StatusOK, `{"totalEmpresas":2,"empresasActivas":1,"totalUsuarios":9,"totalActivos":40}`)
	app.backend.json("GET /admin-sistema/empresas", http.StatusOK, `[{"id":3,"nombre":"Acme SA","activa":true}]`)

	w := app.do(http.MethodGet, "/admin", nil, app.login(t, common.RoleSuperAdmin))
	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "<strong>40</strong>")
	assert.Contains(t, body, "Acme SA")
	assert.Contains(t, body, `href="/admin/empresas/3"`)
	assert.NotContains(t, body, "unread-badge")
}

func TestUnknownPage(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/no-existe", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "El recurso solicitado no existe.")
}

func TestPing(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w = app.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestSafeRedirect(t *testing.T) {
	assert.Equal(t, "/activos/1", safeRedirect("/activos/1"))
	assert.Equal(t, "", safeRedirect("https://evil.example"))
	assert.Equal(t, "", safeRedirect("//evil.example"))
	assert.Equal(t, "", safeRedirect("/\\evil.example"))
	assert.Equal(t, "", safeRedirect("/login?next=%2F"))
}

func TestParameterErrorList(t *testing.T) {
	pel := ParameterErrorList{}

	assert.Equal(t, "abc", pel.AppendIfEmptyOrBlankSpaces("  abc ", "vacío"))
	assert.Equal(t, 1500.5, pel.AppendIfNotNumber("1500,5", "número"))
	assert.Equal(t, 36, pel.AppendIfNotPositiveInt("36", "entero"))
	assert.Equal(t, "2024-02-29", pel.AppendIfNotDate("2024-02-29", "fecha"))
	assert.Equal(t, "ana@x.co", pel.AppendIfNotEmail("ana@x.co", "correo"))
	assert.Empty(t, pel)

	pel.AppendIfEmptyOrBlankSpaces("   ", "vacío")
	pel.AppendIfNotNumber("mil", "número")
	pel.AppendIfNotPositiveInt("-3", "entero")
	pel.AppendIfNotPositiveInt("2.5", "entero")
	pel.AppendIfNotDate("29/02/2024", "fecha")
	pel.AppendIfNotEmail("Ana <ana@x.co>", "correo")
	assert.Equal(t, ParameterErrorList{"vacío", "número", "entero", "entero", "fecha", "correo"}, pel)
}
