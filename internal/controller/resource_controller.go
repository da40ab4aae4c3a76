package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/apiclient"
	"github.com/prismaasset360/web/internal/auth"
	"github.com/prismaasset360/web/internal/filter"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/internal/service"
	"github.com/prismaasset360/web/internal/session"
	"github.com/prismaasset360/web/pkg/errorcode"
)

// ListView is the content of a list page.
type ListView struct {
	Resource  *Resource
	Rows      []common.Record
	Total     int
	Query     string
	CanCreate bool
}

// DetailField is a labelled value of a detail page.
type DetailField struct {
	Label string
	Value string
}

// RelatedView is a related list of a detail page.
type RelatedView struct {
	*Related
	Rows []common.Record
}

// ActionView is an action offered on a detail page.
type ActionView struct {
	*Action
	URL    string
	Fields []FormField
}

// DetailView is the content of a detail page.
type DetailView struct {
	Resource  *Resource
	ID        string
	Heading   string
	Fields    []DetailField
	Related   []RelatedView
	Actions   []ActionView
	CanEdit   bool
	CanDelete bool
	EditURL   string
	DeleteURL string
	QRURL     string
}

// FormView is the content of a create or edit page.
type FormView struct {
	Resource  *Resource
	Heading   string
	ActionURL string
	CancelURL string
	Fields    []FormField
	IsNew     bool
}

// A ResourceController serves the list, detail, create, edit and delete pages of a resource, plus its actions.
// It also implements the interface `Controller`.
type ResourceController struct {
	*BaseController
	Resource  *Resource
	Svc       service.ResourceServiceInterface
	LookupSvc *service.LookupService
	DetailSvc *service.DetailService
}

// GetGroupName returns the group name.
func (rc *ResourceController) GetGroupName() string {
	return rc.Resource.BasePath
}

// GetEndpointMap implements part of the interface `Controller`. It returns the endpoints and handlers which are defined and managed by ResourceController.
func (rc *ResourceController) GetEndpointMap() EndpointMap {
	canEdit := auth.ProtectedRoute(rc.Resource.EditRoles...)

	em := EndpointMap{
		urlMethodPair{"", "GET"}:     []gin.HandlerFunc{rc.handleList},
		urlMethodPair{"/:id", "GET"}: []gin.HandlerFunc{rc.handleDetail},
	}

	if !rc.Resource.NoCreate {
		em[urlMethodPair{"/nuevo", "GET"}] = []gin.HandlerFunc{canEdit, rc.handleNew}
		em[urlMethodPair{"", "POST"}] = []gin.HandlerFunc{canEdit, rc.handleCreate}
	}

	if !rc.Resource.NoEdit {
		em[urlMethodPair{"/:id/editar", "GET"}] = []gin.HandlerFunc{canEdit, rc.handleEdit}
		em[urlMethodPair{"/:id", "POST"}] = []gin.HandlerFunc{canEdit, rc.handleUpdate}
	}

	if !rc.Resource.NoDelete {
		em[urlMethodPair{"/:id/eliminar", "POST"}] = []gin.HandlerFunc{canEdit, rc.handleDelete}
	}

	for i := range rc.Resource.Actions {
		action := &rc.Resource.Actions[i]
		em[urlMethodPair{"/:id/" + action.Name, "POST"}] = []gin.HandlerFunc{
			auth.ProtectedRoute(action.Roles...),
			rc.actionHandler(action),
		}
	}

	return em
}

func (rc *ResourceController) detailURL(id common.ID) string {
	return rc.Resource.BasePath + "/" + id.String()
}

func (rc *ResourceController) handleList(c *gin.Context) {
	records, err := rc.Svc.List(c.Request.Context(), nil)
	if err != nil {
		rc.renderError(c, err)
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	rc.render(c, http.StatusOK, "list", rc.Resource.Title, &ListView{
		Resource:  rc.Resource,
		Rows:      filter.Records(records, query, rc.Resource.SearchKeys),
		Total:     len(records),
		Query:     query,
		CanCreate: rc.Resource.CanCreate(currentUser(c).Rol),
	})
}

func (rc *ResourceController) handleDetail(c *gin.Context) {
	id, ok := rc.extractID(c)
	if !ok {
		return
	}

	detail, err := rc.DetailSvc.Load(c.Request.Context(), rc.Svc, id, rc.Resource.relatedSources())
	if err != nil {
		rc.renderError(c, err)
		return
	}

	role := currentUser(c).Rol
	rec := detail.Record
	view := &DetailView{
		Resource:  rc.Resource,
		ID:        id.String(),
		Heading:   rc.Resource.Heading(rec),
		CanEdit:   rc.Resource.CanEdit(role),
		CanDelete: rc.Resource.CanDelete(role),
		EditURL:   rc.detailURL(id) + "/editar",
		DeleteURL: rc.detailURL(id) + "/eliminar",
	}

	for _, col := range rc.Resource.detailColumns() {
		view.Fields = append(view.Fields, DetailField{Label: col.Label, Value: col.Render(rec)})
	}

	for i := range rc.Resource.Related {
		related := &rc.Resource.Related[i]
		view.Related = append(view.Related, RelatedView{Related: related, Rows: detail.Related[related.Source.Key]})
	}

	for i := range rc.Resource.Actions {
		action := &rc.Resource.Actions[i]
		if !action.AvailableFor(rec, role) {
			continue
		}

		fields := visibleFields(action.Fields, role, true)
		view.Actions = append(view.Actions, ActionView{
			Action: action,
			URL:    rc.detailURL(id) + "/" + action.Name,
			Fields: formFieldsFromRecord(fields, common.Record{}, nil),
		})
	}

	if rc.Resource.QRCode {
		view.QRURL = rc.detailURL(id) + "/qr"
	}

	rc.render(c, http.StatusOK, "detail", view.Heading, view)
}

func (rc *ResourceController) handleNew(c *gin.Context) {
	fields := visibleFields(rc.Resource.Fields, currentUser(c).Rol, true)
	options, err := rc.loadOptions(c, fields)
	if err != nil {
		rc.renderError(c, err)
		return
	}

	rc.render(c, http.StatusOK, "form", "Nuevo registro: "+rc.Resource.Singular, rc.newFormView(formFieldsFromRecord(fields, common.Record{}, options)))
}

func (rc *ResourceController) handleCreate(c *gin.Context) {
	fields := visibleFields(rc.Resource.Fields, currentUser(c).Rol, true)
	options, err := rc.loadOptions(c, fields)
	if err != nil {
		rc.renderError(c, err)
		return
	}

	rec, formFields, pel := bindForm(c, fields, options, false)
	view := rc.newFormView(formFields)
	title := "Nuevo registro: " + rc.Resource.Singular
	if len(pel) > 0 {
		rc.renderWithErrors(c, "form", title, view, pel)
		return
	}

	created, err := rc.Svc.Create(c.Request.Context(), rec)
	if err != nil {
		rc.failForm(c, err, title, view, rc.Resource.BasePath)
		return
	}

	redirectTo := rc.Resource.BasePath
	if id := created.ID(); id != "" {
		redirectTo = rc.detailURL(id)
	}
	rc.succeed(c, "Registro creado correctamente", redirectTo)
}

func (rc *ResourceController) handleEdit(c *gin.Context) {
	id, ok := rc.extractID(c)
	if !ok {
		return
	}

	fields := visibleFields(rc.Resource.Fields, currentUser(c).Rol, false)
	rec, err := rc.Svc.Get(c.Request.Context(), id)
	if err != nil {
		rc.renderError(c, err)
		return
	}

	options, err := rc.loadOptions(c, fields)
	if err != nil {
		rc.renderError(c, err)
		return
	}

	rc.render(c, http.StatusOK, "form", "Editar: "+rc.Resource.Heading(rec), rc.editFormView(id, formFieldsFromRecord(fields, rec, options)))
}

func (rc *ResourceController) handleUpdate(c *gin.Context) {
	id, ok := rc.extractID(c)
	if !ok {
		return
	}

	fields := visibleFields(rc.Resource.Fields, currentUser(c).Rol, false)
	options, err := rc.loadOptions(c, fields)
	if err != nil {
		rc.renderError(c, err)
		return
	}

	rec, formFields, pel := bindForm(c, fields, options, true)
	view := rc.editFormView(id, formFields)
	title := "Editar: " + rc.Resource.Singular
	if len(pel) > 0 {
		rc.renderWithErrors(c, "form", title, view, pel)
		return
	}

	if _, err := rc.Svc.Update(c.Request.Context(), id, rec); err != nil {
		rc.failForm(c, err, title, view, rc.detailURL(id))
		return
	}

	rc.succeed(c, "Cambios guardados", rc.detailURL(id))
}

func (rc *ResourceController) handleDelete(c *gin.Context) {
	id, ok := rc.extractID(c)
	if !ok {
		return
	}

	if err := rc.Svc.Delete(c.Request.Context(), id); err != nil {
		rc.fail(c, err, rc.detailURL(id))
		return
	}

	rc.succeed(c, "Registro eliminado", rc.Resource.BasePath)
}

func (rc *ResourceController) actionHandler(action *Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := rc.extractID(c)
		if !ok {
			return
		}

		if action.When != nil {
			rec, err := rc.Svc.Get(c.Request.Context(), id)
			if err != nil {
				rc.fail(c, err, rc.detailURL(id))
				return
			}
			if !action.When(rec) {
				session.SetFlash(c, session.FlashError, "La acción no está disponible para este registro.")
				c.Redirect(http.StatusSeeOther, rc.detailURL(id))
				return
			}
		}

		fields := visibleFields(action.Fields, currentUser(c).Rol, true)
		body, _, pel := bindForm(c, fields, nil, false)
		if len(pel) > 0 {
			session.SetFlash(c, session.FlashError, strings.Join(pel, " "))
			c.Redirect(http.StatusSeeOther, rc.detailURL(id))
			return
		}

		if _, err := rc.Svc.Action(c.Request.Context(), id, action.Method, action.Name, body); err != nil {
			rc.fail(c, err, rc.detailURL(id))
			return
		}

		rc.succeed(c, action.Success, rc.detailURL(id))
	}
}

// failForm shows a rejected submission. Validation failures of the backend go back to the form with the backend's
// message; anything else is reported as a toast on `redirectTo`.
func (rc *ResourceController) failForm(c *gin.Context, err error, title string, view *FormView, redirectTo string) {
	cause := errors.Cause(err)
	if cause == errorcode.ErrorBadRequest || cause == errorcode.ErrorConflict {
		rc.renderWithErrors(c, "form", title, view, ParameterErrorList{apiclient.UserMessage(err, FallbackErrorMessage)})
		return
	}

	rc.fail(c, err, redirectTo)
}

func (rc *ResourceController) loadOptions(c *gin.Context, fields []*Field) (map[string][]common.Option, error) {
	sources := optionSources(fields)
	if len(sources) == 0 {
		return nil, nil
	}

	return rc.LookupSvc.Options(c.Request.Context(), sources)
}

func (rc *ResourceController) newFormView(formFields []FormField) *FormView {
	return &FormView{
		Resource:  rc.Resource,
		Heading:   "Nuevo registro: " + rc.Resource.Singular,
		ActionURL: rc.Resource.BasePath,
		CancelURL: rc.Resource.BasePath,
		Fields:    formFields,
		IsNew:     true,
	}
}

func (rc *ResourceController) editFormView(id common.ID, formFields []FormField) *FormView {
	return &FormView{
		Resource:  rc.Resource,
		Heading:   "Editar " + rc.Resource.Singular,
		ActionURL: rc.detailURL(id),
		CancelURL: rc.detailURL(id),
		Fields:    formFields,
	}
}

func (rc *ResourceController) extractID(c *gin.Context) (common.ID, bool) {
	pel := &ParameterErrorList{}
	id := pel.AppendIfEmptyOrBlankSpaces(c.Param("id"), "El ID no puede estar vacío.")
	if len(*pel) > 0 {
		rc.render(c, http.StatusBadRequest, "error", "Error", &ErrorView{Status: http.StatusBadRequest, Message: (*pel)[0]})
		return "", false
	}

	return common.ID(id), true
}
