package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/internal/service"
	"github.com/prismaasset360/web/pkg/errorcode"
)

// CompanyProfileResource describes the profile page of the user's own company.
var CompanyProfileResource = &Resource{
	BasePath:    "/mi-empresa",
	BackendPath: "/empresas",
	Title:       "Mi empresa",
	Singular:    "empresa",
	Columns: []Column{
		{Label: "Nombre", Path: "nombre"},
		{Label: "Identificación fiscal", Path: "identificacionFiscal"},
		{Label: "Correo", Path: "email"},
		{Label: "Teléfono", Path: "telefono"},
		{Label: "Dirección", Path: "direccion"},
		{Label: "Alta", Path: "fechaCreacion", Format: FormatDate},
	},
	Fields: []Field{
		{Name: "nombre", Label: "Nombre", Required: true},
		{Name: "email", Label: "Correo electrónico", Kind: FieldEmail, Required: true},
		{Name: "telefono", Label: "Teléfono"},
		{Name: "direccion", Label: "Dirección"},
	},
	NoCreate: true,
	NoDelete: true,
}

// A CompanyProfileController serves the company profile pages of the company administrator. It also implements the
// interface `Controller`.
type CompanyProfileController struct {
	*BaseController
	Svc service.ResourceServiceInterface
}

// GetGroupName returns the group name.
func (cc *CompanyProfileController) GetGroupName() string {
	return CompanyProfileResource.BasePath
}

// GetEndpointMap implements part of the interface `Controller`. It returns the endpoints and handlers which are defined and managed by CompanyProfileController.
func (cc *CompanyProfileController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"", "GET"}:        []gin.HandlerFunc{cc.handleProfile},
		urlMethodPair{"/editar", "GET"}: []gin.HandlerFunc{cc.handleEdit},
		urlMethodPair{"", "POST"}:       []gin.HandlerFunc{cc.handleUpdate},
	}
}

func (cc *CompanyProfileController) companyID(c *gin.Context) (common.ID, bool) {
	id := currentUser(c).EmpresaID
	if id == "" {
		cc.renderError(c, errorcode.ErrorNotFound)
		return "", false
	}

	return id, true
}

func (cc *CompanyProfileController) handleProfile(c *gin.Context) {
	id, ok := cc.companyID(c)
	if !ok {
		return
	}

	rec, err := cc.Svc.Get(c.Request.Context(), id)
	if err != nil {
		cc.renderError(c, err)
		return
	}

	view := &DetailView{
		Resource: CompanyProfileResource,
		ID:       id.String(),
		Heading:  CompanyProfileResource.Heading(rec),
		CanEdit:  true,
		EditURL:  CompanyProfileResource.BasePath + "/editar",
	}
	for _, col := range CompanyProfileResource.detailColumns() {
		view.Fields = append(view.Fields, DetailField{Label: col.Label, Value: col.Render(rec)})
	}

	cc.render(c, http.StatusOK, "detail", CompanyProfileResource.Title, view)
}

func (cc *CompanyProfileController) handleEdit(c *gin.Context) {
	id, ok := cc.companyID(c)
	if !ok {
		return
	}

	rec, err := cc.Svc.Get(c.Request.Context(), id)
	if err != nil {
		cc.renderError(c, err)
		return
	}

	fields := visibleFields(CompanyProfileResource.Fields, currentUser(c).Rol, false)
	cc.render(c, http.StatusOK, "form", "Editar empresa", cc.formView(formFieldsFromRecord(fields, rec, nil)))
}

func (cc *CompanyProfileController) handleUpdate(c *gin.Context) {
	id, ok := cc.companyID(c)
	if !ok {
		return
	}

	fields := visibleFields(CompanyProfileResource.Fields, currentUser(c).Rol, false)
	rec, formFields, pel := bindForm(c, fields, nil, true)
	if len(pel) > 0 {
		cc.renderWithErrors(c, "form", "Editar empresa", cc.formView(formFields), pel)
		return
	}

	if _, err := cc.Svc.Update(c.Request.Context(), id, rec); err != nil {
		cc.fail(c, err, CompanyProfileResource.BasePath+"/editar")
		return
	}

	cc.succeed(c, "Datos de la empresa actualizados", CompanyProfileResource.BasePath)
}

func (cc *CompanyProfileController) formView(fields []FormField) *FormView {
	return &FormView{
		Resource:  CompanyProfileResource,
		Heading:   "Editar empresa",
		ActionURL: CompanyProfileResource.BasePath,
		CancelURL: CompanyProfileResource.BasePath,
		Fields:    fields,
	}
}
