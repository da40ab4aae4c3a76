package controller

import (
	"embed"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/gin-gonic/gin/render"
	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/filter"
	"github.com/prismaasset360/web/internal/models/common"
)

//go:embed templates
var templateFS embed.FS

const (
	layoutTemplate   = "templates/layout.tmpl"
	partialsTemplate = "templates/partials.tmpl"
	pagesGlob        = "templates/pages/*.tmpl"
)

// Renderer renders the pages. Each page is parsed with the layout and the partials into its own template set, so
// every page defines its own "content".
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	pages, err := fs.Glob(templateFS, pagesGlob)
	if err != nil {
		return nil, errors.Wrap(err, "no se pudieron listar las plantillas")
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		name := strings.TrimSuffix(path.Base(page), ".tmpl")
		t, err := template.New(name).Funcs(TemplateFuncs()).ParseFS(templateFS, layoutTemplate, partialsTemplate, page)
		if err != nil {
			return nil, errors.Wrapf(err, "no se pudo cargar la plantilla '%v'", name)
		}
		r.templates[name] = t
	}

	return r, nil
}

// Instance implements render.HTMLRender.
func (r *Renderer) Instance(name string, data interface{}) render.Render {
	t, ok := r.templates[name]
	if !ok {
		return render.String{Format: "plantilla desconocida: %v", Data: []interface{}{name}}
	}

	return render.HTML{Template: t, Name: "layout", Data: data}
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// TemplateFuncs returns the functions available to the templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"currency": filter.FormatCurrency,
		"number":   filter.FormatNumber,
		"date":     filter.FormatDate,
		"datetime": filter.FormatDateTime,
		"display":  filter.Display,
		"recordID": func(rec common.Record) string {
			return rec.ID().String()
		},
		// isActive tells whether the nav item `href` is the current page or one of its subpages.
		"isActive": func(active, href string) bool {
			return active == href || strings.HasPrefix(active, href+"/")
		},
		"roleLabel": roleLabel,
	}
}

func roleLabel(role common.Role) string {
	switch role {
	case common.RoleSuperAdmin:
		return "Administrador del sistema"
	case common.RoleCompanyAdmin:
		return "Administrador de empresa"
	case common.RoleAssetManager:
		return "Gestor de activos"
	case common.RoleTechnician:
		return "Técnico"
	case common.RoleEmployee:
		return "Empleado"
	default:
		return string(role)
	}
}
