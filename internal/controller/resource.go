package controller

import (
	"net/http"

	"github.com/prismaasset360/web/internal/auth"
	"github.com/prismaasset360/web/internal/filter"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/internal/service"
)

// ColumnFormat is how a table column renders its values.
type ColumnFormat int

const (
	// FormatText renders the value as is (related entities by name, booleans as Sí/No).
	FormatText ColumnFormat = iota
	// FormatCurrency renders an amount.
	FormatCurrency
	// FormatDate renders dd/mm/yyyy.
	FormatDate
	// FormatDateTime renders dd/mm/yyyy hh:mm.
	FormatDateTime
)

// A Column is a column of a list table.
type Column struct {
	Label  string
	Path   string
	Format ColumnFormat
}

// Render renders the column's value of a record.
func (col Column) Render(rec common.Record) string {
	switch col.Format {
	case FormatCurrency:
		if v, ok := rec.Float(col.Path); ok {
			return filter.FormatCurrency(v)
		}
		return ""
	case FormatDate:
		return filter.FormatDate(rec.String(col.Path))
	case FormatDateTime:
		return filter.FormatDateTime(rec.String(col.Path))
	default:
		return filter.Display(rec, col.Path)
	}
}

// Related is a list shown on a detail page.
type Related struct {
	Title    string
	Source   service.RelatedSource
	Columns  []Column
	LinkBase string // If set, rows link to LinkBase + "/" + row ID.
}

// An Action is an operation on one entity besides editing it, e.g. returning an assigned asset. It's posted to
// "<base>/:id/<Name>" and forwarded to the backend as "<Method> <backend prefix>/:id/<Name>".
type Action struct {
	Name    string
	Label   string
	Method  string
	Roles   []common.Role
	Fields  []Field
	Confirm string
	Success string
	// When tells whether the action applies to the entity in its current state. Nil means always.
	When func(rec common.Record) bool
}

// AvailableFor reports whether the action is offered for the entity to the role.
func (a *Action) AvailableFor(rec common.Record, role common.Role) bool {
	return auth.HasRole(role, a.Roles) && (a.When == nil || a.When(rec))
}

// A Resource describes the pages of one backend entity.
type Resource struct {
	BasePath    string // Where the pages live, e.g. "/activos"
	BackendPath string // Backend prefix, e.g. "/activos"
	Title       string // Plural title, e.g. "Activos"
	Singular    string // e.g. "activo"
	TitlePath   string // Record field used as the heading of the detail page. Defaults to "nombre".
	Columns     []Column
	Details     []Column // Shown on the detail page after the list columns
	SearchKeys  []string
	Fields      []Field
	Related     []Related
	Actions     []Action
	// EditRoles may create, edit and delete. Viewing is guarded by the navigation.
	EditRoles []common.Role
	NoCreate  bool
	NoEdit    bool
	NoDelete  bool
	QRCode    bool // The backend generates a QR label for the entity
}

// CanCreate reports whether the role may create entities.
func (r *Resource) CanCreate(role common.Role) bool {
	return !r.NoCreate && auth.HasRole(role, r.EditRoles)
}

// CanEdit reports whether the role may edit entities.
func (r *Resource) CanEdit(role common.Role) bool {
	return !r.NoEdit && auth.HasRole(role, r.EditRoles)
}

// CanDelete reports whether the role may delete entities.
func (r *Resource) CanDelete(role common.Role) bool {
	return !r.NoDelete && auth.HasRole(role, r.EditRoles)
}

// Heading returns the display name of an entity.
func (r *Resource) Heading(rec common.Record) string {
	path := r.TitlePath
	if path == "" {
		path = "nombre"
	}

	if heading := filter.Display(rec, path); heading != "" {
		return heading
	}

	return r.Singular + " " + rec.ID().String()
}

// detailColumns returns the values shown on the detail page.
func (r *Resource) detailColumns() []Column {
	ret := make([]Column, 0, len(r.Columns)+len(r.Details))
	ret = append(ret, r.Columns...)
	return append(ret, r.Details...)
}

// relatedSources returns what the detail page loads besides the entity.
func (r *Resource) relatedSources() []service.RelatedSource {
	ret := make([]service.RelatedSource, 0, len(r.Related))
	for _, related := range r.Related {
		ret = append(ret, related.Source)
	}

	return ret
}

// Option sources shared by the forms.
var (
	categoriasSource  = &service.OptionSource{Path: "/categorias"}
	sedesSource       = &service.OptionSource{Path: "/sedes"}
	areasSource       = &service.OptionSource{Path: "/areas"}
	proveedoresSource = &service.OptionSource{Path: "/proveedores"}
	rolesSource       = &service.OptionSource{Path: "/roles"}
	empleadosSource   = &service.OptionSource{Path: "/empleados", Labels: []string{"nombre", "apellido"}}
	activosSource     = &service.OptionSource{Path: "/activos", Labels: []string{"codigo", "nombre"}}
	misActivosSource  = &service.OptionSource{
		Path:      "/asignaciones/mis-asignaciones",
		ValuePath: "activo.id",
		Labels:    []string{"activo.codigo", "activo.nombre"},
	}
)

func choices(values ...string) []common.Option {
	ret := make([]common.Option, 0, len(values))
	for _, v := range values {
		ret = append(ret, common.Option{Value: v, Label: v})
	}

	return ret
}

func solicitudTipoChoices() []common.Option {
	ret := make([]common.Option, 0, len(common.SolicitudTipos))
	for _, t := range common.SolicitudTipos {
		ret = append(ret, common.Option{Value: t.String(), Label: t.Label()})
	}

	return ret
}

func fieldEquals(path string, values ...string) func(rec common.Record) bool {
	return func(rec common.Record) bool {
		current := rec.String(path)
		for _, v := range values {
			if current == v {
				return true
			}
		}
		return false
	}
}

func fieldNotEquals(path string, value string) func(rec common.Record) bool {
	return func(rec common.Record) bool {
		return rec.String(path) != value
	}
}

func fieldEmpty(path string) func(rec common.Record) bool {
	return func(rec common.Record) bool {
		return rec.String(path) == ""
	}
}

var assignmentColumns = []Column{
	{Label: "Activo", Path: "activo"},
	{Label: "Empleado", Path: "empleado"},
	{Label: "Asignado", Path: "fechaAsignacion", Format: FormatDate},
	{Label: "Devuelto", Path: "fechaDevolucion", Format: FormatDate},
	{Label: "Estado", Path: "estado"},
}

var maintenanceColumns = []Column{
	{Label: "Activo", Path: "activo"},
	{Label: "Tipo", Path: "tipo"},
	{Label: "Fecha", Path: "fecha", Format: FormatDate},
	{Label: "Técnico", Path: "tecnico"},
	{Label: "Costo", Path: "costo", Format: FormatCurrency},
	{Label: "Estado", Path: "estado"},
}

// CompanyResources are the entity pages of the company area.
func CompanyResources() []*Resource {
	return []*Resource{
		{
			BasePath:    "/activos",
			BackendPath: "/activos",
			Title:       "Activos",
			Singular:    "activo",
			Columns: []Column{
				{Label: "Código", Path: "codigo"},
				{Label: "Nombre", Path: "nombre"},
				{Label: "Categoría", Path: "categoria"},
				{Label: "Sede", Path: "sede"},
				{Label: "Estado", Path: "estado"},
				{Label: "Valor de compra", Path: "valorCompra", Format: FormatCurrency},
			},
			SearchKeys: []string{"codigo", "nombre", "numeroSerie", "marca", "modelo", "categoria", "sede", "estado"},
			Fields: []Field{
				{Name: "codigo", Label: "Código", Required: true},
				{Name: "nombre", Label: "Nombre", Required: true},
				{Name: "descripcion", Label: "Descripción", Kind: FieldTextArea},
				{Name: "numeroSerie", Label: "Número de serie"},
				{Name: "marca", Label: "Marca"},
				{Name: "modelo", Label: "Modelo"},
				{Name: "categoriaId", Label: "Categoría", Kind: FieldSelect, Required: true, Source: categoriasSource, ReadPaths: []string{"categoriaId", "categoria.id"}},
				{Name: "sedeId", Label: "Sede", Kind: FieldSelect, Source: sedesSource, ReadPaths: []string{"sedeId", "sede.id"}},
				{Name: "areaId", Label: "Área", Kind: FieldSelect, Source: areasSource, ReadPaths: []string{"areaId", "area.id"}},
				{Name: "proveedorId", Label: "Proveedor", Kind: FieldSelect, Source: proveedoresSource, ReadPaths: []string{"proveedorId", "proveedor.id"}, Roles: auth.Managers},
				{Name: "fechaCompra", Label: "Fecha de compra", Kind: FieldDate, Required: true, Roles: auth.Managers},
				{Name: "valorCompra", Label: "Valor de compra", Kind: FieldNumber, Required: true, Roles: auth.Managers},
				{Name: "valorResidual", Label: "Valor residual", Kind: FieldNumber, Roles: auth.Managers},
				{Name: "vidaUtilMeses", Label: "Vida útil (meses)", Kind: FieldInteger, Roles: auth.Managers},
				{Name: "estado", Label: "Estado", Kind: FieldSelect, Choices: choices("DISPONIBLE", "ASIGNADO", "EN_MANTENIMIENTO", "DADO_DE_BAJA")},
			},
			Related: []Related{
				{
					Title:    "Historial de asignaciones",
					Source:   service.RelatedSource{Key: "asignaciones", Path: "/asignaciones", QueryKey: "activoId"},
					Columns:  assignmentColumns,
					LinkBase: "/asignaciones",
				},
				{
					Title:    "Historial de mantenimientos",
					Source:   service.RelatedSource{Key: "mantenimientos", Path: "/mantenimientos", QueryKey: "activoId"},
					Columns:  maintenanceColumns,
					LinkBase: "/mantenimientos",
				},
			},
			Details: []Column{
				{Label: "Número de serie", Path: "numeroSerie"},
				{Label: "Marca", Path: "marca"},
				{Label: "Modelo", Path: "modelo"},
				{Label: "Área", Path: "area"},
				{Label: "Proveedor", Path: "proveedor"},
				{Label: "Fecha de compra", Path: "fechaCompra", Format: FormatDate},
				{Label: "Vida útil (meses)", Path: "vidaUtilMeses"},
				{Label: "Valor en libros", Path: "valorLibros", Format: FormatCurrency},
				{Label: "Descripción", Path: "descripcion"},
			},
			QRCode:    true,
			EditRoles: auth.Operators,
		},
		{
			BasePath:    "/asignaciones",
			BackendPath: "/asignaciones",
			Title:       "Asignaciones",
			Singular:    "asignación",
			TitlePath:   "activo",
			Columns:     assignmentColumns,
			SearchKeys:  []string{"activo", "activo.codigo", "empleado", "empleado.apellido", "estado"},
			Fields: []Field{
				{Name: "activoId", Label: "Activo", Kind: FieldSelect, Required: true, Source: &service.OptionSource{
					Path:   "/activos",
					Query:  map[string][]string{"estado": {"DISPONIBLE"}},
					Labels: []string{"codigo", "nombre"},
				}},
				{Name: "empleadoId", Label: "Empleado", Kind: FieldSelect, Required: true, Source: empleadosSource},
				{Name: "fechaAsignacion", Label: "Fecha de asignación", Kind: FieldDate, Required: true},
				{Name: "observaciones", Label: "Observaciones", Kind: FieldTextArea},
			},
			Actions: []Action{
				{
					Name:    "devolver",
					Label:   "Registrar devolución",
					Method:  http.MethodPatch,
					Roles:   auth.Managers,
					Fields:  []Field{{Name: "observaciones", Label: "Observaciones de la devolución", Kind: FieldTextArea}},
					Confirm: "¿Registrar la devolución del activo?",
					Success: "Devolución registrada",
					When:    fieldEmpty("fechaDevolucion"),
				},
			},
			EditRoles: auth.Managers,
			NoEdit:    true,
		},
		{
			BasePath:    "/mantenimientos",
			BackendPath: "/mantenimientos",
			Title:       "Mantenimientos",
			Singular:    "mantenimiento",
			TitlePath:   "activo",
			Columns:     maintenanceColumns,
			SearchKeys:  []string{"activo", "activo.codigo", "tipo", "tecnico", "estado", "descripcion"},
			Fields: []Field{
				{Name: "activoId", Label: "Activo", Kind: FieldSelect, Required: true, Source: activosSource, ReadPaths: []string{"activoId", "activo.id"}},
				{Name: "tipo", Label: "Tipo", Kind: FieldSelect, Required: true, Choices: choices("PREVENTIVO", "CORRECTIVO")},
				{Name: "fecha", Label: "Fecha", Kind: FieldDate, Required: true},
				{Name: "descripcion", Label: "Descripción", Kind: FieldTextArea, Required: true},
				{Name: "proveedorId", Label: "Proveedor", Kind: FieldSelect, Source: proveedoresSource, ReadPaths: []string{"proveedorId", "proveedor.id"}},
				{Name: "costo", Label: "Costo", Kind: FieldNumber, Roles: auth.Managers},
				{Name: "estado", Label: "Estado", Kind: FieldSelect, Choices: choices("PENDIENTE", "EN_PROCESO", "COMPLETADO")},
			},
			EditRoles: auth.Operators,
		},
		{
			BasePath:    "/mantenimientos-programados",
			BackendPath: "/mantenimientos-programados",
			Title:       "Mantenimientos programados",
			Singular:    "mantenimiento programado",
			TitlePath:   "activo",
			Columns: []Column{
				{Label: "Activo", Path: "activo"},
				{Label: "Tipo", Path: "tipo"},
				{Label: "Frecuencia (días)", Path: "frecuenciaDias"},
				{Label: "Próxima fecha", Path: "proximaFecha", Format: FormatDate},
				{Label: "Estado", Path: "estado"},
			},
			SearchKeys: []string{"activo", "activo.codigo", "tipo", "estado"},
			Fields: []Field{
				{Name: "activoId", Label: "Activo", Kind: FieldSelect, Required: true, Source: activosSource, ReadPaths: []string{"activoId", "activo.id"}},
				{Name: "tipo", Label: "Tipo", Kind: FieldSelect, Required: true, Choices: choices("PREVENTIVO", "CORRECTIVO")},
				{Name: "frecuenciaDias", Label: "Frecuencia (días)", Kind: FieldInteger, Required: true},
				{Name: "proximaFecha", Label: "Próxima fecha", Kind: FieldDate, Required: true},
				{Name: "descripcion", Label: "Descripción", Kind: FieldTextArea},
			},
			Actions: []Action{
				{
					Name:    "completar",
					Label:   "Marcar como realizado",
					Method:  http.MethodPatch,
					Roles:   auth.Operators,
					Fields:  []Field{{Name: "observaciones", Label: "Observaciones", Kind: FieldTextArea}},
					Success: "Mantenimiento registrado. Se programó la siguiente fecha.",
				},
			},
			EditRoles: auth.Managers,
		},
		{
			BasePath:    "/solicitudes",
			BackendPath: "/solicitudes",
			Title:       "Solicitudes",
			Singular:    "solicitud",
			TitlePath:   "tipo",
			Columns: []Column{
				{Label: "Tipo", Path: "tipo"},
				{Label: "Activo", Path: "activo"},
				{Label: "Solicitante", Path: "solicitante"},
				{Label: "Fecha", Path: "fechaCreacion", Format: FormatDate},
				{Label: "Estado", Path: "estado"},
			},
			SearchKeys: []string{"tipo", "activo", "solicitante", "estado", "descripcion"},
			Fields: []Field{
				{Name: "tipo", Label: "Tipo", Kind: FieldSelect, Required: true, Choices: solicitudTipoChoices()},
				{Name: "activoId", Label: "Activo", Kind: FieldSelect, Required: true, Source: activosSource, Roles: auth.Operators},
				{Name: "activoId", Label: "Activo", Kind: FieldSelect, Required: true, Source: misActivosSource, Roles: auth.Employees},
				{Name: "descripcion", Label: "Descripción", Kind: FieldTextArea, Required: true},
			},
			Actions: []Action{
				{
					Name:    "aprobar",
					Label:   "Aprobar",
					Method:  http.MethodPatch,
					Roles:   auth.Managers,
					Fields:  []Field{{Name: "comentario", Label: "Comentario", Kind: FieldTextArea}},
					Success: "Solicitud aprobada",
					When:    fieldEquals("estado", common.SolicitudPendiente),
				},
				{
					Name:    "rechazar",
					Label:   "Rechazar",
					Method:  http.MethodPatch,
					Roles:   auth.Managers,
					Fields:  []Field{{Name: "comentario", Label: "Motivo del rechazo", Kind: FieldTextArea, Required: true}},
					Confirm: "¿Rechazar la solicitud?",
					Success: "Solicitud rechazada",
					When:    fieldEquals("estado", common.SolicitudPendiente),
				},
			},
			EditRoles: auth.CompanyUsers,
			NoEdit:    true,
			NoDelete:  true,
		},
		{
			BasePath:    "/inventario-fisico",
			BackendPath: "/inventario-fisico",
			Title:       "Inventario físico",
			Singular:    "toma de inventario",
			Columns: []Column{
				{Label: "Nombre", Path: "nombre"},
				{Label: "Sede", Path: "sede"},
				{Label: "Inicio", Path: "fechaInicio", Format: FormatDate},
				{Label: "Estado", Path: "estado"},
			},
			SearchKeys: []string{"nombre", "sede", "estado"},
			Fields: []Field{
				{Name: "nombre", Label: "Nombre", Required: true},
				{Name: "sedeId", Label: "Sede", Kind: FieldSelect, Source: sedesSource, ReadPaths: []string{"sedeId", "sede.id"}},
				{Name: "fechaInicio", Label: "Fecha de inicio", Kind: FieldDate, Required: true},
				{Name: "observaciones", Label: "Observaciones", Kind: FieldTextArea},
			},
			Related: []Related{
				{
					Title:  "Activos verificados",
					Source: service.RelatedSource{Key: "items", Path: "/inventario-fisico/:id/items"},
					Columns: []Column{
						{Label: "Código", Path: "codigo"},
						{Label: "Activo", Path: "activo"},
						{Label: "Condición", Path: "condicion"},
						{Label: "Verificado", Path: "fechaVerificacion", Format: FormatDateTime},
					},
				},
			},
			Actions: []Action{
				{
					Name:   "items",
					Label:  "Registrar activo",
					Method: http.MethodPost,
					Roles:  auth.Managers,
					Fields: []Field{
						{Name: "codigo", Label: "Código del activo", Required: true},
						{Name: "condicion", Label: "Condición", Kind: FieldSelect, Choices: choices("BUENO", "REGULAR", "MALO")},
					},
					Success: "Activo registrado en el inventario",
					When:    fieldNotEquals("estado", "FINALIZADO"),
				},
				{
					Name:    "finalizar",
					Label:   "Finalizar inventario",
					Method:  http.MethodPatch,
					Roles:   auth.Managers,
					Confirm: "¿Finalizar la toma de inventario? No se podrán registrar más activos.",
					Success: "Inventario finalizado",
					When:    fieldNotEquals("estado", "FINALIZADO"),
				},
			},
			EditRoles: auth.Managers,
			NoEdit:    true,
		},
		{
			BasePath:    "/empleados",
			BackendPath: "/empleados",
			Title:       "Empleados",
			Singular:    "empleado",
			Columns: []Column{
				{Label: "Nombre", Path: "nombre"},
				{Label: "Apellido", Path: "apellido"},
				{Label: "Documento", Path: "numeroDocumento"},
				{Label: "Cargo", Path: "cargo"},
				{Label: "Área", Path: "area"},
				{Label: "Correo", Path: "email"},
			},
			SearchKeys: []string{"nombre", "apellido", "numeroDocumento", "cargo", "area", "email"},
			Fields: []Field{
				{Name: "nombre", Label: "Nombre", Required: true},
				{Name: "apellido", Label: "Apellido", Required: true},
				{Name: "numeroDocumento", Label: "Número de documento", Required: true},
				{Name: "email", Label: "Correo electrónico", Kind: FieldEmail},
				{Name: "telefono", Label: "Teléfono"},
				{Name: "cargo", Label: "Cargo"},
				{Name: "sedeId", Label: "Sede", Kind: FieldSelect, Source: sedesSource, ReadPaths: []string{"sedeId", "sede.id"}},
				{Name: "areaId", Label: "Área", Kind: FieldSelect, Source: areasSource, ReadPaths: []string{"areaId", "area.id"}},
			},
			Related: []Related{
				{
					Title:    "Activos asignados",
					Source:   service.RelatedSource{Key: "asignaciones", Path: "/asignaciones", QueryKey: "empleadoId"},
					Columns:  assignmentColumns,
					LinkBase: "/asignaciones",
				},
			},
			EditRoles: auth.Managers,
		},
		{
			BasePath:    "/proveedores",
			BackendPath: "/proveedores",
			Title:       "Proveedores",
			Singular:    "proveedor",
			Columns: []Column{
				{Label: "Nombre", Path: "nombre"},
				{Label: "Identificación fiscal", Path: "identificacionFiscal"},
				{Label: "Contacto", Path: "contacto"},
				{Label: "Teléfono", Path: "telefono"},
				{Label: "Correo", Path: "email"},
			},
			SearchKeys: []string{"nombre", "identificacionFiscal", "contacto", "email"},
			Fields: []Field{
				{Name: "nombre", Label: "Nombre", Required: true},
				{Name: "identificacionFiscal", Label: "Identificación fiscal"},
				{Name: "contacto", Label: "Persona de contacto"},
				{Name: "telefono", Label: "Teléfono"},
				{Name: "email", Label: "Correo electrónico", Kind: FieldEmail},
				{Name: "direccion", Label: "Dirección"},
			},
			EditRoles: auth.Managers,
		},
		{
			BasePath:    "/garantias",
			BackendPath: "/garantias",
			Title:       "Garantías",
			Singular:    "garantía",
			TitlePath:   "activo",
			Columns: []Column{
				{Label: "Activo", Path: "activo"},
				{Label: "Proveedor", Path: "proveedor"},
				{Label: "Inicio", Path: "fechaInicio", Format: FormatDate},
				{Label: "Fin", Path: "fechaFin", Format: FormatDate},
				{Label: "Estado", Path: "estado"},
			},
			SearchKeys: []string{"activo", "activo.codigo", "proveedor", "estado"},
			Fields: []Field{
				{Name: "activoId", Label: "Activo", Kind: FieldSelect, Required: true, Source: activosSource, ReadPaths: []string{"activoId", "activo.id"}},
				{Name: "proveedorId", Label: "Proveedor", Kind: FieldSelect, Source: proveedoresSource, ReadPaths: []string{"proveedorId", "proveedor.id"}},
				{Name: "fechaInicio", Label: "Fecha de inicio", Kind: FieldDate, Required: true},
				{Name: "fechaFin", Label: "Fecha de fin", Kind: FieldDate, Required: true},
				{Name: "condiciones", Label: "Condiciones", Kind: FieldTextArea},
			},
			EditRoles: auth.Managers,
		},
		{
			BasePath:    "/usuarios",
			BackendPath: "/usuarios",
			Title:       "Usuarios",
			Singular:    "usuario",
			TitlePath:   "email",
			Columns: []Column{
				{Label: "Nombre", Path: "nombre"},
				{Label: "Apellido", Path: "apellido"},
				{Label: "Correo", Path: "email"},
				{Label: "Rol", Path: "rol"},
				{Label: "Activo", Path: "activo"},
			},
			SearchKeys: []string{"nombre", "apellido", "email", "rol"},
			Fields: []Field{
				{Name: "nombre", Label: "Nombre", Required: true},
				{Name: "apellido", Label: "Apellido"},
				{Name: "email", Label: "Correo electrónico", Kind: FieldEmail, Required: true},
				{Name: "password", Label: "Contraseña inicial", Kind: FieldPassword, Required: true, CreateOnly: true},
				{Name: "rolId", Label: "Rol", Kind: FieldSelect, Required: true, Source: rolesSource, ReadPaths: []string{"rolId", "rol.id"}},
				{Name: "empleadoId", Label: "Empleado", Kind: FieldSelect, Source: empleadosSource, ReadPaths: []string{"empleadoId", "empleado.id"}},
				{Name: "activo", Label: "Activo", Kind: FieldCheckbox},
			},
			EditRoles: auth.CompanyAdmins,
		},
		{
			BasePath:    "/sedes",
			BackendPath: "/sedes",
			Title:       "Sedes",
			Singular:    "sede",
			Columns: []Column{
				{Label: "Nombre", Path: "nombre"},
				{Label: "Dirección", Path: "direccion"},
				{Label: "Ciudad", Path: "ciudad"},
				{Label: "Teléfono", Path: "telefono"},
			},
			SearchKeys: []string{"nombre", "direccion", "ciudad"},
			Fields: []Field{
				{Name: "nombre", Label: "Nombre", Required: true},
				{Name: "direccion", Label: "Dirección", Required: true},
				{Name: "ciudad", Label: "Ciudad"},
				{Name: "telefono", Label: "Teléfono"},
			},
			EditRoles: auth.CompanyAdmins,
		},
		{
			BasePath:    "/areas",
			BackendPath: "/areas",
			Title:       "Áreas",
			Singular:    "área",
			Columns: []Column{
				{Label: "Nombre", Path: "nombre"},
				{Label: "Sede", Path: "sede"},
				{Label: "Descripción", Path: "descripcion"},
			},
			SearchKeys: []string{"nombre", "sede", "descripcion"},
			Fields: []Field{
				{Name: "nombre", Label: "Nombre", Required: true},
				{Name: "sedeId", Label: "Sede", Kind: FieldSelect, Required: true, Source: sedesSource, ReadPaths: []string{"sedeId", "sede.id"}},
				{Name: "descripcion", Label: "Descripción", Kind: FieldTextArea},
			},
			EditRoles: auth.CompanyAdmins,
		},
		{
			BasePath:    "/categorias",
			BackendPath: "/categorias",
			Title:       "Categorías",
			Singular:    "categoría",
			Columns: []Column{
				{Label: "Nombre", Path: "nombre"},
				{Label: "Descripción", Path: "descripcion"},
				{Label: "Vida útil (meses)", Path: "vidaUtilMeses"},
				{Label: "Método de depreciación", Path: "metodoDepreciacion"},
			},
			SearchKeys: []string{"nombre", "descripcion", "metodoDepreciacion"},
			Fields: []Field{
				{Name: "nombre", Label: "Nombre", Required: true},
				{Name: "descripcion", Label: "Descripción", Kind: FieldTextArea},
				{Name: "vidaUtilMeses", Label: "Vida útil (meses)", Kind: FieldInteger},
				{Name: "metodoDepreciacion", Label: "Método de depreciación", Kind: FieldSelect, Choices: choices("LINEA_RECTA", "SALDOS_DECRECIENTES")},
			},
			EditRoles: auth.CompanyAdmins,
		},
	}
}

// AdminCompaniesBackendPath is where the system administrator manages the companies.
const AdminCompaniesBackendPath = "/admin-sistema/empresas"

// AdminResources are the entity pages of the system administration area.
func AdminResources() []*Resource {
	return []*Resource{
		{
			BasePath:    "/admin/empresas",
			BackendPath: AdminCompaniesBackendPath,
			Title:       "Empresas",
			Singular:    "empresa",
			Columns: []Column{
				{Label: "Nombre", Path: "nombre"},
				{Label: "Identificación fiscal", Path: "identificacionFiscal"},
				{Label: "Correo", Path: "email"},
				{Label: "Activa", Path: "activa"},
				{Label: "Alta", Path: "fechaCreacion", Format: FormatDate},
			},
			SearchKeys: []string{"nombre", "identificacionFiscal", "email"},
			Fields: []Field{
				{Name: "nombre", Label: "Nombre", Required: true},
				{Name: "identificacionFiscal", Label: "Identificación fiscal", Required: true},
				{Name: "email", Label: "Correo electrónico", Kind: FieldEmail, Required: true},
				{Name: "telefono", Label: "Teléfono"},
				{Name: "direccion", Label: "Dirección"},
				{Name: "activa", Label: "Activa", Kind: FieldCheckbox},
				{Name: "adminNombre", Label: "Nombre del administrador", Required: true, CreateOnly: true},
				{Name: "adminEmail", Label: "Correo del administrador", Kind: FieldEmail, Required: true, CreateOnly: true},
				{Name: "adminPassword", Label: "Contraseña del administrador", Kind: FieldPassword, Required: true, CreateOnly: true},
			},
			Related: []Related{
				{
					Title:  "Usuarios",
					Source: service.RelatedSource{Key: "usuarios", Path: "/admin-sistema/usuarios", QueryKey: "empresaId"},
					Columns: []Column{
						{Label: "Nombre", Path: "nombre"},
						{Label: "Correo", Path: "email"},
						{Label: "Rol", Path: "rol"},
					},
				},
			},
			EditRoles: auth.SystemAdmins,
		},
		{
			BasePath:    "/admin/usuarios",
			BackendPath: "/admin-sistema/usuarios",
			Title:       "Usuarios del sistema",
			Singular:    "usuario",
			TitlePath:   "email",
			Columns: []Column{
				{Label: "Nombre", Path: "nombre"},
				{Label: "Correo", Path: "email"},
				{Label: "Rol", Path: "rol"},
				{Label: "Empresa", Path: "empresa"},
				{Label: "Activo", Path: "activo"},
			},
			SearchKeys: []string{"nombre", "apellido", "email", "rol", "empresa"},
			EditRoles:  auth.SystemAdmins,
			NoCreate:   true,
			NoEdit:     true,
			NoDelete:   true,
		},
	}
}
