package auth

import (
	"strings"

	"github.com/prismaasset360/web/internal/models/common"
)

// Role groups used by the navigation and the route guards.
var (
	// Managers run the company's asset operations.
	Managers = []common.Role{common.RoleCompanyAdmin, common.RoleAssetManager}
	// Operators are the managers plus the technicians.
	Operators = []common.Role{common.RoleCompanyAdmin, common.RoleAssetManager, common.RoleTechnician}
	// CompanyUsers are all the roles that belong to a company.
	CompanyUsers = []common.Role{common.RoleCompanyAdmin, common.RoleAssetManager, common.RoleTechnician, common.RoleEmployee}
	// CompanyAdmins only.
	CompanyAdmins = []common.Role{common.RoleCompanyAdmin}
	// SystemAdmins only.
	SystemAdmins = []common.Role{common.RoleSuperAdmin}
	// Employees only.
	Employees = []common.Role{common.RoleEmployee}
)

// Navigation sections.
const (
	SectionOperation     = "Operación"
	SectionConfiguration = "Configuración"
	SectionAdmin         = "Administración del sistema"
)

// A NavItem is an entry of the side navigation. It's visible only to the roles it lists, and the route it points to
// is guarded with the same roles.
type NavItem struct {
	Label   string
	Href    string
	Section string
	Roles   []common.Role
}

// NavItems is the whole navigation, in display order.
var NavItems = []NavItem{
	{Label: "Inicio", Href: "/dashboard", Section: SectionOperation, Roles: CompanyUsers},
	{Label: "Mis activos", Href: "/mis-activos", Section: SectionOperation, Roles: Employees},
	{Label: "Activos", Href: "/activos", Section: SectionOperation, Roles: Operators},
	{Label: "Asignaciones", Href: "/asignaciones", Section: SectionOperation, Roles: Managers},
	{Label: "Mantenimientos", Href: "/mantenimientos", Section: SectionOperation, Roles: Operators},
	{Label: "Mantenimientos programados", Href: "/mantenimientos-programados", Section: SectionOperation, Roles: Operators},
	{Label: "Solicitudes", Href: "/solicitudes", Section: SectionOperation, Roles: CompanyUsers},
	{Label: "Inventario físico", Href: "/inventario-fisico", Section: SectionOperation, Roles: Managers},
	{Label: "Reportes", Href: "/reportes", Section: SectionOperation, Roles: Managers},
	{Label: "Notificaciones", Href: "/notificaciones", Section: SectionOperation, Roles: CompanyUsers},
	{Label: "Empleados", Href: "/empleados", Section: SectionConfiguration, Roles: Managers},
	{Label: "Proveedores", Href: "/proveedores", Section: SectionConfiguration, Roles: Managers},
	{Label: "Garantías", Href: "/garantias", Section: SectionConfiguration, Roles: Managers},
	{Label: "Usuarios", Href: "/usuarios", Section: SectionConfiguration, Roles: CompanyAdmins},
	{Label: "Sedes", Href: "/sedes", Section: SectionConfiguration, Roles: CompanyAdmins},
	{Label: "Áreas", Href: "/areas", Section: SectionConfiguration, Roles: CompanyAdmins},
	{Label: "Categorías", Href: "/categorias", Section: SectionConfiguration, Roles: CompanyAdmins},
	{Label: "Mi empresa", Href: "/mi-empresa", Section: SectionConfiguration, Roles: CompanyAdmins},
	{Label: "Panel", Href: "/admin", Section: SectionAdmin, Roles: SystemAdmins},
	{Label: "Empresas", Href: "/admin/empresas", Section: SectionAdmin, Roles: SystemAdmins},
	{Label: "Usuarios del sistema", Href: "/admin/usuarios", Section: SectionAdmin, Roles: SystemAdmins},
}

// HasRole reports whether the role is one of the allowed roles.
func HasRole(role common.Role, allowed []common.Role) bool {
	if role == "" {
		return false
	}

	for _, r := range allowed {
		if role.Is(r) {
			return true
		}
	}

	return false
}

// VisibleNavItems returns the navigation items the role may see, in display order.
func VisibleNavItems(role common.Role) []NavItem {
	ret := make([]NavItem, 0, len(NavItems))
	for _, item := range NavItems {
		if HasRole(role, item.Roles) {
			ret = append(ret, item)
		}
	}

	return ret
}

// RolesFor returns the roles of the navigation item for the path. Sub-paths ("/activos/12/editar") inherit the roles
// of their closest item ("/activos").
func RolesFor(path string) ([]common.Role, bool) {
	var best *NavItem
	for i := range NavItems {
		item := &NavItems[i]
		if path == item.Href || strings.HasPrefix(path, item.Href+"/") {
			if best == nil || len(item.Href) > len(best.Href) {
				best = item
			}
		}
	}

	if best == nil {
		return nil, false
	}

	return best.Roles, true
}

// HomePath is where a user with the role lands after logging in.
func HomePath(role common.Role) string {
	if role.Is(common.RoleSuperAdmin) {
		return "/admin"
	}

	return "/dashboard"
}
