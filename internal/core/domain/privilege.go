package domain

import (
	"encoding/json"
	"errors"
)

// Canonical permission names. The matrix served by the API is keyed by these
// and nothing else; unknown keys are dropped on decode.
const (
	PermCreateBill      = "createBill"
	PermDeleteBill      = "deleteBill"
	PermViewHistory     = "viewHistory"
	PermPrintBill       = "printBill"
	PermCreateProduct   = "createProduct"
	PermDeleteProduct   = "deleteProduct"
	PermCreateUser      = "createUser"
	PermDeleteUser      = "deleteUser"
	PermGenerateReports = "generateReports"
	PermEditConfig      = "editConfig"
	PermViewConfig      = "viewConfig"
	PermCreateRol       = "createRol"
	PermDeleteRol       = "deleteRol"
)

// PermissionNames lists every permission in display order.
var PermissionNames = []string{
	PermCreateBill,
	PermDeleteBill,
	PermViewHistory,
	PermPrintBill,
	PermCreateProduct,
	PermDeleteProduct,
	PermCreateUser,
	PermDeleteUser,
	PermGenerateReports,
	PermEditConfig,
	PermViewConfig,
	PermCreateRol,
	PermDeleteRol,
}

// permissionLabels maps permission names to the human-readable labels shown
// in denial messages.
var permissionLabels = map[string]string{
	PermCreateBill:      "Crear Factura",
	PermDeleteBill:      "Eliminar Factura",
	PermViewHistory:     "Ver Historial",
	PermPrintBill:       "Imprimir Factura",
	PermCreateProduct:   "Crear Producto",
	PermDeleteProduct:   "Eliminar Producto",
	PermCreateUser:      "Crear Usuario",
	PermDeleteUser:      "Eliminar Usuario",
	PermGenerateReports: "Generar Reportes",
	PermEditConfig:      "Editar Configuración",
	PermViewConfig:      "Ver Configuración",
	PermCreateRol:       "Crear Rol",
	PermDeleteRol:       "Eliminar Rol",
}

// PermissionLabel returns the display label for a permission name; unknown
// names fall back to the raw name.
func PermissionLabel(name string) string {
	if label, ok := permissionLabels[name]; ok {
		return label
	}
	return name
}

// IsPermission reports whether name is one of the canonical permissions.
func IsPermission(name string) bool {
	_, ok := permissionLabels[name]
	return ok
}

var ErrRoleNotFound = errors.New("role not found")
var ErrRoleExists = errors.New("role already exists")
var ErrInvalidRoleName = errors.New("invalid role name")

// Role is a named privilege grouping users are assigned to.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PrivilegeSet is the permission matrix for one role. Grants holds only
// permissions that are exactly true; lookups for anything else return false.
type PrivilegeSet struct {
	RoleID   string
	RoleName string
	Grants   map[string]bool
}

// Allows reports whether the set grants the named permission.
func (p *PrivilegeSet) Allows(name string) bool {
	if p == nil {
		return false
	}
	return p.Grants[name]
}

// MarshalJSON renders the wire shape: a flat object keyed by the canonical
// permission names plus the role back-reference.
func (p PrivilegeSet) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(PermissionNames)+2)
	for _, name := range PermissionNames {
		out[name] = p.Grants[name]
	}
	out["rolId"] = p.RoleID
	out["role"] = p.RoleName
	return json.Marshal(out)
}

// UnmarshalJSON accepts the flat wire object, keeping only canonical
// permission keys whose value is exactly true.
func (p *PrivilegeSet) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	grants := make(map[string]bool, len(PermissionNames))
	for _, name := range PermissionNames {
		if v, ok := raw[name].(bool); ok && v {
			grants[name] = true
		}
	}

	p.Grants = grants
	p.RoleID = stringField(raw, "rolId")
	p.RoleName = stringField(raw, "role")
	return nil
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}
