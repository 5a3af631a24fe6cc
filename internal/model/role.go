package model

import "slices"

// Role is the coarse-grained category of an identity
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleHR         Role = "hr"
	RoleManager    Role = "manager"
	RoleReviewer   Role = "reviewer"
	RoleDirector   Role = "director"
	RoleEmployee   Role = "employee"
	RoleSupervisor Role = "supervisor"
	RoleUser       Role = "user" // lowest privilege, used for self-registration
)

// Roles lists every role in display order
var Roles = []Role{
	RoleAdmin,
	RoleHR,
	RoleManager,
	RoleReviewer,
	RoleDirector,
	RoleEmployee,
	RoleSupervisor,
	RoleUser,
}

// Valid reports whether r belongs to the closed role set
func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

// Permission is a fine-grained capability tag, independent of role
type Permission string

const (
	PermDashboard        Permission = "dashboard"
	PermSearch           Permission = "search"
	PermDataEntry        Permission = "data_entry"
	PermReports          Permission = "reports"
	PermImport           Permission = "import"
	PermSettingsUsers    Permission = "settings_users"
	PermSettingsStations Permission = "settings_stations"
	PermSettingsPorts    Permission = "settings_ports"
	PermAuditLog         Permission = "audit_log"
)

// PermissionDef describes a permission for the admin UI
type PermissionDef struct {
	Code  Permission `json:"code"`
	Name  string     `json:"name"`
	Group string     `json:"group"`
}

// Permissions is the permission catalog
var Permissions = []PermissionDef{
	{Code: PermDashboard, Name: "لوحة التحكم", Group: "general"},
	{Code: PermSearch, Name: "البحث", Group: "records"},
	{Code: PermDataEntry, Name: "إدخال البيانات", Group: "records"},
	{Code: PermReports, Name: "التقارير", Group: "records"},
	{Code: PermImport, Name: "استيراد البيانات", Group: "records"},
	{Code: PermSettingsUsers, Name: "إدارة المستخدمين", Group: "settings"},
	{Code: PermSettingsStations, Name: "إدارة مراكز الشرطة", Group: "settings"},
	{Code: PermSettingsPorts, Name: "إدارة المنافذ", Group: "settings"},
	{Code: PermAuditLog, Name: "سجل العمليات", Group: "settings"},
}

// Valid reports whether p is part of the permission catalog
func (p Permission) Valid() bool {
	for _, def := range Permissions {
		if def.Code == p {
			return true
		}
	}
	return false
}
