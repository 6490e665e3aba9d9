package model

// Role is a named bundle of permission flags.  Default roles are seeded at
// startup and flagged IsSystem; they can be edited but never deleted.
//
// Fields:
//  ID          – stable identifier.
//  Name        – display name (e.g. Manager, Server).
//  Permissions – raw permission key -> granted flag, before plugin gating.
//  IsSystem    – true for default roles.
type Role struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Permissions map[string]bool `json:"permissions"`
	IsSystem    bool            `json:"is_system"`
}

// Employee is a signed-in actor.  Each employee references exactly one role.
//
// Fields:
//  ID      – stable identifier.
//  Name    – display name.
//  RoleID  – role reference.
//  PINHash – bcrypt hash of the sign-in PIN; never serialized.
type Employee struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	RoleID  string `json:"role_id"`
	PINHash string `json:"-"`
}
