package models

import (
	"encoding/json"

	"team-sync/core/client"
)

// Role is a named permission bundle. Permissions are stored
// JSON-encoded since the local store has no array column type.
type Role struct {
	Id          string `gorm:"primaryKey;size:26" json:"id"`
	Name        string `gorm:"uniqueIndex" json:"name"`
	DisplayName string `json:"display_name"`
	Permissions string `json:"permissions"`
}

// RoleFromRemote maps a remote role payload onto a local row.
func RoleFromRemote(r client.Role) Role {
	perms, _ := json.Marshal(r.Permissions)
	return Role{
		Id:          r.Id,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Permissions: string(perms),
	}
}

// PermissionList decodes the JSON-encoded permission names.
func (r Role) PermissionList() []string {
	var perms []string
	_ = json.Unmarshal([]byte(r.Permissions), &perms)
	return perms
}
