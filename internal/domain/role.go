package domain

// Role determines how much of the published archive a user may list.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleUploader Role = "uploader"
)

// adminName is the reserved uploader name granted the admin role.
const adminName = "admin"

// RoleOf resolves the role for a user name. Accounts are provisioned
// externally, so the mapping is by reserved name rather than a stored column.
func RoleOf(userName string) Role {
	if userName == adminName {
		return RoleAdmin
	}
	return RoleUploader
}

// SeesAll reports whether the role may list every uploader's entries.
func (r Role) SeesAll() bool {
	return r == RoleAdmin
}
