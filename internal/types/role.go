package types

// Role categorizes a member and gates project staffing: only employees may
// be associated with a project.
type Role string

const (
	RoleContractor  Role = "CONTRACTOR"
	RoleEmployee    Role = "EMPLOYEE"
	RoleShareholder Role = "SHAREHOLDER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleContractor, RoleEmployee, RoleShareholder:
		return true
	}
	return false
}
