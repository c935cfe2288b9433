package domain

type Role string

const (
	RoleSuperadmin         Role = "superadmin"
	RoleDispatcher         Role = "dispatcher"
	RoleHospitalStaff      Role = "hospital_staff"
	RoleDoctor             Role = "doctor"
	RoleParamedic          Role = "paramedic"
	RoleAirlineCoordinator Role = "airline_coordinator"
	RolePilot              Role = "pilot"
	RoleMedicalTeam        Role = "medical_team"
	RolePatient            Role = "patient"
)

// Actor is an authenticated identity with exactly one resolved role. The role
// decides both command authorization and query visibility.
type Actor struct {
	ID       string
	Email    string
	FullName string
	Phone    string
	Role     Role
	IsActive bool
}

// HasRole reports whether the actor's role is one of the allowed set.
func (a Actor) HasRole(allowed ...Role) bool {
	for _, r := range allowed {
		if a.Role == r {
			return true
		}
	}
	return false
}
