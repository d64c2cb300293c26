package models

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Actor is the authenticated caller of a request.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Label is the name written to entered_by and audit records.
func (a Actor) Label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}
