package domain

// MemberRole enumerates team roles.
type MemberRole string

const (
	RoleAdmin    MemberRole = "admin"
	RoleAgent    MemberRole = "agent"
	RoleObserver MemberRole = "observer"
)

// Valid reports whether r is a known role.
func (r MemberRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleObserver:
		return true
	}
	return false
}

// MemberStatus tracks invitation state.
type MemberStatus string

const (
	MemberActive  MemberStatus = "active"
	MemberPending MemberStatus = "pending"
)

// TeamMember is a possible ticket assignee.
type TeamMember struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Email  string       `json:"email"`
	Role   MemberRole   `json:"role"`
	Status MemberStatus `json:"status"`
}
