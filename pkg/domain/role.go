package domain

// Role is the privilege level carried by a session.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleAdmin       Role = "admin"
)

var roleRank = map[Role]int{
	RoleParticipant: 1,
	RoleAdmin:       2,
}

func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// Satisfies reports whether a session holding r may call something that
// requires required. Admins satisfy every role; unknown roles satisfy none.
func (r Role) Satisfies(required Role) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	want, ok := roleRank[required]
	if !ok {
		return false
	}
	return have >= want
}

func (r Role) String() string { return string(r) }
