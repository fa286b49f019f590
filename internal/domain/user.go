package domain

// Role is the kind of account a session belongs to.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole converts a stored role string to a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// UserTrip is a trip as supplied by the identity/data provider. Mode and
// purpose are free text because provider data is not held to the form's
// enumerations.
type UserTrip struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Distance    string `json:"distance"`
	Mode        string `json:"mode"`
	Purpose     string `json:"purpose"`
}

// User is an account known to the identity provider.
type User struct {
	ID    string
	Name  string
	Email string
	Trips []UserTrip
}

// AuthContext describes the signed-in session. It is passed explicitly to
// every operation that needs to know who is acting.
type AuthContext struct {
	SessionID string
	Role      Role
	Username  string
	Email     string
}

// IsAuthenticated reports whether the context belongs to a signed-in session.
func (a *AuthContext) IsAuthenticated() bool {
	return a != nil && a.Role != "" && a.Username != ""
}

// IsAdmin reports whether the session has the admin role.
func (a *AuthContext) IsAdmin() bool {
	return a.IsAuthenticated() && a.Role == RoleAdmin
}
