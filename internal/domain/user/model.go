package user

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID string
	Email  string
	Name   string
}

// DisplayName prefers the name, then the e-mail, then the user id.
func (p Principal) DisplayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.Email != "":
		return p.Email
	case p.UserID != "":
		return p.UserID
	default:
		return "unknown"
	}
}
