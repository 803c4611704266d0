package domain

// Principal is the authenticated identity for a single request.
type Principal struct {
	Username    string
	Authorities []string
	Enabled     bool

	// User is the account the principal was built from. Only the basic
	// credential flow sets it; bearer principals come from token claims alone.
	User *User
}

// NewPrincipal derives a principal from a stored account.
func NewPrincipal(u *User) *Principal {
	return &Principal{
		Username:    u.Username,
		Authorities: u.Roles.Authorities(),
		Enabled:     u.Enabled,
		User:        u,
	}
}

// HasAuthority reports whether the principal holds authority verbatim.
func (p *Principal) HasAuthority(authority string) bool {
	if p == nil {
		return false
	}
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// Credential is what a caller presents to authenticate. It is either a
// BasicCredential or a BearerCredential.
type Credential interface {
	credential()
}

// BasicCredential is a username/password pair from the HTTP Basic scheme.
type BasicCredential struct {
	Username string
	Password string
}

// BearerCredential is a previously issued token.
type BearerCredential struct {
	Token string
}

func (BasicCredential) credential()  {}
func (BearerCredential) credential() {}
