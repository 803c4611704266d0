package domain

import "strings"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	// AuthorityPrefix is prepended to every stored role to form the authority
	// string checked by the access control policy.
	AuthorityPrefix = "ROLE_"
)

// Roles is an ordered set of role names. Duplicates and blanks are dropped on
// construction.
type Roles []string

// NewRoles builds a Roles set from the given names, keeping first-seen order.
func NewRoles(names ...string) Roles {
	seen := make(map[string]struct{}, len(names))
	out := make(Roles, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// ParseRoles splits a space-delimited role string ("admin user").
func ParseRoles(s string) Roles {
	return NewRoles(strings.Fields(s)...)
}

// String joins the roles back into their space-delimited form.
func (r Roles) String() string {
	return strings.Join(r, " ")
}

// Has reports whether role is in the set.
func (r Roles) Has(role string) bool {
	for _, v := range r {
		if v == role {
			return true
		}
	}
	return false
}

// Authorities returns each role with AuthorityPrefix applied.
func (r Roles) Authorities() []string {
	out := make([]string, 0, len(r))
	for _, v := range r {
		out = append(out, AuthorityPrefix+v)
	}
	return out
}

// User models an account in the directory.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Roles        Roles  `json:"roles"`
	Enabled      bool   `json:"enabled"`
}

// Clone returns a deep copy so stores never share the Roles backing array.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = append(Roles(nil), u.Roles...)
	return &c
}
