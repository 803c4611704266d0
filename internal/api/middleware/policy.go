package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-directory/internal/api/metrics"
	"github.com/99minutos/user-directory/internal/core/domain"
)

// Rule grants access to requests matching Method and Pattern only when the
// principal holds Authority. A Pattern ending in "/**" matches its prefix and
// every path below it; any other Pattern matches exactly.
type Rule struct {
	Method    string
	Pattern   string
	Authority string
}

// Policy is an ordered rule list. The first matching rule decides; requests no
// rule matches only need an authenticated principal.
type Policy struct {
	rules []Rule
}

// NewPolicy anchors every rule pattern under base.
func NewPolicy(base string, rules ...Rule) *Policy {
	base = strings.TrimRight(base, "/")
	anchored := make([]Rule, 0, len(rules))
	for _, r := range rules {
		r.Pattern = base + r.Pattern
		anchored = append(anchored, r)
	}
	return &Policy{rules: anchored}
}

// DirectoryRules is the access table for the user endpoints.
func DirectoryRules() []Rule {
	admin := domain.AuthorityPrefix + domain.RoleAdmin
	user := domain.AuthorityPrefix + domain.RoleUser

	return []Rule{
		{Method: http.MethodGet, Pattern: "/users/**", Authority: user},
		{Method: http.MethodPost, Pattern: "/users", Authority: admin},
		{Method: http.MethodPost, Pattern: "/users/reset", Authority: user},
		{Method: http.MethodPut, Pattern: "/users/**", Authority: admin},
		{Method: http.MethodDelete, Pattern: "/users/**", Authority: admin},
	}
}

// Check decides a single request.
func (p *Policy) Check(method, path string, principal *domain.Principal) error {
	if principal == nil {
		return domain.ErrUnauthenticated
	}
	for _, r := range p.rules {
		if r.Method != method || !matchPattern(r.Pattern, path) {
			continue
		}
		if !principal.HasAuthority(r.Authority) {
			metrics.AccessDeniedTotal.WithLabelValues(r.Authority).Inc()
			return domain.ErrAccessDenied
		}
		return nil
	}
	return nil
}

// Authorize enforces the policy against the principal set by Authenticate.
func Authorize(p *Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if err := p.Check(req.Method, req.URL.Path, PrincipalFrom(c)); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func matchPattern(pattern, path string) bool {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == pattern
}
