package api

import (
	"net/http"
	"regexp"

	"github.com/eventdeskhq/eventdesk/internal/core/domain"
)

// keyRule is one entry of the API-key allow-list: a method plus a path
// pattern the key may reach.
type keyRule struct {
	method string
	path   *regexp.Regexp
}

// KeyPolicy is the declarative allow-list applied to API-key-authenticated
// requests. Rules are evaluated in order; the table itself is the policy,
// there is no per-route branching.
type KeyPolicy struct {
	rules []keyRule
}

// DefaultKeyPolicy returns the fixed policy: the identity endpoint, read
// access to the catalog resources, plus the single write path for public
// event registration. Everything else is denied regardless of key validity.
func DefaultKeyPolicy() *KeyPolicy {
	return &KeyPolicy{rules: []keyRule{
		{http.MethodGet, regexp.MustCompile(`^/api/user$`)},
		{http.MethodGet, regexp.MustCompile(`^/api/events(/.*)?$`)},
		{http.MethodGet, regexp.MustCompile(`^/api/courses(/.*)?$`)},
		{http.MethodGet, regexp.MustCompile(`^/api/media(/.*)?$`)},
		{http.MethodGet, regexp.MustCompile(`^/api/training-sessions(/.*)?$`)},
		{http.MethodPost, regexp.MustCompile(`^/api/events/[^/]+/participants$`)},
	}}
}

// Evaluate decides whether an API key may reach (method, path). A method
// that appears nowhere in the table yields ErrMethodNotAllowed; a listed
// method on an unlisted path yields ErrEndpointNotAllowed. The two are kept
// distinct so integrators can tell a working key from a permitted route.
func (p *KeyPolicy) Evaluate(method, path string) error {
	methodListed := false
	for _, rule := range p.rules {
		if rule.method != method {
			continue
		}
		methodListed = true
		if rule.path.MatchString(path) {
			return nil
		}
	}
	if !methodListed {
		return domain.ErrMethodNotAllowed
	}
	return domain.ErrEndpointNotAllowed
}
