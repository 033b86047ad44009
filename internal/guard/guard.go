// Package guard decides whether a navigation attempt may render its view.
// Decisions are pure functions of (session snapshot, route): same inputs,
// same outcome, no side effects. Redirects and session teardown belong to
// the caller.
package guard

import (
	"strings"

	"github.com/aldoetobex/legal-mp-client/pkg/models"
)

// Session is the guard's view of the session store.
type Session struct {
	// Initialized is false until the store has rehydrated persisted state;
	// no redirect may happen before then.
	Initialized bool
	User        *models.User
}

// Action is what the navigation layer should do.
type Action int

const (
	// RenderLoading shows the neutral waiting indicator; the session is not
	// yet initialized.
	RenderLoading Action = iota
	// Render shows the requested view.
	Render
	// Redirect navigates to Decision.Target instead.
	Redirect
)

// Decision is the outcome of a navigation attempt.
type Decision struct {
	Action Action
	Target string
}

const (
	loginPath   = "/login"
	defaultPath = "/dashboard"
)

// Route declares who may visit a path pattern.
type Route struct {
	Pattern string
	// PublicOnly routes (landing, sign-in, sign-up) bounce authenticated
	// users to the default landing view.
	PublicOnly bool
	// AllowedRoles empty means any authenticated role.
	AllowedRoles []models.Role
}

// Table is the application's route table.
var Table = []Route{
	{Pattern: "/", PublicOnly: true},
	{Pattern: "/login", PublicOnly: true},
	{Pattern: "/signup/:role", PublicOnly: true},

	{Pattern: "/dashboard"},
	{Pattern: "/cases/:id"},

	{Pattern: "/marketplace", AllowedRoles: []models.Role{models.RoleLawyer}},
	{Pattern: "/my-quotes", AllowedRoles: []models.Role{models.RoleLawyer}},
	{Pattern: "/cases/:id/quote", AllowedRoles: []models.Role{models.RoleLawyer}},

	{Pattern: "/create-case", AllowedRoles: []models.Role{models.RoleClient}},
	{Pattern: "/my-cases", AllowedRoles: []models.Role{models.RoleClient}},
	{Pattern: "/cases/:id/checkout/:quoteId", AllowedRoles: []models.Role{models.RoleClient}},
}

// Decide resolves a navigation attempt against the route table. Nothing
// redirects before the session has rehydrated, unknown paths included.
func Decide(sess Session, path string) Decision {
	if !sess.Initialized {
		return Decision{Action: RenderLoading}
	}
	route, ok := match(path)
	if !ok {
		return Decision{Action: Redirect, Target: "/"}
	}
	return DecideRoute(sess, route)
}

// DecideRoute resolves a navigation attempt for an already-matched route.
func DecideRoute(sess Session, route Route) Decision {
	if !sess.Initialized {
		return Decision{Action: RenderLoading}
	}

	if route.PublicOnly {
		if sess.User != nil {
			return Decision{Action: Redirect, Target: defaultPath}
		}
		return Decision{Action: Render}
	}

	if sess.User == nil {
		return Decision{Action: Redirect, Target: loginPath}
	}
	if len(route.AllowedRoles) > 0 && !roleAllowed(sess.User.Role, route.AllowedRoles) {
		return Decision{Action: Redirect, Target: defaultPath}
	}
	return Decision{Action: Render}
}

func roleAllowed(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// match finds the route whose pattern matches path. Pattern segments that
// start with ':' match any single segment.
func match(path string) (Route, bool) {
	segs := split(path)
	for _, route := range Table {
		if segmentsMatch(split(route.Pattern), segs) {
			return route, true
		}
	}
	return Route{}, false
}

// Params extracts the named path parameters for a pattern, e.g.
// Params("/cases/:id", "/cases/abc") → {"id": "abc"}.
func Params(pattern, path string) map[string]string {
	ps, vs := split(pattern), split(path)
	if !segmentsMatch(ps, vs) {
		return nil
	}
	out := map[string]string{}
	for i, p := range ps {
		if strings.HasPrefix(p, ":") {
			out[p[1:]] = vs[i]
		}
	}
	return out
}

func segmentsMatch(pattern, segs []string) bool {
	if len(pattern) != len(segs) {
		return false
	}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			continue
		}
		if p != segs[i] {
			return false
		}
	}
	return true
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return []string{}
	}
	return strings.Split(p, "/")
}
