// Package routes holds the app's page route table and the navigation guard
// that gates every transition between those pages.
package routes

import (
	"errors"
	"fmt"
	"strings"
)

// Well-known paths the guard redirects to.
const (
	LoginPath   = "/login"
	SignupPath  = "/signup"
	LandingPath = "/rental-store"
)

// ErrInvalidTable is wrapped by every table validation failure
var ErrInvalidTable = errors.New("invalid route table")

// Route describes one navigable view and its access requirement. Alias
// entries carry only Path and Redirect.
type Route struct {
	Path         string `yaml:"path" json:"path"`
	Name         string `yaml:"name,omitempty" json:"name,omitempty"`
	RequiresAuth bool   `yaml:"requiresAuth" json:"requires_auth"`
	Redirect     string `yaml:"redirect,omitempty" json:"redirect,omitempty"`
}

// IsAlias reports whether the route only forwards to another path
func (r Route) IsAlias() bool {
	return r.Redirect != ""
}

// Table is an immutable, validated set of routes keyed by path
type Table struct {
	routes []Route
	byPath map[string]Route
}

// DefaultRoutes is the app's built-in page table
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/", Redirect: LandingPath},
		{Path: LoginPath, Name: "Login", RequiresAuth: false},
		{Path: SignupPath, Name: "Signup", RequiresAuth: false},
		{Path: LandingPath, Name: "RentalStore", RequiresAuth: true},
		{Path: "/damage-report", Name: "DamageReport", RequiresAuth: true},
		{Path: "/orders", Name: "Orders", RequiresAuth: true},
		{Path: "/user-orders", Name: "UserOrders", RequiresAuth: true},
		{Path: "/profile", Name: "Profile", RequiresAuth: true},
	}
}

// Default returns the built-in table. It panics only if DefaultRoutes is
// edited into an invalid state.
func Default() *Table {
	t, err := NewTable(DefaultRoutes())
	if err != nil {
		panic(err)
	}
	return t
}

// NewTable validates routes and builds a table from them
func NewTable(routes []Route) (*Table, error) {
	byPath := make(map[string]Route, len(routes))
	for _, r := range routes {
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("%w: path %q must start with /", ErrInvalidTable, r.Path)
		}
		if _, dup := byPath[r.Path]; dup {
			return nil, fmt.Errorf("%w: duplicate path %q", ErrInvalidTable, r.Path)
		}
		if !r.IsAlias() && r.Name == "" {
			return nil, fmt.Errorf("%w: route %q has no name", ErrInvalidTable, r.Path)
		}
		byPath[r.Path] = r
	}

	for _, r := range routes {
		if !r.IsAlias() {
			continue
		}
		target, ok := byPath[r.Redirect]
		if !ok {
			return nil, fmt.Errorf("%w: alias %q points to unknown path %q", ErrInvalidTable, r.Path, r.Redirect)
		}
		if target.IsAlias() {
			return nil, fmt.Errorf("%w: alias %q points to another alias %q", ErrInvalidTable, r.Path, r.Redirect)
		}
	}

	for _, required := range []string{LoginPath, SignupPath, LandingPath} {
		r, ok := byPath[required]
		if !ok || r.IsAlias() {
			return nil, fmt.Errorf("%w: missing required route %q", ErrInvalidTable, required)
		}
	}

	// A protected login or signup page would redirect to itself forever
	for _, public := range []string{LoginPath, SignupPath} {
		if byPath[public].RequiresAuth {
			return nil, fmt.Errorf("%w: route %q must not require auth", ErrInvalidTable, public)
		}
	}

	return &Table{
		routes: append([]Route(nil), routes...),
		byPath: byPath,
	}, nil
}

// Lookup returns the route registered at path, aliases included
func (t *Table) Lookup(path string) (Route, bool) {
	r, ok := t.byPath[path]
	return r, ok
}

// Resolve looks up path and follows an alias to its target
func (t *Table) Resolve(path string) (Route, bool) {
	r, ok := t.byPath[path]
	if !ok {
		return Route{}, false
	}
	if r.IsAlias() {
		return t.byPath[r.Redirect], true
	}
	return r, true
}

// Routes returns a copy of the table in declaration order
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}
