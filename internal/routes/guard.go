package routes

// Action is the outcome of a guarded navigation
type Action string

const (
	Proceed  Action = "proceed"
	Redirect Action = "redirect"
)

// Decision tells the caller whether to continue to the requested route or
// substitute Target for it.
type Decision struct {
	Action Action `json:"action"`
	Target string `json:"target"`
}

func proceed(path string) Decision {
	return Decision{Action: Proceed, Target: path}
}

func redirect(path string) Decision {
	return Decision{Action: Redirect, Target: path}
}

// Decide applies the access rules to a single transition. The first
// matching rule wins:
//
//  1. protected destination without authentication goes to the login page
//  2. an authenticated visit to login or signup goes to the landing page
//  3. everything else proceeds unchanged
//
// from is accepted to mirror the navigation hook; no rule depends on it.
func Decide(to, from Route, authenticated bool) Decision {
	if to.RequiresAuth && !authenticated {
		return redirect(LoginPath)
	}
	if authenticated && (to.Path == LoginPath || to.Path == SignupPath) {
		return redirect(LandingPath)
	}
	return proceed(to.Path)
}

// Guard evaluates navigations against a route table
type Guard struct {
	table *Table
}

// NewGuard builds a guard over table
func NewGuard(table *Table) *Guard {
	return &Guard{table: table}
}

// Table returns the guard's route table
func (g *Guard) Table() *Table {
	return g.table
}

// Navigate decides a transition from fromPath to toPath. Aliases resolve
// before the rules run; landing on an alias that is otherwise allowed
// becomes a redirect to its target. known is false for paths absent from
// the table, which are treated as public.
func (g *Guard) Navigate(toPath, fromPath string, authenticated bool) (d Decision, known bool) {
	from, _ := g.table.Resolve(fromPath)

	to, known := g.table.Resolve(toPath)
	if !known {
		return Decide(Route{Path: toPath}, from, authenticated), false
	}

	d = Decide(to, from, authenticated)
	if d.Action == Proceed && to.Path != toPath {
		return redirect(to.Path), true
	}
	return d, true
}
