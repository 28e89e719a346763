package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/facturapp/billing-system/internal/client/privilege"
	"github.com/facturapp/billing-system/internal/core/domain"
)

var (
	// ErrEmptyRequirement rejects gates declared without any permission.
	// The original console silently granted access in that case; here an
	// unguarded screen is a wiring bug surfaced at startup.
	ErrEmptyRequirement = errors.New("permission gate requires at least one permission")
	// ErrUnknownPermission rejects names outside the canonical enumeration.
	ErrUnknownPermission = errors.New("unknown permission")
)

// Mode selects how a multi-permission requirement combines.
type Mode int

const (
	// ModeAll grants only when every listed permission is held.
	ModeAll Mode = iota
	// ModeAny grants when at least one listed permission is held.
	ModeAny
)

// Requirement is a validated permission demand for one screen subtree.
type Requirement struct {
	names []string
	mode  Mode
}

// NewRequirement validates and builds a requirement. Empty requirements and
// unknown permission names are construction errors.
func NewRequirement(mode Mode, names ...string) (Requirement, error) {
	if len(names) == 0 {
		return Requirement{}, ErrEmptyRequirement
	}
	for _, name := range names {
		if !domain.IsPermission(name) {
			return Requirement{}, fmt.Errorf("%w: %s", ErrUnknownPermission, name)
		}
	}
	return Requirement{names: names, mode: mode}, nil
}

// RequirePermission is the single-permission shorthand.
func RequirePermission(name string) (Requirement, error) {
	return NewRequirement(ModeAll, name)
}

// MustRequire is RequirePermission for static wiring; it panics on invalid
// input, which is the point: bad requirements die at startup.
func MustRequire(names ...string) Requirement {
	req, err := NewRequirement(ModeAll, names...)
	if err != nil {
		panic(err)
	}
	return req
}

// Outcome is what the permission gate tells the shell to render.
type Outcome int

const (
	// OutcomeLoading: the privilege fetch is in flight, show a placeholder.
	OutcomeLoading Outcome = iota
	// OutcomeUnavailable: no matrix is cached — infrastructure failure,
	// not policy denial. Offer the Retry action.
	OutcomeUnavailable
	// OutcomeDenied: the matrix is loaded and the requirement is unmet.
	OutcomeDenied
	// OutcomeGranted: render the guarded subtree.
	OutcomeGranted
)

// Result carries the outcome plus, when denied, the human-readable labels of
// the permissions still missing.
type Result struct {
	Outcome Outcome
	Missing []string
}

// PermissionGate evaluates one requirement against the privilege cache.
type PermissionGate struct {
	cache       *privilege.Cache
	requirement Requirement
}

func NewPermissionGate(cache *privilege.Cache, requirement Requirement) *PermissionGate {
	return &PermissionGate{cache: cache, requirement: requirement}
}

// Evaluate reads the cache fresh and decides what to render, in the fixed
// order loading → unavailable → denied/granted.
func (g *PermissionGate) Evaluate() Result {
	if g.cache.Loading() {
		return Result{Outcome: OutcomeLoading}
	}
	if g.cache.Set() == nil {
		return Result{Outcome: OutcomeUnavailable}
	}

	satisfied := false
	switch g.requirement.mode {
	case ModeAny:
		satisfied = g.cache.HasAny(g.requirement.names)
	default:
		satisfied = g.cache.HasAll(g.requirement.names)
	}
	if satisfied {
		return Result{Outcome: OutcomeGranted}
	}

	missing := make([]string, 0, len(g.requirement.names))
	for _, name := range g.requirement.names {
		if !g.cache.Has(name) {
			missing = append(missing, domain.PermissionLabel(name))
		}
	}
	return Result{Outcome: OutcomeDenied, Missing: missing}
}

// Retry is the manual reload action the unavailable view offers.
func (g *PermissionGate) Retry(ctx context.Context) {
	g.cache.Refresh(ctx)
}
