package resize

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nsize/pkg/errors"
)

// Status tags an [Outcome].
type Status int

const (
	// Failed means no plan was produced; Outcome.Err says why.
	Failed Status = iota
	// Unchanged means the strategy resolved the problem without changing
	// any size.
	Unchanged
	// Changed means Outcome.Plan holds a nonempty plan.
	Changed
)

func (s Status) String() string {
	switch s {
	case Failed:
		return "failed"
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome is the result of resolving a [Problem].
type Outcome struct {
	Status Status
	Plan   *Plan
	Err    error
}

// Strategy resolves a problem into an outcome. Strategies compose by
// wrapping: a strategy that cannot resolve a problem hands it to its
// fallback.
type Strategy interface {
	Resolve(p *Problem) Outcome
}

// StrategyFunc adapts a function to [Strategy].
type StrategyFunc func(p *Problem) Outcome

// Resolve implements [Strategy].
func (f StrategyFunc) Resolve(p *Problem) Outcome { return f(p) }

type policyStrategy struct {
	policy   Policy
	fallback Strategy
}

func (s policyStrategy) Resolve(p *Problem) Outcome {
	plan, err := p.Solve(s.policy)
	if err == nil {
		if plan.Empty() {
			return Outcome{Status: Unchanged, Plan: plan}
		}
		return Outcome{Status: Changed, Plan: plan}
	}
	if s.fallback == nil || !errors.Is(err, errors.ErrCodeSizeChangeInfeasible) {
		return Outcome{Status: Failed, Err: err}
	}
	return s.fallback.Resolve(p)
}

// Exact realizes every request exactly or hands the problem to fallback.
// A nil fallback fails with the solver's error.
func Exact(fallback Strategy) Strategy {
	return policyStrategy{policy: ExactPolicy, fallback: fallback}
}

// Relaxed realizes the nearest feasible deltas (see [Relax]) or hands the
// problem to fallback.
func Relaxed(fallback Strategy) Strategy {
	return policyStrategy{policy: RelaxedPolicy, fallback: fallback}
}

// Fail always fails with a SIZE_CHANGE_INFEASIBLE error carrying msg.
func Fail(msg string) Strategy {
	return StrategyFunc(func(p *Problem) Outcome {
		return Outcome{
			Status: Failed,
			Err:    errors.New(errors.ErrCodeSizeChangeInfeasible, "%s: %s", msg, p),
		}
	})
}

// NoOp resolves every problem by changing nothing.
func NoOp() Strategy {
	return StrategyFunc(func(*Problem) Outcome {
		return Outcome{Status: Unchanged}
	})
}

// Logged emits msg at level, then delegates to next. When next realizes
// different deltas than requested, the realized change is logged as well.
// A nil logger uses log.Default().
func Logged(logger *log.Logger, level log.Level, msg string, next Strategy) Strategy {
	return StrategyFunc(func(p *Problem) Outcome {
		l := logger
		if l == nil {
			l = log.Default()
		}
		l.Log(level, msg, "requests", p.String())

		out := next.Resolve(p)
		if out.Status == Changed && out.Plan.Relaxed() {
			l.Log(level, "relaxed size change",
				"requested", out.Plan.Requested, "realized", out.Plan.Realized, "plan", out.Plan.String())
		}
		return out
	})
}

// Default tries the exact change; failing that it warns and relaxes, and
// fails only if even the relaxed change is impossible.
func Default() Strategy {
	return Exact(Logged(nil, log.WarnLevel, "could not change size exactly, relaxing constraints",
		Relaxed(Fail("no feasible size change"))))
}

// ExactOrFail realizes the exact change or fails without changing anything.
func ExactOrFail() Strategy {
	return Exact(Fail("size change not realizable"))
}

// ExactOrNoOp realizes the exact change or silently changes nothing.
func ExactOrNoOp() Strategy {
	return Exact(NoOp())
}
