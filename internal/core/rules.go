package core

import (
	"context"
	"fmt"

	"travelcore/pkg/domain"
)

// Severity captures rule outcomes.
type Severity string

const (
	// SeverityBlock fails the household and with it the pass.
	SeverityBlock Severity = "block"
	// SeverityWarn is reported but lets the pass continue.
	SeverityWarn Severity = "warn"
)

// Violation is one broken invariant found in a household graph.
type Violation struct {
	Rule     string
	Severity Severity
	Kind     string
	EntityID int
	Message  string
}

// Result aggregates rule violations.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking reports whether any violation blocks.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	HouseholdID int
	Result      Result
}

func (e RuleViolationError) Error() string {
	for _, v := range e.Result.Violations {
		if v.Severity == SeverityBlock {
			return fmt.Sprintf("household %d blocked by %s: %s", e.HouseholdID, v.Rule, v.Message)
		}
	}
	return fmt.Sprintf("household %d blocked by rules", e.HouseholdID)
}

// Rule checks a simulated household graph.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, hh HouseholdWrapper) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// NewDefaultRulesEngine builds an engine with the built-in graph rules.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(TripChainRule())
	engine.Register(HalfTourClosureRule())
	engine.Register(ParkingWindowRule())
	return engine
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the registered rule names in order.
func (e *RulesEngine) Rules() []string {
	names := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		names = append(names, r.Name())
	}
	return names
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, hh HouseholdWrapper) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, hh)
		if err != nil {
			return Result{}, fmt.Errorf("rule %s: %w", rule.Name(), err)
		}
		combined.Merge(res)
	}
	return combined, nil
}

// Check evaluates hh and turns blocking violations into a RuleViolationError.
// Non-blocking violations are returned with a nil error.
func (e *RulesEngine) Check(ctx context.Context, hh HouseholdWrapper) (Result, error) {
	res, err := e.Evaluate(ctx, hh)
	if err != nil {
		return Result{}, err
	}
	if res.HasBlocking() {
		return res, RuleViolationError{HouseholdID: hh.ID(), Result: res}
	}
	return res, nil
}

// eachTour visits every home-based tour and subtour of hh.
func eachTour(hh HouseholdWrapper, fn func(TourWrapper)) {
	for _, p := range hh.Persons() {
		for _, d := range p.PersonDays() {
			for _, t := range d.Tours() {
				fn(t)
				for _, sub := range t.Subtours() {
					fn(sub)
				}
			}
		}
	}
}

func halves(t TourWrapper) []HalfTourWrapper {
	var out []HalfTourWrapper
	for _, dir := range []domain.Direction{domain.DirectionOutbound, domain.DirectionReturn} {
		if h, err := t.HalfTour(dir); err == nil {
			out = append(out, h)
		}
	}
	return out
}
