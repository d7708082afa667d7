package specifier

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"
)

// Operator is a PEP 440 comparison operator.
type Operator string

const (
	OpArbitrary    Operator = "==="
	OpCompatible   Operator = "~="
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpLessEqual    Operator = "<="
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpGreater      Operator = ">"
)

// operators is ordered so that no operator is shadowed by one of its prefixes.
var operators = []Operator{
	OpArbitrary, OpCompatible, OpEqual, OpNotEqual,
	OpLessEqual, OpGreaterEqual, OpLess, OpGreater,
}

// Clause is a single operator/version pair such as ">=2.28.0".
type Clause struct {
	Op      Operator
	Version string
}

func (c Clause) String() string {
	return string(c.Op) + c.Version
}

// Set is a comma-separated list of clauses. The zero value is the
// unconstrained specifier.
type Set []Clause

// String returns the canonical form: clauses sorted and joined by ",".
func (s Set) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// Parse parses a specifier string. The empty string yields an empty Set.
func Parse(spec string) (Set, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	parts := strings.Split(spec, ",")
	set := make(Set, 0, len(parts))
	for _, part := range parts {
		c, err := parseClause(part)
		if err != nil {
			return nil, err
		}
		set = append(set, c)
	}
	return set, nil
}

func parseClause(s string) (Clause, error) {
	s = strings.TrimSpace(s)
	for _, op := range operators {
		rest, ok := strings.CutPrefix(s, string(op))
		if !ok {
			continue
		}
		v := strings.TrimSpace(rest)
		if !validVersionToken(v, op) {
			return Clause{}, fmt.Errorf("invalid version %q in specifier clause %q", v, s)
		}
		return Clause{Op: op, Version: v}, nil
	}
	return Clause{}, fmt.Errorf("invalid specifier clause %q", s)
}

func validVersionToken(v string, op Operator) bool {
	if v == "" {
		return false
	}
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune(".*+!_-", r):
		case op == OpArbitrary && r > ' ' && r != ',':
		default:
			return false
		}
	}
	return true
}

// Canonical returns the canonical text of spec. Text that does not parse
// is returned trimmed but otherwise unchanged.
func Canonical(spec string) string {
	set, err := Parse(spec)
	if err != nil {
		return strings.TrimSpace(spec)
	}
	return set.String()
}

// Kind classifies a specifier for reconciliation purposes.
type Kind int

const (
	// Simple specifiers are empty or consist only of ">=" clauses.
	Simple Kind = iota
	// Complex specifiers contain any other clause, or do not parse.
	Complex
)

func (k Kind) String() string {
	if k == Simple {
		return "simple"
	}
	return "complex"
}

// Classify reports whether spec is Simple or Complex.
func Classify(spec string) Kind {
	set, err := Parse(spec)
	if err != nil {
		return Complex
	}
	for _, c := range set {
		if c.Op != OpGreaterEqual {
			return Complex
		}
	}
	return Simple
}

// IsSimple is shorthand for Classify(spec) == Simple.
func IsSimple(spec string) bool { return Classify(spec) == Simple }

// AllSimple reports whether every specifier in specs is Simple.
func AllSimple(specs map[string]string) bool {
	for _, s := range specs {
		if !IsSimple(s) {
			return false
		}
	}
	return true
}

// Minimum returns the highest version among the ">=" clauses of spec, or
// nil when there is no such clause.
func Minimum(spec string) *version.Version {
	set, err := Parse(spec)
	if err != nil {
		return nil
	}
	var best *version.Version
	for _, c := range set {
		if c.Op != OpGreaterEqual {
			continue
		}
		v, err := version.NewVersion(c.Version)
		if err != nil {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}
	return best
}

// MaxMinimum returns the highest Minimum across specs regardless of their
// classification, or nil when none of them has a lower bound. Keys are
// visited in sorted order so ties resolve deterministically.
func MaxMinimum(specs map[string]string) *version.Version {
	var best *version.Version
	for _, k := range slices.Sorted(maps.Keys(specs)) {
		v := Minimum(specs[k])
		if v != nil && (best == nil || v.GreaterThan(best)) {
			best = v
		}
	}
	return best
}

// HighestMinimum returns ">=" plus the highest lower bound across specs.
// It reports false when any specifier is Complex or when no specifier has
// a lower bound.
func HighestMinimum(specs map[string]string) (string, bool) {
	if !AllSimple(specs) {
		return "", false
	}
	best := MaxMinimum(specs)
	if best == nil {
		return "", false
	}
	return AtLeast(best), true
}

// AtLeast renders a ">=" specifier for v using its original spelling.
func AtLeast(v *version.Version) string {
	return string(OpGreaterEqual) + v.Original()
}
