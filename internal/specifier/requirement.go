package specifier

import (
	"fmt"
	"regexp"
	"strings"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?`)

// Requirement is a normalized PEP 508 dependency declaration.
type Requirement struct {
	// Name is the package name lowercased.
	Name      string
	Extras    []string
	Specifier string // canonical form, "" when unconstrained
	Marker    string
	URL       string
}

func (r Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		b.WriteString("[" + strings.Join(r.Extras, ",") + "]")
	}
	if r.URL != "" {
		b.WriteString(" @ " + r.URL)
	} else {
		b.WriteString(r.Specifier)
	}
	if r.Marker != "" {
		b.WriteString("; " + r.Marker)
	}
	return b.String()
}

// ParseRequirement parses a dependency string such as
// "requests[socks]>=2.28; python_version>='3.8'".
func ParseRequirement(s string) (Requirement, error) {
	s = strings.TrimSpace(s)
	name := namePattern.FindString(s)
	if name == "" {
		return Requirement{}, fmt.Errorf("invalid requirement %q: missing package name", s)
	}
	req := Requirement{Name: strings.ToLower(name)}
	rest := strings.TrimSpace(s[len(name):])

	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return Requirement{}, fmt.Errorf("invalid requirement %q: unterminated extras", s)
		}
		for _, e := range strings.Split(rest[1:end], ",") {
			e = strings.TrimSpace(e)
			if e == "" {
				continue
			}
			if namePattern.FindString(e) != e {
				return Requirement{}, fmt.Errorf("invalid requirement %q: bad extra %q", s, e)
			}
			req.Extras = append(req.Extras, e)
		}
		rest = strings.TrimSpace(rest[end+1:])
	}

	body, marker, hasMarker := strings.Cut(rest, ";")
	if hasMarker {
		req.Marker = strings.TrimSpace(marker)
		if req.Marker == "" {
			return Requirement{}, fmt.Errorf("invalid requirement %q: empty marker", s)
		}
	}
	body = strings.TrimSpace(body)

	switch {
	case strings.HasPrefix(body, "@"):
		req.URL = strings.TrimSpace(body[1:])
		if req.URL == "" {
			return Requirement{}, fmt.Errorf("invalid requirement %q: empty URL", s)
		}
		return req, nil
	case strings.HasPrefix(body, "("):
		if !strings.HasSuffix(body, ")") {
			return Requirement{}, fmt.Errorf("invalid requirement %q: unbalanced parentheses", s)
		}
		body = body[1 : len(body)-1]
	}

	set, err := Parse(body)
	if err != nil {
		return Requirement{}, fmt.Errorf("invalid requirement %q: %w", s, err)
	}
	req.Specifier = set.String()
	return req, nil
}

// NormalizeAll parses deps into a package → specifier map. Invalid entries
// and direct URL references are dropped; a package listed twice keeps its
// last specifier.
func NormalizeAll(deps []string) map[string]string {
	out := make(map[string]string, len(deps))
	for _, d := range deps {
		req, err := ParseRequirement(d)
		if err != nil || req.URL != "" {
			continue
		}
		out[req.Name] = req.Specifier
	}
	return out
}
