package extract

import (
	"os"
	"strings"

	"github.com/bazelbuild/buildtools/build"

	"github.com/fbkclanna/workman/internal/metadata"
)

// SetupPy statically reads the setup() keyword arguments of a setup.py
// file. The file is never executed.
func SetupPy(path string) *metadata.Project {
	data, err := os.ReadFile(path) //nolint:gosec // path is a project file inside the workspace
	if err != nil {
		meta := metadata.New(metadata.SourceSetupPy)
		meta.Warnf("could not read (%v)", err)
		return meta
	}
	return ParseSetupPy(data)
}

// ParseSetupPy extracts packaging metadata from setup.py source. Only
// literal values are read; anything computed is reported as dynamic. A
// script that does not parse yields no fields at all.
func ParseSetupPy(src []byte) *metadata.Project {
	meta := metadata.New(metadata.SourceSetupPy)

	args, found, err := setupArgs(string(src))
	if err != nil {
		meta.Warnf("could not parse (%v)", err)
		return meta
	}
	if !found {
		meta.Warnf("no setup() call found")
		return meta
	}

	for _, arg := range args {
		if arg.keyword == "" {
			continue // positional, *args or **kwargs
		}
		readSetupArg(meta, arg.keyword, arg.value)
	}
	return meta
}

// setupKwarg is a keyword argument of the setup() call. Value is nil when
// the argument is not something the build parser can read as a literal.
type setupKwarg struct {
	keyword string
	value   build.Expr
}

// setupArgs returns the arguments of the first setup(...) call in src.
// Each value is parsed on its own, so a construct the build parser
// rejects only affects its own argument.
func setupArgs(src string) ([]setupKwarg, bool, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, false, err
	}
	if err := checkSyntax(toks); err != nil {
		return nil, false, err
	}
	from, to, ok := findCall(toks, "setup")
	if !ok {
		return nil, false, nil
	}
	var args []setupKwarg
	for _, arg := range callArgs(toks, from, to) {
		kw := setupKwarg{keyword: arg.keyword}
		if arg.keyword != "" {
			kw.value = parseValue(exprSource(src, arg.value))
		}
		args = append(args, kw)
	}
	return args, true, nil
}

// parseValue parses a single expression, returning nil if it is not one.
func parseValue(src string) build.Expr {
	if strings.TrimSpace(src) == "" {
		return nil
	}
	f, err := build.ParseDefault("setup.py", []byte(src))
	if err != nil || len(f.Stmt) != 1 {
		return nil
	}
	return f.Stmt[0]
}

func readSetupArg(meta *metadata.Project, key string, value build.Expr) {
	dynamic := func() { meta.Warnf("'%s' is dynamic, skipped", key) }

	switch key {
	case "name", "version", "description", "python_requires":
		s, ok := stringValue(value)
		if !ok {
			dynamic()
			return
		}
		switch key {
		case "name":
			meta.Name = &s
		case "version":
			meta.Version = &s
		case "description":
			meta.Description = &s
		default:
			meta.RequiresPython = &s
		}
	case "install_requires":
		list, ok := stringListValue(value)
		if !ok {
			dynamic()
			return
		}
		meta.Dependencies = list
	case "extras_require":
		groups, ok := stringListDict(value)
		if !ok {
			dynamic()
			return
		}
		meta.OptionalDependencies = groups
	case "entry_points":
		groups, ok := stringListDict(value)
		if !ok {
			dynamic()
			return
		}
		for _, entry := range groups["console_scripts"] {
			if name, target, found := strings.Cut(entry, "="); found {
				meta.EntryPoints[strings.TrimSpace(name)] = strings.TrimSpace(target)
			}
		}
	}
}

func stringValue(e build.Expr) (string, bool) {
	if p, ok := e.(*build.ParenExpr); ok {
		return stringValue(p.X)
	}
	s, ok := e.(*build.StringExpr)
	if !ok {
		return "", false
	}
	return s.Value, true
}

func stringListValue(e build.Expr) ([]string, bool) {
	var items []build.Expr
	switch v := e.(type) {
	case *build.ListExpr:
		items = v.List
	case *build.TupleExpr:
		items = v.List
	default:
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := stringValue(item)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func stringListDict(e build.Expr) (map[string][]string, bool) {
	dict, ok := e.(*build.DictExpr)
	if !ok {
		return nil, false
	}
	out := make(map[string][]string, len(dict.List))
	for _, kv := range dict.List {
		key, ok := stringValue(kv.Key)
		if !ok {
			return nil, false
		}
		list, ok := stringListValue(kv.Value)
		if !ok {
			return nil, false
		}
		out[key] = list
	}
	return out, true
}
