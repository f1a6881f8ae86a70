// Package filter decides which workspaces the panel, tray, switchers and
// notifications show.
package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cpuguy83/way-shell/internal/config"
	"github.com/cpuguy83/way-shell/internal/wm"
)

// Filter applies include and exclude rules to workspaces.
// Exclude rules always win over include rules.
type Filter struct {
	all      bool // "and" mode: every include rule must match
	includes []rule
	excludes []rule
}

type rule struct {
	field func(wm.Workspace) string
	match func(string) bool
}

func (r rule) matches(w wm.Workspace) bool {
	return r.match(r.field(w))
}

var fields = map[string]func(wm.Workspace) string{
	"name":   func(w wm.Workspace) string { return w.Name },
	"output": func(w wm.Workspace) string { return w.Output },
}

// New compiles the configured rules.
func New(cfg config.FilterConfig) (*Filter, error) {
	f := &Filter{}
	switch cfg.Mode {
	case "", "or":
	case "and":
		f.all = true
	default:
		return nil, fmt.Errorf("invalid filter mode %q", cfg.Mode)
	}

	for i, r := range cfg.Rules {
		compiled, err := compileRule(r)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		if r.Exclude {
			f.excludes = append(f.excludes, compiled)
		} else {
			f.includes = append(f.includes, compiled)
		}
	}

	return f, nil
}

func compileRule(r config.FilterRule) (rule, error) {
	field, ok := fields[r.Field]
	if !ok {
		return rule{}, fmt.Errorf("unknown field %q (use name or output)", r.Field)
	}

	if r.Regex != "" {
		pattern := r.Regex
		if r.CaseInsensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return rule{}, fmt.Errorf("invalid regex %q: %w", r.Regex, err)
		}
		return rule{field: field, match: re.MatchString}, nil
	}

	var (
		pattern string
		op      func(s, pattern string) bool
	)
	switch {
	case r.Exact != "":
		pattern, op = r.Exact, func(s, p string) bool { return s == p }
	case r.Prefix != "":
		pattern, op = r.Prefix, strings.HasPrefix
	case r.Suffix != "":
		pattern, op = r.Suffix, strings.HasSuffix
	case r.Contains != "":
		pattern, op = r.Contains, strings.Contains
	default:
		return rule{}, errors.New("no match pattern specified (use contains, exact, prefix, suffix, or regex)")
	}

	if r.CaseInsensitive {
		pattern = strings.ToLower(pattern)
		return rule{field: field, match: func(s string) bool { return op(strings.ToLower(s), pattern) }}, nil
	}
	return rule{field: field, match: func(s string) bool { return op(s, pattern) }}, nil
}

// Apply returns the workspaces that pass the rules, preserving order.
// If no rules are defined, ws is returned unchanged.
func (f *Filter) Apply(ws []wm.Workspace) []wm.Workspace {
	if f == nil || (len(f.includes) == 0 && len(f.excludes) == 0) {
		return ws
	}

	var filtered []wm.Workspace
	for _, w := range ws {
		if f.Match(w) {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

// Match reports whether a single workspace passes the rules.
func (f *Filter) Match(w wm.Workspace) bool {
	if f == nil {
		return true
	}
	for _, r := range f.excludes {
		if r.matches(w) {
			return false
		}
	}
	if len(f.includes) == 0 {
		return true
	}

	for _, r := range f.includes {
		if r.matches(w) != f.all {
			// "or": first hit passes. "and": first miss fails.
			return !f.all
		}
	}
	return f.all
}
