package cliconf

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
)

// Resolved maps flag names to their final values. After Resolve or
// Update returns, every declared flag has a concrete value; there are
// no unset sentinels to check for.
type Resolved struct {
	schema *Schema
	values map[string]any
}

// Resolve parses argv against the schema and returns the resulting
// values, with schema defaults filled in for flags not present.
func (s *Schema) Resolve(argv []string) (*Resolved, error) {
	fs := s.NewFlagSet("resolve")
	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	for _, f := range s.flags {
		if f.Required && !fs.Changed(f.Name) {
			return nil, fmt.Errorf("cliconf: required flag --%s not provided", f.Name)
		}
	}
	r := &Resolved{schema: s, values: make(map[string]any, len(s.flags))}
	for _, f := range s.flags {
		v, err := flagValue(fs, f)
		if err != nil {
			return nil, err
		}
		r.values[f.Name] = v
	}
	return r, nil
}

// Get returns the resolved value for name.
func (r *Resolved) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// String returns the resolved string value for name, or "" if name is
// not a declared string flag.
func (r *Resolved) String(name string) string {
	v, _ := r.values[name].(string)
	return v
}

// Int returns the resolved integer value for name.
func (r *Resolved) Int(name string) int {
	v, _ := r.values[name].(int)
	return v
}

// Bool returns the resolved boolean value for name.
func (r *Resolved) Bool(name string) bool {
	v, _ := r.values[name].(bool)
	return v
}

// RunCmds returns the resolved run-command tuple for name.
func (r *Resolved) RunCmds(name string) (Tuple, bool) {
	v, ok := r.values[name].(Tuple)
	return v, ok
}

// Update layers new values over the resolved arguments in place.
// First every value present in layer overwrites the current value;
// then every flag explicitly present in argv overwrites again. Net
// precedence: existing value < layer < explicit argv. Explicit
// presence is tracked per flag, so a flag whose type has a legitimate
// falsy value (0, "", false) still layers correctly.
func (r *Resolved) Update(layer map[string]any, argv []string) error {
	for name := range layer {
		if _, ok := r.schema.Lookup(name); !ok {
			return fmt.Errorf("cliconf: unknown configuration key %q", name)
		}
	}
	explicit, err := ExplicitValues(r.schema, argv)
	if err != nil {
		return err
	}
	for name := range r.values {
		f, _ := r.schema.Lookup(name)
		if v, ok := layer[name]; ok && v != nil {
			coerced, err := coerce(f, v)
			if err != nil {
				return err
			}
			r.values[name] = coerced
		}
		if v, ok := explicit[name]; ok {
			r.values[name] = v
		}
	}
	return nil
}

// ExplicitValues parses argv against a fresh materialization of the
// schema and returns only the flags the user actually supplied. This
// is the "all defaults nulled" re-parse: pflag records per-flag
// Changed state, so no default-valued flag can masquerade as an
// explicit one.
func ExplicitValues(s *Schema, argv []string) (map[string]any, error) {
	fs := s.NewFlagSet("explicit")
	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	out := make(map[string]any)
	var verr error
	fs.Visit(func(pf *pflag.Flag) {
		f, ok := s.Lookup(pf.Name)
		if !ok {
			return
		}
		v, err := flagValue(fs, f)
		if err != nil && verr == nil {
			verr = err
			return
		}
		out[f.Name] = v
	})
	return out, verr
}

func flagValue(fs *pflag.FlagSet, f *Flag) (any, error) {
	switch f.Kind {
	case KindString:
		return fs.GetString(f.Name)
	case KindInt:
		return fs.GetInt(f.Name)
	case KindBool:
		return fs.GetBool(f.Name)
	case KindRunCmds:
		pf := fs.Lookup(f.Name)
		if pf == nil {
			return nil, fmt.Errorf("cliconf: flag --%s not registered", f.Name)
		}
		return pf.Value.(*tupleValue).t, nil
	}
	return nil, fmt.Errorf("cliconf: flag --%s has unknown kind", f.Name)
}

// coerce converts a configuration-file value to the flag's declared
// type. YAML decoding is loosely typed, so a little latitude is
// allowed: integers may arrive as strings, tuples as their textual
// form.
func coerce(f *Flag, v any) (any, error) {
	switch f.Kind {
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	case KindInt:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			if n == float64(int(n)) {
				return int(n), nil
			}
		case string:
			if i, err := strconv.Atoi(n); err == nil {
				return i, nil
			}
		}
		return nil, fmt.Errorf("cliconf: %s: cannot use %v as an integer", f.Name, v)
	case KindBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			if p, err := strconv.ParseBool(b); err == nil {
				return p, nil
			}
		}
		return nil, fmt.Errorf("cliconf: %s: cannot use %v as a boolean", f.Name, v)
	case KindRunCmds:
		switch t := v.(type) {
		case Tuple:
			return t, nil
		case string:
			return ParseTuple(t)
		}
		return nil, fmt.Errorf("cliconf: %s: cannot use %v as a run-command tuple", f.Name, v)
	}
	return nil, fmt.Errorf("cliconf: %s: unknown kind", f.Name)
}
