// Package cliconf declares argument schemas for run scripts and
// resolves final argument values by layering schema defaults,
// configuration-file values, and explicit command-line overrides.
//
// Precedence, lowest to highest: schema default, configuration-file
// value, explicit command-line value. A configuration file sets the
// baseline for an experiment; an operator can always override it from
// the command line without editing the file.
package cliconf

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Kind enumerates the value types a schema flag can carry.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindRunCmds
)

// Flag is one declared argument.
type Flag struct {
	Name      string
	Shorthand string
	Kind      Kind
	Default   any
	Required  bool
	Help      string
}

// Schema is an ordered set of flag declarations. Declare flags once at
// construction time; the schema is immutable during resolution.
type Schema struct {
	flags  []*Flag
	byName map[string]*Flag
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{byName: make(map[string]*Flag)}
}

func (s *Schema) add(f *Flag) {
	if _, dup := s.byName[f.Name]; dup {
		panic(fmt.Sprintf("cliconf: duplicate flag %q", f.Name))
	}
	s.flags = append(s.flags, f)
	s.byName[f.Name] = f
}

// String declares a string flag.
func (s *Schema) String(name, shorthand, def, help string) {
	s.add(&Flag{Name: name, Shorthand: shorthand, Kind: KindString, Default: def, Help: help})
}

// Int declares an integer flag.
func (s *Schema) Int(name, shorthand string, def int, help string) {
	s.add(&Flag{Name: name, Shorthand: shorthand, Kind: KindInt, Default: def, Help: help})
}

// Bool declares a boolean flag.
func (s *Schema) Bool(name, shorthand string, def bool, help string) {
	s.add(&Flag{Name: name, Shorthand: shorthand, Kind: KindBool, Default: def, Help: help})
}

// RunCmds declares a run-command 4-tuple flag.
func (s *Schema) RunCmds(name, shorthand string, def Tuple, help string) {
	s.add(&Flag{Name: name, Shorthand: shorthand, Kind: KindRunCmds, Default: def, Help: help})
}

// Flags returns the declarations in declaration order.
func (s *Schema) Flags() []*Flag { return s.flags }

// Lookup returns the declaration for name, if any.
func (s *Schema) Lookup(name string) (*Flag, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// NewFlagSet materializes a fresh pflag.FlagSet from the schema.
// Each resolution pass parses into its own FlagSet, so parse state
// never leaks between passes.
func (s *Schema) NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	for _, f := range s.flags {
		switch f.Kind {
		case KindString:
			fs.StringP(f.Name, f.Shorthand, f.Default.(string), f.Help)
		case KindInt:
			fs.IntP(f.Name, f.Shorthand, f.Default.(int), f.Help)
		case KindBool:
			fs.BoolP(f.Name, f.Shorthand, f.Default.(bool), f.Help)
		case KindRunCmds:
			fs.VarP(&tupleValue{t: f.Default.(Tuple)}, f.Name, f.Shorthand, f.Help)
		}
	}
	return fs
}

// DefaultSchema returns the canned flag set common to most run
// scripts: CSV output name, description, executable, input file,
// experiment name, and the run-command tuple.
func DefaultSchema() *Schema {
	s := NewSchema()
	s.String("csv-output", "o", "", "Names the generated CSV file produced by a run.")
	s.String("description", "d", "", "Describes the experiment.")
	s.String("executable", "e", "", "Specifies the executable's path.")
	s.String("input", "i", "", "Specifies the path to an experiment input file.")
	s.String("name", "n", "", "Names the experiment.")
	s.RunCmds("runcmds", "", Tuple{},
		"Specifies the 4-tuple used to generate run commands, "+
			"e.g. \"0, 8, 'srun -n %n', 'nidx + 1'\".")
	return s
}
