// Package experiment holds per-run experiment state and computes the
// templated output paths run data are flushed to.
//
// A Context is constructed once at process start and passed to every
// component that needs it. It is not synchronized: configure it during
// setup, before any worker goroutines start, and treat it as
// single-writer afterwards.
package experiment

import (
	"os"
	"strings"
)

// DefaultName is the experiment name before SetName is called.
const DefaultName = "unnamed-experiment"

// DefaultOutputTemplate is the output template before SetOutputTemplate
// is called: name/user/date/host/id.
const DefaultOutputTemplate = "%n/%u/%d/%h/%i"

// Context carries the experiment's name, base output path, and output
// template, plus the cached result of the last template expansion.
type Context struct {
	name           string
	outputPath     string
	outputTemplate string

	cache pathCache
}

// New returns a Context with the default name and template, rooted at
// the current working directory.
func New() *Context {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Context{
		name:           DefaultName,
		outputPath:     cwd,
		outputTemplate: DefaultOutputTemplate,
	}
}

// Name returns the experiment's name.
func (c *Context) Name() string { return c.name }

// SetName names the experiment. Leading and trailing whitespace is
// trimmed; an empty or all-whitespace name is rejected.
func (c *Context) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	c.name = name
	return nil
}

// OutputPath returns the experiment's base data output path.
func (c *Context) OutputPath() string { return c.outputPath }

// SetOutputPath sets the experiment's base data output path.
func (c *Context) SetOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyOutputPath
	}
	c.outputPath = path
	return nil
}

// OutputTemplate returns the template that determines the directory
// structure experiment data land in, relative to OutputPath.
func (c *Context) OutputTemplate() string { return c.outputTemplate }

// SetOutputTemplate sets the output template. See Expand for the
// recognized macros.
func (c *Context) SetOutputTemplate(tmpl string) error {
	if strings.TrimSpace(tmpl) == "" {
		return ErrEmptyTemplate
	}
	c.outputTemplate = tmpl
	return nil
}
