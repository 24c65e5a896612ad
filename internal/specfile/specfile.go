// Package specfile reads generate-specification files.
//
// A specification file is plain UTF-8 text. Lines ending in a
// backslash continue onto the next physical line. After joining and
// trimming, each logical line is one of:
//
//   - a directive ("# -..."): shell-style argument tokens that are
//     layered into the resolved arguments just before the next
//     generation line is yielded;
//   - a comment ("#...") or blank line: skipped;
//   - a generation line: yielded to the caller after ${VAR} expansion.
//
// Directives apply only to the generation line that follows them; the
// pending argument list is cleared after every yield. The reader is
// forward-only and consumed once; reopen the file for a second pass.
package specfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"sweepgen/internal/cliconf"
)

// directivePrefix marks a comment line carrying run-time arguments.
const directivePrefix = "# -"

// SyntaxError reports a malformed specification-file line. The line
// is carried verbatim.
type SyntaxError struct {
	Line string
	N    int // 1-based logical line number
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("specfile: line %d: %v: %q", e.N, e.Err, e.Line)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Reader yields generation lines from a specification file.
type Reader struct {
	scan     *bufio.Scanner
	log      *zap.Logger
	schema   *cliconf.Schema
	resolved *cliconf.Resolved
	argv     []string // process argv, re-overlaid on every directive

	pending []string
	lineno  int
}

// Option configures a Reader.
type Option func(*Reader)

// WithArgs binds an argument schema and its resolved values to the
// reader. Directive lines are parsed against the schema and layered
// into resolved before the following generation line is yielded;
// argv (the process command line, without the program name) is
// re-applied on top so explicit CLI flags always win.
func WithArgs(schema *cliconf.Schema, resolved *cliconf.Resolved, argv []string) Option {
	return func(r *Reader) {
		r.schema = schema
		r.resolved = resolved
		r.argv = argv
	}
}

// WithLogger sets the logger used for file banners.
func WithLogger(log *zap.Logger) Option {
	return func(r *Reader) { r.log = log }
}

// New returns a Reader over src.
func New(src io.Reader, opts ...Option) *Reader {
	r := &Reader{scan: bufio.NewScanner(src), log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open opens the specification file at path and logs its contents,
// mirroring the run log a batch job leaves behind.
func Open(path string, opts ...Option) (*Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("specfile: %w", err)
	}
	r := New(f, opts...)
	r.log.Info("reading generate specification file", zap.String("path", path))
	return r, f, nil
}

// Next returns the next generation line, or io.EOF when the file is
// exhausted. Any pending directive arguments are layered into the
// bound resolved arguments before the line is returned.
func (r *Reader) Next() (string, error) {
	for {
		line, err := r.logicalLine()
		if err != nil {
			return "", err
		}
		r.lineno++

		if strings.HasPrefix(line, directivePrefix) {
			if r.schema != nil {
				argline := expandShellVars(strings.TrimLeft(line, "# "))
				toks, err := shellquote.Split(argline)
				if err != nil {
					return "", &SyntaxError{Line: line, N: r.lineno, Err: err}
				}
				r.pending = append(r.pending, toks...)
			}
			continue
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if r.resolved != nil {
			explicit, err := cliconf.ExplicitValues(r.schema, r.pending)
			if err != nil {
				return "", &SyntaxError{Line: line, N: r.lineno, Err: err}
			}
			if err := r.resolved.Update(explicit, r.argv); err != nil {
				return "", &SyntaxError{Line: line, N: r.lineno, Err: err}
			}
		}
		r.pending = nil
		return expandShellVars(line), nil
	}
}

// All drains the reader, returning every remaining generation line.
func (r *Reader) All() ([]string, error) {
	var lines []string
	for {
		line, err := r.Next()
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
}

// logicalLine reads one logical line, joining physical lines that end
// with a backslash, and trims surrounding whitespace.
func (r *Reader) logicalLine() (string, error) {
	var parts []string
	for r.scan.Scan() {
		trimmed := strings.TrimRight(r.scan.Text(), " \t")
		if strings.HasSuffix(trimmed, "\\") {
			parts = append(parts, strings.TrimSpace(strings.TrimSuffix(trimmed, "\\")))
			continue
		}
		parts = append(parts, strings.TrimSpace(trimmed))
		return strings.TrimSpace(strings.Join(parts, " ")), nil
	}
	if err := r.scan.Err(); err != nil {
		return "", err
	}
	if len(parts) > 0 {
		// Trailing continuation at end of file; treat what we have
		// as the final logical line.
		return strings.TrimSpace(strings.Join(parts, " ")), nil
	}
	return "", io.EOF
}

var shellVarRE = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandShellVars replaces every ${NAME} reference with the value of
// the corresponding environment variable. Undefined variables expand
// to the empty string.
func expandShellVars(s string) string {
	return shellVarRE.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(m[2 : len(m)-1])
	})
}
