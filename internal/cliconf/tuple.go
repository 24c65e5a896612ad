package cliconf

import (
	"fmt"
	"strconv"
	"strings"
)

// Tuple is the 4-tuple that drives run-command generation: iterate
// the step expression from Start until it exceeds Stop, substituting
// each value into Template.
type Tuple struct {
	Start    int
	Stop     int
	Template string
	Step     string
}

// Zero reports whether the tuple is the unset zero value.
func (t Tuple) Zero() bool {
	return t == Tuple{}
}

func (t Tuple) String() string {
	return fmt.Sprintf("%d, %d, '%s', '%s'", t.Start, t.Stop, t.Template, t.Step)
}

// TupleError reports a malformed run-command tuple. Field is the
// 1-based position of the offending element, 0 when the tuple as a
// whole is malformed.
type TupleError struct {
	Input string
	Field int
	Msg   string
}

func (e *TupleError) Error() string {
	if e.Field == 0 {
		return fmt.Sprintf("cliconf: malformed run-command tuple %q: %s", e.Input, e.Msg)
	}
	return fmt.Sprintf("cliconf: run-command tuple %q: field %d: %s", e.Input, e.Field, e.Msg)
}

// ParseTuple parses the textual tuple form
//
//	0, 8, 'srun -n %n', 'nidx + 1'
//
// into a Tuple. The first two fields must be integers, the last two
// quoted strings (single or double quotes). Optional surrounding
// parentheses are accepted.
func ParseTuple(input string) (Tuple, error) {
	s := strings.TrimSpace(input)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	fields, err := splitTuple(input, s)
	if err != nil {
		return Tuple{}, err
	}
	if len(fields) != 4 {
		return Tuple{}, &TupleError{
			Input: input,
			Msg:   fmt.Sprintf("a 4-tuple is expected, %d values provided", len(fields)),
		}
	}

	start, err := tupleInt(input, 1, fields[0])
	if err != nil {
		return Tuple{}, err
	}
	stop, err := tupleInt(input, 2, fields[1])
	if err != nil {
		return Tuple{}, err
	}
	tmpl, err := tupleString(input, 3, fields[2])
	if err != nil {
		return Tuple{}, err
	}
	step, err := tupleString(input, 4, fields[3])
	if err != nil {
		return Tuple{}, err
	}
	return Tuple{Start: start, Stop: stop, Template: tmpl, Step: step}, nil
}

// splitTuple splits s on commas that are not inside quotes.
func splitTuple(input, s string) ([]string, error) {
	var fields []string
	var cur strings.Builder
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
			cur.WriteByte(c)
		case c == ',':
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if quote != 0 {
		return nil, &TupleError{Input: input, Msg: "unterminated quoted string"}
	}
	if last := strings.TrimSpace(cur.String()); last != "" || len(fields) > 0 {
		fields = append(fields, last)
	}
	return fields, nil
}

func tupleInt(input string, field int, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &TupleError{Input: input, Field: field, Msg: "an integer is expected"}
	}
	return n, nil
}

func tupleString(input string, field int, raw string) (string, error) {
	if len(raw) < 2 {
		return "", &TupleError{Input: input, Field: field, Msg: "a quoted string is expected"}
	}
	open := raw[0]
	if (open != '\'' && open != '"') || raw[len(raw)-1] != open {
		return "", &TupleError{Input: input, Field: field, Msg: "a quoted string is expected"}
	}
	return raw[1 : len(raw)-1], nil
}

// tupleValue adapts Tuple to the pflag.Value interface.
type tupleValue struct {
	t Tuple
}

func (v *tupleValue) String() string {
	if v.t.Zero() {
		return ""
	}
	return v.t.String()
}

func (v *tupleValue) Set(s string) error {
	t, err := ParseTuple(s)
	if err != nil {
		return err
	}
	v.t = t
	return nil
}

func (v *tupleValue) Type() string { return "4TUP" }
