// Package datasink formats collected experiment data for downstream
// sinks. Only formatting lives here; transport to a broker or TSDB is
// the embedding application's concern.
package datasink

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Measurement is anything that can render itself as a line of a
// sink's line protocol.
type Measurement interface {
	Data() string
}

// InfluxMeasurement renders one InfluxDB line-protocol record:
//
//	measurement[,tag=value...] field=value[,field=value...] timestamp
//
// The timestamp is captured at construction, in nanoseconds.
type InfluxMeasurement struct {
	Name   string
	Values map[string]any
	Tags   map[string]string

	time int64
}

// NewInfluxMeasurement returns a measurement timestamped now. values
// must be non-empty; tags may be nil.
func NewInfluxMeasurement(name string, values map[string]any, tags map[string]string) *InfluxMeasurement {
	return &InfluxMeasurement{
		Name:   strings.TrimRight(name, "\n"),
		Values: values,
		Tags:   tags,
		time:   time.Now().Unix() * int64(time.Second),
	}
}

// escapeKey escapes the characters the line protocol reserves in
// measurement names, tag keys, and field keys.
func escapeKey(key string) string {
	key = strings.ReplaceAll(key, ",", `\,`)
	key = strings.ReplaceAll(key, " ", `\ `)
	key = strings.ReplaceAll(key, "=", `\=`)
	return key
}

// formatFieldValue renders a field value: strings are quoted, every
// other type uses its default rendering.
func formatFieldValue(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(v)
}

// formatTagValue renders a tag value; spaces become underscores.
func formatTagValue(v string) string {
	return strings.ReplaceAll(v, " ", "_")
}

func (m *InfluxMeasurement) fields() string {
	keys := make([]string, 0, len(m.Values))
	for k := range m.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", escapeKey(k), formatFieldValue(m.Values[k])))
	}
	return strings.Join(parts, ",")
}

func (m *InfluxMeasurement) tags() string {
	keys := make([]string, 0, len(m.Tags))
	for k := range m.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", escapeKey(k), formatTagValue(m.Tags[k])))
	}
	return strings.Join(parts, ",")
}

// Data renders the measurement as one line-protocol record,
// newline-terminated.
func (m *InfluxMeasurement) Data() string {
	tags := ""
	if len(m.Tags) > 0 {
		tags = "," + m.tags()
	}
	return fmt.Sprintf("%s%s %s %d\n", m.Name, tags, m.fields(), m.time)
}
