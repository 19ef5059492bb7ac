package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// render writes data as json or yaml, or calls table for the table format.
func render(w io.Writer, format string, data any, header []string, rows [][]string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(data)
	default:
		table := tablewriter.NewWriter(w)
		table.Header(toAny(header)...)
		for _, row := range rows {
			if err := table.Append(toAny(row)...); err != nil {
				return err
			}
		}
		return table.Render()
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

// truncate shortens long element values for table output.
func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func summary(w io.Writer, format string, pages, items int) {
	if format == "table" {
		fmt.Fprintf(w, "%d items in %d pages\n", items, pages)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
