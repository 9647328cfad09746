package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/imamik/jenkins-stack/internal/stack"
)

// RenderOutputs formats outputs as an aligned two-column table in the
// canonical key order. Keys outside that order follow alphabetically.
func RenderOutputs(outputs stack.Outputs) string {
	width := 0
	for k := range outputs {
		if len(k) > width {
			width = len(k)
		}
	}

	var b strings.Builder
	for _, k := range orderedKeys(outputs) {
		key := fmt.Sprintf("%-*s", width, k)
		fmt.Fprintf(&b, "    %s  %s\n", keyStyle.Render(key), outputs[k])
	}
	return b.String()
}

func orderedKeys(outputs stack.Outputs) []string {
	known := make(map[string]bool, len(stack.OutputKeys))
	var keys []string
	for _, k := range stack.OutputKeys {
		known[k] = true
		if _, ok := outputs[k]; ok {
			keys = append(keys, k)
		}
	}

	var extra []string
	for k := range outputs {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}
