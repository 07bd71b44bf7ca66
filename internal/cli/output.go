package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

// emit writes v as indented JSON in --json mode, otherwise calls text.
func (a *app) emit(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	if a.flags.jsonMode {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(cmd.OutOrStdout())
	return nil
}

// emitList prints one item per line, or a JSON array.
func (a *app) emitList(cmd *cobra.Command, items []string) error {
	if items == nil {
		items = []string{}
	}
	return a.emit(cmd, items, func(w io.Writer) {
		for _, it := range items {
			fmt.Fprintln(w, it)
		}
	})
}

// stepIndex parses a 1-based step number into a 0-based index.
func stepIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, usagef("step number must be a positive integer, got %q", s)
	}
	return n - 1, nil
}
