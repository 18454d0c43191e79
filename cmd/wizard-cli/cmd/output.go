package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nfrund/coursewizard/internal/modules/wizard"
)

var titleCaser = cases.Title(language.English)

// stateLabel renders a module state for people, e.g. "Ready (Unverified)".
func stateLabel(s wizard.State) string {
	return titleCaser.String(s.String())
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkFormat() error {
	switch outputFormat {
	case "table", "json":
		return nil
	default:
		return fmt.Errorf("invalid format %q: use table or json", outputFormat)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
