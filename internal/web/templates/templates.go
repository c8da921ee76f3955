// Package templates renders the HTML fragments swapped in by HTMX.
//
// Components are written in .templ files; run `templ generate` after editing
// them.
package templates

import (
	"fmt"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/pricebook/internal/core"
)

// DefaultMaxWarnings is how many row errors an import summary lists when
// no limit is given.
const DefaultMaxWarnings = 10

// ImportSummary renders the outcome of an import: counts, then at most
// maxWarnings row errors and a note on how many more there were.
func ImportSummary(result *core.ImportResult, maxWarnings int) templ.Component {
	if maxWarnings <= 0 {
		maxWarnings = DefaultMaxWarnings
	}
	return importSummary(result, maxWarnings)
}

func visibleWarnings(errs []string, limit int) []string {
	if len(errs) > limit {
		return errs[:limit]
	}
	return errs
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
