package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/trebuchet-org/lspdecode/internal/domain"
)

// RenderError prints err to out. Ambiguous selectors list every candidate
// with the namespaces that would pick it.
func RenderError(out io.Writer, err error) {
	var ambiguous domain.AmbiguousSelectorError
	if !errors.As(err, &ambiguous) {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(out, "Error: multiple %ss match selector %s", ambiguous.Kind, ambiguous.Selector.Hex())
	if ambiguous.Namespace != "" {
		fmt.Fprintf(out, " and namespace %q does not resolve it", ambiguous.Namespace)
	}
	fmt.Fprintln(out)
	for _, c := range ambiguous.Candidates {
		fmt.Fprintf(out, "  - %s (%s)\n", signatureStyle.Sprint(c.Layout()), namespaceStyle.Sprint(strings.Join(c.Namespaces, ", ")))
	}
	fmt.Fprintln(out, "Retry with --namespace <name> or --contract <address> to pick one.")
}
