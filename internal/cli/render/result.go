package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/trebuchet-org/lspdecode/internal/adapters/abi"
	"github.com/trebuchet-org/lspdecode/internal/domain"
)

var (
	kindStyle      = color.New(color.FgMagenta, color.Bold)
	signatureStyle = color.New(color.FgWhite, color.Bold)
	selectorStyle  = color.New(color.Faint)
	namespaceStyle = color.New(color.FgBlue)
	typeStyle      = color.New(color.FgCyan)
	markerStyle    = color.New(color.FgYellow)
	docStyle       = color.New(color.Faint)
	messageStyle   = color.New(color.FgGreen)
)

var titleCase = cases.Title(language.English)

// ResultJSON is the machine readable shape of a decoded payload
type ResultJSON struct {
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Signature string    `json:"signature"`
	Selector  string    `json:"selector"`
	Namespace string    `json:"namespace,omitempty"`
	Args      []ArgJSON `json:"args"`
	Message   string    `json:"message,omitempty"`
}

// ArgJSON is one decoded argument. Big integers are decimal strings.
type ArgJSON struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Indexed bool   `json:"indexed,omitempty"`
	Hashed  bool   `json:"hashed,omitempty"`
	Value   any    `json:"value"`
	Doc     string `json:"doc,omitempty"`
}

// NewResultJSON converts a decoded result to its JSON shape
func NewResultJSON(r *domain.Result) ResultJSON {
	out := ResultJSON{
		Kind:      r.Definition.Kind.String(),
		Name:      r.Definition.Name,
		Signature: r.Definition.Signature,
		Selector:  r.Definition.Selector.Hex(),
		Namespace: r.Namespace,
		Args:      make([]ArgJSON, len(r.Args)),
		Message:   r.Message,
	}
	for i, a := range r.Args {
		out.Args[i] = ArgJSON{
			Name:    a.Name,
			Type:    a.Type,
			Indexed: a.Indexed,
			Hashed:  a.Hashed,
			Value:   abi.JSONValue(a.Value),
			Doc:     r.Definition.Docs.Params[a.Name],
		}
	}
	return out
}

// ResultRenderer renders a single decoded payload
type ResultRenderer struct {
	out  io.Writer
	json bool
}

// NewResultRenderer creates a new result renderer
func NewResultRenderer(out io.Writer, json bool) *ResultRenderer {
	return &ResultRenderer{out: out, json: json}
}

// Render writes the result as JSON or as a header, an argument table and the message
func (r *ResultRenderer) Render(result *domain.Result) error {
	if r.json {
		return writeJSON(r.out, NewResultJSON(result))
	}

	renderResult(r.out, result)
	return nil
}

func renderResult(out io.Writer, result *domain.Result) {
	def := result.Definition
	fmt.Fprintf(out, "%s %s %s\n",
		kindStyle.Sprint(titleCase.String(def.Kind.String())),
		signatureStyle.Sprint(def.Signature),
		selectorStyle.Sprint(def.Selector.Hex()))
	if result.Namespace != "" {
		fmt.Fprintf(out, "Namespace: %s\n", namespaceStyle.Sprint(result.Namespace))
	}

	if len(result.Args) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, argsTable(result))
	}

	if result.Message != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, messageStyle.Sprint(result.Message))
	}
}

// argsTable lays out name, type, value and param doc per argument
func argsTable(result *domain.Result) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingLeft:  "  ",
		PaddingRight: " ",
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft},
	})

	for _, a := range result.Args {
		typ := typeStyle.Sprint(a.Type)
		if a.Indexed {
			typ += markerStyle.Sprint(" indexed")
		}
		value := abi.FormatValue(a.Value)
		if a.Hashed {
			value += markerStyle.Sprint(" (hashed)")
		}
		t.AppendRow(table.Row{a.Name, typ, value, docStyle.Sprint(result.Definition.Docs.Params[a.Name])})
	}
	return t.Render()
}
