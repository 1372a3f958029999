package cli

import (
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/modmerge/pkg/output"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// colorDisabled decides plain output: the --no-color flag, NO_COLOR or
// CLICOLOR=0 in the environment, or output that is not a terminal
func colorDisabled(w io.Writer, noColor bool) bool {
	return noColor || termenv.EnvNoColor() || !isTerminal(w)
}

// formatBold returns the string formatted as bold using pterm
func formatBold(s string) string {
	if !isTerminal(os.Stdout) {
		return s
	}
	return pterm.Bold.Sprint(s)
}

// formatBoldUpper returns the string in uppercase and bold
func formatBoldUpper(s string) string {
	return formatBold(strings.ToUpper(s))
}

// initTemplateFormatting adds custom formatting functions to Cobra templates
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":      formatBold,
		"upper":     strings.ToUpper,
		"boldUpper": formatBoldUpper,
	})
}

// ReportError writes a failed command's error to w
func ReportError(w io.Writer, err error) {
	_ = output.NewRenderer(w, output.FormatText, colorDisabled(w, false)).RenderError(err)
}
