package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/arthur-debert/modmerge/pkg/logging"
	"github.com/arthur-debert/modmerge/pkg/output/styles"
	"gopkg.in/yaml.v3"
)

// Format selects how reports are written
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat reads a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown output format %q", s).
			WithDetail("format", s)
	}
}

// Renderer writes reports in one format. Text output is styled with the
// registry in pkg/output/styles unless noColor is set.
type Renderer struct {
	writer  io.Writer
	format  Format
	noColor bool
}

// NewRenderer creates a renderer writing to w
func NewRenderer(w io.Writer, format Format, noColor bool) *Renderer {
	logger := logging.GetLogger("output")
	logger.Debug().
		Str("format", string(format)).
		Bool("noColor", noColor).
		Msg("Creating renderer")
	return &Renderer{writer: w, format: format, noColor: noColor}
}

// RenderConflicts writes a conflict report
func (r *Renderer) RenderConflicts(report *ConflictReport) error {
	if r.format != FormatText {
		return r.encode(report)
	}

	if len(report.Packages) == 0 {
		return r.line(r.style("Success", "No conflicts"))
	}
	for i, pkg := range report.Packages {
		if i > 0 {
			if err := r.line(""); err != nil {
				return err
			}
		}
		header := r.style("Package", pkg.Name)
		if pkg.ID != pkg.Name {
			header += " " + r.style("Muted", "("+pkg.ID+")")
		}
		if err := r.line(header); err != nil {
			return err
		}
		for _, f := range pkg.Files {
			if err := r.line("  " + r.fileLine(f)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) fileLine(f FileConflicts) string {
	switch {
	case f.Allowed:
		return r.style("Path", f.Path) + " " + r.style("Allowed", "(allowed)")
	case len(f.Partners) == 0:
		return r.style("Path", f.Path)
	default:
		return r.style("Path", f.Path) + " " + r.style("Muted", "<->") + " " +
			r.style("Partner", strings.Join(f.Partners, ", "))
	}
}

// RenderMerge writes a consolidation summary
func (r *Renderer) RenderMerge(report *MergeReport) error {
	if r.format != FormatText {
		return r.encode(report)
	}

	lines := []string{
		r.style("Header", report.Name) + " " + r.style("Muted", fmt.Sprintf("(%s, version %s)", report.ID, report.Version)),
		"  from " + strings.Join(report.Sources, ", "),
	}
	if len(report.Tags) > 0 {
		lines = append(lines, "  tags "+strings.Join(report.Tags, ", "))
	}
	if report.Dir != "" {
		lines = append(lines, "  written to "+report.Dir)
	}
	lines = append(lines, fmt.Sprintf("  %d copied, %s, %s",
		len(report.Copied),
		r.style("Success", fmt.Sprintf("%d merged", len(report.Merged))),
		r.unresolvedCount(len(report.Unresolved))))
	for _, p := range report.Unresolved {
		lines = append(lines, "    "+r.style("Unresolved", p))
	}

	for _, l := range lines {
		if err := r.line(l); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) unresolvedCount(n int) string {
	text := fmt.Sprintf("%d unresolved", n)
	if n == 0 {
		return r.style("Muted", text)
	}
	return r.style("Unresolved", text)
}

// RenderError writes err
func (r *Renderer) RenderError(err error) error {
	if r.format != FormatText {
		return r.encode(map[string]string{"error": err.Error()})
	}
	return r.line(r.style("Error", "Error:") + " " + err.Error())
}

func (r *Renderer) encode(v interface{}) error {
	if r.format == FormatJSON {
		encoder := json.NewEncoder(r.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	}

	encoder := yaml.NewEncoder(r.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

func (r *Renderer) style(name, s string) string {
	if r.noColor {
		return s
	}
	return styles.GetStyle(name).Render(s)
}

func (r *Renderer) line(s string) error {
	_, err := fmt.Fprintln(r.writer, s)
	return err
}
