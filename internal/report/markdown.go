package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sistemamedi/medupload/internal/model"
)

// MarkdownWriter outputs upload reports in Markdown format for sharing
// in tickets and chats. It is not safe for concurrent use.
type MarkdownWriter struct {
	baseWriter

	// title capitalizes metadata keys ("pages" -> "Pages").
	title cases.Caser
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		title:      cases.Title(language.Und),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.UploadReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	for i := range report.Results {
		w.writeResult(md, &report.Results[i])
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report title and run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.UploadReport) {
	md.H1("Upload Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Endpoint", "`" + report.Endpoint + "`"},
			{"Date", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Files", strconv.Itoa(len(report.Results))},
		},
	})
	md.PlainText("")
}

// writeSummary writes one row per file and an alert for failures.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.UploadReport) {
	md.H2("Summary")
	md.PlainText("")

	rows := make([][]string, len(report.Results))
	for i := range report.Results {
		r := &report.Results[i]
		rows[i] = []string{
			displayName(r),
			dash(r.File.Type),
			formatSize(r.File.Size),
			statusText(r),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"File", "Type", "Size", "Result"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(report.Results) > 1 {
		w.writePieChart(md, report)
	}

	switch {
	case report.HasFailures():
		md.Cautionf("%d of %d upload(s) failed.", report.FailedCount(), len(report.Results))
	case len(report.Results) == 0:
		md.Note("No files were submitted.")
	default:
		md.Tip("All uploads were accepted by the server.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of succeeded and failed uploads.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.UploadReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Upload Results"),
		piechart.WithShowData(true),
	)
	if n := report.SucceededCount(); n > 0 {
		chart.LabelAndIntValue("Succeeded", uint64(n))
	}
	if n := report.FailedCount(); n > 0 {
		chart.LabelAndIntValue("Failed", uint64(n))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeResult writes the section of one upload.
func (w *MarkdownWriter) writeResult(md *markdown.Markdown, r *model.UploadResult) {
	md.H2(displayName(r))
	md.PlainText("")

	rows := [][]string{{"State", statusText(r)}}
	if r.RequestID != "" {
		rows = append(rows, []string{"Request ID", "`" + r.RequestID + "`"})
	}
	if r.Fingerprint != "" {
		rows = append(rows, []string{"SHA3-256", "`" + r.Fingerprint + "`"})
	}
	if r.Duration > 0 {
		rows = append(rows, []string{"Duration", r.Duration.Round(time.Millisecond).String()})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if r.Error != "" {
		md.Warning(r.Error)
		md.PlainText("")
	}

	if resp := r.Response; resp != nil {
		switch {
		case resp.IsRejected():
			md.Important("Server rejected the file: " + resp.DetailText())
			md.PlainText("")
		case resp.Type != "" || len(resp.Metadata) > 0:
			w.writeResponseTable(md, resp)
		}
	}

	if r.Succeeded() {
		md.H3("Response")
		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlightJSON, r.Text)
		md.PlainText("")
	}
}

// writeResponseTable writes the detected type and metadata of a reply.
func (w *MarkdownWriter) writeResponseTable(md *markdown.Markdown, resp *model.UploadResponse) {
	rows := make([][]string, 0, len(resp.Metadata)+3)
	if resp.Type != "" {
		rows = append(rows, []string{"Type", resp.Type})
	}
	if resp.Size > 0 {
		rows = append(rows, []string{"Size", formatSize(resp.Size)})
	}
	if resp.UUID != "" {
		rows = append(rows, []string{"UUID", "`" + resp.UUID + "`"})
	}

	keys := make([]string, 0, len(resp.Metadata))
	for k := range resp.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, []string{w.title.String(k), formatValue(resp.Metadata[k])})
	}

	md.H3("Detected")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Field", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by medupload*")
}

// statusText returns the result column of r.
func statusText(r *model.UploadResult) string {
	switch {
	case r.Succeeded() && r.Status >= 400:
		return fmt.Sprintf("⚠️ Rejected (HTTP %d)", r.Status)
	case r.Succeeded():
		return fmt.Sprintf("✅ Accepted (HTTP %d)", r.Status)
	case r.State == "idle":
		return "➖ No file"
	default:
		return "❌ Failed"
	}
}

// formatSize renders a byte count with a binary unit.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " B"
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// formatValue renders a metadata value for a table cell.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case []any:
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = formatValue(item)
		}
		return truncateString(strings.Join(items, ", "), 80)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return truncateString(fmt.Sprint(val), 80)
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
