// Package reporter renders scan and clean results for the terminal and
// for machine consumption.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/cleanser/internal/cleaner"
	"github.com/fenilsonani/cleanser/internal/scanner"
	"github.com/fenilsonani/cleanser/internal/ui/styles"
	"github.com/fenilsonani/cleanser/pkg/utils"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatSummary OutputFormat = "summary"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
)

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
	color  bool
}

// New creates a new Reporter. color selects styled terminal output for
// the summary format; structured formats are never styled.
func New(writer io.Writer, format OutputFormat, color bool) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
		color:  color,
	}
}

// ReportScan renders a scan result
func (r *Reporter) ReportScan(result *scanner.ScanResult) error {
	switch r.format {
	case FormatJSON:
		return r.scanJSON(result)
	case FormatYAML:
		return r.scanYAML(result)
	case FormatSummary:
		return r.scanSummary(result)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) styled(style func(...string) string, s string) string {
	if !r.color {
		return s
	}
	return style(s)
}

func (r *Reporter) scanSummary(result *scanner.ScanResult) error {
	title := fmt.Sprintf("Found %d items, %s reclaimable",
		len(result.Items), utils.FormatBytes(result.TotalSize))
	fmt.Fprintln(r.writer, r.styled(styles.TitleStyle.Render, title))

	grouped := result.GroupByCategory()
	categories := make([]scanner.Category, 0, len(grouped))
	for category := range grouped {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return groupSize(grouped[categories[i]]) > groupSize(grouped[categories[j]])
	})

	for _, category := range categories {
		items := grouped[category]
		size := groupSize(items)
		risk := scanner.RiskFor(category)

		line := fmt.Sprintf("  %-24s %4d items  %10s  %s",
			category.DisplayName(), len(items), utils.FormatBytes(size), risk)
		if r.color {
			line = fmt.Sprintf("  %-24s %4d items  %10s  %s",
				styles.CategoryStyle.Render(category.DisplayName()),
				len(items),
				styles.FileSizeStyle.Render(utils.FormatBytes(size)),
				styles.RiskStyle(risk).Render(risk.String()))
		}
		fmt.Fprintln(r.writer, line)
	}

	if len(result.DuplicateGroups) > 0 {
		fmt.Fprintf(r.writer, "\n  %d duplicate groups detected\n", len(result.DuplicateGroups))
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintf(r.writer, "\n%s\n",
			r.styled(styles.WarningStyle.Render, fmt.Sprintf("%d paths could not be scanned", len(result.Warnings))))
		for _, warning := range result.Warnings {
			fmt.Fprintf(r.writer, "  %s\n", r.styled(styles.DimStyle.Render, warning))
		}
	}
	return nil
}

func groupSize(items []scanner.ScanItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Size
	}
	return total
}

func (r *Reporter) scanJSON(result *scanner.ScanResult) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func (r *Reporter) scanYAML(result *scanner.ScanResult) error {
	report := struct {
		GeneratedAt        string             `yaml:"generated_at"`
		TotalItems         int                `yaml:"total_items"`
		TotalSize          int64              `yaml:"total_size_bytes"`
		TotalSizeFormatted string             `yaml:"total_size_formatted"`
		Items              []scanner.ScanItem `yaml:"items"`
		Warnings           []string           `yaml:"warnings,omitempty"`
	}{
		GeneratedAt:        result.GeneratedAt.Format(time.RFC3339),
		TotalItems:         len(result.Items),
		TotalSize:          result.TotalSize,
		TotalSizeFormatted: utils.FormatBytes(result.TotalSize),
		Items:              result.Items,
		Warnings:           result.Warnings,
	}

	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(report)
}

// ReportClean renders a clean report
func (r *Reporter) ReportClean(report *cleaner.CleanReport) error {
	switch r.format {
	case FormatJSON:
		return r.cleanJSON(report)
	case FormatYAML:
		return r.cleanYAML(report)
	case FormatSummary:
		return r.cleanSummary(report)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) cleanSummary(report *cleaner.CleanReport) error {
	headline := fmt.Sprintf("Freed %s across %d items",
		utils.FormatBytes(report.BytesFreed), len(report.Attempted))
	if report.DryRun {
		headline = fmt.Sprintf("Would free %s across %d items",
			utils.FormatBytes(report.EstimatedBytes()), len(report.Attempted))
	}
	fmt.Fprintln(r.writer, r.styled(styles.SuccessStyle.Render, headline))

	if failed := report.Failed(); failed > 0 {
		fmt.Fprintln(r.writer, r.styled(styles.ErrorStyle.Render,
			fmt.Sprintf("%d items could not be deleted", failed)))
		for reason, errs := range cleaner.GroupErrors(report.Errors()) {
			fmt.Fprintf(r.writer, "  %s: %d\n", reason, len(errs))
			for _, err := range errs {
				fmt.Fprintf(r.writer, "    %s\n", r.styled(styles.DimStyle.Render, err.Path))
			}
		}
	}
	return nil
}

type cleanOutcome struct {
	Path   string `json:"path" yaml:"path"`
	Size   int64  `json:"size_bytes" yaml:"size_bytes"`
	Status string `json:"status" yaml:"status"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

type cleanDocument struct {
	DryRun     bool           `json:"dry_run" yaml:"dry_run"`
	BytesFreed int64          `json:"bytes_freed" yaml:"bytes_freed"`
	Cleaned    int            `json:"cleaned" yaml:"cleaned"`
	Failed     int            `json:"failed" yaml:"failed"`
	Outcomes   []cleanOutcome `json:"outcomes" yaml:"outcomes"`
}

func buildCleanDocument(report *cleaner.CleanReport) cleanDocument {
	outcomes := make([]cleanOutcome, 0, len(report.Attempted))
	for _, attempt := range report.Attempted {
		o := cleanOutcome{
			Path:   attempt.Item.Path,
			Size:   attempt.Item.Size,
			Status: string(attempt.Status),
		}
		if attempt.Err != nil {
			o.Error = attempt.Err.UserMessage()
		}
		outcomes = append(outcomes, o)
	}
	return cleanDocument{
		DryRun:     report.DryRun,
		BytesFreed: report.BytesFreed,
		Cleaned:    report.Cleaned(),
		Failed:     report.Failed(),
		Outcomes:   outcomes,
	}
}

func (r *Reporter) cleanJSON(report *cleaner.CleanReport) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildCleanDocument(report))
}

func (r *Reporter) cleanYAML(report *cleaner.CleanReport) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(buildCleanDocument(report))
}
