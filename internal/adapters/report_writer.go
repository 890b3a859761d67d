package adapters

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"package-pruner/internal/ports"
	"package-pruner/internal/types"
)

// ReportWriterAdapter renders prune results for humans or machines and,
// when GitHubOutput is set, appends the removed list as a step output.
type ReportWriterAdapter struct {
	Out          io.Writer
	Format       types.ReportFormat
	GitHubOutput string
}

type runReport struct {
	Repository string   `json:"repository" yaml:"repository"`
	DryRun     bool     `json:"dry_run" yaml:"dry_run"`
	Count      int      `json:"count" yaml:"count"`
	Removed    []string `json:"removed" yaml:"removed"`
}

type planReport struct {
	Repository string              `json:"repository" yaml:"repository"`
	Packages   []packagePlanReport `json:"packages" yaml:"packages"`
}

type packagePlanReport struct {
	Name       string   `json:"name" yaml:"name"`
	Total      int      `json:"total" yaml:"total"`
	Fetched    int      `json:"fetched" yaml:"fetched"`
	Considered int      `json:"considered" yaml:"considered"`
	Skipped    bool     `json:"skipped" yaml:"skipped"`
	Reason     string   `json:"reason,omitempty" yaml:"reason,omitempty"`
	Delete     []string `json:"delete" yaml:"delete"`
}

func NewReportWriterAdapter(out io.Writer, format types.ReportFormat, githubOutput string) ReportWriterAdapter {
	if out == nil {
		out = os.Stdout
	}
	if strings.TrimSpace(string(format)) == "" {
		format = types.ReportFormatText
	}
	return ReportWriterAdapter{Out: out, Format: format, GitHubOutput: githubOutput}
}

func (a ReportWriterAdapter) WriteRunResult(result types.RunResult) error {
	removed := result.QualifiedRemoved()
	report := runReport{
		Repository: result.Repository.String(),
		DryRun:     result.DryRun,
		Count:      len(removed),
		Removed:    removed,
	}
	var err error
	switch a.Format {
	case types.ReportFormatText:
		err = a.writeRunText(report)
	case types.ReportFormatJSON:
		err = a.writeJSON(report)
	case types.ReportFormatYAML:
		err = a.writeYAML(report)
	case types.ReportFormatTable:
		err = a.writeRunTable(report)
	default:
		return unsupportedFormat(a.Format)
	}
	if err != nil {
		return err
	}
	return a.writeGitHubOutput(removed)
}

func (a ReportWriterAdapter) WritePlan(plan types.PrunePlan) error {
	report := planReport{Repository: plan.Repository.String()}
	for _, pkg := range plan.Packages {
		entry := packagePlanReport{
			Name:       pkg.Package,
			Total:      pkg.TotalCount,
			Fetched:    pkg.FetchedCount,
			Considered: pkg.EffectiveCount,
			Skipped:    pkg.Skipped,
			Reason:     pkg.SkipReason,
			Delete:     []string{},
		}
		for _, version := range pkg.Delete {
			entry.Delete = append(entry.Delete, version.Version)
		}
		report.Packages = append(report.Packages, entry)
	}
	switch a.Format {
	case types.ReportFormatText, types.ReportFormatTable:
		return a.writePlanTable(report)
	case types.ReportFormatJSON:
		return a.writeJSON(report)
	case types.ReportFormatYAML:
		return a.writeYAML(report)
	default:
		return unsupportedFormat(a.Format)
	}
}

func (a ReportWriterAdapter) writeRunText(report runReport) error {
	var lines []string
	lines = append(lines, report.Removed...)
	verb := "removed"
	if report.DryRun {
		verb = "would remove"
	}
	lines = append(lines, fmt.Sprintf("%s %d package versions from %s", verb, report.Count, report.Repository))
	_, err := fmt.Fprintln(a.Out, strings.Join(lines, "\n"))
	return wrapWriteError(err)
}

func (a ReportWriterAdapter) writeRunTable(report runReport) error {
	data := pterm.TableData{{"Removed"}}
	for _, name := range report.Removed {
		data = append(data, []string{name})
	}
	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return wrapWriteError(err)
	}
	_, err = fmt.Fprintln(a.Out, rendered)
	return wrapWriteError(err)
}

func (a ReportWriterAdapter) writePlanTable(report planReport) error {
	data := pterm.TableData{{"Package", "Total", "Fetched", "Considered", "Delete", "Status"}}
	for _, pkg := range report.Packages {
		status := "prune"
		if pkg.Skipped {
			status = "skip: " + pkg.Reason
		}
		data = append(data, []string{
			pkg.Name,
			strconv.Itoa(pkg.Total),
			strconv.Itoa(pkg.Fetched),
			strconv.Itoa(pkg.Considered),
			strconv.Itoa(len(pkg.Delete)),
			status,
		})
	}
	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return wrapWriteError(err)
	}
	_, err = fmt.Fprintln(a.Out, rendered)
	return wrapWriteError(err)
}

func (a ReportWriterAdapter) writeJSON(value interface{}) error {
	encoder := json.NewEncoder(a.Out)
	encoder.SetIndent("", "  ")
	return wrapWriteError(encoder.Encode(value))
}

func (a ReportWriterAdapter) writeYAML(value interface{}) error {
	encoder := yaml.NewEncoder(a.Out)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return wrapWriteError(err)
	}
	return wrapWriteError(encoder.Close())
}

func (a ReportWriterAdapter) writeGitHubOutput(removed []string) error {
	path := strings.TrimSpace(a.GitHubOutput)
	if path == "" {
		return nil
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open github output file").
			WithCause(err)
	}
	defer file.Close()
	if _, err := fmt.Fprintf(file, "removed=%s\n", strings.Join(removed, ",")); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write github output file").
			WithCause(err)
	}
	return nil
}

func wrapWriteError(err error) error {
	if err == nil {
		return nil
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to write report").
		WithCause(err)
}

func unsupportedFormat(format types.ReportFormat) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("unsupported report format: %s", format))
}

var _ ports.ReportPort = ReportWriterAdapter{}
