package ui

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/oxidizr/pkg/commands"
	"github.com/arthur-debert/oxidizr/pkg/ui/styles"
)

// Renderer writes command results in one concrete format. Resolve
// FormatAuto with DetectFormat before constructing one.
type Renderer struct {
	w      io.Writer
	format Format
}

// NewRenderer creates a renderer for the given format.
func NewRenderer(w io.Writer, format Format) *Renderer {
	if format == FormatAuto {
		format = FormatText
	}
	return &Renderer{w: w, format: format}
}

// outcomeDoc is the JSON shape of one experiment outcome.
type outcomeDoc struct {
	Experiment string `json:"experiment"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	Error      string `json:"error,omitempty"`
	Swapped    int    `json:"swapped,omitempty"`
	Reverted   int    `json:"reverted,omitempty"`
	Unchanged  int    `json:"unchanged,omitempty"`
}

type summaryDoc struct {
	Command  string       `json:"command"`
	Outcomes []outcomeDoc `json:"outcomes"`
}

// Summary renders the per-experiment outcomes of an enable or disable
// run. The command name distinguishes the two in JSON output and in
// the counts shown next to each experiment.
func (r *Renderer) Summary(command string, outcomes []commands.Outcome) error {
	if r.format == FormatJSON {
		doc := summaryDoc{Command: command, Outcomes: make([]outcomeDoc, 0, len(outcomes))}
		for _, o := range outcomes {
			doc.Outcomes = append(doc.Outcomes, outcomeDoc{
				Experiment: o.Experiment,
				Status:     string(o.Status),
				Reason:     o.Reason,
				Error:      errorString(o.Err),
				Swapped:    o.Swapped,
				Reverted:   o.Reverted,
				Unchanged:  o.Unchanged,
			})
		}
		return r.encode(doc)
	}

	for _, o := range outcomes {
		if err := r.summaryLine(o); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) summaryLine(o commands.Outcome) error {
	detail := ""
	switch o.Status {
	case commands.OutcomeSucceeded:
		detail = counts(o)
	case commands.OutcomeSkipped:
		detail = o.Reason
	case commands.OutcomeFailed:
		detail = errorString(o.Err)
	}

	if r.format == FormatTerminal {
		badge := statusStyle(o.Status).Render(string(o.Status))
		name := styles.Get("Experiment").Render(fmt.Sprintf("%-12s", o.Experiment))
		_, err := fmt.Fprintf(r.w, "%s %s %s\n", name, badge, detail)
		return err
	}

	_, err := fmt.Fprintf(r.w, "%-12s %-10s %s\n", o.Experiment, o.Status, detail)
	return err
}

// counts describes what a successful outcome changed.
func counts(o commands.Outcome) string {
	switch {
	case o.Swapped > 0:
		return fmt.Sprintf("%d utilities swapped", o.Swapped)
	case o.Reverted > 0:
		return fmt.Sprintf("%d utilities restored", o.Reverted)
	default:
		return "nothing to change"
	}
}

// bindingDoc is the JSON shape of one observed binding.
type bindingDoc struct {
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
	State       string `json:"state"`
	Detail      string `json:"detail,omitempty"`
}

// statusDoc is the JSON shape of one experiment's status.
type statusDoc struct {
	Experiment string       `json:"experiment"`
	Package    string       `json:"package"`
	Installed  bool         `json:"installed"`
	Summary    string       `json:"summary"`
	Bindings   []bindingDoc `json:"bindings,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// Statuses renders the observed state of each experiment.
func (r *Renderer) Statuses(statuses []commands.ExperimentStatus) error {
	if r.format == FormatJSON {
		docs := make([]statusDoc, 0, len(statuses))
		for _, s := range statuses {
			doc := statusDoc{
				Experiment: s.Experiment,
				Package:    s.Package,
				Installed:  s.Installed,
				Summary:    string(s.Summary),
				Error:      errorString(s.Err),
			}
			for _, b := range s.Bindings {
				doc.Bindings = append(doc.Bindings, bindingDoc{
					Original:    b.Binding.Original,
					Replacement: b.Binding.Replacement,
					State:       b.State.String(),
					Detail:      b.Detail,
				})
			}
			docs = append(docs, doc)
		}
		return r.encode(docs)
	}

	if r.format == FormatTerminal {
		return r.statusTable(statuses)
	}

	for _, s := range statuses {
		if _, err := fmt.Fprintf(r.w, "%-12s %-16s %-10s %s\n",
			s.Experiment, s.Package, installedWord(s.Installed), s.Summary); err != nil {
			return err
		}
		for _, b := range s.Bindings {
			if b.State.String() == "inconsistent" {
				if _, err := fmt.Fprintf(r.w, "  %s: %s\n", b.Binding.Original, b.Detail); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *Renderer) statusTable(statuses []commands.ExperimentStatus) error {
	data := pterm.TableData{{"EXPERIMENT", "PACKAGE", "INSTALLED", "STATUS"}}
	for _, s := range statuses {
		data = append(data, []string{
			s.Experiment,
			s.Package,
			installedWord(s.Installed),
			summaryStyle(s.Summary).Render(string(s.Summary)),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithWriter(r.w).WithData(data).Render(); err != nil {
		return err
	}

	// Inconsistent bindings need their own lines: the table only has
	// room for the aggregate.
	for _, s := range statuses {
		for _, b := range s.Bindings {
			if b.State.String() == "inconsistent" {
				line := fmt.Sprintf("%s: %s",
					styles.Get("Path").Render(b.Binding.Original), b.Detail)
				if _, err := fmt.Fprintln(r.w, styles.Get("Error").Render(line)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Message renders a one-line informational message.
func (r *Renderer) Message(msg string) error {
	if r.format == FormatJSON {
		return r.encode(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(r.w, msg)
	return err
}

func (r *Renderer) encode(v interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func installedWord(installed bool) string {
	if installed {
		return "yes"
	}
	return "no"
}

func statusStyle(status commands.OutcomeStatus) lipgloss.Style {
	switch status {
	case commands.OutcomeSucceeded:
		return styles.Get("Success")
	case commands.OutcomeFailed:
		return styles.Get("Error")
	default:
		return styles.Get("Warning")
	}
}

func summaryStyle(summary commands.Summary) lipgloss.Style {
	switch summary {
	case commands.SummaryEnabled:
		return styles.Get("Success")
	case commands.SummaryDisabled:
		return styles.Get("Muted")
	case commands.SummaryInconsistent:
		return styles.Get("Error")
	default:
		return styles.Get("Warning")
	}
}
