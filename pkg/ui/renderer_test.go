package ui

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/oxidizr/pkg/commands"
	"github.com/arthur-debert/oxidizr/pkg/errors"
	"github.com/arthur-debert/oxidizr/pkg/swap"
)

func sampleOutcomes() []commands.Outcome {
	return []commands.Outcome{
		{Experiment: "coreutils", Status: commands.OutcomeSucceeded, Swapped: 3},
		{Experiment: "sudo-rs", Status: commands.OutcomeSkipped, Reason: "requires Ubuntu 24.04 or newer"},
		{Experiment: "findutils", Status: commands.OutcomeFailed,
			Err: errors.New(errors.ErrResolution, "no replacement for utility \"find\"")},
	}
}

func TestSummaryAsText(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText)

	require.NoError(t, r.Summary("enable", sampleOutcomes()))
	out := buf.String()

	assert.Contains(t, out, "coreutils")
	assert.Contains(t, out, "3 utilities swapped")
	assert.Contains(t, out, "requires Ubuntu 24.04 or newer")
	assert.Contains(t, out, "RESOLUTION_FAILED")
}

func TestSummaryAsJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatJSON)

	require.NoError(t, r.Summary("enable", sampleOutcomes()))

	var doc struct {
		Command  string `json:"command"`
		Outcomes []struct {
			Experiment string `json:"experiment"`
			Status     string `json:"status"`
			Reason     string `json:"reason"`
			Error      string `json:"error"`
			Swapped    int    `json:"swapped"`
		} `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "enable", doc.Command)
	require.Len(t, doc.Outcomes, 3)
	assert.Equal(t, "succeeded", doc.Outcomes[0].Status)
	assert.Equal(t, 3, doc.Outcomes[0].Swapped)
	assert.Equal(t, "skipped", doc.Outcomes[1].Status)
	assert.Contains(t, doc.Outcomes[2].Error, "RESOLUTION_FAILED")
}

func TestSummaryCountsRestoredUtilities(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText)

	outcome := commands.Outcome{
		Experiment: "coreutils",
		Status:     commands.OutcomeSucceeded,
		Reverted:   3,
	}
	require.NoError(t, r.Summary("disable", []commands.Outcome{outcome}))
	assert.Contains(t, buf.String(), "3 utilities restored")
}

func sampleStatuses() []commands.ExperimentStatus {
	return []commands.ExperimentStatus{
		{
			Experiment: "coreutils",
			Package:    "rust-coreutils",
			Installed:  true,
			Summary:    commands.SummaryEnabled,
			Bindings: []commands.BindingStatus{
				{
					Binding: swap.Binding{Original: "/usr/bin/ls", Replacement: "/usr/bin/coreutils"},
					State:   swap.StateSwapped,
				},
			},
		},
		{
			Experiment: "sudo-rs",
			Package:    "sudo-rs",
			Summary:    commands.SummaryDisabled,
		},
	}
}

func TestStatusesAsText(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText)

	require.NoError(t, r.Statuses(sampleStatuses()))
	out := buf.String()

	assert.Contains(t, out, "coreutils")
	assert.Contains(t, out, "enabled")
	assert.Contains(t, out, "sudo-rs")
	assert.Contains(t, out, "disabled")
}

func TestStatusesAsTextShowsInconsistentDetail(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText)

	statuses := []commands.ExperimentStatus{{
		Experiment: "coreutils",
		Package:    "rust-coreutils",
		Installed:  true,
		Summary:    commands.SummaryInconsistent,
		Bindings: []commands.BindingStatus{{
			Binding: swap.Binding{Original: "/usr/bin/date", Replacement: "/usr/bin/coreutils"},
			State:   swap.StateInconsistent,
			Detail:  "backup exists but the original is a regular file",
		}},
	}}
	require.NoError(t, r.Statuses(statuses))

	assert.Contains(t, buf.String(), "/usr/bin/date")
	assert.Contains(t, buf.String(), "backup exists")
}

func TestStatusesAsJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatJSON)

	require.NoError(t, r.Statuses(sampleStatuses()))

	var docs []struct {
		Experiment string `json:"experiment"`
		Installed  bool   `json:"installed"`
		Summary    string `json:"summary"`
		Bindings   []struct {
			Original string `json:"original"`
			State    string `json:"state"`
		} `json:"bindings"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &docs))

	require.Len(t, docs, 2)
	assert.Equal(t, "coreutils", docs[0].Experiment)
	assert.True(t, docs[0].Installed)
	assert.Equal(t, "enabled", docs[0].Summary)
	require.Len(t, docs[0].Bindings, 1)
	assert.Equal(t, "/usr/bin/ls", docs[0].Bindings[0].Original)
	assert.Equal(t, "swapped", docs[0].Bindings[0].State)
	assert.Empty(t, docs[1].Bindings)
}

func TestMessageRendering(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, FormatText).Message("nothing to do"))
	assert.Equal(t, "nothing to do\n", buf.String())
}
