package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmAcceptsYes(t *testing.T) {
	for _, answer := range []string{"y\n", "Y\n", "yes\n", "YES\n", " yes \n"} {
		var out bytes.Buffer
		ok, err := Confirm(strings.NewReader(answer), &out, "Continue?", false)
		require.NoError(t, err)
		assert.True(t, ok, "answer %q should confirm", answer)
	}
}

func TestConfirmDefaultsToNo(t *testing.T) {
	for _, answer := range []string{"\n", "n\n", "no\n", "nope\n", "q\n"} {
		var out bytes.Buffer
		ok, err := Confirm(strings.NewReader(answer), &out, "Continue?", false)
		require.NoError(t, err)
		assert.False(t, ok, "answer %q should decline", answer)
	}
}

func TestConfirmDeclinesOnClosedInput(t *testing.T) {
	var out bytes.Buffer
	ok, err := Confirm(strings.NewReader(""), &out, "Continue?", false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirmShowsWarningAndQuestion(t *testing.T) {
	var out bytes.Buffer
	_, err := Confirm(strings.NewReader("n\n"), &out, "Continue?", false)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "cause harm to your system")
	assert.Contains(t, out.String(), "Continue? [y/N]")
}

func TestConfirmAssumeYesSkipsPrompt(t *testing.T) {
	var out bytes.Buffer
	ok, err := Confirm(strings.NewReader(""), &out, "Continue?", true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, out.String(), "no prompt is shown with --yes")
}
