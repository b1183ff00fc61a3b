package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/arthur-debert/oxidizr/pkg/ui/styles"
)

// HarmWarning is shown before any run that changes system binaries.
const HarmWarning = `oxidizr can cause harm to your system!
Depending on your configuration and workload, its experiments could
cause your machine to fail to boot, or your workloads to fail.
Use with caution.`

// Confirm prints the harm warning and a [y/N] prompt, then reads one
// answer. Anything other than "y" or "yes" declines, including an
// empty answer or a closed input stream. assumeYes skips the prompt.
func Confirm(in io.Reader, out io.Writer, question string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}

	warning := HarmWarning
	if looksStyled(out) {
		warning = styles.Get("Warning").Render(HarmWarning)
	}
	if _, err := fmt.Fprintf(out, "%s\n\n%s [y/N]: ", warning, question); err != nil {
		return false, err
	}

	reader := bufio.NewReader(in)
	answer, err := reader.ReadString('\n')
	if err != nil && answer == "" {
		// EOF before any input: treat as a decline, not a failure, so
		// piped runs without --yes stop safely.
		return false, nil
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// looksStyled reports whether the writer is a terminal capable of
// styled output. Buffers and pipes get the plain warning.
func looksStyled(out io.Writer) bool {
	f, ok := out.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
