package cli

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/oxidizr/pkg/ui"
)

//go:embed docs/*.md
var topicsFS embed.FS

func newDocsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "docs [topic]",
		Short:     MsgDocsShort,
		ValidArgs: topicNames(),
		Args:      cobra.MaximumNArgs(1),
		Example: `  # List topics
  oxidizr docs

  # Read about how experiments work
  oxidizr docs experiments`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				fmt.Fprintln(out, "Available topics:")
				for _, name := range topicNames() {
					fmt.Fprintf(out, "  %s\n", name)
				}
				fmt.Fprintln(out, "\nRead one with: oxidizr docs <topic>")
				return nil
			}

			topic := strings.ToLower(args[0])
			content, err := topicsFS.ReadFile("docs/" + topic + ".md")
			if err != nil {
				return fmt.Errorf("unknown topic %q, run 'oxidizr docs' for the list", args[0])
			}

			fmt.Fprint(out, renderMarkdown(string(content)))
			return nil
		},
	}
}

// renderMarkdown renders a topic for the terminal, falling back to the
// raw markdown when styling is unavailable.
func renderMarkdown(content string) string {
	if ui.DetectFormat(os.Stdout) != ui.FormatTerminal {
		return content
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

func topicNames() []string {
	entries, err := topicsFS.ReadDir("docs")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}
