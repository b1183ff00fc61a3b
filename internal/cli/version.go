package cli

import (
	"fmt"
	"io"

	latest "github.com/tcnksm/go-latest"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/oxidizr/internal/version"
)

func newVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Long:  MsgVersionLong,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, MsgBuiltFormat, version.Date)
			}
			if check {
				checkLatest(out)
			}
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, MsgFlagCheck)
	return cmd
}

// checkLatest compares the running version against the newest GitHub
// release. Network problems and dev builds stay silent; the check is a
// courtesy, not a feature the command depends on.
func checkLatest(out io.Writer) {
	githubTag := &latest.GithubTag{
		Owner:      "arthur-debert",
		Repository: "oxidizr",
	}

	res, err := latest.Check(githubTag, version.Version)
	if err != nil {
		return
	}

	if res.Outdated {
		fmt.Fprintf(out, MsgOutdated, res.Current, version.Version)
	} else {
		fmt.Fprint(out, MsgUpToDate)
	}
}
