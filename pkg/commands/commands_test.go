package commands_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/oxidizr/pkg/commands"
	"github.com/arthur-debert/oxidizr/pkg/compat"
	"github.com/arthur-debert/oxidizr/pkg/config"
	"github.com/arthur-debert/oxidizr/pkg/experiments"
	"github.com/arthur-debert/oxidizr/pkg/testutil"
)

const (
	coreutilsBinDir  = "/usr/lib/cargo/bin/coreutils"
	coreutilsUnified = "/usr/bin/coreutils"
	sudoReplacement  = "/usr/lib/cargo/bin/sudo"
)

// coreutilsTools are the utilities the multiplexed fixture ships.
var coreutilsTools = []string{"date", "ls", "sort"}

// testRegistry mirrors the real catalog's two layouts with a smaller
// utility set so assertions stay readable.
func testRegistry() *experiments.Registry {
	return experiments.NewRegistry(
		experiments.Experiment{
			Name:          "coreutils",
			Package:       "rust-coreutils",
			Compat:        compat.Rule{Distribution: "Ubuntu", MinRelease: "24.04"},
			Layout:        experiments.LayoutMultiplexed,
			BinDir:        coreutilsBinDir,
			UnifiedBinary: coreutilsUnified,
			TargetDir:     "/usr/bin",
		},
		experiments.Experiment{
			Name:      "sudo-rs",
			Package:   "sudo-rs",
			Compat:    compat.Rule{Distribution: "Ubuntu", MinRelease: "24.04"},
			Layout:    experiments.LayoutPerUtility,
			BinDir:    "/usr/lib/cargo/bin",
			Utilities: []string{"sudo"},
			TargetDir: "/usr/bin",
		},
	)
}

// testFS builds a filesystem with both replacement packages unpacked
// and the stock originals in place.
func testFS(t *testing.T) *testutil.MemoryFS {
	t.Helper()

	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.WriteFile(coreutilsUnified, []byte("multiplexed coreutils"), 0o755))
	for _, tool := range coreutilsTools {
		require.NoError(t, fs.WriteFile(filepath.Join(coreutilsBinDir, tool), []byte("shim "+tool), 0o755))
	}
	require.NoError(t, fs.WriteFile(sudoReplacement, []byte("memory safe sudo"), 0o755))

	for _, tool := range append([]string{"sudo"}, coreutilsTools...) {
		require.NoError(t, fs.WriteFile("/usr/bin/"+tool, []byte("gnu "+tool), 0o755))
	}
	return fs
}

func testSettings() *config.Settings {
	return &config.Settings{
		Experiments: config.ExperimentSettings{
			Default: []string{"coreutils", "sudo-rs"},
		},
	}
}

func testDeps(fs *testutil.MemoryFS, provider *testutil.FakeProvider, inspector *testutil.StubInspector) commands.Deps {
	return commands.Deps{
		Registry:  testRegistry(),
		Inspector: inspector,
		Packages:  provider,
		FS:        fs,
		Settings:  testSettings(),
	}
}

// outcomeFor digs the named experiment's outcome out of a run result.
func outcomeFor(t *testing.T, outcomes []commands.Outcome, name string) commands.Outcome {
	t.Helper()
	for _, o := range outcomes {
		if o.Experiment == name {
			return o
		}
	}
	t.Fatalf("no outcome for experiment %q", name)
	return commands.Outcome{}
}
