package swap_test

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/oxidizr/pkg/errors"
	"github.com/arthur-debert/oxidizr/pkg/swap"
	"github.com/arthur-debert/oxidizr/pkg/testutil"
)

// seedBinding creates an original and a replacement binary on the memory
// filesystem and returns the binding between them.
func seedBinding(t *testing.T, fsys *testutil.MemoryFS, original, replacement, content string) swap.Binding {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(original), 0755))
	require.NoError(t, fsys.MkdirAll(filepath.Dir(replacement), 0755))
	require.NoError(t, fsys.WriteFile(original, []byte(content), 0755))
	require.NoError(t, fsys.WriteFile(replacement, []byte("replacement: "+content), 0755))
	return swap.Binding{Original: original, Replacement: replacement}
}

func requireState(t *testing.T, fsys *testutil.MemoryFS, b swap.Binding, want swap.State) {
	t.Helper()
	obs := swap.Inspect(fsys, b)
	require.Equal(t, want, obs.State, "binding %s: %s", b, obs.Detail)
}

func TestApplySwapsBindings(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	date := seedBinding(t, fsys, "/usr/bin/date", "/usr/bin/coreutils", "gnu date")
	ls := seedBinding(t, fsys, "/usr/bin/ls", "/usr/bin/coreutils", "gnu ls")

	engine := swap.NewEngine(fsys)
	report, err := engine.Apply([]swap.Binding{date, ls})
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Equal(t, swap.ActionSwapped, report.Results[0].Action)
	assert.Equal(t, swap.ActionSwapped, report.Results[1].Action)
	assert.Equal(t, 2, report.SwapCount())

	for _, b := range []swap.Binding{date, ls} {
		requireState(t, fsys, b, swap.StateSwapped)

		target, err := fsys.Readlink(b.Original)
		require.NoError(t, err)
		assert.Equal(t, b.Replacement, target)
	}

	backup, err := fsys.ReadFile(date.BackupPath())
	require.NoError(t, err)
	assert.Equal(t, "gnu date", string(backup))
}

func TestApplyIsIdempotent(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	bindings := []swap.Binding{
		seedBinding(t, fsys, "/usr/bin/find", "/usr/lib/cargo/bin/findutils/find", "gnu find"),
		seedBinding(t, fsys, "/usr/bin/xargs", "/usr/lib/cargo/bin/findutils/xargs", "gnu xargs"),
	}

	engine := swap.NewEngine(fsys)
	_, err := engine.Apply(bindings)
	require.NoError(t, err)

	_, writesAfterFirst := fsys.Stats()

	report, err := engine.Apply(bindings)
	require.NoError(t, err)

	assert.Equal(t, 0, report.SwapCount())
	for _, res := range report.Results {
		assert.Equal(t, swap.ActionNone, res.Action)
	}

	_, writesAfterSecond := fsys.Stats()
	assert.Equal(t, writesAfterFirst, writesAfterSecond, "second apply must not write")

	for _, b := range bindings {
		requireState(t, fsys, b, swap.StateSwapped)
	}
}

func TestApplyRevertRoundTrip(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	bindings := []swap.Binding{
		seedBinding(t, fsys, "/usr/bin/su", "/usr/lib/cargo/bin/su", "shadow su"),
		seedBinding(t, fsys, "/usr/bin/sudo", "/usr/lib/cargo/bin/sudo", "original sudo"),
		seedBinding(t, fsys, "/usr/sbin/visudo", "/usr/lib/cargo/bin/visudo", "original visudo"),
	}

	originals := make(map[string][]byte)
	modes := make(map[string]os.FileMode)
	for _, b := range bindings {
		content, err := fsys.ReadFile(b.Original)
		require.NoError(t, err)
		originals[b.Original] = content

		info, err := fsys.Lstat(b.Original)
		require.NoError(t, err)
		modes[b.Original] = info.Mode()
	}

	engine := swap.NewEngine(fsys)
	_, err := engine.Apply(bindings)
	require.NoError(t, err)

	report := engine.Revert(bindings)
	require.True(t, report.Clean(), "revert failures: %v", report.Failed)
	assert.Len(t, report.Reverted, 3)

	for _, b := range bindings {
		requireState(t, fsys, b, swap.StateUnmodified)

		content, err := fsys.ReadFile(b.Original)
		require.NoError(t, err)
		assert.Equal(t, originals[b.Original], content, "%s must be byte-identical", b.Original)

		info, err := fsys.Lstat(b.Original)
		require.NoError(t, err)
		assert.Equal(t, modes[b.Original], info.Mode())

		assert.False(t, fsys.Exists(b.BackupPath()), "backup must be gone")
	}
}

func TestApplyIsAllOrNothing(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	bindings := []swap.Binding{
		seedBinding(t, fsys, "/usr/bin/date", "/usr/bin/coreutils", "gnu date"),
		seedBinding(t, fsys, "/usr/bin/ls", "/usr/bin/coreutils", "gnu ls"),
		seedBinding(t, fsys, "/usr/bin/cat", "/usr/bin/coreutils", "gnu cat"),
	}

	// The third binding's symlink creation fails mid-transaction.
	fsys.WithOpError("symlink", "/usr/bin/cat", stderrors.New("read-only filesystem"))

	engine := swap.NewEngine(fsys)
	_, err := engine.Apply(bindings)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSymlinkCreate))
	assert.False(t, errors.IsCode(err, errors.ErrRollbackFailed))

	for _, b := range bindings {
		requireState(t, fsys, b, swap.StateUnmodified)

		content, err := fsys.ReadFile(b.Original)
		require.NoError(t, err)
		assert.Contains(t, string(content), "gnu")
		assert.False(t, fsys.Exists(b.BackupPath()))
	}
}

func TestApplyConflictRollsBackEarlierSwaps(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	clean := seedBinding(t, fsys, "/usr/bin/diff", "/usr/lib/cargo/bin/diffutils/diffutils", "gnu diff")
	dirty := seedBinding(t, fsys, "/usr/bin/cmp", "/usr/lib/cargo/bin/diffutils/diffutils", "gnu cmp")

	// A stale backup makes the second binding inconsistent.
	require.NoError(t, fsys.WriteFile(dirty.BackupPath(), []byte("stale"), 0755))

	engine := swap.NewEngine(fsys)
	_, err := engine.Apply([]swap.Binding{clean, dirty})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConflict))

	// The first binding was swapped before the conflict and must be back.
	requireState(t, fsys, clean, swap.StateUnmodified)
	content, rerr := fsys.ReadFile(clean.Original)
	require.NoError(t, rerr)
	assert.Equal(t, "gnu diff", string(content))

	// The stale backup is untouched.
	stale, rerr := fsys.ReadFile(dirty.BackupPath())
	require.NoError(t, rerr)
	assert.Equal(t, "stale", string(stale))
}

func TestApplyRefusesOccupiedBackupWithoutWrites(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	b := seedBinding(t, fsys, "/usr/bin/date", "/usr/bin/coreutils", "gnu date")
	require.NoError(t, fsys.WriteFile(b.BackupPath(), []byte("precious"), 0644))

	_, writesBefore := fsys.Stats()

	engine := swap.NewEngine(fsys)
	_, err := engine.Apply([]swap.Binding{b})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConflict))

	_, writesAfter := fsys.Stats()
	assert.Equal(t, writesBefore, writesAfter, "a conflicted apply must not write")

	precious, rerr := fsys.ReadFile(b.BackupPath())
	require.NoError(t, rerr)
	assert.Equal(t, "precious", string(precious))
}

func TestApplyReportsRollbackFailure(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	first := seedBinding(t, fsys, "/usr/bin/date", "/usr/bin/coreutils", "gnu date")
	second := seedBinding(t, fsys, "/usr/bin/ls", "/usr/bin/coreutils", "gnu ls")

	// The second swap fails, and undoing the first fails too: its fresh
	// symlink cannot be removed.
	fsys.WithOpError("symlink", "/usr/bin/ls", stderrors.New("read-only filesystem"))
	fsys.WithOpError("remove", "/usr/bin/date", stderrors.New("operation not permitted"))

	engine := swap.NewEngine(fsys)
	_, err := engine.Apply([]swap.Binding{first, second})
	require.Error(t, err)

	assert.True(t, errors.IsCode(err, errors.ErrRollbackFailed))
	assert.Contains(t, err.Error(), "/usr/bin/date", "the stranded path must be named")

	details := errors.GetDetails(err)
	require.NotNil(t, details)
	assert.NotEmpty(t, details["failures"])
}

func TestApplyCompensatesHalfSwappedBinding(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	b := seedBinding(t, fsys, "/usr/bin/find", "/usr/lib/cargo/bin/findutils/find", "gnu find")

	// Backup rename succeeds, symlink creation fails: the engine must put
	// the original back on its own.
	fsys.WithOpError("symlink", "/usr/bin/find", stderrors.New("read-only filesystem"))

	engine := swap.NewEngine(fsys)
	_, err := engine.Apply([]swap.Binding{b})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSymlinkCreate))

	requireState(t, fsys, b, swap.StateUnmodified)
	content, rerr := fsys.ReadFile(b.Original)
	require.NoError(t, rerr)
	assert.Equal(t, "gnu find", string(content))
}

func TestRevertIsBestEffort(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	bindings := []swap.Binding{
		seedBinding(t, fsys, "/usr/bin/date", "/usr/bin/coreutils", "gnu date"),
		seedBinding(t, fsys, "/usr/bin/ls", "/usr/bin/coreutils", "gnu ls"),
		seedBinding(t, fsys, "/usr/bin/cat", "/usr/bin/coreutils", "gnu cat"),
	}

	engine := swap.NewEngine(fsys)
	_, err := engine.Apply(bindings)
	require.NoError(t, err)

	// Sabotage the middle binding: its backup disappears.
	require.NoError(t, fsys.Remove(bindings[1].BackupPath()))

	report := engine.Revert(bindings)

	assert.False(t, report.Clean())
	require.Len(t, report.Failed, 1)
	assert.Equal(t, bindings[1], report.Failed[0].Binding)
	assert.True(t, errors.IsCode(report.Failed[0].Err, errors.ErrConflict))

	// Reverse of apply order: cat first, then date.
	require.Len(t, report.Reverted, 2)
	assert.Equal(t, bindings[2], report.Reverted[0])
	assert.Equal(t, bindings[0], report.Reverted[1])

	requireState(t, fsys, bindings[0], swap.StateUnmodified)
	requireState(t, fsys, bindings[2], swap.StateUnmodified)
}

func TestRevertSkipsUnmodifiedBindings(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	b := seedBinding(t, fsys, "/usr/bin/date", "/usr/bin/coreutils", "gnu date")

	engine := swap.NewEngine(fsys)
	report := engine.Revert([]swap.Binding{b})

	assert.True(t, report.Clean())
	assert.Empty(t, report.Reverted)
	assert.Equal(t, []swap.Binding{b}, report.Skipped)
}

func TestRevertReportsRestoreFailure(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	b := seedBinding(t, fsys, "/usr/bin/sudo", "/usr/lib/cargo/bin/sudo", "original sudo")

	engine := swap.NewEngine(fsys)
	_, err := engine.Apply([]swap.Binding{b})
	require.NoError(t, err)

	// The backup cannot be moved home.
	fsys.WithOpError("rename", b.BackupPath(), stderrors.New("operation not permitted"))

	report := engine.Revert([]swap.Binding{b})

	assert.False(t, report.Clean())
	require.Len(t, report.Failed, 1)
	failure := report.Failed[0]
	assert.True(t, errors.IsCode(failure.Err, errors.ErrRestoreFailed))
	assert.Contains(t, failure.Err.Error(), b.BackupPath(), "repair instructions must name the backup")
}
