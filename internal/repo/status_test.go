package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusReader_ClassifiesDisjointSets(t *testing.T) {
	svc, _ := newTestService(t)
	dir := initTestRepo(t, svc)
	commitTestFile(t, svc, dir, "tracked.txt", "one\n", "initial commit")

	// tracked.txt: modified in the working tree only.
	writeTestFile(t, dir, "tracked.txt", "changed\n")
	// staged.txt: new file added to the index.
	writeTestFile(t, dir, "staged.txt", "two\n")
	require.NoError(t, svc.StageFile("staged.txt"))
	// loose.txt: never staged.
	writeTestFile(t, dir, "loose.txt", "three\n")

	snap, err := svc.GetStatus()
	require.NoError(t, err)
	assert.False(t, snap.Clean)

	require.Len(t, snap.Staged, 1)
	assert.Equal(t, "staged.txt", snap.Staged[0].Path)
	assert.NotZero(t, snap.Staged[0].Flags&FlagIndexNew)

	require.Len(t, snap.Unstaged, 1)
	assert.Equal(t, "tracked.txt", snap.Unstaged[0].Path)
	assert.NotZero(t, snap.Unstaged[0].Flags&FlagWorktreeModified)

	require.Len(t, snap.Untracked, 1)
	assert.Equal(t, "loose.txt", snap.Untracked[0].Path)
	assert.NotZero(t, snap.Untracked[0].Flags&FlagWorktreeNew)
}

func TestStatusReader_StagedWithFurtherEditsStaysInOneSet(t *testing.T) {
	svc, _ := newTestService(t)
	dir := initTestRepo(t, svc)
	commitTestFile(t, svc, dir, "a.txt", "one\n", "initial commit")

	writeTestFile(t, dir, "a.txt", "staged content\n")
	require.NoError(t, svc.StageFile("a.txt"))
	writeTestFile(t, dir, "a.txt", "edited again\n")

	snap, err := svc.GetStatus()
	require.NoError(t, err)

	// Index changes win: the path must appear exactly once, in Staged,
	// carrying both index and worktree flags.
	require.Len(t, snap.Staged, 1)
	assert.Empty(t, snap.Unstaged)
	assert.Empty(t, snap.Untracked)
	assert.NotZero(t, snap.Staged[0].Flags&FlagIndexModified)
	assert.NotZero(t, snap.Staged[0].Flags&FlagWorktreeModified)
}

func TestStatusReader_CleanAfterCommit(t *testing.T) {
	svc, _ := newTestService(t)
	dir := initTestRepo(t, svc)
	commitTestFile(t, svc, dir, "a.txt", "one\n", "initial commit")

	snap, err := svc.GetStatus()
	require.NoError(t, err)
	assert.True(t, snap.Clean)
	assert.Empty(t, snap.Staged)
	assert.Empty(t, snap.Unstaged)
	assert.Empty(t, snap.Untracked)
}

func TestStatusReader_SetsAreSorted(t *testing.T) {
	svc, _ := newTestService(t)
	dir := initTestRepo(t, svc)
	commitTestFile(t, svc, dir, "a.txt", "one\n", "initial commit")

	writeTestFile(t, dir, "zeta.txt", "z\n")
	writeTestFile(t, dir, "alpha.txt", "a\n")
	writeTestFile(t, dir, "mid.txt", "m\n")

	snap, err := svc.GetStatus()
	require.NoError(t, err)
	require.Len(t, snap.Untracked, 3)
	assert.Equal(t, "alpha.txt", snap.Untracked[0].Path)
	assert.Equal(t, "mid.txt", snap.Untracked[1].Path)
	assert.Equal(t, "zeta.txt", snap.Untracked[2].Path)
}
