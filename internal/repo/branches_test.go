package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func branchNames(branches []BranchState) []string {
	names := make([]string, len(branches))
	for i, b := range branches {
		names[i] = b.Name
	}
	return names
}

func currentBranchOf(branches []BranchState) string {
	for _, b := range branches {
		if b.IsCurrent {
			return b.Name
		}
	}
	return ""
}

func TestService_CreateAndCheckoutBranch(t *testing.T) {
	svc, _ := newTestService(t)
	dir := initTestRepo(t, svc)
	commitTestFile(t, svc, dir, "a.txt", "one\n", "initial commit")

	initial := svc.CurrentBranch()
	require.NotEmpty(t, initial)

	require.NoError(t, svc.CreateBranch("feature", ""))

	branches, err := svc.GetBranches()
	require.NoError(t, err)
	assert.Contains(t, branchNames(branches), "feature")
	assert.Equal(t, initial, currentBranchOf(branches))

	require.NoError(t, svc.CheckoutBranch("feature"))
	assert.Equal(t, "feature", svc.CurrentBranch())

	branches, err = svc.GetBranches()
	require.NoError(t, err)
	assert.Equal(t, "feature", currentBranchOf(branches))
}

func TestService_CreateBranchRejectsDuplicate(t *testing.T) {
	svc, _ := newTestService(t)
	dir := initTestRepo(t, svc)
	commitTestFile(t, svc, dir, "a.txt", "one\n", "initial commit")

	require.NoError(t, svc.CreateBranch("feature", ""))
	err := svc.CreateBranch("feature", "")
	require.ErrorIs(t, err, ErrBranchExists)
}

func TestService_CheckoutMissingBranch(t *testing.T) {
	svc, _ := newTestService(t)
	dir := initTestRepo(t, svc)
	commitTestFile(t, svc, dir, "a.txt", "one\n", "initial commit")

	err := svc.CheckoutBranch("no-such-branch")
	require.ErrorIs(t, err, ErrBranchNotFound)
}

func TestService_CheckoutPreservesLocalChanges(t *testing.T) {
	svc, _ := newTestService(t)
	dir := initTestRepo(t, svc)
	commitTestFile(t, svc, dir, "a.txt", "one\n", "initial commit")
	initial := svc.CurrentBranch()

	require.NoError(t, svc.CreateBranch("feature", ""))
	require.NoError(t, svc.CheckoutBranch("feature"))
	commitTestFile(t, svc, dir, "a.txt", "one\nfeature\n", "feature commit")
	require.NoError(t, svc.CheckoutBranch(initial))

	writeTestFile(t, dir, "a.txt", "local edit\n")

	err := svc.CheckoutBranch("feature")
	require.ErrorIs(t, err, ErrCheckoutWouldOverwrite)
	assert.Equal(t, initial, svc.CurrentBranch())

	content, readErr := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, "local edit\n", string(content))
}

func TestService_MergeFastForward(t *testing.T) {
	svc, _ := newTestService(t)
	dir := initTestRepo(t, svc)
	commitTestFile(t, svc, dir, "a.txt", "one\n", "initial commit")
	initial := svc.CurrentBranch()

	require.NoError(t, svc.CreateBranch("feature", ""))
	require.NoError(t, svc.CheckoutBranch("feature"))
	featureTip := commitTestFile(t, svc, dir, "b.txt", "two\n", "feature commit")

	require.NoError(t, svc.CheckoutBranch(initial))
	require.NoError(t, svc.MergeBranch("feature"))

	history, err := svc.GetCommitHistory(1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, featureTip.ID, history[0].ID)
}

func TestService_MergeDivergedBranchesConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	dir := initTestRepo(t, svc)
	commitTestFile(t, svc, dir, "a.txt", "one\n", "initial commit")
	initial := svc.CurrentBranch()

	require.NoError(t, svc.CreateBranch("feature", ""))
	require.NoError(t, svc.CheckoutBranch("feature"))
	commitTestFile(t, svc, dir, "b.txt", "two\n", "feature commit")

	require.NoError(t, svc.CheckoutBranch(initial))
	commitTestFile(t, svc, dir, "c.txt", "three\n", "diverging commit")

	err := svc.MergeBranch("feature")
	require.ErrorIs(t, err, ErrMergeConflict)
}

func TestService_MergeMissingBranch(t *testing.T) {
	svc, _ := newTestService(t)
	dir := initTestRepo(t, svc)
	commitTestFile(t, svc, dir, "a.txt", "one\n", "initial commit")

	err := svc.MergeBranch("no-such-branch")
	require.ErrorIs(t, err, ErrBranchNotFound)
}

func TestService_DeleteBranch(t *testing.T) {
	svc, _ := newTestService(t)
	dir := initTestRepo(t, svc)
	commitTestFile(t, svc, dir, "a.txt", "one\n", "initial commit")

	require.NoError(t, svc.CreateBranch("feature", ""))
	require.NoError(t, svc.DeleteBranch("feature"))

	branches, err := svc.GetBranches()
	require.NoError(t, err)
	assert.NotContains(t, branchNames(branches), "feature")
}

func TestService_DeleteCurrentBranchRejected(t *testing.T) {
	svc, _ := newTestService(t)
	dir := initTestRepo(t, svc)
	commitTestFile(t, svc, dir, "a.txt", "one\n", "initial commit")

	err := svc.DeleteBranch(svc.CurrentBranch())
	require.Error(t, err)

	branches, listErr := svc.GetBranches()
	require.NoError(t, listErr)
	assert.Contains(t, branchNames(branches), svc.CurrentBranch())
}

func TestService_DeleteMissingBranch(t *testing.T) {
	svc, _ := newTestService(t)
	dir := initTestRepo(t, svc)
	commitTestFile(t, svc, dir, "a.txt", "one\n", "initial commit")

	err := svc.DeleteBranch("no-such-branch")
	require.ErrorIs(t, err, ErrBranchNotFound)
}

func TestService_BranchOpsWithoutRepository(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetBranches()
	require.ErrorIs(t, err, ErrNoRepositoryOpen)
	require.ErrorIs(t, svc.CreateBranch("feature", ""), ErrNoRepositoryOpen)
	require.ErrorIs(t, svc.CheckoutBranch("feature"), ErrNoRepositoryOpen)
	require.ErrorIs(t, svc.MergeBranch("feature"), ErrNoRepositoryOpen)
	require.ErrorIs(t, svc.DeleteBranch("feature"), ErrNoRepositoryOpen)
}
