package secscan

import (
	"fmt"
	"os"
	"path/filepath"
)

// preCommitScript rejects staged content matching the vendor token shapes.
// Once installed the hook runs as its own process, outside this service.
const preCommitScript = `#!/bin/bash
# pre-commit: secret scanning
staged=$(git diff --cached --unified=0 | grep '^+' || true)
if echo "$staged" | grep -qE 'github_pat_[A-Za-z0-9_]{82}|ghp_[A-Za-z0-9]{36}|sk-[A-Za-z0-9]{48}|AKIA[A-Z0-9]{16}|xoxb-[0-9]{10,13}-[0-9]{10,13}-[A-Za-z0-9]{24}'; then
    echo "commit blocked: staged changes contain a secret token" >&2
    exit 1
fi
exit 0
`

// InstallHook writes an executable pre-commit secret-scanning script into
// the repository's hook directory, replacing any existing pre-commit hook.
func InstallHook(repoPath string) error {
	hooksDir := filepath.Join(repoPath, ".git", "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return fmt.Errorf("failed to create hooks directory: %w", err)
	}

	hookPath := filepath.Join(hooksDir, "pre-commit")
	if err := os.WriteFile(hookPath, []byte(preCommitScript), 0o755); err != nil {
		return fmt.Errorf("failed to write pre-commit hook: %w", err)
	}

	return nil
}
