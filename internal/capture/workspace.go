package capture

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// WorkspaceRoot returns the git top-level directory containing dir, or dir
// itself when it is not inside a repository or git is unavailable.
func WorkspaceRoot(dir string) string {
	dir = filepath.Clean(dir)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return dir
	}
	root := strings.TrimSpace(string(out))
	if root == "" {
		return dir
	}
	return root
}
