package git

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// StatusFingerprint digests the current commit id plus the working-tree
// status, excluding status lines that reference the given generated paths
// (manifests, changelogs). Two runs over the same repository state produce
// the same fingerprint even when only generated artifacts differ, which lets
// callers detect that a rerun would be a no-op.
func (g *Context) StatusFingerprint(generatedPaths ...string) (string, error) {
	head, err := g.HeadCommit()
	if err != nil {
		return "", err
	}

	status, err := g.Status()
	if err != nil {
		return "", err
	}

	var relevant []string
	for _, line := range strings.Split(status, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if referencesAny(line, generatedPaths) {
			continue
		}
		relevant = append(relevant, line)
	}

	sum := sha256.Sum256([]byte(head + "\n" + strings.Join(relevant, "\n")))
	return hex.EncodeToString(sum[:]), nil
}

// referencesAny reports whether a porcelain status line names one of the
// paths. Porcelain lines are "XY <path>" with an optional "<path> -> <path>"
// rename form; every path on the line must be an exact match so that a file
// whose name merely contains a generated path stays in the fingerprint.
func referencesAny(line string, paths []string) bool {
	if len(line) < 4 {
		return false
	}
	for _, part := range strings.Split(line[3:], " -> ") {
		part = strings.Trim(strings.TrimSpace(part), `"`)
		for _, p := range paths {
			if p != "" && part == p {
				return true
			}
		}
	}
	return false
}
