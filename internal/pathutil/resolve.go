// Package pathutil normalises directory paths typed by the user.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolve turns path into a clean absolute path.
//
// A leading ~ becomes the home directory and %VAR% references are expanded. Symlinks and junctions are resolved in the existing portion of
// the path, and any missing components are appended unchanged, so a game
// folder that has not been created yet still resolves.
func Resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return os.Getwd()
	}

	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = home + path[1:]
	}
	path = ExpandEnv(path)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		return resolved, nil
	}

	current := absPath
	var missing []string
	for {
		if _, err := os.Stat(current); err == nil {
			resolved, err := filepath.EvalSymlinks(current)
			if err != nil {
				resolved = current
			}
			for i := len(missing) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, missing[i])
			}
			return resolved, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return absPath, nil
		}
		missing = append(missing, filepath.Base(current))
		current = parent
	}
}

// ExpandEnv expands Windows-style %VAR% references. Unknown references are
// left untouched, and $ is literal so UNC shares such as \\nas\Games$ survive.
func ExpandEnv(s string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(s, '%')
		if start < 0 {
			break
		}
		end := strings.IndexByte(s[start+1:], '%')
		if end < 0 {
			break
		}
		end += start + 1

		name := s[start+1 : end]
		if val, ok := os.LookupEnv(name); ok && name != "" {
			b.WriteString(s[:start])
			b.WriteString(val)
		} else {
			b.WriteString(s[:end+1])
		}
		s = s[end+1:]
	}
	b.WriteString(s)
	return b.String()
}
