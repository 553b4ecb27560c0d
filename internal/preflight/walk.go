package preflight

import (
	"os"
	"path/filepath"
	"strings"
)

// findNixFiles walks root and returns every ".nix" file found, skipping
// hidden directories (".git", ".direnv", and the like) the way the parse
// and lint checks both need.
func findNixFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			if path != root && isHidden(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if isHidden(info.Name()) {
			return nil
		}
		if strings.HasSuffix(info.Name(), ".nix") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
