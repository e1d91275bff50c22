package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// collectFiles expands globs and directories into the list of JSON files to read
func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", match)
			}
			if !info.IsDir() {
				files = append(files, match)
				continue
			}

			err = filepath.WalkDir(match, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return files, nil
}
