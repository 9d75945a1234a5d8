package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// sourceExt is the extension of analyzable extension sources.
const sourceExt = ".cs"

// CollectFiles expands the argument list: files are taken as-is, directories
// are walked recursively for analyzable sources. The result is sorted and
// de-duplicated so batch output order is stable across runs.
func CollectFiles(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			out = append(out, clean)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				// skip hidden and build directories
				name := entry.Name()
				if path != arg && (strings.HasPrefix(name, ".") || name == "bin" || name == "obj") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.EqualFold(filepath.Ext(entry.Name()), sourceExt) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}

	sort.Strings(out)
	return out, nil
}
