package workflow

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"deadair/internal/services"
)

// Discover walks root recursively and returns the files whose extension is
// in extensions, sorted by path. Extensions compare case-insensitively.
func Discover(root string, extensions []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrNotFound, stageDiscover, "stat input", root, err)
		}
		return nil, services.Wrap(services.ErrConfiguration, stageDiscover, "stat input", root, err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrConfiguration, stageDiscover, "stat input", fmt.Sprintf("%s is not a directory", root), nil)
	}

	wanted := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = struct{}{}
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := wanted[strings.ToLower(filepath.Ext(path))]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, stageDiscover, "walk input", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// ResolveInputs expands explicit arguments: directories are discovered,
// files are taken as given. With no arguments the configured input
// directory is discovered.
func ResolveInputs(args []string, inputDir string, extensions []string) ([]string, error) {
	if len(args) == 0 {
		return Discover(inputDir, extensions)
	}
	var files []string
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, stageDiscover, "resolve path", arg, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, services.Wrap(services.ErrNotFound, stageDiscover, "stat input", arg, err)
		}
		if !info.IsDir() {
			add(abs)
			continue
		}
		found, err := Discover(abs, extensions)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}
