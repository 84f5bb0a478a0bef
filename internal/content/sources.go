package content

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// skippedDirs are never searched for sources.
var skippedDirs = []string{
	".git",
	"node_modules",
	".daanotes",
	".vscode",
	".idea",
}

// SourceFile is a markdown file found in a content directory.
type SourceFile struct {
	Path    string // Absolute path on disk.
	Source  string // Slash-separated path relative to the content directory.
	Size    int64
	ModTime time.Time
}

// ScanSources walks dir and returns the files matching include and not
// matching exclude, sorted by source path. Empty include matches every
// markdown file.
func ScanSources(dir string, include, exclude []string) ([]SourceFile, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving content dir: %w", err)
	}
	if len(include) == 0 {
		include = []string{"**/*.md"}
	}

	var files []SourceFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			// Skip entries we cannot read instead of aborting.
			return nil
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !matchesAny(rel, include) || matchesAny(rel, exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		files = append(files, SourceFile{Path: path, Source: rel, Size: info.Size(), ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Source < files[j].Source })
	return files, nil
}

func skipDir(name string) bool {
	for _, s := range skippedDirs {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}

// matchesAny checks rel against the patterns, and the base name against
// patterns without a slash.
func matchesAny(rel string, patterns []string) bool {
	base := filepath.Base(rel)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, err := doublestar.Match(pattern, base); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// Audit compares the nav with the sources on disk.
type Audit struct {
	// Orphans are sources no nav entry points at.
	Orphans []SourceFile
	// Missing are nav entries whose source is not on disk.
	Missing []Entry
}

// AuditSources reports orphaned sources and nav entries without a source.
func AuditSources(nav *Nav, files []SourceFile) Audit {
	onDisk := make(map[string]bool, len(files))
	for _, f := range files {
		onDisk[f.Source] = true
	}
	inNav := make(map[string]bool, len(nav.Entries()))

	var a Audit
	for _, e := range nav.Entries() {
		inNav[e.Source] = true
		if !onDisk[e.Source] {
			a.Missing = append(a.Missing, e)
		}
	}
	for _, f := range files {
		if !inNav[f.Source] {
			a.Orphans = append(a.Orphans, f)
		}
	}
	return a
}
