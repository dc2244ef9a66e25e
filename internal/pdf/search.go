package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultKeywords are the filename keywords that mark a PDF as a contract
// document worth processing.
var DefaultKeywords = []string{"award", "original contract", "mod"}

// Search handles PDF discovery under a root directory
type Search struct {
	keywords []string
}

// NewSearch creates a discovery handler that keeps PDFs whose names contain
// one of keywords. An empty keyword list keeps every PDF.
func NewSearch(keywords []string) *Search {
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			normalized = append(normalized, k)
		}
	}
	return &Search{keywords: normalized}
}

// Keywords returns the normalized keyword filter
func (s *Search) Keywords() []string {
	return s.keywords
}

// Matches reports whether a file name is a PDF that passes the keyword filter
func (s *Search) Matches(name string) bool {
	if !IsPDFName(name) {
		return false
	}
	if len(s.keywords) == 0 {
		return true
	}

	lower := strings.ToLower(filepath.Base(name))
	for _, k := range s.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// FindPDFs walks root recursively and returns the matching PDFs in lexical
// order. Hidden directories are not entered and unreadable entries are
// skipped.
func (s *Search) FindPDFs(root string) ([]FileInfo, error) {
	if root == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", root)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	// Resolve the search directory to prevent traversal
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	var files []FileInfo
	err = filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Continue walking even if we encounter an error with a specific file
			return nil //nolint:nilerr // Intentionally continue on file errors
		}

		withinDir, err := IsPathWithinDirectory(path, absRoot)
		if err != nil || !withinDir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if IsHidden(d.Name()) && path != absRoot {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.Matches(d.Name()) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // Intentionally continue on file errors
		}

		files = append(files, FileInfo{
			Path:         path,
			Name:         fi.Name(),
			Size:         fi.Size(),
			ModifiedTime: fi.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	return files, nil
}

// IsHidden reports whether a file or directory name is hidden
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// IsPathWithinDirectory checks if a path is within the specified directory
func IsPathWithinDirectory(path, directory string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}

	absDir, err := filepath.Abs(directory)
	if err != nil {
		return false, fmt.Errorf("failed to resolve directory: %w", err)
	}

	// Evaluate any symlinks to get the real path
	realPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		// If the file doesn't exist yet, just use the absolute path
		if !os.IsNotExist(err) {
			return false, fmt.Errorf("failed to evaluate symlinks: %w", err)
		}
		realPath = absPath
	}

	realDir, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate directory symlinks: %w", err)
	}

	realPath = filepath.Clean(realPath)
	realDir = filepath.Clean(realDir)
	if realPath == realDir {
		return true, nil
	}

	if !strings.HasSuffix(realDir, string(filepath.Separator)) {
		realDir += string(filepath.Separator)
	}
	return strings.HasPrefix(realPath, realDir), nil
}
