// Package discover finds the source files of a language under a directory.
package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
	enry "github.com/src-d/enry/v2"
	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrDirectoryNotFound is returned, and warned about, when a source
// directory does not exist. It never stops a run.
var ErrDirectoryNotFound = errors.NewKind("directory %s does not exist")

// Finder walks source directories. The zero value finds every matching file
// and warns through the standard logrus logger.
type Finder struct {
	// Exclude holds doublestar patterns matched against slash-separated paths
	// relative to the walked root.
	Exclude []string
	// SkipVendor drops files and directories enry considers vendored.
	SkipVendor bool
	Silent     bool
	Log        logrus.FieldLogger
}

func (f *Finder) logger() logrus.FieldLogger {
	if f.Log == nil {
		return logrus.StandardLogger()
	}
	return f.Log
}

func (f *Finder) warn(fields logrus.Fields, msg string) {
	if f.Silent {
		return
	}
	f.logger().WithFields(fields).Warn(msg)
}

// Find returns the files under root whose names end with one of extensions,
// in walk order. A missing root yields no files and ErrDirectoryNotFound.
func (f *Finder) Find(root string, extensions []string) ([]string, error) {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		f.warn(logrus.Fields{"dir": root}, "source directory not found, skipping")
		return nil, ErrDirectoryNotFound.New(root)
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			f.warn(logrus.Fields{"path": path, "error": err}, "cannot read directory entry, skipping")
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && f.excluded(root, path, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !matchesExtension(d.Name(), extensions) {
			return nil
		}
		if !isRegular(path, d) {
			return nil
		}
		if f.excluded(root, path, false) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return files, err
	}

	f.logger().WithFields(logrus.Fields{"dir": root, "files": len(files)}).Debug("discovered source files")
	return files, nil
}

func (f *Finder) excluded(root, path string, dir bool) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	if f.SkipVendor {
		candidate := rel
		if dir {
			candidate += "/"
		}
		if enry.IsVendor(candidate) {
			return true
		}
	}
	for _, pattern := range f.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func matchesExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// isRegular accepts regular files and symlinks that resolve to one.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// FindSourceFiles returns the files under rootDir matching extensions. A
// missing directory yields an empty result and, unless silent, a warning.
func FindSourceFiles(rootDir string, extensions []string, silent bool) []string {
	finder := &Finder{Silent: silent}
	files, _ := finder.Find(rootDir, extensions)
	return files
}
