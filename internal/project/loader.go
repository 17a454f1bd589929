package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/trishajanath/altx-canvas/internal/config"
)

// sourceExtensions lists the file types worth feeding to the analyzer. The
// detectors are lexical, so anything that is not program text is noise.
var sourceExtensions = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true, ".mjs": true,
	".py": true, ".rb": true, ".go": true, ".java": true, ".php": true,
	".vue": true, ".svelte": true, ".html": true,
	".json": true, ".yaml": true, ".yml": true, ".env": true, ".toml": true,
}

// Loader reads a project directory into the path -> content map the analyzer
// consumes.
type Loader struct {
	cfg config.AnalyzerConfig
	log *zap.Logger
}

// NewLoader creates a loader.
func NewLoader(cfg config.AnalyzerConfig, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{cfg: cfg, log: logger.Named("project")}
}

// Load walks the project root and returns source file contents keyed by
// path relative to the root. Ignored directories, oversized files, and
// non-source extensions are skipped.
func (l *Loader) Load(root string) (map[string]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %q is not a directory", root)
	}

	files := make(map[string]string)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if l.ignored(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !sourceExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		if fi.Size() > l.cfg.MaxFileSize {
			l.log.Debug("Skipping oversized file",
				zap.String("path", path), zap.Int64("size", fi.Size()))
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(content)
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.log.Info("Project loaded", zap.String("root", root), zap.Int("files", len(files)))
	return files, nil
}

func (l *Loader) ignored(dir string) bool {
	for _, ig := range l.cfg.IgnoreDirs {
		if dir == ig {
			return true
		}
	}
	return false
}
