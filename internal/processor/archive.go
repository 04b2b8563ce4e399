package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// inInputDir reports whether path lies inside the configured input folder.
// Files passed from anywhere else are left where they are.
func (p *implProcessor) inInputDir(path string) bool {
	if p.opts.InputDir == "" || p.opts.ArchiveDir == "" {
		return false
	}
	dir, err := filepath.Abs(p.opts.InputDir)
	if err != nil {
		return false
	}
	file, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(dir, file)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// moveToArchived moves a processed transcript file into the archive folder
func (p *implProcessor) moveToArchived(ctx context.Context, path string) (string, error) {
	if err := os.MkdirAll(p.opts.ArchiveDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	dest, err := archiveName(p.opts.ArchiveDir, filepath.Base(path), time.Now())
	if err != nil {
		return "", err
	}

	p.logger.Info(ctx, "Moving to archived folder: %s -> %s", path, dest)

	if err := os.Rename(path, dest); err != nil {
		// rename fails across devices, copy instead
		if err := copyFile(path, dest); err != nil {
			return "", fmt.Errorf("move to archived: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("remove original: %w", err)
		}
	}
	return dest, nil
}

// archiveName picks a destination in dir that does not exist yet. A taken
// name gets a timestamp, then a counter.
func archiveName(dir, base string, at time.Time) (string, error) {
	dest := filepath.Join(dir, base)
	if _, err := os.Stat(dest); errors.Is(err, os.ErrNotExist) {
		return dest, nil
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext) + "_" + at.Format("20060102_150405")
	for i := 0; i < 1000; i++ {
		name := stem + ext
		if i > 0 {
			name = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		dest = filepath.Join(dir, name)
		if _, err := os.Stat(dest); errors.Is(err, os.ErrNotExist) {
			return dest, nil
		}
	}
	return "", fmt.Errorf("no free archive name for %s", base)
}

// copyFile copies src to dst without replacing an existing dst
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write destination: %w", err)
	}
	return f.Close()
}
