package ops

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

type DrillReport struct {
	Archive    string
	RestoreDir string
	Digest     string
	Files      int
}

// Drill backs dataDir up into workDir, restores it next to the archive and
// compares digests of both trees.
func Drill(dataDir, workDir string, now time.Time) (DrillReport, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return DrillReport{}, err
	}
	ts := now.UTC().Format("20060102T150405Z")
	archive := filepath.Join(workDir, "giftstorm-drill-"+ts+".tar.gz")
	restoreDir := filepath.Join(workDir, "giftstorm-drill-restore-"+ts)

	manifest, err := BackupDataDir(dataDir, archive, now)
	if err != nil {
		return DrillReport{}, err
	}
	if _, err := RestoreDataDir(archive, restoreDir); err != nil {
		return DrillReport{}, err
	}

	srcDigest, err := DirDigest(dataDir)
	if err != nil {
		return DrillReport{}, err
	}
	restoreDigest, err := DirDigest(restoreDir)
	if err != nil {
		return DrillReport{}, err
	}
	if srcDigest != restoreDigest {
		return DrillReport{}, fmt.Errorf("digest mismatch after restore: src=%s restored=%s", srcDigest, restoreDigest)
	}
	return DrillReport{
		Archive:    archive,
		RestoreDir: restoreDir,
		Digest:     srcDigest,
		Files:      len(manifest.Files),
	}, nil
}

// DirDigest hashes every regular file under root by relative path and
// content, in path order.
func DirDigest(root string) (string, error) {
	root = filepath.Clean(root)
	entries := []string{}
	if err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == ManifestName {
			return nil
		}
		entries = append(entries, filepath.ToSlash(rel))
		return nil
	}); err != nil {
		return "", err
	}
	sort.Strings(entries)

	h := sha256.New()
	for _, rel := range entries {
		_, _ = io.WriteString(h, rel)
		_, _ = io.WriteString(h, "\n")
		b, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			return "", err
		}
		if _, err := h.Write(b); err != nil {
			return "", err
		}
		_, _ = io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
