package ops

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ManifestName is the archive entry listing every file with its checksum.
const ManifestName = "MANIFEST.json"

var (
	ErrManifestMissing  = errors.New("archive has no manifest")
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

type ManifestEntry struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

type Manifest struct {
	CreatedAt time.Time       `json:"createdAt"`
	Files     []ManifestEntry `json:"files"`
}

func (m Manifest) lookup(path string) (ManifestEntry, bool) {
	for _, e := range m.Files {
		if e.Path == path {
			return e, true
		}
	}
	return ManifestEntry{}, false
}

// archiveWriter streams a tar.gz and records a manifest entry per file.
type archiveWriter struct {
	gz       *gzip.Writer
	tw       *tar.Writer
	manifest Manifest
}

func newArchiveWriter(w io.Writer, now time.Time) *archiveWriter {
	gz := gzip.NewWriter(w)
	return &archiveWriter{
		gz:       gz,
		tw:       tar.NewWriter(gz),
		manifest: Manifest{CreatedAt: now.UTC(), Files: []ManifestEntry{}},
	}
}

func (a *archiveWriter) addDir(rel string, info fs.FileInfo) error {
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = strings.TrimSuffix(rel, "/") + "/"
	return a.tw.WriteHeader(hdr)
}

func (a *archiveWriter) addFile(rel, path string, info fs.FileInfo) error {
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = rel
	if err := a.tw.WriteHeader(hdr); err != nil {
		return err
	}
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	sum := sha256.New()
	n, err := io.Copy(io.MultiWriter(a.tw, sum), src)
	if err != nil {
		return err
	}
	a.manifest.Files = append(a.manifest.Files, ManifestEntry{
		Path:   rel,
		Size:   n,
		SHA256: hex.EncodeToString(sum.Sum(nil)),
	})
	return nil
}

// close appends the manifest as the final entry.
func (a *archiveWriter) close() (Manifest, error) {
	m := a.manifest
	sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Path < m.Files[j].Path })
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return Manifest{}, err
	}
	hdr := &tar.Header{
		Name:     ManifestName,
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len(b)),
		ModTime:  m.CreatedAt,
	}
	if err := a.tw.WriteHeader(hdr); err != nil {
		return Manifest{}, err
	}
	if _, err := a.tw.Write(b); err != nil {
		return Manifest{}, err
	}
	if err := a.tw.Close(); err != nil {
		return Manifest{}, err
	}
	return m, a.gz.Close()
}

// BackupDataDir writes srcDir to a tar.gz archive followed by a manifest of
// per-file SHA-256 sums. Symlinks are skipped.
func BackupDataDir(srcDir, archivePath string, now time.Time) (Manifest, error) {
	srcDir = filepath.Clean(strings.TrimSpace(srcDir))
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if srcDir == "" || archivePath == "" {
		return Manifest{}, fmt.Errorf("srcDir and archivePath are required")
	}
	if info, err := os.Stat(srcDir); err != nil {
		return Manifest{}, err
	} else if !info.IsDir() {
		return Manifest{}, fmt.Errorf("source is not a directory: %s", srcDir)
	}
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return Manifest{}, err
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()

	aw := newArchiveWriter(f, now)
	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || path == srcDir {
			return walkErr
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		// a manifest left behind by a restore is regenerated
		if rel == ManifestName {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return aw.addDir(rel, info)
		}
		return aw.addFile(rel, path, info)
	})
	if err != nil {
		return Manifest{}, err
	}

	manifest, err := aw.close()
	if err != nil {
		return Manifest{}, err
	}
	return manifest, f.Close()
}

// RestoreDataDir extracts an archive made by BackupDataDir and verifies every
// file against the manifest. Files the manifest does not list are rejected.
func RestoreDataDir(archivePath, targetDir string) (Manifest, error) {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	targetDir = filepath.Clean(strings.TrimSpace(targetDir))
	if archivePath == "" || targetDir == "" {
		return Manifest{}, fmt.Errorf("archivePath and targetDir are required")
	}

	manifest, err := ReadManifest(archivePath)
	if err != nil {
		return Manifest{}, err
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return Manifest{}, err
	}

	err = walkArchive(archivePath, func(hdr *tar.Header, r io.Reader) error {
		rel, err := sanitizeArchiveRelPath(hdr.Name)
		if err != nil {
			return err
		}
		if rel == ManifestName {
			return nil
		}
		outPath := filepath.Join(targetDir, rel)

		switch hdr.Typeflag {
		case tar.TypeDir:
			return os.MkdirAll(outPath, os.FileMode(hdr.Mode))
		case tar.TypeReg:
			want, ok := manifest.lookup(filepath.ToSlash(rel))
			if !ok {
				return fmt.Errorf("%w: %s not in manifest", ErrChecksumMismatch, rel)
			}
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return err
			}
			dst, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode))
			if err != nil {
				return err
			}
			h := sha256.New()
			if _, err := io.Copy(io.MultiWriter(dst, h), r); err != nil {
				_ = dst.Close()
				return err
			}
			if err := dst.Close(); err != nil {
				return err
			}
			if got := hex.EncodeToString(h.Sum(nil)); got != want.SHA256 {
				return fmt.Errorf("%w: %s", ErrChecksumMismatch, rel)
			}
		}
		return nil
	})
	if err != nil {
		return Manifest{}, err
	}
	return manifest, nil
}

// ReadManifest returns the manifest stored in an archive.
func ReadManifest(archivePath string) (Manifest, error) {
	var (
		m     Manifest
		found bool
	)
	err := walkArchive(archivePath, func(hdr *tar.Header, r io.Reader) error {
		if hdr.Name != ManifestName {
			return nil
		}
		found = true
		return json.NewDecoder(r).Decode(&m)
	})
	if err != nil {
		return Manifest{}, err
	}
	if !found {
		return Manifest{}, ErrManifestMissing
	}
	return m, nil
}

func walkArchive(archivePath string, fn func(*tar.Header, io.Reader) error) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(hdr, tr); err != nil {
			return err
		}
	}
}

func sanitizeArchiveRelPath(name string) (string, error) {
	name = filepath.Clean(strings.TrimSpace(name))
	if name == "." || name == "" {
		return "", fmt.Errorf("invalid archive entry path")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid absolute archive entry path: %s", name)
	}
	if strings.HasPrefix(name, ".."+string(filepath.Separator)) || name == ".." {
		return "", fmt.Errorf("invalid archive entry path traversal: %s", name)
	}
	return name, nil
}
