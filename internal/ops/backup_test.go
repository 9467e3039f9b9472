package ops

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/haythammda/Gift-Storm/internal/catalog"
)

var backupTime = time.Date(2026, 12, 24, 18, 0, 0, 0, time.UTC)

func seedDataDir(t *testing.T) (string, map[string]string) {
	t.Helper()
	src := filepath.Join(t.TempDir(), "src")
	files := map[string]string{
		"leaderboard.json":     `{"scores":[{"name":"Noor","score":120}]}`,
		"donation.json":        `{"donationTotalJOD":250,"donationGoalJOD":1000}`,
		"players/default.json": `{"coins":42,"workshopUpgrades":{"maxHp":1}}`,
	}
	for rel, content := range files {
		path := filepath.Join(src, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir parent %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return src, files
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	got := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		got[filepath.ToSlash(rel)] = string(b)
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	return got
}

func TestBackupRestoreDataDir_RoundTrip(t *testing.T) {
	src, files := seedDataDir(t)

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	manifest, err := BackupDataDir(src, archive, backupTime)
	if err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	if len(manifest.Files) != len(files) {
		t.Fatalf("manifest files = %d, want %d", len(manifest.Files), len(files))
	}
	if manifest.Files[0].Path != "donation.json" {
		t.Fatalf("manifest not sorted: %+v", manifest.Files)
	}
	if !manifest.CreatedAt.Equal(backupTime) {
		t.Fatalf("createdAt = %v", manifest.CreatedAt)
	}

	restoreDir := filepath.Join(t.TempDir(), "restore")
	restored, err := RestoreDataDir(archive, restoreDir)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !reflect.DeepEqual(manifest.Files, restored.Files) {
		t.Fatalf("restored manifest mismatch:\nwant=%v\ngot=%v", manifest.Files, restored.Files)
	}

	if got := readTree(t, restoreDir); !reflect.DeepEqual(files, got) {
		t.Fatalf("restored files mismatch:\nwant=%v\ngot=%v", files, got)
	}
}

type archiveEntry struct {
	name string
	body []byte
}

func writeArchive(t *testing.T, entries []archiveEntry) string {
	t.Helper()
	archive := filepath.Join(t.TempDir(), "crafted.tar.gz")
	f, err := os.Create(archive)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		if err := tw.WriteHeader(&tar.Header{
			Name:     e.name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(e.body)),
		}); err != nil {
			t.Fatalf("write header: %v", err)
		}
		if _, err := tw.Write(e.body); err != nil {
			t.Fatalf("write body: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return archive
}

func manifestFor(t *testing.T, entries ...ManifestEntry) archiveEntry {
	t.Helper()
	b, err := json.Marshal(Manifest{CreatedAt: backupTime, Files: entries})
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	return archiveEntry{name: ManifestName, body: b}
}

func TestRestoreDataDir_RejectsPathTraversal(t *testing.T) {
	archive := writeArchive(t, []archiveEntry{
		{name: "../escape.txt", body: []byte("bad")},
		manifestFor(t),
	})
	if _, err := RestoreDataDir(archive, filepath.Join(t.TempDir(), "out")); err == nil {
		t.Fatalf("expected restore to reject path traversal archive")
	}
}

func TestRestoreDataDir_RejectsMissingManifest(t *testing.T) {
	archive := writeArchive(t, []archiveEntry{{name: "donation.json", body: []byte("{}")}})
	_, err := RestoreDataDir(archive, filepath.Join(t.TempDir(), "out"))
	if !errors.Is(err, ErrManifestMissing) {
		t.Fatalf("err = %v, want ErrManifestMissing", err)
	}
}

func TestRestoreDataDir_RejectsTamperedFile(t *testing.T) {
	archive := writeArchive(t, []archiveEntry{
		{name: "donation.json", body: []byte(`{"donationTotalJOD":999999}`)},
		manifestFor(t, ManifestEntry{
			Path:   "donation.json",
			Size:   2,
			SHA256: "44136fa355b3678a1146ad16f7e8649e94fb4fc21fe77e8310c060f61caaff8a",
		}),
	})
	_, err := RestoreDataDir(archive, filepath.Join(t.TempDir(), "out"))
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("err = %v, want ErrChecksumMismatch", err)
	}
}

func TestRestoreDataDir_RejectsUnlistedFile(t *testing.T) {
	archive := writeArchive(t, []archiveEntry{
		{name: "extra.json", body: []byte("{}")},
		manifestFor(t),
	})
	_, err := RestoreDataDir(archive, filepath.Join(t.TempDir(), "out"))
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("err = %v, want ErrChecksumMismatch", err)
	}
}

func TestDrill(t *testing.T) {
	src, files := seedDataDir(t)
	report, err := Drill(src, t.TempDir(), backupTime)
	if err != nil {
		t.Fatalf("drill failed: %v", err)
	}
	if report.Files != len(files) {
		t.Fatalf("files = %d, want %d", report.Files, len(files))
	}
	if !strings.Contains(report.Archive, "20261224T180000Z") {
		t.Fatalf("archive name = %s", report.Archive)
	}
	want, err := DirDigest(src)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if report.Digest != want {
		t.Fatalf("digest = %s, want %s", report.Digest, want)
	}
}

func TestWriteSchemas(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "schema")
	paths, err := WriteSchemas(dir)
	if err != nil {
		t.Fatalf("write schemas: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	b, err := os.ReadFile(filepath.Join(dir, "profile.schema.json"))
	if err != nil {
		t.Fatalf("read profile schema: %v", err)
	}
	for _, field := range []string{`"coins"`, `"workshopUpgrades"`, `"Gift Storm Player Profile"`} {
		if !bytes.Contains(b, []byte(field)) {
			t.Fatalf("profile schema missing %s", field)
		}
	}
}

func TestWriteLevelTable(t *testing.T) {
	var buf bytes.Buffer
	levels := catalog.Default().Levels
	if err := WriteLevelTable(&buf, levels); err != nil {
		t.Fatalf("write table: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(levels)+1 {
		t.Fatalf("lines = %d, want %d", len(lines), len(levels)+1)
	}
	if !strings.HasPrefix(lines[1], "1 ") {
		t.Fatalf("first row = %q", lines[1])
	}
}
