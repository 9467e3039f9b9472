package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/ops"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "backup":
		err = cmdBackup(os.Args[2:])
	case "restore":
		err = cmdRestore(os.Args[2:])
	case "manifest":
		err = cmdManifest(os.Args[2:])
	case "drill":
		err = cmdDrill(os.Args[2:])
	case "schema":
		err = cmdSchema(os.Args[2:])
	case "levels":
		err = cmdLevels(os.Args[2:])
	default:
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func cmdBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to data directory")
	out := fs.String("out", "", "output archive path (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	now := time.Now()
	if *out == "" {
		ts := now.UTC().Format("20060102T150405Z")
		*out = filepath.Join("backups", "giftstorm-"+ts+".tar.gz")
	}

	manifest, err := ops.BackupDataDir(*dataDir, *out, now)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d files)\n", *out, len(manifest.Files))
	return nil
}

func cmdRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	archive := fs.String("archive", "", "input backup archive (.tar.gz)")
	target := fs.String("target-dir", "data-restored", "restore target directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return fmt.Errorf("archive is required")
	}
	manifest, err := ops.RestoreDataDir(*archive, *target)
	if err != nil {
		return err
	}
	fmt.Printf("restored %d files from backup taken %s\n", len(manifest.Files), manifest.CreatedAt.Format(time.RFC3339))
	return nil
}

func cmdManifest(args []string) error {
	fs := flag.NewFlagSet("manifest", flag.ContinueOnError)
	archive := fs.String("archive", "", "backup archive (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return fmt.Errorf("archive is required")
	}
	m, err := ops.ReadManifest(*archive)
	if err != nil {
		return err
	}
	fmt.Println("created:", m.CreatedAt.Format(time.RFC3339))
	for _, e := range m.Files {
		fmt.Printf("%s  %8d  %s\n", e.SHA256[:12], e.Size, e.Path)
	}
	return nil
}

func cmdDrill(args []string) error {
	fs := flag.NewFlagSet("drill", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to data directory")
	workDir := fs.String("work-dir", os.TempDir(), "temporary workspace for drill artifacts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	report, err := ops.Drill(*dataDir, *workDir, time.Now())
	if err != nil {
		return err
	}
	fmt.Println("backup:", report.Archive)
	fmt.Println("restored:", report.RestoreDir)
	fmt.Println("files:", report.Files)
	fmt.Println("digest:", report.Digest)
	return nil
}

func cmdSchema(args []string) error {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	outDir := fs.String("out-dir", "schema", "directory to write JSON schemas into")
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths, err := ops.WriteSchemas(*outDir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}

func cmdLevels(args []string) error {
	fs := flag.NewFlagSet("levels", flag.ContinueOnError)
	catalogPath := fs.String("catalog", "", "catalog YAML to use instead of the embedded one")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cat := catalog.Default()
	if *catalogPath != "" {
		b, err := os.ReadFile(*catalogPath)
		if err != nil {
			return err
		}
		if cat, err = catalog.Parse(b); err != nil {
			return err
		}
	}
	return ops.WriteLevelTable(os.Stdout, cat.Levels)
}

func printUsage() {
	fmt.Println("usage:")
	fmt.Println("  giftstorm-ops backup  --data-dir data --out backups/backup.tar.gz")
	fmt.Println("  giftstorm-ops restore --archive backups/backup.tar.gz --target-dir data-restored")
	fmt.Println("  giftstorm-ops manifest --archive backups/backup.tar.gz")
	fmt.Println("  giftstorm-ops drill   --data-dir data --work-dir /tmp")
	fmt.Println("  giftstorm-ops schema  --out-dir schema")
	fmt.Println("  giftstorm-ops levels  [--catalog catalog.yml]")
}
