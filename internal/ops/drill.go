package ops

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DrillReport is the outcome of a backup-then-restore rehearsal.
type DrillReport struct {
	Archive    string `json:"archive"`
	RestoreDir string `json:"restoreDir"`
	Files      int    `json:"files"`
	Digest     string `json:"digest"`
}

// Drill backs dataDir up into workDir, restores it next to the archive and
// checks that both trees hash the same.
func Drill(dataDir, workDir string, now time.Time) (DrillReport, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return DrillReport{}, err
	}
	ts := now.UTC().Format("20060102T150405Z")
	rep := DrillReport{
		Archive:    filepath.Join(workDir, "lifequest-drill-"+ts+".tar.zst"),
		RestoreDir: filepath.Join(workDir, "lifequest-drill-restore-"+ts),
	}

	n, err := Backup(dataDir, rep.Archive)
	if err != nil {
		return rep, fmt.Errorf("backup: %w", err)
	}
	if _, err := Restore(rep.Archive, rep.RestoreDir); err != nil {
		return rep, fmt.Errorf("restore: %w", err)
	}
	rep.Files = n

	src, err := Digest(dataDir)
	if err != nil {
		return rep, err
	}
	restored, err := Digest(rep.RestoreDir)
	if err != nil {
		return rep, err
	}
	if src != restored {
		return rep, fmt.Errorf("digest mismatch after restore: src=%s restored=%s", src, restored)
	}
	rep.Digest = src
	return rep, nil
}

// Digest hashes every regular file under root (names and contents) in a
// stable order. Files skipped by Backup are skipped here too.
func Digest(root string) (string, error) {
	root = filepath.Clean(root)
	var entries []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Type()&os.ModeSymlink != 0 || strings.HasSuffix(path, ".tmp") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entries = append(entries, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(entries)

	h := sha256.New()
	for _, rel := range entries {
		_, _ = io.WriteString(h, rel+"\n")
		f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return "", err
		}
		_, err = io.Copy(h, f)
		_ = f.Close()
		if err != nil {
			return "", err
		}
		_, _ = io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
