package format

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"mapmerge/internal/mapping"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Kind identifies a mapping file format.
type Kind int

const (
	KindUnknown Kind = iota
	KindTiny
	KindCSRG
	KindProguard
)

// String returns the lowercase name of the Kind.
func (k Kind) String() string {
	switch k {
	case KindTiny:
		return "tiny"
	case KindCSRG:
		return "csrg"
	case KindProguard:
		return "proguard"
	default:
		return "unknown"
	}
}

// ParseKind parses a format name. "tiny2" and "srg" style aliases are accepted.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tiny", "tiny2", "tinyv2":
		return KindTiny, nil
	case "csrg":
		return KindCSRG, nil
	case "proguard", "pg", "mojang":
		return KindProguard, nil
	default:
		return KindUnknown, fmt.Errorf("unknown mapping format %q", s)
	}
}

// KindFromPath guesses the format from a file extension.
func KindFromPath(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tiny":
		return KindTiny
	case ".csrg":
		return KindCSRG
	case ".txt", ".proguard":
		return KindProguard
	default:
		return KindUnknown
	}
}

// Read reads a mapping set of the given kind from r as (from, to).
//
// Tiny files are reversed when their header declares (to, from). Proguard
// files are read in their native direction, so from must name the
// deobfuscated namespace.
func Read(r io.Reader, kind Kind, name, from, to string) (*mapping.Set, error) {
	switch kind {
	case KindTiny:
		return ReadTinyAs(r, name, from, to)
	case KindCSRG:
		return ReadCSRG(r, name, from, to)
	case KindProguard:
		return ReadProguard(r, name, from, to)
	default:
		return nil, fmt.Errorf("read %s: unsupported format %s", name, kind)
	}
}

// Write writes s to w in the given format.
func Write(w io.Writer, kind Kind, s *mapping.Set) error {
	switch kind {
	case KindTiny:
		return WriteTiny(w, s)
	case KindCSRG:
		return WriteCSRG(w, s)
	default:
		return fmt.Errorf("write: unsupported format %s", kind)
	}
}

// ReadFile reads the mapping file at path.
func ReadFile(path string, kind Kind, from, to string) (*mapping.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mappings: %w", err)
	}
	defer f.Close()

	return Read(bufio.NewReader(f), kind, path, from, to)
}

// Encode renders s in the given format.
func Encode(kind Kind, s *mapping.Set) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, kind, s); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// WriteFile writes s to path, creating parent directories. The file is
// replaced atomically: readers see either the old or the new content.
func WriteFile(path string, kind Kind, s *mapping.Set) error {
	data, err := Encode(kind, s)
	if err != nil {
		return err
	}

	return WriteAtomic(path, data)
}

// EncodeClassNameChanges renders case-only class renames as a JSON array.
func EncodeClassNameChanges(changes []mapping.ClassNameChange) ([]byte, error) {
	if changes == nil {
		changes = []mapping.ClassNameChange{}
	}

	data, err := json.MarshalIndent(changes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling class name changes: %w", err)
	}

	return append(data, '\n'), nil
}

// WriteAtomic writes data to a temporary file next to path and renames it
// into place.
func WriteAtomic(path string, data []byte) error {
	return WriteAll(map[string][]byte{path: data})
}

// WriteAll writes every file to a temporary file next to its path, in path
// order, and renames them into place only once all of them are written. If
// any write fails no file is replaced.
func WriteAll(files map[string][]byte) error {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}

	slices.Sort(paths)

	tmps := make([]string, 0, len(paths))
	cleanup := func() {
		for _, t := range tmps {
			_ = os.Remove(t)
		}
	}

	for _, p := range paths {
		tmp, err := writeTemp(p, files[p])
		if err != nil {
			cleanup()
			return err
		}

		tmps = append(tmps, tmp)
	}

	for i, p := range paths {
		if err := os.Rename(tmps[i], p); err != nil {
			// earlier renames are already in place
			cleanup()
			return fmt.Errorf("renaming into %s: %w", p, err)
		}
	}

	return nil
}

func writeTemp(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)

	err := os.MkdirAll(dir, dirPerm)
	if err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file for %s: %w", path, err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("closing %s: %w", path, err)
	}

	if err := os.Chmod(tmpName, filePerm); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("chmod %s: %w", path, err)
	}

	return tmpName, nil
}
