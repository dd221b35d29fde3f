package hierarchy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"mapmerge/internal/common"
)

// ClassFile is the YAML document of a class dump.
type ClassFile struct {
	// Root overrides the root the caller loads the file into.
	Root    string       `yaml:"root,omitempty"`
	Classes []*ClassData `yaml:"classes"`
}

// Parse parses a YAML class dump. Multiple documents in one stream are
// concatenated.
func Parse(data []byte) (*ClassFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	out := &ClassFile{}

	for {
		var doc ClassFile

		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}

		if doc.Root != "" {
			out.Root = doc.Root
		}

		out.Classes = append(out.Classes, doc.Classes...)
	}

	return out, nil
}

// LoadFile reads a class dump from disk.
func LoadFile(path string) (*ClassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	cf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cf, nil
}

// Marshal serializes classes to YAML.
func Marshal(cf *ClassFile) ([]byte, error) {
	return yaml.Marshal(cf)
}

// ExpandPatterns expands doublestar glob patterns into a sorted,
// de-duplicated file list. A pattern without glob characters that matches
// nothing is an error; a glob matching nothing is not.
func ExpandPatterns(patterns ...string) ([]string, error) {
	var files []string

	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}

		if len(matches) == 0 && !hasMeta(p) {
			return nil, fmt.Errorf("class dump %s: %w", p, os.ErrNotExist)
		}

		files = append(files, matches...)
	}

	slices.Sort(files)

	return common.Dedupe(files), nil
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// LoadFiles loads every class dump matched by patterns into g under root,
// unless a file names its own root.
func LoadFiles(g *Graph, root Root, patterns ...string) error {
	files, err := ExpandPatterns(patterns...)
	if err != nil {
		return err
	}

	for _, path := range files {
		cf, err := LoadFile(path)
		if err != nil {
			return err
		}

		r := root
		if cf.Root != "" {
			r, err = ParseRoot(cf.Root)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}

		if err := g.Add(r, cf.Classes...); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	return nil
}
