package pipeline

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"mapmerge/internal/complete"
	"mapmerge/internal/format"
	"mapmerge/internal/mapping"
	"mapmerge/internal/merge"
)

// LoggerType is the descriptor of injected logger fields.
const LoggerType = "Lorg/apache/logging/log4j/Logger;"

// LoggerName is the name given to injected logger fields.
const LoggerName = "LOGGER"

// readTable reads a whitespace separated table. Blank lines and '#'
// comments are skipped, and every row must have at least minCols columns.
func readTable(path string, minCols int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table: %w", err)
	}
	defer f.Close()

	var rows [][]string

	sc := bufio.NewScanner(f)
	num := 0

	for sc.Scan() {
		num++

		line := format.StripComment(sc.Text())
		if strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Fields(line)
		if len(cols) < minCols {
			return nil, &format.FormatError{File: path, Line: num, Text: line,
				Msg: fmt.Sprintf("expected at least %d columns, got %d", minCols, len(cols))}
		}

		rows = append(rows, cols)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return rows, nil
}

// injectLoggerFields maps the logger fields listed in path ("class field"
// rows keyed by obfuscated names) to LoggerName. Classes set does not map
// are skipped.
func injectLoggerFields(path string, set *mapping.Set) (int, error) {
	rows, err := readTable(path, 2)
	if err != nil {
		return 0, err
	}

	n := 0

	for _, row := range rows {
		c, ok := set.Class(row[0])
		if !ok {
			continue
		}

		c.CreateField(mapping.FieldSignature{Name: row[1], Type: LoggerType}, LoggerName)
		n++
	}

	return n, nil
}

// readSynths reads "class desc synth base" rows.
func readSynths(path string) (merge.SynthTable, error) {
	rows, err := readTable(path, 4)
	if err != nil {
		return nil, err
	}

	t := merge.SynthTable{}
	for _, row := range rows {
		t.Add(row[0], row[1], row[2], row[3])
	}

	return t, nil
}

// readPackage returns the target package of the first row of a package
// mapping file ("./ net/minecraft/server/").
func readPackage(path string) (string, error) {
	rows, err := readTable(path, 2)
	if err != nil {
		return "", err
	}

	if len(rows) == 0 {
		return "", fmt.Errorf("package mappings %s: no entries", path)
	}

	pkg := rows[0][1]
	if !strings.HasSuffix(pkg, "/") {
		pkg += "/"
	}

	return pkg, nil
}

// ParamIndexTable moves parameter mappings by a fixed table instead of the
// hierarchy. Rows are "class method desc from to [from to ...]" keyed by
// the from-names of the set. Parameters the table does not list keep their
// index.
type ParamIndexTable map[complete.Target]map[int]int

func readParamIndexes(path string) (ParamIndexTable, error) {
	rows, err := readTable(path, 3)
	if err != nil {
		return nil, err
	}

	t := ParamIndexTable{}

	for _, row := range rows {
		if len(row)%2 == 0 {
			return nil, fmt.Errorf("param indexes %s: %s%s has an odd index list", path, row[1], row[2])
		}

		target := complete.MethodTarget(row[0], row[1], row[2])
		if t[target] == nil {
			t[target] = make(map[int]int)
		}

		for i := 3; i < len(row); i += 2 {
			from, err := strconv.Atoi(row[i])
			if err != nil {
				return nil, fmt.Errorf("param indexes %s: %w", path, err)
			}

			to, err := strconv.Atoi(row[i+1])
			if err != nil {
				return nil, fmt.Errorf("param indexes %s: %w", path, err)
			}

			t[target][from] = to
		}
	}

	return t, nil
}

func (ParamIndexTable) Name() string { return "ParamIndexTable" }

func (t ParamIndexTable) Contribute(cc *complete.ClassContext) error {
	if cc.Mapping == nil {
		return nil
	}

	for _, m := range cc.Mapping.Methods() {
		target := complete.MethodTarget(cc.Name, m.Signature.Name, m.Signature.Desc)

		moves, ok := t[target]
		if !ok {
			continue
		}

		for _, p := range m.Params() {
			if to, ok := moves[p.Index]; ok && to != p.Index {
				cc.Submit(complete.NewParamIndexChange(target, p.Index, to))
			}
		}
	}

	return nil
}

// spigotFieldMappings rekeys the field mappings of source by Spigot class
// names. Classes Spigot does not rename keep their source to-name for top
// level classes and their simple from-name for inner classes. Field names
// that are Java keywords get a trailing underscore.
func spigotFieldMappings(source, spigotClasses *mapping.Set, spigotNS string) *mapping.Set {
	_, deobf := source.Namespaces()
	out := mapping.NewSet(spigotNS, deobf)

	for _, c := range source.TopLevelClasses() {
		name := c.To
		if sc, ok := spigotClasses.TopLevelClass(c.From); ok {
			name = sc.To
		}

		copySpigotFields(source, spigotClasses, c, out, out.CreateTopLevelClass(name, name))
	}

	return out
}

func copySpigotFields(source, spigotClasses *mapping.Set, from *mapping.Class, out *mapping.Set, to *mapping.Class) {
	for _, in := range source.InnerClasses(from) {
		name := in.From
		if sc, ok := spigotClasses.Class(source.FullFrom(in)); ok {
			name = sc.To
		}

		copySpigotFields(source, spigotClasses, in, out, out.CreateInnerClass(to, name, name))
	}

	for _, f := range from.Fields() {
		name := f.Signature.Name
		if name == "if" || name == "do" {
			name += "_"
		}

		to.CreateField(mapping.FieldSignature{Name: name, Type: f.Signature.Type}, f.To)
	}
}
