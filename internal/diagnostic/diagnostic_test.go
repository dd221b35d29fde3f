package diagnostic

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"mapmerge/internal/mapping"
)

func TestDiagnostics_ConcurrentAdd(t *testing.T) {
	var d Diagnostics

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if i%2 == 0 {
				d.AddWarning("conflict", "two names", "a/B", "m()V")
			} else {
				d.AddInfo("dropped", "stale", "a/B", "")
			}
		}()
	}

	wg.Wait()

	assert.Len(t, d.Warnings, 25)
	assert.Len(t, d.Infos, 25)
	assert.True(t, d.IsValid())
	assert.NoError(t, d.Error())
}

func TestDiagnostics_Error(t *testing.T) {
	var d Diagnostics
	d.AddError("missing", "class not found", "a/B", "")
	d.AddError("", "plain", "", "")

	assert.True(t, d.HasErrors())
	assert.EqualError(t, d.Error(), "[a/B]: [missing] class not found; plain")
}

func TestDiagnostics_NilIsNoop(t *testing.T) {
	var d *Diagnostics

	assert.NotPanics(t, func() {
		d.AddWarning("x", "y", "", "")
		d.AddInfo("x", "y", "", "")
	})
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{Code: "miss", Message: "no class", Class: "a/B", Member: "f", Suggestions: []string{"a/C"}}
	assert.Equal(t, "[a/B] f: [miss] no class (did you mean a/C?)", d.String())
}

func TestDiagnostics_MergeAndSort(t *testing.T) {
	var a, b Diagnostics
	a.AddWarning("w", "second", "b/B", "")
	b.AddWarning("w", "first", "a/A", "")

	a.Merge(&b)
	a.Sort()

	require.Len(t, a.Warnings, 2)
	assert.Equal(t, "a/A", a.Warnings[0].Class)
}

func TestReport(t *testing.T) {
	set := mapping.NewSet("official", "named")
	set.CreateClass("a", "Foo").CreateField(mapping.FieldSignature{Name: "b"}, "bar")

	r := NewReport("convert")
	r.AddStage("read", set)

	var d Diagnostics
	d.AddWarning("w", "msg", "a", "")
	r.Finish(&d)

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, mapping.Stats{Classes: 1, Fields: 1}, last.Stats)
	assert.Len(t, last.Fingerprint, 16)

	data, err := r.Marshal()
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "convert", back["useCase"])

	warnings, ok := back["warnings"].([]any)
	require.True(t, ok)
	require.Len(t, warnings, 1)
	assert.Equal(t, "warning", warnings[0].(map[string]any)["severity"])
}

func TestDiagnostics_AddMiss(t *testing.T) {
	var d Diagnostics
	d.AddMiss("miss", "class not in hierarchy", "a/Chil", []string{"a/Child"})

	require.Len(t, d.Warnings, 1)
	assert.Equal(t, "[a/Chil]: [miss] class not in hierarchy (did you mean a/Child?)", d.Warnings[0].String())
}
