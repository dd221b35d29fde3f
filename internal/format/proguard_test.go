package format

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapmerge/internal/mapping"
)

const sampleProguard = `# {"fileName":"client.txt","id":"sourceFile"}
net.minecraft.world.Entity -> a:
    # {"fileName":"Entity.java","id":"sourceFile"}
    int tickCount -> b
    net.minecraft.world.Entity$Pos[] positions -> c
    1:5:void <init>() -> <init>
    10:12:net.minecraft.world.Entity self(int,long,java.lang.String[]):40:42 -> d
    boolean isAlive() -> e
net.minecraft.world.Entity$Pos -> a$a:
    double x -> a
`

func TestReadProguard(t *testing.T) {
	s, err := ReadProguard(strings.NewReader(sampleProguard), "client.txt", "named", "obf")
	require.NoError(t, err)

	assert.Equal(t, "named", s.FromNamespace)

	e, ok := s.Class("net/minecraft/world/Entity")
	require.True(t, ok)
	assert.Equal(t, "a", e.To)

	f, ok := e.Field(mapping.FieldSignature{Name: "positions", Type: "[Lnet/minecraft/world/Entity$Pos;"})
	require.True(t, ok)
	assert.Equal(t, "c", f.To)

	m, ok := e.Method(mapping.MethodSignature{Name: "self", Desc: "(IJ[Ljava/lang/String;)Lnet/minecraft/world/Entity;"})
	require.True(t, ok)
	assert.Equal(t, "d", m.To)

	_, ok = e.Method(mapping.MethodSignature{Name: "<init>", Desc: "()V"})
	assert.True(t, ok)

	pos, ok := s.Class("net/minecraft/world/Entity$Pos")
	require.True(t, ok)
	assert.Equal(t, "a$a", s.FullTo(pos))
}

func TestReadProguard_ReverseForMerging(t *testing.T) {
	s, err := ReadProguard(strings.NewReader(sampleProguard), "", "named", "obf")
	require.NoError(t, err)

	r, err := s.Reverse()
	require.NoError(t, err)

	a, ok := r.Class("a")
	require.True(t, ok)

	m, ok := a.Method(mapping.MethodSignature{Name: "d", Desc: "(IJ[Ljava/lang/String;)La;"})
	require.True(t, ok)
	assert.Equal(t, "self", m.To)

	f, ok := a.Field(mapping.FieldSignature{Name: "c", Type: "[La$a;"})
	require.True(t, ok)
	assert.Equal(t, "positions", f.To)
}

func TestReadProguard_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no arrow", "a.B\n"},
		{"class without colon", "a.B -> c\n"},
		{"member first", "    int x -> y\n"},
		{"field without name", "a.B -> c:\n    int -> y\n"},
		{"bad method", "a.B -> c:\n    void (int) -> y\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadProguard(strings.NewReader(tt.in), "bad.txt", "named", "obf")

			var fe *FormatError
			assert.True(t, errors.As(err, &fe), "got %v", err)
		})
	}
}
