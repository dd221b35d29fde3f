package format

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapmerge/internal/mapping"
)

const canonicalTiny = "tiny\t2\t0\tobf\tnamed\n" +
	"c\ta\tnet/Foo\n" +
	"\tf\tI\tb\tcount\n" +
	"\tm\t(La$c;J)V\td\tupdate\n" +
	"\t\tp\t1\t\tinner\n" +
	"\t\tp\t2\t\ttime\n" +
	"\tm\t()La;\te\tself\n" +
	"c\ta$c\tnet/Foo$Bar\n" +
	"c\tf\tnet/Baz\n"

func TestTiny_RoundTrip(t *testing.T) {
	s, err := ReadTiny(strings.NewReader(canonicalTiny), "test.tiny")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTiny(&buf, s))

	if diff := cmp.Diff(canonicalTiny, buf.String()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTiny_CanonicalizesOrderAndComments(t *testing.T) {
	in := "tiny\t2\t0\tobf\tnamed\n" +
		"\tsorted-by-nobody\n" +
		"c\tf\tnet/Baz # trailing comment\n" +
		"# full line comment\n" +
		"c\ta\tnet/Foo\n" +
		"\tc\tthis is a class comment\n" +
		"\tm\t()La;\te\tself\n" +
		"\t\tc\tmethod comment\n" +
		"\tf\tI\tb\tcount\n" +
		"\n" +
		"c\ta$c\tnet/Foo$Bar\n" +
		"\tm\t(La$c;J)V\td\tupdate\n" +
		"\t\tp\t2\t\ttime\n" +
		"\t\tp\t1\t\tinner\n"

	s, err := ReadTiny(strings.NewReader(in), "test.tiny")
	require.NoError(t, err)

	out, err := Encode(KindTiny, s)
	require.NoError(t, err)

	// d is declared on a$c above, unlike canonicalTiny
	want := "tiny\t2\t0\tobf\tnamed\n" +
		"c\ta\tnet/Foo\n" +
		"\tf\tI\tb\tcount\n" +
		"\tm\t()La;\te\tself\n" +
		"c\ta$c\tnet/Foo$Bar\n" +
		"\tm\t(La$c;J)V\td\tupdate\n" +
		"\t\tp\t1\t\tinner\n" +
		"\t\tp\t2\t\ttime\n" +
		"c\tf\tnet/Baz\n"

	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Errorf("canonical output mismatch (-want +got):\n%s", diff)
	}
}

func TestTiny_ImplicitParents(t *testing.T) {
	in := "tiny\t2\t0\tobf\tnamed\n" +
		"c\ta$b\tnet/Foo$Bar\n"

	s, err := ReadTiny(strings.NewReader(in), "")
	require.NoError(t, err)

	outer, ok := s.Class("a")
	require.True(t, ok)
	assert.False(t, outer.Explicit)
	assert.Equal(t, "net/Foo", outer.To)

	out, err := Encode(KindTiny, s)
	require.NoError(t, err)
	assert.Equal(t, in, string(out), "implicit parent is not written")
}

func TestTiny_HeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"three namespaces", "tiny\t2\t0\tobf\tnamed\tother\n"},
		{"one namespace", "tiny\t2\t0\tobf\n"},
		{"wrong magic", "v1\tobf\tnamed\n"},
		{"empty", "# nothing\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTiny(strings.NewReader(tt.in), "bad.tiny")

			var fe *FormatError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, "bad.tiny", fe.File)
		})
	}
}

func TestTiny_LineErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		line int
	}{
		{"member before class", "\tm\t()V\ta\tb\n", 2},
		{"short class line", "c\ta\n", 2},
		{"param outside method", "c\ta\tb\n\tf\tI\tc\td\n\t\tp\t1\t\tx\n", 4},
		{"bad param index", "c\ta\tb\n\tm\t()V\tc\td\n\t\tp\tx\t\ty\n", 4},
		{"unknown kind", "c\ta\tb\n\tq\tx\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTiny(strings.NewReader("tiny\t2\t0\tobf\tnamed\n"+tt.body), "bad.tiny")

			var fe *FormatError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.line, fe.Line)
		})
	}
}

func TestReadTinyAs(t *testing.T) {
	s, err := ReadTinyAs(strings.NewReader(canonicalTiny), "", "named", "obf")
	require.NoError(t, err)

	assert.Equal(t, "named", s.FromNamespace)

	c, ok := s.Class("net/Foo")
	require.True(t, ok)

	_, ok = c.Method(mapping.MethodSignature{Name: "update", Desc: "(Lnet/Foo$Bar;J)V"})
	assert.True(t, ok)

	_, err = ReadTinyAs(strings.NewReader(canonicalTiny), "", "obf", "spigot")

	var fe *FormatError
	assert.True(t, errors.As(err, &fe))
}

func TestStripComment(t *testing.T) {
	assert.Equal(t, "a b", StripComment("a b # c"))
	assert.Equal(t, "", StripComment("# all of it"))
	assert.Equal(t, "\tx", StripComment("\tx\t#y"))
	assert.Equal(t, "plain", StripComment("plain"))
}
