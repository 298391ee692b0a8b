package delimited

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_ReadAll(t *testing.T) {
	tests := []struct {
		name  string
		input string
		comma rune
		quote rune
		want  [][]string
	}{
		{
			name:  "simple",
			input: "a,b,c\n1,2,3\n",
			want:  [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
		{
			name:  "no trailing newline",
			input: "a,b\n1,2",
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:  "crlf line endings",
			input: "a,b\r\n1,2\r\n",
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:  "empty fields",
			input: "a,b,c\n,,\n1,,\n",
			want:  [][]string{{"a", "b", "c"}, {"", "", ""}, {"1", "", ""}},
		},
		{
			name:  "blank lines skipped",
			input: "a,b\n\n1,2\n\r\n3,4\n",
			want:  [][]string{{"a", "b"}, {"1", "2"}, {"3", "4"}},
		},
		{
			name:  "quoted separator",
			input: "name,value\n\"Korea, Rep.\",5\n",
			want:  [][]string{{"name", "value"}, {"Korea, Rep.", "5"}},
		},
		{
			name:  "doubled quote escapes",
			input: "q\n\"say \"\"hi\"\"\"\n",
			want:  [][]string{{"q"}, {`say "hi"`}},
		},
		{
			name:  "quoted newline",
			input: "a,b\n\"line1\nline2\",x\n",
			want:  [][]string{{"a", "b"}, {"line1\nline2", "x"}},
		},
		{
			name:  "quote inside unquoted field is text",
			input: "a\nit\"s\n",
			want:  [][]string{{"a"}, {`it"s`}},
		},
		{
			name:  "text after closing quote kept",
			input: "a,b\n\"x\"y,z\n",
			want:  [][]string{{"a", "b"}, {"xy", "z"}},
		},
		{
			name:  "custom separator and quote",
			input: "Country Name;1960\n'Congo; Dem. Rep.';1.5\n",
			comma: ';',
			quote: '\'',
			want:  [][]string{{"Country Name", "1960"}, {"Congo; Dem. Rep.", "1.5"}},
		},
		{
			name:  "double quote is text when quote is custom",
			input: "a|b\n\"x\"|'y|z'\n",
			comma: '|',
			quote: '\'',
			want:  [][]string{{"a", "b"}, {`"x"`, "y|z"}},
		},
		{
			name:  "tab separated",
			input: "a\tb\n1\t2\n",
			comma: '\t',
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:  "byte order mark stripped",
			input: "\uFEFFCountry Name,1960\nChina,1\n",
			want:  [][]string{{"Country Name", "1960"}, {"China", "1"}},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "trailing separator yields empty field",
			input: "a,b,\n",
			want:  [][]string{{"a", "b", ""}},
		},
		{
			name:  "quoted empty field",
			input: "a,\"\",c\n",
			want:  [][]string{{"a", "", "c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input))
			if tt.comma != 0 {
				r.Comma = tt.comma
			}
			if tt.quote != 0 {
				r.Quote = tt.quote
			}

			got, err := r.ReadAll()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReader_Line(t *testing.T) {
	r := NewReader(strings.NewReader("h1,h2\n\"multi\nline\",x\n\nlast,row\n"))

	_, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, 1, r.Line())

	_, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, 2, r.Line())

	_, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, 5, r.Line())

	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_UnterminatedQuote(t *testing.T) {
	r := NewReader(strings.NewReader("a,b\n1,\"open\n"))

	_, err := r.Read()
	require.NoError(t, err)

	_, err = r.Read()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnterminatedQuote)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, 3, pe.Column)
}

func TestReader_InvalidDelim(t *testing.T) {
	tests := []struct {
		name  string
		comma rune
		quote rune
	}{
		{"same rune", ',', ','},
		{"newline separator", '\n', '"'},
		{"carriage return quote", ',', '\r'},
		{"zero separator", 0, '"'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader("a,b\n"))
			r.Comma = tt.comma
			r.Quote = tt.quote
			_, err := r.Read()
			assert.ErrorIs(t, err, ErrInvalidDelim)
		})
	}
}
