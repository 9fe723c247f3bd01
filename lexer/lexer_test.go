package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()

	l := New("test.edl", []byte(src))
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return toks
}

func TestLexer_Next(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "empty",
			input: "",
			want: []Token{
				{Kind: EOF, Line: 1, Column: 1},
			},
		},
		{
			name:  "punctuation",
			input: "{}()[]<>;,=*",
			want: []Token{
				{Kind: Punct, Text: "{", Line: 1, Column: 1},
				{Kind: Punct, Text: "}", Line: 1, Column: 2},
				{Kind: Punct, Text: "(", Line: 1, Column: 3},
				{Kind: Punct, Text: ")", Line: 1, Column: 4},
				{Kind: Punct, Text: "[", Line: 1, Column: 5},
				{Kind: Punct, Text: "]", Line: 1, Column: 6},
				{Kind: Punct, Text: "<", Line: 1, Column: 7},
				{Kind: Punct, Text: ">", Line: 1, Column: 8},
				{Kind: Punct, Text: ";", Line: 1, Column: 9},
				{Kind: Punct, Text: ",", Line: 1, Column: 10},
				{Kind: Punct, Text: "=", Line: 1, Column: 11},
				{Kind: Punct, Text: "*", Line: 1, Column: 12},
				{Kind: EOF, Line: 1, Column: 13},
			},
		},
		{
			name:  "identifiers and keywords are both Identifier kind",
			input: "trusted MyStruct _foo42",
			want: []Token{
				{Kind: Identifier, Text: "trusted", Line: 1, Column: 1},
				{Kind: Identifier, Text: "MyStruct", Line: 1, Column: 9},
				{Kind: Identifier, Text: "_foo42", Line: 1, Column: 18},
				{Kind: EOF, Line: 1, Column: 24},
			},
		},
		{
			name:  "integers",
			input: "0 42 0x1A 0XFF",
			want: []Token{
				{Kind: UnsignedInteger, Text: "0", Line: 1, Column: 1},
				{Kind: UnsignedInteger, Text: "42", Line: 1, Column: 3},
				{Kind: HexInteger, Text: "0x1A", Line: 1, Column: 6},
				{Kind: HexInteger, Text: "0XFF", Line: 1, Column: 11},
				{Kind: EOF, Line: 1, Column: 15},
			},
		},
		{
			name:  "line comment skipped",
			input: "a // comment\nb",
			want: []Token{
				{Kind: Identifier, Text: "a", Line: 1, Column: 1},
				{Kind: Identifier, Text: "b", Line: 2, Column: 1},
				{Kind: EOF, Line: 2, Column: 2},
			},
		},
		{
			name:  "block comment skipped and tracks newlines",
			input: "a /* multi\nline */ b",
			want: []Token{
				{Kind: Identifier, Text: "a", Line: 1, Column: 1},
				{Kind: Identifier, Text: "b", Line: 2, Column: 9},
				{Kind: EOF, Line: 2, Column: 10},
			},
		},
		{
			name:  "single identifier then EOF",
			input: "a",
			want: []Token{
				{Kind: Identifier, Text: "a", Line: 1, Column: 1},
				{Kind: EOF, Line: 1, Column: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lexAll(t, tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Next() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexer_Next_EOFIsSticky(t *testing.T) {
	l := New("test.edl", []byte("x"))
	if _, err := l.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	first, err := l.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if first.Kind != EOF {
		t.Fatalf("Kind = %v, want EOF", first.Kind)
	}
	second, err := l.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if second.Kind != EOF {
		t.Fatalf("second call Kind = %v, want EOF", second.Kind)
	}
}

func TestLexer_Next_UnterminatedComment(t *testing.T) {
	l := New("test.edl", []byte("a /* never closed"))
	if _, err := l.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if _, err := l.Next(); err == nil {
		t.Fatal("Next() error = nil, want unterminated comment error")
	}
}

func TestLexer_Next_InvalidCharacter(t *testing.T) {
	l := New("test.edl", []byte("@"))
	if _, err := l.Next(); err == nil {
		t.Fatal("Next() error = nil, want invalid character error")
	}
}
