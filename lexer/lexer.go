// Package lexer turns EDL source bytes into a stream of Tokens,
// tracking line and column as it goes. It has no notion of grammar or
// keywords; it only recognises identifiers, integer literals and single
// character punctuation, and skips whitespace and comments.
package lexer

import (
	"github.com/ardanlabs/edlc/diag"
)

const punctuation = "{}()[]<>;,=*"

// Lexer scans a fixed byte slice, one Token at a time, via Next.
type Lexer struct {
	file string
	src  []byte
	pos  int
	line int
	col  int

	atEOF bool
}

// New returns a Lexer over src. file is used only to attribute
// diagnostics to a source file name.
func New(file string, src []byte) *Lexer {
	return &Lexer{file: file, src: src, line: 1, col: 1}
}

func (l *Lexer) peek() (byte, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos], true
}

func (l *Lexer) peekAt(offset int) (byte, bool) {
	if l.pos+offset >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos+offset], true
}

// advance consumes one byte, updating line/column bookkeeping.
func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentContinue(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// skipWhitespaceAndComments advances past runs of whitespace, "//" line
// comments and "/* */" block comments. It returns an error if a block
// comment is never closed.
func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		c, ok := l.peek()
		if !ok {
			return nil
		}

		if isSpace(c) {
			l.advance()
			continue
		}

		if c == '/' {
			next, hasNext := l.peekAt(1)
			if hasNext && next == '/' {
				for {
					c, ok := l.peek()
					if !ok || c == '\n' {
						break
					}
					l.advance()
				}
				continue
			}
			if hasNext && next == '*' {
				startLine, startCol := l.line, l.col
				l.advance()
				l.advance()
				closed := false
				for {
					c, ok := l.peek()
					if !ok {
						break
					}
					if c == '*' {
						n, hasN := l.peekAt(1)
						if hasN && n == '/' {
							l.advance()
							l.advance()
							closed = true
							break
						}
					}
					l.advance()
				}
				if !closed {
					return diag.New(diag.UnterminatedComment, l.file, startLine, startCol)
				}
				continue
			}
		}

		return nil
	}
}

// Next returns the next Token in the stream. Once EOF has been reached,
// every subsequent call returns EOF again.
func (l *Lexer) Next() (Token, error) {
	if l.atEOF {
		return Token{Kind: EOF, Line: l.line, Column: l.col}, nil
	}

	if err := l.skipWhitespaceAndComments(); err != nil {
		return Token{}, err
	}

	c, ok := l.peek()
	if !ok {
		l.atEOF = true
		return Token{Kind: EOF, Line: l.line, Column: l.col}, nil
	}

	startLine, startCol := l.line, l.col

	switch {
	case isIdentStart(c):
		start := l.pos
		for {
			c, ok := l.peek()
			if !ok || !isIdentContinue(c) {
				break
			}
			l.advance()
		}
		return Token{Kind: Identifier, Text: string(l.src[start:l.pos]), Line: startLine, Column: startCol}, nil

	case isDigit(c):
		if c == '0' {
			if n, hasN := l.peekAt(1); hasN && (n == 'x' || n == 'X') {
				start := l.pos
				l.advance()
				l.advance()
				digitsStart := l.pos
				for {
					c, ok := l.peek()
					if !ok || !isHexDigit(c) {
						break
					}
					l.advance()
				}
				if l.pos == digitsStart {
					return Token{}, diag.New(diag.InvalidCharacter, l.file, startLine, startCol, "0x")
				}
				return Token{Kind: HexInteger, Text: string(l.src[start:l.pos]), Line: startLine, Column: startCol}, nil
			}
		}
		start := l.pos
		for {
			c, ok := l.peek()
			if !ok || !isDigit(c) {
				break
			}
			l.advance()
		}
		return Token{Kind: UnsignedInteger, Text: string(l.src[start:l.pos]), Line: startLine, Column: startCol}, nil

	default:
		for i := 0; i < len(punctuation); i++ {
			if punctuation[i] == c {
				l.advance()
				return Token{Kind: Punct, Text: string(c), Line: startLine, Column: startCol}, nil
			}
		}

		return Token{}, diag.New(diag.InvalidCharacter, l.file, startLine, startCol, string(c))
	}
}
