package parser

import (
	"strings"
	"unicode"

	"go.phenora.dev/phenoql/internal/core/domain"
	"go.trai.ch/zerr"
)

// lexer scans script text into tokens. Line and block comments are skipped;
// positions are 1-based.
type lexer struct {
	src    []rune
	pos    int
	line   int
	column int
}

func newLexer(src string) *lexer {
	return &lexer{src: []rune(src), line: 1, column: 1}
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *lexer) skipSpaceAndComments() error {
	for l.pos < len(l.src) {
		r := l.peek()
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '/' && l.peekAt(1) == '/':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		case r == '/' && l.peekAt(1) == '*':
			line, col := l.line, l.column
			l.advance()
			l.advance()
			closed := false
			for l.pos < len(l.src) {
				if l.peek() == '*' && l.peekAt(1) == '/' {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				return zerr.With(
					zerr.With(
						domain.Annotate(domain.ErrSyntax, "line", line),
						"column", col,
					),
					"expected", "closing */",
				)
			}
		default:
			return nil
		}
	}
	return nil
}

// next returns the next token.
func (l *lexer) next() (token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return token{}, err
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: l.line, column: l.column}, nil
	}

	line, col := l.line, l.column
	r := l.peek()

	switch {
	case unicode.IsLetter(r) || r == '_':
		var b strings.Builder
		for l.pos < len(l.src) {
			c := l.peek()
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
				break
			}
			b.WriteRune(l.advance())
		}
		text := b.String()
		return token{kind: keywordKind(text), text: text, line: line, column: col}, nil

	case unicode.IsDigit(r):
		var b strings.Builder
		seenDot := false
		for l.pos < len(l.src) {
			c := l.peek()
			if c == '.' && !seenDot && unicode.IsDigit(l.peekAt(1)) {
				seenDot = true
				b.WriteRune(l.advance())
				continue
			}
			if !unicode.IsDigit(c) {
				break
			}
			b.WriteRune(l.advance())
		}
		return token{kind: tokNumber, text: b.String(), line: line, column: col}, nil

	case r == '"':
		l.advance()
		var b strings.Builder
		for {
			if l.pos >= len(l.src) || l.peek() == '\n' {
				return token{}, zerr.With(
					zerr.With(
						domain.Annotate(domain.ErrSyntax, "line", line),
						"column", col,
					),
					"expected", "closing quote",
				)
			}
			c := l.advance()
			if c == '"' {
				break
			}
			if c == '\\' && l.pos < len(l.src) {
				esc := l.advance()
				switch esc {
				case 'n':
					b.WriteRune('\n')
				case 't':
					b.WriteRune('\t')
				default:
					b.WriteRune(esc)
				}
				continue
			}
			b.WriteRune(c)
		}
		return token{kind: tokString, text: b.String(), line: line, column: col}, nil
	}

	single := map[rune]tokenKind{
		'{': tokLBrace, '}': tokRBrace,
		'[': tokLBracket, ']': tokRBracket,
		'(': tokLParen, ')': tokRParen,
		':': tokColon, ';': tokSemi,
		',': tokComma, '.': tokDot,
		'-': tokMinus,
	}

	switch r {
	case '>':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return token{kind: tokGE, text: ">=", line: line, column: col}, nil
		}
		return token{kind: tokGT, text: ">", line: line, column: col}, nil
	case '<':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return token{kind: tokLE, text: "<=", line: line, column: col}, nil
		}
		return token{kind: tokLT, text: "<", line: line, column: col}, nil
	case '=':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return token{kind: tokEQ, text: "==", line: line, column: col}, nil
		}
		// Single '=' is accepted as equality, matching the script corpus.
		return token{kind: tokEQ, text: "=", line: line, column: col}, nil
	case '!':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return token{kind: tokNE, text: "!=", line: line, column: col}, nil
		}
		return token{}, zerr.With(
			zerr.With(
				domain.Annotate(domain.ErrSyntax, "line", line),
				"column", col,
			),
			"expected", "'=' after '!'",
		)
	}

	if kind, ok := single[r]; ok {
		l.advance()
		return token{kind: kind, text: string(r), line: line, column: col}, nil
	}

	return token{}, zerr.With(
		zerr.With(
			domain.Annotate(domain.ErrSyntax, "line", line),
			"column", col,
		),
		"expected", "a statement token, got "+string(r),
	)
}

// lex tokenizes the whole input.
func lex(src string) ([]token, error) {
	l := newLexer(src)
	var toks []token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			return toks, nil
		}
	}
}
