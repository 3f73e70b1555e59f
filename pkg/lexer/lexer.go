// Package lexer turns C source text into the flat token sequence consumed by
// the parser.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Lexer tokenizes C source code
type Lexer struct {
	input    string
	filename string
	pos      int  // current position in input
	readPos  int  // next reading position
	ch       byte // current character
	line     int
	column   int

	tokens []Token
	// open parentheses: index into tokens and byte offset of the '('
	parens []parenMark
}

type parenMark struct {
	token  int
	offset int
}

// Error is a lexical error at a source position
type Error struct {
	Pos Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// New creates a new Lexer for the given input
func New(input, filename string) *Lexer {
	l := &Lexer{input: input, filename: filename, line: 1, column: 0}
	l.readChar()
	return l
}

// Tokenize lexes the whole input
func Tokenize(input, filename string) ([]Token, error) {
	return New(input, filename).Tokens()
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) here() Pos {
	return Pos{Line: l.line, Col: l.column, Filename: l.filename}
}

func (l *Lexer) errorf(format string, args ...interface{}) error {
	return &Error{Pos: l.here(), Msg: fmt.Sprintf(format, args...)}
}

// Tokens lexes the remaining input and returns every token, comments and
// newlines included.
func (l *Lexer) Tokens() ([]Token, error) {
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			break
		}
	}
	if len(l.parens) > 0 {
		open := l.tokens[l.parens[len(l.parens)-1].token]
		return nil, &Error{Pos: open.Pos, Msg: "unbalanced '('"}
	}
	return l.tokens, nil
}

// NextToken lexes and records a single token. It returns nil at the end of
// the input.
func (l *Lexer) NextToken() (*Token, error) {
	ws := l.skipWhitespace()
	if l.ch == 0 && l.pos >= len(l.input) {
		return nil, nil
	}

	tok := Token{Pos: l.here(), Whitespace: ws}

	switch {
	case l.ch == '\n':
		tok.Type = TokenNewline
		l.line++
		l.column = 0
		l.readChar()
	case l.ch == '/' && (l.peekChar() == '/' || l.peekChar() == '*'):
		text, err := l.readComment()
		if err != nil {
			return nil, err
		}
		tok.Type = TokenComment
		tok.Str = text
	case l.ch == '"':
		s, err := l.readString()
		if err != nil {
			return nil, err
		}
		tok.Type = TokenString
		tok.Str = s
	case l.ch == '\'':
		c, err := l.readCharConstant()
		if err != nil {
			return nil, err
		}
		tok.Type = TokenNumber
		tok.Num = c
	case isDigit(l.ch):
		n, err := l.readNumber()
		if err != nil {
			return nil, err
		}
		tok.Type = TokenNumber
		tok.Num = n
	case isLetter(l.ch):
		word := l.readIdentifier()
		tok.Str = word
		tok.Type = TokenIdentifier
		if IsKeyword(word) {
			tok.Type = TokenKeyword
		}
	case strings.IndexByte(symbolChars, l.ch) >= 0:
		tok.Type = TokenSymbol
		tok.Char = l.ch
		l.readChar()
	case IsOperator(string(l.ch)):
		tok.Type = TokenOperator
		tok.Str = l.readOperator()
	default:
		return nil, l.errorf("unexpected character %q", l.ch)
	}

	l.tokens = append(l.tokens, tok)
	l.trackParens(tok)
	return &l.tokens[len(l.tokens)-1], nil
}

// trackParens records the raw text enclosed by each pair of parentheses on
// the tokens inside it.
func (l *Lexer) trackParens(tok Token) {
	idx := len(l.tokens) - 1
	switch {
	case tok.IsOperator("("):
		l.parens = append(l.parens, parenMark{token: idx, offset: l.pos})
	case tok.IsSymbol(')'):
		if len(l.parens) == 0 {
			return
		}
		open := l.parens[len(l.parens)-1]
		l.parens = l.parens[:len(l.parens)-1]
		// l.pos sits just past ')'
		text := l.input[open.offset : l.pos-1]
		for i := open.token + 1; i < idx; i++ {
			if l.tokens[i].BetweenBrackets == "" {
				l.tokens[i].BetweenBrackets = text
			}
		}
	}
}

// skipWhitespace skips blanks other than newlines and reports whether any
// were found.
func (l *Lexer) skipWhitespace() bool {
	skipped := false
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v' {
		l.readChar()
		skipped = true
	}
	return skipped
}

func (l *Lexer) readComment() (string, error) {
	start := l.pos
	if l.peekChar() == '/' {
		for l.ch != '\n' && !(l.ch == 0 && l.pos >= len(l.input)) {
			l.readChar()
		}
		return l.input[start:l.pos], nil
	}

	l.readChar() // consume /
	l.readChar() // consume *
	for {
		if l.ch == 0 && l.pos >= len(l.input) {
			return "", l.errorf("unterminated comment")
		}
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // consume *
			l.readChar() // consume /
			return l.input[start:l.pos], nil
		}
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	pos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

func (l *Lexer) readNumber() (int64, error) {
	pos := l.pos
	base := 10
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		base = 16
		l.readChar()
		l.readChar()
		pos = l.pos
		for isHexDigit(l.ch) {
			l.readChar()
		}
	} else if l.ch == '0' && (l.peekChar() == 'b' || l.peekChar() == 'B') {
		base = 2
		l.readChar()
		l.readChar()
		pos = l.pos
		for l.ch == '0' || l.ch == '1' {
			l.readChar()
		}
	} else {
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	digits := l.input[pos:l.pos]

	// integer suffixes carry no meaning in this subset
	for l.ch == 'u' || l.ch == 'U' || l.ch == 'l' || l.ch == 'L' {
		l.readChar()
	}

	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, l.errorf("invalid number %q", digits)
	}
	return n, nil
}

func (l *Lexer) readString() (string, error) {
	l.readChar() // consume opening quote
	var sb strings.Builder
	for l.ch != '"' {
		if l.ch == 0 && l.pos >= len(l.input) || l.ch == '\n' {
			return "", l.errorf("unterminated string")
		}
		if l.ch == '\\' {
			l.readChar()
			c, err := l.escape()
			if err != nil {
				return "", err
			}
			sb.WriteByte(c)
			l.readChar()
			continue
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote
	return sb.String(), nil
}

func (l *Lexer) readCharConstant() (int64, error) {
	l.readChar() // consume opening quote
	c := l.ch
	if c == '\\' {
		l.readChar()
		var err error
		if c, err = l.escape(); err != nil {
			return 0, err
		}
	}
	l.readChar()
	if l.ch != '\'' {
		return 0, l.errorf("expected closing ' for character constant")
	}
	l.readChar()
	return int64(c), nil
}

func (l *Lexer) escape() (byte, error) {
	switch l.ch {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '0':
		return 0, nil
	case '\\', '\'', '"':
		return l.ch, nil
	}
	return 0, l.errorf("unknown escape sequence \\%c", l.ch)
}

// readOperator reads the longest valid operator at the current position.
// '(' and '[' never combine with what follows.
func (l *Lexer) readOperator() string {
	op := string(l.ch)
	l.readChar()
	if op == "(" || op == "[" {
		return op
	}
	for IsOperator(op + string(l.ch)) {
		op += string(l.ch)
		l.readChar()
	}
	if op == "." && l.ch == '.' && l.peekChar() == '.' {
		l.readChar()
		l.readChar()
		op = "..."
	}
	return op
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}
