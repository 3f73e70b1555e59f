package lexer

import (
	"fmt"
	"strconv"
)

// TokenType classifies a token
type TokenType int

const (
	TokenIdentifier TokenType = iota
	TokenKeyword
	TokenOperator
	TokenSymbol
	TokenNumber
	TokenString
	TokenComment
	TokenNewline
)

var tokenNames = map[TokenType]string{
	TokenIdentifier: "IDENTIFIER",
	TokenKeyword:    "KEYWORD",
	TokenOperator:   "OPERATOR",
	TokenSymbol:     "SYMBOL",
	TokenNumber:     "NUMBER",
	TokenString:     "STRING",
	TokenComment:    "COMMENT",
	TokenNewline:    "NEWLINE",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Pos is a position in a source file
type Pos struct {
	Line     int
	Col      int
	Filename string
}

func (p Pos) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Col)
}

// Token is a classified lexical unit. Only one of Char, Str and Num is
// meaningful, selected by Type: Char for symbols, Num for numbers and Str for
// everything else.
type Token struct {
	Type TokenType
	Pos  Pos

	Char byte
	Str  string
	Num  int64

	// Whitespace is true when the token was preceded by whitespace.
	Whitespace bool

	// BetweenBrackets holds the raw text of the innermost parentheses the
	// token appears in. It is only used when debugging.
	BetweenBrackets string
}

// Text returns the source spelling of the token's payload.
func (t Token) Text() string {
	switch t.Type {
	case TokenSymbol:
		return string(t.Char)
	case TokenNumber:
		return strconv.FormatInt(t.Num, 10)
	case TokenNewline:
		return "\\n"
	}
	return t.Str
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Type, t.Text())
}

// IsKeyword reports whether the token is the keyword kw
func (t *Token) IsKeyword(kw string) bool {
	return t != nil && t.Type == TokenKeyword && t.Str == kw
}

// IsOperator reports whether the token is the operator op
func (t *Token) IsOperator(op string) bool {
	return t != nil && t.Type == TokenOperator && t.Str == op
}

// IsSymbol reports whether the token is the symbol c
func (t *Token) IsSymbol(c byte) bool {
	return t != nil && t.Type == TokenSymbol && t.Char == c
}

// IsIdentifier reports whether the token is an identifier
func (t *Token) IsIdentifier() bool {
	return t != nil && t.Type == TokenIdentifier
}

// IsNewlineOrComment reports whether the token carries no meaning for the
// parser: comments, newlines and the line continuation symbol.
func (t *Token) IsNewlineOrComment() bool {
	if t == nil {
		return false
	}
	return t.Type == TokenNewline || t.Type == TokenComment || t.IsSymbol('\\')
}

// keywords lists every reserved word of the supported subset
var keywords = map[string]bool{
	"unsigned":             true,
	"signed":               true,
	"char":                 true,
	"short":                true,
	"int":                  true,
	"long":                 true,
	"float":                true,
	"double":               true,
	"void":                 true,
	"struct":               true,
	"union":                true,
	"static":               true,
	"__ignore_typecheck__": true,
	"return":               true,
	"include":              true,
	"sizeof":               true,
	"if":                   true,
	"else":                 true,
	"while":                true,
	"for":                  true,
	"do":                   true,
	"break":                true,
	"continue":             true,
	"switch":               true,
	"case":                 true,
	"default":              true,
	"goto":                 true,
	"typedef":              true,
	"const":                true,
	"extern":               true,
	"restrict":             true,
}

// IsKeyword reports whether s is a reserved word
func IsKeyword(s string) bool {
	return keywords[s]
}

// operators lists every operator spelling, single characters included
var operators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	">": true, "<": true, "^": true, "!": true, "=": true,
	"~": true, "|": true, "&": true, "(": true, "[": true,
	",": true, ".": true, "?": true,
	"...": true,
	"+=":  true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true,
	">>": true, "<<": true, ">>=": true, "<<=": true,
	">=": true, "<=": true, "==": true, "!=": true,
	"||": true, "&&": true, "++": true, "--": true,
	"->": true,
}

// IsOperator reports whether s is a valid operator spelling
func IsOperator(s string) bool {
	return operators[s]
}

const symbolChars = "{}:;#\\)]"
