package parser

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/raymyers/peachcc/pkg/lexer"
)

// Error is a fatal parse error
type Error struct {
	Pos lexer.Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// fatalError carries an *Error from the point of failure up to Parse
type fatalError struct {
	err *Error
}

// fatalf aborts the parse at the current position
func (p *Parser) fatalf(format string, args ...interface{}) {
	panic(fatalError{&Error{Pos: p.cur.Pos(), Msg: fmt.Sprintf(format, args...)}})
}

// warnf reports a problem that does not stop the parse
func (p *Parser) warnf(format string, args ...interface{}) {
	pos := p.cur.Pos()
	msg := fmt.Sprintf(format, args...)
	p.log.WithFields(logrus.Fields{
		"file": pos.Filename,
		"line": pos.Line,
		"col":  pos.Col,
	}).Warn(msg)
	p.warnings = append(p.warnings, fmt.Sprintf("%s: %s", pos, msg))
}

func describe(tok *lexer.Token) string {
	if tok == nil {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.Text())
}
