package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sandrolain/goxpath/pkg/types"
)

const eof = -1

// Lexer converts an XPath expression into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go"
// technique.
type Lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read
	err     error  // First error encountered
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all
// subsequent calls.
func (l *Lexer) Next() Token {
	l.skipWhitespaceAndComments()

	// skipWhitespaceAndComments can fail on an unclosed comment.
	if l.err != nil {
		return l.errorToken(types.ErrCommentNotClosed, l.err.Error())
	}

	ch := l.nextRune()
	if ch == eof {
		return l.eof()
	}

	// '.' can start the tokens '.', '..' or a decimal literal like '.5'.
	if ch == '.' {
		if l.acceptRune('.') {
			return l.newToken(TokenDotDot)
		}
		if l.accept(isDigit) {
			l.backup()
			return l.scanNumber(true)
		}
		return l.newToken(TokenDot)
	}

	// '*' is either the star operator or the head of a *:local wildcard.
	if ch == '*' {
		if l.current < l.length && l.input[l.current] == ':' && l.peekAfterColonIsName() {
			l.nextRune() // ':'
			l.acceptAll(isNameChar)
			return l.newToken(TokenName)
		}
		return l.newToken(TokenStar)
	}

	// Two-character symbols first (greedy longest match: //, !=, <=, >=, ::, :=, ||).
	if rts := lookupSymbol2(ch); rts != nil {
		for _, rt := range rts {
			if l.acceptRune(rt.r) {
				return l.newToken(rt.tt)
			}
		}
	}

	// Single-character symbols.
	if tt := lookupSymbol1(ch); tt > 0 {
		return l.newToken(tt)
	}

	// String literals (single or double quoted).
	if ch == '"' || ch == '\'' {
		l.ignore()
		return l.scanString(ch)
	}

	// Number literals.
	if isDigit(ch) {
		l.backup()
		return l.scanNumber(false)
	}

	// Variable references.
	if ch == '$' {
		l.ignore()
		return l.scanVariable()
	}

	// Names or error.
	l.backup()
	return l.scanName()
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	return l.err
}

// scanString reads a string literal from the current position.
// The opening quote has already been consumed. A doubled quote character
// is the escape for a literal quote ("" inside "..." and '' inside '...').
func (l *Lexer) scanString(quote rune) Token {
	for {
		switch l.nextRune() {
		case quote:
			// A doubled quote continues the literal.
			if l.acceptRune(quote) {
				continue
			}
			l.backup()
			t := l.newToken(TokenString)
			l.acceptRune(quote)
			l.ignore()
			qs := string(quote)
			t.Value = strings.ReplaceAll(t.Value, qs+qs, qs)
			return t
		case eof:
			return l.errorToken(types.ErrStringNotClosed, "unterminated string literal")
		}
	}
}

// scanNumber reads a numeric literal from the current position.
// Integer, decimal and double (exponent) forms produce distinct token
// types. leadingDot is true when the literal started with '.' (".5").
func (l *Lexer) scanNumber(leadingDot bool) Token {
	tt := TokenInteger

	if leadingDot {
		l.acceptRune('.')
		tt = TokenDecimal
		if !l.acceptAll(isDigit) {
			return l.errorToken(types.ErrInvalidNumber, "expected digits after decimal point")
		}
	} else {
		l.acceptAll(isDigit)
		if l.acceptRune('.') {
			tt = TokenDecimal
			l.acceptAll(isDigit)
		}
	}

	if l.acceptRunes2('e', 'E') {
		tt = TokenDouble
		l.acceptRunes2('+', '-')
		if !l.acceptAll(isDigit) {
			return l.errorToken(types.ErrInvalidNumber, "expected digits in exponent")
		}
	}

	// A number immediately followed by a name character is malformed
	// ("1foo" is not two tokens).
	if l.accept(isNameStart) {
		return l.errorToken(types.ErrInvalidNumber, "invalid character in number")
	}

	return l.newToken(tt)
}

// scanVariable reads a variable name. The '$' has been consumed and
// dropped from the token value.
func (l *Lexer) scanVariable() Token {
	if !l.accept(isNameStart) {
		return l.errorToken(types.ErrInvalidCharacter, "expected variable name after '$'")
	}
	l.acceptAll(isNameChar)
	l.acceptQNameSuffix()
	return l.newToken(TokenVariable)
}

// scanName reads an NCName, optionally extended to a qualified name:
// prefix:local or the wildcard form prefix:*.
func (l *Lexer) scanName() Token {
	if !l.accept(isNameStart) {
		l.nextRune()
		return l.errorToken(types.ErrInvalidCharacter, "unexpected character")
	}
	l.acceptAll(isNameChar)
	l.acceptQNameSuffix()
	return l.newToken(TokenName)
}

// acceptQNameSuffix consumes ":local" or ":*" after an NCName, but never
// "::" (the axis separator) or ":=".
func (l *Lexer) acceptQNameSuffix() {
	if l.current >= l.length || l.input[l.current] != ':' {
		return
	}
	rest := l.input[l.current+1:]
	if rest == "" {
		return
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if r == '*' {
		l.nextRune() // ':'
		l.nextRune() // '*'
		return
	}
	if isNameStart(r) {
		l.nextRune() // ':'
		l.acceptAll(isNameChar)
	}
}

// peekAfterColonIsName reports whether the text after the upcoming ':'
// starts an NCName (used for the *:local wildcard form).
func (l *Lexer) peekAfterColonIsName() bool {
	rest := l.input[l.current+1:]
	if rest == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return isNameStart(r)
}

// Helper methods

func (l *Lexer) eof() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.current,
	}
}

func (l *Lexer) errorToken(code types.ErrorCode, message string) Token {
	t := l.newToken(TokenError)
	if l.err == nil {
		l.err = &types.Error{
			Code:     code,
			Message:  message,
			Position: t.Position,
			Token:    t.Value,
		}
	}
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.input[l.start:l.current],
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.err != nil || l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) acceptRunes2(r1, r2 rune) bool {
	return l.accept(func(c rune) bool {
		return c == r1 || c == r2
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

// skipWhitespaceAndComments skips whitespace and "(: ... :)" comments.
// Comments nest.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		if l.err != nil {
			return
		}

		l.acceptAll(isWhitespace)
		l.ignore()

		// Comment start "(:" — but "(" alone is a symbol.
		if l.current+1 < l.length && l.input[l.current] == '(' && l.input[l.current+1] == ':' {
			l.nextRune() // '('
			l.nextRune() // ':'
			depth := 1
			for depth > 0 {
				ch := l.nextRune()
				switch {
				case ch == eof:
					l.err = &types.Error{
						Code:     types.ErrCommentNotClosed,
						Message:  "unclosed comment",
						Position: l.current,
					}
					return
				case ch == '(' && l.acceptRune(':'):
					depth++
				case ch == ':' && l.acceptRune(')'):
					depth--
				}
			}
			l.ignore()
			continue
		}
		return
	}
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isNameStart reports whether r can start an NCName.
func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// isNameChar reports whether r can continue an NCName.
func isNameChar(r rune) bool {
	return r == '_' || r == '-' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
