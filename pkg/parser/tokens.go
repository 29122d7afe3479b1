package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenString  // "hello" or 'hello'
	TokenInteger // 123
	TokenDecimal // 3.14, .5
	TokenDouble  // 1e-10, 2.5E3
	TokenName    // NCName, prefix:local, prefix:*, *:local
	TokenVariable // $name

	// Grouping symbols
	TokenParenOpen    // (
	TokenParenClose   // )
	TokenBracketOpen  // [
	TokenBracketClose // ]

	// Basic symbols
	TokenComma  // ,
	TokenDot    // .
	TokenDotDot // ..
	TokenAt     // @

	// Path symbols
	TokenSlash      // /
	TokenSlashSlash // //
	TokenAxisSep    // ::

	// Operators
	TokenStar         // * (multiplication or wildcard, position-dependent)
	TokenPlus         // +
	TokenMinus        // -
	TokenPipe         // |
	TokenEqual        // =
	TokenNotEqual     // !=
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=
	TokenConcat       // || (3.0)
	TokenAssign       // := (let clauses, 3.0)
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "(eof)"
	case TokenError:
		return "(error)"
	case TokenString:
		return "(string)"
	case TokenInteger:
		return "(integer)"
	case TokenDecimal:
		return "(decimal)"
	case TokenDouble:
		return "(double)"
	case TokenName:
		return "(name)"
	case TokenVariable:
		return "(variable)"
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	case TokenBracketOpen:
		return "["
	case TokenBracketClose:
		return "]"
	case TokenComma:
		return ","
	case TokenDot:
		return "."
	case TokenDotDot:
		return ".."
	case TokenAt:
		return "@"
	case TokenSlash:
		return "/"
	case TokenSlashSlash:
		return "//"
	case TokenAxisSep:
		return "::"
	case TokenStar:
		return "*"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenPipe:
		return "|"
	case TokenEqual:
		return "="
	case TokenNotEqual:
		return "!="
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	case TokenConcat:
		return "||"
	case TokenAssign:
		return ":="
	default:
		return "(unknown)"
	}
}

// Token represents a lexical token in an XPath expression.
type Token struct {
	Type     TokenType // Type of the token
	Value    string    // Literal value of the token
	Position int       // Starting byte offset in the input string
}

// symbols1 maps single-character symbols to token types.
var symbols1 = [...]TokenType{
	'(': TokenParenOpen,
	')': TokenParenClose,
	'[': TokenBracketOpen,
	']': TokenBracketClose,
	',': TokenComma,
	'@': TokenAt,
	'/': TokenSlash,
	'*': TokenStar,
	'+': TokenPlus,
	'-': TokenMinus,
	'|': TokenPipe,
	'=': TokenEqual,
	'<': TokenLess,
	'>': TokenGreater,
}

// runeTokenType pairs a rune with its corresponding token type.
type runeTokenType struct {
	r  rune
	tt TokenType
}

// symbols2 maps two-character symbol sequences to token types.
// The key is the first character of the sequence. Longest match wins:
// these are checked before the single-character table.
var symbols2 = [...][]runeTokenType{
	'/': {{'/', TokenSlashSlash}},
	'!': {{'=', TokenNotEqual}},
	'<': {{'=', TokenLessEqual}},
	'>': {{'=', TokenGreaterEqual}},
	':': {{':', TokenAxisSep}, {'=', TokenAssign}},
	'|': {{'|', TokenConcat}},
}

const (
	symbol1Count = rune(len(symbols1))
	symbol2Count = rune(len(symbols2))
)

// lookupSymbol1 returns the token type for a single-character symbol.
// Returns 0 if the rune is not a valid symbol.
func lookupSymbol1(r rune) TokenType {
	if r < 0 || r >= symbol1Count {
		return 0
	}
	return symbols1[r]
}

// lookupSymbol2 returns possible two-character symbol completions.
// Returns nil if the rune cannot start a two-character symbol.
func lookupSymbol2(r rune) []runeTokenType {
	if r < 0 || r >= symbol2Count {
		return nil
	}
	return symbols2[r]
}
