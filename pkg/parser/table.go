package parser

// The token table is the registry of recognized operator symbols. Each
// entry carries the symbol text, its binding power (higher binds
// tighter), which parse rules apply (prefix, infix, postfix) and the
// minimum grammar version that accepts it.
//
// The table deliberately knows nothing about grammatical position:
// whether "*" is a wildcard or a multiplication, or "-" a negation or a
// subtraction, is decided by the parser's expecting-operand state, not
// here. Reserved node-kind keywords and axis names are registered so the
// parser can recognize them in operand position; they shadow ordinary
// name tests only there.

// Binding powers, loosest to tightest.
const (
	bpComma      = 5
	bpOr         = 10
	bpAnd        = 15
	bpComparison = 20
	bpConcat     = 22
	bpRange      = 25
	bpAdditive   = 30
	bpMultiplic  = 35
	bpUnion      = 40
	bpIntersect  = 45
	bpUnary      = 50
	bpPath       = 55
	bpPredicate  = 60
)

// ruleKind is a bit set of parse rules a symbol participates in.
type ruleKind uint8

const (
	rulePrefix ruleKind = 1 << iota
	ruleInfix
	rulePostfix
)

// TokenDef describes one registered symbol.
type TokenDef struct {
	Symbol     string
	BP         int // infix/postfix left binding power
	Rules      ruleKind
	MinVersion int // 10, 20 or 30
}

// Prefix reports whether the symbol has a prefix parse rule.
func (d *TokenDef) Prefix() bool { return d.Rules&rulePrefix != 0 }

// Infix reports whether the symbol has an infix parse rule.
func (d *TokenDef) Infix() bool { return d.Rules&ruleInfix != 0 }

// Postfix reports whether the symbol has a postfix parse rule.
func (d *TokenDef) Postfix() bool { return d.Rules&rulePostfix != 0 }

var symbolTable = map[string]*TokenDef{}

// register adds a symbol to the token table. A symbol registered twice
// merges its rule kinds: "-" carries both a prefix and an infix rule.
func register(symbol string, bp int, rules ruleKind, minVersion int) {
	if d, ok := symbolTable[symbol]; ok {
		d.Rules |= rules
		if bp > d.BP {
			d.BP = bp
		}
		return
	}
	symbolTable[symbol] = &TokenDef{
		Symbol:     symbol,
		BP:         bp,
		Rules:      rules,
		MinVersion: minVersion,
	}
}

// lookup finds a registered symbol. The text is the operator spelling:
// punctuation for symbol tokens, the name text for keyword operators.
func lookup(symbolText string) (*TokenDef, bool) {
	d, ok := symbolTable[symbolText]
	return d, ok
}

func init() {
	// Punctuation operators.
	register(",", bpComma, ruleInfix, 20)
	register("|", bpUnion, ruleInfix, 10)
	register("=", bpComparison, ruleInfix, 10)
	register("!=", bpComparison, ruleInfix, 10)
	register("<", bpComparison, ruleInfix, 10)
	register("<=", bpComparison, ruleInfix, 10)
	register(">", bpComparison, ruleInfix, 10)
	register(">=", bpComparison, ruleInfix, 10)
	register("+", bpAdditive, ruleInfix, 10)
	register("-", bpAdditive, ruleInfix, 10)
	register("-", bpUnary, rulePrefix, 10)
	register("+", bpUnary, rulePrefix, 20)
	register("*", bpMultiplic, ruleInfix, 10)
	register("/", bpPath, ruleInfix|rulePrefix, 10)
	register("//", bpPath, ruleInfix|rulePrefix, 10)
	register("[", bpPredicate, rulePostfix, 10)
	register("||", bpConcat, ruleInfix, 30)

	// Keyword operators. The lexer reports these as plain names; the
	// parser consults the table only when an operator is expected.
	register("or", bpOr, ruleInfix, 10)
	register("and", bpAnd, ruleInfix, 10)
	register("div", bpMultiplic, ruleInfix, 10)
	register("idiv", bpMultiplic, ruleInfix, 20)
	register("mod", bpMultiplic, ruleInfix, 10)
	register("union", bpUnion, ruleInfix, 10)
	register("intersect", bpIntersect, ruleInfix, 20)
	register("except", bpIntersect, ruleInfix, 20)
	register("to", bpRange, ruleInfix, 20)
	register("is", bpComparison, ruleInfix, 20)
	register("eq", bpComparison, ruleInfix, 20)
	register("ne", bpComparison, ruleInfix, 20)
	register("lt", bpComparison, ruleInfix, 20)
	register("le", bpComparison, ruleInfix, 20)
	register("gt", bpComparison, ruleInfix, 20)
	register("ge", bpComparison, ruleInfix, 20)
}

// kindTestNames maps reserved node-kind test keywords to the tested kind.
// "node" is handled separately (matches any kind).
var kindTestNames = map[string]string{
	"node":                   "node",
	"text":                   "text",
	"comment":                "comment",
	"processing-instruction": "processing-instruction",
	"document-node":          "document-node",
	"element":                "element",
	"attribute":              "attribute",
}

// isKindTestName reports whether name is a reserved node-kind keyword.
func isKindTestName(name string) bool {
	_, ok := kindTestNames[name]
	return ok
}
