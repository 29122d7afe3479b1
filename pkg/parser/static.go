package parser

// Grammar versions accepted by the parser. The version gates which
// constructs the grammar accepts; see the token table and the control
// flow productions.
const (
	Version10 = 10 // paths, predicates, arithmetic, general comparisons, union
	Version20 = 20 // adds for/some/every, if, to, value comparisons, intersect/except, sequences
	Version30 = 30 // adds let and the || concatenation operator
)

// StaticContext is the parse-time configuration: the grammar version,
// the in-scope namespace prefixes, and any extra function names the
// host will provide at evaluation time. The parser consults it to decide
// grammar variants and to reject unknown function names early.
type StaticContext struct {
	// Version selects the accepted grammar (Version10, Version20,
	// Version30). Zero means Version20.
	Version int

	// Namespaces maps prefixes to namespace URIs. Prefixes used by
	// name tests must be declared here or evaluation fails.
	Namespaces map[string]string

	// ExtraFunctions names host-registered functions (beyond the
	// built-in library) that the parser should accept.
	ExtraFunctions []string
}

// version returns the effective grammar version.
func (sc *StaticContext) version() int {
	if sc == nil || sc.Version == 0 {
		return Version20
	}
	return sc.Version
}

// allowsFunction reports whether name may appear as a function call.
// Prefixed names are always allowed: they resolve against host-bound
// namespaces at evaluation time.
func (sc *StaticContext) allowsFunction(name string) bool {
	if builtinFunctionNames[name] {
		return true
	}
	if sc == nil {
		return false
	}
	for _, n := range sc.ExtraFunctions {
		if n == name {
			return true
		}
	}
	return false
}

// builtinFunctionNames is the set of function names in the built-in
// library, used for parse-time resolution. The evaluator owns the
// implementations; this list only gates the grammar.
var builtinFunctionNames = map[string]bool{
	// String
	"string": true, "concat": true, "substring": true,
	"substring-before": true, "substring-after": true,
	"string-length": true, "normalize-space": true,
	"upper-case": true, "lower-case": true, "translate": true,
	"contains": true, "starts-with": true, "ends-with": true,
	"string-join": true,
	// Numeric
	"number": true, "round": true, "floor": true, "ceiling": true,
	"abs": true, "sum": true, "avg": true, "min": true, "max": true,
	// Sequence / node-set
	"position": true, "last": true, "count": true, "empty": true,
	"exists": true, "reverse": true, "subsequence": true,
	"distinct-values": true, "id": true,
	// Boolean
	"boolean": true, "not": true, "true": true, "false": true,
	// Node accessors
	"name": true, "local-name": true, "namespace-uri": true, "root": true,
}
