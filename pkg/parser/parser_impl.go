package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandrolain/goxpath/pkg/types"
)

// Parser implements a Pratt (top-down operator precedence) parser for
// XPath expressions. A left operand is parsed with the current token's
// prefix rule, then infix and postfix operators are folded in while
// their binding power exceeds the caller's minimum.
//
// The grammar is not context-free: "-" is a negation when an operand is
// expected and a subtraction otherwise, "*" a wildcard or a
// multiplication, and keyword operators like "and" or "div" are ordinary
// element names in operand position. The expecting-operand state is
// carried implicitly by where the parser is: parsePrefix runs when an
// operand is expected, the infix loop when an operator is.
type Parser struct {
	lexer   *Lexer
	current Token
	prev    Token
	opts    CompileOptions
	sc      *StaticContext
	arena   *types.NodeArena
	depth   int
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth: 200,
	}
	for _, opt := range opts {
		opt(&options)
	}

	p := &Parser{
		lexer: NewLexer(input),
		opts:  options,
		sc:    options.Static,
		arena: types.NewNodeArena(),
	}

	// Read the first token
	p.advance()

	return p
}

// Parse parses the entire expression and returns the compiled Expression.
func (p *Parser) Parse() (*types.Expression, error) {
	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}

	if p.current.Type == TokenEOF {
		return nil, p.error(types.ErrSyntax, "empty expression")
	}

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if p.current.Type != TokenEOF {
		return nil, p.error(types.ErrSyntax, fmt.Sprintf("unexpected token %q", p.tokenText(p.current)))
	}

	return types.NewExpression(node, p.lexer.input, p.version(), p.arena), nil
}

func (p *Parser) version() int {
	return p.sc.version()
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.prev = p.current
	p.current = p.lexer.Next()
}

// expect checks that the current token matches the expected type and
// advances past it.
func (p *Parser) expect(tt TokenType) error {
	if p.current.Type != tt {
		return p.error(types.ErrSyntax, fmt.Sprintf("expected %s but got %q", tt.String(), p.tokenText(p.current)))
	}
	p.advance()
	return nil
}

// expectName checks that the current token is the given keyword name.
func (p *Parser) expectName(keyword string) error {
	if p.current.Type != TokenName || p.current.Value != keyword {
		return p.error(types.ErrSyntax, fmt.Sprintf("expected %q but got %q", keyword, p.tokenText(p.current)))
	}
	p.advance()
	return nil
}

func (p *Parser) tokenText(t Token) string {
	if t.Value != "" {
		return t.Value
	}
	return t.Type.String()
}

// error creates a parser error at the current token.
func (p *Parser) error(code types.ErrorCode, message string) error {
	if p.current.Type == TokenError && p.lexer.Error() != nil {
		return p.lexer.Error()
	}
	return &types.Error{
		Code:     code,
		Message:  message,
		Position: p.current.Position,
		Token:    p.current.Value,
	}
}

func (p *Parser) errorAt(code types.ErrorCode, pos int, message string) error {
	return &types.Error{
		Code:     code,
		Message:  message,
		Position: pos,
	}
}

// parseExpression parses an expression with operator precedence.
// rbp is the right binding power (minimum precedence).
func (p *Parser) parseExpression(rbp int) (*types.ASTNode, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return nil, p.error(types.ErrSyntax, "expression nesting too deep")
	}

	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		def := p.infixDef()
		if def == nil || def.BP <= rbp {
			break
		}
		left, err = p.parseInfix(left, def)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

// infixDef returns the token table entry for the current token when it
// can act as an infix or postfix operator under the configured grammar
// version, or nil.
func (p *Parser) infixDef() *TokenDef {
	var symbol string
	switch p.current.Type {
	case TokenComma, TokenSlash, TokenSlashSlash, TokenBracketOpen,
		TokenStar, TokenPlus, TokenMinus, TokenPipe,
		TokenEqual, TokenNotEqual, TokenLess, TokenLessEqual,
		TokenGreater, TokenGreaterEqual, TokenConcat:
		symbol = p.current.Type.String()
	case TokenName:
		symbol = p.current.Value
	default:
		return nil
	}

	def, ok := lookup(symbol)
	if !ok || !def.Infix() && !def.Postfix() {
		return nil
	}
	if def.MinVersion > p.version() {
		return nil
	}
	return def
}

// parsePrefix parses an expression in operand position.
func (p *Parser) parsePrefix() (*types.ASTNode, error) {
	token := p.current

	switch token.Type {
	case TokenString:
		node := p.arena.Alloc(types.NodeString, token.Position)
		node.StrValue = token.Value
		p.advance()
		return node, nil

	case TokenInteger:
		node := p.arena.Alloc(types.NodeInteger, token.Position)
		v, err := strconv.ParseInt(token.Value, 10, 64)
		if err != nil {
			// Out of int64 range: fall back to a double.
			f, ferr := strconv.ParseFloat(token.Value, 64)
			if ferr != nil {
				return nil, p.error(types.ErrInvalidNumber, fmt.Sprintf("invalid number %q", token.Value))
			}
			node.Type = types.NodeNumber
			node.NumValue = f
			p.advance()
			return node, nil
		}
		node.IntValue = v
		p.advance()
		return node, nil

	case TokenDecimal, TokenDouble:
		node := p.arena.Alloc(types.NodeNumber, token.Position)
		v, err := strconv.ParseFloat(token.Value, 64)
		if err != nil {
			return nil, p.error(types.ErrInvalidNumber, fmt.Sprintf("invalid number %q", token.Value))
		}
		node.NumValue = v
		p.advance()
		return node, nil

	case TokenVariable:
		node := p.arena.Alloc(types.NodeVariable, token.Position)
		node.StrValue = token.Value
		p.advance()
		return node, nil

	case TokenParenOpen:
		return p.parseParenthesized()

	case TokenMinus, TokenPlus:
		return p.parseUnary()

	case TokenSlash, TokenSlashSlash:
		return p.parseAbsolutePath()

	case TokenDot:
		node := p.arena.Alloc(types.NodeContextItem, token.Position)
		p.advance()
		return node, nil

	case TokenDotDot:
		p.advance()
		step := p.arena.Alloc(types.NodeStep, token.Position)
		step.Axis = types.AxisParent
		step.LHS = p.anyKindTest(token.Position)
		return step, nil

	case TokenAt:
		p.advance()
		return p.parseAttributeStep(token.Position)

	case TokenStar:
		p.advance()
		step := p.arena.Alloc(types.NodeStep, token.Position)
		step.Axis = types.AxisChild
		step.LHS = p.wildcardTest(token.Position)
		return step, nil

	case TokenName:
		return p.parseNameOperand()

	case TokenError:
		return nil, p.lexer.Error()

	default:
		return nil, p.error(types.ErrSyntax, fmt.Sprintf("unexpected token %q", p.tokenText(token)))
	}
}

// parseInfix folds one infix or postfix operator into left.
func (p *Parser) parseInfix(left *types.ASTNode, def *TokenDef) (*types.ASTNode, error) {
	switch def.Symbol {
	case ",":
		return p.parseSequenceTail(left)
	case "/", "//":
		return p.parsePathTail(left, def.Symbol == "//")
	case "[":
		return p.parsePredicate(left)
	default:
		return p.parseBinaryOp(left, def)
	}
}

// parseBinaryOp parses a binary operator expression.
func (p *Parser) parseBinaryOp(left *types.ASTNode, def *TokenDef) (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance()

	right, err := p.parseExpression(def.BP)
	if err != nil {
		return nil, err
	}

	node := p.arena.Alloc(types.NodeBinary, pos)
	node.StrValue = def.Symbol
	node.LHS = left
	node.RHS = right
	return node, nil
}

// parseUnary parses a unary plus or minus.
func (p *Parser) parseUnary() (*types.ASTNode, error) {
	token := p.current
	p.advance()

	operand, err := p.parseExpression(bpUnary)
	if err != nil {
		return nil, err
	}

	node := p.arena.Alloc(types.NodeUnary, token.Position)
	node.StrValue = token.Type.String()
	node.LHS = operand
	return node, nil
}

// parseParenthesized parses "()" (the empty sequence), a grouped
// expression, or a comma sequence.
func (p *Parser) parseParenthesized() (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // '('

	if p.current.Type == TokenParenClose {
		p.advance()
		return p.arena.Alloc(types.NodeSequence, pos), nil
	}

	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseSequenceTail extends a comma sequence constructor.
func (p *Parser) parseSequenceTail(left *types.ASTNode) (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // ','

	right, err := p.parseExpression(bpComma)
	if err != nil {
		return nil, err
	}

	if left.Type == types.NodeSequence {
		left.Expressions = append(left.Expressions, right)
		return left, nil
	}

	node := p.arena.Alloc(types.NodeSequence, pos)
	node.Expressions = []*types.ASTNode{left, right}
	return node, nil
}

// parseAbsolutePath parses a path starting with "/" or "//".
func (p *Parser) parseAbsolutePath() (*types.ASTNode, error) {
	token := p.current
	p.advance()

	path := p.arena.Alloc(types.NodePath, token.Position)
	path.Steps = []*types.ASTNode{p.arena.Alloc(types.NodeRoot, token.Position)}

	if token.Type == TokenSlashSlash {
		path.Steps = append(path.Steps, p.descendantOrSelfStep(token.Position))
		step, err := p.parseExpression(bpPath)
		if err != nil {
			return nil, err
		}
		path.Steps = append(path.Steps, step)
		return path, nil
	}

	// A bare "/" selects the document root; a step after it is optional.
	switch p.current.Type {
	case TokenName, TokenStar, TokenAt, TokenDot, TokenDotDot:
		step, err := p.parseExpression(bpPath)
		if err != nil {
			return nil, err
		}
		path.Steps = append(path.Steps, step)
	}
	return path, nil
}

// parsePathTail extends a path with "/" or "//" and the following step.
func (p *Parser) parsePathTail(left *types.ASTNode, doubleSlash bool) (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance()

	path := left
	if path.Type != types.NodePath {
		path = p.arena.Alloc(types.NodePath, left.Position)
		path.Steps = []*types.ASTNode{left}
	}

	if doubleSlash {
		path.Steps = append(path.Steps, p.descendantOrSelfStep(pos))
	}

	step, err := p.parseExpression(bpPath)
	if err != nil {
		return nil, err
	}
	path.Steps = append(path.Steps, step)
	return path, nil
}

// parsePredicate parses "[expr]" and attaches it to the step or wraps
// the expression in a filter.
func (p *Parser) parsePredicate(left *types.ASTNode) (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // '['

	pred, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenBracketClose); err != nil {
		return nil, err
	}

	if left.Type == types.NodeStep {
		left.Predicates = append(left.Predicates, pred)
		return left, nil
	}
	if left.Type == types.NodeFilter {
		left.Predicates = append(left.Predicates, pred)
		return left, nil
	}

	node := p.arena.Alloc(types.NodeFilter, pos)
	node.LHS = left
	node.Predicates = []*types.ASTNode{pred}
	return node, nil
}

// parseNameOperand parses an operand that starts with a name: a control
// flow keyword, an axis step, a kind test, a function call, or a name
// test on the default child axis.
func (p *Parser) parseNameOperand() (*types.ASTNode, error) {
	name := p.current
	p.advance()

	// Control flow keywords are recognized by their following token, so
	// elements named "if" or "for" keep working as name tests.
	switch name.Value {
	case "if":
		if p.current.Type == TokenParenOpen {
			return p.parseIf(name.Position)
		}
	case "for", "some", "every":
		if p.current.Type == TokenVariable {
			return p.parseBindingExpr(name.Value, name.Position)
		}
	case "let":
		if p.current.Type == TokenVariable {
			return p.parseBindingExpr(name.Value, name.Position)
		}
	}

	// Explicit axis: name followed by "::".
	if p.current.Type == TokenAxisSep {
		axis, ok := types.AxisByName(name.Value)
		if !ok {
			return nil, p.errorAt(types.ErrSyntax, name.Position, fmt.Sprintf("unknown axis %q", name.Value))
		}
		p.advance() // '::'
		return p.parseAxisStep(axis, name.Position)
	}

	// Name followed by "(": a kind test or a function call.
	if p.current.Type == TokenParenOpen {
		if isKindTestName(name.Value) {
			test, err := p.parseKindTest(name.Value, name.Position)
			if err != nil {
				return nil, err
			}
			step := p.arena.Alloc(types.NodeStep, name.Position)
			step.LHS = test
			if test.Kind == types.KindAttribute && !test.AnyKind {
				step.Axis = types.AxisAttribute
			} else {
				step.Axis = types.AxisChild
			}
			return step, nil
		}
		return p.parseFunctionCall(name)
	}

	// Plain name test on the default child axis.
	step := p.arena.Alloc(types.NodeStep, name.Position)
	step.Axis = types.AxisChild
	step.LHS = p.nameTest(name)
	return step, nil
}

// parseAxisStep parses the node test and predicates after "axis::".
func (p *Parser) parseAxisStep(axis types.Axis, pos int) (*types.ASTNode, error) {
	step := p.arena.Alloc(types.NodeStep, pos)
	step.Axis = axis

	test, err := p.parseNodeTest()
	if err != nil {
		return nil, err
	}
	step.LHS = test
	return step, nil
}

// parseNodeTest parses a name test or kind test in axis-step position.
func (p *Parser) parseNodeTest() (*types.ASTNode, error) {
	switch p.current.Type {
	case TokenStar:
		test := p.wildcardTest(p.current.Position)
		p.advance()
		return test, nil
	case TokenName:
		name := p.current
		p.advance()
		if p.current.Type == TokenParenOpen && isKindTestName(name.Value) {
			return p.parseKindTest(name.Value, name.Position)
		}
		return p.nameTest(name), nil
	default:
		return nil, p.error(types.ErrSyntax, fmt.Sprintf("expected node test but got %q", p.tokenText(p.current)))
	}
}

// parseKindTest parses the parenthesized tail of a node-kind test. The
// keyword has been consumed; the current token is "(". Only
// processing-instruction() accepts an argument (the target name).
func (p *Parser) parseKindTest(keyword string, pos int) (*types.ASTNode, error) {
	p.advance() // '('

	test := p.arena.Alloc(types.NodeKindTest, pos)
	switch keyword {
	case "node":
		test.AnyKind = true
	case "text":
		test.Kind = types.KindText
	case "comment":
		test.Kind = types.KindComment
	case "processing-instruction":
		test.Kind = types.KindProcessingInstruction
		if p.current.Type == TokenString || p.current.Type == TokenName {
			test.StrValue = p.current.Value
			p.advance()
		}
	case "document-node":
		test.Kind = types.KindDocument
	case "element":
		test.Kind = types.KindElement
	case "attribute":
		test.Kind = types.KindAttribute
	}

	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}
	return test, nil
}

// parseAttributeStep parses the name test after "@".
func (p *Parser) parseAttributeStep(pos int) (*types.ASTNode, error) {
	step := p.arena.Alloc(types.NodeStep, pos)
	step.Axis = types.AxisAttribute

	switch p.current.Type {
	case TokenStar:
		step.LHS = p.wildcardTest(p.current.Position)
		p.advance()
	case TokenName:
		step.LHS = p.nameTest(p.current)
		p.advance()
	default:
		return nil, p.error(types.ErrSyntax, fmt.Sprintf("expected attribute name after '@' but got %q", p.tokenText(p.current)))
	}
	return step, nil
}

// parseFunctionCall parses "name(arg, ...)". The name token has been
// consumed; the current token is "(". Unprefixed names are resolved
// against the static context at parse time.
func (p *Parser) parseFunctionCall(name Token) (*types.ASTNode, error) {
	if !strings.Contains(name.Value, ":") && !p.sc.allowsFunction(name.Value) {
		return nil, p.errorAt(types.ErrUnknownFunction, name.Position, fmt.Sprintf("unknown function %q", name.Value))
	}

	p.advance() // '('

	node := p.arena.Alloc(types.NodeFunction, name.Position)
	node.StrValue = name.Value
	node.Arguments = []*types.ASTNode{}

	if p.current.Type != TokenParenClose {
		for {
			arg, err := p.parseExpression(bpComma)
			if err != nil {
				return nil, err
			}
			node.Arguments = append(node.Arguments, arg)

			if p.current.Type != TokenComma {
				break
			}
			p.advance()
		}
	}

	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}
	return node, nil
}

// parseIf parses "if (expr) then single else single".
func (p *Parser) parseIf(pos int) (*types.ASTNode, error) {
	if p.version() < Version20 {
		return nil, p.errorAt(types.ErrSyntax, pos, "if expressions require version 2.0")
	}

	p.advance() // '('
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}

	if err := p.expectName("then"); err != nil {
		return nil, err
	}
	thenExpr, err := p.parseExpression(bpComma)
	if err != nil {
		return nil, err
	}

	if err := p.expectName("else"); err != nil {
		return nil, err
	}
	elseExpr, err := p.parseExpression(bpComma)
	if err != nil {
		return nil, err
	}

	node := p.arena.Alloc(types.NodeIf, pos)
	node.LHS = cond
	node.RHS = thenExpr
	node.Expressions = []*types.ASTNode{elseExpr}
	return node, nil
}

// parseBindingExpr parses for, let, some and every expressions, which
// share the clause shape "$var in expr" ("$var := expr" for let)
// repeated over commas, followed by a body keyword and a single
// expression.
func (p *Parser) parseBindingExpr(keyword string, pos int) (*types.ASTNode, error) {
	switch keyword {
	case "let":
		if p.version() < Version30 {
			return nil, p.errorAt(types.ErrSyntax, pos, "let expressions require version 3.0")
		}
	default:
		if p.version() < Version20 {
			return nil, p.errorAt(types.ErrSyntax, pos, fmt.Sprintf("%s expressions require version 2.0", keyword))
		}
	}

	var node *types.ASTNode
	bodyKeyword := "return"
	switch keyword {
	case "for":
		node = p.arena.Alloc(types.NodeFor, pos)
	case "let":
		node = p.arena.Alloc(types.NodeLet, pos)
	default:
		node = p.arena.Alloc(types.NodeQuantified, pos)
		node.StrValue = keyword
		bodyKeyword = "satisfies"
	}

	for {
		if p.current.Type != TokenVariable {
			return nil, p.error(types.ErrSyntax, fmt.Sprintf("expected variable in %s clause", keyword))
		}
		binding := p.arena.Alloc(types.NodeBinding, p.current.Position)
		binding.StrValue = p.current.Value
		p.advance()

		if keyword == "let" {
			if err := p.expect(TokenAssign); err != nil {
				return nil, err
			}
		} else {
			if err := p.expectName("in"); err != nil {
				return nil, err
			}
		}

		src, err := p.parseExpression(bpComma)
		if err != nil {
			return nil, err
		}
		binding.LHS = src
		node.Bindings = append(node.Bindings, binding)

		if p.current.Type != TokenComma {
			break
		}
		p.advance()
	}

	if err := p.expectName(bodyKeyword); err != nil {
		return nil, err
	}
	body, err := p.parseExpression(bpComma)
	if err != nil {
		return nil, err
	}
	node.RHS = body
	return node, nil
}

// Node test constructors

func (p *Parser) nameTest(name Token) *types.ASTNode {
	test := p.arena.Alloc(types.NodeNameTest, name.Position)
	if i := strings.IndexByte(name.Value, ':'); i >= 0 {
		test.Prefix = name.Value[:i]
		test.StrValue = name.Value[i+1:]
	} else {
		test.StrValue = name.Value
	}
	return test
}

func (p *Parser) wildcardTest(pos int) *types.ASTNode {
	test := p.arena.Alloc(types.NodeNameTest, pos)
	test.StrValue = "*"
	return test
}

func (p *Parser) anyKindTest(pos int) *types.ASTNode {
	test := p.arena.Alloc(types.NodeKindTest, pos)
	test.AnyKind = true
	return test
}

func (p *Parser) descendantOrSelfStep(pos int) *types.ASTNode {
	step := p.arena.Alloc(types.NodeStep, pos)
	step.Axis = types.AxisDescendantOrSelf
	step.LHS = p.anyKindTest(pos)
	return step
}
