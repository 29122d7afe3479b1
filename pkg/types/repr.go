package types

import (
	"strconv"
	"strings"
)

// Repr renders the AST back to query text. The output is normalized
// (minimal whitespace, explicit axes kept as parsed) and re-parses to an
// evaluation-equivalent expression.
func (n *ASTNode) Repr() string {
	var sb strings.Builder
	n.repr(&sb)
	return sb.String()
}

func (n *ASTNode) repr(sb *strings.Builder) {
	if n == nil {
		return
	}
	switch n.Type {
	case NodeString:
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(n.StrValue, `"`, `""`))
		sb.WriteByte('"')
	case NodeInteger:
		sb.WriteString(strconv.FormatInt(n.IntValue, 10))
	case NodeNumber:
		sb.WriteString(FormatNumber(n.NumValue))
	case NodeVariable:
		sb.WriteByte('$')
		sb.WriteString(n.StrValue)
	case NodeContextItem:
		sb.WriteByte('.')
	case NodeSequence:
		sb.WriteByte('(')
		for i, e := range n.Expressions {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.repr(sb)
		}
		sb.WriteByte(')')
	case NodeRoot:
		sb.WriteByte('/')
	case NodePath:
		for i, step := range n.Steps {
			if step.Type == NodeRoot {
				sb.WriteByte('/')
				continue
			}
			if i > 0 && n.Steps[i-1].Type != NodeRoot {
				sb.WriteByte('/')
			}
			step.repr(sb)
		}
	case NodeStep:
		sb.WriteString(n.Axis.String())
		sb.WriteString("::")
		n.LHS.repr(sb)
		reprPredicates(sb, n.Predicates)
	case NodeNameTest:
		if n.Prefix != "" {
			sb.WriteString(n.Prefix)
			sb.WriteByte(':')
		}
		sb.WriteString(n.StrValue)
	case NodeKindTest:
		if n.AnyKind {
			sb.WriteString("node()")
			return
		}
		sb.WriteString(n.Kind.String())
		sb.WriteByte('(')
		sb.WriteString(n.StrValue) // processing-instruction target, if any
		sb.WriteByte(')')
	case NodeBinary:
		sb.WriteByte('(')
		n.LHS.repr(sb)
		sb.WriteByte(' ')
		sb.WriteString(n.StrValue)
		sb.WriteByte(' ')
		n.RHS.repr(sb)
		sb.WriteByte(')')
	case NodeUnary:
		sb.WriteString(n.StrValue)
		n.LHS.repr(sb)
	case NodeFilter:
		// Without the parentheses the predicate would re-attach to the
		// base's last step: (//a)[1] is not //a[1].
		sb.WriteByte('(')
		n.LHS.repr(sb)
		sb.WriteByte(')')
		reprPredicates(sb, n.Predicates)
	case NodeFunction:
		sb.WriteString(n.StrValue)
		sb.WriteByte('(')
		for i, a := range n.Arguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			a.repr(sb)
		}
		sb.WriteByte(')')
	case NodeFor, NodeLet:
		kw, sep := "for", " in "
		if n.Type == NodeLet {
			kw, sep = "let", " := "
		}
		sb.WriteString(kw)
		sb.WriteByte(' ')
		reprBindings(sb, n.Bindings, sep)
		sb.WriteString(" return ")
		n.RHS.repr(sb)
	case NodeQuantified:
		sb.WriteString(n.StrValue)
		sb.WriteByte(' ')
		reprBindings(sb, n.Bindings, " in ")
		sb.WriteString(" satisfies ")
		n.RHS.repr(sb)
	case NodeIf:
		sb.WriteString("if (")
		n.LHS.repr(sb)
		sb.WriteString(") then ")
		n.RHS.repr(sb)
		sb.WriteString(" else ")
		if len(n.Expressions) > 0 {
			n.Expressions[0].repr(sb)
		}
	case NodeBinding:
		sb.WriteByte('$')
		sb.WriteString(n.StrValue)
	}
}

func reprPredicates(sb *strings.Builder, preds []*ASTNode) {
	for _, p := range preds {
		sb.WriteByte('[')
		p.repr(sb)
		sb.WriteByte(']')
	}
}

func reprBindings(sb *strings.Builder, bindings []*ASTNode, sep string) {
	for i, b := range bindings {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('$')
		sb.WriteString(b.StrValue)
		sb.WriteString(sep)
		b.LHS.repr(sb)
	}
}
