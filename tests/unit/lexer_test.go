package unit_test

import (
	"testing"

	"github.com/sandrolain/goxpath/pkg/parser"
)

type lexerTestCase struct {
	name      string
	input     string
	expected  []parser.Token
	expectErr bool
}

func TestLexerWhitespaceAndComments(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "no whitespace",
			input: "abc",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "abc", Position: 0},
			},
		},
		{
			name:  "leading whitespace",
			input: "   abc",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "abc", Position: 3},
			},
		},
		{
			name:  "mixed whitespace",
			input: " \t\n\rabc",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "abc", Position: 4},
			},
		},
		{
			name:  "comment",
			input: "(: a comment :) abc",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "abc", Position: 16},
			},
		},
		{
			name:  "nested comment",
			input: "(: outer (: inner :) still outer :)1",
			expected: []parser.Token{
				{Type: parser.TokenInteger, Value: "1", Position: 35},
			},
		},
		{
			name:      "unclosed comment",
			input:     "(: never ends",
			expectErr: true,
		},
		{
			name:  "paren is not a comment",
			input: "(1)",
			expected: []parser.Token{
				{Type: parser.TokenParenOpen, Value: "(", Position: 0},
				{Type: parser.TokenInteger, Value: "1", Position: 1},
				{Type: parser.TokenParenClose, Value: ")", Position: 2},
			},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerStrings(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "double quoted string",
			input: `"hello"`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: "hello", Position: 1},
			},
		},
		{
			name:  "single quoted string",
			input: `'world'`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: "world", Position: 1},
			},
		},
		{
			name:  "empty string",
			input: `""`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: "", Position: 1},
			},
		},
		{
			name:  "doubled quote escape",
			input: `"he said ""hi"""`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: `he said "hi"`, Position: 1},
			},
		},
		{
			name:  "doubled single quote escape",
			input: `'it''s'`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: "it's", Position: 1},
			},
		},
		{
			name:  "other quote kind is literal",
			input: `"it's"`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: "it's", Position: 1},
			},
		},
		{
			name:      "unterminated string",
			input:     `"hello`,
			expectErr: true,
		},
	}

	runLexerTests(t, tests)
}

func TestLexerNumbers(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "integer",
			input: "123",
			expected: []parser.Token{
				{Type: parser.TokenInteger, Value: "123", Position: 0},
			},
		},
		{
			name:  "zero",
			input: "0",
			expected: []parser.Token{
				{Type: parser.TokenInteger, Value: "0", Position: 0},
			},
		},
		{
			name:  "decimal",
			input: "3.14",
			expected: []parser.Token{
				{Type: parser.TokenDecimal, Value: "3.14", Position: 0},
			},
		},
		{
			name:  "leading dot decimal",
			input: ".5",
			expected: []parser.Token{
				{Type: parser.TokenDecimal, Value: ".5", Position: 0},
			},
		},
		{
			name:  "trailing dot decimal",
			input: "5.",
			expected: []parser.Token{
				{Type: parser.TokenDecimal, Value: "5.", Position: 0},
			},
		},
		{
			name:  "double with exponent",
			input: "1e10",
			expected: []parser.Token{
				{Type: parser.TokenDouble, Value: "1e10", Position: 0},
			},
		},
		{
			name:  "double with signed exponent",
			input: "3.14E-2",
			expected: []parser.Token{
				{Type: parser.TokenDouble, Value: "3.14E-2", Position: 0},
			},
		},
		{
			name:      "digitless exponent",
			input:     "1e",
			expectErr: true,
		},
		{
			name:      "number glued to name",
			input:     "1foo",
			expectErr: true,
		},
	}

	runLexerTests(t, tests)
}

func TestLexerNamesAndVariables(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "qualified name",
			input: "ns:local",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "ns:local", Position: 0},
			},
		},
		{
			name:  "prefix wildcard",
			input: "ns:*",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "ns:*", Position: 0},
			},
		},
		{
			name:  "local wildcard",
			input: "*:local",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "*:local", Position: 0},
			},
		},
		{
			name:  "bare star stays a star",
			input: "*",
			expected: []parser.Token{
				{Type: parser.TokenStar, Value: "*", Position: 0},
			},
		},
		{
			name:  "axis separator not consumed by name",
			input: "child::a",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "child", Position: 0},
				{Type: parser.TokenAxisSep, Value: "::", Position: 5},
				{Type: parser.TokenName, Value: "a", Position: 7},
			},
		},
		{
			name:  "name with dots and dashes",
			input: "foo-bar.baz",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "foo-bar.baz", Position: 0},
			},
		},
		{
			name:  "variable",
			input: "$x",
			expected: []parser.Token{
				{Type: parser.TokenVariable, Value: "x", Position: 1},
			},
		},
		{
			name:      "bare dollar",
			input:     "$ ",
			expectErr: true,
		},
	}

	runLexerTests(t, tests)
}

func TestLexerSymbols(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "double slash",
			input: "//",
			expected: []parser.Token{
				{Type: parser.TokenSlashSlash, Value: "//", Position: 0},
			},
		},
		{
			name:  "dot dot",
			input: "..",
			expected: []parser.Token{
				{Type: parser.TokenDotDot, Value: "..", Position: 0},
			},
		},
		{
			name:  "comparison operators",
			input: "!= <= >= < > =",
			expected: []parser.Token{
				{Type: parser.TokenNotEqual, Value: "!=", Position: 0},
				{Type: parser.TokenLessEqual, Value: "<=", Position: 3},
				{Type: parser.TokenGreaterEqual, Value: ">=", Position: 6},
				{Type: parser.TokenLess, Value: "<", Position: 9},
				{Type: parser.TokenGreater, Value: ">", Position: 11},
				{Type: parser.TokenEqual, Value: "=", Position: 13},
			},
		},
		{
			name:  "concat and assign",
			input: "|| :=",
			expected: []parser.Token{
				{Type: parser.TokenConcat, Value: "||", Position: 0},
				{Type: parser.TokenAssign, Value: ":=", Position: 3},
			},
		},
		{
			name:  "abbreviated step symbols",
			input: "@id[1]",
			expected: []parser.Token{
				{Type: parser.TokenAt, Value: "@", Position: 0},
				{Type: parser.TokenName, Value: "id", Position: 1},
				{Type: parser.TokenBracketOpen, Value: "[", Position: 3},
				{Type: parser.TokenInteger, Value: "1", Position: 4},
				{Type: parser.TokenBracketClose, Value: "]", Position: 5},
			},
		},
	}

	runLexerTests(t, tests)
}

func runLexerTests(t *testing.T, tests []lexerTestCase) {
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lexer := parser.NewLexer(test.input)
			tokens := []parser.Token{}

			for {
				tok := lexer.Next()
				if tok.Type == parser.TokenEOF {
					break
				}
				if tok.Type == parser.TokenError {
					if !test.expectErr {
						t.Errorf("unexpected error: %v", lexer.Error())
					}
					return
				}
				tokens = append(tokens, tok)
			}

			if test.expectErr {
				t.Error("expected error but got none")
				return
			}

			if len(tokens) != len(test.expected) {
				t.Errorf("got %d tokens, want %d\nGot: %v\nWant: %v",
					len(tokens), len(test.expected), tokens, test.expected)
				return
			}

			for i, tok := range tokens {
				exp := test.expected[i]
				if tok.Type != exp.Type {
					t.Errorf("token %d: type = %v, want %v", i, tok.Type, exp.Type)
				}
				if tok.Value != exp.Value {
					t.Errorf("token %d: value = %q, want %q", i, tok.Value, exp.Value)
				}
				if tok.Position != exp.Position {
					t.Errorf("token %d: position = %d, want %d", i, tok.Position, exp.Position)
				}
			}
		})
	}
}
