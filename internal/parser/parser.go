// Package parser implements a recursive-descent, Pratt-style parser with one
// token of lookahead. It turns a token stream into a single Expression; the
// language is expression-oriented, so if/while/blocks/var are all parsed as
// expressions rather than as a separate statement grammar.
package parser

import (
	"strconv"

	"github.com/cwbudde/go-exprc/internal/ast"
	"github.com/cwbudde/go-exprc/internal/errors"
	"github.com/cwbudde/go-exprc/internal/lexer"
	"github.com/cwbudde/go-exprc/internal/token"
)

// Precedence levels, lowest first. "=" is right-associative at ASSIGN;
// every other binary operator is left-associative.
const (
	LOWEST = iota
	ASSIGN
	OR
	AND
	EQUALITY
	RELATIONAL
	SUM
	PRODUCT
	PREFIX
)

var binaryPrecedence = map[string]int{
	"=":  ASSIGN,
	"or": OR, "and": AND,
	"==": EQUALITY, "!=": EQUALITY,
	"<": RELATIONAL, "<=": RELATIONAL, ">": RELATIONAL, ">=": RELATIONAL,
	"+": SUM, "-": SUM,
	"*": PRODUCT, "/": PRODUCT, "%": PRODUCT,
}

// Parser consumes a fixed token slice produced by the lexer.
type Parser struct {
	tokens   []token.Token
	pos      int
	source   string
	file     string
	allowVar bool
}

// New constructs a Parser over an already-lexed token stream.
func New(tokens []token.Token, source, file string) *Parser {
	return &Parser{tokens: tokens, source: source, file: file}
}

// Parse lexes and parses source in one step: the full pipeline entry point
// for the CORE's parsing stage.
func Parse(source, file string) (ast.Expression, *errors.CompilerError) {
	toks, lexErr := lexer.New(source, lexer.WithFile(file)).Lex()
	if lexErr != nil {
		return nil, lexErr
	}
	p := New(toks, source, file)
	return p.ParseProgram()
}

// ParseProgram parses the whole token stream as if it were wrapped in a
// synthetic top-level block: it accepts var declarations and statement
// sequencing at the top level, and unwraps a single resulting statement
// rather than returning a one-element Block.
func (p *Parser) ParseProgram() (ast.Expression, *errors.CompilerError) {
	stmts, err := p.parseStatementSequence(func() bool { return p.peek().Kind == token.END })
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != token.END {
		return nil, p.errorf(p.peek().Loc, "trailing input %q", p.peek().Text)
	}
	if len(stmts) == 0 {
		return nil, p.errorf(p.endLoc(), "empty input")
	}
	if len(stmts) == 1 {
		return stmts[0], nil
	}
	return ast.NewBlock(stmts[0].Loc(), stmts), nil
}

func (p *Parser) endLoc() token.SourceLocation {
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1].Loc
	}
	return token.SourceLocation{File: p.file}
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Loc: p.endLoc(), Kind: token.END}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) errorf(loc token.SourceLocation, format string, args ...any) *errors.CompilerError {
	return errors.New(errors.StageParse, loc, p.source, p.file, format, args...)
}

func isPunct(tok token.Token, text string) bool {
	return tok.Kind == token.PUNCTUATION && tok.Text == text
}

func isKeyword(tok token.Token, text string) bool {
	return tok.Kind == token.IDENTIFIER && tok.Text == text
}

func (p *Parser) expectPunct(text string) *errors.CompilerError {
	if !isPunct(p.peek(), text) {
		return p.errorf(p.peek().Loc, "expected %q, got %q", text, p.peek().Text)
	}
	p.advance()
	return nil
}

func (p *Parser) expectKeyword(text string) *errors.CompilerError {
	if !isKeyword(p.peek(), text) {
		return p.errorf(p.peek().Loc, "expected %q, got %q", text, p.peek().Text)
	}
	p.advance()
	return nil
}

// parseStatementSequence parses the contents of a block (or the top-level
// synthetic block), statements separated by ';' or by the "ends with a
// block" rule, stopping when atClose reports true.
func (p *Parser) parseStatementSequence(atClose func() bool) ([]ast.Expression, *errors.CompilerError) {
	var stmts []ast.Expression
	if atClose() {
		return stmts, nil
	}
	for {
		p.allowVar = true
		stmt, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if atClose() {
			break
		}
		if isPunct(p.peek(), ";") {
			p.advance()
			if atClose() {
				stmts = append(stmts, ast.NewLiteral(p.endLoc(), nil))
				break
			}
			continue
		}
		if ast.EndsWithBlock(stmt) {
			continue
		}
		return nil, p.errorf(p.peek().Loc, "expected ';', got %q", p.peek().Text)
	}
	return stmts, nil
}

// parseExpression is the Pratt loop: a prefix parse followed by zero or
// more infix extensions whose precedence is at least minPrec.
func (p *Parser) parseExpression(minPrec int) (ast.Expression, *errors.CompilerError) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		prec, ok := p.infixPrecedence(tok)
		if !ok || prec < minPrec {
			break
		}
		opLoc := tok.Loc
		op := tok.Text
		p.advance()
		nextMin := prec + 1
		if op == "=" {
			nextMin = prec // right-associative
		}
		right, err := p.parseExpression(nextMin)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(opLoc, left, op, right)
	}
	return left, nil
}

func (p *Parser) infixPrecedence(tok token.Token) (int, bool) {
	switch tok.Kind {
	case token.OPERATOR:
		prec, ok := binaryPrecedence[tok.Text]
		return prec, ok
	case token.IDENTIFIER:
		if tok.Text == "and" || tok.Text == "or" {
			return binaryPrecedence[tok.Text], true
		}
	}
	return 0, false
}

// parsePrefix dispatches on the current token to parse a factor: a literal,
// identifier, function call, parenthesized expression, block, if, while, a
// unary operator, or (only where allowed) a var declaration. Every
// recursive descent into a sub-expression passes through here, and every
// call resets allowVar to false first; only the statement-sequence loop
// re-enables it for the next factor it parses, so var is legal exactly at
// block-statement-start positions and nowhere else.
func (p *Parser) parsePrefix() (ast.Expression, *errors.CompilerError) {
	wasAllowVar := p.allowVar
	p.allowVar = false
	tok := p.peek()

	switch tok.Kind {
	case token.INT_LITERAL:
		p.advance()
		n, convErr := strconv.ParseInt(tok.Text, 10, 64)
		if convErr != nil {
			return nil, p.errorf(tok.Loc, "integer literal out of range: %s", tok.Text)
		}
		return ast.NewLiteral(tok.Loc, n), nil

	case token.BOOL_LITERAL:
		p.advance()
		return ast.NewLiteral(tok.Loc, tok.Text == "true"), nil

	case token.IDENTIFIER:
		switch tok.Text {
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "var":
			if !wasAllowVar {
				return nil, p.errorf(tok.Loc, "var declaration not allowed here")
			}
			return p.parseVarDeclaration()
		case "not":
			return p.parseUnary("not")
		default:
			p.advance()
			if isPunct(p.peek(), "(") {
				return p.parseFunctionCall(tok)
			}
			return ast.NewIdentifier(tok.Loc, tok.Text), nil
		}

	case token.OPERATOR:
		if tok.Text == "-" {
			return p.parseUnary("-")
		}
		return nil, p.errorf(tok.Loc, "unexpected token %q", tok.Text)

	case token.PUNCTUATION:
		switch tok.Text {
		case "(":
			return p.parseGroup()
		case "{":
			return p.parseBlock()
		}
		return nil, p.errorf(tok.Loc, "unexpected token %q", tok.Text)

	default:
		return nil, p.errorf(tok.Loc, "unexpected end of input")
	}
}

func (p *Parser) parseUnary(op string) (ast.Expression, *errors.CompilerError) {
	tok := p.advance()
	expr, err := p.parseExpression(PREFIX)
	if err != nil {
		return nil, err
	}
	return ast.NewUnaryOp(tok.Loc, op, expr), nil
}

func (p *Parser) parseGroup() (ast.Expression, *errors.CompilerError) {
	p.advance() // '('
	inner, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return inner, nil
}

func (p *Parser) parseBlock() (ast.Expression, *errors.CompilerError) {
	loc := p.peek().Loc
	p.advance() // '{'
	savedAllowVar := p.allowVar
	stmts, err := p.parseStatementSequence(func() bool { return isPunct(p.peek(), "}") })
	p.allowVar = savedAllowVar
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return ast.NewBlock(loc, stmts), nil
}

func (p *Parser) parseIf() (ast.Expression, *errors.CompilerError) {
	loc := p.advance().Loc // 'if'
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("then"); err != nil {
		return nil, err
	}
	thenClause, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	var elseClause ast.Expression
	if isKeyword(p.peek(), "else") {
		p.advance()
		elseClause, err = p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIfExpression(loc, cond, thenClause, elseClause), nil
}

func (p *Parser) parseWhile() (ast.Expression, *errors.CompilerError) {
	loc := p.advance().Loc // 'while'
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("do"); err != nil {
		return nil, err
	}
	doClause, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	return ast.NewWhileExpression(loc, cond, doClause), nil
}

func (p *Parser) parseVarDeclaration() (ast.Expression, *errors.CompilerError) {
	loc := p.advance().Loc // 'var'
	nameTok := p.peek()
	if nameTok.Kind != token.IDENTIFIER {
		return nil, p.errorf(nameTok.Loc, "expected identifier, got %q", nameTok.Text)
	}
	p.advance()
	declaredType := ""
	if isPunct(p.peek(), ":") {
		p.advance()
		typeTok := p.peek()
		if typeTok.Kind != token.IDENTIFIER {
			return nil, p.errorf(typeTok.Loc, "expected type name, got %q", typeTok.Text)
		}
		p.advance()
		declaredType = typeTok.Text
	}
	if !(p.peek().Kind == token.OPERATOR && p.peek().Text == "=") {
		return nil, p.errorf(p.peek().Loc, "expected %q, got %q", "=", p.peek().Text)
	}
	p.advance()
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	return ast.NewVarDeclaration(loc, nameTok.Text, declaredType, value), nil
}

func (p *Parser) parseFunctionCall(nameTok token.Token) (ast.Expression, *errors.CompilerError) {
	p.advance() // '('
	var args []ast.Expression
	if !isPunct(p.peek(), ")") {
		for {
			arg, err := p.parseExpression(LOWEST)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if isPunct(p.peek(), ",") {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return ast.NewFunctionCall(nameTok.Loc, nameTok.Text, args), nil
}
