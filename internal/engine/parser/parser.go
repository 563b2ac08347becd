// Package parser turns phenotype script text into an abstract syntax tree.
// Parsing is a pure function of the input text: no I/O, no side effects.
package parser

import (
	"strconv"

	"go.phenora.dev/phenoql/internal/core/domain"
	"go.trai.ch/zerr"
)

// Parse parses script text into a Program. Failures carry the offending
// line/column and the expected token context.
func Parse(src string) (*Program, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.parseProgram()
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token { return p.toks[p.pos] }

func (p *parser) advance() { p.pos++ }

func (p *parser) at(k tokenKind) bool { return p.cur().kind == k }

func (p *parser) syntaxError(expected string) error {
	t := p.cur()
	return zerr.With(
		zerr.With(
			domain.Annotate(domain.ErrSyntax, "line", t.line),
			"column", t.column,
		),
		"expected", expected+", got "+t.describe(),
	)
}

func (p *parser) expect(k tokenKind, expected string) (token, error) {
	if !p.at(k) {
		return token{}, p.syntaxError(expected)
	}
	t := p.cur()
	p.advance()
	return t, nil
}

func (p *parser) curPos() Position {
	t := p.cur()
	return Position{Line: t.line, Column: t.column}
}

func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{}
	for !p.at(tokEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

//nolint:cyclop // statement dispatch
func (p *parser) parseStatement() (Stmt, error) {
	switch p.cur().kind {
	case tokPhenotype:
		return p.parsePhenotype()
	case tokVersion:
		return p.parseVersion()
	case tokDescription:
		return p.parseDescription()
	case tokDataModel:
		return p.parseDataModel()
	case tokInclude:
		return p.parseInclude()
	case tokCodeSystem:
		return p.parseCodeSystem()
	case tokTermSet:
		return p.parseTermSet()
	case tokDocumentSet:
		return p.parseDocumentSet()
	case tokCohort:
		return p.parseCohort()
	case tokContext:
		return p.parseContext()
	case tokDefine:
		return p.parseDefine()
	case tokLimit:
		return p.parseLimit()
	case tokDebug:
		return p.parseDebug()
	default:
		return nil, p.syntaxError("a statement keyword")
	}
}

func (p *parser) parsePhenotype() (Stmt, error) {
	base := stmtBase{Position: p.curPos()}
	p.advance()
	name, err := p.expect(tokString, "phenotype name string")
	if err != nil {
		return nil, err
	}
	stmt := PhenotypeStmt{stmtBase: base, Name: name.text}
	if p.at(tokVersion) {
		p.advance()
		v, err := p.expect(tokString, "version string")
		if err != nil {
			return nil, err
		}
		stmt.Version = v.text
	}
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseVersion() (Stmt, error) {
	base := stmtBase{Position: p.curPos()}
	p.advance()
	v, err := p.expect(tokString, "version string")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return nil, err
	}
	return VersionStmt{stmtBase: base, Version: v.text}, nil
}

func (p *parser) parseDescription() (Stmt, error) {
	base := stmtBase{Position: p.curPos()}
	p.advance()
	text, err := p.expect(tokString, "description string")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return nil, err
	}
	return DescriptionStmt{stmtBase: base, Text: text.text}, nil
}

func (p *parser) parseDataModel() (Stmt, error) {
	base := stmtBase{Position: p.curPos()}
	p.advance()
	name, err := p.expect(tokIdent, "data model identifier")
	if err != nil {
		return nil, err
	}
	stmt := DataModelStmt{stmtBase: base, Name: name.text}
	if p.at(tokVersion) {
		p.advance()
		v, err := p.expect(tokString, "version string")
		if err != nil {
			return nil, err
		}
		stmt.Version = v.text
	}
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseInclude() (Stmt, error) {
	base := stmtBase{Position: p.curPos()}
	p.advance()
	path, err := p.expect(tokIdent, "catalog identifier")
	if err != nil {
		return nil, err
	}
	stmt := IncludeStmt{stmtBase: base, Path: path.text}
	if p.at(tokVersion) {
		p.advance()
		v, err := p.expect(tokString, "version string")
		if err != nil {
			return nil, err
		}
		stmt.Version = v.text
	}
	if _, err := p.expect(tokCalled, "'called'"); err != nil {
		return nil, err
	}
	alias, err := p.expect(tokIdent, "catalog alias")
	if err != nil {
		return nil, err
	}
	stmt.Alias = alias.text
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseCodeSystem() (Stmt, error) {
	base := stmtBase{Position: p.curPos()}
	p.advance()
	name, err := p.expect(tokIdent, "code system name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon, "':'"); err != nil {
		return nil, err
	}
	uri, err := p.expect(tokString, "code system URI string")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return nil, err
	}
	return CodeSystemStmt{stmtBase: base, Name: name.text, URI: uri.text}, nil
}

func (p *parser) parseTermSet() (Stmt, error) {
	base := stmtBase{Position: p.curPos()}
	p.advance()
	name, err := p.expect(tokIdent, "term set name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon, "':'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBracket, "'['"); err != nil {
		return nil, err
	}
	var terms []string
	for !p.at(tokRBracket) {
		t, err := p.expect(tokString, "term string")
		if err != nil {
			return nil, err
		}
		terms = append(terms, t.text)
		if p.at(tokComma) {
			p.advance()
		}
	}
	p.advance() // ']'
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return nil, err
	}
	return TermSetStmt{stmtBase: base, Name: name.text, Terms: terms}, nil
}

func (p *parser) parseDocumentSet() (Stmt, error) {
	base := stmtBase{Position: p.curPos()}
	p.advance()
	name, err := p.expect(tokIdent, "document set name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon, "':'"); err != nil {
		return nil, err
	}
	call, err := p.parseCall()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return nil, err
	}
	return DocumentSetStmt{stmtBase: base, Name: name.text, Call: call}, nil
}

func (p *parser) parseCohort() (Stmt, error) {
	base := stmtBase{Position: p.curPos()}
	p.advance()
	name, err := p.expect(tokIdent, "cohort name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon, "':'"); err != nil {
		return nil, err
	}
	stmt := CohortStmt{stmtBase: base, Name: name.text}
	if p.at(tokString) {
		stmt.Ref = p.cur().text
		p.advance()
	} else {
		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		stmt.Call = call
	}
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseContext() (Stmt, error) {
	base := stmtBase{Position: p.curPos()}
	p.advance()
	name, err := p.expect(tokIdent, "'Patient' or 'Document'")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return nil, err
	}
	return ContextStmt{stmtBase: base, Name: name.text}, nil
}

func (p *parser) parseDefine() (Stmt, error) {
	base := stmtBase{Position: p.curPos()}
	p.advance()
	stmt := DefineStmt{stmtBase: base}
	if p.at(tokFinal) {
		stmt.Final = true
		p.advance()
	}
	name, err := p.expect(tokIdent, "define name")
	if err != nil {
		return nil, err
	}
	stmt.Name = name.text
	if _, err := p.expect(tokColon, "':'"); err != nil {
		return nil, err
	}

	if p.at(tokWhere) {
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = expr
	} else {
		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		stmt.Call = call
	}

	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseLimit() (Stmt, error) {
	base := stmtBase{Position: p.curPos()}
	p.advance()
	n, err := p.expect(tokNumber, "limit count")
	if err != nil {
		return nil, err
	}
	count, convErr := strconv.Atoi(n.text)
	if convErr != nil || count < 0 {
		return nil, p.syntaxError("a non-negative integer limit")
	}
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return nil, err
	}
	return LimitStmt{stmtBase: base, N: count}, nil
}

func (p *parser) parseDebug() (Stmt, error) {
	base := stmtBase{Position: p.curPos()}
	p.advance()
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return nil, err
	}
	return DebugStmt{stmtBase: base}, nil
}

// parseCall parses a dotted catalog invocation: Alias.Task(args).
func (p *parser) parseCall() (*Call, error) {
	pos := p.curPos()
	first, err := p.expect(tokIdent, "catalog alias")
	if err != nil {
		return nil, err
	}
	name := first.text
	for p.at(tokDot) {
		p.advance()
		part, err := p.expect(tokIdent, "task name after '.'")
		if err != nil {
			return nil, err
		}
		name += "." + part.text
	}
	call := &Call{Name: name, Position: pos}

	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}

	if p.at(tokLBrace) {
		obj, keys, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		call.Object = obj
		call.ObjectKeys = keys
	} else {
		for !p.at(tokRParen) {
			arg, err := p.parseArg()
			if err != nil {
				return nil, err
			}
			call.Positional = append(call.Positional, arg)
			if p.at(tokComma) {
				p.advance()
			}
		}
	}

	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *parser) parseObject() (map[string]Arg, []string, error) {
	p.advance() // '{'
	obj := make(map[string]Arg)
	var keys []string
	for !p.at(tokRBrace) {
		// Keywords are legal object keys ("termset:", "cohort:", ...).
		key := p.cur()
		if key.kind != tokIdent && key.text == "" {
			return nil, nil, p.syntaxError("parameter name")
		}
		p.advance()
		if _, err := p.expect(tokColon, "':' after parameter name"); err != nil {
			return nil, nil, err
		}
		arg, err := p.parseArg()
		if err != nil {
			return nil, nil, err
		}
		if _, dup := obj[key.text]; dup {
			return nil, nil, p.syntaxError("a unique parameter name, duplicate '" + key.text + "'")
		}
		obj[key.text] = arg
		keys = append(keys, key.text)
		if p.at(tokComma) {
			p.advance()
		}
	}
	p.advance() // '}'
	return obj, keys, nil
}

//nolint:cyclop // literal dispatch
func (p *parser) parseArg() (Arg, error) {
	pos := p.curPos()
	switch p.cur().kind {
	case tokString:
		v := domain.StringValue(p.cur().text)
		p.advance()
		return Arg{Kind: ArgLiteral, Literal: v, Position: pos}, nil
	case tokNumber:
		n, err := strconv.ParseFloat(p.cur().text, 64)
		if err != nil {
			return Arg{}, p.syntaxError("a numeric literal")
		}
		p.advance()
		return Arg{Kind: ArgLiteral, Literal: domain.NumberValue(n), Position: pos}, nil
	case tokMinus:
		p.advance()
		n, err := p.expect(tokNumber, "a number after '-'")
		if err != nil {
			return Arg{}, err
		}
		f, convErr := strconv.ParseFloat(n.text, 64)
		if convErr != nil {
			return Arg{}, p.syntaxError("a numeric literal")
		}
		return Arg{Kind: ArgLiteral, Literal: domain.NumberValue(-f), Position: pos}, nil
	case tokTrue:
		p.advance()
		return Arg{Kind: ArgLiteral, Literal: domain.BoolValue(true), Position: pos}, nil
	case tokFalse:
		p.advance()
		return Arg{Kind: ArgLiteral, Literal: domain.BoolValue(false), Position: pos}, nil
	case tokIdent:
		name := p.cur().text
		p.advance()
		return Arg{Kind: ArgIdent, Ident: name, Position: pos}, nil
	case tokLBracket:
		p.advance()
		var items []Arg
		for !p.at(tokRBracket) {
			item, err := p.parseArg()
			if err != nil {
				return Arg{}, err
			}
			items = append(items, item)
			if p.at(tokComma) {
				p.advance()
			}
		}
		p.advance() // ']'
		return Arg{Kind: ArgList, List: items, Position: pos}, nil
	default:
		return Arg{}, p.syntaxError("a parameter value")
	}
}

// Expression grammar, loosest to tightest: OR, AND, NOT, comparison, primary.

func (p *parser) parseExpr() (domain.Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (domain.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(tokOr) {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &domain.BinaryExpr{Op: domain.OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (domain.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.at(tokAnd) {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &domain.BinaryExpr{Op: domain.OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (domain.Expr, error) {
	if p.at(tokNot) {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &domain.NotExpr{Operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (domain.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	var op domain.BinaryOp
	switch p.cur().kind {
	case tokGT:
		op = domain.OpGT
	case tokLT:
		op = domain.OpLT
	case tokGE:
		op = domain.OpGE
	case tokLE:
		op = domain.OpLE
	case tokEQ:
		op = domain.OpEQ
	case tokNE:
		op = domain.OpNE
	default:
		return left, nil
	}
	p.advance()

	right, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return &domain.BinaryExpr{Op: op, Left: left, Right: right}, nil
}

//nolint:cyclop // literal dispatch
func (p *parser) parsePrimary() (domain.Expr, error) {
	t := p.cur()
	switch t.kind {
	case tokLParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case tokNumber:
		n, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, p.syntaxError("a numeric literal")
		}
		p.advance()
		return &domain.LiteralExpr{Value: domain.NumberValue(n)}, nil
	case tokMinus:
		p.advance()
		n, err := p.expect(tokNumber, "a number after '-'")
		if err != nil {
			return nil, err
		}
		f, convErr := strconv.ParseFloat(n.text, 64)
		if convErr != nil {
			return nil, p.syntaxError("a numeric literal")
		}
		return &domain.LiteralExpr{Value: domain.NumberValue(-f)}, nil
	case tokString:
		p.advance()
		return &domain.LiteralExpr{Value: domain.StringValue(t.text)}, nil
	case tokTrue:
		p.advance()
		return &domain.LiteralExpr{Value: domain.BoolValue(true)}, nil
	case tokFalse:
		p.advance()
		return &domain.LiteralExpr{Value: domain.BoolValue(false)}, nil
	case tokIdent:
		p.advance()
		ref := &domain.RefExpr{Define: t.text, Line: t.line, Column: t.column}
		if p.at(tokDot) {
			p.advance()
			member := p.cur()
			// Member names may collide with keywords ("value" does not,
			// but be permissive about any identifier-shaped token).
			if member.kind != tokIdent && member.text == "" {
				return nil, p.syntaxError("a member name after '.'")
			}
			p.advance()
			ref.Member = member.text
		}
		return ref, nil
	default:
		return nil, p.syntaxError("an expression operand")
	}
}
