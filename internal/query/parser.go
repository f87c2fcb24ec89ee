package query

import (
	"fmt"
	"strings"
)

// allowedOps is the field -> allowed-operator-set compatibility table from
// the grammar (IN is handled separately in parseComparison).
var allowedOps = map[Field]map[Op]bool{
	FieldTag:      {OpEq: true, OpNeq: true, OpGlob: true},
	FieldName:     {OpEq: true, OpNeq: true, OpGlob: true},
	FieldSize:     {OpEq: true, OpNeq: true, OpLt: true, OpLte: true, OpGt: true, OpGte: true},
	FieldModified: {OpEq: true, OpNeq: true, OpLt: true, OpLte: true, OpGt: true, OpGte: true},
	FieldType:     {OpEq: true, OpNeq: true},
}

var inAllowedFields = map[Field]bool{
	FieldTag:  true,
	FieldName: true,
	FieldType: true,
}

var knownFields = map[string]Field{
	"tag":      FieldTag,
	"name":     FieldName,
	"size":     FieldSize,
	"modified": FieldModified,
	"type":     FieldType,
}

// Parser parses a CQL query string into an AST.
type Parser struct {
	lexer   *Lexer
	current Token
	peeked  *Token
}

// NewParser returns a Parser over input.
func NewParser(input string) *Parser {
	return &Parser{lexer: NewLexer(input)}
}

// Parse parses the full query string.
func Parse(input string) (Node, error) {
	return NewParser(input).Parse()
}

// Parse parses the query string into the root AST node.
func (p *Parser) Parse() (Node, error) {
	if strings.TrimSpace(p.lexer.input) == "" {
		return nil, &ParseError{Pos: -1, Msg: "empty query"}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.current.Type == TokenEOF {
		return nil, &ParseError{Pos: -1, Msg: "empty query"}
	}

	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokenEOF {
		return nil, &ParseError{Pos: p.current.Pos, Msg: fmt.Sprintf("unexpected token %q (expected end of query)", p.current.Value)}
	}
	return node, nil
}

func (p *Parser) advance() error {
	if p.peeked != nil {
		p.current = *p.peeked
		p.peeked = nil
		return nil
	}
	tok, err := p.lexer.NextToken()
	if err != nil {
		return &ParseError{Pos: p.current.Pos, Msg: err.Error()}
	}
	p.current = tok
	return nil
}

func (p *Parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.current.Type == TokenOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.current.Type == TokenAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &And{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (Node, error) {
	if p.current.Type == TokenNot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Not{Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Node, error) {
	if p.current.Type == TokenLParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.current.Type != TokenRParen {
			return nil, &ParseError{Pos: p.current.Pos, Msg: fmt.Sprintf("expected ')', got %s", p.current.Type)}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return node, nil
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() (Node, error) {
	if p.current.Type != TokenIdent {
		return nil, &ParseError{Pos: p.current.Pos, Msg: fmt.Sprintf("expected field name, got %s", p.current.Type)}
	}
	fieldPos := p.current.Pos
	field, ok := knownFields[strings.ToLower(p.current.Value)]
	if !ok {
		return nil, &ParseError{Pos: fieldPos, Msg: fmt.Sprintf("unknown field %q", p.current.Value)}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.current.Type == TokenIn {
		if !inAllowedFields[field] {
			return nil, &ParseError{Pos: fieldPos, Msg: fmt.Sprintf("IN is not supported for field %q", field)}
		}
		return p.parseInExpr(field)
	}

	op, opPos, err := p.parseOp()
	if err != nil {
		return nil, err
	}
	if !allowedOps[field][op] {
		return nil, &ParseError{Pos: opPos, Msg: fmt.Sprintf("operator %q is not supported for field %q", op, field)}
	}

	value, err := p.parseValue(field)
	if err != nil {
		return nil, err
	}
	return &Comparison{Field: field, Op: op, Value: value}, nil
}

func (p *Parser) parseOp() (Op, int, error) {
	pos := p.current.Pos
	var op Op
	switch p.current.Type {
	case TokenEquals:
		op = OpEq
	case TokenNotEquals:
		op = OpNeq
	case TokenTilde:
		op = OpGlob
	case TokenLess:
		op = OpLt
	case TokenLessEq:
		op = OpLte
	case TokenGreater:
		op = OpGt
	case TokenGreaterEq:
		op = OpGte
	default:
		return 0, pos, &ParseError{Pos: pos, Msg: fmt.Sprintf("expected comparison operator, got %s", p.current.Type)}
	}
	if err := p.advance(); err != nil {
		return 0, pos, err
	}
	return op, pos, nil
}

// parseValue consumes one value token and type-coerces it per field.
func (p *Parser) parseValue(field Field) (Value, error) {
	tok := p.current
	if tok.Type != TokenIdent && tok.Type != TokenString && tok.Type != TokenNumber {
		return Value{}, &ParseError{Pos: tok.Pos, Msg: fmt.Sprintf("expected value, got %s", tok.Type)}
	}
	v, err := p.coerceValue(field, tok)
	if err != nil {
		return Value{}, err
	}
	if err := p.advance(); err != nil {
		return Value{}, err
	}
	return v, nil
}

func (p *Parser) coerceValue(field Field, tok Token) (Value, error) {
	switch field {
	case FieldSize:
		n, err := parseSize(tok.Value, tok.Pos)
		if err != nil {
			return Value{}, err
		}
		return intValue(n), nil
	case FieldModified:
		if tok.Type == TokenString {
			ts, err := parseDate(tok.Value, tok.Pos)
			if err != nil {
				return Value{}, err
			}
			return intValue(ts), nil
		}
		n, err := parseBareNumber(tok.Value, tok.Pos)
		if err != nil {
			return Value{}, err
		}
		return intValue(n), nil
	default: // tag, name, type
		return stringValue(tok.Value), nil
	}
}

func (p *Parser) parseInExpr(field Field) (Node, error) {
	if err := p.advance(); err != nil { // consume IN
		return nil, err
	}
	if p.current.Type != TokenLParen {
		return nil, &ParseError{Pos: p.current.Pos, Msg: fmt.Sprintf("expected '(' after IN, got %s", p.current.Type)}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var values []Value
	for {
		v, err := p.parseValue(field)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if p.current.Type == TokenComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	if p.current.Type != TokenRParen {
		return nil, &ParseError{Pos: p.current.Pos, Msg: fmt.Sprintf("expected ')', got %s", p.current.Type)}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &InExpr{Field: field, Values: values}, nil
}
