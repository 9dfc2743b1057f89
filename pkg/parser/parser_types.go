package parser

import (
	"github.com/leapstack-labs/squill/pkg/ast"
	"github.com/leapstack-labs/squill/pkg/token"
)

// Data type parsing. The three array spellings are preserved
// distinctly: ARRAY<T>, T[] / T ARRAY[n], and ARRAY(T).

func (p *Parser) parseDataType() (ast.DataType, error) {
	base, err := p.parseBaseDataType()
	if err != nil {
		return nil, err
	}

	// Postfix array spellings.
	for {
		switch {
		case p.Check(token.LBRACKET):
			p.NextToken()
			arr := &ast.ArrayType{Elem: base, Brackets: ast.SquareBracket}
			if !p.Check(token.RBRACKET) {
				size, err := p.parseExpr(0)
				if err != nil {
					return nil, err
				}
				arr.Size = size
			}
			if err := p.Expect(token.RBRACKET); err != nil {
				return nil, err
			}
			base = arr

		case p.Check(token.ARRAY) && p.Peek().Type == token.LBRACKET:
			p.NextToken()
			p.NextToken()
			arr := &ast.ArrayType{Elem: base, Brackets: ast.SquareBracket}
			if !p.Check(token.RBRACKET) {
				size, err := p.parseExpr(0)
				if err != nil {
					return nil, err
				}
				arr.Size = size
			}
			if err := p.Expect(token.RBRACKET); err != nil {
				return nil, err
			}
			base = arr

		default:
			return base, nil
		}
	}
}

//nolint:gocyclo // one arm per type family
func (p *Parser) parseBaseDataType() (ast.DataType, error) {
	tok := p.Token()
	switch tok.Type {
	case token.BOOLEAN:
		p.NextToken()
		return &ast.SimpleType{Name: "BOOLEAN"}, nil

	case token.TINYINT, token.SMALLINT, token.INT, token.INTEGER, token.BIGINT:
		name := tok.Type.String()
		p.NextToken()
		intType := &ast.IntType{Name: name}
		if p.Match(token.LPAREN) {
			width, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			intType.Width = width
			if err := p.Expect(token.RPAREN); err != nil {
				return nil, err
			}
		}
		if p.Match(token.UNSIGNED) {
			intType.Unsigned = true
		}
		return intType, nil

	case token.REAL:
		p.NextToken()
		return &ast.SimpleType{Name: "REAL"}, nil

	case token.FLOAT:
		p.NextToken()
		floatType := &ast.FloatType{}
		if p.Match(token.LPAREN) {
			precision, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			floatType.Precision = precision
			if err := p.Expect(token.RPAREN); err != nil {
				return nil, err
			}
		}
		return floatType, nil

	case token.DOUBLE:
		p.NextToken()
		if p.Match(token.PRECISION) {
			return &ast.SimpleType{Name: "DOUBLE PRECISION"}, nil
		}
		return &ast.SimpleType{Name: "DOUBLE"}, nil

	case token.DECIMAL, token.NUMERIC:
		name := tok.Type.String()
		p.NextToken()
		dec := &ast.DecimalType{Name: name}
		if p.Match(token.LPAREN) {
			precision, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			dec.Precision = precision
			if p.Match(token.COMMA) {
				scale, err := p.parseExpr(0)
				if err != nil {
					return nil, err
				}
				dec.Scale = scale
			}
			if err := p.Expect(token.RPAREN); err != nil {
				return nil, err
			}
		}
		return dec, nil

	case token.CHAR, token.CHARACTER, token.VARCHAR, token.BINARY, token.VARBINARY:
		name := tok.Type.String()
		p.NextToken()
		if (tok.Type == token.CHAR || tok.Type == token.CHARACTER) && p.Match(token.VARYING) {
			name += " VARYING"
		}
		charType := &ast.CharType{Name: name}
		if p.Match(token.LPAREN) {
			length, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			charType.Length = length
			if err := p.Expect(token.RPAREN); err != nil {
				return nil, err
			}
		}
		return charType, nil

	case token.TEXT:
		p.NextToken()
		return &ast.SimpleType{Name: "TEXT"}, nil

	case token.BLOB:
		p.NextToken()
		return &ast.SimpleType{Name: "BLOB"}, nil

	case token.DATE:
		p.NextToken()
		return &ast.SimpleType{Name: "DATE"}, nil

	case token.TIME, token.TIMESTAMP:
		name := tok.Type.String()
		p.NextToken()
		timeType := &ast.TimeType{Name: name}
		if p.Check(token.WITH) && p.Peek().Type == token.TIME {
			p.NextToken()
			p.NextToken()
			if err := p.Expect(token.ZONE); err != nil {
				return nil, err
			}
			timeType.WithTimeZone = true
		} else if p.Check(token.IDENT) && equalsUpper(p.Token().Literal, "WITHOUT") {
			p.NextToken()
			if err := p.Expect(token.TIME); err != nil {
				return nil, err
			}
			if err := p.Expect(token.ZONE); err != nil {
				return nil, err
			}
		}
		return timeType, nil

	case token.INTERVAL:
		p.NextToken()
		return &ast.SimpleType{Name: "INTERVAL"}, nil

	case token.JSON:
		p.NextToken()
		return &ast.SimpleType{Name: "JSON"}, nil

	case token.UUID:
		p.NextToken()
		return &ast.SimpleType{Name: "UUID"}, nil

	case token.ARRAY:
		p.NextToken()
		switch {
		case p.Match(token.LT):
			elem, err := p.parseDataType()
			if err != nil {
				return nil, err
			}
			if err := p.Expect(token.GT); err != nil {
				return nil, err
			}
			return &ast.ArrayType{Elem: elem, Brackets: ast.AngleBracket}, nil
		case p.Match(token.LPAREN):
			elem, err := p.parseDataType()
			if err != nil {
				return nil, err
			}
			if err := p.Expect(token.RPAREN); err != nil {
				return nil, err
			}
			return &ast.ArrayType{Elem: elem, Brackets: ast.ParenBracket}, nil
		default:
			return nil, p.Errorf("expected < or ( after ARRAY")
		}

	case token.IDENT:
		name, err := p.parseObjectName()
		if err != nil {
			return nil, err
		}
		custom := &ast.CustomType{Name: name}
		if p.Match(token.LPAREN) {
			for {
				mod := p.Token()
				if mod.Type != token.NUMBER && mod.Type != token.IDENT && mod.Type != token.STRING {
					return nil, p.Errorf("expected type modifier, found %s", mod.Type)
				}
				p.NextToken()
				custom.Modifiers = append(custom.Modifiers, mod.Literal)
				if !p.Match(token.COMMA) {
					break
				}
			}
			if err := p.Expect(token.RPAREN); err != nil {
				return nil, err
			}
		}
		return custom, nil

	default:
		return nil, p.Errorf("expected a data type, found %s", tok.Type)
	}
}
