// Package parser implements a hand-written recursive-descent JSON
// parser over a single in-memory input buffer. The leading byte of a
// value deterministically selects the production ('{', '[', '"',
// digit or '-', 't', 'f', 'n'); nothing is parsed speculatively.
//
// Strings are the interesting case: an escape-free string is returned
// as a zero-copy sub-slice of the input buffer, while a string
// containing escapes is decoded into a reusable scratch buffer and
// copied into the permanent arena. Numbers keep their verbatim source
// text; they are never converted to a binary type.
package parser

import (
	"fmt"

	"jsontab/internal/arena"
	"jsontab/internal/errors"
	"jsontab/internal/models"
)

// Parser holds the cursor state for one document. There is no other
// mutable state: the grammar is pure recursive descent.
type Parser struct {
	input   []byte
	pos     int
	perm    *arena.Arena
	scratch []byte
}

// New creates a parser over input. Decoded strings are copied into
// perm, which must outlive the returned value tree.
func New(input []byte, perm *arena.Arena) *Parser {
	return &Parser{
		input:   input,
		perm:    perm,
		scratch: make([]byte, 0, 256),
	}
}

// ParseRecords parses a whole document and dispatches it into the
// ordered record list in one step.
func ParseRecords(input []byte, perm *arena.Arena) ([]*models.Value, error) {
	root, err := New(input, perm).Parse()
	if err != nil {
		return nil, err
	}
	return Records(root)
}

// Parse consumes exactly one JSON value plus surrounding whitespace.
// Any non-whitespace bytes after the root value are a syntax error.
func (p *Parser) Parse() (*models.Value, error) {
	p.skipWS()
	root, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if p.pos < len(p.input) {
		return nil, p.syntaxErr("unexpected trailing data")
	}
	return root, nil
}

// Records validates the document root and produces the ordered list of
// record objects: a root object is a single record, a root array
// contributes one record per element and every element must be an
// object. Any other root shape is a fatal schema error.
func Records(root *models.Value) ([]*models.Value, error) {
	switch root.Kind {
	case models.Object:
		return []*models.Value{root}, nil
	case models.Array:
		records := make([]*models.Value, 0, len(root.Items))
		for _, item := range root.Items {
			if item.Kind != models.Object {
				return nil, errors.NewSchemaError("top array must contain objects", nil)
			}
			records = append(records, item)
		}
		return records, nil
	default:
		return nil, errors.NewSchemaError("top-level JSON must be object or array of objects", nil)
	}
}

const eof = -1

func (p *Parser) peek() int {
	if p.pos >= len(p.input) {
		return eof
	}
	return int(p.input[p.pos])
}

func (p *Parser) next() {
	if p.pos < len(p.input) {
		p.pos++
	}
}

func (p *Parser) skipWS() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *Parser) expect(ch byte) error {
	if p.peek() != int(ch) {
		return p.syntaxErr("unexpected character")
	}
	p.next()
	return nil
}

func (p *Parser) syntaxErr(msg string) error {
	return errors.NewSyntaxError(fmt.Sprintf("%s at offset %d", msg, p.pos), nil)
}

func isDigit(c int) bool {
	return c >= '0' && c <= '9'
}

func hexVal(c int) int {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return 10 + (c - 'a')
	case c >= 'A' && c <= 'F':
		return 10 + (c - 'A')
	default:
		return -1
	}
}

func (p *Parser) parseValue() (*models.Value, error) {
	p.skipWS()
	c := p.peek()

	switch {
	case c == eof:
		return nil, p.syntaxErr("unexpected end of input")
	case c == '"':
		text, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return &models.Value{Kind: models.String, Text: text}, nil
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == 't':
		if !p.matchKeyword("true") {
			return nil, p.syntaxErr("bad token")
		}
		return &models.Value{Kind: models.Bool, Boolean: true}, nil
	case c == 'f':
		if !p.matchKeyword("false") {
			return nil, p.syntaxErr("bad token")
		}
		return &models.Value{Kind: models.Bool, Boolean: false}, nil
	case c == 'n':
		if !p.matchKeyword("null") {
			return nil, p.syntaxErr("bad token")
		}
		return &models.Value{Kind: models.Null}, nil
	case c == '-' || isDigit(c):
		text, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		return &models.Value{Kind: models.Number, Text: text}, nil
	default:
		return nil, p.syntaxErr("unknown value")
	}
}

// parseString returns the string payload without quotes. The fast path
// scans for the closing quote; if no backslash was seen the result is
// a zero-copy slice into the input buffer. Otherwise parsing restarts
// from the opening quote and decodes into the scratch buffer, and the
// decoded bytes are copied into the permanent arena.
func (p *Parser) parseString() ([]byte, error) {
	if err := p.expect('"'); err != nil {
		return nil, err
	}

	start := p.pos
	hasEscape := false
	for p.pos < len(p.input) && p.input[p.pos] != '"' {
		if p.input[p.pos] == '\\' {
			hasEscape = true
			break
		}
		p.pos++
	}

	if !hasEscape && p.pos < len(p.input) && p.input[p.pos] == '"' {
		result := p.input[start:p.pos]
		p.next()
		return result, nil
	}

	// Slow path: decode escapes into the scratch buffer.
	p.scratch = p.scratch[:0]
	p.pos = start

	for p.peek() != eof && p.peek() != '"' {
		c := p.peek()
		if c != '\\' {
			p.scratch = append(p.scratch, byte(c))
			p.next()
			continue
		}

		p.next()
		switch p.peek() {
		case eof:
			return nil, p.syntaxErr("bad escape")
		case '"':
			p.scratch = append(p.scratch, '"')
		case '\\':
			p.scratch = append(p.scratch, '\\')
		case '/':
			p.scratch = append(p.scratch, '/')
		case 'b':
			p.scratch = append(p.scratch, '\b')
		case 'f':
			p.scratch = append(p.scratch, '\f')
		case 'n':
			p.scratch = append(p.scratch, '\n')
		case 'r':
			p.scratch = append(p.scratch, '\r')
		case 't':
			p.scratch = append(p.scratch, '\t')
		case 'u':
			v := 0
			for i := 0; i < 4; i++ {
				p.next()
				hv := hexVal(p.peek())
				if hv < 0 {
					return nil, p.syntaxErr("bad \\u escape")
				}
				v = v<<4 | hv
			}
			// Only ASCII code points are preserved; anything higher
			// (including surrogate pairs) becomes a '?' placeholder.
			// This is a documented lossy simplification.
			if v <= 0x7F {
				p.scratch = append(p.scratch, byte(v))
			} else {
				p.scratch = append(p.scratch, '?')
			}
		default:
			return nil, p.syntaxErr("unknown escape")
		}
		p.next()
	}
	if err := p.expect('"'); err != nil {
		return nil, err
	}

	return p.perm.Copy(p.scratch), nil
}

// parseNumber matches the standard JSON number grammar and returns the
// matched byte range verbatim.
func (p *Parser) parseNumber() ([]byte, error) {
	start := p.pos

	if p.peek() == '-' {
		p.next()
	}
	if !isDigit(p.peek()) {
		return nil, p.syntaxErr("bad number")
	}
	if p.peek() == '0' {
		p.next()
	} else {
		for isDigit(p.peek()) {
			p.next()
		}
	}

	if p.peek() == '.' {
		p.next()
		if !isDigit(p.peek()) {
			return nil, p.syntaxErr("bad number fraction")
		}
		for isDigit(p.peek()) {
			p.next()
		}
	}

	if c := p.peek(); c == 'e' || c == 'E' {
		p.next()
		if c := p.peek(); c == '+' || c == '-' {
			p.next()
		}
		if !isDigit(p.peek()) {
			return nil, p.syntaxErr("bad number exponent")
		}
		for isDigit(p.peek()) {
			p.next()
		}
	}

	return p.input[start:p.pos], nil
}

func (p *Parser) matchKeyword(kw string) bool {
	if p.pos+len(kw) > len(p.input) {
		return false
	}
	if string(p.input[p.pos:p.pos+len(kw)]) != kw {
		return false
	}
	p.pos += len(kw)
	return true
}

func (p *Parser) parseArray() (*models.Value, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	p.skipWS()

	arr := &models.Value{Kind: models.Array}
	if p.peek() == ']' {
		p.next()
		return arr, nil
	}

	for {
		p.skipWS()
		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, item)
		p.skipWS()

		if p.peek() == ',' {
			p.next()
			continue
		}
		if p.peek() == ']' {
			p.next()
			return arr, nil
		}
		return nil, p.syntaxErr("bad array syntax")
	}
}

func (p *Parser) parseObject() (*models.Value, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	p.skipWS()

	obj := &models.Value{Kind: models.Object}
	if p.peek() == '}' {
		p.next()
		return obj, nil
	}

	for {
		p.skipWS()
		if p.peek() != '"' {
			return nil, p.syntaxErr("object key must be string")
		}
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		p.skipWS()
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		p.skipWS()

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Members = append(obj.Members, models.Member{Key: key, Value: value})
		p.skipWS()

		if p.peek() == ',' {
			p.next()
			continue
		}
		if p.peek() == '}' {
			p.next()
			return obj, nil
		}
		return nil, p.syntaxErr("bad object syntax")
	}
}
