package solabi

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseType parses a type string such as uint256, bytes32[], (address,uint)[2]
// or tuple(string,bool). uint and int alias uint256 and int256; byte
// aliases bytes1.
func ParseType(s string) (Type, error) {
	p := &sigParser{src: s}
	p.skipSpace()
	t, err := p.parseType()
	if err != nil {
		return Type{}, err
	}
	p.skipSpace()
	if !p.done() {
		return Type{}, p.errorf(ErrInvalidType, "unexpected %q", p.rest())
	}
	return t, nil
}

// MustParseType is like ParseType but panics on error.
func MustParseType(s string) Type {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseFunction parses a human-readable function declaration:
//
//	function balanceOf(address owner) view returns (uint256)
//
// The function keyword, parameter names, data locations and the returns
// clause are optional. view and pure mark the function constant; payable
// marks it payable.
func ParseFunction(sig string) (Function, error) {
	p := &sigParser{src: sig}
	p.keyword("function")
	name, inputs, err := p.parseHeader(false)
	if err != nil {
		return Function{}, err
	}
	var (
		opts    []FunctionOption
		outputs []Parameter
	)
	for {
		p.skipSpace()
		word := p.peekWord()
		switch word {
		case "view", "pure", "constant":
			opts = append(opts, WithConstant())
		case "payable":
			opts = append(opts, WithPayable())
		case "nonpayable", "external", "public":
		case "returns":
			p.pos += len(word)
			p.skipSpace()
			if outputs, err = p.parseParams(false); err != nil {
				return Function{}, err
			}
			continue
		case "":
			if !p.done() {
				return Function{}, p.errorf(ErrInvalidSignature, "unexpected %q", p.rest())
			}
			return NewFunction(name, inputs, outputs, opts...), nil
		default:
			return Function{}, p.errorf(ErrInvalidSignature, "unexpected modifier %q", word)
		}
		p.pos += len(word)
	}
}

// MustParseFunction is like ParseFunction but panics on error.
func MustParseFunction(sig string) Function {
	f, err := ParseFunction(sig)
	if err != nil {
		panic(err)
	}
	return f
}

// ParseEvent parses a human-readable event declaration:
//
//	event Transfer(address indexed from, address indexed to, uint256 value)
//
// A trailing anonymous marks the event anonymous.
func ParseEvent(sig string) (Event, error) {
	p := &sigParser{src: sig}
	p.keyword("event")
	name, inputs, err := p.parseHeader(true)
	if err != nil {
		return Event{}, err
	}
	anonymous := p.keyword("anonymous")
	p.skipSpace()
	if !p.done() {
		return Event{}, p.errorf(ErrInvalidSignature, "unexpected %q", p.rest())
	}
	return NewEvent(name, inputs, anonymous), nil
}

// ParseError parses a human-readable custom error declaration such as
// error Unauthorized(string message_arg).
func ParseError(sig string) (Error, error) {
	p := &sigParser{src: sig}
	p.keyword("error")
	name, inputs, err := p.parseHeader(false)
	if err != nil {
		return Error{}, err
	}
	p.skipSpace()
	if !p.done() {
		return Error{}, p.errorf(ErrInvalidSignature, "unexpected %q", p.rest())
	}
	return NewError(name, inputs), nil
}

// MustParseError is like ParseError but panics on error.
func MustParseError(sig string) Error {
	e, err := ParseError(sig)
	if err != nil {
		panic(err)
	}
	return e
}

type sigParser struct {
	src string
	pos int
}

func (p *sigParser) done() bool   { return p.pos >= len(p.src) }
func (p *sigParser) rest() string { return p.src[p.pos:] }

func (p *sigParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *sigParser) skipSpace() {
	for !p.done() && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *sigParser) errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s at %d in %q", sentinel, fmt.Sprintf(format, args...), p.pos, p.src)
}

// peekWord returns the identifier at the cursor without consuming it.
func (p *sigParser) peekWord() string {
	end := p.pos
	for end < len(p.src) && isIdentChar(p.src[end]) {
		end++
	}
	return p.src[p.pos:end]
}

// keyword consumes word if it is the next identifier.
func (p *sigParser) keyword(word string) bool {
	p.skipSpace()
	if p.peekWord() != word {
		return false
	}
	p.pos += len(word)
	return true
}

func (p *sigParser) parseHeader(allowIndexed bool) (string, []Parameter, error) {
	p.skipSpace()
	name := p.peekWord()
	if name == "" || !isIdentStart(name[0]) {
		return "", nil, p.errorf(ErrInvalidSignature, "expected name")
	}
	p.pos += len(name)
	p.skipSpace()
	params, err := p.parseParams(allowIndexed)
	if err != nil {
		return "", nil, err
	}
	return name, params, nil
}

// parseParams parses a parenthesised, comma separated parameter list.
func (p *sigParser) parseParams(allowIndexed bool) ([]Parameter, error) {
	if p.peek() != '(' {
		return nil, p.errorf(ErrInvalidSignature, "expected '('")
	}
	p.pos++
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		return nil, nil
	}
	var params []Parameter
	for {
		param, err := p.parseParam(allowIndexed)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return params, nil
		default:
			return nil, p.errorf(ErrInvalidSignature, "expected ',' or ')'")
		}
	}
}

func (p *sigParser) parseParam(allowIndexed bool) (Parameter, error) {
	p.skipSpace()
	t, err := p.parseType()
	if err != nil {
		return Parameter{}, err
	}
	param := Parameter{Type: t}
	for {
		p.skipSpace()
		word := p.peekWord()
		switch word {
		case "":
			return param, nil
		case "indexed":
			if !allowIndexed {
				return Parameter{}, p.errorf(ErrInvalidSignature, "indexed outside an event")
			}
			param.Indexed = true
		case "memory", "calldata", "storage":
		default:
			if param.Name != "" {
				return Parameter{}, p.errorf(ErrInvalidSignature, "unexpected %q after parameter name", word)
			}
			param.Name = word
		}
		p.pos += len(word)
	}
}

func (p *sigParser) parseType() (Type, error) {
	var (
		t   Type
		err error
	)
	if p.keyword("tuple") {
		p.skipSpace()
	}
	if p.peek() == '(' {
		p.pos++
		t, err = p.parseComponents()
	} else {
		t, err = p.parseElementary()
	}
	if err != nil {
		return Type{}, err
	}

	for p.peek() == '[' {
		p.pos++
		start := p.pos
		for !p.done() && isDigit(p.src[p.pos]) {
			p.pos++
		}
		digits := p.src[start:p.pos]
		if p.peek() != ']' {
			return Type{}, p.errorf(ErrInvalidType, "expected ']'")
		}
		p.pos++
		if digits == "" {
			t = SliceType(t)
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil || n == 0 {
			return Type{}, p.errorf(ErrInvalidType, "invalid array length %q", digits)
		}
		t = ArrayType(t, n)
	}
	if err := t.validate(); err != nil {
		return Type{}, fmt.Errorf("%w at %d in %q", err, p.pos, p.src)
	}
	return t, nil
}

// parseComponents parses tuple members after the opening parenthesis.
// Members may carry names, which become component names.
func (p *sigParser) parseComponents() (Type, error) {
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		return TupleType(), nil
	}
	var components []Component
	for {
		param, err := p.parseParam(false)
		if err != nil {
			return Type{}, err
		}
		components = append(components, Component{Name: param.Name, Type: param.Type})
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return TupleType(components...), nil
		default:
			return Type{}, p.errorf(ErrInvalidType, "expected ',' or ')' in tuple")
		}
	}
}

func (p *sigParser) parseElementary() (Type, error) {
	word := p.peekWord()
	if word == "" {
		return Type{}, p.errorf(ErrInvalidType, "expected type")
	}
	t, ok := elementaryType(word)
	if !ok {
		return Type{}, p.errorf(ErrInvalidType, "unknown type %q", word)
	}
	p.pos += len(word)
	return t, nil
}

func elementaryType(word string) (Type, bool) {
	switch word {
	case "address":
		return AddressType, true
	case "bool":
		return BoolType, true
	case "string":
		return StringType, true
	case "bytes":
		return BytesType, true
	case "byte":
		return FixedBytesType(1), true
	case "function":
		return FunctionType, true
	case "uint":
		return Uint256, true
	case "int":
		return Int256, true
	}
	for _, prefix := range []string{"uint", "int", "bytes"} {
		digits, ok := strings.CutPrefix(word, prefix)
		if !ok || digits == "" || digits[0] == '0' {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return Type{}, false
		}
		switch prefix {
		case "uint":
			if validIntWidth(n) {
				return UintType(n), true
			}
		case "int":
			if validIntWidth(n) {
				return IntType(n), true
			}
		case "bytes":
			if n >= 1 && n <= 32 {
				return FixedBytesType(n), true
			}
		}
		return Type{}, false
	}
	return Type{}, false
}

func isSpace(c byte) bool      { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || c == '$' || (c|0x20 >= 'a' && c|0x20 <= 'z') }
func isIdentChar(c byte) bool  { return isIdentStart(c) || isDigit(c) }
