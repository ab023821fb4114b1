package encode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signadot/ograph/ir"

	json "github.com/goccy/go-json"
)

// ErrSyntax is returned for text that is not a valid rendering of a tree.
var ErrSyntax = errors.New("syntax error")

var kindByName = func() map[string]ir.Kind {
	res := map[string]ir.Kind{}
	for _, k := range ir.Kinds() {
		res[strings.ToLower(k.String())] = k
	}
	return res
}()

// Parse reads one value in the text form. Plain JSON is accepted too.
func Parse(d []byte) (*ir.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	n, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
		}
		return nil, fmt.Errorf("%w: trailing %v", ErrSyntax, tok)
	}
	return n, nil
}

func next(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	return tok, nil
}

func parseValue(dec *json.Decoder) (*ir.Node, error) {
	tok, err := next(dec)
	if err != nil {
		return nil, err
	}
	return parseToken(dec, tok)
}

func parseToken(dec *json.Decoder, tok json.Token) (*ir.Node, error) {
	switch v := tok.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(v), nil
	case string:
		return ir.FromString(v), nil
	case json.Number:
		return plainNumber(string(v))
	case float64:
		return ir.FromF64(v), nil
	case json.Delim:
		switch v {
		case '[':
			return parseList(dec)
		case '{':
			return parseObject(dec, true)
		}
	}
	return nil, fmt.Errorf("%w: unexpected %v", ErrSyntax, tok)
}

// plainNumber maps an untagged JSON number to I64, U64 or F64.
func plainNumber(s string) (*ir.Node, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ir.FromI64(i), nil
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return ir.FromU64(u), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: number %s: %w", ErrSyntax, s, err)
	}
	return ir.FromF64(f), nil
}

func isDelim(tok json.Token, want json.Delim) bool {
	d, ok := tok.(json.Delim)
	return ok && d == want
}

func parseList(dec *json.Decoder) (*ir.Node, error) {
	res := ir.NewList()
	for {
		tok, err := next(dec)
		if err != nil {
			return nil, err
		}
		if isDelim(tok, ']') {
			return res, nil
		}
		child, err := parseToken(dec, tok)
		if err != nil {
			return nil, err
		}
		if err := res.ListAdd(child); err != nil {
			return nil, err
		}
	}
}

func closing(dec *json.Decoder, want json.Delim) error {
	tok, err := next(dec)
	if err != nil {
		return err
	}
	if !isDelim(tok, want) {
		return fmt.Errorf("%w: expected %v, got %v", ErrSyntax, want, tok)
	}
	return nil
}

// parseObject reads the entries of an object whose '{' was consumed. When
// tags is set an object opening with an "@" key is read as a tagged value.
func parseObject(dec *json.Decoder, tags bool) (*ir.Node, error) {
	res := ir.NewCompound()
	for first := true; ; first = false {
		tok, err := next(dec)
		if err != nil {
			return nil, err
		}
		if isDelim(tok, '}') {
			return res, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key %v", ErrSyntax, tok)
		}
		if tags && first && strings.HasPrefix(key, "@") {
			return parseTagged(dec, key)
		}
		child, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		if err := res.Add(key, child); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
		}
	}
}

// parseTagged reads the rest of a single-key {"@kind": payload} object.
func parseTagged(dec *json.Decoder, tag string) (*ir.Node, error) {
	var (
		res *ir.Node
		err error
	)
	if tag == compoundTag {
		var tok json.Token
		if tok, err = next(dec); err != nil {
			return nil, err
		}
		if !isDelim(tok, '{') {
			return nil, fmt.Errorf("%w: %s holds %v", ErrSyntax, compoundTag, tok)
		}
		res, err = parseObject(dec, false)
	} else {
		kind, ok := kindByName[tag[1:]]
		if !ok || !kind.IsLeaf() {
			return nil, fmt.Errorf("%w: unknown tag %q", ErrSyntax, tag)
		}
		var tok json.Token
		if tok, err = next(dec); err != nil {
			return nil, err
		}
		var text string
		switch v := tok.(type) {
		case json.Number:
			text = string(v)
		case string:
			text = v
		default:
			return nil, fmt.Errorf("%w: %s payload %v", ErrSyntax, tag, tok)
		}
		res, err = ScalarFromText(kind, text)
	}
	if err != nil {
		return nil, err
	}
	if err := closing(dec, '}'); err != nil {
		return nil, err
	}
	return res, nil
}

// ScalarFromText builds a leaf node of kind k from its text payload, as
// written by Encode and EncodeYAML.
func ScalarFromText(k ir.Kind, s string) (*ir.Node, error) {
	n := &ir.Node{Kind: k}
	var err error
	switch k {
	case ir.NullKind:
	case ir.BoolKind:
		n.Bool, err = strconv.ParseBool(s)
	case ir.StringKind:
		n.String = s
	case ir.I8Kind:
		n.Int, err = strconv.ParseInt(s, 10, 8)
	case ir.I16Kind:
		n.Int, err = strconv.ParseInt(s, 10, 16)
	case ir.I32Kind:
		n.Int, err = strconv.ParseInt(s, 10, 32)
	case ir.I64Kind:
		n.Int, err = strconv.ParseInt(s, 10, 64)
	case ir.U8Kind:
		n.Uint, err = strconv.ParseUint(s, 10, 8)
	case ir.U16Kind:
		n.Uint, err = strconv.ParseUint(s, 10, 16)
	case ir.U32Kind:
		n.Uint, err = strconv.ParseUint(s, 10, 32)
	case ir.U64Kind:
		n.Uint, err = strconv.ParseUint(s, 10, 64)
	case ir.F32Kind:
		n.Float, err = strconv.ParseFloat(s, 32)
	case ir.F64Kind:
		n.Float, err = strconv.ParseFloat(s, 64)
	case ir.DecimalKind:
		n.Decimal, err = ir.ParseDecimal(s)
	case ir.ByteArrayKind:
		n.Bytes, err = base64.StdEncoding.DecodeString(s)
	default:
		err = fmt.Errorf("%s is not a leaf kind", k)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q: %w", ErrSyntax, k, s, err)
	}
	return n, nil
}
