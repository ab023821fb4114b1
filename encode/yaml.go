package encode

import (
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/ograph/ir"

	"gopkg.in/yaml.v3"
)

// EncodeYAML writes node as a YAML document. Kinds without a core YAML tag
// carry a local tag such as !u8.
func EncodeYAML(node *ir.Node, w io.Writer) error {
	y, err := toYAML(node)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(y); err != nil {
		return err
	}
	return enc.Close()
}

func localTag(k ir.Kind) string {
	return "!" + strings.ToLower(k.String())
}

func yamlFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

func scalar(tag, v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v}
}

func toYAML(node *ir.Node) (*yaml.Node, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: nil node", ir.ErrStructure)
	}
	switch node.Kind {
	case ir.NullKind:
		return scalar("!!null", "null"), nil
	case ir.BoolKind:
		return scalar("!!bool", strconv.FormatBool(node.Bool)), nil
	case ir.StringKind:
		return scalar("!!str", node.String), nil
	case ir.I64Kind:
		return scalar("!!int", strconv.FormatInt(node.Int, 10)), nil
	case ir.I8Kind, ir.I16Kind, ir.I32Kind:
		return scalar(localTag(node.Kind), strconv.FormatInt(node.Int, 10)), nil
	case ir.U8Kind, ir.U16Kind, ir.U32Kind, ir.U64Kind:
		return scalar(localTag(node.Kind), strconv.FormatUint(node.Uint, 10)), nil
	case ir.F64Kind:
		return scalar("!!float", yamlFloat(node.Float, 64)), nil
	case ir.F32Kind:
		return scalar(localTag(node.Kind), yamlFloat(node.Float, 32)), nil
	case ir.DecimalKind:
		return scalar(localTag(node.Kind), node.Decimal.String()), nil
	case ir.ByteArrayKind:
		return scalar("!!binary", base64.StdEncoding.EncodeToString(node.Bytes)), nil
	case ir.ListKind:
		res := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, v := range node.Values {
			c, err := toYAML(v)
			if err != nil {
				return nil, err
			}
			res.Content = append(res.Content, c)
		}
		return res, nil
	case ir.CompoundKind:
		res := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i, f := range node.Fields {
			c, err := toYAML(node.Values[i])
			if err != nil {
				return nil, err
			}
			res.Content = append(res.Content, scalar("!!str", f), c)
		}
		return res, nil
	}
	return nil, fmt.Errorf("%w: invalid kind %d at %s", ir.ErrStructure, uint8(node.Kind), node.Path())
}

// ParseYAML reads a YAML document written by EncodeYAML. Untagged YAML is
// accepted: integers become I64 (U64 when too large) and floats F64.
func ParseYAML(d []byte) (*ir.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(d, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	return fromYAML(&doc)
}

func fromYAML(y *yaml.Node) (*ir.Node, error) {
	switch y.Kind {
	case 0:
		return ir.Null(), nil
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return ir.Null(), nil
		}
		return fromYAML(y.Content[0])
	case yaml.AliasNode:
		return fromYAML(y.Alias)
	case yaml.SequenceNode:
		res := ir.NewList()
		for _, c := range y.Content {
			v, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			if err := res.ListAdd(v); err != nil {
				return nil, err
			}
		}
		return res, nil
	case yaml.MappingNode:
		res := ir.NewCompound()
		for i := 0; i+1 < len(y.Content); i += 2 {
			v, err := fromYAML(y.Content[i+1])
			if err != nil {
				return nil, err
			}
			if err := res.Add(y.Content[i].Value, v); err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrSyntax, y.Content[i].Line, err)
			}
		}
		return res, nil
	case yaml.ScalarNode:
		return yamlScalar(y)
	}
	return nil, fmt.Errorf("%w: unexpected yaml node kind %d", ErrSyntax, y.Kind)
}

func yamlScalar(y *yaml.Node) (*ir.Node, error) {
	switch tag := y.ShortTag(); tag {
	case "!!null":
		return ir.Null(), nil
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
		}
		return ir.FromBool(b), nil
	case "!!str":
		return ir.FromString(y.Value), nil
	case "!!int":
		return yamlInt(y.Value)
	case "!!float":
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
		}
		return ir.FromF64(f), nil
	case "!!binary":
		return ScalarFromText(ir.ByteArrayKind, strings.Join(strings.Fields(y.Value), ""))
	default:
		kind, ok := kindByName[strings.TrimPrefix(tag, "!")]
		if !strings.HasPrefix(tag, "!") || strings.HasPrefix(tag, "!!") || !ok || !kind.IsLeaf() {
			return nil, fmt.Errorf("%w: line %d: unknown tag %s", ErrSyntax, y.Line, tag)
		}
		if kind.IsFloat() {
			return yamlTaggedFloat(kind, y)
		}
		return ScalarFromText(kind, y.Value)
	}
}

func yamlInt(s string) (*ir.Node, error) {
	clean := strings.ReplaceAll(s, "_", "")
	if i, err := strconv.ParseInt(clean, 0, 64); err == nil {
		return ir.FromI64(i), nil
	}
	u, err := strconv.ParseUint(clean, 0, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: int %q: %w", ErrSyntax, s, err)
	}
	return ir.FromU64(u), nil
}

func yamlTaggedFloat(k ir.Kind, y *yaml.Node) (*ir.Node, error) {
	var f float64
	switch strings.ToLower(y.Value) {
	case ".nan":
		f = math.NaN()
	case ".inf", "+.inf":
		f = math.Inf(1)
	case "-.inf":
		f = math.Inf(-1)
	default:
		return ScalarFromText(k, y.Value)
	}
	return &ir.Node{Kind: k, Float: f}, nil
}
