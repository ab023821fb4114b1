package encode

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/ograph/ir"

	json "github.com/goccy/go-json"
)

// compoundTag wraps compounds whose keys could be read as kind tags.
const compoundTag = "@compound"

// tagOf is the key naming kind k in the text form, for example "@u8".
func tagOf(k ir.Kind) string {
	return "@" + strings.ToLower(k.String())
}

type EncState struct {
	depth  int
	pretty bool

	Color func(ir.Kind, ColorAttr, string) string
}

// Encode writes node to w in the text form.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	bw := bufio.NewWriter(w)
	if err := es.encode(bw, node); err != nil {
		return err
	}
	if es.pretty {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// MarshalText returns the compact text form of node.
func MarshalText(node *ir.Node) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (es *EncState) color(k ir.Kind, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(k, a, s)
}

func (es *EncState) newline(w *bufio.Writer) {
	if !es.pretty {
		return
	}
	w.WriteByte('\n')
	for range es.depth {
		w.WriteString("  ")
	}
}

func (es *EncState) colon(w *bufio.Writer, k ir.Kind) {
	w.WriteString(es.color(k, SepColor, ":"))
	if es.pretty {
		w.WriteByte(' ')
	}
}

func quote(s string) (string, error) {
	d, err := json.MarshalNoEscape(s)
	if err != nil {
		return "", err
	}
	return string(d), nil
}

// floatText renders a float payload, quoting the values JSON numbers cannot
// hold.
func floatText(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return `"NaN"`
	case math.IsInf(f, 1):
		return `"+Inf"`
	case math.IsInf(f, -1):
		return `"-Inf"`
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

func (es *EncState) encode(w *bufio.Writer, node *ir.Node) error {
	if node == nil {
		return fmt.Errorf("%w: nil node", ir.ErrStructure)
	}
	switch node.Kind {
	case ir.NullKind:
		w.WriteString(es.color(node.Kind, ValueColor, "null"))
	case ir.BoolKind:
		w.WriteString(es.color(node.Kind, ValueColor, strconv.FormatBool(node.Bool)))
	case ir.StringKind:
		q, err := quote(node.String)
		if err != nil {
			return err
		}
		w.WriteString(es.color(node.Kind, ValueColor, q))
	case ir.I8Kind, ir.I16Kind, ir.I32Kind, ir.I64Kind:
		es.tagged(w, node.Kind, strconv.FormatInt(node.Int, 10))
	case ir.U8Kind, ir.U16Kind, ir.U32Kind, ir.U64Kind:
		es.tagged(w, node.Kind, strconv.FormatUint(node.Uint, 10))
	case ir.F32Kind:
		es.tagged(w, node.Kind, floatText(node.Float, 32))
	case ir.F64Kind:
		es.tagged(w, node.Kind, floatText(node.Float, 64))
	case ir.DecimalKind:
		es.tagged(w, node.Kind, `"`+node.Decimal.String()+`"`)
	case ir.ByteArrayKind:
		es.tagged(w, node.Kind, `"`+base64.StdEncoding.EncodeToString(node.Bytes)+`"`)
	case ir.ListKind:
		return es.list(w, node)
	case ir.CompoundKind:
		return es.compound(w, node)
	default:
		return fmt.Errorf("%w: invalid kind %d at %s", ir.ErrStructure, uint8(node.Kind), node.Path())
	}
	return nil
}

func (es *EncState) tagged(w *bufio.Writer, k ir.Kind, payload string) {
	w.WriteString(es.color(k, SepColor, "{"))
	w.WriteString(es.color(k, TagColor, `"`+tagOf(k)+`"`))
	es.colon(w, k)
	w.WriteString(es.color(k, ValueColor, payload))
	w.WriteString(es.color(k, SepColor, "}"))
}

func (es *EncState) list(w *bufio.Writer, node *ir.Node) error {
	w.WriteString(es.color(ir.ListKind, SepColor, "["))
	if len(node.Values) == 0 {
		w.WriteString(es.color(ir.ListKind, SepColor, "]"))
		return nil
	}
	es.depth++
	for i, v := range node.Values {
		if i > 0 {
			w.WriteString(es.color(ir.ListKind, SepColor, ","))
		}
		es.newline(w)
		if err := es.encode(w, v); err != nil {
			return err
		}
	}
	es.depth--
	es.newline(w)
	w.WriteString(es.color(ir.ListKind, SepColor, "]"))
	return nil
}

func needsWrap(node *ir.Node) bool {
	for _, f := range node.Fields {
		if strings.HasPrefix(f, "@") {
			return true
		}
	}
	return false
}

func (es *EncState) compound(w *bufio.Writer, node *ir.Node) error {
	k := ir.CompoundKind
	wrap := needsWrap(node)
	if wrap {
		w.WriteString(es.color(k, SepColor, "{"))
		w.WriteString(es.color(k, TagColor, `"`+compoundTag+`"`))
		es.colon(w, k)
	}
	w.WriteString(es.color(k, SepColor, "{"))
	if len(node.Fields) > 0 {
		es.depth++
		for i, f := range node.Fields {
			if i > 0 {
				w.WriteString(es.color(k, SepColor, ","))
			}
			es.newline(w)
			q, err := quote(f)
			if err != nil {
				return err
			}
			w.WriteString(es.color(k, FieldColor, q))
			es.colon(w, k)
			if err := es.encode(w, node.Values[i]); err != nil {
				return err
			}
		}
		es.depth--
		es.newline(w)
	}
	w.WriteString(es.color(k, SepColor, "}"))
	if wrap {
		w.WriteString(es.color(k, SepColor, "}"))
	}
	return nil
}
