package encode

import (
	"bytes"
	"strings"

	"github.com/signadot/ograph/ir"
)

// MustString returns the indented text form of node, panicking on error.
func MustString(node *ir.Node, opts ...EncodeOption) string {
	buf := bytes.NewBuffer(nil)
	opts = append([]EncodeOption{EncodeIndent(true)}, opts...)
	if err := Encode(node, buf, opts...); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}
