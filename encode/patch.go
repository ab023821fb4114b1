package encode

import (
	"fmt"

	"github.com/signadot/ograph/ir"

	jsonpatch "github.com/evanphx/json-patch"
)

// Patch applies an RFC 6902 JSON patch to doc. The patch addresses the text
// form, so typed leaves appear as {"@kind": payload} objects to it.
//
// Compounds that pass through the patch come back with their keys sorted.
func Patch(doc *ir.Node, patch []byte) (*ir.Node, error) {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, fmt.Errorf("decoding patch: %w", err)
	}
	d, err := MarshalText(doc)
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply(d)
	if err != nil {
		return nil, fmt.Errorf("applying patch: %w", err)
	}
	return Parse(out)
}

// MergePatch applies an RFC 7386 merge patch to doc.
func MergePatch(doc *ir.Node, patch []byte) (*ir.Node, error) {
	d, err := MarshalText(doc)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(d, patch)
	if err != nil {
		return nil, fmt.Errorf("merge patch: %w", err)
	}
	return Parse(out)
}
