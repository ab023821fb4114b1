package encode

type EncodeOption func(*EncState)

// EncodeIndent writes one entry per line, indented by two spaces per
// level.
func EncodeIndent(v bool) EncodeOption {
	return func(es *EncState) { es.pretty = v }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}
