package gomap

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// TagKey is the struct tag read by TagProvider.
const TagKey = "graph"

// FieldMeta is the serialization metadata of one struct field.
type FieldMeta struct {
	// Name is the serialized field name. Empty means the Go field name.
	Name string
	// Aliases are historical names, most recent last.
	Aliases []string
	// Skip excludes the field from serialization.
	Skip bool
	// OmitNull drops the field instead of writing an explicit Null.
	OmitNull bool
	// Dependency records a uuid.UUID field value as an external
	// dependency of the enclosing graph.
	Dependency bool
}

// MetadataProvider answers per field questions for the reflective object
// format. It is consulted once per struct type and Context.
type MetadataProvider interface {
	FieldMeta(f reflect.StructField) (FieldMeta, error)
}

// TagProvider reads FieldMeta from `graph:"..."` struct tags:
//
//	Name   string `graph:"name=full_name, aliases='name fullName'"`
//	Nick   *string `graph:"omitnull"`
//	Cache  []byte `graph:"-"`
//	Avatar uuid.UUID `graph:"dependency"`
type TagProvider struct{}

func (TagProvider) FieldMeta(f reflect.StructField) (FieldMeta, error) {
	tag, ok := f.Tag.Lookup(TagKey)
	if !ok {
		return FieldMeta{}, nil
	}
	if tag == "-" {
		return FieldMeta{Skip: true}, nil
	}
	parsed, err := ParseStructTag(tag)
	if err != nil {
		return FieldMeta{}, fmt.Errorf("field %s: %w", f.Name, err)
	}
	var fm FieldMeta
	for k, v := range parsed {
		switch k {
		case "name":
			fm.Name = v
		case "aliases":
			fm.Aliases = strings.Fields(v)
		case "omitnull":
			fm.OmitNull = true
		case "dependency":
			fm.Dependency = true
		case "-":
			fm.Skip = true
		default:
			return FieldMeta{}, fmt.Errorf("field %s: unknown tag option %q", f.Name, k)
		}
	}
	return fm, nil
}

// ParseStructTag parses a struct tag string into key/value pairs.
// Parts are separated by commas or spaces: `graph:"name=x,omitnull"`.
// Values may be quoted to contain separators: `graph:"aliases='a b'"`.
// Flags map to the empty string.
func ParseStructTag(tag string) (map[string]string, error) {
	result := make(map[string]string)
	var (
		parts   []string
		current strings.Builder
		quote   byte
	)
	flush := func() {
		if part := strings.TrimSpace(current.String()); part != "" {
			parts = append(parts, part)
		}
		current.Reset()
	}
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			current.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			current.WriteByte(c)
		case c == ',' || c == ' ':
			flush()
		default:
			current.WriteByte(c)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("invalid tag: unterminated quote in %q", tag)
	}
	flush()

	for _, part := range parts {
		key, value, found := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if !found {
			result[key] = ""
			continue
		}
		if key == "" {
			return nil, fmt.Errorf("invalid tag: empty key in %q", part)
		}
		result[key] = unquoteValue(strings.TrimSpace(value))
	}
	return result, nil
}

// unquoteValue removes surrounding single or double quotes from a value.
func unquoteValue(value string) string {
	if len(value) >= 2 && (value[0] == '\'' || value[0] == '"') && value[len(value)-1] == value[0] {
		return value[1 : len(value)-1]
	}
	return value
}

// fieldDesc describes one serializable field of a struct type.
type fieldDesc struct {
	name       string
	index      []int
	typ        reflect.Type
	aliases    []string
	omitNull   bool
	dependency bool
}

// typeDesc is the resolved field list of a struct type.
type typeDesc struct {
	typ    reflect.Type
	fields []fieldDesc
}

// defaultDescs caches descriptors built by TagProvider, which is stateless.
var defaultDescs sync.Map // reflect.Type -> *typeDesc

func describe(t reflect.Type, mp MetadataProvider) (*typeDesc, error) {
	if _, ok := mp.(TagProvider); ok {
		if d, ok := defaultDescs.Load(t); ok {
			return d.(*typeDesc), nil
		}
	}
	d := &typeDesc{typ: t}
	seen := map[string]string{}
	if err := d.collect(t, nil, mp, seen); err != nil {
		return nil, err
	}
	if _, ok := mp.(TagProvider); ok {
		actual, _ := defaultDescs.LoadOrStore(t, d)
		return actual.(*typeDesc), nil
	}
	return d, nil
}

func (d *typeDesc) collect(t reflect.Type, prefix []int, mp MetadataProvider, seen map[string]string) error {
	for i := range t.NumField() {
		f := t.Field(i)
		index := append(append([]int(nil), prefix...), i)
		fm, err := mp.FieldMeta(f)
		if err != nil {
			return err
		}
		if fm.Skip {
			continue
		}
		// untagged embedded structs are flattened into the parent
		if f.Anonymous && fm.Name == "" && f.Type.Kind() == reflect.Struct {
			if err := d.collect(f.Type, index, mp, seen); err != nil {
				return err
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		name := fm.Name
		if name == "" {
			name = f.Name
		}
		if other, ok := seen[name]; ok {
			return fmt.Errorf("%s: fields %s and %s both serialize as %q", d.typ, other, f.Name, name)
		}
		seen[name] = f.Name
		d.fields = append(d.fields, fieldDesc{
			name:       name,
			index:      index,
			typ:        f.Type,
			aliases:    fm.Aliases,
			omitNull:   fm.OmitNull,
			dependency: fm.Dependency,
		})
	}
	return nil
}
