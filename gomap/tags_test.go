package gomap

import (
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseStructTag(t *testing.T) {
	tests := []struct {
		tag  string
		want map[string]string
	}{
		{"", map[string]string{}},
		{"omitnull", map[string]string{"omitnull": ""}},
		{"name=full_name,omitnull", map[string]string{"name": "full_name", "omitnull": ""}},
		{"name=x, aliases='a b'", map[string]string{"name": "x", "aliases": "a b"}},
		{`aliases="one,two" dependency`, map[string]string{"aliases": "one,two", "dependency": ""}},
		{" name=a  omitnull ", map[string]string{"name": "a", "omitnull": ""}},
	}
	for _, tc := range tests {
		got, err := ParseStructTag(tc.tag)
		if err != nil {
			t.Errorf("%q: %v", tc.tag, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%q (-want +got):\n%s", tc.tag, diff)
		}
	}
}

func TestParseStructTag_Errors(t *testing.T) {
	for _, tag := range []string{"aliases='a b", "=x"} {
		if _, err := ParseStructTag(tag); err == nil {
			t.Errorf("%q: expected an error", tag)
		}
	}
}

func TestTagProvider(t *testing.T) {
	type tagged struct {
		Plain  int
		Named  int `graph:"name=n"`
		Old    int `graph:"aliases='a b c'"`
		Gone   int `graph:"-"`
		Opt    *int `graph:"omitnull"`
		Bogus  int `graph:"sparkly"`
		Listed int `json:"listed"`
	}
	st := reflect.TypeFor[tagged]()
	want := []FieldMeta{
		{},
		{Name: "n"},
		{Aliases: []string{"a", "b", "c"}},
		{Skip: true},
		{OmitNull: true},
		{},
		{},
	}
	for i := range st.NumField() {
		f := st.Field(i)
		got, err := TagProvider{}.FieldMeta(f)
		if f.Name == "Bogus" {
			if err == nil || !strings.Contains(err.Error(), "sparkly") {
				t.Errorf("Bogus: got %v", err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", f.Name, err)
			continue
		}
		if diff := cmp.Diff(want[i], got); diff != "" {
			t.Errorf("%s (-want +got):\n%s", f.Name, diff)
		}
	}
}

func TestDescribe_DuplicateNames(t *testing.T) {
	type clash struct {
		A int `graph:"name=x"`
		B int `graph:"name=x"`
	}
	if _, err := Serialize(clash{}); err == nil {
		t.Error("expected duplicate field names to fail")
	}
}

func TestDescribe_SkipsUnexported(t *testing.T) {
	type mixed struct {
		Public  int
		private int
	}
	n, err := Serialize(mixed{Public: 1, private: 2})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Public"}, n.Keys()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

// lowerNames is a MetadataProvider that serializes every field under its
// lower-cased name.
type lowerNames struct{}

func (lowerNames) FieldMeta(f reflect.StructField) (FieldMeta, error) {
	return FieldMeta{Name: strings.ToLower(f.Name)}, nil
}

func TestCustomMetadataProvider(t *testing.T) {
	in := Point2{X: 3, Y: 4}
	n, err := Serialize(in, WithMetadataProvider(lowerNames{}))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"x", "y"}, n.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	// the default provider still reads the same node through
	// case-insensitive matching
	var got Point2
	if err := Deserialize(n, &got); err != nil {
		t.Fatal(err)
	}
	if got != in {
		t.Errorf("got %+v, want %+v", got, in)
	}
	n, err = Serialize(in)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"X", "Y"}, n.Keys()); diff != "" {
		t.Errorf("default keys (-want +got):\n%s", diff)
	}
}
