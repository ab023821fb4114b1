package debug

import (
	"fmt"
	"os"
	"strconv"

	json "github.com/goccy/go-json"
)

type debug struct {
	Wire  bool
	LZW   bool
	Types bool
	Deps  bool
	Query bool
	Store bool
}

var d *debug

func init() {
	d = &debug{}
	d.Wire = boolEnv("OGRAPH_DEBUG_WIRE")
	d.LZW = boolEnv("OGRAPH_DEBUG_LZW")
	d.Types = boolEnv("OGRAPH_DEBUG_TYPES")
	d.Deps = boolEnv("OGRAPH_DEBUG_DEPS")
	d.Query = boolEnv("OGRAPH_DEBUG_QUERY")
	d.Store = boolEnv("OGRAPH_DEBUG_STORE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Wire() bool {
	return d.Wire
}
func LZW() bool {
	return d.LZW
}
func Types() bool {
	return d.Types
}
func Deps() bool {
	return d.Deps
}
func Query() bool {
	return d.Query
}
func Store() bool {
	return d.Store
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(append(d, '\n'))
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
