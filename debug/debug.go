package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Encode bool
	Decode bool
	Match  bool
	Path   bool
	Patch  bool
	Eval   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Encode = boolEnv("O_DEBUG_ENCODE")
	d.Decode = boolEnv("O_DEBUG_DECODE")
	d.Match = boolEnv("O_DEBUG_MATCH")
	d.Path = boolEnv("O_DEBUG_PATH")
	d.Patch = boolEnv("O_DEBUG_PATCH")
	d.Eval = boolEnv("O_DEBUG_EVAL")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Encode() bool {
	return d.Encode
}
func Decode() bool {
	return d.Decode
}
func Match() bool {
	return d.Match
}
func Path() bool {
	return d.Path
}
func Patch() bool {
	return d.Patch
}
func Eval() bool {
	return d.Eval
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
	os.Stderr.Write([]byte{'\n'})
}
