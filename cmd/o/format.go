package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/signadot/nodetree/encode"
	"github.com/signadot/nodetree/ir"
)

// Format is a document serialization understood by o.
type Format int

const (
	NodeFormat Format = iota
	JSONFormat
	YAMLFormat
	IRFormat
)

var formatNames = map[Format][]string{
	NodeFormat: {"node", "n"},
	JSONFormat: {"json", "j"},
	YAMLFormat: {"yaml", "y", "yml"},
	IRFormat:   {"ir", "i"},
}

func (f Format) String() string {
	return formatNames[f][0]
}

func ParseFormat(s string) (Format, error) {
	for f, names := range formatNames {
		for _, n := range names {
			if strings.EqualFold(n, s) {
				return f, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown format %q", s)
}

// formatOfFile guesses the input format of a file from its extension.
func formatOfFile(path string, def Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLFormat
	case ".json":
		return JSONFormat
	}
	return def
}

const docSep = "\n---\n"

func splitDocs(d []byte) [][]byte {
	var res [][]byte
	for _, doc := range bytes.Split(d, []byte(docSep)) {
		if len(bytes.TrimSpace(doc)) == 0 {
			continue
		}
		res = append(res, doc)
	}
	return res
}

func decodeDoc(d []byte, f Format) (*ir.Node, error) {
	switch f {
	case YAMLFormat:
		return ir.FromYAML(d)
	case IRFormat:
		res := &ir.Node{}
		if err := json.Unmarshal(d, res); err != nil {
			return nil, err
		}
		return res, nil
	case JSONFormat:
		return ir.FromJSON(d)
	default:
		return nil, fmt.Errorf("cannot read %s documents", f)
	}
}

func encodeDoc(w io.Writer, y *ir.Node, f Format, opts []encode.EncodeOption) error {
	var (
		d   []byte
		err error
	)
	switch f {
	case NodeFormat:
		return encode.Encode(y, w, opts...)
	case JSONFormat:
		d, err = ir.ToJSON(y)
		if err == nil {
			d = append(d, '\n')
		}
	case YAMLFormat:
		d, err = ir.ToYAML(y)
	case IRFormat:
		d, err = json.Marshal(y)
		if err == nil {
			d = append(d, '\n')
		}
	}
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}
