package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/nodetree/ir"

	"github.com/scott-cotton/cli"
	"go.uber.org/zap"
)

// readDocs reads all documents of path; "-" is stdin.
func readDocs(cfg *MainConfig, cc *cli.Context, path string) ([]*ir.Node, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	fmat := cfg.inFormat(path)
	var res []*ir.Node
	for i, doc := range splitDocs(d) {
		y, err := decodeDoc(doc, fmat)
		if err != nil {
			return nil, fmt.Errorf("error decoding document %d of %s: %w", i, path, err)
		}
		res = append(res, y)
	}
	theLog.Debug("read documents", zap.String("file", path), zap.Stringer("format", fmat), zap.Int("count", len(res)))
	return res, nil
}

// getObjFile reads a file holding exactly one document.
func getObjFile(cfg *MainConfig, cc *cli.Context, path string) (*ir.Node, error) {
	docs, err := readDocs(cfg, cc, path)
	if err != nil {
		return nil, err
	}
	if len(docs) != 1 {
		return nil, fmt.Errorf("%s: expected one document, got %d", path, len(docs))
	}
	return docs[0], nil
}

// eachDoc calls f on every document of files, or of stdin when there are
// none.
func eachDoc(cfg *MainConfig, cc *cli.Context, files []string, f func(file string, y *ir.Node) error) error {
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		docs, err := readDocs(cfg, cc, file)
		if err != nil {
			return err
		}
		for _, y := range docs {
			if err := f(file, y); err != nil {
				return fmt.Errorf("error processing %s: %w", file, err)
			}
		}
	}
	return nil
}

// getish reads an argument given inline (-s, the default) or as a file (-f).
func getish(cfg *MainConfig, s, f bool, cc *cli.Context, arg string) (*ir.Node, error) {
	if s == f && s {
		return nil, fmt.Errorf("%w: only one of -s, -f may be specified", cli.ErrUsage)
	}
	if f {
		return getObjFile(cfg, cc, arg)
	}
	// inline arguments are JSON unless YAML was asked for.
	fmat := JSONFormat
	if cfg.Y {
		fmat = YAMLFormat
	}
	return decodeDoc([]byte(arg), fmat)
}
