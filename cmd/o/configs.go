package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/nodetree/encode"
	"github.com/signadot/nodetree/eval"
	"github.com/signadot/nodetree/ir"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='encode with color'"`
	WireOut bool `cli:"name=wire desc='output in compact format'"`
	Indent  int  `cli:"name=indent desc='indentation of node output'"`
	Verbose bool `cli:"name=v aliases=verbose desc='log to stderr'"`

	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`

	InFormat, OutFormat *Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// inFormat is the format for reading path; "-" is stdin.
func (cfg *MainConfig) inFormat(path string) Format {
	if cfg.InFormat != nil {
		return *cfg.InFormat
	}
	switch {
	case cfg.Y:
		return YAMLFormat
	case cfg.J:
		return JSONFormat
	}
	return formatOfFile(path, JSONFormat)
}

func (cfg *MainConfig) outFormat() Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	switch {
	case cfg.Y:
		return YAMLFormat
	case cfg.J:
		return JSONFormat
	}
	return NodeFormat
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeWire(cfg.WireOut),
	}
	if cfg.Indent > 0 {
		res = append(res, encode.Indent(cfg.Indent))
	}
	if cfg.Color {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// output writes docs to w in the output format, separated by "---".
func (cfg *MainConfig) output(w io.Writer, docs ...*ir.Node) error {
	opts := cfg.encOpts(w)
	f := cfg.outFormat()
	for i, y := range docs {
		if i > 0 {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
		if err := encodeDoc(w, y, f, opts); err != nil {
			return fmt.Errorf("error encoding document %d: %w", i, err)
		}
	}
	return nil
}

type ViewConfig struct {
	*MainConfig
	View *cli.Command
}

type GetConfig struct {
	*MainConfig
	Get *cli.Command
}

type SetConfig struct {
	*MainConfig
	Ensure bool `cli:"name=p desc='create missing intermediate objects'"`
	String bool `cli:"name=s desc='treat the value as a string'"`
	Set    *cli.Command
}

type DelConfig struct {
	*MainConfig
	Del *cli.Command
}

type MatchConfig struct {
	*cli.Command
	*MainConfig

	Trim   bool `cli:"name=trim desc='trim the results to the match'"`
	Glob   bool `cli:"name=glob desc='match strings as glob patterns'"`
	Subset bool `cli:"name=subset desc='match arrays as subsets'"`
	Exact  bool `cli:"name=exact desc='objects may not have extra keys'"`
	String bool `cli:"name=s desc='consider match a string argument'"`
	File   bool `cli:"name=f desc='consider match a file path'"`
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`
	Diff    *cli.Command
}

type PatchConfig struct {
	*MainConfig
	String bool `cli:"name=s desc='patch arg as string'"`
	File   bool `cli:"name=f desc='patch arg as file'"`
	Merge  bool `cli:"name=merge desc='patch arg is a merge patch'"`
	Ops    bool `cli:"name=ops desc='show available operations'"`

	Patch *cli.Command
}

type EvalConfig struct {
	*MainConfig
	Env    eval.Env
	Expand bool `cli:"name=x desc='expand templates in the documents instead'"`

	Eval *cli.Command
}

type SelectConfig struct {
	*MainConfig
	Env    eval.Env
	Values bool `cli:"name=values desc='output the selected values instead of paths'"`

	Select *cli.Command
}
