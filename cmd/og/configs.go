package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/signadot/ograph/config"
	"github.com/signadot/ograph/encode"
	"github.com/signadot/ograph/format"
	"github.com/signadot/ograph/ir"
	"github.com/signadot/ograph/wire"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	ConfigFile string `cli:"name=config desc='configuration file (yaml)'"`
	Mode       string `cli:"name=mode aliases=m desc='binary mode: performance/p or size/s'"`
	Color      bool   `cli:"name=color desc='always encode text with color'"`
	NoColor    bool   `cli:"name=nocolor desc='never encode text with color'"`
	Gops       bool   `cli:"name=gops desc='run a gops diagnostics agent'"`

	Out      string
	CloseOut func() error

	Conf *config.Config
	Log  *slog.Logger
	Main *cli.Command
}

func (cfg *MainConfig) mode() format.Mode {
	m, _ := cfg.Conf.FormatMode()
	return m
}

func (cfg *MainConfig) useColor(w io.Writer) bool {
	switch {
	case cfg.Color:
		return true
	case cfg.NoColor:
		return false
	}
	switch cfg.Conf.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{encode.EncodeIndent(true)}
	if cfg.useColor(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

func readInput(cc *cli.Context, path string) ([]byte, error) {
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
	return d, nil
}

// readTree reads a binary document in the configured mode.
func (cfg *MainConfig) readTree(cc *cli.Context, path string) (*ir.Node, error) {
	d, err := readInput(cc, path)
	if err != nil {
		return nil, err
	}
	n, err := wire.Unmarshal(d, cfg.mode())
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return n, nil
}

// readText reads the JSON or YAML text form.
func readText(cc *cli.Context, path string, asYAML bool) (*ir.Node, error) {
	d, err := readInput(cc, path)
	if err != nil {
		return nil, err
	}
	var n *ir.Node
	if asYAML {
		n, err = encode.ParseYAML(d)
	} else {
		n, err = encode.Parse(d)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return n, nil
}

func (cfg *MainConfig) writeTree(w io.Writer, n *ir.Node) error {
	return wire.Encode(n, w, wire.EncodeMode(cfg.mode()))
}

func (cfg *MainConfig) writeText(w io.Writer, n *ir.Node, asYAML bool) error {
	if asYAML {
		return encode.EncodeYAML(n, w)
	}
	return encode.Encode(n, w, cfg.encOpts(w)...)
}

// plainText is the uncolored indented text of n, for comparisons.
func plainText(n *ir.Node) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(n, buf, encode.EncodeIndent(true)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func inputs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

type DumpConfig struct {
	*MainConfig
	YAML bool `cli:"name=yaml aliases=y desc='write yaml instead of json'"`
	Dump *cli.Command
}

type PackConfig struct {
	*MainConfig
	YAML bool `cli:"name=yaml aliases=y desc='read yaml instead of json'"`
	Pack *cli.Command
}

type ConvertConfig struct {
	*MainConfig
	To      string `cli:"name=to desc='target binary mode'"`
	Convert *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Text bool `cli:"name=text aliases=t desc='inputs are in the text form'"`
	Diff *cli.Command
}

type FindConfig struct {
	*MainConfig
	Paths bool `cli:"name=paths aliases=p desc='print only the paths of matches'"`
	Find  *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Merge bool `cli:"name=merge desc='the patch is an rfc 7386 merge patch'"`
	Text  bool `cli:"name=text aliases=t desc='write the result in the text form'"`
	Patch *cli.Command
}

type StatConfig struct {
	*MainConfig
	Stat *cli.Command
}

type StoreConfig struct {
	*MainConfig
	Text  bool `cli:"name=text aliases=t desc='read and write the text form'"`
	Store *cli.Command
}

type ConfigConfig struct {
	*MainConfig
	Config *cli.Command
}
