package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/signadot/ograph/ir"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	var docs [2]*ir.Node
	for i, arg := range args {
		if cfg.Text {
			docs[i], err = readText(cc, arg, false)
		} else {
			docs[i], err = cfg.readTree(cc, arg)
		}
		if err != nil {
			return err
		}
	}
	differs, err := diffInputs(cc.Out, docs[0], docs[1], cfg.useColor(cc.Out))
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// diffInputs writes a line diff of the indented text forms of a and b and
// reports whether they differ.
func diffInputs(w io.Writer, a, b *ir.Node, colored bool) (bool, error) {
	if ir.Equal(a, b) {
		return false, nil
	}
	ta, err := plainText(a)
	if err != nil {
		return false, err
	}
	tb, err := plainText(b)
	if err != nil {
		return false, err
	}
	del, ins := fmt.Sprint, fmt.Sprint
	if colored {
		del = color.New(color.FgRed).Sprint
		ins = color.New(color.FgGreen).Sprint
	}
	for _, d := range lineDiff(ta, tb) {
		var prefix string
		pr := fmt.Sprint
		switch d.Type {
		case diffpatch.DiffDelete:
			prefix, pr = "-", del
		case diffpatch.DiffInsert:
			prefix, pr = "+", ins
		case diffpatch.DiffEqual:
			prefix = " "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			if _, err := io.WriteString(w, pr(prefix+strings.TrimSuffix(line, "\n"))+"\n"); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}

func lineDiff(a, b string) []diffpatch.Diff {
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(ca, cb, false)
	return dmp.DiffCharsToLines(diffs, lines)
}
