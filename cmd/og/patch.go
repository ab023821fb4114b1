package main

import (
	"fmt"
	"os"

	"github.com/signadot/ograph/encode"
	"github.com/signadot/ograph/ir"

	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: patch requires a patch file and at most one document, got %v", cli.ErrUsage, args)
	}
	p, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	target, err := cfg.readTree(cc, inputs(args[1:])[0])
	if err != nil {
		return err
	}
	var res *ir.Node
	if cfg.Merge {
		res, err = encode.MergePatch(target, p)
	} else {
		res, err = encode.Patch(target, p)
	}
	if err != nil {
		return fmt.Errorf("error patching with %s: %w", args[0], err)
	}
	if cfg.Text {
		return cfg.writeText(cc.Out, res, false)
	}
	return cfg.writeTree(cc.Out, res)
}
