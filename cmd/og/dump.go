package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"
)

func dump(cfg *DumpConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Dump.Parse(cc, args)
	if err != nil {
		return err
	}
	files := inputs(args)
	for i, file := range files {
		n, err := cfg.readTree(cc, file)
		if err != nil {
			return err
		}
		if i > 0 && cfg.YAML {
			if _, err := io.WriteString(cc.Out, "---\n"); err != nil {
				return err
			}
		}
		if err := cfg.writeText(cc.Out, n, cfg.YAML); err != nil {
			return fmt.Errorf("error encoding %s: %w", file, err)
		}
	}
	return nil
}

func pack(cfg *PackConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Pack.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: pack takes at most one file, got %v", cli.ErrUsage, args)
	}
	n, err := readText(cc, inputs(args)[0], cfg.YAML)
	if err != nil {
		return err
	}
	return cfg.writeTree(cc.Out, n)
}
