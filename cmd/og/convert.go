package main

import (
	"fmt"

	"github.com/signadot/ograph/format"
	"github.com/signadot/ograph/wire"

	"github.com/scott-cotton/cli"
)

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.To == "" {
		return fmt.Errorf("%w: -to is required", cli.ErrUsage)
	}
	to, err := format.ParseMode(cfg.To)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: convert takes at most one file, got %v", cli.ErrUsage, args)
	}
	n, err := cfg.readTree(cc, inputs(args)[0])
	if err != nil {
		return err
	}
	cfg.Log.Debug("convert", "from", cfg.mode(), "to", to)
	return wire.Encode(n, cc.Out, wire.EncodeMode(to))
}
