package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func showConfig(cfg *ConfigConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Config.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: config takes no arguments", cli.ErrUsage)
	}
	d, err := cfg.Conf.Marshal()
	if err != nil {
		return err
	}
	_, err = cc.Out.Write(d)
	return err
}
