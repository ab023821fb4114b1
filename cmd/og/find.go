package main

import (
	"fmt"

	"github.com/signadot/ograph/encode"
	"github.com/signadot/ograph/query"

	"github.com/scott-cotton/cli"
)

func find(cfg *FindConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Find.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: find requires a predicate", cli.ErrUsage)
	}
	q, err := query.Compile(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	files := inputs(args[1:])
	for _, file := range files {
		n, err := cfg.readTree(cc, file)
		if err != nil {
			return err
		}
		found, err := q.Find(n)
		if err != nil {
			return err
		}
		for _, m := range found {
			loc := m.Path()
			if len(files) > 1 {
				loc = file + ":" + loc
			}
			if cfg.Paths {
				fmt.Fprintln(cc.Out, loc)
				continue
			}
			d, err := encode.MarshalText(m)
			if err != nil {
				return err
			}
			fmt.Fprintf(cc.Out, "%s\t%s\n", loc, d)
		}
	}
	return nil
}
