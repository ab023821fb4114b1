package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{Log: newLogger()}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "og").
		WithSynopsis("og [opts] command [opts]").
		WithDescription("og inspects and rewrites serialized object graphs.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return ogMain(cfg, cc, args)
		}).
		WithSubs(
			DumpCommand(cfg),
			PackCommand(cfg),
			ConvertCommand(cfg),
			DiffCommand(cfg),
			FindCommand(cfg),
			PatchCommand(cfg),
			StatCommand(cfg),
			StoreCommand(cfg),
			ConfigCommand(cfg))
}

func DumpCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DumpConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Dump, "dump").
		WithAliases("d").
		WithSynopsis("dump [-yaml] [files]").
		WithDescription("write binary documents in the text form").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return dump(cfg, cc, args)
		})
}

func PackCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PackConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Pack, "pack").
		WithAliases("p").
		WithSynopsis("pack [-yaml] [file]").
		WithDescription("encode a text document in the binary form").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return pack(cfg, cc, args)
		})
}

func ConvertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConvertConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Convert, "convert").
		WithAliases("c", "conv").
		WithSynopsis("convert -to <mode> [file]").
		WithDescription("re-encode a binary document in another mode").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return convert(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("di").
		WithSynopsis("diff [-text] a b").
		WithDescription("show line differences between the text forms of two documents").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func FindCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FindConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Find, "find").
		WithAliases("f").
		WithSynopsis("find [-paths] <predicate> [files]").
		WithDescription("list the nodes matching an expr predicate over Kind, Key, Index, Depth, Path, Value and Len").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return find(cfg, cc, args)
		})
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithAliases("pa").
		WithSynopsis("patch [-merge] [-text] <patchfile> [file]").
		WithDescription("apply a json patch to the text form of a binary document").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patch(cfg, cc, args)
		})
}

func StatCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &StatConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Stat, "stat").
		WithAliases("s").
		WithSynopsis("stat [files]").
		WithDescription("report node counts and encoded sizes in both modes").
		WithRun(func(cc *cli.Context, args []string) error {
			return stat(cfg, cc, args)
		})
}

func StoreCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &StoreConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Store, "store").
		WithAliases("st").
		WithSynopsis("store [-text] <put|get|rm|ls> [args]").
		WithDescription("keep documents in the configured file or redis store").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return storeMain(cfg, cc, args)
		}).
		WithSubs(
			storeSub(cfg, "put", "put <key> [file]", "store a binary document", storePut),
			storeSub(cfg, "get", "get <key>", "write a stored document", storeGet),
			storeSub(cfg, "rm", "rm <key>", "delete a stored document", storeRm),
			storeSub(cfg, "ls", "ls", "list stored keys", storeLs))
}

func ConfigCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConfigConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Config, "config").
		WithSynopsis("config").
		WithDescription("print the effective configuration").
		WithRun(func(cc *cli.Context, args []string) error {
			return showConfig(cfg, cc, args)
		})
}
