package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/signadot/ograph/format"
	"github.com/signadot/ograph/ir"
	"github.com/signadot/ograph/wire"

	"github.com/scott-cotton/cli"
)

type treeStats struct {
	Nodes    int
	MaxDepth int
	Kinds    map[ir.Kind]int
	Bytes    map[format.Mode]int
}

func computeStats(n *ir.Node) (*treeStats, error) {
	st := &treeStats{Kinds: map[ir.Kind]int{}, Bytes: map[format.Mode]int{}}
	depth := 0
	err := n.Visit(func(y *ir.Node, isPost bool) (bool, error) {
		if isPost {
			depth--
			return false, nil
		}
		st.Nodes++
		st.Kinds[y.Kind]++
		st.MaxDepth = max(st.MaxDepth, depth)
		depth++
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	for _, m := range []format.Mode{format.PerformanceMode, format.SizeMode} {
		d, err := wire.Marshal(n, m)
		if err != nil {
			return nil, err
		}
		st.Bytes[m] = len(d)
	}
	return st, nil
}

func (st *treeStats) write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "nodes\t%d\n", st.Nodes)
	fmt.Fprintf(tw, "max depth\t%d\n", st.MaxDepth)
	for _, k := range ir.Kinds() {
		if c := st.Kinds[k]; c > 0 {
			fmt.Fprintf(tw, "  %s\t%d\n", k, c)
		}
	}
	for _, m := range []format.Mode{format.PerformanceMode, format.SizeMode} {
		fmt.Fprintf(tw, "%s bytes\t%d\n", m, st.Bytes[m])
	}
	return tw.Flush()
}

func stat(cfg *StatConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Stat.Parse(cc, args)
	if err != nil {
		return err
	}
	files := inputs(args)
	for i, file := range files {
		n, err := cfg.readTree(cc, file)
		if err != nil {
			return err
		}
		st, err := computeStats(n)
		if err != nil {
			return err
		}
		if len(files) > 1 {
			if i > 0 {
				fmt.Fprintln(cc.Out)
			}
			fmt.Fprintf(cc.Out, "%s:\n", file)
		}
		if err := st.write(cc.Out); err != nil {
			return err
		}
	}
	return nil
}
