// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package main

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/exec/execbuilder"
	"github.com/cockroachdb/physplan/pkg/sql/opt/exec/explain"
	"github.com/cockroachdb/physplan/pkg/sql/opt/memo"
	"github.com/cockroachdb/physplan/pkg/sql/opt/norm"
	"github.com/cockroachdb/physplan/pkg/sql/opt/ordering"
	"github.com/cockroachdb/physplan/pkg/sql/opt/physical"
	"github.com/cockroachdb/physplan/pkg/sql/opt/plandef"
	"github.com/cockroachdb/physplan/pkg/sql/opt/xform"
	"github.com/cockroachdb/physplan/pkg/util/humanizeutil"
	"github.com/cockroachdb/physplan/pkg/util/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

// cliContext holds the values of the flags shared by every command.
type cliContext struct {
	verbosity  int32
	costConfig string
}

// explainContext holds the values of the flags of the explain command.
type explainContext struct {
	normalize bool
	costs     bool
	verbose   bool
	needed    []string
}

func newRootCmd() *cobra.Command {
	var cliCtx cliContext
	root := &cobra.Command{
		Use:           "windowplan",
		Short:         "inspect physical plans with window operators",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			log.SetVerbosity(cliCtx.verbosity)
		},
	}
	addGlobalFlags(root.PersistentFlags(), &cliCtx)
	root.AddCommand(
		newExplainCmd(&cliCtx),
		newUsedColsCmd(),
		newMemoCmd(&cliCtx),
		newLowerCmd(),
	)
	return root
}

func addGlobalFlags(f *pflag.FlagSet, cliCtx *cliContext) {
	f.Int32Var(&cliCtx.verbosity, "v", 0, "log verbosity level")
	f.StringVar(&cliCtx.costConfig, "cost-config", "",
		"YAML file overriding the constants of the cost model")
}

// loadCostConfig returns the cost model configured with --cost-config, or
// the default one.
func (c *cliContext) loadCostConfig() (xform.Config, error) {
	if c.costConfig == "" {
		return xform.DefaultConfig(), nil
	}
	return xform.LoadConfig(c.costConfig)
}

func newExplainCmd(cliCtx *cliContext) *cobra.Command {
	var explainCtx explainContext
	cmd := &cobra.Command{
		Use:   "explain <plan.yaml>",
		Short: "print a plan as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plandef.LoadFile(args[0])
			if err != nil {
				return err
			}
			root := p.Root
			if explainCtx.normalize {
				needed, err := resolveColumns(p.Metadata, explainCtx.needed, root.OutputCols())
				if err != nil {
					return err
				}
				root = norm.Normalize(root, needed)
			}
			flags := explain.Flags{Verbose: explainCtx.verbose}
			if explainCtx.costs {
				cfg, err := cliCtx.loadCostConfig()
				if err != nil {
					return err
				}
				flags.Costs = xform.NewCoster(cfg)
			}
			fmt.Fprint(cmd.OutOrStdout(), explain.Emit(root, p.Metadata, flags))
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&explainCtx.normalize, "normalize", false,
		"push filters into windows and prune unused columns before printing")
	f.BoolVar(&explainCtx.costs, "costs", false, "show estimated row counts and costs")
	f.BoolVar(&explainCtx.verbose, "verbose", false, "show output columns and orderings")
	f.StringSliceVar(&explainCtx.needed, "needed", nil,
		"with --normalize, the output columns to keep (default: all)")
	return cmd
}

// resolveColumns returns the set of the named columns, or def if no names
// are given.
func resolveColumns(md *opt.Metadata, names []string, def opt.ColSet) (opt.ColSet, error) {
	if len(names) == 0 {
		return def, nil
	}
	var cols opt.ColSet
	for _, name := range names {
		col, ok := md.ColumnByName(name)
		if !ok {
			return opt.ColSet{}, errors.Newf("unknown column %q", name)
		}
		cols.Add(col)
	}
	return cols, nil
}

func newUsedColsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "used-cols <plan.yaml>",
		Short: "list the columns used and produced by every operator of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plandef.LoadFile(args[0])
			if err != nil {
				return err
			}
			table := newTable(cmd, "node", "operator", "used", "output")
			n := 0
			p.Root.Walk(func(e *physical.Expr) {
				n++
				table.Append([]string{
					strconv.Itoa(n),
					e.Op().String(),
					p.Metadata.FormatColSet(e.Operator().UsedColumns()),
					p.Metadata.FormatColSet(e.OutputCols()),
				})
			})
			table.Render()
			return nil
		},
	}
}

// memoizedPlan is a plan loaded by the memo command.
type memoizedPlan struct {
	path  string
	group memo.GroupID
}

func newMemoCmd(cliCtx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "memo <plan.yaml>...",
		Short: "memoize plans and report the groups they share",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliCtx.loadCostConfig()
			if err != nil {
				return err
			}
			// All plans share one column registry, so that equal operators
			// over different columns are not confused.
			md := &opt.Metadata{}
			mem := memo.New()
			plans := make([]memoizedPlan, len(args))
			start := time.Now()
			progress := log.Every(time.Second)
			var done atomic.Int32
			g, ctx := errgroup.WithContext(cmd.Context())
			for i := range args {
				i := i
				g.Go(func() error {
					p, err := plandef.LoadFileWithMetadata(args[i], md)
					if err != nil {
						return err
					}
					ctx := logtags.AddTag(ctx, "plan", i+1)
					id := mem.MemoizeExpr(ctx, p.Root)
					plans[i] = memoizedPlan{path: args[i], group: id}
					log.VEventf(ctx, 1, "%s memoized into group %d", args[i], id)
					if n := done.Add(1); progress.ShouldLog() {
						log.Infof(ctx, "memoized %d of %d plans in %s",
							n, len(args), humanizeutil.Duration(time.Since(start)))
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			o := xform.NewOptimizer(mem, cfg)
			table := newTable(cmd, "plan", "group", "members", "best cost")
			for _, p := range plans {
				best := o.Optimize(cmd.Context(), p.group, nil /* required */)
				table.Append([]string{
					p.path,
					fmt.Sprint(p.group),
					strconv.Itoa(len(mem.Members(p.group))),
					humanizeutil.Cost(best.Cost.C),
				})
			}
			table.Render()
			stats := mem.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "groups: %d, members: %d, deduplicated: %d\n",
				stats.Groups, stats.Members, stats.Deduplicated)
			return nil
		},
	}
}

func newLowerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lower <plan.yaml>",
		Short: "print the execution stages of a plan",
		Long: `Print the execution stages of a plan. Sorts are added below the
operators whose input does not provide the ordering they require.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plandef.LoadFile(args[0])
			if err != nil {
				return err
			}
			st, err := execbuilder.New(p.Metadata).Build(ordering.EnforceInputOrderings(p.Root))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), st.String())
			return nil
		},
	}
}

func newTable(cmd *cobra.Command, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	return table
}
