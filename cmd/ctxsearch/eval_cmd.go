package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-ctxsearch/query"
	"github.com/goliatone/go-ctxsearch/storage"
)

func (c *cli) evalCmd() *cobra.Command {
	var (
		engine    string
		selection string
	)
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression over the stored configuration",
		Long: `Evaluates an expression with entries, enabled, prefs, selection, area,
now and args in scope, plus the functions render, encode and targets.`,
		Example: `  ctxsearch eval 'len(enabled)'
  ctxsearch eval --engine cel 'entries.filter(e, e.enabled).map(e, e.label)'
  ctxsearch eval --selection golang 'map(enabled, render(#.template, selection))'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := query.NewRunner(engine, query.WithLogger(c.logger.Named("query")))
			if err != nil {
				return fmt.Errorf("%w (available: %s)", err, strings.Join(query.Engines(), ", "))
			}
			return c.withStore(cmd.Context(), func(store *storage.Store) error {
				snap, err := store.LoadSnapshot(cmd.Context())
				if err != nil {
					return err
				}
				value, err := runner.Evaluate(query.Context{
					Snapshot:  snap,
					Selection: selection,
					Area:      store.Primary().Name(),
				}, args[0])
				if err != nil {
					return err
				}
				out, err := json.MarshalIndent(value, "", "  ")
				if err != nil {
					fmt.Fprintf(c.out, "%v\n", value)
					return nil
				}
				fmt.Fprintln(c.out, string(out))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&engine, "engine", query.EngineExpr, "expression engine (expr, cel, js)")
	cmd.Flags().StringVar(&selection, "selection", "", "text bound to selection")
	return cmd
}
