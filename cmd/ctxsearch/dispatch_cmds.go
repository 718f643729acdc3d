package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	ctxsearch "github.com/goliatone/go-ctxsearch"
	"github.com/goliatone/go-ctxsearch/app"
	"github.com/goliatone/go-ctxsearch/dispatch"
	"github.com/goliatone/go-ctxsearch/hosts/memhost"
	"github.com/goliatone/go-ctxsearch/hosts/tuihost"
	"github.com/goliatone/go-ctxsearch/menu"
	"github.com/goliatone/go-ctxsearch/storage"
	"github.com/goliatone/go-ctxsearch/template"
)

func (c *cli) renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render <template> <text>",
		Short: "Print the URLs a template produces for text",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			engine := template.New(template.WithLogger(c.logger.Named("template")))
			for _, target := range template.SplitTargets(args[0]) {
				fmt.Fprintln(c.out, engine.Render(target, args[1]))
			}
			return nil
		},
	}
}

func (c *cli) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <label> <text>",
		Short: "Open the target with the given label for text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(store *storage.Store) error {
				snap, err := store.LoadSnapshot(ctx)
				if err != nil {
					return err
				}
				entry, ok := snap.FindByLabel(args[0])
				if !ok {
					return fmt.Errorf("no target labelled %q", args[0])
				}
				tabs, closeTabs, err := c.tabHost()
				if err != nil {
					return err
				}
				defer closeTabs()

				dispatcher := dispatch.New(tabs, store,
					dispatch.WithLogger(c.logger.Named("dispatch")),
					dispatch.WithRenderer(template.New(template.WithLogger(c.logger.Named("template")))),
					dispatch.WithOptionsURL(c.cfg.OptionsURL),
				)
				return dispatcher.Trigger(ctx, entry.Template, args[1], nil)
			})
		},
	}
}

// runApp starts an App over the store and the given menu surface and runs fn
// while it is live.
func (c *cli) runApp(ctx context.Context, host ctxsearch.MenuHost, clicks ctxsearch.ClickSource, watch bool, fn func(a *app.App, report menu.Report) error) error {
	store, closeStore, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	tabs, closeTabs, err := c.tabHost()
	if err != nil {
		return err
	}
	defer closeTabs()

	a, err := app.New(app.Config{
		Store:      store,
		Menu:       host,
		Clicks:     clicks,
		Tabs:       tabs,
		OptionsURL: c.cfg.OptionsURL,
		Watch:      watch,
		Logger:     c.logger,
		Level:      &c.level,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	reports := a.Reports(8)
	report, err := a.Start(ctx)
	if err != nil {
		return err
	}
	// The initial report was also queued; drop it so fn only sees later ones.
	select {
	case <-reports:
	default:
	}
	if err := report.Err(); err != nil {
		c.logger.Warn("menu built with failures", zap.Error(err))
	}
	return fn(a, report)
}

func (c *cli) menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu <text>",
		Short: "Show the context menu for text and open the picked target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			surface := tuihost.NewMenu(tuihost.WithLogger(c.logger.Named("tui")))
			return c.runApp(ctx, surface, surface, false, func(a *app.App, _ menu.Report) error {
				picked, err := surface.Run(ctx, args[0])
				if err != nil {
					return err
				}
				if !picked {
					fmt.Fprintln(c.out, "nothing selected")
				}
				a.Wait()
				return nil
			})
		},
	}
}

func (c *cli) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rebuild and print the menu whenever the configuration changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			surface := memhost.NewMenu()
			return c.runApp(ctx, surface, nil, true, func(a *app.App, report menu.Report) error {
				c.printMenu(report)
				reports := a.Reports(8)
				for {
					select {
					case <-ctx.Done():
						return nil
					case report := <-reports:
						c.printMenu(report)
					}
				}
			})
		},
	}
}

func (c *cli) printMenu(report menu.Report) {
	fmt.Fprintf(c.out, "menu (%d items)\n", len(report.Items))
	for _, item := range report.Items {
		if item.Type == ctxsearch.ItemSeparator {
			fmt.Fprintln(c.out, "  ----------------")
			continue
		}
		fmt.Fprintf(c.out, "  %s\n", item.Title)
	}
	for _, failure := range report.Failures {
		fmt.Fprintf(c.out, "  ! %v\n", failure)
	}
}
