package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	ctxsearch "github.com/goliatone/go-ctxsearch"
	"github.com/goliatone/go-ctxsearch/internal/config"
	"github.com/goliatone/go-ctxsearch/storage"
)

// withStore opens and initializes the store around fn.
func (c *cli) withStore(ctx context.Context, fn func(store *storage.Store) error) error {
	store, closeStore, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	if err := store.Initialize(ctx); err != nil {
		return err
	}
	return fn(store)
}

func (c *cli) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the config file and seed storage with the default targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(c.configPath); errors.Is(err, fs.ErrNotExist) {
				if err := config.Save(c.configPath, c.cfg); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "wrote %s\n", c.configPath)
			}
			return c.withStore(cmd.Context(), func(store *storage.Store) error {
				fmt.Fprintf(c.out, "storage: %s\n", store.Tier())
				return nil
			})
		},
	}
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the storage tier and preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd.Context(), func(store *storage.Store) error {
				snap, err := store.LoadSnapshot(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "storage:     %s (%s)\n", store.Tier(), store.Primary().Name())
				fmt.Fprintf(c.out, "entries:     %d (%d enabled)\n", len(snap.Entries), len(snap.Enabled()))
				writePreferences(c.out, snap.Preferences)
				return nil
			})
		},
	}
}

func writePreferences(w io.Writer, prefs ctxsearch.Preferences) {
	fmt.Fprintf(w, "background:  %t\n", prefs.OpenInBackground)
	fmt.Fprintf(w, "adjacent:    %t\n", prefs.OpenAdjacent)
	fmt.Fprintf(w, "options:     %t\n", prefs.ShowOptionsItem)
	fmt.Fprintf(w, "debug:       %t\n", prefs.Debug)
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured targets in menu order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd.Context(), func(store *storage.Store) error {
				snap, err := store.LoadSnapshot(cmd.Context())
				if err != nil {
					return err
				}
				for i, entry := range snap.Entries {
					mark := " "
					if entry.Enabled {
						mark = "x"
					}
					if entry.IsSeparator() {
						fmt.Fprintf(c.out, "%3d [%s] ----------------\n", i, mark)
						continue
					}
					fmt.Fprintf(c.out, "%3d [%s] %-20s %s\n", i, mark, entry.Label, entry.Template)
				}
				return nil
			})
		},
	}
}

func (c *cli) catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the built-in search engines",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			category := ""
			for _, engine := range ctxsearch.Catalog() {
				if engine.Category != category {
					category = engine.Category
					fmt.Fprintf(c.out, "%s:\n", category)
				}
				fmt.Fprintf(c.out, "  %-20s %s\n", engine.Name, engine.Template)
			}
			return nil
		},
	}
}

func (c *cli) addCmd() *cobra.Command {
	var builtin string
	cmd := &cobra.Command{
		Use:   "add [label] [template]",
		Short: "Append an enabled target",
		Example: `  ctxsearch add Go "https://pkg.go.dev/search?q=TESTSEARCH"
  ctxsearch add --builtin "Wolfram Alpha"`,
		Args: func(cmd *cobra.Command, args []string) error {
			if builtin != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			label, tmpl, err := resolveAddArgs(builtin, args)
			if err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(store *storage.Store) error {
				snap, err := store.LoadSnapshot(cmd.Context())
				if err != nil {
					return err
				}
				next, err := snap.WithEntry(label, tmpl)
				if err != nil {
					return err
				}
				if err := store.SaveSnapshot(cmd.Context(), next); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "added %s\n", label)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&builtin, "builtin", "", "add a catalog engine by name")
	return cmd
}

func resolveAddArgs(builtin string, args []string) (string, string, error) {
	if builtin == "" {
		return args[0], args[1], nil
	}
	for _, engine := range ctxsearch.Catalog() {
		if strings.EqualFold(engine.Name, builtin) {
			return engine.Name, engine.Template, nil
		}
	}
	return "", "", fmt.Errorf("no built-in engine named %q", builtin)
}

func (c *cli) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the target list with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd.Context(), func(store *storage.Store) error {
				snap, err := store.LoadSnapshot(cmd.Context())
				if err != nil && !errors.As(err, new(*ctxsearch.ConfigParseError)) {
					return err
				}
				snap.Entries = ctxsearch.DefaultEntries()
				return store.SaveSnapshot(cmd.Context(), snap)
			})
		},
	}
}

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the target list with a JSON entry list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if err := ctxsearch.ValidateEntriesJSON(raw); err != nil {
				return err
			}
			entries, err := ctxsearch.ParseEntries(raw)
			if err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(store *storage.Store) error {
				snap, err := store.LoadSnapshot(cmd.Context())
				if err != nil && !errors.As(err, new(*ctxsearch.ConfigParseError)) {
					return err
				}
				snap.Entries = entries
				if err := store.SaveSnapshot(cmd.Context(), snap); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "imported %d entries\n", len(entries))
				return nil
			})
		},
	}
}

func readInput(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(name)
	return string(data), err
}

func (c *cli) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the target list as JSON, one entry per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd.Context(), func(store *storage.Store) error {
				snap, err := store.LoadSnapshot(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(c.out, ctxsearch.CompactJSON(snap.Entries.String()))
				return nil
			})
		},
	}
}

func (c *cli) setCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "set <background|adjacent|options|debug> <bool>",
		Short:     "Change a preference",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"background", "adjacent", "options", "debug"},
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[1], err)
			}
			return c.withStore(cmd.Context(), func(store *storage.Store) error {
				prefs, err := store.LoadPreferences(cmd.Context())
				if err != nil {
					return err
				}
				switch args[0] {
				case "background":
					prefs.OpenInBackground = value
				case "adjacent":
					prefs.OpenAdjacent = value
				case "options":
					prefs.ShowOptionsItem = value
				case "debug":
					prefs.Debug = value
				default:
					return fmt.Errorf("unknown preference %q", args[0])
				}
				if err := store.SavePreferences(cmd.Context(), prefs); err != nil {
					return err
				}
				writePreferences(c.out, prefs)
				return nil
			})
		},
	}
}
