package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	ctxsearch "github.com/goliatone/go-ctxsearch"
	"github.com/goliatone/go-ctxsearch/hosts/memhost"
	"github.com/goliatone/go-ctxsearch/hosts/rodhost"
	"github.com/goliatone/go-ctxsearch/internal/config"
	"github.com/goliatone/go-ctxsearch/pkg/activity/usersink"
	"github.com/goliatone/go-ctxsearch/storage"
)

// cli holds the state shared by every subcommand.
type cli struct {
	out io.Writer

	configPath string
	dataDir    string
	optionsURL string
	verbose    bool
	dryRun     bool

	cfg     config.Config
	logger  *zap.Logger
	level   zap.AtomicLevel
	session string
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "ctxsearch",
		Short: "Send selected text to configured search engines",
		Long: `ctxsearch keeps an ordered list of search targets, builds a context menu
from the enabled ones and opens the rendered URLs in browser tabs.

Templates may contain TESTSEARCH or %s (percent-encoded selection),
NOENCODESEARCH (raw selection) and one %{s:FROM-TO} charset directive.
Several templates separated by spaces open several tabs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = c.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/ctxsearch/config.yaml)")
	flags.StringVar(&c.dataDir, "data-dir", "", "directory holding the storage databases")
	flags.StringVar(&c.optionsURL, "options-url", "", "URL opened by the Options menu item")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&c.dryRun, "dry-run", false, "print URLs instead of opening browser tabs")

	root.AddCommand(
		c.initCmd(),
		c.statusCmd(),
		c.listCmd(),
		c.catalogCmd(),
		c.addCmd(),
		c.resetCmd(),
		c.importCmd(),
		c.exportCmd(),
		c.setCmd(),
		c.renderCmd(),
		c.searchCmd(),
		c.menuCmd(),
		c.watchCmd(),
		c.evalCmd(),
	)
	return root
}

// setup resolves flags over the config file over the defaults and builds the
// logger.
func (c *cli) setup() error {
	dir := c.dataDir
	if dir == "" {
		var err error
		if dir, err = config.Dir(); err != nil {
			return err
		}
	}
	path := c.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	c.configPath = path

	flagLayer := config.Config{OptionsURL: c.optionsURL}
	if c.dataDir != "" {
		flagLayer.Storage = config.Defaults(c.dataDir).Storage
	}
	if c.verbose {
		flagLayer.Log.Level = "debug"
	}
	cfg, err := config.Load(path, dir, flagLayer)
	if err != nil {
		return err
	}
	c.cfg = cfg

	logger, level, err := cfg.Log.Logger()
	if err != nil {
		return err
	}
	c.session = uuid.NewString()
	c.logger = logger.With(zap.String("session", c.session))
	c.level = level
	return nil
}

// openStore opens both storage tiers. The returned function closes them.
func (c *cli) openStore(ctx context.Context) (*storage.Store, func(), error) {
	log := c.logger.Named("storage")
	sqliteOpts := []storage.SQLiteOption{
		storage.WithSQLiteLogger(log),
		storage.WithDebounce(c.cfg.Storage.Debounce),
	}

	local, err := storage.OpenSQLite(ctx, "local", c.cfg.Storage.LocalPath, sqliteOpts...)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{local.Close}
	closeAll := func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				log.Warn("close storage", zap.Error(err))
			}
		}
	}

	var durable storage.Area
	if c.cfg.Storage.SyncPath != "" {
		syncArea, err := storage.OpenSQLite(ctx, "sync", c.cfg.Storage.SyncPath, sqliteOpts...)
		if err != nil {
			log.Info("sync storage unavailable", zap.Error(err))
		} else {
			durable = syncArea
			closers = append(closers, syncArea.Close)
		}
	}

	store, err := storage.New(durable, local,
		storage.WithLogger(log),
		storage.WithActivityHooks(usersink.Hook{Sink: logSink{logger: c.logger.Named("activity")}, ActorID: c.session}),
	)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	return store, closeAll, nil
}

// tabHost returns the browser tab host, or a printing in-memory host for
// --dry-run.
func (c *cli) tabHost() (ctxsearch.TabHost, func(), error) {
	if c.dryRun {
		tabs := memhost.NewTabs(1)
		tabs.OnCreate(func(props ctxsearch.CreateProperties) {
			fmt.Fprintln(c.out, props.URL)
		})
		return tabs, func() {}, nil
	}
	browser, err := rodhost.Connect(rodhost.BrowserOptions{
		ControlURL: c.cfg.Browser.ControlURL,
		Bin:        c.cfg.Browser.Bin,
		Headless:   c.cfg.Browser.IsHeadless(),
	})
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := browser.Close(); err != nil {
			c.logger.Warn("close browser", zap.Error(err))
		}
	}
	return rodhost.New(browser, rodhost.WithLogger(c.logger.Named("tabs"))), closeFn, nil
}
