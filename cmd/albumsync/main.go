package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/five82/albumsync/internal/app"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "albumsync",
		Short: "Browse albums from a remote catalogue with a local cache",
		Long: `albumsync fetches albums from a JSON catalogue, keeps a local SQLite copy
and shows them in a terminal UI. When the server is slow the cached copy is
shown instead; when the network is down the UI says so.

Running albumsync without a subcommand starts the UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), options())
		},
	}
	addPersistentFlags(root)
	registerCommands(root)
	return root
}

func main() {
	os.Exit(run())
}

func run() int {
	cobra.OnInitialize(initConfig)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return execute(ctx, newRootCmd(), os.Args[1:], os.Stderr)
}

// execute runs root with args and returns the process exit code. Errors are
// printed once, to stderr.
func execute(ctx context.Context, root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "albumsync: %v\n", err)
		return 1
	}
	return 0
}

func initConfig() {
	viper.SetEnvPrefix("ALBUMSYNC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ~/.config/albumsync/config.toml)")
	flags.String("prefs", "", "preferences file (default ~/.config/albumsync/prefs.toml)")
	flags.String("base-url", "", "album server base URL")
	flags.String("db", "", "SQLite database path, or :memory:")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.Int("poll", 0, "refresh interval in seconds")
	flags.Bool("json", false, "output JSON")
	for _, name := range []string{"config", "prefs", "base-url", "db", "log-level", "poll", "json"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func registerCommands(root *cobra.Command) {
	root.AddCommand(fetchCmd())
	root.AddCommand(ownersCmd())
	root.AddCommand(twinCmd())
	root.AddCommand(logsCmd())
}

// options collects flag and ALBUMSYNC_* environment overrides.
func options() app.Options {
	return app.Options{
		ConfigPath: viper.GetString("config"),
		PrefsPath:  viper.GetString("prefs"),
		BaseURL:    viper.GetString("base-url"),
		DBPath:     viper.GetString("db"),
		LogLevel:   viper.GetString("log-level"),
		PollEvery:  viper.GetInt("poll"),
	}
}
