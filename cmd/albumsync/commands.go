package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/five82/albumsync/internal/app"
	"github.com/five82/albumsync/internal/logtail"
	"github.com/five82/albumsync/internal/state"
	"github.com/five82/albumsync/internal/twin"
)

func fetchCmd() *cobra.Command {
	var cacheFirst bool
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch albums once and print them",
		Long: `Fetch albums from the server and store them locally. On a timeout the
cached albums are printed instead. With --cache-first the cache is printed
when it has albums and the server is only asked when it is empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(env *app.Env) error {
				run := env.Controller.Refresh
				if cacheFirst {
					run = env.Controller.RefreshCacheFirst
				}
				if err := run(cmd.Context()); err != nil {
					return err
				}
				return printSnapshot(cmd.OutOrStdout(), cmd.ErrOrStderr(), env.State.Snapshot())
			})
		},
	}
	cmd.Flags().BoolVar(&cacheFirst, "cache-first", false, "prefer the local cache")
	return cmd
}

func ownersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "owners ID...",
		Short: "Print cached albums of the given owners",
		Long: `Print the cached albums of each owner in argument order. Repeated ids
print their albums again. The server is not contacted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil || id < 0 {
					return fmt.Errorf("invalid owner id %q", arg)
				}
				ids = append(ids, id)
			}
			return withEnv(func(env *app.Env) error {
				if err := env.Controller.ShowOwners(cmd.Context(), ids); err != nil {
					return err
				}
				return printSnapshot(cmd.OutOrStdout(), cmd.ErrOrStderr(), env.State.Snapshot())
			})
		},
	}
}

func twinCmd() *cobra.Command {
	var (
		addr    string
		fixture string
		fault   twin.Fault
	)
	cmd := &cobra.Command{
		Use:   "twin",
		Short: "Serve a local album catalogue for development",
		Long: `Serve GET /albums from a YAML fixture. --delay and --status inject the
slow and failing responses albumsync has to cope with; both can be changed
at runtime with PUT /admin/fault.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			albums := twin.DefaultAlbums()
			if fixture != "" {
				loaded, err := twin.LoadFixture(fixture)
				if err != nil {
					return err
				}
				albums = loaded
			}
			logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), nil))
			srv := twin.New(albums, fault, logger)
			fmt.Fprintf(cmd.OutOrStdout(), "serving %d albums on http://%s/\n", len(albums), addr)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8089", "listen address")
	cmd.Flags().StringVar(&fixture, "fixture", "", "YAML fixture file (default built-in albums)")
	cmd.Flags().DurationVar(&fault.Delay, "delay", 0, "delay every /albums response")
	cmd.Flags().IntVar(&fault.Status, "status", 0, "answer /albums with this HTTP status")
	return cmd
}

func logsCmd() *cobra.Command {
	var (
		lines int
		raw   bool
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the albumsync log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(options())
			if err != nil {
				return err
			}
			out, err := logtail.Read(cfg.LogPath, lines)
			if err != nil {
				return err
			}
			if !raw {
				out = logtail.ColorizeLines(out)
			}
			for _, line := range out {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines, 0 for all")
	cmd.Flags().BoolVar(&raw, "raw", false, "print JSON lines unformatted")
	return cmd
}

func withEnv(fn func(env *app.Env) error) error {
	env, err := app.Build(options())
	if err != nil {
		return err
	}
	defer env.Close()
	return fn(env)
}

type albumJSON struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
}

type snapshotJSON struct {
	Albums      []albumJSON `json:"albums"`
	FromCache   bool        `json:"from_cache"`
	Error       string      `json:"error,omitempty"`
	LastUpdated *time.Time  `json:"last_updated,omitempty"`
}

// printSnapshot writes the albums as a table, or JSON with --json. The
// error message, if any, goes to errOut.
func printSnapshot(out, errOut io.Writer, snap state.Snapshot) error {
	if viper.GetBool("json") {
		return printJSON(out, toJSON(snap))
	}
	if msg := snap.Error.Message(); msg != "" {
		fmt.Fprintln(errOut, msg)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"ID", "Owner", "Title"})
	for _, a := range snap.Albums {
		tw.AppendRow(table.Row{a.ID, a.UserID, a.Title})
	}
	source := "server"
	if snap.FromCache {
		source = "cache"
	}
	tw.AppendFooter(table.Row{"", "", fmt.Sprintf("%d albums from %s", len(snap.Albums), source)})
	tw.Render()
	return nil
}

func toJSON(snap state.Snapshot) snapshotJSON {
	out := snapshotJSON{
		Albums:    make([]albumJSON, 0, len(snap.Albums)),
		FromCache: snap.FromCache,
	}
	if snap.Error != state.ErrorNone {
		out.Error = snap.Error.String()
	}
	if !snap.LastUpdated.IsZero() {
		t := snap.LastUpdated
		out.LastUpdated = &t
	}
	for _, a := range snap.Albums {
		out.Albums = append(out.Albums, albumJSON(a))
	}
	return out
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
