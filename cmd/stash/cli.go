package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/stash/internal/config"
	"github.com/hpungsan/stash/internal/errors"
	"github.com/hpungsan/stash/internal/importer"
	"github.com/hpungsan/stash/internal/kv"
	"github.com/hpungsan/stash/internal/notify"
	"github.com/hpungsan/stash/internal/ops"
	"github.com/hpungsan/stash/internal/photolib"
	"github.com/hpungsan/stash/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, baseDir, homeDir string) *cli.App {
	app := &cli.App{
		Name:    "stash",
		Usage:   "Capture now, organize later",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(db),
			getCmd(db),
			moveCmd(db),
			noteCmd(db),
			attachCmd(db),
			deleteCmd(db),
			listCmd(db),
			bucketsCmd(db),
			renameBucketCmd(db),
			dashboardCmd(db),
			repairCmd(db),
			seedDemoCmd(db, baseDir),
			serveCmd(db, cfg, baseDir, homeDir),
			watchCmd(db, cfg, baseDir, homeDir),
			webCmd(db, cfg, baseDir),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd creates the add command.
func addCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Capture a new item",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Required: true, Usage: "Item type: link|voice|text|photo|screenshot"},
			&cli.StringFlag{Name: "bucket", Aliases: []string{"b"}, Usage: "Target bucket (default: inbox)"},
			&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "Link URL"},
			&cli.StringFlag{Name: "note", Aliases: []string{"n"}, Usage: "Note body"},
			&cli.StringFlag{Name: "extracted", Usage: "Extracted text (OCR or transcription)"},
			&cli.StringFlag{Name: "duration", Usage: "Duration caption for voice items"},
			&cli.Float64Flag{Name: "confidence", Usage: "Classification confidence (0-1)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.AddInput{
				Type:       c.String("type"),
				Bucket:     c.String("bucket"),
				Confidence: c.Float64("confidence"),
			}
			if url := c.String("url"); url != "" {
				input.URL = &url
			}
			if note := c.String("note"); note != "" {
				input.NoteBody = &note
			}
			if extracted := c.String("extracted"); extracted != "" {
				input.ExtractedText = &extracted
			}
			if duration := c.String("duration"); duration != "" {
				input.DurationCaption = &duration
			}

			output, err := ops.Add(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// getCmd creates the get command.
func getCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch an item by ID",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-content", Usage: "Include the content blob (base64) in output"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Fetch(db, ops.FetchInput{
				ID:             c.Args().First(),
				IncludeContent: c.Bool("include-content"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// moveCmd creates the move command.
func moveCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "move",
		Usage:     "Move an item to a bucket (marks it processed)",
		ArgsUsage: "<id> <bucket>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: stash move <id> <bucket>"))
			}

			output, err := ops.Move(db, ops.MoveInput{
				ID:     c.Args().Get(0),
				Bucket: c.Args().Get(1),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// noteCmd creates the note command.
func noteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "note",
		Usage:     "Update an item's note body and/or extracted text",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "note", Aliases: []string{"n"}, Usage: "New note body"},
			&cli.StringFlag{Name: "extracted", Usage: "New extracted text"},
		},
		Action: func(c *cli.Context) error {
			input := ops.AnnotateInput{ID: c.Args().First()}

			if c.IsSet("note") {
				note := c.String("note")
				input.NoteBody = &note
			}
			if c.IsSet("extracted") {
				extracted := c.String("extracted")
				input.ExtractedText = &extracted
			}

			output, err := ops.Annotate(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// attachCmd creates the attach command.
func attachCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "attach",
		Usage:     "Attach a content blob to an item (from --file or stdin)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "File to attach"},
		},
		Action: func(c *cli.Context) error {
			var content []byte
			var err error

			if path := c.String("file"); path != "" {
				content, err = os.ReadFile(path)
				if err != nil {
					return outputError(errors.NewInvalidRequest(fmt.Sprintf("cannot read file: %v", err)))
				}
			} else if stdinHasData() {
				content, err = io.ReadAll(os.Stdin)
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
			} else {
				return outputError(errors.NewInvalidRequest("content must come from --file or stdin"))
			}

			output, err := ops.Attach(db, ops.AttachInput{
				ID:      c.Args().First(),
				Content: content,
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete an item",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(db, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List items newest-first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bucket", Aliases: []string{"b"}, Usage: "Filter by bucket"},
			&cli.BoolFlag{Name: "unprocessed", Usage: "Only unprocessed items"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ListInput{
				Bucket: c.String("bucket"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			}
			if c.Bool("unprocessed") {
				processed := false
				input.Processed = &processed
			}

			output, err := ops.List(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// bucketsCmd creates the buckets command.
func bucketsCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "buckets",
		Usage: "List buckets with item counts",
		Action: func(c *cli.Context) error {
			output, err := ops.ListBuckets(db)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// renameBucketCmd creates the rename-bucket command.
func renameBucketCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "rename-bucket",
		Usage:     "Change a bucket's display name",
		ArgsUsage: "<system-name> <custom-name>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: stash rename-bucket <system-name> <custom-name>"))
			}

			output, err := ops.RenameBucket(db, ops.RenameBucketInput{
				SystemName: c.Args().Get(0),
				CustomName: c.Args().Get(1),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// dashboardCmd creates the dashboard command.
func dashboardCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "Show the capture summary, today's count, and bucket counts",
		Action: func(c *cli.Context) error {
			output, err := ops.Dashboard(db)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// repairCmd creates the repair command.
func repairCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "repair",
		Usage: "Scan for and fix drifted processed flags",
		Action: func(c *cli.Context) error {
			output, err := ops.Repair(db)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// seedDemoCmd creates the seed-demo command.
func seedDemoCmd(db *sql.DB, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "seed-demo",
		Usage: "Insert demo items (runs at most once per installation)",
		Action: func(c *cli.Context) error {
			state, err := openState(baseDir)
			if err != nil {
				return outputError(err)
			}
			defer state.Close()

			output, err := ops.SeedDemo(db, state)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config, baseDir, homeDir string) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web UI and the screenshot importer together",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Directory to watch (default: configured screenshot dir)"},
			&cli.StringFlag{Name: "bind", Usage: "Bind address (default: configured bind)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (default: configured port)"},
		},
		Action: func(c *cli.Context) error {
			// One process, one state store: the web UI's heartbeat and
			// the importer's foreground gate must see the same store,
			// and bbolt holds an exclusive file lock.
			state, err := openState(baseDir)
			if err != nil {
				return outputError(err)
			}
			defer state.Close()

			dir := c.String("dir")
			if dir == "" {
				dir = cfg.ResolveScreenshotDir(homeDir)
			}

			library, err := photolib.NewDirWatcher(dir)
			if err != nil {
				return outputError(err)
			}
			defer library.Close()

			monitor := importer.NewMonitor(
				db,
				state,
				library,
				importer.NewFileFetcher(cfg.ImageMaxDim, cfg.ImageJPEGQuality),
				notify.NewCommandNotifier(cfg.NotifyCommand),
				time.Duration(cfg.ForegroundWindowSecs)*time.Second,
			)

			bind := c.String("bind")
			if bind == "" {
				bind = cfg.WebBind
			}
			port := c.Int("port")
			if port == 0 {
				port = cfg.WebPort
			}
			srv := web.NewServer(db, state, cfg, Version, bind, port)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 2)
			go func() { errCh <- srv.ListenAndServe() }()
			go func() { errCh <- monitor.Run(ctx) }()

			log.Printf("Stash UI running at http://%s", srv.Addr)
			log.Printf("watching %s", dir)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				log.Println("Shutting down...")
				shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutCtx)
			}
		},
	}
}

// watchCmd creates the watch command.
func watchCmd(db *sql.DB, cfg *config.Config, baseDir, homeDir string) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Import new captures without the web UI (the foreground gate never suppresses)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Directory to watch (default: configured screenshot dir)"},
		},
		Action: func(c *cli.Context) error {
			state, err := openState(baseDir)
			if err != nil {
				return outputError(err)
			}
			defer state.Close()

			dir := c.String("dir")
			if dir == "" {
				dir = cfg.ResolveScreenshotDir(homeDir)
			}

			library, err := photolib.NewDirWatcher(dir)
			if err != nil {
				return outputError(err)
			}
			defer library.Close()

			monitor := importer.NewMonitor(
				db,
				state,
				library,
				importer.NewFileFetcher(cfg.ImageMaxDim, cfg.ImageJPEGQuality),
				notify.NewCommandNotifier(cfg.NotifyCommand),
				time.Duration(cfg.ForegroundWindowSecs)*time.Second,
			)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(os.Stderr, "watching %s\n", dir)
			return monitor.Run(ctx)
		},
	}
}

// webCmd creates the web command.
func webCmd(db *sql.DB, cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Run the local web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Bind address (default: configured bind)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (default: configured port)"},
		},
		Action: func(c *cli.Context) error {
			state, err := openState(baseDir)
			if err != nil {
				return outputError(err)
			}
			defer state.Close()

			bind := c.String("bind")
			if bind == "" {
				bind = cfg.WebBind
			}
			port := c.Int("port")
			if port == 0 {
				port = cfg.WebPort
			}

			srv := web.NewServer(db, state, cfg, Version, bind, port)
			return web.Run(srv)
		},
	}
}

// Helper functions

// openState opens the per-installation key-value state store. Only the
// commands that need the ledger, flags, or heartbeat open it; bbolt
// takes an exclusive file lock, so plain CLI commands stay out of its way.
func openState(baseDir string) (*kv.Store, error) {
	return kv.Open(filepath.Join(baseDir, "state.db"))
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if stashErr, ok := err.(*errors.StashError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", stashErr.Code, stashErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
