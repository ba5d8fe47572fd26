// Command stash-share is the short-lived share handler. Other
// applications hand payloads to it; it writes them into the shared
// store as inbox items and exits. It always exits 0 and reports
// per-attachment outcomes as JSON so providers never see a hard failure.
package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/stash/internal/config"
	"github.com/hpungsan/stash/internal/db"
	"github.com/hpungsan/stash/internal/ops"
	"github.com/hpungsan/stash/internal/share"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	app := &cli.App{
		Name:    "stash-share",
		Usage:   "Save shared links, text, and images into the stash inbox",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "url", Aliases: []string{"u"}, Usage: "Shared URL (repeatable)"},
			&cli.StringSliceFlag{Name: "text", Aliases: []string{"t"}, Usage: "Shared text (repeatable)"},
			&cli.StringSliceFlag{Name: "image", Aliases: []string{"i"}, Usage: "Path to a shared image file (repeatable)"},
		},
		Action: run,
	}

	// The share process never signals failure to its caller; outcomes
	// are carried in the JSON results instead.
	if err := app.Run(os.Args); err != nil {
		log.Printf("stash-share: %v", err)
	}
}

func run(c *cli.Context) error {
	attachments := collectAttachments(c)
	if len(attachments) == 0 {
		return outputResults(nil)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return outputResults(allFailed(attachments, fmt.Sprintf("could not determine home directory: %v", err)))
	}
	baseDir := filepath.Join(homeDir, ".stash")

	cfg, err := config.Load(baseDir)
	if err != nil {
		return outputResults(allFailed(attachments, fmt.Sprintf("failed to load config: %v", err)))
	}

	// Same shared-directory resolution as the main process; the path is
	// the contract that makes both see one store.
	database, err := db.Init(cfg.ResolveSharedDir(baseDir))
	if err != nil {
		log.Printf("stash-share: failed to open store: %v", err)
		return outputResults(allFailed(attachments, fmt.Sprintf("failed to open store: %v", err)))
	}
	defer database.Close()

	results := ingest(database, attachments)

	// Brief grace so WAL frames land before the process dies.
	if cfg.ShareGraceMS > 0 {
		time.Sleep(time.Duration(cfg.ShareGraceMS) * time.Millisecond)
	}

	return outputResults(results)
}

// ingest saves the batch, seeding the bucket registry first: a share can
// be the first write a fresh store ever sees, before the main app has
// launched once. EnsureDefaultBuckets is idempotent and tolerates the
// main process seeding concurrently.
func ingest(database *sql.DB, attachments []share.Attachment) []share.Result {
	if _, err := ops.EnsureDefaultBuckets(database); err != nil {
		log.Printf("stash-share: failed to seed buckets: %v", err)
		return allFailed(attachments, fmt.Sprintf("failed to seed buckets: %v", err))
	}
	return share.Ingest(database, attachments)
}

// collectAttachments builds the attachment batch from the CLI flags.
func collectAttachments(c *cli.Context) []share.Attachment {
	return buildAttachments(c.StringSlice("url"), c.StringSlice("text"), c.StringSlice("image"))
}

// buildAttachments assembles the batch in flag order: URLs, then texts,
// then images.
func buildAttachments(urls, texts, imagePaths []string) []share.Attachment {
	var attachments []share.Attachment

	for _, u := range urls {
		attachments = append(attachments, share.Attachment{
			ContentType: "text/uri-list",
			Data:        []byte(u),
		})
	}
	for _, t := range texts {
		attachments = append(attachments, share.Attachment{
			ContentType: "text/plain",
			Data:        []byte(t),
		})
	}
	for _, path := range imagePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			// A placeholder attachment keeps the result indexes aligned
			// with the caller's inputs; Ingest will reject it.
			log.Printf("stash-share: cannot read image %s: %v", path, err)
			attachments = append(attachments, share.Attachment{ContentType: "unreadable"})
			continue
		}
		attachments = append(attachments, share.Attachment{
			ContentType: http.DetectContentType(data),
			Data:        data,
		})
	}

	return attachments
}

// allFailed produces a failure result per attachment with a shared reason.
func allFailed(attachments []share.Attachment, reason string) []share.Result {
	results := make([]share.Result, len(attachments))
	for i := range attachments {
		results[i] = share.Result{Index: i, Error: reason}
	}
	return results
}

// outputResults writes the result list as JSON to stdout.
func outputResults(results []share.Result) error {
	if results == nil {
		results = []share.Result{}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
