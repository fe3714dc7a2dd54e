package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/genscope/internal/utils"
	"github.com/sw33tLie/genscope/pkg/platforms"
	"github.com/sw33tLie/genscope/pkg/platforms/immunefi"
	"github.com/sw33tLie/genscope/pkg/scope"
	"github.com/sw33tLie/genscope/pkg/storage"
)

type initOptions struct {
	Slug     string
	NoOutput bool
	UseDB    bool
	DBPath   string
}

// initCmd implements: genscope init --slug <slug>
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Extract the payouts and assets of an Immunefi program",
	Long:  "Downloads https://immunefi.com/bounty/<slug> and prints its reward tiers and in-scope assets as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unknown argument: '%s'. See 'genscope init --help'", args[0])
		}
		if err := setupHTTP(); err != nil {
			return err
		}

		slug, _ := cmd.Flags().GetString("slug")
		noOutput, _ := cmd.Flags().GetBool("no-output")
		useDB, _ := cmd.Flags().GetBool("db")

		opts := initOptions{Slug: slug, NoOutput: noOutput, UseDB: useDB}
		if useDB {
			dbPath, err := resolveDBPath(cmd)
			if err != nil {
				return err
			}
			opts.DBPath = dbPath
		}

		poller := immunefi.NewPoller(viper.GetString("immunefi.baseurl"), nil)
		return runInit(cmd.Context(), poller, opts, os.Stdout, os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringP("slug", "s", "", "Program slug, as in https://immunefi.com/bounty/<slug>")
	initCmd.Flags().Bool("no-output", false, "Run the extraction without printing the JSON")
	initCmd.Flags().Bool("db", false, "Archive the run to the database and print changes since the last run")
	initCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default: ~/.config/genscope/genscope.sqlite)")
	initCmd.MarkFlagRequired("slug")
}

// runInit fetches one program, optionally archives it and prints its JSON to stdout.
// Change reports go to stderr.
func runInit(ctx context.Context, fetcher platforms.ProgramFetcher, opts initOptions, stdout, stderr io.Writer) error {
	slug := strings.TrimSpace(opts.Slug)
	if slug == "" {
		return errors.New("a program slug is required")
	}

	utils.Log.Infof("Downloading %s from %s", slug, fetcher.Name())
	program, err := fetcher.FetchProgram(ctx, slug)
	if err != nil {
		return err
	}
	utils.Log.Debugf("Extracted %d payouts and %d assets", len(program.Payouts), len(program.Assets))

	if opts.UseDB {
		if err := archiveProgram(ctx, fetcher, opts.DBPath, slug, program, stderr); err != nil {
			return err
		}
	}

	if opts.NoOutput {
		return nil
	}

	data, err := program.JSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, data)
	return err
}

func archiveProgram(ctx context.Context, fetcher platforms.ProgramFetcher, dbPath, slug string, program scope.Program, w io.Writer) error {
	if err := utils.EnsureDBDir(dbPath); err != nil {
		return err
	}

	lock, err := utils.NewDBLock(dbPath)
	if err != nil {
		return err
	}
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	db, err := storage.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	existed, err := db.ProgramExists(ctx, slug)
	if err != nil {
		return err
	}

	changes, err := db.SaveProgram(ctx, fetcher.Name(), slug, fetcher.ProgramURL(slug), program)
	if err != nil {
		return fmt.Errorf("archiving %s: %w", slug, err)
	}

	if !existed {
		utils.Log.Infof("First run for %s, archived %d payouts and %d assets", slug, len(program.Payouts), len(program.Assets))
		return nil
	}
	printChanges(w, changes)
	return nil
}

func printChanges(w io.Writer, changes []storage.Change) {
	for _, c := range changes {
		var emoji string
		switch c.ChangeType {
		case storage.ChangeAdded:
			emoji = "🆕"
		case storage.ChangeRemoved:
			emoji = "❌"
		case storage.ChangeUpdated:
			emoji = "🔄"
		}

		detail := ""
		if c.Detail != "" {
			detail = " (" + c.Detail + ")"
		}
		fmt.Fprintf(w, "%s  %s  %s  %-6s  %s  %s%s\n", emoji, c.Platform, c.ProgramURL, c.Kind, c.Category, c.Subject, detail)
	}
}
