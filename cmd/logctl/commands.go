package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/narvanalabs/logsight/internal/ai"
	"github.com/narvanalabs/logsight/internal/analysis"
	"github.com/narvanalabs/logsight/internal/loader"
	"github.com/narvanalabs/logsight/internal/models"
	"github.com/narvanalabs/logsight/internal/ui"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the log tables and indexes if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			fmt.Fprintln(cmd.OutOrStdout(), ui.InfoStyle.Render("✓ Schema ready"))
			return nil
		},
	}
}

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Load a log file into the store",
		Long: `Parse every line of the file and store the valid ones. Lines that do not
parse are skipped and counted. Unlike the server's startup seed, this runs
even when the store already holds entries.

Examples:
  logctl load logs/app.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := loader.New(st, a.log.Logger).LoadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", ui.InfoStyle.Render("✓ Loaded"), res.Path)
			fmt.Fprintf(out, "  load id:  %s\n", ui.MutedStyle.Render(res.LoadID))
			fmt.Fprintf(out, "  lines:    %d\n", res.Lines)
			fmt.Fprintf(out, "  inserted: %d\n", res.Inserted)
			fmt.Fprintf(out, "  skipped:  %d\n", res.Skipped)
			if res.Failed > 0 {
				fmt.Fprintf(out, "  failed:   %s\n", ui.ErrorStyle.Render(fmt.Sprint(res.Failed)))
			}
			return nil
		},
	}
}

func newLogsCmd(a *app) *cobra.Command {
	var (
		levels  string
		asJSON  bool
		maxRows int
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List stored entries with their sources, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			var filter models.LogFilter
			for _, level := range strings.Split(levels, ",") {
				if level = strings.TrimSpace(level); level != "" {
					filter.Levels = append(filter.Levels, level)
				}
			}

			views, err := st.Logs().ListWithSources(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("listing logs: %w", err)
			}
			if maxRows > 0 && len(views) > maxRows {
				views = views[:maxRows]
			}
			if views == nil {
				views = []*models.LogView{}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			}

			ui.PrintLogTable(cmd.OutOrStdout(), views)
			return nil
		},
	}

	cmd.Flags().StringVarP(&levels, "level", "l", "", "Only show these levels (comma separated, e.g. ERROR,WARNING)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the API's JSON instead of a table")
	cmd.Flags().IntVarP(&maxRows, "limit", "n", 0, "Show at most this many entries (0 for all)")
	return cmd
}

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Print an AI summary of the most recent entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.RequireAI(); err != nil {
				return err
			}
			st, err := a.store(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			completer := ai.NewClient(ai.Config{
				APIKey:  a.cfg.AI.APIKey,
				BaseURL: a.cfg.AI.BaseURL,
				Model:   a.cfg.AI.Model,
				Timeout: a.cfg.AI.Timeout,
			}, a.log.WithComponent("ai").Logger)

			text, err := analysis.NewService(st, completer, a.log.Logger).Analyze(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
