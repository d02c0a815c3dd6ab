package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jask/splatcam/internal/config"
	"github.com/jask/splatcam/internal/database"
	"github.com/jask/splatcam/internal/database/repository"
	"github.com/jask/splatcam/internal/service"
)

const historyTimeFormat = "2006-01-02 15:04"

func newHistoryCmd(cfg *config.Config) *cobra.Command {
	var (
		format string
		status string
		since  time.Duration
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if since < 0 {
				return fmt.Errorf("--since must not be negative")
			}
			filters := repository.ScanFilters{Status: repository.ScanStatus(status), Limit: limit}
			if since > 0 {
				filters.Since = time.Now().Add(-since)
			}
			return withJournal(cmd.Context(), cfg, func(db *sql.DB) error {
				repo := repository.NewScanRepo(db)
				scans, err := repo.List(cmd.Context(), filters)
				if err != nil {
					return err
				}
				if format == "yaml" {
					return writeHistoryYAML(cmd.OutOrStdout(), scans)
				}
				counts, err := repo.Count(cmd.Context())
				if err != nil {
					return err
				}
				return writeHistoryText(cmd.OutOrStdout(), scans, counts)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text or yaml")
	cmd.Flags().StringVar(&status, "status", "", "only scans with this status (capturing, processing, viewed, abandoned)")
	cmd.Flags().DurationVar(&since, "since", 0, "only scans started within this long, e.g. 24h")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum scans to list (0 for all)")

	cmd.AddCommand(newHistoryShowCmd(cfg), newHistoryPurgeCmd(cfg))
	return cmd
}

func newHistoryShowCmd(cfg *config.Config) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <scan-id>",
		Short: "Show one recorded scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return withJournal(cmd.Context(), cfg, func(db *sql.DB) error {
				scan, err := repository.NewScanRepo(db).Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if scan == nil {
					return fmt.Errorf("no scan %q", args[0])
				}
				if format == "yaml" {
					return writeHistoryYAML(cmd.OutOrStdout(), []repository.Scan{*scan})
				}
				return writeScanDetail(cmd.OutOrStdout(), *scan)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text or yaml")
	return cmd
}

func newHistoryPurgeCmd(cfg *config.Config) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every recorded scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to purge without --yes")
			}
			return withJournal(cmd.Context(), cfg, func(db *sql.DB) error {
				removed, err := (&service.MaintenanceService{DB: db}).Purge(cmd.Context())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %d scans\n", removed)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the purge")
	return cmd
}

func withJournal(ctx context.Context, cfg *config.Config, fn func(*sql.DB) error) error {
	db, err := database.OpenMigrated(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer db.Close()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(db)
}

func checkFormat(format string) error {
	if format != "text" && format != "yaml" {
		return fmt.Errorf("unknown --format %q (text or yaml)", format)
	}
	return nil
}

func writeScanDetail(w io.Writer, s repository.Scan) error {
	asset := "-"
	if s.AssetURL != nil {
		asset = *s.AssetURL
	}
	_, err := fmt.Fprintf(w, "id:       %s\nstatus:   %s\nimages:   %d\nasset:    %s\nstarted:  %s\nupdated:  %s\n",
		s.ID, s.Status, s.ImageCount, asset,
		s.StartedAt.Local().Format(historyTimeFormat), s.UpdatedAt.Local().Format(historyTimeFormat))
	if err != nil {
		return err
	}
	for _, fp := range s.Fingerprints {
		if _, err := fmt.Fprintf(w, "  %s\n", fp); err != nil {
			return err
		}
	}
	return nil
}

func writeHistoryText(w io.Writer, scans []repository.Scan, counts map[repository.ScanStatus]int) error {
	if len(scans) == 0 {
		_, err := fmt.Fprintln(w, "no scans recorded")
		return err
	}
	for _, s := range scans {
		if _, err := fmt.Fprintln(w, formatScanLine(s)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, formatTotals(counts))
	return err
}

func formatTotals(counts map[repository.ScanStatus]int) string {
	var parts []string
	total := 0
	for _, st := range []repository.ScanStatus{repository.ScanViewed, repository.ScanAbandoned, repository.ScanProcessing, repository.ScanCapturing} {
		if n := counts[st]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, st))
			total += n
		}
	}
	return fmt.Sprintf("%d scans: %s", total, strings.Join(parts, ", "))
}

func formatScanLine(s repository.Scan) string {
	id := s.ID
	if len(id) > 8 {
		id = id[:8]
	}
	line := fmt.Sprintf("%s  %s  %-10s  %2d images", id, s.StartedAt.Local().Format(historyTimeFormat), s.Status, s.ImageCount)
	if s.AssetURL != nil {
		line += "  " + *s.AssetURL
	}
	return line
}

type historyEntry struct {
	ID           string    `yaml:"id"`
	Status       string    `yaml:"status"`
	Images       int       `yaml:"images"`
	Asset        string    `yaml:"asset,omitempty"`
	Fingerprints []string  `yaml:"fingerprints,omitempty"`
	StartedAt    time.Time `yaml:"started_at"`
	UpdatedAt    time.Time `yaml:"updated_at"`
}

func writeHistoryYAML(w io.Writer, scans []repository.Scan) error {
	entries := make([]historyEntry, 0, len(scans))
	for _, s := range scans {
		e := historyEntry{
			ID:           s.ID,
			Status:       string(s.Status),
			Images:       s.ImageCount,
			Fingerprints: s.Fingerprints,
			StartedAt:    s.StartedAt.UTC(),
			UpdatedAt:    s.UpdatedAt.UTC(),
		}
		if s.AssetURL != nil {
			e.Asset = *s.AssetURL
		}
		entries = append(entries, e)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string][]historyEntry{"scans": entries}); err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return enc.Close()
}
