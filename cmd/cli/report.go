package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/iho/fintrack/internal/adapter/report"
	postgresRepo "github.com/iho/fintrack/internal/adapter/repository/postgres"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/config"
	"github.com/iho/fintrack/internal/infrastructure/postgres"
	"github.com/iho/fintrack/internal/usecase"
)

type reportGenerator interface {
	GenerateReport(ctx context.Context, input usecase.ReportInput, format domain.ReportFormat) (*usecase.ReportDocument, error)
	Formats() []domain.ReportFormat
}

type userFinder interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type reportOptions struct {
	format string
	start  string
	end    string
	user   string
	out    string
}

func reportCmd() *cobra.Command {
	opts := reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a report from the database to a file",
		Example: "  fintrack-cli report --user ana --start 2024-01-01 --end 2024-01-31 --format pdf\n" +
			"  fintrack-cli report --user ana@example.com --start 2024-01-01 --end 2024-12-31 --format spreadsheet --out 2024.xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, 2, 0)
			if err != nil {
				return err
			}
			defer pool.Close()

			userRepo := postgresRepo.NewUserRepository(pool)
			reports := usecase.NewReportUseCase(postgresRepo.NewEntryRepository(pool), userRepo, report.Renderers(), nil)

			path, err := writeReport(ctx, reports, userRepo, opts)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: pdf or spreadsheet")
	cmd.Flags().StringVar(&opts.start, "start", "", "First day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.end, "end", "", "Last day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.user, "user", "", "Username or email of the report owner")
	cmd.Flags().StringVar(&opts.out, "out", "", "Output file (defaults to the report's filename)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// writeReport renders the report described by opts and returns the path written.
func writeReport(ctx context.Context, reports reportGenerator, users userFinder, opts reportOptions) (string, error) {
	if _, err := domain.ParsePeriod(opts.start, opts.end); err != nil {
		return "", err
	}

	format, ok := domain.ParseReportFormat(opts.format)
	if !ok {
		return "", fmt.Errorf("unsupported format %q, expected one of %s", opts.format, formatList(reports.Formats()))
	}

	user, err := findUser(ctx, users, opts.user)
	if err != nil {
		return "", err
	}

	doc, err := reports.GenerateReport(ctx, usecase.ReportInput{
		UserID:    user.ID,
		StartDate: opts.start,
		EndDate:   opts.end,
	}, format)
	if err != nil {
		return "", err
	}

	path := opts.out
	if path == "" {
		path = doc.Filename
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(path, doc.Body, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	log.Info().
		Str("user_id", user.ID).
		Str("format", string(format)).
		Int("entries", len(doc.Report.Entries)).
		Str("path", path).
		Msg("report written")

	return path, nil
}

func findUser(ctx context.Context, users userFinder, login string) (*domain.User, error) {
	if strings.Contains(login, "@") {
		return users.GetByEmail(ctx, login)
	}
	return users.GetByUsername(ctx, login)
}

func formatList(formats []domain.ReportFormat) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
