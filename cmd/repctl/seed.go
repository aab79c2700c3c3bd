package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"landlord_rep/internal/shared"
	mysqlrepo "landlord_rep/internal/storage/mysql"
)

type seedOptions struct {
	root  string
	files []string
	dsn   string
}

func newSeedCmd(root *rootOptions) *cobra.Command {
	opts := &seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed [pattern...]",
		Short: "Load review fixtures into MySQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.files = append(opts.files, args...)
			if opts.dsn == "" {
				cfg, err := shared.Load(root.configFile)
				if err != nil {
					return err
				}
				opts.dsn = cfg.MySQLDSN
			}
			return runSeed(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.root, "root", ".", "directory the patterns are relative to")
	cmd.Flags().StringSliceVarP(&opts.files, "files", "f", nil, "fixture glob patterns")
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "MySQL DSN (default: MYSQL_DSN from config)")
	return cmd
}

func runSeed(ctx context.Context, cmd *cobra.Command, opts *seedOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	paths, err := findFixtures(opts.root, opts.files)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no fixtures match")
	}
	fx, err := readFixtures(paths)
	if err != nil {
		return err
	}

	db, err := sql.Open("mysql", opts.dsn)
	if err != nil {
		return fmt.Errorf("open mysql: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping mysql: %w", err)
	}

	nl, nr, err := loadFixtures(ctx, mysqlrepo.New(db), fx, time.Now().UTC())
	log.Info().Int("landlords", nl).Int("reviews", nr).Msg("seed finished")
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d landlords and %d reviews from %d files\n", nl, nr, len(paths))
	return nil
}
