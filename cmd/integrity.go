package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"catalog-mirror/core/storage"
	catalogmodels "catalog-mirror/feature/catalog/models"
	"catalog-mirror/feature/catalog/syncer"
	"catalog-mirror/feature/integrity"
	storemodels "catalog-mirror/feature/storefront/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the database schema and the snapshot storage",
	Long:  `Compares every catalog and store table with its model and checks the snapshot bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false)
	},
}

// storageCmd represents the integrity storage command
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and optionally create the snapshot bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true)
	},
}

func runIntegrityChecks(ctx context.Context, schema, store bool) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.log.Sync()

	var client storage.Client
	if store {
		if client, err = storage.NewClient(e.cfg.Storage); err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	svc := integrity.NewService(client, e.db, integrity.Options{
		Bucket:       e.cfg.Storage.Bucket,
		Region:       e.cfg.Storage.Region,
		SnapshotKeys: syncer.SnapshotKeys(e.cfg.Sync.SnapshotPrefix, e.cfg.Remote.ArtistIDList()),
		Models:       append(catalogmodels.All(), storemodels.All()...),
	}, e.log)

	report := make(map[string]any)
	failed := false

	if schema {
		res, err := svc.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		if !res.Matched {
			failed = true
			e.log.Warn("Schema drift detected", zap.Strings("errors", res.Errors))
		}
		report["schema"] = res
	}

	if store {
		res, err := svc.CheckStorage(ctx)
		if err != nil {
			return fmt.Errorf("storage check failed: %w", err)
		}
		if !res.Exists && fixFlag {
			if err := svc.FixStorage(ctx); err != nil {
				return err
			}
			if res, err = svc.CheckStorage(ctx); err != nil {
				return fmt.Errorf("storage check failed: %w", err)
			}
		}
		if !res.Exists {
			failed = true
		}
		if len(res.Missing) > 0 {
			e.log.Info("Snapshots missing, a prefetching sync will use the remote API for them", zap.Strings("missing", res.Missing))
		}
		report["storage"] = res
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	if failed {
		return fmt.Errorf("integrity checks found problems")
	}
	return nil
}

func init() {
	storageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket when missing")
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket when missing")

	integrityCmd.AddCommand(schemaCmd, storageCmd)
	RootCmd.AddCommand(integrityCmd)
}
