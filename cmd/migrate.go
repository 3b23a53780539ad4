package cmd

import (
	"fmt"

	"catalog-mirror/core/database"
	catalogmodels "catalog-mirror/feature/catalog/models"
	storemodels "catalog-mirror/feature/storefront/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

// migrateCmd creates or updates the tables and seeds the offer types.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the catalog and store tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.log.Sync()

		models := append(catalogmodels.All(), storemodels.All()...)
		if err := database.Migrate(e.db, models...); err != nil {
			return err
		}

		// Existing offer types keep their names and positions.
		seed := e.db.WithContext(cmd.Context()).Clauses(clause.OnConflict{DoNothing: true}).Create(&catalogmodels.DefaultOfferTypes)
		if seed.Error != nil {
			return fmt.Errorf("failed to seed offer types: %w", seed.Error)
		}

		e.log.Info("Migration finished", zap.Int("tables", len(models)), zap.Int64("offer_types_seeded", seed.RowsAffected))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
