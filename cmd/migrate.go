package cmd

import (
	"fmt"

	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	generateQueries bool
	generateOutPath string
	columnReport    bool
	failOnMismatch  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Create or update the database schema from the models.

Examples:
  portfolio-api migrate                          # Apply the schema
  portfolio-api migrate --report                 # List columns no model field maps to
  portfolio-api migrate --generate --out ./query # Migrate, then emit gorm/gen query helpers`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		gormDB, err := openDatabase(appConfig)
		if err != nil {
			return err
		}
		db := database.New(gormDB)
		defer db.Close()

		switch {
		case columnReport:
			mismatched, err := models.GenerateColumnMismatchReport(gormDB, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if failOnMismatch && mismatched > 0 {
				return fmt.Errorf("%d column(s) have no model field", mismatched)
			}
			return nil
		case generateQueries:
			return models.GenerateModels(gormDB, generateOutPath)
		default:
			if err := db.Migrate(); err != nil {
				return err
			}
			log.Info().Msg("database schema is up to date")
			return nil
		}
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&columnReport, "report", false, "Print columns that exist in the database but not in the models")
	migrateCmd.Flags().BoolVar(&failOnMismatch, "strict", false, "With --report, exit non-zero when any column is unaccounted for")
	migrateCmd.Flags().BoolVar(&generateQueries, "generate", false, "Migrate, then generate gorm/gen query helpers")
	migrateCmd.Flags().StringVar(&generateOutPath, "out", "./generated", "Output directory for --generate")
	migrateCmd.MarkFlagsMutuallyExclusive("report", "generate")
}
