package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/portfolio-api/auth"
	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type adminAccount struct {
	Email string `validate:"required,email,max=254"`
	// bcrypt ignores everything past 72 bytes
	Password string `validate:"required,min=12,max=72"`
}

var newAdmin adminAccount

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account that can sign in to write content",
	Long: `Create an admin account that can sign in to write content.

Examples:
  portfolio-api admin create --email me@example.com --password 'a long passphrase'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		account := adminAccount{
			Email:    strings.ToLower(strings.TrimSpace(newAdmin.Email)),
			Password: newAdmin.Password,
		}
		if err := validator.New().Struct(account); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				fe := verrs[0]
				return fmt.Errorf("invalid --%s: failed %q rule", strings.ToLower(fe.Field()), fe.Tag())
			}
			return err
		}

		gormDB, err := openDatabase(appConfig)
		if err != nil {
			return err
		}
		db := database.New(gormDB)
		defer db.Close()

		if err := db.Migrate(); err != nil {
			return err
		}

		hash, err := auth.HashPassword(account.Password)
		if err != nil {
			return err
		}
		user := models.User{Email: account.Email, PasswordHash: hash}
		if err := db.UserRepo().Create(cmd.Context(), &user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("an admin with email %s already exists", account.Email)
			}
			return fmt.Errorf("error creating admin: %w", err)
		}

		log.Info().Str("userID", user.ID.String()).Msg("admin created")
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().StringVar(&newAdmin.Email, "email", "", "Admin email address")
	adminCreateCmd.Flags().StringVar(&newAdmin.Password, "password", "", "Admin password (12 to 72 characters)")
	_ = adminCreateCmd.MarkFlagRequired("email")
	_ = adminCreateCmd.MarkFlagRequired("password")
	adminCmd.AddCommand(adminCreateCmd)
}
