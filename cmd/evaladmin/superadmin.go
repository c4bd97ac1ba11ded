package main

import (
	"fmt"

	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"github.com/saeid-a/EvalAdminBack/internal/services"
	"github.com/spf13/cobra"
)

var (
	superadminEmail    string
	superadminName     string
	superadminPassword string
)

var createSuperadminCmd = &cobra.Command{
	Use:   "create-superadmin",
	Short: "Create a platform superadmin account",
	Long: `Create the first superadmin. The API only lets an existing superadmin
create another one, so a fresh database needs this bootstrap step.`,
	Args: cobra.NoArgs,
	RunE: runCreateSuperadmin,
}

func init() {
	createSuperadminCmd.Flags().StringVar(&superadminEmail, "email", "", "Login email")
	createSuperadminCmd.Flags().StringVar(&superadminName, "name", "", "Full name")
	createSuperadminCmd.Flags().StringVar(&superadminPassword, "password", "", "Initial password")
	_ = createSuperadminCmd.MarkFlagRequired("email")
	_ = createSuperadminCmd.MarkFlagRequired("name")
	_ = createSuperadminCmd.MarkFlagRequired("password")
}

func runCreateSuperadmin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, closeFn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	db := e.pool()
	userService := services.NewUserService(repository.NewUserRepository(db), repository.NewAssociationRepository(db))

	user, err := userService.Create(ctx, systemActor(), services.CreateUserInput{
		Email:    superadminEmail,
		Password: superadminPassword,
		FullName: superadminName,
		Role:     models.RoleSuperadmin,
	})
	if err != nil {
		return fmt.Errorf("create superadmin: %w", err)
	}

	printf("created superadmin %d <%s>\n", user.ID, user.Email)
	return nil
}

// systemActor stands in for a superadmin when no account exists yet.
func systemActor() services.Actor {
	return services.Actor{Role: models.RoleSuperadmin}
}
