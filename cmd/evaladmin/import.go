package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"github.com/saeid-a/EvalAdminBack/internal/services"
	"github.com/spf13/cobra"
)

var (
	importAssociationID int64
	importFile          string
	importUserEmail     string
	importCommit        bool
)

var importCmd = &cobra.Command{
	Use:       "import players|sessions",
	Short:     "Validate or commit a roster or schedule CSV",
	Long:      `Run the same validation the upload endpoint does and print the JSON report. Rows are only written with --commit, and only when no row has errors.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{models.ImportKindPlayers, models.ImportKindSessions},
	RunE:      runImport,
}

func init() {
	importCmd.Flags().Int64Var(&importAssociationID, "association", 0, "Association id")
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "Path to the CSV file")
	importCmd.Flags().StringVar(&importUserEmail, "user", "", "Email of the admin recorded as uploader")
	importCmd.Flags().BoolVar(&importCommit, "commit", false, "Write the rows instead of a dry run")
	_ = importCmd.MarkFlagRequired("association")
	_ = importCmd.MarkFlagRequired("file")
	_ = importCmd.MarkFlagRequired("user")
}

func runImport(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(importFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	e, closeFn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if len(content) > e.cfg.ImportMaxBytes {
		return fmt.Errorf("file is larger than %d bytes", e.cfg.ImportMaxBytes)
	}
	location, err := e.cfg.ImportLocation()
	if err != nil {
		return err
	}

	db := e.pool()
	user, err := repository.NewUserRepository(db).GetByEmail(ctx, importUserEmail)
	if err != nil {
		return fmt.Errorf("user %s: %w", importUserEmail, err)
	}
	if !user.IsActive {
		return services.ErrAccountInactive
	}

	importService := services.NewImportService(
		db,
		repository.NewCohortRepository(db),
		repository.NewPlayerRepository(db),
		repository.NewSessionRepository(db),
		repository.NewImportRepository(db),
		nil,
		e.logger,
		services.ImportOptions{MaxRows: e.cfg.ImportMaxRows, Location: location},
	)

	actor := services.Actor{UserID: user.ID, Role: user.Role, AssociationID: user.AssociationID}
	result, err := importService.Import(ctx, actor, importAssociationID, services.ImportRequest{
		Kind:     args[0],
		Filename: filepath.Base(importFile),
		Content:  content,
		Commit:   importCommit,
	})

	var rowsErr *services.ImportRowsError
	if errors.As(err, &rowsErr) {
		if printErr := printJSON(rowsErr.Result); printErr != nil {
			return printErr
		}
		return err
	}
	if err != nil {
		return err
	}
	return printJSON(result)
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
