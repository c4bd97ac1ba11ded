package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"github.com/saeid-a/EvalAdminBack/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	seedAssociationID int64
	seedFile          string
)

var seedDrillsCmd = &cobra.Command{
	Use:   "seed-drills",
	Short: "Load a YAML drill catalog into an association",
	Long: `Create every drill listed in a YAML catalog. Drills whose name already
exists in the association are skipped, so the command can be re-run.

Example catalog:
  drills:
    - name: Forward Crossovers
      category: skating
      description: Figure eight around the circles
    - name: Wrist Shot
      category: shooting
      active: false`,
	Args: cobra.NoArgs,
	RunE: runSeedDrills,
}

func init() {
	seedDrillsCmd.Flags().Int64Var(&seedAssociationID, "association", 0, "Association id")
	seedDrillsCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Path to the YAML catalog")
	_ = seedDrillsCmd.MarkFlagRequired("association")
	_ = seedDrillsCmd.MarkFlagRequired("file")
}

func runSeedDrills(cmd *cobra.Command, _ []string) error {
	f, err := os.Open(seedFile)
	if err != nil {
		return err
	}
	defer f.Close()

	inputs, err := parseDrillCatalog(f)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	e, closeFn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	db := e.pool()
	if _, err := repository.NewAssociationRepository(db).GetByID(ctx, seedAssociationID); err != nil {
		return fmt.Errorf("association %d: %w", seedAssociationID, err)
	}

	drillService := services.NewDrillService(repository.NewDrillRepository(db))
	created, skipped := 0, 0
	for _, input := range inputs {
		drill, err := drillService.Create(ctx, seedAssociationID, input)
		if errors.Is(err, services.ErrConflict) {
			skipped++
			e.logger.Debug("drill already exists", zap.String("name", input.Name))
			continue
		}
		if err != nil {
			return fmt.Errorf("create drill %q: %w", input.Name, err)
		}
		created++
		e.logger.Debug("drill created", zap.Int64("drill_id", drill.ID), zap.String("name", drill.Name))
	}

	printf("%d drills created, %d skipped\n", created, skipped)
	return nil
}
