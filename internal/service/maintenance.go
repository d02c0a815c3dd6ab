package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/splatcam/internal/database"
)

// MaintenanceService houses destructive journal operations surfaced through the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// Purge wipes the scan journal. It keeps the schema intact.
func (s *MaintenanceService) Purge(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	var removed int64
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM scans")
		if err != nil {
			return fmt.Errorf("purge scans: %w", err)
		}
		removed, _ = res.RowsAffected()
		return nil
	}); err != nil {
		return 0, err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return removed, nil
}
