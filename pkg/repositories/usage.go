package repositories

import (
	"fmt"

	"github.com/ethaan/craftbot/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository() *UsageRepository {
	return &UsageRepository{
		db: database.DB,
	}
}

// Add increments the persistent counter for a command by delta.
func (r *UsageRepository) Add(command string, delta int64) error {
	if delta <= 0 {
		return nil
	}

	row := database.CommandUsage{
		Command: command,
		Uses:    delta,
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "command"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"uses": gorm.Expr("command_usage.uses + ?", delta),
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to record usage for %s: %w", command, err)
	}
	return nil
}

func (r *UsageRepository) All() ([]database.CommandUsage, error) {
	var rows []database.CommandUsage
	err := r.db.Order("uses DESC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch command usage: %w", err)
	}
	return rows, nil
}
