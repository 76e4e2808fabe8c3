package database

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is one stored configuration value at a single scope.
// The (scope, entity_id, name) triple is the addressing key; a missing row
// means "inherit from the next scope up".
type Setting struct {
	ID        uint           `gorm:"primaryKey"`
	Scope     string         `gorm:"uniqueIndex:idx_setting_key;not null"`
	EntityID  string         `gorm:"uniqueIndex:idx_setting_key;not null"`
	Name      string         `gorm:"uniqueIndex:idx_setting_key;not null"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Setting) TableName() string {
	return "settings"
}

// CommandUsage accumulates invocation counts per command, flushed daily.
type CommandUsage struct {
	ID        uint   `gorm:"primaryKey"`
	Command   string `gorm:"uniqueIndex;not null"`
	Uses      int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CommandUsage) TableName() string {
	return "command_usage"
}
