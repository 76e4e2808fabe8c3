package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethaan/craftbot/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository persists raw setting values keyed by (scope, entity, name).
// Values are stored as jsonb so future settings are not limited to strings.
type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository() *SettingRepository {
	return &SettingRepository{
		db: database.DB,
	}
}

func (r *SettingRepository) Read(scope, entityID, name string) (string, bool, error) {
	var row database.Setting
	err := r.db.Where("scope = ? AND entity_id = ? AND name = ?", scope, entityID, name).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %s/%s/%s: %w", scope, entityID, name, err)
	}

	value, err := decodeValue(row.Value)
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *SettingRepository) ReadAll(scope, entityID string) (map[string]string, error) {
	var rows []database.Setting
	err := r.db.Where("scope = ? AND entity_id = ?", scope, entityID).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read settings for %s/%s: %w", scope, entityID, err)
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		value, err := decodeValue(row.Value)
		if err != nil {
			return nil, err
		}
		values[row.Name] = value
	}
	return values, nil
}

func (r *SettingRepository) Write(scope, entityID, name, value string) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode setting value: %w", err)
	}

	row := database.Setting{
		Scope:    scope,
		EntityID: entityID,
		Name:     name,
		Value:    encoded,
	}

	err = r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "entity_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write setting %s/%s/%s: %w", scope, entityID, name, err)
	}
	return nil
}

func (r *SettingRepository) Delete(scope, entityID, name string) error {
	err := r.db.Where("scope = ? AND entity_id = ? AND name = ?", scope, entityID, name).
		Delete(&database.Setting{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete setting %s/%s/%s: %w", scope, entityID, name, err)
	}
	return nil
}

func decodeValue(raw []byte) (string, error) {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("failed to decode setting value: %w", err)
	}
	return value, nil
}
