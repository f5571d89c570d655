package data

import (
	"sync"

	"github.com/stake-plus/discord-forms/src/shared/types"
	"gorm.io/gorm"
)

var (
	settingsCache map[string]string
	settingsMu    sync.RWMutex
)

// Settings the bot understands; SeedSettings inserts missing rows so
// operators can flip them without consulting the code.
const (
	SettingSendDMToSubmitter = "send_dm_to_submitter"
)

// LoadSettings loads all settings from database into cache
func LoadSettings(db *gorm.DB) error {
	var settings []types.Setting
	if err := db.Find(&settings).Error; err != nil {
		return err
	}

	settingsMu.Lock()
	defer settingsMu.Unlock()

	settingsCache = make(map[string]string)
	for _, s := range settings {
		settingsCache[s.Name] = s.Value
	}

	return nil
}

// GetSetting retrieves a setting value by name
func GetSetting(name string) string {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settingsCache[name]
}

// GetSettingBool interprets a setting as a flag ("1", "true" or "yes").
func GetSettingBool(name string) bool {
	switch GetSetting(name) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// RefreshSettings reloads settings from database
func RefreshSettings(db *gorm.DB) error {
	return LoadSettings(db)
}

// SeedSettings inserts default rows for settings that do not exist yet.
func SeedSettings(db *gorm.DB) error {
	defaults := map[string]string{
		SettingSendDMToSubmitter: "true",
	}
	for name, value := range defaults {
		var count int64
		if err := db.Model(&types.Setting{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&types.Setting{Name: name, Value: value}).Error; err != nil {
				return err
			}
		}
	}
	return LoadSettings(db)
}
