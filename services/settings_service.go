package services

import (
	"errors"

	"github.com/cod31nvictus/selfky/models"
	"gorm.io/gorm"
)

const SettingAdmitCardRelease = "admit_card_release"

// AdmitCardReleaseEnabled reads the operational kill switch. A missing row
// means admit cards are withheld until an admin explicitly releases them.
func AdmitCardReleaseEnabled(db *gorm.DB) (bool, error) {
	var setting models.AppSetting
	err := db.Where("name = ?", SettingAdmitCardRelease).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return setting.Value == "true", nil
}

// SetAdmitCardRelease flips the switch, bumping the version on every write.
func SetAdmitCardRelease(db *gorm.DB, released bool) (*models.AppSetting, error) {
	value := "false"
	if released {
		value = "true"
	}

	var setting models.AppSetting
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("name = ?", SettingAdmitCardRelease).First(&setting).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			setting = models.AppSetting{Name: SettingAdmitCardRelease, Value: value, Version: 1}
			return tx.Create(&setting).Error
		}
		setting.Value = value
		setting.Version++
		return tx.Save(&setting).Error
	})
	if err != nil {
		return nil, err
	}
	return &setting, nil
}
