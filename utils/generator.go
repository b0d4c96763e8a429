package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/cod31nvictus/selfky/models"
	"gorm.io/gorm"
)

var coursePrefixes = map[models.CourseType]string{
	models.CourseBPharm: "BPH",
	models.CourseMPharm: "MPH",
}

// FormatApplicationNumber builds a number like BPH26A00042: course prefix,
// two-digit admission year, series marker, five-digit sequence.
func FormatApplicationNumber(course models.CourseType, year, seq int) string {
	return fmt.Sprintf("%s%02dA%05d", coursePrefixes[course], year%100, seq)
}

// GenerateApplicationNumber returns the next free number for the course in
// the current admission year. The sequence starts from the current count and
// walks forward until an unused number is found, so a deleted record never
// causes a collision.
func GenerateApplicationNumber(tx *gorm.DB, course models.CourseType) (string, error) {
	if _, ok := coursePrefixes[course]; !ok {
		return "", models.NewValidationError("unknown course type %q", course)
	}

	year := time.Now().Year()
	var count int64
	if err := tx.Model(&models.Application{}).Where("course_type = ?", course).Count(&count).Error; err != nil {
		return "", err
	}

	for seq := int(count) + 1; ; seq++ {
		number := FormatApplicationNumber(course, year, seq)
		var existing models.Application
		err := tx.Where("application_number = ?", number).First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return number, nil
			}
			return "", err
		}
	}
}
