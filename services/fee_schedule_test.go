package services

import (
	"errors"
	"testing"

	"github.com/cod31nvictus/selfky/models"
)

func TestFeeCoversEveryCourseAndCategory(t *testing.T) {
	courses := []models.CourseType{models.CourseBPharm, models.CourseMPharm}
	categories := []models.Category{
		models.CategoryGeneral, models.CategoryOBC, models.CategoryEWS,
		models.CategorySC, models.CategoryST, models.CategoryPWD,
	}

	for _, course := range courses {
		for _, category := range categories {
			amount, err := Fee(course, category)
			if err != nil {
				t.Errorf("Fee(%s, %s) returned error: %v", course, category, err)
				continue
			}
			if amount <= 0 {
				t.Errorf("Fee(%s, %s) = %d, want a positive amount", course, category, amount)
			}
		}
	}
}

func TestFeeIsStableAcrossCalls(t *testing.T) {
	first, err := Fee(models.CourseBPharm, models.CategoryGeneral)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Fee(models.CourseBPharm, models.CategoryGeneral)
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if again != first {
			t.Fatalf("call %d: Fee returned %d, first call returned %d", i, again, first)
		}
	}
}

func TestFeeKnownAmounts(t *testing.T) {
	tests := []struct {
		course   models.CourseType
		category models.Category
		want     int
	}{
		{models.CourseBPharm, models.CategoryGeneral, 1200},
		{models.CourseBPharm, models.CategorySC, 900},
		{models.CourseMPharm, models.CategoryGeneral, 1500},
		{models.CourseMPharm, models.CategoryPWD, 1100},
	}

	for _, tt := range tests {
		got, err := Fee(tt.course, tt.category)
		if err != nil {
			t.Errorf("Fee(%s, %s): %v", tt.course, tt.category, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Fee(%s, %s) = %d, want %d", tt.course, tt.category, got, tt.want)
		}
	}
}

func TestFeeRejectsUnknownInputs(t *testing.T) {
	tests := []struct {
		course   models.CourseType
		category models.Category
	}{
		{"dpharm", models.CategoryGeneral},
		{models.CourseBPharm, "PH"},
		{models.CourseBPharm, "general"},
		{"", ""},
	}

	for _, tt := range tests {
		amount, err := Fee(tt.course, tt.category)
		var ve *models.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("Fee(%q, %q): want ValidationError, got %v", tt.course, tt.category, err)
		}
		if amount != 0 {
			t.Errorf("Fee(%q, %q) returned fallback amount %d for unknown input", tt.course, tt.category, amount)
		}
	}
}
