package services

import "github.com/cod31nvictus/selfky/models"

// feeTable is the single fee schedule for the whole system, in rupees.
// Every call site that computes a fee (application creation, order creation,
// the reconciliation amount audit) goes through Fee; there is deliberately no
// fallback amount for unknown inputs.
var feeTable = map[models.CourseType]map[models.Category]int{
	models.CourseBPharm: {
		models.CategoryGeneral: 1200,
		models.CategoryOBC:     1200,
		models.CategoryEWS:     1200,
		models.CategorySC:      900,
		models.CategoryST:      900,
		models.CategoryPWD:     900,
	},
	models.CourseMPharm: {
		models.CategoryGeneral: 1500,
		models.CategoryOBC:     1500,
		models.CategoryEWS:     1500,
		models.CategorySC:      1100,
		models.CategoryST:      1100,
		models.CategoryPWD:     1100,
	},
}

// Fee returns the application fee in rupees for a course and category.
// Unknown inputs are rejected, never defaulted.
func Fee(course models.CourseType, category models.Category) (int, error) {
	byCategory, ok := feeTable[course]
	if !ok {
		return 0, models.NewValidationError("unknown course type %q", course)
	}
	amount, ok := byCategory[category]
	if !ok {
		return 0, models.NewValidationError("unknown category %q", category)
	}
	return amount, nil
}
