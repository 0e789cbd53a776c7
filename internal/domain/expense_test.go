package domain

import (
	"testing"
	"time"
)

func TestCategoryIsKnown(t *testing.T) {
	for _, c := range Categories {
		if !c.IsKnown() {
			t.Errorf("expected %q to be a known category", c)
		}
	}

	if Category("Pets").IsKnown() {
		t.Error("expected Pets to be unknown")
	}
	if Category("food & dining").IsKnown() {
		t.Error("category match must be exact")
	}
}

func TestCategoriesOrder(t *testing.T) {
	if len(Categories) != 9 {
		t.Fatalf("expected 9 categories, got %d", len(Categories))
	}
	if Categories[0] != CategoryFoodDining || Categories[8] != CategoryOthers {
		t.Errorf("unexpected category order: %v", Categories)
	}
}

func TestExpenseFiltersIsEmpty(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if !(ExpenseFilters{}).IsEmpty() {
		t.Error("zero filters should be empty")
	}
	if (ExpenseFilters{Category: CategoryTravel}).IsEmpty() {
		t.Error("category filter should not be empty")
	}
	if (ExpenseFilters{DateFrom: &from}).IsEmpty() {
		t.Error("dateFrom filter should not be empty")
	}
	if (ExpenseFilters{DateTo: &from}).IsEmpty() {
		t.Error("dateTo filter should not be empty")
	}
}
