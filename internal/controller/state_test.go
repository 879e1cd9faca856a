package controller

import (
	"testing"

	"github.com/theirongolddev/pfm/internal/model"
)

func TestDraftInfersFieldType(t *testing.T) {
	fields := model.BudgetFields{Category: "Food", Amount: "300"}
	tests := []struct {
		name   string
		state  FormState[model.BudgetFields]
		want   string
		wantOK bool
	}{
		{"nil", nil, "", false},
		{"closed", FormClosed[model.BudgetFields]{}, "", false},
		{"creating", FormCreating[model.BudgetFields]{Draft: fields}, "Food", true},
		{"editing", FormEditing[model.BudgetFields]{ID: 3, Draft: fields}, "Food", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Draft(tt.state)
			if ok != tt.wantOK || got.Category != tt.want {
				t.Errorf("Draft = (%+v, %v), want category %q ok %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
