package fulfillment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStage_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from Stage
		to   Stage
		want bool
	}{
		{StageSimulating, StageReadyToSubmit, true},
		{StageReadyToSubmit, StageSubmitting, true},
		{StageSubmitting, StagePacking, true},
		{StageSubmitting, StageReadyToSubmit, true}, // submit failure fallback
		{StagePacking, StageFinalizing, true},
		{StageFinalizing, StageFinalized, true},
		{StageFinalizing, StagePacking, true}, // finalize failure fallback
		{StageFinalized, StagePacking, false}, // terminal
		{StageReadyToSubmit, StagePacking, false},
		{StageSimulating, StageFinalized, false},
		{StagePacking, StageReadyToSubmit, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		name     string
		value    int
		required int
		want     int
	}{
		{"within range", 3, 5, 3},
		{"negative clamps to zero", -2, 5, 0},
		{"overshoot clamps to required", 10, 5, 5},
		{"exact requirement", 5, 5, 5},
		{"zero requirement", 4, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampQuantity(tt.value, tt.required))
		})
	}
}

func TestPicklistLine_FullyPicked(t *testing.T) {
	assert.False(t, PicklistLine{RequiredQuantity: 3, PickedQuantity: 2}.FullyPicked())
	assert.True(t, PicklistLine{RequiredQuantity: 3, PickedQuantity: 3}.FullyPicked())
	assert.True(t, PicklistLine{RequiredQuantity: 0, PickedQuantity: 0}.FullyPicked())
}

func TestSession_CloneIsDeep(t *testing.T) {
	available := 7
	original := Session{
		OrderIDs: []string{"1001"},
		Lines: []PicklistLine{{
			ID:                "L1",
			AvailableQuantity: &available,
			Bin:               &BinReference{BinID: "B1", BinName: "A-01"},
			LocationHints:     []string{"Aisle 3"},
		}},
		Stage: StageReadyToSubmit,
	}

	copied := original.clone()
	copied.OrderIDs[0] = "changed"
	copied.Lines[0].ID = "changed"
	*copied.Lines[0].AvailableQuantity = 99
	copied.Lines[0].Bin.BinName = "changed"
	copied.Lines[0].LocationHints[0] = "changed"

	assert.Equal(t, "1001", original.OrderIDs[0])
	assert.Equal(t, "L1", original.Lines[0].ID)
	assert.Equal(t, 7, *original.Lines[0].AvailableQuantity)
	assert.Equal(t, "A-01", original.Lines[0].Bin.BinName)
	assert.Equal(t, "Aisle 3", original.Lines[0].LocationHints[0])
}
