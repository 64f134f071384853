package services

import "testing"

func TestIsBigResponse(t *testing.T) {
	tests := []struct {
		name     string
		cards    int
		sections int
		want     bool
	}{
		{"empty", 0, 0, false},
		{"three cards fit inline", 3, 0, false},
		{"four cards escape", 4, 0, true},
		{"ten sections fit inline", 0, 10, false},
		{"eleven sections escape", 0, 11, true},
		{"either side alone suffices", 4, 2, true},
		{"small on both sides", 2, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBigResponse(tt.cards, tt.sections); got != tt.want {
				t.Errorf("IsBigResponse(%d, %d) = %v, want %v", tt.cards, tt.sections, got, tt.want)
			}
		})
	}
}
