package scroll

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		name                    string
		offset, total, viewport int
		want                    int
	}{
		{"in range", 3, 20, 5, 3},
		{"negative", -2, 20, 5, 0},
		{"past end", 50, 20, 5, 15},
		{"content fits", 4, 3, 10, 0},
		{"empty content", 7, 0, 10, 0},
		{"exact fit", 1, 5, 5, 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.offset, tt.total, tt.viewport); got != tt.want {
			t.Errorf("%s: Clamp(%d, %d, %d) = %d, want %d",
				tt.name, tt.offset, tt.total, tt.viewport, got, tt.want)
		}
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name                    string
		offset, total, viewport int
		wantStart, wantEnd      int
	}{
		{"middle", 5, 20, 5, 5, 10},
		{"tail clamped", 100, 20, 5, 15, 20},
		{"short content", 0, 3, 10, 0, 3},
		{"zero viewport", 2, 10, 0, 2, 2},
	}
	for _, tt := range tests {
		start, end := Window(tt.offset, tt.total, tt.viewport)
		if start != tt.wantStart || end != tt.wantEnd {
			t.Errorf("%s: Window(%d, %d, %d) = [%d, %d), want [%d, %d)",
				tt.name, tt.offset, tt.total, tt.viewport, start, end, tt.wantStart, tt.wantEnd)
		}
	}
}

func TestFollowKeepsIndexVisible(t *testing.T) {
	tests := []struct {
		name                           string
		offset, index, total, viewport int
		want                           int
	}{
		{"already visible", 2, 4, 20, 5, 2},
		{"above window", 10, 3, 20, 5, 3},
		{"below window", 0, 9, 20, 5, 5},
		{"no selection", 3, -1, 20, 5, 3},
		{"stale offset", 30, 4, 20, 5, 4},
	}
	for _, tt := range tests {
		if got := Follow(tt.offset, tt.index, tt.total, tt.viewport); got != tt.want {
			t.Errorf("%s: Follow(%d, %d, %d, %d) = %d, want %d",
				tt.name, tt.offset, tt.index, tt.total, tt.viewport, got, tt.want)
		}
	}
}
