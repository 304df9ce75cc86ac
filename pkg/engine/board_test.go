package engine

import "testing"

func TestBoardSymmetry(t *testing.T) {
	// Start squares sit a quarter of the ring apart.
	for c := 0; c < NumColors; c++ {
		next := Color(c).Next()
		gap := (StartIndex(next) - StartIndex(Color(c)) + TrackSize) % TrackSize
		if gap != TrackSize/NumColors {
			t.Errorf("start gap %s -> %s = %d, want %d", Color(c), next, gap, TrackSize/NumColors)
		}
	}

	// Each color's home entry is the same distance before its start.
	for c := 0; c < NumColors; c++ {
		color := Color(c)
		back := (StartIndex(color) - HomeEntryIndex(color) + TrackSize) % TrackSize
		if back != 2 {
			t.Errorf("%s home entry is %d squares before start, want 2", color, back)
		}
	}
}

func TestSafeSquares(t *testing.T) {
	safe := SafeSquares()
	if len(safe) != 8 {
		t.Fatalf("got %d safe squares, want 8", len(safe))
	}

	// All four start squares are safe.
	for c := 0; c < NumColors; c++ {
		if !IsSafeSquare(StartIndex(Color(c))) {
			t.Errorf("start square %d of %s is not safe", StartIndex(Color(c)), Color(c))
		}
	}

	for _, i := range safe {
		if !IsSafeSquare(i) {
			t.Errorf("IsSafeSquare(%d) = false for listed safe square", i)
		}
	}
	if IsSafeSquare(-1) || IsSafeSquare(TrackSize) {
		t.Error("out-of-range index reported safe")
	}
}

func TestDistanceToHomeEntry(t *testing.T) {
	tests := []struct {
		color Color
		index int
		want  int
	}{
		{Red, 47, 3},
		{Red, 50, 0},
		{Red, 51, 51},
		{Red, 0, 50},
		{Blue, 13, 50},
		{Blue, 11, 0},
		{Green, 24, 0},
		{Yellow, 39, 50},
	}
	for _, tt := range tests {
		if got := distanceToHomeEntry(tt.color, tt.index); got != tt.want {
			t.Errorf("distanceToHomeEntry(%s, %d) = %d, want %d", tt.color, tt.index, got, tt.want)
		}
	}
}

func TestHomeAtCollapsesToFinished(t *testing.T) {
	if got := HomeAt(HomeLaneSize - 1); got != Finished() {
		t.Errorf("HomeAt(%d) = %v, want finished", HomeLaneSize-1, got)
	}
	if got := HomeAt(2); got.Kind != PosHome || got.Index != 2 {
		t.Errorf("HomeAt(2) = %v, want home(2)", got)
	}
}

func TestParseColor(t *testing.T) {
	for c := 0; c < NumColors; c++ {
		color := Color(c)
		parsed, err := ParseColor(color.String())
		if err != nil || parsed != color {
			t.Errorf("ParseColor(%q) = %v, %v", color.String(), parsed, err)
		}
	}
	if _, err := ParseColor("purple"); err == nil {
		t.Error("ParseColor accepted an unknown color")
	}
}

func TestColorNext(t *testing.T) {
	order := []Color{Red, Blue, Green, Yellow, Red}
	for i := 0; i < NumColors; i++ {
		if order[i].Next() != order[i+1] {
			t.Errorf("%s.Next() = %s, want %s", order[i], order[i].Next(), order[i+1])
		}
	}
}

func TestPositionString(t *testing.T) {
	tests := []struct {
		pos  Position
		want string
	}{
		{Base(), "base"},
		{TrackAt(5), "track(5)"},
		{HomeAt(3), "home(3)"},
		{Finished(), "finished"},
	}
	for _, tt := range tests {
		if got := tt.pos.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
