package converter

import (
	"strconv"
	"testing"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Padded input", "02/11/2025", "2025-11-02"},
		{"Single digit day and month", "2/3/2026", "2026-03-02"},
		{"End of year", "31/12/2025", "2025-12-31"},
		{"No calendar check", "32/13/2025", "2025-13-32"},
		{"Missing year", "02/11", "NaN-11-02"},
		{"Not a date", "garbage", "NaN-NaN-garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDate(tt.input)
			if got != tt.expected {
				t.Errorf("FormatDate(%q) = %s; want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatDateKeepsCalendarDay(t *testing.T) {
	for day := 1; day <= 28; day++ {
		for month := 1; month <= 12; month++ {
			in := strconv.Itoa(day) + "/" + strconv.Itoa(month) + "/2025"
			want := "2025-" + PadLeft(strconv.Itoa(month), 2, '0') + "-" + PadLeft(strconv.Itoa(day), 2, '0')
			if got := FormatDate(in); got != want {
				t.Fatalf("FormatDate(%q) = %s; want %s", in, got, want)
			}
		}
	}
}

func TestEndTime(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		duration int
		expected string
	}{
		{"Two hours", "18:00", 120, "20:00"},
		{"Ninety minutes past midnight", "23:30", 90, "25:00"},
		{"Minute carry", "18:45", 90, "20:15"},
		{"Unpadded hour", "07:00", 120, "9:00"},
		{"Odd duration", "14:10", 75, "15:25"},
		{"Leading integer", "14pm:05", 60, "15:05"},
		{"No minutes", "14", 120, "NaN:NaN"},
		{"Empty", "", 120, "NaN:NaN"},
		{"Bad hour", "xx:30", 120, "NaN:30"},
		{"Negative minute borrows", "10:-50", 120, "11:-50"},
		{"Negative minute absorbed", "10:-05", 30, "10:25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EndTime(tt.start, tt.duration)
			if got != tt.expected {
				t.Errorf("EndTime(%q, %d) = %s; want %s", tt.start, tt.duration, got, tt.expected)
			}
		})
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct {
		a, b     int
		expected int
	}{
		{7, 60, 0},
		{60, 60, 1},
		{-50, 60, -1},
		{-60, 60, -1},
		{-61, 60, -2},
	}

	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.expected {
			t.Errorf("floorDiv(%d, %d) = %d; want %d", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestOpponent(t *testing.T) {
	tests := []struct {
		name     string
		home     string
		away     string
		expected string
	}{
		{"Club playing away", "University", "Western Suburbs A", "University"},
		{"Club playing at home", "Western Suburbs A", "University", "University"},
		{"Case sensitive", "University", "western suburbs A", "western suburbs A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Opponent(tt.home, tt.away, DefaultClubName)
			if got != tt.expected {
				t.Errorf("Opponent(%q, %q) = %s; want %s", tt.home, tt.away, got, tt.expected)
			}
		})
	}
}

func TestBoolString(t *testing.T) {
	if BoolString(true) != "true" || BoolString(false) != "false" {
		t.Errorf("BoolString returned unexpected values")
	}
}
