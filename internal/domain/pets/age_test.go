package pets

import (
	"testing"
	"time"
)

func TestAgeAt(t *testing.T) {
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }

	cases := []struct {
		name       string
		birth, now time.Time
		want       int
	}{
		{"day before birthday", d(2020, 6, 16), d(2024, 6, 15), 3},
		{"on birthday", d(2020, 6, 15), d(2024, 6, 15), 4},
		{"earlier month", d(2020, 7, 1), d(2024, 6, 30), 3},
		{"later month", d(2020, 5, 31), d(2024, 6, 1), 4},
		{"leap day", d(2020, 2, 29), d(2021, 2, 28), 0},
		{"future birth clamps", d(2030, 1, 1), d(2024, 6, 15), 0},
	}

	for _, tc := range cases {
		if got := AgeAt(tc.birth, tc.now); got != tc.want {
			t.Fatalf("%s: AgeAt = %d, want %d", tc.name, got, tc.want)
		}
	}
}
