package timeutil

import "testing"

func TestTimeToSeconds(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"01:30:00", 5400, false},
		{"00:00:00", 0, false},
		{"10:05:09", 36309, false},
		{"100:00:00", 360000, false},
		{"", 0, true},
		{"1:30", 0, true},
		{"01:60:00", 0, true},
		{"01:00:60", 0, true},
		{"aa:bb:cc", 0, true},
		{"-1:00:00", 0, true},
	}

	for _, tc := range cases {
		got, err := TimeToSeconds(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("TimeToSeconds(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("TimeToSeconds(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("TimeToSeconds(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSecondsToTime(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{5400, "01:30:00"},
		{0, "00:00:00"},
		{36309, "10:05:09"},
		{-5, "00:00:00"},
	}
	for _, tc := range cases {
		if got := SecondsToTime(tc.in); got != tc.want {
			t.Errorf("SecondsToTime(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	sec, err := TimeToSeconds("01:30:00")
	if err != nil {
		t.Fatalf("TimeToSeconds failed: %v", err)
	}
	if sec != 5400 {
		t.Fatalf("TimeToSeconds(\"01:30:00\") = %d, want 5400", sec)
	}
	if got := SecondsToTime(sec); got != "01:30:00" {
		t.Fatalf("SecondsToTime(5400) = %q, want \"01:30:00\"", got)
	}
}
