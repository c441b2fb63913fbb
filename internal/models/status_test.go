package models

import "testing"

func TestNormalizeTaskStatus(t *testing.T) {
	cases := []struct {
		in   string
		want TaskStatus
	}{
		{"pending", TaskPending},
		{"in_progress", TaskInProgress},
		{"in-progress", TaskInProgress},
		{"In-Progress", TaskInProgress},
		{"on-track", TaskInProgress},
		{"at-risk", TaskInProgress},
		{"off-track", TaskInProgress},
		{"on-hold", TaskPending},
		{"completed", TaskCompleted},
		{"bogus", TaskStatus("bogus")},
	}
	for _, tc := range cases {
		if got := NormalizeTaskStatus(tc.in); got != tc.want {
			t.Errorf("NormalizeTaskStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// Normalizing twice must land on the same canonical value as normalizing once.
func TestNormalizeTaskStatusIdempotent(t *testing.T) {
	for _, in := range []string{"in-progress", "in_progress", "on-track", "on-hold", "pending", "completed"} {
		once := NormalizeTaskStatus(in)
		twice := NormalizeTaskStatus(string(once))
		if once != twice {
			t.Errorf("normalization of %q not idempotent: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeProjectStatus(t *testing.T) {
	cases := []struct {
		in   string
		want ProjectStatus
	}{
		{"on-track", ProjectOnTrack},
		{"on_track", ProjectOnTrack},
		{"At-Risk", ProjectAtRisk},
		{"off-track", ProjectOffTrack},
		{"on-hold", ProjectOnHold},
		{"completed", ProjectCompleted},
		{"maintenance", ProjectMaintenance},
	}
	for _, tc := range cases {
		if got := NormalizeProjectStatus(tc.in); got != tc.want {
			t.Errorf("NormalizeProjectStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if !ValidProjectStatus(tc.want) {
			t.Errorf("ValidProjectStatus(%q) = false, want true", tc.want)
		}
	}
	if ValidProjectStatus(NormalizeProjectStatus("bogus")) {
		t.Error("ValidProjectStatus accepted bogus status")
	}
}

func TestStatusDisplay(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"in_progress", "In Progress"},
		{"in-progress", "In Progress"},
		{"pending", "Pending"},
		{"completed", "Completed"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := StatusDisplay(tc.in); got != tc.want {
			t.Errorf("StatusDisplay(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
