package model

import "testing"

func TestParseNoteStatus(t *testing.T) {
	cases := []struct {
		in    string
		want  NoteStatus
		valid bool
	}{
		{"healthy", StatusHealthy, true},
		{"unhealthy", StatusUnhealthy, true},
		{"treated", StatusTreated, true},
		{"  Healthy ", StatusHealthy, true},
		{"TREATED", StatusTreated, true},
		{"rotting", "", false},
		{"", "", false},
		{"healthy2", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseNoteStatus(tc.in)
		if ok != tc.valid {
			t.Errorf("ParseNoteStatus(%q) valid = %v, want %v", tc.in, ok, tc.valid)
		}
		if got != tc.want {
			t.Errorf("ParseNoteStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNotePatchEmpty(t *testing.T) {
	if !(NotePatch{}).Empty() {
		t.Error("zero patch should be empty")
	}

	name := "Ficus"
	if (NotePatch{PlantName: &name}).Empty() {
		t.Error("patch with plant name should not be empty")
	}

	status := StatusTreated
	if (NotePatch{Status: &status}).Empty() {
		t.Error("patch with status should not be empty")
	}
}

func TestNoteImageFillURL(t *testing.T) {
	img := NoteImage{NoteID: "n1", Filename: "abc.png"}
	img.FillURL("c1")

	want := "/uploads/c1/n1/abc.png"
	if img.URL != want {
		t.Errorf("URL = %q, want %q", img.URL, want)
	}
}
