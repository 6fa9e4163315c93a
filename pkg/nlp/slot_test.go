package nlp

import "testing"

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2:00 PM", "14:00", false},
		{"2 PM", "14:00", false},
		{"2pm", "14:00", false},
		{"2 p.m.", "14:00", false},
		{"2.30pm", "14:30", false},
		{"12:15 am", "00:15", false},
		{"12 PM", "12:00", false},
		{"14:00", "14:00", false},
		{"14:00:00", "14:00", false},
		{"2:30:00 pm", "14:30", false},
		{"noon", "12:00", false},
		{"", "", true},
		{"sometime", "", true},
		{"13 PM", "", true},
		{"25:00", "", true},
		{"10:75", "", true},
		{"10:15:75", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeTime(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeTime(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2025-08-06", "2025-08-06", false},
		{"August 6, 2025", "2025-08-06", false},
		{"8/6/2025", "2025-08-06", false},
		{"20250806", "2025-08-06", false},
		{"", "", true},
		{"next-ish", "", true},
		{"2025", "", true},
		{"Aug 2025", "", true},
		{"2025-08", "", true},
		{"Aug 6", "", true},
		{"8/6", "", true},
		{"0000-08-06", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
