package category

import (
	"testing"
)

func TestNewCustomCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "simple name",
			input: "cooking",
			want:  "custom:cooking",
		},
		{
			name:  "mixed case collapses",
			input: "Machine Learning",
			want:  "custom:machine learning",
		},
		{
			name:  "extra whitespace collapses",
			input: "  Machine   Learning ",
			want:  "custom:machine learning",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			input:   "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCustomCategory(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewCustomCategory(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCustomCategory(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NewCustomCategory(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToggle(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		tag        string
		want       []string
	}{
		{
			name:       "add to empty set",
			categories: nil,
			tag:        "science",
			want:       []string{"science"},
		},
		{
			name:       "add new tag",
			categories: []string{"science"},
			tag:        "history",
			want:       []string{"science", "history"},
		},
		{
			name:       "remove present tag",
			categories: []string{"science", "history"},
			tag:        "science",
			want:       []string{"history"},
		},
		{
			name:       "case-insensitive removal of custom tag",
			categories: []string{"custom:machine learning"},
			tag:        "custom:Machine Learning",
			want:       []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Toggle(tt.categories, tt.tag)
			if len(got) != len(tt.want) {
				t.Fatalf("Toggle() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Toggle()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestToggleDoesNotMutateInput(t *testing.T) {
	in := []string{"science", "history"}
	Toggle(in, "science")
	if in[0] != "science" || in[1] != "history" {
		t.Errorf("input slice mutated: %v", in)
	}
}

func TestToggleTwiceRestoresMembership(t *testing.T) {
	in := []string{"science"}
	out := Toggle(Toggle(in, "history"), "history")
	if len(out) != 1 || out[0] != "science" {
		t.Errorf("double toggle = %v, want [science]", out)
	}
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"science", "Science", "custom:go", "custom:Go", "history"})
	want := []string{"science", "custom:go", "history"}
	if len(got) != len(want) {
		t.Fatalf("Dedupe() = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("Dedupe()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCustomCategoryDisplayName(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"custom:machine learning", "Machine Learning"},
		{"custom:go", "Go"},
		{"science", "Science"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := CustomCategoryDisplayName(tt.tag); got != tt.want {
				t.Errorf("CustomCategoryDisplayName(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestValidateDailyMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		wantErr bool
	}{
		{5, false},
		{30, false},
		{60, false},
		{7, false},   // custom within bounds
		{120, false}, // custom upper bound
		{4, true},
		{121, true},
		{0, true},
		{-10, true},
	}

	for _, tt := range tests {
		err := ValidateDailyMinutes(tt.minutes)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateDailyMinutes(%d) error = %v, wantErr %v", tt.minutes, err, tt.wantErr)
		}
	}
}

func TestValidateNotificationTime(t *testing.T) {
	valid := []string{"08:00", "23:59", "00:00"}
	for _, v := range valid {
		if err := ValidateNotificationTime(v); err != nil {
			t.Errorf("ValidateNotificationTime(%q) unexpected error: %v", v, err)
		}
	}

	invalid := []string{"8:00am", "24:00", "12-30", "noon", ""}
	for _, v := range invalid {
		if err := ValidateNotificationTime(v); err == nil {
			t.Errorf("ValidateNotificationTime(%q) expected error", v)
		}
	}
}

func TestIsPredefined(t *testing.T) {
	if !IsPredefined("science") {
		t.Error("science should be predefined")
	}
	if IsPredefined("custom:science") {
		t.Error("custom:science should not be predefined")
	}
	if IsPredefined("astrology") {
		t.Error("astrology should not be predefined")
	}
}
