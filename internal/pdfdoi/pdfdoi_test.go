package pdfdoi

import "testing"

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain doi",
			text: "See 10.1056/NEJMoa2035389 for the trial report.",
			want: "10.1056/NEJMoa2035389",
		},
		{
			name: "doi url",
			text: "Available at https://doi.org/10.1016/S0140-6736(20)30183-5",
			want: "10.1016/S0140-6736(20)30183-5",
		},
		{
			name: "trailing punctuation trimmed",
			text: "DOI: 10.1371/journal.pone.0123456.",
			want: "10.1371/journal.pone.0123456",
		},
		{
			name: "no doi",
			text: "Volume 12, Issue 3, pages 45-67.",
			want: "",
		},
		{
			name: "too short rejected",
			text: "ratio 10.5/2 observed",
			want: "",
		},
		{
			name: "first valid match wins",
			text: "10.1056/NEJMoa2035389 and later 10.1016/other.ref",
			want: "10.1056/NEJMoa2035389",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindDOI(tt.text); got != tt.want {
				t.Errorf("FindDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsValidDOI(t *testing.T) {
	valid := []string{"10.1056/NEJMoa2035389", "10.1371/journal.pone.0123456"}
	for _, doi := range valid {
		if !isValidDOI(doi) {
			t.Errorf("isValidDOI(%q) = false, want true", doi)
		}
	}

	invalid := []string{"", "10.5/2", "11.1056/NEJMoa2035389", "10.1056/"}
	for _, doi := range invalid {
		if isValidDOI(doi) {
			t.Errorf("isValidDOI(%q) = true, want false", doi)
		}
	}
}
