package language

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		code     string
		wantOK   bool
		wantName string
	}{
		{"en", true, "English"},
		{"de", true, "German"},
		{"ja", true, "Japanese"},
		{"xx", false, ""},
		{"", false, ""},
		{"EN", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			l, ok := Lookup(tt.code)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.code, ok, tt.wantOK)
			}
			if l.Name != tt.wantName {
				t.Errorf("Lookup(%q).Name = %q, want %q", tt.code, l.Name, tt.wantName)
			}
			if ok && l.Native == "" {
				t.Errorf("Lookup(%q).Native is empty", tt.code)
			}
		})
	}
}

func TestListOrder(t *testing.T) {
	got := List()
	want := Codes()
	if len(got) != 12 {
		t.Fatalf("List() has %d entries, want 12", len(got))
	}
	for i, l := range got {
		if l.Code != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, l.Code, want[i])
		}
	}
	if got[0].Code != Default {
		t.Errorf("first language = %q, want default %q", got[0].Code, Default)
	}
}

func TestListIsCopy(t *testing.T) {
	a := List()
	a[0].Name = "changed"
	if l, _ := Lookup("en"); l.Name != "English" {
		t.Errorf("mutating List() result leaked into lookup table: %q", l.Name)
	}
}
