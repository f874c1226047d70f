package conversation

import "testing"

func TestParseSlotLabel(t *testing.T) {
	start, end, err := ParseSlotLabel("09:00 AM - 10:00 AM")
	if err != nil {
		t.Fatalf("ParseSlotLabel failed: %v", err)
	}
	if start.Minutes() != 9*60 || end.Minutes() != 10*60 {
		t.Errorf("got [%d, %d), want [540, 600)", start.Minutes(), end.Minutes())
	}

	start, end, err = ParseSlotLabel("02:00 PM - 03:00 PM")
	if err != nil {
		t.Fatalf("ParseSlotLabel failed: %v", err)
	}
	if start.Minutes() != 14*60 || end.Minutes() != 15*60 {
		t.Errorf("got [%d, %d), want [840, 900)", start.Minutes(), end.Minutes())
	}

	if _, _, err := ParseSlotLabel("garbage"); err == nil {
		t.Error("expected error for malformed label")
	}
	if _, _, err := ParseSlotLabel("10:00 AM - 09:00 AM"); err == nil {
		t.Error("expected error for inverted slot")
	}
}

func TestEveryCatalogSlotParses(t *testing.T) {
	for _, slot := range SlotCatalog() {
		start, end, err := ParseSlotLabel(slot)
		if err != nil {
			t.Errorf("slot %q does not parse: %v", slot, err)
			continue
		}
		if end-start != 60 {
			t.Errorf("slot %q is not one hour: [%d, %d)", slot, start, end)
		}
	}
}

func TestSelectFromList(t *testing.T) {
	options := []string{"Downtown Medical Center", "Northside Clinic", "Westgate Hospital"}

	tests := []struct {
		message string
		want    int
	}{
		{"1", 0},
		{"3", 2},
		{" 2 ", 1},
		{"0", -1},
		{"4", -1},
		{"northside", 1},
		{"WESTGATE", 2},
		{"I'd like the Downtown Medical Center please", 0},
		{"zzz", -1},
		{"", -1},
	}
	for _, tt := range tests {
		if got := selectFromList(tt.message, options); got != tt.want {
			t.Errorf("selectFromList(%q) = %d, want %d", tt.message, got, tt.want)
		}
	}
}

func TestSelectSlot(t *testing.T) {
	tests := []struct {
		message string
		want    int
	}{
		{"1", 0},
		{"6", 5},
		{"09:00 AM - 10:00 AM", 0},
		{"book me at 09:00 please", 0},
		{"02:00 works", 3},
		{"half past nine", -1},
		{"zzz", -1},
	}
	for _, tt := range tests {
		if got := selectSlot(tt.message); got != tt.want {
			t.Errorf("selectSlot(%q) = %d, want %d", tt.message, got, tt.want)
		}
	}
}
