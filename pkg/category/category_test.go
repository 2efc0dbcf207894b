package category

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"EATING_OUT", "Eating Out"},
		{"DIY", "Diy"},
		{"GROCERIES", "Groceries"},
		{"BILLS_AND_SERVICES", "Bills And Services"},
		{"NOT_A_REAL_CODE", "Not A Real Code"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Format(c.code); got != c.want {
			t.Errorf("Format(%q) = %q, want %q", c.code, got, c.want)
		}
	}
}

func TestKnownSet(t *testing.T) {
	all := Known()
	if len(all) < 80 {
		t.Fatalf("allow-list suspiciously small: %d entries", len(all))
	}
	seen := make(map[string]bool, len(all))
	for _, code := range all {
		if seen[code] {
			t.Errorf("duplicate code %q in allow-list", code)
		}
		seen[code] = true
		if !IsKnown(code) {
			t.Errorf("IsKnown(%q) = false for listed code", code)
		}
	}
	for _, code := range []string{"EATING_OUT", "DIY", "REVENUE"} {
		if !IsKnown(code) {
			t.Errorf("IsKnown(%q) = false, want true", code)
		}
	}
	if IsKnown("NOT_A_REAL_CODE") {
		t.Error("IsKnown accepted a code outside the allow-list")
	}
}

func TestUnknownCategoryError(t *testing.T) {
	err := &UnknownCategoryError{Code: "SNACKS"}
	if err.Error() != `unknown spending category "SNACKS"` {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
