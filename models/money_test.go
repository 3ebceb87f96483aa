package models

import "testing"

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{350, "3.50"},
		{1100, "11.00"},
		{452275, "4522.75"},
		{-350, "-3.50"},
	}
	for _, tt := range tests {
		if got := FormatCents(tt.cents); got != tt.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestParseCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"3.50", 350, false},
		{"3.5", 350, false},
		{"3", 300, false},
		{"0", 0, false},
		{"0.00", 0, false},
		{".75", 75, false},
		{"11.00", 1100, false},
		{"-3.50", -350, false},
		{" 4.25 ", 425, false},
		{"", 0, true},
		{"3.505", 0, true},
		{"abc", 0, true},
		{"3.5x", 0, true},
		{"3.-5", 0, true},
		{"3.+5", 0, true},
		{"-3.-5", 0, true},
		{"+3.50", 0, true},
		{"3.", 300, false},
	}
	for _, tt := range tests {
		got, err := ParseCents(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCents(%q) = %d, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCents(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCents(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIsAdmin(t *testing.T) {
	admin := &User{RoleName: RoleAdmin}
	user := &User{RoleName: RoleUser}
	var nobody *User
	if !admin.IsAdmin() {
		t.Error("admin role should be admin")
	}
	if user.IsAdmin() {
		t.Error("user role should not be admin")
	}
	if nobody.IsAdmin() {
		t.Error("nil user should not be admin")
	}
}
