package testutil

import "testing"

func TestExcludeComment(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SELECT 1; -- trailing", "SELECT 1; "},
		{"-- whole line", ""},
		{"INSERT INTO t VALUES ('a--b'); -- c", "INSERT INTO t VALUES ('a--b'); "},
		{`SELECT "x -- y"`, `SELECT "x -- y"`},
		{"CREATE TABLE `a--b` (id INT)", "CREATE TABLE `a--b` (id INT)"},
	}
	for _, tt := range tests {
		if got := excludeComment(tt.in); got != tt.want {
			t.Errorf("excludeComment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEndpointString(t *testing.T) {
	if got := (Endpoint{Host: "localhost", Port: "32768"}).String(); got != "localhost:32768" {
		t.Errorf("unexpected endpoint %q", got)
	}
}
