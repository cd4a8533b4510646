package accesspolicy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPolicy(t *testing.T) {
	p := Default()

	tests := []struct {
		name   string
		viewer string
		owner  string
		want   bool
	}{
		{"staff sees student", "staff", "student", true},
		{"staff does not see staff", "staff", "staff", false},
		{"staff does not see admin", "staff", "admin", false},
		{"student sees nothing", "student", "student", false},
		{"visibility is one-way", "student", "staff", false},
		{"unknown roles see nothing", "intern", "student", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.CanView(tt.viewer, tt.owner); got != tt.want {
				t.Errorf("CanView(%q, %q) = %v, want %v", tt.viewer, tt.owner, got, tt.want)
			}
		})
	}
}

func TestHasLateralAccess(t *testing.T) {
	p := Default()

	if !p.HasLateralAccess("staff") {
		t.Error("staff should have lateral access")
	}
	if p.HasLateralAccess("student") {
		t.Error("student should have no lateral access")
	}
	if p.HasLateralAccess("") {
		t.Error("empty role should have no lateral access")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	content := `visibility:
  staff: [student]
  supervisor: [staff, student]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if !p.CanView("supervisor", "staff") || !p.CanView("supervisor", "student") {
		t.Error("supervisor visibility not loaded")
	}
	if !p.CanView("staff", "student") {
		t.Error("staff visibility not loaded")
	}
	if p.CanView("staff", "supervisor") {
		t.Error("visibility should not be symmetric")
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("visibility: [not a map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
