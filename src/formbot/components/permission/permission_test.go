package permission

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

const testConfig = `guilds:
  - id: "111"
    permissions:
      setup_command:
        roles: ["admin"]
      form_submission:
        roles: ["member", "admin"]
      form_approval:
        roles: ["mod", "admin"]
  - id: "222"
    permissions:
      form_submission:
        roles: ["everyone"]
`

func loadTestService(t *testing.T) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guilds.yml")
	if err := os.WriteFile(path, []byte(testConfig), 0o600); err != nil {
		t.Fatal(err)
	}
	svc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return svc
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("missing config should fail")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guilds.yml")
	if err := os.WriteFile(path, []byte("guilds: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed config should fail")
	}
}

func TestGuildIDs(t *testing.T) {
	svc := loadTestService(t)
	ids := svc.GuildIDs()
	sort.Strings(ids)
	if len(ids) != 2 || ids[0] != "111" || ids[1] != "222" {
		t.Errorf("GuildIDs() = %v", ids)
	}
}

func TestHas(t *testing.T) {
	svc := loadTestService(t)

	tests := []struct {
		name    string
		guildID string
		roles   []string
		cap     Capability
		want    bool
	}{
		{"admin can setup", "111", []string{"admin"}, CapSetup, true},
		{"member cannot setup", "111", []string{"member"}, CapSetup, false},
		{"member can submit", "111", []string{"member"}, CapSubmit, true},
		{"mod can approve", "111", []string{"mod"}, CapApprove, true},
		{"any matching role grants", "111", []string{"guest", "mod"}, CapApprove, true},
		{"no roles denies", "111", nil, CapSubmit, false},
		{"unknown guild denies", "999", []string{"admin"}, CapSetup, false},
		{"unconfigured capability denies", "222", []string{"everyone"}, CapSetup, false},
		{"configured capability in second guild", "222", []string{"everyone"}, CapSubmit, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.Has(tt.guildID, tt.roles, tt.cap); got != tt.want {
				t.Errorf("Has(%q, %v, %q) = %v, want %v", tt.guildID, tt.roles, tt.cap, got, tt.want)
			}
		})
	}
}
