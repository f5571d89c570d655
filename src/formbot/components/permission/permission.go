package permission

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Capability is a named permission gate resolved against guild role
// configuration.
type Capability string

const (
	CapSetup   Capability = "setup_command"
	CapSubmit  Capability = "form_submission"
	CapApprove Capability = "form_approval"
)

type roleList struct {
	Roles []string `yaml:"roles"`
}

type guildConfig struct {
	ID          string              `yaml:"id"`
	Permissions map[string]roleList `yaml:"permissions"`
}

type fileConfig struct {
	Guilds []guildConfig `yaml:"guilds"`
}

// Service answers capability checks from the guild role configuration.
type Service struct {
	guilds map[string]map[Capability][]string
}

// Load reads the guilds.yml capability-to-roles mapping.
func Load(path string) (*Service, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read permission config %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse permission config %s: %w", path, err)
	}

	svc := &Service{guilds: make(map[string]map[Capability][]string)}
	for _, g := range cfg.Guilds {
		caps := make(map[Capability][]string)
		for key, rl := range g.Permissions {
			caps[Capability(key)] = rl.Roles
		}
		svc.guilds[g.ID] = caps
	}
	return svc, nil
}

// GuildIDs returns the configured guilds, for slash command registration.
func (s *Service) GuildIDs() []string {
	ids := make([]string, 0, len(s.guilds))
	for id := range s.guilds {
		ids = append(ids, id)
	}
	return ids
}

// Has reports whether any of the member's roles grants the capability in
// the guild. Unknown guilds and unconfigured capabilities deny.
func (s *Service) Has(guildID string, memberRoles []string, cap Capability) bool {
	caps, ok := s.guilds[guildID]
	if !ok {
		return false
	}
	allowed, ok := caps[cap]
	if !ok {
		return false
	}
	for _, role := range memberRoles {
		for _, want := range allowed {
			if role == want {
				return true
			}
		}
	}
	return false
}
