// Package config loads the static game definition: teams, districts, map
// assets, and the channels the service listens on. The definition is read
// once at startup from a YAML file and is immutable afterwards.
package config

import (
	"fmt"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/louisbranch/turfwars/internal/domain"
)

// ChannelRole describes what a known channel is for.
type ChannelRole string

const (
	// RoleAdmin marks the operator channel receiving error reports.
	RoleAdmin ChannelRole = "admin"
	// RoleBank marks the channel where claim negotiations run.
	RoleBank ChannelRole = "bank"
	// RoleFight marks the channel where raid negotiations run.
	RoleFight ChannelRole = "fight"
	// RoleTeam marks a team's own channel.
	RoleTeam ChannelRole = "team"
)

// TeamConfig describes one team in the static game definition.
type TeamConfig struct {
	Name                string `yaml:"name"`
	ChannelID           int64  `yaml:"channel_id"`
	ColorHex            string `yaml:"color_hex"`
	ColorEmoji          string `yaml:"color_emoji"`
	DefaultDistrictName string `yaml:"default_district"`
}

// DistrictConfig describes one district and its mask asset.
type DistrictConfig struct {
	Name         string `yaml:"name"`
	MaskAssetRef string `yaml:"mask"`
}

// MapConfig describes the static layers of the ownership map.
type MapConfig struct {
	BaseAssetRef   string `yaml:"base"`
	LegendAssetRef string `yaml:"legend"`
	NeutralColor   string `yaml:"neutral_color"`
}

// Game is the immutable game definition.
type Game struct {
	AdminChannelID int64            `yaml:"admin_channel_id"`
	BankChannelID  int64            `yaml:"bank_channel_id"`
	FightChannelID int64            `yaml:"fight_channel_id"`
	Teams          []TeamConfig     `yaml:"teams"`
	Districts      []DistrictConfig `yaml:"districts"`
	Map            MapConfig        `yaml:"map"`

	teamsByName map[string]domain.Team
	teamsByID   map[domain.TeamID]domain.Team
	roles       map[int64]ChannelRole
}

// LoadGame reads and validates a game definition from path.
func LoadGame(path string) (*Game, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game config: %w", err)
	}
	return ParseGame(raw)
}

// LoadGameFS reads and validates a game definition from a file system, which
// keeps the parser testable without touching the disk.
func LoadGameFS(fsys fs.FS, path string) (*Game, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read game config: %w", err)
	}
	return ParseGame(raw)
}

// ParseGame decodes and validates a YAML game definition.
func ParseGame(raw []byte) (*Game, error) {
	var game Game
	if err := yaml.Unmarshal(raw, &game); err != nil {
		return nil, fmt.Errorf("decode game config: %w", err)
	}
	if err := game.buildIndexes(); err != nil {
		return nil, err
	}
	return &game, nil
}

func (g *Game) buildIndexes() error {
	if len(g.Teams) == 0 {
		return fmt.Errorf("game config needs at least one team")
	}
	if len(g.Districts) == 0 {
		return fmt.Errorf("game config needs at least one district")
	}

	districtNames := make(map[string]bool, len(g.Districts))
	for _, district := range g.Districts {
		if district.Name == "" {
			return fmt.Errorf("district name is required")
		}
		if districtNames[district.Name] {
			return fmt.Errorf("duplicate district name %q", district.Name)
		}
		if district.MaskAssetRef == "" {
			return fmt.Errorf("district %q needs a mask asset", district.Name)
		}
		districtNames[district.Name] = true
	}

	g.teamsByName = make(map[string]domain.Team, len(g.Teams))
	g.teamsByID = make(map[domain.TeamID]domain.Team, len(g.Teams))
	g.roles = map[int64]ChannelRole{
		g.AdminChannelID: RoleAdmin,
		g.BankChannelID:  RoleBank,
		g.FightChannelID: RoleFight,
	}
	defaultDistricts := make(map[string]string, len(g.Teams))
	for _, cfg := range g.Teams {
		if cfg.Name == "" {
			return fmt.Errorf("team name is required")
		}
		if _, ok := g.teamsByName[cfg.Name]; ok {
			return fmt.Errorf("duplicate team name %q", cfg.Name)
		}
		if !districtNames[cfg.DefaultDistrictName] {
			return fmt.Errorf("team %q default district %q is not a known district", cfg.Name, cfg.DefaultDistrictName)
		}
		if holder, taken := defaultDistricts[cfg.DefaultDistrictName]; taken {
			return fmt.Errorf("teams %q and %q share default district %q", holder, cfg.Name, cfg.DefaultDistrictName)
		}
		defaultDistricts[cfg.DefaultDistrictName] = cfg.Name

		team := domain.Team{
			ID:                  domain.TeamID(cfg.ChannelID),
			Name:                cfg.Name,
			ChannelID:           cfg.ChannelID,
			ColorHex:            cfg.ColorHex,
			ColorEmoji:          cfg.ColorEmoji,
			DefaultDistrictName: cfg.DefaultDistrictName,
		}
		if holder, taken := g.teamsByID[team.ID]; taken {
			return fmt.Errorf("teams %q and %q share channel id %d", holder.Name, cfg.Name, cfg.ChannelID)
		}
		if role, taken := g.roles[team.ChannelID]; taken {
			return fmt.Errorf("team %q channel id %d is already the %s channel", cfg.Name, cfg.ChannelID, role)
		}
		g.teamsByName[team.Name] = team
		g.teamsByID[team.ID] = team
		g.roles[team.ChannelID] = RoleTeam
	}
	return nil
}

// TeamByName resolves a team by display name.
func (g *Game) TeamByName(name string) (domain.Team, error) {
	team, ok := g.teamsByName[name]
	if !ok {
		return domain.Team{}, fmt.Errorf("team %q: %w", name, domain.ErrUnknownTeam)
	}
	return team, nil
}

// TeamByID resolves a team by id.
func (g *Game) TeamByID(id domain.TeamID) (domain.Team, error) {
	team, ok := g.teamsByID[id]
	if !ok {
		return domain.Team{}, fmt.Errorf("team %d: %w", id, domain.ErrUnknownTeam)
	}
	return team, nil
}

// AllTeams returns every team sorted by name.
func (g *Game) AllTeams() []domain.Team {
	teams := make([]domain.Team, 0, len(g.teamsByName))
	for _, team := range g.teamsByName {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams
}

// TeamNames returns every team name sorted alphabetically.
func (g *Game) TeamNames() []string {
	names := make([]string, 0, len(g.teamsByName))
	for name := range g.teamsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TeamColorHex returns the map color of the team, if known. It satisfies the
// palette contract of the map compositor.
func (g *Game) TeamColorHex(id domain.TeamID) (string, bool) {
	team, ok := g.teamsByID[id]
	if !ok {
		return "", false
	}
	return team.ColorHex, true
}

// ChannelRole reports the role of a channel id; ok is false for channels the
// service does not know about.
func (g *Game) ChannelRole(channelID int64) (ChannelRole, bool) {
	role, ok := g.roles[channelID]
	return role, ok
}

// DefaultOwner returns the team seeded as initial owner of the named
// district, if any.
func (g *Game) DefaultOwner(districtName string) (domain.Team, bool) {
	for _, team := range g.teamsByName {
		if team.DefaultDistrictName == districtName {
			return team, true
		}
	}
	return domain.Team{}, false
}
