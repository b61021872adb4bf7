// Package roster reads the YAML file used to seed teams and the draft pool.
package roster

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Roster struct {
	Teams []Team   `yaml:"teams"`
	Pool  []Player `yaml:"pool"`
}

type Team struct {
	Name         string   `yaml:"name"`
	DisplayOrder int      `yaml:"display_order"`
	Players      []Player `yaml:"players"`
}

type Player struct {
	Name        string `yaml:"name"`
	Tier        string `yaml:"tier"`
	HighestTier string `yaml:"highest_tier"`
	Position    string `yaml:"position"`
	OpggURL     string `yaml:"opgg_url"`
}

func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate rejects blank and duplicate names. Player names must be unique across the whole
// roster because ingestion matches participants by name.
func (r *Roster) Validate() error {
	var errs []error
	teams := map[string]bool{}
	players := map[string]bool{}

	checkPlayer := func(where string, p Player) {
		name := strings.TrimSpace(p.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("%s: player without a name", where))
		case players[name]:
			errs = append(errs, fmt.Errorf("%s: duplicate player %q", where, name))
		default:
			players[name] = true
		}
	}

	for i, t := range r.Teams {
		name := strings.TrimSpace(t.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("teams[%d]: team without a name", i))
		case teams[name]:
			errs = append(errs, fmt.Errorf("teams[%d]: duplicate team %q", i, name))
		default:
			teams[name] = true
		}
		for _, p := range t.Players {
			checkPlayer(fmt.Sprintf("teams[%d]", i), p)
		}
	}
	for _, p := range r.Pool {
		checkPlayer("pool", p)
	}

	return errors.Join(errs...)
}

func (r *Roster) PlayerCount() int {
	n := len(r.Pool)
	for _, t := range r.Teams {
		n += len(t.Players)
	}
	return n
}
