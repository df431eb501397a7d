package universe

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed nse.yaml
var defaultUniverse []byte

// Universe is the list of tracked tickers for the momentum report.
// It is loaded once and passed explicitly to whoever needs it.
// ⭐ SSOT: 종목 유니버스 정의
type Universe struct {
	Name    string   `yaml:"name"`
	Suffix  string   `yaml:"suffix"` // exchange suffix appended to bare symbols, e.g. ".NS"
	Symbols []string `yaml:"symbols"`
}

// Load reads the universe file at path, or the embedded NSE list when path is empty
func Load(path string) (*Universe, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe file: %w", err)
	}
	u, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return u, nil
}

// Default returns the embedded NSE universe
func Default() (*Universe, error) {
	return Parse(defaultUniverse)
}

// Parse decodes a YAML universe
func Parse(data []byte) (*Universe, error) {
	var u Universe
	if err := yaml.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("parse universe: %w", err)
	}
	if len(u.Symbols) == 0 {
		return nil, fmt.Errorf("universe %q has no symbols", u.Name)
	}
	return &u, nil
}

// Tickers returns provider symbols: trimmed, upper-cased, suffixed when the
// entry has no suffix of its own, de-duplicated, in file order.
func (u *Universe) Tickers() []string {
	seen := make(map[string]bool, len(u.Symbols))
	out := make([]string, 0, len(u.Symbols))
	suffix := strings.ToUpper(u.Suffix)

	for _, s := range u.Symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if suffix != "" && !strings.HasSuffix(s, suffix) {
			s += suffix
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
