package content

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/Iron-Ham/moyu/internal/calendar"
	"github.com/Iron-Ham/moyu/internal/errors"
	"gopkg.in/yaml.v3"
)

// ActivityDraw is how many activities are shown from each activity pool.
const ActivityDraw = 3

// Pack is the complete set of static dashboard content.
type Pack struct {
	targets     []calendar.Target
	facts       Pool
	tips        Pool
	recommended Pool
	discouraged Pool
}

// Default returns the built-in content.
func Default() *Pack {
	return &Pack{
		targets:     calendar.DefaultTargets(),
		facts:       NewPool(PoolFacts, defaultFacts),
		tips:        NewPool(PoolTips, defaultTips),
		recommended: NewPool(PoolRecommended, defaultRecommended),
		discouraged: NewPool(PoolDiscouraged, defaultDiscouraged),
	}
}

// Targets returns a copy of the target dates in display order.
func (p *Pack) Targets() []calendar.Target { return slices.Clone(p.targets) }

// Facts returns the informational fact pool.
func (p *Pack) Facts() Pool { return p.facts }

// Tips returns the tip pool.
func (p *Pack) Tips() Pool { return p.tips }

// Recommended returns the recommended activity pool.
func (p *Pack) Recommended() Pool { return p.recommended }

// Discouraged returns the discouraged activity pool.
func (p *Pack) Discouraged() Pool { return p.discouraged }

// packFile is the YAML layout of a content pack. Omitted fields keep the
// built-in values.
type packFile struct {
	Targets     []targetEntry `yaml:"targets"`
	Facts       []string      `yaml:"facts"`
	Tips        []string      `yaml:"tips"`
	Recommended []string      `yaml:"recommended"`
	Discouraged []string      `yaml:"discouraged"`
}

type targetEntry struct {
	Label string `yaml:"label"`
	Date  string `yaml:"date"`
}

// LoadPack reads a content pack file and overlays it on the defaults.
// An empty path returns the defaults.
func LoadPack(path string) (*Pack, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewContentError(path, "", err)
	}
	return ParsePack(path, data)
}

// ParsePack decodes YAML content pack data. path is only used in errors.
func ParsePack(path string, data []byte) (*Pack, error) {
	var file packFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.NewContentError(path, "", fmt.Errorf("parse yaml: %w", err))
	}

	pack := Default()

	if file.Targets != nil {
		targets, err := parseTargets(path, file.Targets)
		if err != nil {
			return nil, err
		}
		pack.targets = targets
	}

	overlays := []struct {
		name  string
		items []string
		min   int
		dst   *Pool
	}{
		{PoolFacts, file.Facts, 1, &pack.facts},
		{PoolTips, file.Tips, 1, &pack.tips},
		{PoolRecommended, file.Recommended, ActivityDraw, &pack.recommended},
		{PoolDiscouraged, file.Discouraged, ActivityDraw, &pack.discouraged},
	}
	for _, o := range overlays {
		if o.items == nil {
			continue
		}
		items := trimEntries(o.items)
		if err := checkPoolSize(path, o.name, items, o.min); err != nil {
			return nil, err
		}
		*o.dst = NewPool(o.name, items)
	}

	return pack, nil
}

func parseTargets(path string, entries []targetEntry) ([]calendar.Target, error) {
	if len(entries) == 0 {
		return nil, errors.NewContentError(path, "targets", errors.ErrNoTargets)
	}

	seen := make(map[string]bool, len(entries))
	targets := make([]calendar.Target, 0, len(entries))
	for i, entry := range entries {
		field := fmt.Sprintf("targets[%d]", i)
		label := strings.TrimSpace(entry.Label)
		if label == "" {
			return nil, errors.NewContentError(path, field, fmt.Errorf("%w: blank label", errors.ErrInvalidTarget))
		}
		if seen[label] {
			return nil, errors.NewContentError(path, field, fmt.Errorf("%w: duplicate label %q", errors.ErrInvalidTarget, label))
		}
		seen[label] = true

		date, err := calendar.ParseDate(strings.TrimSpace(entry.Date))
		if err != nil {
			return nil, errors.NewContentError(path, field, fmt.Errorf("%w: %v", errors.ErrInvalidTarget, err))
		}
		targets = append(targets, calendar.Target{Label: label, Date: date})
	}
	return targets, nil
}

// trimEntries drops blank and repeated entries and surrounding whitespace,
// keeping first occurrences in order.
func trimEntries(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		s := strings.TrimSpace(item)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func checkPoolSize(path, name string, items []string, min int) error {
	if len(items) == 0 {
		return errors.NewContentError(path, name, errors.ErrEmptyPool)
	}
	if len(items) < min {
		return errors.NewContentError(path, name, fmt.Errorf("%w: need at least %d distinct entries, got %d", errors.ErrPoolTooSmall, min, len(items)))
	}
	return nil
}
