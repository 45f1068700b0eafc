// Package locale renders every user-visible string of the dashboard.
//
// The dashboard uses one fixed locale profile, Chinese (Mainland). The
// translations are kept in an embedded YAML catalog and registered with
// golang.org/x/text/message. Catalog keys are the English sentences, so a
// printer for a language without a catalog renders English.
package locale

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// ChineseMainland is the dashboard's locale profile.
var ChineseMainland = language.MustParse("zh-CN")

// Message keys used outside this package.
const (
	KeyLongDate     = "%[4]s, %[2]s %[3]s, %[1]s"
	KeyCountdown    = "Off work in %d hours %d minutes %d seconds"
	KeyJokeFallback = "Failed to fetch a joke, please try again later."
	KeyDays         = "%s days"
	KeyTitle        = "Slacking Office"
	KeyToday        = "Today"
	KeyWeekend      = "Until the weekend"
	KeyHolidays     = "Holiday countdown"
	KeyFact         = "Slacking fact"
	KeyTip          = "Slacking tip"
	KeyJoke         = "Joke of the moment"
	KeyRecommended  = "Recommended"
	KeyDiscouraged  = "Discouraged"
	KeyWorkout      = "Off-work countdown"
	KeyLoading      = "Loading..."
)

//go:embed zh-CN.yaml
var zhCatalog []byte

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

var (
	registerOnce sync.Once
	registerErr  error
)

// Register loads the embedded catalog into x/text's default catalog.
// It is safe to call more than once; only the first call does work.
func Register() error {
	registerOnce.Do(func() {
		registerErr = register(zhCatalog)
	})
	return registerErr
}

func register(data []byte) error {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse locale catalog: %w", err)
	}
	tag, err := language.Parse(strings.TrimSpace(file.Locale))
	if err != nil {
		return fmt.Errorf("parse locale tag %q: %w", file.Locale, err)
	}
	for key, value := range file.Messages {
		if err := message.SetString(tag, key, value); err != nil {
			return fmt.Errorf("register %q: %w", key, err)
		}
	}
	return nil
}

// Formatter renders dashboard strings for one language.
// It is safe for concurrent use.
type Formatter struct {
	tag     language.Tag
	mu      sync.Mutex
	printer *message.Printer
}

// New returns a Formatter for tag. The embedded catalog is registered on
// first use.
func New(tag language.Tag) *Formatter {
	// The catalog is embedded and covered by tests; a failure here would
	// only degrade output to the English keys.
	_ = Register()
	return &Formatter{
		tag:     tag,
		printer: message.NewPrinter(tag),
	}
}

// Default returns a Formatter for the dashboard's fixed locale.
func Default() *Formatter {
	return New(ChineseMainland)
}

// Tag returns the formatter's language tag.
func (f *Formatter) Tag() language.Tag {
	return f.tag
}

// Text translates a catalog key and formats args into it.
func (f *Formatter) Text(key string, args ...any) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.printer.Sprintf(key, args...)
}

// LongDate renders t with weekday, year, month and day, for example
// 2024年12月30日星期一.
func (f *Formatter) LongDate(t time.Time) string {
	return f.Text(KeyLongDate,
		strconv.Itoa(t.Year()),
		f.Text(t.Month().String()),
		strconv.Itoa(t.Day()),
		f.Text(t.Weekday().String()),
	)
}

// Countdown renders the remaining time until the end of the work day.
func (f *Formatter) Countdown(hours, minutes, seconds int) string {
	return f.Text(KeyCountdown, hours, minutes, seconds)
}

// Days renders a day count with its unit.
func (f *Formatter) Days(n int) string {
	return f.Text(KeyDays, strconv.Itoa(n))
}

// JokeFallback returns the text shown when no joke could be fetched.
func (f *Formatter) JokeFallback() string {
	return f.Text(KeyJokeFallback)
}
