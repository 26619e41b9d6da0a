package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/SzilvasiPeter/icemodoro/internal/session"
)

type Setting struct {
	Key   string
	Value string
}

// Settings is the typed view over the settings table.
type Settings struct {
	FocusMin       int
	ShortBreakMin  int
	LongBreakMin   int
	LongBreakAfter int
	WorkTheme      string
	BreakTheme     string
}

// SessionConfig converts the persisted minutes into a machine configuration.
func (c Settings) SessionConfig() session.Config {
	return session.Config{
		Focus:          time.Duration(c.FocusMin) * time.Minute,
		ShortBreak:     time.Duration(c.ShortBreakMin) * time.Minute,
		LongBreak:      time.Duration(c.LongBreakMin) * time.Minute,
		LongBreakAfter: c.LongBreakAfter,
	}
}

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// LoadSettings reads the typed settings, falling back to the seeded defaults
// for missing or unparsable values.
func (s *Store) LoadSettings() (Settings, error) {
	cfg := Settings{
		FocusMin:       25,
		ShortBreakMin:  5,
		LongBreakMin:   60,
		LongBreakAfter: 4,
		WorkTheme:      "tokyonight",
		BreakTheme:     "solarized-light",
	}

	settings, err := s.GetAllSettings()
	if err != nil {
		return cfg, err
	}
	for _, kv := range settings {
		switch kv.Key {
		case "focus_min":
			if n, err := strconv.Atoi(kv.Value); err == nil && n > 0 {
				cfg.FocusMin = n
			}
		case "short_break_min":
			if n, err := strconv.Atoi(kv.Value); err == nil && n > 0 {
				cfg.ShortBreakMin = n
			}
		case "long_break_min":
			if n, err := strconv.Atoi(kv.Value); err == nil && n > 0 {
				cfg.LongBreakMin = n
			}
		case "long_break_after":
			if n, err := strconv.Atoi(kv.Value); err == nil && n > 0 {
				cfg.LongBreakAfter = n
			}
		case "work_theme":
			if kv.Value != "" {
				cfg.WorkTheme = kv.Value
			}
		case "break_theme":
			if kv.Value != "" {
				cfg.BreakTheme = kv.Value
			}
		}
	}
	return cfg, nil
}

// SaveSettings persists the typed settings.
func (s *Store) SaveSettings(cfg Settings) error {
	values := map[string]string{
		"focus_min":        strconv.Itoa(cfg.FocusMin),
		"short_break_min":  strconv.Itoa(cfg.ShortBreakMin),
		"long_break_min":   strconv.Itoa(cfg.LongBreakMin),
		"long_break_after": strconv.Itoa(cfg.LongBreakAfter),
		"work_theme":       cfg.WorkTheme,
		"break_theme":      cfg.BreakTheme,
	}
	for k, v := range values {
		if err := s.SetSetting(k, v); err != nil {
			return err
		}
	}
	return nil
}
