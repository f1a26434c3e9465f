package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"agendaku_backend/internals/features/scheduling/availability"
)

// SchedulingConfig: default jam operasional & tampilan agenda.
// Dibaca dari file YAML (SCHEDULING_CONFIG), field kosong diisi default.
type SchedulingConfig struct {
	// Timezone IANA fallback kalau token tidak membawa klaim "tz"
	Timezone string `yaml:"timezone" json:"timezone"`

	DayStart    string `yaml:"day_start" json:"day_start"` // "HH:MM"
	DayEnd      string `yaml:"day_end" json:"day_end"`
	SlotMinutes int    `yaml:"slot_minutes" json:"slot_minutes"`

	// PreviewLimit: jumlah tanggal maksimum pada preview sebelum disimpan
	PreviewLimit int `yaml:"preview_limit" json:"preview_limit"`

	// DefaultColor dipakai event kalender kalau klien tidak punya tag
	DefaultColor string `yaml:"default_color" json:"default_color"`
}

func DefaultScheduling() SchedulingConfig {
	return SchedulingConfig{
		Timezone:     "America/Sao_Paulo",
		DayStart:     "08:00",
		DayEnd:       "18:00",
		SlotMinutes:  60,
		PreviewLimit: 10,
		DefaultColor: "#3788d8",
	}
}

// Normalize mengisi field kosong dengan default
func (c *SchedulingConfig) Normalize() {
	def := DefaultScheduling()
	if strings.TrimSpace(c.Timezone) == "" {
		c.Timezone = def.Timezone
	}
	if strings.TrimSpace(c.DayStart) == "" {
		c.DayStart = def.DayStart
	}
	if strings.TrimSpace(c.DayEnd) == "" {
		c.DayEnd = def.DayEnd
	}
	if c.SlotMinutes <= 0 {
		c.SlotMinutes = def.SlotMinutes
	}
	if c.PreviewLimit <= 0 || c.PreviewLimit > def.PreviewLimit {
		c.PreviewLimit = def.PreviewLimit
	}
	if strings.TrimSpace(c.DefaultColor) == "" {
		c.DefaultColor = def.DefaultColor
	}
}

// Window: jendela operasional harian sebagai TimeRange
func (c SchedulingConfig) Window() (availability.TimeRange, error) {
	return availability.NewTimeRange(c.DayStart, c.DayEnd)
}

func (c SchedulingConfig) Validate() error {
	w, err := c.Window()
	if err != nil {
		return fmt.Errorf("operating window: %w", err)
	}
	if c.SlotMinutes > w.DurationMin() {
		return fmt.Errorf("slot_minutes %d exceeds operating window %s", c.SlotMinutes, w)
	}
	return nil
}

// LoadScheduling: path kosong atau file tidak ada → default tanpa error
func LoadScheduling(path string) (SchedulingConfig, error) {
	cfg := DefaultScheduling()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read scheduling config: %w", err)
	}

	var loaded SchedulingConfig
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return cfg, fmt.Errorf("parse scheduling config: %w", err)
	}
	loaded.Normalize()
	if err := loaded.Validate(); err != nil {
		return cfg, err
	}
	return loaded, nil
}

// SaveScheduling menulis cfg sebagai YAML (0600), dipakai `agendactl config init`
func SaveScheduling(path string, cfg SchedulingConfig) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("config path is empty")
	}
	cfg.Normalize()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
