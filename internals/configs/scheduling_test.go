package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSchedulingDefaults(t *testing.T) {
	cfg, err := LoadScheduling("")
	require.NoError(t, err)
	assert.Equal(t, DefaultScheduling(), cfg)

	cfg, err = LoadScheduling(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultScheduling(), cfg)
}

func TestLoadSchedulingPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheduling.yaml")
	require.NoError(t, os.WriteFile(path, []byte("day_start: \"07:30\"\nslot_minutes: 30\npreview_limit: 50\n"), 0o600))

	cfg, err := LoadScheduling(path)
	require.NoError(t, err)
	assert.Equal(t, "07:30", cfg.DayStart)
	assert.Equal(t, "18:00", cfg.DayEnd)
	assert.Equal(t, 30, cfg.SlotMinutes)
	assert.Equal(t, 10, cfg.PreviewLimit, "preview limit never exceeds 10")

	w, err := cfg.Window()
	require.NoError(t, err)
	assert.Equal(t, 450, w.StartMin)
	assert.Equal(t, 1080, w.EndMin)
}

func TestLoadSchedulingRejectsBadWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheduling.yaml")
	require.NoError(t, os.WriteFile(path, []byte("day_start: \"18:00\"\nday_end: \"08:00\"\n"), 0o600))

	cfg, err := LoadScheduling(path)
	require.Error(t, err)
	assert.Equal(t, DefaultScheduling(), cfg)
}

func TestSaveSchedulingRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scheduling.yaml")
	in := DefaultScheduling()
	in.Timezone = "Europe/Lisbon"
	require.NoError(t, SaveScheduling(path, in))

	out, err := LoadScheduling(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
