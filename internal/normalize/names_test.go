package normalize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules_Name(t *testing.T) {
	r := DefaultRules()

	tests := []struct {
		in   string
		want string
	}{
		{"REMA 1000 Sentrum", "Rema 1000 sentrum"},
		{"EUROSPAR Moss", "Eurospar Moss"},
		{"Coop Extra Storsenter - Nord", "Coop Extra storsenter, Nord"},
		{"Joker Maze", "Joker Máze"},
		{"Posten I Oslo", "Posten i Oslo"},
		{"  Bunnpris  ", "Bunnpris"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Name(tt.in))
		})
	}
}

func TestRules_Operator(t *testing.T) {
	r := DefaultRules()

	assert.Equal(t, "Kiwi Grünerløkka", r.Operator("KIWI 512 Grünerløkka"))
	assert.Equal(t, "Rema 1000", r.Operator("REMA 1000 AS"), "digits kept outside Kiwi")
	assert.Equal(t, "Felleskjøpet", r.Operator("Felleskjøpet A/L"))
	assert.Equal(t, "Bunnpris Tromsø", r.Operator("Bunnpris As Tromsø"))
}

func TestRules_NameIsNFC(t *testing.T) {
	r := DefaultRules()
	// Combining acute accent composes to a single code point.
	assert.Equal(t, "M\u00e1ze", r.Name("Ma\u0301ze"))
}

func TestRules_CountySuffix(t *testing.T) {
	r := DefaultRules()
	assert.Equal(t, "M.R.", r.CountySuffix("Møre og Romsdal"))
	assert.Equal(t, "N.", r.CountySuffix("Nordland"))
	assert.Equal(t, "ØSTFOLD", r.CountySuffix("Østfold"))
}

func TestParseRules_Invalid(t *testing.T) {
	_, err := ParseRules([]byte("name_transforms: {not: [a list"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "normalize: parse rules")

	_, err = ParseRules([]byte("name_transforms:\n  - {from: \"\", to: x}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty from")
}

func TestLoadRules(t *testing.T) {
	r, err := LoadRules("")
	require.NoError(t, err)
	assert.NotEmpty(t, r.NameTransforms)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name_transforms:
  - {from: "COOP", to: "Coop"}
county_abbreviations:
  Troms: TR.
`), 0o644))

	r, err = LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, "Coop Prix", r.Name("COOP Prix"))
	assert.Equal(t, "KIWI 12", r.Operator("KIWI 12"), "no strip list configured")
	assert.Equal(t, "TR.", r.CountySuffix("Troms"))

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
