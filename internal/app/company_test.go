package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCompanyConfigMissing(t *testing.T) {
	cc, err := LoadCompanyConfig(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Nil(t, cc)
}

func TestCompanyConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	in := &CompanyConfig{CompanyName: "Acme", LicenseKey: "KEY-1"}
	require.NoError(t, SaveCompanyConfig(path, in))

	out, err := LoadCompanyConfig(path)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Acme", out.CompanyName)
	assert.Equal(t, "KEY-1", out.LicenseKey)
}

func TestLoadCompanyConfigBroken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := LoadCompanyConfig(path)
	assert.Error(t, err)
}
