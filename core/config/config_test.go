package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "%", cfg.Prompt)
	assert.Equal(t, 1000, cfg.HistoryLimit)
	assert.Equal(t, 8, cfg.RecursionLimit)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/etc/conch/config.yaml", []byte(`
prompt: ">>"
history_limit: 10
recursion_limit: 2
`), 0644))

	cfg, err := Load(memFs, "/etc/conch")
	require.NoError(t, err)
	assert.Equal(t, ">>", cfg.Prompt)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Equal(t, 2, cfg.RecursionLimit)
}

func TestLoadAcceptsFilePath(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/conf/config.yaml", []byte(`
prompt: "$"
history_limit: 1
recursion_limit: 1
`), 0644))

	cfg, err := Load(memFs, "/conf/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "$", cfg.Prompt)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/nowhere")
	assert.Error(t, err)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/c/config.yaml", []byte(`
prompt: "%"
history_limit: 1
recursion_limit: 1
shell_port: 22
`), 0644))

	_, err := Load(memFs, "/c")
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/c/config.yaml", []byte(`
prompt: "%"
history_limit: -1
recursion_limit: 0
`), 0644))

	_, err := Load(memFs, "/c")
	assert.Error(t, err)
}
