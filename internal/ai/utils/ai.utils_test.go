package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nazcraft_server/internal/logger"
	"nazcraft_server/internal/types"
)

func TestSaveSiteDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	site := types.GeneratedSite{
		ID:          "site-1",
		Template:    "chat",
		HTML:        "<!DOCTYPE html><html></html>",
		GeneratedAt: time.UnixMilli(1700000000000),
	}

	path, err := SaveSiteDisk(dir, site, logger.NewTestLogger(t))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "nazcraft-chat-1700000000000.html"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, site.HTML, string(data))
}

func TestSaveSiteDisk_UnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain-file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := SaveSiteDisk(filepath.Join(file, "sub"), types.GeneratedSite{Template: "business"}, logger.NewNoOpLogger())
	assert.Error(t, err)
}
