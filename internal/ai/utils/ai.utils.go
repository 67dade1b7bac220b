package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"nazcraft_server/internal/logger"
	"nazcraft_server/internal/types"
	"nazcraft_server/internal/utils"
)

// SaveSiteDisk writes the generated document into dir under its download
// filename and returns the full path. dir is created when missing.
func SaveSiteDisk(dir string, site types.GeneratedSite, log logger.Logger) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	filePath := filepath.Join(dir, utils.DownloadFilename(site.Template, site.GeneratedAt))
	if err := os.WriteFile(filePath, []byte(site.HTML), 0o644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", filePath, err)
	}

	log.Info("site saved", map[string]interface{}{
		"siteId": site.ID,
		"path":   filePath,
		"bytes":  len(site.HTML),
	})
	return filePath, nil
}
