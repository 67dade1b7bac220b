package utils

import (
	"fmt"
	"strings"
	"time"
)

// DownloadFilename names a generated page the way the download button does:
// nazcraft-<template>-<unix millis>.html.
func DownloadFilename(template string, at time.Time) string {
	t := strings.ToLower(strings.TrimSpace(template))
	if t == "" {
		t = "site"
	}
	return fmt.Sprintf("nazcraft-%s-%d.html", t, at.UnixMilli())
}

// ContentDisposition builds the attachment header for filename.
func ContentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}
