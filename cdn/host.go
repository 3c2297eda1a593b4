// Package cdn resolves media to public URLs and stores media objects.
package cdn

import (
	"fmt"
	"path"
	"strings"

	"chargallery/models"
)

// Host builds public URLs for media served from the CDN pull zone. Objects
// live under Folder in storage and at the root of BaseURL.
type Host struct {
	BaseURL string
	Folder  string
}

func NewHost(baseURL, folder string) *Host {
	return &Host{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Folder:  strings.Trim(folder, "/"),
	}
}

// URL returns "<base>/<mediaID>.<ext>". It performs no I/O.
func (h *Host) URL(mediaID, ext string) string {
	return fmt.Sprintf("%s/%s.%s", h.BaseURL, mediaID, normalizeExt(ext))
}

func (h *Host) MediaURL(m models.Media) string {
	return h.URL(m.ID.Hex(), m.FileType)
}

// ObjectKey is the storage key a media object is uploaded under.
func (h *Host) ObjectKey(mediaID, ext string) string {
	name := mediaID + "." + normalizeExt(ext)
	if h.Folder == "" {
		return name
	}
	return path.Join(h.Folder, name)
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
