package render

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/llehouerou/playctl/internal/player"
)

var (
	coverStems = []string{"cover", "folder", "front", "album"}
	coverExts  = []string{".jpg", ".jpeg", ".png"}
)

// CoverArt returns the image file next to the media, such as Cover.JPG or
// folder.png, or "" when there is none. Names are matched without regard
// to case; earlier stems win over later ones.
func CoverArt(info *player.TrackInfo) string {
	if info == nil || info.Path == "" {
		return ""
	}
	dir := filepath.Dir(info.Path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	byName := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			byName[strings.ToLower(e.Name())] = e.Name()
		}
	}
	for _, stem := range coverStems {
		for _, ext := range coverExts {
			if name, ok := byName[stem+ext]; ok {
				return filepath.Join(dir, name)
			}
		}
	}
	return ""
}

// CoverArtURL is CoverArt as a file:// URL, as media controls expect it.
func CoverArtURL(info *player.TrackInfo) string {
	path := CoverArt(info)
	if path == "" {
		return ""
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
