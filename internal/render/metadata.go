package render

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2"

	"github.com/llehouerou/playctl/internal/player"
)

// ReadTrackInfo reads the tags of the file at path. The title falls back to
// the file name.
func ReadTrackInfo(path string) (*player.TrackInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}

	title := m.Title()
	if title == "" {
		title = baseName(path)
	}

	track, _ := m.Track()

	albumArtist := m.AlbumArtist()
	if albumArtist == "" {
		albumArtist = m.Artist()
	}

	return &player.TrackInfo{
		Path:        path,
		Title:       title,
		Artist:      m.Artist(),
		AlbumArtist: albumArtist,
		Album:       m.Album(),
		Year:        m.Year(),
		Track:       track,
		Genre:       m.Genre(),
	}, nil
}

// trackInfo builds the renderer metadata, tolerating files without tags.
func trackInfo(uri, path string, kind format, s beep.StreamSeeker, sf beep.Format) *player.TrackInfo {
	info, err := ReadTrackInfo(path)
	if err != nil {
		info = &player.TrackInfo{Path: path, Title: baseName(path)}
	}
	info.URI = uri
	info.Format = kind.String()
	info.SampleRate = int(sf.SampleRate)
	info.BitDepth = sf.Precision * 8
	info.Duration = sf.SampleRate.D(s.Len())
	return info
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
