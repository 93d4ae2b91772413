package player

import "time"

// TrackInfo is the descriptive metadata carried by a renderer.
type TrackInfo struct {
	URI         string
	Path        string
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Year        int
	Track       int
	Genre       string
	Duration    time.Duration
	SampleRate  int
	BitDepth    int
	Format      string // "MP3", "FLAC", "WAV", "VORBIS"
}
