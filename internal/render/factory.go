// Package render turns media references into renderers for the engine.
package render

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/playctl/internal/player"
)

var (
	// ErrUnsupportedFormat is returned for files no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrUnsupportedScheme is returned for URIs that are not local files.
	ErrUnsupportedScheme = errors.New("unsupported uri scheme")
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
)

type format int

const (
	formatUnknown format = iota
	formatMP3
	formatFLAC
	formatWAV
	formatVorbis
)

func (f format) String() string {
	switch f {
	case formatMP3:
		return "MP3"
	case formatFLAC:
		return "FLAC"
	case formatWAV:
		return "WAV"
	case formatVorbis:
		return "VORBIS"
	default:
		return "UNKNOWN"
	}
}

func formatOf(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3:
		return formatMP3
	case extFLAC:
		return formatFLAC
	case extWAV:
		return formatWAV
	case extOGG:
		return formatVorbis
	default:
		return formatUnknown
	}
}

// IsSupported returns true if path has an extension a decoder handles.
func IsSupported(path string) bool {
	return formatOf(path) != formatUnknown
}

// renderer owns the media file and the decoder reading it. Decoding errors
// surface through Err once Stream stops.
type renderer struct {
	stream beep.StreamSeeker
	closer io.Closer
	format beep.Format
	info   *player.TrackInfo
	closed bool
}

func (r *renderer) Stream(samples [][2]float64) (int, bool) { return r.stream.Stream(samples) }
func (r *renderer) Err() error                             { return r.stream.Err() }
func (r *renderer) Len() int                               { return r.stream.Len() }
func (r *renderer) Position() int                          { return r.stream.Position() }
func (r *renderer) Format() beep.Format                    { return r.format }
func (r *renderer) Info() *player.TrackInfo                { return r.info }

// Seek clamps p to the stream.
func (r *renderer) Seek(p int) error {
	return r.stream.Seek(min(max(p, 0), r.stream.Len()))
}

// Close releases the decoder and the file. Later calls do nothing.
func (r *renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.closer.Close()
}

// FileFactory builds renderers for local files. It accepts file:// URIs,
// absolute or relative paths and ~-prefixed paths.
type FileFactory struct {
	log logrus.FieldLogger
}

// NewFileFactory creates a factory logging to log.
func NewFileFactory(log logrus.FieldLogger) *FileFactory {
	return &FileFactory{log: log.WithField("component", "render")}
}

// Renderer opens and decodes the media at uri.
func (f *FileFactory) Renderer(uri string) (player.Renderer, error) {
	path, err := ResolvePath(uri)
	if err != nil {
		return nil, err
	}

	kind := formatOf(path)
	if kind == formatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	stream, closer, sf, err := decode(kind, file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	r := &renderer{
		stream: stream,
		closer: closer,
		format: sf,
		info:   trackInfo(uri, path, kind, stream, sf),
	}
	f.log.WithFields(logrus.Fields{
		"path":     path,
		"format":   r.info.Format,
		"rate":     r.info.SampleRate,
		"duration": r.info.Duration,
	}).Debug("renderer created")
	return r, nil
}

// decode returns the stream for file and what closes both. beep's own
// decoders close the file with themselves.
func decode(kind format, file *os.File) (beep.StreamSeeker, io.Closer, beep.Format, error) {
	var (
		s   beep.StreamSeekCloser
		sf  beep.Format
		err error
	)
	switch kind {
	case formatMP3:
		return decodeMP3(file)
	case formatFLAC:
		// Some taggers prepend an ID3v2 tag the FLAC decoder does not skip
		if err := skipID3v2(file); err != nil {
			return nil, nil, beep.Format{}, err
		}
		s, sf, err = flac.Decode(file)
	case formatWAV:
		s, sf, err = wav.Decode(file)
	case formatVorbis:
		s, sf, err = vorbis.Decode(file)
	default:
		return nil, nil, beep.Format{}, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, nil, beep.Format{}, err
	}
	return s, s, sf, nil
}

// ResolvePath maps a media reference to a local file path.
func ResolvePath(uri string) (string, error) {
	if uri == "" {
		return "", errors.New("empty uri")
	}
	if strings.HasPrefix(uri, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, uri[1:]), nil
		}
	}

	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 { // "C:\…" parses with scheme "c"
		return filepath.Clean(uri), nil
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("%w: remote host %s", ErrUnsupportedScheme, u.Host)
	}
	return filepath.FromSlash(u.Path), nil
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := r.Read(header)
	if err != nil {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// ID3v2 size is stored as a syncsafe integer in bytes 6-9
	// Each byte only uses 7 bits (bit 7 is always 0)
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])

	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
