package render

import (
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// go-mp3 always produces interleaved 16-bit little-endian stereo.
const mp3FrameSize = 4

func mp3Format(rate int) beep.Format {
	return beep.Format{SampleRate: beep.SampleRate(rate), NumChannels: 2, Precision: 2}
}

// mp3Stream reads PCM frames from go-mp3. It does not own the file: the
// renderer closes it.
type mp3Stream struct {
	dec *mp3.Decoder
	pcm []byte
	err error
}

func decodeMP3(file *os.File) (beep.StreamSeeker, io.Closer, beep.Format, error) {
	dec, err := mp3.NewDecoder(file)
	if err != nil {
		return nil, nil, beep.Format{}, err
	}
	if dec.SampleRate() <= 0 {
		return nil, nil, beep.Format{}, errors.New("mp3: invalid sample rate")
	}
	return &mp3Stream{dec: dec}, file, mp3Format(dec.SampleRate()), nil
}

func (s *mp3Stream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil || len(samples) == 0 {
		return 0, false
	}
	want := len(samples) * mp3FrameSize
	if cap(s.pcm) < want {
		s.pcm = make([]byte, want)
	}
	buf := s.pcm[:want]

	got, err := io.ReadFull(s.dec, buf)
	switch {
	case err == nil, errors.Is(err, io.ErrUnexpectedEOF):
	case errors.Is(err, io.EOF):
		return 0, false
	default:
		s.err = err
		return 0, false
	}

	frames := got / mp3FrameSize
	for i := range frames {
		frame := buf[i*mp3FrameSize:]
		samples[i][0] = pcm16(binary.LittleEndian.Uint16(frame))
		samples[i][1] = pcm16(binary.LittleEndian.Uint16(frame[2:]))
	}
	return frames, frames > 0
}

func pcm16(v uint16) float64 {
	return float64(int16(v)) / (1 << 15) //nolint:gosec // reinterpreting PCM bits
}

func (s *mp3Stream) Err() error { return s.err }

func (s *mp3Stream) Len() int {
	return int(max(s.dec.SampleCount(), 0))
}

func (s *mp3Stream) Position() int {
	return int(s.dec.SamplePosition())
}

// Seek expects p within [0, Len]; the renderer clamps it.
func (s *mp3Stream) Seek(p int) error {
	if err := s.dec.SeekToSample(int64(p)); err != nil {
		return err
	}
	s.err = nil
	return nil
}
