package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	errNotWAV      = errors.New("not a valid WAV file")
	errUnsupported = errors.New("unsupported sample format")
)

// source yields interleaved float samples in [-1, 1].
type source interface {
	SampleRate() float64
	Channels() int
	// Read fills dst with whole frames and returns the number of samples
	// written. It returns io.EOF once the stream is exhausted.
	Read(dst []float64) (int, error)
	io.Closer
}

func openSource(c *CLI, path string, stdin io.Reader) (source, error) {
	if c.Format == "wav" {
		if path == "-" {
			return nil, fmt.Errorf("%w: WAV input needs a seekable file", errUnsupported)
		}

		return openWAV(path)
	}

	if c.Channels < 1 {
		return nil, fmt.Errorf("invalid channel count %d", c.Channels)
	}

	if path == "-" {
		return newRawSource(stdin, nil, c.Format, c.Rate, c.Channels)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return newRawSource(f, f, c.Format, c.Rate, c.Channels)
}

type wavSource struct {
	f     *os.File
	dec   *wav.Decoder
	buf   *audio.IntBuffer
	scale float64
	chans int
}

func openWAV(path string) (*wavSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, errNotWAV
	}

	if dec.WavAudioFormat != 1 {
		f.Close()
		return nil, fmt.Errorf("%w: WAV format tag %d, convert to integer PCM or use --format=f32le", errUnsupported, dec.WavAudioFormat)
	}

	switch dec.BitDepth {
	case 16, 24, 32:
	default:
		f.Close()
		return nil, fmt.Errorf("%w: %d-bit WAV", errUnsupported, dec.BitDepth)
	}

	return &wavSource{
		f:   f,
		dec: dec,
		buf: &audio.IntBuffer{
			Format:         dec.Format(),
			SourceBitDepth: int(dec.BitDepth),
		},
		scale: 1 / float64(int64(1)<<(dec.BitDepth-1)),
		chans: int(dec.NumChans),
	}, nil
}

func (s *wavSource) SampleRate() float64 { return float64(s.dec.SampleRate) }
func (s *wavSource) Channels() int       { return s.chans }
func (s *wavSource) Close() error        { return s.f.Close() }

func (s *wavSource) Read(dst []float64) (int, error) {
	want := len(dst) - len(dst)%s.chans
	if cap(s.buf.Data) < want {
		s.buf.Data = make([]int, want)
	}

	s.buf.Data = s.buf.Data[:want]

	n, err := s.dec.PCMBuffer(s.buf)
	n -= n % s.chans

	for i, v := range s.buf.Data[:n] {
		dst[i] = float64(v)
	}

	vecmath.ScaleBlock(dst[:n], dst[:n], s.scale)

	if errors.Is(err, io.ErrUnexpectedEOF) || (n == 0 && err == nil) {
		err = io.EOF
	}

	return n, err
}

type rawSource struct {
	r        *bufio.Reader
	c        io.Closer
	float    bool
	width    int
	rate     float64
	channels int
	bytes    []byte
}

func newRawSource(r io.Reader, c io.Closer, format string, rate float64, channels int) (*rawSource, error) {
	s := &rawSource{r: bufio.NewReader(r), c: c, rate: rate, channels: channels}

	switch format {
	case "f32le":
		s.float, s.width = true, 4
	case "s16le":
		s.width = 2
	default:
		if c != nil {
			c.Close()
		}

		return nil, fmt.Errorf("%w: %q", errUnsupported, format)
	}

	return s, nil
}

func (s *rawSource) SampleRate() float64 { return s.rate }
func (s *rawSource) Channels() int       { return s.channels }

func (s *rawSource) Close() error {
	if s.c == nil {
		return nil
	}

	return s.c.Close()
}

func (s *rawSource) Read(dst []float64) (int, error) {
	frameBytes := s.channels * s.width
	want := len(dst) / s.channels * frameBytes

	if cap(s.bytes) < want {
		s.bytes = make([]byte, want)
	}

	got, err := io.ReadFull(s.r, s.bytes[:want])
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}

	n := got / frameBytes * s.channels
	b := s.bytes

	for i := range n {
		if s.float {
			dst[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:])))
		} else {
			dst[i] = float64(int16(binary.LittleEndian.Uint16(b[2*i:]))) / 32768
		}
	}

	return n, err
}
