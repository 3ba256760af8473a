// Package audio plays grove.Sound components through a beep mixer.
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"github.com/phanxgames/grove"
)

// ErrUnknownClip is returned by Play for a clip that was never loaded.
var ErrUnknownClip = errors.New("audio: unknown clip")

// resampleQuality is passed to beep.Resample when a clip's rate differs from
// the device rate.
const resampleQuality = 4

// Config controls the output device.
type Config struct {
	SampleRate   int     `env:"GROVE_AUDIO_SAMPLE_RATE" envDefault:"44100"`
	BufferMillis int     `env:"GROVE_AUDIO_BUFFER_MS"   envDefault:"100"`
	Volume       float64 `env:"GROVE_AUDIO_VOLUME"      envDefault:"1"`
	// Disabled opens a silent device instead of the speaker.
	Disabled bool `env:"GROVE_AUDIO_DISABLED"`
}

// DefaultConfig returns the configuration used when no environment is set.
func DefaultConfig() Config {
	return Config{SampleRate: 44100, BufferMillis: 100, Volume: 1}
}

// LoadConfig reads a Config from GROVE_AUDIO_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := grove.ParseEnv(&cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Device is a grove.AudioOutput. Clips are decoded into memory once and
// every Play mixes a fresh streamer over the shared buffer.
//
// A Device opened with Open owns the process-wide speaker until Close.
type Device struct {
	mu     sync.Mutex
	sr     beep.SampleRate
	mixer  *beep.Mixer
	clips  map[string]*beep.Buffer
	volume float64
	open   bool
}

// Open initialises the speaker and starts the mixer on it.
func Open(cfg Config) (*Device, error) {
	if cfg.Disabled {
		return NewSilent(cfg.SampleRate), nil
	}
	d := newDevice(cfg.SampleRate)
	d.volume = cfg.Volume
	buffer := cfg.BufferMillis
	if buffer <= 0 {
		buffer = 100
	}
	if err := speaker.Init(d.sr, d.sr.N(time.Duration(buffer)*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(d.mixer)
	d.open = true
	grove.Logger().Info("audio device opened", "rate", int(d.sr), "buffer_ms", buffer)
	return d, nil
}

// NewSilent returns a device that mixes but never reaches the speaker.
// Use Pump to advance its mixer.
func NewSilent(rate int) *Device {
	return newDevice(rate)
}

func newDevice(rate int) *Device {
	if rate <= 0 {
		rate = 44100
	}
	return &Device{
		sr:     beep.SampleRate(rate),
		mixer:  &beep.Mixer{},
		clips:  make(map[string]*beep.Buffer),
		volume: 1,
	}
}

// SampleRate returns the device's output rate.
func (d *Device) SampleRate() beep.SampleRate { return d.sr }

// SetVolume sets the master volume applied to sounds started afterwards.
func (d *Device) SetVolume(v float64) {
	d.lock()
	d.volume = v
	d.unlock()
}

// Close stops playback and releases the speaker.
func (d *Device) Close() error {
	d.lock()
	d.mixer.Clear()
	d.unlock()
	if d.open {
		speaker.Close()
		d.open = false
		grove.Logger().Info("audio device closed")
	}
	return nil
}

// LoadWAV decodes a WAV stream into the clip called name, resampling to the
// device rate when needed.
func (d *Device) LoadWAV(name string, r io.Reader) error {
	streamer, format, err := wav.Decode(r)
	if err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != d.sr {
		src = beep.Resample(resampleQuality, format.SampleRate, d.sr, streamer)
	}
	buf := beep.NewBuffer(d.format())
	buf.Append(src)
	d.store(name, buf)
	return nil
}

// LoadFile loads a WAV file from disk.
func (d *Device) LoadFile(name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load clip %s: %w", name, err)
	}
	defer f.Close()
	return d.LoadWAV(name, f)
}

// Tone synthesises a sine clip of the given frequency and duration.
func (d *Device) Tone(name string, freq float64, dur time.Duration) error {
	sine, err := generators.SineTone(d.sr, freq)
	if err != nil {
		return fmt.Errorf("tone %s: %w", name, err)
	}
	buf := beep.NewBuffer(d.format())
	buf.Append(beep.Take(d.sr.N(dur), sine))
	d.store(name, buf)
	return nil
}

// Has reports whether a clip called name is loaded.
func (d *Device) Has(name string) bool {
	d.lock()
	defer d.unlock()
	_, ok := d.clips[name]
	return ok
}

// ClipLen returns the clip's length in samples, zero when unknown.
func (d *Device) ClipLen(name string) int {
	d.lock()
	defer d.unlock()
	if buf, ok := d.clips[name]; ok {
		return buf.Len()
	}
	return 0
}

// Play implements grove.AudioOutput.
func (d *Device) Play(s *grove.Sound) error {
	d.lock()
	defer d.unlock()
	buf, ok := d.clips[s.Clip]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownClip, s.Clip)
	}
	var st beep.Streamer = buf.Streamer(0, buf.Len())
	if s.Loop {
		st = beep.Loop(-1, buf.Streamer(0, buf.Len()))
	}
	d.mixer.Add(withVolume(st, s.Volume*d.volume))
	return nil
}

// Playing returns the number of streams in the mixer.
func (d *Device) Playing() int {
	d.lock()
	defer d.unlock()
	return d.mixer.Len()
}

// Stop removes every playing stream.
func (d *Device) Stop() {
	d.lock()
	d.mixer.Clear()
	d.unlock()
}

// Pump pulls n samples through a silent device's mixer and returns them.
func (d *Device) Pump(n int) [][2]float64 {
	samples := make([][2]float64, n)
	d.lock()
	d.mixer.Stream(samples)
	d.unlock()
	return samples
}

func (d *Device) store(name string, buf *beep.Buffer) {
	d.lock()
	d.clips[name] = buf
	d.unlock()
}

func (d *Device) format() beep.Format {
	return beep.Format{SampleRate: d.sr, NumChannels: 2, Precision: 2}
}

// lock guards the mixer; an open device shares it with the speaker goroutine.
func (d *Device) lock() {
	if d.open {
		speaker.Lock()
		return
	}
	d.mu.Lock()
}

func (d *Device) unlock() {
	if d.open {
		speaker.Unlock()
		return
	}
	d.mu.Unlock()
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
