package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
	"github.com/phanxgames/grove"
)

func TestToneAndPlay(t *testing.T) {
	d := NewSilent(44100)
	if err := d.Tone("beep", 440, 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if got := d.ClipLen("beep"); got != 441 {
		t.Errorf("ClipLen = %d, want 441", got)
	}

	if err := d.Play(grove.NewSound("beep")); err != nil {
		t.Fatal(err)
	}
	if d.Playing() != 1 {
		t.Fatalf("Playing = %d, want 1", d.Playing())
	}

	samples := d.Pump(256)
	var loud bool
	for _, s := range samples {
		if s[0] != 0 {
			loud = true
			break
		}
	}
	if !loud {
		t.Error("expected non-silent samples from a playing tone")
	}

	d.Pump(2048)
	if d.Playing() != 0 {
		t.Errorf("Playing = %d after the clip ended, want 0", d.Playing())
	}
}

func TestLoopKeepsPlaying(t *testing.T) {
	d := NewSilent(44100)
	_ = d.Tone("hum", 100, 5*time.Millisecond)
	s := grove.NewSound("hum")
	s.Loop = true
	if err := d.Play(s); err != nil {
		t.Fatal(err)
	}
	d.Pump(4096)
	if d.Playing() != 1 {
		t.Errorf("looping sound stopped: Playing = %d", d.Playing())
	}
	d.Stop()
	if d.Playing() != 0 {
		t.Error("Stop should clear the mixer")
	}
}

func TestSilentVolume(t *testing.T) {
	d := NewSilent(44100)
	_ = d.Tone("beep", 440, 10*time.Millisecond)
	s := grove.NewSound("beep")
	s.Volume = 0
	_ = d.Play(s)
	for _, smp := range d.Pump(256) {
		if smp[0] != 0 || smp[1] != 0 {
			t.Fatal("zero volume should be silent")
		}
	}
}

func TestPlayUnknownClip(t *testing.T) {
	d := NewSilent(44100)
	err := d.Play(grove.NewSound("missing"))
	if !errors.Is(err, ErrUnknownClip) {
		t.Errorf("err = %v, want ErrUnknownClip", err)
	}
}

func TestLoadFileResamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	src := beep.SampleRate(22050)
	sine, err := generators.SineTone(src, 440)
	if err != nil {
		t.Fatal(err)
	}
	format := beep.Format{SampleRate: src, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Take(src.N(100*time.Millisecond), sine), format); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	d := NewSilent(44100)
	if err := d.LoadFile("tone", path); err != nil {
		t.Fatal(err)
	}
	// 100ms at 44.1kHz, give or take resampler edges.
	if n := d.ClipLen("tone"); n < 4300 || n > 4500 {
		t.Errorf("ClipLen = %d, want ~4410", n)
	}
}

func TestLoadFileErrors(t *testing.T) {
	d := NewSilent(44100)
	if err := d.LoadFile("x", filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.wav")
	_ = os.WriteFile(bad, []byte("not a wav"), 0o644)
	if err := d.LoadFile("x", bad); err == nil {
		t.Error("expected decode error")
	}
	if d.Has("x") {
		t.Error("failed loads should not register a clip")
	}
}

func TestEngineBindsSound(t *testing.T) {
	d := NewSilent(44100)
	_ = d.Tone("flap", 660, 20*time.Millisecond)
	e := grove.NewEngine(grove.DefaultConfig(), grove.WithAudio(d))

	bird := grove.NewNode("bird")
	bird.Sound = grove.NewSound("flap")
	bird.Sound.Autoplay = true
	e.AddChild(bird)

	if d.Playing() != 1 {
		t.Errorf("autoplay: Playing = %d, want 1", d.Playing())
	}
	if err := bird.Sound.Play(); err != nil {
		t.Errorf("Play: %v", err)
	}
	if d.Playing() != 2 {
		t.Errorf("Playing = %d, want 2", d.Playing())
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("GROVE_AUDIO_DISABLED", "true")
	t.Setenv("GROVE_AUDIO_SAMPLE_RATE", "48000")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	d, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	if d.SampleRate() != 48000 {
		t.Errorf("SampleRate = %d", d.SampleRate())
	}
}
