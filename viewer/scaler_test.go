package viewer

import (
	"testing"
	"time"
)

func TestScalerStartsAtFullResolution(t *testing.T) {
	s := newResScaler(100 * time.Millisecond)
	w, h := s.RenderRes(640, 480)
	if w != 640 || h != 480 {
		t.Fatalf("expected full resolution; got %dx%d", w, h)
	}
}

func TestScalerShrinksOnSlowFrames(t *testing.T) {
	s := newResScaler(100 * time.Millisecond)

	// A frame 4x over budget halves the scale (area ~ time).
	s.Observe(400 * time.Millisecond)
	w, h := s.RenderRes(100, 100)
	if w != 50 || h != 50 {
		t.Fatalf("expected half resolution; got %dx%d", w, h)
	}
}

func TestScalerClampsAtMinimum(t *testing.T) {
	s := newResScaler(100 * time.Millisecond)
	for i := 0; i < 20; i++ {
		s.Observe(10 * time.Second)
	}

	w, h := s.RenderRes(800, 800)
	if w != 100 || h != 100 {
		t.Fatalf("expected the 1/8 floor; got %dx%d", w, h)
	}
}

func TestScalerRecoversOnFastFrames(t *testing.T) {
	s := newResScaler(100 * time.Millisecond)
	for i := 0; i < 20; i++ {
		s.Observe(10 * time.Second)
	}

	prevW, _ := s.RenderRes(1000, 1000)
	for i := 0; i < 20; i++ {
		s.Observe(10 * time.Millisecond)
		w, _ := s.RenderRes(1000, 1000)
		if w < prevW {
			t.Fatalf("scale regressed from %d to %d on a fast frame", prevW, w)
		}
		prevW = w
	}

	if w, h := s.RenderRes(1000, 1000); w != 1000 || h != 1000 {
		t.Fatalf("expected recovery to full resolution; got %dx%d", w, h)
	}
}

func TestScalerIgnoresBogusFrameTimes(t *testing.T) {
	s := newResScaler(100 * time.Millisecond)
	s.Observe(0)
	s.Observe(-time.Second)
	if w, _ := s.RenderRes(100, 100); w != 100 {
		t.Fatal("non-positive frame times should not move the scale")
	}
}
