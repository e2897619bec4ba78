package dsp

import (
	"math"
	"testing"
)

func TestResampleRationalInvalidFactors(t *testing.T) {
	x := makeSine(440, 0.1, 8000)
	for _, tc := range [][2]int{{0, 1}, {1, 0}, {-2, 1}, {1, -3}} {
		if _, err := ResampleRational(x, tc[0], tc[1]); err == nil {
			t.Errorf("ResampleRational(%d/%d) succeeded, want error", tc[0], tc[1])
		}
	}
}

func TestResampleRationalIdentity(t *testing.T) {
	x := makeSine(440, 0.1, 8000)
	got, err := ResampleRational(x, 3, 3)
	if err != nil {
		t.Fatalf("ResampleRational: %v", err)
	}
	if len(got) != len(x) {
		t.Fatalf("len = %d, want %d", len(got), len(x))
	}
	for i := range x {
		if got[i] != x[i] {
			t.Fatalf("sample %d changed: %g != %g", i, got[i], x[i])
		}
	}
}

func TestResampleRationalEmpty(t *testing.T) {
	got, err := ResampleRational(nil, 2, 1)
	if err != nil || got != nil {
		t.Errorf("ResampleRational(nil) = %v, %v, want nil, nil", got, err)
	}
}

func TestSpeedUpLength(t *testing.T) {
	x := makeSine(440, 1.0, 8000)
	for _, factor := range []int{2, 5, 10} {
		got, err := SpeedUp(x, factor)
		if err != nil {
			t.Fatalf("SpeedUp(%d): %v", factor, err)
		}
		want := float64(len(x)) / float64(factor)
		if math.Abs(float64(len(got))-want) > want*0.01+2 {
			t.Errorf("SpeedUp(%d): len = %d, want ~%g", factor, len(got), want)
		}
	}
}

func TestSlowDownLength(t *testing.T) {
	x := makeSine(440, 0.25, 8000)
	for _, factor := range []int{2, 5, 10} {
		got, err := SlowDown(x, factor)
		if err != nil {
			t.Fatalf("SlowDown(%d): %v", factor, err)
		}
		want := float64(len(x) * factor)
		if math.Abs(float64(len(got))-want) > want*0.01+2 {
			t.Errorf("SlowDown(%d): len = %d, want ~%g", factor, len(got), want)
		}
	}
}
