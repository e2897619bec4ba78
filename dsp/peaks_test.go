package dsp

import (
	"reflect"
	"testing"
)

func TestFindPeaksBasic(t *testing.T) {
	x := []float64{0, 1, 0, 3, 0, 2, 0}

	got := FindPeaks(x, PeakCriteria{})
	want := []Peak{{1, 1}, {3, 3}, {5, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindPeaks = %v, want %v", got, want)
	}
}

func TestFindPeaksMinHeight(t *testing.T) {
	x := []float64{0, 1, 0, 3, 0, 2, 0}

	got := FindPeaks(x, PeakCriteria{MinHeight: 1.5})
	want := []Peak{{3, 3}, {5, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindPeaks = %v, want %v", got, want)
	}
}

func TestFindPeaksMinDistance(t *testing.T) {
	// The tallest peak wins; both neighbors are within 3 samples.
	x := []float64{0, 1, 0, 3, 0, 2, 0}

	got := FindPeaks(x, PeakCriteria{MinDistance: 3})
	want := []Peak{{3, 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindPeaks = %v, want %v", got, want)
	}
}

func TestFindPeaksMinProminence(t *testing.T) {
	// The first peak only rises 1 above the valley at index 2; the second
	// rises 3 above the signal floor.
	x := []float64{0, 2, 1, 3, 0}

	got := FindPeaks(x, PeakCriteria{MinProminence: 2})
	want := []Peak{{3, 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindPeaks = %v, want %v", got, want)
	}
}

func TestFindPeaksPlateau(t *testing.T) {
	x := []float64{0, 1, 2, 2, 2, 1, 0}

	got := FindPeaks(x, PeakCriteria{})
	want := []Peak{{3, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindPeaks = %v, want %v", got, want)
	}
}

func TestFindPeaksEdgesIgnored(t *testing.T) {
	// Monotone signals have no interior maxima; end points never count.
	for _, x := range [][]float64{
		{3, 2, 1, 0},
		{0, 1, 2, 3},
		{1, 1, 1, 1},
		{5},
		nil,
	} {
		if got := FindPeaks(x, PeakCriteria{}); len(got) != 0 {
			t.Errorf("FindPeaks(%v) = %v, want none", x, got)
		}
	}
}
