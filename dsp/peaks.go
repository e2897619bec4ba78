package dsp

import "sort"

// Peak is a local maximum found by FindPeaks.
type Peak struct {
	Index  int
	Height float64
}

// PeakCriteria restricts which local maxima FindPeaks reports. All
// conditions are applied, in the order: height, distance, prominence.
type PeakCriteria struct {
	// MinHeight is the smallest accepted peak value.
	MinHeight float64
	// MinDistance is the smallest allowed index spacing between peaks;
	// of two closer peaks the smaller is dropped.
	MinDistance int
	// MinProminence is the smallest accepted rise of a peak above its
	// surrounding valleys.
	MinProminence float64
}

// FindPeaks locates local maxima of x subject to the criteria. Flat-topped
// maxima report the middle sample of the plateau.
func FindPeaks(x []float64, c PeakCriteria) []Peak {
	peaks := localMaxima(x)

	if c.MinHeight > 0 {
		kept := peaks[:0]
		for _, p := range peaks {
			if p.Height >= c.MinHeight {
				kept = append(kept, p)
			}
		}
		peaks = kept
	}

	if c.MinDistance > 1 {
		peaks = selectByDistance(peaks, c.MinDistance)
	}

	if c.MinProminence > 0 {
		kept := peaks[:0]
		for _, p := range peaks {
			if prominence(x, p.Index) >= c.MinProminence {
				kept = append(kept, p)
			}
		}
		peaks = kept
	}

	return peaks
}

// localMaxima finds samples strictly greater than both neighbors, treating
// a plateau as a single peak at its midpoint.
func localMaxima(x []float64) []Peak {
	var peaks []Peak
	i := 1
	for i < len(x)-1 {
		if x[i-1] >= x[i] {
			i++
			continue
		}
		// Climbed; skip over any plateau.
		j := i
		for j < len(x)-1 && x[j+1] == x[i] {
			j++
		}
		if j < len(x)-1 && x[j+1] < x[i] {
			mid := (i + j) / 2
			peaks = append(peaks, Peak{Index: mid, Height: x[mid]})
		}
		i = j + 1
	}
	return peaks
}

// selectByDistance keeps the tallest peaks such that no two survivors are
// closer than dist samples.
func selectByDistance(peaks []Peak, dist int) []Peak {
	order := make([]int, len(peaks))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return peaks[order[a]].Height > peaks[order[b]].Height
	})

	removed := make([]bool, len(peaks))
	for _, i := range order {
		if removed[i] {
			continue
		}
		for j := i - 1; j >= 0 && peaks[i].Index-peaks[j].Index < dist; j-- {
			removed[j] = true
		}
		for j := i + 1; j < len(peaks) && peaks[j].Index-peaks[i].Index < dist; j++ {
			removed[j] = true
		}
	}

	var kept []Peak
	for i, p := range peaks {
		if !removed[i] {
			kept = append(kept, p)
		}
	}
	return kept
}

// prominence measures how far the peak at idx rises above the higher of
// the two valleys separating it from taller terrain (or the signal edge).
func prominence(x []float64, idx int) float64 {
	h := x[idx]

	leftMin := h
	for i := idx - 1; i >= 0 && x[i] <= h; i-- {
		if x[i] < leftMin {
			leftMin = x[i]
		}
	}

	rightMin := h
	for i := idx + 1; i < len(x) && x[i] <= h; i++ {
		if x[i] < rightMin {
			rightMin = x[i]
		}
	}

	base := leftMin
	if rightMin > base {
		base = rightMin
	}
	return h - base
}
