// Package dtmf implements the dual-tone frequency table and tone synthesis
// for the extended DTMF alphabet used by toneline.
//
// Each symbol is encoded as the sum of one low-band and one high-band
// sinusoid. The table is a fixed 7x5 grid: the row selects a low frequency,
// the column a high frequency.
package dtmf

import "errors"

// ErrUnknownSymbol is returned when a symbol has no table entry.
var ErrUnknownSymbol = errors.New("dtmf: unknown symbol")

// FreqsLow is the set of low-band frequencies in Hz, one per table row.
var FreqsLow = [7]float64{697, 770, 852, 941, 1033, 1125, 1218}

// FreqsHigh is the set of high-band frequencies in Hz, one per table column.
var FreqsHigh = [5]float64{1336, 1477, 1633, 1785, 1944}

// Matrix maps (row, col) to a symbol. Filled row-major with A-Z then 0-8,
// exactly 35 slots. Every symbol appears once, so the mapping is a bijection.
var Matrix = [7][5]byte{
	{'A', 'B', 'C', 'D', 'E'},
	{'F', 'G', 'H', 'I', 'J'},
	{'K', 'L', 'M', 'N', 'O'},
	{'P', 'Q', 'R', 'S', 'T'},
	{'U', 'V', 'W', 'X', 'Y'},
	{'Z', '0', '1', '2', '3'},
	{'4', '5', '6', '7', '8'},
}

// Rows and Cols are the table dimensions.
const (
	Rows = 7
	Cols = 5
)

// Frequencies returns the (low, high) frequency pair for sym.
func Frequencies(sym byte) (low, high float64, err error) {
	for i := range Matrix {
		for j := range Matrix[i] {
			if Matrix[i][j] == sym {
				return FreqsLow[i], FreqsHigh[j], nil
			}
		}
	}
	return 0, 0, ErrUnknownSymbol
}

// Symbol returns the symbol at (row, col). It is total over the grid bounds;
// callers must pass 0 <= row < Rows and 0 <= col < Cols.
func Symbol(row, col int) byte {
	return Matrix[row][col]
}

// Position returns the (row, col) of sym, or ok=false when absent.
func Position(sym byte) (row, col int, ok bool) {
	for i := range Matrix {
		for j := range Matrix[i] {
			if Matrix[i][j] == sym {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}
