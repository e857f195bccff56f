package dedup

import "github.com/nrtkbb/dupscan/models"

// CompareSize orders two records by size: -1 if a is smaller, +1 if a is
// larger, 0 if equal. The high halves are compared before the low ones so
// the result never depends on a combined word.
func CompareSize(a, b models.FileRecord) int {
	if ah, bh := a.SizeHigh(), b.SizeHigh(); ah != bh {
		if ah < bh {
			return -1
		}
		return +1
	}
	if al, bl := a.SizeLow(), b.SizeLow(); al != bl {
		if al < bl {
			return -1
		}
		return +1
	}
	return 0
}
