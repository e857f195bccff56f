package dedup

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/nrtkbb/dupscan/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortBySize(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 20; round++ {
		files := make([]models.FileRecord, rng.Intn(50))
		for i := range files {
			size := uint64(rng.Intn(8))
			if rng.Intn(4) == 0 {
				size += uint64(rng.Intn(3)) << 32
			}
			files[i] = models.FileRecord{Name: "f", Size: size}
		}

		SortBySize(files)
		for i := 0; i+1 < len(files); i++ {
			require.LessOrEqual(t, files[i].Size, files[i+1].Size)
		}
	}
}

func TestSortBySizeDegenerate(t *testing.T) {
	assert.NotPanics(t, func() { SortBySize(nil) })
	assert.NotPanics(t, func() { SortBySize([]models.FileRecord{}) })

	one := []models.FileRecord{{Name: "only", Size: 3}}
	SortBySize(one)
	assert.Equal(t, "only", one[0].Name)
}

func TestOrderEqualSizes(t *testing.T) {
	fsys, _ := writeDir(t, map[string]string{
		"X":   "xxxxx",
		"Y":   "xxxxx",
		"Z":   "zzzzz",
		"big": "0123456789",
	})
	cmp := NewComparator(NewFileContents(fsys, nil), nil)

	files := []models.FileRecord{
		{Name: "big", Size: 10},
		{Name: "X", Size: 5},
		{Name: "Z", Size: 5},
		{Name: "Y", Size: 5},
	}
	SortBySize(files)
	OrderEqualSizes(context.Background(), files, cmp)

	assert.Equal(t, "Z", files[2].Name)
	assert.ElementsMatch(t, []string{"X", "Y"}, []string{files[0].Name, files[1].Name})
	assert.Equal(t, "big", files[3].Name)
}

func TestOrderEqualSizesLeavesPairsAlone(t *testing.T) {
	stub := &countingContents{}
	cmp := NewComparator(stub, nil)

	files := []models.FileRecord{{Name: "a", Size: 1}, {Name: "b", Size: 1}, {Name: "c", Size: 2}}
	OrderEqualSizes(context.Background(), files, cmp)

	assert.Zero(t, stub.calls)
}

func TestOrderEqualSizesSetsAsideUnreadableFiles(t *testing.T) {
	base, _ := writeDir(t, map[string]string{"a": "same", "b": "xxxx", "c": "same"})
	fsys := &trackingFS{Filesystem: base, failOpen: map[string]bool{"b": true}}

	orders := [][]string{
		{"a", "b", "c"},
		{"b", "a", "c"},
		{"a", "c", "b"},
		{"c", "b", "a"},
		{"b", "c", "a"},
		{"c", "a", "b"},
	}
	for _, order := range orders {
		t.Run(strings.Join(order, ""), func(t *testing.T) {
			files := make([]models.FileRecord, 0, len(order))
			for _, name := range order {
				files = append(files, models.FileRecord{Name: name, Size: 4})
			}
			cmp := NewComparator(NewFileContents(fsys, nil), nil)

			OrderEqualSizes(context.Background(), files, cmp)
			assert.Equal(t, "b", files[2].Name, "unreadable file goes last")

			groups, skipped, err := FindGroups(context.Background(), files, cmp, nil)
			require.NoError(t, err)
			require.Len(t, groups, 1)
			assert.ElementsMatch(t, []string{"a", "c"}, names(groups[0]))
			require.Len(t, skipped, 1)
			assert.ErrorIs(t, skipped[0], ErrOpen)
		})
	}
}
