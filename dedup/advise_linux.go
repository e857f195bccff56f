//go:build linux

package dedup

import (
	"context"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// adviseSequential tells the kernel the file will be read front to back.
// Files without a descriptor (in-memory filesystems) are left alone.
func adviseSequential(ctx context.Context, f billy.File) {
	fd, ok := f.(interface{ Fd() uintptr })
	if !ok {
		return
	}
	if err := unix.Fadvise(int(fd.Fd()), 0, 0, unix.FADV_SEQUENTIAL); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("file", f.Name()).Msg("fadvise failed")
	}
}
