//go:build !linux

package dedup

import (
	"context"

	"github.com/go-git/go-billy/v5"
)

func adviseSequential(context.Context, billy.File) {}
