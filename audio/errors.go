// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"

	"github.com/ik5/sal"
)

var (
	ErrUnknownFormat   = fmt.Errorf("no loader for format: %w", sal.ErrInvalidFormat)
	ErrEmptyStream     = errors.New("stream produced no frames")
	ErrNotSeekable     = errors.New("source is not seekable")
	ErrChannelMismatch = fmt.Errorf("unsupported channel layout: %w", sal.ErrInvalidFormat)
)
