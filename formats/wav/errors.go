// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"

	"github.com/ik5/sal"
)

var (
	ErrNotWavFile          = fmt.Errorf("not a WAV file: %w", sal.ErrInvalidFormat)
	ErrNotPCM              = fmt.Errorf("WAV data is not linear PCM: %w", sal.ErrInvalidFormat)
	ErrUnsupportedBitDepth = fmt.Errorf("unsupported WAV bit depth: %w", sal.ErrInvalidFormat)
	ErrShortWrite          = errors.New("write is not a whole number of frames")
)
