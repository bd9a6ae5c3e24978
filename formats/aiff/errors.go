// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"

	"github.com/ik5/sal"
)

var (
	// ErrNotAiffFile indicates the file is not a valid AIFF file
	ErrNotAiffFile = fmt.Errorf("not an AIFF file: %w", sal.ErrInvalidFormat)

	// ErrUnsupportedBitDepth indicates a sample size other than 8, 16 or 24 bits
	ErrUnsupportedBitDepth = fmt.Errorf("unsupported AIFF bit depth: %w", sal.ErrInvalidFormat)

	// ErrUnsupportedAiffLayout indicates an unsupported AIFF layout
	ErrUnsupportedAiffLayout = fmt.Errorf("unsupported AIFF layout: %w", sal.ErrInvalidFormat)
)
