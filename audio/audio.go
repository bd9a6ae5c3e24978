// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ik5/sal"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Seeker repositions a Source. Frames count one sample per channel.
type Seeker interface {
	SeekFrame(frame int64) error
	// Length is the total number of frames, or 0 when unknown.
	Length() int64
}

// SeekableSource is a Source a voice can be played from at any cursor.
type SeekableSource interface {
	Source
	Seeker
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Loader creates a sample playable on d from an encoded file image.
type Loader interface {
	Load(d *sal.Device, data []byte) (*sal.Sample, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(d *sal.Device, data []byte) (*sal.Sample, error)

func (f LoaderFunc) Load(d *sal.Device, data []byte) (*sal.Sample, error) {
	return f(d, data)
}

// Registry for loaders by format key (e.g., "wav", "mp3", "ogg").
type Registry struct {
	loaders map[string]Loader

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		loaders: make(map[string]Loader),
		mtx:     &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, l Loader) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.loaders[strings.ToLower(format)] = l
}

func (r *Registry) Get(format string) (Loader, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	l, ok := r.loaders[strings.ToLower(format)]
	return l, ok
}

// Formats returns the registered format keys, sorted.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	keys := make([]string, 0, len(r.loaders))
	for k := range r.loaders {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}

// LoadFile reads path and loads it with the loader registered for its
// extension.
func (r *Registry) LoadFile(d *sal.Device, path string) (*sal.Sample, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")

	l, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	s, err := l.Load(d, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}
