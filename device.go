// SPDX-License-Identifier: EPL-2.0

package sal

import (
	"fmt"
	"sync"
	"time"
)

// MixScratchSize bounds how many bytes of a voice are decoded at a time
// while mixing.
const MixScratchSize = 512

// Device owns the voice table, the mix format and the lock that the
// application and the backend's delivery thread share.
type Device struct {
	cb       Callbacks
	mu       sync.Locker
	platform Platform
	backend  Backend
	info     DeviceInfo

	voices []voice
	views  []Voice

	scratch [MixScratchSize]byte
	stats   Stats
	closed  bool
}

// NewDevice creates a device with room for maxVoices simultaneous voices
// and opens the backend selected by sp. cb may be nil to use the default
// hooks.
func NewDevice(cb *Callbacks, sp *SystemParams, format Format, maxVoices int) (*Device, error) {
	if sp == nil || maxVoices <= 0 {
		return nil, ErrInvalidParam
	}

	callbacks, err := resolveCallbacks(cb)
	if err != nil {
		return nil, err
	}

	if err := format.validate(); err != nil {
		return nil, err
	}

	backend, err := lookupBackend(sp)
	if err != nil {
		return nil, err
	}

	platform := sp.Platform
	if platform == nil {
		platform = DefaultPlatform()
	}

	mu, err := platform.NewMutex()
	if err != nil {
		return nil, fmt.Errorf("creating device mutex: %w: %w", ErrSystemFailure, err)
	}

	d := &Device{
		cb:       callbacks,
		mu:       mu,
		platform: platform,
		backend:  backend,
		voices:   make([]voice, maxVoices),
		views:    make([]Voice, maxVoices),
	}
	for i := range d.views {
		d.views[i] = Voice{d: d, h: VoiceHandle(i)}
	}

	info, err := backend.Open(d, sp, format)
	if err != nil {
		return nil, err
	}

	if err := info.Format().validate(); err != nil {
		_ = backend.Close()
		return nil, err
	}
	info.derive()
	d.info = info

	if err := backend.Start(d); err != nil {
		_ = backend.Close()
		return nil, err
	}

	log.Debugf("Opened device %q (%v, %d voices)", info.Name, info.Format(), maxVoices)

	return d, nil
}

// Close stops every voice, shuts the backend down and releases the
// device. Calling Close more than once is a no-op.
func (d *Device) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	for h := range d.voices {
		d.stopLocked(VoiceHandle(h))
	}
	d.closed = true
	d.mu.Unlock()

	// The backend joins its delivery thread, which takes the lock.
	err := d.backend.Close()

	d.mu.Lock()
	clear(d.voices)
	d.mu.Unlock()

	log.Debugf("Closed device %q", d.info.Name)

	return err
}

// GetInfo copies the negotiated device info into info. info.Size must be
// DeviceInfoSize.
func (d *Device) GetInfo(info *DeviceInfo) error {
	if info == nil {
		return ErrInvalidParam
	}
	if info.Size != DeviceInfoSize {
		return ErrWrongVersion
	}

	d.mu.Lock()
	*info = d.info
	d.mu.Unlock()

	return nil
}

// Info returns the negotiated device info. It is fixed after creation.
func (d *Device) Info() DeviceInfo { return d.info }

// MaxVoices returns the size of the voice table.
func (d *Device) MaxVoices() int { return len(d.voices) }

// Platform returns the services bound to the device.
func (d *Device) Platform() Platform { return d.platform }

// Sleep pauses the caller using the device's platform.
func (d *Device) Sleep(dur time.Duration) { d.platform.Sleep(dur) }

// Alloc allocates n bytes with the device's allocator.
func (d *Device) Alloc(n int) []byte { return d.cb.Alloc(n) }

// Free returns b to the device's allocator.
func (d *Device) Free(b []byte) { d.cb.Free(b) }

// Warnf reports a recoverable problem through the warning hook.
func (d *Device) Warnf(format string, args ...any) {
	d.cb.Warning(fmt.Sprintf(format, args...))
}

// Errorf reports a fatal problem through the error hook.
func (d *Device) Errorf(format string, args ...any) {
	d.cb.Error(fmt.Sprintf(format, args...))
}
