// SPDX-License-Identifier: EPL-2.0

package sal

// Stats are running counters of a device's mixer.
type Stats struct {
	ChunksMixed   uint64
	BytesMixed    uint64
	VoicesStarted uint64
	VoicesEnded   uint64
	VoicesStopped uint64
	OutOfVoices   uint64
	DecodeErrors  uint64
	ActiveVoices  int
	MaxVoices     int
}

// Stats returns a snapshot of the device counters.
func (d *Device) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := d.stats
	st.MaxVoices = len(d.voices)
	for i := range d.voices {
		if d.voices[i].active() {
			st.ActiveVoices++
		}
	}

	return st
}
