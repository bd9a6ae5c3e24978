// SPDX-License-Identifier: EPL-2.0

// Package metrics exports device mixer statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ik5/sal"
)

// StatsSource is anything with mixer statistics, normally a *sal.Device.
type StatsSource interface {
	Stats() sal.Stats
}

type counter struct {
	desc  *prometheus.Desc
	value func(sal.Stats) float64
	kind  prometheus.ValueType
}

// Collector is a prometheus.Collector that reads a fresh Stats snapshot
// on every scrape.
type Collector struct {
	src     StatsSource
	metrics []counter
}

// NewCollector returns a collector for src. name becomes the "device"
// label of every metric.
func NewCollector(name string, src StatsSource) *Collector {
	labels := prometheus.Labels{"device": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("sal", "mixer", metric), help, nil, labels)
	}

	return &Collector{
		src: src,
		metrics: []counter{{
			desc:  desc("chunks_total", "Chunks mixed for the backend"),
			value: func(s sal.Stats) float64 { return float64(s.ChunksMixed) },
			kind:  prometheus.CounterValue,
		}, {
			desc:  desc("bytes_total", "Bytes of PCM mixed"),
			value: func(s sal.Stats) float64 { return float64(s.BytesMixed) },
			kind:  prometheus.CounterValue,
		}, {
			desc:  desc("voices_started_total", "Voices started by Play"),
			value: func(s sal.Stats) float64 { return float64(s.VoicesStarted) },
			kind:  prometheus.CounterValue,
		}, {
			desc:  desc("voices_ended_total", "Voices that played out"),
			value: func(s sal.Stats) float64 { return float64(s.VoicesEnded) },
			kind:  prometheus.CounterValue,
		}, {
			desc:  desc("voices_stopped_total", "Voices stopped by Stop"),
			value: func(s sal.Stats) float64 { return float64(s.VoicesStopped) },
			kind:  prometheus.CounterValue,
		}, {
			desc:  desc("out_of_voices_total", "Play calls refused for lack of a free voice"),
			value: func(s sal.Stats) float64 { return float64(s.OutOfVoices) },
			kind:  prometheus.CounterValue,
		}, {
			desc:  desc("decode_errors_total", "Voice blocks skipped after a decode error"),
			value: func(s sal.Stats) float64 { return float64(s.DecodeErrors) },
			kind:  prometheus.CounterValue,
		}, {
			desc:  desc("active_voices", "Voices currently playing"),
			value: func(s sal.Stats) float64 { return float64(s.ActiveVoices) },
			kind:  prometheus.GaugeValue,
		}, {
			desc:  desc("max_voices", "Size of the voice table"),
			value: func(s sal.Stats) float64 { return float64(s.MaxVoices) },
			kind:  prometheus.GaugeValue,
		}},
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.Stats()
	for _, m := range c.metrics {
		ch <- prometheus.MustNewConstMetric(m.desc, m.kind, m.value(st))
	}
}

// NewRegistry returns a registry holding the collector together with the
// process and Go runtime collectors.
func NewRegistry(c *Collector) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(c)
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	reg.MustRegister(collectors.NewGoCollector())

	return reg
}
