// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kittiesvm

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	blocksBuilt prometheus.Counter
	height      prometheus.Gauge
	mempoolSize prometheus.Gauge
	txs         *prometheus.CounterVec
	events      *prometheus.CounterVec
}

func newMetrics(namespace string, registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		blocksBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_built",
			Help:      "Number of blocks built",
		}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "height",
			Help:      "Height of the last accepted block",
		}),
		mempoolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mempool_size",
			Help:      "Number of transactions waiting for a block",
		}),
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "txs",
			Help:      "Number of executed transactions by action and status",
		}, []string{"action", "status"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events",
			Help:      "Number of emitted events by type",
		}, []string{"type"}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.blocksBuilt),
		registerer.Register(m.height),
		registerer.Register(m.mempoolSize),
		registerer.Register(m.txs),
		registerer.Register(m.events),
	)
	return m, errs.Err
}
