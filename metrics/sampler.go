// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"time"

	"github.com/bitmark-inc/logger"
)

// Status - point in time sizes of the stores
type Status struct {
	Pools       int    `json:"pools"`
	Unconfirmed int    `json:"unconfirmed"`
	Confirmed   int    `json:"confirmed"`
	Blocks      int    `json:"blocks"`
	LastHeight  uint32 `json:"last_height"`
	HasBlock    bool   `json:"has_block"`
}

// Source - provider of the status
type Source interface {
	Status() (Status, error)
}

// Sampler - background process copying the status into gauges
type Sampler struct {
	log      *logger.L
	source   Source
	interval time.Duration
}

// NewSampler - sample a source at a fixed interval
func NewSampler(source Source, interval time.Duration) *Sampler {
	initPrometheusMetrics()
	return &Sampler{
		log:      logger.New("sampler"),
		source:   source,
		interval: interval,
	}
}

// Run - background process loop
func (s *Sampler) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log
	log.Info("starting…")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sample()
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			s.Sample()
		}
	}
	log.Info("stopped")
}

// Sample - take one sample
func (s *Sampler) Sample() {
	status, err := s.source.Status()
	if nil != err {
		s.log.Errorf("status error: %s", err)
		return
	}
	s.log.Debugf("status: %+v", status)

	prometheusPools.Set(float64(status.Pools))
	prometheusUnconfirmed.Set(float64(status.Unconfirmed))
	prometheusConfirmed.Set(float64(status.Confirmed))
	prometheusStoredBlocks.Set(float64(status.Blocks))
	if status.HasBlock {
		prometheusLastHeight.Set(float64(status.LastHeight))
	}
}
