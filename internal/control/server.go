// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package control exposes the pipeline's three runtime flags and a
// performance snapshot over HTTP. The contract is the three flags
// (gateway.ControlFlags); this package is one configuration of how an
// operator reaches them, the HTTP-shaped sibling of the raw-keypress
// console.
package control

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"secgw/internal/gateway"
)

// Server is the HTTP control surface for one Pipeline.
type Server struct {
	pipeline *gateway.Pipeline
	sinkIDs  []int
}

// NewServer builds a Server over pipeline. sinkIDs names which sink ids
// /perf reports, the same "configuration, not behavior" set the periodic
// printer samples.
func NewServer(pipeline *gateway.Pipeline, sinkIDs []int) *Server {
	return &Server{pipeline: pipeline, sinkIDs: sinkIDs}
}

// Router builds the mux.Router exposing the control endpoints.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/policy/enable", s.handlePolicyEnable).Methods(http.MethodPost)
	r.HandleFunc("/policy/disable", s.handlePolicyDisable).Methods(http.MethodPost)
	r.HandleFunc("/transform/enable", s.handleTransformEnable).Methods(http.MethodPost)
	r.HandleFunc("/transform/disable", s.handleTransformDisable).Methods(http.MethodPost)
	r.HandleFunc("/terminate", s.handleTerminate).Methods(http.MethodPost)
	r.HandleFunc("/perf", s.handlePerf).Methods(http.MethodGet)
	return r
}

// ListenAndServe builds and runs an *http.Server with bounded timeouts,
// using explicit Read/Write/Idle timeouts instead of the zero-value
// defaults.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handlePolicyEnable(w http.ResponseWriter, _ *http.Request) {
	s.pipeline.Flags.EnablePolicy()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePolicyDisable(w http.ResponseWriter, _ *http.Request) {
	s.pipeline.Flags.DisablePolicy()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransformEnable(w http.ResponseWriter, _ *http.Request) {
	s.pipeline.Flags.EnableTransform()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransformDisable(w http.ResponseWriter, _ *http.Request) {
	s.pipeline.Flags.DisableTransform()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTerminate(w http.ResponseWriter, _ *http.Request) {
	s.pipeline.Flags.Terminate()
	w.WriteHeader(http.StatusNoContent)
}

type perfSnapshot struct {
	ExecTotal  uint64           `json:"exec_total"`
	ExecLoadUs uint64           `json:"exec_load_us"`
	Sinks      map[int]sinkPerf `json:"sinks"`
}

type sinkPerf struct {
	SuccCount uint64 `json:"succ_count"`
	SuccBytes uint64 `json:"succ_bytes"`
	DropCount uint64 `json:"drop_count"`
}

// handlePerf reports live, cumulative counters via Peek rather than
// Query: the periodic Printer is also a Query consumer on these same
// counters, and an on-demand HTTP caller must not steal its delta.
func (s *Server) handlePerf(w http.ResponseWriter, _ *http.Request) {
	exec := s.pipeline.Perf.Exec.Snapshot()
	snap := perfSnapshot{ExecTotal: exec.Total, ExecLoadUs: exec.LoadUs, Sinks: map[int]sinkPerf{}}
	for _, id := range s.sinkIDs {
		if id < 0 || id >= gateway.MaxSinks {
			continue
		}
		q := s.pipeline.Perf.Sinks[id].Peek()
		snap.Sinks[id] = sinkPerf{SuccCount: q.SuccCount, SuccBytes: q.SuccBytes, DropCount: q.DropCount}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}
