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

package transport

import (
	"net"
	"time"

	"github.com/mikioh/tcp"
	"github.com/mikioh/tcpinfo"
)

// TCPDiagnostics is the additive value-add on top of the protocol-level
// performance counters: kernel TCP_INFO fields for one connection.
type TCPDiagnostics struct {
	RTT         time.Duration
	RTTVar      time.Duration
	Retransmits uint32
}

// ReadTCPDiagnostics samples kernel TCP_INFO for conn, when conn is a
// real *net.TCPConn. It returns ok=false for any other connection type
// (e.g. a test double) rather than erroring, since this is a value-add
// field, not part of the bare performance contract.
func ReadTCPDiagnostics(conn net.Conn) (TCPDiagnostics, bool) {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return TCPDiagnostics{}, false
	}
	c, err := tcp.NewConn(tc)
	if err != nil {
		return TCPDiagnostics{}, false
	}
	var o tcpinfo.Info
	var b [256]byte
	out, err := c.Option(o.Level(), o.Name(), b[:])
	if err != nil {
		return TCPDiagnostics{}, false
	}
	info, ok := out.(*tcpinfo.Info)
	if !ok {
		return TCPDiagnostics{}, false
	}
	return TCPDiagnostics{
		RTT:         info.RTT,
		RTTVar:      info.RTTVar,
		Retransmits: uint32(info.Sys.TotalRetrans),
	}, true
}
