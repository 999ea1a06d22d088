package gateway

import (
	"secgw/internal/wire"
)

// byteSource is a minimal in-memory Source backing, feeding back a fixed
// byte slice to the dispatch loop via the HasMore/ReadByte contract.
type byteSource struct {
	bytes []byte
	idx   int
}

func (b *byteSource) hasMore() bool { return b.idx < len(b.bytes) }
func (b *byteSource) readByte() byte {
	c := b.bytes[b.idx]
	b.idx++
	return c
}

func (b *byteSource) append(more []byte) { b.bytes = append(b.bytes, more...) }

// recordingSink captures every message routed to it.
type recordingSink struct {
	received []Message
}

func (r *recordingSink) route(msg *Message) *Error {
	cp := *msg
	cp.Frame.Payload = append([]byte(nil), msg.Frame.Payload...)
	r.received = append(r.received, cp)
	return nil
}

// newTestPipeline builds an initialized Pipeline with byteSources wired
// to the VMC, LEGACY and first ENCLAVE slots and recording sinks wired to
// the DISCARD, VMC, ENCLAVE and LEGACY sink ids, so scenario tests only
// need to feed bytes and inspect captures.
func newTestPipeline() (*Pipeline, map[int]*byteSource, map[int]*recordingSink) {
	p := NewPipeline(nil)
	if err := p.Init(); err != nil {
		panic(err)
	}

	srcs := map[int]*byteSource{}
	for _, id := range []int{SourceVMC, SourceLegacy, SourceEnclaveBase} {
		bs := &byteSource{}
		src, err := p.Sources.Allocate(id)
		if err != nil {
			panic(err)
		}
		src.HasMore = bs.hasMore
		src.ReadByte = bs.readByte
		srcs[id] = bs
	}

	sinks := map[int]*recordingSink{}
	for _, id := range []int{SinkDiscard, SinkVMC, SinkLegacy, SinkEnclave} {
		rs := &recordingSink{}
		sink, err := p.Sinks.Allocate(id)
		if err != nil {
			panic(err)
		}
		sink.Route = rs.route
		sinks[id] = rs
	}

	return p, srcs, sinks
}

// frameBytes finalizes and serializes a frame through the pipeline's own
// codec, so its CRC matches what Spin will expect on replay.
func frameBytes(p *Pipeline, seq, msgID byte, payload []byte) []byte {
	f := wire.Frame{SeqNum: seq, MsgID: msgID, Payload: payload}
	if err := p.Codec.Finalize(&f); err != nil {
		panic(err)
	}
	out, err := p.Codec.Serialize(&f)
	if err != nil {
		panic(err)
	}
	return out
}
