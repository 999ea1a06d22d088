package gateway

import (
	"testing"

	"secgw/internal/wire"
)

func TestXORTransformerRoundTrip(t *testing.T) {
	codec := wire.NewCodec(1)
	original := []byte{0x10, 0x20, 0x30, 0xff, 0x00}
	msg := &Message{Frame: wire.Frame{SeqNum: 1, MsgID: wire.MsgHeartbeat, Payload: append([]byte(nil), original...)}}
	if err := codec.Finalize(&msg.Frame); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	xf := NewXORTransformer(codec)
	if err := xf(msg); err != nil {
		t.Fatalf("first transform: %v", err)
	}
	if string(msg.Frame.Payload) == string(original) {
		t.Fatalf("single XOR pass must change the payload")
	}
	if err := xf(msg); err != nil {
		t.Fatalf("second transform: %v", err)
	}
	if string(msg.Frame.Payload) != string(original) {
		t.Fatalf("double XOR must restore the original payload, got %v want %v", msg.Frame.Payload, original)
	}
}
