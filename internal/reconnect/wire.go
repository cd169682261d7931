// Package reconnect implements the GProxy++ reconnect handshake: the
// acceptor that parses an incoming socket's handshake bytes, the
// PendingReconnect handoff record, and the inbox games claim it from.
package reconnect

import "encoding/binary"

// Magic is the fixed header byte every reconnect-protocol packet starts
// with. Any other value at offset 0 is invalid.
const Magic = 0xF7

// Message types recognized at offset 1.
const (
	MsgReconnect = 0x02
)

// Rejection codes carried in the 4-byte rejection packet.
type RejectCode byte

const (
	RejectInvalid  RejectCode = 0x01
	RejectNotFound RejectCode = 0x02
)

// reconnectBodyLen is the total packet length (including the 4-byte header)
// for a type-reconnect handshake: magic, type, u16 length, u8 player_id,
// u32 reconnect_key, u32 last_packet.
const reconnectBodyLen = 13

// headerLen is bytes 0..3: magic, type, u16 little-endian total length.
const headerLen = 4

// Handshake is the decoded payload of a type-reconnect packet.
type Handshake struct {
	PlayerID     uint8
	ReconnectKey uint32
	LastPacket   uint32
}

// ParseResult distinguishes a fully parsed handshake from a decision to
// reject, and from "need more bytes" when the buffer isn't long enough yet.
type ParseResult int

const (
	// ParseNeedMore means fewer than headerLen bytes, or fewer than the
	// declared total length, are buffered; the caller should keep reading.
	ParseNeedMore ParseResult = iota
	ParseOK
	ParseReject
)

// Parse attempts to decode buf as a reconnect handshake per the bit-exact
// GProxy++ wire format. It never mutates buf.
func Parse(buf []byte) (ParseResult, Handshake, RejectCode) {
	if len(buf) < headerLen {
		return ParseNeedMore, Handshake{}, 0
	}
	if buf[0] != Magic {
		return ParseReject, Handshake{}, RejectInvalid
	}

	totalLen := int(binary.LittleEndian.Uint16(buf[2:4]))
	if totalLen < headerLen {
		return ParseReject, Handshake{}, RejectInvalid
	}
	if len(buf) < totalLen {
		return ParseNeedMore, Handshake{}, 0
	}

	msgType := buf[1]
	if msgType != MsgReconnect || totalLen != reconnectBodyLen {
		return ParseReject, Handshake{}, RejectInvalid
	}

	h := Handshake{
		PlayerID:     buf[4],
		ReconnectKey: binary.LittleEndian.Uint32(buf[5:9]),
		LastPacket:   binary.LittleEndian.Uint32(buf[9:13]),
	}
	return ParseOK, h, 0
}

// EncodeReject builds the fixed 4-byte rejection packet carrying code.
func EncodeReject(code RejectCode) []byte {
	buf := make([]byte, headerLen)
	buf[0] = Magic
	buf[1] = byte(code)
	binary.LittleEndian.PutUint16(buf[2:4], uint16(headerLen))
	return buf
}
