package reconnect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsBadMagic(t *testing.T) {
	buf := []byte{0x00, 0x01, 0x0D, 0x00, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	result, _, code := Parse(buf)
	assert.Equal(t, ParseReject, result)
	assert.Equal(t, RejectInvalid, code)
}

func TestParseAcceptsValidReconnect(t *testing.T) {
	buf := []byte{0xF7, 0x02, 0x0D, 0x00, 0x05, 0xAA, 0xBB, 0xCC, 0xDD, 0x11, 0x22, 0x33, 0x44}
	result, h, _ := Parse(buf)
	require.Equal(t, ParseOK, result)
	assert.Equal(t, uint8(5), h.PlayerID)
	assert.Equal(t, uint32(0xDDCCBBAA), h.ReconnectKey)
	assert.Equal(t, uint32(0x44332211), h.LastPacket)
}

func TestParseNeedsMoreBytes(t *testing.T) {
	buf := []byte{0xF7, 0x02, 0x0D, 0x00, 0x05}
	result, _, _ := Parse(buf)
	assert.Equal(t, ParseNeedMore, result)
}

func TestParseRejectsShortDeclaredLength(t *testing.T) {
	buf := []byte{0xF7, 0x02, 0x02, 0x00}
	result, _, code := Parse(buf)
	assert.Equal(t, ParseReject, result)
	assert.Equal(t, RejectInvalid, code)
}

// Fragmenting the malformed bytes across two reads still yields exactly one
// rejection decision once a header is fully buffered.
func TestParseRejectionIsFragmentationInsensitive(t *testing.T) {
	full := []byte{0x00, 0x09, 0x0D, 0x00, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	result1, _, _ := Parse(full[:2])
	assert.Equal(t, ParseNeedMore, result1)

	result2, _, code2 := Parse(full)
	assert.Equal(t, ParseReject, result2)
	assert.Equal(t, RejectInvalid, code2)
}

func TestEncodeRejectLength(t *testing.T) {
	buf := EncodeReject(RejectNotFound)
	require.Len(t, buf, 4)
	assert.Equal(t, byte(Magic), buf[0])
	assert.Equal(t, byte(RejectNotFound), buf[1])
}
