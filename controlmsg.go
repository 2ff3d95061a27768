// Control-message framing: a fixed 256-byte little-endian record used
// by external processes to notify each other of a new commit. strata
// only encodes and decodes the frame; it does not open, read, or write
// any pipe or socket itself, so the PIPE_BUF(4096)-vs-frame-size
// relationship that makes a single write atomic on a named pipe is the
// transport layer's concern, not this package's.
package strata

import "encoding/binary"

// ControlMessageSize is the fixed frame size in bytes.
const ControlMessageSize = 256

const (
	cmOffSenderID   = 0
	cmOffMessageID  = 4
	cmOffPartNo     = 8
	cmOffNumParts   = 10
	cmOffPayload    = 12
	controlPayloadSize = ControlMessageSize - cmOffPayload // 244
)

// ControlMessage is one frame of a (possibly multi-part) notification.
type ControlMessage struct {
	SenderID  uint32
	MessageID uint32
	PartNo    uint16
	NumParts  uint16
	Payload   []byte // up to controlPayloadSize bytes
}

// EncodeControlMessage serialises msg to exactly ControlMessageSize
// bytes, NUL-padding the payload. Returns ErrBadMessagePartNumber if
// PartNo >= NumParts, or ErrBadAddress if the payload is longer than
// controlPayloadSize bytes.
func EncodeControlMessage(msg ControlMessage) ([]byte, error) {
	if msg.PartNo >= msg.NumParts {
		return nil, ErrBadMessagePartNumber
	}
	if len(msg.Payload) > controlPayloadSize {
		return nil, ErrBadAddress
	}

	buf := make([]byte, ControlMessageSize)
	binary.LittleEndian.PutUint32(buf[cmOffSenderID:], msg.SenderID)
	binary.LittleEndian.PutUint32(buf[cmOffMessageID:], msg.MessageID)
	binary.LittleEndian.PutUint16(buf[cmOffPartNo:], msg.PartNo)
	binary.LittleEndian.PutUint16(buf[cmOffNumParts:], msg.NumParts)
	copy(buf[cmOffPayload:], msg.Payload)
	return buf, nil
}

// DecodeControlMessage parses exactly ControlMessageSize bytes into a
// ControlMessage. The returned Payload is trimmed of trailing NUL
// bytes but is otherwise a copy, safe to retain past the lifetime of
// buf.
func DecodeControlMessage(buf []byte) (ControlMessage, error) {
	if len(buf) != ControlMessageSize {
		return ControlMessage{}, ErrBadAddress
	}

	msg := ControlMessage{
		SenderID:  binary.LittleEndian.Uint32(buf[cmOffSenderID:]),
		MessageID: binary.LittleEndian.Uint32(buf[cmOffMessageID:]),
		PartNo:    binary.LittleEndian.Uint16(buf[cmOffPartNo:]),
		NumParts:  binary.LittleEndian.Uint16(buf[cmOffNumParts:]),
	}
	if msg.PartNo >= msg.NumParts {
		return ControlMessage{}, ErrBadMessagePartNumber
	}

	payload := buf[cmOffPayload:]
	end := len(payload)
	for end > 0 && payload[end-1] == 0 {
		end--
	}
	msg.Payload = append([]byte(nil), payload[:end]...)
	return msg, nil
}
