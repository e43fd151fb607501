package protocol

import (
	"bytes"
	"errors"
	"fmt"
)

// Envelope control bytes of the Bodet TV protocol.
const (
	SOH byte = 0x01
	STX byte = 0x02
	ETX byte = 0x03
)

// payloadOffset is the distance from STX to the first payload byte.
const payloadOffset = 2

// ErrIncomplete reports that the buffer holds no complete frame yet.
var ErrIncomplete = errors.New("protocol: incomplete frame")

// DiscardReason explains why a delimited frame was dropped.
type DiscardReason string

const (
	DiscardNoText   DiscardReason = "no_text_marker"
	DiscardTooShort DiscardReason = "too_short"
)

// MalformedFrameError describes a frame that was delimited but not usable.
type MalformedFrameError struct {
	Reason DiscardReason
	Frame  []byte
}

func (e *MalformedFrameError) Error() string {
	return fmt.Sprintf("protocol: malformed frame (%s, len=%d)", e.Reason, len(e.Frame))
}

// AsMalformedFrame unwraps err into a MalformedFrameError.
func AsMalformedFrame(err error) (*MalformedFrameError, bool) {
	var mf *MalformedFrameError
	if errors.As(err, &mf) {
		return mf, true
	}
	return nil, false
}

// Scan extracts the first frame from buf.
// It returns the payload, the unconsumed rest of the buffer and an error that is nil for a
// good frame, ErrIncomplete when more bytes are needed, or a *MalformedFrameError when a
// delimited frame had to be dropped. Bytes that cannot belong to any frame are not part of rest.
func Scan(buf []byte) (payload, rest []byte, err error) {
	start := bytes.IndexByte(buf, SOH)
	if start < 0 {
		return nil, nil, ErrIncomplete
	}
	end := bytes.IndexByte(buf[start+1:], ETX)
	if end < 0 {
		return nil, buf[start:], ErrIncomplete
	}
	end += start + 1

	frame := buf[start : end+1]
	rest = buf[end+1:]

	stx := bytes.IndexByte(frame[1:len(frame)-1], STX)
	if stx < 0 {
		return nil, rest, &MalformedFrameError{Reason: DiscardNoText, Frame: frame}
	}
	stx++
	if stx+payloadOffset >= len(frame)-1 {
		return nil, rest, &MalformedFrameError{Reason: DiscardTooShort, Frame: frame}
	}
	return frame[stx+payloadOffset : len(frame)-1], rest, nil
}

// FrameReader reassembles frames from stream chunks. It is not safe for concurrent use;
// each connection owns one.
type FrameReader struct {
	buf       []byte
	onDiscard func(*MalformedFrameError)
}

// NewFrameReader constructs a reader. onDiscard, when set, is called for each dropped frame.
func NewFrameReader(onDiscard func(*MalformedFrameError)) *FrameReader {
	return &FrameReader{onDiscard: onDiscard}
}

// Feed appends chunk to the pending buffer and returns every complete payload in order.
// Returned payloads are copies and stay valid after later calls.
func (r *FrameReader) Feed(chunk []byte) [][]byte {
	r.buf = append(r.buf, chunk...)

	var payloads [][]byte
	for {
		payload, rest, err := Scan(r.buf)
		if errors.Is(err, ErrIncomplete) {
			r.retain(rest)
			return payloads
		}
		if mf, ok := AsMalformedFrame(err); ok {
			if r.onDiscard != nil {
				r.onDiscard(&MalformedFrameError{Reason: mf.Reason, Frame: bytes.Clone(mf.Frame)})
			}
		} else {
			payloads = append(payloads, bytes.Clone(payload))
		}
		r.retain(rest)
	}
}

// Buffered returns the number of pending bytes awaiting a frame end.
func (r *FrameReader) Buffered() int {
	return len(r.buf)
}

// Reset drops any pending bytes.
func (r *FrameReader) Reset() {
	r.buf = r.buf[:0]
}

func (r *FrameReader) retain(rest []byte) {
	r.buf = append(r.buf[:0], rest...)
}
