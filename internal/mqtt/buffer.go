package mqtt

import "log"

// bufferedMsg stores a serialized MQTT message for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer is a fixed-capacity FIFO that stores messages while disconnected.
// Not safe for concurrent use — caller must synchronize.
type ringBuffer struct {
	buf     []bufferedMsg
	start   int // index of the oldest message
	count   int
	dropped bool // true if any message was dropped since last drain
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{buf: make([]bufferedMsg, capacity)}
}

func (r *ringBuffer) push(msg bufferedMsg) {
	capacity := len(r.buf)
	if r.count == capacity {
		if !r.dropped {
			log.Printf("mqtt: buffer full (%d messages), dropping oldest", capacity)
			r.dropped = true
		}
		// Overwrite the oldest and advance past it.
		r.buf[r.start] = msg
		r.start = (r.start + 1) % capacity
		return
	}
	r.buf[(r.start+r.count)%capacity] = msg
	r.count++
}

func (r *ringBuffer) drainAll() []bufferedMsg {
	if r.count == 0 {
		return nil
	}

	out := make([]bufferedMsg, r.count)
	for i := range out {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}

	r.start = 0
	r.count = 0
	r.dropped = false
	return out
}

func (r *ringBuffer) len() int {
	return r.count
}
