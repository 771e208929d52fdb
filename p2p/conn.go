//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

// Package p2p implements the point-to-point connection that carries
// the protocol messages between the dealer and the parties.
package p2p

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

const (
	numBuffers   = 3
	writeBufSize = 4 * 1024
	readBufSize  = 64 * 1024
)

// Conn implements a buffered protocol connection. Writes are
// collected into a buffer that is handed to a writer goroutine on
// Flush so that both endpoints can send before they receive.
type Conn struct {
	conn      io.ReadWriter
	writeBuf  []byte
	writePos  int
	readBuf   []byte
	readStart int
	readEnd   int
	Stats     IOStats

	fromWriter chan []byte
	toWriter   chan []byte

	m         sync.Mutex
	writerErr error
}

// IOStats implements I/O statistics.
type IOStats struct {
	Sent    *atomic.Uint64
	Recvd   *atomic.Uint64
	Flushed *atomic.Uint64
}

// NewIOStats creates a new I/O statistics object.
func NewIOStats() IOStats {
	return IOStats{
		Sent:    new(atomic.Uint64),
		Recvd:   new(atomic.Uint64),
		Flushed: new(atomic.Uint64),
	}
}

// Add adds the argument stats to this IOStats and returns the sum.
func (stats IOStats) Add(o IOStats) IOStats {
	result := NewIOStats()
	result.Sent.Store(stats.Sent.Load() + o.Sent.Load())
	result.Recvd.Store(stats.Recvd.Load() + o.Recvd.Load())
	result.Flushed.Store(stats.Flushed.Load() + o.Flushed.Load())
	return result
}

// Sum returns sum of sent and received bytes.
func (stats IOStats) Sum() uint64 {
	return stats.Sent.Load() + stats.Recvd.Load()
}

// NewConn creates a new connection around the argument connection.
func NewConn(conn io.ReadWriter) *Conn {
	c := &Conn{
		conn:       conn,
		readBuf:    make([]byte, readBufSize),
		fromWriter: make(chan []byte, numBuffers),
		toWriter:   make(chan []byte, numBuffers),
		Stats:      NewIOStats(),
	}

	go c.writer()

	c.writeBuf = <-c.fromWriter

	return c
}

func (c *Conn) writer() {
	for i := 0; i < numBuffers; i++ {
		c.fromWriter <- make([]byte, writeBufSize)
	}

	for buf := range c.toWriter {
		_, err := c.conn.Write(buf)
		if err != nil {
			c.m.Lock()
			if c.writerErr == nil {
				c.writerErr = err
			}
			c.m.Unlock()
		}
		c.fromWriter <- buf[0:cap(buf)]
	}
	close(c.fromWriter)
}

func (c *Conn) err() error {
	c.m.Lock()
	defer c.m.Unlock()
	return c.writerErr
}

// Flush flushes any pending data in the connection.
func (c *Conn) Flush() error {
	if c.writePos > 0 {
		c.Stats.Sent.Add(uint64(c.writePos))
		c.toWriter <- c.writeBuf[0:c.writePos]

		next := <-c.fromWriter
		if err := c.err(); err != nil {
			return err
		}

		c.writeBuf = next
		c.writePos = 0
		c.Stats.Flushed.Add(1)
	}
	return nil
}

// fill fills the input buffer so that it holds at least n unread
// bytes. Any unused data in the buffer is moved to the beginning of
// the buffer.
func (c *Conn) fill(n int) error {
	if n > len(c.readBuf) {
		c.readBuf = append(c.readBuf, make([]byte, n-len(c.readBuf))...)
	}
	if c.readStart < c.readEnd {
		copy(c.readBuf[0:], c.readBuf[c.readStart:c.readEnd])
		c.readEnd -= c.readStart
		c.readStart = 0
	} else {
		c.readStart = 0
		c.readEnd = 0
	}
	for c.readStart+n > c.readEnd {
		got, err := c.conn.Read(c.readBuf[c.readEnd:])
		if err != nil {
			return err
		}
		c.Stats.Recvd.Add(uint64(got))
		c.readEnd += got
	}
	return nil
}

// Close flushes any pending data and closes the connection.
func (c *Conn) Close() error {
	if err := c.Flush(); err != nil {
		return err
	}
	close(c.toWriter)
	for range c.fromWriter {
	}
	if err := c.err(); err != nil {
		return err
	}
	closer, ok := c.conn.(io.Closer)
	if ok {
		return closer.Close()
	}
	return nil
}

func (c *Conn) needSpace(count int) error {
	if c.writePos+count > len(c.writeBuf) {
		return c.Flush()
	}
	return nil
}

// SendByte sends a byte value.
func (c *Conn) SendByte(val byte) error {
	if err := c.needSpace(1); err != nil {
		return err
	}
	c.writeBuf[c.writePos] = val
	c.writePos++
	return nil
}

// SendUint32 sends an uint32 value.
func (c *Conn) SendUint32(val int) error {
	if err := c.needSpace(4); err != nil {
		return err
	}
	c.writeBuf[c.writePos+0] = byte((uint32(val) >> 24) & 0xff)
	c.writeBuf[c.writePos+1] = byte((uint32(val) >> 16) & 0xff)
	c.writeBuf[c.writePos+2] = byte((uint32(val) >> 8) & 0xff)
	c.writeBuf[c.writePos+3] = byte(uint32(val) & 0xff)
	c.writePos += 4
	return nil
}

// SendData sends length prefixed binary data.
func (c *Conn) SendData(val []byte) error {
	if err := c.SendUint32(len(val)); err != nil {
		return err
	}
	for len(val) > 0 {
		if c.writePos == len(c.writeBuf) {
			if err := c.Flush(); err != nil {
				return err
			}
		}
		n := copy(c.writeBuf[c.writePos:], val)
		c.writePos += n
		val = val[n:]
	}
	return nil
}

// SendString sends a string value.
func (c *Conn) SendString(val string) error {
	return c.SendData([]byte(val))
}

// ReceiveByte receives a byte value.
func (c *Conn) ReceiveByte() (byte, error) {
	if c.readStart+1 > c.readEnd {
		if err := c.fill(1); err != nil {
			return 0, err
		}
	}
	val := c.readBuf[c.readStart]
	c.readStart++
	return val, nil
}

// ReceiveUint32 receives an uint32 value.
func (c *Conn) ReceiveUint32() (int, error) {
	if c.readStart+4 > c.readEnd {
		if err := c.fill(4); err != nil {
			return 0, err
		}
	}
	val := uint32(c.readBuf[c.readStart+0])
	val <<= 8
	val |= uint32(c.readBuf[c.readStart+1])
	val <<= 8
	val |= uint32(c.readBuf[c.readStart+2])
	val <<= 8
	val |= uint32(c.readBuf[c.readStart+3])
	c.readStart += 4

	return int(val), nil
}

// ReceiveData receives length prefixed binary data. The data must
// not be longer than max bytes.
func (c *Conn) ReceiveData(max int) ([]byte, error) {
	n, err := c.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	if n > max {
		return nil, fmt.Errorf("p2p: data too long: %d > %d", n, max)
	}
	if c.readStart+n > c.readEnd {
		if err := c.fill(n); err != nil {
			return nil, err
		}
	}

	result := make([]byte, n)
	copy(result, c.readBuf[c.readStart:c.readStart+n])
	c.readStart += n

	return result, nil
}

// ReceiveString receives a string value.
func (c *Conn) ReceiveString(max int) (string, error) {
	data, err := c.ReceiveData(max)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Pipe implements a bidirectional in-memory connection. Anything sent
// to the first endpoint can be received from the second and vice
// versa.
func Pipe() (*Conn, *Conn) {
	var p0, p1 pipe

	p0.r, p1.w = io.Pipe()
	p1.r, p0.w = io.Pipe()

	return NewConn(&p0), NewConn(&p1)
}

type pipe struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func (p *pipe) Close() error {
	if err := p.r.Close(); err != nil {
		return err
	}
	return p.w.Close()
}

func (p *pipe) Read(data []byte) (n int, err error) {
	return p.r.Read(data)
}

func (p *pipe) Write(data []byte) (n int, err error) {
	return p.w.Write(data)
}
