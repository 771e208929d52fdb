//
// conn_test.go
//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"bytes"
	"fmt"
	"testing"
)

var tests = []interface{}{
	byte(42),
	uint32(44),
	"Hello, world!",
	make([]byte, 1024),
	bytes.Repeat([]byte{0xa5}, 3*writeBufSize+17),
	bytes.Repeat([]byte{0x5a}, 2*readBufSize),
}

const maxData = 4 * readBufSize

func writer(c *Conn) {
	for _, test := range tests {
		switch d := test.(type) {
		case byte:
			if err := c.SendByte(d); err != nil {
				fmt.Printf("SendByte: %v\n", err)
			}

		case uint32:
			if err := c.SendUint32(int(d)); err != nil {
				fmt.Printf("SendUint32: %v\n", err)
			}

		case string:
			if err := c.SendString(d); err != nil {
				fmt.Printf("SendString: %v\n", err)
			}

		case []byte:
			if err := c.SendData(d); err != nil {
				fmt.Printf("SendData [%v]byte: %v\n", len(d), err)
			}

		default:
			fmt.Printf("writer: invalid data: %v(%T)\n", test, test)
		}
	}
	if err := c.Flush(); err != nil {
		fmt.Printf("Flush: %v\n", err)
	}
}

func TestProtocol(t *testing.T) {
	cw, c := Pipe()

	go writer(cw)

	for _, test := range tests {
		switch d := test.(type) {
		case byte:
			v, err := c.ReceiveByte()
			if err != nil {
				t.Fatalf("ReceiveByte: %v", err)
			}
			if v != d {
				t.Errorf("ReceiveByte: got %v, expected %v", v, d)
			}

		case uint32:
			v, err := c.ReceiveUint32()
			if err != nil {
				t.Fatalf("ReceiveUint32: %v", err)
			}
			if uint32(v) != d {
				t.Errorf("ReceiveUint32: got %v, expected %v", v, d)
			}

		case string:
			v, err := c.ReceiveString(maxData)
			if err != nil {
				t.Fatalf("ReceiveString: %v", err)
			}
			if v != d {
				t.Errorf("ReceiveString: got %v, expected %v", v, d)
			}

		case []byte:
			v, err := c.ReceiveData(maxData)
			if err != nil {
				t.Fatalf("ReceiveData: %v", err)
			}
			if !bytes.Equal(v, d) {
				t.Errorf("ReceiveData: got %d bytes, expected %d",
					len(v), len(d))
			}
		}
	}
	if c.Stats.Recvd.Load() != cw.Stats.Sent.Load() {
		t.Errorf("stats: received %d, sent %d",
			c.Stats.Recvd.Load(), cw.Stats.Sent.Load())
	}
}

func TestReceiveDataLimit(t *testing.T) {
	cw, c := Pipe()

	go func() {
		cw.SendData(make([]byte, 100))
		cw.Flush()
	}()

	_, err := c.ReceiveData(10)
	if err == nil {
		t.Fatalf("ReceiveData accepted oversized data")
	}
}

func TestPingPong(t *testing.T) {
	a, b := Pipe()

	done := make(chan error)
	go func() {
		for i := 0; i < 100; i++ {
			v, err := b.ReceiveByte()
			if err != nil {
				done <- err
				return
			}
			if err := b.SendByte(v + 1); err != nil {
				done <- err
				return
			}
			if err := b.Flush(); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	for i := 0; i < 100; i++ {
		if err := a.SendByte(byte(i)); err != nil {
			t.Fatal(err)
		}
		if err := a.Flush(); err != nil {
			t.Fatal(err)
		}
		v, err := a.ReceiveByte()
		if err != nil {
			t.Fatal(err)
		}
		if v != byte(i+1) {
			t.Fatalf("round %d: got %v", i, v)
		}
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestIOStatsSum(t *testing.T) {
	a, b := Pipe()
	go func() {
		b.SendString("session")
		b.Flush()
	}()
	if _, err := a.ReceiveString(16); err != nil {
		t.Fatal(err)
	}
	if err := a.SendByte(1); err != nil {
		t.Fatal(err)
	}
	if err := a.Flush(); err != nil {
		t.Fatal(err)
	}
	// 4 byte length, 7 byte string, 1 byte.
	if sum := a.Stats.Sum(); sum != 12 {
		t.Errorf("Sum()=%d, expected 12", sum)
	}
	if sum := a.Stats.Add(b.Stats).Sum(); sum != 12+11 {
		t.Errorf("combined Sum()=%d, expected 23", sum)
	}
}
