package printer

import (
	"bytes"
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_PairAlignsToWidth(t *testing.T) {
	d := NewDocument(20)
	d.Pair("Total", "23.60")

	out := d.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte{ESC, '@'}))
	assert.Contains(t, string(out), "Total          23.60\n")
}

func TestDocument_PairTruncatesLongKey(t *testing.T) {
	d := NewDocument(12)
	d.Pair("A very long key", "9.99")

	assert.Contains(t, string(d.Bytes()), "A very  9.99\n")
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"Blue ballpoint", "pen"}, wrap("Blue ballpoint pen", 14))
	assert.Equal(t, []string{"abcde", "fgh"}, wrap("abcdefgh", 5))
	assert.Equal(t, []string{""}, wrap("   ", 5))
}

func TestNewPrinterFromConfig(t *testing.T) {
	p, err := NewPrinterFromConfig("", "", "")
	require.NoError(t, err)
	assert.Equal(t, "none", p.Kind())

	_, err = NewPrinterFromConfig("usb", "", "")
	assert.Error(t, err)

	_, err = NewPrinterFromConfig("laser", "", "")
	assert.Error(t, err)

	p, err = NewPrinterFromConfig("memory", "", "")
	require.NoError(t, err)
	assert.IsType(t, &Recorder{}, p)
}

func TestRecorder_KeepsJobs(t *testing.T) {
	r := NewRecorder()
	data := []byte("receipt")

	require.NoError(t, r.Print(context.Background(), data))
	data[0] = 'X'

	jobs := r.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "receipt", string(jobs[0]))
}

func TestNetworkPrinter_WritesToSocket(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(conn)
		received <- buf.Bytes()
	}()

	p := NewNetworkPrinter(ln.Addr().String())
	require.NoError(t, p.Print(context.Background(), []byte("hello")))

	assert.Equal(t, "hello", string(<-received))
}
