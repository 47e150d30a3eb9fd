package sse

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUtf8StitcherPassesThroughValidChunks(t *testing.T) {
	stitcher := NewUtf8Stitcher(&sliceByteSource{chunks: [][]byte{
		[]byte("hello "),
		[]byte("world"),
	}})

	s1, err := stitcher.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello ", s1)

	s2, err := stitcher.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "world", s2)

	_, err = stitcher.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestUtf8StitcherJoinsSplitCodepoint(t *testing.T) {
	// U+00E9 'é' is 0xC3 0xA9 in UTF-8; split the two bytes across chunks.
	full := "caf\xc3\xa9"
	stitcher := NewUtf8Stitcher(&sliceByteSource{chunks: [][]byte{
		[]byte("caf\xc3"),
		[]byte("\xa9"),
	}})

	s1, err := stitcher.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "caf", s1)

	s2, err := stitcher.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, full[3:], s2)
}

func TestUtf8StitcherNeverErrorsBeforeEOF(t *testing.T) {
	stitcher := NewUtf8Stitcher(&sliceByteSource{chunks: [][]byte{
		[]byte("Hello "),
		{0xff},
	}})

	s1, err := stitcher.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello ", s1)

	// the invalid trailing byte is deferred rather than reported here.
	s2, err := stitcher.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", s2)

	_, err = stitcher.Next(context.Background())
	var uerr *UTF8Error
	assert.ErrorAs(t, err, &uerr)
}

func TestUtf8StitcherTransportError(t *testing.T) {
	boom := errors.New("boom")
	stitcher := NewUtf8Stitcher(&sliceByteSource{err: boom})
	_, err := stitcher.Next(context.Background())
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.ErrorIs(t, err, boom)
}
