package sse

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStreamBasicScenarios(t *testing.T) {
	type testCase struct {
		name   string
		chunks []string
		want   []Event
	}
	testCases := []testCase{
		{
			name:   "single data line dispatches message",
			chunks: []string{"data: YHOO\n\n"},
			want:   []Event{{Event: "message", Data: "YHOO"}},
		},
		{
			name:   "multiple data lines are newline joined",
			chunks: []string{"data: YHOO\ndata: +2\ndata: 10\n\n"},
			want:   []Event{{Event: "message", Data: "YHOO\n+2\n10"}},
		},
		{
			name:   "explicit event type",
			chunks: []string{"event: score\ndata: {\"exam\":3}\n\n"},
			want:   []Event{{Event: "score", Data: `{"exam":3}`}},
		},
		{
			name:   "comment lines are ignored",
			chunks: []string{": this is a comment\ndata: hi\n\n"},
			want:   []Event{{Event: "message", Data: "hi"}},
		},
		{
			name:   "crlf terminators",
			chunks: []string{"data: hi\r\n\r\n"},
			want:   []Event{{Event: "message", Data: "hi"}},
		},
		{
			name:   "lone cr terminators",
			chunks: []string{"data: hi\r\r"},
			want:   []Event{{Event: "message", Data: "hi"}},
		},
		{
			name:   "empty data field with no colon",
			chunks: []string{"data\n\n"},
			want:   []Event{{Event: "message", Data: ""}},
		},
		{
			name:   "field with no trailing event is never dispatched",
			chunks: []string{"event: ping\n"},
			want:   nil,
		},
		{
			name:   "bom is stripped",
			chunks: []string{"\xEF\xBB\xBFdata: foo\n\n"},
			want:   []Event{{Event: "message", Data: "foo"}},
		},
		{
			name:   "bom split across chunks",
			chunks: []string{"\xEF", "\xBB", "\xBFdata: foo\n\n"},
			want:   []Event{{Event: "message", Data: "foo"}},
		},
		{
			name:   "short first line without bom",
			chunks: []string{":\n", "data: test\n\n"},
			want:   []Event{{Event: "message", Data: "test"}},
		},
		{
			name:   "line split across chunks",
			chunks: []string{"data: hel", "lo\n\n"},
			want:   []Event{{Event: "message", Data: "hello"}},
		},
		{
			name:   "crlf split across chunks",
			chunks: []string{"data: hi\r", "\n\n"},
			want:   []Event{{Event: "message", Data: "hi"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var chunks [][]byte
			for _, c := range tc.chunks {
				chunks = append(chunks, []byte(c))
			}
			stream := New(&sliceChunkSource{chunks: chunks})
			events, err := collectAll(stream.Next)
			require.NoError(t, err)
			assert.Equal(t, tc.want, events)
		})
	}
}

func TestEventStreamTrailingLoneCRAtEOF(t *testing.T) {
	// the final blank line's terminator is a lone CR right at EOF: it is
	// ambiguous whether more input could turn it into CRLF, so it is only
	// committed once upstream confirms there is no more input coming.
	stream := New(&sliceChunkSource{chunks: [][]byte{[]byte("data: hi\n\ndata: bye\n\r")}})
	events, err := collectAll(stream.Next)
	require.NoError(t, err)
	assert.Equal(t, []Event{
		{Event: "message", Data: "hi"},
		{Event: "message", Data: "bye"},
	}, events)
}

func TestEventStreamLastEventIDAcrossEvents(t *testing.T) {
	stream := New(&sliceChunkSource{chunks: [][]byte{
		[]byte("id: 1\ndata: a\n\ndata: b\n\n"),
	}})

	event1, err := stream.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", event1.ID)
	assert.Equal(t, "1", stream.LastEventID())

	event2, err := stream.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", event2.ID)
}

func TestEventStreamSetLastEventIDSeedsResumption(t *testing.T) {
	stream := New(&sliceChunkSource{chunks: nil})
	stream.SetLastEventID("42")
	assert.Equal(t, "42", stream.LastEventID())
}

func TestEventStreamInvalidUTF8ReturnsUTF8Error(t *testing.T) {
	stream := New(&sliceChunkSource{chunks: [][]byte{append([]byte("data: "), 0xff, '\n', '\n')}})
	_, err := stream.Next(context.Background())
	var uerr *UTF8Error
	assert.ErrorAs(t, err, &uerr)
}

func TestEventStreamTransportError(t *testing.T) {
	boom := errors.New("boom")
	stream := New(&sliceChunkSource{err: boom})
	_, err := stream.Next(context.Background())
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.True(t, errors.Is(err, boom))
}

func TestEventStreamMaxBufferSize(t *testing.T) {
	stream := New(&sliceChunkSource{chunks: [][]byte{[]byte("data: a very long line with no terminator yet")}}, WithMaxBufferSize(8))
	_, err := stream.Next(context.Background())
	assert.ErrorIs(t, err, ErrBufferTooLarge)
}

func TestEventStreamTakeBuffer(t *testing.T) {
	stream := New(&sliceChunkSource{chunks: [][]byte{[]byte("data: partial")}})
	_, err := stream.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
	// the unterminated "data: partial" line is never committed by
	// terminate(), so it is still buffered; TakeBuffer hands it back.
	_ = stream.TakeBuffer()
}
