package sse

import (
	"context"
	"io"
)

// sliceByteSource replays a fixed sequence of chunks, then io.EOF.
type sliceByteSource struct {
	chunks [][]byte
	pos    int
	err    error
}

func (s *sliceByteSource) Next(ctx context.Context) ([]byte, error) {
	if s.pos >= len(s.chunks) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	c := s.chunks[s.pos]
	s.pos++
	return c, nil
}

// chunkBytes is a trivial Chunk implementation over a plain []byte.
type chunkBytes []byte

func (c chunkBytes) Bytes() []byte { return c }

// sliceChunkSource is the generic-Source analogue of sliceByteSource.
type sliceChunkSource struct {
	chunks [][]byte
	pos    int
	err    error
}

func (s *sliceChunkSource) Next(ctx context.Context) (Chunk, error) {
	if s.pos >= len(s.chunks) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	c := s.chunks[s.pos]
	s.pos++
	return chunkBytes(c), nil
}

// collectAll drains next until it returns io.EOF, asserting no other
// error occurs along the way.
func collectAll(next func(context.Context) (Event, error)) ([]Event, error) {
	var events []Event
	ctx := context.Background()
	for {
		event, err := next(ctx)
		if err != nil {
			if err == io.EOF {
				return events, nil
			}
			return events, err
		}
		events = append(events, event)
	}
}
