// Package source defines named VCF input and feeding it to a sink in chunks.
package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// DefaultChunkSize is the chunk size used when a non-positive size is requested.
const DefaultChunkSize = 64 << 10

// StdinName is the name denoting standard input.
const StdinName = "-"

// Sink consumes input chunks, validator.Session implements this interface.
type Sink interface {
	Submit(chunk []byte)
	Finish()
}

// Source is a named input stream. Gzip and bgzip compressed streams are decompressed transparently.
type Source struct {
	name   string
	reader io.Reader
	closer []io.Closer
}

// New wraps a reader. Compression is detected by stream content.
func New(name string, r io.Reader) (*Source, error) {
	s := &Source{name: name}
	if e := s.init(r); e != nil {
		return nil, e
	}
	return s, nil
}

// Open opens named file, StdinName denotes standard input.
func Open(name string) (*Source, error) {
	if name == StdinName {
		return New("stdin", os.Stdin)
	}

	f, e := os.Open(name)
	if e != nil {
		return nil, e
	}

	s := &Source{name: name, closer: []io.Closer{f}}
	if e = s.init(f); e != nil {
		f.Close()
		return nil, e
	}
	return s, nil
}

func (s *Source) init(r io.Reader) error {
	br := bufio.NewReader(r)
	magic, e := br.Peek(2)
	if e != nil && !errors.Is(e, io.EOF) {
		return fmt.Errorf("reading %s: %w", s.name, e)
	}

	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, e := gzip.NewReader(br)
		if e != nil {
			return fmt.Errorf("reading %s: %w", s.name, e)
		}
		s.closer = append([]io.Closer{zr}, s.closer...)
		s.reader = zr
	} else {
		s.reader = br
	}
	return nil
}

func (s *Source) Name() string {
	return s.name
}

// Close releases underlying resources. Closing standard input or a wrapped reader is a no-op.
func (s *Source) Close() error {
	var result error
	for _, c := range s.closer {
		if e := c.Close(); e != nil && result == nil {
			result = e
		}
	}
	s.closer = nil
	return result
}

// Feed reads the source in chunks of given size and submits them to the sink.
// Sink.Finish is called after the last chunk.
// Cancelling ctx stops feeding between chunks, Finish is not called in this case.
// Returns number of bytes submitted.
func (s *Source) Feed(ctx context.Context, sink Sink, size int) (int64, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}

	buf := make([]byte, size)
	var total int64
	for {
		if e := ctx.Err(); e != nil {
			return total, e
		}

		n, e := s.reader.Read(buf)
		if n > 0 {
			sink.Submit(buf[:n])
			total += int64(n)
		}
		if errors.Is(e, io.EOF) {
			sink.Finish()
			return total, nil
		}
		if e != nil {
			return total, fmt.Errorf("reading %s: %w", s.name, e)
		}
	}
}

// Chunks splits content into chunks of given size, the last chunk may be shorter.
func Chunks(content []byte, size int) [][]byte {
	if size <= 0 {
		size = DefaultChunkSize
	}

	result := make([][]byte, 0, len(content)/size+1)
	for len(content) > size {
		result = append(result, content[:size])
		content = content[size:]
	}
	if len(content) > 0 {
		result = append(result, content)
	}
	return result
}

// FeedBytes submits content to the sink in chunks of given size, then calls Finish.
func FeedBytes(content []byte, size int, sink Sink) {
	for _, chunk := range Chunks(content, size) {
		sink.Submit(chunk)
	}
	sink.Finish()
}
