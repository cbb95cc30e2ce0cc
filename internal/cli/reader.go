package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// ChatReader provides context-aware line reading for the chat loop, so
// Ctrl-C interrupts a read that is blocked on the terminal.
type ChatReader struct {
	reader      *bufio.Reader
	readingLock sync.Mutex
}

// NewChatReader creates a reader over the given input stream.
func NewChatReader(reader io.Reader) *ChatReader {
	if reader == nil {
		panic("reader cannot be nil")
	}

	return &ChatReader{
		reader: bufio.NewReader(reader),
	}
}

// ReadString reads a string until delimiter, respecting context cancellation.
func (r *ChatReader) ReadString(ctx context.Context, delim byte) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.readingLock.Lock()
		defer r.readingLock.Unlock()

		value, err := r.reader.ReadString(delim)
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		// The reading goroutine keeps blocking until the stream yields,
		// but the caller gets control back immediately.
		return "", ErrInputCancelled
	case res := <-resultCh:
		return res.value, res.err
	}
}

// ReadLine reads one trimmed line, respecting context cancellation.
func (r *ChatReader) ReadLine(ctx context.Context) (string, error) {
	line, err := r.ReadString(ctx, '\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
