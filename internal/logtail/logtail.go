// Package logtail reads the daemon log file for the CLI logs command. It
// supports reading the last N lines, resuming from a byte offset, and
// polling for new output while following.
package logtail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Options control a single Read call.
type Options struct {
	// Offset is the byte position to resume from. Negative means read the
	// last Limit lines instead.
	Offset int64
	Limit  int
	// Wait bounds how long Read polls for new lines when none are
	// immediately available. Zero disables waiting.
	Wait time.Duration
}

// Chunk is the outcome of a Read: the lines consumed and the offset to
// resume from.
type Chunk struct {
	Lines  []string
	Offset int64
}

const pollInterval = 250 * time.Millisecond

// Read returns log lines according to opts. A missing file is not an error;
// it yields an empty chunk at offset zero so a follower can pick the file up
// once the daemon creates it.
func Read(ctx context.Context, path string, opts Options) (Chunk, error) {
	if opts.Wait < 0 {
		opts.Wait = 0
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Chunk{}, nil
		}
		return Chunk{Offset: opts.Offset}, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return Chunk{Offset: opts.Offset}, fmt.Errorf("log path %q is a directory", path)
	}

	if opts.Offset < 0 {
		chunk, err := readTail(path, opts.Limit)
		if err != nil {
			return chunk, err
		}
		if opts.Wait > 0 && len(chunk.Lines) == 0 {
			return waitForLines(ctx, path, chunk.Offset, opts.Wait)
		}
		return chunk, nil
	}

	offset := opts.Offset
	if offset > info.Size() {
		offset = info.Size()
	}
	chunk, err := readFrom(path, offset)
	if err != nil {
		return chunk, err
	}
	if opts.Wait > 0 && len(chunk.Lines) == 0 {
		return waitForLines(ctx, path, chunk.Offset, opts.Wait)
	}
	return chunk, nil
}

func newScanner(file *os.File) *bufio.Scanner {
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner
}

func readTail(path string, limit int) (Chunk, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Chunk{}, nil
		}
		return Chunk{}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Chunk{}, fmt.Errorf("stat log file: %w", err)
	}
	if limit <= 0 {
		return Chunk{Offset: info.Size()}, nil
	}

	ring := make([]string, limit)
	count, idx := 0, 0
	scanner := newScanner(file)
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % limit
		if count < limit {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return Chunk{}, fmt.Errorf("read log file: %w", err)
	}

	offset, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return Chunk{}, fmt.Errorf("seek log file: %w", err)
	}

	lines := make([]string, count)
	if count == limit {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%limit]
		}
	} else {
		copy(lines, ring[:count])
	}
	return Chunk{Lines: lines, Offset: offset}, nil
}

func readFrom(path string, offset int64) (Chunk, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Chunk{}, nil
		}
		return Chunk{Offset: offset}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return Chunk{Offset: offset}, fmt.Errorf("seek log file: %w", err)
	}

	var lines []string
	scanner := newScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return Chunk{Offset: offset}, fmt.Errorf("read log file: %w", err)
	}

	newOffset, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return Chunk{Offset: offset}, fmt.Errorf("determine log offset: %w", err)
	}
	return Chunk{Lines: lines, Offset: newOffset}, nil
}

func waitForLines(ctx context.Context, path string, offset int64, wait time.Duration) (Chunk, error) {
	deadline := time.Now().Add(wait)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		chunk, err := readFrom(path, offset)
		if err != nil {
			return chunk, err
		}
		if len(chunk.Lines) > 0 || time.Now().After(deadline) {
			return chunk, nil
		}
		offset = chunk.Offset

		select {
		case <-ctx.Done():
			return Chunk{Offset: offset}, ctx.Err()
		case <-ticker.C:
		}
	}
}
