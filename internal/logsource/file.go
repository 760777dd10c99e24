package logsource

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/logcheck/internal/model"
)

// ReadAll reads every file in the given order and concatenates their lines.
// Files may be read in parallel, but the result is always the same as reading
// them one after the other: each file's lines stay together, in file order.
// Any open or read failure aborts with an error naming the file.
func ReadAll(ctx context.Context, files []model.LogFile, conf ...Config) ([]Line, error) {
	c := resolveConfig(conf)
	perFile := make([][]Line, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Concurrency)
	for i, f := range files {
		g.Go(func() error {
			lines, err := readFile(ctx, f.Path, c.MaxLineSize)
			if err != nil {
				return err
			}
			perFile[i] = lines
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, lines := range perFile {
		total += len(lines)
	}
	out := make([]Line, 0, total)
	for _, lines := range perFile {
		out = append(out, lines...)
	}
	return out, nil
}

// ReadFile reads one file. Gzip-compressed files (".gz") are decompressed.
func ReadFile(ctx context.Context, path string, conf ...Config) ([]Line, error) {
	return readFile(ctx, path, resolveConfig(conf).MaxLineSize)
}

func readFile(ctx context.Context, path string, maxLineSize int) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("logsource: open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("logsource: gzip %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	lines, err := scanLines(ctx, path, r, maxLineSize)
	if err != nil {
		return nil, err
	}
	log.Debugf("logsource: read %d lines from %s", len(lines), path)
	return lines, nil
}

func scanLines(ctx context.Context, path string, r io.Reader, maxLineSize int) ([]Line, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(64*1024, maxLineSize)), maxLineSize)

	var lines []Line
	number := 0
	for scanner.Scan() {
		number++
		if number%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, Line{Source: path, Number: number, Text: text})
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("logsource: %s line %d exceeds max size (%d bytes): %w", path, number+1, maxLineSize, err)
		}
		return nil, fmt.Errorf("logsource: read %s: %w", path, err)
	}
	return lines, nil
}
