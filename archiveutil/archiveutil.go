// SPDX-License-Identifier: GPL-2.0-only

// Package archiveutil provides convenience helpers for one-shot LZMA
// encode/decode of in-memory byte slices, plus a helper for compressing many
// small independent blocks concurrently.
package archiveutil

import (
	"bytes"

	"golang.org/x/sync/errgroup"

	lzma "github.com/CaveSystems/cave-compression-sub001"
)

// CompressBytes compresses data with opts and returns the full LZMA stream
// (header included).
func CompressBytes(data []byte, opts lzma.Options) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := lzma.NewEncoder(&buf, opts)
	if err != nil {
		return nil, err
	}
	if err := enc.Encode(bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecompressBytes decodes a complete LZMA stream (header included) and
// returns the uncompressed bytes. outputSize must match the original input
// length unless the stream carries an end marker, in which case pass -1.
func DecompressBytes(stream []byte, outputSize int64) ([]byte, error) {
	dec, err := lzma.NewDecoder(bytes.NewReader(stream))
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := dec.Decode(&out, outputSize); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// CompressBlocksParallel compresses each of blocks independently and
// concurrently, all with the same opts, returning results in the same
// order as blocks. Independent blocks share no LZMA dictionary; this trades
// ratio (no cross-block matches) for wall-clock time on multi-core hosts, the
// same "mini-packet" tradeoff a solid archive makes in reverse.
func CompressBlocksParallel(blocks [][]byte, opts lzma.Options) ([][]byte, error) {
	results := make([][]byte, len(blocks))
	var g errgroup.Group
	for i, block := range blocks {
		i, block := i, block
		g.Go(func() error {
			out, err := CompressBytes(block, opts)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// DecompressBlocksParallel is CompressBlocksParallel's inverse.
func DecompressBlocksParallel(streams [][]byte, outputSizes []int64) ([][]byte, error) {
	results := make([][]byte, len(streams))
	var g errgroup.Group
	for i, stream := range streams {
		i, stream := i, stream
		size := int64(-1)
		if i < len(outputSizes) {
			size = outputSizes[i]
		}
		g.Go(func() error {
			out, err := DecompressBytes(stream, size)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
