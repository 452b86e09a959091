// SPDX-License-Identifier: GPL-2.0-only
package lzma

import (
	"errors"
	"testing"
)

func TestErrors_SentinelsMatchThroughIs(t *testing.T) {
	opts := DefaultOptions()
	opts.LC = maxLC + 1
	err := opts.validate()
	if err == nil {
		t.Fatalf("expected a configuration error")
	}
	var lzErr *Error
	if !errors.As(err, &lzErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if lzErr.Kind != KindConfiguration {
		t.Fatalf("expected KindConfiguration, got %v", lzErr.Kind)
	}

	malformedErr := malformed("bad distance %d", 12345)
	if !errors.Is(malformedErr, ErrMalformedInput) {
		t.Fatalf("expected errors.Is to match ErrMalformedInput")
	}
}
