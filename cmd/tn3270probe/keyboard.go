// This file is part of https://github.com/racingmars/go3270/
// Copyright 2020 by Matthew R. Wilson, licensed under the MIT license. See
// LICENSE in the project root for license information.

package main

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// keyReader puts stdin into raw mode and feeds single bytes into a channel,
// so a keystroke reaches the probe without waiting on a line's worth of
// terminal-driver buffering.
type keyReader struct {
	fd       int
	oldState *term.State
	out      chan<- byte
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newKeyReader(out chan<- byte) *keyReader {
	return &keyReader{
		fd:     int(os.Stdin.Fd()),
		out:    out,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (k *keyReader) start() error {
	if !term.IsTerminal(k.fd) {
		return fmt.Errorf("stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(k.fd)
	if err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}
	k.oldState = oldState

	go func() {
		defer close(k.done)
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				select {
				case k.out <- buf[0]:
				case <-k.stopCh:
					return
				}
			}
			if err != nil {
				return
			}
			select {
			case <-k.stopCh:
				return
			default:
			}
		}
	}()
	return nil
}

func (k *keyReader) stop() {
	k.stopOnce.Do(func() {
		close(k.stopCh)
	})
	if k.oldState != nil {
		_ = term.Restore(k.fd, k.oldState)
	}
}
