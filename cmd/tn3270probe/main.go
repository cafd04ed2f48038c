// This file is part of https://github.com/racingmars/go3270/
// Copyright 2020 by Matthew R. Wilson, licensed under the MIT license. See
// LICENSE in the project root for license information.

// Command tn3270probe dials a TN3270/TN3270E host, renders the screens it
// receives, and forwards single keystrokes as AID responses.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"github.com/go3270client/tn3270"
)

var styles = map[tn3270.Color]lipgloss.Style{
	tn3270.ColorDefault:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	tn3270.ColorBlue:      lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	tn3270.ColorRed:       lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	tn3270.ColorPink:      lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	tn3270.ColorGreen:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	tn3270.ColorTurquoise: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	tn3270.ColorYellow:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	tn3270.ColorWhite:     lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
}

func main() {
	var host = pflag.StringP("host", "H", "", "Host name or address to connect to.")
	var port = pflag.IntP("port", "P", 23, "TCP port to connect to.")
	var useTLS = pflag.BoolP("tls", "t", false, "Connect over TLS.")
	var configFile = pflag.StringP("config", "c", "", "YAML connection profile. Overrides --host/--port/--tls when given.")
	var codepage = pflag.StringP("codepage", "C", "cp037", "EBCDIC code page. Only cp037 is supported; any other value is rejected.")
	var debug = pflag.BoolP("debug", "d", false, "Print protocol debug logging to stderr.")
	pflag.Parse()

	if *configFile != "" {
		cfg, err := tn3270.LoadConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tn3270probe: %v\n", err)
			os.Exit(1)
		}
		*host = cfg.Host
		*port = cfg.Port
		*useTLS = cfg.TLS
		if cfg.Codepage != "" {
			*codepage = cfg.Codepage
		}
	}

	if *host == "" {
		fmt.Fprintln(os.Stderr, "tn3270probe: --host (or a --config file naming one) is required")
		pflag.Usage()
		os.Exit(2)
	}
	if !strings.EqualFold(*codepage, "cp037") {
		fmt.Fprintf(os.Stderr, "tn3270probe: unsupported codepage %q, only cp037 is built in\n", *codepage)
		os.Exit(2)
	}

	if *debug {
		tn3270.Debug = os.Stderr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := tn3270.Dial(ctx, *host, *port, tn3270.DialOptions{TLS: *useTLS})
	if err != nil {
		fmt.Fprintf(os.Stderr, "tn3270probe: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	keys := make(chan byte, 16)
	host3270 := newKeyReader(keys)
	if err := host3270.start(); err != nil {
		fmt.Fprintf(os.Stderr, "tn3270probe: warning: %v (running without keyboard input)\n", err)
	} else {
		defer host3270.stop()
	}

	run(ctx, conn, keys)
}

// run drains conn's event stream, rendering each screen it delivers, and
// maps single keystrokes from keys onto AID responses until ctx is
// cancelled or the connection ends.
func run(ctx context.Context, conn *tn3270.Connection, keys <-chan byte) {
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-conn.Events():
			if !ok {
				return
			}
			switch e := ev.(type) {
			case tn3270.ConnectedEvent:
				fmt.Fprintln(os.Stderr, "tn3270probe: connected")
			case tn3270.DataRecordEvent:
				render(e.Screen)
			case tn3270.ErrorEvent:
				fmt.Fprintf(os.Stderr, "tn3270probe: %v\n", e.Err)
			case tn3270.DisconnectedEvent:
				if e.Err != nil {
					fmt.Fprintf(os.Stderr, "tn3270probe: disconnected: %v\n", e.Err)
				} else {
					fmt.Fprintln(os.Stderr, "tn3270probe: disconnected")
				}
				return
			}

		case b, ok := <-keys:
			if !ok {
				continue
			}
			if aid, isAID := keyToAID(b); isAID {
				if err := conn.SendAID(aid); err != nil {
					fmt.Fprintf(os.Stderr, "tn3270probe: send failed: %v\n", err)
				}
			}
		}
	}
}

// keyToAID maps the handful of keystrokes a probe session understands onto
// AID keys. Everything else is a plain data character and isn't handled
// here: the probe is a read-only viewer that can press Enter and Clear, not
// a full field editor. PF and PA keys are not mapped.
func keyToAID(b byte) (tn3270.AID, bool) {
	switch b {
	case '\n', '\r':
		return tn3270.AIDEnter, true
	case 0x1b: // Esc doubles as Clear in this probe.
		return tn3270.AIDClear, true
	default:
		return 0, false
	}
}

// render draws one screen refresh to stdout: 24 rows of 80 columns, each
// cell styled by its 3270 presentation color.
func render(s *tn3270.Screen) {
	fmt.Print("\x1b[2J\x1b[H") // clear screen, home cursor

	var b strings.Builder
	for row := 0; row < 24; row++ {
		for col := 0; col < 80; col++ {
			cell := s.Cells[row*80+col]
			style := styles[cell.Color]
			if cell.Highlight == tn3270.HighlightReverse {
				style = style.Reverse(true)
			}
			if cell.Highlight == tn3270.HighlightUnderscore {
				style = style.Underline(true)
			}
			b.WriteString(style.Render(string(cell.Char)))
		}
		b.WriteByte('\n')
	}
	fmt.Print(b.String())
}
