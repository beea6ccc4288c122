package main

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// durationKeys are the preset countdowns on the number row.
var durationKeys = map[rune]time.Duration{
	'1': 30 * time.Second,
	'2': time.Minute,
	'3': 5 * time.Minute,
	'4': 10 * time.Minute,
	'5': 15 * time.Minute,
	'6': 30 * time.Minute,
}

// keyCommand maps a key press to a command.
func keyCommand(ev *tcell.EventKey) (command, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return command{kind: cmdQuit}, true
	case tcell.KeyRune:
	default:
		return command{}, false
	}

	r := ev.Rune()
	if d, ok := durationKeys[r]; ok {
		return command{kind: cmdDuration, duration: d}, true
	}
	switch r {
	case 's', 'S', ' ':
		return command{kind: cmdStart}, true
	case 'p', 'P':
		return command{kind: cmdPause}, true
	case 'r', 'R':
		return command{kind: cmdReset}, true
	case 'm', 'M':
		return command{kind: cmdMute}, true
	case 'q', 'Q':
		return command{kind: cmdQuit}, true
	}
	return command{}, false
}

// eventSource is the input half of tcell.Screen.
type eventSource interface {
	PollEvent() tcell.Event
}

// redrawer repaints after a resize.
type redrawer interface {
	Flush()
}

// readKeys forwards key commands until the screen is finalized.
func readKeys(src eventSource, view redrawer, out chan<- command) {
	for {
		switch ev := src.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			view.Flush()
		case *tcell.EventKey:
			if c, ok := keyCommand(ev); ok {
				out <- c
				if c.kind == cmdQuit {
					return
				}
			}
		}
	}
}
