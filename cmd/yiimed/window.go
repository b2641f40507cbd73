package main

import (
	"fmt"

	"github.com/gookit/color"

	"github.com/tanpero/yi-ime/candidate"
	"github.com/tanpero/yi-ime/session"
)

// trayCandidateWindow is the console-rendered stand-in for the real
// platform candidate window and tray icon: no GUI toolkit appears
// anywhere in this module's reference corpus, so the resident process
// reports candidate lists and mode changes to the terminal instead,
// using the same gookit/color highlighting the debug CLI uses.
type trayCandidateWindow struct {
	items    []candidate.Item
	selected int
}

func newTrayCandidateWindow() *trayCandidateWindow {
	return &trayCandidateWindow{selected: -1}
}

func (w *trayCandidateWindow) ShowCandidates(items []candidate.Item, buffer string) {
	w.items = items
	w.selected = -1
	color.Cyan.Printf("[%s] ", buffer)
	for i, item := range items {
		color.Yellow.Printf("%d:%s ", i+1, item)
	}
	fmt.Println()
}

func (w *trayCandidateWindow) Hide() {
	w.items = nil
	w.selected = -1
}

func (w *trayCandidateWindow) CandidateCount() int { return len(w.items) }

func (w *trayCandidateWindow) SelectByNumber(n int) (candidate.Item, bool) {
	idx := n - 1
	if idx < 0 || idx >= len(w.items) {
		return "", false
	}
	w.selected = idx
	return w.items[idx], true
}

func (w *trayCandidateWindow) SelectedCandidate() (candidate.Item, bool) {
	if w.selected < 0 || w.selected >= len(w.items) {
		return "", false
	}
	return w.items[w.selected], true
}

func (w *trayCandidateWindow) SetInputMode(mode session.InputMode) {
	color.Green.Printf("input mode -> %d\n", mode)
}

func (w *trayCandidateWindow) SetLanguage(active bool) {
	if active {
		color.Green.Println("yi input: ON")
	} else {
		color.Gray.Println("yi input: OFF")
	}
}
