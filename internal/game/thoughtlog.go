package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/kabaddi/internal/sim"
)

const (
	feedPanelWidth = 260
	feedMaxEntries = 60
	feedLineHeight = 16
)

// FeedEntry is a single line in the event feed.
type FeedEntry struct {
	Clock string // match time the event happened, mm:ss into the game
	Event sim.GameEvent
}

// EventFeed is a ring buffer of match events rendered beside the pitch.
type EventFeed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewEventFeed creates a feed with a fixed capacity.
func NewEventFeed() *EventFeed {
	return &EventFeed{
		entries: make([]FeedEntry, feedMaxEntries),
	}
}

// Add appends an event to the feed.
func (f *EventFeed) Add(ev sim.GameEvent) {
	f.entries[f.head] = FeedEntry{
		Clock: sim.FormatClock(ev.Timestamp / 1000),
		Event: ev,
	}
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Clear empties the feed.
func (f *EventFeed) Clear() {
	f.head = 0
	f.count = 0
}

// Recent returns entries in chronological order (oldest first).
func (f *EventFeed) Recent() []FeedEntry {
	result := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		result[i] = f.entries[idx]
	}
	return result
}

// Line formats an entry for the panel.
func (e FeedEntry) Line() string {
	msg := e.Event.Message
	if e.Event.Points > 0 {
		msg = fmt.Sprintf("%s +%d", msg, e.Event.Points)
	}
	return fmt.Sprintf("%s %s", e.Clock, msg)
}

// eventColor is the indicator colour for the side an event favours.
func eventColor(ev sim.GameEvent) color.RGBA {
	d := sim.ScoreDelta(ev)
	switch {
	case d.Raiders > 0:
		return colRaider
	case d.Defenders > 0:
		return colDefender
	}
	return colTextDim
}

// Draw renders the feed panel on the right side of the screen.
func (f *EventFeed) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(feedPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(feedPanelWidth), 20, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	drawText(screen, "MATCH LOG", panelX+8, 4, 1, colTextBright)
	vector.StrokeLine(screen, float32(panelX), 20, float32(panelX+feedPanelWidth), 20, 1.0, color.RGBA{R: 50, G: 80, B: 50, A: 200}, false)

	entries := f.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 28) / feedLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}
	visible := entries[startIdx:]
	recent := 3 // how many latest entries to highlight

	y := 26
	for i, e := range visible {
		isRecent := i >= len(visible)-recent
		if isRecent {
			vector.FillRect(screen, float32(panelX+2), float32(y-1), float32(feedPanelWidth-4), float32(feedLineHeight), color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, eventColor(e.Event), false)

		col := colTextDim
		if isRecent {
			col = colTextBright
		}
		drawText(screen, e.Line(), panelX+12, y, 1, col)
		y += feedLineHeight
	}
}
