package sim

import "fmt"

// EventType identifies what happened in a GameEvent.
type EventType int

const (
	EventRaidStart EventType = iota
	EventLineCrossed
	EventDefenderTagged
	EventRaiderSafe
	EventRaiderCaught
	EventRaidTimeout
	EventGameOver
)

var eventNames = [...]string{
	EventRaidStart:      "raid_start",
	EventLineCrossed:    "line_crossed",
	EventDefenderTagged: "defender_tagged",
	EventRaiderSafe:     "raider_safe",
	EventRaiderCaught:   "raider_caught",
	EventRaidTimeout:    "raid_timeout",
	EventGameOver:       "game_over",
}

var eventMessages = [...]string{
	EventRaidStart:      "New raid started!",
	EventLineCrossed:    "Raider crossed the line!",
	EventDefenderTagged: "Defender tagged!",
	EventRaiderSafe:     "Successful raid!",
	EventRaiderCaught:   "Raider caught!",
	EventRaidTimeout:    "Raid timed out!",
	EventGameOver:       "Game Over!",
}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[t]
}

// Message is the default human-readable text for the event type.
func (t EventType) Message() string {
	if t < 0 || int(t) >= len(eventMessages) {
		return ""
	}
	return eventMessages[t]
}

// GameEvent is one immutable entry in the match log.
type GameEvent struct {
	Type      EventType
	Timestamp float64 // engine timestamp (ms) of the update that produced it
	PlayerID  string  // empty for global events
	Points    int     // 0 when the event carries no points
	Message   string
}

// String formats the event as a fixed-width log line.
//
//	[  12.34s] raider_caught    defender_3   +1  Raider caught!
func (e GameEvent) String() string {
	pts := ""
	if e.Points != 0 {
		pts = fmt.Sprintf("+%d", e.Points)
	}
	player := e.PlayerID
	if player == "" {
		player = "--"
	}
	return fmt.Sprintf("[%8.2fs] %-16s %-13s %-3s %s", e.Timestamp/1000, e.Type, player, pts, e.Message)
}
