// Package ads simulates ad placements that gate user actions.
//
// Overlay lifecycle:
//
//	idle ──► loading ──► playing(n) ──► playing(n-1) … playing(0) ──► closable ──► closed
//	                └──────────────────── banner ─────────────────────►┘
//
// Banners go straight from loading to closable and are never dismissed.
// A rewarded overlay refuses dismissal until its countdown is exhausted.
package ads

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindBanner       Kind = "banner"
	KindInterstitial Kind = "interstitial"
	KindRewarded     Kind = "rewarded"
	KindAppOpen      Kind = "app-open"
)

// ParseKind converts a raw string to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	switch k {
	case KindBanner, KindInterstitial, KindRewarded, KindAppOpen:
		return k, nil
	}
	return "", fmt.Errorf("unknown ad kind %q", s)
}

// IsGate reports whether the kind blocks the user behind a countdown.
func (k Kind) IsGate() bool {
	return k == KindInterstitial || k == KindRewarded || k == KindAppOpen
}

type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseLoading  Phase = "loading"
	PhasePlaying  Phase = "playing"
	PhaseClosable Phase = "closable"
	PhaseClosed   Phase = "closed"
)

type Event int

const (
	EventLoaded Event = iota
	EventTick
	EventDismiss
)

var (
	ErrMustFinishWatching = errors.New("watch the full video to get the reward")
	ErrOverlayActive      = errors.New("another ad is already showing")
	ErrNoOverlay          = errors.New("no ad is showing")
	ErrNotGate            = errors.New("banner ads cannot be requested as an overlay")

	// errStale marks an event that no longer applies to the overlay's phase,
	// e.g. a tick delivered after dismissal.
	errStale = errors.New("stale ad event")
)

// Overlay is a snapshot of one ad instance.
type Overlay struct {
	ID           uint64 `json:"id"`
	Kind         Kind   `json:"kind"`
	UnitID       string `json:"unitId"`
	SubjectJobID string `json:"subjectJobId,omitempty"`
	Phase        Phase  `json:"phase"`
	Remaining    int    `json:"remaining"`
}

// Step applies ev to o and returns the next snapshot. It has no side effects;
// timers and reward granting live in Sequencer.
func Step(o Overlay, ev Event, countdown int) (Overlay, error) {
	switch ev {
	case EventLoaded:
		if o.Phase != PhaseLoading {
			return o, errStale
		}
		if !o.Kind.IsGate() || countdown <= 0 {
			o.Phase = PhaseClosable
			o.Remaining = 0
			return o, nil
		}
		o.Phase = PhasePlaying
		o.Remaining = countdown
		return o, nil

	case EventTick:
		if o.Phase != PhasePlaying {
			return o, errStale
		}
		o.Remaining--
		if o.Remaining <= 0 {
			o.Remaining = 0
			o.Phase = PhaseClosable
		}
		return o, nil

	case EventDismiss:
		if !o.Kind.IsGate() {
			return o, ErrNotGate
		}
		switch o.Phase {
		case PhaseLoading, PhasePlaying:
			if o.Kind == KindRewarded {
				return o, ErrMustFinishWatching
			}
			// the close control is not offered yet
			return o, nil
		case PhaseClosable:
			o.Phase = PhaseClosed
			return o, nil
		}
		return o, ErrNoOverlay
	}
	return o, fmt.Errorf("unknown ad event %d", ev)
}
