package ads

import (
	"log"
	"sync"
	"time"
)

// Timer is the part of *time.Timer the sequencer needs.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemScheduler schedules on the wall clock.
type SystemScheduler struct{}

func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Placements maps each ad kind to its provider unit id.
type Placements map[Kind]string

// DefaultPlacements are the AdMob units the web build shipped with.
func DefaultPlacements() Placements {
	return Placements{
		KindBanner:       "ca-app-pub-5278345254129535/2929690326",
		KindInterstitial: "ca-app-pub-5278345254129535/5887149869",
		KindRewarded:     "ca-app-pub-5278345254129535/3630304575",
		KindAppOpen:      "ca-app-pub-5278345254129535/7377977894",
	}
}

type Timing struct {
	LoadDelay time.Duration
	Countdown int
	Tick      time.Duration
}

func DefaultTiming() Timing {
	return Timing{LoadDelay: time.Second, Countdown: 5, Tick: time.Second}
}

type Outcome string

const (
	OutcomeGranted   Outcome = "granted"
	OutcomeDismissed Outcome = "dismissed"
)

// Completion is delivered once per gate overlay when it leaves the screen.
type Completion struct {
	Kind         Kind
	SubjectJobID string
	Outcome      Outcome
}

type instance struct {
	overlay Overlay
	timer   Timer
}

func (in *instance) stop() {
	if in.timer != nil {
		in.timer.Stop()
		in.timer = nil
	}
}

// Sequencer owns the single gate overlay plus any passive banners.
type Sequencer struct {
	mu         sync.Mutex
	sched      Scheduler
	placements Placements
	timing     Timing
	onComplete func(Completion)

	nextID  uint64
	current *instance
	banners map[uint64]*instance
}

func NewSequencer(sched Scheduler, placements Placements, timing Timing, onComplete func(Completion)) *Sequencer {
	if sched == nil {
		sched = SystemScheduler{}
	}
	if placements == nil {
		placements = DefaultPlacements()
	}
	return &Sequencer{
		sched:      sched,
		placements: placements,
		timing:     timing,
		onComplete: onComplete,
		banners:    make(map[uint64]*instance),
	}
}

// Request starts a gate overlay. Only one may be on screen at a time.
func (s *Sequencer) Request(kind Kind, subjectJobID string) (Overlay, error) {
	if !kind.IsGate() {
		return Overlay{}, ErrNotGate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return Overlay{}, ErrOverlayActive
	}

	in := s.newInstance(kind, subjectJobID)
	s.current = in
	s.scheduleLoad(in, func() bool { return s.current == in })
	log.Printf("📺 Ad %d (%s) loading for job %q", in.overlay.ID, kind, subjectJobID)
	return in.overlay, nil
}

// Current returns the active gate overlay, if any.
func (s *Sequencer) Current() (Overlay, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Overlay{Phase: PhaseIdle}, false
	}
	return s.current.overlay, true
}

// Dismiss tries to close the active overlay. Closing a rewarded ad before the
// countdown ends returns ErrMustFinishWatching and changes nothing.
func (s *Sequencer) Dismiss() (Overlay, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return Overlay{Phase: PhaseIdle}, ErrNoOverlay
	}

	in := s.current
	next, err := Step(in.overlay, EventDismiss, s.timing.Countdown)
	if err != nil || next.Phase != PhaseClosed {
		s.mu.Unlock()
		return next, err
	}

	in.overlay = next
	in.stop()
	s.current = nil
	s.mu.Unlock()

	outcome := OutcomeDismissed
	if next.Kind == KindRewarded {
		outcome = OutcomeGranted
	}
	log.Printf("📺 Ad %d (%s) closed: %s", next.ID, next.Kind, outcome)
	s.complete(Completion{Kind: next.Kind, SubjectJobID: next.SubjectJobID, Outcome: outcome})
	return next, nil
}

// Banner starts a passive banner unit. Banners never occupy the overlay slot.
func (s *Sequencer) Banner() Overlay {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := s.newInstance(KindBanner, "")
	s.banners[in.overlay.ID] = in
	s.scheduleLoad(in, func() bool { return s.banners[in.overlay.ID] == in })
	return in.overlay
}

func (s *Sequencer) BannerState(id uint64) (Overlay, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.banners[id]
	if !ok {
		return Overlay{}, false
	}
	return in.overlay, true
}

// Teardown drops every ad and cancels their timers. An interrupted gate
// overlay completes as dismissed and never grants a reward.
func (s *Sequencer) Teardown() {
	s.mu.Lock()
	in := s.current
	s.current = nil
	if in != nil {
		in.stop()
	}
	for id, b := range s.banners {
		b.stop()
		delete(s.banners, id)
	}
	s.mu.Unlock()

	if in != nil {
		s.complete(Completion{Kind: in.overlay.Kind, SubjectJobID: in.overlay.SubjectJobID, Outcome: OutcomeDismissed})
	}
}

func (s *Sequencer) newInstance(kind Kind, subjectJobID string) *instance {
	s.nextID++
	return &instance{overlay: Overlay{
		ID:           s.nextID,
		Kind:         kind,
		UnitID:       s.placements[kind],
		SubjectJobID: subjectJobID,
		Phase:        PhaseLoading,
	}}
}

// scheduleLoad and scheduleTick must be called with s.mu held. live reports,
// under the lock, whether the instance is still owned by the sequencer.
func (s *Sequencer) scheduleLoad(in *instance, live func() bool) {
	in.timer = s.sched.AfterFunc(s.timing.LoadDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !live() {
			return
		}
		s.advance(in, EventLoaded, live)
	})
}

func (s *Sequencer) scheduleTick(in *instance, live func() bool) {
	in.timer = s.sched.AfterFunc(s.timing.Tick, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !live() {
			return
		}
		s.advance(in, EventTick, live)
	})
}

func (s *Sequencer) advance(in *instance, ev Event, live func() bool) {
	next, err := Step(in.overlay, ev, s.timing.Countdown)
	if err != nil {
		return
	}
	in.overlay = next
	in.timer = nil
	if next.Phase == PhasePlaying {
		s.scheduleTick(in, live)
	}
}

func (s *Sequencer) complete(c Completion) {
	if s.onComplete != nil {
		s.onComplete(c)
	}
}
