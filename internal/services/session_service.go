package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/justsurfingit/JobConnect/internal/ads"
	"github.com/justsurfingit/JobConnect/internal/database"
	"github.com/justsurfingit/JobConnect/internal/models"
)

// UserKey holds the logged-in identity between restarts.
const UserKey = "job_app_user"

var ErrNotLoggedIn = errors.New("please log in first")

// SessionService is the application state of the single client scope: who is
// logged in, which salaries they unlocked, and the ad overlay in front of them.
// Everything except the identity is dropped on logout.
type SessionService struct {
	Store database.KVStore
	Ads   *ads.Sequencer

	mu            sync.Mutex
	user          *models.User
	unlocked      map[string]struct{}
	pendingReward string
	appOpenShown  bool
}

func NewSessionService(store database.KVStore, sched ads.Scheduler, placements ads.Placements, timing ads.Timing) *SessionService {
	s := &SessionService{
		Store:    store,
		unlocked: make(map[string]struct{}),
	}
	s.Ads = ads.NewSequencer(sched, placements, timing, s.handleAdCompletion)
	return s
}

// Restore picks up an identity saved by an earlier Login. A restored session
// counts as a fresh login and gets its app-open ad.
func (s *SessionService) Restore(ctx context.Context) (bool, error) {
	raw, ok, err := s.Store.Get(ctx, UserKey)
	if err != nil {
		return false, fmt.Errorf("read session: %w", err)
	}
	if !ok {
		return false, nil
	}

	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.Phone == "" {
		log.Printf("⚠️  Ignoring unreadable session record: %v", err)
		return false, nil
	}

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()

	log.Printf("🔑 Restored session for %s (%s)", u.Phone, u.Role)
	s.startSession()
	return true, nil
}

// Login records a verified identity and shows the app-open ad. The returned
// overlay is zero if the ad could not be shown.
func (s *SessionService) Login(ctx context.Context, u models.User) (ads.Overlay, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return ads.Overlay{}, fmt.Errorf("encode session: %w", err)
	}
	if err := s.Store.Set(ctx, UserKey, string(b)); err != nil {
		return ads.Overlay{}, fmt.Errorf("write session: %w", err)
	}

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()

	log.Printf("🔑 %s logged in as %s", u.Phone, u.Role)
	o, _ := s.startSession()
	return o, nil
}

func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.Store.Delete(ctx, UserKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	// outside s.mu: teardown reports back through handleAdCompletion
	s.Ads.Teardown()

	s.mu.Lock()
	s.user = nil
	s.unlocked = make(map[string]struct{})
	s.pendingReward = ""
	s.appOpenShown = false
	s.mu.Unlock()

	log.Println("👋 Logged out")
	return nil
}

func (s *SessionService) CurrentUser() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// RequestApplyGate shows an interstitial before the apply action. Applying
// itself is not wired to anything yet; the intent is only logged.
func (s *SessionService) RequestApplyGate(job models.Job) (ads.Overlay, error) {
	if _, ok := s.CurrentUser(); !ok {
		return ads.Overlay{}, ErrNotLoggedIn
	}
	o, err := s.Ads.Request(ads.KindInterstitial, job.ID)
	if err != nil {
		return ads.Overlay{}, err
	}
	log.Printf("📝 User attempting to apply for %s", job.Title)
	return o, nil
}

// RequestSalaryUnlockGate shows a rewarded ad; finishing it unlocks job's salary.
func (s *SessionService) RequestSalaryUnlockGate(job models.Job) (ads.Overlay, error) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return ads.Overlay{}, ErrNotLoggedIn
	}
	prev := s.pendingReward
	s.pendingReward = job.ID
	s.mu.Unlock()

	o, err := s.Ads.Request(ads.KindRewarded, job.ID)
	if err != nil {
		s.mu.Lock()
		if s.pendingReward == job.ID {
			s.pendingReward = prev
		}
		s.mu.Unlock()
		return ads.Overlay{}, err
	}
	return o, nil
}

func (s *SessionService) IsSalaryUnlocked(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.unlocked[jobID]
	return ok
}

// DismissAd closes the current overlay if the ad allows it.
func (s *SessionService) DismissAd() (ads.Overlay, error) {
	return s.Ads.Dismiss()
}

func (s *SessionService) startSession() (ads.Overlay, bool) {
	s.mu.Lock()
	if s.appOpenShown {
		s.mu.Unlock()
		return ads.Overlay{}, false
	}
	s.appOpenShown = true
	s.mu.Unlock()

	o, err := s.Ads.Request(ads.KindAppOpen, "")
	if err != nil {
		log.Printf("⚠️  App-open ad skipped: %v", err)
		return ads.Overlay{}, false
	}
	return o, true
}

func (s *SessionService) handleAdCompletion(c ads.Completion) {
	if c.Kind != ads.KindRewarded {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Outcome == ads.OutcomeGranted && c.SubjectJobID != "" && c.SubjectJobID == s.pendingReward {
		s.unlocked[c.SubjectJobID] = struct{}{}
		log.Printf("🎁 Reward earned! Salary for job %s unlocked", c.SubjectJobID)
	}
	s.pendingReward = ""
}
