package quiz

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drooschuck/funwithflag/internal/catalog"
	"github.com/drooschuck/funwithflag/internal/metrics"
)

// FallbackFunFacts replaces provider output whenever the fun-facts request
// fails, no matter why.
const FallbackFunFacts = "Sorry, I couldn't fetch any fun facts right now."

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownOption   = errors.New("option is not part of the current question")
)

// FactsProvider produces short supplemental text about a country.
type FactsProvider interface {
	FunFacts(ctx context.Context, country string) (string, error)
}

// Listener receives a snapshot after every committed state change.
type Listener func(Snapshot)

// Controller owns every live session and applies the per-question state
// machine: pending until an option is picked, then correct or incorrect,
// then a timed advance to the next question or the finished screen.
type Controller struct {
	questions []catalog.Question
	store     *Store
	scheduler Scheduler
	provider  FactsProvider
	log       *zap.Logger

	delayCorrect   time.Duration
	delayIncorrect time.Duration

	listener Listener
}

func NewController(
	questions []catalog.Question,
	scheduler Scheduler,
	provider FactsProvider,
	log *zap.Logger,
	delayCorrect, delayIncorrect time.Duration,
) *Controller {
	return &Controller{
		questions:      questions,
		store:          NewStore(),
		scheduler:      scheduler,
		provider:       provider,
		log:            log,
		delayCorrect:   delayCorrect,
		delayIncorrect: delayIncorrect,
	}
}

// SetListener wires the state-change feed. Call before the controller starts
// taking traffic.
func (c *Controller) SetListener(l Listener) {
	c.listener = l
}

// Start creates a session positioned at the first question.
func (c *Controller) Start() Snapshot {
	sess := &Session{
		ID:           uuid.NewString(),
		evaluation:   EvaluationPending,
		lastActivity: time.Now(),
	}
	c.store.Put(sess)
	metrics.ActiveSessions.Set(float64(c.store.Len()))
	c.log.Debug("session started", zap.String("session_id", sess.ID))

	sess.mu.Lock()
	snap := c.snapshotLocked(sess)
	sess.mu.Unlock()

	c.notify(sess, snap)
	return snap
}

// Get returns the current snapshot.
func (c *Controller) Get(id string) (Snapshot, error) {
	sess, ok := c.store.Get(id)
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.discarded {
		return Snapshot{}, ErrSessionNotFound
	}
	sess.lastActivity = time.Now()
	return c.snapshotLocked(sess), nil
}

// SelectOption applies the "option selected" event. While evaluation is not
// pending the event is a no-op and the unchanged snapshot comes back, so
// duplicate clicks are harmless. A correct pick scores, kicks off the
// fun-facts request, and schedules the slow advance; a wrong pick schedules
// the fast one.
func (c *Controller) SelectOption(id, option string) (Snapshot, error) {
	sess, ok := c.store.Get(id)
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}

	sess.mu.Lock()
	if sess.discarded {
		sess.mu.Unlock()
		return Snapshot{}, ErrSessionNotFound
	}
	sess.lastActivity = time.Now()

	if sess.finished || sess.evaluation != EvaluationPending {
		snap := c.snapshotLocked(sess)
		sess.mu.Unlock()
		metrics.AnswersTotal.WithLabelValues("ignored").Inc()
		return snap, nil
	}

	q := c.questions[sess.currentIndex]
	if !containsOption(q.Options, option) {
		sess.mu.Unlock()
		return Snapshot{}, ErrUnknownOption
	}

	sess.selectedAnswer = option

	delay := c.delayIncorrect
	result := "incorrect"
	if option == q.CorrectAnswer {
		sess.evaluation = EvaluationCorrect
		sess.score++
		c.requestFunFactsLocked(sess, q.CorrectAnswer)
		delay = c.delayCorrect
		result = "correct"
	} else {
		sess.evaluation = EvaluationIncorrect
	}

	epoch := sess.epoch
	sess.cancelAdvance = c.scheduler.Schedule(delay, func() {
		c.advance(sess, epoch)
	})

	c.log.Debug("option selected",
		zap.String("session_id", sess.ID),
		zap.Int("question", sess.currentIndex),
		zap.String("evaluation", string(sess.evaluation)),
		zap.Int("score", sess.score),
	)

	snap := c.snapshotLocked(sess)
	sess.mu.Unlock()

	metrics.AnswersTotal.WithLabelValues(result).Inc()
	c.notify(sess, snap)
	return snap, nil
}

// Restart rewinds the session to question one with a zero score. Outstanding
// timers and fun-facts requests are superseded by the epoch bump.
func (c *Controller) Restart(id string) (Snapshot, error) {
	sess, ok := c.store.Get(id)
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}

	sess.mu.Lock()
	if sess.discarded {
		sess.mu.Unlock()
		return Snapshot{}, ErrSessionNotFound
	}
	sess.lastActivity = time.Now()

	c.enterQuestionLocked(sess, 0)
	sess.score = 0
	sess.finished = false

	c.log.Debug("session restarted", zap.String("session_id", sess.ID))

	snap := c.snapshotLocked(sess)
	sess.mu.Unlock()

	c.notify(sess, snap)
	return snap, nil
}

// Discard drops the session entirely. The discarded flag lands under the
// session lock before the store removal, so an event that already holds the
// session pointer goes quiet instead of mutating a removed session.
func (c *Controller) Discard(id string) error {
	sess, ok := c.store.Get(id)
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	if sess.discarded {
		sess.mu.Unlock()
		return ErrSessionNotFound
	}
	if sess.cancelAdvance != nil {
		sess.cancelAdvance()
		sess.cancelAdvance = nil
	}
	sess.epoch++
	sess.discarded = true
	sess.mu.Unlock()

	c.store.Delete(id)
	metrics.ActiveSessions.Set(float64(c.store.Len()))
	c.log.Debug("session discarded", zap.String("session_id", id))
	return nil
}

// Count reports the number of live sessions.
func (c *Controller) Count() int {
	return c.store.Len()
}

// SweepIdle evicts sessions with no activity since before ttl ago and
// returns how many were dropped.
func (c *Controller) SweepIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	swept := 0

	for _, sess := range c.store.All() {
		sess.mu.Lock()
		idle := !sess.discarded && sess.lastActivity.Before(cutoff)
		if idle {
			if sess.cancelAdvance != nil {
				sess.cancelAdvance()
				sess.cancelAdvance = nil
			}
			sess.epoch++
			sess.discarded = true
		}
		sess.mu.Unlock()

		if idle {
			c.store.Delete(sess.ID)
			swept++
		}
	}

	if swept > 0 {
		metrics.ActiveSessions.Set(float64(c.store.Len()))
	}
	return swept
}

// advance is the timer target. The epoch check makes a late or duplicate
// fire against a question that is no longer current a no-op.
func (c *Controller) advance(sess *Session, epoch uint64) {
	sess.mu.Lock()
	if sess.discarded || sess.finished || sess.epoch != epoch {
		sess.mu.Unlock()
		return
	}

	if sess.currentIndex+1 < len(c.questions) {
		c.enterQuestionLocked(sess, sess.currentIndex+1)
	} else {
		c.finishLocked(sess)
	}

	c.log.Debug("session advanced",
		zap.String("session_id", sess.ID),
		zap.Int("question", sess.currentIndex),
		zap.Bool("finished", sess.finished),
	)

	snap := c.snapshotLocked(sess)
	sess.mu.Unlock()

	c.notify(sess, snap)
}

// enterQuestionLocked moves the session onto a question: any scheduled
// advance is cancelled, the epoch moves on, and the per-question fields
// reset to pending.
func (c *Controller) enterQuestionLocked(sess *Session, index int) {
	if sess.cancelAdvance != nil {
		sess.cancelAdvance()
		sess.cancelAdvance = nil
	}
	sess.epoch++
	sess.currentIndex = index
	sess.selectedAnswer = ""
	sess.evaluation = EvaluationPending
	sess.supplementalText = ""
	sess.supplementalLoading = false
}

// finishLocked closes out the playthrough. The epoch bump strands any
// fun-facts response still in flight.
func (c *Controller) finishLocked(sess *Session) {
	sess.cancelAdvance = nil
	sess.epoch++
	sess.finished = true
	sess.supplementalText = ""
	sess.supplementalLoading = false
}

// requestFunFactsLocked fires the supplemental-content request for the
// correct answer. The session lock is held by the caller; the provider call
// itself runs on its own goroutine and reports back through applyFunFacts.
func (c *Controller) requestFunFactsLocked(sess *Session, country string) {
	sess.supplementalText = ""
	sess.supplementalLoading = true
	epoch := sess.epoch

	go func() {
		text, err := c.provider.FunFacts(context.Background(), country)
		if err != nil {
			c.log.Warn("fun facts request failed",
				zap.String("session_id", sess.ID),
				zap.String("country", country),
				zap.Error(err),
			)
			text = FallbackFunFacts
		}
		c.applyFunFacts(sess, epoch, text)
	}()
}

// applyFunFacts stores the provider result unless the question it was
// requested for has already been left behind.
func (c *Controller) applyFunFacts(sess *Session, epoch uint64, text string) {
	sess.mu.Lock()
	if sess.discarded || sess.epoch != epoch {
		sess.mu.Unlock()
		c.log.Debug("discarding stale fun facts response",
			zap.String("session_id", sess.ID),
			zap.Uint64("request_epoch", epoch),
		)
		return
	}

	sess.supplementalText = text
	sess.supplementalLoading = false

	snap := c.snapshotLocked(sess)
	sess.mu.Unlock()

	c.notify(sess, snap)
}

func (c *Controller) snapshotLocked(sess *Session) Snapshot {
	snap := Snapshot{
		SessionID:           sess.ID,
		CurrentIndex:        sess.currentIndex,
		QuestionCount:       len(c.questions),
		Score:               sess.score,
		Evaluation:          sess.evaluation,
		SelectedAnswer:      sess.selectedAnswer,
		Finished:            sess.finished,
		SupplementalText:    sess.supplementalText,
		SupplementalLoading: sess.supplementalLoading,
	}
	if !sess.finished {
		q := c.questions[sess.currentIndex]
		snap.Question = &QuestionView{
			Image:   q.ImageURL,
			Options: OptionViews(q, sess.evaluation, sess.selectedAnswer),
		}
	}
	return snap
}

// notify pushes a staged snapshot to the listener. It runs with the session
// lock released, so a slow listener can never stall session operations; a
// session discarded in the meantime pushes nothing.
func (c *Controller) notify(sess *Session, snap Snapshot) {
	if c.listener == nil {
		return
	}

	sess.mu.Lock()
	discarded := sess.discarded
	sess.mu.Unlock()
	if discarded {
		return
	}

	c.listener(snap)
}

func containsOption(options []string, option string) bool {
	for _, o := range options {
		if o == option {
			return true
		}
	}
	return false
}
