// File: internal/voice/controller_test.go
package voice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cswiz2003/voice-ai-assistant/internal/services/speech"
)

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Warn(msg string, keysAndValues ...interface{})  {}

type fakeSession struct {
	results chan speech.Result
	errs    chan error
	once    sync.Once
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		results: make(chan speech.Result, 16),
		errs:    make(chan error, 1),
	}
}

func (s *fakeSession) Results() <-chan speech.Result { return s.results }
func (s *fakeSession) Err() <-chan error             { return s.errs }
func (s *fakeSession) Stop() {
	s.once.Do(func() {
		close(s.results)
		close(s.errs)
	})
}

type fakeRecognizer struct {
	mu       sync.Mutex
	sessions []*fakeSession
	startErr error
}

func (r *fakeRecognizer) Start(ctx context.Context) (speech.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startErr != nil {
		return nil, r.startErr
	}
	session := newFakeSession()
	r.sessions = append(r.sessions, session)
	return session, nil
}

func (r *fakeRecognizer) last() *fakeSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[len(r.sessions)-1]
}

func (r *fakeRecognizer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

type commitRecorder struct {
	mu      sync.Mutex
	commits []string
	errs    []error
}

func (c *commitRecorder) onCommit(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commits = append(c.commits, text)
}

func (c *commitRecorder) onError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

func (c *commitRecorder) committed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.commits))
	copy(out, c.commits)
	return out
}

func newTestController(recognizer *fakeRecognizer, recorder *commitRecorder, timeout time.Duration, busy func() bool) *Controller {
	return NewController(Config{
		SilenceTimeout: timeout,
		Recognizer:     recognizer,
		Busy:           busy,
		OnCommit:       recorder.onCommit,
		OnError:        recorder.onError,
		Logger:         noopLogger{},
	})
}

func waitForCommits(t *testing.T, recorder *commitRecorder, want int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		commits := recorder.committed()
		if len(commits) >= want {
			return commits
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d commits, got %d", want, len(recorder.committed()))
	return nil
}

func TestController_FinalResultCommitsOnce(t *testing.T) {
	recognizer := &fakeRecognizer{}
	recorder := &commitRecorder{}
	c := newTestController(recognizer, recorder, time.Second, nil)

	require.NoError(t, c.Start(context.Background()))
	session := recognizer.last()
	session.results <- speech.Result{Text: "turn on the", IsFinal: false}
	session.results <- speech.Result{Text: "turn on the lights", IsFinal: true}

	commits := waitForCommits(t, recorder, 1)
	assert.Equal(t, []string{"turn on the lights"}, commits)
	assert.Equal(t, StateIdle, c.State())

	// Stop after the commit must not produce a second one.
	c.Stop()
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, recorder.committed(), 1)
}

func TestController_SilenceTimeoutCommitsBuffer(t *testing.T) {
	recognizer := &fakeRecognizer{}
	recorder := &commitRecorder{}
	c := newTestController(recognizer, recorder, 30*time.Millisecond, nil)

	require.NoError(t, c.Start(context.Background()))
	recognizer.last().results <- speech.Result{Text: "what time is it", IsFinal: false}

	commits := waitForCommits(t, recorder, 1)
	assert.Equal(t, []string{"what time is it"}, commits)
	assert.Equal(t, StateIdle, c.State())
}

func TestController_PartialsRearmSilenceTimer(t *testing.T) {
	recognizer := &fakeRecognizer{}
	recorder := &commitRecorder{}
	c := newTestController(recognizer, recorder, 60*time.Millisecond, nil)

	require.NoError(t, c.Start(context.Background()))
	session := recognizer.last()

	// Keep feeding partials faster than the timeout; no commit may happen.
	for i := 0; i < 5; i++ {
		session.results <- speech.Result{Text: "still talking", IsFinal: false}
		time.Sleep(25 * time.Millisecond)
	}
	assert.Empty(t, recorder.committed())
	assert.Equal(t, StateListening, c.State())

	// Then silence commits the last buffer.
	commits := waitForCommits(t, recorder, 1)
	assert.Equal(t, []string{"still talking"}, commits)
}

func TestController_StopWithEmptyBufferDoesNotCommit(t *testing.T) {
	recognizer := &fakeRecognizer{}
	recorder := &commitRecorder{}
	c := newTestController(recognizer, recorder, time.Second, nil)

	require.NoError(t, c.Start(context.Background()))
	c.Stop()

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, recorder.committed())
	assert.Equal(t, StateIdle, c.State())
}

func TestController_InterruptCommitsLikeStop(t *testing.T) {
	recognizer := &fakeRecognizer{}
	recorder := &commitRecorder{}
	c := newTestController(recognizer, recorder, time.Second, nil)

	require.NoError(t, c.Start(context.Background()))
	recognizer.last().results <- speech.Result{Text: "half a thought", IsFinal: false}
	time.Sleep(10 * time.Millisecond)
	c.Interrupt()

	commits := waitForCommits(t, recorder, 1)
	assert.Equal(t, []string{"half a thought"}, commits)
}

func TestController_StartWhileListeningIsNoOp(t *testing.T) {
	recognizer := &fakeRecognizer{}
	recorder := &commitRecorder{}
	c := newTestController(recognizer, recorder, time.Second, nil)

	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, 1, recognizer.count())
}

func TestController_StartWhileBusyIsNoOp(t *testing.T) {
	recognizer := &fakeRecognizer{}
	recorder := &commitRecorder{}
	c := newTestController(recognizer, recorder, time.Second, func() bool { return true })

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, 0, recognizer.count())
	assert.Equal(t, StateIdle, c.State())
}

func TestController_SessionErrorSurfacesAndResets(t *testing.T) {
	recognizer := &fakeRecognizer{}
	recorder := &commitRecorder{}
	c := newTestController(recognizer, recorder, time.Second, nil)

	require.NoError(t, c.Start(context.Background()))
	session := recognizer.last()
	session.results <- speech.Result{Text: "doomed utterance", IsFinal: false}
	session.errs <- errors.New("engine crashed")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		recorder.mu.Lock()
		n := len(recorder.errs)
		recorder.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	require.Len(t, recorder.errs, 1)
	// An errored session never commits, even with a non-empty buffer.
	assert.Empty(t, recorder.commits)
	assert.Equal(t, StateIdle, c.State())
}

func TestController_StartErrorReturnsToIdle(t *testing.T) {
	recognizer := &fakeRecognizer{startErr: errors.New("no microphone")}
	recorder := &commitRecorder{}
	c := newTestController(recognizer, recorder, time.Second, nil)

	require.Error(t, c.Start(context.Background()))
	assert.Equal(t, StateIdle, c.State())

	// A later start with a working recognizer succeeds.
	recognizer.startErr = nil
	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, StateListening, c.State())
}

func TestController_ReusableAcrossSessions(t *testing.T) {
	recognizer := &fakeRecognizer{}
	recorder := &commitRecorder{}
	c := newTestController(recognizer, recorder, time.Second, nil)

	require.NoError(t, c.Start(context.Background()))
	recognizer.last().results <- speech.Result{Text: "first utterance", IsFinal: true}
	waitForCommits(t, recorder, 1)

	require.NoError(t, c.Start(context.Background()))
	recognizer.last().results <- speech.Result{Text: "second utterance", IsFinal: true}

	commits := waitForCommits(t, recorder, 2)
	assert.Equal(t, []string{"first utterance", "second utterance"}, commits)
}
