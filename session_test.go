package asrcore

import (
	"context"
	"sync"
	"testing"

	"streaming-asr-core/internal/model"
	"streaming-asr-core/internal/model/modeltest"
)

// staticTokenizer decodes every id to a fixed-width placeholder, letting
// tests assert on accumulated id counts without needing a real vocab.
type staticTokenizer struct{}

func (staticTokenizer) Decode(ids []int64) (string, error) {
	out := make([]byte, len(ids))
	for i, id := range ids {
		out[i] = byte('a' + int(id)%26)
	}
	return string(out), nil
}

func newTestSession(t *testing.T, script []int, debounceMS int, partial PartialCallback, onEOU EOUCallback) *Session {
	t.Helper()
	profile := model.ShortProfile
	models := model.Set{
		Encoder:        modeltest.NewEncoder(4, profile.MelFrames),
		Decoder:        modeltest.NewDecoder(0),
		Joint:          &modeltest.ScriptedJoint{Vocab: 10, Script: script},
		EncoderFeatDim: 4,
	}
	cfg := Config{ChunkProfileName: "short", EOUDebounceMS: debounceMS}
	s, err := New("test-session", cfg, models, staticTokenizer{}, partial, onEOU)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func silence(samples int) []float32 {
	return make([]float32, samples)
}

func TestSession_Process_SilenceOnly_NeverEmitsPartial(t *testing.T) {
	var partials []string
	s := newTestSession(t, nil, 1280, func(text string) { partials = append(partials, text) }, nil)

	if _, err := s.Process(context.Background(), silence(model.ShortProfile.ChunkSamples*3)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(partials) != 0 {
		t.Fatalf("expected no partial callbacks on silence, got %v", partials)
	}
}

func TestSession_Process_ChunkCount(t *testing.T) {
	s := newTestSession(t, nil, 1280, nil, nil)
	profile := model.ShortProfile

	// Enough samples for exactly 3 shifts once the first chunk fills.
	total := profile.ChunkSamples + 2*profile.ShiftSamples
	if _, err := s.Process(context.Background(), silence(total)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if s.processedChunk != 3 {
		t.Fatalf("processedChunk = %d, want 3", s.processedChunk)
	}
}

func TestSession_Busy_RejectsConcurrentCalls(t *testing.T) {
	s := newTestSession(t, nil, 1280, nil, nil)

	// Manually hold the semaphore to simulate an in-flight call.
	if !s.sem.TryAcquire(1) {
		t.Fatal("failed to acquire semaphore for test setup")
	}
	defer s.sem.Release(1)

	if _, err := s.Process(context.Background(), silence(10)); err != ErrBusy {
		t.Fatalf("Process while busy = %v, want ErrBusy", err)
	}
}

func TestSession_EOU_FiresAfterDebounce(t *testing.T) {
	vocab := 10
	eouID := vocab + 1
	// Every chunk predicts EOU; blank/EOU only, no tokens.
	script := make([]int, 0, 64)
	for i := 0; i < 64; i++ {
		script = append(script, eouID)
	}

	var eouText string
	var eouFired int
	s := newTestSession(t, script, 160, nil, func(text string) {
		eouFired++
		eouText = text
	})

	total := model.ShortProfile.ChunkSamples + 20*model.ShortProfile.ShiftSamples
	if _, err := s.Process(context.Background(), silence(total)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if eouFired != 1 {
		t.Fatalf("eouFired = %d, want exactly 1", eouFired)
	}
	if eouText != "" {
		t.Fatalf("eouText = %q, want empty (no tokens accumulated)", eouText)
	}
}

func TestSession_InjectSilence_ForcesEOU(t *testing.T) {
	vocab := 10
	eouID := vocab + 1
	script := make([]int, 0, 64)
	for i := 0; i < 64; i++ {
		script = append(script, eouID)
	}

	fired := false
	s := newTestSession(t, script, 160, nil, func(string) { fired = true })

	// One speech-shaped chunk first (still scripted as EOU-predicting here,
	// since the mock joint has no real acoustic sensitivity).
	if _, err := s.Process(context.Background(), silence(model.ShortProfile.ChunkSamples)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := s.InjectSilence(context.Background(), 1.5); err != nil {
		t.Fatalf("InjectSilence: %v", err)
	}
	if !fired {
		t.Fatal("expected EOU callback to fire after injected silence")
	}
}

func TestSession_Reset_ClearsState(t *testing.T) {
	s := newTestSession(t, []int{1, 2, 3}, 1280, nil, nil)
	if _, err := s.Process(context.Background(), silence(model.ShortProfile.ChunkSamples)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if s.processedChunk == 0 {
		t.Fatal("expected at least one processed chunk before reset")
	}

	s.Reset()
	if s.processedChunk != 0 {
		t.Fatalf("processedChunk = %d after Reset, want 0", s.processedChunk)
	}
	if len(s.accumulatedIDs) != 0 {
		t.Fatalf("accumulatedIDs = %v after Reset, want empty", s.accumulatedIDs)
	}
	if s.debouncer.Confirmed() {
		t.Fatal("debouncer still confirmed after Reset")
	}
}

func TestSession_Finish_DecodesAndClearsAccumulated(t *testing.T) {
	s := newTestSession(t, []int{1, 2}, 1280, nil, nil)
	if _, err := s.Process(context.Background(), silence(model.ShortProfile.ChunkSamples)); err != nil {
		t.Fatalf("Process: %v", err)
	}

	text, err := s.Finish(context.Background())
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if text == "" {
		t.Fatal("expected non-empty final transcript given scripted tokens")
	}
	if len(s.accumulatedIDs) != 0 {
		t.Fatalf("accumulatedIDs = %v after Finish, want empty", s.accumulatedIDs)
	}
}

func TestSession_InferenceFailure_PreservesCaches(t *testing.T) {
	profile := model.ShortProfile
	failingEncoder := modeltest.NewEncoder(4, profile.MelFrames)
	failingEncoder.FailAfter = 1

	models := model.Set{
		Encoder: failingEncoder,
		Decoder: modeltest.NewDecoder(0),
		Joint:   modeltest.NewAlwaysBlank(10),
	}
	cfg := Config{ChunkProfileName: "short", EOUDebounceMS: 1280}
	s, err := New("failing-session", cfg, models, staticTokenizer{}, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	before := s.caches
	if _, err := s.Process(context.Background(), silence(profile.ChunkSamples)); err == nil {
		t.Fatal("expected InferenceFailedError")
	} else if _, ok := err.(*InferenceFailedError); !ok {
		t.Fatalf("error = %v (%T), want *InferenceFailedError", err, err)
	}
	if !s.caches.PreCache.SameShape(before.PreCache) || len(s.caches.PreCache.Data) != len(before.PreCache.Data) {
		t.Fatal("caches shape changed after failed inference")
	}
	for i := range before.PreCache.Data {
		if s.caches.PreCache.Data[i] != before.PreCache.Data[i] {
			t.Fatal("cache contents changed after failed inference")
		}
	}
}

func TestSession_DecoderFailure_PreservesCachesAndState(t *testing.T) {
	profile := model.ShortProfile
	failingJoint := &modeltest.ScriptedJoint{Vocab: 10, FailAfter: 1}

	models := model.Set{
		Encoder: modeltest.NewEncoder(4, profile.MelFrames),
		Decoder: modeltest.NewDecoder(0),
		Joint:   failingJoint,
	}
	cfg := Config{ChunkProfileName: "short", EOUDebounceMS: 1280}
	s, err := New("decoder-failing-session", cfg, models, staticTokenizer{}, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	beforeCaches := s.caches
	beforeState := s.decoderState

	if _, err := s.Process(context.Background(), silence(profile.ChunkSamples)); err == nil {
		t.Fatal("expected InferenceFailedError")
	} else if ie, ok := err.(*InferenceFailedError); !ok || ie.Stage != "decoder" {
		t.Fatalf("error = %v (%T), want *InferenceFailedError{Stage: \"decoder\"}", err, err)
	}

	// The encoder succeeded and produced new caches before the decoder
	// failed; those must not have been installed onto the session.
	if !s.caches.PreCache.SameShape(beforeCaches.PreCache) || len(s.caches.PreCache.Data) != len(beforeCaches.PreCache.Data) {
		t.Fatal("cache shape changed after failed decode")
	}
	for i := range beforeCaches.PreCache.Data {
		if s.caches.PreCache.Data[i] != beforeCaches.PreCache.Data[i] {
			t.Fatal("cache contents changed after failed decode")
		}
	}
	if s.decoderState.LastTokenID != beforeState.LastTokenID {
		t.Fatalf("decoderState.LastTokenID = %d, want unchanged %d", s.decoderState.LastTokenID, beforeState.LastTokenID)
	}

	// A retry against the same still-buffered chunk (the failed chunk was
	// never advanced past) must succeed once the joint stops failing.
	failingJoint.FailAfter = 0
	if _, err := s.Process(context.Background(), nil); err != nil {
		t.Fatalf("retry Process: %v", err)
	}
}

func TestSession_SplitInvariance_SameChunkCount(t *testing.T) {
	profile := model.ShortProfile
	total := profile.ChunkSamples + 5*profile.ShiftSamples
	full := silence(total)

	a := newTestSession(t, nil, 1280, nil, nil)
	if _, err := a.Process(context.Background(), full); err != nil {
		t.Fatalf("Process: %v", err)
	}

	b := newTestSession(t, nil, 1280, nil, nil)
	split := total / 2
	if _, err := b.Process(context.Background(), full[:split]); err != nil {
		t.Fatalf("Process first half: %v", err)
	}
	if _, err := b.Process(context.Background(), full[split:]); err != nil {
		t.Fatalf("Process second half: %v", err)
	}

	if a.processedChunk != b.processedChunk {
		t.Fatalf("processedChunk mismatch: whole=%d split=%d", a.processedChunk, b.processedChunk)
	}
}

func TestSession_NotInitialized_RejectsNilModels(t *testing.T) {
	cfg := Config{ChunkProfileName: "short"}
	if _, err := New("x", cfg, model.Set{}, staticTokenizer{}, nil, nil); err != ErrNotInitialized {
		t.Fatalf("New with empty model set = %v, want ErrNotInitialized", err)
	}
}

func TestSession_DumpDebugFeatures(t *testing.T) {
	profile := model.ShortProfile
	models := model.Set{
		Encoder: modeltest.NewEncoder(4, profile.MelFrames),
		Decoder: modeltest.NewDecoder(0),
		Joint:   modeltest.NewAlwaysBlank(10),
	}
	cfg := Config{ChunkProfileName: "short", DebugFeatures: true}
	s, err := New("debug-session", cfg, models, staticTokenizer{}, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Process(context.Background(), silence(profile.ChunkSamples)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(s.debugFrames) != 1 {
		t.Fatalf("debugFrames = %d, want 1", len(s.debugFrames))
	}

	path := t.TempDir() + "/frames.ndjson"
	if err := s.DumpDebugFeatures(path); err != nil {
		t.Fatalf("DumpDebugFeatures: %v", err)
	}
}

func TestSession_ConcurrentCallers_OneWins(t *testing.T) {
	s := newTestSession(t, nil, 1280, nil, nil)
	profile := model.ShortProfile

	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Process(context.Background(), silence(profile.ChunkSamples))
			results[i] = err
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else if err != ErrBusy {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes == 0 {
		t.Fatal("expected at least one caller to succeed")
	}
}
