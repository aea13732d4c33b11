// Package asrcore implements the streaming ASR core: chunk buffering,
// mel featurization, cache-aware encoder invocation, greedy RNN-T decoding,
// and EOU debouncing, chained behind a single-writer Session actor.
package asrcore

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"streaming-asr-core/internal/decoder"
	"streaming-asr-core/internal/eou"
	"streaming-asr-core/internal/mel"
	"streaming-asr-core/internal/model"
	"streaming-asr-core/internal/observability/logging"
	"streaming-asr-core/internal/observability/metrics"
	"streaming-asr-core/internal/observability/tracing"

	audiobuf "streaming-asr-core/internal/audio"
)

// Session is a single long-lived streaming session. It is a single-writer
// cooperative actor: AppendAudio/Process/Finish/InjectSilence
// calls on the same Session are serialized by an internal semaphore, and a
// concurrent call observes ErrBusy rather than interleaving with one
// already in flight.
type Session struct {
	id       string
	profile  model.ChunkProfile
	models   model.Set
	tok      Tokenizer
	recorder *metrics.Recorder

	partialCB PartialCallback
	eouCB     EOUCallback

	sem *semaphore.Weighted

	buffer     *audiobuf.Buffer
	featurizer *mel.Featurizer
	dec        *decoder.Decoder
	debouncer  *eou.Debouncer

	caches         model.EncoderCaches
	decoderState   decoder.State
	accumulatedIDs []int64
	processedChunk int

	debugFeatures bool
	debugFrames   []DebugFrame
}

// New constructs a Session for one model set and one configuration. models
// must be fully populated — Session never loads or validates weights
// itself (model.ResolveArtifacts is the caller's job, before New).
func New(id string, cfg Config, models model.Set, tok Tokenizer, partial PartialCallback, onEOU EOUCallback) (*Session, error) {
	profile, err := cfg.resolvedProfile()
	if err != nil {
		return nil, err
	}
	if models.Encoder == nil || models.Decoder == nil || models.Joint == nil {
		return nil, ErrNotInitialized
	}

	s := &Session{
		id:        id,
		profile:   profile,
		models:    models,
		tok:       tok,
		recorder:  metrics.DefaultRecorder,
		partialCB: partial,
		eouCB:     onEOU,
		sem:       semaphore.NewWeighted(1),

		buffer:     audiobuf.New(profile.ChunkSamples, profile.ShiftSamples),
		featurizer: mel.New(profile.ChunkSamples),
		dec:        decoder.New(models.Decoder, models.Joint),
		debouncer:  eou.New(cfg.resolvedDebounceMS()),

		caches:        model.NewEncoderCaches(profile),
		decoderState:  decoder.NewState(models.Decoder),
		debugFeatures: cfg.DebugFeatures,
	}
	return s, nil
}

// AppendAudio appends samples to the buffer without running the inference
// loop, for callers that want to batch several append calls before the next
// Process.
func (s *Session) AppendAudio(samples []float32) error {
	if !s.sem.TryAcquire(1) {
		s.recorder.RecordBusyRejection()
		return ErrBusy
	}
	defer s.sem.Release(1)

	return s.appendAudio(samples)
}

func (s *Session) appendAudio(samples []float32) error {
	if err := s.buffer.Append(samples); err != nil {
		s.recorder.RecordInvalidAudio("nan_sample")
		return &InvalidAudioError{Reason: "nan sample", Err: err}
	}
	return nil
}

// Process appends samples and runs the inference loop over every full chunk
// now available, invoking callbacks as chunks complete. It always returns
// the empty string on success; transcripts are delivered exclusively via
// callbacks and Finish.
func (s *Session) Process(ctx context.Context, samples []float32) (string, error) {
	if !s.sem.TryAcquire(1) {
		s.recorder.RecordBusyRejection()
		return "", ErrBusy
	}
	defer s.sem.Release(1)

	if err := s.appendAudio(samples); err != nil {
		return "", err
	}
	if err := s.drainChunks(ctx); err != nil {
		return "", err
	}
	return "", nil
}

// drainChunks runs the mel -> encoder -> decoder -> debouncer pipeline over
// every full chunk currently available, advancing the buffer after each.
func (s *Session) drainChunks(ctx context.Context) error {
	for {
		chunk, ok := s.buffer.DrainNext()
		if !ok {
			return nil
		}
		if err := s.processChunk(ctx, chunk); err != nil {
			return err
		}
		s.buffer.Advance()
	}
}

// processChunk runs one chunk through the full pipeline: featurize, encode,
// decode, debounce, and dispatch callbacks in that order. The partial
// callback for this chunk completes before the next chunk's decoder step
// runs, and an EOU firing on this chunk comes after it.
func (s *Session) processChunk(ctx context.Context, chunk []float32) error {
	chunkWallStart := wallClockPlaceholder()

	melBuf, melLength, err := s.featurizer.Compute(chunk)
	if err != nil {
		s.recorder.RecordInvalidAudio("wrong_chunk_length")
		return &InvalidAudioError{Reason: "mel featurization", Err: err}
	}
	if s.debugFeatures {
		s.debugFrames = append(s.debugFrames, DebugFrame{
			ChunkIndex: s.processedChunk,
			MelLength:  melLength,
			Mel:        append([]float32(nil), melBuf...),
		})
	}

	audioSignal := model.Tensor{Shape: []int{1, mel.NMels, melLength}, Data: melBuf}

	encodeCtx, encSpan := tracing.StartEncoderSpan(ctx)
	encoded, newCaches, err := s.models.Encoder.Forward(encodeCtx, audioSignal, int32(melLength), s.caches)
	encSpan.End()
	if err != nil {
		s.recorder.RecordInferenceFailure("encoder")
		return &InferenceFailedError{Stage: "encoder", Err: err}
	}

	decodeCtx, decSpan := tracing.StartDecoderSpan(ctx)
	result, err := s.dec.DecodeChunk(decodeCtx, encoded, s.profile.ValidOutLen, s.decoderState)
	decSpan.End()
	if err != nil {
		s.recorder.RecordInferenceFailure("decoder")
		return &InferenceFailedError{Stage: "decoder", Err: err}
	}
	// Only install the new caches and decoder state once both the encoder
	// and decoder have succeeded for this chunk, so a caller retrying
	// Process/Finish against the same still-buffered chunk after a decoder
	// failure re-runs the encoder against the pre-chunk caches rather than
	// caches already advanced past it.
	s.caches = newCaches
	s.decoderState = result.State
	if len(result.IDs) > 0 {
		s.accumulatedIDs = append(s.accumulatedIDs, result.IDs...)
		s.recorder.RecordTokensEmitted(len(result.IDs))
	}

	s.processedChunk++
	confirmedNow := s.debouncer.Update(int64(s.profile.ShiftSamples), result.EOUPredicted, len(result.IDs) > 0)

	s.recorder.RecordChunkProcessed(float64(s.profile.ShiftSamples)/float64(model.SampleRate), wallClockSince(chunkWallStart))

	if len(result.IDs) > 0 && s.partialCB != nil {
		text, err := s.decodeAccumulated()
		if err != nil {
			return err
		}
		s.partialCB(text)
	}

	if confirmedNow {
		s.recorder.RecordEOUConfirmed()
		if s.eouCB != nil {
			text, err := s.decodeAccumulated()
			if err != nil {
				return err
			}
			s.eouCB(text)
		}
	}

	return nil
}

// Finish flushes any remaining buffered audio as a single padded chunk,
// decodes the full accumulated id sequence to text, clears it, and returns
// the result. Model caches are left untouched so a later Process on the
// same, non-reset session may still reuse them.
func (s *Session) Finish(ctx context.Context) (string, error) {
	if !s.sem.TryAcquire(1) {
		s.recorder.RecordBusyRejection()
		return "", ErrBusy
	}
	defer s.sem.Release(1)

	if chunk, ok := s.buffer.FlushPadded(); ok {
		if err := s.processChunk(ctx, chunk); err != nil {
			return "", err
		}
	}

	text, err := s.decodeAccumulated()
	if err != nil {
		return "", err
	}
	s.accumulatedIDs = nil
	return text, nil
}

// Reset clears the buffer, accumulated ids, debug frames, EOU state, and
// re-zeroes every cache tensor and decoder state tensor. processed_chunks
// returns to zero.
func (s *Session) Reset() {
	s.buffer.Reset()
	s.accumulatedIDs = nil
	s.debugFrames = nil
	s.debouncer.Reset()
	s.caches = model.NewEncoderCaches(s.profile)
	s.decoderState = decoder.NewState(s.models.Decoder)
	s.processedChunk = 0
}

// InjectSilence appends round(seconds * 16000) zero samples and runs them
// through the normal inference loop, used to force a decaying EOU decision
// without fresh audio.
func (s *Session) InjectSilence(ctx context.Context, seconds float64) error {
	n := int(math.Round(seconds * float64(model.SampleRate)))
	zeros := make([]float32, n)
	_, err := s.Process(ctx, zeros)
	return err
}

func (s *Session) decodeAccumulated() (string, error) {
	text, err := s.tok.Decode(s.accumulatedIDs)
	if err != nil {
		return "", &TokenizerFailedError{Err: err}
	}
	return text, nil
}

// wallClockPlaceholder and wallClockSince isolate the one legitimate use of
// real wall-clock time in this package (RTFx reporting) behind named
// helpers, so it reads clearly as instrumentation rather than control flow.
func wallClockPlaceholder() time.Time { return time.Now() }
func wallClockSince(start time.Time) float64 {
	return time.Since(start).Seconds()
}

// SessionLogger returns a logger tagged with this session's id, for callers
// that want to attach their own log lines to the same context the core
// uses internally.
func (s *Session) SessionLogger() zerolog.Logger {
	return logging.WithSession(s.id)
}
