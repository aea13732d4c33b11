package asrcore

// PartialCallback is invoked after any chunk that emitted at least one
// token, carrying the full accumulated transcript to date (not a delta).
type PartialCallback func(text string)

// EOUCallback is invoked exactly once per session, after the debouncer
// confirms an utterance boundary, carrying the transcript decoded at the
// moment of confirmation.
type EOUCallback func(text string)
