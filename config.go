package asrcore

import (
	"fmt"

	"streaming-asr-core/internal/model"
)

// Config selects a session's immutable chunk profile and its configurable
// runtime behavior. Profile is resolved once at construction; nothing here
// changes after New.
type Config struct {
	// ChunkProfileName is one of "short", "medium", "long"; default "short"
	// (callers using internal/config.FromEnv get "medium" as the
	// operational default).
	ChunkProfileName string
	// EOUDebounceMS is the silence threshold required before the EOU
	// callback fires. Default 1280.
	EOUDebounceMS int
	// DebugFeatures, when true, appends every mel frame to an in-memory log
	// retrievable via DumpDebugFeatures.
	DebugFeatures bool
}

// resolvedProfile returns the ChunkProfile named by c, defaulting to short
// when unset.
func (c Config) resolvedProfile() (model.ChunkProfile, error) {
	name := c.ChunkProfileName
	if name == "" {
		name = "short"
	}
	profile, err := model.ProfileByName(name)
	if err != nil {
		return model.ChunkProfile{}, fmt.Errorf("asrcore: %w", err)
	}
	return profile, nil
}

func (c Config) resolvedDebounceMS() int {
	if c.EOUDebounceMS <= 0 {
		return 1280
	}
	return c.EOUDebounceMS
}
