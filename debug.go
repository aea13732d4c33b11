package asrcore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// DebugFrame is one processed chunk's logged mel spectrogram (all MelLength
// frames, [NMels x MelLength] row-major), written as newline-delimited JSON
// by DumpDebugFeatures when the session was constructed with DebugFeatures
// enabled.
type DebugFrame struct {
	ChunkIndex int       `json:"chunk_index"`
	MelLength  int       `json:"mel_length"`
	Mel        []float32 `json:"mel"`
}

// DumpDebugFeatures writes every logged chunk's mel spectrogram to path as
// newline-delimited JSON, one DebugFrame per line, in processing order.
func (s *Session) DumpDebugFeatures(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("asrcore: creating debug dump: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, frame := range s.debugFrames {
		if err := enc.Encode(frame); err != nil {
			return fmt.Errorf("asrcore: writing debug frame: %w", err)
		}
	}
	return w.Flush()
}
