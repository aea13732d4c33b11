package model

import (
	"fmt"
	"os"
	"path/filepath"
)

// ArtifactPaths names the four files a model directory must contain. Their
// filenames are fixed and are not configurable.
type ArtifactPaths struct {
	Dir                  string
	StreamingEncoderPath string
	DecoderPath          string
	JointDecisionPath    string
	VocabPath            string
}

// ResolveArtifacts checks that dir contains the four expected artifact
// files and returns their resolved paths. It does not load or parse them —
// loading the opaque compiled models is an external collaborator's job; this
// only pins down the directory layout contract so a caller's model loader
// and the session agree on where artifacts live.
func ResolveArtifacts(dir string) (ArtifactPaths, error) {
	paths := ArtifactPaths{
		Dir:                  dir,
		StreamingEncoderPath: filepath.Join(dir, "streaming_encoder"),
		DecoderPath:          filepath.Join(dir, "decoder"),
		JointDecisionPath:    filepath.Join(dir, "joint_decision"),
		VocabPath:            filepath.Join(dir, "vocab.json"),
	}

	for _, p := range []string{paths.StreamingEncoderPath, paths.DecoderPath, paths.JointDecisionPath, paths.VocabPath} {
		if _, err := os.Stat(p); err != nil {
			return ArtifactPaths{}, fmt.Errorf("model: missing artifact %s: %w", p, err)
		}
	}
	return paths, nil
}
