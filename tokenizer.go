package asrcore

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Tokenizer maps accumulated token ids to text. It is an external
// collaborator per the core's scope — callers typically supply one backed
// by the artifact directory's vocab.json — but VocabTokenizer below is
// provided as a working default so a session can be exercised without a
// bespoke implementation.
type Tokenizer interface {
	Decode(ids []int64) (string, error)
}

// VocabTokenizer decodes ids via a simple id->piece table loaded from
// vocab.json, joining pieces with no separator (the common convention for
// subword vocabularies that encode leading spaces into the piece itself).
type VocabTokenizer struct {
	pieces map[int64]string
}

// LoadVocabTokenizer reads a vocab.json file shaped as either a JSON array
// of strings (index is the id) or a JSON object of string id to piece.
func LoadVocabTokenizer(path string) (*VocabTokenizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asrcore: reading vocab: %w", err)
	}

	var asArray []string
	if err := json.Unmarshal(data, &asArray); err == nil {
		pieces := make(map[int64]string, len(asArray))
		for i, p := range asArray {
			pieces[int64(i)] = p
		}
		return &VocabTokenizer{pieces: pieces}, nil
	}

	var asObject map[string]string
	if err := json.Unmarshal(data, &asObject); err != nil {
		return nil, fmt.Errorf("asrcore: parsing vocab: %w", err)
	}
	pieces := make(map[int64]string, len(asObject))
	for k, v := range asObject {
		var id int64
		if _, err := fmt.Sscanf(k, "%d", &id); err != nil {
			return nil, fmt.Errorf("asrcore: parsing vocab id %q: %w", k, err)
		}
		pieces[id] = v
	}
	return &VocabTokenizer{pieces: pieces}, nil
}

func (v *VocabTokenizer) Decode(ids []int64) (string, error) {
	var sb strings.Builder
	for _, id := range ids {
		piece, ok := v.pieces[id]
		if !ok {
			return "", fmt.Errorf("asrcore: unknown token id %d", id)
		}
		sb.WriteString(piece)
	}
	return sb.String(), nil
}
