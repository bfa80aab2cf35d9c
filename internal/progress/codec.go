package progress

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/example/medlearn/pkg/models"
)

// WriteSnapshot encodes s as the progress blob:
// {"<deck>": {"<card>": {"interval": 1, "easeFactor": 2.36, "reviews": 1, "lastReview": 1700000000000}}}
func WriteSnapshot(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if s == nil {
		s = Snapshot{}
	}
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a progress blob. Empty input yields an empty snapshot.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var raw map[string]map[string]models.ReviewState
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return Snapshot{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after progress object", ErrCorrupt)
	}

	s := make(Snapshot, len(raw))
	for deckID, cards := range raw {
		for key, state := range cards {
			cardID, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("%w: deck %q has non-numeric card id %q", ErrCorrupt, deckID, key)
			}
			s.Set(deckID, cardID, state)
		}
		if _, ok := s[deckID]; !ok {
			s[deckID] = map[int]models.ReviewState{}
		}
	}
	return s, nil
}
