package types

import "errors"

// Word is a single token with its own timing, owned by the cue it appears in.
type Word struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

// Cue is one timed utterance from a transcript. Words is populated only by
// formats that carry word-level timing.
type Cue struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Content string  `json:"content"`
	Words   []Word  `json:"words,omitempty"`
}

// Transcript is the ordered cue sequence for one media file.
type Transcript []Cue

// HasWords reports whether the transcript carries word-level timing.
func (t Transcript) HasWords() bool {
	return len(t) > 0 && len(t[0].Words) > 0
}

// AllWords flattens the transcript's word timings in cue order.
func (t Transcript) AllWords() []Word {
	var out []Word
	for _, c := range t {
		out = append(out, c.Words...)
	}
	return out
}

// Segment is a time-bounded reference into a source media file. It is the unit
// search produces and composition adjusts; Score is set only by semantic search.
type Segment struct {
	File    string  `json:"file"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

var (
	// ErrTranscriptNotFound means the locator found no companion transcript.
	// Callers typically react by transcribing, not by aborting.
	ErrTranscriptNotFound = errors.New("no transcript found")

	// ErrInvalidSearchType means the caller asked for an unknown strategy.
	ErrInvalidSearchType = errors.New("invalid search type")

	// ErrSemanticUnavailable means semantic search was requested without an
	// embedding model wired in.
	ErrSemanticUnavailable = errors.New("semantic search requires an embedding model")
)
