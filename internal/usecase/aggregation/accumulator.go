package usecase_aggregation

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
)

type accumulator interface {
	record(r model.Response) error
	total() int
	fill(s *model.Snapshot)
	// Adopt an edited slide definition keeping whatever still applies.
	reshape(slide model.Slide)
}

func newAccumulator(slide model.Slide, limits Limits) (accumulator, error) {
	switch slide.Type {
	case model.SlideTypePoll, model.SlideTypeQuiz:
		t := &tally{counts: make(map[uuid.UUID]int)}
		t.reshape(slide)
		return t, nil
	case model.SlideTypeWordCloud:
		return &wordCloud{
			words:  make(map[string]int),
			maxLen: limits.MaxWordLength,
		}, nil
	case model.SlideTypeFreeform:
		return &feed{maxLen: limits.MaxTextLength}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedSlideType, slide.Type)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.RejectMalformedPayload, fmt.Sprintf(format, args...))
}

// tally backs polls and quizzes.
type tally struct {
	options       []uuid.UUID
	counts        map[uuid.UUID]int
	allowMultiple bool

	quiz        bool
	correct     map[uuid.UUID]struct{}
	correctHits int

	submissions int
}

func (t *tally) record(r model.Response) error {
	vote, ok := r.Payload.(model.Vote)
	if !ok {
		return malformed("expected an option vote, got %T", r.Payload)
	}
	if len(vote.OptionIDs) == 0 {
		return malformed("no option selected")
	}
	if !t.allowMultiple && len(vote.OptionIDs) > 1 {
		return malformed("slide accepts a single option")
	}

	selected := make(map[uuid.UUID]struct{}, len(vote.OptionIDs))
	for _, id := range vote.OptionIDs {
		if _, known := t.counts[id]; !known {
			return malformed("unknown option %s", id)
		}
		if _, dup := selected[id]; dup {
			return malformed("option %s selected twice", id)
		}
		selected[id] = struct{}{}
	}

	for id := range selected {
		t.counts[id]++
	}
	t.submissions++
	if t.quiz && len(t.correct) > 0 && maps.Equal(selected, t.correct) {
		t.correctHits++
	}
	return nil
}

func (t *tally) total() int {
	return t.submissions
}

func (t *tally) fill(s *model.Snapshot) {
	s.Tally = make(map[uuid.UUID]int, len(t.options))
	for _, id := range t.options {
		s.Tally[id] = t.counts[id]
	}
	if t.quiz {
		s.Correct = t.correctHits
	}
}

func (t *tally) reshape(slide model.Slide) {
	counts := make(map[uuid.UUID]int, len(slide.Options))
	options := make([]uuid.UUID, 0, len(slide.Options))
	correct := make(map[uuid.UUID]struct{})

	for _, o := range slide.Options {
		options = append(options, o.ID)
		counts[o.ID] = t.counts[o.ID]
		if o.IsCorrect {
			correct[o.ID] = struct{}{}
		}
	}

	t.options = options
	t.counts = counts
	t.allowMultiple = slide.AllowMultiple
	t.quiz = slide.Type == model.SlideTypeQuiz
	t.correct = correct
}

type wordCloud struct {
	words       map[string]int
	maxLen      int
	submissions int
}

func (w *wordCloud) record(r model.Response) error {
	word, ok := r.Payload.(model.Word)
	if !ok {
		return malformed("expected a word, got %T", r.Payload)
	}
	normalized := NormalizeWord(word.Text, w.maxLen)
	if normalized == "" {
		return malformed("empty word")
	}

	w.words[normalized]++
	w.submissions++
	return nil
}

func (w *wordCloud) total() int {
	return w.submissions
}

func (w *wordCloud) fill(s *model.Snapshot) {
	s.Words = maps.Clone(w.words)
}

func (w *wordCloud) reshape(model.Slide) {}

type feed struct {
	entries []model.FreeformEntry
	maxLen  int
}

func (f *feed) record(r model.Response) error {
	text, ok := r.Payload.(model.Text)
	if !ok {
		return malformed("expected text, got %T", r.Payload)
	}
	body := strings.TrimSpace(text.Body)
	if body == "" {
		return malformed("empty text")
	}
	if f.maxLen > 0 && utf8.RuneCountInString(body) > f.maxLen {
		return malformed("text longer than %d characters", f.maxLen)
	}

	f.entries = append(f.entries, model.FreeformEntry{
		ID:        r.ID,
		Text:      body,
		CreatedAt: r.CreatedAt,
	})
	return nil
}

func (f *feed) total() int {
	return len(f.entries)
}

func (f *feed) fill(s *model.Snapshot) {
	s.Responses = slices.Clone(f.entries)
	if s.Responses == nil {
		s.Responses = []model.FreeformEntry{}
	}
}

func (f *feed) reshape(model.Slide) {}
