// Package review drives a quiz session over one page: a batch of generated
// questions, one answer-capture cycle per question with an immediate reveal
// of the correct answer, then one batch analysis call at the end.
package review

import (
	"errors"
	"fmt"
	"sync"

	"github.com/readnote/readnote/internal/notes"
)

// Phase is where the flow stands.
type Phase int

const (
	// Answering means the current question is on screen waiting for input.
	Answering Phase = iota
	// Revealing means the current answer was just shown; Advance moves on.
	Revealing
	// Submitting means every question is answered and revealed; the buffered
	// answers are ready for the analysis call.
	Submitting
	// Done means the flow is over (analysis submitted or abandoned).
	Done
)

// ErrEmptyAnswer re-prompts without advancing the flow.
var ErrEmptyAnswer = errors.New("please enter an answer")

// Reveal is what gets shown right after an answer is accepted.
type Reveal struct {
	Index         int // zero-based question index
	Total         int
	UserAnswer    string
	CorrectAnswer string
	Explanation   string
}

// Flow is one quiz session. Answers are buffered client-side in
// presentation order and only submitted as a batch once the last reveal
// has happened. Methods are safe for concurrent use; a submit that loses
// the race is rejected by the phase check.
type Flow struct {
	mu        sync.Mutex
	pageID    string
	questions []notes.Question
	answers   []notes.Answer
	idx       int
	phase     Phase
}

// NewFlow starts a quiz over the given questions.
func NewFlow(pageID string, questions []notes.Question) (*Flow, error) {
	if len(questions) == 0 {
		return nil, errors.New("no questions to review")
	}
	return &Flow{
		pageID:    pageID,
		questions: questions,
		answers:   make([]notes.Answer, 0, len(questions)),
	}, nil
}

// PageID returns the page under review.
func (f *Flow) PageID() string {
	return f.pageID
}

// CurrentPhase returns where the flow stands.
func (f *Flow) CurrentPhase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// Total returns the number of questions.
func (f *Flow) Total() int {
	return len(f.questions)
}

// Current returns the question waiting for an answer.
func (f *Flow) Current() (notes.Question, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase != Answering {
		return notes.Question{}, 0, fmt.Errorf("no question awaiting an answer")
	}
	return f.questions[f.idx], f.idx, nil
}

// SubmitAnswer records the answer for the current question and moves the
// flow to Revealing. An empty answer returns ErrEmptyAnswer and the flow
// stays put.
func (f *Flow) SubmitAnswer(answer string) (Reveal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase != Answering {
		return Reveal{}, fmt.Errorf("flow is not awaiting an answer")
	}
	if answer == "" {
		return Reveal{}, ErrEmptyAnswer
	}

	q := f.questions[f.idx]
	f.answers = append(f.answers, notes.Answer{
		Question:      q.Question,
		UserAnswer:    answer,
		CorrectAnswer: q.Answer,
		Explanation:   q.Explanation,
	})
	f.phase = Revealing

	return Reveal{
		Index:         f.idx,
		Total:         len(f.questions),
		UserAnswer:    answer,
		CorrectAnswer: q.Answer,
		Explanation:   q.Explanation,
	}, nil
}

// Advance moves past the reveal: to the next question, or to Submitting
// after the last one.
func (f *Flow) Advance() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase != Revealing {
		return f.phase
	}
	f.idx++
	if f.idx < len(f.questions) {
		f.phase = Answering
	} else {
		f.phase = Submitting
	}
	return f.phase
}

// Answers returns the buffered answers for the batch analysis call. Only
// complete once the flow reached Submitting.
func (f *Flow) Answers() []notes.Answer {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notes.Answer, len(f.answers))
	copy(out, f.answers)
	return out
}

// Finish marks the flow done after the analysis call (or when abandoned).
func (f *Flow) Finish() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phase = Done
}
