package review

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readnote/readnote/internal/notes"
)

func twoQuestions() []notes.Question {
	return []notes.Question{
		{Question: "What is a goroutine?", Answer: "A lightweight thread", Explanation: "Managed by the runtime"},
		{Question: "What does defer do?", Answer: "Runs at function return", Explanation: "LIFO order"},
	}
}

func TestNewFlow_RejectsEmptyQuestions(t *testing.T) {
	_, err := NewFlow("page-1", nil)
	assert.Error(t, err)
}

func TestFlow_AnswerRevealCycle(t *testing.T) {
	flow, err := NewFlow("page-1", twoQuestions())
	require.NoError(t, err)

	q, i, err := flow.Current()
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	assert.Equal(t, "What is a goroutine?", q.Question)

	reveal, err := flow.SubmitAnswer("a thread")
	require.NoError(t, err)
	assert.Equal(t, 0, reveal.Index)
	assert.Equal(t, 2, reveal.Total)
	assert.Equal(t, "a thread", reveal.UserAnswer)
	assert.Equal(t, "A lightweight thread", reveal.CorrectAnswer)
	assert.Equal(t, Revealing, flow.CurrentPhase())

	// No second answer while the reveal is on screen.
	_, err = flow.SubmitAnswer("again")
	assert.Error(t, err)

	assert.Equal(t, Answering, flow.Advance())
	_, i, err = flow.Current()
	require.NoError(t, err)
	assert.Equal(t, 1, i)
}

func TestFlow_EmptyAnswerReprompts(t *testing.T) {
	flow, err := NewFlow("page-1", twoQuestions())
	require.NoError(t, err)

	_, err = flow.SubmitAnswer("")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
	assert.Equal(t, Answering, flow.CurrentPhase())

	_, i, err := flow.Current()
	require.NoError(t, err)
	assert.Equal(t, 0, i)
}

func TestFlow_AllRevealsBeforeSubmitting(t *testing.T) {
	flow, err := NewFlow("page-1", twoQuestions())
	require.NoError(t, err)

	_, err = flow.SubmitAnswer("first answer")
	require.NoError(t, err)
	require.Equal(t, Answering, flow.Advance())

	_, err = flow.SubmitAnswer("second answer")
	require.NoError(t, err)
	assert.Equal(t, Submitting, flow.Advance())

	answers := flow.Answers()
	require.Len(t, answers, 2)
	assert.Equal(t, "What is a goroutine?", answers[0].Question)
	assert.Equal(t, "first answer", answers[0].UserAnswer)
	assert.Equal(t, "A lightweight thread", answers[0].CorrectAnswer)
	assert.Equal(t, "second answer", answers[1].UserAnswer)

	flow.Finish()
	assert.Equal(t, Done, flow.CurrentPhase())
}

func TestFlow_ConcurrentSubmitsRecordOneAnswer(t *testing.T) {
	flow, err := NewFlow("page-1", twoQuestions())
	require.NoError(t, err)

	answers := []string{"first", "second"}
	errs := make([]error, len(answers))
	var wg sync.WaitGroup
	for i, answer := range answers {
		wg.Add(1)
		go func(i int, answer string) {
			defer wg.Done()
			_, errs[i] = flow.SubmitAnswer(answer)
		}(i, answer)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Len(t, flow.Answers(), 1)
	assert.Equal(t, Revealing, flow.CurrentPhase())
}

func TestFlow_AdvanceOutsideRevealIsNoOp(t *testing.T) {
	flow, err := NewFlow("page-1", twoQuestions())
	require.NoError(t, err)

	assert.Equal(t, Answering, flow.Advance())
}
