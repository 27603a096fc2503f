package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_IdleSubmitNotConsumed(t *testing.T) {
	s := NewSession()

	out := s.Submit("hello")
	assert.False(t, out.Consumed)
}

func TestSession_SingleStepFlow(t *testing.T) {
	s := NewSession()

	var got []string
	first, err := s.Begin([]Step{
		{Prompt: "Enter the section name:", Validate: NonEmpty("name")},
	}, func(values []string) { got = values })
	require.NoError(t, err)
	assert.Equal(t, "Enter the section name:", first.Prompt)
	assert.True(t, s.Active())

	out := s.Submit("  My Section  ")
	assert.True(t, out.Consumed)
	assert.True(t, out.Done)
	assert.Equal(t, "My Section", out.Value)
	assert.Equal(t, []string{"My Section"}, got)
	assert.False(t, s.Active())
}

func TestSession_RepromptDoesNotAdvance(t *testing.T) {
	s := NewSession()

	fired := false
	_, err := s.Begin([]Step{
		{Prompt: "Enter the page title:", Validate: NonEmpty("title")},
		{Prompt: "Enter the page content:", Validate: NonEmpty("content")},
	}, func([]string) { fired = true })
	require.NoError(t, err)

	out := s.Submit("   ")
	assert.True(t, out.Consumed)
	assert.Equal(t, "title cannot be empty, please enter it again:", out.Reprompt)
	assert.Nil(t, out.Next)
	assert.False(t, fired)

	// Still on the first step.
	step, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Enter the page title:", step.Prompt)
}

func TestSession_AdvancesExactlyOncePerSubmit(t *testing.T) {
	s := NewSession()

	var got []string
	_, err := s.Begin([]Step{
		{Prompt: "Enter the page title:", Validate: NonEmpty("title")},
		{Prompt: "Enter the page content:", Validate: NonEmpty("content")},
	}, func(values []string) { got = values })
	require.NoError(t, err)

	out := s.Submit("Title")
	require.True(t, out.Consumed)
	require.NotNil(t, out.Next)
	assert.Equal(t, "Enter the page content:", out.Next.Prompt)
	assert.False(t, out.Done)

	out = s.Submit("Content")
	assert.True(t, out.Done)
	assert.Equal(t, []string{"Title", "Content"}, got)
}

func TestSession_BeginWhileActiveFails(t *testing.T) {
	s := NewSession()

	_, err := s.Begin([]Step{{Prompt: "a", Validate: NonEmpty("a")}}, nil)
	require.NoError(t, err)

	_, err = s.Begin([]Step{{Prompt: "b", Validate: NonEmpty("b")}}, nil)
	assert.ErrorIs(t, err, ErrFlowActive)
}

func TestSession_CancelDropsEverything(t *testing.T) {
	s := NewSession()

	fired := false
	_, err := s.Begin([]Step{
		{Prompt: "Enter the page title:", Validate: NonEmpty("title")},
		{Prompt: "Enter the page content:", Validate: NonEmpty("content")},
	}, func([]string) { fired = true })
	require.NoError(t, err)

	_ = s.Submit("Title")
	require.True(t, s.Cancel())

	assert.False(t, s.Active())
	assert.False(t, fired)
	assert.False(t, s.Submit("anything").Consumed)
	assert.False(t, s.Cancel())
}

func TestSession_ContinuationMayStartNewFlow(t *testing.T) {
	s := NewSession()

	_, err := s.Begin([]Step{
		{Prompt: "How many questions?", Validate: PositiveInt("question count")},
	}, func([]string) {
		// The done continuation runs after the session is Idle again.
		_, err := s.Begin([]Step{{Prompt: "next", Validate: NonEmpty("next")}}, nil)
		assert.NoError(t, err)
	})
	require.NoError(t, err)

	out := s.Submit("5")
	assert.True(t, out.Done)
	assert.True(t, s.Active())
}

func TestPositiveInt(t *testing.T) {
	validate := PositiveInt("question count")

	for _, bad := range []string{"", "abc", "0", "-3", "2.5"} {
		_, err := validate(bad)
		assert.Error(t, err, "input %q", bad)
	}

	v, err := validate(" 7 ")
	require.NoError(t, err)
	assert.Equal(t, "7", v)
}
