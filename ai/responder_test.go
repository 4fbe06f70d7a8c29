package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"datadash/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string, maxOutputLength int) (string, error) {
	args := m.Called(ctx, prompt, maxOutputLength)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) Model() string {
	return "mock-model"
}

func TestAskReturnsGeneratedTextVerbatim(t *testing.T) {
	generator := new(MockGenerator)
	reply := "  Three rows.\n"
	generator.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Question:\nHow many rows?\n")
	}), DefaultMaxOutputLength).Return(reply, nil).Once()

	responder := NewQueryResponder(generator, 0, 0)
	answer, err := responder.Ask(context.Background(), sampleTable(t, 3), "How many rows?")
	require.NoError(t, err)

	assert.Equal(t, reply, answer.Text)
	assert.Equal(t, "How many rows?", answer.Question)
	assert.Equal(t, "mock-model", answer.Model)
	assert.Positive(t, answer.PromptChars)
	generator.AssertExpectations(t)
}

func TestAskPassesConfiguredLimits(t *testing.T) {
	generator := new(MockGenerator)
	generator.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "row-02") && !strings.Contains(prompt, "row-03")
	}), 64).Return("ok", nil).Once()

	_, err := NewQueryResponder(generator, 64, 2).Ask(context.Background(), sampleTable(t, 5), "q")
	require.NoError(t, err)
	generator.AssertExpectations(t)
}

func TestAskRejectsBlankQuestion(t *testing.T) {
	generator := new(MockGenerator)

	_, err := NewQueryResponder(generator, 0, 0).Ask(context.Background(), sampleTable(t, 1), "   ")
	assert.ErrorIs(t, err, core.ErrEmptyQuestion)
	generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAskWrapsGeneratorFailure(t *testing.T) {
	generator := new(MockGenerator)
	generator.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("upstream timeout"))

	_, err := NewQueryResponder(generator, 0, 0).Ask(context.Background(), sampleTable(t, 1), "q")
	require.Error(t, err)
	assert.True(t, core.IsGenerationError(err))
	assert.Contains(t, err.Error(), "upstream timeout")
}

func TestAskCancelledContext(t *testing.T) {
	generator := new(MockGenerator)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewQueryResponder(generator, 0, 0).Ask(ctx, sampleTable(t, 1), "q")
	assert.ErrorIs(t, err, core.ErrGeneration)
	generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}
