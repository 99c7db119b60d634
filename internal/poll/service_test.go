package poll

import (
	"context"
	"errors"
	"testing"

	"smart-poll/poll-cli/internal"
	"smart-poll/poll-cli/internal/poll/question"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	polls       map[int64]Poll
	startCalls  int
	finishCalls int
	submitted   [][]question.Answer
	replaced    []question.Question
}

func newFakeAPI(polls ...Poll) *fakeAPI {
	f := &fakeAPI{polls: make(map[int64]Poll)}
	for _, p := range polls {
		f.polls[p.ID] = p
	}
	return f
}

func (f *fakeAPI) CreatePoll(_ context.Context, name, description string) (Poll, error) {
	p := Poll{ID: int64(len(f.polls) + 1), Name: name, Description: description, Status: StatusDraft}
	f.polls[p.ID] = p
	return p, nil
}

func (f *fakeAPI) ListMyPolls(_ context.Context) ([]Summary, error) {
	out := make([]Summary, 0, len(f.polls))
	for _, p := range f.polls {
		out = append(out, Summary{ID: p.ID, Name: p.Name, Status: p.Status})
	}
	return out, nil
}

func (f *fakeAPI) GetPoll(_ context.Context, id int64) (Poll, error) {
	p, ok := f.polls[id]
	if !ok {
		return Poll{}, internal.ErrNotFound
	}
	return p, nil
}

func (f *fakeAPI) ReplaceQuestions(_ context.Context, id int64, questions []question.Question) (Poll, error) {
	p := f.polls[id]
	f.replaced = questions
	p.Questions = questions
	f.polls[id] = p
	return p, nil
}

func (f *fakeAPI) StartPoll(_ context.Context, id int64) (Poll, error) {
	f.startCalls++
	p := f.polls[id]
	p.Status = StatusActive
	f.polls[id] = p
	return p, nil
}

func (f *fakeAPI) FinishPoll(_ context.Context, id int64) (Poll, error) {
	f.finishCalls++
	p := f.polls[id]
	p.Status = StatusFinished
	f.polls[id] = p
	return p, nil
}

func (f *fakeAPI) GenerateQuestions(_ context.Context, id int64, _ string) (Poll, error) {
	p := f.polls[id]
	generated := question.NewText()
	generated.Name = "Generated question"
	p.Questions = []question.Question{generated}
	f.polls[id] = p
	return p, nil
}

func (f *fakeAPI) CreateSubmission(_ context.Context, _ int64, answers []question.Answer) error {
	f.submitted = append(f.submitted, answers)
	return nil
}

func (f *fakeAPI) SummarizeQuestion(_ context.Context, _, _ int64) error {
	return nil
}

func TestService_Start(t *testing.T) {
	api := newFakeAPI(Poll{ID: 1, Name: "Party feedback", Status: StatusDraft})
	service := NewService(zap.NewNop(), api)

	updated, err := service.Start(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, updated.Status)
	assert.Equal(t, 1, api.startCalls)

	// The cache now holds the server's returned representation.
	cached, ok := service.Cached(1)
	require.True(t, ok)
	assert.Equal(t, StatusActive, cached.Status)

	// A second start is rejected locally, never reaching the backend.
	_, err = service.Start(context.Background(), 1)
	assert.ErrorIs(t, err, internal.ErrInvalidTransition)
	assert.Equal(t, 1, api.startCalls)
}

func TestService_Finish(t *testing.T) {
	api := newFakeAPI(Poll{ID: 1, Status: StatusActive})
	service := NewService(zap.NewNop(), api)

	updated, err := service.Finish(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, updated.Status)

	_, err = service.Finish(context.Background(), 1)
	assert.ErrorIs(t, err, internal.ErrInvalidTransition)
}

func TestService_SaveQuestions(t *testing.T) {
	t.Run("Should save in draft", func(t *testing.T) {
		api := newFakeAPI(Poll{ID: 1, Status: StatusDraft})
		service := NewService(zap.NewNop(), api)

		q := question.NewText()
		q.Name = "How was it?"

		updated, err := service.SaveQuestions(context.Background(), 1, []question.Question{q})
		require.NoError(t, err)
		assert.Len(t, updated.Questions, 1)
	})

	t.Run("Should refuse outside draft", func(t *testing.T) {
		api := newFakeAPI(Poll{ID: 1, Status: StatusActive})
		service := NewService(zap.NewNop(), api)

		_, err := service.SaveQuestions(context.Background(), 1, nil)
		assert.ErrorIs(t, err, internal.ErrPollNotEditable)
		assert.Nil(t, api.replaced)
	})
}

func TestService_Submit(t *testing.T) {
	t.Run("Should submit to active poll", func(t *testing.T) {
		api := newFakeAPI(Poll{ID: 1, Status: StatusActive})
		service := NewService(zap.NewNop(), api)

		answers := []question.Answer{{Kind: question.KindText, QuestionID: 1, Text: "hi"}}
		require.NoError(t, service.Submit(context.Background(), 1, answers))
		require.Len(t, api.submitted, 1)
	})

	t.Run("Should refuse draft and finished polls", func(t *testing.T) {
		for _, status := range []Status{StatusDraft, StatusFinished} {
			api := newFakeAPI(Poll{ID: 1, Status: status})
			service := NewService(zap.NewNop(), api)

			err := service.Submit(context.Background(), 1, nil)
			assert.ErrorIs(t, err, internal.ErrPollNotAccepting, "status %s", status)
		}
	})
}

func TestService_GenerateAI(t *testing.T) {
	api := newFakeAPI(Poll{ID: 1, Status: StatusDraft})
	service := NewService(zap.NewNop(), api)

	manual := question.NewText()
	manual.Name = "Keep me"

	updated, err := service.GenerateAI(context.Background(), 1, []question.Question{manual}, "three questions about parties")
	require.NoError(t, err)

	// Manual edits were saved before generation replaced the set.
	require.Len(t, api.replaced, 1)
	assert.Equal(t, "Keep me", api.replaced[0].Name)
	require.Len(t, updated.Questions, 1)
	assert.Equal(t, "Generated question", updated.Questions[0].Name)
}

func TestService_Get_NotFound(t *testing.T) {
	service := NewService(zap.NewNop(), newFakeAPI())
	_, err := service.Get(context.Background(), 42)
	assert.True(t, errors.Is(err, internal.ErrNotFound))
}
