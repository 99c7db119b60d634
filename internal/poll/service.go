package poll

import (
	"context"
	"sync"

	"smart-poll/poll-cli/internal"
	"smart-poll/poll-cli/internal/poll/question"

	"go.uber.org/zap"
)

// API is the slice of the backend client this service needs.
type API interface {
	CreatePoll(ctx context.Context, name, description string) (Poll, error)
	ListMyPolls(ctx context.Context) ([]Summary, error)
	GetPoll(ctx context.Context, id int64) (Poll, error)
	ReplaceQuestions(ctx context.Context, id int64, questions []question.Question) (Poll, error)
	StartPoll(ctx context.Context, id int64) (Poll, error)
	FinishPoll(ctx context.Context, id int64) (Poll, error)
	GenerateQuestions(ctx context.Context, id int64, prompt string) (Poll, error)
	CreateSubmission(ctx context.Context, id int64, answers []question.Answer) error
	SummarizeQuestion(ctx context.Context, pollID, questionID int64) error
}

// Service owns poll operations and the per-poll cache. Each poll is an
// independently cached unit: mutating calls replace the cached entry with
// the representation the backend returned instead of re-fetching.
type Service struct {
	logger *zap.Logger
	api    API

	mu    sync.Mutex
	cache map[int64]Poll
}

func NewService(logger *zap.Logger, api API) *Service {
	return &Service{
		logger: logger,
		api:    api,
		cache:  make(map[int64]Poll),
	}
}

func (s *Service) store(p Poll) {
	s.mu.Lock()
	s.cache[p.ID] = p
	s.mu.Unlock()
}

// Cached returns the locally cached poll state, if any.
func (s *Service) Cached(id int64) (Poll, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.cache[id]
	return p, ok
}

func (s *Service) Create(ctx context.Context, name, description string) (Poll, error) {
	p, err := s.api.CreatePoll(ctx, name, description)
	if err != nil {
		return Poll{}, err
	}

	s.logger.Info("created poll", zap.Int64("poll_id", p.ID), zap.String("name", p.Name))
	s.store(p)
	return p, nil
}

func (s *Service) ListMine(ctx context.Context) ([]Summary, error) {
	return s.api.ListMyPolls(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Poll, error) {
	p, err := s.api.GetPoll(ctx, id)
	if err != nil {
		return Poll{}, err
	}

	s.store(p)
	return p, nil
}

// SaveQuestions replaces the poll's whole question set. The backend
// treats this as an atomic bulk rewrite, so the payload must already be
// renumbered with ids stripped (editor.Form.PrepareForSave does that).
func (s *Service) SaveQuestions(ctx context.Context, id int64, questions []question.Question) (Poll, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Poll{}, err
	}
	if !GateFor(current.Status).CanEdit {
		return Poll{}, internal.ErrPollNotEditable
	}

	p, err := s.api.ReplaceQuestions(ctx, id, questions)
	if err != nil {
		return Poll{}, err
	}

	s.logger.Info("saved questions", zap.Int64("poll_id", id), zap.Int("count", len(questions)))
	s.store(p)
	return p, nil
}

// Start moves a draft poll to ACTIVE. The cached state only changes once
// the backend confirms, and then it is the server's returned
// representation that replaces it.
func (s *Service) Start(ctx context.Context, id int64) (Poll, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Poll{}, err
	}
	if !GateFor(current.Status).CanStart {
		return Poll{}, internal.ErrInvalidTransition
	}

	p, err := s.api.StartPoll(ctx, id)
	if err != nil {
		return Poll{}, err
	}

	s.logger.Info("started poll", zap.Int64("poll_id", id))
	s.store(p)
	return p, nil
}

// Finish moves an active poll to its terminal FINISHED state.
func (s *Service) Finish(ctx context.Context, id int64) (Poll, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Poll{}, err
	}
	if !GateFor(current.Status).CanFinish {
		return Poll{}, internal.ErrInvalidTransition
	}

	p, err := s.api.FinishPoll(ctx, id)
	if err != nil {
		return Poll{}, err
	}

	s.logger.Info("finished poll", zap.Int64("poll_id", id))
	s.store(p)
	return p, nil
}

// GenerateAI saves the current form first, then asks the backend to
// regenerate the question set from the prompt. The save-first step keeps
// manual edits from being lost when the regenerated poll comes back.
func (s *Service) GenerateAI(ctx context.Context, id int64, current []question.Question, prompt string) (Poll, error) {
	if _, err := s.SaveQuestions(ctx, id, current); err != nil {
		return Poll{}, err
	}

	p, err := s.api.GenerateQuestions(ctx, id, prompt)
	if err != nil {
		return Poll{}, err
	}

	s.logger.Info("generated questions", zap.Int64("poll_id", id), zap.Int("count", len(p.Questions)))
	s.store(p)
	return p, nil
}

// Submit sends a respondent's answers. Submissions are accepted only
// while the poll is ACTIVE.
func (s *Service) Submit(ctx context.Context, id int64, answers []question.Answer) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !GateFor(current.Status).CanSubmit {
		return internal.ErrPollNotAccepting
	}

	if err := s.api.CreateSubmission(ctx, id, answers); err != nil {
		return err
	}

	s.logger.Info("submitted answers", zap.Int64("poll_id", id), zap.Int("count", len(answers)))
	return nil
}

// Summarize triggers AI tag summarization for one text question. The
// result is asynchronous and shows up in a later stats fetch.
func (s *Service) Summarize(ctx context.Context, pollID, questionID int64) error {
	return s.api.SummarizeQuestion(ctx, pollID, questionID)
}
