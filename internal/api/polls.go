package api

import (
	"context"
	"fmt"
	"net/http"

	"smart-poll/poll-cli/internal/poll"
	"smart-poll/poll-cli/internal/poll/question"
	"smart-poll/poll-cli/internal/stats"
)

var (
	_ poll.API      = (*Client)(nil)
	_ stats.Fetcher = (*Client)(nil)
)

type createPollRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreatePoll creates an empty draft poll.
func (c *Client) CreatePoll(ctx context.Context, name, description string) (poll.Poll, error) {
	var p poll.Poll
	body := createPollRequest{Name: name, Description: description}
	if err := c.do(ctx, http.MethodPost, "/polls", body, &p); err != nil {
		return poll.Poll{}, err
	}
	return p, nil
}

// ListMyPolls returns the caller's polls.
func (c *Client) ListMyPolls(ctx context.Context) ([]poll.Summary, error) {
	var summaries []poll.Summary
	if err := c.do(ctx, http.MethodGet, "/polls", nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// GetPoll fetches one poll with its questions.
func (c *Client) GetPoll(ctx context.Context, id int64) (poll.Poll, error) {
	var p poll.Poll
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/polls/%d", id), nil, &p); err != nil {
		return poll.Poll{}, err
	}
	return p, nil
}

type replaceQuestionsRequest struct {
	Questions []question.Question `json:"questions"`
}

// ReplaceQuestions atomically rewrites the poll's whole question set. The
// payload carries null ids and contiguous positions; the backend matches
// rows by position order.
func (c *Client) ReplaceQuestions(ctx context.Context, id int64, questions []question.Question) (poll.Poll, error) {
	if questions == nil {
		questions = []question.Question{}
	}

	var p poll.Poll
	path := fmt.Sprintf("/polls/%d/questions", id)
	if err := c.do(ctx, http.MethodPut, path, replaceQuestionsRequest{Questions: questions}, &p); err != nil {
		return poll.Poll{}, err
	}
	return p, nil
}

// StartPoll moves a draft poll to ACTIVE and returns the new state.
func (c *Client) StartPoll(ctx context.Context, id int64) (poll.Poll, error) {
	var p poll.Poll
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/polls/%d/start", id), nil, &p); err != nil {
		return poll.Poll{}, err
	}
	return p, nil
}

// FinishPoll moves an active poll to FINISHED and returns the new state.
func (c *Client) FinishPoll(ctx context.Context, id int64) (poll.Poll, error) {
	var p poll.Poll
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/polls/%d/finish", id), nil, &p); err != nil {
		return poll.Poll{}, err
	}
	return p, nil
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateQuestions asks the backend's AI to rewrite the poll's question
// set from a prompt, returning the regenerated poll.
func (c *Client) GenerateQuestions(ctx context.Context, id int64, prompt string) (poll.Poll, error) {
	var p poll.Poll
	path := fmt.Sprintf("/polls/%d/ai-generate", id)
	if err := c.do(ctx, http.MethodPost, path, generateRequest{Prompt: prompt}, &p); err != nil {
		return poll.Poll{}, err
	}
	return p, nil
}

type submissionRequest struct {
	Answers []question.Answer `json:"answers"`
}

// CreateSubmission sends a respondent's answers. Skipped questions are
// simply absent from the answer list.
func (c *Client) CreateSubmission(ctx context.Context, id int64, answers []question.Answer) error {
	if answers == nil {
		answers = []question.Answer{}
	}
	path := fmt.Sprintf("/polls/%d/submissions", id)
	return c.do(ctx, http.MethodPost, path, submissionRequest{Answers: answers}, nil)
}

// GetStats fetches the current statistics snapshot for a poll.
func (c *Client) GetStats(ctx context.Context, pollID int64) (stats.Snapshot, error) {
	var snapshot stats.Snapshot
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/polls/%d/stats", pollID), nil, &snapshot); err != nil {
		return stats.Snapshot{}, err
	}
	return snapshot, nil
}

// SummarizeQuestion queues AI tag summarization for one text question.
// The tags show up in a later stats snapshot.
func (c *Client) SummarizeQuestion(ctx context.Context, pollID, questionID int64) error {
	path := fmt.Sprintf("/polls/%d/questions/%d/summarize", pollID, questionID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}
