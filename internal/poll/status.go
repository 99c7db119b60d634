package poll

// Status is the poll lifecycle state. Transitions are one-way:
// DRAFT -> ACTIVE -> FINISHED, confirmed by the backend only.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusActive   Status = "ACTIVE"
	StatusFinished Status = "FINISHED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusFinished:
		return true
	}
	return false
}

// Gate is the set of view and action affordances derived from a poll's
// status. Views never compute these from the status directly.
type Gate struct {
	CanEdit      bool
	CanSubmit    bool
	CanViewStats bool
	CanStart     bool
	CanFinish    bool

	// TakeLabel names the respondent view: a draft poll is only
	// previewable, an active one accepts submissions.
	TakeLabel string
}

func GateFor(s Status) Gate {
	switch s {
	case StatusDraft:
		return Gate{
			CanEdit:   true,
			CanStart:  true,
			TakeLabel: "Preview",
		}
	case StatusActive:
		return Gate{
			CanSubmit:    true,
			CanViewStats: true,
			CanFinish:    true,
			TakeLabel:    "Poll Link",
		}
	case StatusFinished:
		return Gate{
			CanViewStats: true,
			TakeLabel:    "Poll Link",
		}
	}
	return Gate{}
}
