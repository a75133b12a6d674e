package entity

const (
	StatusOngoing = "ongoing"
	StatusWon     = "won"
	StatusDraw    = "draw"
)

// Status is the outcome of a board. Winner is set only when State is StatusWon.
type Status struct {
	State  string `json:"state"`
	Winner Cell   `json:"winner,omitempty"`
}

func (that Status) IsFinished() bool {
	return that.State == StatusWon || that.State == StatusDraw
}

func (that Status) IsOngoing() bool {
	return that.State == StatusOngoing
}

func (that Status) IsWon() bool {
	return that.State == StatusWon
}

func (that Status) IsDraw() bool {
	return that.State == StatusDraw
}
