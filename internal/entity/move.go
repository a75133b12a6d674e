package entity

// MoveRecord is one applied move as stored in the move log.
type MoveRecord struct {
	Cell int  `json:"move"`
	Mark Cell `json:"player"`
}

// IsValid reports whether the record could have come from a real game.
func (that MoveRecord) IsValid() bool {
	if that.Cell < 0 || that.Cell >= BoardSize {
		return false
	}

	return that.Mark == PlayerX || that.Mark == PlayerO
}
