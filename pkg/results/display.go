package results

import "strconv"

// Display strings shared by the viewer, the report server and cmd/report.
const (
	NotFetched        = "(Not fetched)"
	PieceUndetermined = "Piece undetermined"
	LevelUndetermined = "Level undetermined"

	// UndeterminedPiece is the in-band piece identifier for "not determined".
	UndeterminedPiece = "E"
	// UndeterminedLevel is the in-band level for "not determined".
	UndeterminedLevel = -1
)

// The text accessors below keep the conventions each field historically had:
// out-of-range frames give "" (or "-1" for noise), absent fields give
// NotFetched, and in-band sentinels give an explanatory message. A missing
// nextType is NotFetched like every other field; it is never an error.

// BoardNoiseText formats the board noise for display.
func (s *Store) BoardNoiseText(frame int) string {
	f := s.BoardNoise(frame)
	switch f.Kind {
	case OutOfRange:
		return "-1"
	case Absent:
		return NotFetched
	default:
		return strconv.FormatFloat(f.Value, 'f', -1, 64)
	}
}

// NextTypeText formats the next-piece identifier for display.
func (s *Store) NextTypeText(frame int) string {
	return pieceText(s.NextType(frame))
}

// BoardOnlyTypeText formats the board-only piece identifier for display.
func (s *Store) BoardOnlyTypeText(frame int) string {
	return pieceText(s.BoardOnlyType(frame))
}

func pieceText(f Field[string]) string {
	switch f.Kind {
	case OutOfRange:
		return ""
	case Absent:
		return NotFetched
	}
	if f.Value == UndeterminedPiece {
		return PieceUndetermined
	}
	return f.Value
}

// LevelText formats the detected level for display.
func (s *Store) LevelText(frame int) string {
	f := s.Level(frame)
	switch f.Kind {
	case OutOfRange:
		return ""
	case Absent:
		return NotFetched
	}
	if f.Value == UndeterminedLevel {
		return LevelUndetermined
	}
	return strconv.Itoa(f.Value)
}

// LevelValue returns the raw level, or -1 when the frame is out of range or the
// record has no level.
func (s *Store) LevelValue(frame int) int {
	f := s.Level(frame)
	if !f.Ok() {
		return UndeterminedLevel
	}
	return f.Value
}

// AttributeText formats any named attribute for display.
func (s *Store) AttributeText(frame int, name string) string {
	f := s.Attribute(frame, name)
	switch f.Kind {
	case OutOfRange:
		return ""
	case Absent:
		return NotFetched
	default:
		return f.Value.String()
	}
}
