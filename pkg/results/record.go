package results

import (
	"strconv"
	"strings"
)

// GridSize is the number of cells in every decoded grid (10 columns x 20 rows).
const GridSize = 200

// FieldKind tells a caller why a field did or did not produce a value.
type FieldKind int8

const (
	// Present means the record carries the field.
	Present FieldKind = iota
	// Absent means the frame is in range but the record has no such field.
	Absent
	// OutOfRange means the frame index is outside the loaded sequence.
	OutOfRange
)

func (k FieldKind) String() string {
	switch k {
	case Present:
		return "present"
	case Absent:
		return "absent"
	case OutOfRange:
		return "out of range"
	default:
		return "unknown"
	}
}

// Field is a tagged accessor result. Value is only meaningful when Kind is Present.
type Field[T any] struct {
	Kind  FieldKind
	Value T
}

// Ok reports whether the field was present.
func (f Field[T]) Ok() bool {
	return f.Kind == Present
}

func present[T any](v T) Field[T] {
	return Field[T]{Kind: Present, Value: v}
}

func absent[T any]() Field[T] {
	return Field[T]{Kind: Absent}
}

func outOfRange[T any]() Field[T] {
	return Field[T]{Kind: OutOfRange}
}

// fromPtr turns an optional record field into a Field.
func fromPtr[T any](p *T) Field[T] {
	if p == nil {
		return absent[T]()
	}
	return present(*p)
}

// ValueKind identifies the dynamic type held by a Value.
type ValueKind int8

const (
	StringValue ValueKind = iota
	NumberValue
	BoolValue
	ListValue
)

// Value is a loosely typed record attribute.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	List []Value
}

// String renders the value the way the state report prints raw attributes.
func (v Value) String() string {
	switch v.Kind {
	case NumberValue:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case BoolValue:
		return strconv.FormatBool(v.Bool)
	case ListValue:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return v.Str
	}
}

// StringOf wraps s as a Value.
func StringOf(s string) Value { return Value{Kind: StringValue, Str: s} }

// NumberOf wraps n as a Value.
func NumberOf(n float64) Value { return Value{Kind: NumberValue, Num: n} }

// BoolOf wraps b as a Value.
func BoolOf(b bool) Value { return Value{Kind: BoolValue, Bool: b} }

// ListOf wraps items as a Value.
func ListOf(items ...Value) Value { return Value{Kind: ListValue, List: items} }

// EventStatus is the satisfaction state of one named transition event.
type EventStatus struct {
	Name            string `json:"name" yaml:"name"`
	PreconditionMet bool   `json:"preconditionMet" yaml:"preconditionMet"`
	PersistenceMet  bool   `json:"persistenceMet" yaml:"persistenceMet"`
}

// FrameRecord is the recognition output for one video frame. A nil pointer or
// nil slice means the pipeline did not emit the field for this frame.
type FrameRecord struct {
	BinaryBoard *string
	StableBoard *string
	NextGrid    *string

	BoardNoise    *float64
	NextType      *string
	BoardOnlyType *string
	Level         *int

	StateID         *string
	StateCount      *int
	StateFrameCount *int
	EventStatuses   []EventStatus

	Packets []string
	Logs    []string

	// Attributes holds every key the record carried that is not one of the above.
	Attributes map[string]Value
}

// Record field names as they appear in the serialized stream.
const (
	KeyBinaryBoard     = "binaryBoard"
	KeyStableBoard     = "stableBoard"
	KeyNextGrid        = "nextGrid"
	KeyBoardNoise      = "boardNoise"
	KeyNextType        = "nextType"
	KeyBoardOnlyType   = "boardOnlyType"
	KeyLevel           = "level"
	KeyStateID         = "stateID"
	KeyStateCount      = "stateCount"
	KeyStateFrameCount = "stateFrameCount"
	KeyEventStatuses   = "eventStatuses"
	KeyPackets         = "packets"
	KeyPacket          = "packet"
	KeyLogs            = "logs"
)
