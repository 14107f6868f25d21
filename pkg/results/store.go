package results

// Store is the immutable, frame-indexed sequence of records for one test case.
// Record i belongs to video frame i. Nothing mutates a Store after NewStore, so
// it is safe to share between the playback loop and the report server.
type Store struct {
	records []FrameRecord
}

// NewStore copies records into a new store.
func NewStore(records []FrameRecord) *Store {
	cp := make([]FrameRecord, len(records))
	copy(cp, records)
	return &Store{records: cp}
}

// NumFrames returns the fixed sequence length N.
func (s *Store) NumFrames() int {
	return len(s.records)
}

func (s *Store) inRange(frame int) bool {
	return frame >= 0 && frame < len(s.records)
}

// gridCell returns the character at mino of the selected bit string, or 0 when
// the frame, mino or field does not exist.
func (s *Store) gridCell(frame, mino int, pick func(*FrameRecord) *string) byte {
	if !s.inRange(frame) || mino < 0 || mino >= GridSize {
		return 0
	}
	bits := pick(&s.records[frame])
	if bits == nil || mino >= len(*bits) {
		return 0
	}
	return (*bits)[mino]
}

// Mino reports whether the board cell is occupied: the character is exactly '1'.
func (s *Store) Mino(frame, mino int) bool {
	return s.gridCell(frame, mino, func(r *FrameRecord) *string { return r.BinaryBoard }) == '1'
}

// StableMino reports whether the stable board cell is occupied. Any marker other
// than '0' counts, so colour-coded stable boards decode as occupied.
func (s *Store) StableMino(frame, mino int) bool {
	c := s.gridCell(frame, mino, func(r *FrameRecord) *string { return r.StableBoard })
	return c != 0 && c != '0'
}

// NextMino reports whether the next-piece preview cell is occupied ('1' only).
func (s *Store) NextMino(frame, mino int) bool {
	return s.gridCell(frame, mino, func(r *FrameRecord) *string { return r.NextGrid }) == '1'
}

// BoardNoise returns the board decoding consistency score.
func (s *Store) BoardNoise(frame int) Field[float64] {
	if !s.inRange(frame) {
		return outOfRange[float64]()
	}
	return fromPtr(s.records[frame].BoardNoise)
}

// NextType returns the next-piece identifier; "E" means undetermined.
func (s *Store) NextType(frame int) Field[string] {
	if !s.inRange(frame) {
		return outOfRange[string]()
	}
	return fromPtr(s.records[frame].NextType)
}

// BoardOnlyType returns the piece identified from the board alone.
func (s *Store) BoardOnlyType(frame int) Field[string] {
	if !s.inRange(frame) {
		return outOfRange[string]()
	}
	return fromPtr(s.records[frame].BoardOnlyType)
}

// Level returns the detected level; -1 means undetermined.
func (s *Store) Level(frame int) Field[int] {
	if !s.inRange(frame) {
		return outOfRange[int]()
	}
	return fromPtr(s.records[frame].Level)
}

// StateID returns the pipeline state active at frame.
func (s *Store) StateID(frame int) Field[string] {
	if !s.inRange(frame) {
		return outOfRange[string]()
	}
	return fromPtr(s.records[frame].StateID)
}

// StateCount returns the authored state activation count.
func (s *Store) StateCount(frame int) Field[int] {
	if !s.inRange(frame) {
		return outOfRange[int]()
	}
	return fromPtr(s.records[frame].StateCount)
}

// StateFrameCount returns the authored state run length.
func (s *Store) StateFrameCount(frame int) Field[int] {
	if !s.inRange(frame) {
		return outOfRange[int]()
	}
	return fromPtr(s.records[frame].StateFrameCount)
}

// EventStatuses returns the event statuses in declaration order. The result is
// never nil.
func (s *Store) EventStatuses(frame int) []EventStatus {
	if !s.inRange(frame) || len(s.records[frame].EventStatuses) == 0 {
		return []EventStatus{}
	}
	return append([]EventStatus(nil), s.records[frame].EventStatuses...)
}

// Packets returns the packet names emitted at frame. The result is never nil.
func (s *Store) Packets(frame int) []string {
	if !s.inRange(frame) {
		return []string{}
	}
	return cloneStrings(s.records[frame].Packets)
}

// Logs returns the text logs emitted at frame. The result is never nil.
func (s *Store) Logs(frame int) []string {
	if !s.inRange(frame) {
		return []string{}
	}
	return cloneStrings(s.records[frame].Logs)
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	return append([]string(nil), in...)
}

// Attribute looks up any record field by its serialized name. Known fields are
// resolved through their typed accessors; anything else comes from Attributes.
func (s *Store) Attribute(frame int, name string) Field[Value] {
	if !s.inRange(frame) {
		return outOfRange[Value]()
	}
	r := &s.records[frame]
	if get, ok := knownFields[name]; ok {
		if v, ok := get(r); ok {
			return present(v)
		}
		return absent[Value]()
	}
	if v, ok := r.Attributes[name]; ok {
		return present(v)
	}
	return absent[Value]()
}

var knownFields = map[string]func(*FrameRecord) (Value, bool){
	KeyBinaryBoard:     func(r *FrameRecord) (Value, bool) { return strField(r.BinaryBoard) },
	KeyStableBoard:     func(r *FrameRecord) (Value, bool) { return strField(r.StableBoard) },
	KeyNextGrid:        func(r *FrameRecord) (Value, bool) { return strField(r.NextGrid) },
	KeyNextType:        func(r *FrameRecord) (Value, bool) { return strField(r.NextType) },
	KeyBoardOnlyType:   func(r *FrameRecord) (Value, bool) { return strField(r.BoardOnlyType) },
	KeyStateID:         func(r *FrameRecord) (Value, bool) { return strField(r.StateID) },
	KeyBoardNoise:      func(r *FrameRecord) (Value, bool) { return numField(r.BoardNoise) },
	KeyLevel:           func(r *FrameRecord) (Value, bool) { return intField(r.Level) },
	KeyStateCount:      func(r *FrameRecord) (Value, bool) { return intField(r.StateCount) },
	KeyStateFrameCount: func(r *FrameRecord) (Value, bool) { return intField(r.StateFrameCount) },
	KeyPackets:         func(r *FrameRecord) (Value, bool) { return listField(r.Packets) },
	KeyPacket:          func(r *FrameRecord) (Value, bool) { return listField(r.Packets) },
	KeyLogs:            func(r *FrameRecord) (Value, bool) { return listField(r.Logs) },
	KeyEventStatuses: func(r *FrameRecord) (Value, bool) {
		if r.EventStatuses == nil {
			return Value{}, false
		}
		items := make([]Value, len(r.EventStatuses))
		for i, ev := range r.EventStatuses {
			items[i] = StringOf(ev.Name)
		}
		return ListOf(items...), true
	},
}

func strField(p *string) (Value, bool) {
	if p == nil {
		return Value{}, false
	}
	return StringOf(*p), true
}

func numField(p *float64) (Value, bool) {
	if p == nil {
		return Value{}, false
	}
	return NumberOf(*p), true
}

func intField(p *int) (Value, bool) {
	if p == nil {
		return Value{}, false
	}
	return NumberOf(float64(*p)), true
}

func listField(items []string) (Value, bool) {
	if items == nil {
		return Value{}, false
	}
	vals := make([]Value, len(items))
	for i, item := range items {
		vals[i] = StringOf(item)
	}
	return ListOf(vals...), true
}
