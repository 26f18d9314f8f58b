package dialogs

// result is the write-once payload of a completed DialogState node.
type result struct {
	returnValue any
}

// DialogState is a mutable node of the persisted checkpoint tree. A node
// is created lazily the first time its position is referenced by its
// parent during execution, mutates only while its owning execution frame
// is active, and is destroyed (repurposed in place) only via Reset.
//
// Ownership: the persistence layer owns the root node between turns;
// during a turn the engine has exclusive mutable access. Child nodes are
// owned by their parent (no sharing, no cycles).
type DialogState struct {
	Version string
	Name    string

	Subdialogs []*DialogState

	result *result

	SentToClient     bool
	HandlingFallback bool
}

// NewEmptyState builds a fresh, unstarted state node seeded from dialog's
// name and version.
func NewEmptyState(dialog Step) *DialogState {
	return &DialogState{Version: dialog.Version(), Name: dialog.Name()}
}

// GetSubdialogState returns the child state at index, appending a new
// empty one seeded from dialog if index is exactly the current length,
// and returning the recorded child for any index below it (replay).
// Any other index violates the replay invariant (the childIndex→step
// correspondence must be positional and at most one ahead of what has
// been recorded).
func (s *DialogState) GetSubdialogState(index int, dialog Step) *DialogState {
	n := len(s.Subdialogs)
	switch {
	case index == n:
		child := NewEmptyState(dialog)
		s.Subdialogs = append(s.Subdialogs, child)
		return child
	case index >= 0 && index < n:
		return s.Subdialogs[index]
	default:
		panic(newDialogStateError("GetSubdialogState",
			"replay invariant violated: index must not exceed the current child count"))
	}
}

// ReturnValue returns the node's recorded result. It panics with a
// DialogStateError if the node is not yet done — this is a programmer
// error, not a recoverable condition.
func (s *DialogState) ReturnValue() any {
	if s.result == nil {
		panic(newDialogStateError("ReturnValue", "read before result was set"))
	}
	return s.result.returnValue
}

// SetReturnValue marks the node done with value. It panics with a
// DialogStateError if the node is already done.
func (s *DialogState) SetReturnValue(value any) {
	if s.result != nil {
		panic(newDialogStateError("SetReturnValue", "result already set"))
	}
	s.result = &result{returnValue: value}
}

// IsDone reports whether the node's result has been set.
func (s *DialogState) IsDone() bool {
	return s.result != nil
}

// Reset repurposes the node in place: clears its children and result,
// updates its name/version from dialog, and sets HandlingFallback to
// fallbackMode. Used both to enter fallback (fallbackMode=true, on
// VersionMismatch) and to leave it once the fallback dialog completes
// (fallbackMode=false).
func (s *DialogState) Reset(dialog Step, fallbackMode bool) {
	s.Subdialogs = nil
	s.result = nil
	s.SentToClient = false
	s.Version = dialog.Version()
	s.Name = dialog.Name()
	s.HandlingFallback = fallbackMode
}

// StateMap is the logical, wire-format-independent serialization of a
// DialogState tree (spec: "Persisted state layout"). Its json and
// msgpack struct tags are both exercised by dialogcodec.
type StateMap struct {
	Version          string        `json:"version" msgpack:"version"`
	Name             string        `json:"name" msgpack:"name"`
	Result           *ResultMap    `json:"result" msgpack:"result"`
	SentToClient     bool          `json:"sentToClient" msgpack:"sentToClient"`
	HandlingFallback bool          `json:"handlingFallback,omitempty" msgpack:"handlingFallback,omitempty"`
	Subdialogs       []*StateMap   `json:"subdialogs" msgpack:"subdialogs"`
}

// ResultMap is the serialized form of a set DialogState result.
type ResultMap struct {
	ReturnValue any `json:"returnValue" msgpack:"returnValue"`
}

// ToMap recursively serializes s into its logical StateMap form.
func (s *DialogState) ToMap() *StateMap {
	if s == nil {
		return nil
	}
	m := &StateMap{
		Version:          s.Version,
		Name:             s.Name,
		SentToClient:     s.SentToClient,
		HandlingFallback: s.HandlingFallback,
	}
	if s.result != nil {
		m.Result = &ResultMap{ReturnValue: s.result.returnValue}
	}
	for _, child := range s.Subdialogs {
		m.Subdialogs = append(m.Subdialogs, child.ToMap())
	}
	return m
}

// StateFromMap recursively rebuilds a DialogState tree from its logical
// serialized form. Round-tripping StateFromMap(s.ToMap()) reproduces s
// for any reachable state.
func StateFromMap(raw *StateMap) *DialogState {
	if raw == nil {
		return nil
	}
	s := &DialogState{
		Version:          raw.Version,
		Name:             raw.Name,
		SentToClient:     raw.SentToClient,
		HandlingFallback: raw.HandlingFallback,
	}
	if raw.Result != nil {
		s.result = &result{returnValue: raw.Result.ReturnValue}
	}
	for _, child := range raw.Subdialogs {
		s.Subdialogs = append(s.Subdialogs, StateFromMap(child))
	}
	return s
}
