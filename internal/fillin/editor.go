// Package fillin tracks the state of a brief being filled in: the value
// shown for each field, which saves are in flight and which documents were
// uploaded for AI generation.
package fillin

import (
	"sync"
	"time"

	"brief-portal/internal/models"
)

// Outcome reports what happened to a completed save.
type Outcome int

const (
	// Saved means the backend accepted the newest edit of the field.
	Saved Outcome = iota
	// RolledBack means the newest edit failed and the value went back to
	// the last confirmed one.
	RolledBack
	// Stale means a newer edit was started meanwhile; the completion was
	// ignored.
	Stale
)

func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case RolledBack:
		return "rolled_back"
	default:
		return "stale"
	}
}

type Editor struct {
	mu        sync.Mutex
	brief     models.Brief
	values    map[string]interface{}
	confirmed map[string]interface{}
	saving    map[string]uint64
	seq       uint64
	uploaded  map[string][]string
	active    string
	lastUsed  time.Time
}

func NewEditor(brief models.Brief, now time.Time) *Editor {
	e := &Editor{
		saving:   map[string]uint64{},
		uploaded: map[string][]string{},
		lastUsed: now,
	}
	e.Reload(brief)
	return e
}

// Reload replaces the brief and its values with the backend's copy.
// Fields with a save in flight keep their optimistic value.
func (e *Editor) Reload(brief models.Brief) {
	e.mu.Lock()
	defer e.mu.Unlock()
	values := brief.FieldValues()
	for fieldID := range e.saving {
		if v, ok := e.values[fieldID]; ok {
			values[fieldID] = v
		}
	}
	e.brief = brief
	e.values = values
	e.confirmed = brief.FieldValues()
	if _, ok := e.brief.Section(e.active); !ok {
		e.active = ""
		if len(brief.Sections) > 0 {
			e.active = brief.Sections[0].ID
		}
	}
}

// BeginEdit records the optimistic value and returns the sequence number
// the matching CompleteEdit must present.
func (e *Editor) BeginEdit(fieldID string, value interface{}) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	e.values[fieldID] = value
	e.saving[fieldID] = e.seq
	return e.seq
}

func (e *Editor) CompleteEdit(fieldID string, seq uint64, err error) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	if latest, ok := e.saving[fieldID]; !ok || latest != seq {
		return Stale
	}
	delete(e.saving, fieldID)
	if err == nil {
		e.confirmed[fieldID] = e.values[fieldID]
		return Saved
	}
	if v, ok := e.confirmed[fieldID]; ok {
		e.values[fieldID] = v
	} else {
		delete(e.values, fieldID)
	}
	return RolledBack
}

func (e *Editor) IsSaving(fieldID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.saving[fieldID]
	return ok
}

func (e *Editor) Value(fieldID string) (interface{}, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.values[fieldID]
	return v, ok
}

// Field looks up a field of the loaded brief.
func (e *Editor) Field(fieldID string) (models.BriefField, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f, ok := e.brief.Field(fieldID)
	if !ok {
		return models.BriefField{}, false
	}
	return *f, true
}

func (e *Editor) AddUploadedKeys(sectionID string, keys []string) {
	if len(keys) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.uploaded[sectionID] = append(e.uploaded[sectionID], keys...)
}

func (e *Editor) UploadedKeys(sectionID string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.uploaded[sectionID]...)
}

// MergeExtracted applies AI output keyed by field key to the fields of a
// section. Keys with no matching field are ignored. The backend has
// already stored these values, so they count as confirmed.
func (e *Editor) MergeExtracted(sectionID string, extracted map[string]interface{}) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	section, ok := e.brief.Section(sectionID)
	if !ok {
		return 0
	}
	merged := 0
	for _, f := range section.Fields {
		v, ok := extracted[f.FieldKey]
		if !ok || f.FieldKey == "" {
			continue
		}
		e.values[f.ID] = v
		e.confirmed[f.ID] = v
		merged++
	}
	return merged
}

func (e *Editor) HasSection(sectionID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.brief.Section(sectionID)
	return ok
}

func (e *Editor) SelectSection(sectionID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.brief.Section(sectionID); !ok {
		return false
	}
	e.active = sectionID
	return true
}

func (e *Editor) ActiveSection() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

func (e *Editor) Touch(now time.Time) {
	e.mu.Lock()
	e.lastUsed = now
	e.mu.Unlock()
}

func (e *Editor) LastUsed() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUsed
}

// Snapshot is a consistent copy of the editor for rendering.
type Snapshot struct {
	Brief         models.Brief
	Values        map[string]interface{}
	Saving        map[string]bool
	UploadedKeys  map[string][]string
	ActiveSection string
}

func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Snapshot{
		Brief:         e.brief,
		Values:        make(map[string]interface{}, len(e.values)),
		Saving:        make(map[string]bool, len(e.saving)),
		UploadedKeys:  make(map[string][]string, len(e.uploaded)),
		ActiveSection: e.active,
	}
	for k, v := range e.values {
		s.Values[k] = v
	}
	for k := range e.saving {
		s.Saving[k] = true
	}
	for k, v := range e.uploaded {
		s.UploadedKeys[k] = append([]string(nil), v...)
	}
	return s
}
