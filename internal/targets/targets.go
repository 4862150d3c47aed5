package targets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/countclock/internal/validate"
)

// StorageKey is the key the collection is persisted under.
const StorageKey = "countclock.targets"

var (
	ErrNotFound = errors.New("saved target not found")
	ErrInvalid  = errors.New("invalid saved target")
)

// SavedTarget is a named absolute point in time. Entries are never edited;
// a change is a delete followed by a save.
type SavedTarget struct {
	ID   int64     `json:"id"`
	Name string    `json:"name" validate:"notblank,max=80"`
	Date time.Time `json:"date" validate:"required"`
}

// Store manages saved targets over a KV. The collection is read once on Open
// and rewritten in full on every change.
type Store struct {
	kv  KV
	now func() time.Time

	mu    sync.Mutex
	items []SavedTarget
}

// Open reads the persisted collection from kv. Malformed data is logged and
// treated as an empty collection.
func Open(kv KV) (*Store, error) {
	s := &Store{kv: kv, now: time.Now}
	raw, ok, err := kv.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read saved targets: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return s, nil
	}
	var items []SavedTarget
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logrus.Warnf("Ignoring malformed saved targets: %v", err)
		return s, nil
	}
	s.items = items
	logrus.Debugf("Loaded %d saved targets", len(items))
	return s, nil
}

// Save appends a new target with a fresh id and persists the collection.
func (s *Store) Save(name string, date time.Time) (SavedTarget, error) {
	t := SavedTarget{Name: strings.TrimSpace(name), Date: date.Round(0)}
	if err := validate.Struct(t); err != nil {
		return SavedTarget{}, fmt.Errorf("%w: %s", ErrInvalid, validate.Describe(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextIDLocked()
	next := append(append([]SavedTarget(nil), s.items...), t)
	if err := s.persist(next); err != nil {
		return SavedTarget{}, err
	}
	s.items = next
	logrus.Debugf("Saved target id=%d name=%q", t.ID, t.Name)
	return t, nil
}

// Delete removes the target with id and persists the collection.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	next := make([]SavedTarget, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	if err := s.persist(next); err != nil {
		return err
	}
	s.items = next
	logrus.Debugf("Deleted target id=%d", id)
	return nil
}

// Load returns the target with id.
func (s *Store) Load(id int64) (SavedTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return SavedTarget{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return s.items[idx], nil
}

// Find resolves a numeric id or, failing that, the most recently saved target
// with a matching name (case-insensitive).
func (s *Store) Find(ref string) (SavedTarget, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if t, err := s.Load(id); err == nil {
			return t, nil
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.items) - 1; i >= 0; i-- {
		if strings.EqualFold(s.items[i].Name, ref) {
			return s.items[i], nil
		}
	}
	return SavedTarget{}, fmt.Errorf("%w: %q", ErrNotFound, ref)
}

// List returns a copy of the collection in save order.
func (s *Store) List() []SavedTarget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SavedTarget(nil), s.items...)
}

// View prints the collection to w, one target per line.
func (s *Store) View(w io.Writer) {
	items := s.List()
	if len(items) == 0 {
		fmt.Fprintln(w, "No saved targets.")
		return
	}
	for _, t := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\n", t.ID, t.Name, t.Date.Format(time.RFC3339))
	}
}

func (s *Store) persist(items []SavedTarget) error {
	if items == nil {
		items = []SavedTarget{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := s.kv.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("write saved targets: %w", err)
	}
	return nil
}

func (s *Store) indexLocked(id int64) int {
	for i, t := range s.items {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextIDLocked uses the current time in milliseconds, bumped past the largest
// id in use so rapid saves stay unique.
func (s *Store) nextIDLocked() int64 {
	id := s.now().UnixMilli()
	for _, t := range s.items {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}
