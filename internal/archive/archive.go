// ABOUTME: Local snapshot archive backed by a Badger key-value store.
// ABOUTME: Records are keyed by UUID and looked up by full ID or prefix.
package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harperreed/daybook/internal/logger"
	"github.com/harperreed/daybook/internal/storage"
)

const (
	recordPrefix   = "record:"
	snapshotPrefix = "snapshot:"
)

var (
	// ErrNotFound is returned when no record matches an ID or prefix.
	ErrNotFound = errors.New("archive record not found")
	// ErrAmbiguous is returned when a prefix matches more than one record.
	ErrAmbiguous = errors.New("ambiguous archive id prefix")
)

// Record describes one archived snapshot.
type Record struct {
	ID         uuid.UUID `json:"id"`
	Label      string    `json:"label"`
	CreatedAt  time.Time `json:"createdAt"`
	ExportedAt time.Time `json:"exportedAt"`
	Entries    int       `json:"entries"`
	Schedule   int       `json:"schedule"`
	Homework   int       `json:"homework"`
}

// ShortID returns the 8-character display prefix.
func (r *Record) ShortID() string {
	return r.ID.String()[:8]
}

// Store is a snapshot archive.
type Store struct {
	db  *badger.DB
	now func() time.Time
	mu  sync.RWMutex
}

// Open opens or creates an archive in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the archive.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save archives snap under a new ID.
func (s *Store) Save(snap *storage.Snapshot, label string) (*Record, error) {
	if snap == nil {
		return nil, errors.New("archive: nil snapshot")
	}

	rec := &Record{
		ID:         uuid.New(),
		Label:      label,
		CreatedAt:  s.now().UTC(),
		ExportedAt: snap.ExportedAt,
		Entries:    len(snap.Data.JournalEntries),
		Schedule:   len(snap.Data.Schedule),
		Homework:   len(snap.Data.Homework),
	}

	meta, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(recordPrefix+rec.ID.String()), meta); err != nil {
			return err
		}
		return txn.Set([]byte(snapshotPrefix+rec.ID.String()), body)
	})
	if err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	logger.Info("snapshot archived", "id", rec.ShortID(), "label", label, "entries", rec.Entries)
	return rec, nil
}

// List returns every record, newest first.
func (s *Store) List() ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*Record
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(recordPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec Record
				if err := json.Unmarshal(val, &rec); err != nil {
					logger.Warn("skipping unreadable archive record", "key", string(it.Item().Key()), "err", err)
					return nil
				}
				records = append(records, &rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list archive: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// Get returns the record matching a full ID or unique prefix.
func (s *Store) Get(idOrPrefix string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		key, err := resolve(txn, idOrPrefix)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("get archive record: %w", err)
	}
	return &rec, nil
}

// Load returns the archived snapshot matching a full ID or unique prefix.
func (s *Store) Load(idOrPrefix string) (*storage.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap storage.Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		key, err := resolve(txn, idOrPrefix)
		if err != nil {
			return err
		}
		id := strings.TrimPrefix(string(key), recordPrefix)
		item, err := txn.Get([]byte(snapshotPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return &snap, nil
}

// Delete removes a record and its snapshot.
func (s *Store) Delete(idOrPrefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		key, err := resolve(txn, idOrPrefix)
		if err != nil {
			return err
		}
		id := strings.TrimPrefix(string(key), recordPrefix)
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete([]byte(snapshotPrefix + id))
	})
	if err != nil {
		return fmt.Errorf("delete archive record: %w", err)
	}
	return nil
}

// resolve finds the single record key whose ID starts with idOrPrefix.
func resolve(txn *badger.Txn, idOrPrefix string) ([]byte, error) {
	if idOrPrefix == "" {
		return nil, ErrNotFound
	}

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	search := []byte(recordPrefix + strings.ToLower(idOrPrefix))
	var matches [][]byte
	for it.Seek(search); it.ValidForPrefix(search); it.Next() {
		matches = append(matches, it.Item().KeyCopy(nil))
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	}
	for _, m := range matches {
		if bytes.Equal(m, search) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s matches %d records", ErrAmbiguous, idOrPrefix, len(matches))
}

// badgerLogger routes Badger's internal logging through the app logger.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...any) {
	logger.Error("badger: " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (badgerLogger) Warningf(format string, args ...any) {
	logger.Warn("badger: " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (badgerLogger) Infof(format string, args ...any) {
	logger.Debug("badger: " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (badgerLogger) Debugf(format string, args ...any) {
	logger.Debug("badger: " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}
