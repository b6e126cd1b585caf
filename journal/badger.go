package journal

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/kapetan-io/tackle/clock"
	"github.com/sirupsen/logrus"
)

// DefaultTTL is how long events are retained.
const DefaultTTL = 24 * time.Hour

const badgerEventPrefix = "events/"

// Badger is a Journal kept in an in-memory badger DB. Events expire after
// TTL, so memory stays bounded on a device that runs for months.
type Badger struct {
	db  *badger.DB
	ttl time.Duration

	mu  sync.Mutex
	seq uint64
}

var _ Journal = &Badger{}

// OpenBadger opens an in-memory badger DB as a journal. Events older than
// ttl are dropped; ttl <= 0 uses DefaultTTL.
func OpenBadger(ttl time.Duration, logger *logrus.Logger) (*Badger, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	options := badger.DefaultOptions("").WithInMemory(true)
	if logger != nil {
		options = options.WithLogger(logger)
	}

	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("unable to open badger db: %w", err)
	}

	return &Badger{db: db, ttl: ttl}, nil
}

func eventKey(seq uint64) []byte {
	key := make([]byte, len(badgerEventPrefix)+8)
	copy(key, badgerEventPrefix)
	binary.BigEndian.PutUint64(key[len(badgerEventPrefix):], seq)
	return key
}

// Record stores an event stamped with the current time.
func (b *Badger) Record(kind Kind, occupancy int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	event := Event{
		Seq:       b.seq + 1,
		Kind:      kind,
		Occupancy: occupancy,
		At:        clock.Now(),
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(event); err != nil {
		return fmt.Errorf("couldn't encode event with gob: %w", err)
	}

	err := b.db.Update(func(tx *badger.Txn) error {
		entry := badger.NewEntry(eventKey(event.Seq), buf.Bytes()).WithTTL(b.ttl)
		return tx.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("couldn't record %s event: %w", kind, err)
	}

	b.seq = event.Seq
	return nil
}

func (b *Badger) List(limit int) ([]Event, error) {
	events := make([]Event, 0)

	err := b.db.View(func(tx *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true

		it := tx.NewIterator(options)
		defer it.Close()

		for it.Seek(eventKey(^uint64(0))); it.ValidForPrefix([]byte(badgerEventPrefix)); it.Next() {
			if limit > 0 && len(events) >= limit {
				break
			}

			var event Event
			err := it.Item().Value(func(val []byte) error {
				return gob.NewDecoder(bytes.NewReader(val)).Decode(&event)
			})
			if err != nil {
				return fmt.Errorf("couldn't decode event with gob: %w", err)
			}

			events = append(events, event)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't list events: %w", err)
	}

	return events, nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}
