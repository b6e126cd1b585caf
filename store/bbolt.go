package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gloworm-vision/labaccess/hardware"
	"go.etcd.io/bbolt"
)

type BBolt struct {
	db *bbolt.DB
}

var _ Store = &BBolt{}

const (
	bboltLabAccessBucket = "labaccess"

	// labaccess keys
	bboltHardwareKey = "hardware"
	bboltTitleKey    = "title"
)

// OpenBBolt opens a BBoltDB database at the given path and creates the needed buckets
// if they don't exist.
func OpenBBolt(path string, mode os.FileMode, options *bbolt.Options) (*BBolt, error) {
	db, err := bbolt.Open(path, mode, options)
	if err != nil {
		return nil, fmt.Errorf("unable to open bbolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bboltLabAccessBucket)); err != nil {
			return fmt.Errorf("unable to create bucket %q: %w", bboltLabAccessBucket, err)
		}

		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to create bbolt buckets: %w", err)
	}

	return &BBolt{
		db: db,
	}, nil
}

func (b *BBolt) Close() error {
	return b.db.Close()
}

func (b *BBolt) get(key string, fn func(val []byte) error) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bboltLabAccessBucket))

		val := bucket.Get([]byte(key))
		if val == nil {
			return fmt.Errorf("%s does not exist: %w", key, ErrNotFound)
		}

		return fn(val)
	})
}

func (b *BBolt) put(key string, val []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bboltLabAccessBucket))
		if err := bucket.Put([]byte(key), val); err != nil {
			return fmt.Errorf("unable to put %s: %w", key, err)
		}

		return nil
	})
}

func (b *BBolt) HardwareConfig() (hardware.Config, error) {
	var h hardware.Config
	err := b.get(bboltHardwareKey, func(hardwareJSON []byte) error {
		if err := json.Unmarshal(hardwareJSON, &h); err != nil {
			return fmt.Errorf("unable to unmarshal hardware config JSON: %w", err)
		}

		return nil
	})
	if err != nil {
		return h, fmt.Errorf("unable to get hardware config: %w", err)
	}

	return h, nil
}

func (b *BBolt) PutHardwareConfig(h hardware.Config) error {
	hardwareJSON, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("unable to marshal hardware config: %w", err)
	}

	if err := b.put(bboltHardwareKey, hardwareJSON); err != nil {
		return fmt.Errorf("unable to update hardware config: %w", err)
	}

	return nil
}

func (b *BBolt) Title() (string, error) {
	var title string
	err := b.get(bboltTitleKey, func(val []byte) error {
		title = string(val)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("unable to get title: %w", err)
	}

	return title, nil
}

func (b *BBolt) PutTitle(title string) error {
	if err := b.put(bboltTitleKey, []byte(title)); err != nil {
		return fmt.Errorf("unable to update title: %w", err)
	}

	return nil
}
