package archive

import (
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// Archive is the blob store that keeps a copy of every promoted snapshot,
// keyed by the snapshot file name.
type Archive interface {
	Put(name string, data []byte) error
	Get(name string) ([]byte, error)
	List() ([]string, error)
	Close() error
}

// BadgerArchive stores snapshot copies in a local badger database.
type BadgerArchive struct {
	db *badger.DB
}

func OpenBadger(dir string) (*BadgerArchive, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive at %s: %w", dir, err)
	}

	return &BadgerArchive{db: db}, nil
}

// OpenInMemory opens an archive that lives only for the process. Used in
// tests and dry runs.
func OpenInMemory() (*BadgerArchive, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory archive: %w", err)
	}

	return &BadgerArchive{db: db}, nil
}

func (a *BadgerArchive) Put(name string, data []byte) error {
	err := a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(name), data)
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", name, err)
	}

	return nil
}

func (a *BadgerArchive) Get(name string) ([]byte, error) {
	var data []byte
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read archived %s: %w", name, err)
	}

	return data, nil
}

// List returns the names of all archived snapshots in key order.
func (a *BadgerArchive) List() ([]string, error) {
	var names []string
	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, string(it.Item().Key()))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}

	return names, nil
}

func (a *BadgerArchive) Close() error {
	return a.db.Close()
}
