package ctxsearch

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEntries reports an entry list that does not have the
	// [identifier, label, template, enabled] shape.
	ErrInvalidEntries = errors.New("ctxsearch: invalid entry list")
	// ErrSnapshotMissing reports that no entry list is stored.
	ErrSnapshotMissing = errors.New("ctxsearch: snapshot missing")
	// ErrDurableUnavailable reports an operation that needs the durable tier.
	ErrDurableUnavailable = errors.New("ctxsearch: durable tier unavailable")
)

// StorageError wraps a backend failure for one storage operation.
type StorageError struct {
	Op   string
	Area string
	Key  string
	Err  error
}

func (e *StorageError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Key == "" {
		return fmt.Sprintf("ctxsearch: storage %s on %s: %v", e.Op, e.Area, e.Err)
	}
	return fmt.Sprintf("ctxsearch: storage %s %q on %s: %v", e.Op, e.Key, e.Area, e.Err)
}

func (e *StorageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConfigParseError reports a snapshot that is missing or malformed.
type ConfigParseError struct {
	Key string
	Err error
}

func (e *ConfigParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("ctxsearch: parse %s: %v", e.Key, e.Err)
}

func (e *ConfigParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ItemCreationError reports one menu item the host refused to create.
type ItemCreationError struct {
	Index int
	ID    string
	Err   error
}

func (e *ItemCreationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("ctxsearch: create menu item %d id=%q: %v", e.Index, e.ID, e.Err)
}

func (e *ItemCreationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TabCreationError reports one target that could not be opened.
type TabCreationError struct {
	Template string
	URL      string
	Err      error
}

func (e *TabCreationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("ctxsearch: open %q (template %q): %v", e.URL, e.Template, e.Err)
}

func (e *TabCreationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WrapStorage returns err as a *StorageError unless it already is one.
func WrapStorage(op, area, key string, err error) error {
	if err == nil {
		return nil
	}
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return err
	}
	return &StorageError{Op: op, Area: area, Key: key, Err: err}
}
