package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// tokenFile is the on-disk layout: slots grouped per profile, so several API
// environments can share one file.
type tokenFile struct {
	Profiles map[string]map[Slot]string `json:"profiles"`
}

// FileStorage persists slots of one profile in a JSON file shared with other profiles.
type FileStorage struct {
	path    string
	profile string
}

// NewFileStorage returns a FileStorage for profile backed by the file at path.
func NewFileStorage(path, profile string) *FileStorage {
	return &FileStorage{path: path, profile: profile}
}

// Path returns the backing file path.
func (s *FileStorage) Path() string { return s.path }

func (s *FileStorage) Read(slot Slot) (string, bool, error) {
	doc, err := s.load()
	if err != nil {
		return "", false, err
	}
	if doc == nil {
		return "", false, nil
	}
	v, ok := doc.Profiles[s.profile][slot]
	return v, ok, nil
}

func (s *FileStorage) Write(slot Slot, value string) error {
	return s.update(func(slots map[Slot]string) {
		slots[slot] = value
	})
}

func (s *FileStorage) Delete(slot Slot) error {
	return s.update(func(slots map[Slot]string) {
		delete(slots, slot)
	})
}

// load reads the whole file. A missing file is not an error and yields nil.
func (s *FileStorage) load() (*tokenFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var doc tokenFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &doc, nil
}

// update applies mutate to this profile's slots under the file lock and rewrites the
// file atomically. Entries of other profiles are preserved.
func (s *FileStorage) update(mutate func(map[Slot]string)) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}

	lock, err := acquireFileLock(s.path)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() {
		if releaseErr := lock.release(); releaseErr != nil {
			fmt.Fprintf(os.Stderr, "failed to release lock: %v\n", releaseErr)
		}
	}()

	// Re-read inside the lock; a corrupt file is replaced rather than propagated.
	doc, err := s.load()
	if err != nil || doc == nil {
		doc = &tokenFile{}
	}
	if doc.Profiles == nil {
		doc.Profiles = make(map[string]map[Slot]string)
	}

	slots := doc.Profiles[s.profile]
	if slots == nil {
		slots = make(map[Slot]string)
	}
	mutate(slots)
	if len(slots) == 0 {
		delete(doc.Profiles, s.profile)
	} else {
		doc.Profiles[s.profile] = slots
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempFile, s.path); err != nil {
		if removeErr := os.Remove(tempFile); removeErr != nil {
			return fmt.Errorf(
				"failed to rename temp file: %v; additionally failed to remove temp file: %w",
				err,
				removeErr,
			)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
