package credstore

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// credentialSlot is one stored slot of one profile.
type credentialSlot struct {
	Profile   string `gorm:"primaryKey"`
	Slot      string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

func (credentialSlot) TableName() string { return "credential_slots" }

// SQLiteStorage persists slots of one profile in a sqlite database.
type SQLiteStorage struct {
	db      *gorm.DB
	profile string
}

// OpenSQLiteStorage opens (creating if needed) the database at path and migrates the
// slot table.
func OpenSQLiteStorage(path, profile string) (*SQLiteStorage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open token database: %w", err)
	}
	return NewSQLiteStorage(db, profile)
}

// NewSQLiteStorage uses an already open gorm handle.
func NewSQLiteStorage(db *gorm.DB, profile string) (*SQLiteStorage, error) {
	if err := db.AutoMigrate(&credentialSlot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate token database: %w", err)
	}
	return &SQLiteStorage{db: db, profile: profile}, nil
}

func (s *SQLiteStorage) Read(slot Slot) (string, bool, error) {
	var row credentialSlot
	err := s.db.Where("profile = ? AND slot = ?", s.profile, string(slot)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *SQLiteStorage) Write(slot Slot, value string) error {
	row := credentialSlot{
		Profile:   s.profile,
		Slot:      string(slot),
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile"}, {Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (s *SQLiteStorage) Delete(slot Slot) error {
	return s.db.Where("profile = ? AND slot = ?", s.profile, string(slot)).
		Delete(&credentialSlot{}).Error
}

// Close releases the underlying connection pool.
func (s *SQLiteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
