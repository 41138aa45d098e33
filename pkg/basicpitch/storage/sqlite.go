package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/model"
	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/utils"
)

const DefaultDBFile = "basicpitch.sqlite3"
const errDBClientNil = "db client is nil"

// ErrNotFound is returned when a transcription id has no row.
var ErrNotFound = errors.New("transcription not found")

type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

type Transcription struct {
	ID          string  `gorm:"primaryKey;type:varchar(36)"`
	Source      string  `gorm:"index:idx_source" json:"source"`
	Tempo       float64 `json:"tempo"`
	DurationSec float64 `json:"duration_sec"`
	CreatedAt   time.Time
}

type NoteEvent struct {
	ID              uint    `gorm:"primaryKey;autoIncrement"`
	TranscriptionID string  `gorm:"type:varchar(36);index:idx_transcription" json:"transcription_id"`
	StartSec        float64 `json:"start_sec"`
	EndSec          float64 `json:"end_sec"`
	Pitch           int     `json:"pitch"`
	Confidence      float64 `json:"confidence"`
}

func NewDBClient() (*DBClient, error) {
	dbPath := os.Getenv("BASICPITCH_DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	return NewDBClientWithPath(dbPath)
}

func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !os.IsExist(err) {
		if filepath.Dir(dbPath) != "." {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Transcription{}, &NoteEvent{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// SaveTranscription stores the header row and its note events in one
// transaction. A missing ID gets a fresh UUID; the assigned id is returned.
func (c *DBClient) SaveTranscription(t model.Transcription) (string, error) {
	if c == nil || c.DB == nil {
		return "", errors.New(errDBClientNil)
	}

	id := t.ID
	if id == "" {
		id = utils.GenerateUUID()
	}
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	header := Transcription{
		ID:          id,
		Source:      t.Source,
		Tempo:       t.Tempo,
		DurationSec: t.Duration,
		CreatedAt:   createdAt,
	}

	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&header).Error; err != nil {
			return fmt.Errorf("creating transcription: %w", err)
		}

		entries := make([]NoteEvent, 0, 1024)
		for _, n := range t.Notes {
			entries = append(entries, NoteEvent{
				TranscriptionID: id,
				StartSec:        n.StartSec,
				EndSec:          n.EndSec,
				Pitch:           n.Pitch,
				Confidence:      n.Confidence,
			})
			if len(entries) >= 1000 {
				if err := tx.CreateInBatches(entries, 500).Error; err != nil {
					return fmt.Errorf("batch insert notes: %w", err)
				}
				entries = entries[:0]
			}
		}
		if len(entries) > 0 {
			if err := tx.CreateInBatches(entries, 500).Error; err != nil {
				return fmt.Errorf("batch insert last notes: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return id, nil
}

func (c *DBClient) GetTranscription(id string) (model.Transcription, error) {
	if c == nil || c.DB == nil {
		return model.Transcription{}, errors.New(errDBClientNil)
	}

	var header Transcription
	if err := c.DB.Where("id = ?", id).First(&header).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Transcription{}, ErrNotFound
		}
		return model.Transcription{}, fmt.Errorf("querying transcription: %w", err)
	}

	var rows []NoteEvent
	if err := c.DB.Where("transcription_id = ?", id).Order("start_sec, pitch").Find(&rows).Error; err != nil {
		return model.Transcription{}, fmt.Errorf("querying notes: %w", err)
	}

	notes := make([]model.NoteEvent, 0, len(rows))
	for _, r := range rows {
		notes = append(notes, model.NoteEvent{
			StartSec:   r.StartSec,
			EndSec:     r.EndSec,
			Pitch:      r.Pitch,
			Confidence: r.Confidence,
		})
	}

	return model.Transcription{
		ID:        header.ID,
		Source:    header.Source,
		Notes:     notes,
		Tempo:     header.Tempo,
		Duration:  header.DurationSec,
		CreatedAt: header.CreatedAt,
	}, nil
}

// ListTranscriptions returns header rows only, newest first. Notes are
// left nil; fetch them per id with GetTranscription.
func (c *DBClient) ListTranscriptions() ([]model.Transcription, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}

	var headers []Transcription
	if err := c.DB.Order("created_at desc").Find(&headers).Error; err != nil {
		return nil, fmt.Errorf("listing transcriptions: %w", err)
	}

	out := make([]model.Transcription, 0, len(headers))
	for _, h := range headers {
		out = append(out, model.Transcription{
			ID:        h.ID,
			Source:    h.Source,
			Tempo:     h.Tempo,
			Duration:  h.DurationSec,
			CreatedAt: h.CreatedAt,
		})
	}
	return out, nil
}

// FindTranscriptionsBySource returns headers whose source matches
// exactly, newest first.
func (c *DBClient) FindTranscriptionsBySource(source string) ([]model.Transcription, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}

	var headers []Transcription
	if err := c.DB.Where("source = ?", source).Order("created_at desc").Find(&headers).Error; err != nil {
		return nil, fmt.Errorf("querying by source: %w", err)
	}

	out := make([]model.Transcription, 0, len(headers))
	for _, h := range headers {
		out = append(out, model.Transcription{
			ID:        h.ID,
			Source:    h.Source,
			Tempo:     h.Tempo,
			Duration:  h.DurationSec,
			CreatedAt: h.CreatedAt,
		})
	}
	return out, nil
}

func (c *DBClient) DeleteTranscription(id string) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	return c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transcription_id = ?", id).Delete(&NoteEvent{}).Error; err != nil {
			return fmt.Errorf("deleting notes: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&Transcription{})
		if res.Error != nil {
			return fmt.Errorf("deleting transcription: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
