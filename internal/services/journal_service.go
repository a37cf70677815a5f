package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/cyclecare/internal/models"
)

const (
	maxJournalTitleLength   = 200
	maxJournalContentLength = 10000
	maxJournalTags          = 10
	maxJournalTagLength     = 32
)

var (
	ErrJournalEntryNotFound  = errors.New("journal entry not found")
	ErrJournalContentMissing = errors.New("journal content missing")
	ErrJournalEntryTooLong   = errors.New("journal entry too long")
	ErrJournalTagsInvalid    = errors.New("journal tags invalid")
	ErrJournalDateMissing    = errors.New("journal date missing")
)

type JournalRepository interface {
	ListByUser(userID uint) ([]models.JournalEntry, error)
	FindByUserAndID(userID uint, entryID uint) (models.JournalEntry, bool, error)
	Create(entry *models.JournalEntry) error
	Save(entry *models.JournalEntry) error
	DeleteByUserAndID(userID uint, entryID uint) (bool, error)
}

type JournalInput struct {
	Date    time.Time
	Title   string
	Content string
	Mood    string
	Tags    []string
}

type JournalService struct {
	entries JournalRepository
}

func NewJournalService(entries JournalRepository) *JournalService {
	return &JournalService{entries: entries}
}

func (service *JournalService) ListEntries(userID uint) ([]models.JournalEntry, error) {
	entries, err := service.entries.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return entries, nil
}

func (service *JournalService) CreateEntry(userID uint, input JournalInput) (models.JournalEntry, error) {
	normalized, err := normalizeJournalInput(input)
	if err != nil {
		return models.JournalEntry{}, err
	}

	entry := models.JournalEntry{UserID: userID}
	applyJournalInput(&entry, normalized)
	if err := service.entries.Create(&entry); err != nil {
		return models.JournalEntry{}, fmt.Errorf("create journal entry: %w", err)
	}
	return entry, nil
}

func (service *JournalService) UpdateEntry(userID uint, entryID uint, input JournalInput) (models.JournalEntry, error) {
	normalized, err := normalizeJournalInput(input)
	if err != nil {
		return models.JournalEntry{}, err
	}

	entry, found, err := service.entries.FindByUserAndID(userID, entryID)
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("load journal entry: %w", err)
	}
	if !found {
		return models.JournalEntry{}, ErrJournalEntryNotFound
	}

	applyJournalInput(&entry, normalized)
	if err := service.entries.Save(&entry); err != nil {
		return models.JournalEntry{}, fmt.Errorf("save journal entry: %w", err)
	}
	return entry, nil
}

func (service *JournalService) DeleteEntry(userID uint, entryID uint) error {
	deleted, err := service.entries.DeleteByUserAndID(userID, entryID)
	if err != nil {
		return fmt.Errorf("delete journal entry: %w", err)
	}
	if !deleted {
		return ErrJournalEntryNotFound
	}
	return nil
}

func normalizeJournalInput(input JournalInput) (JournalInput, error) {
	if input.Date.IsZero() {
		return input, ErrJournalDateMissing
	}
	input.Date = calendarDayIn(input.Date, time.UTC)

	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	if input.Content == "" {
		return input, ErrJournalContentMissing
	}
	if utf8.RuneCountInString(input.Title) > maxJournalTitleLength || utf8.RuneCountInString(input.Content) > maxJournalContentLength {
		return input, ErrJournalEntryTooLong
	}

	input.Mood = strings.ToLower(strings.TrimSpace(input.Mood))
	if !IsValidMood(input.Mood) {
		return input, ErrInvalidDayMood
	}

	tags := make([]string, 0, len(input.Tags))
	seen := make(map[string]struct{}, len(input.Tags))
	for _, raw := range input.Tags {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > maxJournalTagLength {
			return input, ErrJournalTagsInvalid
		}
		if _, duplicate := seen[tag]; duplicate {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	if len(tags) > maxJournalTags {
		return input, ErrJournalTagsInvalid
	}
	input.Tags = tags
	return input, nil
}

func applyJournalInput(entry *models.JournalEntry, input JournalInput) {
	entry.Date = input.Date
	entry.Title = input.Title
	entry.Content = input.Content
	entry.Mood = input.Mood
	entry.Tags = input.Tags
}
