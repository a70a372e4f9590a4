package cache

import (
	"errors"
	"fmt"

	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/models"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/stream"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Students mirrors the student accounts seen by this device and tracks
// which one owns the active session. At most one row has is_current
// set; SetCurrent enforces that transactionally.
type Students struct {
	db       *gorm.DB
	notifier *stream.Notifier
}

func NewStudents(db *gorm.DB) *Students {
	return &Students{db: db, notifier: stream.NewNotifier()}
}

// Upsert replaces the full record if the id already exists.
func (s *Students) Upsert(student models.Student) error {
	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&student).Error
	if err != nil {
		return fmt.Errorf("upsert student: %w", err)
	}
	s.notifier.Notify()
	return nil
}

// SetCurrent clears the current flag on every cached student, then
// upserts the given one with the flag set. Both steps run in one
// transaction so a crash can never leave two current users; the clear
// runs first so a partial failure fails toward "logged out".
func (s *Students) SetCurrent(student models.Student) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Student{}).
			Where("is_current = ?", true).
			Update("is_current", false).Error; err != nil {
			return err
		}
		student.IsCurrent = true
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&student).Error
	})
	if err != nil {
		return fmt.Errorf("set current student: %w", err)
	}
	s.notifier.Notify()
	return nil
}

// LogoutAll clears the current flag everywhere. The rows themselves are
// kept so profiles survive logout.
func (s *Students) LogoutAll() error {
	err := s.db.Model(&models.Student{}).
		Where("is_current = ?", true).
		Update("is_current", false).Error
	if err != nil {
		return fmt.Errorf("logout all: %w", err)
	}
	s.notifier.Notify()
	return nil
}

// Current returns the student owning the active session, or nil.
func (s *Students) Current() (*models.Student, error) {
	var out models.Student
	err := s.db.Where("is_current = ?", true).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get current student: %w", err)
	}
	return &out, nil
}

// WatchCurrent re-emits the current student on every change, nil when
// nobody is logged in.
func (s *Students) WatchCurrent() (<-chan *models.Student, func()) {
	return stream.Watch(s.notifier, func() *models.Student {
		out, err := s.Current()
		if err != nil {
			return nil
		}
		return out
	})
}

func (s *Students) GetByID(id string) (*models.Student, error) {
	var out models.Student
	err := s.db.First(&out, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student by id: %w", err)
	}
	return &out, nil
}

func (s *Students) GetByEmail(email string) (*models.Student, error) {
	var out models.Student
	err := s.db.First(&out, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student by email: %w", err)
	}
	return &out, nil
}

func (s *Students) Delete(student models.Student) error {
	if err := s.db.Delete(&student).Error; err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	s.notifier.Notify()
	return nil
}

// All returns every cached student.
func (s *Students) All() ([]models.Student, error) {
	var out []models.Student
	if err := s.db.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return out, nil
}

// WatchAll is the live version of All.
func (s *Students) WatchAll() (<-chan []models.Student, func()) {
	return stream.Watch(s.notifier, func() []models.Student {
		out, err := s.All()
		if err != nil {
			return nil
		}
		return out
	})
}
