package repository

import (
	"context"
	"time"

	"contacts_project/internal/domain"

	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	var contacts []domain.Contact
	if err := r.db.WithContext(ctx).Order("id").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id uint) (*domain.Contact, error) {
	var contact domain.Contact
	if err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) FindByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	var contact domain.Contact
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) SearchByFirstName(ctx context.Context, firstName string) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := r.db.WithContext(ctx).
		Where("first_name ILIKE ?", "%"+firstName+"%").
		Order("id").
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *ContactRepository) SearchByLastName(ctx context.Context, lastName string) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := r.db.WithContext(ctx).
		Where("last_name ILIKE ?", "%"+lastName+"%").
		Order("id").
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *ContactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

func (r *ContactRepository) Remove(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Delete(contact).Error
}

// UpcomingBirthdays returns contacts whose birthday falls in the month-day
// window [start, end), regardless of birth year. A window that crosses the
// year boundary is handled by flipping the comparison.
func (r *ContactRepository) UpcomingBirthdays(ctx context.Context, start, end time.Time) ([]domain.Contact, error) {
	startKey, endKey := MonthDayRange(start, end)

	query := r.db.WithContext(ctx).Model(&domain.Contact{})
	if startKey <= endKey {
		query = query.Where("to_char(birthday, 'MM-DD') >= ? AND to_char(birthday, 'MM-DD') < ?", startKey, endKey)
	} else {
		query = query.Where("to_char(birthday, 'MM-DD') >= ? OR to_char(birthday, 'MM-DD') < ?", startKey, endKey)
	}

	var contacts []domain.Contact
	if err := query.Order("id").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// MonthDayRange reduces two dates to sortable MM-DD keys. The keys compare
// lexicographically in calendar order, so start > end signals a window that
// wraps past December 31.
func MonthDayRange(start, end time.Time) (string, string) {
	return start.Format("01-02"), end.Format("01-02")
}
