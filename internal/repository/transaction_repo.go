package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
)

// TransactionFilter describes admin listing options.
type TransactionFilter struct {
	Status   string
	CourseID uint
	Page     int
	PageSize int
}

// TransactionRepository defines persistence operations for payment records.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	GetByID(ctx context.Context, id uint) (models.Transaction, error)
	GetByBillNo(ctx context.Context, billNo string) (models.Transaction, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Transaction, error)
	ListWithFilter(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int64, error)
	HasPaidForCourse(ctx context.Context, studentID, courseID uint) (bool, error)
	Update(ctx context.Context, transaction *models.Transaction) error
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository instantiates a GORM-backed repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		First(&transaction, id).Error
	if err != nil {
		return models.Transaction{}, err
	}

	return transaction, nil
}

func (r *transactionRepository) GetByBillNo(ctx context.Context, billNo string) (models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		Where("bill_no = ?", billNo).
		First(&transaction).Error
	if err != nil {
		return models.Transaction{}, err
	}

	return transaction, nil
}

func (r *transactionRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

func (r *transactionRepository) ListWithFilter(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Transaction{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CourseID != 0 {
		query = query.Where("course_id = ?", filter.CourseID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Student").Preload("Course").Order("created_at DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

func (r *transactionRepository) HasPaidForCourse(ctx context.Context, studentID, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("student_id = ? AND course_id = ? AND status = ?", studentID, courseID, models.TransactionStatusPaid).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *transactionRepository) Update(ctx context.Context, transaction *models.Transaction) error {
	return r.db.WithContext(ctx).Save(transaction).Error
}
