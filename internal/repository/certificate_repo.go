package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
)

// CertificateRepository defines persistence operations for issued certificates.
type CertificateRepository interface {
	Create(ctx context.Context, certificate *models.Certificate) error
	GetByNumber(ctx context.Context, number string) (models.Certificate, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Certificate, error)
}

type certificateRepository struct {
	db *gorm.DB
}

// NewCertificateRepository instantiates a GORM-backed repository.
func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) Create(ctx context.Context, certificate *models.Certificate) error {
	return r.db.WithContext(ctx).Create(certificate).Error
}

func (r *certificateRepository) GetByNumber(ctx context.Context, number string) (models.Certificate, error) {
	var certificate models.Certificate
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		Where("certificate_number = ?", number).
		First(&certificate).Error
	if err != nil {
		return models.Certificate{}, err
	}

	return certificate, nil
}

func (r *certificateRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Certificate, error) {
	var certificates []models.Certificate
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("issued_at DESC").
		Find(&certificates).Error
	if err != nil {
		return nil, err
	}

	return certificates, nil
}
