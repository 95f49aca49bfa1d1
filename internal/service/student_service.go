package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/adityaharshit/code-i-technology-sub001/internal/apperr"
	"github.com/adityaharshit/code-i-technology-sub001/internal/dto"
	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
	"github.com/adityaharshit/code-i-technology-sub001/internal/repository"
	"github.com/adityaharshit/code-i-technology-sub001/pkg/cloudinary"
	"github.com/adityaharshit/code-i-technology-sub001/pkg/retry"
)

var (
	// ErrStudentNotFound indicates the requested student does not exist.
	ErrStudentNotFound = errors.New("student not found")
	// ErrVerificationTokenInvalid indicates the email verification token is unknown.
	ErrVerificationTokenInvalid = errors.New("verification token invalid")
	// ErrPhotoTypeNotAllowed indicates the uploaded photo is not an image.
	ErrPhotoTypeNotAllowed = errors.New("photo must be an image")
)

// StudentService exposes registration, verification and profile use cases.
type StudentService interface {
	Register(ctx context.Context, payload dto.StudentRegisterRequest) (dto.StudentResponse, error)
	VerifyEmail(ctx context.Context, token string) (dto.StudentResponse, error)
	Get(ctx context.Context, id uint) (dto.StudentResponse, error)
	Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error)
	UploadPhoto(ctx context.Context, id uint, file *multipart.FileHeader) (dto.StudentResponse, error)
	List(ctx context.Context, filter repository.StudentFilter) ([]dto.StudentResponse, int64, error)
	Delete(ctx context.Context, id uint) error
}

type studentService struct {
	repo          repository.StudentRepository
	validator     *validator.Validate
	storage       ObjectStorage
	retryCfg      retry.Config
	uploadTimeout time.Duration
	logger        zerolog.Logger
	now           func() time.Time
}

// NewStudentService builds a new student service.
func NewStudentService(repo repository.StudentRepository, validate *validator.Validate, storage ObjectStorage, retryCfg retry.Config, uploadTimeout time.Duration, logger zerolog.Logger) StudentService {
	return &studentService{
		repo:          repo,
		validator:     validate,
		storage:       storage,
		retryCfg:      retryCfg,
		uploadTimeout: uploadTimeout,
		logger:        logger.With().Str("component", "student_service").Logger(),
		now:           time.Now,
	}
}

func (s *studentService) Register(ctx context.Context, payload dto.StudentRegisterRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	dob, err := time.Parse("2006-01-02", payload.DateOfBirth)
	if err != nil {
		return dto.StudentResponse{}, apperr.Validation("date_of_birth", "must be a valid date")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		Name:              strings.TrimSpace(payload.Name),
		Email:             strings.ToLower(strings.TrimSpace(payload.Email)),
		PasswordHash:      string(hash),
		Mobile:            payload.Mobile,
		Gender:            payload.Gender,
		DateOfBirth:       dob,
		BloodGroup:        payload.BloodGroup,
		VerificationToken: uuid.NewString(),
		LocalAddress:      datatypes.NewJSONType(payload.LocalAddress.ToModel()),
		PermanentAddress:  datatypes.NewJSONType(payload.PermanentAddress.ToModel()),
	}

	for attempt := 1; ; attempt++ {
		roll, err := s.nextRollNumber(ctx)
		if err != nil {
			return dto.StudentResponse{}, err
		}
		student.RollNumber = roll

		err = s.repo.Create(ctx, &student)
		if err == nil {
			break
		}
		// A duplicate roll means a concurrent registration claimed the
		// number first; re-derive and retry. A duplicate email keeps
		// failing and falls through as the conflict it is.
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < rollNumberAttempts {
			continue
		}
		return dto.StudentResponse{}, translateConflict(err, "student email or roll number")
	}

	s.logger.Info().Uint("student_id", student.ID).Str("roll_number", student.RollNumber).Msg("student registered")

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) VerifyEmail(ctx context.Context, token string) (dto.StudentResponse, error) {
	if strings.TrimSpace(token) == "" {
		return dto.StudentResponse{}, ErrVerificationTokenInvalid
	}

	student, err := s.repo.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrVerificationTokenInvalid
		}
		return dto.StudentResponse{}, err
	}

	student.EmailVerified = true
	student.VerificationToken = ""
	if err := s.repo.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student email verified")

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Get(ctx context.Context, id uint) (dto.StudentResponse, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	if payload.Name != nil {
		student.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Mobile != nil {
		student.Mobile = *payload.Mobile
	}
	if payload.BloodGroup != nil {
		student.BloodGroup = *payload.BloodGroup
	}
	if payload.LocalAddress != nil {
		student.LocalAddress = datatypes.NewJSONType(payload.LocalAddress.ToModel())
	}
	if payload.PermanentAddress != nil {
		student.PermanentAddress = datatypes.NewJSONType(payload.PermanentAddress.ToModel())
	}

	if err := s.repo.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student profile updated")

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) UploadPhoto(ctx context.Context, id uint, file *multipart.FileHeader) (dto.StudentResponse, error) {
	if file == nil {
		return dto.StudentResponse{}, apperr.Validation("photo", "file is required")
	}

	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	payload, err := readUpload(file)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	if !strings.HasPrefix(mimetype.Detect(payload).String(), "image/") {
		return dto.StudentResponse{}, ErrPhotoTypeNotAllowed
	}

	stored, err := s.store(ctx, fmt.Sprintf("%s_photo", student.RollNumber), payload)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	if student.PhotoID != "" {
		// Old photo cleanup is best effort; the new photo already replaced it.
		if err := s.storage.Delete(ctx, student.PhotoID); err != nil {
			s.logger.Warn().Err(err).Str("photo_id", student.PhotoID).Msg("failed to delete previous photo")
		}
	}

	student.PhotoURL = stored.URL
	student.PhotoID = stored.ID
	if err := s.repo.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student photo updated")

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) List(ctx context.Context, filter repository.StudentFilter) ([]dto.StudentResponse, int64, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return dto.NewStudentResponseSlice(students), total, nil
}

func (s *studentService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	s.logger.Info().Uint("student_id", id).Msg("student deleted")
	return nil
}

func (s *studentService) store(ctx context.Context, name string, payload []byte) (cloudinary.StoredObject, error) {
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	cfg := s.retryCfg
	cfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		s.logger.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("photo upload failed, retrying")
	}

	var stored cloudinary.StoredObject
	err := retry.Do(ctx, cfg, func(ctx context.Context) error {
		result, err := s.storage.Store(ctx, name, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		stored = result
		return nil
	})
	if err != nil {
		return cloudinary.StoredObject{}, asTransportError(err)
	}

	return stored, nil
}

const rollNumberAttempts = 3

// nextRollNumber continues the year's sequence from the highest roll number
// on record, so deleted students never free a number for reuse.
func (s *studentService) nextRollNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("CIT%d", s.now().Year())

	last, err := s.repo.LastRollNumber(ctx, prefix)
	if err != nil {
		return "", err
	}

	sequence := 1
	if last != "" {
		parsed, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err != nil {
			return "", fmt.Errorf("malformed roll number %q: %w", last, err)
		}
		sequence = parsed + 1
	}

	return fmt.Sprintf("%s%04d", prefix, sequence), nil
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	payload, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return payload, nil
}
