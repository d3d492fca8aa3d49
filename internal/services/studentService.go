package services

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rohith4dev/Student-management/internal/apperrors"
	"github.com/rohith4dev/Student-management/internal/audit"
	"github.com/rohith4dev/Student-management/internal/grading"
	"github.com/rohith4dev/Student-management/internal/models"
	"github.com/rohith4dev/Student-management/internal/store"
)

const studentListCap = 200

type studentStore interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByRoll(ctx context.Context, rollNumber string) (*models.Student, error)
	Insert(ctx context.Context, student *models.Student) error
	List(ctx context.Context, limit int64) ([]models.Student, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type photoMirror interface {
	Save(ctx context.Context, studentID, encoded string) error
	PresignedURL(ctx context.Context, studentID string) (string, error)
	Remove(ctx context.Context, studentID string) error
}

// StudentService owns the student CRUD and semester-grade operations. Every
// mutation is followed by one audit record attributed to the acting user.
type StudentService struct {
	students studentStore
	audit    *audit.Recorder
	photos   photoMirror
	validate *validator.Validate
	logger   *zap.Logger
}

func NewStudentService(students studentStore, recorder *audit.Recorder, photos photoMirror, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		students: students,
		audit:    recorder,
		photos:   photos,
		validate: validator.New(),
		logger:   logger,
	}
}

// Create inserts a new student with an empty result collection.
func (s *StudentService) Create(ctx context.Context, actor *models.User, req models.StudentCreateRequest) (*models.Student, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidArgument.Code, apperrors.ErrInvalidArgument.Status, "name, roll_number and stream are required")
	}
	if req.CurrentSemester == "" {
		req.CurrentSemester = "1"
	}

	if _, err := s.students.FindByRoll(ctx, req.RollNumber); err == nil {
		return nil, apperrors.Clone(apperrors.ErrConflict, "roll number already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to check roll number")
	}

	now := time.Now().UTC()
	student := &models.Student{
		ID:              uuid.NewString(),
		Name:            req.Name,
		RollNumber:      req.RollNumber,
		Stream:          req.Stream,
		Photo:           req.Photo,
		CurrentSemester: req.CurrentSemester,
		SemesterResults: []models.SemesterResult{},
		CreatedAt:       now,
		UpdatedAt:       now,
		UpdatedBy:       actor.Email,
	}
	if err := s.students.Insert(ctx, student); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.Clone(apperrors.ErrConflict, "roll number already exists")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to create student")
	}

	s.mirrorPhoto(ctx, student.ID, req.Photo)
	s.audit.Record(ctx, models.ActivityLog{
		Action:      models.ActionStudentCreated,
		UserEmail:   actor.Email,
		StudentID:   student.ID,
		StudentName: student.Name,
		Details:     map[string]any{"roll_number": student.RollNumber, "stream": student.Stream},
	})
	return student, nil
}

// List returns up to 200 students in store order.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	students, err := s.students.List(ctx, studentListCap)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to fetch students")
	}
	return students, nil
}

// Get returns one student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, "student not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to fetch student")
	}
	return student, nil
}

// Update applies only the fields present in the request and returns the
// merged record.
func (s *StudentService) Update(ctx context.Context, actor *models.User, id string, req models.StudentUpdateRequest) (*models.Student, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.RollNumber != nil {
		fields["roll_number"] = *req.RollNumber
	}
	if req.Stream != nil {
		fields["stream"] = *req.Stream
	}
	if req.Photo != nil {
		fields["photo"] = *req.Photo
	}
	if req.CurrentSemester != nil {
		fields["current_semester"] = *req.CurrentSemester
	}
	fields["updated_at"] = time.Now().UTC()
	fields["updated_by"] = actor.Email

	if err := s.students.Update(ctx, id, fields); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.Clone(apperrors.ErrConflict, "roll number already exists")
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, "student not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to update student")
	}

	if req.Photo != nil {
		s.mirrorPhoto(ctx, id, *req.Photo)
	}
	s.audit.Record(ctx, models.ActivityLog{
		Action:      models.ActionStudentUpdated,
		UserEmail:   actor.Email,
		StudentID:   id,
		StudentName: existing.Name,
		Details:     fields,
	})
	return s.Get(ctx, id)
}

// Delete removes a student record. Admin gating happens in the middleware.
func (s *StudentService) Delete(ctx context.Context, actor *models.User, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.Clone(apperrors.ErrNotFound, "student not found")
		}
		return apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to delete student")
	}

	if s.photos != nil && existing.Photo != "" {
		if err := s.photos.Remove(ctx, id); err != nil {
			s.logger.Warn("failed to remove student photo", zap.String("student_id", id), zap.Error(err))
		}
	}
	s.audit.Record(ctx, models.ActivityLog{
		Action:      models.ActionStudentDeleted,
		UserEmail:   actor.Email,
		StudentID:   id,
		StudentName: existing.Name,
		Details:     map[string]any{"roll_number": existing.RollNumber},
	})
	return nil
}

// UpdateSemesterSubjects replaces the result set for one semester. Grades
// are always recomputed from marks; a client-supplied grade is overwritten.
func (s *StudentService) UpdateSemesterSubjects(ctx context.Context, actor *models.User, id string, req models.SubjectsUpdateRequest) (*models.Student, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidArgument.Code, apperrors.ErrInvalidArgument.Status, "semester and subjects are required")
	}

	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	subjects := make([]models.Subject, len(req.Subjects))
	for i, sub := range req.Subjects {
		sub.Grade = grading.ForMarks(sub.Marks)
		subjects[i] = sub
	}

	now := time.Now().UTC()
	results := make([]models.SemesterResult, 0, len(student.SemesterResults)+1)
	for _, r := range student.SemesterResults {
		if r.Semester != req.Semester {
			results = append(results, r)
		}
	}
	results = append(results, models.SemesterResult{
		Semester:  req.Semester,
		Subjects:  subjects,
		CreatedAt: now,
	})

	fields := map[string]any{
		"semester_results": results,
		"updated_at":       now,
		"updated_by":       actor.Email,
	}
	if err := s.students.Update(ctx, id, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, "student not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to update subjects")
	}

	s.audit.Record(ctx, models.ActivityLog{
		Action:      models.ActionStudentSubjectsUpdated,
		UserEmail:   actor.Email,
		StudentID:   id,
		StudentName: student.Name,
		Details:     map[string]any{"semester": req.Semester, "subjects_count": len(subjects)},
	})

	student.SemesterResults = results
	student.UpdatedAt = now
	student.UpdatedBy = actor.Email
	return student, nil
}

// PhotoURL returns a short-lived download link for a student's photo.
func (s *StudentService) PhotoURL(ctx context.Context, id string) (string, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if s.photos == nil || student.Photo == "" {
		return "", apperrors.Clone(apperrors.ErrNotFound, "no photo available")
	}
	url, err := s.photos.PresignedURL(ctx, id)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to generate photo link")
	}
	return url, nil
}

// mirrorPhoto copies a base64 photo into object storage, best-effort.
func (s *StudentService) mirrorPhoto(ctx context.Context, studentID, encoded string) {
	if s.photos == nil || encoded == "" {
		return
	}
	if err := s.photos.Save(ctx, studentID, encoded); err != nil {
		s.logger.Warn("failed to mirror student photo", zap.String("student_id", studentID), zap.Error(err))
	}
}
