package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohith4dev/Student-management/internal/apperrors"
	"github.com/rohith4dev/Student-management/internal/audit"
	"github.com/rohith4dev/Student-management/internal/models"
)

var actor = &models.User{ID: "u1", Email: "teacher@school.edu", Role: models.RoleUser}

func newStudentFixture() (*StudentService, *fakeStudentStore, *fakeActivitySink) {
	students := newFakeStudentStore()
	sink := &fakeActivitySink{}
	svc := NewStudentService(students, audit.NewRecorder(sink, nil), nil, nil)
	return svc, students, sink
}

func createStudent(t *testing.T, svc *StudentService, roll string) *models.Student {
	t.Helper()
	student, err := svc.Create(context.Background(), actor, models.StudentCreateRequest{
		Name:       "Bob",
		RollNumber: roll,
		Stream:     "CSE",
	})
	require.NoError(t, err)
	return student
}

func TestCreateStudent(t *testing.T) {
	svc, _, sink := newStudentFixture()
	student := createStudent(t, svc, "X1")

	assert.NotEmpty(t, student.ID)
	assert.Equal(t, "1", student.CurrentSemester, "semester defaults to 1")
	assert.NotNil(t, student.SemesterResults)
	assert.Empty(t, student.SemesterResults)
	assert.Equal(t, actor.Email, student.UpdatedBy)
	assert.Contains(t, sink.Actions(), models.ActionStudentCreated)

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, student.ID, listed[0].ID)
}

func TestCreateStudentDuplicateRoll(t *testing.T) {
	svc, _, _ := newStudentFixture()
	createStudent(t, svc, "X1")

	_, err := svc.Create(context.Background(), actor, models.StudentCreateRequest{
		Name: "Eve", RollNumber: "X1", Stream: "ECE",
	})
	require.Error(t, err)
	e := apperrors.FromError(err)
	assert.Equal(t, apperrors.ErrConflict.Code, e.Code)
	assert.Equal(t, 400, e.Status)
}

func TestUpdateStudentPartial(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newStudentFixture()
	student := createStudent(t, svc, "X1")

	newName := "Robert"
	updated, err := svc.Update(ctx, actor, student.ID, models.StudentUpdateRequest{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Robert", updated.Name)
	assert.Equal(t, "X1", updated.RollNumber, "unset fields stay untouched")
	assert.Equal(t, "CSE", updated.Stream)
	assert.Equal(t, actor.Email, updated.UpdatedBy)
}

func TestUpdateStudentNotFound(t *testing.T) {
	svc, _, _ := newStudentFixture()
	name := "X"
	_, err := svc.Update(context.Background(), actor, "missing", models.StudentUpdateRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.FromError(err).Status)
}

func TestUpdateSemesterSubjectsComputesGrades(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newStudentFixture()
	student := createStudent(t, svc, "X1")

	updated, err := svc.UpdateSemesterSubjects(ctx, actor, student.ID, models.SubjectsUpdateRequest{
		Semester: "2",
		Subjects: []models.Subject{
			{Name: "Maths", Marks: 91, Grade: "F"}, // client grade is ignored
			{Name: "Physics", Marks: 55},
			{Name: "Chemistry", Marks: 38},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.SemesterResults, 1)

	subjects := updated.SemesterResults[0].Subjects
	require.Len(t, subjects, 3)
	assert.Equal(t, "A+", subjects[0].Grade)
	assert.Equal(t, "C", subjects[1].Grade)
	assert.Equal(t, "F", subjects[2].Grade)
}

func TestUpdateSemesterSubjectsReplacesSameSemester(t *testing.T) {
	ctx := context.Background()
	svc, students, _ := newStudentFixture()
	student := createStudent(t, svc, "X1")

	_, err := svc.UpdateSemesterSubjects(ctx, actor, student.ID, models.SubjectsUpdateRequest{
		Semester: "1",
		Subjects: []models.Subject{{Name: "Maths", Marks: 80}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateSemesterSubjects(ctx, actor, student.ID, models.SubjectsUpdateRequest{
		Semester: "1",
		Subjects: []models.Subject{{Name: "History", Marks: 60}, {Name: "Art", Marks: 45}},
	})
	require.NoError(t, err)

	stored, err := students.FindByID(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, stored.SemesterResults, 1, "resubmission replaces, never appends")
	assert.Equal(t, "1", stored.SemesterResults[0].Semester)
	require.Len(t, stored.SemesterResults[0].Subjects, 2)
	assert.Equal(t, "History", stored.SemesterResults[0].Subjects[0].Name)
}

func TestUpdateSemesterSubjectsKeepsOtherSemesters(t *testing.T) {
	ctx := context.Background()
	svc, students, _ := newStudentFixture()
	student := createStudent(t, svc, "X1")

	_, err := svc.UpdateSemesterSubjects(ctx, actor, student.ID, models.SubjectsUpdateRequest{
		Semester: "1", Subjects: []models.Subject{{Name: "Maths", Marks: 80}},
	})
	require.NoError(t, err)
	_, err = svc.UpdateSemesterSubjects(ctx, actor, student.ID, models.SubjectsUpdateRequest{
		Semester: "2", Subjects: []models.Subject{{Name: "Physics", Marks: 70}},
	})
	require.NoError(t, err)

	stored, err := students.FindByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, stored.SemesterResults, 2)
}

func TestDeleteStudent(t *testing.T) {
	ctx := context.Background()
	svc, students, sink := newStudentFixture()
	student := createStudent(t, svc, "X1")

	require.NoError(t, svc.Delete(ctx, actor, student.ID))
	_, err := students.FindByID(ctx, student.ID)
	assert.Error(t, err)
	assert.Contains(t, sink.Actions(), models.ActionStudentDeleted)
}

func TestDeleteStudentNotFound(t *testing.T) {
	svc, _, _ := newStudentFixture()
	err := svc.Delete(context.Background(), actor, "missing")
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.FromError(err).Status)
}
