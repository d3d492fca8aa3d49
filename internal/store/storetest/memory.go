// Package storetest provides in-memory store implementations for tests.
// They mirror the semantics of the Mongo-backed stores, including unique
// index behavior on user emails and student roll numbers.
package storetest

import (
	"context"
	"sync"
	"time"

	"github.com/rohith4dev/Student-management/internal/models"
	"github.com/rohith4dev/Student-management/internal/store"
)

type UserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: map[string]*models.User{}}
}

func (f *UserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *UserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

func (f *UserStore) Insert(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *UserStore) List(_ context.Context, limit int64) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := []models.User{}
	for _, u := range f.users {
		if int64(len(users)) >= limit {
			break
		}
		copied := *u
		copied.Password = ""
		users = append(users, copied)
	}
	return users, nil
}

func (f *UserStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *UserStore) UpdateRole(_ context.Context, id, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Role = role
	return nil
}

func (f *UserStore) UpdateByEmail(_ context.Context, email string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var target *models.User
	for _, u := range f.users {
		if u.Email == email {
			target = u
			break
		}
	}
	if target == nil {
		return store.ErrNotFound
	}
	if v, ok := fields["email"].(string); ok && v != target.Email {
		for _, u := range f.users {
			if u.Email == v {
				return store.ErrDuplicate
			}
		}
		target.Email = v
	}
	if v, ok := fields["name"].(string); ok {
		target.Name = v
	}
	if v, ok := fields["password"].(string); ok {
		target.Password = v
	}
	return nil
}

type StudentStore struct {
	mu       sync.Mutex
	students map[string]*models.Student
}

func NewStudentStore() *StudentStore {
	return &StudentStore{students: map[string]*models.Student{}}
}

func (f *StudentStore) FindByID(_ context.Context, id string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.students[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

func (f *StudentStore) FindByRoll(_ context.Context, roll string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.RollNumber == roll {
			copied := *s
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *StudentStore) Insert(_ context.Context, student *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.RollNumber == student.RollNumber {
			return store.ErrDuplicate
		}
	}
	copied := *student
	f.students[student.ID] = &copied
	return nil
}

func (f *StudentStore) List(_ context.Context, limit int64) ([]models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	students := []models.Student{}
	for _, s := range f.students {
		if int64(len(students)) >= limit {
			break
		}
		students = append(students, *s)
	}
	return students, nil
}

func (f *StudentStore) Update(_ context.Context, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return store.ErrNotFound
	}
	if v, ok := fields["roll_number"].(string); ok && v != s.RollNumber {
		for _, other := range f.students {
			if other.RollNumber == v {
				return store.ErrDuplicate
			}
		}
		s.RollNumber = v
	}
	if v, ok := fields["name"].(string); ok {
		s.Name = v
	}
	if v, ok := fields["stream"].(string); ok {
		s.Stream = v
	}
	if v, ok := fields["photo"].(string); ok {
		s.Photo = v
	}
	if v, ok := fields["current_semester"].(string); ok {
		s.CurrentSemester = v
	}
	if v, ok := fields["semester_results"].([]models.SemesterResult); ok {
		s.SemesterResults = v
	}
	if v, ok := fields["updated_at"].(time.Time); ok {
		s.UpdatedAt = v
	}
	if v, ok := fields["updated_by"].(string); ok {
		s.UpdatedBy = v
	}
	return nil
}

func (f *StudentStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.students[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.students, id)
	return nil
}

// ActivitySink records audit entries in memory. Set FailInsert to make
// writes fail.
type ActivitySink struct {
	mu         sync.Mutex
	entries    []models.ActivityLog
	FailInsert error
}

func (f *ActivitySink) Insert(_ context.Context, entry *models.ActivityLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailInsert != nil {
		return f.FailInsert
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *ActivitySink) List(_ context.Context, limit int64) ([]models.ActivityLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	logs := []models.ActivityLog{}
	for i := len(f.entries) - 1; i >= 0 && int64(len(logs)) < limit; i-- {
		logs = append(logs, f.entries[i])
	}
	return logs, nil
}

// Actions returns the recorded action tags in insertion order.
func (f *ActivitySink) Actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	actions := make([]string, len(f.entries))
	for i, e := range f.entries {
		actions[i] = e.Action
	}
	return actions
}
