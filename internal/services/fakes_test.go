package services

import (
	"github.com/rohith4dev/Student-management/internal/store/storetest"
)

type (
	fakeUserStore    = storetest.UserStore
	fakeStudentStore = storetest.StudentStore
	fakeActivitySink = storetest.ActivitySink
)

func newFakeUserStore() *fakeUserStore       { return storetest.NewUserStore() }
func newFakeStudentStore() *fakeStudentStore { return storetest.NewStudentStore() }
