package models

import "time"

// Audit action tags, one per mutating operation.
const (
	ActionUserRegistered         = "USER_REGISTERED"
	ActionUserLogin              = "USER_LOGIN"
	ActionStudentCreated         = "STUDENT_CREATED"
	ActionStudentUpdated         = "STUDENT_UPDATED"
	ActionStudentDeleted         = "STUDENT_DELETED"
	ActionStudentSubjectsUpdated = "STUDENT_SUBJECTS_UPDATED"
	ActionUserDeleted            = "USER_DELETED"
	ActionUserRoleUpdated        = "USER_ROLE_UPDATED"
	ActionProfileUpdated         = "PROFILE_UPDATED"
)

// ActivityLog is an append-only audit record; never updated or deleted.
type ActivityLog struct {
	ID          string         `bson:"_id" json:"id"`
	Action      string         `bson:"action" json:"action"`
	UserEmail   string         `bson:"user_email" json:"user_email"`
	StudentID   string         `bson:"student_id,omitempty" json:"student_id,omitempty"`
	StudentName string         `bson:"student_name,omitempty" json:"student_name,omitempty"`
	Details     map[string]any `bson:"details" json:"details"`
	Timestamp   time.Time      `bson:"timestamp" json:"timestamp"`
}
