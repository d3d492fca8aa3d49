package models

import "time"

type Subject struct {
	Name  string `bson:"name" json:"name" validate:"required"`
	Marks int    `bson:"marks" json:"marks"`
	Grade string `bson:"grade" json:"grade"`
}

// SemesterResult holds the graded subjects for one semester. A student keeps
// at most one result per semester label; resubmitting replaces the old one.
type SemesterResult struct {
	Semester  string    `bson:"semester" json:"semester"`
	Subjects  []Subject `bson:"subjects" json:"subjects"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type Student struct {
	ID              string           `bson:"_id" json:"id"`
	Name            string           `bson:"name" json:"name"`
	RollNumber      string           `bson:"roll_number" json:"roll_number"`
	Stream          string           `bson:"stream" json:"stream"`
	Photo           string           `bson:"photo,omitempty" json:"photo,omitempty"`
	CurrentSemester string           `bson:"current_semester" json:"current_semester"`
	SemesterResults []SemesterResult `bson:"semester_results" json:"semester_results"`
	CreatedAt       time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `bson:"updated_at" json:"updated_at"`
	UpdatedBy       string           `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}

type StudentCreateRequest struct {
	Name            string `json:"name" validate:"required"`
	RollNumber      string `json:"roll_number" validate:"required"`
	Stream          string `json:"stream" validate:"required"`
	Photo           string `json:"photo"`
	CurrentSemester string `json:"current_semester"`
}

// StudentUpdateRequest uses pointer fields so absent keys leave the stored
// values untouched.
type StudentUpdateRequest struct {
	Name            *string `json:"name"`
	RollNumber      *string `json:"roll_number"`
	Stream          *string `json:"stream"`
	Photo           *string `json:"photo"`
	CurrentSemester *string `json:"current_semester"`
}

type SubjectsUpdateRequest struct {
	Semester string    `json:"semester" validate:"required"`
	Subjects []Subject `json:"subjects" validate:"required,min=1,dive"`
}
