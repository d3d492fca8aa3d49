package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForMarks(t *testing.T) {
	cases := []struct {
		marks int
		grade string
	}{
		{100, "A+"},
		{91, "A+"},
		{90, "A+"},
		{89, "A"},
		{80, "A"},
		{79, "B+"},
		{70, "B+"},
		{69, "B"},
		{60, "B"},
		{59, "C"},
		{55, "C"},
		{50, "C"},
		{49, "D"},
		{40, "D"},
		{39, "F"},
		{38, "F"},
		{0, "F"},
		{-5, "F"},
		{150, "A+"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.grade, ForMarks(tc.marks), "marks=%d", tc.marks)
	}
}
