// Package grading maps numeric marks to letter grades.
package grading

// ForMarks returns the letter grade for a mark using inclusive lower bounds.
// Marks outside 0-100 are not rejected: anything below 40 is an F, anything
// at or above 90 is an A+.
func ForMarks(marks int) string {
	switch {
	case marks >= 90:
		return "A+"
	case marks >= 80:
		return "A"
	case marks >= 70:
		return "B+"
	case marks >= 60:
		return "B"
	case marks >= 50:
		return "C"
	case marks >= 40:
		return "D"
	default:
		return "F"
	}
}
