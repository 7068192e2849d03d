package models

import "gorm.io/gorm"

// Lesson types
const (
	LessonVideo      = "video"
	LessonText       = "text"
	LessonQuiz       = "quiz"
	LessonAssignment = "assignment"
)

// Course is a marketplace item. IsPaid is the authority on gating, not Price:
// a zero-price paid course is valid (if odd) and still gated.
type Course struct {
	gorm.Model
	Title        string           `json:"title" gorm:"not null"`
	Description  string           `json:"description" gorm:"not null"`
	InstructorID uint             `json:"-" gorm:"index;not null"`
	Instructor   User             `json:"instructor" gorm:"foreignKey:InstructorID"`
	Category     string           `json:"category" gorm:"not null"`
	Image        string           `json:"image"`
	Price        float64          `json:"price" gorm:"default:0"`
	IsPaid       bool             `json:"isPaid" gorm:"default:false"`
	IsPublished  bool             `json:"isPublished" gorm:"default:false"`
	Rating       float64          `json:"rating" gorm:"default:0"`
	Content      []ContentSection `json:"content" gorm:"foreignKey:CourseID"`
	Students     []Enrollment     `json:"students" gorm:"foreignKey:CourseID"`
	Reviews      []Review         `json:"reviews" gorm:"foreignKey:CourseID"`
}

type ContentSection struct {
	gorm.Model
	CourseID    uint     `json:"-" gorm:"index;not null"`
	Title       string   `json:"title" gorm:"not null"`
	Description string   `json:"description"`
	Lessons     []Lesson `json:"lessons" gorm:"foreignKey:SectionID"`
}

// Lesson.Order is the position within its section only; it is not unique
// across sections and may repeat within one.
type Lesson struct {
	gorm.Model
	SectionID   uint   `json:"-" gorm:"index;not null"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	Type        string `json:"type" gorm:"not null"`
	Duration    int    `json:"duration" gorm:"default:0"`
	VideoURL    string `json:"videoUrl"`
	Content     string `json:"content" gorm:"type:text"`
	IsFree      bool   `json:"isFree" gorm:"default:false"`
	Order       int    `json:"order" gorm:"column:lesson_order;not null"`
}

// Review is unique per user per course; Course.Rating is the mean of all
// review ratings and is recomputed whenever the review set changes.
type Review struct {
	gorm.Model
	CourseID uint   `json:"-" gorm:"uniqueIndex:idx_course_review;not null"`
	UserID   uint   `json:"-" gorm:"uniqueIndex:idx_course_review;not null"`
	User     User   `json:"user" gorm:"foreignKey:UserID"`
	Rating   int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment  string `json:"comment" gorm:"type:text;not null"`
}

// Enrollment rows carry a composite unique index so a concurrent double
// enroll resolves to a single membership entry.
type Enrollment struct {
	gorm.Model
	CourseID uint   `json:"-" gorm:"uniqueIndex:idx_course_enrollment;not null"`
	UserID   uint   `json:"userId" gorm:"uniqueIndex:idx_course_enrollment;not null"`
	Status   string `json:"status" gorm:"default:'ENROLLED'"`
}

// HasStudent reports whether the user is in the loaded enrollment list
func (c *Course) HasStudent(userID uint) bool {
	for _, e := range c.Students {
		if e.UserID == userID {
			return true
		}
	}
	return false
}

// ReviewBy returns the user's review from the loaded review list, if any
func (c *Course) ReviewBy(userID uint) *Review {
	for i := range c.Reviews {
		if c.Reviews[i].UserID == userID {
			return &c.Reviews[i]
		}
	}
	return nil
}
