package entitlement

import (
	"time"

	"proconnect/models"
)

// Policy knobs flagged for product clarification. Both reproduce behavior the
// product currently wants, so they are named here instead of being buried in
// the filter and the enroll handler.
var (
	// FreePreviewOrder marks the lesson order value that is always visible
	// on a paid course, free flag or not. Every lesson sharing the value
	// within a section passes the filter.
	FreePreviewOrder = 1

	// EnforcePaymentOnEnroll blocks enrollment into paid courses without an
	// active subscription when true. Payment collection is a placeholder
	// today, so enrollment proceeds regardless.
	EnforcePaymentOnEnroll = false
)

// InstructorSummary is the identity shape nested in course projections
type InstructorSummary struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`
	Title  string `json:"title"`
}

// CourseView is the full single-course projection: instructor, enrolled
// students and all lesson content included.
type CourseView struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Instructor  InstructorSummary  `json:"instructor"`
	Category    string             `json:"category"`
	Image       string             `json:"image"`
	Price       float64            `json:"price"`
	IsPaid      bool               `json:"isPaid"`
	Content     []SectionView      `json:"content"`
	Students    []uint             `json:"students"`
	Rating      float64            `json:"rating"`
	Reviews     []ReviewView       `json:"reviews"`
	IsPublished bool               `json:"isPublished"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// CoursePreview is the redacted projection for a paid course seen without
// entitlement: no student list, no publish flag, lessons cut down to the
// free/preview set.
type CoursePreview struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Instructor  InstructorSummary `json:"instructor"`
	Category    string            `json:"category"`
	Image       string            `json:"image"`
	Price       float64           `json:"price"`
	IsPaid      bool              `json:"isPaid"`
	Content     []SectionView     `json:"content"`
	Rating      float64           `json:"rating"`
	Reviews     []ReviewView      `json:"reviews"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// CourseSummary is the listing projection: no sections, no students, and the
// instructor trimmed to the public identity shape.
type CourseSummary struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Instructor  InstructorSummary `json:"instructor"`
	Category    string            `json:"category"`
	Image       string            `json:"image"`
	Price       float64           `json:"price"`
	IsPaid      bool              `json:"isPaid"`
	Rating      float64           `json:"rating"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// NewCourseSummary builds the listing projection
func NewCourseSummary(c *models.Course) *CourseSummary {
	return &CourseSummary{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Instructor:  newInstructorSummary(&c.Instructor),
		Category:    c.Category,
		Image:       c.Image,
		Price:       c.Price,
		IsPaid:      c.IsPaid,
		Rating:      c.Rating,
		CreatedAt:   c.CreatedAt,
	}
}

type SectionView struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Lessons     []LessonView `json:"lessons"`
}

type LessonView struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Duration    int    `json:"duration"`
	VideoURL    string `json:"videoUrl"`
	Content     string `json:"content"`
	IsFree      bool   `json:"isFree"`
	Order       int    `json:"order"`
}

// ResolveCourse decides how much of the course the viewer may see, given the
// caller-resolved subscription state. Unpublished courses are hidden as
// not-found from everyone but the instructor, leaking neither existence nor
// content. Free courses are fully visible; paid ones require the viewer to be
// the instructor, enrolled, or actively subscribed, and otherwise fall back
// to the preview projection.
func ResolveCourse(viewer *uint, c *models.Course, hasActiveSub bool) (interface{}, *Denial) {
	isInstructor := viewer != nil && *viewer == c.InstructorID

	if !c.IsPublished && !isInstructor {
		return nil, deny(ReasonNotFound, "Course not found")
	}

	if !c.IsPaid {
		return NewCourseView(c), nil
	}

	hasPurchased := viewer != nil && c.HasStudent(*viewer)
	if isInstructor || hasPurchased || (viewer != nil && hasActiveSub) {
		return NewCourseView(c), nil
	}

	return NewCoursePreview(c), nil
}

// CheckEnroll permits or denies enrollment. Payment for paid courses is an
// explicit no-op placeholder unless EnforcePaymentOnEnroll flips.
func CheckEnroll(viewer uint, c *models.Course, hasActiveSub bool) *Denial {
	if c.HasStudent(viewer) {
		return deny(ReasonAlreadyEnrolled, "You are already enrolled in this course")
	}
	if EnforcePaymentOnEnroll && c.IsPaid && !hasActiveSub {
		return deny(ReasonNotEnrolled, "Payment required to enroll in this course")
	}
	return nil
}

// CheckReview permits or denies a review: rating in range first (rejected
// before any mutation), then enrollment, then one-review-per-user.
func CheckReview(viewer uint, c *models.Course, rating int) *Denial {
	if rating < 1 || rating > 5 {
		return deny(ReasonRatingOutOfRange, "Rating must be between 1 and 5")
	}
	if !c.HasStudent(viewer) {
		return deny(ReasonNotEnrolled, "You must be enrolled in the course to leave a review")
	}
	if c.ReviewBy(viewer) != nil {
		return deny(ReasonAlreadyReviewed, "You have already reviewed this course")
	}
	return nil
}

// AverageRating is the arithmetic mean of the review ratings, 0 when empty
func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}

// NewCourseView builds the full projection
func NewCourseView(c *models.Course) *CourseView {
	view := &CourseView{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Instructor:  newInstructorSummary(&c.Instructor),
		Category:    c.Category,
		Image:       c.Image,
		Price:       c.Price,
		IsPaid:      c.IsPaid,
		Content:     make([]SectionView, 0, len(c.Content)),
		Students:    make([]uint, 0, len(c.Students)),
		Rating:      c.Rating,
		Reviews:     newReviewViews(c.Reviews),
		IsPublished: c.IsPublished,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	for i := range c.Content {
		view.Content = append(view.Content, newSectionView(&c.Content[i], nil))
	}
	for _, e := range c.Students {
		view.Students = append(view.Students, e.UserID)
	}
	return view
}

// NewCoursePreview builds the redacted projection. Sections are kept even
// when the filter empties them, so the outline of the course stays visible.
func NewCoursePreview(c *models.Course) *CoursePreview {
	view := &CoursePreview{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Instructor:  newInstructorSummary(&c.Instructor),
		Category:    c.Category,
		Image:       c.Image,
		Price:       c.Price,
		IsPaid:      c.IsPaid,
		Content:     make([]SectionView, 0, len(c.Content)),
		Rating:      c.Rating,
		Reviews:     newReviewViews(c.Reviews),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	for i := range c.Content {
		view.Content = append(view.Content, newSectionView(&c.Content[i], previewLesson))
	}
	return view
}

func previewLesson(l *models.Lesson) bool {
	return l.IsFree || l.Order == FreePreviewOrder
}

func newSectionView(s *models.ContentSection, keep func(*models.Lesson) bool) SectionView {
	view := SectionView{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Lessons:     make([]LessonView, 0, len(s.Lessons)),
	}
	for i := range s.Lessons {
		l := &s.Lessons[i]
		if keep != nil && !keep(l) {
			continue
		}
		view.Lessons = append(view.Lessons, LessonView{
			ID:          l.ID,
			Title:       l.Title,
			Description: l.Description,
			Type:        l.Type,
			Duration:    l.Duration,
			VideoURL:    l.VideoURL,
			Content:     l.Content,
			IsFree:      l.IsFree,
			Order:       l.Order,
		})
	}
	return view
}

func newInstructorSummary(u *models.User) InstructorSummary {
	return InstructorSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar, Bio: u.Bio, Title: u.Title}
}

type ReviewView struct {
	ID        uint               `json:"id"`
	User      models.UserSummary `json:"user"`
	Rating    int                `json:"rating"`
	Comment   string             `json:"comment"`
	CreatedAt time.Time          `json:"createdAt"`
}

func newReviewViews(reviews []models.Review) []ReviewView {
	views := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, ReviewView{
			ID:        r.ID,
			User:      r.User.Summary(),
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		})
	}
	return views
}
