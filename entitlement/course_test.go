package entitlement

import (
	"encoding/json"
	"testing"

	"proconnect/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func paidCourse() *models.Course {
	return &models.Course{
		Model:        gorm.Model{ID: 42},
		Title:        "Systems Design",
		Description:  "From zero to production",
		InstructorID: 10,
		Instructor:   userWithID(10),
		Category:     "engineering",
		Price:        29.99,
		IsPaid:       true,
		IsPublished:  true,
		Content: []models.ContentSection{
			{
				Model: gorm.Model{ID: 1},
				Title: "Basics",
				Lessons: []models.Lesson{
					{Title: "Intro", Type: models.LessonVideo, Order: 1, IsFree: false},
					{Title: "Setup", Type: models.LessonText, Order: 2, IsFree: true},
					{Title: "Deep dive", Type: models.LessonVideo, Order: 3, IsFree: false},
				},
			},
			{
				Model: gorm.Model{ID: 2},
				Title: "Advanced",
				Lessons: []models.Lesson{
					{Title: "Sharding", Type: models.LessonVideo, Order: 1, IsFree: false},
					{Title: "Also first", Type: models.LessonQuiz, Order: 1, IsFree: false},
					{Title: "Locked", Type: models.LessonAssignment, Order: 2, IsFree: false},
				},
			},
		},
		Students: []models.Enrollment{
			{CourseID: 42, UserID: 20},
		},
	}
}

func TestResolveCourseUnpublishedHiddenAsNotFound(t *testing.T) {
	c := paidCourse()
	c.IsPublished = false
	stranger := uint(99)
	student := uint(20)

	for name, viewer := range map[string]*uint{"anonymous": nil, "stranger": &stranger, "even enrolled student": &student} {
		t.Run(name, func(t *testing.T) {
			view, denial := ResolveCourse(viewer, c, false)
			assert.Nil(t, view)
			require.NotNil(t, denial)
			assert.Equal(t, ReasonNotFound, denial.Reason)
		})
	}

	// The instructor still sees their own draft
	instructor := uint(10)
	view, denial := ResolveCourse(&instructor, c, false)
	assert.Nil(t, denial)
	_, ok := view.(*CourseView)
	assert.True(t, ok)
}

func TestResolveCourseFreeIsFullForEveryone(t *testing.T) {
	c := paidCourse()
	c.IsPaid = false

	view, denial := ResolveCourse(nil, c, false)
	require.Nil(t, denial)
	full, ok := view.(*CourseView)
	require.True(t, ok)
	assert.Len(t, full.Content[0].Lessons, 3)
}

// Every lesson surviving the preview filter is free or carries the preview
// order; nothing failing both appears. Multiple lessons sharing order 1 in a
// section all pass.
func TestResolveCoursePreviewFilter(t *testing.T) {
	c := paidCourse()
	stranger := uint(99)

	for name, viewer := range map[string]*uint{"anonymous": nil, "unentitled": &stranger} {
		t.Run(name, func(t *testing.T) {
			view, denial := ResolveCourse(viewer, c, false)
			require.Nil(t, denial)
			preview, ok := view.(*CoursePreview)
			require.True(t, ok)

			require.Len(t, preview.Content, 2)
			for _, section := range preview.Content {
				for _, lesson := range section.Lessons {
					assert.True(t, lesson.IsFree || lesson.Order == FreePreviewOrder,
						"lesson %q leaked through the preview filter", lesson.Title)
				}
			}
			// Section 1: order-1 lesson + the free one
			assert.Len(t, preview.Content[0].Lessons, 2)
			// Section 2: both lessons sharing order 1 pass, the locked one does not
			assert.Len(t, preview.Content[1].Lessons, 2)
		})
	}
}

func TestCoursePreviewOmitsStudentsAndPublishFlag(t *testing.T) {
	c := paidCourse()

	view, denial := ResolveCourse(nil, c, false)
	require.Nil(t, denial)

	raw, err := json.Marshal(view)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "students")
	assert.NotContains(t, fields, "isPublished")
	assert.Contains(t, fields, "price")
	assert.Contains(t, fields, "rating")
}

func TestResolveCourseEntitledViewersGetFullContent(t *testing.T) {
	c := paidCourse()
	instructor := uint(10)
	student := uint(20)
	subscriber := uint(30)

	cases := []struct {
		name   string
		viewer *uint
		hasSub bool
	}{
		{"instructor", &instructor, false},
		{"enrolled student", &student, false},
		{"active subscriber", &subscriber, true},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			view, denial := ResolveCourse(tt.viewer, c, tt.hasSub)
			require.Nil(t, denial)
			full, ok := view.(*CourseView)
			require.True(t, ok, "%s should get the full view", tt.name)
			assert.Len(t, full.Content[0].Lessons, 3)
			assert.Len(t, full.Content[1].Lessons, 3)
		})
	}

	// A subscription flag means nothing without a viewer identity
	view, denial := ResolveCourse(nil, c, true)
	require.Nil(t, denial)
	_, isPreview := view.(*CoursePreview)
	assert.True(t, isPreview)
}

func TestFreePreviewOrderIsOverridable(t *testing.T) {
	original := FreePreviewOrder
	defer func() { FreePreviewOrder = original }()

	FreePreviewOrder = 2
	c := paidCourse()

	view, denial := ResolveCourse(nil, c, false)
	require.Nil(t, denial)
	preview := view.(*CoursePreview)

	// Section 1 now previews the free lesson (order 2, also the preview slot)
	require.Len(t, preview.Content[0].Lessons, 1)
	assert.Equal(t, "Setup", preview.Content[0].Lessons[0].Title)
}

func TestCheckEnroll(t *testing.T) {
	c := paidCourse()

	denial := CheckEnroll(20, c, false)
	require.NotNil(t, denial)
	assert.Equal(t, ReasonAlreadyEnrolled, denial.Reason)

	// Paid course, no subscription: enrollment proceeds, payment is a
	// placeholder side effect
	assert.Nil(t, CheckEnroll(99, c, false))

	// Flipping the policy gates paid enrollment on a subscription
	EnforcePaymentOnEnroll = true
	defer func() { EnforcePaymentOnEnroll = false }()
	denial = CheckEnroll(99, c, false)
	require.NotNil(t, denial)
	assert.Nil(t, CheckEnroll(99, c, true))
}

func TestCheckReview(t *testing.T) {
	c := paidCourse()
	c.Reviews = []models.Review{{CourseID: 42, UserID: 20, Rating: 5, Comment: "great"}}

	// Out-of-range rating is rejected before anything else, even for
	// viewers who could not review at all
	for _, rating := range []int{0, -1, 6, 100} {
		denial := CheckReview(99, c, rating)
		require.NotNil(t, denial)
		assert.Equal(t, ReasonRatingOutOfRange, denial.Reason)
	}

	denial := CheckReview(99, c, 4)
	require.NotNil(t, denial)
	assert.Equal(t, ReasonNotEnrolled, denial.Reason)

	denial = CheckReview(20, c, 4)
	require.NotNil(t, denial)
	assert.Equal(t, ReasonAlreadyReviewed, denial.Reason)

	c.Students = append(c.Students, models.Enrollment{CourseID: 42, UserID: 21})
	assert.Nil(t, CheckReview(21, c, 4))
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.Equal(t, 0.0, AverageRating([]models.Review{}))

	reviews := []models.Review{{Rating: 5}, {Rating: 3}, {Rating: 4}}
	assert.InDelta(t, 4.0, AverageRating(reviews), 1e-9)

	reviews = append(reviews, models.Review{Rating: 2})
	assert.InDelta(t, 3.5, AverageRating(reviews), 1e-9)

	assert.InDelta(t, 1.0/3.0*7.0, AverageRating([]models.Review{{Rating: 2}, {Rating: 2}, {Rating: 3}}), 1e-9)
}

func TestDenialStatusMapping(t *testing.T) {
	cases := map[Reason]int{
		ReasonNotFound:         404,
		ReasonInvalidPasscode:  401,
		ReasonNotMember:        403,
		ReasonNotEnrolled:      403,
		ReasonAlreadyMember:    400,
		ReasonAlreadyEnrolled:  400,
		ReasonAlreadyReviewed:  400,
		ReasonRatingOutOfRange: 400,
		ReasonPollExpired:      400,
	}
	for reason, want := range cases {
		d := &Denial{Reason: reason, Message: "m"}
		assert.Equal(t, want, d.Status(), "reason %s", reason)
	}
}
