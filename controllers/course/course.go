package courseController

import (
	"errors"
	"log"
	"time"

	"proconnect/database"
	"proconnect/entitlement"
	"proconnect/middleware"
	"proconnect/models"
	"proconnect/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetCourses returns a paginated listing of published courses. Listings never
// carry content sections.
func GetCourses(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	query := db.Model(&models.Course{}).Where("is_published = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if isPaid := c.Query("isPaid"); isPaid != "" {
		query = query.Where("is_paid = ?", isPaid == "true")
	}
	if instructor := c.Query("instructor"); instructor != "" {
		query = query.Where("instructor_id = ?", instructor)
	}

	var total int64
	query.Count(&total)

	var courses []models.Course
	if err := query.
		Preload("Instructor").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	// Listings carry the instructor's public identity, never the raw record
	summaries := make([]*entitlement.CourseSummary, 0, len(courses))
	for i := range courses {
		summaries = append(summaries, entitlement.NewCourseSummary(&courses[i]))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", fiber.Map{
		"courses": summaries,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// CreateCourse creates a course with its nested sections and lessons; the
// creator becomes the instructor
func CreateCourse(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedCourse").(*models.Course)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	course := models.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		InstructorID: userID,
		Category:     reqData.Category,
		Image:        reqData.Image,
		Price:        reqData.Price,
		IsPaid:       reqData.IsPaid,
		IsPublished:  reqData.IsPublished,
		Content:      reqData.Content,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	created, err := database.FindCourseByID(database.Database.Db, course.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully.", entitlement.NewCourseView(created))
}

// GetCourse returns the course through the entitlement resolver: not-found
// for hidden drafts, full view for entitled viewers, preview otherwise
func GetCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	course, err := database.FindCourseByID(db, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.DenialResponse(c, &entitlement.Denial{Reason: entitlement.ReasonNotFound, Message: "Course not found"})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	viewer := middleware.Viewer(c)

	hasActiveSub := false
	if viewer != nil {
		hasActiveSub, err = database.HasActiveSubscription(db, *viewer, time.Now())
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
		}
	}

	view, denial := entitlement.ResolveCourse(viewer, course, hasActiveSub)
	if denial != nil {
		return middleware.DenialResponse(c, denial)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully.", view)
}

// EnrollInCourse adds the viewer to the student set. Payment for paid courses
// without a subscription is a placeholder side effect, never a blocker.
func EnrollInCourse(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	course, err := database.FindCourseByID(db, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.DenialResponse(c, &entitlement.Denial{Reason: entitlement.ReasonNotFound, Message: "Course not found"})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	hasActiveSub, err := database.HasActiveSubscription(db, userID, time.Now())
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	if denial := entitlement.CheckEnroll(userID, course, hasActiveSub); denial != nil {
		return middleware.DenialResponse(c, denial)
	}

	if course.IsPaid && !hasActiveSub {
		// Placeholder: notify the payment service, ignore the outcome
		go utils.NotifyPayment(userID, course.ID, course.Price)
	}

	if err := database.AppendStudent(db, course.ID, userID); err != nil {
		log.Printf("Error enrolling user %d in course %d: %v", userID, course.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Successfully enrolled in the course.", nil)
}

// AddReview appends a review from an enrolled student and recomputes the
// course rating
func AddReview(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	reqData, ok := c.Locals("validatedReview").(*struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	course, err := database.FindCourseByID(db, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.DenialResponse(c, &entitlement.Denial{Reason: entitlement.ReasonNotFound, Message: "Course not found"})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	if denial := entitlement.CheckReview(userID, course, reqData.Rating); denial != nil {
		return middleware.DenialResponse(c, denial)
	}

	review := models.Review{
		CourseID: course.ID,
		UserID:   userID,
		Rating:   reqData.Rating,
		Comment:  reqData.Comment,
	}
	if err := database.AppendReview(db, &review); err != nil {
		// A concurrent review from the same user can slip past the loaded
		// snapshot; the unique index is the authority
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.DenialResponse(c, &entitlement.Denial{Reason: entitlement.ReasonAlreadyReviewed, Message: "You have already reviewed this course"})
		}
		log.Printf("Error adding review: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add review!", nil)
	}

	var reviews []models.Review
	db.Preload("User").Where("course_id = ?", course.ID).Order("created_at DESC").Find(&reviews)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review added successfully.", reviews)
}
