package database

import (
	"sync"
	"testing"
	"time"

	"proconnect/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDb(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive and serializes
	// concurrent writers
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	RunMigrations(db)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@example.com", Password: "secret-hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCommunity(t *testing.T, db *gorm.DB, owner *models.User) *models.Community {
	t.Helper()
	community := &models.Community{
		Name:        "Gophers " + time.Now().Format("150405.000000000"),
		Description: "desc",
		Category:    "tech",
		OwnerID:     owner.ID,
	}
	require.NoError(t, db.Create(community).Error)
	return community
}

func seedCourse(t *testing.T, db *gorm.DB, instructor *models.User) *models.Course {
	t.Helper()
	course := &models.Course{
		Title:        "Course",
		Description:  "desc",
		Category:     "tech",
		InstructorID: instructor.ID,
		IsPublished:  true,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

// A duplicate member append is a no-op, not an error and not a second row.
func TestAppendMemberIsIdempotent(t *testing.T) {
	db := testDb(t)
	owner := seedUser(t, db, "owner")
	member := seedUser(t, db, "member")
	community := seedCommunity(t, db, owner)

	require.NoError(t, AppendMember(db, community.ID, member.ID))
	require.NoError(t, AppendMember(db, community.ID, member.ID))

	var count int64
	db.Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", community.ID, member.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

// Concurrent joins for the same user resolve to exactly one membership row;
// the unique index closes the read-check race.
func TestAppendMemberConcurrentJoins(t *testing.T) {
	db := testDb(t)
	owner := seedUser(t, db, "owner")
	member := seedUser(t, db, "member")
	community := seedCommunity(t, db, owner)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = AppendMember(db, community.ID, member.ID)
		}()
	}
	wg.Wait()

	var count int64
	db.Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", community.ID, member.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAppendStudentIsIdempotent(t *testing.T) {
	db := testDb(t)
	instructor := seedUser(t, db, "instructor")
	student := seedUser(t, db, "student")
	course := seedCourse(t, db, instructor)

	require.NoError(t, AppendStudent(db, course.ID, student.ID))
	require.NoError(t, AppendStudent(db, course.ID, student.ID))

	var count int64
	db.Model(&models.Enrollment{}).
		Where("course_id = ? AND user_id = ?", course.ID, student.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

// AppendReview keeps Course.Rating equal to the mean of the stored ratings.
func TestAppendReviewRecomputesRating(t *testing.T) {
	db := testDb(t)
	instructor := seedUser(t, db, "instructor")
	course := seedCourse(t, db, instructor)

	ratings := []int{5, 3, 4}
	for i, rating := range ratings {
		reviewer := seedUser(t, db, "reviewer"+string(rune('a'+i)))
		require.NoError(t, AppendStudent(db, course.ID, reviewer.ID))
		require.NoError(t, AppendReview(db, &models.Review{
			CourseID: course.ID,
			UserID:   reviewer.ID,
			Rating:   rating,
			Comment:  "fine",
		}))
	}

	var updated models.Course
	require.NoError(t, db.First(&updated, course.ID).Error)
	assert.InDelta(t, 4.0, updated.Rating, 1e-9)
}

// A second review by the same user violates the unique index and leaves the
// rating untouched.
func TestAppendReviewRejectsDuplicate(t *testing.T) {
	db := testDb(t)
	instructor := seedUser(t, db, "instructor")
	reviewer := seedUser(t, db, "reviewer")
	course := seedCourse(t, db, instructor)

	require.NoError(t, AppendReview(db, &models.Review{
		CourseID: course.ID, UserID: reviewer.ID, Rating: 5, Comment: "great",
	}))

	// The translated sentinel is what handlers map to the conflict response
	err := AppendReview(db, &models.Review{
		CourseID: course.ID, UserID: reviewer.ID, Rating: 1, Comment: "changed my mind",
	})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var updated models.Course
	require.NoError(t, db.First(&updated, course.ID).Error)
	assert.InDelta(t, 5.0, updated.Rating, 1e-9)

	var count int64
	db.Model(&models.Review{}).Where("course_id = ?", course.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestHasActiveSubscription(t *testing.T) {
	db := testDb(t)
	user := seedUser(t, db, "subscriber")
	now := time.Now()

	ok, err := HasActiveSubscription(db, user.ID, now)
	require.NoError(t, err)
	assert.False(t, ok)

	sub := models.Subscription{
		UserID:    user.ID,
		Plan:      models.PlanMonthly,
		Status:    models.SubscriptionActive,
		StartDate: now.AddDate(0, -1, 0),
		EndDate:   now.AddDate(0, 0, 10),
	}
	require.NoError(t, db.Create(&sub).Error)

	ok, err = HasActiveSubscription(db, user.ID, now)
	require.NoError(t, err)
	assert.True(t, ok)

	// Canceled subscriptions grant nothing even before their end date
	require.NoError(t, db.Model(&sub).Update("status", models.SubscriptionCanceled).Error)
	ok, err = HasActiveSubscription(db, user.ID, now)
	require.NoError(t, err)
	assert.False(t, ok)

	// Expired-by-date subscriptions grant nothing even while marked active
	require.NoError(t, db.Model(&sub).Updates(map[string]interface{}{
		"status":   models.SubscriptionActive,
		"end_date": now.AddDate(0, 0, -1),
	}).Error)
	ok, err = HasActiveSubscription(db, user.ID, now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindCommunityByIDLoadsEmbeddedCollections(t *testing.T) {
	db := testDb(t)
	owner := seedUser(t, db, "owner")
	community := seedCommunity(t, db, owner)

	require.NoError(t, AppendMember(db, community.ID, owner.ID))
	require.NoError(t, AppendPost(db, &models.Post{
		CommunityID: community.ID,
		AuthorID:    owner.ID,
		Content:     "first",
	}))

	loaded, err := FindCommunityByID(db, community.ID)
	require.NoError(t, err)
	assert.Equal(t, community.ID, loaded.ID)
	require.Len(t, loaded.Members, 1)
	assert.Equal(t, owner.ID, loaded.Members[0].UserID)
	require.Len(t, loaded.Posts, 1)
	assert.Equal(t, "first", loaded.Posts[0].Content)
	assert.Equal(t, owner.Name, loaded.Posts[0].Author.Name)
}
