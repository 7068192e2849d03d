package database

import (
	"time"

	"proconnect/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store primitives used by the route handlers. Every append targets a single
// parent document; membership-style appends rely on the composite unique
// indexes (insert-if-absent) rather than the caller's read-check, which can
// race between two requests for the same user.

// FindCommunityByID loads a community with every embedded collection resolved
func FindCommunityByID(db *gorm.DB, id uint) (*models.Community, error) {
	var community models.Community
	err := db.
		Preload("Owner").
		Preload("Moderators.User").
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("community_members.created_at ASC")
		}).
		Preload("Members.User").
		Preload("Posts", func(db *gorm.DB) *gorm.DB {
			return db.Order("posts.created_at DESC")
		}).
		Preload("Posts.Author").
		Preload("Posts.Likes").
		Preload("Posts.Comments.Author").
		Preload("Posts.Comments.Likes").
		Preload("Polls.Author").
		Preload("Polls.Options.Votes").
		First(&community, id).Error
	if err != nil {
		return nil, err
	}
	return &community, nil
}

// FindCourseByID loads a course with sections, lessons, students and reviews
func FindCourseByID(db *gorm.DB, id uint) (*models.Course, error) {
	var course models.Course
	err := db.
		Preload("Instructor").
		Preload("Content", func(db *gorm.DB) *gorm.DB {
			return db.Order("content_sections.created_at ASC")
		}).
		Preload("Content.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.lesson_order ASC")
		}).
		Preload("Students").
		Preload("Reviews.User").
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// HasActiveSubscription reports whether the user holds an active subscription
// with an end date in the future
func HasActiveSubscription(db *gorm.DB, userID uint, now time.Time) (bool, error) {
	var count int64
	err := db.Model(&models.Subscription{}).
		Where("user_id = ? AND status = ? AND end_date > ?", userID, models.SubscriptionActive, now).
		Count(&count).Error
	return count > 0, err
}

// AppendMember adds the user to the community member set. Safe to call twice:
// the second insert hits the unique index and becomes a no-op.
func AppendMember(db *gorm.DB, communityID, userID uint) error {
	member := models.CommunityMember{CommunityID: communityID, UserID: userID}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&member).Error
}

// AppendModerator adds the user to the community moderator set, set-insert
func AppendModerator(db *gorm.DB, communityID, userID uint) error {
	moderator := models.CommunityModerator{CommunityID: communityID, UserID: userID}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&moderator).Error
}

// AppendPost appends a post under its community
func AppendPost(db *gorm.DB, post *models.Post) error {
	return db.Create(post).Error
}

// AppendComment appends a comment under its post
func AppendComment(db *gorm.DB, comment *models.Comment) error {
	return db.Create(comment).Error
}

// AppendPostLike records a like, set-insert per user per post
func AppendPostLike(db *gorm.DB, postID, userID uint) error {
	like := models.PostLike{PostID: postID, UserID: userID}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&like).Error
}

// AppendPollVote records a vote, set-insert per user per poll
func AppendPollVote(db *gorm.DB, pollID, optionID, userID uint) error {
	vote := models.PollVote{PollID: pollID, PollOptionID: optionID, UserID: userID}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "poll_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&vote).Error
}

// AppendStudent adds the user to the course enrollment set, set-insert
func AppendStudent(db *gorm.DB, courseID, userID uint) error {
	enrollment := models.Enrollment{CourseID: courseID, UserID: userID, Status: "ENROLLED"}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&enrollment).Error
}

// AppendReview appends a review and recomputes the course rating in the same
// transaction, keeping Course.Rating equal to the mean of its review ratings
func AppendReview(db *gorm.DB, review *models.Review) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		var avg float64
		if err := tx.Model(&models.Review{}).
			Where("course_id = ? AND deleted_at IS NULL", review.CourseID).
			Select("COALESCE(AVG(rating), 0)").
			Scan(&avg).Error; err != nil {
			return err
		}

		return tx.Model(&models.Course{}).
			Where("id = ?", review.CourseID).
			Update("rating", avg).Error
	})
}
