package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Community is a topic group with embedded posts and polls. The passcode is
// only present when IsPrivate is true and never serialized.
type Community struct {
	gorm.Model
	Name        string               `json:"name" gorm:"unique;not null"`
	Description string               `json:"description" gorm:"not null"`
	Category    string               `json:"category" gorm:"not null"`
	Image       string               `json:"image"`
	IsPrivate   bool                 `json:"isPrivate" gorm:"default:false"`
	Passcode    string               `json:"-"`
	OwnerID     uint                 `json:"-" gorm:"index;not null"`
	Owner       User                 `json:"owner" gorm:"foreignKey:OwnerID"`
	Moderators  []CommunityModerator `json:"moderators" gorm:"foreignKey:CommunityID"`
	Members     []CommunityMember    `json:"members" gorm:"foreignKey:CommunityID"`
	Posts       []Post               `json:"posts" gorm:"foreignKey:CommunityID"`
	Polls       []Poll               `json:"polls" gorm:"foreignKey:CommunityID"`
}

// CommunityMember rows carry a composite unique index so a concurrent double
// join can never produce two memberships; the insert itself is the set guard.
type CommunityMember struct {
	gorm.Model
	CommunityID uint `json:"-" gorm:"uniqueIndex:idx_community_member;not null"`
	UserID      uint `json:"-" gorm:"uniqueIndex:idx_community_member;not null"`
	User        User `json:"user" gorm:"foreignKey:UserID"`
}

type CommunityModerator struct {
	gorm.Model
	CommunityID uint `json:"-" gorm:"uniqueIndex:idx_community_moderator;not null"`
	UserID      uint `json:"-" gorm:"uniqueIndex:idx_community_moderator;not null"`
	User        User `json:"user" gorm:"foreignKey:UserID"`
}

type Post struct {
	gorm.Model
	CommunityID uint           `json:"-" gorm:"index;not null"`
	AuthorID    uint           `json:"-" gorm:"index;not null"`
	Author      User           `json:"author" gorm:"foreignKey:AuthorID"`
	Content     string         `json:"content" gorm:"type:text;not null"`
	Media       datatypes.JSON `json:"media" gorm:"type:json"`
	Likes       []PostLike     `json:"likes" gorm:"foreignKey:PostID"`
	Comments    []Comment      `json:"comments" gorm:"foreignKey:PostID"`
}

type PostLike struct {
	gorm.Model
	PostID uint `json:"-" gorm:"uniqueIndex:idx_post_like;not null"`
	UserID uint `json:"userId" gorm:"uniqueIndex:idx_post_like;not null"`
}

type Comment struct {
	gorm.Model
	PostID   uint          `json:"-" gorm:"index;not null"`
	AuthorID uint          `json:"-" gorm:"index;not null"`
	Author   User          `json:"author" gorm:"foreignKey:AuthorID"`
	Content  string        `json:"content" gorm:"type:text;not null"`
	Likes    []CommentLike `json:"likes" gorm:"foreignKey:CommentID"`
}

type CommentLike struct {
	gorm.Model
	CommentID uint `json:"-" gorm:"uniqueIndex:idx_comment_like;not null"`
	UserID    uint `json:"userId" gorm:"uniqueIndex:idx_comment_like;not null"`
}

type Poll struct {
	gorm.Model
	CommunityID uint         `json:"-" gorm:"index;not null"`
	AuthorID    uint         `json:"-" gorm:"index;not null"`
	Author      User         `json:"author" gorm:"foreignKey:AuthorID"`
	Question    string       `json:"question" gorm:"not null"`
	ExpiresAt   *time.Time   `json:"expiresAt"`
	Options     []PollOption `json:"options" gorm:"foreignKey:PollID"`
}

type PollOption struct {
	gorm.Model
	PollID uint       `json:"-" gorm:"index;not null"`
	Text   string     `json:"text" gorm:"not null"`
	Votes  []PollVote `json:"votes" gorm:"foreignKey:PollOptionID"`
}

// PollVote is unique per poll, not per option: one vote per user per poll.
type PollVote struct {
	gorm.Model
	PollID       uint `json:"-" gorm:"uniqueIndex:idx_poll_vote;not null"`
	PollOptionID uint `json:"-" gorm:"index;not null"`
	UserID       uint `json:"userId" gorm:"uniqueIndex:idx_poll_vote;not null"`
}

// HasMember reports whether the user is in the loaded members list
func (c *Community) HasMember(userID uint) bool {
	for _, m := range c.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
