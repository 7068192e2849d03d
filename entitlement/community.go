// Package entitlement holds the visibility and access-control core: pure
// decisions over already-loaded documents. Nothing here touches the database
// or the transport; handlers fetch, this package decides, handlers respond.
package entitlement

import (
	"encoding/json"
	"time"

	"proconnect/models"
)

// CommunityView is the full single-community projection returned to members
// of a private community and to everyone for a public one. The passcode is
// stripped by construction: no projection type carries it.
type CommunityView struct {
	ID           uint                 `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Category     string               `json:"category"`
	Image        string               `json:"image"`
	Owner        models.UserSummary   `json:"owner"`
	Moderators   []models.UserSummary `json:"moderators"`
	Members      []models.UserSummary `json:"members"`
	IsPrivate    bool                 `json:"isPrivate"`
	MembersCount int                  `json:"membersCount"`
	Posts        []PostView           `json:"posts"`
	Polls        []PollView           `json:"polls"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// CommunityPreview is the redacted projection for a private community seen by
// an anonymous viewer or a non-member. No posts, no polls, no member list.
type CommunityPreview struct {
	ID           uint               `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Category     string             `json:"category"`
	Image        string             `json:"image"`
	Owner        models.UserSummary `json:"owner"`
	IsPrivate    bool               `json:"isPrivate"`
	MembersCount int                `json:"membersCount"`
}

type PostView struct {
	ID        uint               `json:"id"`
	Author    models.UserSummary `json:"author"`
	Content   string             `json:"content"`
	Media     json.RawMessage    `json:"media"`
	Likes     []uint             `json:"likes"`
	Comments  []CommentView      `json:"comments"`
	CreatedAt time.Time          `json:"createdAt"`
}

type CommentView struct {
	ID        uint               `json:"id"`
	Author    models.UserSummary `json:"author"`
	Content   string             `json:"content"`
	Likes     []uint             `json:"likes"`
	CreatedAt time.Time          `json:"createdAt"`
}

type PollView struct {
	ID        uint               `json:"id"`
	Author    models.UserSummary `json:"author"`
	Question  string             `json:"question"`
	Options   []PollOptionView   `json:"options"`
	ExpiresAt *time.Time         `json:"expiresAt"`
	CreatedAt time.Time          `json:"createdAt"`
}

type PollOptionView struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Votes []uint `json:"votes"`
}

// ResolveCommunity decides how much of the community the viewer may see.
// Public communities are fully visible to everyone; private ones are fully
// visible to members only, everyone else gets the preview shape.
func ResolveCommunity(viewer *uint, c *models.Community) interface{} {
	if !c.IsPrivate {
		return NewCommunityView(c)
	}
	if viewer != nil && c.HasMember(*viewer) {
		return NewCommunityView(c)
	}
	return NewCommunityPreview(c)
}

// CheckJoin permits or denies a join request. Private communities require the
// submitted passcode to string-equal the stored one, case-sensitive; a
// missing passcode fails the same way as a wrong one.
func CheckJoin(viewer uint, c *models.Community, passcode string) *Denial {
	if c.HasMember(viewer) {
		return deny(ReasonAlreadyMember, "You are already a member of this community")
	}
	if c.IsPrivate && passcode != c.Passcode {
		return deny(ReasonInvalidPasscode, "Invalid passcode")
	}
	return nil
}

// CheckPost permits or denies posting; membership is the only gate, since the
// privacy gate already applied at join time.
func CheckPost(viewer uint, c *models.Community) *Denial {
	if !c.HasMember(viewer) {
		return deny(ReasonNotMember, "You must be a member to post in this community")
	}
	return nil
}

// CheckVote permits or denies a poll vote: members only, and the poll must
// not be past its expiry.
func CheckVote(viewer uint, c *models.Community, poll *models.Poll, now time.Time) *Denial {
	if !c.HasMember(viewer) {
		return deny(ReasonNotMember, "You must be a member to vote in this community")
	}
	// The poll is visible in the projection, so expiry is a plain rejection
	// rather than the existence-hiding code
	if poll.ExpiresAt != nil && !poll.ExpiresAt.After(now) {
		return deny(ReasonPollExpired, "Poll has expired")
	}
	return nil
}

// NewCommunityView builds the full projection
func NewCommunityView(c *models.Community) *CommunityView {
	view := &CommunityView{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Category:     c.Category,
		Image:        c.Image,
		Owner:        c.Owner.Summary(),
		Moderators:   make([]models.UserSummary, 0, len(c.Moderators)),
		Members:      make([]models.UserSummary, 0, len(c.Members)),
		IsPrivate:    c.IsPrivate,
		MembersCount: len(c.Members),
		Posts:        make([]PostView, 0, len(c.Posts)),
		Polls:        make([]PollView, 0, len(c.Polls)),
		CreatedAt:    c.CreatedAt,
	}
	for _, m := range c.Moderators {
		view.Moderators = append(view.Moderators, m.User.Summary())
	}
	for _, m := range c.Members {
		view.Members = append(view.Members, m.User.Summary())
	}
	for i := range c.Posts {
		view.Posts = append(view.Posts, newPostView(&c.Posts[i]))
	}
	for i := range c.Polls {
		view.Polls = append(view.Polls, newPollView(&c.Polls[i]))
	}
	return view
}

// NewCommunityPreview builds the redacted projection. Both the anonymous and
// the non-member branches go through here, so the shape cannot drift.
func NewCommunityPreview(c *models.Community) *CommunityPreview {
	return &CommunityPreview{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Category:     c.Category,
		Image:        c.Image,
		Owner:        c.Owner.Summary(),
		IsPrivate:    c.IsPrivate,
		MembersCount: len(c.Members),
	}
}

func newPostView(p *models.Post) PostView {
	view := PostView{
		ID:        p.ID,
		Author:    p.Author.Summary(),
		Content:   p.Content,
		Media:     json.RawMessage(p.Media),
		Likes:     make([]uint, 0, len(p.Likes)),
		Comments:  make([]CommentView, 0, len(p.Comments)),
		CreatedAt: p.CreatedAt,
	}
	for _, l := range p.Likes {
		view.Likes = append(view.Likes, l.UserID)
	}
	for i := range p.Comments {
		view.Comments = append(view.Comments, newCommentView(&p.Comments[i]))
	}
	return view
}

func newCommentView(c *models.Comment) CommentView {
	view := CommentView{
		ID:        c.ID,
		Author:    c.Author.Summary(),
		Content:   c.Content,
		Likes:     make([]uint, 0, len(c.Likes)),
		CreatedAt: c.CreatedAt,
	}
	for _, l := range c.Likes {
		view.Likes = append(view.Likes, l.UserID)
	}
	return view
}

func newPollView(p *models.Poll) PollView {
	view := PollView{
		ID:        p.ID,
		Author:    p.Author.Summary(),
		Question:  p.Question,
		Options:   make([]PollOptionView, 0, len(p.Options)),
		ExpiresAt: p.ExpiresAt,
		CreatedAt: p.CreatedAt,
	}
	for _, o := range p.Options {
		optView := PollOptionView{ID: o.ID, Text: o.Text, Votes: make([]uint, 0, len(o.Votes))}
		for _, v := range o.Votes {
			optView.Votes = append(optView.Votes, v.UserID)
		}
		view.Options = append(view.Options, optView)
	}
	return view
}
