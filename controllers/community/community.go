package communityController

import (
	"errors"
	"log"
	"time"

	"proconnect/database"
	"proconnect/entitlement"
	"proconnect/middleware"
	"proconnect/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetCommunities returns a paginated listing. Listings never carry posts,
// polls or passcodes regardless of the viewer.
func GetCommunities(c *fiber.Ctx) error {
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

	query := db.Model(&models.Community{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if isPrivate := c.Query("isPrivate"); isPrivate != "" {
		query = query.Where("is_private = ?", isPrivate == "true")
	}

	var total int64
	query.Count(&total)

	var communities []models.Community
	if err := query.
		Preload("Owner").
		Preload("Members").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&communities).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch communities!", nil)
	}

	previews := make([]*entitlement.CommunityPreview, 0, len(communities))
	for i := range communities {
		previews = append(previews, entitlement.NewCommunityPreview(&communities[i]))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Communities fetched successfully.", fiber.Map{
		"communities": previews,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// CreateCommunity creates a community; the creator becomes owner, moderator
// and first member
func CreateCommunity(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedCommunity").(*struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Image       string `json:"image"`
		IsPrivate   bool   `json:"isPrivate"`
		Passcode    string `json:"passcode"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// Duplicate names are a conflict, not a validation failure
	if err := db.Where("name = ?", reqData.Name).First(&models.Community{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Community with that name already exists!", nil)
	}

	community := models.Community{
		Name:        reqData.Name,
		Description: reqData.Description,
		Category:    reqData.Category,
		Image:       reqData.Image,
		IsPrivate:   reqData.IsPrivate,
		OwnerID:     userID,
	}
	// Passcode is stored iff the community is private
	if reqData.IsPrivate {
		community.Passcode = reqData.Passcode
	}

	tx := db.Begin()
	if err := tx.Create(&community).Error; err != nil {
		tx.Rollback()
		log.Printf("Error creating community: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create community!", nil)
	}
	if err := database.AppendModerator(tx, community.ID, userID); err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create community!", nil)
	}
	if err := database.AppendMember(tx, community.ID, userID); err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create community!", nil)
	}
	tx.Commit()

	created, err := database.FindCommunityByID(db, community.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create community!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Community created successfully.", entitlement.NewCommunityView(created))
}

// GetCommunity returns the community through the entitlement resolver: full
// projection for public communities and members, preview otherwise
func GetCommunity(c *fiber.Ctx) error {
	communityID := c.Locals("communityID").(uint)

	community, err := database.FindCommunityByID(database.Database.Db, communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.DenialResponse(c, &entitlement.Denial{Reason: entitlement.ReasonNotFound, Message: "Community not found"})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch community!", nil)
	}

	view := entitlement.ResolveCommunity(middleware.Viewer(c), community)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Community fetched successfully.", view)
}

// JoinCommunity adds the viewer to the member set after the entitlement
// check. The insert itself is idempotent, so a concurrent duplicate join
// still yields a single membership row.
func JoinCommunity(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	communityID := c.Locals("communityID").(uint)

	reqData := new(struct {
		Passcode string `json:"passcode"`
	})
	// Body is optional for public communities
	_ = c.BodyParser(reqData)

	db := database.Database.Db

	community, err := database.FindCommunityByID(db, communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.DenialResponse(c, &entitlement.Denial{Reason: entitlement.ReasonNotFound, Message: "Community not found"})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch community!", nil)
	}

	if denial := entitlement.CheckJoin(userID, community, reqData.Passcode); denial != nil {
		return middleware.DenialResponse(c, denial)
	}

	if err := database.AppendMember(db, community.ID, userID); err != nil {
		log.Printf("Error joining community: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to join community!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Successfully joined the community.", nil)
}

// CreatePost appends a post; members only
func CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	communityID := c.Locals("communityID").(uint)

	reqData, ok := c.Locals("validatedPost").(*models.Post)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	community, err := database.FindCommunityByID(db, communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.DenialResponse(c, &entitlement.Denial{Reason: entitlement.ReasonNotFound, Message: "Community not found"})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch community!", nil)
	}

	if denial := entitlement.CheckPost(userID, community); denial != nil {
		return middleware.DenialResponse(c, denial)
	}

	post := models.Post{
		CommunityID: community.ID,
		AuthorID:    userID,
		Content:     reqData.Content,
		Media:       reqData.Media,
	}
	if err := database.AppendPost(db, &post); err != nil {
		log.Printf("Error creating post: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create post!", nil)
	}

	var created models.Post
	if err := db.Preload("Author").Preload("Likes").Preload("Comments").First(&created, post.ID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create post!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Post created successfully.", created)
}

// AddComment appends a comment under a post; members only
func AddComment(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	communityID := c.Locals("communityID").(uint)
	postID, _ := c.ParamsInt("postId")

	reqData := new(struct {
		Content string `json:"content"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Content == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Comment content is required!", nil)
	}

	db := database.Database.Db

	community, err := database.FindCommunityByID(db, communityID)
	if err != nil {
		return middleware.DenialResponse(c, &entitlement.Denial{Reason: entitlement.ReasonNotFound, Message: "Community not found"})
	}

	if denial := entitlement.CheckPost(userID, community); denial != nil {
		return middleware.DenialResponse(c, denial)
	}

	var post models.Post
	if err := db.Where("id = ? AND community_id = ?", postID, community.ID).First(&post).Error; err != nil {
		return middleware.DenialResponse(c, &entitlement.Denial{Reason: entitlement.ReasonNotFound, Message: "Post not found"})
	}

	comment := models.Comment{PostID: post.ID, AuthorID: userID, Content: reqData.Content}
	if err := database.AppendComment(db, &comment); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add comment!", nil)
	}

	var created models.Comment
	db.Preload("Author").First(&created, comment.ID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Comment added successfully.", created)
}

// LikePost records a like on a post; members only, once per user
func LikePost(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	communityID := c.Locals("communityID").(uint)
	postID, _ := c.ParamsInt("postId")

	db := database.Database.Db

	community, err := database.FindCommunityByID(db, communityID)
	if err != nil {
		return middleware.DenialResponse(c, &entitlement.Denial{Reason: entitlement.ReasonNotFound, Message: "Community not found"})
	}

	if denial := entitlement.CheckPost(userID, community); denial != nil {
		return middleware.DenialResponse(c, denial)
	}

	var post models.Post
	if err := db.Where("id = ? AND community_id = ?", postID, community.ID).First(&post).Error; err != nil {
		return middleware.DenialResponse(c, &entitlement.Denial{Reason: entitlement.ReasonNotFound, Message: "Post not found"})
	}

	if err := database.AppendPostLike(db, post.ID, userID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to like post!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post liked.", nil)
}

// CreatePoll appends a poll with its options; members only
func CreatePoll(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	communityID := c.Locals("communityID").(uint)

	reqData, ok := c.Locals("validatedPoll").(*struct {
		Question  string     `json:"question"`
		Options   []string   `json:"options"`
		ExpiresAt *time.Time `json:"expiresAt"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	community, err := database.FindCommunityByID(db, communityID)
	if err != nil {
		return middleware.DenialResponse(c, &entitlement.Denial{Reason: entitlement.ReasonNotFound, Message: "Community not found"})
	}

	if denial := entitlement.CheckPost(userID, community); denial != nil {
		return middleware.DenialResponse(c, denial)
	}

	poll := models.Poll{
		CommunityID: community.ID,
		AuthorID:    userID,
		Question:    reqData.Question,
		ExpiresAt:   reqData.ExpiresAt,
	}
	for _, text := range reqData.Options {
		poll.Options = append(poll.Options, models.PollOption{Text: text})
	}

	if err := db.Create(&poll).Error; err != nil {
		log.Printf("Error creating poll: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create poll!", nil)
	}

	var created models.Poll
	db.Preload("Author").Preload("Options.Votes").First(&created, poll.ID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Poll created successfully.", created)
}

// VotePoll records a vote; members only, one vote per user per poll
func VotePoll(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	communityID := c.Locals("communityID").(uint)
	pollID, _ := c.ParamsInt("pollId")

	reqData := new(struct {
		OptionID uint `json:"optionId"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.OptionID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Option ID is required!", nil)
	}

	db := database.Database.Db

	community, err := database.FindCommunityByID(db, communityID)
	if err != nil {
		return middleware.DenialResponse(c, &entitlement.Denial{Reason: entitlement.ReasonNotFound, Message: "Community not found"})
	}

	var poll models.Poll
	if err := db.Preload("Options").Where("id = ? AND community_id = ?", pollID, community.ID).First(&poll).Error; err != nil {
		return middleware.DenialResponse(c, &entitlement.Denial{Reason: entitlement.ReasonNotFound, Message: "Poll not found"})
	}

	if denial := entitlement.CheckVote(userID, community, &poll, time.Now()); denial != nil {
		return middleware.DenialResponse(c, denial)
	}

	validOption := false
	for _, o := range poll.Options {
		if o.ID == reqData.OptionID {
			validOption = true
			break
		}
	}
	if !validOption {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid poll option!", nil)
	}

	if err := database.AppendPollVote(db, poll.ID, reqData.OptionID, userID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record vote!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Vote recorded.", nil)
}
