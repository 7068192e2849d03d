package communityRoutes

import (
	controllers "proconnect/controllers/community"
	"proconnect/middleware"
	validators "proconnect/validators/community"

	"github.com/gofiber/fiber/v2"
)

// SetupCommunityRoutes sets up community, post and poll routes. Single-
// community reads allow anonymous viewers; the resolver redacts instead.
func SetupCommunityRoutes(app *fiber.App) {
	communityGroup := app.Group("/api/communities")

	communityGroup.Get("/", controllers.GetCommunities)
	communityGroup.Post("/", middleware.JWTMiddleware, validators.CreateCommunity(), controllers.CreateCommunity)
	communityGroup.Get("/:id", middleware.OptionalJWT, validators.CommunityID(), controllers.GetCommunity)
	communityGroup.Post("/:id/join", middleware.JWTMiddleware, validators.CommunityID(), controllers.JoinCommunity)

	communityGroup.Post("/:id/posts", middleware.JWTMiddleware, validators.CommunityID(), validators.CreatePost(), controllers.CreatePost)
	communityGroup.Post("/:id/posts/:postId/comments", middleware.JWTMiddleware, validators.CommunityID(), controllers.AddComment)
	communityGroup.Post("/:id/posts/:postId/like", middleware.JWTMiddleware, validators.CommunityID(), controllers.LikePost)

	communityGroup.Post("/:id/polls", middleware.JWTMiddleware, validators.CommunityID(), validators.CreatePoll(), controllers.CreatePoll)
	communityGroup.Post("/:id/polls/:pollId/vote", middleware.JWTMiddleware, validators.CommunityID(), controllers.VotePoll)
}
