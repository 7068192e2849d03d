package communityController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"proconnect/config"
	"proconnect/database"
	"proconnect/middleware"
	"proconnect/models"
	communityRoutes "proconnect/routers/communityRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	communityRoutes.SetupCommunityRoutes(app)
	return app
}

func createUser(t *testing.T, name string) (*models.User, string) {
	t.Helper()

	user := &models.User{Name: name, Email: name + "@example.com", Password: "not-a-real-hash"}
	require.NoError(t, database.Database.Db.Create(user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return user, token
}

func doJSON(t *testing.T, app *fiber.App, method, url, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, url, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

func TestPrivateCommunityFlow(t *testing.T) {
	app := setupApp(t)
	_, ownerToken := createUser(t, "owner")
	_, joinerToken := createUser(t, "joiner")

	// Owner creates a private community
	status, result := doJSON(t, app, http.MethodPost, "/api/communities", ownerToken, map[string]interface{}{
		"name":        "Secret Gophers",
		"description": "invite only",
		"category":    "tech",
		"isPrivate":   true,
		"passcode":    "xyz",
	})
	require.Equal(t, http.StatusCreated, status)
	created := result["data"].(map[string]interface{})
	communityID := created["id"].(float64)
	communityURL := "/api/communities/" + jsonID(communityID)

	// Anonymous read gets the redacted shape: no posts key at all
	status, result = doJSON(t, app, http.MethodGet, communityURL, "", nil)
	require.Equal(t, http.StatusOK, status)
	preview := result["data"].(map[string]interface{})
	assert.NotContains(t, preview, "posts")
	assert.NotContains(t, preview, "members")
	assert.Equal(t, float64(1), preview["membersCount"])

	// Wrong passcode is rejected as invalid_passcode with 401
	status, result = doJSON(t, app, http.MethodPost, communityURL+"/join", joinerToken, map[string]interface{}{
		"passcode": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid_passcode", result["reason"])

	// Missing passcode fails the same way
	status, result = doJSON(t, app, http.MethodPost, communityURL+"/join", joinerToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid_passcode", result["reason"])

	// Correct passcode joins and membership grows by one
	status, _ = doJSON(t, app, http.MethodPost, communityURL+"/join", joinerToken, map[string]interface{}{
		"passcode": "xyz",
	})
	require.Equal(t, http.StatusOK, status)

	status, result = doJSON(t, app, http.MethodGet, communityURL, joinerToken, nil)
	require.Equal(t, http.StatusOK, status)
	full := result["data"].(map[string]interface{})
	assert.Contains(t, full, "posts")
	assert.Equal(t, float64(2), full["membersCount"])

	// Joining twice is a conflict
	status, result = doJSON(t, app, http.MethodPost, communityURL+"/join", joinerToken, map[string]interface{}{
		"passcode": "xyz",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "already_member", result["reason"])
}

func TestPostingRequiresMembership(t *testing.T) {
	app := setupApp(t)
	_, ownerToken := createUser(t, "owner")
	_, outsiderToken := createUser(t, "outsider")

	status, result := doJSON(t, app, http.MethodPost, "/api/communities", ownerToken, map[string]interface{}{
		"name":        "Open Gophers",
		"description": "public",
		"category":    "tech",
	})
	require.Equal(t, http.StatusCreated, status)
	communityID := result["data"].(map[string]interface{})["id"].(float64)
	communityURL := "/api/communities/" + jsonID(communityID)

	// Even in a public community, posting needs membership
	status, result = doJSON(t, app, http.MethodPost, communityURL+"/posts", outsiderToken, map[string]interface{}{
		"content": "hello",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "not_member", result["reason"])

	// The owner is a member from creation
	status, result = doJSON(t, app, http.MethodPost, communityURL+"/posts", ownerToken, map[string]interface{}{
		"content": "welcome everyone",
		"media":   []string{"pic.png"},
	})
	require.Equal(t, http.StatusCreated, status)
	post := result["data"].(map[string]interface{})
	assert.Equal(t, "welcome everyone", post["content"])
}

func TestDuplicateCommunityNameRejected(t *testing.T) {
	app := setupApp(t)
	_, token := createUser(t, "owner")

	body := map[string]interface{}{
		"name":        "Gophers",
		"description": "first",
		"category":    "tech",
	}
	status, _ := doJSON(t, app, http.MethodPost, "/api/communities", token, body)
	require.Equal(t, http.StatusCreated, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/communities", token, body)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPrivateCommunityRequiresPasscodeAtCreation(t *testing.T) {
	app := setupApp(t)
	_, token := createUser(t, "owner")

	status, _ := doJSON(t, app, http.MethodPost, "/api/communities", token, map[string]interface{}{
		"name":        "No Passcode",
		"description": "broken",
		"category":    "tech",
		"isPrivate":   true,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func jsonID(id float64) string {
	return fmt.Sprintf("%d", uint(id))
}
