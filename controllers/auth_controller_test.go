package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"golang.org/x/crypto/bcrypt"

	"github.com/nexora-app/nexora_backend/middleware"
	"github.com/nexora-app/nexora_backend/models"
)

func newThrottleTestController() *AuthController {
	return &AuthController{
		logger: log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
		loginAttempts: make(map[string]struct {
			count       int
			lastAttempt time.Time
		}),
	}
}

func TestLoginThrottleKicksInAfterMaxAttempts(t *testing.T) {
	ac := newThrottleTestController()

	for i := 0; i < maxLoginAttempts; i++ {
		assert.False(t, ac.isThrottled("alice@example.com"))
		ac.recordFailedAttempt("alice@example.com")
	}
	assert.True(t, ac.isThrottled("alice@example.com"))

	// Other identifiers are unaffected
	assert.False(t, ac.isThrottled("bob@example.com"))
}

func TestLoginThrottleClearsOnSuccess(t *testing.T) {
	ac := newThrottleTestController()

	for i := 0; i < maxLoginAttempts; i++ {
		ac.recordFailedAttempt("alice@example.com")
	}
	assert.True(t, ac.isThrottled("alice@example.com"))

	ac.clearAttempts("alice@example.com")
	assert.False(t, ac.isThrottled("alice@example.com"))
}

func TestLoginThrottleExpiresAfterWindow(t *testing.T) {
	ac := newThrottleTestController()

	ac.loginAttempts["alice@example.com"] = struct {
		count       int
		lastAttempt time.Time
	}{
		count:       maxLoginAttempts,
		lastAttempt: time.Now().Add(-loginAttemptWindow - time.Minute),
	}

	assert.False(t, ac.isThrottled("alice@example.com"))
}

type authResponseBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	} `json:"data"`
}

func TestRegisterIssuesTokenMatchingUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("registration token claims match the created user", func(mt *mtest.T) {
		mt.Setenv("JWT_SECRET", "test-secret")

		mt.AddMockResponses(
			// Username/email not taken
			mtest.CreateCursorResponse(0, "nexora.users", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		ac := NewAuthController(mt.Client)
		e := newTestEcho()
		c, rec := newAuthedContext(e, http.MethodPost, "/api/auth/register",
			`{"username":"alice","email":"a@x.com","password":"pw123456","displayName":"Alice"}`,
			primitive.NewObjectID())

		require.NoError(mt, ac.Register(c))
		require.Equal(mt, http.StatusCreated, rec.Code)

		var body authResponseBody
		require.NoError(mt, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotEmpty(mt, body.Data.Token)
		assert.Empty(mt, body.Data.User.Password)

		claims, err := middleware.ParseToken(body.Data.Token)
		require.NoError(mt, err)
		assert.Equal(mt, body.Data.User.ID.Hex(), claims.UserID)
		assert.Equal(mt, "alice", claims.Username)
		assert.Equal(mt, "a@x.com", claims.Email)
	})
}

func TestLoginReturnsTokenWithUserClaims(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("login token embeds the stored identity", func(mt *mtest.T) {
		mt.Setenv("JWT_SECRET", "test-secret")

		userID := primitive.NewObjectID()
		hash, err := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
		require.NoError(mt, err)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "nexora.users", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: userID},
				{Key: "username", Value: "alice"},
				{Key: "email", Value: "a@x.com"},
				{Key: "password", Value: string(hash)},
			}),
		)

		ac := NewAuthController(mt.Client)
		e := newTestEcho()
		c, rec := newAuthedContext(e, http.MethodPost, "/api/auth/login",
			`{"email":"a@x.com","password":"pw123456"}`, userID)

		require.NoError(mt, ac.Login(c))
		require.Equal(mt, http.StatusOK, rec.Code)

		var body authResponseBody
		require.NoError(mt, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotEmpty(mt, body.Data.Token)
		assert.Empty(mt, body.Data.User.Password)

		claims, err := middleware.ParseToken(body.Data.Token)
		require.NoError(mt, err)
		assert.Equal(mt, userID.Hex(), claims.UserID)
		assert.Equal(mt, "alice", claims.Username)
		assert.Equal(mt, "a@x.com", claims.Email)
	})
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("hash mismatch gets the uniform rejection", func(mt *mtest.T) {
		mt.Setenv("JWT_SECRET", "test-secret")

		userID := primitive.NewObjectID()
		hash, err := bcrypt.GenerateFromPassword([]byte("something-else"), bcrypt.MinCost)
		require.NoError(mt, err)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "nexora.users", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: userID},
				{Key: "username", Value: "alice"},
				{Key: "email", Value: "a@x.com"},
				{Key: "password", Value: string(hash)},
			}),
		)

		ac := NewAuthController(mt.Client)
		e := newTestEcho()
		c, rec := newAuthedContext(e, http.MethodPost, "/api/auth/login",
			`{"email":"a@x.com","password":"pw123456"}`, userID)

		require.NoError(mt, ac.Login(c))
		assert.Equal(mt, http.StatusUnauthorized, rec.Code)
		assert.Contains(mt, rec.Body.String(), "Invalid email or password")
	})
}
