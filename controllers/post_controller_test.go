package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/nexora-app/nexora_backend/middleware"
)

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.v.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	return e
}

// newAuthedContext builds an echo context carrying the decoded claims the way
// the token gate stores them.
func newAuthedContext(e *echo.Echo, method, target, body string, userID primitive.ObjectID) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("claims", &middleware.JwtCustomClaims{
		UserID:   userID.Hex(),
		Username: "mara",
		Email:    "mara@example.com",
	})
	c.Set("userId", userID.Hex())
	c.Set("username", "mara")
	return c, rec
}

func startedCommands(mt *mtest.T, name string) []*event.CommandStartedEvent {
	var matched []*event.CommandStartedEvent
	for _, evt := range mt.GetAllStartedEvents() {
		if evt.CommandName == name {
			matched = append(matched, evt)
		}
	}
	return matched
}

func postDoc(postID, authorID primitive.ObjectID, likeCount int) bson.D {
	return bson.D{
		{Key: "_id", Value: postID},
		{Key: "userId", Value: authorID},
		{Key: "content", Value: "morning run #running"},
		{Key: "postType", Value: "text"},
		{Key: "likeCount", Value: likeCount},
	}
}

func TestLikePostTogglesOff(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("existing like is removed and counter decremented", func(mt *mtest.T) {
		userID := primitive.NewObjectID()
		postID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "nexora.posts", mtest.FirstBatch, postDoc(postID, userID, 3)),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "postId", Value: postID},
				{Key: "userId", Value: userID},
			}}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		pc := NewPostController(mt.Client)
		e := newTestEcho()
		c, rec := newAuthedContext(e, http.MethodPost, "/api/posts/"+postID.Hex()+"/like", "", userID)
		c.SetPath("/api/posts/:id/like")
		c.SetParamNames("id")
		c.SetParamValues(postID.Hex())

		require.NoError(mt, pc.LikePost(c))
		assert.Equal(mt, http.StatusOK, rec.Code)
		assert.Contains(mt, rec.Body.String(), `"liked":false`)

		updates := startedCommands(mt, "update")
		require.Len(mt, updates, 1)
		inc, err := updates[0].Command.LookupErr("updates", "0", "u", "$inc", "likeCount")
		require.NoError(mt, err)
		assert.Equal(mt, int64(-1), inc.AsInt64())
	})
}

func TestLikePostTogglesOn(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("absent like is inserted and counter incremented", func(mt *mtest.T) {
		userID := primitive.NewObjectID()
		postID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "nexora.posts", mtest.FirstBatch, postDoc(postID, userID, 0)),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		pc := NewPostController(mt.Client)
		e := newTestEcho()
		c, rec := newAuthedContext(e, http.MethodPost, "/api/posts/"+postID.Hex()+"/like", "", userID)
		c.SetPath("/api/posts/:id/like")
		c.SetParamNames("id")
		c.SetParamValues(postID.Hex())

		require.NoError(mt, pc.LikePost(c))
		assert.Equal(mt, http.StatusOK, rec.Code)
		assert.Contains(mt, rec.Body.String(), `"liked":true`)

		require.Len(mt, startedCommands(mt, "insert"), 1)
		updates := startedCommands(mt, "update")
		require.Len(mt, updates, 1)
		inc, err := updates[0].Command.LookupErr("updates", "0", "u", "$inc", "likeCount")
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), inc.AsInt64())
	})
}

func TestDeletePostForeignOwnerForbidden(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("other user's post is left untouched", func(mt *mtest.T) {
		callerID := primitive.NewObjectID()
		authorID := primitive.NewObjectID()
		postID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "nexora.posts", mtest.FirstBatch, postDoc(postID, authorID, 0)),
		)

		pc := NewPostController(mt.Client)
		e := newTestEcho()
		c, rec := newAuthedContext(e, http.MethodDelete, "/api/posts/"+postID.Hex(), "", callerID)
		c.SetPath("/api/posts/:id")
		c.SetParamNames("id")
		c.SetParamValues(postID.Hex())

		require.NoError(mt, pc.DeletePost(c))
		assert.Equal(mt, http.StatusForbidden, rec.Code)

		// No delete ever reached the store
		assert.Empty(mt, startedCommands(mt, "delete"))
	})
}

func TestListPostsPublicWithAuthors(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("global listing pages posts with author cards", func(mt *mtest.T) {
		authorID := primitive.NewObjectID()
		first := postDoc(primitive.NewObjectID(), authorID, 2)
		second := postDoc(primitive.NewObjectID(), authorID, 0)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "nexora.posts", mtest.FirstBatch, first, second),
			mtest.CreateCursorResponse(0, "nexora.users", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: authorID},
				{Key: "username", Value: "mara"},
				{Key: "displayName", Value: "Mara"},
			}),
		)

		pc := NewPostController(mt.Client)
		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/api/posts?page=1&limit=20", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(mt, pc.ListPosts(c))
		assert.Equal(mt, http.StatusOK, rec.Code)
		assert.Contains(mt, rec.Body.String(), `"username":"mara"`)

		// Newest-first sort went to the store
		finds := startedCommands(mt, "find")
		require.NotEmpty(mt, finds)
		sort, err := finds[0].Command.LookupErr("sort", "createdAt")
		require.NoError(mt, err)
		assert.Equal(mt, int64(-1), sort.AsInt64())
	})
}
