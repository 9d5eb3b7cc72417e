package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func commentDoc(commentID, postID, authorID primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: commentID},
		{Key: "postId", Value: postID},
		{Key: "userId", Value: authorID},
		{Key: "content", Value: "nice one"},
	}
}

func TestDeleteCommentDecrementsPostCounter(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("author delete removes comment and decrements counter", func(mt *mtest.T) {
		userID := primitive.NewObjectID()
		postID := primitive.NewObjectID()
		commentID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "nexora.comments", mtest.FirstBatch, commentDoc(commentID, postID, userID)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		cc := NewCommentController(mt.Client)
		e := newTestEcho()
		c, rec := newAuthedContext(e, http.MethodDelete, "/api/comments/"+commentID.Hex(), "", userID)
		c.SetPath("/api/comments/:id")
		c.SetParamNames("id")
		c.SetParamValues(commentID.Hex())

		require.NoError(mt, cc.DeleteComment(c))
		assert.Equal(mt, http.StatusOK, rec.Code)

		require.Len(mt, startedCommands(mt, "delete"), 1)
		updates := startedCommands(mt, "update")
		require.Len(mt, updates, 1)
		inc, err := updates[0].Command.LookupErr("updates", "0", "u", "$inc", "commentCount")
		require.NoError(mt, err)
		assert.Equal(mt, int64(-1), inc.AsInt64())
	})
}

func TestDeleteCommentMissingNotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("absent comment returns 404", func(mt *mtest.T) {
		userID := primitive.NewObjectID()
		commentID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "nexora.comments", mtest.FirstBatch),
		)

		cc := NewCommentController(mt.Client)
		e := newTestEcho()
		c, rec := newAuthedContext(e, http.MethodDelete, "/api/comments/"+commentID.Hex(), "", userID)
		c.SetPath("/api/comments/:id")
		c.SetParamNames("id")
		c.SetParamValues(commentID.Hex())

		require.NoError(mt, cc.DeleteComment(c))
		assert.Equal(mt, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteCommentForeignAuthorForbidden(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("post owner cannot delete someone else's comment", func(mt *mtest.T) {
		callerID := primitive.NewObjectID()
		authorID := primitive.NewObjectID()
		postID := primitive.NewObjectID()
		commentID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "nexora.comments", mtest.FirstBatch, commentDoc(commentID, postID, authorID)),
		)

		cc := NewCommentController(mt.Client)
		e := newTestEcho()
		c, rec := newAuthedContext(e, http.MethodDelete, "/api/comments/"+commentID.Hex(), "", callerID)
		c.SetPath("/api/comments/:id")
		c.SetParamNames("id")
		c.SetParamValues(commentID.Hex())

		require.NoError(mt, cc.DeleteComment(c))
		assert.Equal(mt, http.StatusForbidden, rec.Code)

		// Ownership is author-only; nothing was deleted
		assert.Empty(mt, startedCommands(mt, "delete"))
	})
}

func TestReactToCommentNonLikeIsNoOp(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("non-like reaction leaves the comment untouched", func(mt *mtest.T) {
		userID := primitive.NewObjectID()
		commentID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "nexora.comments", mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)

		cc := NewCommentController(mt.Client)
		e := newTestEcho()
		c, rec := newAuthedContext(e, http.MethodPost, "/api/comments/"+commentID.Hex()+"/react",
			`{"reactionType":"wow"}`, userID)
		c.SetPath("/api/comments/:id/react")
		c.SetParamNames("id")
		c.SetParamValues(commentID.Hex())

		require.NoError(mt, cc.ReactToComment(c))
		assert.Equal(mt, http.StatusOK, rec.Code)

		assert.Empty(mt, startedCommands(mt, "update"))
	})
}

func TestReactToCommentLikeIncrementsCounter(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("like reaction bumps likeCount", func(mt *mtest.T) {
		userID := primitive.NewObjectID()
		commentID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		cc := NewCommentController(mt.Client)
		e := newTestEcho()
		c, rec := newAuthedContext(e, http.MethodPost, "/api/comments/"+commentID.Hex()+"/react",
			`{"reactionType":"like"}`, userID)
		c.SetPath("/api/comments/:id/react")
		c.SetParamNames("id")
		c.SetParamValues(commentID.Hex())

		require.NoError(mt, cc.ReactToComment(c))
		assert.Equal(mt, http.StatusOK, rec.Code)

		updates := startedCommands(mt, "update")
		require.Len(mt, updates, 1)
		inc, err := updates[0].Command.LookupErr("updates", "0", "u", "$inc", "likeCount")
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), inc.AsInt64())
	})
}
