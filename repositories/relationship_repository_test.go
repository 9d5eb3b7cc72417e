package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestFollowSelfRejected(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("self follow fails before touching the store", func(mt *mtest.T) {
		repo := NewRelationshipRepository(mt.Client)
		userID := primitive.NewObjectID()

		err := repo.Follow(userID, userID)
		assert.ErrorIs(mt, err, ErrSelfFollow)
		assert.Empty(mt, mt.GetAllStartedEvents())
	})
}

func TestFollowUnfollowRoundTrip(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("follow then unfollow restores the ledger", func(mt *mtest.T) {
		repo := NewRelationshipRepository(mt.Client)
		follower := primitive.NewObjectID()
		target := primitive.NewObjectID()

		// Follow: target exists, edge insert, both denormalized lists
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "nexora.users", mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)
		require.NoError(mt, repo.Follow(follower, target))

		// Unfollow: edge delete, both lists pulled
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)
		require.NoError(mt, repo.Unfollow(follower, target))

		// Second unfollow finds no edge
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)
		assert.ErrorIs(mt, repo.Unfollow(follower, target), ErrNotFollowing)
	})
}

func TestFollowDuplicateEdgeConflict(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate edge maps to ErrAlreadyFollowing", func(mt *mtest.T) {
		repo := NewRelationshipRepository(mt.Client)
		follower := primitive.NewObjectID()
		target := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "nexora.users", mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error",
			}),
		)

		assert.ErrorIs(mt, repo.Follow(follower, target), ErrAlreadyFollowing)
	})
}

func TestFollowMissingTarget(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("absent target maps to ErrUserNotFound", func(mt *mtest.T) {
		repo := NewRelationshipRepository(mt.Client)
		follower := primitive.NewObjectID()
		target := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "nexora.users", mtest.FirstBatch),
		)

		assert.ErrorIs(mt, repo.Follow(follower, target), ErrUserNotFound)
	})
}

func TestListFollowersPreservesEdgeOrder(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("summaries follow ledger insertion order", func(mt *mtest.T) {
		repo := NewRelationshipRepository(mt.Client)
		target := primitive.NewObjectID()
		first := primitive.NewObjectID()
		second := primitive.NewObjectID()

		edge := func(followerID primitive.ObjectID) bson.D {
			return bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "followerId", Value: followerID},
				{Key: "followingId", Value: target},
			}
		}
		user := func(id primitive.ObjectID, username string) bson.D {
			return bson.D{
				{Key: "_id", Value: id},
				{Key: "username", Value: username},
				{Key: "displayName", Value: username},
			}
		}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "nexora.relationships", mtest.FirstBatch, edge(first), edge(second)),
			// $in lookup answers in a different order than the edges
			mtest.CreateCursorResponse(0, "nexora.users", mtest.FirstBatch, user(second, "beta"), user(first, "alfa")),
		)

		followers, err := repo.ListFollowers(target)
		require.NoError(mt, err)
		require.Len(mt, followers, 2)
		assert.Equal(mt, "alfa", followers[0].Username)
		assert.Equal(mt, "beta", followers[1].Username)
	})
}
