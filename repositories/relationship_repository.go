package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nexora-app/nexora_backend/config"
	"github.com/nexora-app/nexora_backend/models"
)

// Errors surfaced to controllers so they can map them onto status codes.
var (
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrUserNotFound     = errors.New("user not found")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
)

// RelationshipRepository owns the follow graph. The relationships collection
// is the authoritative record; the denormalized followers/following arrays on
// user documents are maintained alongside it for cheap profile reads.
type RelationshipRepository struct {
	relationships *mongo.Collection
	users         *mongo.Collection
}

func NewRelationshipRepository(db *mongo.Client) *RelationshipRepository {
	return &RelationshipRepository{
		relationships: config.GetCollection(db, "relationships"),
		users:         config.GetCollection(db, "users"),
	}
}

// Follow creates a follow edge from follower to target. The unique index on
// (followerId, followingId) makes concurrent duplicate follows race-safe: the
// second insert fails with a duplicate key error and maps to
// ErrAlreadyFollowing.
func (r *RelationshipRepository) Follow(followerID, targetID primitive.ObjectID) error {
	if followerID == targetID {
		return ErrSelfFollow
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := r.users.CountDocuments(ctx, bson.M{"_id": targetID})
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}

	edge := models.Relationship{
		ID:          primitive.NewObjectID(),
		FollowerID:  followerID,
		FollowingID: targetID,
		CreatedAt:   time.Now(),
	}
	if _, err := r.relationships.InsertOne(ctx, edge); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyFollowing
		}
		return err
	}

	// Denormalized lists; $addToSet keeps them consistent even if a past
	// partial failure left a stale entry behind.
	if _, err := r.users.UpdateOne(ctx, bson.M{"_id": targetID},
		bson.M{"$addToSet": bson.M{"followers": followerID}}); err != nil {
		return err
	}
	if _, err := r.users.UpdateOne(ctx, bson.M{"_id": followerID},
		bson.M{"$addToSet": bson.M{"following": targetID}}); err != nil {
		return err
	}

	return nil
}

// Unfollow removes the follow edge and prunes both denormalized lists.
func (r *RelationshipRepository) Unfollow(followerID, targetID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := r.relationships.DeleteOne(ctx, bson.M{
		"followerId":  followerID,
		"followingId": targetID,
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFollowing
	}

	if _, err := r.users.UpdateOne(ctx, bson.M{"_id": targetID},
		bson.M{"$pull": bson.M{"followers": followerID}}); err != nil {
		return err
	}
	if _, err := r.users.UpdateOne(ctx, bson.M{"_id": followerID},
		bson.M{"$pull": bson.M{"following": targetID}}); err != nil {
		return err
	}

	return nil
}

// IsFollowing reports whether follower has an edge to target.
func (r *RelationshipRepository) IsFollowing(followerID, targetID primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := r.relationships.CountDocuments(ctx, bson.M{
		"followerId":  followerID,
		"followingId": targetID,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListFollowers returns summaries of the users following userID, in edge
// insertion order.
func (r *RelationshipRepository) ListFollowers(userID primitive.ObjectID) ([]models.UserSummary, error) {
	return r.listEdgeUsers(userID, "followingId", "followerId")
}

// ListFollowing returns summaries of the users userID follows, in edge
// insertion order.
func (r *RelationshipRepository) ListFollowing(userID primitive.ObjectID) ([]models.UserSummary, error) {
	return r.listEdgeUsers(userID, "followerId", "followingId")
}

func (r *RelationshipRepository) listEdgeUsers(userID primitive.ObjectID, matchField, collectField string) ([]models.UserSummary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// ObjectIDs are time-ordered, so _id ascending is insertion order
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.relationships.Find(ctx, bson.M{matchField: userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var edges []models.Relationship
	if err := cursor.All(ctx, &edges); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(edges))
	for _, edge := range edges {
		if matchField == "followingId" {
			ids = append(ids, edge.FollowerID)
		} else {
			ids = append(ids, edge.FollowingID)
		}
	}

	summaries := make([]models.UserSummary, 0, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	userCursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer userCursor.Close(ctx)

	var users []models.User
	if err := userCursor.All(ctx, &users); err != nil {
		return nil, err
	}

	// The $in lookup gives no order; map back onto the edge order
	byID := make(map[primitive.ObjectID]models.UserSummary, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Summary()
	}
	for _, id := range ids {
		if summary, ok := byID[id]; ok {
			summaries = append(summaries, summary)
		}
	}
	return summaries, nil
}
