package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDirectConversationIDSymmetric(t *testing.T) {
	a, err := primitive.ObjectIDFromHex("64f000000000000000000001")
	require.NoError(t, err)
	b, err := primitive.ObjectIDFromHex("64f000000000000000000002")
	require.NoError(t, err)

	assert.Equal(t, DirectConversationID(a, b), DirectConversationID(b, a))
	assert.Equal(t, "direct-64f000000000000000000001-64f000000000000000000002", DirectConversationID(b, a))
}

func TestGroupConversationID(t *testing.T) {
	groupID, err := primitive.ObjectIDFromHex("64f0000000000000000000aa")
	require.NoError(t, err)
	assert.Equal(t, "group-64f0000000000000000000aa", GroupConversationID(groupID))
}
