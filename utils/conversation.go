// utils/conversation.go
package utils

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DirectConversationID derives the canonical conversation id for a pair of
// users. The ids are sorted so both participants derive the same value.
func DirectConversationID(a, b primitive.ObjectID) string {
	first, second := a.Hex(), b.Hex()
	if second < first {
		first, second = second, first
	}
	return fmt.Sprintf("direct-%s-%s", first, second)
}

// GroupConversationID derives the conversation id for a message group.
func GroupConversationID(groupID primitive.ObjectID) string {
	return "group-" + groupID.Hex()
}
