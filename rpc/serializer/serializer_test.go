package serializer

import (
	"reflect"
	"testing"

	"github.com/ValentinKolb/aKV/lib/store"
	"github.com/ValentinKolb/aKV/rpc/common"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON": NewJSONSerializer,
	"GOB":  NewGOBSerializer,
}

// testMessages creates a set of test messages with different fields filled
func testMessages() []common.Message {
	return []common.Message{
		// Basic message with just a type
		{MsgType: common.MsgTSuccess},

		// List request
		{
			MsgType:  common.MsgTArtList,
			Page:     2,
			PageSize: 10,
		},

		// ListByAuthor request
		{
			MsgType:  common.MsgTArtListByAuthor,
			Author:   "jane@example.com",
			Page:     1,
			PageSize: 20,
		},

		// Get response carrying a payload
		{
			MsgType: common.MsgTArtGet,
			Slug:    "abc123def456",
			Value:   []byte(`{"slug":"abc123def456"}`),
			Ok:      true,
		},

		// Favorite request
		{
			MsgType:   common.MsgTArtFavorite,
			Slug:      "abc123def456",
			Favorited: true,
		},

		// Error response with return code
		{
			MsgType: common.MsgTError,
			Err:     "test error message",
			Code:    store.RetCNotFound,
		},

		// Message with all fields filled
		{
			MsgType:   common.MsgTArtUpdate,
			Slug:      "abc123def456",
			Page:      1,
			PageSize:  5,
			Author:    "jane@example.com",
			Favorited: true,
			Value:     []byte("test-payload"),
			Ok:        true,
			Err:       "",
			Meta:      []byte("test-meta-data"),
		},
	}
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	messages := testMessages()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, msg := range messages {
				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message %d: %v", i, err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message %d: %v", i, err)
					continue
				}

				// Compare
				if !reflect.DeepEqual(msg, result) {
					t.Errorf("Message %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, msg, result)
				}
			}
		})
	}
}

// TestMessageTypes tests each message type with each serializer
func TestMessageTypes(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			// Test each message type (don't test for MsgTUnknown since this should raise an error)
			for msgType := common.MsgTSuccess; msgType <= common.MsgTArtFavorite; msgType++ {
				msg := common.Message{MsgType: msgType}

				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message type %s: %v", msgType.String(), err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message type %s: %v", msgType.String(), err)
					continue
				}

				// Check type
				if result.MsgType != msgType {
					t.Errorf("Message type doesn't match after round trip: Expected %s, got %s",
						msgType.String(), result.MsgType.String())
				}
			}
		})
	}
}

// TestInvalidData tests how the serializers handle corrupt input
func TestInvalidData(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			var msg common.Message
			if err := serializer.Deserialize([]byte("not a valid message"), &msg); err == nil {
				t.Error("Expected error for invalid data but got none")
			}
		})
	}
}
