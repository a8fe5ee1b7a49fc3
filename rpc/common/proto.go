package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ValentinKolb/aKV/lib/store"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	Slug      string `json:"slug,omitempty"`      // Used for: Get, Update, Delete, Favorite
	Page      int    `json:"page,omitempty"`      // Used for: List, ListByAuthor
	PageSize  int    `json:"pageSize,omitempty"`  // Used for: List, ListByAuthor
	Author    string `json:"author,omitempty"`    // Used for: ListByAuthor (author email)
	Favorited bool   `json:"favorited,omitempty"` // Used for: Favorite
	Value     []byte `json:"value,omitempty"`     // Serialized article payload (requests) or article/page (responses)

	// Response only fields
	Ok   bool          `json:"ok,omitempty"`   // Indicates a successful operation
	Err  string        `json:"err,omitempty"`  // Empty if no error, otherwise contains the error message
	Code store.RetCode `json:"code,omitempty"` // Store return code, set alongside Err so clients keep the error taxonomy

	// Meta information
	Meta []byte `json:"meta,omitempty"` // Unused, can be used for additional Adapters
}

// applyError copies an error into the response message. Store errors keep
// their return code across the wire; any other error becomes an internal error.
func applyError(msg *Message, err error) *Message {
	if err == nil {
		msg.Ok = true
		return msg
	}

	msg.Err = err.Error()

	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		msg.Code = storeErr.Code
	} else {
		msg.Code = store.RetCInternalError
	}
	return msg
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewListRequest creates a new List request
func NewListRequest(page, pageSize int) *Message {
	return &Message{
		MsgType:  MsgTArtList,
		Page:     page,
		PageSize: pageSize,
	}
}

// NewListResponse creates a new List response carrying a serialized page
func NewListResponse(value []byte, err error) *Message {
	return applyError(&Message{
		MsgType: MsgTArtList,
		Value:   value,
	}, err)
}

// NewListByAuthorRequest creates a new ListByAuthor request
func NewListByAuthorRequest(email string, page, pageSize int) *Message {
	return &Message{
		MsgType:  MsgTArtListByAuthor,
		Author:   email,
		Page:     page,
		PageSize: pageSize,
	}
}

// NewListByAuthorResponse creates a new ListByAuthor response carrying a serialized page
func NewListByAuthorResponse(value []byte, err error) *Message {
	return applyError(&Message{
		MsgType: MsgTArtListByAuthor,
		Value:   value,
	}, err)
}

// NewGetRequest creates a new Get request
func NewGetRequest(slug string) *Message {
	return &Message{
		MsgType: MsgTArtGet,
		Slug:    slug,
	}
}

// NewGetResponse creates a new Get response carrying a serialized article
func NewGetResponse(value []byte, err error) *Message {
	return applyError(&Message{
		MsgType: MsgTArtGet,
		Value:   value,
	}, err)
}

// NewCreateRequest creates a new Create request carrying a serialized create payload
func NewCreateRequest(value []byte) *Message {
	return &Message{
		MsgType: MsgTArtCreate,
		Value:   value,
	}
}

// NewCreateResponse creates a new Create response carrying the stored article
func NewCreateResponse(value []byte, err error) *Message {
	return applyError(&Message{
		MsgType: MsgTArtCreate,
		Value:   value,
	}, err)
}

// NewUpdateRequest creates a new Update request carrying a serialized update payload
func NewUpdateRequest(slug string, value []byte) *Message {
	return &Message{
		MsgType: MsgTArtUpdate,
		Slug:    slug,
		Value:   value,
	}
}

// NewUpdateResponse creates a new Update response carrying the updated article
func NewUpdateResponse(value []byte, err error) *Message {
	return applyError(&Message{
		MsgType: MsgTArtUpdate,
		Value:   value,
	}, err)
}

// NewDeleteRequest creates a new Delete request
func NewDeleteRequest(slug string) *Message {
	return &Message{
		MsgType: MsgTArtDelete,
		Slug:    slug,
	}
}

// NewDeleteResponse creates a new Delete response
func NewDeleteResponse(err error) *Message {
	return applyError(&Message{
		MsgType: MsgTArtDelete,
	}, err)
}

// NewFavoriteRequest creates a new Favorite request
func NewFavoriteRequest(slug string, favorited bool) *Message {
	return &Message{
		MsgType:   MsgTArtFavorite,
		Slug:      slug,
		Favorited: favorited,
	}
}

// NewFavoriteResponse creates a new Favorite response carrying the updated article
func NewFavoriteResponse(value []byte, err error) *Message {
	return applyError(&Message{
		MsgType: MsgTArtFavorite,
		Value:   value,
	}, err)
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
		Code:    store.RetCInternalError,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTArtList:
		return "list"
	case MsgTArtListByAuthor:
		return "listByAuthor"
	case MsgTArtGet:
		return "get"
	case MsgTArtCreate:
		return "create"
	case MsgTArtUpdate:
		return "update"
	case MsgTArtDelete:
		return "delete"
	case MsgTArtFavorite:
		return "favorite"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	// Convert string back to MessageType
	switch s {
	case "list":
		*t = MsgTArtList
	case "listByAuthor":
		*t = MsgTArtListByAuthor
	case "get":
		*t = MsgTArtGet
	case "create":
		*t = MsgTArtCreate
	case "update":
		*t = MsgTArtUpdate
	case "delete":
		*t = MsgTArtDelete
	case "favorite":
		*t = MsgTArtFavorite
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// IArticleStore operations

	MsgTArtList         // List a page of articles by recency
	MsgTArtListByAuthor // List a page of one author's articles
	MsgTArtGet          // Get an article by slug
	MsgTArtCreate       // Create a new article
	MsgTArtUpdate       // Apply a partial update to an article
	MsgTArtDelete       // Delete an article
	MsgTArtFavorite     // Set the favorite flag of an article
)
