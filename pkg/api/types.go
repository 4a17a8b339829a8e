package api

import "time"

// Every endpoint responds with one of these two envelopes. Clients key
// off the success flag; data and message are mutually exclusive.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CreateHistoryRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type CreateHistoryResponse struct {
	Id      uint   `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type History struct {
	Id        uint      `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type Profile struct {
	Id                uint    `json:"id"`
	Name              string  `json:"name"`
	ProfilePictureUrl *string `json:"profile_picture_url"`
}

// UpdateProfileRequest is decoded from multipart form values, hence the
// schema tags. The optional picture file travels outside this struct.
type UpdateProfileRequest struct {
	Name string `schema:"name"`
}

// ProfilePictureUrl is only set when the request carried a new picture;
// the handler does not re-fetch the row to echo a stale URL.
type UpdateProfileResponse struct {
	Name              string `json:"name"`
	ProfilePictureUrl string `json:"profile_picture_url,omitempty"`
}

type CreateFeedbackRequest struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

type CreateFeedbackResponse struct {
	Id      uint   `json:"id"`
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}
