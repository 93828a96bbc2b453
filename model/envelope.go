package model

import "encoding/json"

const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// Envelope wraps every resource response: {"status", "message", "data"}.
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// IsSuccess reports whether the envelope carries a SUCCESS status.
func (e Envelope) IsSuccess() bool {
	return e.Status == StatusSuccess
}

// HasData reports whether data is present and not JSON null.
func (e Envelope) HasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// Success builds a SUCCESS envelope around data.
func Success(message string, data any) (Envelope, error) {
	env := Envelope{Status: StatusSuccess, Message: message}
	if data == nil {
		return env, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	env.Data = raw
	return env, nil
}

// Failure builds an ERROR envelope.
func Failure(message string) Envelope {
	return Envelope{Status: StatusError, Message: message}
}

// Page is one page of a paged listing.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"` // Zero based
	Size          int   `json:"size"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// NewPage slices items into the page'th page of size elements.
func NewPage[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	total := len(items)
	totalPages := (total + size - 1) / size

	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	content := make([]T, end-start)
	copy(content, items[start:end])
	return Page[T]{
		Content:       content,
		TotalElements: int64(total),
		TotalPages:    totalPages,
		Number:        page,
		Size:          size,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}

// PageRequest selects a page of a listing. Zero values mean the server's defaults.
type PageRequest struct {
	Page int
	Size int
	Sort string // e.g. "createdAt,desc"
}
