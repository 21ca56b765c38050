package dto

// PageResponse is the envelope of every paginated list.
type PageResponse[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	NumberOfElements int   `json:"numberOfElements"`
	Empty            bool  `json:"empty"`
}

// NewPage builds a PageResponse for page number (zero-based) of the given size.
func NewPage[T any](content []T, total int64, number, size int) PageResponse[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return PageResponse[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Number:           number,
		Size:             size,
		First:            number == 0,
		Last:             number+1 >= totalPages,
		NumberOfElements: len(content),
		Empty:            len(content) == 0,
	}
}

// ListQuery carries the shared list parameters. Page is zero-based.
type ListQuery struct {
	Ativo *bool  `form:"ativo"`
	Page  int    `form:"page,default=0"`
	Size  int    `form:"size,default=10"`
	Sort  string `form:"sort"`
}

// StatusRequest is the body of PATCH /{id} toggles.
type StatusRequest struct {
	Ativo *bool `json:"ativo" validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
