package dto

// CreateBoardRequest creates a new board with the default column set.
type CreateBoardRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// UpdateBoardRequest updates board metadata. All fields are optional.
type UpdateBoardRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// CreateColumnRequest adds a column at the end of the board's column
// sequence.
type CreateColumnRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	WIPLimit int    `json:"wipLimit" binding:"omitempty,min=0"`
}

// UpdateColumnRequest updates column metadata. All fields are optional.
type UpdateColumnRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	WIPLimit *int    `json:"wipLimit" binding:"omitempty,min=0"`
}
