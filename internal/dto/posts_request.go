package dto

type CreatePostRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=100"`
	Content  string `json:"content" binding:"required,min=1"`
	IsPublic *bool  `json:"is_public"`
}

type GetPostsRequest struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
	Search string `form:"search"`
}

type EditPostRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=100"`
	Content  *string `json:"content" binding:"omitempty,min=1"`
	IsPublic *bool   `json:"is_public"`
}
