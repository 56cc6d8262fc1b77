package dto

import "github.com/BloggingApp/board-service/internal/model"

// PostsPage is the list envelope stored under posts:page=...:limit=...:search=... keys.
type PostsPage struct {
	Data     []*model.Post `json:"data"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	LastPage int           `json:"last_page"`
}

func NewPostsPage(posts []*model.Post, total int64, page int, limit int) PostsPage {
	if posts == nil {
		posts = []*model.Post{}
	}

	lastPage := 0
	if limit > 0 {
		lastPage = int((total + int64(limit) - 1) / int64(limit))
	}

	return PostsPage{
		Data:     posts,
		Total:    total,
		Page:     page,
		LastPage: lastPage,
	}
}
