package redisrepo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	POSTS_KEY      = "posts:page=%d:limit=%d:search=%s" // <page>:<limit>:<query or none>
	POSTS_PATTERN  = "posts:*"
	POST_KEY       = "post:%s" // <postID>
	USER_CACHE_KEY = "user:%s" // <userID>

	// SEARCH_NONE stands for an empty search in POSTS_KEY. A literal search for
	// it shares the key of the unfiltered list and must not be cached.
	SEARCH_NONE = "none"
)

const (
	POSTS_TTL      = time.Minute * 10
	POST_TTL       = time.Minute * 30
	USER_CACHE_TTL = time.Hour
)

func PostsKey(page int, limit int, search string) string {
	if search == "" {
		search = SEARCH_NONE
	}
	return fmt.Sprintf(POSTS_KEY, page, limit, search)
}

func PostKey(postID uuid.UUID) string {
	return fmt.Sprintf(POST_KEY, postID.String())
}

func UserCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf(USER_CACHE_KEY, userID.String())
}
