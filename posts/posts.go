package posts

import (
	"log"
	"strings"

	"remedy/store"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Store *store.Store
}

// HandleListPosts returns every post, newest first. No pagination; the board
// is assumed small.
func (h *Handler) HandleListPosts(c *gin.Context) {
	posts, err := h.Store.ListPosts()
	if err != nil {
		log.Println("Error listing posts:", err)
		c.JSON(500, gin.H{"message": "Database error listing posts"})
		return
	}

	c.JSON(200, posts)
}

func (h *Handler) HandleCreatePost(c *gin.Context) {
	username, _ := c.Get("username") // From middleware

	var json struct {
		Content string `json:"content"`
	}

	if err := c.BindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": "Invalid request data"})
		return
	}

	content := strings.TrimSpace(json.Content)
	if content == "" {
		c.JSON(400, gin.H{"message": "Post content cannot be empty"})
		return
	}

	if err := h.Store.InsertPost(username.(string), content, store.Now()); err != nil {
		log.Println("Error inserting post:", err)
		c.JSON(500, gin.H{"message": "Database error inserting post"})
		return
	}

	c.JSON(200, gin.H{"message": "Post created"})
}
