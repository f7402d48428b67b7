package users

import (
	"database/sql"
	"log"
	"strings"

	"remedy/store"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Store        *store.Store
	Sessions     *Sessions
	CookieDomain string
}

func (h *Handler) HandleRegister(c *gin.Context) {
	var json struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.BindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": "Invalid request data"})
		return
	}

	if strings.TrimSpace(json.Username) == "" || strings.TrimSpace(json.Password) == "" {
		c.JSON(400, gin.H{"message": "Username and password are required"})
		return
	}

	// Existence check first; the primary key still backstops the race
	// between two concurrent registrations.
	exists, err := h.Store.UserExists(json.Username)
	if err != nil {
		c.JSON(500, gin.H{"message": "Database error checking username"})
		return
	}
	if exists {
		c.JSON(400, gin.H{"message": "Username is already taken"})
		return
	}

	// Password is stored verbatim, matching the historical contract.
	if err := h.Store.CreateUser(json.Username, json.Password); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.username") {
			c.JSON(400, gin.H{"message": "Username is already taken"})
			return
		}
		log.Println("Error inserting user:", err)
		c.JSON(500, gin.H{"message": "Database error inserting user"})
		return
	}

	c.JSON(200, gin.H{"message": "Registration successful"})
}

func (h *Handler) HandleLogin(c *gin.Context) {
	var json struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.BindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": "Invalid request data"})
		return
	}

	if strings.TrimSpace(json.Username) == "" || strings.TrimSpace(json.Password) == "" {
		c.JSON(400, gin.H{"message": "Username and password are required"})
		return
	}

	user, err := h.Store.GetUser(json.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(401, gin.H{"message": "Invalid credentials"})
			return
		}
		c.JSON(500, gin.H{"message": "Database error finding user"})
		return
	}

	if user.Password != json.Password {
		c.JSON(401, gin.H{"message": "Invalid credentials"})
		return
	}

	token := h.Sessions.Create(user.Username)
	h.setSessionCookie(c, token)

	c.JSON(200, gin.H{"message": "Login successful", "user": user.Username})
}

// HandleLogout is idempotent; a missing or stale cookie still logs out clean.
func (h *Handler) HandleLogout(c *gin.Context) {
	if token, err := c.Cookie(SessionCookieName); err == nil {
		h.Sessions.Destroy(token)
	}
	h.clearSessionCookie(c)
	c.JSON(200, gin.H{"message": "Logged out"})
}

func (h *Handler) HandleCheckLogin(c *gin.Context) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil {
		c.JSON(200, gin.H{"logged_in": false})
		return
	}

	username, exists := h.Sessions.Username(token)
	if !exists {
		c.JSON(200, gin.H{"logged_in": false})
		return
	}

	c.JSON(200, gin.H{"logged_in": true, "user": username})
}

func (h *Handler) HandleGetProfile(c *gin.Context) {
	username, _ := c.Get("username") // From middleware

	user, err := h.Store.GetUser(username.(string))
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(404, gin.H{"message": "User not found"})
			return
		}
		c.JSON(500, gin.H{"message": "Database error finding user"})
		return
	}

	// Password never leaves the server; the struct tag drops it.
	c.JSON(200, user)
}

func (h *Handler) HandleUpdateProfile(c *gin.Context) {
	username, _ := c.Get("username")

	var json struct {
		Password string `json:"password"`
		Email    string `json:"email"`
		Fullname string `json:"fullname"`
	}

	if err := c.BindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": "Invalid request data"})
		return
	}

	// Only the three profile fields are recognized; anything else in the
	// payload was already discarded by the bind.
	fields := map[string]string{}
	if json.Password != "" {
		fields["password"] = json.Password
	}
	if json.Email != "" {
		fields["email"] = json.Email
	}
	if json.Fullname != "" {
		fields["fullname"] = json.Fullname
	}

	if len(fields) == 0 {
		c.JSON(400, gin.H{"message": "No fields to update"})
		return
	}

	matched, err := h.Store.UpdateUser(username.(string), fields)
	if err != nil {
		log.Println("Error updating profile:", err)
		c.JSON(500, gin.H{"message": "Database error updating profile"})
		return
	}
	if matched == 0 {
		// A live session pointing at a missing user record.
		c.JSON(500, gin.H{"message": "Profile update failed"})
		return
	}

	c.JSON(200, gin.H{"message": "Profile updated"})
}
