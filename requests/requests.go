package requests

import (
	"log"
	"strings"

	"remedy/store"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Store *store.Store
}

// HandleListRequests returns every help request with its embedded answers,
// newest request first.
func (h *Handler) HandleListRequests(c *gin.Context) {
	requests, err := h.Store.ListRequests()
	if err != nil {
		log.Println("Error listing requests:", err)
		c.JSON(500, gin.H{"message": "Database error listing requests"})
		return
	}

	c.JSON(200, requests)
}

func (h *Handler) HandleCreateRequest(c *gin.Context) {
	username, _ := c.Get("username") // From middleware

	var json struct {
		Anliegen     string `json:"anliegen"`
		Adresse      string `json:"adresse"`
		Telefon      string `json:"telefon"`
		Name         string `json:"name"`
		Datumzeit    string `json:"datumzeit"`
		Beschreibung string `json:"beschreibung"`
	}

	if err := c.BindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": "Invalid request data"})
		return
	}

	fields := []string{json.Anliegen, json.Adresse, json.Telefon, json.Name, json.Datumzeit, json.Beschreibung}
	for _, field := range fields {
		if strings.TrimSpace(field) == "" {
			c.JSON(400, gin.H{"message": "All fields are required"})
			return
		}
	}

	id, err := h.Store.InsertRequest(store.Request{
		Username:     username.(string),
		Anliegen:     json.Anliegen,
		Adresse:      json.Adresse,
		Telefon:      json.Telefon,
		Name:         json.Name,
		Datumzeit:    json.Datumzeit,
		Beschreibung: json.Beschreibung,
		Timestamp:    store.Now(),
	})
	if err != nil {
		log.Println("Error inserting request:", err)
		c.JSON(500, gin.H{"message": "Database error inserting request"})
		return
	}

	c.JSON(200, gin.H{"message": "Request created", "id": id})
}

func (h *Handler) HandleAddAnswer(c *gin.Context) {
	username, _ := c.Get("username")
	requestID := c.Param("id")

	var json struct {
		Content string `json:"content"`
	}

	if err := c.BindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": "Invalid request data"})
		return
	}

	content := strings.TrimSpace(json.Content)
	if content == "" {
		c.JSON(400, gin.H{"message": "Answer content cannot be empty"})
		return
	}

	if !store.ValidID(requestID) {
		c.JSON(400, gin.H{"message": "Invalid request id"})
		return
	}

	matched, err := h.Store.AppendAnswer(requestID, store.Answer{
		Username:  username.(string),
		Content:   content,
		Timestamp: store.Now(),
	})
	if err != nil {
		log.Println("Error appending answer:", err)
		c.JSON(500, gin.H{"message": "Database error appending answer"})
		return
	}
	if matched == 0 {
		c.JSON(404, gin.H{"message": "Request not found"})
		return
	}

	c.JSON(200, gin.H{"message": "Answer added"})
}
