package calendar

import (
	"log"
	"strings"

	"remedy/store"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Store *store.Store
}

// HandleListEvents returns only the caller's events; recurrence expansion is
// a client concern, the stored rows are the base occurrences.
func (h *Handler) HandleListEvents(c *gin.Context) {
	username, _ := c.Get("username") // From middleware

	events, err := h.Store.ListEvents(username.(string))
	if err != nil {
		log.Println("Error listing events:", err)
		c.JSON(500, gin.H{"message": "Database error listing events"})
		return
	}

	c.JSON(200, events)
}

func (h *Handler) HandleCreateEvent(c *gin.Context) {
	username, _ := c.Get("username")

	var json struct {
		Title         string `json:"title"`
		Start         string `json:"start"`
		End           string `json:"end"`
		Recurring     bool   `json:"recurring"`
		RecurringType string `json:"recurring_type"`
	}

	if err := c.BindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": "Invalid request data"})
		return
	}

	if strings.TrimSpace(json.Title) == "" || strings.TrimSpace(json.Start) == "" || strings.TrimSpace(json.End) == "" {
		c.JSON(400, gin.H{"message": "Title, start and end are required"})
		return
	}

	recurringType := json.RecurringType
	if !json.Recurring {
		recurringType = "none"
	}

	id, err := h.Store.InsertEvent(store.Event{
		Username:      username.(string),
		Title:         json.Title,
		Start:         json.Start,
		End:           json.End,
		Recurring:     json.Recurring,
		RecurringType: recurringType,
		Created:       store.Now(),
	})
	if err != nil {
		log.Println("Error inserting event:", err)
		c.JSON(500, gin.H{"message": "Database error inserting event"})
		return
	}

	c.JSON(200, gin.H{"message": "Event created", "id": id})
}

func (h *Handler) HandleDeleteEvent(c *gin.Context) {
	username, _ := c.Get("username")
	eventID := c.Param("id")

	if !store.ValidID(eventID) {
		c.JSON(400, gin.H{"message": "Invalid event id"})
		return
	}

	// Only the owner's row can match; someone else's event reads as missing.
	matched, err := h.Store.DeleteEvent(eventID, username.(string))
	if err != nil {
		log.Println("Error deleting event:", err)
		c.JSON(500, gin.H{"message": "Database error deleting event"})
		return
	}
	if matched == 0 {
		c.JSON(404, gin.H{"message": "Event not found"})
		return
	}

	c.JSON(200, gin.H{"message": "Event deleted"})
}
