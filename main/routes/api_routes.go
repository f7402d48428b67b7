package routes

import (
	"time"

	"remedy/calendar"
	"remedy/posts"
	"remedy/requests"
	"remedy/users"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows credentialed cross-site requests from the listed
// client origins. It also answers OPTIONS preflights with an empty success
// before any auth middleware runs.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func SetupAPIRoutes(r *gin.Engine, u *users.Handler, p *posts.Handler, rq *requests.Handler, cal *calendar.Handler) {
	r.POST("/register", u.HandleRegister)
	r.POST("/login", u.HandleLogin)
	r.POST("/logout", u.HandleLogout)
	r.GET("/check-login", u.HandleCheckLogin)

	r.GET("/user", u.AuthMiddleware(), u.HandleGetProfile)
	r.PUT("/user", u.AuthMiddleware(), u.HandleUpdateProfile)

	r.GET("/posts", u.AuthMiddleware(), p.HandleListPosts)
	r.POST("/posts", u.AuthMiddleware(), p.HandleCreatePost)

	r.GET("/requests", u.AuthMiddleware(), rq.HandleListRequests)
	r.POST("/requests", u.AuthMiddleware(), rq.HandleCreateRequest)
	r.POST("/requests/:id/answers", u.AuthMiddleware(), rq.HandleAddAnswer)

	r.GET("/calendar", u.AuthMiddleware(), cal.HandleListEvents)
	r.POST("/calendar", u.AuthMiddleware(), cal.HandleCreateEvent)
	r.DELETE("/calendar/:id", u.AuthMiddleware(), cal.HandleDeleteEvent)
}
