package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"remedy/calendar"
	"remedy/db"
	"remedy/main/routes"
	"remedy/posts"
	"remedy/requests"
	"remedy/store"
	"remedy/users"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	dbName := os.Getenv("DB_FILE")
	if dbName == "" {
		dbName = "./remedy.db"
	}
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}
	cookieDomain := os.Getenv("COOKIE_DOMAIN")

	conn, err := db.InitSQLite(dbName)
	if err != nil {
		log.Fatal("Error opening database:", err)
	}
	defer db.CloseDB(conn)
	if err := db.EnsureSchema(conn); err != nil {
		log.Fatal("Error ensuring schema:", err)
	}

	r := gin.Default()

	// Credentialed CORS against an explicit origin allow-list.
	r.Use(routes.CORSMiddleware(strings.Split(allowedOrigins, ",")))

	documents := store.New(conn)
	userHandler := &users.Handler{Store: documents, Sessions: users.NewSessions(), CookieDomain: cookieDomain}
	postHandler := &posts.Handler{Store: documents}
	requestHandler := &requests.Handler{Store: documents}
	calendarHandler := &calendar.Handler{Store: documents}

	routes.SetupAPIRoutes(r, userHandler, postHandler, requestHandler, calendarHandler)

	server := &http.Server{Addr: ":" + port, Handler: r}

	go func() {
		log.Printf("Starting remedy backend on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down remedy backend...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
