// Package store maps handler calls onto the sqlite-backed document tables.
// Record shapes are validated here, not by the database.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Fixed-width fraction keeps lexicographic order equal to time order.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

type User struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
}

type Post struct {
	Username  string `json:"username"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type Answer struct {
	Username  string `json:"username"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type Request struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Anliegen     string   `json:"anliegen"`
	Adresse      string   `json:"adresse"`
	Telefon      string   `json:"telefon"`
	Name         string   `json:"name"`
	Datumzeit    string   `json:"datumzeit"`
	Beschreibung string   `json:"beschreibung"`
	Timestamp    string   `json:"timestamp"`
	Answers      []Answer `json:"answers"`
}

type Event struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Title         string `json:"title"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Recurring     bool   `json:"recurring"`
	RecurringType string `json:"recurring_type"`
	Created       string `json:"created"`
}

type Store struct {
	conn *sql.DB
}

func New(conn *sql.DB) *Store {
	return &Store{conn: conn}
}

// Now returns the server-assigned timestamp for new records.
func Now() string {
	return time.Now().UTC().Format(timeLayout)
}

// ValidID reports whether id parses as a record identifier.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Store) GetUser(username string) (User, error) {
	var user User
	query := `SELECT username, password, email, fullname FROM users WHERE username = ?`
	err := s.conn.QueryRow(query, username).Scan(&user.Username, &user.Password, &user.Email, &user.Fullname)
	return user, err
}

func (s *Store) UserExists(username string) (bool, error) {
	var count int
	err := s.conn.QueryRow(`SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CreateUser(username string, password string) error {
	query := `INSERT INTO users (username, password) VALUES (?, ?)`
	_, err := s.conn.Exec(query, username, password)
	return err
}

// UpdateUser applies a partial update restricted to the profile columns and
// returns the number of matched rows.
func (s *Store) UpdateUser(username string, fields map[string]string) (int64, error) {
	setClause := ""
	var args []interface{}
	for _, column := range []string{"password", "email", "fullname"} {
		value, ok := fields[column]
		if !ok {
			continue
		}
		if setClause != "" {
			setClause += ", "
		}
		setClause += column + " = ?"
		args = append(args, value)
	}
	if setClause == "" {
		return 0, fmt.Errorf("no profile fields to update")
	}

	args = append(args, username)
	result, err := s.conn.Exec(`UPDATE users SET `+setClause+` WHERE username = ?`, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *Store) InsertPost(username string, content string, timestamp string) error {
	query := `INSERT INTO posts (username, content, timestamp) VALUES (?, ?, ?)`
	_, err := s.conn.Exec(query, username, content, timestamp)
	return err
}

func (s *Store) ListPosts() ([]Post, error) {
	rows, err := s.conn.Query(`SELECT username, content, timestamp FROM posts ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var post Post
		if err := rows.Scan(&post.Username, &post.Content, &post.Timestamp); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// InsertRequest stores a new help request with an empty answer list and
// returns the generated identifier.
func (s *Store) InsertRequest(request Request) (string, error) {
	id := uuid.NewString()
	query := `INSERT INTO requests (id, username, anliegen, adresse, telefon, name, datumzeit, beschreibung, timestamp, answers)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, '[]')`
	_, err := s.conn.Exec(query, id, request.Username, request.Anliegen, request.Adresse,
		request.Telefon, request.Name, request.Datumzeit, request.Beschreibung, request.Timestamp)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListRequests() ([]Request, error) {
	rows, err := s.conn.Query(`SELECT id, username, anliegen, adresse, telefon, name, datumzeit, beschreibung, timestamp, answers
	                           FROM requests ORDER BY timestamp DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []Request{}
	for rows.Next() {
		var request Request
		var answersJSON string
		err := rows.Scan(&request.ID, &request.Username, &request.Anliegen, &request.Adresse,
			&request.Telefon, &request.Name, &request.Datumzeit, &request.Beschreibung,
			&request.Timestamp, &answersJSON)
		if err != nil {
			return nil, err
		}
		request.Answers = []Answer{}
		if err := json.Unmarshal([]byte(answersJSON), &request.Answers); err != nil {
			return nil, fmt.Errorf("corrupt answers on request %s: %w", request.ID, err)
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// AppendAnswer pushes one answer onto the request's answer array in a single
// conditional update, so concurrent answers never clobber each other. The
// returned count is zero when no request matched the id.
func (s *Store) AppendAnswer(requestID string, answer Answer) (int64, error) {
	encoded, err := json.Marshal(answer)
	if err != nil {
		return 0, err
	}
	query := `UPDATE requests SET answers = json_insert(answers, '$[#]', json(?)) WHERE id = ?`
	result, err := s.conn.Exec(query, string(encoded), requestID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *Store) InsertEvent(event Event) (string, error) {
	id := uuid.NewString()
	query := `INSERT INTO events (id, username, title, start_time, end_time, recurring, recurring_type, created)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.conn.Exec(query, id, event.Username, event.Title, event.Start, event.End,
		event.Recurring, event.RecurringType, event.Created)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListEvents(username string) ([]Event, error) {
	rows, err := s.conn.Query(`SELECT id, username, title, start_time, end_time, recurring, recurring_type, created
	                           FROM events WHERE username = ? ORDER BY start_time ASC`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var event Event
		err := rows.Scan(&event.ID, &event.Username, &event.Title, &event.Start, &event.End,
			&event.Recurring, &event.RecurringType, &event.Created)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// DeleteEvent removes an event only when it belongs to username.
func (s *Store) DeleteEvent(id string, username string) (int64, error) {
	result, err := s.conn.Exec(`DELETE FROM events WHERE id = ? AND username = ?`, id, username)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
