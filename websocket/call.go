package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"knovo/db"
	"knovo/models"
	"knovo/services"
	"knovo/utils"
)

var upgrader = websocket.Upgrader{
	// In production, adjust the CheckOrigin function to allow only trusted origins.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// feedbackTimeout bounds the grading run triggered by call-end.
const feedbackTimeout = 2 * time.Minute

// CallGateway bridges a live voice quiz session to the feedback pipeline. Each
// connection is one attempt: transcript fragments stream in while the user
// talks, and call-end flushes the assembled transcript through grading.
type CallGateway struct {
	Store   *db.Store
	Service *services.FeedbackService
}

func NewCallGateway(store *db.Store, service *services.FeedbackService) *CallGateway {
	return &CallGateway{Store: store, Service: service}
}

// Message is the wire envelope for call events.
type Message struct {
	Type           string `json:"type"`
	Role           string `json:"role,omitempty"`
	Content        string `json:"content,omitempty"`
	TranscriptType string `json:"transcriptType,omitempty"`
	FeedbackID     string `json:"feedbackId,omitempty"`
	Error          string `json:"error,omitempty"`
}

// callSession is the connection-local state for one attempt. Transcript
// entries live in memory only; the durable artifact is the feedback document
// written at call-end.
type callSession struct {
	conn       *websocket.Conn
	userID     string
	quizID     string
	quizType   string
	feedbackID string

	mu         sync.Mutex
	transcript []models.TranscriptEntry
	ended      bool
}

// Handle upgrades the connection and runs the session read loop. Auth rides on
// a query token since browsers cannot attach headers to an upgrade request.
func (g *CallGateway) Handle(c *gin.Context) {
	token := c.Query("token")
	claims, err := utils.ParseJWTToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	quizID := c.Query("quizId")
	if quizID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quizId is required"})
		return
	}

	quizType := ""
	if quiz, err := g.Store.QuizByID(c.Request.Context(), quizID); err != nil {
		log.Printf("Quiz lookup failed for call on %s: %v", quizID, err)
	} else if quiz != nil {
		quizType = quiz.Type
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return
	}
	defer conn.Close()

	session := &callSession{
		conn:       conn,
		userID:     claims.UserID,
		quizID:     quizID,
		quizType:   quizType,
		feedbackID: c.Query("feedbackId"),
	}

	log.Printf("Call started: quiz %s user %s", quizID, claims.UserID)
	g.readLoop(session)
}

func (g *CallGateway) readLoop(session *callSession) {
	for {
		_, raw, err := session.conn.ReadMessage()
		if err != nil {
			// Browser went away mid-call. Grade whatever was captured so the
			// attempt is not lost.
			log.Printf("Call connection closed for quiz %s: %v", session.quizID, err)
			g.finishCall(session)
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Println("Error unmarshalling call message:", err)
			continue
		}

		switch msg.Type {
		case "call-start":
			session.mu.Lock()
			session.transcript = nil
			session.ended = false
			session.mu.Unlock()

		case "message":
			// Interim fragments repeat while the recognizer refines its guess;
			// only the final form belongs in the transcript.
			if msg.TranscriptType != "final" {
				continue
			}
			session.mu.Lock()
			session.transcript = append(session.transcript, models.TranscriptEntry{
				Role:    msg.Role,
				Content: msg.Content,
			})
			session.mu.Unlock()

		case "speech-start":
			log.Printf("Speech started on quiz %s", session.quizID)

		case "speech-end":
			log.Printf("Speech ended on quiz %s", session.quizID)

		case "error":
			log.Printf("Call error on quiz %s: %s", session.quizID, msg.Error)

		case "call-end":
			g.finishCall(session)

		default:
			log.Println("Unknown call message type:", msg.Type)
		}
	}
}

// finishCall assembles the captured transcript and runs the pipeline exactly
// once per session, then reports the outcome back over the socket if it is
// still open.
func (g *CallGateway) finishCall(session *callSession) {
	session.mu.Lock()
	if session.ended {
		session.mu.Unlock()
		return
	}
	session.ended = true
	transcript := make([]models.TranscriptEntry, len(session.transcript))
	copy(transcript, session.transcript)
	session.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), feedbackTimeout)
	defer cancel()

	result := g.Service.CreateFeedback(ctx, services.CreateFeedbackParams{
		QuizID:     session.quizID,
		UserID:     session.userID,
		QuizType:   session.quizType,
		Transcript: transcript,
		FeedbackID: session.feedbackID,
	})

	if !result.Success {
		log.Printf("Feedback generation failed for quiz %s: %v", session.quizID, result.Err)
		session.writeJSON(Message{Type: "feedback-error", Error: result.Err.Error()})
		return
	}

	log.Printf("Feedback %s saved for quiz %s", result.FeedbackID, session.quizID)
	session.writeJSON(Message{Type: "feedback", FeedbackID: result.FeedbackID})
}

func (s *callSession) writeJSON(msg Message) {
	if err := s.conn.WriteJSON(msg); err != nil {
		log.Println("Error writing call message:", err)
	}
}
