package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/heimu09/PersonalNotes/infrastructure/metrics"
	"github.com/heimu09/PersonalNotes/internal/service/auth"
	"github.com/heimu09/PersonalNotes/internal/service/notes"
)

// Server is the HTTP face of the notes service. Routes and payloads follow
// the register/token/notes contract consumed by the bot.
type Server struct {
	app   *fiber.App
	notes notes.Service
	auth  auth.Service
}

func New(notesServ notes.Service, authServ auth.Service) *Server {
	s := &Server{
		app:   fiber.New(),
		notes: notesServ,
		auth:  authServ,
	}

	s.app.Use(responseTimeMiddleware)

	s.app.Post("/register/", s.register)
	s.app.Post("/token", s.token)

	notesGroup := s.app.Group("/notes", s.authRequired)
	notesGroup.Post("/", s.createNote)
	notesGroup.Get("/", s.listNotes)
	notesGroup.Get("/search/", s.searchNotes)
	notesGroup.Get("/:id", s.getNote)
	notesGroup.Put("/:id", s.updateNote)
	notesGroup.Delete("/:id", s.deleteNote)

	return s
}

func (s *Server) Start(addr string) error {
	return s.app.Listen(addr)
}

// App exposes the fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

func responseTimeMiddleware(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	metrics.ResponseTimeHistogram.Observe(time.Since(start).Seconds())
	return err
}
