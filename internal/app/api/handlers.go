package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/heimu09/PersonalNotes/infrastructure/metrics"
	"github.com/heimu09/PersonalNotes/internal/model"
)

const localsUserKey = "user"

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type noteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type noteResponse struct {
	ID        model.NoteID `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Tags      []string     `json:"tags"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt *time.Time   `json:"updated_at"`
}

type userResponse struct {
	ID       model.UserID   `json:"id"`
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Notes    []noteResponse `json:"notes"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *Server) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return detail(c, fiber.StatusBadRequest, "Username and password are required")
	}

	user, err := s.auth.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			return detail(c, fiber.StatusBadRequest, "Username already registered")
		}
		log.Error().Err(err).Str("username", req.Username).Msg("failed to register user")
		return detail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Notes:    []noteResponse{},
	})
}

func (s *Server) token(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	token, err := s.auth.IssueToken(c.UserContext(), username, password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return detail(c, fiber.StatusUnauthorized, "Incorrect username or password")
		}
		log.Error().Err(err).Str("username", username).Msg("failed to issue token")
		return detail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) authRequired(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return unauthorized(c)
	}

	user, err := s.auth.Authenticate(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			return unauthorized(c)
		}
		log.Error().Err(err).Msg("failed to authenticate request")
		return detail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	c.Locals(localsUserKey, user)
	return c.Next()
}

func (s *Server) createNote(c *fiber.Ctx) error {
	user := currentUser(c)

	var req noteRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := model.ValidateNoteInput(req.Title, req.Content); err != nil {
		return detail(c, fiber.StatusBadRequest, err.Error())
	}

	note, err := s.notes.Create(c.UserContext(), model.Note{
		UserID:  user.ID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    normalizeTags(req.Tags),
	})
	if err != nil {
		log.Error().Err(err).Int64("user_id", int64(user.ID)).Msg("failed to create note")
		return detail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	metrics.NotesCreatedCounter.Inc()
	return c.JSON(toNoteResponse(*note))
}

func (s *Server) listNotes(c *fiber.Ctx) error {
	user := currentUser(c)
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 10)
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 10
	}

	list, err := s.notes.List(c.UserContext(), user.ID, skip, limit)
	if err != nil {
		log.Error().Err(err).Int64("user_id", int64(user.ID)).Msg("failed to list notes")
		return detail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(toNoteResponses(list))
}

func (s *Server) searchNotes(c *fiber.Ctx) error {
	user := currentUser(c)

	csv := c.Query("tags")
	if csv == "" {
		return detail(c, fiber.StatusBadRequest, "tags query parameter is required")
	}

	// Raw comma split, no trimming: the caller's tags are matched verbatim.
	tags := strings.Split(csv, ",")

	list, err := s.notes.SearchByTags(c.UserContext(), user.ID, tags)
	if err != nil {
		log.Error().Err(err).Int64("user_id", int64(user.ID)).Msg("failed to search notes")
		return detail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	if len(list) == 0 {
		return detail(c, fiber.StatusNotFound, "Заметки не найдены")
	}

	return c.JSON(toNoteResponses(list))
}

func (s *Server) getNote(c *fiber.Ctx) error {
	user := currentUser(c)
	noteID, err := parseNoteID(c)
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid note id")
	}

	note, err := s.notes.Get(c.UserContext(), noteID, user.ID)
	if err != nil {
		return s.noteError(c, err, noteID, user.ID)
	}

	return c.JSON(toNoteResponse(*note))
}

func (s *Server) updateNote(c *fiber.Ctx) error {
	user := currentUser(c)
	noteID, err := parseNoteID(c)
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid note id")
	}

	var req noteRequest
	if err = c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err = model.ValidateNoteInput(req.Title, req.Content); err != nil {
		return detail(c, fiber.StatusBadRequest, err.Error())
	}

	note, err := s.notes.Update(c.UserContext(), model.Note{
		ID:      noteID,
		UserID:  user.ID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    normalizeTags(req.Tags),
	})
	if err != nil {
		return s.noteError(c, err, noteID, user.ID)
	}

	return c.JSON(toNoteResponse(*note))
}

func (s *Server) deleteNote(c *fiber.Ctx) error {
	user := currentUser(c)
	noteID, err := parseNoteID(c)
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid note id")
	}

	note, err := s.notes.Delete(c.UserContext(), noteID, user.ID)
	if err != nil {
		return s.noteError(c, err, noteID, user.ID)
	}

	return c.JSON(toNoteResponse(*note))
}

// noteError maps a missing or foreign note to the same 404 so ownership is
// never leaked through the status code.
func (s *Server) noteError(c *fiber.Ctx, err error, noteID model.NoteID, userID model.UserID) error {
	if errors.Is(err, model.ErrNoteNotFound) {
		return detail(c, fiber.StatusNotFound, "Note not found")
	}
	log.Error().Err(err).
		Int64("note_id", int64(noteID)).
		Int64("user_id", int64(userID)).
		Msg("note operation failed")
	return detail(c, fiber.StatusInternalServerError, "Internal server error")
}

func currentUser(c *fiber.Ctx) *model.User {
	return c.Locals(localsUserKey).(*model.User)
}

func parseNoteID(c *fiber.Ctx) (model.NoteID, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return model.NoteID(id), nil
}

// normalizeTags maps an omitted tags field to an empty array, which is what
// the tags column stores for a note without tags.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func toNoteResponse(note model.Note) noteResponse {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	return noteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		Tags:      tags,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

func toNoteResponses(list []model.Note) []noteResponse {
	responses := make([]noteResponse, 0, len(list))
	for _, note := range list {
		responses = append(responses, toNoteResponse(note))
	}
	return responses
}

func unauthorized(c *fiber.Ctx) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return detail(c, fiber.StatusUnauthorized, "Could not validate credentials")
}

func detail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"detail": message})
}
