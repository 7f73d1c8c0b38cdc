package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heimu09/PersonalNotes/internal/model"
)

type fakeNotesService struct {
	notes     map[model.NoteID]model.Note
	nextID    model.NoteID
	lastSkip  int
	lastLimit int
}

func newFakeNotesService() *fakeNotesService {
	return &fakeNotesService{notes: make(map[model.NoteID]model.Note)}
}

func (f *fakeNotesService) Create(_ context.Context, note model.Note) (*model.Note, error) {
	f.nextID++
	note.ID = f.nextID
	f.notes[note.ID] = note
	return &note, nil
}

func (f *fakeNotesService) Get(_ context.Context, noteID model.NoteID, userID model.UserID) (*model.Note, error) {
	note, ok := f.notes[noteID]
	if !ok || note.UserID != userID {
		return nil, model.ErrNoteNotFound
	}
	return &note, nil
}

func (f *fakeNotesService) Update(_ context.Context, note model.Note) (*model.Note, error) {
	stored, ok := f.notes[note.ID]
	if !ok || stored.UserID != note.UserID {
		return nil, model.ErrNoteNotFound
	}
	f.notes[note.ID] = note
	return &note, nil
}

func (f *fakeNotesService) Delete(_ context.Context, noteID model.NoteID, userID model.UserID) (*model.Note, error) {
	note, ok := f.notes[noteID]
	if !ok || note.UserID != userID {
		return nil, model.ErrNoteNotFound
	}
	delete(f.notes, noteID)
	return &note, nil
}

func (f *fakeNotesService) List(_ context.Context, userID model.UserID, skip, limit int) ([]model.Note, error) {
	f.lastSkip = skip
	f.lastLimit = limit
	var list []model.Note
	for id := model.NoteID(1); id <= f.nextID; id++ {
		if note, ok := f.notes[id]; ok && note.UserID == userID {
			list = append(list, note)
		}
	}
	return list, nil
}

func (f *fakeNotesService) SearchByTags(_ context.Context, userID model.UserID, tags []string) ([]model.Note, error) {
	query := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		query[tag] = struct{}{}
	}

	var list []model.Note
	for id := model.NoteID(1); id <= f.nextID; id++ {
		note, ok := f.notes[id]
		if !ok || note.UserID != userID {
			continue
		}
		for _, tag := range note.Tags {
			if _, match := query[tag]; match {
				list = append(list, note)
				break
			}
		}
	}
	return list, nil
}

type fakeAuthService struct {
	registered map[string]model.User
}

func newFakeAuthService() *fakeAuthService {
	return &fakeAuthService{registered: make(map[string]model.User)}
}

func (f *fakeAuthService) Register(_ context.Context, username, email, _ string) (*model.User, error) {
	if _, ok := f.registered[username]; ok {
		return nil, model.ErrUsernameTaken
	}
	user := model.User{ID: model.UserID(len(f.registered) + 1), Username: username, Email: email}
	f.registered[username] = user
	return &user, nil
}

func (f *fakeAuthService) IssueToken(_ context.Context, username, password string) (string, error) {
	if password != "pw" {
		return "", model.ErrInvalidCredentials
	}
	return "token-" + username, nil
}

func (f *fakeAuthService) Authenticate(_ context.Context, token string) (*model.User, error) {
	username, ok := strings.CutPrefix(token, "token-")
	if !ok {
		return nil, model.ErrInvalidCredentials
	}
	user, ok := f.registered[username]
	if !ok {
		return nil, model.ErrInvalidCredentials
	}
	return &user, nil
}

func newTestServer(t *testing.T) (*Server, *fakeNotesService, *fakeAuthService) {
	t.Helper()
	notesServ := newFakeNotesService()
	authServ := newFakeAuthService()
	authServ.registered["alice"] = model.User{ID: 1, Username: "alice", Email: "a@example.com"}
	authServ.registered["bob"] = model.User{ID: 2, Username: "bob", Email: "b@example.com"}
	return New(notesServ, authServ), notesServ, authServ
}

func doJSON(t *testing.T, s *Server, method, path, token, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	return resp
}

func decodeDetail(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Detail
}

func TestRegister(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doJSON(t, server, http.MethodPost, "/register/", "",
		`{"username":"carol","email":"c@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user userResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "carol", user.Username)
	assert.NotNil(t, user.Notes)
}

func TestRegisterDuplicate(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doJSON(t, server, http.MethodPost, "/register/", "",
		`{"username":"alice","email":"a@example.com","password":"pw"}`)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Username already registered", decodeDetail(t, resp))
}

func TestTokenIssuance(t *testing.T) {
	server, _, _ := newTestServer(t)

	form := url.Values{"username": {"alice"}, "password": {"pw"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := server.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body tokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "token-alice", body.AccessToken)
	assert.Equal(t, "bearer", body.TokenType)
}

func TestTokenBadCredentials(t *testing.T) {
	server, _, _ := newTestServer(t)

	form := url.Values{"username": {"alice"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := server.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
}

func TestNotesRequireAuth(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doJSON(t, server, http.MethodPost, "/notes/", "", `{"title":"t","content":"c"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, server, http.MethodPost, "/notes/", "garbage", `{"title":"t","content":"c"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Could not validate credentials", decodeDetail(t, resp))
}

func TestCreateNote(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doJSON(t, server, http.MethodPost, "/notes/", "token-alice",
		`{"title":"t","content":"c","tags":["a","b"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var note noteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&note))
	assert.Equal(t, model.NoteID(1), note.ID)
	assert.Equal(t, []string{"a", "b"}, note.Tags)
}

func TestCreateNoteWithoutTags(t *testing.T) {
	server, notesServ, _ := newTestServer(t)

	// A body that omits tags stores an empty array, not NULL.
	resp := doJSON(t, server, http.MethodPost, "/notes/", "token-alice",
		`{"title":"t","content":"c"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored := notesServ.notes[1]
	require.NotNil(t, stored.Tags)
	assert.Empty(t, stored.Tags)

	var note noteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&note))
	assert.Equal(t, []string{}, note.Tags)
}

func TestUpdateNoteWithoutTags(t *testing.T) {
	server, notesServ, _ := newTestServer(t)
	notesServ.Create(context.Background(), model.Note{UserID: 1, Title: "t", Content: "c", Tags: []string{"a"}})

	resp := doJSON(t, server, http.MethodPut, "/notes/1", "token-alice",
		`{"title":"t2","content":"c2"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored := notesServ.notes[1]
	require.NotNil(t, stored.Tags)
	assert.Empty(t, stored.Tags)
}

func TestCreateNoteValidation(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doJSON(t, server, http.MethodPost, "/notes/", "token-alice", `{"title":"","content":"c"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "title is required", decodeDetail(t, resp))

	resp = doJSON(t, server, http.MethodPost, "/notes/", "token-alice", `{"title":"t","content":""}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "content is required", decodeDetail(t, resp))
}

func TestSearchNotes(t *testing.T) {
	server, notesServ, _ := newTestServer(t)
	notesServ.Create(context.Background(), model.Note{UserID: 1, Title: "w", Content: "c", Tags: []string{"work"}})
	notesServ.Create(context.Background(), model.Note{UserID: 1, Title: "p", Content: "c", Tags: []string{"personal"}})

	resp := doJSON(t, server, http.MethodGet, "/notes/search/?tags=work,home", "token-alice", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var found []noteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&found))
	require.Len(t, found, 1)
	assert.Equal(t, "w", found[0].Title)
}

func TestSearchNotesEmptyIs404(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doJSON(t, server, http.MethodGet, "/notes/search/?tags=nothing", "token-alice", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Заметки не найдены", decodeDetail(t, resp))
}

func TestSearchNotesMissingTags(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doJSON(t, server, http.MethodGet, "/notes/search/", "token-alice", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOwnershipNotLeaked(t *testing.T) {
	server, notesServ, _ := newTestServer(t)
	created, err := notesServ.Create(context.Background(), model.Note{UserID: 1, Title: "t", Content: "c"})
	require.NoError(t, err)

	// Bob's access to Alice's note is indistinguishable from a missing id.
	for _, path := range []string{"/notes/1", "/notes/999"} {
		resp := doJSON(t, server, http.MethodGet, path, "token-bob", "")
		require.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "Note not found", decodeDetail(t, resp), path)

		resp = doJSON(t, server, http.MethodPut, path, "token-bob", `{"title":"x","content":"y"}`)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, path)

		resp = doJSON(t, server, http.MethodDelete, path, "token-bob", "")
		require.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}

	// The note is untouched.
	resp := doJSON(t, server, http.MethodGet, "/notes/1", "token-alice", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var note noteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&note))
	assert.Equal(t, created.ID, note.ID)
	assert.Equal(t, "t", note.Title)
}

func TestUpdateNote(t *testing.T) {
	server, notesServ, _ := newTestServer(t)
	notesServ.Create(context.Background(), model.Note{UserID: 1, Title: "t", Content: "c"})

	resp := doJSON(t, server, http.MethodPut, "/notes/1", "token-alice",
		`{"title":"t2","content":"c2","tags":["x"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var note noteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&note))
	assert.Equal(t, "t2", note.Title)
	assert.Equal(t, []string{"x"}, note.Tags)
}

func TestDeleteNoteReturnsNote(t *testing.T) {
	server, notesServ, _ := newTestServer(t)
	notesServ.Create(context.Background(), model.Note{UserID: 1, Title: "t", Content: "c"})

	resp := doJSON(t, server, http.MethodDelete, "/notes/1", "token-alice", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var note noteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&note))
	assert.Equal(t, "t", note.Title)

	resp = doJSON(t, server, http.MethodGet, "/notes/1", "token-alice", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListNotes(t *testing.T) {
	server, notesServ, _ := newTestServer(t)
	notesServ.Create(context.Background(), model.Note{UserID: 1, Title: "a", Content: "c"})
	notesServ.Create(context.Background(), model.Note{UserID: 2, Title: "b", Content: "c"})

	resp := doJSON(t, server, http.MethodGet, "/notes/", "token-alice", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var list []noteResponse
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Title)
}

func TestListNotesClampsNegativePagination(t *testing.T) {
	server, notesServ, _ := newTestServer(t)

	resp := doJSON(t, server, http.MethodGet, "/notes/?skip=-1&limit=-5", "token-alice", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 0, notesServ.lastSkip)
	assert.Equal(t, 10, notesServ.lastLimit)
}
