package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/telebot.v3"

	"github.com/heimu09/PersonalNotes/infrastructure/metrics"
	notesclient "github.com/heimu09/PersonalNotes/internal/client/notes"
)

const (
	longProcessTimeout = 10
)

// APIClient is the slice of the notes API the bot needs.
type APIClient interface {
	CreateNote(ctx context.Context, token, title, content string, tags []string) error
	SearchNotes(ctx context.Context, token, tags string) ([]notesclient.Note, error)
}

type Bot struct {
	bot    *telebot.Bot
	client APIClient
	store  Store

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func New(bot *telebot.Bot, client APIClient, store Store) *Bot {
	return &Bot{
		bot:    bot,
		client: client,
		store:  store,
		locks:  make(map[int64]*sync.Mutex),
	}
}

func (b *Bot) Start() {
	b.bot.Handle("/start", b.commandHandler("start"))
	b.bot.Handle("/auth", b.commandHandler("auth"))
	b.bot.Handle("/new_note", b.commandHandler("new_note"))
	b.bot.Handle("/search_notes", b.commandHandler("search_notes"))
	b.helpHandler()

	b.bot.Handle(telebot.OnText, func(c telebot.Context) error {
		return b.dispatch(c, Message{Text: c.Text()})
	})

	log.Info().Msg("bot started...")
	b.bot.Start()
}

func (b *Bot) commandHandler(command string) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return b.dispatch(c, Message{Command: command})
	}
}

func (b *Bot) helpHandler() {
	helpMessage := "Доступные команды:\n" +
		"/auth - авторизоваться (отправить API-токен)\n" +
		"/new_note - создать новую заметку\n" +
		"/search_notes - найти заметки по тегам\n" +
		"/help - показать это сообщение"

	b.bot.Handle("/help", func(c telebot.Context) error {
		return c.Send(helpMessage)
	})
}

// dispatch runs one message through the state machine and executes the
// resulting action. Messages for one chat are processed serially even though
// telebot dispatches handlers concurrently.
func (b *Bot) dispatch(c telebot.Context, msg Message) error {
	chatID := c.Sender().ID

	lock := b.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	session, ok := b.store.Get(chatID)
	next, action := Transition(session, msg)
	if ok || next != (Session{}) {
		b.store.Put(chatID, next)
	}

	for _, text := range action.Replies {
		if err := c.Send(text); err != nil {
			return err
		}
	}

	switch call := action.Call.(type) {
	case CreateNoteCall:
		return b.runCreate(c, chatID, call)
	case SearchNotesCall:
		return b.runSearch(c, chatID, call)
	}

	return nil
}

func (b *Bot) runCreate(c telebot.Context, chatID int64, call CreateNoteCall) error {
	ctx, cancel := context.WithTimeout(context.Background(), longProcessTimeout*time.Second)
	defer cancel()

	if err := b.client.CreateNote(ctx, call.Token, call.Title, call.Content, call.Tags); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to create note")
		metrics.WizardsCompletedCounter.WithLabelValues(FlowCreatingNote.String(), "error").Inc()
		return c.Send(replyCreateFailed)
	}

	metrics.WizardsCompletedCounter.WithLabelValues(FlowCreatingNote.String(), "ok").Inc()
	return c.Send(replyNoteCreated)
}

func (b *Bot) runSearch(c telebot.Context, chatID int64, call SearchNotesCall) error {
	ctx, cancel := context.WithTimeout(context.Background(), longProcessTimeout*time.Second)
	defer cancel()

	found, err := b.client.SearchNotes(ctx, call.Token, call.Tags)
	if err != nil {
		if errors.Is(err, notesclient.ErrNotesNotFound) {
			metrics.WizardsCompletedCounter.WithLabelValues(FlowSearchingNotes.String(), "empty").Inc()
			return c.Send(replyNotesNotFound)
		}
		log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to search notes")
		metrics.WizardsCompletedCounter.WithLabelValues(FlowSearchingNotes.String(), "error").Inc()
		return c.Send(replySearchFailed)
	}

	metrics.WizardsCompletedCounter.WithLabelValues(FlowSearchingNotes.String(), "ok").Inc()

	// One message per note, not a single batched reply.
	for _, note := range found {
		if err = c.Send(FormatNote(note), telebot.ModeHTML); err != nil {
			return err
		}
	}

	return nil
}

func (b *Bot) chatLock(chatID int64) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()

	lock, ok := b.locks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		b.locks[chatID] = lock
	}
	return lock
}
