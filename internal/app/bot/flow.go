package bot

import "strings"

type Flow int

const (
	FlowNone Flow = iota
	FlowCreatingNote
	FlowSearchingNotes
)

func (f Flow) String() string {
	switch f {
	case FlowCreatingNote:
		return "create"
	case FlowSearchingNotes:
		return "search"
	default:
		return "none"
	}
}

type Step int

const (
	StepNone Step = iota
	StepAwaitingTitle
	StepAwaitingContent
	StepAwaitingTags
	StepAwaitingSearchTags
)

type Draft struct {
	Title   string
	Content string
}

// Session is the per-chat wizard state. The zero value is a chat that has
// never talked to the bot.
type Session struct {
	Token         string
	AwaitingToken bool
	Flow          Flow
	Step          Step
	Draft         Draft
}

// Message is one inbound chat message, already classified by the runtime:
// either a command (without the leading slash) or plain text.
type Message struct {
	Command string
	Text    string
}

// Call is the single outbound API request a completed wizard produces.
type Call interface {
	isCall()
}

type CreateNoteCall struct {
	Token   string
	Title   string
	Content string
	Tags    []string
}

func (CreateNoteCall) isCall() {}

type SearchNotesCall struct {
	Token string
	Tags  string
}

func (SearchNotesCall) isCall() {}

// Action is what the runtime must do after a transition: send replies and,
// for a completed wizard, issue exactly one API call.
type Action struct {
	Replies []string
	Call    Call
}

const (
	replyAskToken      = "Привет! Отправь свой API-токен для авторизации."
	replyAuthorized    = "Вы успешно авторизованы!"
	replyAuthFirst     = "Сначала авторизуйтесь через /auth и предоставьте ваш API токен."
	replyAskTitle      = "Введите заголовок заметки:"
	replyAskContent    = "Введите содержимое заметки:"
	replyAskTags       = "Введите теги для заметки (через запятую):"
	replyAskSearchTags = "Введите теги для поиска (через запятую):"
	replyNoteCreated   = "Заметка успешно создана!"
	replyCreateFailed  = "Ошибка при создании заметки."
	replySearchFailed  = "Ошибка при поиске заметок."
	replyNotesNotFound = "Заметки с указанными тегами не найдены."
)

// Transition advances a session by one message. It is pure: all side effects
// (replies, the API call) are returned in the Action for the runtime to
// execute. A wizard command while another wizard is active overrides it and
// starts fresh.
func Transition(s Session, msg Message) (Session, Action) {
	switch msg.Command {
	case "start", "auth":
		s.Token = ""
		s.AwaitingToken = true
		return s, reply(replyAskToken)

	case "new_note":
		if s.Token == "" {
			return s, reply(replyAuthFirst)
		}
		s.Flow = FlowCreatingNote
		s.Step = StepAwaitingTitle
		s.Draft = Draft{}
		return s, reply(replyAskTitle)

	case "search_notes":
		if s.Token == "" {
			return s, reply(replyAuthFirst)
		}
		s.Flow = FlowSearchingNotes
		s.Step = StepAwaitingSearchTags
		s.Draft = Draft{}
		return s, reply(replyAskSearchTags)
	}

	if s.AwaitingToken {
		// Stored verbatim: the token is opaque to the bot.
		s.Token = msg.Text
		s.AwaitingToken = false
		return s, reply(replyAuthorized)
	}

	switch {
	case s.Flow == FlowCreatingNote && s.Step == StepAwaitingTitle:
		s.Draft.Title = msg.Text
		s.Step = StepAwaitingContent
		return s, reply(replyAskContent)

	case s.Flow == FlowCreatingNote && s.Step == StepAwaitingContent:
		s.Draft.Content = msg.Text
		s.Step = StepAwaitingTags
		return s, reply(replyAskTags)

	case s.Flow == FlowCreatingNote && s.Step == StepAwaitingTags:
		if s.Token == "" {
			return s, reply(replyAuthFirst)
		}
		call := CreateNoteCall{
			Token:   s.Token,
			Title:   s.Draft.Title,
			Content: s.Draft.Content,
			Tags:    strings.Split(msg.Text, ","),
		}
		return clearFlow(s), Action{Call: call}

	case s.Flow == FlowSearchingNotes && s.Step == StepAwaitingSearchTags:
		if s.Token == "" {
			return s, reply(replyAuthFirst)
		}
		call := SearchNotesCall{Token: s.Token, Tags: msg.Text}
		return clearFlow(s), Action{Call: call}
	}

	// Plain text outside any flow is ignored.
	return s, Action{}
}

func clearFlow(s Session) Session {
	s.Flow = FlowNone
	s.Step = StepNone
	s.Draft = Draft{}
	return s
}

func reply(texts ...string) Action {
	return Action{Replies: texts}
}
