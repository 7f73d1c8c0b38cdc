package bot

import (
	"fmt"
	"strings"

	notesclient "github.com/heimu09/PersonalNotes/internal/client/notes"
)

// FormatNote renders one search result as a single HTML message.
func FormatNote(note notesclient.Note) string {
	return fmt.Sprintf("<b>Заметка</b>: %s\n<b>Содержимое</b>: %s\n<b>Теги</b>: %s",
		note.Title, note.Content, strings.Join(note.Tags, ", "))
}
