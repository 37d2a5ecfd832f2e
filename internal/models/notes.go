package models

import "strings"

// Transcript is the spoken text of one video, segments joined by single spaces.
type Transcript struct {
	VideoID string
	Text    string
}

// ListMarker prefixes every line of a rendered notes document.
const ListMarker = "- "

// NoteSeparator joins per-chunk summaries into a notes body.
const NoteSeparator = "\n" + ListMarker

// NotesDocument is the list of per-chunk summaries for a single video.
type NotesDocument struct {
	VideoID string
	Body    string
}

// NewNotesDocument turns a composed body into a document whose every line is a
// list item. An empty body stays empty.
func NewNotesDocument(videoID, body string) NotesDocument {
	if body == "" {
		return NotesDocument{VideoID: videoID}
	}
	return NotesDocument{VideoID: videoID, Body: ListMarker + body}
}

func (n NotesDocument) String() string {
	return n.Body
}

func (n NotesDocument) IsEmpty() bool {
	return n.Body == ""
}

// Items returns the summaries without their list markers.
func (n NotesDocument) Items() []string {
	if n.Body == "" {
		return nil
	}
	lines := strings.Split(n.Body, NoteSeparator)
	lines[0] = strings.TrimPrefix(lines[0], ListMarker)
	return lines
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
