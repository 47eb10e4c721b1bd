package models

const (
	NoticeDefault     = "default"
	NoticeDestructive = "destructive"
)

// Notice is the short message shown to the user after a prediction attempt.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"` // default | destructive
}
