package domain

// Chat is the public view of a chat board.
type Chat struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ChatMessage is one entry in a chat board's ordered message log.
type ChatMessage struct {
	ID     string `json:"id"`
	ChatID string `json:"chatId"`
	UserID string `json:"userId"`
	Text   string `json:"text"`
	TS     int64  `json:"ts"` // epoch millis
}

// ChatBoard is the stored chat record; messages are embedded in order of
// arrival.
type ChatBoard struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Messages []ChatMessage `json:"messages"`
}

func (c *ChatBoard) RecordID() string      { return c.ID }
func (c *ChatBoard) SetRecordID(id string) { c.ID = id }

// Chat returns the board without its messages.
func (c ChatBoard) Chat() Chat {
	return Chat{ID: c.ID, Title: c.Title}
}
