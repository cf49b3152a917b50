package ai

import "context"

const DefaultStaticReply = "New message from llm"

// Static answers every conversation with the same text.
type Static struct {
	Text string
}

func NewStatic(text string) *Static {
	if text == "" {
		text = DefaultStaticReply
	}
	return &Static{Text: text}
}

func (s *Static) Reply(context.Context, []Message) (string, error) {
	return s.Text, nil
}
