package telegram

import (
	"context"
	"sync"
)

type SentMessage struct {
	ChatID int64
	Text   string
}

// StubClient records sent messages and replays queued update batches.
type StubClient struct {
	mu      sync.Mutex
	Sent    []SentMessage
	updates [][]Update
	SendErr error
}

func NewStubClient() *StubClient {
	return &StubClient{}
}

func (s *StubClient) QueueUpdates(updates ...Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, updates)
}

func (s *StubClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SendErr != nil {
		return s.SendErr
	}
	s.Sent = append(s.Sent, SentMessage{ChatID: chatID, Text: text})
	return nil
}

func (s *StubClient) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.updates) == 0 {
		return nil, nil
	}
	batch := s.updates[0]
	s.updates = s.updates[1:]
	return batch, nil
}

// SentTo returns the texts delivered to one chat.
func (s *StubClient) SentTo(chatID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	texts := make([]string, 0)
	for _, m := range s.Sent {
		if m.ChatID == chatID {
			texts = append(texts, m.Text)
		}
	}
	return texts
}
