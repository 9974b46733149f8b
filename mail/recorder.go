package mail

import (
	"context"
	"sync"

	"github.com/MrEthical07/learnhub"
)

// Message is one recorded delivery.
type Message struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
	HTML     string
}

// Recorder renders and keeps messages instead of sending them. Setting Err
// makes every Send fail.
type Recorder struct {
	mu       sync.Mutex
	renderer *Renderer
	messages []Message
	Err      error
}

var _ learnhub.Mailer = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r, err := NewRenderer()
	if err != nil {
		// Embedded templates are parsed at build time; failure is a bug.
		panic(err)
	}
	return &Recorder{renderer: r}
}

func (r *Recorder) Send(_ context.Context, to, subject, template string, data map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	html, err := r.renderer.Render(template, data)
	if err != nil {
		return err
	}
	r.messages = append(r.messages, Message{To: to, Subject: subject, Template: template, Data: data, HTML: html})
	return nil
}

// Messages returns a copy of everything sent so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Last returns the most recent message.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}
