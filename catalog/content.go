package catalog

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"sync"

	"github.com/MrEthical07/learnhub"
)

const (
	replyMailSubject  = "Question Reply"
	replyMailTemplate = "question-reply"
)

// courseLocks serializes read-modify-write cycles on one course inside this
// process. Writers in other processes still race on the repository.
type courseLocks [64]sync.Mutex

func (l *courseLocks) lock(id string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	mu := &l[h.Sum32()%uint32(len(l))]
	mu.Lock()
	return mu.Unlock
}

// mutateCourse loads course id, applies fn and writes the result back.
func (s *Service) mutateCourse(ctx context.Context, id string, fn func(*Course) error) (*Course, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	course, err := s.courses.FindCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(course); err != nil {
		return nil, err
	}
	course.UpdatedAt = s.clock()
	if err := s.courses.UpdateCourse(ctx, course); err != nil {
		return nil, err
	}
	s.evict(ctx, id)
	return course, nil
}

func canRead(identity *learnhub.Identity, courseID string) bool {
	return identity != nil && (identity.Role == learnhub.RoleAdmin || identity.HasCourse(courseID))
}

// CourseContentForUser returns the full sections of courseID. Callers who
// neither bought the course nor are admins get ErrNotFound, the same as a
// missing course.
func (s *Service) CourseContentForUser(ctx context.Context, identity *learnhub.Identity, courseID string) ([]CourseSection, error) {
	if !canRead(identity, courseID) {
		return nil, fmt.Errorf("%w: not eligible to access course %s", learnhub.ErrNotFound, courseID)
	}
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return course.Content, nil
}

// AddQuestion opens a question thread on one section of a purchased course.
func (s *Service) AddQuestion(ctx context.Context, identity *learnhub.Identity, in QuestionInput) (*Course, error) {
	if !canRead(identity, in.CourseID) {
		return nil, fmt.Errorf("%w: not eligible to access course %s", learnhub.ErrNotFound, in.CourseID)
	}
	text := s.sanitizer.clean(in.Question)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: question is required", learnhub.ErrInvalidInput)
	}

	var sectionTitle string
	course, err := s.mutateCourse(ctx, in.CourseID, func(c *Course) error {
		section, ok := c.section(in.ContentID)
		if !ok {
			return fmt.Errorf("%w: unknown content id %s", learnhub.ErrInvalidInput, in.ContentID)
		}
		sectionTitle = section.Title
		section.Questions = append(section.Questions, Question{
			ID:        s.newID(),
			User:      authorOf(identity),
			Question:  text,
			CreatedAt: s.clock(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, identity.ID, "New Question Received", identity.Name+" has a new question in "+sectionTitle)
	return course, nil
}

// AddReply answers a question. When someone other than the asker replies,
// the asker is mailed; a reply by the asker raises an admin notification.
func (s *Service) AddReply(ctx context.Context, identity *learnhub.Identity, in ReplyInput) (*Course, error) {
	if !canRead(identity, in.CourseID) {
		return nil, fmt.Errorf("%w: not eligible to access course %s", learnhub.ErrNotFound, in.CourseID)
	}
	text := s.sanitizer.clean(in.Answer)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: answer is required", learnhub.ErrInvalidInput)
	}

	var (
		asker        Author
		sectionTitle string
		question     string
	)
	course, err := s.mutateCourse(ctx, in.CourseID, func(c *Course) error {
		section, ok := c.section(in.ContentID)
		if !ok {
			return fmt.Errorf("%w: unknown content id %s", learnhub.ErrInvalidInput, in.ContentID)
		}
		q, ok := section.question(in.QuestionID)
		if !ok {
			return fmt.Errorf("%w: unknown question id %s", learnhub.ErrInvalidInput, in.QuestionID)
		}
		asker, sectionTitle, question = q.User, section.Title, q.Question
		q.Replies = append(q.Replies, Reply{
			ID:        s.newID(),
			User:      authorOf(identity),
			Answer:    text,
			CreatedAt: s.clock(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if asker.ID == identity.ID {
		s.notify(ctx, identity.ID, "New Question Reply Received", identity.Name+" has replied to a question in "+sectionTitle)
		return course, nil
	}
	s.mailReply(ctx, asker, sectionTitle, question, text)
	return course, nil
}

// mailReply tells the asker about a reply. The reply is already stored, so
// a delivery failure is only logged.
func (s *Service) mailReply(ctx context.Context, asker Author, sectionTitle, question, answer string) {
	if s.mailer == nil || s.identities == nil {
		return
	}
	recipient, err := s.identities.FindIdentityByID(ctx, asker.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "reply recipient lookup failed", "user_id", asker.ID, "error", err)
		return
	}
	data := map[string]any{
		"name":     recipient.Name,
		"title":    sectionTitle,
		"question": question,
		"answer":   answer,
	}
	if err := s.mailer.Send(ctx, recipient.Email, replyMailSubject, replyMailTemplate, data); err != nil {
		s.logger.WarnContext(ctx, "reply mail failed", "user_id", asker.ID, "error", err)
	}
}

// AddReview rates a purchased course and recomputes its average rating.
func (s *Service) AddReview(ctx context.Context, identity *learnhub.Identity, courseID string, in ReviewInput) (*Course, error) {
	if identity == nil || !identity.HasCourse(courseID) {
		return nil, fmt.Errorf("%w: not eligible to access course %s", learnhub.ErrNotFound, courseID)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", learnhub.ErrInvalidInput)
	}

	var courseName string
	course, err := s.mutateCourse(ctx, courseID, func(c *Course) error {
		courseName = c.Name
		c.Reviews = append(c.Reviews, Review{
			ID:        s.newID(),
			User:      authorOf(identity),
			Rating:    in.Rating,
			Comment:   s.sanitizer.clean(in.Comment),
			CreatedAt: s.clock(),
		})
		c.Ratings = averageRating(c.Reviews)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, identity.ID, "New Review Received", identity.Name+" has given a review in "+courseName)
	return course, nil
}

func averageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*100) / 100
}

func (s *Service) notify(ctx context.Context, userID, title, message string) {
	now := s.clock()
	note := &Notification{
		ID:        s.newID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Status:    NotificationUnread,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.notifications.CreateNotification(ctx, note); err != nil {
		s.logger.WarnContext(ctx, "notification failed", "title", title, "error", err)
	}
}
