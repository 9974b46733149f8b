package catalog

import (
	"fmt"
	"time"

	"github.com/MrEthical07/learnhub"
)

// Benefit is a single line in a course's benefit or prerequisite list.
type Benefit struct {
	Title string `json:"title" bson:"title"`
}

// Author is the public part of an identity shown next to questions,
// replies and reviews.
type Author struct {
	ID     string             `json:"_id" bson:"_id"`
	Name   string             `json:"name" bson:"name"`
	Role   learnhub.Role      `json:"role" bson:"role"`
	Avatar *learnhub.AssetRef `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

func authorOf(identity *learnhub.Identity) Author {
	a := Author{ID: identity.ID, Name: identity.Name, Role: identity.Role}
	if identity.Avatar != nil {
		avatar := *identity.Avatar
		a.Avatar = &avatar
	}
	return a
}

// Link is a resource attached to a course section.
type Link struct {
	Title string `json:"title" bson:"title"`
	URL   string `json:"url" bson:"url"`
}

// Reply answers a Question.
type Reply struct {
	ID        string    `json:"_id" bson:"_id"`
	User      Author    `json:"user" bson:"user"`
	Answer    string    `json:"answer" bson:"answer"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Question is a thread opened by a buyer on one course section.
type Question struct {
	ID        string    `json:"_id" bson:"_id"`
	User      Author    `json:"user" bson:"user"`
	Question  string    `json:"question" bson:"question"`
	Replies   []Reply   `json:"questionReplies" bson:"questionReplies"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Review is a buyer's rating of a course.
type Review struct {
	ID        string    `json:"_id" bson:"_id"`
	User      Author    `json:"user" bson:"user"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// CourseSection is one video lesson. VideoURL, Links, Suggestion and
// Questions are buyer-only and dropped by [Course.Preview].
type CourseSection struct {
	ID           string     `json:"_id" bson:"_id"`
	Title        string     `json:"title" bson:"title"`
	Description  string     `json:"description" bson:"description"`
	VideoSection string     `json:"videoSection" bson:"videoSection"`
	VideoLength  float64    `json:"videoLength" bson:"videoLength"`
	VideoPlayer  string     `json:"videoPlayer" bson:"videoPlayer"`
	VideoURL     string     `json:"videoUrl,omitempty" bson:"videoUrl"`
	Links        []Link     `json:"links,omitempty" bson:"links"`
	Suggestion   string     `json:"suggestion,omitempty" bson:"suggestion"`
	Questions    []Question `json:"questions,omitempty" bson:"questions"`
}

func (c CourseSection) clone() CourseSection {
	out := c
	out.Links = append([]Link(nil), c.Links...)
	out.Questions = nil
	for _, q := range c.Questions {
		q.Replies = append([]Reply(nil), q.Replies...)
		out.Questions = append(out.Questions, q)
	}
	return out
}

// Course is a purchasable course.
type Course struct {
	ID             string             `json:"_id" bson:"_id"`
	Name           string             `json:"name" bson:"name"`
	Description    string             `json:"description" bson:"description"`
	Price          float64            `json:"price" bson:"price"`
	EstimatedPrice *float64           `json:"estimatedPrice,omitempty" bson:"estimatedPrice,omitempty"`
	Thumbnail      *learnhub.AssetRef `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	Tags           string             `json:"tags" bson:"tags"`
	Level          string             `json:"level" bson:"level"`
	DemoURL        string             `json:"demoUrl" bson:"demoUrl"`
	Benefits       []Benefit          `json:"benefits" bson:"benefits"`
	Prerequisites  []Benefit          `json:"prerequisites" bson:"prerequisites"`
	Content        []CourseSection    `json:"courseData" bson:"courseData"`
	Reviews        []Review           `json:"reviews" bson:"reviews"`
	Ratings        float64            `json:"ratings" bson:"ratings"`
	Purchased      int                `json:"purchased" bson:"purchased"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Clone returns a copy that shares no slices with c.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	out := *c
	if c.EstimatedPrice != nil {
		v := *c.EstimatedPrice
		out.EstimatedPrice = &v
	}
	if c.Thumbnail != nil {
		t := *c.Thumbnail
		out.Thumbnail = &t
	}
	out.Benefits = append([]Benefit(nil), c.Benefits...)
	out.Prerequisites = append([]Benefit(nil), c.Prerequisites...)
	out.Reviews = append([]Review(nil), c.Reviews...)
	if c.Content != nil {
		out.Content = make([]CourseSection, len(c.Content))
		for i, section := range c.Content {
			out.Content[i] = section.clone()
		}
	}
	return &out
}

// Preview returns a copy safe to show to anyone: section titles and
// lengths stay, video URLs, links, suggestions and questions are removed.
func (c *Course) Preview() *Course {
	out := c.Clone()
	if out == nil {
		return nil
	}
	for i := range out.Content {
		out.Content[i].VideoURL = ""
		out.Content[i].Links = nil
		out.Content[i].Suggestion = ""
		out.Content[i].Questions = nil
	}
	return out
}

func (c *Course) section(id string) (*CourseSection, bool) {
	for i := range c.Content {
		if c.Content[i].ID == id {
			return &c.Content[i], true
		}
	}
	return nil, false
}

func (s *CourseSection) question(id string) (*Question, bool) {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i], true
		}
	}
	return nil, false
}

// CourseInput carries the admin-editable course fields. Thumbnail is an image
// payload for the asset host; empty keeps the current thumbnail.
type CourseInput struct {
	Name           string    `json:"name" validate:"required,max=200"`
	Description    string    `json:"description" validate:"required"`
	Price          float64   `json:"price" validate:"gte=0"`
	EstimatedPrice *float64  `json:"estimatedPrice,omitempty" validate:"omitempty,gte=0"`
	Thumbnail      string    `json:"thumbnail,omitempty"`
	Tags           string    `json:"tags"`
	Level          string    `json:"level"`
	DemoURL        string    `json:"demoUrl" validate:"omitempty,url"`
	Benefits       []Benefit `json:"benefits"`
	Prerequisites  []Benefit `json:"prerequisites"`

	// Content replaces the course sections. Sections that keep their _id
	// keep their questions.
	Content []SectionInput `json:"courseData" validate:"dive"`
}

// SectionInput is the admin-editable part of a CourseSection.
type SectionInput struct {
	ID           string  `json:"_id,omitempty"`
	Title        string  `json:"title" validate:"required"`
	Description  string  `json:"description"`
	VideoURL     string  `json:"videoUrl" validate:"omitempty,url"`
	VideoSection string  `json:"videoSection"`
	VideoLength  float64 `json:"videoLength" validate:"gte=0"`
	VideoPlayer  string  `json:"videoPlayer"`
	Links        []Link  `json:"links"`
	Suggestion   string  `json:"suggestion"`
}

// QuestionInput opens a thread on a course section.
type QuestionInput struct {
	CourseID  string `json:"courseId" validate:"required"`
	ContentID string `json:"contentId" validate:"required"`
	Question  string `json:"question" validate:"required"`
}

// ReplyInput answers a question.
type ReplyInput struct {
	CourseID   string `json:"courseId" validate:"required"`
	ContentID  string `json:"contentId" validate:"required"`
	QuestionID string `json:"questionId" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
}

// ReviewInput rates a purchased course from 1 to 5.
type ReviewInput struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"review"`
}

// PaymentInfo is the opaque payment payload attached to an order.
type PaymentInfo map[string]any

// Order records a course purchase.
type Order struct {
	ID          string      `json:"_id" bson:"_id"`
	CourseID    string      `json:"courseId" bson:"courseId"`
	UserID      string      `json:"userId" bson:"userId"`
	PaymentInfo PaymentInfo `json:"payment_info,omitempty" bson:"payment_info,omitempty"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// Notification statuses.
const (
	NotificationUnread = "unread"
	NotificationRead   = "read"
)

// Notification is an admin-facing event such as a new order.
type Notification struct {
	ID        string    `json:"_id" bson:"_id"`
	UserID    string    `json:"user" bson:"user"`
	Title     string    `json:"title" bson:"title"`
	Message   string    `json:"message" bson:"message"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// LayoutType selects which homepage section a Layout describes.
type LayoutType string

const (
	LayoutBanner     LayoutType = "Banner"
	LayoutFAQ        LayoutType = "FAQ"
	LayoutCategories LayoutType = "Categories"
)

// Valid reports whether t is a known layout type.
func (t LayoutType) Valid() bool {
	switch t {
	case LayoutBanner, LayoutFAQ, LayoutCategories:
		return true
	}
	return false
}

// LayoutContent is the payload of one Layout: a Banner, a FAQList or a
// CategoryList. The set is closed.
type LayoutContent interface {
	LayoutType() LayoutType
}

type Banner struct {
	Image    learnhub.AssetRef `json:"image" bson:"image"`
	Title    string            `json:"title" bson:"title"`
	SubTitle string            `json:"subTitle" bson:"subTitle"`
}

type FAQItem struct {
	Question string `json:"question" bson:"question" validate:"required"`
	Answer   string `json:"answer" bson:"answer" validate:"required"`
}

type Category struct {
	Title string `json:"title" bson:"title" validate:"required"`
}

type (
	FAQList      []FAQItem
	CategoryList []Category
)

func (Banner) LayoutType() LayoutType       { return LayoutBanner }
func (FAQList) LayoutType() LayoutType      { return LayoutFAQ }
func (CategoryList) LayoutType() LayoutType { return LayoutCategories }

// Layout is one homepage section. Build it with NewBannerLayout,
// NewFAQLayout or NewCategoriesLayout and read it with Content; the exported
// payload fields exist for the document stores.
type Layout struct {
	ID         string     `json:"_id" bson:"_id"`
	Type       LayoutType `json:"type" bson:"type"`
	Banner     *Banner    `json:"banner,omitempty" bson:"banner,omitempty"`
	FAQ        []FAQItem  `json:"faq,omitempty" bson:"faq,omitempty"`
	Categories []Category `json:"categories,omitempty" bson:"categories,omitempty"`
	CreatedAt  time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updatedAt"`
}

func NewBannerLayout(id string, b Banner, now time.Time) *Layout {
	return newLayout(id, b, now)
}

func NewFAQLayout(id string, items []FAQItem, now time.Time) *Layout {
	return newLayout(id, FAQList(items), now)
}

func NewCategoriesLayout(id string, items []Category, now time.Time) *Layout {
	return newLayout(id, CategoryList(items), now)
}

func newLayout(id string, content LayoutContent, now time.Time) *Layout {
	l := &Layout{ID: id, CreatedAt: now, UpdatedAt: now}
	l.setContent(content)
	return l
}

// setContent replaces the payload and the type tag together.
func (l *Layout) setContent(content LayoutContent) {
	l.Type = content.LayoutType()
	l.Banner, l.FAQ, l.Categories = nil, nil, nil
	switch c := content.(type) {
	case Banner:
		l.Banner = &c
	case FAQList:
		l.FAQ = append([]FAQItem{}, c...)
	case CategoryList:
		l.Categories = append([]Category{}, c...)
	}
}

// Content returns the payload selected by Type. A stored layout whose
// fields disagree with its Type is rejected.
func (l *Layout) Content() (LayoutContent, error) {
	switch l.Type {
	case LayoutBanner:
		if l.Banner == nil || l.FAQ != nil || l.Categories != nil {
			return nil, fmt.Errorf("%w: malformed %s layout %s", learnhub.ErrInvalidInput, l.Type, l.ID)
		}
		return *l.Banner, nil
	case LayoutFAQ:
		if l.Banner != nil || l.Categories != nil {
			return nil, fmt.Errorf("%w: malformed %s layout %s", learnhub.ErrInvalidInput, l.Type, l.ID)
		}
		return FAQList(l.FAQ), nil
	case LayoutCategories:
		if l.Banner != nil || l.FAQ != nil {
			return nil, fmt.Errorf("%w: malformed %s layout %s", learnhub.ErrInvalidInput, l.Type, l.ID)
		}
		return CategoryList(l.Categories), nil
	}
	return nil, fmt.Errorf("%w: unknown layout type %q", learnhub.ErrInvalidInput, l.Type)
}

// LayoutInput is the create/edit payload. Image is required for banners.
type LayoutInput struct {
	Type       LayoutType `json:"type" validate:"required"`
	Image      string     `json:"image,omitempty"`
	Title      string     `json:"title,omitempty"`
	SubTitle   string     `json:"subTitle,omitempty"`
	FAQ        []FAQItem  `json:"faq,omitempty" validate:"dive"`
	Categories []Category `json:"categories,omitempty" validate:"dive"`
}

// MonthCount is the number of records created in one analytics window.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// AnalyticsReport covers the last twelve 28-day windows, oldest first.
type AnalyticsReport struct {
	Last12Months []MonthCount `json:"last12Months"`
}
