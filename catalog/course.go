package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrEthical07/learnhub"
)

func (s *Service) checkCourseInput(in CourseInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: course name is required", learnhub.ErrInvalidInput)
	}
	if in.Price < 0 || (in.EstimatedPrice != nil && *in.EstimatedPrice < 0) {
		return fmt.Errorf("%w: price must not be negative", learnhub.ErrInvalidInput)
	}
	return nil
}

func (s *Service) applyCourseInput(course *Course, in CourseInput) {
	course.Name = strings.TrimSpace(in.Name)
	course.Description = s.sanitizer.clean(in.Description)
	course.Price = in.Price
	course.EstimatedPrice = in.EstimatedPrice
	course.Tags = in.Tags
	course.Level = in.Level
	course.DemoURL = in.DemoURL
	course.Benefits = append([]Benefit(nil), in.Benefits...)
	course.Prerequisites = append([]Benefit(nil), in.Prerequisites...)

	previous := make(map[string]CourseSection, len(course.Content))
	for _, section := range course.Content {
		previous[section.ID] = section
	}
	content := make([]CourseSection, 0, len(in.Content))
	for _, sec := range in.Content {
		section := CourseSection{
			ID:           sec.ID,
			Title:        strings.TrimSpace(sec.Title),
			Description:  s.sanitizer.clean(sec.Description),
			VideoURL:     sec.VideoURL,
			VideoSection: sec.VideoSection,
			VideoLength:  sec.VideoLength,
			VideoPlayer:  sec.VideoPlayer,
			Links:        append([]Link(nil), sec.Links...),
			Suggestion:   s.sanitizer.clean(sec.Suggestion),
		}
		if old, ok := previous[sec.ID]; ok && sec.ID != "" {
			section.Questions = old.Questions
		} else {
			section.ID = s.newID()
		}
		content = append(content, section)
	}
	course.Content = content
}

// CreateCourse stores a new course, uploading the thumbnail to the courses
// folder when one is given.
func (s *Service) CreateCourse(ctx context.Context, in CourseInput) (*Course, error) {
	if err := s.checkCourseInput(in); err != nil {
		return nil, err
	}

	now := s.clock()
	course := &Course{ID: s.newID(), CreatedAt: now, UpdatedAt: now}
	s.applyCourseInput(course, in)

	if in.Thumbnail != "" {
		ref, err := s.upload(ctx, in.Thumbnail, courseFolder)
		if err != nil {
			return nil, err
		}
		course.Thumbnail = ref
	}

	if err := s.courses.CreateCourse(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// EditCourse replaces the editable fields of course id. A new thumbnail
// replaces and destroys the previous one.
func (s *Service) EditCourse(ctx context.Context, id string, in CourseInput) (*Course, error) {
	if err := s.checkCourseInput(in); err != nil {
		return nil, err
	}
	course, err := s.courses.FindCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	s.applyCourseInput(course, in)
	if in.Thumbnail != "" {
		ref, err := s.upload(ctx, in.Thumbnail, courseFolder)
		if err != nil {
			return nil, err
		}
		s.destroy(ctx, course.Thumbnail)
		course.Thumbnail = ref
	}
	course.UpdatedAt = s.clock()

	if err := s.courses.UpdateCourse(ctx, course); err != nil {
		return nil, err
	}
	s.evict(ctx, id)
	return course, nil
}

// GetCourse returns the public preview of course id. See [Course.Preview].
func (s *Service) GetCourse(ctx context.Context, id string) (*Course, error) {
	course, err := s.loadCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	return course.Preview(), nil
}

// ListCourses returns the preview of every course.
func (s *Service) ListCourses(ctx context.Context) ([]Course, error) {
	courses, err := s.courses.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		courses[i] = *courses[i].Preview()
	}
	return courses, nil
}

// loadCourse reads the full course through the cache. Concurrent misses
// for the same id share one repository read, which runs detached from the
// first caller's cancellation.
func (s *Service) loadCourse(ctx context.Context, id string) (*Course, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: course id is required", learnhub.ErrInvalidInput)
	}
	if s.cache != nil {
		course, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "course cache read failed", "course_id", id, "error", err)
		}
		if ok {
			return course, nil
		}
	}

	shared := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(id, func() (any, error) {
		course, err := s.courses.FindCourse(shared, id)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(shared, course); err != nil {
				s.logger.WarnContext(shared, "course cache write failed", "course_id", id, "error", err)
			}
		}
		return course, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Course).Clone(), nil
	}
}

func (s *Service) evict(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "course cache evict failed", "course_id", id, "error", err)
	}
}
