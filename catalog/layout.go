package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/learnhub"
)

// buildContent turns in into the payload for its type. Banner images are
// uploaded here; the caller destroys whatever the new content replaces.
func (s *Service) buildContent(ctx context.Context, in LayoutInput) (LayoutContent, error) {
	switch in.Type {
	case LayoutBanner:
		if in.Image == "" {
			return nil, fmt.Errorf("%w: banner image is required", learnhub.ErrInvalidInput)
		}
		ref, err := s.upload(ctx, in.Image, layoutFolder)
		if err != nil {
			return nil, err
		}
		return Banner{Image: *ref, Title: in.Title, SubTitle: in.SubTitle}, nil
	case LayoutFAQ:
		items := make(FAQList, 0, len(in.FAQ))
		for _, item := range in.FAQ {
			items = append(items, FAQItem{Question: item.Question, Answer: s.sanitizer.clean(item.Answer)})
		}
		return items, nil
	case LayoutCategories:
		items := make(CategoryList, 0, len(in.Categories))
		for _, c := range in.Categories {
			items = append(items, Category{Title: c.Title})
		}
		return items, nil
	}
	return nil, fmt.Errorf("%w: unknown layout type %q", learnhub.ErrInvalidInput, in.Type)
}

// release frees the assets held by replaced content.
func (s *Service) release(ctx context.Context, replaced LayoutContent) {
	if b, ok := replaced.(Banner); ok {
		s.destroy(ctx, &b.Image)
	}
}

// CreateLayout stores the first section of a type.
func (s *Service) CreateLayout(ctx context.Context, in LayoutInput) (*Layout, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown layout type %q", learnhub.ErrInvalidInput, in.Type)
	}
	_, err := s.layouts.FindLayout(ctx, in.Type)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s already exists", learnhub.ErrConflict, in.Type)
	case !errors.Is(err, learnhub.ErrNotFound):
		return nil, err
	}

	content, err := s.buildContent(ctx, in)
	if err != nil {
		return nil, err
	}
	var layout *Layout
	switch c := content.(type) {
	case Banner:
		layout = NewBannerLayout(s.newID(), c, s.clock())
	case FAQList:
		layout = NewFAQLayout(s.newID(), c, s.clock())
	case CategoryList:
		layout = NewCategoriesLayout(s.newID(), c, s.clock())
	}
	if err := s.layouts.CreateLayout(ctx, layout); err != nil {
		return nil, err
	}
	return layout, nil
}

// EditLayout replaces the content of an existing section. Editing a banner
// destroys its previous image.
func (s *Service) EditLayout(ctx context.Context, in LayoutInput) (*Layout, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown layout type %q", learnhub.ErrInvalidInput, in.Type)
	}
	layout, err := s.layouts.FindLayout(ctx, in.Type)
	if err != nil {
		return nil, err
	}
	previous, err := layout.Content()
	if err != nil {
		return nil, err
	}
	content, err := s.buildContent(ctx, in)
	if err != nil {
		return nil, err
	}
	layout.setContent(content)
	layout.UpdatedAt = s.clock()
	if err := s.layouts.UpdateLayout(ctx, layout); err != nil {
		return nil, err
	}
	s.release(ctx, previous)
	return layout, nil
}

// GetLayout returns the section of type t.
func (s *Service) GetLayout(ctx context.Context, t LayoutType) (*Layout, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown layout type %q", learnhub.ErrInvalidInput, t)
	}
	return s.layouts.FindLayout(ctx, t)
}
