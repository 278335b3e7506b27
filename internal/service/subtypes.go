package service

import (
	"context"
	"fmt"
	"slices"

	"workboard/internal/model"
	"workboard/internal/repository"
)

// SubtypeService manages per-area subtype lists as deltas over the defaults.
type SubtypeService struct {
	settings *repository.SettingsRepository
}

func NewSubtypeService(settings *repository.SettingsRepository) *SubtypeService {
	return &SubtypeService{settings: settings}
}

// List returns the merged subtypes of one area, or of every area when area is empty.
func (s *SubtypeService) List(ctx context.Context, area string) (map[string][]string, error) {
	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	areas := model.Areas
	if area != "" {
		if !slices.Contains(model.Areas, area) {
			return nil, fmt.Errorf("%w: unknown area %q", model.ErrInvalid, area)
		}
		areas = []string{area}
	}
	out := make(map[string][]string, len(areas))
	for _, a := range areas {
		out[a] = mergeSubtypes(a, st.CustomSubtypes[a])
	}
	return out, nil
}

// Add makes subtype available in area, undoing an earlier removal of a default.
func (s *SubtypeService) Add(ctx context.Context, area, subtype string) ([]string, error) {
	return s.change(ctx, area, subtype, func(d *model.SubtypeDelta) {
		if !slices.Contains(d.Added, subtype) && !slices.Contains(DefaultSubtypes[area], subtype) {
			d.Added = append(d.Added, subtype)
		}
		d.Removed = slices.DeleteFunc(d.Removed, func(x string) bool { return x == subtype })
	})
}

// Remove drops a custom subtype, or hides a default one.
func (s *SubtypeService) Remove(ctx context.Context, area, subtype string) ([]string, error) {
	return s.change(ctx, area, subtype, func(d *model.SubtypeDelta) {
		if slices.Contains(d.Added, subtype) {
			d.Added = slices.DeleteFunc(d.Added, func(x string) bool { return x == subtype })
			return
		}
		if slices.Contains(DefaultSubtypes[area], subtype) && !slices.Contains(d.Removed, subtype) {
			d.Removed = append(d.Removed, subtype)
		}
	})
}

func (s *SubtypeService) change(ctx context.Context, area, subtype string, apply func(*model.SubtypeDelta)) ([]string, error) {
	if area == "" || subtype == "" {
		return nil, fmt.Errorf("%w: need both area and subtype name", model.ErrInvalid)
	}
	if !slices.Contains(model.Areas, area) {
		return nil, fmt.Errorf("%w: unknown area %q", model.ErrInvalid, area)
	}
	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if st.CustomSubtypes == nil {
		st.CustomSubtypes = make(map[string]model.SubtypeDelta)
	}
	delta := st.CustomSubtypes[area]
	apply(&delta)
	st.CustomSubtypes[area] = delta
	if err := s.settings.Put(ctx, &st); err != nil {
		return nil, err
	}
	return mergeSubtypes(area, delta), nil
}

func mergeSubtypes(area string, delta model.SubtypeDelta) []string {
	out := make([]string, 0, len(DefaultSubtypes[area])+len(delta.Added))
	for _, st := range DefaultSubtypes[area] {
		if !slices.Contains(delta.Removed, st) {
			out = append(out, st)
		}
	}
	return append(out, delta.Added...)
}
