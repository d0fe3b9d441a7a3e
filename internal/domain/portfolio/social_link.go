package portfolio

import (
	"fmt"

	"github.com/google/uuid"
)

type SocialLink struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type LinkField string

const (
	LinkFieldPlatform LinkField = "platform"
	LinkFieldURL      LinkField = "url"
)

// SocialLinks is ordered by insertion. Like block.Sequence, operations return
// a new slice.
type SocialLinks []SocialLink

func (l SocialLinks) Add() (SocialLinks, SocialLink) {
	link := SocialLink{ID: uuid.NewString()}
	out := make(SocialLinks, len(l), len(l)+1)
	copy(out, l)
	return append(out, link), link
}

func (l SocialLinks) Update(id string, f LinkField, value string) (SocialLinks, error) {
	if f != LinkFieldPlatform && f != LinkFieldURL {
		return l, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	out := make(SocialLinks, len(l))
	copy(out, l)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		if f == LinkFieldPlatform {
			out[i].Platform = value
		} else {
			out[i].URL = value
		}
	}
	return out, nil
}

func (l SocialLinks) Remove(id string) SocialLinks {
	out := make(SocialLinks, 0, len(l))
	for _, link := range l {
		if link.ID != id {
			out = append(out, link)
		}
	}
	return out
}

func (l SocialLinks) Validate() error {
	seen := make(map[string]struct{}, len(l))
	for _, link := range l {
		if link.ID == "" {
			return fmt.Errorf("social link id is required")
		}
		if _, dup := seen[link.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateLink, link.ID)
		}
		seen[link.ID] = struct{}{}
	}
	return nil
}
