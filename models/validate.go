package models

import (
	"errors"
	"fmt"
	"strings"
)

// Write-path validation shared by every caller (HTTP handlers, the
// provisioning command, the wizard). HTTP binding tags catch malformed
// requests at the edge; these functions are the rules that hold no matter
// which path issues the write.

var (
	ErrTitleRequired  = errors.New("title must not be empty")
	ErrNameRequired   = errors.New("name must not be empty")
	ErrPhoneRequired  = errors.New("phone must not be empty")
	ErrURLRequired    = errors.New("url must not be empty")
	ErrEmailRequired  = errors.New("email must not be empty")
	ErrBadEmailFormat = errors.New("email must contain '@'")
)

var bentoSizes = map[string]bool{"normal": true, "wide": true, "tall": true, "big": true}
var bentoTypes = map[string]bool{"image": true, "service_list": true}

func (h *Hero) Validate() error {
	if strings.TrimSpace(h.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

func (b *Banner) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

func (c *BentoCard) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrTitleRequired
	}
	if c.Size == "" {
		c.Size = "normal"
	}
	if !bentoSizes[c.Size] {
		return fmt.Errorf("invalid size %q", c.Size)
	}
	if c.Type == "" {
		c.Type = "image"
	}
	if !bentoTypes[c.Type] {
		return fmt.Errorf("invalid type %q", c.Type)
	}
	if c.Type == "service_list" {
		for _, s := range c.Services {
			if strings.TrimSpace(s.Name) == "" {
				return errors.New("service entries need a name")
			}
		}
	}
	return nil
}

func (a *Announcement) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrTitleRequired
	}
	if a.EndDate != nil && a.EndDate.Before(a.StartDate) {
		return errors.New("end date is before start date")
	}
	return nil
}

func (g *GalleryItem) Validate() error {
	if strings.TrimSpace(g.URL) == "" {
		return ErrURLRequired
	}
	return nil
}

func (s *Submission) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(s.Phone) == "" {
		return ErrPhoneRequired
	}
	if s.Purpose == "" {
		s.Purpose = DonationPurposes[0]
	}
	if s.Status == "" {
		s.Status = SubmissionPending
	}
	if s.Status != SubmissionPending && s.Status != SubmissionVerified {
		return fmt.Errorf("invalid status %q", s.Status)
	}
	return nil
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmailRequired
	}
	if !strings.Contains(u.Email, "@") {
		return ErrBadEmailFormat
	}
	if u.Role != RoleAdmin && u.Role != RoleManager {
		return fmt.Errorf("invalid role %q", u.Role)
	}
	return nil
}
