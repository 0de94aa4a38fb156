package models

import (
	"testing"
	"time"
)

func TestHeroValidate(t *testing.T) {
	hero := Hero{Title: "Welcome Home"}
	if err := hero.Validate(); err != nil {
		t.Errorf("valid hero rejected: %v", err)
	}

	hero.Title = "   "
	if err := hero.Validate(); err != ErrTitleRequired {
		t.Errorf("err = %v, want ErrTitleRequired", err)
	}
}

func TestBentoCardValidate(t *testing.T) {
	card := BentoCard{Title: "Join Us Online", Size: "wide", Type: "image"}
	if err := card.Validate(); err != nil {
		t.Errorf("valid card rejected: %v", err)
	}

	card = BentoCard{Title: "Services"}
	if err := card.Validate(); err != nil {
		t.Fatalf("card with defaults rejected: %v", err)
	}
	if card.Size != "normal" || card.Type != "image" {
		t.Errorf("defaults = (%q, %q), want (normal, image)", card.Size, card.Type)
	}

	card = BentoCard{Title: "x", Size: "huge"}
	if err := card.Validate(); err == nil {
		t.Error("invalid size accepted")
	}

	card = BentoCard{Title: "x", Type: "video"}
	if err := card.Validate(); err == nil {
		t.Error("invalid type accepted")
	}

	card = BentoCard{Title: "Times", Type: "service_list", Services: []ServiceEntry{{Name: "", Time: "9am"}}}
	if err := card.Validate(); err == nil {
		t.Error("service entry without name accepted")
	}
}

func TestAnnouncementValidate(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	endBefore := start.Add(-24 * time.Hour)

	a := Announcement{Title: "Easter Service", StartDate: start}
	if err := a.Validate(); err != nil {
		t.Errorf("valid announcement rejected: %v", err)
	}

	a.EndDate = &endBefore
	if err := a.Validate(); err == nil {
		t.Error("end-before-start accepted")
	}
}

func TestSubmissionValidate(t *testing.T) {
	s := Submission{Name: "Jane Doe", Phone: "+910000000000"}
	if err := s.Validate(); err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}
	if s.Status != SubmissionPending {
		t.Errorf("status = %q, want pending default", s.Status)
	}
	if s.Purpose == "" {
		t.Error("purpose default not applied")
	}

	s = Submission{Phone: "+910000000000"}
	if err := s.Validate(); err != ErrNameRequired {
		t.Errorf("err = %v, want ErrNameRequired", err)
	}

	s = Submission{Name: "Jane"}
	if err := s.Validate(); err != ErrPhoneRequired {
		t.Errorf("err = %v, want ErrPhoneRequired", err)
	}

	s = Submission{Name: "Jane", Phone: "1", Status: "archived"}
	if err := s.Validate(); err == nil {
		t.Error("invalid status accepted")
	}
}

func TestUserValidate(t *testing.T) {
	u := User{Email: "admin@peniel.church", Role: RoleAdmin}
	if err := u.Validate(); err != nil {
		t.Errorf("valid user rejected: %v", err)
	}

	u = User{Email: "not-an-email", Role: RoleAdmin}
	if err := u.Validate(); err != ErrBadEmailFormat {
		t.Errorf("err = %v, want ErrBadEmailFormat", err)
	}

	u = User{Email: "a@b.c", Role: "owner"}
	if err := u.Validate(); err == nil {
		t.Error("invalid role accepted")
	}
}
