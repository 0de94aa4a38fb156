package wizard

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestSubmitFormRequiresNameAndPhone(t *testing.T) {
	st := NewStore(time.Minute)
	sess := st.Start()

	if _, err := st.SubmitForm(sess.ID, FormData{Name: "", Phone: "+910000000000"}); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := st.SubmitForm(sess.ID, FormData{Name: "Jane Doe", Phone: ""}); err == nil {
		t.Error("expected error for empty phone")
	}
	sess, err := st.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.Step != StepForm {
		t.Errorf("step = %q, want form after failed submits", sess.Step)
	}

	sess, err = st.SubmitForm(sess.ID, FormData{Name: "Jane Doe", Phone: "+910000000000"})
	if err != nil {
		t.Fatalf("SubmitForm: %v", err)
	}
	if sess.Step != StepPayment {
		t.Errorf("step = %q, want payment", sess.Step)
	}
}

func TestBackPreservesEnteredFields(t *testing.T) {
	st := NewStore(time.Minute)
	id := st.Start().ID

	form := FormData{
		Name:    "Jane Doe",
		Phone:   "+910000000000",
		Address: "12 Chapel Road",
		Purpose: "Building Fund",
	}
	if _, err := st.SubmitForm(id, form); err != nil {
		t.Fatalf("SubmitForm: %v", err)
	}
	sess, err := st.Back(id)
	if err != nil {
		t.Fatalf("Back: %v", err)
	}
	if sess.Step != StepForm {
		t.Fatalf("step = %q, want form", sess.Step)
	}
	if sess.Form != form {
		t.Errorf("form data changed across back navigation: got %+v, want %+v", sess.Form, form)
	}

	// Forward again all the way to proof and back to payment.
	if _, err := st.SubmitForm(id, form); err != nil {
		t.Fatalf("SubmitForm again: %v", err)
	}
	if _, err := st.Advance(id); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	sess, err = st.Back(id)
	if err != nil {
		t.Fatalf("Back from proof: %v", err)
	}
	if sess.Step != StepPayment {
		t.Errorf("step = %q, want payment", sess.Step)
	}
	if sess.Form != form {
		t.Errorf("form data changed: got %+v, want %+v", sess.Form, form)
	}
}

func TestStepOrdering(t *testing.T) {
	st := NewStore(time.Minute)
	id := st.Start().ID

	if _, err := st.Advance(id); err != ErrWrongStep {
		t.Errorf("Advance from form: err = %v, want ErrWrongStep", err)
	}
	if _, err := st.BeginProof(id); err != ErrWrongStep {
		t.Errorf("BeginProof from form: err = %v, want ErrWrongStep", err)
	}
	if _, err := st.Back(id); err != ErrCannotGoBack {
		t.Errorf("Back from form: err = %v, want ErrCannotGoBack", err)
	}

	st.SubmitForm(id, FormData{Name: "a", Phone: "b"})
	st.Advance(id)
	if _, err := st.BeginProof(id); err != nil {
		t.Fatalf("BeginProof: %v", err)
	}
	sess, err := st.EndProof(id, true)
	if err != nil {
		t.Fatalf("EndProof: %v", err)
	}
	if sess.Step != StepSuccess {
		t.Errorf("step = %q, want success", sess.Step)
	}
	if _, err := st.Back(id); err != ErrCannotGoBack {
		t.Errorf("Back from success: err = %v, want ErrCannotGoBack", err)
	}
}

// Only one proof upload may hold the step at a time; a retry is allowed
// after a failed attempt releases it.
func TestProofReservation(t *testing.T) {
	st := NewStore(time.Minute)
	id := st.Start().ID
	st.SubmitForm(id, FormData{Name: "a", Phone: "b"})
	st.Advance(id)

	if _, err := st.BeginProof(id); err != nil {
		t.Fatalf("BeginProof: %v", err)
	}
	if _, err := st.BeginProof(id); err != ErrProofInFlight {
		t.Errorf("second BeginProof: err = %v, want ErrProofInFlight", err)
	}
	if _, err := st.Back(id); err != ErrProofInFlight {
		t.Errorf("Back during upload: err = %v, want ErrProofInFlight", err)
	}

	// A failed attempt releases the step for a retry.
	sess, err := st.EndProof(id, false)
	if err != nil {
		t.Fatalf("EndProof(false): %v", err)
	}
	if sess.Step != StepProof {
		t.Errorf("step = %q, want proof after failed attempt", sess.Step)
	}
	if _, err := st.BeginProof(id); err != nil {
		t.Errorf("BeginProof after retry: %v", err)
	}
	if sess, err = st.EndProof(id, true); err != nil || sess.Step != StepSuccess {
		t.Errorf("EndProof(true): sess.Step = %q, err = %v", sess.Step, err)
	}

	// Terminal: no third attempt.
	if _, err := st.BeginProof(id); err != ErrWrongStep {
		t.Errorf("BeginProof after success: err = %v, want ErrWrongStep", err)
	}
}

// Hammer one session id from many goroutines, serializing snapshots while
// transitions run. Run with -race; every returned Session is a copy so
// nothing here may touch shared state.
func TestConcurrentSessionAccess(t *testing.T) {
	st := NewStore(time.Minute)
	id := st.Start().ID
	form := FormData{Name: "Jane Doe", Phone: "+910000000000"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.SubmitForm(id, form)
			st.Back(id)
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := st.Get(id)
			if err != nil {
				return
			}
			if _, err := json.Marshal(sess); err != nil {
				t.Errorf("marshal snapshot: %v", err)
			}
		}()
	}
	wg.Wait()

	sess, err := st.Get(id)
	if err != nil {
		t.Fatalf("Get after hammering: %v", err)
	}
	if sess.Step != StepForm && sess.Step != StepPayment {
		t.Errorf("step = %q, want form or payment", sess.Step)
	}
}

func TestSessionExpiry(t *testing.T) {
	st := NewStore(time.Minute)
	now := time.Now()
	st.now = func() time.Time { return now }

	sess := st.Start()
	if _, err := st.Get(sess.ID); err != nil {
		t.Fatalf("Get fresh session: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := st.Get(sess.ID); err != ErrSessionNotFound {
		t.Errorf("Get expired session: err = %v, want ErrSessionNotFound", err)
	}
}

func TestGetExtendsTTL(t *testing.T) {
	st := NewStore(time.Minute)
	now := time.Now()
	st.now = func() time.Time { return now }

	sess := st.Start()

	// Touch the session every 40s; it should stay alive past the base TTL.
	for i := 0; i < 3; i++ {
		now = now.Add(40 * time.Second)
		if _, err := st.Get(sess.ID); err != nil {
			t.Fatalf("Get at touch %d: %v", i, err)
		}
	}
}

func TestUnknownSession(t *testing.T) {
	st := NewStore(time.Minute)
	if _, err := st.Get("nope"); err != ErrSessionNotFound {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}
