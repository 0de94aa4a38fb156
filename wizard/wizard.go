// Package wizard holds the four-step giving flow: form -> payment -> proof
// -> success, with back edges from payment and proof. Progress lives in an
// expiring in-memory session; abandoning the flow simply lets it expire.
package wizard

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	models "github.com/penielchurch/site-backend/models"
)

type Step string

const (
	StepForm    Step = "form"
	StepPayment Step = "payment"
	StepProof   Step = "proof"
	StepSuccess Step = "success"
)

var (
	ErrSessionNotFound = errors.New("wizard session not found or expired")
	ErrWrongStep       = errors.New("operation not valid at current step")
	ErrCannotGoBack    = errors.New("cannot go back from this step")
	ErrProofInFlight   = errors.New("a proof upload is already in progress")
)

// FormData is everything collected at the form step. It survives back
// navigation untouched.
type FormData struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Purpose string `json:"purpose"`
}

// Session is a point-in-time copy of one giver's progress. The store hands
// out copies only; all transitions go through Store methods so concurrent
// requests on the same id serialize on the store lock.
type Session struct {
	ID        string    `json:"id"`
	Step      Step      `json:"step"`
	Form      FormData  `json:"form"`
	ExpiresAt time.Time `json:"expires_at"`

	proofInFlight bool
}

// Store keeps sessions in memory with a TTL. Nothing is persisted: closing
// the flow or restarting the process discards progress, as intended.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
	return s
}

func (st *Store) Start() Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweepLocked()

	sess := &Session{
		ID:        uuid.NewString(),
		Step:      StepForm,
		Form:      FormData{Purpose: models.DonationPurposes[0]},
		ExpiresAt: st.now().Add(st.ttl),
	}
	st.sessions[sess.ID] = sess
	return *sess
}

func (st *Store) Get(id string) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, err := st.getLocked(id)
	if err != nil {
		return Session{}, err
	}
	return *sess, nil
}

// SubmitForm validates and stores the form fields, advancing to payment.
// Allowed from form (first pass) and from payment/proof after going back.
func (st *Store) SubmitForm(id string, f FormData) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, err := st.getLocked(id)
	if err != nil {
		return Session{}, err
	}
	if sess.Step != StepForm {
		return Session{}, ErrWrongStep
	}
	sub := models.Submission{Name: f.Name, Phone: f.Phone, Purpose: f.Purpose}
	if err := sub.Validate(); err != nil {
		return Session{}, err
	}
	if f.Purpose == "" {
		f.Purpose = models.DonationPurposes[0]
	}
	sess.Form = f
	sess.Step = StepPayment
	return *sess, nil
}

// Advance moves payment -> proof once the giver has seen the QR.
func (st *Store) Advance(id string) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, err := st.getLocked(id)
	if err != nil {
		return Session{}, err
	}
	if sess.Step != StepPayment {
		return Session{}, ErrWrongStep
	}
	sess.Step = StepProof
	return *sess, nil
}

// Back walks one step toward the form. Entered data is never dropped.
func (st *Store) Back(id string) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, err := st.getLocked(id)
	if err != nil {
		return Session{}, err
	}
	if sess.proofInFlight {
		return Session{}, ErrProofInFlight
	}
	switch sess.Step {
	case StepPayment:
		sess.Step = StepForm
	case StepProof:
		sess.Step = StepPayment
	default:
		return Session{}, ErrCannotGoBack
	}
	return *sess, nil
}

// BeginProof reserves the proof step for one upload. A second caller gets
// ErrProofInFlight until EndProof releases the reservation, so a doubled
// submit can never record two submissions.
func (st *Store) BeginProof(id string) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, err := st.getLocked(id)
	if err != nil {
		return Session{}, err
	}
	if sess.Step != StepProof {
		return Session{}, ErrWrongStep
	}
	if sess.proofInFlight {
		return Session{}, ErrProofInFlight
	}
	sess.proofInFlight = true
	return *sess, nil
}

// EndProof releases the reservation taken by BeginProof. On success the
// session moves to the terminal step; on failure it stays on proof so the
// giver can retry.
func (st *Store) EndProof(id string, succeeded bool) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, err := st.getLocked(id)
	if err != nil {
		return Session{}, err
	}
	sess.proofInFlight = false
	if succeeded {
		sess.Step = StepSuccess
	}
	return *sess, nil
}

func (st *Store) Remove(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// getLocked resolves a live session and extends its TTL. Callers hold st.mu.
func (st *Store) getLocked(id string) (*Session, error) {
	sess, ok := st.sessions[id]
	if !ok || st.now().After(sess.ExpiresAt) {
		delete(st.sessions, id)
		return nil, ErrSessionNotFound
	}
	sess.ExpiresAt = st.now().Add(st.ttl)
	return sess, nil
}

func (st *Store) sweepLocked() {
	now := st.now()
	for id, sess := range st.sessions {
		if now.After(sess.ExpiresAt) {
			delete(st.sessions, id)
		}
	}
}
