package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobmarket/internal/domain/events"
	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/maxaizer/jobmarket/internal/logger"
	"github.com/maxaizer/jobmarket/internal/metrics"
	"github.com/maxaizer/jobmarket/internal/repositories"
	log "github.com/sirupsen/logrus"
)

// AuthProvider is the remote auth and profile service a session talks to.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (models.AuthSession, error)
	SignUp(ctx context.Context, email, password string) (models.AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	ValidateSession(ctx context.Context, accessToken string) (string, error)
	CreateProfile(ctx context.Context, identity models.Identity) error
	GetProfile(ctx context.Context, userID string) (*models.Identity, error)
	UpdateProfile(ctx context.Context, identity models.Identity) error
}

// credentialRevoker is implemented by providers that can undo a SignUp.
type credentialRevoker interface {
	RevokeCredential(ctx context.Context, userID string) error
}

type slotStorage interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
}

type pendingRegistrations interface {
	Add(ctx context.Context, pending models.PendingRegistration) error
	Get(ctx context.Context, userID string) (*models.PendingRegistration, error)
	RecordAttempt(ctx context.Context, userID string, cause error) error
	Remove(ctx context.Context, userID string) error
}

type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// storedUser is the slot representation of a signed in user.
type storedUser struct {
	Identity    models.Identity `json:"identity"`
	AccessToken string          `json:"accessToken,omitempty"`
}

// Session is the identity store of a single client session.
//
// Every operation takes a token from a monotonic counter. Remote calls run
// without holding the mutex, and their result is applied only if no newer
// operation was started meanwhile; otherwise the caller gets ErrSuperseded.
type Session struct {
	id       string
	provider AuthProvider
	slot     slotStorage
	pending  pendingRegistrations
	bus      EventBus.Bus

	mu          sync.Mutex
	seq         uint64
	state       State
	identity    *models.Identity
	accessToken string
	language    models.Language
}

func NewSession(id string, provider AuthProvider, slot slotStorage, pending pendingRegistrations,
	bus EventBus.Bus) *Session {

	return &Session{
		id:       id,
		provider: provider,
		slot:     slot,
		pending:  pending,
		bus:      bus,
		language: models.DefaultLanguage,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns a copy of the current identity, nil when not authenticated.
func (s *Session) Identity() *models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Authenticated || s.identity == nil {
		return nil
	}
	identity := *s.identity
	return &identity
}

// Fingerprint identifies the current sign-in without exposing the provider
// access token. It changes with every login and is empty when anonymous.
func (s *Session) Fingerprint() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Authenticated || s.accessToken == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s.id + ":" + s.accessToken))
	return hex.EncodeToString(sum[:12])
}

// Restore loads the session from the durable slot. A stored remote access
// token is checked with the provider and an invalid one clears the slot.
func (s *Session) Restore(ctx context.Context) error {
	const op = "restore"

	s.restoreLanguage(ctx)

	data, err := s.slot.Load(ctx, repositories.SlotUserKey)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to load session %s: %v", s.id, err)
		return models.NewAuthError(op, models.ErrRemote, err)
	}
	if data == nil {
		return nil
	}

	var stored storedUser
	if err = json.Unmarshal(data, &stored); err != nil || stored.Identity.ID == "" {
		log.Warnf("dropping unreadable user slot of session %s: %v", s.id, err)
		s.removeUserSlot(ctx)
		return nil
	}

	token := s.begin(Authenticating)

	if stored.AccessToken != "" {
		userID, err := s.provider.ValidateSession(ctx, stored.AccessToken)
		if err == nil && userID != stored.Identity.ID {
			err = models.ErrNotAuthenticated
		}

		if err != nil {
			kind := kindOf(err)
			if errors.Is(kind, models.ErrNotAuthenticated) || errors.Is(kind, models.ErrInvalidCredentials) {
				log.Infof("stored session %s is no longer valid, signing out", s.id)
				s.fail(ctx, token, op, models.ErrNotAuthenticated, err)
				return nil
			}
			// the slot stays so the next access retries
			return s.abort(ctx, token, op, kind, err, false)
		}
	}

	if !s.commit(ctx, token, &stored.Identity, stored.AccessToken) {
		return s.superseded(op)
	}
	return nil
}

func (s *Session) Login(ctx context.Context, email, password string) (models.Identity, error) {
	const op = "login"

	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		fields := map[string]string{}
		if email == "" {
			fields["email"] = "is required"
		}
		if password == "" {
			fields["password"] = "is required"
		}
		return models.Identity{}, &models.ValidationError{Fields: fields}
	}

	token := s.begin(Authenticating)

	authSession, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return models.Identity{}, s.fail(ctx, token, op, kindOf(err), err)
	}

	identity, err := s.resolveProfile(ctx, authSession.UserID)
	if err != nil {
		return models.Identity{}, s.fail(ctx, token, op, kindOf(err), err)
	}

	if !s.commit(ctx, token, identity, authSession.AccessToken) {
		return models.Identity{}, s.superseded(op)
	}

	metrics.AuthOperationsCounter.WithLabelValues(op, "success").Inc()
	s.bus.Publish(events.LoggedInTopic, events.LoggedIn{SessionID: s.id, Identity: *identity})
	return *identity, nil
}

// resolveProfile loads the profile of a signed in user. A user whose
// registration was left incomplete gets the profile created now.
func (s *Session) resolveProfile(ctx context.Context, userID string) (*models.Identity, error) {
	profile, err := s.provider.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	pending, err := s.pending.Get(ctx, userID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get pending registration: %v", err)
		return nil, err
	}
	if pending == nil {
		return nil, errors.Join(models.ErrRemote, errors.New("no profile exists for user "+userID))
	}

	identity, err := pending.Identity()
	if err != nil {
		return nil, err
	}

	if err = s.provider.CreateProfile(ctx, identity); err != nil {
		if recordErr := s.pending.RecordAttempt(ctx, userID, err); recordErr != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to record attempt: %v", recordErr)
		}
		return nil, errors.Join(models.ErrIncompleteRegistration, err)
	}

	if err = s.pending.Remove(ctx, userID); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to remove pending registration: %v", err)
	}
	metrics.PendingRegistrationsGauge.Dec()
	log.Infof("completed pending registration of %s on login", userID)
	return &identity, nil
}

// Register creates the credential and the profile as one operation. If the
// profile cannot be created the credential is revoked when the provider
// supports it; otherwise the registration is kept as pending and
// ErrIncompleteRegistration is returned.
func (s *Session) Register(ctx context.Context, registration models.Registration) (models.Identity, error) {
	const op = "register"

	if err := models.Validate(registration); err != nil {
		return models.Identity{}, err
	}

	token := s.begin(Authenticating)

	authSession, err := s.provider.SignUp(ctx, models.NormalizeEmail(registration.Email), registration.Password)
	if err != nil {
		return models.Identity{}, s.fail(ctx, token, op, kindOf(err), err)
	}

	identity := registration.Identity(authSession.UserID)
	if err = s.provider.CreateProfile(ctx, identity); err != nil {
		return models.Identity{}, s.compensate(ctx, token, op, identity, err)
	}

	if !s.commit(ctx, token, &identity, authSession.AccessToken) {
		return models.Identity{}, s.superseded(op)
	}

	metrics.AuthOperationsCounter.WithLabelValues(op, "success").Inc()
	s.bus.Publish(events.RegisteredTopic, events.Registered{SessionID: s.id, Identity: identity})
	return identity, nil
}

func (s *Session) compensate(ctx context.Context, token uint64, op string, identity models.Identity,
	cause error) error {

	if revoker, ok := s.provider.(credentialRevoker); ok {
		revokeErr := revoker.RevokeCredential(ctx, identity.ID)
		if revokeErr == nil {
			log.Infof("registration of %s rolled back: %v", identity.Email, cause)
			return s.fail(ctx, token, op, kindOf(cause), cause)
		}
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAuthApi).
			Errorf("failed to revoke credential of %s: %v", identity.ID, revokeErr)
	}

	pending, err := models.NewPendingRegistration(identity, cause)
	if err == nil {
		err = s.pending.Add(ctx, pending)
	}
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to record pending registration of %s: %v", identity.ID, err)
	} else {
		metrics.PendingRegistrationsGauge.Inc()
	}

	return s.fail(ctx, token, op, models.ErrIncompleteRegistration, cause)
}

// Logout always succeeds locally. Remote sign-out failures are only logged.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	accessToken := s.accessToken
	identityID := ""
	if s.identity != nil {
		identityID = s.identity.ID
	}
	s.reset()
	s.removeUserSlot(ctx)
	s.mu.Unlock()

	if accessToken != "" {
		if err := s.provider.SignOut(ctx, accessToken); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeAuthApi).
				Warnf("remote sign out of session %s failed: %v", s.id, err)
		}
	}

	metrics.AuthOperationsCounter.WithLabelValues("logout", "success").Inc()
	s.bus.Publish(events.LoggedOutTopic, events.LoggedOut{SessionID: s.id, IdentityID: identityID})
	return nil
}

// UpdateUser merges the patch into the current identity. A failed remote
// update keeps the session signed in with the previous identity.
func (s *Session) UpdateUser(ctx context.Context, patch models.IdentityPatch) (models.Identity, error) {
	const op = "update_user"

	s.mu.Lock()
	if s.state != Authenticated || s.identity == nil {
		s.mu.Unlock()
		return models.Identity{}, models.NewAuthError(op, models.ErrNotAuthenticated, nil)
	}
	current := *s.identity
	s.mu.Unlock()

	if err := models.Validate(patch); err != nil {
		return models.Identity{}, err
	}

	s.mu.Lock()
	s.seq++
	token := s.seq
	s.mu.Unlock()

	if patch.IsEmpty() {
		return current, nil
	}

	updated := current.Merge(patch)
	if err := s.provider.UpdateProfile(ctx, updated); err != nil {
		metrics.AuthOperationsCounter.WithLabelValues(op, "failure").Inc()
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAuthApi).Errorf("failed to update profile: %v", err)
		return models.Identity{}, models.NewAuthError(op, kindOf(err), err)
	}

	s.mu.Lock()
	if token != s.seq {
		s.mu.Unlock()
		return models.Identity{}, s.superseded(op)
	}
	s.identity = &updated
	s.persistUser(ctx)
	s.mu.Unlock()

	metrics.AuthOperationsCounter.WithLabelValues(op, "success").Inc()
	s.bus.Publish(events.ProfileUpdatedTopic, events.ProfileUpdated{SessionID: s.id, Identity: updated})
	return updated, nil
}

func (s *Session) Language() models.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// SetLanguage persists the display language. It is kept across logouts.
func (s *Session) SetLanguage(ctx context.Context, code string) (models.Language, error) {
	language, ok := models.ToLanguage(code)
	if !ok {
		return s.Language(), models.NewValidationError("language", "must be one of: en hi kn")
	}

	if err := s.slot.Save(ctx, repositories.SlotLanguageKey, []byte(language)); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to save language: %v", err)
		return s.Language(), err
	}

	s.mu.Lock()
	s.language = language
	s.mu.Unlock()
	return language, nil
}

func (s *Session) restoreLanguage(ctx context.Context) {
	data, err := s.slot.Load(ctx, repositories.SlotLanguageKey)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to load language: %v", err)
		return
	}

	language, _ := models.ToLanguage(string(data))
	s.mu.Lock()
	s.language = language
	s.mu.Unlock()
}

func (s *Session) begin(state State) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.state = state
	return s.seq
}

// commit applies a successful result when token is still the latest one.
func (s *Session) commit(ctx context.Context, token uint64, identity *models.Identity, accessToken string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.seq {
		return false
	}

	s.state = Authenticated
	s.identity = identity
	s.accessToken = accessToken
	s.persistUser(ctx)
	return true
}

// fail returns the session to Anonymous and drops the durable user slot.
func (s *Session) fail(ctx context.Context, token uint64, op string, kind error, cause error) error {
	return s.abort(ctx, token, op, kind, cause, true)
}

// abort returns the session to Anonymous unless a newer operation took over,
// in which case the failure is reported as superseded.
func (s *Session) abort(ctx context.Context, token uint64, op string, kind error, cause error, clearSlot bool) error {
	s.mu.Lock()
	latest := token == s.seq
	if latest {
		s.reset()
		if clearSlot {
			s.removeUserSlot(ctx)
		}
	}
	s.mu.Unlock()

	if !latest {
		return s.superseded(op)
	}

	authErr := models.NewAuthError(op, kind, cause)
	metrics.AuthOperationsCounter.WithLabelValues(op, "failure").Inc()
	if errors.Is(kind, models.ErrRemote) {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAuthApi).Errorf("session %s: %v", s.id, authErr)
	} else {
		log.Infof("session %s: %v", s.id, authErr)
	}

	s.bus.Publish(events.AuthFailedTopic, events.AuthFailed{SessionID: s.id, Op: op, Err: authErr})
	return authErr
}

func (s *Session) superseded(op string) error {
	metrics.AuthOperationsCounter.WithLabelValues(op, "superseded").Inc()
	return models.NewAuthError(op, models.ErrSuperseded, nil)
}

// reset must be called with mu held.
func (s *Session) reset() {
	s.state = Anonymous
	s.identity = nil
	s.accessToken = ""
}

// persistUser must be called with mu held.
func (s *Session) persistUser(ctx context.Context) {
	data, err := json.Marshal(storedUser{Identity: *s.identity, AccessToken: s.accessToken})
	if err == nil {
		err = s.slot.Save(ctx, repositories.SlotUserKey, data)
	}
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to persist session %s: %v", s.id, err)
	}
}

func (s *Session) removeUserSlot(ctx context.Context) {
	if err := s.slot.Remove(ctx, repositories.SlotUserKey); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to clear session %s: %v", s.id, err)
	}
}

func kindOf(err error) error {
	for _, kind := range []error{
		models.ErrInvalidCredentials,
		models.ErrDuplicateEmail,
		models.ErrNotAuthenticated,
		models.ErrIncompleteRegistration,
		models.ErrForbidden,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return models.ErrRemote
}
