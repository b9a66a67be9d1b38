package services

import (
	"context"
	"errors"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobmarket/internal/domain/events"
	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/maxaizer/jobmarket/internal/logger"
	log "github.com/sirupsen/logrus"
)

type listingSync interface {
	SyncListings(ctx context.Context, identity models.Identity) error
}

type cacheInvalidator interface {
	Invalidate(id string)
}

// Notifier turns domain events into user facing notifications and keeps the
// listing caches in line with profile changes.
type Notifier struct {
	listings listingSync
	caches   []cacheInvalidator
}

func NewNotifier(bus EventBus.Bus, listings listingSync, caches ...cacheInvalidator) (*Notifier, error) {
	n := &Notifier{listings: listings, caches: caches}

	err := errors.Join(
		bus.Subscribe(events.LoggedInTopic, n.onLoggedIn),
		bus.Subscribe(events.LoggedOutTopic, n.onLoggedOut),
		bus.Subscribe(events.RegisteredTopic, n.onRegistered),
		bus.Subscribe(events.ProfileUpdatedTopic, n.onProfileUpdated),
		bus.Subscribe(events.AuthFailedTopic, n.onAuthFailed),
		bus.Subscribe(events.MessageSentTopic, n.onMessageSent),
		bus.Subscribe(events.JobPostedTopic, n.onJobPosted),
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Notifier) onLoggedIn(event events.LoggedIn) {
	log.WithField("session", event.SessionID).Infof("notify: welcome back, %s", event.Identity.Name)
}

func (n *Notifier) onLoggedOut(event events.LoggedOut) {
	log.WithField("session", event.SessionID).Infof("notify: %s signed out", event.IdentityID)
}

func (n *Notifier) onRegistered(event events.Registered) {
	log.WithField("session", event.SessionID).
		Infof("notify: account created for %s as %s", event.Identity.Email, event.Identity.Role)
}

func (n *Notifier) onProfileUpdated(event events.ProfileUpdated) {
	if err := n.listings.SyncListings(context.Background(), event.Identity); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to sync listings of %s: %v", event.Identity.ID, err)
	}
	for _, cache := range n.caches {
		cache.Invalidate(event.Identity.ID)
	}
	log.WithField("session", event.SessionID).Infof("notify: profile of %s updated", event.Identity.ID)
}

func (n *Notifier) onAuthFailed(event events.AuthFailed) {
	log.WithField("session", event.SessionID).Warnf("notify: %s failed: %v", event.Op, event.Err)
}

func (n *Notifier) onMessageSent(event events.MessageSent) {
	log.Debugf("notify: new message for %s in %s", event.Message.ReceiverID, event.Message.ConversationID)
}

func (n *Notifier) onJobPosted(event events.JobPosted) {
	log.Infof("notify: new job %q in %s", event.Job.Title, event.Job.Location.City)
}
