// Package notification reacts to domain events by writing in-app
// notifications and mirroring them to operator email. Domain modules publish
// events and never talk to notification delivery directly.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stayportal_backend/internal/directory"
	"stayportal_backend/internal/email"
	"stayportal_backend/internal/events"
	apphttp "stayportal_backend/internal/http"
	notifhandler "stayportal_backend/internal/notification/handler"
	"stayportal_backend/internal/notification/inapp"
	"stayportal_backend/platform/logger"
)

const resourceTypeLead = "lead"

// Store persists in-app notifications.
type Store interface {
	Create(ctx context.Context, p inapp.CreateParams) (inapp.Notification, error)
}

// OperatorReader resolves operator contact details for email delivery.
type OperatorReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (directory.Operator, error)
}

// Module subscribes to lead events and fans them out to the in-app store
// and the email sender.
type Module struct {
	store     Store
	operators OperatorReader
	sender    email.Sender
	log       *logger.Logger
	handler   *notifhandler.Handler
}

func NewModule(repo *inapp.Repository, operators OperatorReader, sender email.Sender, bus events.Bus, log *logger.Logger) *Module {
	m := &Module{
		store:     repo,
		operators: operators,
		sender:    sender,
		log:       log,
		handler:   notifhandler.New(repo),
	}
	m.subscribe(bus)
	return m
}

func (m *Module) subscribe(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(m.onLeadCreated))
	bus.Subscribe(events.LeadAssigned{}.EventName(), events.HandlerFunc(m.onLeadAssigned))
	bus.Subscribe(events.CallbackReminderDue{}.EventName(), events.HandlerFunc(m.onReminderDue))
}

func (m *Module) onLeadCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadCreated)
	if !ok || e.AssignedOperatorID == nil {
		return nil
	}
	return m.notify(ctx, *e.AssignedOperatorID, e.LeadID,
		"New Call Request Assigned",
		fmt.Sprintf("%s requested a call about %s.", e.LeadName, e.AccommodationName),
		func(op directory.Operator) error {
			return m.sender.SendAssignmentEmail(ctx, op.Email, op.Name, e.LeadName, e.AccommodationName)
		},
	)
}

func (m *Module) onLeadAssigned(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadAssigned)
	if !ok {
		return nil
	}
	// The assigning operator already knows; only tell the assignee.
	if e.OperatorID == e.AssignedBy {
		return nil
	}
	return m.notify(ctx, e.OperatorID, e.LeadID,
		"Call Request Assigned",
		fmt.Sprintf("The call request from %s is now yours.", e.LeadName),
		func(op directory.Operator) error {
			return m.sender.SendAssignmentEmail(ctx, op.Email, op.Name, e.LeadName, "")
		},
	)
}

func (m *Module) onReminderDue(ctx context.Context, event events.Event) error {
	e, ok := event.(events.CallbackReminderDue)
	if !ok {
		return nil
	}
	return m.notify(ctx, e.OperatorID, e.LeadID,
		"Upcoming Callback Reminder",
		fmt.Sprintf("Callback with %s about %s at %s.",
			e.LeadName, e.AccommodationName, e.ScheduledFor.Format(time.RFC1123)),
		func(op directory.Operator) error {
			return m.sender.SendCallbackReminderEmail(ctx, op.Email, op.Name, e.LeadName, e.AccommodationName, e.ScheduledFor)
		},
	)
}

func (m *Module) notify(ctx context.Context, operatorID, leadID uuid.UUID, title, content string, sendEmail func(directory.Operator) error) error {
	resourceType := resourceTypeLead
	_, err := m.store.Create(ctx, inapp.CreateParams{
		OperatorID:   operatorID,
		Title:        title,
		Content:      content,
		ResourceID:   &leadID,
		ResourceType: &resourceType,
	})
	if err != nil {
		return err
	}

	operator, err := m.operators.GetByID(ctx, operatorID)
	if err != nil {
		m.log.Error("notification email skipped, operator lookup failed", "error", err, "operatorId", operatorID)
		return nil
	}
	if err := sendEmail(operator); err != nil {
		// Email is best effort; the in-app notification already landed.
		m.log.Error("notification email failed", "error", err, "operatorId", operatorID)
	}
	return nil
}

func (m *Module) Name() string {
	return "notification"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/notifications"))
}

var _ apphttp.Module = (*Module)(nil)
