package messaging

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/masaken/backoffice/internal/domain/models"
	"github.com/masaken/backoffice/pkg/clients/whatsapp"
)

// Step is the wizard position inside template mode. Transitions only move
// one step forward or backward through explicit calls.
type Step int

const (
	StepSelectRecipient Step = iota + 1
	StepSelectTemplate
	StepPreview
)

// Mode switches the composer between the template wizard and the free-form
// field-toggle share.
type Mode string

const (
	ModeCustom   Mode = "custom"
	ModeTemplate Mode = "template"
)

var (
	// ErrNoSession means the composer was never opened for this session.
	ErrNoSession = errors.New("message composer is not open")
	// ErrInvalidTransition rejects a navigation the current step does not allow.
	ErrInvalidTransition = errors.New("invalid wizard transition")
	// ErrNoTemplate means a preview was requested before a message kind was chosen.
	ErrNoTemplate = errors.New("no message template selected")
	// ErrNoPhone means the selected recipient has no phone number on file.
	ErrNoPhone = errors.New("لا يوجد رقم جوال مسجل لهذا العميل")
)

// Session is one operator's composer state for a single unit.
type Session struct {
	Unit      models.EnrichedUnit
	Mode      Mode
	Step      Step
	Recipient models.Recipient
	Kind      models.MessageKind
	Fields    map[models.ShareField]bool
}

// Composer manages per-session wizard state and renders outbound messages.
type Composer struct {
	links  *whatsapp.LinkBuilder
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewComposer wires a new composer instance.
func NewComposer(links *whatsapp.LinkBuilder, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{
		links:    links,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Open starts (or restarts) the composer for a unit. Reopening always resets
// to the first step, custom mode, default field toggles, and a recipient
// preferring the current owner when a title deed owner exists.
func (c *Composer) Open(sessionID string, unit models.EnrichedUnit) Session {
	recipient := models.RecipientOriginal
	if unit.TitleDeedOwner != nil && *unit.TitleDeedOwner != "" {
		recipient = models.RecipientCurrent
	}

	session := &Session{
		Unit:      unit,
		Mode:      ModeCustom,
		Step:      StepSelectRecipient,
		Recipient: recipient,
		Fields:    models.DefaultShareFields(),
	}

	c.mu.Lock()
	c.sessions[sessionID] = session
	c.mu.Unlock()

	c.logger.Debug("composer opened", zap.String("session", sessionID), zap.String("unit_id", unit.ID))
	return *session
}

// Close discards a session.
func (c *Composer) Close(sessionID string) {
	c.mu.Lock()
	delete(c.sessions, sessionID)
	c.mu.Unlock()
}

// Session returns a copy of the current state.
func (c *Composer) Session(sessionID string) (Session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sessions[sessionID]
	if !ok {
		return Session{}, ErrNoSession
	}
	return *s, nil
}

// SetMode toggles between custom share and the template wizard.
func (c *Composer) SetMode(sessionID string, mode Mode) error {
	if mode != ModeCustom && mode != ModeTemplate {
		return fmt.Errorf("unsupported composer mode %q", mode)
	}
	return c.with(sessionID, func(s *Session) error {
		s.Mode = mode
		return nil
	})
}

// SetRecipient selects which contact the templates address.
func (c *Composer) SetRecipient(sessionID string, recipient models.Recipient) error {
	if recipient != models.RecipientOriginal && recipient != models.RecipientCurrent {
		return fmt.Errorf("unsupported recipient %q", recipient)
	}
	return c.with(sessionID, func(s *Session) error {
		s.Recipient = recipient
		return nil
	})
}

// ToggleField switches one custom-share line on or off.
func (c *Composer) ToggleField(sessionID string, field models.ShareField, on bool) error {
	return c.with(sessionID, func(s *Session) error {
		if _, ok := s.Fields[field]; !ok {
			return fmt.Errorf("unknown share field %q", field)
		}
		s.Fields[field] = on
		return nil
	})
}

// Next advances the wizard from recipient selection to template selection.
// Advancing past template selection happens through ChooseKind only.
func (c *Composer) Next(sessionID string) error {
	return c.with(sessionID, func(s *Session) error {
		if s.Step != StepSelectRecipient {
			return ErrInvalidTransition
		}
		s.Step = StepSelectTemplate
		return nil
	})
}

// Back moves the wizard one step backwards.
func (c *Composer) Back(sessionID string) error {
	return c.with(sessionID, func(s *Session) error {
		switch s.Step {
		case StepPreview:
			s.Step = StepSelectTemplate
		case StepSelectTemplate:
			s.Step = StepSelectRecipient
		default:
			return ErrInvalidTransition
		}
		return nil
	})
}

// ChooseKind picks the message template and advances to the preview step.
func (c *Composer) ChooseKind(sessionID string, kind models.MessageKind) error {
	if !kind.Valid() {
		return fmt.Errorf("unsupported message kind %q", kind)
	}
	return c.with(sessionID, func(s *Session) error {
		if s.Step != StepSelectTemplate {
			return ErrInvalidTransition
		}
		s.Kind = kind
		s.Step = StepPreview
		return nil
	})
}

// Preview renders the currently selected template for the selected recipient.
func (c *Composer) Preview(sessionID string) (string, error) {
	s, err := c.Session(sessionID)
	if err != nil {
		return "", err
	}
	if !s.Kind.Valid() {
		return "", ErrNoTemplate
	}
	return renderTemplate(s.Kind, recipientName(s), s.Unit), nil
}

// CustomMessage renders the field-toggle share text for the session.
func (c *Composer) CustomMessage(sessionID string) (string, error) {
	s, err := c.Session(sessionID)
	if err != nil {
		return "", err
	}
	return buildCustomMessage(s.Unit, s.Fields), nil
}

// Link builds the messaging deep link for the session's current mode. Custom
// mode shares without a recipient; template mode requires a phone number.
func (c *Composer) Link(sessionID string) (string, error) {
	s, err := c.Session(sessionID)
	if err != nil {
		return "", err
	}

	if s.Mode == ModeCustom {
		return c.links.ShareLink(buildCustomMessage(s.Unit, s.Fields)), nil
	}

	if !s.Kind.Valid() {
		return "", ErrNoTemplate
	}
	phone := recipientPhone(s)
	if phone == "" {
		return "", ErrNoPhone
	}
	return c.links.MessageLink(phone, renderTemplate(s.Kind, recipientName(s), s.Unit)), nil
}

func (c *Composer) with(sessionID string, fn func(*Session) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[sessionID]
	if !ok {
		return ErrNoSession
	}
	return fn(s)
}

// recipientName resolves the display name, falling back from the current
// owner to the original client when the deed was never transferred.
func recipientName(s Session) string {
	if s.Recipient == models.RecipientCurrent {
		if s.Unit.TitleDeedOwner != nil && *s.Unit.TitleDeedOwner != "" {
			return *s.Unit.TitleDeedOwner
		}
	}
	return s.Unit.ClientName
}

func recipientPhone(s Session) string {
	if s.Recipient == models.RecipientCurrent {
		if s.Unit.TitleDeedOwnerPhone != nil && *s.Unit.TitleDeedOwnerPhone != "" {
			return *s.Unit.TitleDeedOwnerPhone
		}
	}
	return s.Unit.ClientPhone
}
