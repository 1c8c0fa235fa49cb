package notify

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
)

// AssignmentNotice is what the dispatch desk is told about a new assignment.
type AssignmentNotice struct {
	Trip       domain.Trip
	Driver     domain.Driver
	Assignment domain.TripAssignment
	// Warning is the advisory conflict message, empty when there is none.
	Warning string
}

// DispatchDesk posts assignment notices to a Telegram chat.
type DispatchDesk struct {
	bot    *tele.Bot
	chatID int64
}

// NewDispatchDesk builds a desk notifier. apiURL may be empty to use the
// public Telegram API. The bot is created offline so no request is made
// until the first notice.
func NewDispatchDesk(token, apiURL string, chatID int64) (*DispatchDesk, error) {
	bot, err := tele.NewBot(tele.Settings{
		Token:   token,
		URL:     apiURL,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("notify.NewDispatchDesk: %w", err)
	}
	return &DispatchDesk{bot: bot, chatID: chatID}, nil
}

// NotifyAssignment sends one message describing n. A nil desk does nothing.
func (d *DispatchDesk) NotifyAssignment(ctx context.Context, n AssignmentNotice) error {
	if d == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("notify.DispatchDesk.NotifyAssignment: %w", err)
	}
	if _, err := d.bot.Send(tele.ChatID(d.chatID), FormatAssignment(n)); err != nil {
		return fmt.Errorf("notify.DispatchDesk.NotifyAssignment: %w", err)
	}
	return nil
}

// FormatAssignment renders the plain-text body of an assignment notice.
func FormatAssignment(n AssignmentNotice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Driver %s assigned to trip on %s at %s\n",
		n.Driver.Name, n.Trip.Date.Format(domain.DateLayout), n.Trip.StartTime)
	fmt.Fprintf(&b, "Service: %s\n", n.Trip.ServiceKind)
	if n.Trip.PickupLocation != "" || n.Trip.DropoffLocation != "" {
		fmt.Fprintf(&b, "Route: %s -> %s\n", n.Trip.PickupLocation, n.Trip.DropoffLocation)
	}
	if f := n.Trip.Flight; f != nil && f.Number != "" {
		fmt.Fprintf(&b, "Flight: %s\n", f.Number)
	}
	if n.Assignment.Notes != "" {
		fmt.Fprintf(&b, "Note: %s\n", n.Assignment.Notes)
	}
	if n.Warning != "" {
		fmt.Fprintf(&b, "Warning: %s\n", n.Warning)
	}
	return strings.TrimRight(b.String(), "\n")
}
