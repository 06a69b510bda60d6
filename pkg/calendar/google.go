package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/hiredeck/scheduling-api/pkg/config"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
)

// GoogleCalendar implements Meetings against the Google Calendar API.
type GoogleCalendar struct {
	oauthConfig *oauth2.Config
	organizer   string
	timezone    string
}

// NewGoogleCalendar builds the provider from application config.
func NewGoogleCalendar(cfg config.CalendarConfig) *GoogleCalendar {
	return &GoogleCalendar{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       []string{gcalendar.CalendarScope},
			Endpoint:     google.Endpoint,
		},
		organizer: cfg.OrganizerEmail,
		timezone:  cfg.Timezone,
	}
}

// CreateMeeting books a Google Meet conference between the interviewer and
// the candidate on the organizer calendar.
func (g *GoogleCalendar) CreateMeeting(ctx context.Context, organizerEmail, attendeeEmail string, start, end time.Time, details MeetingDetails) (string, string, error) {
	svc, err := gcalendar.NewService(ctx, option.WithScopes(gcalendar.CalendarScope))
	if err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrExternalService.Code, appErrors.ErrExternalService.Status, "create calendar client")
	}

	event := &gcalendar.Event{
		Summary: fmt.Sprintf("%s_%s_Technical_Round", details.CandidateName, details.PositionName),
		Description: "- Please join the interview at least 3 minutes before.\n" +
			"- Please keep the video on during the entire interview.\n" +
			"- Please check your speaker and microphone before joining.\n" +
			"- Please ensure a quiet place to avoid background noise.",
		Start: &gcalendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: g.timezone,
		},
		End: &gcalendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: g.timezone,
		},
		Attendees: []*gcalendar.EventAttendee{
			{Email: organizerEmail},
			{Email: attendeeEmail},
		},
		ConferenceData: &gcalendar.ConferenceData{
			CreateRequest: &gcalendar.CreateConferenceRequest{
				RequestId:             fmt.Sprintf("meet-%d", start.Unix()),
				ConferenceSolutionKey: &gcalendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		},
		Reminders: &gcalendar.EventReminders{
			UseDefault:      false,
			ForceSendFields: []string{"UseDefault"},
			Overrides: []*gcalendar.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 10},
			},
		},
		Transparency: "transparent",
	}

	created, err := svc.Events.Insert("primary", event).ConferenceDataVersion(1).Context(ctx).Do()
	if err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrExternalService.Code, appErrors.ErrExternalService.Status, "create calendar meeting")
	}
	return created.HangoutLink, created.Id, nil
}

// CreateEvent publishes an availability event on the interviewer's own
// calendar using their OAuth tokens.
func (g *GoogleCalendar) CreateEvent(ctx context.Context, accessToken, refreshToken string, details EventDetails) (string, error) {
	tok := &oauth2.Token{AccessToken: accessToken, RefreshToken: refreshToken}
	client := g.oauthConfig.Client(ctx, tok)

	svc, err := gcalendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrExternalService.Code, appErrors.ErrExternalService.Status, "create calendar client")
	}

	tz := details.Timezone
	if tz == "" {
		tz = g.timezone
	}
	event := &gcalendar.Event{
		Summary: details.Summary,
		Start: &gcalendar.EventDateTime{
			DateTime: details.Start.Format(time.RFC3339),
			TimeZone: tz,
		},
		End: &gcalendar.EventDateTime{
			DateTime: details.End.Format(time.RFC3339),
			TimeZone: tz,
		},
		Reminders: &gcalendar.EventReminders{
			UseDefault:      false,
			ForceSendFields: []string{"UseDefault"},
		},
	}
	if rule := details.Recurrence.RRule(); rule != "" {
		event.Recurrence = []string{rule}
	}

	created, err := svc.Events.Insert("primary", event).Context(ctx).Do()
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrExternalService.Code, appErrors.ErrExternalService.Status, "create calendar event")
	}
	return created.Id, nil
}
