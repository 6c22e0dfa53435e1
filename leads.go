package leadscout

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"
)

// Lead statuses as the backend understands them.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusWon       = "won"
	LeadStatusLost      = "lost"
)

// Lead is a facility tracked through the sales pipeline.
type Lead struct {
	ID                int        `json:"id"`
	Name              string     `json:"name"`
	Phone             string     `json:"phone,omitempty"`
	Email             string     `json:"email,omitempty"`
	Address           string     `json:"address,omitempty"`
	Website           string     `json:"website,omitempty"`
	Rating            float64    `json:"rating"`
	Status            string     `json:"status"`
	ContactName       string     `json:"contact_name,omitempty"`
	ContactPhone      string     `json:"contact_phone,omitempty"`
	ContactEmail      string     `json:"contact_email,omitempty"`
	ContactPosition   string     `json:"contact_position,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	Tags              []string   `json:"tags"`
	EstimatedValue    *float64   `json:"estimated_value"`
	Probability       int        `json:"probability"`
	ExpectedCloseDate *string    `json:"expected_close_date"`
	NextFollowupDate  *time.Time `json:"next_followup_date"`
	ContactCount      int        `json:"contact_count"`
	Score             int        `json:"score"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

// LeadCreate is the payload for creating a lead, typically from a facility
// search result.
type LeadCreate struct {
	FacilityID *int     `json:"facility_id,omitempty"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone,omitempty"`
	Email      string   `json:"email,omitempty"`
	Address    string   `json:"address,omitempty"`
	Website    string   `json:"website,omitempty"`
	Rating     float64  `json:"rating,omitempty"`
	Notes      string   `json:"notes,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// LeadUpdate is a partial update; nil fields are left unchanged.
type LeadUpdate struct {
	Status            *string    `json:"status,omitempty"`
	ContactName       *string    `json:"contact_name,omitempty"`
	ContactPhone      *string    `json:"contact_phone,omitempty"`
	ContactEmail      *string    `json:"contact_email,omitempty"`
	ContactPosition   *string    `json:"contact_position,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	EstimatedValue    *float64   `json:"estimated_value,omitempty"`
	Probability       *int       `json:"probability,omitempty"`
	ExpectedCloseDate *string    `json:"expected_close_date,omitempty"`
	NextFollowupDate  *time.Time `json:"next_followup_date,omitempty"`
}

// Activity is one logged interaction with a lead.
type Activity struct {
	ID              int       `json:"id"`
	ActivityType    string    `json:"activity_type"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	DurationMinutes *int      `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}

// ActivityCreate logs an interaction. ActivityType is one of call, email,
// meeting, note.
type ActivityCreate struct {
	ActivityType    string `json:"activity_type"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
}

// Reminder is a scheduled follow-up.
type Reminder struct {
	ID           int       `json:"id"`
	ReminderDate time.Time `json:"reminder_date"`
	ReminderType string    `json:"reminder_type"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	IsCompleted  bool      `json:"is_completed"`
}

// ReminderCreate schedules a follow-up. ReminderType is one of call, email,
// meeting, task.
type ReminderCreate struct {
	ReminderDate time.Time `json:"reminder_date"`
	ReminderType string    `json:"reminder_type"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
}

// LeadStats is the pipeline dashboard summary.
type LeadStats struct {
	TotalLeads     int     `json:"total_leads"`
	NewLeads       int     `json:"new_leads"`
	ContactedLeads int     `json:"contacted_leads"`
	WonLeads       int     `json:"won_leads"`
	LostLeads      int     `json:"lost_leads"`
	TotalValue     float64 `json:"total_value"`
	PipelineValue  float64 `json:"pipeline_value"`
	ConversionRate float64 `json:"conversion_rate"`
}

// LeadsService is the generic resource surface for /leads plus the
// endpoints that do not fit the CRUD shape.
type LeadsService struct {
	*Resource[Lead]
	client *Client
}

// Stats returns the pipeline dashboard numbers.
func (s *LeadsService) Stats(ctx context.Context) (*Envelope[LeadStats], error) {
	env, err := s.CustomGet(ctx, "/stats", nil)
	if err != nil {
		return nil, err
	}
	var stats LeadStats
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		return nil, unknownError(err)
	}
	return &Envelope[LeadStats]{Data: stats, Message: env.Message, Success: env.Success, Status: env.Status}, nil
}

// AddActivity logs an interaction against a lead.
func (s *LeadsService) AddActivity(ctx context.Context, leadID int, activity ActivityCreate) (*Envelope[Activity], error) {
	env, err := s.CustomPost(ctx, "/"+strconv.Itoa(leadID)+"/activities", activity)
	if err != nil {
		return nil, err
	}
	var created Activity
	if err := json.Unmarshal(env.Data, &created); err != nil {
		return nil, unknownError(err)
	}
	return &Envelope[Activity]{Data: created, Message: env.Message, Success: env.Success, Status: env.Status}, nil
}

// Activities lists a lead's interaction log.
func (s *LeadsService) Activities(ctx context.Context, leadID int) (*Envelope[[]Activity], error) {
	env, err := s.CustomGet(ctx, "/"+strconv.Itoa(leadID)+"/activities", nil)
	if err != nil {
		return nil, err
	}
	var activities []Activity
	if err := json.Unmarshal(env.Data, &activities); err != nil {
		return nil, unknownError(err)
	}
	return &Envelope[[]Activity]{Data: activities, Message: env.Message, Success: env.Success, Status: env.Status}, nil
}

// AddReminder schedules a follow-up for a lead.
func (s *LeadsService) AddReminder(ctx context.Context, leadID int, reminder ReminderCreate) (*Envelope[Reminder], error) {
	env, err := s.CustomPost(ctx, "/"+strconv.Itoa(leadID)+"/reminders", reminder)
	if err != nil {
		return nil, err
	}
	var created Reminder
	if err := json.Unmarshal(env.Data, &created); err != nil {
		return nil, unknownError(err)
	}
	return &Envelope[Reminder]{Data: created, Message: env.Message, Success: env.Success, Status: env.Status}, nil
}

// UpcomingReminders lists reminders due within the given number of days.
func (s *LeadsService) UpcomingReminders(ctx context.Context, days int) (*Envelope[[]Reminder], error) {
	params := url.Values{}
	params.Set("days", strconv.Itoa(days))
	env, err := s.CustomGet(ctx, "/reminders/upcoming", params)
	if err != nil {
		return nil, err
	}
	var reminders []Reminder
	if err := json.Unmarshal(env.Data, &reminders); err != nil {
		return nil, unknownError(err)
	}
	return &Envelope[[]Reminder]{Data: reminders, Message: env.Message, Success: env.Success, Status: env.Status}, nil
}
