package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/veloclub/veloclub/internal/app/models"
	"github.com/veloclub/veloclub/internal/app/models/dto"
	"github.com/veloclub/veloclub/internal/pkg/apperrors"
	"github.com/veloclub/veloclub/internal/pkg/events"
	"github.com/veloclub/veloclub/internal/pkg/helpers"
	"github.com/veloclub/veloclub/internal/pkg/ranking"
)

// eventStore is the event persistence surface the service needs.
// Satisfied by *repositories.EventRepository.
type eventStore interface {
	CreateEvent(ctx context.Context, event *models.Event) (int64, error)
	GetEventByID(ctx context.Context, id int64) (*models.Event, error)
	ListEvents(ctx context.Context, filter *dto.EventFilterRequest, offset, limit int) ([]*models.Event, int64, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, id int64) error
}

// participationStore is the participation persistence surface the service
// needs. Satisfied by *repositories.ParticipationRepository.
type participationStore interface {
	GetParticipation(ctx context.Context, eventID, userID int64) (*models.Participation, error)
	Join(ctx context.Context, eventID, userID int64) (*models.Participation, error)
	Cancel(ctx context.Context, eventID, userID int64, reason string) (*models.Participation, error)
	SubmitResult(ctx context.Context, eventID, userID int64, distance *float64, finishTime string) (*models.Participation, error)
	GetParticipationsByUserID(ctx context.Context, userID int64) ([]*models.Participation, error)
	CountJoinedByEventID(ctx context.Context, eventID int64) (int, error)
}

// EventService defines the interface for event and participation operations
type EventService interface {
	GetAllEvents(ctx context.Context, filter *dto.EventFilterRequest) (*dto.EventListResponse, error)
	GetEventByID(ctx context.Context, id int64) (*dto.EventResponse, error)
	CreateEvent(ctx context.Context, req *dto.CreateEventRequest, creatorID int64) (*dto.EventResponse, error)
	UpdateEvent(ctx context.Context, id int64, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	DeleteEvent(ctx context.Context, id int64) error

	JoinEvent(ctx context.Context, eventID, userID int64) (*dto.ParticipationResponse, error)
	CancelParticipation(ctx context.Context, eventID, userID int64, req *dto.CancelParticipationRequest) (*dto.ParticipationResponse, error)
	SubmitResult(ctx context.Context, eventID, userID int64, req *dto.SubmitResultRequest) (*dto.ParticipationResponse, error)
	GetMemberEventStatus(ctx context.Context, eventID, userID int64) (*dto.MemberEventStatusResponse, error)
	GetUserParticipations(ctx context.Context, userID int64) ([]dto.MemberEventStatusResponse, error)
	GetCalendarLink(ctx context.Context, eventID int64) (*dto.CalendarLinkResponse, error)
}

// eventServiceImpl implements EventService
type eventServiceImpl struct {
	eventRepo         eventStore
	participationRepo participationStore
	producer          *events.Producer
	logger            zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo eventStore,
	participationRepo participationStore,
	producer *events.Producer,
	logger zerolog.Logger,
) EventService {
	return &eventServiceImpl{
		eventRepo:         eventRepo,
		participationRepo: participationRepo,
		producer:          producer,
		logger:            logger,
	}
}

// GetAllEvents retrieves events matching the filter with pagination
func (s *eventServiceImpl) GetAllEvents(ctx context.Context, filter *dto.EventFilterRequest) (*dto.EventListResponse, error) {
	page, size := 1, 10
	if filter != nil {
		page, size = filter.Page, filter.PageSize
	}
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	eventList, total, err := s.eventRepo.ListEvents(ctx, filter, int(offset), limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.EventResponse, 0, len(eventList))
	for _, e := range eventList {
		responses = append(responses, dto.NewEventResponse(e))
	}
	return &dto.EventListResponse{
		Events:         responses,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// GetEventByID retrieves a single event
func (s *eventServiceImpl) GetEventByID(ctx context.Context, id int64) (*dto.EventResponse, error) {
	event, err := s.eventRepo.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewEventResponse(event)
	return &resp, nil
}

// CreateEvent creates a new event owned by the caller
func (s *eventServiceImpl) CreateEvent(ctx context.Context, req *dto.CreateEventRequest, creatorID int64) (*dto.EventResponse, error) {
	eventDate, err := helpers.ParseDate(req.EventDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid event date")
	}

	event := &models.Event{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		EventType:       req.EventType,
		EventDate:       eventDate,
		EventTime:       req.EventTime,
		Location:        req.Location,
		Distance:        req.Distance,
		Surface:         req.Surface,
		Pace:            req.Pace,
		Amenities:       req.Amenities,
		Eligibility:     req.Eligibility,
		MaxParticipants: req.MaxParticipants,
		Status:          models.EventUpcoming,
		IsFree:          true,
		TrackID:         req.TrackID,
		CommunityID:     req.CommunityID,
		CreatedBy:       creatorID,
	}
	if req.IsFree != nil {
		event.IsFree = *req.IsFree
	}

	id, err := s.eventRepo.CreateEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("eventID", id).Int64("creatorID", creatorID).Msg("Event created")
	return s.GetEventByID(ctx, id)
}

// UpdateEvent applies the non-nil fields of the request to an existing event
func (s *eventServiceImpl) UpdateEvent(ctx context.Context, id int64, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.eventRepo.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.EventType != nil {
		event.EventType = *req.EventType
	}
	if req.EventDate != nil {
		eventDate, err := helpers.ParseDate(*req.EventDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("invalid event date")
		}
		event.EventDate = eventDate
	}
	if req.EventTime != nil {
		event.EventTime = *req.EventTime
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Distance != nil {
		event.Distance = req.Distance
	}
	if req.Surface != nil {
		event.Surface = req.Surface
	}
	if req.Pace != nil {
		event.Pace = req.Pace
	}
	if req.Amenities != nil {
		event.Amenities = req.Amenities
	}
	if req.Eligibility != nil {
		event.Eligibility = *req.Eligibility
	}
	if req.MaxParticipants != nil {
		event.MaxParticipants = req.MaxParticipants
	}
	if req.Status != nil {
		event.Status = models.EventStatus(*req.Status)
	}
	if req.IsFree != nil {
		event.IsFree = *req.IsFree
	}
	if req.TrackID != nil {
		event.TrackID = req.TrackID
	}
	if req.CommunityID != nil {
		event.CommunityID = req.CommunityID
	}

	if err := s.eventRepo.UpdateEvent(ctx, event); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("eventID", id).Msg("Event updated")
	return s.GetEventByID(ctx, id)
}

// DeleteEvent removes an event and its participations
func (s *eventServiceImpl) DeleteEvent(ctx context.Context, id int64) error {
	if err := s.eventRepo.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("eventID", id).Msg("Event deleted")
	return nil
}

// JoinEvent registers the user for an event. A cancelled participation is
// reactivated; completed ones stay terminal. The participant cap, when set,
// is enforced against the current joined count.
func (s *eventServiceImpl) JoinEvent(ctx context.Context, eventID, userID int64) (*dto.ParticipationResponse, error) {
	event, err := s.eventRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventCancelled || event.Status == models.EventCompleted {
		return nil, apperrors.NewConflictError("event is no longer open for registration")
	}

	if event.MaxParticipants != nil {
		joined, err := s.participationRepo.CountJoinedByEventID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if joined >= *event.MaxParticipants {
			return nil, apperrors.NewConflictError("event is full")
		}
	}

	participation, err := s.participationRepo.Join(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	s.producer.Publish(ctx, events.TypeParticipationJoin, userID, eventID)
	s.logger.Info().Int64("eventID", eventID).Int64("userID", userID).Msg("User joined event")

	resp := dto.NewParticipationResponse(participation)
	return &resp, nil
}

// CancelParticipation cancels a joined participation. The reason is
// mandatory and stored with the record.
func (s *eventServiceImpl) CancelParticipation(ctx context.Context, eventID, userID int64, req *dto.CancelParticipationRequest) (*dto.ParticipationResponse, error) {
	if req.Reason == "" {
		return nil, apperrors.ErrReasonRequired
	}

	participation, err := s.participationRepo.Cancel(ctx, eventID, userID, req.Reason)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("eventID", eventID).Int64("userID", userID).Msg("Participation cancelled")

	resp := dto.NewParticipationResponse(participation)
	return &resp, nil
}

// SubmitResult records a finish for the user's participation and completes
// it. The elapsed time must parse as HH:MM or HH:MM:SS.
func (s *eventServiceImpl) SubmitResult(ctx context.Context, eventID, userID int64, req *dto.SubmitResultRequest) (*dto.ParticipationResponse, error) {
	if ranking.ParseElapsed(req.Time) == ranking.UntimedSeconds {
		return nil, apperrors.NewBadRequestError("time must be in HH:MM or HH:MM:SS format")
	}

	participation, err := s.participationRepo.SubmitResult(ctx, eventID, userID, req.Distance, req.Time)
	if err != nil {
		return nil, err
	}
	s.producer.Publish(ctx, events.TypeResultSubmitted, userID, eventID)
	s.logger.Info().Int64("eventID", eventID).Int64("userID", userID).Msg("Result submitted")

	resp := dto.NewParticipationResponse(participation)
	return &resp, nil
}

func memberStatusOf(p *models.Participation, err error) (string, *dto.ParticipationResponse, error) {
	if err != nil {
		if errors.Is(err, apperrors.ErrParticipationNotFound) {
			return "not_joined", nil, nil
		}
		return "", nil, err
	}
	resp := dto.NewParticipationResponse(p)
	return string(p.Status), &resp, nil
}

// GetMemberEventStatus reports whether and how the caller participates in
// the event
func (s *eventServiceImpl) GetMemberEventStatus(ctx context.Context, eventID, userID int64) (*dto.MemberEventStatusResponse, error) {
	event, err := s.eventRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	participation, err := s.participationRepo.GetParticipation(ctx, eventID, userID)
	status, participationResp, err := memberStatusOf(participation, err)
	if err != nil {
		return nil, err
	}

	return &dto.MemberEventStatusResponse{
		EventID:       eventID,
		UserID:        userID,
		Status:        status,
		Participation: participationResp,
		Event: dto.EventSummary{
			Title:     event.Title,
			EventDate: event.EventDate,
			Status:    string(event.Status),
		},
	}, nil
}

// GetUserParticipations retrieves all of the caller's event participations
// with their event summaries
func (s *eventServiceImpl) GetUserParticipations(ctx context.Context, userID int64) ([]dto.MemberEventStatusResponse, error) {
	participations, err := s.participationRepo.GetParticipationsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MemberEventStatusResponse, 0, len(participations))
	for _, p := range participations {
		resp := dto.NewParticipationResponse(p)
		status := dto.MemberEventStatusResponse{
			EventID:       p.EventID,
			UserID:        userID,
			Status:        string(p.Status),
			Participation: &resp,
		}
		if p.Event != nil {
			status.Event = dto.EventSummary{
				Title:     p.Event.Title,
				EventDate: p.Event.EventDate,
				Status:    string(p.Event.Status),
			}
		}
		responses = append(responses, status)
	}
	return responses, nil
}

// GetCalendarLink builds a prefilled Google Calendar URL for the event
func (s *eventServiceImpl) GetCalendarLink(ctx context.Context, eventID int64) (*dto.CalendarLinkResponse, error) {
	event, err := s.eventRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	start := event.EventDate
	if t, err := time.Parse("15:04", event.EventTime); err == nil {
		start = time.Date(start.Year(), start.Month(), start.Day(),
			t.Hour(), t.Minute(), 0, 0, start.Location())
	}
	end := start.Add(2 * time.Hour)

	const stamp = "20060102T150405Z"
	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", event.Title)
	params.Set("details", event.Description)
	params.Set("location", event.Location)
	params.Set("dates", fmt.Sprintf("%s/%s", start.UTC().Format(stamp), end.UTC().Format(stamp)))

	return &dto.CalendarLinkResponse{
		GoogleCalendarURL: "https://calendar.google.com/calendar/render?" + params.Encode(),
	}, nil
}
