package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"schoolride-api/apperrors"
	"schoolride-api/models"
	"schoolride-api/repositories"
)

// statusResetPolicy captures the asymmetric status handling between the two
// request channels: the mobile channel resets a request to RAISED whenever a
// non-admin creates or edits it, while the web (admin console) channel resets
// when the actor IS an admin. Both branches are preserved from the legacy
// behavior pending product confirmation; do not unify them.
type statusResetPolicy int

const (
	resetWhenNotAdmin statusResetPolicy = iota
	resetWhenAdmin
)

type RideRequestService struct {
	repo   *repositories.Repository
	email  *EmailService
	logger *zap.Logger
}

func NewRideRequestService(repo *repositories.Repository, email *EmailService, logger *zap.Logger) *RideRequestService {
	return &RideRequestService{
		repo:   repo,
		email:  email,
		logger: logger,
	}
}

// Create handles the mobile create channel.
func (s *RideRequestService) Create(payload *models.RideRequestPayload, actor models.Actor) (*models.RideRequestDetail, error) {
	s.logger.Debug("create ride request", zap.Uint("user_id", payload.UserID))
	return s.save(payload, actor, resetWhenNotAdmin, false)
}

// CreateFromWeb handles the admin-console create channel.
func (s *RideRequestService) CreateFromWeb(payload *models.RideRequestPayload, actor models.Actor) (*models.RideRequestDetail, error) {
	s.logger.Debug("create ride request from web", zap.Uint("user_id", payload.UserID))
	return s.save(payload, actor, resetWhenAdmin, false)
}

// Update handles the mobile update channel. The frequency relationship set is
// fully replaced, never merged.
func (s *RideRequestService) Update(payload *models.RideRequestPayload, actor models.Actor) (*models.RideRequestDetail, error) {
	if payload.ID == 0 {
		return nil, apperrors.Validation("ride request id is required for update")
	}
	s.logger.Debug("update ride request", zap.Uint("id", payload.ID))
	return s.save(payload, actor, resetWhenNotAdmin, true)
}

// UpdateFromWeb handles the admin-console update channel.
func (s *RideRequestService) UpdateFromWeb(payload *models.RideRequestPayload, actor models.Actor) (*models.RideRequestDetail, error) {
	if payload.ID == 0 {
		return nil, apperrors.Validation("ride request id is required for update")
	}
	s.logger.Debug("update ride request from web", zap.Uint("id", payload.ID))
	return s.save(payload, actor, resetWhenAdmin, true)
}

// save is the shared lifecycle write path. All validation happens before any
// write; all writes (locations, request, frequencies, relationships) run in
// one transaction so a failed step rolls back every prior write in the call.
func (s *RideRequestService) save(payload *models.RideRequestPayload, actor models.Actor, policy statusResetPolicy, replaceRelationships bool) (*models.RideRequestDetail, error) {
	startDate, err := parseDate(payload.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(payload.EndDate)
	if err != nil {
		return nil, err
	}

	// The declared user must be a registered passenger.
	user, err := s.repo.Users.FindWithRoles(payload.UserID)
	if err != nil {
		return nil, orNotFound(err, "unknown user id %d", payload.UserID)
	}
	passenger, err := s.repo.Users.FindPassengerByUser(user.ID)
	if err != nil {
		return nil, orNotFound(err, "user %d is not a registered passenger", user.ID)
	}

	// The child must belong to that passenger, not to someone else.
	child, err := s.repo.Users.FindChild(payload.ChildID)
	if err != nil {
		return nil, orNotFound(err, "unknown child id %d", payload.ChildID)
	}
	if child.PassengerID != passenger.ID {
		return nil, apperrors.Authorization("invalid child and parent relationship")
	}

	if payload.PickupLocation == nil && payload.DropLocation == nil {
		return nil, apperrors.Validation("pickup or drop location is required")
	}
	if len(payload.Frequencies) == 0 {
		return nil, apperrors.Validation("frequencies is required")
	}

	status := deriveStatus(payload.RequestStatus, actor, policy)

	request := models.RideRequest{
		ID:             payload.ID,
		StartDate:      startDate,
		EndDate:        endDate,
		RequestStatus:  status,
		RequestComment: payload.RequestComment,
		UserID:         payload.UserID,
		ChildID:        payload.ChildID,
	}
	var frequencies []models.RideFrequency

	err = s.repo.InTransaction(func(tx *repositories.Repository) error {
		if payload.PickupLocation != nil {
			pickup := payload.PickupLocation.ToEntity()
			if err := tx.Locations.Save(pickup); err != nil {
				return err
			}
			if pickup.ID == 0 {
				return apperrors.Persistence("unable to create pickup location, rolling back")
			}
			request.PickupLocationID = &pickup.ID
			request.PickupLocation = pickup
		}
		if payload.DropLocation != nil {
			drop := payload.DropLocation.ToEntity()
			if err := tx.Locations.Save(drop); err != nil {
				return err
			}
			if drop.ID == 0 {
				return apperrors.Persistence("unable to create drop location, rolling back")
			}
			request.DropLocationID = &drop.ID
			request.DropLocation = drop
		}

		if err := tx.RideRequests.Save(&request); err != nil {
			return err
		}
		if request.ID == 0 {
			return apperrors.Persistence("unable to create ride request, rolling back")
		}

		// Full replace of the relationship set on update, never a merge.
		if replaceRelationships {
			if err := tx.Frequencies.DeleteRelationshipsByRequest(request.ID); err != nil {
				return err
			}
		}

		for i := range payload.Frequencies {
			frequency := payload.Frequencies[i].ToEntity()
			if err := tx.Frequencies.Save(frequency); err != nil {
				return err
			}
			if frequency.ID == 0 {
				return apperrors.Persistence("unable to create frequency for day %s, rolling back", frequency.Day)
			}

			rel := models.RideRequestFrequency{
				RideRequestID:   request.ID,
				RideFrequencyID: frequency.ID,
			}
			if err := tx.Frequencies.SaveRelationship(&rel); err != nil {
				return err
			}
			if rel.ID == 0 {
				return apperrors.Persistence("unable to relate ride request %d and frequency %d", request.ID, frequency.ID)
			}
			frequencies = append(frequencies, *frequency)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(frequencies, func(i, j int) bool { return frequencies[i].ID < frequencies[j].ID })
	request.Child = *child
	return &models.RideRequestDetail{
		RideRequest: request,
		Frequencies: frequencies,
		Passenger:   passenger,
	}, nil
}

// deriveStatus applies the channel's reset policy on top of the requested
// status. An empty or unknown inbound status always starts as RAISED.
func deriveStatus(requested string, actor models.Actor, policy statusResetPolicy) models.RequestStatus {
	status := models.RequestStatus(requested)
	if !status.Valid() {
		status = models.StatusRaised
	}

	isAdmin := actor.HasRole(models.RoleAdmin)
	switch policy {
	case resetWhenNotAdmin:
		if !isAdmin {
			status = models.StatusRaised
		}
	case resetWhenAdmin:
		if isAdmin {
			status = models.StatusRaised
		}
	}
	return status
}

// UpdateStatus records an approval/rejection decision: ADMIN only. The
// decision row and the status change commit together; the notification mail
// is best-effort afterwards.
func (s *RideRequestService) UpdateStatus(payload *models.StatusUpdatePayload, actor models.Actor) (*models.RideRequestDetail, error) {
	if !actor.HasRole(models.RoleAdmin) {
		return nil, apperrors.Authorization("only admins may decide ride requests")
	}

	status := models.RequestStatus(payload.RequestStatus)
	if !status.Valid() {
		return nil, apperrors.Validation("unknown request status %q", payload.RequestStatus)
	}

	request, err := s.repo.RideRequests.FindByID(payload.ID)
	if err != nil {
		return nil, orNotFound(err, "unknown ride request id %d", payload.ID)
	}

	err = s.repo.InTransaction(func(tx *repositories.Repository) error {
		decision := models.RideManagement{
			RideRequestID: request.ID,
			Status:        status,
			Comment:       payload.Comment,
			DecidedByID:   actor.UserID,
			Timestamp:     time.Now(),
		}
		if err := tx.Managements.Save(&decision); err != nil {
			return err
		}
		if decision.ID == 0 {
			return apperrors.Persistence("unable to record decision for ride request %d", request.ID)
		}

		request.RequestStatus = status
		return tx.RideRequests.Save(request)
	})
	if err != nil {
		return nil, err
	}

	s.notifyDecision(request, status, payload.Comment)
	return s.toDetail(request)
}

func (s *RideRequestService) notifyDecision(request *models.RideRequest, status models.RequestStatus, comment string) {
	if s.email == nil {
		return
	}
	user, err := s.repo.Users.FindWithRoles(request.UserID)
	if err != nil {
		s.logger.Warn("decision mail skipped, user lookup failed",
			zap.Uint("user_id", request.UserID), zap.Error(err))
		return
	}
	if err := s.email.SendDecisionEmail(user.Email, user.Name, request.Child.Name, status, comment); err != nil {
		s.logger.Warn("decision mail failed", zap.Uint("ride_request_id", request.ID), zap.Error(err))
	}
}

// FindOne returns a single denormalized ride request.
func (s *RideRequestService) FindOne(id uint) (*models.RideRequestDetail, error) {
	request, err := s.repo.RideRequests.FindByID(id)
	if err != nil {
		return nil, orNotFound(err, "unknown ride request id %d", id)
	}
	return s.toDetail(request)
}

// FindAll lists requests: a passenger who is not an admin sees only their
// own, everyone else sees all.
func (s *RideRequestService) FindAll(actor models.Actor, page, limit int) ([]models.RideRequestDetail, int64, error) {
	var (
		requests []models.RideRequest
		total    int64
		err      error
	)
	if actor.HasRole(models.RolePassenger) && !actor.HasRole(models.RoleAdmin) {
		requests, total, err = s.repo.RideRequests.FindAllByUserPaged(actor.UserID, page, limit)
	} else {
		requests, total, err = s.repo.RideRequests.FindAllPaged(page, limit)
	}
	if err != nil {
		return nil, 0, err
	}
	return s.toDetails(requests), total, nil
}

// FindByStatus backs the admin dashboard; non-admins get an empty page.
func (s *RideRequestService) FindByStatus(status models.RequestStatus, actor models.Actor, page, limit int) ([]models.RideRequestDetail, int64, error) {
	if !actor.HasRole(models.RoleAdmin) {
		return []models.RideRequestDetail{}, 0, nil
	}
	requests, total, err := s.repo.RideRequests.FindAllByStatusPaged(status, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.toDetails(requests), total, nil
}

// FindJourneysForDate backs the admin journey board: every request whose date
// range covers the day and whose frequency set matches the day's weekday,
// with the journey plan attached when one exists.
func (s *RideRequestService) FindJourneysForDate(date time.Time, actor models.Actor) ([]models.RideRequestDetail, error) {
	if !actor.HasRole(models.RoleAdmin) {
		return nil, apperrors.Authorization("journey board is admin only")
	}

	requests, err := s.repo.RideRequests.FindAllByDate(date)
	if err != nil {
		return nil, err
	}

	journeys := make([]models.RideRequestDetail, 0, len(requests))
	for i := range requests {
		detail, err := s.toDetail(&requests[i])
		if err != nil {
			// One malformed record must not fail the whole board.
			s.logger.Error("skipping unreadable ride request",
				zap.Uint("ride_request_id", requests[i].ID), zap.Error(err))
			continue
		}

		if plan, err := s.repo.JourneyPlans.FindByDateAndRequest(date, detail.ID); err == nil {
			detail.JourneyPlan = plan
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Info("journey plan lookup failed",
				zap.Uint("ride_request_id", detail.ID), zap.Error(err))
		}

		if matched, ok := MatchFrequency(*detail, date); ok {
			journeys = append(journeys, matched)
		}
	}
	return journeys, nil
}

// FindTripsByUserAndDate resolves a driver's trips for a day through the
// journey plans, narrowing each to the day's frequency.
func (s *RideRequestService) FindTripsByUserAndDate(userID uint, date time.Time) ([]models.RideRequestDetail, error) {
	plans, err := s.repo.JourneyPlans.FindAllByUserAndDate(userID, date)
	if err != nil {
		return nil, err
	}

	trips := make([]models.RideRequestDetail, 0, len(plans))
	for i := range plans {
		plan := plans[i]
		detail, err := s.FindOne(plan.RideRequestID)
		if err != nil {
			return nil, orNotFound(err, "invalid ride request id %d", plan.RideRequestID)
		}
		detail.JourneyPlan = &plan

		if matched, ok := MatchFrequency(*detail, date); ok {
			trips = append(trips, matched)
		}
	}
	return trips, nil
}

// FindTripsOrderedForSession is the driver's ordered trip list for a session.
func (s *RideRequestService) FindTripsOrderedForSession(date time.Time, session models.Session, actor models.Actor) ([]models.RideRequestDetail, error) {
	s.logger.Info("ordered trips by session",
		zap.Time("date", date), zap.String("session", string(session)))

	trips, err := s.FindTripsByUserAndDate(actor.UserID, date)
	if err != nil {
		return nil, err
	}
	return OrderForSession(trips, session)
}

// DriverJourneys partitions all of the driver's planned trips into past and
// upcoming relative to today.
func (s *RideRequestService) DriverJourneys(actor models.Actor) (*models.DriverJourneys, error) {
	plans, err := s.repo.JourneyPlans.FindAllByUser(actor.UserID)
	if err != nil {
		return nil, err
	}

	details := make([]models.RideRequestDetail, 0, len(plans))
	for i := range plans {
		plan := plans[i]
		detail, err := s.FindOne(plan.RideRequestID)
		if err != nil {
			return nil, orNotFound(err, "invalid ride request id %d", plan.RideRequestID)
		}
		detail.JourneyPlan = &plan
		details = append(details, *detail)
	}

	journeys := PartitionJourneys(details, time.Now())
	return &journeys, nil
}

// FindByUserAndStatus lists the passenger's own requests in a status.
func (s *RideRequestService) FindByUserAndStatus(actor models.Actor, status models.RequestStatus) ([]models.RideRequestDetail, error) {
	if !actor.HasRole(models.RolePassenger) {
		return []models.RideRequestDetail{}, nil
	}
	requests, err := s.repo.RideRequests.FindAllByUserAndStatus(actor.UserID, status)
	if err != nil {
		return nil, err
	}
	return s.toDetails(requests), nil
}

// FindByUserAndDate lists the passenger's own requests covering a date.
func (s *RideRequestService) FindByUserAndDate(actor models.Actor, date time.Time) ([]models.RideRequestDetail, error) {
	if !actor.HasRole(models.RolePassenger) {
		return []models.RideRequestDetail{}, nil
	}
	requests, err := s.repo.RideRequests.FindAllByUserAndDate(actor.UserID, date)
	if err != nil {
		return nil, err
	}
	return s.toDetails(requests), nil
}

// FindByUserAndDateAndStatus additionally requires the request to actually
// run on the date's weekday.
func (s *RideRequestService) FindByUserAndDateAndStatus(actor models.Actor, date time.Time, status models.RequestStatus) ([]models.RideRequestDetail, error) {
	if !actor.HasRole(models.RolePassenger) {
		return []models.RideRequestDetail{}, nil
	}
	requests, err := s.repo.RideRequests.FindAllByUserAndDateAndStatus(actor.UserID, date, status)
	if err != nil {
		return nil, err
	}
	return s.detailsRunningOn(requests, date), nil
}

// FindByUserAndChildNameAndDateAndStatus narrows further by child name.
func (s *RideRequestService) FindByUserAndChildNameAndDateAndStatus(actor models.Actor, childName string, date time.Time, status models.RequestStatus) ([]models.RideRequestDetail, error) {
	if !actor.HasRole(models.RolePassenger) {
		return []models.RideRequestDetail{}, nil
	}
	requests, err := s.repo.RideRequests.FindAllByUserAndChildNameAndDateAndStatus(actor.UserID, childName, date, status)
	if err != nil {
		return nil, err
	}
	return s.detailsRunningOn(requests, date), nil
}

// FindByUserAndChildNameAndDateAndStatusV2 is the listing with the latest
// journey event attached per request.
func (s *RideRequestService) FindByUserAndChildNameAndDateAndStatusV2(actor models.Actor, childName string, date time.Time, status models.RequestStatus) ([]models.RideRequestDetailV2, error) {
	details, err := s.FindByUserAndChildNameAndDateAndStatus(actor, childName, date, status)
	if err != nil {
		return nil, err
	}

	result := make([]models.RideRequestDetailV2, 0, len(details))
	for _, detail := range details {
		result = append(result, models.RideRequestDetailV2{
			RideRequest:  detail,
			CurrentEvent: s.currentJourneyEvent(detail.ID, date),
		})
	}
	return result, nil
}

func (s *RideRequestService) currentJourneyEvent(requestID uint, date time.Time) string {
	plan, err := s.repo.JourneyPlans.FindByDateAndRequest(date, requestID)
	if err != nil {
		return ""
	}
	event, err := s.repo.JourneyPlans.FindLatestEventByPlan(plan.ID)
	if err != nil {
		return ""
	}
	return event.Event
}

// Delete removes one ride request and everything that hangs off it.
func (s *RideRequestService) Delete(id uint) error {
	request, err := s.repo.RideRequests.FindByID(id)
	if err != nil {
		return orNotFound(err, "unknown ride request id %d", id)
	}
	return s.repo.InTransaction(func(tx *repositories.Repository) error {
		return deleteCascade(tx, request)
	})
}

// DeleteByUser removes all of a user's ride requests with their dependents,
// in one transaction so a partial failure leaves no orphans.
func (s *RideRequestService) DeleteByUser(userID uint) error {
	s.logger.Info("delete all ride requests by user", zap.Uint("user_id", userID))

	return s.repo.InTransaction(func(tx *repositories.Repository) error {
		requests, err := tx.RideRequests.FindAllByUser(userID)
		if err != nil {
			return err
		}
		for i := range requests {
			if err := deleteCascade(tx, &requests[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// deleteCascade tears down one request's dependents in a fixed order:
// relationships, status history, journey plans, the request itself, then its
// locations.
func deleteCascade(tx *repositories.Repository, request *models.RideRequest) error {
	if err := tx.Frequencies.DeleteRelationshipsByRequest(request.ID); err != nil {
		return err
	}
	if err := tx.Managements.DeleteByRequest(request.ID); err != nil {
		return err
	}
	if err := tx.JourneyPlans.DeleteByRequest(request.ID); err != nil {
		return err
	}
	if err := tx.RideRequests.Delete(request.ID); err != nil {
		return err
	}
	if request.PickupLocationID != nil {
		if err := tx.Locations.Delete(*request.PickupLocationID); err != nil {
			return err
		}
	}
	if request.DropLocationID != nil {
		if err := tx.Locations.Delete(*request.DropLocationID); err != nil {
			return err
		}
	}
	return nil
}

// toDetail denormalizes one request: frequencies always, passenger
// best-effort, and the latest decision whenever the request is past RAISED.
// A non-pending request without a decision record is a data integrity
// violation.
func (s *RideRequestService) toDetail(request *models.RideRequest) (*models.RideRequestDetail, error) {
	frequencies, err := s.repo.Frequencies.FindAllByRequest(request.ID)
	if err != nil {
		return nil, err
	}

	detail := models.RideRequestDetail{
		RideRequest: *request,
		Frequencies: frequencies,
	}

	if passenger, err := s.repo.Users.FindPassengerByUser(request.UserID); err == nil {
		detail.Passenger = passenger
	} else {
		s.logger.Error("unable to resolve passenger for ride request",
			zap.Uint("ride_request_id", request.ID), zap.Error(err))
	}

	if request.RequestStatus != models.StatusRaised {
		decision, err := s.repo.Managements.FindLatestByRequest(request.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Persistence("no decision record for non-pending ride request %d", request.ID)
			}
			return nil, err
		}
		detail.Decision = decision
	}

	return &detail, nil
}

// toDetails maps a list tolerantly: unreadable records are logged and
// skipped so one bad row cannot fail a whole page.
func (s *RideRequestService) toDetails(requests []models.RideRequest) []models.RideRequestDetail {
	details := make([]models.RideRequestDetail, 0, len(requests))
	for i := range requests {
		detail, err := s.toDetail(&requests[i])
		if err != nil {
			s.logger.Error("skipping unreadable ride request",
				zap.Uint("ride_request_id", requests[i].ID), zap.Error(err))
			continue
		}
		details = append(details, *detail)
	}
	return details
}

// detailsRunningOn keeps only requests with a frequency on the date's
// weekday, matching case-insensitively as the listing endpoints always have.
func (s *RideRequestService) detailsRunningOn(requests []models.RideRequest, date time.Time) []models.RideRequestDetail {
	day := string(models.WeekdayOf(date))

	details := make([]models.RideRequestDetail, 0, len(requests))
	for i := range requests {
		detail, err := s.toDetail(&requests[i])
		if err != nil {
			s.logger.Error("skipping unreadable ride request",
				zap.Uint("ride_request_id", requests[i].ID), zap.Error(err))
			continue
		}
		for _, f := range detail.Frequencies {
			if strings.EqualFold(string(f.Day), day) {
				details = append(details, *detail)
				break
			}
		}
	}
	return details
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, apperrors.Validation("invalid date %q, expected YYYY-MM-DD", value)
	}
	return &t, nil
}

// orNotFound converts a missing-record error into the domain's not-found
// kind, leaving other errors untouched.
func orNotFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(format, args...)
	}
	return err
}
