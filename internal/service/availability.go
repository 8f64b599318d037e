package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"buurbak-availability/internal/cache"
	"buurbak-availability/internal/domain"
	"buurbak-availability/internal/events"
	"buurbak-availability/internal/logger"
	"buurbak-availability/internal/repository"
	"buurbak-availability/internal/schedule"
)

type availabilityService struct {
	trailerRepo   repository.TrailerRepository
	weeklyRepo    repository.WeeklyAvailabilityRepository
	exceptionRepo repository.ExceptionRepository
	blockedRepo   repository.BlockedPeriodRepository
	rentalRepo    repository.RentalRepository
	templates     cache.TemplateCache
	publisher     events.Publisher
	weekStart     time.Weekday
	now           func() time.Time
}

func NewAvailabilityService(
	trailerRepo repository.TrailerRepository,
	weeklyRepo repository.WeeklyAvailabilityRepository,
	exceptionRepo repository.ExceptionRepository,
	blockedRepo repository.BlockedPeriodRepository,
	rentalRepo repository.RentalRepository,
	templates cache.TemplateCache,
	publisher events.Publisher,
	weekStart time.Weekday,
) AvailabilityService {
	if templates == nil {
		templates = cache.NewNoopCache()
	}
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &availabilityService{
		trailerRepo:   trailerRepo,
		weeklyRepo:    weeklyRepo,
		exceptionRepo: exceptionRepo,
		blockedRepo:   blockedRepo,
		rentalRepo:    rentalRepo,
		templates:     templates,
		publisher:     publisher,
		weekStart:     weekStart,
		now:           time.Now,
	}
}

func (s *availabilityService) ResolveDayStatus(ctx context.Context, trailerID int32, date domain.Date) (schedule.DayStatus, error) {
	if date.IsZero() {
		return "", fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	snap, err := s.loadSnapshot(ctx, trailerID, date, date)
	if err != nil {
		return "", err
	}
	return snap.ResolveDayStatus(date), nil
}

func (s *availabilityService) ResolveTimeSlotAvailability(ctx context.Context, trailerID int32, date domain.Date, segment string) (*schedule.SlotVerdict, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	q, err := schedule.ParseSlotQuery(segment)
	if err != nil {
		return nil, err
	}
	snap, err := s.loadSnapshot(ctx, trailerID, date, date)
	if err != nil {
		return nil, err
	}
	v := snap.ResolveTimeSlot(date, q)
	return &v, nil
}

func (s *availabilityService) GetCalendar(ctx context.Context, trailerID int32, year int, month time.Month) ([]schedule.CalendarDay, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d out of range", domain.ErrValidation, month)
	}
	if year < 1970 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d out of range", domain.ErrValidation, year)
	}
	from, to := schedule.GridBounds(year, month, s.weekStart)
	snap, err := s.loadSnapshot(ctx, trailerID, from, to)
	if err != nil {
		return nil, err
	}
	return snap.Calendar(year, month, s.weekStart), nil
}

func (s *availabilityService) CheckBookable(ctx context.Context, trailerID int32, start, end domain.Date) (*schedule.RangeVerdict, error) {
	if err := validRange(start, end); err != nil {
		return nil, err
	}
	snap, err := s.loadSnapshot(ctx, trailerID, start, end)
	if err != nil {
		return nil, err
	}
	v := snap.CheckRange(start, end)
	return &v, nil
}

func (s *availabilityService) GetWeeklyAvailability(ctx context.Context, trailerID int32) ([]domain.WeeklyAvailability, error) {
	tpl, err := s.template(ctx, trailerID)
	if err != nil {
		return nil, err
	}
	return fullWeek(trailerID, tpl.Weekly), nil
}

func (s *availabilityService) UpdateWeeklyAvailability(ctx context.Context, session domain.Session, trailerID int32, days []domain.WeeklyAvailability) ([]domain.WeeklyAvailability, error) {
	logger.EnterMethod("availabilityService.UpdateWeeklyAvailability", "trailerID", trailerID, "userID", session.UserID, "days", len(days))

	if _, err := s.ownedTrailer(ctx, session, trailerID); err != nil {
		logger.ExitMethodWithError("availabilityService.UpdateWeeklyAvailability", err, "trailerID", trailerID)
		return nil, err
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: at least one day is required", domain.ErrValidation)
	}

	seen := make(map[domain.Weekday]bool, len(days))
	normalized := make([]domain.WeeklyAvailability, 0, len(days))
	for _, d := range days {
		day, err := domain.ParseWeekday(string(d.Day))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		if seen[day] {
			return nil, fmt.Errorf("%w: %s listed more than once", domain.ErrValidation, day)
		}
		seen[day] = true

		d.Day = day
		d.TrailerID = trailerID
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if !d.Available {
			d.Slots = nil
		}
		normalized = append(normalized, d)
	}

	if err := s.weeklyRepo.Upsert(ctx, trailerID, normalized); err != nil {
		logger.ExitMethodWithError("availabilityService.UpdateWeeklyAvailability", err, "trailerID", trailerID)
		return nil, err
	}
	if err := s.templates.Invalidate(ctx, trailerID); err != nil {
		logger.Warn("Failed to invalidate template cache", "trailerID", trailerID, "error", err)
	}
	s.publish(ctx, events.WeeklyUpdated, &trailerID, session.UserID, normalized)

	weekly, err := s.weeklyRepo.ListByTrailer(ctx, trailerID)
	if err != nil {
		return nil, err
	}

	logger.ExitMethod("availabilityService.UpdateWeeklyAvailability", "trailerID", trailerID)
	return fullWeek(trailerID, weekly), nil
}

func (s *availabilityService) ListExceptions(ctx context.Context, trailerID int32, from, to domain.Date) ([]domain.AvailabilityException, error) {
	if err := validRange(from, to); err != nil {
		return nil, err
	}
	if _, err := s.trailerRepo.GetByID(ctx, trailerID); err != nil {
		return nil, err
	}
	return s.exceptionRepo.ListByTrailer(ctx, trailerID, from, to)
}

func (s *availabilityService) UpsertException(ctx context.Context, session domain.Session, e *domain.AvailabilityException) error {
	if _, err := s.ownedTrailer(ctx, session, e.TrailerID); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.exceptionRepo.Upsert(ctx, e); err != nil {
		return err
	}
	s.publish(ctx, events.ExceptionUpserted, &e.TrailerID, session.UserID, e)
	return nil
}

func (s *availabilityService) DeleteException(ctx context.Context, session domain.Session, trailerID int32, date domain.Date) error {
	if _, err := s.ownedTrailer(ctx, session, trailerID); err != nil {
		return err
	}
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if err := s.exceptionRepo.Delete(ctx, trailerID, date); err != nil {
		return err
	}
	s.publish(ctx, events.ExceptionDeleted, &trailerID, session.UserID, map[string]domain.Date{"date": date})
	return nil
}

func (s *availabilityService) AddBlockedPeriod(ctx context.Context, session domain.Session, trailerID *int32, start, end domain.Date, reason string) (*domain.BlockedPeriod, error) {
	logger.EnterMethod("availabilityService.AddBlockedPeriod", "userID", session.UserID, "trailerID", trailerID, "start", start, "end", end)

	if session.UserID == 0 {
		return nil, domain.ErrUnauthenticated
	}
	if trailerID != nil {
		if _, err := s.ownedTrailer(ctx, session, *trailerID); err != nil {
			logger.ExitMethodWithError("availabilityService.AddBlockedPeriod", err, "trailerID", *trailerID)
			return nil, err
		}
	}

	p, err := s.createPeriod(ctx, session, trailerID, start, end, reason)
	if err != nil {
		logger.ExitMethodWithError("availabilityService.AddBlockedPeriod", err, "userID", session.UserID)
		return nil, err
	}

	logger.ExitMethod("availabilityService.AddBlockedPeriod", "periodID", p.ID)
	return p, nil
}

func newPeriod(session domain.Session, trailerID *int32, start, end domain.Date, reason string) (*domain.BlockedPeriod, error) {
	p := &domain.BlockedPeriod{
		UserID:    session.UserID,
		TrailerID: trailerID,
		StartDate: start,
		EndDate:   end,
		Reason:    strings.TrimSpace(reason),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// createPeriod stores a period without merging it with overlapping ones.
func (s *availabilityService) createPeriod(ctx context.Context, session domain.Session, trailerID *int32, start, end domain.Date, reason string) (*domain.BlockedPeriod, error) {
	p, err := newPeriod(session, trailerID, start, end, reason)
	if err != nil {
		return nil, err
	}
	if err := s.blockedRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.publish(ctx, events.BlockedPeriodCreated, trailerID, session.UserID, p)
	return p, nil
}

func (s *availabilityService) RemoveBlockedPeriod(ctx context.Context, session domain.Session, periodID int32) error {
	logger.EnterMethod("availabilityService.RemoveBlockedPeriod", "userID", session.UserID, "periodID", periodID)

	if session.UserID == 0 {
		return domain.ErrUnauthenticated
	}
	p, err := s.blockedRepo.GetByID(ctx, periodID)
	if err != nil {
		logger.ExitMethodWithError("availabilityService.RemoveBlockedPeriod", err, "periodID", periodID)
		return err
	}
	if p.UserID != session.UserID {
		return fmt.Errorf("%w: blocked period %d belongs to another lessor", domain.ErrForbidden, periodID)
	}
	if err := s.blockedRepo.Delete(ctx, periodID); err != nil {
		logger.ExitMethodWithError("availabilityService.RemoveBlockedPeriod", err, "periodID", periodID)
		return err
	}
	s.publish(ctx, events.BlockedPeriodRemoved, p.TrailerID, session.UserID, p)

	logger.ExitMethod("availabilityService.RemoveBlockedPeriod", "periodID", periodID)
	return nil
}

func (s *availabilityService) ListBlockedPeriods(ctx context.Context, session domain.Session, trailerID *int32) ([]domain.BlockedPeriod, error) {
	if session.UserID == 0 {
		return nil, domain.ErrUnauthenticated
	}
	if trailerID != nil {
		if _, err := s.ownedTrailer(ctx, session, *trailerID); err != nil {
			return nil, err
		}
	}
	periods, err := s.blockedRepo.ListByUser(ctx, session.UserID, trailerID)
	if err != nil {
		return nil, err
	}
	if periods == nil {
		periods = []domain.BlockedPeriod{}
	}
	return periods, nil
}

func (s *availabilityService) BlockSelection(ctx context.Context, session domain.Session, trailerID int32, dates []domain.Date, reason string) ([]domain.BlockedPeriod, error) {
	logger.EnterMethod("availabilityService.BlockSelection", "userID", session.UserID, "trailerID", trailerID, "dates", len(dates))

	if _, err := s.ownedTrailer(ctx, session, trailerID); err != nil {
		return nil, err
	}
	selected, err := selection(dates)
	if err != nil {
		return nil, err
	}
	snap, err := s.loadSnapshot(ctx, trailerID, selected[0], selected[len(selected)-1])
	if err != nil {
		return nil, err
	}

	var pending []*domain.BlockedPeriod
	for _, r := range schedule.ContiguousRanges(snap.FilterSelection(schedule.SelectionBlock, selected)) {
		p, err := newPeriod(session, &trailerID, r.Start, r.End, reason)
		if err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}

	created := []domain.BlockedPeriod{}
	if len(pending) == 0 {
		logger.ExitMethod("availabilityService.BlockSelection", "trailerID", trailerID, "created", 0)
		return created, nil
	}
	if err := s.blockedRepo.CreateMany(ctx, pending); err != nil {
		logger.ExitMethodWithError("availabilityService.BlockSelection", err, "trailerID", trailerID, "runs", len(pending))
		return nil, err
	}
	for _, p := range pending {
		s.publish(ctx, events.BlockedPeriodCreated, p.TrailerID, session.UserID, p)
		created = append(created, *p)
	}

	logger.ExitMethod("availabilityService.BlockSelection", "trailerID", trailerID, "created", len(created))
	return created, nil
}

func (s *availabilityService) UnblockSelection(ctx context.Context, session domain.Session, trailerID int32, dates []domain.Date) ([]int32, error) {
	logger.EnterMethod("availabilityService.UnblockSelection", "userID", session.UserID, "trailerID", trailerID, "dates", len(dates))

	trailer, err := s.ownedTrailer(ctx, session, trailerID)
	if err != nil {
		return nil, err
	}
	selected, err := selection(dates)
	if err != nil {
		return nil, err
	}
	periods, err := s.blockedRepo.ListForTrailer(ctx, trailer.ID, trailer.OwnerID, selected[0], selected[len(selected)-1])
	if err != nil {
		return nil, err
	}

	removed := []int32{}
	for i := range periods {
		p := &periods[i]
		if p.UserID != session.UserID || !touchesAny(p, selected) {
			continue
		}
		if err := s.blockedRepo.Delete(ctx, p.ID); err != nil {
			logger.ExitMethodWithError("availabilityService.UnblockSelection", err, "periodID", p.ID)
			return removed, err
		}
		s.publish(ctx, events.BlockedPeriodRemoved, p.TrailerID, session.UserID, p)
		removed = append(removed, p.ID)
	}

	logger.ExitMethod("availabilityService.UnblockSelection", "trailerID", trailerID, "removed", len(removed))
	return removed, nil
}

// loadSnapshot reads every layer needed to resolve [from, to].
func (s *availabilityService) loadSnapshot(ctx context.Context, trailerID int32, from, to domain.Date) (*schedule.Snapshot, error) {
	tpl, err := s.template(ctx, trailerID)
	if err != nil {
		return nil, err
	}
	exceptions, err := s.exceptionRepo.ListByTrailer(ctx, trailerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load exceptions: %w", err)
	}
	blocked, err := s.blockedRepo.ListForTrailer(ctx, trailerID, tpl.Trailer.OwnerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load blocked periods: %w", err)
	}
	rentals, err := s.rentalRepo.ListBlocking(ctx, trailerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load rentals: %w", err)
	}
	return schedule.NewSnapshot(tpl.Trailer, tpl.Weekly, exceptions, blocked, rentals)
}

// template returns the trailer and its weekly rows. The trailer is always
// read from the database so a deleted trailer is never resolved from cache.
// Cache failures fall back to the database.
func (s *availabilityService) template(ctx context.Context, trailerID int32) (*cache.Template, error) {
	trailer, err := s.trailerRepo.GetByID(ctx, trailerID)
	if err != nil {
		return nil, err
	}

	tpl, err := s.templates.Get(ctx, trailerID)
	if err != nil {
		logger.Warn("Template cache read failed", "trailerID", trailerID, "error", err)
	}
	if tpl != nil {
		tpl.Trailer = *trailer
		return tpl, nil
	}

	weekly, err := s.weeklyRepo.ListByTrailer(ctx, trailerID)
	if err != nil {
		return nil, fmt.Errorf("load weekly availability: %w", err)
	}
	tpl = &cache.Template{Trailer: *trailer, Weekly: weekly}
	if err := s.templates.Set(ctx, tpl); err != nil {
		logger.Warn("Template cache write failed", "trailerID", trailerID, "error", err)
	}
	return tpl, nil
}

func (s *availabilityService) ownedTrailer(ctx context.Context, session domain.Session, trailerID int32) (*domain.Trailer, error) {
	if session.UserID == 0 {
		return nil, domain.ErrUnauthenticated
	}
	trailer, err := s.trailerRepo.GetByID(ctx, trailerID)
	if err != nil {
		return nil, err
	}
	if !session.Owns(trailer) {
		return nil, fmt.Errorf("%w: trailer %d is not owned by user %d", domain.ErrForbidden, trailerID, session.UserID)
	}
	return trailer, nil
}

// publish emits an availability event. Failures are logged and never undo
// the mutation that triggered them.
func (s *availabilityService) publish(ctx context.Context, eventType string, trailerID *int32, userID int32, payload any) {
	err := s.publisher.Publish(ctx, events.Event{
		Type:       eventType,
		TrailerID:  trailerID,
		UserID:     userID,
		OccurredAt: s.now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		logger.Warn("Failed to publish availability event", "type", eventType, "error", err)
	}
}

// fullWeek returns seven rows Monday first. Days without a stored row are
// reported open with no time restriction.
func fullWeek(trailerID int32, weekly []domain.WeeklyAvailability) []domain.WeeklyAvailability {
	byDay := make(map[domain.Weekday]domain.WeeklyAvailability, len(weekly))
	for _, w := range weekly {
		byDay[w.Day] = w
	}
	out := make([]domain.WeeklyAvailability, 0, len(domain.AllWeekdays))
	for _, day := range domain.AllWeekdays {
		w, ok := byDay[day]
		if !ok {
			w = domain.WeeklyAvailability{TrailerID: trailerID, Day: day, Available: true}
		}
		if w.Slots == nil {
			w.Slots = []domain.TimeSlot{}
		}
		out = append(out, w)
	}
	return out
}

// maxRangeDays bounds the inclusive date ranges read in one call.
const maxRangeDays = 366

func validRange(start, end domain.Date) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end date are required", domain.ErrValidation)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end date %s is before start date %s", domain.ErrValidation, end, start)
	}
	if end.After(start.AddDays(maxRangeDays - 1)) {
		return fmt.Errorf("%w: range %s..%s exceeds %d days", domain.ErrValidation, start, end, maxRangeDays)
	}
	return nil
}

func selection(dates []domain.Date) ([]domain.Date, error) {
	for _, d := range dates {
		if d.IsZero() {
			return nil, fmt.Errorf("%w: selection contains an empty date", domain.ErrValidation)
		}
	}
	selected := schedule.SortedUnique(dates)
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: no dates selected", domain.ErrValidation)
	}
	return selected, nil
}

func touchesAny(p *domain.BlockedPeriod, dates []domain.Date) bool {
	for _, d := range dates {
		if p.Contains(d) {
			return true
		}
	}
	return false
}
