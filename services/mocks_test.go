package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"schoolride-api/models"
	"schoolride-api/repositories"
)

// In-memory stand-ins for the GORM repositories. Write methods append to a
// shared op log so tests can assert write presence and ordering.

type noopTx struct {
	repo *repositories.Repository
}

func (n noopTx) Run(fn func(*repositories.Repository) error) error {
	return fn(n.repo)
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

// ── users ──

type mockUserRepo struct {
	users            map[uint]*models.User
	passengersByUser map[uint]*models.Passenger
	children         map[uint]*models.Child
	driversByUser    map[uint]*models.Driver
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:            map[uint]*models.User{},
		passengersByUser: map[uint]*models.Passenger{},
		children:         map[uint]*models.Child{},
		driversByUser:    map[uint]*models.Driver{},
	}
}

func (m *mockUserRepo) FindWithRoles(id uint) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Save(user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) FindPassengerByUser(userID uint) (*models.Passenger, error) {
	if p, ok := m.passengersByUser[userID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) SavePassenger(passenger *models.Passenger) error {
	m.passengersByUser[passenger.UserID] = passenger
	return nil
}

func (m *mockUserRepo) FindChild(id uint) (*models.Child, error) {
	if c, ok := m.children[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindDriverByUser(userID uint) (*models.Driver, error) {
	if d, ok := m.driversByUser[userID]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── locations ──

type mockLocationRepo struct {
	locations map[uint]*models.Location
	nextID    uint
	saves     int
	ops       *[]string
}

func newMockLocationRepo(ops *[]string) *mockLocationRepo {
	return &mockLocationRepo{locations: map[uint]*models.Location{}, nextID: 1, ops: ops}
}

func (m *mockLocationRepo) Save(location *models.Location) error {
	if location.ID == 0 {
		location.ID = m.nextID
		m.nextID++
	}
	m.locations[location.ID] = location
	m.saves++
	return nil
}

func (m *mockLocationRepo) Delete(id uint) error {
	delete(m.locations, id)
	*m.ops = append(*m.ops, "delete location")
	return nil
}

// ── ride requests ──

type mockRideRequestRepo struct {
	requests map[uint]*models.RideRequest
	nextID   uint
	saves    int
	ops      *[]string
}

func newMockRideRequestRepo(ops *[]string) *mockRideRequestRepo {
	return &mockRideRequestRepo{requests: map[uint]*models.RideRequest{}, nextID: 1, ops: ops}
}

func (m *mockRideRequestRepo) sorted() []models.RideRequest {
	ids := make([]uint, 0, len(m.requests))
	for id := range m.requests {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]models.RideRequest, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m.requests[id])
	}
	return out
}

func (m *mockRideRequestRepo) Save(request *models.RideRequest) error {
	if request.ID == 0 {
		request.ID = m.nextID
		m.nextID++
	}
	copied := *request
	m.requests[request.ID] = &copied
	m.saves++
	return nil
}

func (m *mockRideRequestRepo) FindByID(id uint) (*models.RideRequest, error) {
	if r, ok := m.requests[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRideRequestRepo) Delete(id uint) error {
	delete(m.requests, id)
	*m.ops = append(*m.ops, "delete request")
	return nil
}

func (m *mockRideRequestRepo) FindAllPaged(page, limit int) ([]models.RideRequest, int64, error) {
	all := m.sorted()
	return all, int64(len(all)), nil
}

func (m *mockRideRequestRepo) FindAllByUserPaged(userID uint, page, limit int) ([]models.RideRequest, int64, error) {
	all, _ := m.FindAllByUser(userID)
	return all, int64(len(all)), nil
}

func (m *mockRideRequestRepo) FindAllByStatusPaged(status models.RequestStatus, page, limit int) ([]models.RideRequest, int64, error) {
	var out []models.RideRequest
	for _, r := range m.sorted() {
		if r.RequestStatus == status {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockRideRequestRepo) FindAllByUser(userID uint) ([]models.RideRequest, error) {
	var out []models.RideRequest
	for _, r := range m.sorted() {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRideRequestRepo) FindAllByUserAndStatus(userID uint, status models.RequestStatus) ([]models.RideRequest, error) {
	var out []models.RideRequest
	for _, r := range m.sorted() {
		if r.UserID == userID && r.RequestStatus == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func covers(r models.RideRequest, date time.Time) bool {
	day := date.Format("2006-01-02")
	return r.StartDate != nil && r.EndDate != nil &&
		r.StartDate.Format("2006-01-02") <= day &&
		r.EndDate.Format("2006-01-02") >= day
}

func (m *mockRideRequestRepo) FindAllByUserAndDate(userID uint, date time.Time) ([]models.RideRequest, error) {
	var out []models.RideRequest
	for _, r := range m.sorted() {
		if r.UserID == userID && covers(r, date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRideRequestRepo) FindAllByUserAndDateAndStatus(userID uint, date time.Time, status models.RequestStatus) ([]models.RideRequest, error) {
	var out []models.RideRequest
	for _, r := range m.sorted() {
		if r.UserID == userID && r.RequestStatus == status && covers(r, date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRideRequestRepo) FindAllByUserAndChildNameAndDateAndStatus(userID uint, childName string, date time.Time, status models.RequestStatus) ([]models.RideRequest, error) {
	var out []models.RideRequest
	for _, r := range m.sorted() {
		if r.UserID == userID && r.RequestStatus == status && r.Child.Name == childName && covers(r, date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRideRequestRepo) FindAllByDate(date time.Time) ([]models.RideRequest, error) {
	var out []models.RideRequest
	for _, r := range m.sorted() {
		if covers(r, date) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ── frequencies ──

type mockFrequencyRepo struct {
	frequencies map[uint]*models.RideFrequency
	rels        []models.RideRequestFrequency
	nextID      uint
	nextRelID   uint
	ops         *[]string
}

func newMockFrequencyRepo(ops *[]string) *mockFrequencyRepo {
	return &mockFrequencyRepo{frequencies: map[uint]*models.RideFrequency{}, nextID: 1, nextRelID: 1, ops: ops}
}

func (m *mockFrequencyRepo) Save(frequency *models.RideFrequency) error {
	if frequency.ID == 0 {
		frequency.ID = m.nextID
		m.nextID++
	}
	m.frequencies[frequency.ID] = frequency
	return nil
}

func (m *mockFrequencyRepo) FindByID(id uint) (*models.RideFrequency, error) {
	if f, ok := m.frequencies[id]; ok {
		return f, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFrequencyRepo) FindAllByRequest(requestID uint) ([]models.RideFrequency, error) {
	var out []models.RideFrequency
	for _, rel := range m.rels {
		if rel.RideRequestID != requestID {
			continue
		}
		if f, ok := m.frequencies[rel.RideFrequencyID]; ok {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockFrequencyRepo) SaveRelationship(rel *models.RideRequestFrequency) error {
	if rel.ID == 0 {
		rel.ID = m.nextRelID
		m.nextRelID++
	}
	m.rels = append(m.rels, *rel)
	return nil
}

func (m *mockFrequencyRepo) FindRelationshipsByRequest(requestID uint) ([]models.RideRequestFrequency, error) {
	var out []models.RideRequestFrequency
	for _, rel := range m.rels {
		if rel.RideRequestID == requestID {
			out = append(out, rel)
		}
	}
	return out, nil
}

func (m *mockFrequencyRepo) DeleteRelationshipsByRequest(requestID uint) error {
	kept := m.rels[:0]
	for _, rel := range m.rels {
		if rel.RideRequestID != requestID {
			kept = append(kept, rel)
		}
	}
	m.rels = kept
	*m.ops = append(*m.ops, "delete relationships")
	return nil
}

// ── journey plans ──

type mockJourneyPlanRepo struct {
	plans       []models.JourneyPlan
	plansByUser map[uint][]models.JourneyPlan
	events      map[uint][]models.JourneyEvent
	ops         *[]string
}

func newMockJourneyPlanRepo(ops *[]string) *mockJourneyPlanRepo {
	return &mockJourneyPlanRepo{
		plansByUser: map[uint][]models.JourneyPlan{},
		events:      map[uint][]models.JourneyEvent{},
		ops:         ops,
	}
}

func (m *mockJourneyPlanRepo) FindByID(id uint) (*models.JourneyPlan, error) {
	for i := range m.plans {
		if m.plans[i].ID == id {
			return &m.plans[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJourneyPlanRepo) FindByDateAndRequest(date time.Time, requestID uint) (*models.JourneyPlan, error) {
	for i := range m.plans {
		if m.plans[i].RideRequestID == requestID && sameDay(m.plans[i].JourneyDate, date) {
			copied := m.plans[i]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJourneyPlanRepo) FindAllByUser(userID uint) ([]models.JourneyPlan, error) {
	return m.plansByUser[userID], nil
}

func (m *mockJourneyPlanRepo) FindAllByUserAndDate(userID uint, date time.Time) ([]models.JourneyPlan, error) {
	var out []models.JourneyPlan
	for _, p := range m.plansByUser[userID] {
		if sameDay(p.JourneyDate, date) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockJourneyPlanRepo) DeleteByRequest(requestID uint) error {
	kept := m.plans[:0]
	for _, p := range m.plans {
		if p.RideRequestID != requestID {
			kept = append(kept, p)
		}
	}
	m.plans = kept
	*m.ops = append(*m.ops, "delete plans")
	return nil
}

func (m *mockJourneyPlanRepo) FindLatestEventByPlan(planID uint) (*models.JourneyEvent, error) {
	events := m.events[planID]
	if len(events) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	latest := events[0]
	for _, e := range events[1:] {
		if e.Timestamp.After(latest.Timestamp) {
			latest = e
		}
	}
	return &latest, nil
}

// ── decisions ──

type mockManagementRepo struct {
	decisions []models.RideManagement
	nextID    uint
	lookups   int
	ops       *[]string
}

func newMockManagementRepo(ops *[]string) *mockManagementRepo {
	return &mockManagementRepo{nextID: 1, ops: ops}
}

func (m *mockManagementRepo) Save(decision *models.RideManagement) error {
	if decision.ID == 0 {
		decision.ID = m.nextID
		m.nextID++
	}
	m.decisions = append(m.decisions, *decision)
	return nil
}

func (m *mockManagementRepo) FindLatestByRequest(requestID uint) (*models.RideManagement, error) {
	m.lookups++
	var latest *models.RideManagement
	for i := range m.decisions {
		d := m.decisions[i]
		if d.RideRequestID != requestID {
			continue
		}
		if latest == nil || d.Timestamp.After(latest.Timestamp) {
			latest = &m.decisions[i]
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *latest
	return &copied, nil
}

func (m *mockManagementRepo) DeleteByRequest(requestID uint) error {
	kept := m.decisions[:0]
	for _, d := range m.decisions {
		if d.RideRequestID != requestID {
			kept = append(kept, d)
		}
	}
	m.decisions = kept
	*m.ops = append(*m.ops, "delete decisions")
	return nil
}
