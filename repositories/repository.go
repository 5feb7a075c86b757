package repositories

import (
	"gorm.io/gorm"
)

// Repository aggregates all stores. Services receive one of these and, for
// multi-step writes, run the whole step sequence through InTransaction so a
// failure anywhere rolls back every prior write in the same call.
type Repository struct {
	Users        UserRepository
	Locations    LocationRepository
	RideRequests RideRequestRepository
	Frequencies  RideFrequencyRepository
	JourneyPlans JourneyPlanRepository
	Managements  RideManagementRepository

	Tx TxRunner
}

// TxRunner executes fn against a transaction-scoped Repository.
type TxRunner interface {
	Run(fn func(*Repository) error) error
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Users:        NewUserRepository(db),
		Locations:    NewLocationRepository(db),
		RideRequests: NewRideRequestRepository(db),
		Frequencies:  NewRideFrequencyRepository(db),
		JourneyPlans: NewJourneyPlanRepository(db),
		Managements:  NewRideManagementRepository(db),
		Tx:           gormTxRunner{db: db},
	}
}

// InTransaction runs fn with every store bound to one database transaction.
func (r *Repository) InTransaction(fn func(*Repository) error) error {
	return r.Tx.Run(fn)
}

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) Run(fn func(*Repository) error) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
