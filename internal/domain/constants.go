package domain

const (
	ProjectTypeProject = "project"
	ProjectTypeEvent   = "event"
)

const (
	ProjectStatusPending   = "pending"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
	ProjectStatusRejected  = "rejected"
)

const (
	DonationStatusPending   = "pending"
	DonationStatusCompleted = "completed"
	DonationStatusFailed    = "failed"
)

const (
	OfferStatusPending  = "pending"
	OfferStatusApproved = "approved"
	OfferStatusRejected = "rejected"
)

const (
	ContributionParticipant      = "participant"
	ContributionResourceProvider = "resource_provider"
	ContributionDonor            = "donor"
)

const (
	ContributorStatusPending   = "pending"
	ContributorStatusConfirmed = "confirmed"
	ContributorStatusDelivered = "delivered"
	ContributorStatusCompleted = "completed"
	ContributorStatusCancelled = "cancelled"
)

const (
	AttendedPending = "pending"
	AttendedYes     = "yes"
	AttendedNo      = "no"
)

// Offer categories accepted by the offer form.
var OfferCategories = []string{
	"food-perishables",
	"clothing-bedding",
	"home-furniture",
	"money",
	"skills-time",
	"other",
}

func ValidOfferCategory(c string) bool {
	for _, v := range OfferCategories {
		if v == c {
			return true
		}
	}
	return false
}
