// Package matching holds the pure eligibility policy that pairs help
// requests with volunteers. It performs no I/O; the store feeds it
// candidate rows and it decides which qualify.
package matching

import (
	"strings"

	"github.com/relieflink/relief-api-go/pkg/models"
)

// helpTypeForNeed maps a request's declared need category to the volunteer
// capability that serves it. The two enum sets were named independently
// ("medical" vs "medical_skills"), so containment checks go through this
// table rather than comparing raw values.
var helpTypeForNeed = map[models.NeedType]models.HelpType{
	models.NeedFood:      models.HelpFoodDelivery,
	models.NeedShelter:   models.HelpShelter,
	models.NeedMedical:   models.HelpMedical,
	models.NeedTransport: models.HelpDriver,
	models.NeedOther:     models.HelpOther,
}

// HelpTypeFor returns the volunteer capability serving a need category
func HelpTypeFor(need models.NeedType) (models.HelpType, bool) {
	t, ok := helpTypeForNeed[need]
	return t, ok
}

// NormalizeLocation folds case and collapses surrounding/internal
// whitespace so that " Colombo" and "colombo" compare equal. Matching is
// exact on the normalized form; substring matching is deliberately not
// used here ("Galle" must not match "Galle Fort Road").
func NormalizeLocation(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// LocationsMatch reports whether two free-text locations refer to the
// same place under normalization
func LocationsMatch(a, b string) bool {
	return NormalizeLocation(a) == NormalizeLocation(b)
}

// Eligible reports whether v can serve req: the volunteer must be
// available, in the same normalized location, and offer the capability
// mapped from the request's need
func Eligible(req *models.HelpRequest, v *models.Volunteer) bool {
	if v.Status != models.VolunteerAvailable {
		return false
	}
	if !LocationsMatch(req.Location, v.Location) {
		return false
	}
	want, ok := HelpTypeFor(req.TypeOfNeed)
	if !ok {
		return false
	}
	return v.TypeOfHelp.Contains(want)
}

// Filter returns the candidates eligible for req, preserving input order
func Filter(req *models.HelpRequest, candidates []models.Volunteer) []models.Volunteer {
	matched := make([]models.Volunteer, 0)
	for i := range candidates {
		if Eligible(req, &candidates[i]) {
			matched = append(matched, candidates[i])
		}
	}
	return matched
}
