// Package cost holds the transport cost model. Estimate and Actualize are
// pure; randomness lives only in RandomFlightDuration.
package cost

import (
	"math/rand"

	"github.com/skyaid/airambulance/internal/domain"
)

const (
	baseCost           = 5000.0
	hourlyRate         = 100.0
	equipmentSurcharge = 500.0

	minFlightDuration = 30
	maxFlightDuration = 180
)

func urgencyMultiplier(urgency domain.Urgency) float64 {
	switch urgency {
	case domain.UrgencyCritical:
		return 1.5
	case domain.UrgencyUrgent:
		return 1.2
	default:
		return 1.0
	}
}

// Estimate computes the up-front cost quoted at booking creation.
func Estimate(urgency domain.Urgency, equipmentCount int) float64 {
	return baseCost*urgencyMultiplier(urgency) + equipmentSurcharge*float64(equipmentCount)
}

// Actualize computes the final cost recorded at completion from the actual
// flight duration in minutes.
func Actualize(urgency domain.Urgency, equipmentCount, flightDurationMinutes int) float64 {
	return hourlyRate*float64(flightDurationMinutes)*urgencyMultiplier(urgency) + equipmentSurcharge*float64(equipmentCount)
}

// RandomFlightDuration generates a flight duration in minutes, uniform over
// [30, 180]. Used when a completion update does not supply one.
func RandomFlightDuration() int {
	return minFlightDuration + rand.Intn(maxFlightDuration-minFlightDuration+1)
}
