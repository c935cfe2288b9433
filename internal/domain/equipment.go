package domain

import (
	"strings"

	"github.com/rs/zerolog/log"
)

type EquipmentType string

const (
	EquipmentVentilator     EquipmentType = "ventilator"
	EquipmentECGMonitor     EquipmentType = "ecg_monitor"
	EquipmentDefibrillator  EquipmentType = "defibrillator"
	EquipmentOxygenSupply   EquipmentType = "oxygen_supply"
	EquipmentInfusionPump   EquipmentType = "infusion_pump"
	EquipmentPatientMonitor EquipmentType = "patient_monitor"
)

var knownEquipment = map[EquipmentType]struct{}{
	EquipmentVentilator:     {},
	EquipmentECGMonitor:     {},
	EquipmentDefibrillator:  {},
	EquipmentOxygenSupply:   {},
	EquipmentInfusionPump:   {},
	EquipmentPatientMonitor: {},
}

// equipmentFallbacks maps common free-text variations onto the closed enum.
// Evaluated in order; the first matching substring wins. Keep the order
// stable: "ecg"/"monitor" must be checked before "patient" so that
// "ECG Monitor" never resolves to patient_monitor.
var equipmentFallbacks = []struct {
	substr string
	value  EquipmentType
}{
	{"ventilator", EquipmentVentilator},
	{"ecg", EquipmentECGMonitor},
	{"monitor", EquipmentECGMonitor},
	{"defib", EquipmentDefibrillator},
	{"oxygen", EquipmentOxygenSupply},
	{"infusion", EquipmentInfusionPump},
	{"patient", EquipmentPatientMonitor},
}

// NormalizeEquipment coerces loosely-typed equipment labels to the closed
// enum. Entries that match nothing are dropped with a warning rather than
// rejecting the whole request; the surviving count feeds the cost model, so
// the drop behavior is part of billing semantics.
func NormalizeEquipment(items []string) []EquipmentType {
	normalized := make([]EquipmentType, 0, len(items))
	for _, item := range items {
		candidate := EquipmentType(strings.ReplaceAll(strings.ToLower(item), " ", "_"))
		if _, ok := knownEquipment[candidate]; ok {
			normalized = append(normalized, candidate)
			continue
		}

		matched := false
		for _, fb := range equipmentFallbacks {
			if strings.Contains(string(candidate), fb.substr) {
				normalized = append(normalized, fb.value)
				matched = true
				break
			}
		}
		if !matched {
			log.Warn().Str("equipment", item).Msg("unknown equipment type, dropping")
		}
	}
	return normalized
}
