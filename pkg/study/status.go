// Package study defines the typed records of the dog study exports and
// decodes them from loaded relations.
//
// Three files feed the charts: the dog profile (one [Subject] per dog), the
// per-sex reproductive histories (zero or more [Event] rows per dog) and the
// behavior summary ([Observation] rows per dog, study year and topic).
package study

import (
	"fmt"
	"strings"

	"github.com/datacommons/dogviz/pkg/table"
)

// Status is the sex and sterilization status of a subject.
type Status int

// The four statuses in chart order.
const (
	MaleIntact Status = iota
	FemaleIntact
	FemaleSpayed
	MaleNeutered
)

// Statuses lists every status in the fixed chart order.
var Statuses = []Status{MaleIntact, FemaleIntact, FemaleSpayed, MaleNeutered}

var statusNames = [...]string{
	MaleIntact:   "Male Intact",
	FemaleIntact: "Female Intact",
	FemaleSpayed: "Female Spayed",
	MaleNeutered: "Male Neutered",
}

// statusAliases are spellings that appear in older exports.
var statusAliases = map[string]string{
	"Intact Male":   "Male Intact",
	"Intact Female": "Female Intact",
	"Spayed Female": "Female Spayed",
	"Neutered Male": "Male Neutered",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Female reports whether the status belongs to a female subject.
func (s Status) Female() bool {
	return s == FemaleIntact || s == FemaleSpayed
}

// Sterilized reports whether the status is spayed or neutered.
func (s Status) Sterilized() bool {
	return s == FemaleSpayed || s == MaleNeutered
}

// Intact returns the intact status for the same sex.
func (s Status) Intact() Status {
	if s.Female() {
		return FemaleIntact
	}
	return MaleIntact
}

// Sterile returns the sterilized status for the same sex.
func (s Status) Sterile() Status {
	if s.Female() {
		return FemaleSpayed
	}
	return MaleNeutered
}

// ParseStatus resolves a status name or one of its aliases, ignoring case.
func ParseStatus(name string) (Status, error) {
	name = strings.TrimSpace(name)
	for alias, canonical := range statusAliases {
		if strings.EqualFold(name, alias) {
			name = canonical
			break
		}
	}
	for i, n := range statusNames {
		if strings.EqualFold(name, n) {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sex status %q", name)
}

// StatusColumn declares a categorical status column for the loader.
func StatusColumn(name string) table.Column {
	return table.Column{
		Name:    name,
		Kind:    table.Category,
		Levels:  statusNames[:],
		Aliases: statusAliases,
	}
}
