package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NeedType is the category of assistance a help request asks for
type NeedType string

const (
	NeedFood      NeedType = "food"
	NeedShelter   NeedType = "shelter"
	NeedMedical   NeedType = "medical"
	NeedTransport NeedType = "transport"
	NeedOther     NeedType = "other"
)

// HelpType is a capability a volunteer offers
type HelpType string

const (
	HelpDriver       HelpType = "driver"
	HelpShelter      HelpType = "shelter"
	HelpMedical      HelpType = "medical_skills"
	HelpFoodDelivery HelpType = "food_delivery"
	HelpOther        HelpType = "other"
)

// Urgency levels for a help request
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// RequestStatus is the lifecycle state of a help request
type RequestStatus string

const (
	StatusOpen       RequestStatus = "open"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusCancelled  RequestStatus = "cancelled"
)

// VolunteerStatus tracks whether a volunteer is free to take an assignment
type VolunteerStatus string

const (
	VolunteerAvailable VolunteerStatus = "available"
	VolunteerAssigned  VolunteerStatus = "assigned"
)

var (
	validNeedTypes = map[NeedType]bool{
		NeedFood: true, NeedShelter: true, NeedMedical: true,
		NeedTransport: true, NeedOther: true,
	}
	validHelpTypes = map[HelpType]bool{
		HelpDriver: true, HelpShelter: true, HelpMedical: true,
		HelpFoodDelivery: true, HelpOther: true,
	}
	validUrgencies = map[Urgency]bool{
		UrgencyHigh: true, UrgencyMedium: true, UrgencyLow: true,
	}
	validRequestStatuses = map[RequestStatus]bool{
		StatusOpen: true, StatusInProgress: true,
		StatusCompleted: true, StatusCancelled: true,
	}
)

// ValidNeedType reports whether t is a known need category
func ValidNeedType(t NeedType) bool { return validNeedTypes[t] }

// ValidHelpType reports whether t is a known volunteer capability
func ValidHelpType(t HelpType) bool { return validHelpTypes[t] }

// ValidUrgency reports whether u is a known urgency level
func ValidUrgency(u Urgency) bool { return validUrgencies[u] }

// ValidRequestStatus reports whether s is a known request status
func ValidRequestStatus(s RequestStatus) bool { return validRequestStatuses[s] }

// ValidationError reports a rejected field on a submitted record
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// AsValidationError unwraps err as a *ValidationError if it is one
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// HelpTypeList is a set of volunteer capabilities stored as a single
// comma-joined text column so the same schema works on sqlite and postgres
type HelpTypeList []HelpType

// Value implements driver.Valuer
func (l HelpTypeList) Value() (driver.Value, error) {
	parts := make([]string, 0, len(l))
	for _, t := range l {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ","), nil
}

// Scan implements sql.Scanner
func (l *HelpTypeList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into HelpTypeList", src)
	}
	if raw == "" {
		*l = nil
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make(HelpTypeList, 0, len(parts))
	for _, p := range parts {
		out = append(out, HelpType(p))
	}
	*l = out
	return nil
}

// Contains reports whether the set includes t
func (l HelpTypeList) Contains(t HelpType) bool {
	for _, v := range l {
		if v == t {
			return true
		}
	}
	return false
}

// HelpRequest is a submitted need for assistance.
// Seq is a hidden autoincrement key; listings order by created_at with seq
// as the tiebreak so records with equal timestamps keep insertion order.
// The exposed identifier is the uuid ID.
type HelpRequest struct {
	Seq                 uint          `gorm:"primaryKey;autoIncrement" json:"-"`
	ID                  string        `gorm:"uniqueIndex;size:36" json:"id"`
	Name                string        `json:"name,omitempty"`
	ContactInfo         string        `gorm:"not null" json:"contact_info"`
	Location            string        `gorm:"not null" json:"location"`
	TypeOfNeed          NeedType      `gorm:"not null" json:"type_of_need"`
	Description         string        `json:"description,omitempty"`
	Urgency             Urgency       `gorm:"not null" json:"urgency"`
	Status              RequestStatus `gorm:"not null;default:open" json:"status"`
	AssignedVolunteerID *string       `gorm:"size:36" json:"assigned_volunteer_id"`
	AdminNotes          string        `json:"admin_notes,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
}

// BeforeCreate assigns the public uuid
func (r *HelpRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Validate checks the required-field and enum constraints on a submission
func (r *HelpRequest) Validate() error {
	if strings.TrimSpace(r.ContactInfo) == "" {
		return &ValidationError{Field: "contact_info", Reason: "required"}
	}
	if strings.TrimSpace(r.Location) == "" {
		return &ValidationError{Field: "location", Reason: "required"}
	}
	if r.TypeOfNeed == "" {
		return &ValidationError{Field: "type_of_need", Reason: "required"}
	}
	if !ValidNeedType(r.TypeOfNeed) {
		return &ValidationError{Field: "type_of_need", Reason: "unknown value " + string(r.TypeOfNeed)}
	}
	if r.Urgency == "" {
		return &ValidationError{Field: "urgency", Reason: "required"}
	}
	if !ValidUrgency(r.Urgency) {
		return &ValidationError{Field: "urgency", Reason: "unknown value " + string(r.Urgency)}
	}
	return nil
}

// Volunteer is a submitted offer to help
type Volunteer struct {
	Seq          uint            `gorm:"primaryKey;autoIncrement" json:"-"`
	ID           string          `gorm:"uniqueIndex;size:36" json:"id"`
	Name         string          `gorm:"not null" json:"name"`
	ContactInfo  string          `gorm:"not null" json:"contact_info"`
	Location     string          `gorm:"not null" json:"location"`
	TypeOfHelp   HelpTypeList    `gorm:"type:text;not null" json:"type_of_help"`
	Availability string          `json:"availability,omitempty"`
	Status       VolunteerStatus `gorm:"not null;default:available" json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// BeforeCreate assigns the public uuid
func (v *Volunteer) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// Validate checks the required-field and enum constraints on a submission
func (v *Volunteer) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if strings.TrimSpace(v.ContactInfo) == "" {
		return &ValidationError{Field: "contact_info", Reason: "required"}
	}
	if strings.TrimSpace(v.Location) == "" {
		return &ValidationError{Field: "location", Reason: "required"}
	}
	if len(v.TypeOfHelp) == 0 {
		return &ValidationError{Field: "type_of_help", Reason: "at least one entry required"}
	}
	for _, t := range v.TypeOfHelp {
		if !ValidHelpType(t) {
			return &ValidationError{Field: "type_of_help", Reason: "unknown value " + string(t)}
		}
	}
	return nil
}

// AdminUser is a member of the administrator set
type AdminUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// FilterAll is the wildcard value accepted for enum filters
const FilterAll = "all"

// RequestFilter is the optional filter set for listing help requests.
// Empty fields are ignored; supplied fields are ANDed together.
type RequestFilter struct {
	Status   string `form:"status"`
	Urgency  string `form:"urgency"`
	Location string `form:"location"`
	Query    string `form:"q"`
}

// Validate rejects unknown enum values so a typo'd filter fails loudly
// instead of silently matching nothing
func (f RequestFilter) Validate() error {
	if f.Status != "" && f.Status != FilterAll && !ValidRequestStatus(RequestStatus(f.Status)) {
		return &ValidationError{Field: "status", Reason: "unknown value " + f.Status}
	}
	if f.Urgency != "" && f.Urgency != FilterAll && !ValidUrgency(Urgency(f.Urgency)) {
		return &ValidationError{Field: "urgency", Reason: "unknown value " + f.Urgency}
	}
	return nil
}
