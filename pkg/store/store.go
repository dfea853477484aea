// Package store is the record-store client. Two constructors expose two
// credential scopes: NewPublicStore for anonymous submissions and
// NewAdminStore for the full admin surface.
package store

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/relieflink/relief-api-go/pkg/matching"
	"github.com/relieflink/relief-api-go/pkg/models"
)

var log = logrus.WithField("prefix", "store")

var (
	// ErrNotFound means the referenced record id does not exist
	ErrNotFound = errors.New("record not found")
	// ErrVolunteerUnavailable means the chosen volunteer is not free to take the assignment
	ErrVolunteerUnavailable = errors.New("volunteer is not available")
	// ErrAlreadyAssigned means the request already has a volunteer; unassign first
	ErrAlreadyAssigned = errors.New("request already has an assigned volunteer")
	// ErrNotAssigned means unassign was called on a request with no volunteer
	ErrNotAssigned = errors.New("request has no assigned volunteer")
)

// PublicStore is the insert-only client handed to unauthenticated callers
type PublicStore interface {
	CreateHelpRequest(req *models.HelpRequest) error
	CreateVolunteer(v *models.Volunteer) error
}

// AdminStore is the full client, constructed only behind the auth gate
type AdminStore interface {
	ListHelpRequests(f models.RequestFilter) ([]models.HelpRequest, error)
	ListVolunteers() ([]models.Volunteer, error)
	GetHelpRequest(id string) (*models.HelpRequest, error)
	GetVolunteer(id string) (*models.Volunteer, error)
	MatchVolunteers(req *models.HelpRequest) ([]models.Volunteer, error)
	AssignVolunteer(requestID, volunteerID string) (*models.HelpRequest, error)
	UnassignVolunteer(requestID string) (*models.HelpRequest, error)
	UpdateStatus(requestID string, status models.RequestStatus) (*models.HelpRequest, error)
	UpdateNotes(requestID, notes string) (*models.HelpRequest, error)
}

type publicStore struct {
	db *gorm.DB
}

// NewPublicStore returns a client bound to the anonymous credential
func NewPublicStore(db *gorm.DB) PublicStore {
	return &publicStore{db: db}
}

// CreateHelpRequest inserts a new request with its initial lifecycle state
func (s *publicStore) CreateHelpRequest(req *models.HelpRequest) error {
	req.Status = models.StatusOpen
	req.AssignedVolunteerID = nil
	if err := s.db.Create(req).Error; err != nil {
		log.WithError(err).Error("help request insert failed")
		return err
	}
	return nil
}

// CreateVolunteer inserts a new offer with its initial availability
func (s *publicStore) CreateVolunteer(v *models.Volunteer) error {
	v.Status = models.VolunteerAvailable
	if err := s.db.Create(v).Error; err != nil {
		log.WithError(err).Error("volunteer insert failed")
		return err
	}
	return nil
}

type adminStore struct {
	db *gorm.DB
}

// NewAdminStore returns a client with the full read/mutate surface.
// Callers are responsible for having passed the auth gate first.
func NewAdminStore(db *gorm.DB) AdminStore {
	return &adminStore{db: db}
}

// listOrder keeps equal-timestamp rows in insertion order
const listOrder = "created_at DESC, seq ASC"

func (s *adminStore) ListHelpRequests(f models.RequestFilter) ([]models.HelpRequest, error) {
	q := s.db.Model(&models.HelpRequest{})

	if f.Status != "" && f.Status != models.FilterAll {
		q = q.Where("status = ?", f.Status)
	}
	if f.Urgency != "" && f.Urgency != models.FilterAll {
		q = q.Where("urgency = ?", f.Urgency)
	}
	if f.Location != "" {
		q = q.Where("lower(location) LIKE ?", "%"+strings.ToLower(f.Location)+"%")
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(contact_info) LIKE ? OR lower(description) LIKE ?",
			like, like, like)
	}

	var out []models.HelpRequest
	if err := q.Order(listOrder).Find(&out).Error; err != nil {
		log.WithError(err).Error("help request listing failed")
		return nil, err
	}
	return out, nil
}

func (s *adminStore) ListVolunteers() ([]models.Volunteer, error) {
	var out []models.Volunteer
	if err := s.db.Order(listOrder).Find(&out).Error; err != nil {
		log.WithError(err).Error("volunteer listing failed")
		return nil, err
	}
	return out, nil
}

func (s *adminStore) GetHelpRequest(id string) (*models.HelpRequest, error) {
	var req models.HelpRequest
	if err := s.db.Where("id = ?", id).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.WithError(err).Error("help request fetch failed")
		return nil, err
	}
	return &req, nil
}

func (s *adminStore) GetVolunteer(id string) (*models.Volunteer, error) {
	var v models.Volunteer
	if err := s.db.Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.WithError(err).Error("volunteer fetch failed")
		return nil, err
	}
	return &v, nil
}

// MatchVolunteers recomputes the eligible volunteers for a request on
// every call; availability changes between views, so nothing is cached.
// The availability filter runs in SQL, location and capability matching
// run through the matching policy.
func (s *adminStore) MatchVolunteers(req *models.HelpRequest) ([]models.Volunteer, error) {
	var candidates []models.Volunteer
	err := s.db.
		Where("status = ?", models.VolunteerAvailable).
		Order(listOrder).
		Find(&candidates).Error
	if err != nil {
		log.WithError(err).Error("volunteer match query failed")
		return nil, err
	}
	return matching.Filter(req, candidates), nil
}

// AssignVolunteer links a request to an available volunteer. The request
// update and the volunteer update commit together or not at all.
func (s *adminStore) AssignVolunteer(requestID, volunteerID string) (*models.HelpRequest, error) {
	var updated models.HelpRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var req models.HelpRequest
		if err := tx.Where("id = ?", requestID).First(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if req.AssignedVolunteerID != nil {
			return ErrAlreadyAssigned
		}

		var vol models.Volunteer
		if err := tx.Where("id = ?", volunteerID).First(&vol).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if vol.Status != models.VolunteerAvailable {
			return ErrVolunteerUnavailable
		}

		if err := tx.Model(&req).Updates(map[string]interface{}{
			"status":                models.StatusInProgress,
			"assigned_volunteer_id": vol.ID,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&vol).Update("status", models.VolunteerAssigned).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", requestID).First(&updated).Error
	})
	if err != nil {
		if !isDomainErr(err) {
			log.WithError(err).Error("assignment transaction failed")
		}
		return nil, err
	}
	return &updated, nil
}

// UnassignVolunteer resets a request to open and releases its volunteer
// back to available, in one transaction.
func (s *adminStore) UnassignVolunteer(requestID string) (*models.HelpRequest, error) {
	var updated models.HelpRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var req models.HelpRequest
		if err := tx.Where("id = ?", requestID).First(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if req.AssignedVolunteerID == nil {
			return ErrNotAssigned
		}
		volunteerID := *req.AssignedVolunteerID

		if err := tx.Model(&req).Updates(map[string]interface{}{
			"status":                models.StatusOpen,
			"assigned_volunteer_id": nil,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Volunteer{}).
			Where("id = ?", volunteerID).
			Update("status", models.VolunteerAvailable).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", requestID).First(&updated).Error
	})
	if err != nil {
		if !isDomainErr(err) {
			log.WithError(err).Error("unassignment transaction failed")
		}
		return nil, err
	}
	return &updated, nil
}

// UpdateStatus is the direct lifecycle override. It never touches the
// assigned volunteer linkage.
func (s *adminStore) UpdateStatus(requestID string, status models.RequestStatus) (*models.HelpRequest, error) {
	req, err := s.GetHelpRequest(requestID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(req).Update("status", status).Error; err != nil {
		log.WithError(err).Error("status update failed")
		return nil, err
	}
	return s.GetHelpRequest(requestID)
}

// UpdateNotes replaces the admin notes, last write wins
func (s *adminStore) UpdateNotes(requestID, notes string) (*models.HelpRequest, error) {
	req, err := s.GetHelpRequest(requestID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(req).Update("admin_notes", notes).Error; err != nil {
		log.WithError(err).Error("notes update failed")
		return nil, err
	}
	return s.GetHelpRequest(requestID)
}

func isDomainErr(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrVolunteerUnavailable) ||
		errors.Is(err, ErrAlreadyAssigned) ||
		errors.Is(err, ErrNotAssigned)
}
