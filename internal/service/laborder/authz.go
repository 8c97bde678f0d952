package laborder

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mediplace/lab-api/internal/model"
	"github.com/mediplace/lab-api/internal/repository"
	apperrors "github.com/mediplace/lab-api/pkg/errors"
)

// OrderAccess is a role-specific ownership check on a lab order.
type OrderAccess interface {
	IsAuthorized(ctx context.Context, order *model.LabOrder, callerID uuid.UUID) (bool, error)
}

// patientOwner authorizes the patient the order belongs to.
type patientOwner struct{}

func (patientOwner) IsAuthorized(_ context.Context, order *model.LabOrder, callerID uuid.UUID) (bool, error) {
	return order.PatientID == callerID, nil
}

// laboratoryOwner authorizes the laboratory the order was placed with.
type laboratoryOwner struct{}

func (laboratoryOwner) IsAuthorized(_ context.Context, order *model.LabOrder, callerID uuid.UUID) (bool, error) {
	return order.LaboratoryID == callerID, nil
}

// doctorAuthor authorizes the doctor who authored the order's
// prescription. When the prescription lookup fails the check fails
// closed: a caller who cannot prove linkage must not learn whether the
// order exists.
type doctorAuthor struct {
	prescriptions repository.LabPrescriptionRepository
}

func (d doctorAuthor) IsAuthorized(ctx context.Context, order *model.LabOrder, callerID uuid.UUID) (bool, error) {
	prescription, err := d.prescriptions.Get(ctx, order.LabPrescriptionID)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return prescription.DoctorID == callerID, nil
}

// accessForRole selects the ownership check matching the caller's role.
func (s *Service) accessForRole(role model.Role) (OrderAccess, error) {
	switch role {
	case model.RolePatient:
		return patientOwner{}, nil
	case model.RoleDoctor:
		return doctorAuthor{prescriptions: s.prescriptions}, nil
	case model.RoleLaboratory:
		return laboratoryOwner{}, nil
	default:
		return nil, apperrors.Unauthorized(fmt.Errorf("unknown role %q", role))
	}
}

// authorize rejects the caller unless their role-specific ownership
// check passes for the order.
func (s *Service) authorize(ctx context.Context, order *model.LabOrder, actor *model.Actor) error {
	access, err := s.accessForRole(actor.Role)
	if err != nil {
		return err
	}

	ok, err := access.IsAuthorized(ctx, order, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to check order access: %w", err)
	}
	if !ok {
		return apperrors.Unauthorized(nil)
	}
	return nil
}
