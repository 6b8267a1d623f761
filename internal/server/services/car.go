package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vkuzmenko/carvault/internal/common"
	"github.com/vkuzmenko/carvault/internal/server/models"
	"github.com/vkuzmenko/carvault/internal/server/repositories/repomanager"
	"github.com/vkuzmenko/carvault/internal/server/storage"
)

// CarPatch carries the fields of a partial car update. Title, Description
// and Tags replace the stored values only when non-empty; ExistingImages
// is the retained subset of current image URLs (order preserved) and
// NewImagePayloads are uploaded and appended after it.
type CarPatch struct {
	Title            string
	Description      string
	Tags             []string
	ExistingImages   []string
	NewImagePayloads []storage.ImagePayload
}

func (p CarPatch) empty() bool {
	return p.Title == "" && p.Description == "" && len(p.Tags) == 0 &&
		len(p.ExistingImages) == 0 && len(p.NewImagePayloads) == 0
}

// CarService implements the car record lifecycle. Multi-step writes
// (create record then append the owner back-reference, remove the
// back-reference then delete the record) run as two independent
// statements; a crash between them leaves an orphan reference or orphan
// record, which is the accepted inconsistency window.
type CarService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
}

func NewCarService(db *sql.DB, m repomanager.RepositoryManager, blobs storage.BlobStore) *CarService {
	return &CarService{db: db, repomanager: m, blobs: blobs}
}

// Create persists a new car for ownerID. Image payloads are uploaded
// through the blob store sequentially in input order; the first failure
// aborts the whole operation and no record is committed.
func (s *CarService) Create(ctx context.Context, ownerID, title, description string, tags []string, imagePayloads []storage.ImagePayload) (*models.Car, error) {
	if title == "" {
		return nil, common.ErrorValidation
	}

	userRepo := s.repomanager.Users(s.db)

	if _, err := userRepo.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error resolving owner: %w", err)
	}

	if len(imagePayloads) > models.MaxCarImages {
		return nil, common.ErrorValidation
	}

	urls, err := s.uploadAll(ctx, imagePayloads)
	if err != nil {
		return nil, err
	}

	car := &models.Car{
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Tags:        tags,
		Images:      urls,
	}

	carRepo := s.repomanager.Cars(s.db)
	car, err = carRepo.Create(ctx, car)
	if err != nil {
		return nil, fmt.Errorf("error creating car: %w", err)
	}

	if err := userRepo.AppendCar(ctx, ownerID, car.ID); err != nil {
		return nil, fmt.Errorf("error updating owner cars: %w", err)
	}

	return car, nil
}

// Update applies a partial patch to a car owned by ownerID. Ownership is
// enforced by querying on both id and owner, so a caller holding a valid
// id of another user's record gets ErrorNotFound. The final images list
// is ExistingImages followed by the freshly uploaded URLs; blobs dropped
// from ExistingImages are not reclaimed.
func (s *CarService) Update(ctx context.Context, ownerID, carID string, patch CarPatch) (*models.Car, error) {
	if carID == "" || patch.empty() {
		return nil, common.ErrorValidation
	}

	carRepo := s.repomanager.Cars(s.db)

	car, err := carRepo.GetByIDAndOwner(ctx, carID, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error fetching car: %w", err)
	}

	if patch.Title != "" {
		car.Title = patch.Title
	}
	if patch.Description != "" {
		car.Description = patch.Description
	}
	if len(patch.Tags) > 0 {
		car.Tags = patch.Tags
	}

	if len(patch.ExistingImages)+len(patch.NewImagePayloads) > models.MaxCarImages {
		return nil, common.ErrorValidation
	}

	urls, err := s.uploadAll(ctx, patch.NewImagePayloads)
	if err != nil {
		return nil, err
	}

	images := make([]string, 0, len(patch.ExistingImages)+len(urls))
	images = append(images, patch.ExistingImages...)
	images = append(images, urls...)
	car.Images = images

	car, err = carRepo.Update(ctx, car)
	if err != nil {
		return nil, fmt.Errorf("error updating car: %w", err)
	}

	return car, nil
}

// Get returns the car matching both carID and ownerID.
func (s *CarService) Get(ctx context.Context, ownerID, carID string) (*models.Car, error) {
	if carID == "" {
		return nil, common.ErrorValidation
	}

	car, err := s.repomanager.Cars(s.db).GetByIDAndOwner(ctx, carID, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error fetching car: %w", err)
	}
	return car, nil
}

// ListAll returns all cars owned by ownerID, newest first.
func (s *CarService) ListAll(ctx context.Context, ownerID string) ([]*models.Car, error) {
	cars, err := s.repomanager.Cars(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing cars: %w", err)
	}
	return cars, nil
}

// Delete removes carID from the owner's back-reference list, then deletes
// the record by id unconditionally. Deleting a nonexistent id is not an
// error, so the operation is idempotent for the caller.
func (s *CarService) Delete(ctx context.Context, ownerID, carID string) error {
	if carID == "" {
		return common.ErrorValidation
	}

	if err := s.repomanager.Users(s.db).RemoveCar(ctx, ownerID, carID); err != nil {
		return fmt.Errorf("error updating owner cars: %w", err)
	}

	if err := s.repomanager.Cars(s.db).Delete(ctx, carID); err != nil {
		return fmt.Errorf("error deleting car: %w", err)
	}

	return nil
}

// uploadAll pushes payloads through the blob store one by one, collecting
// URLs in input order. The first failure aborts and surfaces as
// common.ErrorUpload; already uploaded blobs are not rolled back.
func (s *CarService) uploadAll(ctx context.Context, payloads []storage.ImagePayload) ([]string, error) {
	urls := make([]string, 0, len(payloads))
	for _, p := range payloads {
		url, err := s.blobs.Upload(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorUpload, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}
