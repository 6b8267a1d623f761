package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vkuzmenko/carvault/internal/dbx"
	"github.com/vkuzmenko/carvault/internal/server/models"
	carsrepo "github.com/vkuzmenko/carvault/internal/server/repositories/cars"
	usersrepo "github.com/vkuzmenko/carvault/internal/server/repositories/users"
	"github.com/vkuzmenko/carvault/internal/server/storage"

	"github.com/vkuzmenko/carvault/internal/common"
)

// --- fakes shared by the service tests ---

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User

	created   []*models.User
	createErr error

	tokens map[string]string

	appended   []string // "userID:carID"
	appendErr  error
	removed    []string
	removeErr  error
	updTokErr  error
	getByIDErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{
		byEmail: map[string]*models.User{},
		byID:    map[string]*models.User{},
		tokens:  map[string]string{},
	}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if u.ID == "" {
		u.ID = fmt.Sprintf("u-%d", len(f.created)+1)
	}
	if u.Cars == nil {
		u.Cars = []string{}
	}
	f.created = append(f.created, u)
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdateToken(ctx context.Context, id string, token string) error {
	if f.updTokErr != nil {
		return f.updTokErr
	}
	f.tokens[id] = token
	return nil
}

func (f *fakeUsersRepo) AppendCar(ctx context.Context, userID string, carID string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, userID+":"+carID)
	return nil
}

func (f *fakeUsersRepo) RemoveCar(ctx context.Context, userID string, carID string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, userID+":"+carID)
	return nil
}

type fakeCarsRepo struct {
	cars map[string]*models.Car // key: id

	createErr error
	updateErr error
	listOut   []*models.Car
	listErr   error
	deleted   []string
	deleteErr error
}

func newFakeCarsRepo() *fakeCarsRepo {
	return &fakeCarsRepo{cars: map[string]*models.Car{}}
}

func (f *fakeCarsRepo) Create(ctx context.Context, car *models.Car) (*models.Car, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if car.ID == "" {
		car.ID = fmt.Sprintf("car-%d", len(f.cars)+1)
	}
	if car.Tags == nil {
		car.Tags = []string{}
	}
	if car.Images == nil {
		car.Images = []string{}
	}
	f.cars[car.ID] = car
	return car, nil
}

func (f *fakeCarsRepo) GetByIDAndOwner(ctx context.Context, carID string, ownerID string) (*models.Car, error) {
	car, ok := f.cars[carID]
	if !ok || car.UserID != ownerID {
		return nil, common.ErrorNotFound
	}
	cp := *car
	return &cp, nil
}

func (f *fakeCarsRepo) Update(ctx context.Context, car *models.Car) (*models.Car, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.cars[car.ID] = car
	return car, nil
}

func (f *fakeCarsRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Car, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listOut != nil {
		return f.listOut, nil
	}
	return []*models.Car{}, nil
}

func (f *fakeCarsRepo) Delete(ctx context.Context, carID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, carID)
	delete(f.cars, carID)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	c *fakeCarsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) Cars(db dbx.DBTX) carsrepo.Repository        { return m.c }

type fakeBlobStore struct {
	uploaded []storage.ImagePayload
	failAt   int // 1-based index of the upload that fails; 0 = never
	err      error
}

func (f *fakeBlobStore) Upload(ctx context.Context, p storage.ImagePayload) (string, error) {
	f.uploaded = append(f.uploaded, p)
	if f.failAt > 0 && len(f.uploaded) == f.failAt {
		if f.err != nil {
			return "", f.err
		}
		return "", fmt.Errorf("blob store down")
	}
	return "https://blobs.test/" + p.FileName, nil
}
