package http

import (
	"context"
	"io"
	"time"

	"github.com/vkuzmenko/carvault/internal/logging"
	"github.com/vkuzmenko/carvault/internal/server/models"
	"github.com/vkuzmenko/carvault/internal/server/services"
	"github.com/vkuzmenko/carvault/internal/server/storage"
)

type fakeUserService struct {
	signUpUser *models.User
	signUpErr  error

	loginUser  *models.User
	loginToken string
	loginErr   error

	gotFirstName string
	gotLastName  string
	gotEmail     string
	gotPassword  string
}

func (f *fakeUserService) SignUp(ctx context.Context, firstName, lastName, email, password string) (*models.User, error) {
	f.gotFirstName, f.gotLastName, f.gotEmail, f.gotPassword = firstName, lastName, email, password
	return f.signUpUser, f.signUpErr
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	f.gotEmail, f.gotPassword = email, password
	return f.loginUser, f.loginToken, f.loginErr
}

type fakeCarService struct {
	car     *models.Car
	list    []*models.Car
	err     error
	listErr error

	gotOwnerID  string
	gotCarID    string
	gotTitle    string
	gotDesc     string
	gotTags     []string
	gotPayloads []storage.ImagePayload
	gotPatch    services.CarPatch
	deleted     []string
}

func (f *fakeCarService) Create(ctx context.Context, ownerID, title, description string, tags []string, imagePayloads []storage.ImagePayload) (*models.Car, error) {
	f.gotOwnerID, f.gotTitle, f.gotDesc = ownerID, title, description
	f.gotTags, f.gotPayloads = tags, imagePayloads
	return f.car, f.err
}

func (f *fakeCarService) Update(ctx context.Context, ownerID, carID string, patch services.CarPatch) (*models.Car, error) {
	f.gotOwnerID, f.gotCarID, f.gotPatch = ownerID, carID, patch
	return f.car, f.err
}

func (f *fakeCarService) Get(ctx context.Context, ownerID, carID string) (*models.Car, error) {
	f.gotOwnerID, f.gotCarID = ownerID, carID
	return f.car, f.err
}

func (f *fakeCarService) ListAll(ctx context.Context, ownerID string) ([]*models.Car, error) {
	f.gotOwnerID = ownerID
	return f.list, f.listErr
}

func (f *fakeCarService) Delete(ctx context.Context, ownerID, carID string) error {
	f.gotOwnerID, f.gotCarID = ownerID, carID
	f.deleted = append(f.deleted, carID)
	return f.err
}

func newTestServer(us UserService, cs CarService, secret []byte, validity time.Duration) *Server {
	logger := logging.NewJSONLogger(io.Discard)
	h := NewHandler(us, cs, secret, validity, logger)
	return NewServer(":0", "http://localhost:3000", h, secret, logger)
}
