// Package http exposes the CarVault REST surface over fiber: auth and car
// routes, the token guard middleware, and the server lifecycle.
package http

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vkuzmenko/carvault/internal/common"
	"github.com/vkuzmenko/carvault/internal/logging"
	"github.com/vkuzmenko/carvault/internal/server/models"
	"github.com/vkuzmenko/carvault/internal/server/services"
	"github.com/vkuzmenko/carvault/internal/server/storage"
)

// UserService is the slice of services.UserService the handlers need.
type UserService interface {
	SignUp(ctx context.Context, firstName, lastName, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

// CarService is the slice of services.CarService the handlers need.
type CarService interface {
	Create(ctx context.Context, ownerID, title, description string, tags []string, imagePayloads []storage.ImagePayload) (*models.Car, error)
	Update(ctx context.Context, ownerID, carID string, patch services.CarPatch) (*models.Car, error)
	Get(ctx context.Context, ownerID, carID string) (*models.Car, error)
	ListAll(ctx context.Context, ownerID string) ([]*models.Car, error)
	Delete(ctx context.Context, ownerID, carID string) error
}

type Handler struct {
	users         UserService
	cars          CarService
	jwtSecret     []byte
	tokenValidity time.Duration
	logger        logging.Logger
}

func NewHandler(us UserService, cs CarService, jwtSecret []byte, tokenValidity time.Duration, l logging.Logger) *Handler {
	return &Handler{
		users:         us,
		cars:          cs,
		jwtSecret:     jwtSecret,
		tokenValidity: tokenValidity,
		logger:        l.With("module", "http_handler"),
	}
}

// userView renders a user without the password digest.
type userView struct {
	ID        string   `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Cars      []string `json:"cars"`
	Token     string   `json:"token,omitempty"`
}

type carView struct {
	ID          string    `json:"id"`
	User        string    `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toUserView(u *models.User) userView {
	cars := u.Cars
	if cars == nil {
		cars = []string{}
	}
	return userView{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Cars:      cars,
		Token:     u.Token,
	}
}

func toCarView(c *models.Car) carView {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	images := c.Images
	if images == nil {
		images = []string{}
	}
	return carView{
		ID:          c.ID,
		User:        c.UserID,
		Title:       c.Title,
		Description: c.Description,
		Tags:        tags,
		Images:      images,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// Signup handles POST /auth/signup.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var body struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "All fields are required")
	}

	user, err := h.users.SignUp(c.Context(), body.FirstName, body.LastName, body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			return fail(c, fiber.StatusBadRequest, "All fields are required")
		case errors.Is(err, common.ErrorConflict):
			return fail(c, fiber.StatusConflict, "User already exists")
		default:
			h.logger.Error(c.Context(), "signup failed", "error", err)
			return fail(c, fiber.StatusInternalServerError, "Internal server error, try again")
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    toUserView(user),
		"message": "User created successfully",
	})
}

// Login handles POST /auth/login. The issued token is returned in the
// body and mirrored into an HTTP-only cookie with matching expiry.
func (h *Handler) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Please fill all details")
	}

	user, token, err := h.users.Login(c.Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			return fail(c, fiber.StatusBadRequest, "Please fill all details")
		case errors.Is(err, common.ErrorNotFound):
			return fail(c, fiber.StatusNotFound, "User doesn't exist, Please sign up first")
		case errors.Is(err, common.ErrorUnauthorized):
			return fail(c, fiber.StatusUnauthorized, "Password is incorrect")
		default:
			h.logger.Error(c.Context(), "login failed", "error", err)
			return fail(c, fiber.StatusInternalServerError, "Internal server error, try again")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(h.tokenValidity),
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    toUserView(user),
		"message": "Login successful",
	})
}

// CreateCar handles POST /car/createCar (multipart).
func (h *Handler) CreateCar(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	title := c.FormValue("title")
	description := c.FormValue("description")

	form, err := c.MultipartForm()
	var tags []string
	var files []*multipart.FileHeader
	if err == nil {
		tags = formValues(form, "tags")
		files = formFiles(form, "images")
	}

	payloads, err := readPayloads(files)
	if err != nil {
		h.logger.Error(c.Context(), "reading uploaded files failed", "error", err)
		return fail(c, fiber.StatusInternalServerError, "Internal server error, try again")
	}

	car, err := h.cars.Create(c.Context(), identity.UserID, title, description, tags, payloads)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			return fail(c, fiber.StatusBadRequest, "Please fill all details")
		case errors.Is(err, common.ErrorNotFound):
			return fail(c, fiber.StatusNotFound, "User not found")
		case errors.Is(err, common.ErrorUpload):
			h.logger.Error(c.Context(), "image upload failed", "error", err)
			return fail(c, fiber.StatusInternalServerError, "Image upload failed, try again")
		default:
			h.logger.Error(c.Context(), "create car failed", "error", err)
			return fail(c, fiber.StatusInternalServerError, "Internal server error, try again")
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"car":     toCarView(car),
		"message": "Car created successfully",
	})
}

// UpdateCar handles PUT /car/updateCar (multipart).
func (h *Handler) UpdateCar(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	carID := c.FormValue("carId")
	patch := services.CarPatch{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
	}

	form, err := c.MultipartForm()
	var files []*multipart.FileHeader
	if err == nil {
		patch.Tags = formValues(form, "tags")
		patch.ExistingImages = formValues(form, "existingImages")
		files = formFiles(form, "newImages")
	}

	patch.NewImagePayloads, err = readPayloads(files)
	if err != nil {
		h.logger.Error(c.Context(), "reading uploaded files failed", "error", err)
		return fail(c, fiber.StatusInternalServerError, "Internal server error, try again")
	}

	car, err := h.cars.Update(c.Context(), identity.UserID, carID, patch)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			return fail(c, fiber.StatusBadRequest, "No valid data to update. Please provide title, description, tags, or images.")
		case errors.Is(err, common.ErrorNotFound):
			return fail(c, fiber.StatusNotFound, "Car not found or not authorized to update")
		case errors.Is(err, common.ErrorUpload):
			h.logger.Error(c.Context(), "image upload failed", "error", err)
			return fail(c, fiber.StatusInternalServerError, "Image upload failed, try again")
		default:
			h.logger.Error(c.Context(), "update car failed", "error", err)
			return fail(c, fiber.StatusInternalServerError, "Internal server error, try again")
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"car":     toCarView(car),
		"message": "Car updated successfully",
	})
}

// GetCar handles POST /car/getCar.
func (h *Handler) GetCar(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	carID, err := carIDFromRequest(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Please fill all details")
	}

	car, err := h.cars.Get(c.Context(), identity.UserID, carID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			return fail(c, fiber.StatusBadRequest, "Please fill all details")
		case errors.Is(err, common.ErrorNotFound):
			return fail(c, fiber.StatusNotFound, "Car not found")
		default:
			h.logger.Error(c.Context(), "get car failed", "error", err)
			return fail(c, fiber.StatusInternalServerError, "Internal server error, try again")
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"car":     toCarView(car),
		"message": "Car details fetched successfully",
	})
}

// GetAllCars handles GET /car/getAllCars.
func (h *Handler) GetAllCars(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	cars, err := h.cars.ListAll(c.Context(), identity.UserID)
	if err != nil {
		h.logger.Error(c.Context(), "list cars failed", "error", err)
		return fail(c, fiber.StatusInternalServerError, "Internal server error, try again")
	}

	views := make([]carView, 0, len(cars))
	for _, car := range cars {
		views = append(views, toCarView(car))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"allCars": views,
		"message": "All cars fetched successfully",
	})
}

// DeleteCar handles DELETE /car/deleteCar.
func (h *Handler) DeleteCar(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	carID, err := carIDFromRequest(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Please fill all details")
	}

	if err := h.cars.Delete(c.Context(), identity.UserID, carID); err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			return fail(c, fiber.StatusBadRequest, "Please fill all details")
		default:
			h.logger.Error(c.Context(), "delete car failed", "error", err)
			return fail(c, fiber.StatusInternalServerError, "Internal server error, try again")
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Car deleted successfully",
	})
}

// carIDFromRequest reads carId from a JSON body or a form field.
func carIDFromRequest(c *fiber.Ctx) (string, error) {
	if v := c.FormValue("carId"); v != "" {
		return v, nil
	}
	var body struct {
		CarID string `json:"carId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return "", err
	}
	return body.CarID, nil
}

// formValues collects repeated form values under key and key[].
func formValues(form *multipart.Form, key string) []string {
	out := append([]string{}, form.Value[key]...)
	out = append(out, form.Value[key+"[]"]...)
	return out
}

// formFiles collects uploaded files under key and key[].
func formFiles(form *multipart.Form, key string) []*multipart.FileHeader {
	out := append([]*multipart.FileHeader{}, form.File[key]...)
	out = append(out, form.File[key+"[]"]...)
	return out
}

// readPayloads buffers uploaded files into blob store payloads, in form order.
func readPayloads(files []*multipart.FileHeader) ([]storage.ImagePayload, error) {
	payloads := make([]storage.ImagePayload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, storage.ImagePayload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return payloads, nil
}
