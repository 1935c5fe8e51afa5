package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"CarePoint/cache"
	"CarePoint/database"
	"CarePoint/handlers"
	"CarePoint/middlewares"
	"CarePoint/models"
	"CarePoint/repositories"
	"CarePoint/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newUserHandler(t *testing.T) (*handlers.UserHandler, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	disabled := cache.Disabled()
	users := repositories.NewUserRepository(db, disabled)
	appointments := repositories.NewAppointmentRepository(db, disabled)
	return handlers.NewUserHandler(services.NewUserService(users, appointments)), db
}

// asUser injects the authenticated subject the way the token middleware
// does, so handlers can be exercised without minting tokens.
func asUser(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(middlewares.WithUser(c.Request.Context(), userID, role))
		c.Next()
	}
}

func TestMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, db := newUserHandler(t)

	user := models.User{
		ID:       uuid.New().String(),
		Name:     "Own Profile",
		Email:    uuid.New().String() + "@carepoint.test",
		Password: "irrelevant",
		Role:     models.RolePatient,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	router := gin.New()
	router.GET("/users/me", asUser(user.ID, user.Role), handler.Me)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var got models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.ID != user.ID || got.Name != user.Name {
		t.Errorf("profile = %s/%s, want %s/%s", got.ID, got.Name, user.ID, user.Name)
	}
}

func TestMeWithoutSubject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newUserHandler(t)

	router := gin.New()
	router.GET("/users/me", handler.Me)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
