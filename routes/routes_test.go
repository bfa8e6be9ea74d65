package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	memoryRepo "coursehub/database/repository/memory"
	"coursehub/handlers"
	"coursehub/models"
	"coursehub/services/admin"
	"coursehub/services/catalog"
	"coursehub/services/checkout"
	"coursehub/services/community"
	"coursehub/services/events"
	"coursehub/services/files"
	"coursehub/services/notification"
	"coursehub/services/progress"
	"coursehub/services/user"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminEmail = "admin@coursehub.test"

func init() {
	gin.SetMode(gin.TestMode)
}

type nopStorage struct{}

func (nopStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	_, err := io.Copy(io.Discard, r)
	return key, err
}
func (nopStorage) Delete(context.Context, string) error { return nil }
func (nopStorage) DownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://files.test/" + key, nil
}
func (nopStorage) Driver() string { return "nop" }

type server struct {
	t      *testing.T
	router *gin.Engine
}

func newServer(t *testing.T) *server {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	users := memoryRepo.NewUserRepo()
	courses := memoryRepo.NewCourseRepo()
	purchases := memoryRepo.NewPurchaseRepo()
	posts := memoryRepo.NewCommunityRepo()
	eventStore := memoryRepo.NewEventRepo()
	fileStore := memoryRepo.NewFileRepo()
	notifier := &notification.Recorder{}

	checkoutSvc := &checkout.DefaultCheckoutService{
		Purchases:   purchases,
		Courses:     courses,
		Users:       users,
		Gateway:     &checkout.StripeGateway{WebhookSecret: "whsec_test"},
		Notifier:    notifier,
		FrontendURL: "http://localhost:5173",
	}
	fileSvc := &files.DefaultFileService{Repo: fileStore, Storage: nopStorage{}, MaxBytes: 1 << 20}

	hb := &handlers.HandlerBundle{
		UserRepo:          users,
		AuthCache:         client,
		MaxRequestsPerMin: 1000,
		FrontendURL:       "http://localhost:5173",
		User: &handlers.UserHandler{UserService: &user.DefaultUserService{
			Repo: users, AuthCache: client, CodeCache: client, Notifier: notifier, AdminEmail: adminEmail,
		}},
		Catalog: &handlers.CatalogHandler{Catalog: &catalog.DefaultCatalogService{
			Repo: courses, Leads: memoryRepo.NewLeadRepo(), Access: checkoutSvc, Notifier: notifier,
		}},
		Checkout: &handlers.CheckoutHandler{Checkout: checkoutSvc},
		Progress: &handlers.ProgressHandler{Progress: &progress.DefaultProgressService{
			Repo: memoryRepo.NewProgressRepo(), Courses: courses, Access: checkoutSvc,
		}},
		Community: &handlers.CommunityHandler{Community: &community.DefaultCommunityService{
			Repo: posts, Users: users, Files: fileStore, Cache: client, Notifier: notifier,
		}},
		Events:  &handlers.EventHandler{Events: &events.DefaultEventService{Repo: eventStore, Users: users, Notifier: notifier}},
		Storage: &handlers.StorageHandler{Files: fileSvc, MaxBytes: 1 << 20},
		Admin: &handlers.AdminHandler{AdminService: &admin.DefaultAdminService{
			Users: users, Courses: courses, Purchases: purchases, Community: posts, Events: eventStore, Files: fileStore,
		}},
	}

	r := gin.New()
	RegisterRoutes(r, hb)
	return &server{t: t, router: r}
}

func (s *server) do(method, path, token string, body interface{}, header ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *server) register(name, email string) user.AuthResponse {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/register", "", models.UserRegistrationRequest{
		Name: name, Email: email, Password: "Sup3r$ecret",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[user.AuthResponse](s.t, w)
}

func TestSessionLifecycle(t *testing.T) {
	s := newServer(t)
	student := s.register("Ada", "ada@example.com")
	assert.Equal(t, models.RoleStudent, student.Role)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/me", "", nil).Code)

	w := s.do(http.MethodGet, "/api/me", student.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada@example.com", decode[models.User](t, w).Email)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/auth/logout", student.Token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/me", student.Token, nil).Code)
}

func TestValidationErrorsAreFieldMapped(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"name": "Al", "email": "nope", "password": "x"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[struct {
		Fields map[string]string `json:"fields"`
	}](t, w)
	assert.Contains(t, body.Fields, "email")
}

func TestMessagesFollowLocale(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodPost, "/api/auth/login", "", models.UserLoginRequest{Email: "who@example.com", Password: "wrong"},
		"Accept-Language", "fr-FR")

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "E-mail ou mot de passe invalide.", decode[struct {
		Message string `json:"message"`
	}](t, w).Message)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := newServer(t)
	student := s.register("Ada", "ada@example.com")
	root := s.register("Root", adminEmail)
	require.Equal(t, models.RoleAdmin, root.Role)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/admin/stats", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/admin/stats", student.Token, nil).Code)

	w := s.do(http.MethodGet, "/api/admin/stats", root.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode[models.DashboardStats](t, w).Users)
}

func TestFreeCourseEnrollmentUnlocksLessons(t *testing.T) {
	s := newServer(t)
	root := s.register("Root", adminEmail)
	student := s.register("Ada", "ada@example.com")

	w := s.do(http.MethodPost, "/api/admin/courses", root.Token, models.CourseRequest{
		Slug: "intro-to-go", Title: "Intro to Go", PriceCents: 0, Published: true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	course := decode[models.Course](t, w)

	w = s.do(http.MethodPost, "/api/admin/lessons", root.Token, models.LessonRequest{
		CourseID: course.ID, Title: "Hello", VideoURL: "https://video.test/hello.mp4", DurationSeconds: 120,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	lesson := decode[models.Lesson](t, w)

	// Anonymous visitors see the outline without video links.
	w = s.do(http.MethodGet, "/api/courses/intro-to-go", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[models.CourseDetail](t, w)
	require.Len(t, detail.Lessons, 1)
	assert.Empty(t, detail.Lessons[0].VideoURL)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/lessons/"+lesson.ID, student.Token, nil).Code)

	w = s.do(http.MethodPost, "/api/checkout", student.Token, models.CheckoutRequest{CourseID: course.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/lessons/"+lesson.ID, student.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://video.test/hello.mp4", decode[models.Lesson](t, w).VideoURL)

	w = s.do(http.MethodPut, "/api/progress/lessons/"+lesson.ID, student.Token,
		models.ProgressUpdateRequest{PositionSeconds: 1 << 60, DurationSeconds: 120})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[struct {
		Fields map[string]string `json:"fields"`
	}](t, w).Fields, "positionSeconds")

	w = s.do(http.MethodPost, "/api/progress/lessons/"+lesson.ID+"/complete", student.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/progress/courses/"+course.ID, student.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, decode[models.CourseProgress](t, w).Percent)

	assert.Equal(t, http.StatusConflict,
		s.do(http.MethodPost, "/api/checkout", student.Token, models.CheckoutRequest{CourseID: course.ID}).Code)
}

func TestCommunityFlow(t *testing.T) {
	s := newServer(t)
	ada := s.register("Ada", "ada@example.com")
	bob := s.register("Bob", "bob@example.com")

	w := s.do(http.MethodPost, "/api/community/posts", ada.Token, models.PostRequest{Body: "Finished lesson one!"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := decode[models.Post](t, w)
	assert.Equal(t, "Ada", post.AuthorName)

	w = s.do(http.MethodPost, "/api/community/posts/"+post.ID+"/like", bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.LikeResult{Liked: true, LikeCount: 1}, decode[models.LikeResult](t, w))

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, "/api/community/posts/"+post.ID, bob.Token, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/community/posts/"+post.ID, ada.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/community/posts/"+post.ID, ada.Token, nil).Code)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodPost, "/api/webhooks/stripe", "", map[string]string{"type": "checkout.session.completed"},
		"Stripe-Signature", "t=1,v1=deadbeef")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeadCapture(t *testing.T) {
	s := newServer(t)
	lead := models.LeadRequest{Email: "fan@example.com", Source: "landing"}

	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/leads", "", lead).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/leads", "", lead).Code)
}

func TestCORSAllowsFrontend(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodOptions, "/api/courses", "", nil,
		"Origin", "http://localhost:5173", "Access-Control-Request-Method", "GET")

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsConfigSplitsOrigins(t *testing.T) {
	cfg := corsConfig("https://a.example.com/, https://b.example.com")
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowOrigins)
	assert.Equal(t, []string{"http://localhost:5173"}, corsConfig("").AllowOrigins)
}
