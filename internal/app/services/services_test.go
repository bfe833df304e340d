package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/app/repositories"
	"github.com/yigit/universe/internal/pkg/apperrors"
	"github.com/yigit/universe/internal/pkg/auth"
	"github.com/yigit/universe/internal/pkg/logger"
	"github.com/yigit/universe/internal/pkg/workbook"
)

const verifier = "verify@example.com"

var testNames = workbook.SheetNames{
	Courses:       "Courses",
	Materials:     "Materials",
	Opportunities: "Opportunities",
	Jobs:          "Jobs",
	Events:        "Events",
	Timetable:     "Timetable",
	Users:         "Users",
	Comments:      "Comments",
}

type sentMail struct {
	kind, to, name, title string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (r *recordingMailer) SendMaterialVerifiedEmail(toEmail, toName, materialTitle, courseSlug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMail{kind: "verified", to: toEmail, name: toName, title: materialTitle})
	return r.err
}

func (r *recordingMailer) SendWelcomeEmail(toEmail, toName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMail{kind: "welcome", to: toEmail, name: toName})
	return r.err
}

type fixture struct {
	wb     *workbook.Memory
	svc    *Services
	mailer *recordingMailer
	jwt    *auth.JWTService
	ctx    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	auth.BcryptCost = bcrypt.MinCost

	wb, err := workbook.NewSampleMemory(testNames)
	require.NoError(t, err)

	mailer := &recordingMailer{}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "universe-test",
	})
	svc := NewServices(repositories.NewRepositories(wb, testNames), Options{
		VerificationEmail: verifier,
		JWTService:        jwtService,
		EmailService:      mailer,
		Logger:            logger.Nop(),
	})
	return &fixture{wb: wb, svc: svc, mailer: mailer, jwt: jwtService, ctx: context.Background()}
}

func (f *fixture) register(t *testing.T, email, name string) *dto.AuthResponse {
	t.Helper()
	resp, err := f.svc.AuthService.Register(f.ctx, &dto.RegisterRequest{Email: email, Name: name, Password: "secret123"})
	require.NoError(t, err)
	return resp
}

func TestCourseList(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		filter dto.CourseFilter
		want   []string
	}{
		{"no filter", dto.CourseFilter{}, []string{
			"Mathematics II", "Physics I", "Chemistry Fundamentals", "Biology & Ecology",
			"Computer Science I", "Engineering Design",
		}},
		{"name substring", dto.CourseFilter{Query: "physics"}, []string{"Physics I"}},
		{"professor ignoring title", dto.CourseFilter{Query: "Prof. fischer"}, []string{"Computer Science I"}},
		{"programme", dto.CourseFilter{Programme: " mechanical engineering "}, []string{
			"Mathematics II", "Physics I", "Engineering Design",
		}},
		{"query and programme", dto.CourseFilter{Query: "ii", Programme: "Computer Science"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.svc.CourseService.List(f.ctx, tt.filter)
			require.NoError(t, err)

			names := make([]string, 0, len(resp.Courses))
			for _, c := range resp.Courses {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, 6, resp.Total)
			assert.Equal(t, []string{
				"Chemical Engineering", "Computer Science", "Environmental Science", "Mechanical Engineering",
			}, resp.Programmes)
		})
	}
}

func TestCourseDetail(t *testing.T) {
	f := newFixture(t)

	detail, err := f.svc.CourseService.Detail(f.ctx, "computer-science-i", verifier)
	require.NoError(t, err)
	assert.Equal(t, "Computer Science I", detail.Course.Name)
	assert.True(t, detail.CanVerify)
	require.Len(t, detail.Materials, 2)
	assert.Equal(t, "computer-science-i:Lecture Notes Week 1", detail.Materials[0].ID)
	assert.Empty(t, detail.Materials[0].Comments)

	anon, err := f.svc.CourseService.Detail(f.ctx, "Computer-Science-I", "")
	require.NoError(t, err)
	assert.False(t, anon.CanVerify)

	_, err = f.svc.CourseService.Detail(f.ctx, "no-such-course", "")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestMaterialRate(t *testing.T) {
	f := newFixture(t)
	req := dto.RateMaterialRequest{CourseSlug: "computer-science-i", Title: "Lecture Notes Week 1", Rating: 2}

	m, err := f.svc.MaterialService.Rate(f.ctx, "ben.student@example.com", req)
	require.NoError(t, err)
	// (4.5*2 + 2) / 3
	assert.InDelta(t, 11.0/3, m.Rating, 1e-9)
	assert.Equal(t, 3.67, m.DisplayRating())
	assert.Equal(t, 3, m.RatingCount)

	stored, err := f.svc.MaterialService.Find(f.ctx, req.CourseSlug, req.Title)
	require.NoError(t, err)
	assert.InDelta(t, 11.0/3, stored.Rating, 1e-9, "stored unrounded")
	assert.Equal(t, 3, stored.RatingCount)

	first := dto.RateMaterialRequest{CourseSlug: "computer-science-i", Title: "Exercise Solutions Sheet 3", Rating: 4}
	m, err = f.svc.MaterialService.Rate(f.ctx, "anna.student@example.com", first)
	require.NoError(t, err)
	assert.Equal(t, 4.0, m.Rating)
	assert.Equal(t, 1, m.RatingCount)

	for _, bad := range []int{0, 6, -1} {
		req.Rating = bad
		_, err = f.svc.MaterialService.Rate(f.ctx, "x@example.com", req)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRating, "rating %d", bad)
	}

	_, err = f.svc.MaterialService.Rate(f.ctx, "x@example.com", dto.RateMaterialRequest{CourseSlug: "physics-i", Title: "Missing", Rating: 3})
	assert.ErrorIs(t, err, apperrors.ErrMaterialNotFound)
}

func TestMaterialRateKeepsExactAverage(t *testing.T) {
	f := newFixture(t)
	req := dto.RateMaterialRequest{CourseSlug: "computer-science-i", Title: "Lecture Notes Week 1"}

	// seeded with two ratings averaging 4.5
	sum, n := 9.0, 2
	for _, r := range []int{2, 2, 1, 5, 1, 4, 2} {
		req.Rating = r
		_, err := f.svc.MaterialService.Rate(f.ctx, "ben.student@example.com", req)
		require.NoError(t, err)
		sum += float64(r)
		n++
	}

	m, err := f.svc.MaterialService.Find(f.ctx, req.CourseSlug, req.Title)
	require.NoError(t, err)
	assert.Equal(t, n, m.RatingCount)
	assert.InDelta(t, sum/float64(n), m.Rating, 1e-9)

	body, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"rating":2.89`)
}

func TestMaterialRateConcurrent(t *testing.T) {
	f := newFixture(t)
	req := dto.RateMaterialRequest{CourseSlug: "physics-i", Title: "Lab Report Template", Rating: 3}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.MaterialService.Rate(f.ctx, "x@example.com", req)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	m, err := f.svc.MaterialService.Find(f.ctx, req.CourseSlug, req.Title)
	require.NoError(t, err)
	assert.Equal(t, 13, m.RatingCount, "no rating is lost")
	assert.Equal(t, 3.0, m.Rating)
}

func TestMaterialVerify(t *testing.T) {
	f := newFixture(t)
	f.register(t, "carla.student@example.com", "Carla")
	req := dto.VerifyMaterialRequest{CourseSlug: "physics-i", Title: "Lab Report Template"}

	_, err := f.svc.MaterialService.Verify(f.ctx, "carla.student@example.com", req)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	m, err := f.svc.MaterialService.Verify(f.ctx, "VERIFY@example.com", req)
	require.NoError(t, err)
	assert.True(t, m.Verified)

	stored, err := f.svc.MaterialService.Find(f.ctx, req.CourseSlug, req.Title)
	require.NoError(t, err)
	assert.True(t, stored.Verified)

	_, err = f.svc.MaterialService.Verify(f.ctx, verifier, req)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyVerified)

	require.Len(t, f.mailer.sent, 2)
	assert.Equal(t, sentMail{kind: "verified", to: "carla.student@example.com", name: "Carla", title: "Lab Report Template"}, f.mailer.sent[1])
}

func TestMaterialVerifyMailFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.mailer.err = errors.New("smtp down")

	m, err := f.svc.MaterialService.Verify(f.ctx, verifier, dto.VerifyMaterialRequest{
		CourseSlug: "computer-science-i", Title: "Exercise Solutions Sheet 3",
	})
	require.NoError(t, err)
	assert.True(t, m.Verified)
}

func TestMaterialsByAuthor(t *testing.T) {
	f := newFixture(t)

	ms, err := f.svc.MaterialService.ByAuthor(f.ctx, "Anna.Student@example.com")
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, "Lecture Notes Week 1", ms[0].Title)
	assert.Equal(t, "Formula Collection", ms[1].Title)

	none, err := f.svc.MaterialService.ByAuthor(f.ctx, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOpportunityList(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.OpportunityService.List(f.ctx, models.KindOpportunities, dto.OpportunityFilter{Type: " event "})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, 2, resp.Filtered)
	assert.Equal(t, "event", resp.Selected.Type)
	assert.Equal(t, []string{"Event", "Internship", "Job"}, resp.Types)
	assert.Equal(t, []string{"All", "Computer Science", "Mechanical Engineering"}, resp.Programmes)

	resp, err = f.svc.OpportunityService.List(f.ctx, models.KindJobs, dto.OpportunityFilter{Programme: "computer science"})
	require.NoError(t, err)
	require.Len(t, resp.Opportunities, 1)
	assert.Equal(t, "Working Student Backend Development", resp.Opportunities[0].Title)

	resp, err = f.svc.OpportunityService.List(f.ctx, models.KindEvents, dto.OpportunityFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Filtered)

	_, err = f.svc.OpportunityService.List(f.ctx, "internships", dto.OpportunityFilter{})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestTimetableAvailability(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.TimetableService.Availability(f.ctx, dto.TimetableFilter{})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Total)
	assert.Equal(t, []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}, resp.Days)
	assert.Equal(t, "Program/Semester", resp.Columns.ProgramSemester)
	assert.Equal(t, "Dozent", resp.Columns.Professor)
	assert.Equal(t, "Tag", resp.Columns.Day)

	require.Len(t, resp.Entries, 5)
	assert.Equal(t, "BA Maschinenbau 2, BA Elektrotechnik 2", resp.Entries[0].ProgramSemester)
	assert.Equal(t, "BA Informatik 1, BA Wirtschaftsinformatik 1", resp.Entries[2].ProgramSemester)
	assert.Equal(t, "Wednesday", resp.Entries[2].Day)
	assert.Equal(t, "C003", resp.Entries[2].Values["Raum"])

	resp, err = f.svc.TimetableService.Availability(f.ctx, dto.TimetableFilter{Search: "Dr. schmidt"})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "Tuesday", resp.Entries[0].Day)
	assert.Equal(t, 5, resp.Total)

	resp, err = f.svc.TimetableService.Availability(f.ctx, dto.TimetableFilter{Day: "Fr."})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "Prof. Becker", resp.Entries[0].Professor)
}

func TestTimetableSearchWithoutProfessorColumn(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.wb.ReplaceSheet(f.ctx, testNames.Timetable, []string{"Day", "Time", "Note"}, [][]string{
		{"Thu", "10:00", "Room change"},
		{"Mon", "09:00", "Office hours Weber"},
		{"Mon", "08:00", "Exam review"},
	}))

	resp, err := f.svc.TimetableService.Availability(f.ctx, dto.TimetableFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 3)
	assert.Equal(t, "08:00", resp.Entries[0].Time, "sorted by weekday then time")
	assert.Equal(t, "Thursday", resp.Entries[2].Day)

	resp, err = f.svc.TimetableService.Availability(f.ctx, dto.TimetableFilter{Search: "weber"})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "09:00", resp.Entries[0].Time)
}

func TestTimetableSortsByStartTime(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.wb.ReplaceSheet(f.ctx, testNames.Timetable, []string{"Tag", "Uhrzeit", "Dozent"}, [][]string{
		{"Mo", "10:00-12:00", "Prof. Weber"},
		{"Mo", "9:00-10:00", "Prof. Buhl"},
		{"Mo", "ab 14 Uhr", "Prof. Klein"},
		{"Mo", "nach Vereinbarung", "Prof. Adler"},
	}))

	resp, err := f.svc.TimetableService.Availability(f.ctx, dto.TimetableFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 4)

	var order []string
	for _, e := range resp.Entries {
		order = append(order, e.Professor)
	}
	assert.Equal(t, []string{"Prof. Buhl", "Prof. Weber", "Prof. Klein", "Prof. Adler"}, order)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	resp := f.register(t, " Dana@Example.com ", " Dana ")
	assert.Equal(t, "dana@example.com", resp.User.Email)
	assert.Equal(t, "Dana", resp.User.Name)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.Equal(t, int64(3600), resp.Token.ExpiresIn)

	claims, err := f.jwt.ValidateToken(resp.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", claims.Email)
	assert.Equal(t, "Dana", claims.Name)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "welcome", f.mailer.sent[0].kind)

	_, err = f.svc.AuthService.Register(f.ctx, &dto.RegisterRequest{Email: "DANA@example.com", Name: "Other", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	login, err := f.svc.AuthService.Login(f.ctx, &dto.LoginRequest{Email: "dana@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Dana", login.User.Name)

	_, err = f.svc.AuthService.Login(f.ctx, &dto.LoginRequest{Email: "dana@example.com", Password: "wrong1234"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.svc.AuthService.Login(f.ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	u, err := f.svc.AuthService.CurrentUser(f.ctx, "dana@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "secret123", u.PasswordHash)
}

func TestAuthRegisterValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  dto.RegisterRequest
		want error
	}{
		{"bad email", dto.RegisterRequest{Email: "not-an-email", Name: "Dana", Password: "secret123"}, apperrors.ErrInvalidEmail},
		{"empty email", dto.RegisterRequest{Email: " ", Name: "Dana", Password: "secret123"}, apperrors.ErrInvalidEmail},
		{"short password", dto.RegisterRequest{Email: "d@example.com", Name: "Dana", Password: "abc1"}, apperrors.ErrInvalidPassword},
		{"no digit", dto.RegisterRequest{Email: "d@example.com", Name: "Dana", Password: "abcdefgh"}, apperrors.ErrInvalidPassword},
		{"short name", dto.RegisterRequest{Email: "d@example.com", Name: "D", Password: "secret123"}, apperrors.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AuthService.Register(f.ctx, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserListAndProfile(t *testing.T) {
	f := newFixture(t)
	f.register(t, "anna.student@example.com", "Anna Student")
	f.register(t, "ben.student@example.com", "Ben Student")
	f.register(t, "carla@example.com", "Carla Tutor")

	resp, err := f.svc.UserService.List(f.ctx, dto.ProfileListRequest{Search: "student", Page: 1, Size: 1})
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "anna.student@example.com", resp.Users[0].Email)
	assert.Equal(t, int64(2), resp.Pagination.TotalItems)
	assert.Equal(t, 2, resp.Pagination.TotalPages)

	resp, err = f.svc.UserService.List(f.ctx, dto.ProfileListRequest{Page: 5})
	require.NoError(t, err)
	assert.Empty(t, resp.Users)
	assert.Equal(t, int64(3), resp.Pagination.TotalItems)

	profile, err := f.svc.UserService.Profile(f.ctx, "anna.student@example.com", "ANNA.student@example.com")
	require.NoError(t, err)
	assert.True(t, profile.IsOwnAccount)
	assert.Len(t, profile.Materials, 2)
	assert.Empty(t, profile.Comments)

	other, err := f.svc.UserService.Profile(f.ctx, "anna.student@example.com", "ben.student@example.com")
	require.NoError(t, err)
	assert.False(t, other.IsOwnAccount)

	_, err = f.svc.UserService.Profile(f.ctx, "ghost@example.com", "")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestCommentAdd(t *testing.T) {
	f := newFixture(t)
	f.register(t, "anna.student@example.com", "Anna Student")
	f.register(t, "ben.student@example.com", "Ben Student")

	c, err := f.svc.CommentService.Add(f.ctx, "ben.student@example.com", dto.CommentRequest{
		Type: "Material", ReferenceID: "computer-science-i:Lecture Notes Week 1", Text: "  Very helpful  ",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Very helpful", c.Text)
	assert.Equal(t, "Ben Student", c.AuthorName)

	_, err = f.svc.CommentService.Add(f.ctx, "anna.student@example.com", dto.CommentRequest{
		Type: "profile", ReferenceID: "ben.student@example.com", Text: "Thanks for the notes",
	})
	require.NoError(t, err)

	onMaterial, err := f.svc.CommentService.ForMaterial(f.ctx, "computer-science-i", "Lecture Notes Week 1")
	require.NoError(t, err)
	require.Len(t, onMaterial, 1)
	assert.Equal(t, c.ID, onMaterial[0].ID)

	onProfile, err := f.svc.CommentService.ForProfile(f.ctx, "Ben.Student@example.com")
	require.NoError(t, err)
	require.Len(t, onProfile, 1)
	assert.Equal(t, "anna.student@example.com", onProfile[0].AuthorEmail)

	detail, err := f.svc.CourseService.Detail(f.ctx, "computer-science-i", "")
	require.NoError(t, err)
	assert.Len(t, detail.Materials[0].Comments, 1)
	assert.Empty(t, detail.Materials[1].Comments)
}

func TestCommentAddRejects(t *testing.T) {
	f := newFixture(t)
	f.register(t, "anna.student@example.com", "Anna Student")
	long := make([]byte, 1001)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name   string
		author string
		req    dto.CommentRequest
		want   error
	}{
		{"blank text", "anna.student@example.com", dto.CommentRequest{Type: "profile", ReferenceID: "anna.student@example.com", Text: "   "}, apperrors.ErrInvalidComment},
		{"too long", "anna.student@example.com", dto.CommentRequest{Type: "profile", ReferenceID: "anna.student@example.com", Text: string(long)}, apperrors.ErrInvalidComment},
		{"bad type", "anna.student@example.com", dto.CommentRequest{Type: "course", ReferenceID: "x", Text: "hi"}, apperrors.ErrInvalidCommentType},
		{"unknown material", "anna.student@example.com", dto.CommentRequest{Type: "material", ReferenceID: "physics-i:Nope", Text: "hi"}, apperrors.ErrMaterialNotFound},
		{"malformed material ref", "anna.student@example.com", dto.CommentRequest{Type: "material", ReferenceID: "physics-i", Text: "hi"}, apperrors.ErrValidationFailed},
		{"unknown profile", "anna.student@example.com", dto.CommentRequest{Type: "profile", ReferenceID: "ghost@example.com", Text: "hi"}, apperrors.ErrUserNotFound},
		{"unknown author", "ghost@example.com", dto.CommentRequest{Type: "profile", ReferenceID: "anna.student@example.com", Text: "hi"}, apperrors.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CommentService.Add(f.ctx, tt.author, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	all, err := f.svc.CommentService.List(f.ctx, models.CommentProfile, "anna.student@example.com")
	require.NoError(t, err)
	assert.Empty(t, all)
}
