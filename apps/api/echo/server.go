package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/alphauniversity/portal/core"
	"github.com/alphauniversity/portal/core/content"
	"github.com/alphauniversity/portal/core/user"
)

const (
	loginPath          = "/login"
	forgotPasswordPath = "/forgot-password"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool

		Conf         *core.Config
		Logger       core.Logger
		UserSvc      user.Service
		ContentStore content.Store
		Catalog      core.Catalog
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf
	secret := []byte(conf.SecretKey)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(sessionMiddleware(secret))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger)
	s.app.Debug = conf.Debug

	api := &portalApi{
		conf:    conf,
		secret:  secret,
		usrSvc:  s.opts.UserSvc,
		store:   s.opts.ContentStore,
		catalog: s.opts.Catalog,
		logger:  s.opts.Logger,
	}
	api.register(s.app)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Addr))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

type portalApi struct {
	conf    *core.Config
	secret  []byte
	usrSvc  user.Service
	store   content.Store
	catalog core.Catalog
	logger  core.Logger
}

func (api *portalApi) register(e *echo.Echo) {
	// public pages
	e.GET("/", api.home)
	e.GET("/courses", api.courses)
	e.GET("/admissions", api.admissions)
	e.GET("/about", api.about)
	e.GET("/contact", api.contact)

	// auth flow
	e.GET(loginPath, api.loginForm)
	e.POST(loginPath, api.login)
	e.GET("/logout", api.logout)
	e.GET(forgotPasswordPath, api.forgotPasswordForm)
	e.POST(forgotPasswordPath, api.forgotPassword)
	e.GET("/reset-password/:token", api.resetPasswordForm)
	e.POST("/reset-password/:token", api.resetPassword)

	// any authenticated user
	auth := e.Group("", requireAuthenticated)
	auth.GET("/course/:id", api.courseDetail)
	auth.GET("/uploads/:courseID/:filename", api.downloadMaterial)
	auth.GET("/grades/:courseID", api.grades)
	auth.GET("/tests/:courseID", api.tests)
	auth.GET("/assignments/:courseID", api.assignments)

	// student portal
	student := auth.Group("", requireRolePrefix(user.RolePrefixStudent))
	student.GET(user.StudentHomePath, api.studentHome)
	student.GET("/student/course/:id", api.studentCourseDetail)
	student.POST("/upload-assignment", api.uploadAssignment)

	// teacher portal
	teacher := auth.Group("", requireRolePrefix(user.RolePrefixTeacher))
	teacher.GET(user.TeacherHomePath, api.teacherHome)
	teacher.POST("/upload-announcement", api.uploadAnnouncement)
	teacher.GET("/upload-course-lecture", api.uploadCourseLectureForm)
	teacher.POST("/upload-course-lecture", api.uploadCourseLecture)

	// admin portal: guard prefix is the single character "a", distinct from
	// the post-login dispatcher's literal "admin"
	admin := auth.Group("/admin", requireRolePrefix(user.RolePrefixAdmin))
	admin.GET("/home", api.adminHome)
	admin.GET("/users", api.listUsers)
	admin.GET("/documents", api.documents)
	admin.GET("/add-user", api.addUserForm)
	admin.POST("/add-user", api.addUser)
}
