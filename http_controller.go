package board

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// BoardController serves the JSON API. Every handler responds with the
// uniform envelope and reports failures through the shared error handler.
type BoardController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Sessions     *SessionManager
	Mailer       Mailer
	CookieName   string
	BaseURL      string
	UploadDir    string
	ErrorHandler router.ErrorHandler

	guards *Guards
}

type BoardControllerOption func(*BoardController) *BoardController

func WithControllerLogger(logger Logger) BoardControllerOption {
	return func(c *BoardController) *BoardController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerRepo(repo RepositoryManager) BoardControllerOption {
	return func(c *BoardController) *BoardController {
		c.Repo = repo
		return c
	}
}

func WithControllerSessions(sessions *SessionManager) BoardControllerOption {
	return func(c *BoardController) *BoardController {
		c.Sessions = sessions
		return c
	}
}

func WithControllerMailer(mailer Mailer) BoardControllerOption {
	return func(c *BoardController) *BoardController {
		if mailer != nil {
			c.Mailer = mailer
		}
		return c
	}
}

func WithControllerCookieName(name string) BoardControllerOption {
	return func(c *BoardController) *BoardController {
		if name != "" {
			c.CookieName = name
		}
		return c
	}
}

func WithControllerBaseURL(baseURL string) BoardControllerOption {
	return func(c *BoardController) *BoardController {
		if baseURL != "" {
			c.BaseURL = baseURL
		}
		return c
	}
}

func WithControllerUploadDir(dir string) BoardControllerOption {
	return func(c *BoardController) *BoardController {
		if dir != "" {
			c.UploadDir = dir
		}
		return c
	}
}

func WithControllerDebug(debug bool) BoardControllerOption {
	return func(c *BoardController) *BoardController {
		c.Debug = debug
		return c
	}
}

func NewBoardController(opts ...BoardControllerOption) *BoardController {
	c := &BoardController{
		Logger:     defLogger{},
		CookieName: "board_session",
		BaseURL:    "http://localhost:3000",
		UploadDir:  "./uploads",
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in board controller...")
	}

	if c.Sessions == nil {
		panic("Missing SessionManager in board controller...")
	}

	if c.Mailer == nil {
		c.Mailer = NewDevMailer(c.Logger)
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = NewErrorHandler(c.Logger)
	}

	c.guards = NewGuards(c.Sessions, c.CookieName, WithGuardErrorHandler(c.ErrorHandler))

	return c
}

// RegisterBoardRoutes mounts the full API surface on the given router.
func RegisterBoardRoutes[T any](app router.Router[T], opts ...BoardControllerOption) *BoardController {
	controller := NewBoardController(opts...)

	requireAuth := controller.guards.RequireAuthenticated()
	requireAnon := controller.guards.RequireAnonymous()

	app.Post("/auth/login", requireAnon(controller.Login)).SetName("auth.login")
	app.Post("/auth/logout", requireAuth(controller.Logout)).SetName("auth.logout")

	app.Post("/users", requireAnon(controller.Register)).SetName("users.register")
	app.Get("/users", requireAuth(controller.Profile)).SetName("users.profile")
	app.Put("/users", requireAuth(controller.UpdateProfile)).SetName("users.update")
	app.Delete("/users", requireAuth(controller.DeleteAccount)).SetName("users.delete")
	app.Post("/users/profile-img", requireAuth(controller.UploadProfileImage)).SetName("users.profile-img")
	app.Post("/users/email-verify", controller.VerifyEmail).SetName("users.email-verify")
	// The GET alias serves the emailed confirmation link.
	app.Get("/users/email-verify", controller.VerifyEmail).SetName("users.email-verify.confirm")
	app.Post("/users/email-verify/resend", requireAuth(controller.ResendVerification)).SetName("users.email-verify.resend")
	app.Get("/users/:id/posts", controller.ListUserPosts).SetName("users.posts")

	app.Get("/posts", controller.ListPosts).SetName("posts.list")
	app.Get("/posts/count", controller.CountPosts).SetName("posts.count")
	app.Get("/posts/:id", controller.GetPost).SetName("posts.get")
	app.Post("/posts", requireAuth(controller.CreatePost)).SetName("posts.create")
	app.Put("/posts/:id", requireAuth(controller.UpdatePost)).SetName("posts.update")
	app.Delete("/posts/:id", requireAuth(controller.DeletePost)).SetName("posts.delete")
	app.Get("/posts/:id/comments", controller.ListComments).SetName("posts.comments")
	app.Get("/posts/:id/comments/count", controller.CountComments).SetName("posts.comments.count")

	app.Post("/comments", requireAuth(controller.CreateComment)).SetName("comments.create")
	app.Put("/comments/:id", requireAuth(controller.UpdateComment)).SetName("comments.update")
	app.Delete("/comments/:id", requireAuth(controller.DeleteComment)).SetName("comments.delete")

	app.Get("/categories", controller.ListCategories).SetName("categories.list")
	app.Get("/categories/:id/posts", controller.ListCategoryPosts).SetName("categories.posts")

	return controller
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *BoardController) Login(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, ErrInvalidCredentials)
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if a.Debug {
		fmt.Println("======= BOARD LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("==========================")
	}

	token, user, err := a.Sessions.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	setSessionCookie(ctx, a.CookieName, token, a.Sessions.TTL())

	return respond(ctx, 200, user)
}

func (a *BoardController) Logout(ctx router.Context) error {
	token := ctx.Cookies(a.CookieName, "")

	if err := a.Sessions.Destroy(ctx.Context(), token); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	clearSessionCookie(ctx, a.CookieName)

	return respond(ctx, 200, map[string]bool{"loggedOut": true})
}
