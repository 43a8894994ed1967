package auth

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"

	"github.com/holord/auth-gateway/middleware/jwtware"
)

// AuthController shapes the /api/auth JSON surface. All error mapping runs
// through renderError so business failures keep their distinct status and
// message pairs while anything unrecognized degrades to a 500 envelope.
type AuthController struct {
	Debug  bool
	Logger Logger
	Auth   Authenticator
	Tokens TokenService
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auth == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenService in auth controller...")
	}

	return c
}

func WithAuthenticator(auth Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auth = auth
		return c
	}
}

func WithTokenService(tokens TokenService) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Tokens = tokens
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// RegisterAuthRoutes mounts the auth surface under the given router, which
// callers group at /api/auth.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController) {
	app.Get("/test", controller.Test)
	app.Post("/signup", controller.Signup)
	app.Post("/login", controller.Login)
	app.Post("/create-account", controller.CreateAccount)
	app.Get("/accounts", controller.Accounts)

	app.Get("/me", jwtware.New(jwtware.Config{
		TokenValidator: tokenValidatorAdapter{controller.Tokens},
		ErrorHandler:   controller.renderError,
		SuccessHandler: enrichSessionContext,
	}), controller.Me)
}

// SignupRequest payload
type SignupRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// CreateAccountRequest payload
type CreateAccountRequest struct {
	AdminKey string `form:"adminKey" json:"adminKey"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Name     string `form:"name" json:"name"`
	Months   int    `form:"months" json:"months"`
}

// Validate will run validation rules
func (r CreateAccountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AdminKey, validation.Required),
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.Name, validation.Required),
	)
}

// Test reports router liveness plus the store/registry snapshot.
func (a *AuthController) Test(ctx *fiber.Ctx) error {
	status := a.Auth.Status()

	payload := fiber.Map{
		"success":     true,
		"message":     "Auth router is working!",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"mode":        status.Mode,
		"dbConnected": status.DBConnected,
		"endpoints": fiber.Map{
			"signup":        "POST /api/auth/signup",
			"login":         "POST /api/auth/login",
			"createAccount": "POST /api/auth/create-account",
			"accounts":      "GET /api/auth/accounts",
		},
	}

	if status.Mode == ModeInvitationOnly {
		payload["totalAccounts"] = status.TotalAccounts
	}

	return ctx.JSON(payload)
}

// Signup handles self-service registration.
func (a *AuthController) Signup(ctx *fiber.Ctx) error {
	payload := new(SignupRequest)

	if err := ctx.BodyParser(payload); err != nil {
		return a.renderError(ctx, ErrMissingFields)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Info("signup payload invalid", "error", err)
		return a.renderError(ctx, ErrMissingFields)
	}

	if a.Debug {
		fmt.Println("======= AUTH SIGNUP =====")
		fmt.Println(print.MaybePrettyJSON(fiber.Map{"email": payload.Email}))
		fmt.Println("=========================")
	}

	result, err := a.Auth.Signup(ctx.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "User created successfully",
		"userId":  result.UserID,
	})
}

// Login verifies credentials and returns the minted bearer token.
func (a *AuthController) Login(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		return a.renderError(ctx, ErrMissingFields)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Info("login payload invalid", "error", err)
		return a.renderError(ctx, ErrMissingFields)
	}

	result, err := a.Auth.Login(ctx.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"token":   result.Token,
		"user":    result.User,
		"message": "Login successful",
	})
}

// CreateAccount is the admin provisioning route for invitation-only mode.
func (a *AuthController) CreateAccount(ctx *fiber.Ctx) error {
	payload := new(CreateAccountRequest)

	if err := ctx.BodyParser(payload); err != nil {
		return a.renderError(ctx, ErrMissingFields)
	}

	if payload.AdminKey == "" {
		return a.renderError(ctx, ErrBadAdminKey)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Info("create-account payload invalid", "error", err)
		return a.renderError(ctx, ErrMissingFields)
	}

	account, err := a.Auth.Provision(ctx.UserContext(), ProvisionInput{
		AdminKey: payload.AdminKey,
		Email:    payload.Email,
		Password: payload.Password,
		Name:     payload.Name,
		Months:   payload.Months,
	})
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Account created successfully",
		"details": fiber.Map{
			"email":    account.Email,
			"password": payload.Password,
			"name":     account.Name,
			"expires":  account.ExpiresOn.Format("2006-01-02"),
			"plan":     account.Plan,
		},
	})
}

// Accounts dumps the registry for an administrator.
func (a *AuthController) Accounts(ctx *fiber.Ctx) error {
	adminKey := ctx.Query("adminKey")

	accounts, err := a.Auth.Accounts(ctx.UserContext(), adminKey)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success":       true,
		"totalAccounts": len(accounts),
		"accounts":      accounts,
	})
}

// Me returns the session decoded from the bearer token by the middleware.
func (a *AuthController) Me(ctx *fiber.Ctx) error {
	session, ok := SessionFromContext(ctx.UserContext())
	if !ok {
		return a.renderError(ctx, ErrTokenMalformed)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"session": session,
	})
}

// enrichSessionContext copies validated claims from the request locals into
// the user context so downstream handlers and services can read the session
// without depending on fiber.
func enrichSessionContext(ctx *fiber.Ctx) error {
	if claims, ok := ctx.Locals(jwtware.DefaultContextKey).(*JWTClaims); ok {
		uctx := WithClaimsContext(ctx.UserContext(), claims)
		ctx.SetUserContext(WithSessionContext(uctx, sessionFromClaims(claims)))
	}
	return ctx.Next()
}

func (a *AuthController) renderError(ctx *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "Server error during authentication").
			WithCode(goerrors.CodeInternal)
	}

	if a.Debug {
		a.Logger.Debug("request error",
			"message", richErr.Message,
			"text_code", richErr.TextCode,
			"details", print.MaybePrettyJSON(richErr.Metadata),
		)
	}

	status := richErr.Code
	if status == 0 {
		status = fiber.StatusInternalServerError
	}

	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"message": richErr.Message,
	})
}

// tokenValidatorAdapter bridges the package TokenService to the middleware's
// validator contract without an import cycle.
type tokenValidatorAdapter struct {
	tokens TokenService
}

func (v tokenValidatorAdapter) Validate(token string) (jwtware.AuthClaims, error) {
	claims, err := v.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
