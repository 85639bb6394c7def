package router

import (
	"fmt"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"esgboard/internal/auth"
	"esgboard/internal/catalog"
	"esgboard/internal/config"
	"esgboard/internal/dto"
	"esgboard/internal/handlers"
	"esgboard/internal/i18n"
	"esgboard/internal/repository"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Log     *zap.Logger
	Config  *config.Config
	Repo    *repository.Repository
	Tokens  *auth.Manager
	Catalog *catalog.Catalog
	// OnSubmit runs after every accepted reported-metrics submission.
	OnSubmit func()
}

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.Header("Retry-After", fmt.Sprintf("%.0f", time.Until(info.ResetTime).Seconds()))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.Envelope[any]{
		Status:  http.StatusTooManyRequests,
		Message: i18n.T(resolveLang(c), "msg.tooManyRequests"),
	})
}

func Setup(d Deps) (*gin.Engine, error) {
	log := d.Log
	conf := d.Config

	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	router.Use(LangMiddleware())

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		IsDevelopment:      !conf.Server.SecureCookies,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	authHandler := handlers.NewAuthHandler(log, d.Repo, d.Tokens)
	assessmentHandler := handlers.NewAssessmentHandler(log, d.Repo, d.Catalog, d.OnSubmit)
	userHandler := handlers.NewUserHandler(log, d.Repo)
	resultsHandler := handlers.NewResultsHandler(log, d.Repo, d.Catalog)
	pagesHandler, err := handlers.NewPagesHandler(log, d.Repo, resultsHandler, d.Catalog)
	if err != nil {
		return nil, err
	}

	loginRate := conf.Server.LoginRate
	if loginRate <= 0 {
		loginRate = 5
	}
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: uint(loginRate),
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.Envelope[any]{Status: http.StatusOK, Message: "ok"})
	})

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/login", limiter, authHandler.Login)
		authRoutes.POST("/register", limiter, authHandler.Register)
		authRoutes.GET("/logout", BearerAuth(log, d.Tokens, d.Repo), authHandler.Logout)
	}

	userRoutes := router.Group("/users")
	{
		userRoutes.POST("/refresh-token", authHandler.Refresh)
		userRoutes.GET("/profile", BearerAuth(log, d.Tokens, d.Repo), authHandler.Profile)
	}

	webapp := router.Group("/webapp")
	webapp.Use(BearerAuth(log, d.Tokens, d.Repo))
	{
		questions := webapp.Group("/questions")
		{
			questions.GET("/get-all-topics-and-questions/", assessmentHandler.Questions)
			questions.GET("/get-all-answers-of-year", assessmentHandler.Answers)
			questions.POST("/add-answer", assessmentHandler.Submit)
			questions.GET("/get-all-submitcount-of-section", assessmentHandler.SubmitCounts)
		}

		targets := webapp.Group("/targets")
		{
			targets.GET("/get-all-answers-of-year", assessmentHandler.TargetAnswers)
			targets.POST("/add-answer", assessmentHandler.TargetSubmit)
			targets.GET("/get-all-submitcount-of-section", assessmentHandler.TargetProgress)
		}

		company := webapp.Group("/user")
		{
			company.GET("/get-all-company-infor", userHandler.CompanyInfo)
			company.POST("/update-company-infor", userHandler.UpdateCompanyInfo)
		}

		webapp.GET("/dashboard/get-all-data", resultsHandler.Dashboard)
		for _, pillar := range catalog.Pillars {
			for _, def := range d.Catalog.Charts(pillar.Slug()) {
				webapp.GET(fmt.Sprintf("/%s/chart-%s", def.Pillar, def.Key), resultsHandler.Chart(def))
			}
		}

		reports := webapp.Group("/report")
		{
			reports.GET("/get-all-data", resultsHandler.Report)
			reports.GET("/export", resultsHandler.Export)
		}
	}

	store := cookie.NewStore([]byte(conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   conf.Server.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})

	dashboard := router.Group("/dashboard")
	dashboard.Use(sessions.Sessions("esgsession", store))
	// Now that sessions are initialized, other middleware can use them.
	dashboard.Use(NonceMiddleware())
	dashboard.Use(CSRFProtection())
	dashboard.Use(SessionLang())
	dashboard.Use(UserLoaderMiddleware(log, d.Repo))
	dashboard.Use(func(c *gin.Context) {
		nonce, _ := c.Get(handlers.NonceContextKey)
		csp := fmt.Sprintf(
			"script-src 'self' https://cdn.jsdelivr.net 'nonce-%s'; style-src 'self' 'unsafe-inline'",
			nonce,
		)
		c.Header("Content-Security-Policy", csp)
		c.Next()
	})
	{
		dashboard.GET("/login", pagesHandler.LoginPage)
		dashboard.POST("/login", limiter, pagesHandler.Login)
		dashboard.POST("/logout", pagesHandler.Logout)

		authorized := dashboard.Group("")
		authorized.Use(AuthRequired())
		{
			authorized.GET("", pagesHandler.Overview)
			authorized.GET("/guideline", pagesHandler.Guideline)
			authorized.GET("/:pillar", pagesHandler.Pillar)
		}
	}

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})

	return router, nil
}
