package user

import (
	"github.com/gin-gonic/gin"
	"github.com/yourbuzzfeed/core/internal/middleware"
	"github.com/yourbuzzfeed/core/internal/pkg/response"
	"github.com/yourbuzzfeed/core/internal/pkg/session"
	"go.uber.org/zap"
)

type Handler struct {
	svc            *Service
	sessions       *session.Manager
	loginLimiter   gin.HandlerFunc
	emergencyAdmin bool
	log            *zap.Logger
}

type Option func(*Handler)

// WithLoginLimiter guards POST /login with mw.
func WithLoginLimiter(mw gin.HandlerFunc) Option {
	return func(h *Handler) { h.loginLimiter = mw }
}

// WithEmergencyAdmin registers GET /emergency-admin.
func WithEmergencyAdmin(enabled bool) Option {
	return func(h *Handler) { h.emergencyAdmin = enabled }
}

func NewHandler(svc *Service, sessions *session.Manager, log *zap.Logger, opts ...Option) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{svc: svc, sessions: sessions, log: log.Named("auth")}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	if h.loginLimiter != nil {
		rg.POST("/login", h.loginLimiter, h.login)
	} else {
		rg.POST("/login", h.login)
	}
	rg.POST("/logout", h.logout)
	rg.POST("/setup-admin", h.setupAdmin)
	if h.emergencyAdmin {
		rg.GET("/emergency-admin", h.emergency)
	}

	authed := rg.Group("", authMW)
	authed.GET("/user", h.me)
	authed.POST("/user/password", h.changePassword)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, msgCredentialsMissing)
		return
	}
	u, err := h.svc.Login(c.Request.Context(), dto.Username, dto.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	if _, err := h.sessions.Start(c, u.ID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, u)
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.sessions.End(c); err != nil {
		h.log.Warn("delete session failed", zap.Error(err))
	}
	response.Msg(c, "Logged out")
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.Current(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}

func (h *Handler) setupAdmin(c *gin.Context) {
	var dto SetupAdminDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Username, password (min 6 characters), email and fullName are required")
		return
	}
	u, err := h.svc.SetupAdmin(c.Request.Context(), dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, u)
}

func (h *Handler) changePassword(c *gin.Context) {
	var dto ChangePasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "New password must be at least 6 characters")
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), dto); err != nil {
		response.Error(c, err)
		return
	}
	response.Msg(c, "Password updated")
}

func (h *Handler) emergency(c *gin.Context) {
	h.log.Warn("emergency admin access", zap.String("ip", c.ClientIP()))
	u, err := h.svc.EmergencyAdmin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}
