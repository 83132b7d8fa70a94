package server

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexanderramin/meetmeter/internal/analysis"
	"github.com/alexanderramin/meetmeter/internal/auth"
	"github.com/alexanderramin/meetmeter/internal/domain"
	"github.com/alexanderramin/meetmeter/internal/repository"
)

const identityKey = "identity"

type statusCreateRequest struct {
	ClientName string `json:"client_name" binding:"required"`
}

type analyzeRequest struct {
	CalendarData string  `json:"calendar_data" binding:"required"`
	TimePeriod   *string `json:"time_period"`
}

type googleLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

type loginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
}

type consentResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": s.deps.Analyzer.Theme().Banner})
}

func (s *Server) handleCreateStatus(c *gin.Context) {
	var req statusCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	check := &domain.StatusCheck{
		ID:         uuid.NewString(),
		ClientName: req.ClientName,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.deps.Statuses.Create(c.Request.Context(), check); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

func (s *Server) handleListStatus(c *gin.Context) {
	checks, err := s.deps.Statuses.List(c.Request.Context(), repository.StatusListLimit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, checks)
}

func (s *Server) handleAnalyzeManual(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	manual := analysis.ManualRequest{CalendarData: req.CalendarData}
	if req.TimePeriod != nil {
		manual.TimePeriod = *req.TimePeriod
	}

	res, err := s.deps.Analyzer.AnalyzeManual(c.Request.Context(), manual)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleAnalyzeAuto(c *gin.Context) {
	id := identityFrom(c)
	period := c.DefaultQuery("time_period", string(domain.PeriodThisWeek))

	res, err := s.deps.Analyzer.AnalyzeAuto(c.Request.Context(), id.Email, period)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleCalendarEvents(c *gin.Context) {
	id := identityFrom(c)
	period := c.DefaultQuery("time_period", string(domain.PeriodThisWeek))

	res, err := s.deps.Analyzer.FetchEvents(c.Request.Context(), id.Email, period)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// handleGoogleLogin trades a verified Google ID token for a session token.
func (s *Server) handleGoogleLogin(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	id, err := s.deps.Verifier.Verify(ctx, req.Token)
	if err != nil {
		s.writeError(c, err)
		return
	}

	user := &domain.User{Email: id.Email, Name: id.Name, GoogleID: id.Subject}
	if existing, err := s.deps.Users.GetByEmail(ctx, id.Email); err == nil {
		user.CreatedAt = existing.CreatedAt
	}
	if err := s.deps.Users.Upsert(ctx, user); err != nil {
		s.writeError(c, err)
		return
	}

	token, err := s.deps.Sessions.Issue(*id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer", User: *user})
}

func (s *Server) handleCalendarConsent(c *gin.Context) {
	id := identityFrom(c)

	state, err := s.deps.Sessions.IssueState(id.Email)
	if err != nil {
		s.writeError(c, err)
		return
	}
	authURL, err := s.deps.OAuth.AuthCodeURL(state)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, consentResponse{AuthURL: authURL, State: state})
}

// handleOAuthCallback completes the consent flow and always redirects to the
// frontend, carrying a success or error indicator.
func (s *Server) handleOAuthCallback(c *gin.Context) {
	ctx := c.Request.Context()

	if e := c.Query("error"); e != "" {
		s.redirectToFrontend(c, e)
		return
	}
	code := c.Query("code")
	if code == "" {
		s.redirectToFrontend(c, "missing_code")
		return
	}
	email, err := s.deps.Sessions.ParseState(c.Query("state"))
	if err != nil {
		s.logger.Warn("oauth callback with invalid state", zap.Error(err))
		s.redirectToFrontend(c, "invalid_state")
		return
	}

	tok, err := s.deps.OAuth.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("oauth code exchange failed", zap.String("email", email), zap.Error(err))
		s.redirectToFrontend(c, "exchange_failed")
		return
	}

	prev, _ := s.deps.Credentials.GetByEmail(ctx, email)
	if err := s.deps.Credentials.Upsert(ctx, auth.CredentialFromToken(email, tok, prev)); err != nil {
		s.logger.Error("storing calendar credential failed", zap.String("email", email), zap.Error(err))
		s.redirectToFrontend(c, "storage_failed")
		return
	}
	s.redirectToFrontend(c, "")
}

// redirectToFrontend sends the browser back to the app. An empty errCode
// signals success.
func (s *Server) redirectToFrontend(c *gin.Context, errCode string) {
	q := url.Values{}
	if errCode == "" {
		q.Set("calendar_connected", "true")
	} else {
		q.Set("calendar_connected", "false")
		q.Set("error", errCode)
	}
	c.Redirect(http.StatusFound, s.deps.FrontendURL+"/?"+q.Encode())
}

// requireSession resolves the bearer credential into an identity.
func (s *Server) requireSession(c *gin.Context) {
	raw, err := auth.BearerToken(c.GetHeader("Authorization"))
	if err != nil {
		s.writeError(c, err)
		c.Abort()
		return
	}
	id, err := s.deps.Sessions.Parse(raw)
	if err != nil {
		s.writeError(c, err)
		c.Abort()
		return
	}
	if _, err := s.deps.Users.GetByEmail(c.Request.Context(), id.Email); err != nil {
		s.writeError(c, err)
		c.Abort()
		return
	}
	c.Set(identityKey, id)
	c.Next()
}

func identityFrom(c *gin.Context) *auth.Identity {
	id, _ := c.MustGet(identityKey).(*auth.Identity)
	return id
}
