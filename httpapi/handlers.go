package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kannan-innovates/zenCode"
)

const refreshCookieName = "refreshToken"

// decode parses the JSON request body into dst, treating malformed bodies
// as validation failures.
func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return zencode.ErrInvalidInput
	}
	return nil
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/api/auth",
		MaxAge:   int(s.engine.RefreshTTL().Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "", map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName        string `json:"fullName"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := s.engine.StartRegistration(r.Context(), zencode.StartRegistrationInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "OTP sent to your email", nil)
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.engine.VerifyRegistration(r.Context(), req.Email, req.OTP); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Registration successful", nil)
}

func (s *Server) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.engine.ResendOTP(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "OTP sent to your email", nil)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	pair, err := s.engine.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	s.setRefreshCookie(w, pair.RefreshToken)
	writeSuccess(w, http.StatusOK, "Login successful", map[string]string{
		"accessToken": pair.AccessToken,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		writeError(w, zencode.ErrUnauthorized)
		return
	}

	pair, err := s.engine.Refresh(r.Context(), cookie.Value)
	if err != nil {
		writeError(w, err)
		return
	}

	s.setRefreshCookie(w, pair.RefreshToken)
	writeSuccess(w, http.StatusOK, "", map[string]string{
		"accessToken": pair.AccessToken,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Logout is idempotent: a missing or dead cookie still succeeds.
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		if err := s.engine.Logout(r.Context(), cookie.Value); err != nil {
			s.log.Warn("logout revocation failed", zap.Error(err))
		}
	}

	s.clearRefreshCookie(w)
	writeSuccess(w, http.StatusOK, "Logged out successfully", nil)
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.engine.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Password reset link sent to your email", nil)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token           string `json:"token"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		writeError(w, zencode.ErrPasswordsDoNotMatch)
		return
	}

	if err := s.engine.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Password reset successful", nil)
}

func (s *Server) handleValidateResetToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, zencode.ErrInvalidInput)
		return
	}

	valid, err := s.engine.ValidateResetToken(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]bool{"valid": valid})
}

func (s *Server) handleCreateMentor(w http.ResponseWriter, r *http.Request) {
	info, ok := accessFrom(r.Context())
	if !ok {
		writeError(w, zencode.ErrUnauthorized)
		return
	}

	var req struct {
		FullName        string   `json:"fullName"`
		Email           string   `json:"email"`
		Expertise       []string `json:"expertise"`
		ExperienceLevel string   `json:"experienceLevel"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := s.engine.CreateMentorInvite(r.Context(), info.UserID, zencode.CreateMentorInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Expertise:       req.Expertise,
		ExperienceLevel: req.ExperienceLevel,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Mentor account created. Activation link sent to email.", nil)
}

func (s *Server) handleActivateMentor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token           string `json:"token"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.engine.ActivateMentor(r.Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Password changed successfully. Please login.", nil)
}

func (s *Server) handleBlockUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.engine.BlockUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "User blocked successfully", nil)
}

func (s *Server) handleUnblockUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.engine.UnblockUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "User unblocked successfully", nil)
}
