package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/apperr"
	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/mailer"
	"github.com/raf-alpha/api-go/models"
	"github.com/raf-alpha/api-go/otc"
	"github.com/raf-alpha/api-go/store"
	"github.com/raf-alpha/api-go/types"
	"github.com/raf-alpha/api-go/utils"
	"github.com/raf-alpha/api-go/validation"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct {
	Users      store.UserStore
	Tokens     store.TokenStore
	Issuer     *utils.Tokens
	Codes      otc.Store
	Mail       mailer.Mailer
	Audit      store.AuditStore
	RefreshTTL time.Duration
}

func NewAuthController(users store.UserStore, tokens store.TokenStore, issuer *utils.Tokens,
	codes otc.Store, mail mailer.Mailer, audit store.AuditStore, refreshTTL time.Duration) *AuthController {
	return &AuthController{
		Users:      users,
		Tokens:     tokens,
		Issuer:     issuer,
		Codes:      codes,
		Mail:       mail,
		Audit:      audit,
		RefreshTTL: refreshTTL,
	}
}

type refreshInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

var errBadCredentials = apperr.New(apperr.ErrUnauthorized, http.StatusUnauthorized, "Invalid email or password")

// bindValid decodes the JSON body into v and validates it in the request language.
func bindValid(c *gin.Context, v any) (lang.Lang, error) {
	l, err := utils.RequestLang(c, lang.English)
	if err != nil {
		return "", err
	}
	if err := c.ShouldBindJSON(v); err != nil {
		return l, apperr.NewValidationError("body", "json", err.Error())
	}
	return l, validation.Validate(c.Request.Context(), l, v)
}

func toUserResponse(u *models.User) types.UserResponse {
	return types.UserResponse{
		ID:         u.ID,
		FirstName:  u.FirstName,
		MiddleName: u.MiddleName,
		LastName:   u.LastName,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       u.Role,
	}
}

func (ac *AuthController) SignIn(c *gin.Context) {
	var input types.LoginInput
	if _, err := bindValid(c, &input); err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := ac.Users.ByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			err = errBadCredentials
		}
		respondError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		respondError(c, errBadCredentials)
		return
	}

	access, refresh, err := ac.issuePair(ctx, user)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	if err := ac.Users.RecordLogin(ctx, user.ID, now); err != nil {
		slog.WarnContext(ctx, "record login", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"token":        access,
		"refreshToken": refresh,
		"userUpdated": gin.H{
			"token": access,
			"user":  toUserResponse(user),
		},
	})
}

func (ac *AuthController) issuePair(ctx context.Context, user *models.User) (string, string, error) {
	access, err := ac.Issuer.Issue(user.ID, user.Role)
	if err != nil {
		return "", "", err
	}
	refresh, err := utils.NewRefreshToken()
	if err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}
	if err := ac.Tokens.Save(ctx, &models.RefreshToken{
		UserID:         user.ID,
		Token:          refresh,
		ExpirationDate: time.Now().Add(ac.RefreshTTL),
	}); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Refresh rotates a refresh token: the old one is consumed and a new pair issued.
func (ac *AuthController) Refresh(c *gin.Context) {
	var input refreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperr.NewValidationError("refreshToken", "required", err.Error()))
		return
	}

	ctx := c.Request.Context()
	unauthorized := apperr.New(apperr.ErrUnauthorized, http.StatusUnauthorized, "Invalid or expired refresh token")

	stored, err := ac.Tokens.Find(ctx, input.RefreshToken)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			err = unauthorized
		}
		respondError(c, err)
		return
	}
	if _, err := ac.Tokens.Delete(ctx, input.RefreshToken); err != nil {
		respondError(c, err)
		return
	}
	if time.Now().After(stored.ExpirationDate) {
		respondError(c, unauthorized)
		return
	}

	user, err := ac.Users.ByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			err = unauthorized
		}
		respondError(c, err)
		return
	}

	access, refresh, err := ac.issuePair(ctx, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": access, "refreshToken": refresh})
}

func (ac *AuthController) Logout(c *gin.Context) {
	var input refreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperr.NewValidationError("refreshToken", "required", err.Error()))
		return
	}

	if _, err := ac.Tokens.Delete(c.Request.Context(), input.RefreshToken); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// SendResetCode mails a password reset code to an existing admin.
func (ac *AuthController) SendResetCode(c *gin.Context) {
	var input types.EmailInput
	l, err := bindValid(c, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	email := normalizeEmail(input.Email)
	if _, err := ac.Users.ByEmail(c.Request.Context(), email); err != nil {
		respondError(c, err)
		return
	}

	if err := ac.sendCode(c.Request.Context(), l, otc.PurposeReset, email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification code sent"})
}

func (ac *AuthController) ResetPassword(c *gin.Context) {
	var input types.ResetPasswordInput
	l, err := bindValid(c, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	email := normalizeEmail(input.Email)
	user, err := ac.Users.ByEmail(ctx, email)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := ac.redeem(ctx, l, otc.PurposeReset, email, input.VerificationCode); err != nil {
		respondError(c, err)
		return
	}

	hash, err := hashPassword(input.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ac.Users.UpdatePassword(ctx, user.ID, hash); err != nil {
		respondError(c, err)
		return
	}
	// every session of the user ends with the old password
	if err := ac.Tokens.DeleteForUser(ctx, user.ID); err != nil {
		slog.WarnContext(ctx, "revoke refresh tokens", "user_id", user.ID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
}

// SendVerificationCode mails the code a SuperAdmin needs to add the admin
// owning that email.
func (ac *AuthController) SendVerificationCode(c *gin.Context) {
	var input types.EmailInput
	l, err := bindValid(c, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	email := normalizeEmail(input.Email)
	if _, err := ac.Users.ByEmail(ctx, email); err == nil {
		respondError(c, apperr.New(apperr.ErrConflict, http.StatusConflict, "Email already registered"))
		return
	} else if !errors.Is(err, apperr.ErrNotFound) {
		respondError(c, err)
		return
	}

	if err := ac.sendCode(ctx, l, otc.PurposeInvite, email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification code sent"})
}

func (ac *AuthController) AddUser(c *gin.Context) {
	var input types.UserInput
	l, err := bindValid(c, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	email := normalizeEmail(input.Email)
	if err := ac.redeem(ctx, l, otc.PurposeInvite, email, input.VerificationCode); err != nil {
		respondError(c, err)
		return
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	user := &models.User{
		FirstName:  strings.TrimSpace(input.FirstName),
		MiddleName: strings.TrimSpace(input.MiddleName),
		LastName:   strings.TrimSpace(input.LastName),
		Email:      email,
		Phone:      input.Phone,
		Password:   hash,
		Role:       input.Role,
	}
	if err := ac.Users.Create(ctx, user); err != nil {
		respondError(c, err)
		return
	}

	audit(c, ac.Audit, "user_created", "user", strconv.FormatUint(uint64(user.ID), 10), l)
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": toUserResponse(user)})
}

func (ac *AuthController) ListUsers(c *gin.Context) {
	users, err := ac.Users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]types.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": out})
}

func (ac *AuthController) UpdateUser(c *gin.Context) {
	id, err := utils.UintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var input types.UserEditInput
	l, err := bindValid(c, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := ac.Users.ByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	user.FirstName = strings.TrimSpace(input.FirstName)
	user.MiddleName = strings.TrimSpace(input.MiddleName)
	user.LastName = strings.TrimSpace(input.LastName)
	user.Phone = input.Phone
	if err := ac.Users.Update(ctx, user); err != nil {
		respondError(c, err)
		return
	}

	audit(c, ac.Audit, "user_updated", "user", strconv.FormatUint(uint64(id), 10), l)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": toUserResponse(user)})
}

func (ac *AuthController) DeleteUser(c *gin.Context) {
	id, err := utils.UintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if me := utils.GetUser(c); me != nil && me.UserID == id {
		respondError(c, apperr.New(apperr.ErrForbidden, http.StatusForbidden, "You cannot delete your own account"))
		return
	}

	ctx := c.Request.Context()
	if err := ac.Users.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	if err := ac.Tokens.DeleteForUser(ctx, id); err != nil {
		slog.WarnContext(ctx, "revoke refresh tokens", "user_id", id, "error", err)
	}

	audit(c, ac.Audit, "user_deleted", "user", strconv.FormatUint(uint64(id), 10), lang.English)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
}

// GeneratePassword suggests a password that passes the strong password rule.
func (ac *AuthController) GeneratePassword(c *gin.Context) {
	length, _ := strconv.Atoi(c.DefaultQuery("length", "12"))
	password, err := utils.GeneratePassword(min(length, 64))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "password": password})
}

// Bootstrap creates the first SuperAdmin when no user exists yet.
func (ac *AuthController) Bootstrap(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}
	n, err := ac.Users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := ac.Users.Create(ctx, &models.User{
		FirstName: "Super",
		LastName:  "Admin",
		Email:     normalizeEmail(email),
		Password:  hash,
		Role:      types.RoleSuperAdmin,
	}); err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}
	slog.Info("bootstrap super admin created", "email", email)
	return nil
}

func (ac *AuthController) sendCode(ctx context.Context, l lang.Lang, p otc.Purpose, email string) error {
	code, err := ac.Codes.Issue(ctx, p, email)
	if err != nil {
		return err
	}
	subject, body := mailer.CodeMessage(l, p, code)
	return ac.Mail.Send(ctx, email, subject, body)
}

func (ac *AuthController) redeem(ctx context.Context, l lang.Lang, p otc.Purpose, email, code string) error {
	err := ac.Codes.Redeem(ctx, p, email, code)
	if errors.Is(err, otc.ErrInvalidCode) {
		return validation.Fail(l, "verificationCode", "expired")
	}
	return err
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
