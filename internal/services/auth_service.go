package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coralcreek/resort-api/internal/apperr"
	"github.com/coralcreek/resort-api/internal/cache"
	"github.com/coralcreek/resort-api/internal/helpers"
	"github.com/coralcreek/resort-api/internal/models"
	"github.com/coralcreek/resort-api/internal/notify"
)

const (
	verifyOTPTTL = 2 * time.Minute
	resetOTPTTL  = 10 * time.Minute

	verifyOTPKey = "verify:"
	resetOTPKey  = "reset:"
)

type AuthService struct {
	users      models.UserRepo
	otps       cache.OTPStore
	dispatcher notify.Dispatcher
	jwtSecret  string
	logger     *slog.Logger
}

func NewAuthService(users models.UserRepo, otps cache.OTPStore, dispatcher notify.Dispatcher, jwtSecret string, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		otps:       otps,
		dispatcher: dispatcher,
		jwtSecret:  jwtSecret,
		logger:     logger,
	}
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Mobile          string `json:"mobile"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	EmailVerified   bool   `json:"email_verified"`
}

// Register stores a one-way credential hash and issues a session token.
func (as *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, string, error) {
	if req.Name == "" || req.Mobile == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return nil, "", apperr.New(apperr.Validation, "missing_fields", "all fields are required")
	}
	if !req.EmailVerified {
		return nil, "", apperr.New(apperr.Validation, "email_not_verified", "please verify your email before registering")
	}
	if req.Password != req.ConfirmPassword {
		return nil, "", apperr.New(apperr.Validation, "password_mismatch", "passwords do not match")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, "", apperr.New(apperr.Validation, "invalid_email", "invalid email format")
	}

	if _, err := as.users.GetUserByEmail(ctx, email); err == nil {
		return nil, "", apperr.New(apperr.Conflict, "email_taken", "email already registered")
	} else if !apperr.IsKind(err, apperr.NotFound) {
		return nil, "", err
	}
	if _, err := as.users.GetUserByMobile(ctx, req.Mobile); err == nil {
		return nil, "", apperr.New(apperr.Conflict, "mobile_taken", "mobile number already registered")
	} else if !apperr.IsKind(err, apperr.NotFound) {
		return nil, "", err
	}

	hashed, err := helpers.HashPassword(req.Password)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Dependency, "hash_failed", "failed to hash password", err)
	}

	user := &models.User{
		Name:       strings.TrimSpace(req.Name),
		Mobile:     req.Mobile,
		Email:      email,
		Password:   hashed,
		IsVerified: true,
	}
	created, err := as.users.CreateUser(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := helpers.IssueToken(as.jwtSecret, created.ID.Hex(), created.IsAdmin)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Login verifies the credential and issues a session token embedding the
// caller identity.
func (as *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperr.New(apperr.Validation, "missing_fields", "email and password are required")
	}

	user, err := as.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return nil, "", apperr.New(apperr.NotFound, "user_not_found", "user not found, please sign up")
		}
		return nil, "", err
	}

	if !helpers.VerifyPassword(user.Password, password) {
		return nil, "", apperr.New(apperr.Auth, "invalid_credentials", "invalid credentials")
	}

	token, err := helpers.IssueToken(as.jwtSecret, user.ID.Hex(), user.IsAdmin)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SendEmailOTP stores a short-lived verification code and mails it.
func (as *AuthService) SendEmailOTP(ctx context.Context, email string) error {
	if email == "" {
		return apperr.New(apperr.Validation, "missing_email", "email is required")
	}

	otp, err := helpers.GenerateOTP()
	if err != nil {
		return apperr.Wrap(apperr.Dependency, "otp_generation_failed", "failed to generate OTP", err)
	}
	if err := as.otps.Put(ctx, verifyOTPKey+email, otp, verifyOTPTTL); err != nil {
		return err
	}

	if err := as.dispatcher.Dispatch(ctx, notify.OTPEmail(email, otp, verifyOTPTTL)); err != nil {
		as.logger.Error("OTP email dispatch failed", "email", email, "error", err)
	}
	return nil
}

// VerifyEmailOTP consumes the code on success so it cannot be replayed.
func (as *AuthService) VerifyEmailOTP(ctx context.Context, email, otp string) error {
	if email == "" || otp == "" {
		return apperr.New(apperr.Validation, "missing_fields", "email and OTP are required")
	}

	stored, err := as.otps.Get(ctx, verifyOTPKey+email)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return apperr.New(apperr.Validation, "otp_expired", "OTP not found or expired")
		}
		return err
	}
	if stored != otp {
		return apperr.New(apperr.Validation, "invalid_otp", "invalid OTP")
	}

	return as.otps.Delete(ctx, verifyOTPKey+email)
}

// ForgotPassword only issues reset codes for registered addresses.
func (as *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return apperr.New(apperr.Validation, "missing_email", "email is required")
	}

	if _, err := as.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email))); err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return apperr.New(apperr.NotFound, "user_not_found", "user not found, please register first")
		}
		return err
	}

	otp, err := helpers.GenerateOTP()
	if err != nil {
		return apperr.Wrap(apperr.Dependency, "otp_generation_failed", "failed to generate OTP", err)
	}
	if err := as.otps.Put(ctx, resetOTPKey+email, otp, resetOTPTTL); err != nil {
		return err
	}

	if err := as.dispatcher.Dispatch(ctx, notify.PasswordResetOTPEmail(email, otp)); err != nil {
		as.logger.Error("reset OTP email dispatch failed", "email", email, "error", err)
	}
	return nil
}

// ResetPassword verifies the reset code, replaces the credential hash and
// consumes the code.
func (as *AuthService) ResetPassword(ctx context.Context, email, otp, newPassword, confirmPassword string) error {
	if email == "" || otp == "" || newPassword == "" || confirmPassword == "" {
		return apperr.New(apperr.Validation, "missing_fields", "all fields are required")
	}
	if newPassword != confirmPassword {
		return apperr.New(apperr.Validation, "password_mismatch", "passwords do not match")
	}

	stored, err := as.otps.Get(ctx, resetOTPKey+email)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return apperr.New(apperr.Validation, "otp_expired", "OTP not found or expired, please request again")
		}
		return err
	}
	if stored != otp {
		return apperr.New(apperr.Validation, "invalid_otp", "invalid OTP")
	}

	user, err := as.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}

	hashed, err := helpers.HashPassword(newPassword)
	if err != nil {
		return apperr.Wrap(apperr.Dependency, "hash_failed", "failed to hash password", err)
	}
	if _, err := as.users.UpdateUserFields(ctx, user.ID, bson.M{"password": hashed}); err != nil {
		return err
	}

	return as.otps.Delete(ctx, resetOTPKey+email)
}

// ChangePassword is the authenticated variant: it requires the current
// credential and enforces the strength policy on the replacement.
func (as *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, current, newPassword string) error {
	if current == "" || newPassword == "" {
		return apperr.New(apperr.Validation, "missing_fields", "both current and new password are required")
	}
	if !helpers.IsPasswordStrong(newPassword) {
		return apperr.New(apperr.Validation, "weak_password", "password must be 8+ characters with a special character")
	}

	user, err := as.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !helpers.VerifyPassword(user.Password, current) {
		return apperr.New(apperr.Validation, "invalid_credentials", "incorrect current password")
	}

	hashed, err := helpers.HashPassword(newPassword)
	if err != nil {
		return apperr.Wrap(apperr.Dependency, "hash_failed", "failed to hash password", err)
	}
	_, err = as.users.UpdateUserFields(ctx, userID, bson.M{"password": hashed})
	return err
}

func (as *AuthService) UpdateMobile(ctx context.Context, userID primitive.ObjectID, mobile string) (*models.User, error) {
	if mobile == "" {
		return nil, apperr.New(apperr.Validation, "missing_mobile", "mobile number is required")
	}
	return as.users.UpdateUserFields(ctx, userID, bson.M{"mobile": mobile})
}

// DeleteAccount removes the user record only. Bookings and payments keep
// their references; orphaned rows are accepted behavior.
func (as *AuthService) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	return as.users.DeleteUser(ctx, userID)
}
