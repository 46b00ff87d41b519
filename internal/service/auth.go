package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"accessibilityhire/internal/apperr"
	"accessibilityhire/internal/config"
	"accessibilityhire/internal/model"
	"accessibilityhire/internal/oauth"
	"accessibilityhire/internal/repository"
	"accessibilityhire/internal/session"
	"accessibilityhire/pkg/storage"
	"accessibilityhire/pkg/timer"
	"accessibilityhire/pkg/util"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

const (
	// MinPasswordLength is the shortest password accepted at sign-up
	MinPasswordLength = 6
	// MaxDisplayNameLength bounds profile display names
	MaxDisplayNameLength = 100
	// ProfileImagePrefix is the object-store folder of profile pictures
	ProfileImagePrefix = "profileImages"

	imageSniffLen = 512
)

var profileImageTypes = []struct{ contentType, ext string }{
	{"image/png", ".png"},
	{"image/jpeg", ".jpg"},
	{"image/gif", ".gif"},
	{"image/webp", ".webp"},
}

// AuthService handles credentials, sessions and the user profile
type AuthService struct {
	cfg      *config.Config
	users    repository.IUserRepository
	sessions *session.Manager
	google   oauth.Provider
	store    storage.ObjectStore
	log      *logrus.Entry
}

// NewAuthService creates the auth service. google may be nil, which
// disables Google sign-in.
func NewAuthService(cfg *config.Config, users repository.IUserRepository, sessions *session.Manager, google oauth.Provider, store storage.ObjectStore, log *logrus.Entry) *AuthService {
	return &AuthService{
		cfg:      cfg,
		users:    users,
		sessions: sessions,
		google:   google,
		store:    store,
		log:      log.WithField("component", "auth"),
	}
}

// SignUpWithEmail creates a password account and signs it in
func (s *AuthService) SignUpWithEmail(ctx context.Context, email, password string) (*model.AuthResult, error) {
	email = util.NormalizeEmail(email)
	if err := util.ValidateEmail(email); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidArgument, apperr.CodeInvalidEmail, "The email address is badly formatted", err)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, apperr.New(apperr.KindInvalidArgument, apperr.CodeWeakPassword,
			fmt.Sprintf("Password should be at least %d characters", MinPasswordLength))
	}
	if len(password) > util.MaxPasswordBytes {
		return nil, apperr.New(apperr.KindInvalidArgument, apperr.CodeInvalidPassword,
			fmt.Sprintf("Password must be at most %d bytes", util.MaxPasswordBytes))
	}

	hash, err := util.HashPassword(password, s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeAuthProvider, err)
	}

	user, err := s.users.Create(ctx, &model.User{
		Email:        email,
		PasswordHash: hash,
		Provider:     model.ProviderPassword,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.New(apperr.KindAlreadyExists, apperr.CodeEmailInUse, "The email address is already in use by another account")
	}
	if err != nil {
		return nil, apperr.Provider(apperr.CodeAuthProvider, fmt.Errorf("create user: %w", err))
	}

	s.log.WithField("uid", user.ID.Hex()).Info("user signed up")
	return s.startSession(user)
}

// SignInWithEmail verifies a password account. Unknown emails and wrong
// passwords fail the same way.
func (s *AuthService) SignInWithEmail(ctx context.Context, email, password string) (*model.AuthResult, error) {
	defer timer.Track(s.log, "SignInWithEmail")()

	invalid := apperr.New(apperr.KindUnauthenticated, apperr.CodeInvalidCredential, "Invalid email or password")
	email = util.NormalizeEmail(email)
	if util.ValidateEmail(email) != nil || password == "" {
		return nil, invalid
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeAuthProvider, fmt.Errorf("find user: %w", err))
	}
	if user == nil || !util.VerifyPassword(password, user.PasswordHash) {
		return nil, invalid
	}
	return s.startSession(user)
}

// GoogleLoginURL returns the consent page URL for state
func (s *AuthService) GoogleLoginURL(state string) (string, error) {
	if s.google == nil {
		return "", googleDisabled()
	}
	if state == "" {
		return "", apperr.New(apperr.KindInvalidArgument, apperr.CodeOAuthFailed, "OAuth state is required")
	}
	return s.google.AuthCodeURL(state), nil
}

// SignInWithGoogle completes the OAuth flow. A first sign-in creates the
// account; an existing account with the same email is linked.
func (s *AuthService) SignInWithGoogle(ctx context.Context, code string) (*model.AuthResult, error) {
	if s.google == nil {
		return nil, googleDisabled()
	}
	if strings.TrimSpace(code) == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, apperr.CodeOAuthFailed, "Authorization code is required")
	}

	id, err := s.google.Exchange(ctx, code)
	if err != nil {
		s.log.WithError(err).Warn("google exchange failed")
		return nil, apperr.Wrap(apperr.KindUnauthenticated, apperr.CodeOAuthFailed, "Google sign-in failed", err)
	}
	email := util.NormalizeEmail(id.Email)
	if !id.EmailVerified || util.ValidateEmail(email) != nil {
		return nil, apperr.New(apperr.KindUnauthenticated, apperr.CodeOAuthFailed, "Google account has no verified email")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeAuthProvider, fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		user, err = s.users.Create(ctx, &model.User{
			Email:         email,
			DisplayName:   id.Name,
			PhotoURL:      id.Picture,
			Provider:      model.ProviderGoogle,
			GoogleSubject: id.Subject,
		})
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent first sign-in
			user, err = s.users.FindByEmail(ctx, email)
		}
		if err != nil || user == nil {
			return nil, apperr.Provider(apperr.CodeAuthProvider, fmt.Errorf("create google user: %w", err))
		}
	}

	switch {
	case user.GoogleSubject == id.Subject:
	case user.GoogleSubject == "":
		linked, err := s.users.LinkGoogleSubject(ctx, user.ID, id.Subject)
		if err != nil {
			return nil, apperr.Provider(apperr.CodeAuthProvider, fmt.Errorf("link google account: %w", err))
		}
		if linked != nil {
			user = linked
		}
	default:
		return nil, apperr.New(apperr.KindUnauthenticated, apperr.CodeInvalidCredential, "This email is linked to a different Google account")
	}

	return s.startSession(user)
}

// LogOut revokes the caller's session token
func (s *AuthService) LogOut(ctx context.Context) error {
	caller, err := requireCaller(ctx)
	if err != nil {
		return err
	}
	if err := s.sessions.Revoke(ctx, caller); err != nil {
		return apperr.Provider(apperr.CodeAuthProvider, err)
	}
	return nil
}

// CurrentUser returns the caller's profile
func (s *AuthService) CurrentUser(ctx context.Context) (*model.UserResponse, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeAuthProvider, err)
	}
	if user == nil {
		return nil, apperr.New(apperr.KindNotFound, apperr.CodeUserNotFound, "User not found")
	}
	resp := user.ToResponse()
	return &resp, nil
}

// UpdateUserProfile writes the fields present in upd
func (s *AuthService) UpdateUserProfile(ctx context.Context, upd model.ProfileUpdate) (*model.UserResponse, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	upd.DisplayName = trimmed(upd.DisplayName)
	upd.PhotoURL = trimmed(upd.PhotoURL)
	if upd.DisplayName != nil && utf8.RuneCountInString(*upd.DisplayName) > MaxDisplayNameLength {
		return nil, apperr.New(apperr.KindInvalidArgument, apperr.CodeInvalidProfile, "Display name exceeds maximum length")
	}
	if upd.PhotoURL != nil {
		if err := util.ValidateURL(*upd.PhotoURL); err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidArgument, apperr.CodeInvalidProfile, "Photo URL is invalid", err)
		}
	}
	return s.applyProfile(ctx, caller, upd)
}

// UploadProfileImage stores an image and makes it the caller's photo.
// The stored object is removed again when the profile cannot be updated.
func (s *AuthService) UploadProfileImage(ctx context.Context, upload model.Upload) (*model.UserResponse, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	if upload.Reader == nil {
		return nil, apperr.New(apperr.KindInvalidArgument, apperr.CodeInvalidImage, "No file provided")
	}
	declared := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if !strings.HasPrefix(declared, "image/") {
		return nil, apperr.New(apperr.KindInvalidArgument, apperr.CodeInvalidImage, "Only image files can be used as a profile picture")
	}
	maxBytes := s.cfg.Storage.MaxUploadBytes()
	tooLarge := apperr.New(apperr.KindInvalidArgument, apperr.CodeFileTooLarge,
		fmt.Sprintf("File exceeds the %d MB limit", maxBytes/(1024*1024)))
	if upload.Size > maxBytes {
		return nil, tooLarge
	}

	// the stored type and extension come from the bytes, never from the client
	head := make([]byte, imageSniffLen)
	n, err := io.ReadFull(upload.Reader, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, apperr.Wrap(apperr.KindInvalidArgument, apperr.CodeInvalidImage, "Unable to read file", err)
	}
	head = head[:n]
	contentType, ext, ok := sniffImage(head)
	if !ok {
		return nil, apperr.New(apperr.KindInvalidArgument, apperr.CodeInvalidImage,
			"Only PNG, JPEG, GIF and WebP images can be used as a profile picture")
	}
	body := io.MultiReader(bytes.NewReader(head), upload.Reader)

	objectPath := ProfileImagePath(caller.UserID.Hex(), upload.FileName, ext)
	info, err := s.store.Put(ctx, objectPath, contentType, io.LimitReader(body, maxBytes+1))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindProvider, apperr.CodeUploadFailed, "Failed to upload file", err)
	}
	if info.Size > maxBytes {
		s.removeObject(ctx, objectPath)
		return nil, tooLarge
	}

	url := storage.PublicURL(s.cfg.Storage.PublicBaseURL, objectPath)
	resp, err := s.applyProfile(ctx, caller, model.ProfileUpdate{PhotoURL: &url})
	if err != nil {
		s.removeObject(ctx, objectPath)
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"uid": caller.UserID.Hex(), "path": objectPath, "size": info.Size}).Info("profile image uploaded")
	return resp, nil
}

// ProfileImagePath is the object path of a user's uploaded picture. ext
// replaces whatever extension the client's file name carried.
func ProfileImagePath(uid, fileName, ext string) string {
	name := util.SanitizeFileName(fileName)
	name = strings.TrimSuffix(name, path.Ext(name))
	return path.Join(ProfileImagePrefix, uid, name+ext)
}

// sniffImage detects the image type from the leading bytes. Only raster
// formats browsers render without running script are accepted.
func sniffImage(head []byte) (contentType, ext string, ok bool) {
	detected := mimetype.Detect(head)
	for _, t := range profileImageTypes {
		if detected.Is(t.contentType) {
			return t.contentType, t.ext, true
		}
	}
	return "", "", false
}

func (s *AuthService) applyProfile(ctx context.Context, caller *session.Caller, upd model.ProfileUpdate) (*model.UserResponse, error) {
	user, err := s.users.UpdateProfile(ctx, caller.UserID, upd)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeAuthProvider, fmt.Errorf("update profile: %w", err))
	}
	if user == nil {
		return nil, apperr.New(apperr.KindNotFound, apperr.CodeUserNotFound, "User not found")
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *AuthService) removeObject(ctx context.Context, objectPath string) {
	if err := s.store.Delete(context.WithoutCancel(ctx), objectPath); err != nil {
		s.log.WithError(err).WithField("path", objectPath).Error("failed to remove uploaded object")
	}
}

func (s *AuthService) startSession(user *model.User) (*model.AuthResult, error) {
	token, expiresAt, err := s.sessions.Issue(user)
	if err != nil {
		return nil, apperr.Provider(apperr.CodeAuthProvider, err)
	}
	return &model.AuthResult{User: user.ToResponse(), Token: token, ExpiresAt: expiresAt}, nil
}

func googleDisabled() *apperr.Error {
	return apperr.New(apperr.KindFailedPrecondition, apperr.CodeOperationNotAllowed, "Google sign-in is not enabled")
}
