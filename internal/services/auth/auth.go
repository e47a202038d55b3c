package auth

import (
	"context"
	"errors"
	"log/slog"
	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/storage"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "movielib"

type UsersStorage interface {
	Insert(ctx context.Context, username, email string, passwordHash []byte) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(task func())
}

type AuthService struct {
	log          *slog.Logger
	storage      UsersStorage
	mailer       MailProvider
	taskExecutor TaskExecutor
	secret       []byte
	tokenTTL     time.Duration
}

// New builds an AuthService. mailer may be nil, in which case no welcome
// e-mails are sent.
func New(
	log *slog.Logger,
	usersStorage UsersStorage,
	mailer MailProvider,
	taskExecutor TaskExecutor,
	secret string,
	tokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		log:          log,
		storage:      usersStorage,
		mailer:       mailer,
		taskExecutor: taskExecutor,
		secret:       []byte(secret),
		tokenTTL:     tokenTTL,
	}
}

func (a *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	const op = "auth.AuthService.Register"
	log := a.log.With("op", op, "username", username)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	user, err := a.storage.Insert(ctx, username, email, passwordHash)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("username or email already taken")
			return nil, ErrUserAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	if a.mailer != nil {
		a.taskExecutor.Add(func() {
			a.sendWelcomeEmail(user)
		})
	}
	return user, nil
}

func (a *AuthService) sendWelcomeEmail(user *models.User) {
	err := a.mailer.Send(user.Email, "user_welcome.html", map[string]any{
		"username": user.Username,
		"userID":   user.ID,
	})
	if err != nil {
		a.log.Error("Error sending welcome email", "errMsg", err.Error(), "user_id", user.ID)
	}
}

// Login checks the credentials and returns a signed access token.
func (a *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	const op = "auth.AuthService.Login"
	log := a.log.With("op", op, "username", username)
	user, err := a.storage.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("unknown username")
			return "", ErrInvalidCredentials
		}
		log.Error(err.Error())
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		log.Info("password mismatch")
		return "", ErrInvalidCredentials
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": user.ID,
		"iss": tokenIssuer,
		"iat": now.Unix(),
		"exp": now.Add(a.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		log.Error(err.Error())
		return "", err
	}
	return signed, nil
}

// VerifyToken parses and validates an access token and resolves the user it
// was issued to.
func (a *AuthService) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.AuthService.VerifyToken"
	log := a.log.With("op", op)
	parsed, err := jwt.Parse(
		token,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return a.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil || !parsed.Valid {
		log.Info("token rejected", "reason", err)
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		log.Info("token has no uid claim")
		return nil, ErrInvalidToken
	}
	return a.GetUser(ctx, int64(uid))
}

func (a *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "auth.AuthService.GetUser"
	log := a.log.With("op", op, "user_id", id)
	user, err := a.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}
