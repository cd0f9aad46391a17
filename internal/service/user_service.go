package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"accounthub/internal/avatar"
	"accounthub/internal/domain"
	"accounthub/internal/email"
	"accounthub/internal/repository"
)

// UserService coordina reglas de negocio para cuentas de usuario.
type UserService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	avatars     avatar.Store
	emailSender email.Sender
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, avatars avatar.Store, emailSender email.Sender) *UserService {
	return &UserService{
		logger:      logger,
		users:       users,
		avatars:     avatars,
		emailSender: emailSender,
	}
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrMissingAvatar      = errors.New("no avatar uploaded")
	ErrWrongOldPassword   = errors.New("old password is incorrect")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

// upstreamTimeout acota las llamadas al almacenamiento de avatares y
// al envio de correo, que no garantizan completarse pronto.
const upstreamTimeout = 10 * time.Second

type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Mobile    string
	Bio       string
	IsPrivate bool
	Avatar    []byte
}

// Register sube el avatar, persiste el usuario y envia el correo de
// bienvenida. Sin archivo de avatar el registro siempre falla.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}
	// Verificado antes de subir o persistir nada: con sender ausente no
	// queda un usuario creado sin su correo de registro.
	if s.emailSender == nil {
		return domain.User{}, errors.New("email sender not configured")
	}

	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}
	if len(input.Avatar) == 0 {
		return domain.User{}, ErrMissingAvatar
	}

	uploadCtx, cancel := context.WithTimeout(ctx, upstreamTimeout)
	defer cancel()
	publicID, url, err := s.avatars.Upload(uploadCtx, input.Avatar)
	if err != nil {
		return domain.User{}, fmt.Errorf("avatar upload: %w", err)
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Email:        emailAddr,
		PasswordHash: string(hashBytes),
		Mobile:       strings.TrimSpace(input.Mobile),
		Bio:          strings.TrimSpace(input.Bio),
		IsPrivate:    input.IsPrivate,
		Role:         domain.RoleUser,
		Avatar:       &domain.Avatar{PublicID: publicID, URL: url},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Si la persistencia falla aqui el objeto remoto queda huerfano;
	// limitacion conocida, no se compensa.
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	mailCtx, cancelMail := context.WithTimeout(ctx, upstreamTimeout)
	defer cancelMail()
	if err := s.emailSender.SendWelcome(mailCtx, user.Email, user.Name, input.Password); err != nil {
		if s.logger != nil {
			s.logger.Warn("send welcome email failed", zap.Error(err), zap.String("email", user.Email))
		}
		return domain.User{}, fmt.Errorf("send welcome email: %w", err)
	}

	return user, nil
}

// Authenticate valida credenciales de login. Email desconocido y
// contraseña incorrecta fallan de forma indistinguible. La contraseña
// se compara byte a byte, tal como llego; igual que en el registro.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	user, err := s.users.GetByEmailWithPassword(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser devuelve el registro por id. Cualquier usuario autenticado
// puede consultar cualquier id; no hay alcance "solo yo o admin".
func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpdatePassword verifica la contraseña vieja del usuario autenticado
// (no la del id de la ruta) y persiste el hash nuevo.
func (s *UserService) UpdatePassword(ctx context.Context, actorID, oldPassword, newPassword, confirmPassword string) (domain.User, error) {
	user, err := s.users.GetByIDWithPassword(ctx, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.User{}, ErrWrongOldPassword
	}
	if newPassword != confirmPassword {
		return domain.User{}, ErrPasswordMismatch
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	if err := s.users.UpdatePassword(ctx, user.ID, string(hashBytes), now); err != nil {
		return domain.User{}, fmt.Errorf("update password: %w", err)
	}

	user.PasswordHash = string(hashBytes)
	user.UpdatedAt = now
	return user, nil
}

type ProfileInput struct {
	Name      *string
	Email     *string
	Mobile    *string
	Bio       *string
	IsPrivate *bool
	Avatar    []byte
}

// UpdateProfile aplica los campos presentes. Sin archivo de avatar el
// avatar existente queda intacto; con archivo nuevo se sube primero y
// despues se borra el objeto anterior del almacenamiento.
func (s *UserService) UpdateProfile(ctx context.Context, id string, input ProfileInput) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		emailAddr := normalizeEmail(*input.Email)
		if emailAddr == "" {
			return domain.User{}, ErrInvalidEmail
		}
		user.Email = emailAddr
	}
	if input.Mobile != nil {
		user.Mobile = strings.TrimSpace(*input.Mobile)
	}
	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
	}
	if input.IsPrivate != nil {
		user.IsPrivate = *input.IsPrivate
	}

	if len(input.Avatar) > 0 {
		uploadCtx, cancel := context.WithTimeout(ctx, upstreamTimeout)
		defer cancel()
		publicID, url, err := s.avatars.Upload(uploadCtx, input.Avatar)
		if err != nil {
			return domain.User{}, fmt.Errorf("avatar upload: %w", err)
		}

		if user.Avatar != nil && user.Avatar.PublicID != "" {
			deleteCtx, cancelDelete := context.WithTimeout(ctx, upstreamTimeout)
			defer cancelDelete()
			if err := s.avatars.Delete(deleteCtx, user.Avatar.PublicID); err != nil {
				return domain.User{}, fmt.Errorf("avatar delete: %w", err)
			}
		}

		user.Avatar = &domain.Avatar{PublicID: publicID, URL: url}
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}

	return user, nil
}

// ListPublicUsers devuelve los usuarios con is_private = false.
func (s *UserService) ListPublicUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("list public users: %w", err)
	}
	return users, nil
}

// ListAllUsers devuelve el listado completo, privados incluidos.
func (s *UserService) ListAllUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all users: %w", err)
	}
	return users, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
