package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Reportes-api/internal/application/dto"
	"github.com/jhoicas/Reportes-api/internal/domain"
	"github.com/jhoicas/Reportes-api/internal/domain/entity"
	"github.com/jhoicas/Reportes-api/internal/domain/repository"
	"github.com/jhoicas/Reportes-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y resolución del token.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	hashCost int
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, hashCost: bcrypt.DefaultCost, now: time.Now}
}

// WithHashCost ajusta el costo de bcrypt (tests usan bcrypt.MinCost).
func (uc *AuthUseCase) WithHashCost(cost int) *AuthUseCase {
	uc.hashCost = cost
	return uc
}

// Register crea la cuenta y devuelve token + usuario.
// role=user exige adminId de un admin existente; role=admin nunca guarda admin.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := entity.RoleUser
	if strings.TrimSpace(in.Role) != "" {
		r, err := entity.ParseRole(in.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		role = r
	}

	var adminID *string
	if role == entity.RoleUser {
		id := ""
		if in.AdminID != nil {
			id = strings.TrimSpace(*in.AdminID)
		}
		if id == "" {
			return nil, fmt.Errorf("%w: adminId es obligatorio para role=user", domain.ErrInvalidInput)
		}
		admin, err := uc.userRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if admin == nil || !admin.IsAdmin() {
			return nil, fmt.Errorf("%w: el admin indicado no existe", domain.ErrInvalidInput)
		}
		adminID = &admin.ID
	}

	email := entity.NormalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		AdminID:      adminID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.issue(user)
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, entity.NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	return uc.issue(user)
}

// Authenticate resuelve la identidad de un bearer token contra el store.
// El rol efectivo es el persistido, no el del token.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (entity.Identity, error) {
	// email y role del token se ignoran: pueden haber cambiado desde la emisión.
	userID, _, _, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return entity.Identity{}, domain.ErrInvalidToken
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return entity.Identity{}, err
	}
	if user == nil {
		return entity.Identity{}, domain.ErrUnauthorized
	}
	return entity.IdentityOf(user), nil
}

// Me datos de la cuenta autenticada.
func (uc *AuthUseCase) Me(ctx context.Context, id entity.Identity) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return toUserResponse(user), nil
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: *toUserResponse(user)}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		AdminID:   u.AdminID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
