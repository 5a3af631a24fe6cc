package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tourlog/internal/apperr"
	"tourlog/internal/auth"
	"tourlog/internal/model"
	"tourlog/internal/repository"
)

// --- DTOs ---

type RegisterRequest struct {
	Username    string     `json:"username" validate:"required,min=3,max=100"`
	Password    string     `json:"password" validate:"required,min=6,max=72"`
	DisplayName string     `json:"displayName" validate:"required,max=255"`
	Role        model.Role `json:"role" validate:"omitempty,role"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Username    string             `json:"username" validate:"required,min=3,max=100"`
	Password    string             `json:"password" validate:"required,min=6,max=72"`
	DisplayName string             `json:"displayName" validate:"required,max=255"`
	Role        model.Role         `json:"role" validate:"required,role"`
	Permissions []model.Permission `json:"permissions" validate:"dive,permission"`
}

// UpdateUserRequest changes only the supplied fields
type UpdateUserRequest struct {
	DisplayName *string             `json:"displayName" validate:"omitnil,min=1,max=255"`
	Role        *model.Role         `json:"role" validate:"omitnil,role"`
	Permissions *[]model.Permission `json:"permissions" validate:"omitnil,dive,permission"`
	Password    *string             `json:"password" validate:"omitnil,min=6,max=72"`
}

type UserResponse struct {
	ID          string             `json:"id"`
	Username    string             `json:"username"`
	DisplayName string             `json:"displayName"`
	Role        model.Role         `json:"role"`
	Permissions []model.Permission `json:"permissions"`
	CreatedAt   string             `json:"createdAt"`
	UpdatedAt   string             `json:"updatedAt"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// ClaimsResponse echoes a verified token back to its holder
type ClaimsResponse struct {
	ID          string             `json:"id"`
	Username    string             `json:"username"`
	DisplayName string             `json:"displayName"`
	Role        model.Role         `json:"role"`
	Permissions []model.Permission `json:"permissions"`
	ExpiresAt   string             `json:"expiresAt,omitempty"`
}

// --- Interfaces ---

// AuthService handles self-service registration and sign-in
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
}

// UserService handles identity administration
type UserService interface {
	List(ctx context.Context) ([]UserResponse, error)
	Create(ctx context.Context, actor Actor, req CreateUserRequest) (*UserResponse, error)
	Update(ctx context.Context, actor Actor, id string, req UpdateUserRequest) (*UserResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

// --- Implementation ---

type userService struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	tokens    *auth.TokenService
}

func NewAuthService(
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	tokens *auth.TokenService,
) AuthService {
	return &userService{userRepo: userRepo, auditRepo: auditRepo, txManager: txManager, tokens: tokens}
}

func NewUserService(
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) UserService {
	return &userService{userRepo: userRepo, auditRepo: auditRepo, txManager: txManager}
}

func toUserResponse(u *model.User) UserResponse {
	perms := make([]model.Permission, 0, len(u.Permissions))
	perms = append(perms, u.Permissions...)
	return UserResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Permissions: perms,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   u.UpdatedAt.Format(time.RFC3339),
	}
}

// ClaimsView renders the claims of the current token
func ClaimsView(c *auth.Claims) ClaimsResponse {
	resp := ClaimsResponse{
		ID:          c.UserID,
		Username:    c.Username,
		DisplayName: c.DisplayName,
		Role:        c.Role,
		Permissions: c.Permissions,
	}
	if resp.Permissions == nil {
		resp.Permissions = []model.Permission{}
	}
	if c.ExpiresAt != nil {
		resp.ExpiresAt = c.ExpiresAt.Format(time.RFC3339)
	}
	return resp
}

func (s *userService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	// The first identity bootstraps the system and keeps the role it asked for.
	// The count runs under the registration lock so concurrent sign-ups see each other.
	roleFor := func(txCtx context.Context) (model.Role, error) {
		if err := s.userRepo.LockRegistration(txCtx); err != nil {
			return "", err
		}
		total, err := s.userRepo.Count(txCtx)
		if err != nil {
			return "", err
		}
		if total == 0 && req.Role != "" {
			return req.Role, nil
		}
		return model.RoleUser, nil
	}

	user, err := s.createUser(ctx, Actor{Username: req.Username}, req.Username, req.Password, req.DisplayName, roleFor, nil)
	if err != nil {
		return nil, err
	}
	return s.authResponse(user)
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("Invalid username or password")
		}
		return nil, apperr.Internal(err)
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid username or password")
	}
	return s.authResponse(user)
}

func (s *userService) authResponse(user *model.User) (*AuthResponse, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &AuthResponse{User: toUserResponse(user), Token: token}, nil
}

func (s *userService) List(ctx context.Context) ([]UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	res := make([]UserResponse, 0, len(users))
	for i := range users {
		res = append(res, toUserResponse(&users[i]))
	}
	return res, nil
}

func (s *userService) Create(ctx context.Context, actor Actor, req CreateUserRequest) (*UserResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	user, err := s.createUser(ctx, actor, req.Username, req.Password, req.DisplayName, fixedRole(req.Role), req.Permissions)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func fixedRole(role model.Role) func(context.Context) (model.Role, error) {
	return func(context.Context) (model.Role, error) { return role, nil }
}

// createUser stores a new identity. roleFor runs inside the transaction.
func (s *userService) createUser(ctx context.Context, actor Actor, username, password, displayName string, roleFor func(context.Context) (model.Role, error), perms []model.Permission) (*model.User, error) {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, apperr.Conflict("Username already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		DisplayName:  displayName,
		Permissions:  dedupePermissions(perms),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		role, err := roleFor(txCtx)
		if err != nil {
			return fmt.Errorf("failed to resolve role: %w", err)
		}
		user.Role = role
		if err := s.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		if actor.ID == nil {
			actor.ID = &user.ID
		}
		details := map[string]interface{}{"username": user.Username, "role": user.Role, "permissions": user.Permissions}
		audit := newAuditEntry(actor, model.ActionCreateUser, user.ID.String(), user.Username, details)
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.Conflict("Username already exists")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	log.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("user created")
	return user, nil
}

func (s *userService) Update(ctx context.Context, actor Actor, id string, req UpdateUserRequest) (*UserResponse, error) {
	if req.DisplayName == nil && req.Role == nil && req.Permissions == nil && req.Password == nil {
		return nil, apperr.Validation("no fields supplied")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	uid, err := parseID(id, "User")
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("User")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	changed := make(map[string]interface{})
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
		changed["displayName"] = user.DisplayName
	}
	if req.Role != nil {
		if actor.ID != nil && *actor.ID == user.ID && *req.Role != user.Role {
			return nil, apperr.Forbidden("You cannot change your own role")
		}
		user.Role = *req.Role
		changed["role"] = user.Role
	}
	if req.Permissions != nil {
		user.Permissions = dedupePermissions(*req.Permissions)
		changed["permissions"] = user.Permissions
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		user.PasswordHash = hash
		changed["password"] = "changed"
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return err
		}
		audit := newAuditEntry(actor, model.ActionUpdateUser, user.ID.String(), user.Username, changed)
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Delete(ctx context.Context, actor Actor, id string) error {
	uid, err := parseID(id, "User")
	if err != nil {
		return err
	}
	if actor.ID != nil && *actor.ID == uid {
		return apperr.Forbidden("You cannot delete your own account")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		deleted, err := s.userRepo.Delete(txCtx, uid)
		if err != nil {
			return err
		}
		if !deleted {
			return apperr.NotFound("User")
		}
		audit := newAuditEntry(actor, model.ActionDeleteUser, uid.String(), "", map[string]string{"deleted_id": uid.String()})
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		if apperr.As(err) != nil {
			return err
		}
		return apperr.Internal(err)
	}
	return nil
}

func dedupePermissions(perms []model.Permission) []model.Permission {
	out := make([]model.Permission, 0, len(perms))
	seen := make(map[model.Permission]bool, len(perms))
	for _, p := range perms {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
