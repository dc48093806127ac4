package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/product_api/internal/cache"
	"github.com/Skotchmaster/product_api/internal/events"
	"github.com/Skotchmaster/product_api/internal/hash"
	"github.com/Skotchmaster/product_api/internal/models"
	"github.com/Skotchmaster/product_api/internal/policy"
	"github.com/Skotchmaster/product_api/internal/transport"
)

type UserService struct {
	DB       *gorm.DB
	Cache    cache.Store
	Log      *slog.Logger
	Producer *events.Producer
	Masking  transport.MaskStrategy
}

type CreateUserInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type UpdateUserInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
}

func userCacheKey(id uint) string {
	return fmt.Sprintf("user_%d", id)
}

func (s *UserService) project(u *models.User, principal *models.Principal) transport.UserDTO {
	return transport.NewUserDTO(u, policy.CanViewUserDetails(principal, u.ID), s.Masking)
}

func (s *UserService) List(ctx context.Context, q transport.PageQuery, principal *models.Principal) (*transport.Page[transport.UserDTO], error) {
	q.Clamp()

	query := s.DB.WithContext(ctx).Model(&models.User{})
	if q.Search != "" {
		query = query.Where("first_name LIKE ?", "%"+q.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.Log.Error("count users failed", "error", err)
		return nil, err
	}

	var users []models.User
	if err := query.Order("created_at DESC").Limit(q.Limit).Offset(q.Offset).Find(&users).Error; err != nil {
		s.Log.Error("list users failed", "error", err)
		return nil, err
	}

	dtos := make([]transport.UserDTO, len(users))
	for i := range users {
		dtos[i] = s.project(&users[i], principal)
	}

	return &transport.Page[transport.UserDTO]{Items: dtos, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

func (s *UserService) Get(ctx context.Context, id uint, principal *models.Principal) (*transport.UserDTO, error) {
	var user models.User

	key := userCacheKey(id)
	if raw, err := s.Cache.Get(ctx, key); err == nil {
		if err := json.Unmarshal(raw, &user); err == nil {
			dto := s.project(&user, principal)
			return &dto, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.Log.Error("cache get failed", "key", key, "error", err)
	}

	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.Log.Warn("user not found", "user_id", id)
			return nil, ErrNotFound
		}
		s.Log.Error("get user failed", "user_id", id, "error", err)
		return nil, err
	}

	if raw, err := json.Marshal(&user); err == nil {
		if err := s.Cache.Set(ctx, key, raw); err != nil {
			s.Log.Error("cache set failed", "key", key, "error", err)
		}
	}

	dto := s.project(&user, principal)
	return &dto, nil
}

// Create registers a new user. Registration is open to anyone; the email
// unique index is the authority on duplicates, the lookup here only gives a
// friendlier early answer.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*transport.UserDTO, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || !strings.Contains(in.Email, "@") || in.Password == "" {
		return nil, ErrValidation
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !models.ValidRole(in.Role) {
		return nil, ErrValidation
	}

	var existing models.User
	err := s.DB.WithContext(ctx).Where("email = ?", in.Email).First(&existing).Error
	if err == nil {
		s.Log.Warn("duplicate email on registration", "email", in.Email)
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.Log.Error("email lookup failed", "error", err)
		return nil, err
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		s.Log.Error("password hash failed", "error", err)
		return nil, err
	}

	user := models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: pwHash,
		Role:         in.Role,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		s.Log.Error("create user failed", "error", err)
		return nil, err
	}

	s.Log.Info("user created", "user_id", user.ID)
	s.publish(ctx, map[string]any{"type": "user_registered", "user_id": user.ID})

	dto := transport.NewUserDTO(&user, true, s.Masking)
	return &dto, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput, principal *models.Principal) (*transport.UserDTO, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.Log.Warn("user not found for update", "user_id", id)
			return nil, ErrNotFound
		}
		s.Log.Error("load user failed", "user_id", id, "error", err)
		return nil, err
	}

	if err := policy.CanUpdateUser(principal, user.ID); err != nil {
		s.Log.Warn("forbidden user update", "user_id", id, "principal_id", principalID(principal))
		return nil, err
	}

	if in.Email != nil && *in.Email != user.Email {
		var existing models.User
		err := s.DB.WithContext(ctx).Where("email = ?", *in.Email).First(&existing).Error
		if err == nil {
			return nil, ErrEmailTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.Log.Error("email lookup failed", "error", err)
			return nil, err
		}
		user.Email = *in.Email
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Password != nil {
		pwHash, err := hash.HashPassword(*in.Password)
		if err != nil {
			s.Log.Error("password hash failed", "error", err)
			return nil, err
		}
		user.PasswordHash = pwHash
	}
	if in.Role != nil {
		if !models.ValidRole(*in.Role) {
			return nil, ErrValidation
		}
		user.Role = *in.Role
	}

	if err := s.DB.WithContext(ctx).Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		s.Log.Error("save user failed", "user_id", id, "error", err)
		return nil, err
	}

	// invalidate only after the write succeeded
	if err := s.Cache.Del(ctx, userCacheKey(id)); err != nil {
		s.Log.Error("cache del failed", "key", userCacheKey(id), "error", err)
	}

	s.Log.Info("user updated", "user_id", user.ID, "by", principal.ID)
	s.publish(ctx, map[string]any{"type": "user_updated", "user_id": user.ID})

	dto := transport.NewUserDTO(&user, true, s.Masking)
	return &dto, nil
}

func (s *UserService) Delete(ctx context.Context, id uint, principal *models.Principal) error {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.Log.Warn("user not found for delete", "user_id", id)
			return ErrNotFound
		}
		s.Log.Error("load user failed", "user_id", id, "error", err)
		return err
	}

	if err := policy.CanDeleteUser(principal, user.ID); err != nil {
		s.Log.Warn("user delete denied", "user_id", id, "principal_id", principalID(principal))
		return err
	}

	if err := s.DB.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		s.Log.Error("delete user failed", "user_id", id, "error", err)
		return err
	}

	if err := s.Cache.Del(ctx, userCacheKey(id)); err != nil {
		s.Log.Error("cache del failed", "key", userCacheKey(id), "error", err)
	}

	s.Log.Info("user deleted", "user_id", id, "by", principal.ID)
	s.publish(ctx, map[string]any{"type": "user_deleted", "user_id": id})
	return nil
}

func (s *UserService) publish(ctx context.Context, event map[string]any) {
	if err := s.Producer.PublishEvent(ctx, events.TopicUserEvents, fmt.Sprint(event["user_id"]), event); err != nil {
		s.Log.Error("kafka publish failed", "error", err)
	}
}
